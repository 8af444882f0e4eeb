package token

// Tokenizer 把多行/逗号/空白分隔的文本切成去重且保持首次出现顺序的 token 列表
type Tokenizer struct {
	Grammar Grammar
	// DropPlaceholder 为 true 时，恰好等于前缀的 token（如 "DID"）不计入结果，
	// 仅由高亮保留（管理端 DU 输入框）
	DropPlaceholder bool
}

// Tokenize 见 Tokenizer 注释
func (t Tokenizer) Tokenize(raw string) []string {
	var list List
	for _, seg := range Split(raw) {
		if seg.Separator {
			continue
		}
		tok := Normalize(seg.Text)
		if tok == "" || t.isPlaceholder(tok) {
			continue
		}
		list.Add(tok)
	}
	return list.Items()
}

func (t Tokenizer) isPlaceholder(tok string) bool {
	if !t.DropPlaceholder {
		return false
	}
	g, ok := t.Grammar.(PrefixGrammar)
	return ok && g.IsBarePrefix(tok)
}

// Classify 对 token 列表逐个分类
func (t Tokenizer) Classify(tokens []string) []Class {
	out := make([]Class, len(tokens))
	for i, tok := range tokens {
		out[i] = t.Grammar.Classify(tok)
	}
	return out
}

// Invalid 返回列表中不合法的 token（Partial 也算不合法，提交前必须补全）
func (t Tokenizer) Invalid(tokens []string) []string {
	var bad []string
	for _, tok := range tokens {
		if t.Grammar.Classify(tok).Validity != Valid {
			bad = append(bad, tok)
		}
	}
	return bad
}

// List 为按首次出现排序、不重复的 token 序列
type List struct {
	items []string
	seen  map[string]struct{}
}

// NewList 用已有 token 初始化
func NewList(tokens ...string) *List {
	l := &List{}
	for _, tok := range tokens {
		l.Add(tok)
	}
	return l
}

// Add 插入 token，已存在时忽略。返回是否新增
func (l *List) Add(tok string) bool {
	if l.seen == nil {
		l.seen = make(map[string]struct{})
	}
	if _, ok := l.seen[tok]; ok {
		return false
	}
	l.seen[tok] = struct{}{}
	l.items = append(l.items, tok)
	return true
}

func (l *List) Len() int { return len(l.items) }

// Items 返回副本
func (l *List) Items() []string {
	out := make([]string, len(l.items))
	copy(out, l.items)
	return out
}
