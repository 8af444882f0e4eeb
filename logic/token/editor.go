package token

import (
	"strings"
	"unicode/utf8"
)

// EventType 输入框事件类型
type EventType string

const (
	EventInput EventType = "input"
	EventPaste EventType = "paste"
	EventReset EventType = "reset"
)

// Event 对应一次 input/paste/reset。Caret 为字符(rune)偏移
type Event struct {
	Type      EventType `json:"type"`
	Text      string    `json:"text"`
	Caret     int       `json:"caret"`
	InputType string    `json:"input_type,omitempty"`
	Pasted    string    `json:"pasted,omitempty"`
}

// State 为 Reduce 的输入与输出
type State struct {
	Text   string   `json:"text"`
	Caret  int      `json:"caret"`
	Tokens []string `json:"tokens"`
	Seeded bool     `json:"seeded"`
}

// Editor 是输入框的纯状态机：Reduce(state, event) -> state
type Editor struct {
	Tokenizer Tokenizer
	AutoSeed  bool
}

func (e Editor) Reduce(st State, ev Event) State {
	switch ev.Type {
	case EventReset:
		return State{Tokens: []string{}}
	case EventPaste:
		return e.paste(st, ev)
	default:
		return e.input(ev)
	}
}

func (e Editor) input(ev Event) State {
	text := ev.Text
	caret := clampCaret(text, ev.Caret)
	seeded := false
	if e.AutoSeed {
		text, caret, seeded = e.seed(text, caret, ev.InputType)
	}
	return State{Text: text, Caret: caret, Tokens: e.Tokenizer.Tokenize(text), Seeded: seeded}
}

// paste 把粘贴内容与已有 token 合并去重，每行一个
func (e Editor) paste(st State, ev Event) State {
	base := st.Text
	if ev.Text != "" {
		base = ev.Text
	}
	merged := NewList(e.Tokenizer.Tokenize(base)...)
	for _, tok := range e.Tokenizer.Tokenize(ev.Pasted) {
		merged.Add(tok)
	}
	text := strings.Join(merged.Items(), "\n")
	caret := utf8.RuneCountInString(text)
	seeded := false
	if e.AutoSeed {
		text, caret, seeded = e.seed(text, caret, "insertFromPaste")
	}
	return State{Text: text, Caret: caret, Tokens: e.Tokenizer.Tokenize(text), Seeded: seeded}
}

// seed 光标在末尾且最后一个 token 完整合法时，追加换行和前缀，方便连续扫码。
// 删除类输入永不触发
func (e Editor) seed(text string, caret int, inputType string) (string, int, bool) {
	g, ok := e.Tokenizer.Grammar.(PrefixGrammar)
	if !ok || strings.HasPrefix(inputType, "delete") {
		return text, caret, false
	}
	if caret != utf8.RuneCountInString(text) {
		return text, caret, false
	}
	last := lastCandidate(text)
	if last == "" || g.Classify(Normalize(last)).Validity != Valid {
		return text, caret, false
	}
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	text += g.Prefix
	return text, utf8.RuneCountInString(text), true
}

func lastCandidate(text string) string {
	segs := Split(text)
	for i := len(segs) - 1; i >= 0; i-- {
		if !segs[i].Separator {
			return segs[i].Text
		}
	}
	return ""
}

func clampCaret(text string, caret int) int {
	n := utf8.RuneCountInString(text)
	if caret < 0 || caret > n {
		return n
	}
	return caret
}
