package token

import (
	"fmt"
	"regexp"
	"strings"
)

// Validity 单个 token 的校验结果
type Validity int

const (
	Invalid Validity = iota
	Valid
	Partial
)

func (v Validity) String() string {
	switch v {
	case Valid:
		return "valid"
	case Partial:
		return "partial"
	default:
		return "invalid"
	}
}

func (v Validity) MarshalText() ([]byte, error) { return []byte(v.String()), nil }

func (v *Validity) UnmarshalText(b []byte) error {
	switch string(b) {
	case "valid":
		*v = Valid
	case "partial":
		*v = Partial
	case "invalid":
		*v = Invalid
	default:
		return fmt.Errorf("unknown validity %q", b)
	}
	return nil
}

// Class 为 Classify 的返回值
type Class struct {
	Validity Validity
	// Letters 仅对固定前缀语法的 Partial 有意义：前缀每个字母是否已输入
	Letters []bool
	// Digits 已输入的数字个数（固定前缀语法）
	Digits int
}

// Grammar 标识符语法。实现必须是纯函数，输入假定已 Normalize
type Grammar interface {
	Name() string
	Classify(tok string) Class
}

// PrefixGrammar 为 "前缀 + 固定位数数字"，支持逐字符的 partial 高亮
type PrefixGrammar struct {
	Prefix string
	Digits int
}

// DUGrammar 即 DID + 13 位数字
var DUGrammar = PrefixGrammar{Prefix: "DID", Digits: 13}

func (g PrefixGrammar) Name() string { return "prefix:" + g.Prefix }

func (g PrefixGrammar) Classify(tok string) Class {
	n := len(g.Prefix)
	// 还在输入前缀
	if len(tok) <= n {
		if tok != "" && strings.HasPrefix(g.Prefix, tok) {
			return Class{Validity: Partial, Letters: g.letters(len(tok))}
		}
		return Class{Validity: Invalid}
	}
	if !strings.HasPrefix(tok, g.Prefix) {
		return Class{Validity: Invalid}
	}
	rest := tok[n:]
	for i := 0; i < len(rest); i++ {
		if rest[i] < '0' || rest[i] > '9' {
			return Class{Validity: Invalid}
		}
	}
	switch {
	case len(rest) == g.Digits:
		return Class{Validity: Valid, Digits: len(rest)}
	case len(rest) < g.Digits:
		return Class{Validity: Partial, Letters: g.letters(n), Digits: len(rest)}
	default:
		return Class{Validity: Invalid, Digits: len(rest)}
	}
}

func (g PrefixGrammar) letters(typed int) []bool {
	out := make([]bool, len(g.Prefix))
	for i := range out {
		out[i] = i < typed
	}
	return out
}

// IsBarePrefix 仅有前缀、没有数字的占位 token
func (g PrefixGrammar) IsBarePrefix(tok string) bool {
	return tok == g.Prefix
}

// PatternGrammar 为整串正则匹配，无 partial 状态
type PatternGrammar struct {
	name string
	re   *regexp.Regexp
}

func NewPatternGrammar(name, pattern string) (PatternGrammar, error) {
	re, err := regexp.Compile(`^(?:` + pattern + `)$`)
	if err != nil {
		return PatternGrammar{}, fmt.Errorf("compile grammar %s: %w", name, err)
	}
	return PatternGrammar{name: name, re: re}, nil
}

func (g PatternGrammar) Name() string { return g.name }

func (g PatternGrammar) Classify(tok string) Class {
	if g.re != nil && g.re.MatchString(tok) {
		return Class{Validity: Valid}
	}
	return Class{Validity: Invalid}
}

var (
	// DNGrammar: 2 个字母 + 3 位字母数字 + 9~13 位数字
	DNGrammar = mustPattern("dn", `[A-Z]{2}[A-Z0-9]{3}[0-9]{9,13}`)
	// DNLooseGrammar: 字母数字与短横线，1~64 位
	DNLooseGrammar = mustPattern("dn-loose", `[A-Z0-9-]{1,64}`)
)

func mustPattern(name, pattern string) PatternGrammar {
	g, err := NewPatternGrammar(name, pattern)
	if err != nil {
		panic(err)
	}
	return g
}

// GrammarByName 按配置名称取语法
func GrammarByName(name string) (Grammar, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "du", "did":
		return DUGrammar, nil
	case "dn":
		return DNGrammar, nil
	case "dn-loose", "loose":
		return DNLooseGrammar, nil
	}
	return nil, fmt.Errorf("unknown grammar %q", name)
}
