// Package highlight 把输入框原文渲染成带分类标记的片段，用于覆盖在 textarea 上方。
// 渲染是纯函数；滚动位置同步由调用方负责。
package highlight

import (
	"html"
	"strings"

	"du-console/logic/token"
)

// Kind 片段类别
type Kind string

const (
	KindSeparator Kind = "sep"
	KindOK        Kind = "ok"
	KindBad       Kind = "bad"
	KindLetters   Kind = "letters"
	KindPartial   Kind = "partial"
)

// Letter 前缀逐字母渲染时的一个字母；未输入的字母只作为提示，不属于原文
type Letter struct {
	Char   string `json:"char"`
	Active bool   `json:"active"`
}

type Span struct {
	Kind    Kind     `json:"kind"`
	Text    string   `json:"text"`
	Letters []Letter `json:"letters,omitempty"`
}

// Fragment 渲染结果。Spans 的 Text 依次拼接等于原文；Tail 只用于撑开覆盖层高度
type Fragment struct {
	Spans []Span `json:"spans"`
	Tail  string `json:"tail"`
}

// tail 保证最后一行换行后覆盖层高度仍与 textarea 一致
const tail = "\n\u200B"

// Text 还原原文
func (f Fragment) Text() string {
	var b strings.Builder
	for _, s := range f.Spans {
		b.WriteString(s.Text)
	}
	return b.String()
}

type Renderer struct {
	Grammar token.Grammar
}

func (r Renderer) Render(raw string) Fragment {
	segs := token.Split(raw)
	spans := make([]Span, 0, len(segs))
	for _, seg := range segs {
		spans = append(spans, r.span(seg))
	}
	return Fragment{Spans: spans, Tail: tail}
}

func (r Renderer) span(seg token.Segment) Span {
	if seg.Separator {
		return Span{Kind: KindSeparator, Text: seg.Text}
	}
	norm := token.Normalize(seg.Text)
	if norm == "" {
		// 只有零宽字符
		return Span{Kind: KindSeparator, Text: seg.Text}
	}
	cls := r.Grammar.Classify(norm)
	switch cls.Validity {
	case token.Valid:
		return Span{Kind: KindOK, Text: seg.Text}
	case token.Partial:
		// 已开始输入数字但不足位数，仍按不合法显示
		if cls.Digits > 0 {
			return Span{Kind: KindBad, Text: seg.Text}
		}
		if letters, ok := r.letters(seg.Text, cls); ok {
			return Span{Kind: KindLetters, Text: seg.Text, Letters: letters}
		}
		return Span{Kind: KindPartial, Text: seg.Text}
	default:
		return Span{Kind: KindBad, Text: seg.Text}
	}
}

func (r Renderer) letters(raw string, cls token.Class) ([]Letter, bool) {
	g, ok := r.Grammar.(token.PrefixGrammar)
	if !ok {
		return nil, false
	}
	typed := []rune(raw)
	prefix := []rune(g.Prefix)
	if len(cls.Letters) != len(prefix) {
		return nil, false
	}
	out := make([]Letter, len(prefix))
	n := 0
	for i, active := range cls.Letters {
		if active {
			n++
			if i >= len(typed) {
				return nil, false
			}
			out[i] = Letter{Char: string(typed[i]), Active: true}
			continue
		}
		out[i] = Letter{Char: string(prefix[i])}
	}
	// 原文中夹带零宽字符时无法逐字母对应
	if n != len(typed) {
		return nil, false
	}
	return out, true
}

// HTML 生成覆盖层标记。提示字母放在 data-ghost 属性里，由 CSS 显示，不进入文本内容
func (f Fragment) HTML() string {
	var b strings.Builder
	for _, s := range f.Spans {
		switch s.Kind {
		case KindLetters:
			b.WriteString(`<span class="hl-letters">`)
			for _, l := range s.Letters {
				if l.Active {
					b.WriteString(`<span class="hl-letter on">`)
					b.WriteString(html.EscapeString(l.Char))
					b.WriteString(`</span>`)
					continue
				}
				b.WriteString(`<span class="hl-letter off" data-ghost="`)
				b.WriteString(html.EscapeString(l.Char))
				b.WriteString(`"></span>`)
			}
			b.WriteString(`</span>`)
		default:
			b.WriteString(`<span class="hl-`)
			b.WriteString(string(s.Kind))
			b.WriteString(`">`)
			b.WriteString(html.EscapeString(s.Text))
			b.WriteString(`</span>`)
		}
	}
	b.WriteString(`<span class="hl-tail" aria-hidden="true">`)
	b.WriteString(html.EscapeString(f.Tail))
	b.WriteString(`</span>`)
	return b.String()
}
