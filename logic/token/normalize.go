package token

import (
	"regexp"
	"strings"
)

// 分隔符：ASCII/全角逗号、分号、顿号以及各类 Unicode 空白（含 NBSP、U+2028），连续出现视为一个。
// 零宽字符与 BOM 不在其中，由 Normalize 删除
var separatorRe = regexp.MustCompile(`[,，;；、\s\p{Z}\x{0085}]+`)

var invisibleReplacer = strings.NewReplacer(
	"\u200B", "",
	"\u200C", "",
	"\u200D", "",
	"\uFEFF", "",
)

// Normalize 去掉零宽字符/BOM 并转大写，所有比较都基于该形式
func Normalize(s string) string {
	return strings.ToUpper(invisibleReplacer.Replace(s))
}

// IsSeparator 判断整段文本是否全部由分隔符组成
func IsSeparator(s string) bool {
	if s == "" {
		return false
	}
	loc := separatorRe.FindStringIndex(s)
	return loc != nil && loc[0] == 0 && loc[1] == len(s)
}

// Segment 是原始输入中的一段：要么是分隔符串，要么是候选 token
type Segment struct {
	Text      string
	Separator bool
}

// Split 无损切分：所有 Segment.Text 依次拼接等于原文
func Split(raw string) []Segment {
	var segs []Segment
	last := 0
	for _, loc := range separatorRe.FindAllStringIndex(raw, -1) {
		if loc[0] > last {
			segs = append(segs, Segment{Text: raw[last:loc[0]]})
		}
		segs = append(segs, Segment{Text: raw[loc[0]:loc[1]], Separator: true})
		last = loc[1]
	}
	if last < len(raw) {
		segs = append(segs, Segment{Text: raw[last:]})
	}
	return segs
}
