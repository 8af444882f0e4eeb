package query

import (
	"strings"
	"time"
)

// 日期筛选固定按 UTC+7 解释，与客户端所在时区无关
var refZone = time.FixedZone("UTC+7", 7*60*60)

const isoMillis = "2006-01-02T15:04:05.000Z"

// anchorDate 把 YYYY-MM-DD 转换成 UTC+7 下对应时刻的 UTC ISO 字符串。
// 解析失败返回 false，调用方直接忽略该筛选
func anchorDate(value string, kind Kind) (string, bool) {
	day, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(value), refZone)
	if err != nil {
		return "", false
	}
	var t time.Time
	switch kind {
	case DateFrom:
		t = day
	case DateTo:
		t = day.Add(24*time.Hour - time.Millisecond)
	default:
		t = day.Add(12 * time.Hour)
	}
	return t.UTC().Format(isoMillis), true
}
