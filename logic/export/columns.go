package export

import (
	"strconv"

	"du-console/types"
)

// Column 为导出的一列。URL 为 true 时值会被解析成绝对地址
type Column struct {
	Header string
	Value  func(r types.Record) string
	URL    bool
}

func coord(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}

// DefaultColumns 与管理端表格一致
var DefaultColumns = []Column{
	{Header: "id", Value: func(r types.Record) string { return r.ID }},
	{Header: "du_id", Value: func(r types.Record) string { return r.DUID }},
	{Header: "dn_number", Value: func(r types.Record) string { return r.DNNumber }},
	{Header: "status", Value: func(r types.Record) string { return r.Status }},
	{Header: "status_delivery", Value: func(r types.Record) string { return r.StatusDelivery }},
	{Header: "remark", Value: func(r types.Record) string { return r.Remark }},
	{Header: "lsp", Value: func(r types.Record) string { return r.LSP }},
	{Header: "region", Value: func(r types.Record) string { return r.Region }},
	{Header: "plan_date", Value: func(r types.Record) string { return r.PlanDate }},
	{Header: "lat", Value: func(r types.Record) string { return coord(r.Latitude) }},
	{Header: "lng", Value: func(r types.Record) string { return coord(r.Longitude) }},
	{Header: "photo_url", Value: func(r types.Record) string { return r.PhotoURL }, URL: true},
	{Header: "updated_by", Value: func(r types.Record) string { return r.UpdatedBy }},
	{Header: "created_at", Value: func(r types.Record) string { return r.CreatedAt }},
	{Header: "updated_at", Value: func(r types.Record) string { return r.UpdatedAt }},
}

// rows 生成表头与数据行，resolve 可为 nil
func rows(cols []Column, records []types.Record, resolve func(string) string) [][]string {
	out := make([][]string, 0, len(records)+1)
	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = c.Header
	}
	out = append(out, header)
	for _, r := range records {
		row := make([]string, len(cols))
		for i, c := range cols {
			v := c.Value(r)
			if c.URL && resolve != nil {
				v = resolve(v)
			}
			row[i] = v
		}
		out = append(out, row)
	}
	return out
}
