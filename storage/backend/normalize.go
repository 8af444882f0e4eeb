package backend

import (
	"encoding/json"
	"strconv"
	"strings"

	"du-console/types"
)

// recordAliases 标准字段 -> 后端可能返回的拼写（按优先级）。
// 别名只在这里处理，渲染和导出代码只认 types.Record
var recordAliases = map[string][]string{
	"id":              {"id", "_id", "record_id"},
	"du_id":           {"du_id", "duId", "du", "DU_ID"},
	"dn_number":       {"dn_number", "dnNumber", "dn_no", "dn", "DN_NUMBER"},
	"status":          {"status", "scan_status"},
	"status_delivery": {"status_delivery", "statusDelivery", "delivery_status"},
	"remark":          {"remark", "remarks", "note"},
	"photo_url":       {"photo_url", "photoUrl", "photo", "image_url", "image"},
	"lsp":             {"lsp", "lsp_name", "logistic_provider", "carrier", "vendor"},
	"region":          {"region", "area", "province"},
	"plan_date":       {"plan_date", "plan_mos", "planDate"},
	"lat":             {"lat", "latitude"},
	"lng":             {"lng", "lon", "longitude"},
	"updated_by":      {"updated_by", "updatedBy", "operator"},
	"created_at":      {"created_at", "createdAt", "create_time"},
	"updated_at":      {"updated_at", "updatedAt", "update_time", "last_updated"},
}

var pageAliases = map[string][]string{
	"items": {"items", "data", "results", "records"},
	"total": {"total", "count", "total_count"},
}

func lookup(raw map[string]any, table map[string][]string, canonical string) (any, bool) {
	for _, k := range table[canonical] {
		if v, ok := raw[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func str(raw map[string]any, canonical string) string {
	v, ok := lookup(raw, recordAliases, canonical)
	if !ok {
		return ""
	}
	return toString(v)
}

func toString(v any) string {
	switch x := v.(type) {
	case string:
		return strings.TrimSpace(x)
	case json.Number:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case nil:
		return ""
	default:
		b, _ := json.Marshal(x)
		return string(b)
	}
}

func number(raw map[string]any, canonical string) *float64 {
	v, ok := lookup(raw, recordAliases, canonical)
	if !ok {
		return nil
	}
	f, err := strconv.ParseFloat(toString(v), 64)
	if err != nil {
		return nil
	}
	return &f
}

// NormalizeRecord 把后端原始对象映射为 types.Record
func NormalizeRecord(raw map[string]any) types.Record {
	return types.Record{
		ID:             str(raw, "id"),
		DUID:           str(raw, "du_id"),
		DNNumber:       str(raw, "dn_number"),
		Status:         str(raw, "status"),
		StatusDelivery: str(raw, "status_delivery"),
		Remark:         str(raw, "remark"),
		PhotoURL:       str(raw, "photo_url"),
		LSP:            str(raw, "lsp"),
		Region:         str(raw, "region"),
		PlanDate:       str(raw, "plan_date"),
		Latitude:       number(raw, "lat"),
		Longitude:      number(raw, "lng"),
		UpdatedBy:      str(raw, "updated_by"),
		CreatedAt:      str(raw, "created_at"),
		UpdatedAt:      str(raw, "updated_at"),
	}
}

// normalizePage 兼容 {items,total}、{data:{items,total}} 以及裸数组
func normalizePage(body any) types.Page {
	switch x := body.(type) {
	case []any:
		items := records(x)
		return types.Page{Items: items, Total: len(items)}
	case map[string]any:
		if inner, ok := x["data"].(map[string]any); ok {
			return normalizePage(inner)
		}
		var page types.Page
		if v, ok := lookup(x, pageAliases, "items"); ok {
			if arr, ok := v.([]any); ok {
				page.Items = records(arr)
			}
		}
		if v, ok := lookup(x, pageAliases, "total"); ok {
			if n, err := strconv.Atoi(toString(v)); err == nil {
				page.Total = n
			}
		} else {
			page.Total = len(page.Items)
		}
		if page.Items == nil {
			page.Items = []types.Record{}
		}
		return page
	}
	return types.Page{Items: []types.Record{}}
}

func records(arr []any) []types.Record {
	out := make([]types.Record, 0, len(arr))
	for _, it := range arr {
		if m, ok := it.(map[string]any); ok {
			out = append(out, NormalizeRecord(m))
		}
	}
	return out
}
