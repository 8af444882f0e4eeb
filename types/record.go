package types

// Record 为一条 DU/DN 记录，字段名与后端 update/list 接口一致。
// 后端的其他拼写在 storage/backend 的别名表中统一映射到这里
type Record struct {
	ID             string   `json:"id"`
	DUID           string   `json:"du_id"`
	DNNumber       string   `json:"dn_number"`
	Status         string   `json:"status"`
	StatusDelivery string   `json:"status_delivery"`
	Remark         string   `json:"remark"`
	PhotoURL       string   `json:"photo_url"`
	LSP            string   `json:"lsp"`
	Region         string   `json:"region"`
	PlanDate       string   `json:"plan_date"`
	Latitude       *float64 `json:"lat,omitempty"`
	Longitude      *float64 `json:"lng,omitempty"`
	UpdatedBy      string   `json:"updated_by"`
	CreatedAt      string   `json:"created_at"`
	UpdatedAt      string   `json:"updated_at"`
}

// Page 为列表接口的一页
type Page struct {
	Items []Record `json:"items"`
	Total int      `json:"total"`
}

// Pages 按 ceil(total/pageSize) 计算总页数
func Pages(total, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}
