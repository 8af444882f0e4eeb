package types

// 记录状态。前端下拉框与仪表盘统计用同一组值
const (
	StatusArrived       = "ARRIVED"
	StatusOnTheWay      = "ON THE WAY"
	StatusPOD           = "POD"
	StatusNoStatus      = "NO STATUS"
	StatusWaitingPIC    = "WAITING PIC FEEDBACK"
	StatusTransitCenter = "TRANSIT CENTER"
)

// TokenRequest 对应输入框的一次事件
type TokenRequest struct {
	Type      string `json:"type"` // input|paste|reset
	Text      string `json:"text"`
	Caret     *int   `json:"caret"`
	InputType string `json:"input_type"`
	Pasted    string `json:"pasted"`
}

// QueryRequest 搜索/导出/编译共用。Tokens 为空时从 Text 切分
type QueryRequest struct {
	Text     string              `json:"text"`
	Tokens   []string            `json:"tokens"`
	Filters  map[string][]string `json:"filters"`
	Page     int                 `json:"page"`
	PageSize int                 `json:"page_size"`
}

// UpdateRequest 为 multipart 表单中的文本字段；照片单独传递
type UpdateRequest struct {
	Status         string `form:"status"`
	StatusDelivery string `form:"status_delivery"`
	Remark         string `form:"remark"`
	UpdatedBy      string `form:"updated_by"`
}

// SearchResult 返回给页面的搜索结果
type SearchResult struct {
	Mode     string   `json:"mode"`
	Query    string   `json:"query"`
	Items    []Record `json:"items"`
	Total    int      `json:"total"`
	Page     int      `json:"page"`
	PageSize int      `json:"page_size"`
	Pages    int      `json:"pages"`
	Invalid  []string `json:"invalid,omitempty"`
}

// StatusCount 仪表盘中的一行
type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// Summary 仪表盘快照
type Summary struct {
	Profile   string        `json:"profile"`
	Counts    []StatusCount `json:"counts"`
	Total     int           `json:"total"`
	UpdatedAt string        `json:"updated_at"`
}
