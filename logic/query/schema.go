package query

// Kind 决定筛选值如何编码
type Kind string

const (
	Scalar   Kind = "scalar"
	Multi    Kind = "multi"
	DateFrom Kind = "date_from"
	DateTo   Kind = "date_to"
	Date     Kind = "date"
)

// AnyValue 表示"任意非空值"，不会作为字面值发送
const AnyValue = "__ANY__"

// Field 是筛选项到请求参数的映射，每个概念只有一个标准字段名
type Field struct {
	Name string `yaml:"name" json:"name"`
	Key  string `yaml:"key" json:"key"`
	Kind Kind   `yaml:"kind" json:"kind"`
	// NotEmptyKey 非空时，AnyValue 被翻译为 NotEmptyKey=true
	NotEmptyKey string `yaml:"not_empty_key,omitempty" json:"not_empty_key,omitempty"`
}

// DefaultFields 与后端 update/list 接口使用同一套字段名
var DefaultFields = []Field{
	{Name: "status", Key: "status", Kind: Multi, NotEmptyKey: "status_not_empty"},
	{Name: "status_delivery", Key: "status_delivery", Kind: Multi},
	{Name: "region", Key: "region", Kind: Scalar},
	{Name: "lsp", Key: "lsp", Kind: Scalar},
	{Name: "remark", Key: "remark", Kind: Scalar},
	{Name: "date_from", Key: "date_from", Kind: DateFrom},
	{Name: "date_to", Key: "date_to", Kind: DateTo},
	{Name: "plan_date", Key: "plan_date", Kind: Date},
}

// FilterSet 筛选名 -> 值；单值即长度为 1 的切片。缺失表示不按该字段约束
type FilterSet map[string][]string

// Set 返回自身，便于链式构造；nil 接收者会新建一个
func (f FilterSet) Set(name string, values ...string) FilterSet {
	if f == nil {
		f = FilterSet{}
	}
	f[name] = values
	return f
}
