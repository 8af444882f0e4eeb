// Package query 把 token 列表和筛选条件编译为后端查询参数。
//
// token 多于一个时进入批量模式：只发送 id（每个 token 一次）与分页参数，其余筛选全部忽略。
// 否则为单条/筛选模式。编码使用 url.Values.Encode，键有序，结果稳定。
package query

import (
	"net/url"
	"strconv"
	"strings"
)

type Mode string

const (
	ModeSingle Mode = "single"
	ModeBatch  Mode = "batch"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 1000
)

// Pagination 页码从 1 开始
type Pagination struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

// Config 在构造时传入，不依赖任何全局状态
type Config struct {
	IDKey           string
	SearchPath      string
	BatchPath       string
	Fields          []Field
	DefaultPageSize int
}

type Compiler struct {
	cfg    Config
	fields map[string]Field
}

func NewCompiler(cfg Config) *Compiler {
	if cfg.IDKey == "" {
		cfg.IDKey = "id"
	}
	if cfg.Fields == nil {
		cfg.Fields = DefaultFields
	}
	if cfg.DefaultPageSize <= 0 {
		cfg.DefaultPageSize = DefaultPageSize
	}
	fields := make(map[string]Field, len(cfg.Fields))
	for _, f := range cfg.Fields {
		if f.Key == "" {
			f.Key = f.Name
		}
		fields[f.Name] = f
	}
	return &Compiler{cfg: cfg, fields: fields}
}

// Query 为编译结果
type Query struct {
	Mode   Mode       `json:"mode"`
	Path   string     `json:"path"`
	Params url.Values `json:"params"`
}

// Encode 返回稳定的查询串
func (q Query) Encode() string { return q.Params.Encode() }

// WithPage 返回替换了分页参数的副本，原 Query 不变
func (q Query) WithPage(page, pageSize int) Query {
	params := make(url.Values, len(q.Params)+2)
	for k, v := range q.Params {
		params[k] = append([]string(nil), v...)
	}
	params.Set("page", strconv.Itoa(page))
	params.Set("page_size", strconv.Itoa(pageSize))
	return Query{Mode: q.Mode, Path: q.Path, Params: params}
}

// ModeFor 0 或 1 个 token 为 single，2 个及以上为 batch
func ModeFor(tokens []string) Mode {
	if len(tokens) > 1 {
		return ModeBatch
	}
	return ModeSingle
}

// Compile 从不失败：缺失或无法解析的筛选值直接省略
func (c *Compiler) Compile(tokens []string, filters FilterSet, p Pagination) Query {
	p = c.normalizePage(p)
	params := url.Values{}
	params.Set("page", strconv.Itoa(p.Page))
	params.Set("page_size", strconv.Itoa(p.PageSize))

	if ModeFor(tokens) == ModeBatch {
		for _, tok := range tokens {
			params.Add(c.cfg.IDKey, tok)
		}
		return Query{Mode: ModeBatch, Path: c.cfg.BatchPath, Params: params}
	}

	if len(tokens) == 1 && tokens[0] != "" {
		params.Set(c.cfg.IDKey, tokens[0])
	}
	for _, f := range c.cfg.Fields {
		values, ok := filters[f.Name]
		if !ok {
			continue
		}
		c.emit(params, c.fields[f.Name], values)
	}
	return Query{Mode: ModeSingle, Path: c.cfg.SearchPath, Params: params}
}

func (c *Compiler) emit(params url.Values, f Field, values []string) {
	vals := cleanValues(values)
	if len(vals) == 0 {
		return
	}
	for _, v := range vals {
		if v == AnyValue {
			if f.NotEmptyKey != "" {
				params.Set(f.NotEmptyKey, "true")
			}
			return
		}
	}
	switch f.Kind {
	case DateFrom, DateTo, Date:
		if s, ok := anchorDate(vals[0], f.Kind); ok {
			params.Set(f.Key, s)
		}
	case Multi:
		for _, v := range vals {
			params.Add(f.Key, v)
		}
	default:
		params.Set(f.Key, vals[0])
	}
}

func (c *Compiler) normalizePage(p Pagination) Pagination {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize <= 0 {
		p.PageSize = c.cfg.DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	return p
}

// cleanValues 去首尾空白、去空值、去重，保持顺序
func cleanValues(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
