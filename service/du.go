package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"du-console/logic/export"
	"du-console/logic/highlight"
	"du-console/logic/query"
	"du-console/logic/token"
	"du-console/storage/backend"
	"du-console/types"
)

var (
	ErrUnknownProfile = errors.New("unknown profile")
	ErrNoCachedQuery  = errors.New("no previous search to export")
	ErrMissingID      = errors.New("record id is required")
)

// InvalidTokensError 提交的 token 中有不符合语法的
type InvalidTokensError struct {
	Tokens []string
}

func (e *InvalidTokensError) Error() string {
	return "invalid id: " + strings.Join(e.Tokens, ", ")
}

// Backend 为外部 REST 后端，由 storage/backend.Client 实现
type Backend interface {
	FetchPage(ctx context.Context, q query.Query) (*types.Page, error)
	Update(ctx context.Context, pathTmpl, id string, in types.UpdateRequest, photo *backend.Photo) error
	Delete(ctx context.Context, pathTmpl, id string) error
	Resolve(ref string) string
}

// ExportOptions 控制导出分页
type ExportOptions struct {
	PageSize int
	MaxPages int
}

type DUService struct {
	profiles map[string]*Profile
	backend  Backend
	opts     ExportOptions
	columns  []export.Column

	mu        sync.Mutex
	lastQuery map[string]query.Query
}

// 每个会话只缓存最近一次查询，超过上限时整体清空
const maxCachedQueries = 4096

func NewDUService(profiles map[string]*Profile, be Backend, opts ExportOptions) *DUService {
	return &DUService{
		profiles:  profiles,
		backend:   be,
		opts:      opts,
		columns:   export.DefaultColumns,
		lastQuery: make(map[string]query.Query),
	}
}

func (s *DUService) Profile(name string) (*Profile, error) {
	p, ok := s.profiles[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProfile, name)
	}
	return p, nil
}

// TokenResult 为一次输入事件的处理结果
type TokenResult struct {
	State    token.State        `json:"state"`
	Classes  []token.Validity   `json:"classes"`
	Invalid  []string           `json:"invalid"`
	Mode     query.Mode         `json:"mode"`
	Fragment highlight.Fragment `json:"fragment"`
	HTML     string             `json:"html"`
}

// Tokens 处理输入框事件：切分、校验、自动补前缀、高亮
func (s *DUService) Tokens(profile string, req types.TokenRequest) (*TokenResult, error) {
	p, err := s.Profile(profile)
	if err != nil {
		return nil, err
	}
	ev := token.Event{
		Type:      token.EventType(req.Type),
		Text:      req.Text,
		Caret:     -1,
		InputType: req.InputType,
		Pasted:    req.Pasted,
	}
	if ev.Type == "" {
		ev.Type = token.EventInput
	}
	if req.Caret != nil {
		ev.Caret = *req.Caret
	}
	st := p.Editor.Reduce(token.State{Text: req.Text}, ev)

	classes := make([]token.Validity, 0, len(st.Tokens))
	for _, c := range p.Tokenizer.Classify(st.Tokens) {
		classes = append(classes, c.Validity)
	}
	frag := p.Renderer.Render(st.Text)
	return &TokenResult{
		State:    st,
		Classes:  classes,
		Invalid:  p.Tokenizer.Invalid(st.Tokens),
		Mode:     query.ModeFor(st.Tokens),
		Fragment: frag,
		HTML:     frag.HTML(),
	}, nil
}

// Compile 把请求编译为查询，不访问后端
func (s *DUService) Compile(profile string, req types.QueryRequest) (query.Query, []string, error) {
	p, err := s.Profile(profile)
	if err != nil {
		return query.Query{}, nil, err
	}
	tokens := s.tokens(p, req)
	q := p.Compiler.Compile(tokens, query.FilterSet(req.Filters), query.Pagination{Page: req.Page, PageSize: req.PageSize})
	return q, tokens, nil
}

func (s *DUService) tokens(p *Profile, req types.QueryRequest) []string {
	if len(req.Tokens) > 0 {
		// 已切分的 token 也要走一遍规范化和去重
		return p.Tokenizer.Tokenize(strings.Join(req.Tokens, "\n"))
	}
	return p.Tokenizer.Tokenize(req.Text)
}

// Search 编译并查询一页，同时缓存本次查询供导出复用
func (s *DUService) Search(ctx context.Context, sessionID, profile string, req types.QueryRequest) (*types.SearchResult, error) {
	q, tokens, err := s.Compile(profile, req)
	if err != nil {
		return nil, err
	}
	p, _ := s.Profile(profile)
	if bad := p.Tokenizer.Invalid(tokens); len(bad) > 0 {
		return nil, &InvalidTokensError{Tokens: bad}
	}
	s.remember(sessionID, profile, q)

	page, err := s.backend.FetchPage(ctx, q)
	if err != nil {
		return nil, err
	}
	pg, _ := strconv.Atoi(q.Params.Get("page"))
	size, _ := strconv.Atoi(q.Params.Get("page_size"))
	return &types.SearchResult{
		Mode:     string(q.Mode),
		Query:    q.Encode(),
		Items:    page.Items,
		Total:    page.Total,
		Page:     pg,
		PageSize: size,
		Pages:    types.Pages(page.Total, size),
	}, nil
}

// ExportFile 为完整生成的导出文件
type ExportFile struct {
	Name        string
	ContentType string
	Data        []byte
	Records     int
}

// Export 拉取全部页后一次性生成文件；任何一页失败都不产出文件
func (s *DUService) Export(ctx context.Context, sessionID, profile string, req types.QueryRequest, format export.Format) (*ExportFile, error) {
	q, tokens, err := s.Compile(profile, req)
	if err != nil {
		return nil, err
	}
	p, _ := s.Profile(profile)
	if bad := p.Tokenizer.Invalid(tokens); len(bad) > 0 {
		return nil, &InvalidTokensError{Tokens: bad}
	}
	s.remember(sessionID, profile, q)
	return s.buildExport(ctx, profile, q, format)
}

// ExportLast 复用该会话最近一次搜索的条件
func (s *DUService) ExportLast(ctx context.Context, sessionID, profile string, format export.Format) (*ExportFile, error) {
	if _, err := s.Profile(profile); err != nil {
		return nil, err
	}
	s.mu.Lock()
	q, ok := s.lastQuery[cacheKey(sessionID, profile)]
	s.mu.Unlock()
	if !ok {
		return nil, ErrNoCachedQuery
	}
	return s.buildExport(ctx, profile, q, format)
}

func (s *DUService) buildExport(ctx context.Context, profile string, q query.Query, format export.Format) (*ExportFile, error) {
	drv := export.Driver{Fetcher: s.backend, PageSize: s.opts.PageSize, MaxPages: s.opts.MaxPages}
	records, err := drv.Collect(ctx, q)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := export.Write(&buf, format, s.columns, records, s.backend.Resolve); err != nil {
		return nil, err
	}
	name := fmt.Sprintf("%s-export-%s-%s.%s", profile, time.Now().Format("20060102-150405"), uuid.NewString()[:8], format.Ext())
	log.Printf(">>> [Export] %s: %d records, %d bytes", name, len(records), buf.Len())
	return &ExportFile{Name: name, ContentType: format.ContentType(), Data: buf.Bytes(), Records: len(records)}, nil
}

// Update 透传 multipart 更新
func (s *DUService) Update(ctx context.Context, profile, id string, in types.UpdateRequest, photo *backend.Photo) error {
	p, err := s.Profile(profile)
	if err != nil {
		return err
	}
	if strings.TrimSpace(id) == "" {
		return ErrMissingID
	}
	return s.backend.Update(ctx, p.UpdatePath, strings.TrimSpace(id), in, photo)
}

func (s *DUService) Delete(ctx context.Context, profile, id string) error {
	p, err := s.Profile(profile)
	if err != nil {
		return err
	}
	if strings.TrimSpace(id) == "" {
		return ErrMissingID
	}
	return s.backend.Delete(ctx, p.DeletePath, strings.TrimSpace(id))
}

func (s *DUService) remember(sessionID, profile string, q query.Query) {
	if sessionID == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.lastQuery) >= maxCachedQueries {
		s.lastQuery = make(map[string]query.Query)
	}
	s.lastQuery[cacheKey(sessionID, profile)] = q
}

func cacheKey(sessionID, profile string) string { return profile + "|" + sessionID }

