package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"du-console/logic/query"
	"du-console/types"
)

// SummaryService 统计各状态的记录数，供仪表盘使用。
// 每个状态编译一次单条模式查询（page_size=1），只读取 total
type SummaryService struct {
	profile  *Profile
	backend  Backend
	statuses []string

	mu       sync.RWMutex
	snapshot *types.Summary
}

func NewSummaryService(p *Profile, be Backend, statuses []string) *SummaryService {
	return &SummaryService{profile: p, backend: be, statuses: statuses}
}

// Refresh 串行查询全部状态，任一失败则保留旧快照并返回错误
func (s *SummaryService) Refresh(ctx context.Context) (*types.Summary, error) {
	start := time.Now()
	sum := &types.Summary{Profile: s.profile.Name, Counts: make([]types.StatusCount, 0, len(s.statuses))}
	for _, st := range s.statuses {
		q := s.profile.Compiler.Compile(nil, query.FilterSet{"status": {st}}, query.Pagination{Page: 1, PageSize: 1})
		page, err := s.backend.FetchPage(ctx, q)
		if err != nil {
			return nil, fmt.Errorf("count status %s: %w", st, err)
		}
		sum.Counts = append(sum.Counts, types.StatusCount{Status: st, Count: page.Total})
		sum.Total += page.Total
	}
	sum.UpdatedAt = time.Now().UTC().Format(time.RFC3339)

	s.mu.Lock()
	s.snapshot = sum
	s.mu.Unlock()
	log.Printf(">>> [Summary] %s refreshed: %d records across %d statuses (%v)", sum.Profile, sum.Total, len(sum.Counts), time.Since(start))
	return sum, nil
}

// Snapshot 返回最近一次成功的统计
func (s *SummaryService) Snapshot() (*types.Summary, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot, s.snapshot != nil
}

// Get 优先返回缓存，没有时同步刷新
func (s *SummaryService) Get(ctx context.Context) (*types.Summary, error) {
	if sum, ok := s.Snapshot(); ok {
		return sum, nil
	}
	return s.Refresh(ctx)
}
