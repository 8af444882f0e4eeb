// Package export 逐页拉取完整结果集并写成 CSV/XLSX。
//
// 页请求严格串行，整个导出期间 page_size 不变，不重试；任一页失败则整体放弃，不产出残缺文件。
package export

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"du-console/logic/query"
	"du-console/types"
)

// ErrTooManyPages 结果超出 MaxPages，整体放弃而不是截断
var ErrTooManyPages = errors.New("export exceeds page limit")

// PageFetcher 执行一次分页查询，由 storage/backend.Client 实现
type PageFetcher interface {
	FetchPage(ctx context.Context, q query.Query) (*types.Page, error)
}

// PageError 记录失败的页码；Error() 原样返回后端错误信息
type PageError struct {
	Page int
	Err  error
}

func (e *PageError) Error() string { return e.Err.Error() }
func (e *PageError) Unwrap() error { return e.Err }

type Driver struct {
	Fetcher  PageFetcher
	PageSize int
	// MaxPages 为 0 表示不限制
	MaxPages int
}

// Collect 从第 1 页开始，按第 1 页返回的 total 计算总页数并依次拉取
func (d Driver) Collect(ctx context.Context, base query.Query) ([]types.Record, error) {
	size := d.PageSize
	if size <= 0 {
		size = query.DefaultPageSize
	}
	start := time.Now()

	first, err := d.fetch(ctx, base, 1, size)
	if err != nil {
		return nil, err
	}
	// total 来自后端，负数按 0 处理
	pages := types.Pages(first.Total, size)
	if d.MaxPages > 0 && pages > d.MaxPages {
		log.Printf(">>> [Export] total=%d needs %d pages, limit %d", first.Total, pages, d.MaxPages)
		return nil, fmt.Errorf("%w: needs %d pages, limit %d", ErrTooManyPages, pages, d.MaxPages)
	}

	items := make([]types.Record, 0, len(first.Items))
	items = append(items, first.Items...)
	for p := 2; p <= pages; p++ {
		page, err := d.fetch(ctx, base, p, size)
		if err != nil {
			return nil, err
		}
		items = append(items, page.Items...)
	}
	log.Printf(">>> [Export] %s collected %d records in %d pages (%v)", base.Mode, len(items), max(pages, 1), time.Since(start))
	return items, nil
}

func (d Driver) fetch(ctx context.Context, base query.Query, page, size int) (*types.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, &PageError{Page: page, Err: err}
	}
	res, err := d.Fetcher.FetchPage(ctx, base.WithPage(page, size))
	if err != nil {
		log.Printf(">>> [Export] page %d failed: %v", page, err)
		return nil, &PageError{Page: page, Err: err}
	}
	return res, nil
}
