package job

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"du-console/service"
	"du-console/vars"
)

// StartCronJob 按 cron 表达式（含秒字段）定时刷新仪表盘统计
func StartCronJob(expr string, summarySvc *service.SummaryService, timeout time.Duration) (*cron.Cron, error) {
	if timeout <= 0 {
		timeout = vars.DefaultHTTPTimeout
	}
	c := cron.New(cron.WithSeconds())

	_, err := c.AddFunc(expr, func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if _, err := summarySvc.Refresh(ctx); err != nil {
			log.Println("[Cron] summary refresh error:", err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("schedule summary refresh %q: %w", expr, err)
	}

	c.Start()
	return c, nil
}
