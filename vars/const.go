package vars

import (
	"os"
	"strconv"
	"time"
)

// GetEnv 获取环境变量，如果不存在则返回默认值
func GetEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// GetEnvInt 同 GetEnv，无法解析时返回默认值
func GetEnvInt(key string, fallback int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return fallback
}

// GetEnvDuration 形如 "30s"、"2m"
func GetEnvDuration(key string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return d
	}
	return fallback
}

const (
	// 页面 profile 名称
	ProfileDU = "du"
	ProfileDN = "dn"

	// 上次编译的查询按此 cookie 缓存，供导出复用
	SessionCookie = "du_console_sid"

	// http_timeout 未配置或非正数时使用
	DefaultHTTPTimeout = 30 * time.Second
)

// 环境变量配置（支持 Docker 部署）
var (
	LISTEN       = GetEnv("DU_LISTEN", ":8081")
	API_BASE     = GetEnv("DU_API_BASE", "http://localhost:8000")
	CONFIG_PATH  = GetEnv("DU_CONFIG", "")
	SUMMARY_CRON = GetEnv("DU_SUMMARY_CRON", "0 */5 * * * *")
	HTTP_TIMEOUT = GetEnvDuration("DU_HTTP_TIMEOUT", DefaultHTTPTimeout)
	EXPORT_PAGE  = GetEnvInt("DU_EXPORT_PAGE_SIZE", 200)
)
