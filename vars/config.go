package vars

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"du-console/logic/query"
	"du-console/types"
)

// Config 为整个服务的配置。先取环境变量默认值，再用 YAML 文件覆盖
type Config struct {
	Listen         string                   `yaml:"listen"`
	APIBase        string                   `yaml:"api_base"`
	HTTPTimeout    time.Duration            `yaml:"http_timeout"`
	SummaryCron    string                   `yaml:"summary_cron"`
	SummaryProfile string                   `yaml:"summary_profile"`
	Statuses       []string                 `yaml:"statuses"`
	ExportPageSize int                      `yaml:"export_page_size"`
	ExportMaxPages int                      `yaml:"export_max_pages"`
	Profiles       map[string]ProfileConfig `yaml:"profiles"`

	// ConfigPath 实际加载的文件（不序列化）
	ConfigPath string `yaml:"-"`
}

// ProfileConfig 描述一个页面：使用哪种语法、id 字段名以及后端路径。
// 文件中出现的 profile 会整体替换默认值
type ProfileConfig struct {
	Grammar         string        `yaml:"grammar"`
	IDKey           string        `yaml:"id_key"`
	DropPlaceholder bool          `yaml:"drop_placeholder"`
	AutoSeed        bool          `yaml:"auto_seed"`
	SearchPath      string        `yaml:"search_path"`
	BatchPath       string        `yaml:"batch_path"`
	UpdatePath      string        `yaml:"update_path"`
	DeletePath      string        `yaml:"delete_path"`
	PageSize        int           `yaml:"page_size"`
	Fields          []query.Field `yaml:"fields,omitempty"`
}

// Default 返回默认配置
func Default() *Config {
	return &Config{
		Listen:         LISTEN,
		APIBase:        API_BASE,
		HTTPTimeout:    HTTP_TIMEOUT,
		SummaryCron:    SUMMARY_CRON,
		SummaryProfile: ProfileDU,
		Statuses: []string{
			types.StatusArrived,
			types.StatusOnTheWay,
			types.StatusPOD,
			types.StatusNoStatus,
			types.StatusWaitingPIC,
		},
		ExportPageSize: EXPORT_PAGE,
		ExportMaxPages: 500,
		Profiles: map[string]ProfileConfig{
			ProfileDU: {
				Grammar:         "du",
				IDKey:           "du_id",
				DropPlaceholder: true,
				AutoSeed:        true,
				SearchPath:      "/api/du/search",
				BatchPath:       "/api/du/batch",
				UpdatePath:      "/api/du/update/{id}",
				DeletePath:      "/api/du/{id}",
				PageSize:        20,
			},
			ProfileDN: {
				Grammar:    "dn",
				IDKey:      "dn_number",
				SearchPath: "/api/dn/list/search",
				BatchPath:  "/api/dn/list/batch",
				UpdatePath: "/api/dn/update/{id}",
				DeletePath: "/api/dn/{id}",
				PageSize:   20,
			},
		},
	}
}

// Load 读取 path 指向的 YAML；path 为空时只用默认值
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		cfg.applyDefaults()
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.ConfigPath = path
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate 检查必须项
func (c *Config) Validate() error {
	if c.APIBase == "" {
		return fmt.Errorf("config: api_base is required")
	}
	if len(c.Profiles) == 0 {
		return fmt.Errorf("config: at least one profile is required")
	}
	for name, p := range c.Profiles {
		if p.SearchPath == "" || p.BatchPath == "" {
			return fmt.Errorf("config: profile %s needs search_path and batch_path", name)
		}
		if err := checkFieldKeys(name, p); err != nil {
			return err
		}
	}
	if _, ok := c.Profiles[c.SummaryProfile]; !ok {
		return fmt.Errorf("config: summary_profile %q is not defined", c.SummaryProfile)
	}
	return nil
}

// applyDefaults 补齐非正数的超时
func (c *Config) applyDefaults() {
	if c.HTTPTimeout <= 0 {
		c.HTTPTimeout = DefaultHTTPTimeout
	}
}

// checkFieldKeys 筛选字段不能占用分页参数或 id 参数
func checkFieldKeys(name string, p ProfileConfig) error {
	idKey := p.IDKey
	if idKey == "" {
		idKey = "id"
	}
	reserved := map[string]bool{"page": true, "page_size": true, idKey: true}
	for _, f := range p.Fields {
		key := f.Key
		if key == "" {
			key = f.Name
		}
		for _, k := range []string{key, f.NotEmptyKey} {
			if reserved[k] {
				return fmt.Errorf("config: profile %s field %s uses reserved key %q", name, f.Name, k)
			}
		}
	}
	return nil
}
