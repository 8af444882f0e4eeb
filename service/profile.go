package service

import (
	"fmt"
	"sort"

	"du-console/logic/highlight"
	"du-console/logic/query"
	"du-console/logic/token"
	"du-console/vars"
)

// Profile 把一个页面需要的核心组件组装在一起：语法、切分、高亮、查询编译
type Profile struct {
	Name       string
	Grammar    token.Grammar
	Tokenizer  token.Tokenizer
	Editor     token.Editor
	Renderer   highlight.Renderer
	Compiler   *query.Compiler
	UpdatePath string
	DeletePath string
	PageSize   int
}

func NewProfile(name string, pc vars.ProfileConfig) (*Profile, error) {
	g, err := token.GrammarByName(pc.Grammar)
	if err != nil {
		return nil, fmt.Errorf("profile %s: %w", name, err)
	}
	tk := token.Tokenizer{Grammar: g, DropPlaceholder: pc.DropPlaceholder}
	return &Profile{
		Name:      name,
		Grammar:   g,
		Tokenizer: tk,
		Editor:    token.Editor{Tokenizer: tk, AutoSeed: pc.AutoSeed},
		Renderer:  highlight.Renderer{Grammar: g},
		Compiler: query.NewCompiler(query.Config{
			IDKey:           pc.IDKey,
			SearchPath:      pc.SearchPath,
			BatchPath:       pc.BatchPath,
			Fields:          pc.Fields,
			DefaultPageSize: pc.PageSize,
		}),
		UpdatePath: pc.UpdatePath,
		DeletePath: pc.DeletePath,
		PageSize:   pc.PageSize,
	}, nil
}

// BuildProfiles 按配置构造全部 profile
func BuildProfiles(cfg *vars.Config) (map[string]*Profile, error) {
	names := make([]string, 0, len(cfg.Profiles))
	for name := range cfg.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make(map[string]*Profile, len(names))
	for _, name := range names {
		p, err := NewProfile(name, cfg.Profiles[name])
		if err != nil {
			return nil, err
		}
		out[name] = p
	}
	return out, nil
}
