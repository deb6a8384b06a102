package view

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/folio/internal/db"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Placeholders 是个人信息缺失时首页使用的文案。
type Placeholders struct {
	Name            string `json:"name"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	ProfileImageURL string `json:"profile_image_url"`
	CTAButtonText   string `json:"cta_button_text"`
}

// Defaults 是各内容区块的兜底内容。
type Defaults struct {
	Placeholders   Placeholders       `json:"placeholders"`
	SiteSettings   db.SiteSettings    `json:"site_settings"`
	Hero           db.HeroSection     `json:"hero_section"`
	About          db.AboutSection    `json:"about_section"`
	PersonalInfo   db.PersonalInfo    `json:"personal_info"`
	Skills         []db.Skill         `json:"skills"`
	Tools          []db.Tool          `json:"tools"`
	Experiences    []db.Experience    `json:"experiences"`
	Products       []db.Product       `json:"products"`
	Projects       []db.Project       `json:"projects"`
	CaseStudies    []db.CaseStudy     `json:"case_studies"`
	Education      []db.Education     `json:"education"`
	Certifications []db.Certification `json:"certifications"`
	Stats          []db.AnimatedStat  `json:"animated_stats"`
}

var (
	defaultsOnce   sync.Once
	defaultsParsed Defaults
	defaultsErr    error
)

// LoadDefaults 解析内嵌的 defaults.yaml，结果只解析一次。
// 返回值是副本，调用方可以自由修改。
func LoadDefaults() (Defaults, error) {
	defaultsOnce.Do(func() {
		defaultsParsed, defaultsErr = ParseDefaults(defaultsYAML)
	})
	if defaultsErr != nil {
		return Defaults{}, defaultsErr
	}
	return cloneDefaults(defaultsParsed), nil
}

// MustDefaults 与 LoadDefaults 相同，解析失败时 panic。内嵌文件在测试中校验。
func MustDefaults() Defaults {
	d, err := LoadDefaults()
	if err != nil {
		panic(err)
	}
	return d
}

// ParseDefaults 解析 YAML 格式的兜底内容。
// 字段名沿用数据库列名，因此先转为通用结构，再按 json 标签映射到模型。
func ParseDefaults(data []byte) (Defaults, error) {
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Defaults{}, fmt.Errorf("parse defaults: %w", err)
	}
	encoded, err := json.Marshal(raw)
	if err != nil {
		return Defaults{}, fmt.Errorf("encode defaults: %w", err)
	}

	var d Defaults
	if err := json.Unmarshal(encoded, &d); err != nil {
		return Defaults{}, fmt.Errorf("decode defaults: %w", err)
	}
	for i := range d.Skills {
		d.Skills[i].OrderIndex = i
	}
	for i := range d.Stats {
		d.Stats[i].OrderIndex = i
	}
	return d, nil
}

func cloneDefaults(d Defaults) Defaults {
	out := d
	out.Hero.AnimatedWords = append([]string{}, d.Hero.AnimatedWords...)
	out.About.Highlights = append([]string{}, d.About.Highlights...)
	out.Skills = append([]db.Skill{}, d.Skills...)
	out.Tools = append([]db.Tool{}, d.Tools...)
	out.Experiences = append([]db.Experience{}, d.Experiences...)
	out.Products = append([]db.Product{}, d.Products...)
	out.Projects = append([]db.Project{}, d.Projects...)
	out.CaseStudies = append([]db.CaseStudy{}, d.CaseStudies...)
	out.Education = append([]db.Education{}, d.Education...)
	out.Certifications = append([]db.Certification{}, d.Certifications...)
	out.Stats = append([]db.AnimatedStat{}, d.Stats...)
	return out
}
