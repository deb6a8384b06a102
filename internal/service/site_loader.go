package service

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"github.com/folio/internal/cache"
	"github.com/folio/internal/db"
	"github.com/folio/internal/view"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// PageData 是首页渲染所需的全部内容，每个区块都已套用兜底内容。
type PageData struct {
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
	// Degraded 列出读取失败而改用兜底内容的区块
	Degraded []string `json:"degraded,omitempty"`
}

// SiteLoader 并发读取首页全部区块。
type SiteLoader struct {
	content  *ContentService
	defaults view.Defaults
	cache    cache.PageCache
	log      *zap.Logger

	// mu 串行化快照写入与失效；generation 每次失效递增
	mu         sync.Mutex
	generation uint64
}

// NewSiteLoader 构造 SiteLoader，pageCache 为 nil 时不缓存。
func NewSiteLoader(content *ContentService, pageCache cache.PageCache, log *zap.Logger) *SiteLoader {
	if pageCache == nil {
		pageCache = cache.Noop{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &SiteLoader{content: content, defaults: view.MustDefaults(), cache: pageCache, log: log}
}

// Defaults 返回首页兜底内容
func (l *SiteLoader) Defaults() view.Defaults {
	return l.defaults
}

// Load 返回首页内容，从不失败：任一区块为空或读取出错时使用该区块的兜底内容。
func (l *SiteLoader) Load(ctx context.Context) PageData {
	l.mu.Lock()
	gen := l.generation
	l.mu.Unlock()

	if data, ok := l.cached(ctx); ok {
		return data
	}

	var (
		page     PageData
		mu       sync.Mutex
		degraded []string
	)
	fail := func(name string, err error) {
		l.log.Warn("Section load failed, using defaults", zap.String("section", name), zap.Error(err))
		mu.Lock()
		degraded = append(degraded, name)
		mu.Unlock()
	}

	c, d := l.content, l.defaults
	tasks := []func(context.Context){
		func(ctx context.Context) {
			page.SiteSettings = section(ctx, c.SiteSettings.Name(), c.SiteSettings.Get, d.SiteSettings, fail)
		},
		func(ctx context.Context) { page.Hero = section(ctx, c.Hero.Name(), c.Hero.Get, d.Hero, fail) },
		func(ctx context.Context) { page.About = section(ctx, c.About.Name(), c.About.Get, d.About, fail) },
		func(ctx context.Context) {
			page.PersonalInfo = section(ctx, c.PersonalInfo.Name(), c.PersonalInfo.Get, d.PersonalInfo, fail)
		},
		func(ctx context.Context) {
			page.Skills = collection(ctx, c.Skills.Name(), c.Skills.List, d.Skills, fail)
		},
		func(ctx context.Context) { page.Tools = collection(ctx, c.Tools.Name(), c.Tools.List, d.Tools, fail) },
		func(ctx context.Context) {
			page.Experiences = collection(ctx, c.Experiences.Name(), c.Experiences.List, d.Experiences, fail)
		},
		func(ctx context.Context) {
			page.Products = collection(ctx, c.Products.Name(), c.Products.List, d.Products, fail)
		},
		func(ctx context.Context) {
			page.Projects = collection(ctx, c.Projects.Name(), c.Projects.List, d.Projects, fail)
		},
		func(ctx context.Context) {
			page.CaseStudies = collection(ctx, c.CaseStudies.Name(), c.CaseStudies.List, d.CaseStudies, fail)
		},
		func(ctx context.Context) {
			page.Education = collection(ctx, c.Education.Name(), c.Education.List, d.Education, fail)
		},
		func(ctx context.Context) {
			page.Certifications = collection(ctx, c.Certifications.Name(), c.Certifications.List, d.Certifications, fail)
		},
		func(ctx context.Context) { page.Stats = collection(ctx, c.Stats.Name(), c.Stats.List, d.Stats, fail) },
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, task := range tasks {
		g.Go(func() error {
			task(gctx)
			return nil
		})
	}
	_ = g.Wait()

	if len(degraded) > 0 {
		sort.Strings(degraded)
		page.Degraded = degraded
		return page
	}

	l.store(ctx, gen, page)
	return page
}

// Invalidate 清除首页缓存，后台每次写入后调用。
func (l *SiteLoader) Invalidate(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.generation++
	if err := l.cache.Invalidate(ctx); err != nil {
		l.log.Warn("Failed to invalidate page cache", zap.Error(err))
	}
}

func (l *SiteLoader) cached(ctx context.Context) (PageData, bool) {
	raw, ok, err := l.cache.Get(ctx)
	if err != nil {
		l.log.Warn("Failed to read page cache", zap.Error(err))
		return PageData{}, false
	}
	if !ok {
		return PageData{}, false
	}
	var page PageData
	if err := json.Unmarshal(raw, &page); err != nil {
		l.log.Warn("Discarding corrupted page cache", zap.Error(err))
		l.Invalidate(ctx)
		return PageData{}, false
	}
	return page, true
}

// store 仅在读取期间没有发生失效时写入快照，避免旧内容覆盖新写入。
func (l *SiteLoader) store(ctx context.Context, gen uint64, page PageData) {
	raw, err := json.Marshal(page)
	if err != nil {
		l.log.Warn("Failed to encode page cache", zap.Error(err))
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.generation != gen {
		l.log.Debug("Page changed during load, skipping cache write")
		return
	}
	if err := l.cache.Set(ctx, raw); err != nil {
		l.log.Warn("Failed to write page cache", zap.Error(err))
	}
}

func section[T any](ctx context.Context, name string, get func(context.Context) (*T, error), fallback T, fail func(string, error)) T {
	item, err := get(ctx)
	if err != nil {
		fail(name, err)
		return fallback
	}
	if item == nil {
		return fallback
	}
	return *item
}

func collection[T any](ctx context.Context, name string, list func(context.Context) ([]T, error), fallback []T, fail func(string, error)) []T {
	items, err := list(ctx)
	if err != nil {
		fail(name, err)
		return fallback
	}
	if len(items) == 0 {
		return fallback
	}
	return items
}
