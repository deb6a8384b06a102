package service

import (
	"context"
	"fmt"

	"github.com/folio/internal/view"
)

// SeedDefaults 把兜底内容写入尚无数据的区块，返回实际写入的区块名。
// 已有内容的区块保持不变，因此可以重复执行。个人信息缺少必填的姓名，不参与写入。
func (s *ContentService) SeedDefaults(ctx context.Context, d view.Defaults) ([]string, error) {
	steps := []func() (string, bool, error){
		func() (string, bool, error) { return seedSection(ctx, s.SiteSettings, d.SiteSettings) },
		func() (string, bool, error) { return seedSection(ctx, s.Hero, d.Hero) },
		func() (string, bool, error) { return seedSection(ctx, s.About, d.About) },
		func() (string, bool, error) { return seedCollection(ctx, s.Skills, d.Skills) },
		func() (string, bool, error) { return seedCollection(ctx, s.Tools, d.Tools) },
		func() (string, bool, error) { return seedCollection(ctx, s.Experiences, d.Experiences) },
		func() (string, bool, error) { return seedCollection(ctx, s.Products, d.Products) },
		func() (string, bool, error) { return seedCollection(ctx, s.Projects, d.Projects) },
		func() (string, bool, error) { return seedCollection(ctx, s.CaseStudies, d.CaseStudies) },
		func() (string, bool, error) { return seedCollection(ctx, s.Education, d.Education) },
		func() (string, bool, error) { return seedCollection(ctx, s.Certifications, d.Certifications) },
		func() (string, bool, error) { return seedCollection(ctx, s.Stats, d.Stats) },
	}

	var seeded []string
	for _, step := range steps {
		name, ok, err := step()
		if err != nil {
			return seeded, fmt.Errorf("seed %s: %w", name, err)
		}
		if ok {
			seeded = append(seeded, name)
		}
	}
	return seeded, nil
}

func seedSection[T any, P SectionEntry[T]](ctx context.Context, s *Section[T, P], item T) (string, bool, error) {
	current, err := s.Get(ctx)
	if err != nil || current != nil {
		return s.name, false, err
	}
	if _, err := s.Save(ctx, item); err != nil {
		return s.name, false, err
	}
	return s.name, true, nil
}

func seedCollection[T any, P ListEntry[T]](ctx context.Context, c *Collection[T, P], items []T) (string, bool, error) {
	if len(items) == 0 {
		return c.name, false, nil
	}
	current, err := c.List(ctx)
	if err != nil || len(current) > 0 {
		return c.name, false, err
	}
	for i, item := range items {
		order := i
		if _, err := c.Create(ctx, item, &order); err != nil {
			return c.name, false, err
		}
	}
	return c.name, true, nil
}
