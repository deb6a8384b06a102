package service

import (
	"context"
	"testing"

	"github.com/folio/internal/cache"
	"github.com/folio/internal/db"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestSiteLoaderFallsBackToDefaults(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent(), goleak.IgnoreTopFunction("database/sql.(*DB).connectionOpener"))

	gdb := setupContentTestDB(t, true)
	content := NewContentService(gdb)
	ctx := context.Background()

	if _, err := content.Tools.Create(ctx, db.Tool{Name: "Figma"}, nil); err != nil {
		t.Fatalf("create tool failed: %v", err)
	}
	if _, err := content.SiteSettings.Save(ctx, db.SiteSettings{SiteTitle: "Jane's Portfolio"}); err != nil {
		t.Fatalf("save settings failed: %v", err)
	}

	loader := NewSiteLoader(content, nil, nil)
	page := loader.Load(ctx)

	if page.SiteSettings.SiteTitle != "Jane's Portfolio" {
		t.Fatalf("expected stored settings, got %+v", page.SiteSettings)
	}
	if len(page.Tools) != 1 || page.Tools[0].Name != "Figma" {
		t.Fatalf("expected stored tools, got %+v", page.Tools)
	}
	if len(page.Skills) != 6 || page.Skills[0].Name != "Product Strategy" {
		t.Fatalf("expected default skills, got %+v", page.Skills)
	}
	if len(page.Stats) != 6 {
		t.Fatalf("expected default stats, got %d", len(page.Stats))
	}
	if page.About.SectionTitle != "About Me" {
		t.Fatalf("expected default about section, got %+v", page.About)
	}
	if page.Projects == nil || len(page.Projects) != 0 {
		t.Fatalf("expected empty project list, got %#v", page.Projects)
	}
	if len(page.Degraded) != 0 {
		t.Fatalf("expected no degraded sections, got %v", page.Degraded)
	}
}

func TestSiteLoaderDegradesOnBackendFailure(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent(), goleak.IgnoreTopFunction("database/sql.(*DB).connectionOpener"))

	gdb := setupContentTestDB(t, true)
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.Close()

	core, logs := observer.New(zap.WarnLevel)
	pageCache := cache.NewMemoryPageCache(0)
	loader := NewSiteLoader(NewContentService(gdb), pageCache, zap.New(core))

	page := loader.Load(context.Background())
	if len(page.Degraded) != 13 {
		t.Fatalf("expected all 13 sections degraded, got %v", page.Degraded)
	}
	if page.SiteSettings.SiteTitle != "Portfolio" || len(page.Skills) != 6 {
		t.Fatalf("expected defaults on failure, got %+v", page.SiteSettings)
	}
	if logs.FilterMessage("Section load failed, using defaults").Len() != 13 {
		t.Fatalf("expected a warning per section, got %d", logs.Len())
	}
	if _, ok, _ := pageCache.Get(context.Background()); ok {
		t.Fatal("degraded pages must not be cached")
	}
}

func TestSiteLoaderUsesCache(t *testing.T) {
	gdb := setupContentTestDB(t, true)
	content := NewContentService(gdb)
	ctx := context.Background()
	pageCache := cache.NewMemoryPageCache(0)
	loader := NewSiteLoader(content, pageCache, nil)

	if _, err := content.PersonalInfo.Save(ctx, db.PersonalInfo{Name: "Jane"}); err != nil {
		t.Fatalf("save personal info failed: %v", err)
	}
	if got := loader.Load(ctx).PersonalInfo.Name; got != "Jane" {
		t.Fatalf("expected Jane, got %q", got)
	}

	if _, err := content.PersonalInfo.Save(ctx, db.PersonalInfo{Name: "Janet"}); err != nil {
		t.Fatalf("save personal info failed: %v", err)
	}
	if got := loader.Load(ctx).PersonalInfo.Name; got != "Jane" {
		t.Fatalf("expected cached page, got %q", got)
	}

	loader.Invalidate(ctx)
	if got := loader.Load(ctx).PersonalInfo.Name; got != "Janet" {
		t.Fatalf("expected fresh page after invalidation, got %q", got)
	}
}

// writeDuringLoad 在首次读取缓存时模拟一次后台写入
type writeDuringLoad struct {
	*cache.MemoryPageCache
	onGet func()
}

func (c *writeDuringLoad) Get(ctx context.Context) ([]byte, bool, error) {
	if c.onGet != nil {
		hook := c.onGet
		c.onGet = nil
		hook()
	}
	return c.MemoryPageCache.Get(ctx)
}

func TestSiteLoaderSkipsCacheWhenInvalidatedDuringLoad(t *testing.T) {
	gdb := setupContentTestDB(t, true)
	content := NewContentService(gdb)
	ctx := context.Background()
	pageCache := &writeDuringLoad{MemoryPageCache: cache.NewMemoryPageCache(0)}
	loader := NewSiteLoader(content, pageCache, nil)

	pageCache.onGet = func() { loader.Invalidate(ctx) }
	loader.Load(ctx)

	if _, ok, _ := pageCache.MemoryPageCache.Get(ctx); ok {
		t.Fatal("expected page loaded across an invalidation not to be cached")
	}

	loader.Load(ctx)
	if _, ok, _ := pageCache.MemoryPageCache.Get(ctx); !ok {
		t.Fatal("expected a clean load to be cached")
	}
}
