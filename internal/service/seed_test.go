package service

import (
	"context"
	"testing"

	"github.com/folio/internal/db"
	"github.com/folio/internal/view"
	"github.com/google/go-cmp/cmp"
)

func TestSeedDefaultsFillsEmptySectionsOnce(t *testing.T) {
	gdb := setupContentTestDB(t, true)
	content := NewContentService(gdb)
	ctx := context.Background()

	if _, err := content.Skills.Create(ctx, db.Skill{Name: "Go"}, nil); err != nil {
		t.Fatalf("create skill failed: %v", err)
	}

	seeded, err := content.SeedDefaults(ctx, view.MustDefaults())
	if err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	want := []string{"site_settings", "hero_section", "about_section", "animated_stats"}
	if diff := cmp.Diff(want, seeded); diff != "" {
		t.Fatalf("seeded sections mismatch (-want +got):\n%s", diff)
	}

	skills, err := content.Skills.List(ctx)
	if err != nil {
		t.Fatalf("list skills failed: %v", err)
	}
	if len(skills) != 1 || skills[0].Name != "Go" {
		t.Fatalf("existing skills must be left alone, got %+v", skills)
	}

	stats, err := content.Stats.List(ctx)
	if err != nil {
		t.Fatalf("list stats failed: %v", err)
	}
	if len(stats) != 6 || stats[0].OrderIndex != 0 || stats[5].OrderIndex != 5 {
		t.Fatalf("expected six ordered stats, got %+v", stats)
	}

	settings, err := content.SiteSettings.Get(ctx)
	if err != nil || settings == nil || settings.ID != db.SingletonID {
		t.Fatalf("expected singleton settings row, got %+v (%v)", settings, err)
	}

	again, err := content.SeedDefaults(ctx, view.MustDefaults())
	if err != nil {
		t.Fatalf("second seed failed: %v", err)
	}
	if len(again) != 0 {
		t.Fatalf("second seed should be a no-op, got %v", again)
	}
}
