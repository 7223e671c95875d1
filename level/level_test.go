package level

import (
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"testing"
)

const smallMap = `{"width":10,"height":8,"tilewidth":32,"tileheight":32,
"layers":[{"name":"ground","type":"tilelayer","width":10,"height":8,"data":[` +
	`1,1,1,1,1,1,1,1,1,1,1,1,1,1,1,1,1,1,1,1,1,1,1,1,1,1,1,1,1,1,1,1,1,1,1,1,1,1,1,1,` +
	`1,1,1,1,1,1,1,1,1,1,1,1,1,1,1,1,1,1,1,1,1,1,1,1,1,1,1,1,1,1,1,1,1,1,1,1,1,1,1,7]}]}`

func writeLevel(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write level: %v", err)
	}
}

func TestLoadDirReadsJSONLevels(t *testing.T) {
	dir := t.TempDir()
	writeLevel(t, dir, "b.json", smallMap)
	writeLevel(t, dir, "a.json", smallMap)
	writeLevel(t, dir, "notes.txt", "ignored")

	reg, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	levels := reg.Levels()
	if len(levels) != 2 {
		t.Fatalf("expected 2 levels, got %d", len(levels))
	}
	if levels[0].Name != "a" || levels[1].Name != "b" {
		t.Fatalf("expected levels sorted by name, got %s, %s", levels[0].Name, levels[1].Name)
	}
	if levels[0].WidthPx != 320 || levels[0].HeightPx != 256 {
		t.Fatalf("expected 320x256 px, got %dx%d", levels[0].WidthPx, levels[0].HeightPx)
	}
	if got := levels[0].TileAt(319, 255); got != 7 {
		t.Fatalf("expected tile 7 in the last cell, got %d", got)
	}
}

func TestLoadDirErrors(t *testing.T) {
	t.Run("missing dir", func(t *testing.T) {
		if _, err := LoadDir(filepath.Join(t.TempDir(), "nope")); err == nil {
			t.Fatal("expected error")
		}
	})
	t.Run("no levels", func(t *testing.T) {
		_, err := LoadDir(t.TempDir())
		if !errors.Is(err, ErrNoLevels) {
			t.Fatalf("expected ErrNoLevels, got %v", err)
		}
	})
	t.Run("malformed", func(t *testing.T) {
		dir := t.TempDir()
		writeLevel(t, dir, "good.json", smallMap)
		writeLevel(t, dir, "bad.json", `{"width":`)
		_, err := LoadDir(dir)
		if !errors.Is(err, ErrInvalidLevel) {
			t.Fatalf("expected ErrInvalidLevel, got %v", err)
		}
	})
	t.Run("zero size", func(t *testing.T) {
		dir := t.TempDir()
		writeLevel(t, dir, "flat.json", `{"width":0,"height":8,"tilewidth":32,"tileheight":32}`)
		_, err := LoadDir(dir)
		if !errors.Is(err, ErrInvalidLevel) {
			t.Fatalf("expected ErrInvalidLevel, got %v", err)
		}
	})
}

func TestClampKeepsPositionsInsideMargins(t *testing.T) {
	lvl, err := Parse("small", []byte(smallMap))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 1000; i++ {
		x, y := lvl.Clamp(rng.Float64()*1000-500, rng.Float64()*1000-500)
		if x < EdgeMargin || x > float64(lvl.WidthPx-EdgeMargin) || y < EdgeMargin || y > float64(lvl.HeightPx-EdgeMargin) {
			t.Fatalf("clamped position (%f, %f) outside margins", x, y)
		}
	}
	if x, y := lvl.Clamp(100, 100); x != 100 || y != 100 {
		t.Fatalf("expected inner position unchanged, got (%f, %f)", x, y)
	}
}

func TestIsOutside(t *testing.T) {
	lvl, err := Parse("small", []byte(smallMap))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	cases := []struct {
		x, y float64
		want bool
	}{
		{0, 0, false},
		{320, 256, false},
		{-0.1, 10, true},
		{10, 256.5, true},
	}
	for _, tc := range cases {
		if got := lvl.IsOutside(tc.x, tc.y); got != tc.want {
			t.Fatalf("IsOutside(%v, %v) = %v, want %v", tc.x, tc.y, got, tc.want)
		}
	}
}

func TestChoose(t *testing.T) {
	dir := t.TempDir()
	writeLevel(t, dir, "one.json", smallMap)
	reg, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	rng := rand.New(rand.NewSource(1))
	if lvl, err := reg.Choose("", rng); err != nil || lvl.Name != "one" {
		t.Fatalf("expected random choice of the only level, got %v, %v", lvl, err)
	}
	if _, err := reg.Choose("two", rng); !errors.Is(err, ErrUnknownLevel) {
		t.Fatalf("expected ErrUnknownLevel, got %v", err)
	}
}
