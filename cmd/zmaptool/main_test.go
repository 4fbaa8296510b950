package main

import (
	"bufio"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/Faultbox/zmapmesh/internal/config"
	"github.com/Faultbox/zmapmesh/pkg/formats"
)

func TestGenerators(t *testing.T) {
	for name, gen := range generators {
		t.Run(name, func(t *testing.T) {
			a := gen(20, 16, 7)
			b := gen(20, 16, 7)
			if len(a) != 20*16 {
				t.Fatalf("got %d samples, want %d", len(a), 20*16)
			}
			for i := range a {
				if a[i] != b[i] {
					t.Fatalf("sample %d not deterministic: %v vs %v", i, a[i], b[i])
				}
			}
		})
	}
}

func TestRun_GenBuildExportPreview(t *testing.T) {
	cfg := config.Default()
	dir := t.TempDir()
	grid := filepath.Join(dir, "hills.zmap")

	if err := run(cfg, "gen", []string{"-w", "40", "-h", "30", "terrace", grid}); err != nil {
		t.Fatalf("gen failed: %v", err)
	}

	z, err := formats.ParseZMapFile(grid)
	if err != nil {
		t.Fatalf("ParseZMapFile failed: %v", err)
	}
	if z.WidthSamples != 40 || z.HeightSamples != 30 || int(z.Padding) != cfg.Mesh.Padding {
		t.Errorf("header = %dx%d padding %d", z.WidthSamples, z.HeightSamples, z.Padding)
	}

	for _, cmd := range []string{"info", "build"} {
		if err := run(cfg, cmd, []string{grid}); err != nil {
			t.Errorf("%s failed: %v", cmd, err)
		}
	}

	obj := filepath.Join(dir, "out", "hills.obj")
	if err := run(cfg, "export", []string{grid, obj}); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if n := countPrefix(t, obj, "f "); n == 0 {
		t.Error("OBJ has no faces")
	}

	for _, args := range [][]string{
		{grid, filepath.Join(dir, "relief.png")},
		{"-blocks", grid, filepath.Join(dir, "blocks.bmp")},
	} {
		if err := run(cfg, "preview", args); err != nil {
			t.Errorf("preview %v failed: %v", args, err)
		}
		if _, err := os.Stat(args[len(args)-1]); err != nil {
			t.Errorf("preview output missing: %v", err)
		}
	}
}

func TestRun_Batch(t *testing.T) {
	cfg := config.Default()
	cfg.Build.Workers = 2
	dir := t.TempDir()

	var paths []string
	for i, kind := range []string{"flat", "checker", "ridge"} {
		p := filepath.Join(dir, kind+".zmap")
		if err := run(cfg, "gen", []string{"-w", "24", "-h", "24", "-seed", strconv.Itoa(i + 1), kind, p}); err != nil {
			t.Fatalf("gen %s failed: %v", kind, err)
		}
		paths = append(paths, p)
	}

	if err := run(cfg, "batch", paths); err != nil {
		t.Errorf("batch failed: %v", err)
	}
	if err := run(cfg, "batch", append([]string{"-stream"}, paths...)); err != nil {
		t.Errorf("batch -stream failed: %v", err)
	}
}

func TestRun_Usage(t *testing.T) {
	cfg := config.Default()

	tests := []struct {
		command string
		args    []string
	}{
		{"bogus", nil},
		{"info", nil},
		{"build", nil},
		{"export", []string{"only-one"}},
		{"preview", nil},
		{"height", []string{"grid.zmap", "1"}},
		{"height", []string{"grid.zmap", "east", "2"}},
		{"batch", nil},
		{"gen", []string{"mountains", "out.zmap"}},
	}
	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			if err := run(cfg, tt.command, tt.args); !errors.Is(err, errUsage) {
				t.Errorf("error = %v, want usage error", err)
			}
		})
	}
}

func TestRun_PreviewDefaultName(t *testing.T) {
	cfg := config.Default()
	dir := t.TempDir()
	grid := filepath.Join(dir, "hills.zmap")

	if err := run(cfg, "gen", []string{"-w", "16", "-h", "16", "ridge", grid}); err != nil {
		t.Fatalf("gen failed: %v", err)
	}
	if err := run(cfg, "preview", []string{"-blocks", grid}); err != nil {
		t.Fatalf("preview failed: %v", err)
	}

	matches, err := filepath.Glob(filepath.Join(dir, "hills_blocks_*.png"))
	if err != nil {
		t.Fatalf("glob failed: %v", err)
	}
	if len(matches) != 1 {
		t.Errorf("got %d default-named previews, want 1: %v", len(matches), matches)
	}
}

func TestGroundHeight(t *testing.T) {
	cfg := config.Default()
	grid := filepath.Join(t.TempDir(), "plateau.zmap")

	const width, height, level = 12, 10, 3.5
	padding := cfg.Mesh.Padding
	samples := make([]float32, (width+2*padding)*(height+2*padding))
	for i := range samples {
		samples[i] = level
	}
	z, err := formats.NewZMap(width, height, padding, 60, 50, samples)
	if err != nil {
		t.Fatalf("NewZMap failed: %v", err)
	}
	if err := z.WriteFile(grid); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	for _, xy := range [][2]float32{{0, 0}, {-30, 25}, {29.5, -24}, {100, 100}} {
		h, err := groundHeight(cfg, grid, xy[0], xy[1])
		if err != nil {
			t.Fatalf("groundHeight failed: %v", err)
		}
		if diff := h - level; diff > 1e-5 || diff < -1e-5 {
			t.Errorf("height at %v = %v, want %v", xy, h, level)
		}
	}

	if err := run(cfg, "height", []string{grid, "1.5", "-2"}); err != nil {
		t.Errorf("height failed: %v", err)
	}

	// The halo width stored in the file wins over the configured one.
	wide := config.Default()
	wide.Mesh.Padding = padding + 2
	if h, err := groundHeight(wide, grid, 0, 0); err != nil || h-level > 1e-5 || level-h > 1e-5 {
		t.Errorf("with config padding %d: height = %v, err = %v", wide.Mesh.Padding, h, err)
	}
}

func TestRun_BuildMissingFile(t *testing.T) {
	err := run(config.Default(), "build", []string{filepath.Join(t.TempDir(), "missing.zmap")})
	if err == nil || errors.Is(err, errUsage) {
		t.Errorf("error = %v, want a read error", err)
	}
}

func countPrefix(t *testing.T, path, prefix string) int {
	t.Helper()

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()

	n := 0
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if strings.HasPrefix(sc.Text(), prefix) {
			n++
		}
	}
	return n
}
