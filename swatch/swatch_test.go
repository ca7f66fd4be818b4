package swatch_test

import (
	"fmt"
	"strings"
	"testing"

	"cssroll/expand"
	"cssroll/randutil"
	"cssroll/swatch"
)

func colorGen(t *testing.T, seed int64) expand.ValueGenerator {
	t.Helper()

	ctx := expand.NewContext(randutil.NewSeeded(seed), nil, nil)
	gen, err := expand.Bind(ctx, "random-color", nil)
	if err != nil {
		t.Fatalf("Bind() error = %v", err)
	}
	return gen
}

func TestBuild(t *testing.T) {
	data, err := swatch.Build(colorGen(t, 1), swatch.Options{Columns: 4, CellSize: 16, Count: 10})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	out := string(data)
	if !strings.HasPrefix(out, "<svg ") {
		t.Fatalf("output does not start with svg element:\n%s", out)
	}
	if got := strings.Count(out, "<rect "); got != 10 {
		t.Errorf("output has %d cells, want 10:\n%s", got, out)
	}
	// 4 columns x 16px wide, 3 rows x 16px tall
	if !strings.Contains(out, `width="64" height="48"`) {
		t.Errorf("unexpected grid geometry:\n%s", out)
	}
}

func TestBuild_Validation(t *testing.T) {
	gen := colorGen(t, 1)

	tests := []swatch.Options{
		{Columns: 0, CellSize: 16, Count: 4},
		{Columns: 4, CellSize: 4, Count: 4},
		{Columns: 4, CellSize: 16, Count: 0},
	}
	for _, opts := range tests {
		if _, err := swatch.Build(gen, opts); err == nil {
			t.Errorf("Build(%+v) expected error", opts)
		}
	}

	if _, err := swatch.Build(nil, swatch.Options{Columns: 4, CellSize: 16, Count: 4}); err == nil {
		t.Error("Build() with nil generator expected error")
	}
}

func TestBuild_GeneratorFailure(t *testing.T) {
	calls := 0
	gen := func() (string, error) {
		calls++
		if calls == 3 {
			return "", fmt.Errorf("boom")
		}
		return "#336699", nil
	}

	if _, err := swatch.Build(gen, swatch.Options{Columns: 4, CellSize: 16, Count: 8}); err == nil {
		t.Error("expected error from failing generator")
	}
}

func TestRasterize(t *testing.T) {
	data, err := swatch.Build(colorGen(t, 2), swatch.Options{Columns: 8, CellSize: 32, Count: 64})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	img, err := swatch.Rasterize(data, 0, 0)
	if err != nil {
		t.Fatalf("Rasterize() error = %v", err)
	}
	if img.Bounds().Dx() != 256 || img.Bounds().Dy() != 256 {
		t.Errorf("unexpected bounds: %v", img.Bounds())
	}
}

func TestRasterize_TargetWidth(t *testing.T) {
	data, err := swatch.Build(colorGen(t, 3), swatch.Options{Columns: 4, CellSize: 16, Count: 8})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	img, err := swatch.Rasterize(data, 128, 0)
	if err != nil {
		t.Fatalf("Rasterize() error = %v", err)
	}
	if img.Bounds().Dx() != 128 {
		t.Errorf("width = %d, want 128", img.Bounds().Dx())
	}
	// 4x16 wide, 2x16 tall source keeps 2:1 aspect ratio
	if img.Bounds().Dy() != 64 {
		t.Errorf("height = %d, want 64", img.Bounds().Dy())
	}
}

func TestRasterize_BadSVG(t *testing.T) {
	if _, err := swatch.Rasterize([]byte("not svg at all"), 0, 0); err == nil {
		t.Error("expected error for unparsable svg")
	}
}
