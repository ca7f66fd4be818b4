package colors_test

import (
	"strings"
	"testing"

	"go.uber.org/zap"

	"cssroll/colors"
	"cssroll/randutil"
)

func TestParse(t *testing.T) {
	c, err := colors.Parse("#ff8000")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	r, g, b := c.C.RGB255()
	if r != 255 || g != 128 || b != 0 {
		t.Errorf("Parse(#ff8000) = (%d, %d, %d)", r, g, b)
	}
	if c.A != 1 {
		t.Errorf("alpha = %v, want 1", c.A)
	}
}

func TestParse_ShortForm(t *testing.T) {
	c, err := colors.Parse("#f80")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	r, g, b := c.C.RGB255()
	if r != 255 || g != 136 || b != 0 {
		t.Errorf("Parse(#f80) = (%d, %d, %d), want (255, 136, 0)", r, g, b)
	}
}

func TestParse_Malformed(t *testing.T) {
	for _, s := range []string{"", "ff8000x", "#ff80", "red("} {
		if _, err := colors.Parse(s); err == nil {
			t.Errorf("Parse(%q) expected error", s)
		}
	}
}

func TestColor_CSS(t *testing.T) {
	c, err := colors.Parse("#336699")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if got := c.CSS(); got != "#336699" {
		t.Errorf("opaque CSS() = %q, want #336699", got)
	}

	c.A = 0.5
	got := c.CSS()
	if !strings.HasPrefix(got, "rgba(51, 102, 153, ") {
		t.Errorf("translucent CSS() = %q, want rgba(51, 102, 153, ...)", got)
	}
}

func TestGenerator_Random_ChannelRanges(t *testing.T) {
	g := colors.NewGenerator(randutil.NewSeeded(11), zap.NewNop())

	// Red multiplier 2 widens the draw to [1, 510] before clamping back to
	// [1, 255]; all channels must still end up in [1, 255].
	opts := colors.RandomOptions{Multiplier: [3]float64{2, 1, 1}, Opacity: 1}
	for i := 0; i < 500; i++ {
		c, err := g.Random(opts)
		if err != nil {
			t.Fatalf("Random() error = %v", err)
		}
		r, gg, b := c.C.RGB255()
		for name, v := range map[string]uint8{"r": r, "g": gg, "b": b} {
			if v < 1 {
				t.Fatalf("channel %s = %d, want >= 1", name, v)
			}
		}
		if c.A != 1 {
			t.Fatalf("alpha = %v, want exactly 1", c.A)
		}
	}
}

func TestGenerator_Random_MultiplierBias(t *testing.T) {
	g := colors.NewGenerator(randutil.NewSeeded(12), zap.NewNop())

	// With multiplier 2 half of the raw draws land above 255 and clamp to
	// the ceiling, so saturated red must show up often.
	opts := colors.RandomOptions{Multiplier: [3]float64{2, 1, 1}, Opacity: 1}
	saturated := 0
	const trials = 1000
	for i := 0; i < trials; i++ {
		c, err := g.Random(opts)
		if err != nil {
			t.Fatalf("Random() error = %v", err)
		}
		if r, _, _ := c.C.RGB255(); r == 255 {
			saturated++
		}
	}
	if saturated < trials/3 {
		t.Errorf("saturated red in %d/%d draws, expected roughly half", saturated, trials)
	}
}

func TestGenerator_Random_BadMultiplier(t *testing.T) {
	g := colors.NewGenerator(randutil.NewSeeded(13), zap.NewNop())

	for _, mult := range [][3]float64{{0, 1, 1}, {1, -1, 1}, {1, 1, 0}} {
		if _, err := g.Random(colors.RandomOptions{Multiplier: mult, Opacity: 1}); err == nil {
			t.Errorf("Random() with multiplier %v expected error", mult)
		}
	}
}

func TestGenerator_Random_OpacityClamped(t *testing.T) {
	g := colors.NewGenerator(randutil.NewSeeded(14), zap.NewNop())

	c, err := g.Random(colors.RandomOptions{Multiplier: [3]float64{1, 1, 1}, Opacity: 1.7})
	if err != nil {
		t.Fatalf("Random() error = %v", err)
	}
	if c.A != 1 {
		t.Errorf("alpha = %v, want clamped to 1", c.A)
	}
}

func TestGenerator_RandomHue(t *testing.T) {
	g := colors.NewGenerator(randutil.NewSeeded(15), zap.NewNop())

	for i := 0; i < 500; i++ {
		c := g.RandomHue(120)
		h, s, l := c.C.Hsl()
		if h < 119 || h > 121 {
			t.Fatalf("hue = %v, want ~120", h)
		}
		if s < 0.19 || s > 1.01 {
			t.Fatalf("saturation = %v, out of [0.2, 1]", s)
		}
		if l < 0.19 || l > 0.81 {
			t.Fatalf("lightness = %v, out of [0.2, 0.8]", l)
		}
	}
}

func TestGenerator_RandomHue_Wraps(t *testing.T) {
	g := colors.NewGenerator(randutil.NewSeeded(16), zap.NewNop())

	// 480 wraps to 120; only verify the call survives and yields that hue.
	c := g.RandomHue(480)
	if h, _, _ := c.C.Hsl(); h < 119 || h > 121 {
		t.Errorf("hue = %v, want ~120 after wrapping 480", h)
	}
}

func TestGenerator_RandomMix(t *testing.T) {
	g := colors.NewGenerator(randutil.NewSeeded(17), zap.NewNop())

	black, _ := colors.Parse("#000000")
	white, _ := colors.Parse("#ffffff")

	for i := 0; i < 200; i++ {
		c := g.RandomMix(black, white, 0.25, 0.75)
		r, _, _ := c.C.RGB255()
		// blend of black and white stays gray within the ratio band
		if r < 50 || r > 205 {
			t.Fatalf("mix channel = %d, outside expected band", r)
		}
	}
}

func TestGenerator_RandomMix_SwappedAndClamped(t *testing.T) {
	g := colors.NewGenerator(randutil.NewSeeded(18), zap.NewNop())

	black, _ := colors.Parse("#000000")
	white, _ := colors.Parse("#ffffff")

	// bounds reversed and out of range - must be corrected, not fail
	c := g.RandomMix(black, white, 1.5, -0.5)
	if c.A != 1 {
		t.Errorf("alpha = %v, want 1", c.A)
	}
}
