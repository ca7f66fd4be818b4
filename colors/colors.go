// Package colors generates randomized CSS color values.
package colors

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
	"go.uber.org/zap"

	"cssroll/randutil"
)

// Color is an RGB color with an alpha channel. colorful.Color carries no
// alpha, so it is kept separately.
type Color struct {
	C colorful.Color
	A float64
}

// Parse reads a CSS hex color ("#rgb" or "#rrggbb"). Alpha is always 1.
func Parse(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if len(s) == 4 && s[0] == '#' {
		// colorful accepts only the long form
		s = fmt.Sprintf("#%c%c%c%c%c%c", s[1], s[1], s[2], s[2], s[3], s[3])
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, fmt.Errorf("malformed color %q: %w", s, err)
	}
	return Color{C: c, A: 1}, nil
}

// CSS returns the color as a CSS value: hex when fully opaque, rgba()
// otherwise.
func (c Color) CSS() string {
	r, g, b := c.C.RGB255()
	if c.A >= 1 {
		return c.C.Hex()
	}
	a := strconv.FormatFloat(math.Round(c.A*1000)/1000, 'f', -1, 64)
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", r, g, b, a)
}

// Generator produces randomized colors. Out-of-range inputs that can be
// corrected are clamped or wrapped with a logged warning; generation
// continues with the corrected value.
type Generator struct {
	rng *randutil.Rand
	log *zap.Logger
}

// NewGenerator creates a color generator drawing from rng.
func NewGenerator(rng *randutil.Rand, log *zap.Logger) *Generator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Generator{rng: rng, log: log.Named("colors")}
}

// RandomOptions controls Random.
type RandomOptions struct {
	// Multiplier scales the draw ceiling of each channel: a channel is drawn
	// from [1, 255*multiplier] and clamped back into [1, 255]. Values above 1
	// bias the channel towards saturation.
	Multiplier [3]float64
	// Opacity is the fixed alpha unless RandomOpacity is set.
	Opacity       float64
	RandomOpacity bool
}

// Random returns a color with each channel drawn independently according to
// its multiplier. Multipliers must be positive; opacity outside [0, 1] is
// clamped with a warning.
func (g *Generator) Random(opts RandomOptions) (Color, error) {
	for i, m := range opts.Multiplier {
		if m <= 0 {
			return Color{}, fmt.Errorf("channel multiplier %d must be positive, got %v", i+1, m)
		}
	}

	alpha := opts.Opacity
	if opts.RandomOpacity {
		alpha = g.rng.Float64()
	} else if alpha < 0 || alpha > 1 {
		corrected := randutil.Clamp(alpha, 0, 1)
		g.log.Warn("Opacity out of range, clamping", zap.Float64("opacity", alpha), zap.Float64("using", corrected))
		alpha = corrected
	}

	channel := func(mult float64) float64 {
		n := g.rng.Between(1, int(255*mult))
		return randutil.Clamp(float64(n), 1, 255) / 255
	}

	return Color{
		C: colorful.Color{
			R: channel(opts.Multiplier[0]),
			G: channel(opts.Multiplier[1]),
			B: channel(opts.Multiplier[2]),
		},
		A: alpha,
	}, nil
}

// RandomHue returns a color of the given hue with random saturation in
// [20, 100] and lightness in [20, 80] percent. Hue outside [0, 360) is
// wrapped with a warning.
func (g *Generator) RandomHue(hue float64) Color {
	if hue < 0 || hue >= 360 {
		wrapped := math.Mod(math.Mod(hue, 360)+360, 360)
		g.log.Warn("Hue out of range, wrapping", zap.Float64("hue", hue), zap.Float64("using", wrapped))
		hue = wrapped
	}

	sat := float64(g.rng.Between(20, 100)) / 100
	light := float64(g.rng.Between(20, 80)) / 100
	return Color{C: colorful.Hsl(hue, sat, light), A: 1}
}

// RandomMix blends two colors at a random ratio drawn from [lo, hi]. Ratios
// are clamped into [0, 1] with a warning; bounds given in reverse order are
// swapped.
func (g *Generator) RandomMix(a, b Color, lo, hi float64) Color {
	if lo > hi {
		lo, hi = hi, lo
	}
	if lo < 0 || hi > 1 {
		cLo, cHi := randutil.Clamp(lo, 0, 1), randutil.Clamp(hi, 0, 1)
		g.log.Warn("Mix ratio bounds out of range, clamping",
			zap.Float64("lo", lo), zap.Float64("hi", hi),
			zap.Float64("usingLo", cLo), zap.Float64("usingHi", cHi))
		lo, hi = cLo, cHi
	}

	t := g.rng.DecimalBetween(lo, hi)
	return Color{
		C: a.C.BlendRgb(b.C, t),
		A: a.A + (b.A-a.A)*t,
	}
}
