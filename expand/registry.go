// Package expand implements the preprocessor: it parses source CSS, replaces
// generator-function placeholders in declaration values and expands
// randomization at-rules into per-element output.
package expand

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/maruel/natural"
	"go.uber.org/zap"

	"cssroll/colors"
	"cssroll/randutil"
)

// ValueGenerator produces one randomized CSS value per call. The animator
// calls it once per keyframe step; the declaration expander calls it once
// per placeholder.
type ValueGenerator func() (string, error)

// Context carries everything generator functions draw from. It is built
// once per expansion run.
type Context struct {
	RNG    *randutil.Rand
	Colors *colors.Generator
	Pools  map[string][]string
	Log    *zap.Logger
}

// NewContext builds a generator context. Pools must already be flattened.
func NewContext(rng *randutil.Rand, pools map[string][]string, log *zap.Logger) *Context {
	if log == nil {
		log = zap.NewNop()
	}
	return &Context{
		RNG:    rng,
		Colors: colors.NewGenerator(rng, log),
		Pools:  pools,
		Log:    log,
	}
}

// GeneratorFunc binds raw CSS arguments to a ValueGenerator. Argument
// errors are reported at bind time so the whole expansion fails before any
// output is produced.
type GeneratorFunc func(ctx *Context, args []string) (ValueGenerator, error)

// builtins maps generator function names as they appear in source CSS.
var builtins = map[string]GeneratorFunc{
	"random-between":         bindRandomBetween,
	"random-decimal-between": bindRandomDecimalBetween,
	"random-color":           bindRandomColor,
	"random-hue-color":       bindRandomHueColor,
	"random-color-mix":       bindRandomColorMix,
	"random-select":          bindRandomSelect,
	"random-pool":            bindRandomPool,
	"shuffle":                bindShuffle,
	"roll":                   bindRoll,
}

// Resolve looks a generator function up by name.
func Resolve(name string) (GeneratorFunc, bool) {
	fn, ok := builtins[strings.ToLower(name)]
	return fn, ok
}

// Functions returns all registered generator names in natural order.
func Functions() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Sort(natural.StringSlice(names))
	return names
}

// Bind resolves name and binds args in one step.
func Bind(ctx *Context, name string, args []string) (ValueGenerator, error) {
	fn, ok := Resolve(name)
	if !ok {
		return nil, fmt.Errorf("unknown generator function %q (known: %s)", name, strings.Join(Functions(), ", "))
	}
	gen, err := fn(ctx, args)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return gen, nil
}

func needArgs(args []string, lo, hi int) error {
	if len(args) < lo || (hi >= 0 && len(args) > hi) {
		if lo == hi {
			return fmt.Errorf("expected %d argument(s), got %d", lo, len(args))
		}
		return fmt.Errorf("expected %d to %d arguments, got %d", lo, hi, len(args))
	}
	return nil
}

func argFloat(args []string, i int) (float64, error) {
	v, err := strconv.ParseFloat(args[i], 64)
	if err != nil {
		return 0, fmt.Errorf("argument %d: %q is not a number", i+1, args[i])
	}
	return v, nil
}

func argInt(args []string, i int) (int, error) {
	v, err := argFloat(args, i)
	if err != nil {
		return 0, err
	}
	if !randutil.IsInt(v) {
		return 0, fmt.Errorf("argument %d: %q is not an integer", i+1, args[i])
	}
	return int(v), nil
}

// random-between(lo, hi[, unit])
func bindRandomBetween(ctx *Context, args []string) (ValueGenerator, error) {
	if err := needArgs(args, 2, 3); err != nil {
		return nil, err
	}
	lo, err := argInt(args, 0)
	if err != nil {
		return nil, err
	}
	hi, err := argInt(args, 1)
	if err != nil {
		return nil, err
	}
	unit := ""
	if len(args) == 3 {
		unit = args[2]
	}
	return func() (string, error) {
		return strconv.Itoa(ctx.RNG.Between(lo, hi)) + unit, nil
	}, nil
}

// random-decimal-between(lo, hi[, unit])
func bindRandomDecimalBetween(ctx *Context, args []string) (ValueGenerator, error) {
	if err := needArgs(args, 2, 3); err != nil {
		return nil, err
	}
	lo, err := argFloat(args, 0)
	if err != nil {
		return nil, err
	}
	hi, err := argFloat(args, 1)
	if err != nil {
		return nil, err
	}
	unit := ""
	if len(args) == 3 {
		unit = args[2]
	}
	return func() (string, error) {
		v := ctx.RNG.DecimalBetween(lo, hi)
		return strconv.FormatFloat(v, 'f', 3, 64) + unit, nil
	}, nil
}

// random-color([mr, mg, mb[, opacity|random]])
func bindRandomColor(ctx *Context, args []string) (ValueGenerator, error) {
	if len(args) != 0 && len(args) != 3 && len(args) != 4 {
		return nil, fmt.Errorf("expected 0, 3 or 4 arguments, got %d", len(args))
	}

	opts := colors.RandomOptions{Multiplier: [3]float64{1, 1, 1}, Opacity: 1}
	if len(args) >= 3 {
		for i := 0; i < 3; i++ {
			m, err := argFloat(args, i)
			if err != nil {
				return nil, err
			}
			opts.Multiplier[i] = m
		}
	}
	if len(args) == 4 {
		if strings.EqualFold(args[3], "random") {
			opts.RandomOpacity = true
		} else {
			a, err := argFloat(args, 3)
			if err != nil {
				return nil, err
			}
			opts.Opacity = a
		}
	}

	// multipliers are checked once up front so a bad call fails before any
	// output is emitted
	if _, err := ctx.Colors.Random(opts); err != nil {
		return nil, err
	}

	return func() (string, error) {
		c, err := ctx.Colors.Random(opts)
		if err != nil {
			return "", err
		}
		return c.CSS(), nil
	}, nil
}

// random-hue-color(hue)
func bindRandomHueColor(ctx *Context, args []string) (ValueGenerator, error) {
	if err := needArgs(args, 1, 1); err != nil {
		return nil, err
	}
	hue, err := argFloat(args, 0)
	if err != nil {
		return nil, err
	}
	return func() (string, error) {
		return ctx.Colors.RandomHue(hue).CSS(), nil
	}, nil
}

// random-color-mix(colorA, colorB[, lo, hi])
func bindRandomColorMix(ctx *Context, args []string) (ValueGenerator, error) {
	if len(args) != 2 && len(args) != 4 {
		return nil, fmt.Errorf("expected 2 or 4 arguments, got %d", len(args))
	}
	a, err := colors.Parse(args[0])
	if err != nil {
		return nil, err
	}
	b, err := colors.Parse(args[1])
	if err != nil {
		return nil, err
	}
	lo, hi := 0.0, 1.0
	if len(args) == 4 {
		if lo, err = argFloat(args, 2); err != nil {
			return nil, err
		}
		if hi, err = argFloat(args, 3); err != nil {
			return nil, err
		}
	}
	return func() (string, error) {
		return ctx.Colors.RandomMix(a, b, lo, hi).CSS(), nil
	}, nil
}

// random-select(v1, v2, ...) - a single space-separated argument is treated
// as a list and flattened first.
func bindRandomSelect(ctx *Context, args []string) (ValueGenerator, error) {
	if err := needArgs(args, 1, -1); err != nil {
		return nil, err
	}
	items := args
	if len(args) == 1 {
		items = strings.Fields(args[0])
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("no values to select from")
	}
	return func() (string, error) {
		return randutil.Pick(ctx.RNG, items)
	}, nil
}

// random-pool(name) - uniform pick from a flattened configured value pool.
func bindRandomPool(ctx *Context, args []string) (ValueGenerator, error) {
	if err := needArgs(args, 1, 1); err != nil {
		return nil, err
	}
	name := args[0]
	pool, ok := ctx.Pools[name]
	if !ok {
		known := make([]string, 0, len(ctx.Pools))
		for k := range ctx.Pools {
			known = append(known, k)
		}
		sort.Sort(natural.StringSlice(known))
		return nil, fmt.Errorf("unknown value pool %q (configured: %s)", name, strings.Join(known, ", "))
	}
	if len(pool) == 0 {
		return nil, fmt.Errorf("value pool %q is empty", name)
	}
	return func() (string, error) {
		return randutil.Pick(ctx.RNG, pool)
	}, nil
}

// shuffle(v1, v2, ...) - emits the arguments in uniformly random order.
func bindShuffle(ctx *Context, args []string) (ValueGenerator, error) {
	if err := needArgs(args, 1, -1); err != nil {
		return nil, err
	}
	items := args
	if len(args) == 1 {
		items = strings.Fields(args[0])
	}
	return func() (string, error) {
		shuffled := make([]string, len(items))
		copy(shuffled, items)
		randutil.Shuffle(ctx.RNG, shuffled)
		return strings.Join(shuffled, " "), nil
	}, nil
}

// roll(NdM) - dice notation sum.
func bindRoll(ctx *Context, args []string) (ValueGenerator, error) {
	if err := needArgs(args, 1, 2); err != nil {
		return nil, err
	}
	notation := args[0]
	unit := ""
	if len(args) == 2 {
		unit = args[1]
	}
	// validate notation up front
	if _, err := ctx.RNG.Roll(notation); err != nil {
		return nil, err
	}
	return func() (string, error) {
		v, err := ctx.RNG.Roll(notation)
		if err != nil {
			return "", err
		}
		return strconv.Itoa(v) + unit, nil
	}, nil
}

// nthChild builds the positional selector for element i (1-based).
func nthChild(selector string, i int) string {
	return fmt.Sprintf("%s:nth-child(%d)", selector, i)
}
