package expand

import (
	"fmt"

	"cssroll/css"
)

// AnimateOptions describes one multi-element animation expansion.
type AnimateOptions struct {
	Selector string // base selector, elements addressed positionally
	Count    int    // number of sibling elements, >= 1
	Property string // animated property
	Timing   string // animation timing, appended after the generated name
	Steps    int    // keyframe steps per element, >= 2
}

// Animate generates one uniquely named keyframe animation per element. The
// step percentage table is computed once and shared by all elements; step
// values are generated independently, one generator call per step, so every
// element gets its own progression while vendor-prefixed duplicates of the
// same element share it.
//
// Any validation or generator failure aborts the whole expansion; no
// partial output is returned.
func Animate(names *css.NameGenerator, opts AnimateOptions, gen ValueGenerator) ([]*css.Rule, error) {
	if opts.Count < 1 {
		return nil, fmt.Errorf("element count must be at least 1, got %d", opts.Count)
	}
	if opts.Property == "" {
		return nil, fmt.Errorf("animated property must be set")
	}
	if gen == nil {
		return nil, fmt.Errorf("value generator must be set")
	}

	table, err := css.StepPercentages(opts.Steps)
	if err != nil {
		return nil, err
	}

	rules := make([]*css.Rule, 0, opts.Count)
	for i := 1; i <= opts.Count; i++ {
		name := names.Next()

		steps := make([]css.KeyframeStep, len(table))
		for k, pct := range table {
			value, err := gen()
			if err != nil {
				return nil, fmt.Errorf("element %d, step %d: %w", i, k+1, err)
			}
			steps[k] = css.KeyframeStep{
				Percent:      pct,
				Declarations: []css.Declaration{{Property: opts.Property, Value: value}},
			}
		}

		binding := name
		if opts.Timing != "" {
			binding += " " + opts.Timing
		}

		rules = append(rules, &css.Rule{
			Selector: nthChild(opts.Selector, i),
			Declarations: []css.Declaration{
				{Property: "animation", Value: binding, Prefixed: true},
			},
			Keyframes: []*css.Keyframes{{Name: name, Steps: steps}},
		})
	}
	return rules, nil
}

// EachOptions describes a per-element single-value expansion.
type EachOptions struct {
	Selector string
	Count    int
	Property string
}

// Each generates one independently randomized property value per element,
// without keyframes: the positional counterpart of Animate for static
// values.
func Each(opts EachOptions, gen ValueGenerator) ([]*css.Rule, error) {
	if opts.Count < 1 {
		return nil, fmt.Errorf("element count must be at least 1, got %d", opts.Count)
	}
	if opts.Property == "" {
		return nil, fmt.Errorf("property must be set")
	}
	if gen == nil {
		return nil, fmt.Errorf("value generator must be set")
	}

	rules := make([]*css.Rule, 0, opts.Count)
	for i := 1; i <= opts.Count; i++ {
		value, err := gen()
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		rules = append(rules, &css.Rule{
			Selector:     nthChild(opts.Selector, i),
			Declarations: []css.Declaration{{Property: opts.Property, Value: value}},
		})
	}
	return rules, nil
}
