// Package css models generated stylesheet output: rules, declarations and
// keyframe blocks nested inside positional selector rules.
package css

import (
	"fmt"
	"io"
	"strings"
)

// Declaration is a single "property: value" pair. Prefixed declarations are
// additionally emitted under each configured vendor prefix.
type Declaration struct {
	Property string
	Value    string
	Prefixed bool
}

// KeyframeStep is one step of a keyframes block.
type KeyframeStep struct {
	Percent      int // [0, 100]
	Declarations []Declaration
}

// Keyframes is a named @keyframes block. When vendor prefixes are enabled
// the block is duplicated under each prefixed rule name; all duplicates
// reference the same Steps slice, so the value progression is identical
// across prefix variants of one element.
type Keyframes struct {
	Name  string
	Steps []KeyframeStep
}

// Rule is a selector with its declarations and nested keyframe blocks.
type Rule struct {
	Selector     string
	Declarations []Declaration
	Keyframes    []*Keyframes
}

// Item is a single top-level stylesheet item. Exactly one of Rule or Raw is
// set; Raw carries source text passed through unchanged.
type Item struct {
	Rule *Rule
	Raw  string
}

// Stylesheet is generated output in emission order.
type Stylesheet struct {
	Items []Item
}

// Append adds a top-level rule.
func (s *Stylesheet) Append(rule *Rule) {
	s.Items = append(s.Items, Item{Rule: rule})
}

// AppendRaw adds pass-through text as a top-level item.
func (s *Stylesheet) AppendRaw(text string) {
	s.Items = append(s.Items, Item{Raw: text})
}

// WriteOptions controls emission. Prefixes lists vendor prefixes (without
// dashes, e.g. "webkit") to duplicate keyframe blocks and prefixed
// declarations under. It is passed explicitly at call time; there is no
// process-wide prefix state.
type WriteOptions struct {
	Prefixes []string
}

// StepPercentages computes the step percentage table for a keyframes block
// with the given step count: position k maps to floor(k*100/(stepCount-1)),
// so the table always starts at 0 and ends at 100. Step count must be at
// least 2 - a single step cannot express a percentage progression.
func StepPercentages(stepCount int) ([]int, error) {
	if stepCount < 2 {
		return nil, fmt.Errorf("step count must be at least 2, got %d", stepCount)
	}
	table := make([]int, stepCount)
	for k := range table {
		table[k] = k * 100 / (stepCount - 1)
	}
	return table, nil
}

// Write emits the stylesheet to w. Output is deterministic for a fixed
// tree: declarations and steps are written in the order they were generated.
func (s *Stylesheet) Write(w io.Writer, opts WriteOptions) (int64, error) {
	var total int64
	for i, item := range s.Items {
		var n int
		var err error

		switch {
		case item.Rule != nil:
			n, err = writeRule(w, item.Rule, opts)
		default:
			n, err = fmt.Fprint(w, item.Raw)
		}

		total += int64(n)
		if err != nil {
			return total, err
		}

		// blank line between items (except after last)
		if i < len(s.Items)-1 {
			n, err = fmt.Fprint(w, "\n")
			total += int64(n)
			if err != nil {
				return total, err
			}
		}
	}
	return total, nil
}

// String returns the stylesheet text.
func (s *Stylesheet) String(opts WriteOptions) string {
	var sb strings.Builder
	s.Write(&sb, opts) //nolint:errcheck
	return sb.String()
}

// writeRule writes a selector block with its declarations and nested
// keyframe blocks.
func writeRule(w io.Writer, rule *Rule, opts WriteOptions) (int, error) {
	var total int
	n, err := fmt.Fprintf(w, "%s {\n", rule.Selector)
	total += n
	if err != nil {
		return total, err
	}

	for _, d := range rule.Declarations {
		n, err = fmt.Fprintf(w, "  %s: %s;\n", d.Property, d.Value)
		total += n
		if err != nil {
			return total, err
		}
		if d.Prefixed {
			for _, p := range opts.Prefixes {
				n, err = fmt.Fprintf(w, "  -%s-%s: %s;\n", p, d.Property, d.Value)
				total += n
				if err != nil {
					return total, err
				}
			}
		}
	}

	for _, kf := range rule.Keyframes {
		n, err = writeKeyframes(w, kf, "@keyframes")
		total += n
		if err != nil {
			return total, err
		}
		for _, p := range opts.Prefixes {
			n, err = writeKeyframes(w, kf, "@-"+p+"-keyframes")
			total += n
			if err != nil {
				return total, err
			}
		}
	}

	n, err = fmt.Fprint(w, "}\n")
	total += n
	return total, err
}

// writeKeyframes writes one keyframes block under the given rule name,
// indented for nesting inside a selector block.
func writeKeyframes(w io.Writer, kf *Keyframes, atRule string) (int, error) {
	var total int
	n, err := fmt.Fprintf(w, "  %s %s {\n", atRule, kf.Name)
	total += n
	if err != nil {
		return total, err
	}

	for _, step := range kf.Steps {
		n, err = fmt.Fprintf(w, "    %d%% {", step.Percent)
		total += n
		if err != nil {
			return total, err
		}
		for _, d := range step.Declarations {
			n, err = fmt.Fprintf(w, " %s: %s;", d.Property, d.Value)
			total += n
			if err != nil {
				return total, err
			}
		}
		n, err = fmt.Fprint(w, " }\n")
		total += n
		if err != nil {
			return total, err
		}
	}

	n, err = fmt.Fprint(w, "  }\n")
	total += n
	return total, err
}
