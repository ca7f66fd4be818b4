package expand_test

import (
	"fmt"
	"strings"
	"testing"

	"cssroll/css"
	"cssroll/expand"
)

func TestAnimate(t *testing.T) {
	calls := 0
	gen := func() (string, error) {
		calls++
		return fmt.Sprintf("value-%d", calls), nil
	}

	rules, err := expand.Animate(css.NewNameGenerator("spark"), expand.AnimateOptions{
		Selector: ".spark",
		Count:    2,
		Property: "opacity",
		Timing:   "2s linear infinite",
		Steps:    3,
	}, gen)
	if err != nil {
		t.Fatalf("Animate() error = %v", err)
	}

	if len(rules) != 2 {
		t.Fatalf("Animate() produced %d rules, want 2", len(rules))
	}
	if calls != 6 {
		t.Errorf("generator called %d times, want 6 (2 elements x 3 steps)", calls)
	}

	for i, rule := range rules {
		wantSel := fmt.Sprintf(".spark:nth-child(%d)", i+1)
		if rule.Selector != wantSel {
			t.Errorf("rule %d selector = %q, want %q", i, rule.Selector, wantSel)
		}

		if len(rule.Declarations) != 1 {
			t.Fatalf("rule %d has %d declarations, want 1", i, len(rule.Declarations))
		}
		d := rule.Declarations[0]
		if d.Property != "animation" || !d.Prefixed {
			t.Errorf("rule %d declaration = %+v, want prefixed animation", i, d)
		}

		if len(rule.Keyframes) != 1 {
			t.Fatalf("rule %d has %d keyframe blocks, want 1", i, len(rule.Keyframes))
		}
		kf := rule.Keyframes[0]
		if !strings.HasPrefix(d.Value, kf.Name+" ") {
			t.Errorf("binding %q does not start with animation name %q", d.Value, kf.Name)
		}
		if !strings.HasSuffix(d.Value, " 2s linear infinite") {
			t.Errorf("binding %q does not carry timing", d.Value)
		}

		wantPct := []int{0, 50, 100}
		if len(kf.Steps) != len(wantPct) {
			t.Fatalf("rule %d has %d steps, want %d", i, len(kf.Steps), len(wantPct))
		}
		for k, step := range kf.Steps {
			if step.Percent != wantPct[k] {
				t.Errorf("rule %d step %d percent = %d, want %d", i, k, step.Percent, wantPct[k])
			}
			if len(step.Declarations) != 1 || step.Declarations[0].Property != "opacity" {
				t.Errorf("rule %d step %d declarations = %+v", i, k, step.Declarations)
			}
		}
	}

	if rules[0].Keyframes[0].Name == rules[1].Keyframes[0].Name {
		t.Error("elements share an animation name")
	}

	// step values must be independent per element
	if rules[0].Keyframes[0].Steps[0].Declarations[0].Value == rules[1].Keyframes[0].Steps[0].Declarations[0].Value {
		t.Error("elements share step values")
	}
}

func TestAnimate_Validation(t *testing.T) {
	ok := func() (string, error) { return "1", nil }
	names := css.NewNameGenerator("x")

	tests := []struct {
		name string
		opts expand.AnimateOptions
		gen  expand.ValueGenerator
	}{
		{"zero count", expand.AnimateOptions{Selector: ".x", Count: 0, Property: "top", Steps: 2}, ok},
		{"empty property", expand.AnimateOptions{Selector: ".x", Count: 1, Steps: 2}, ok},
		{"one step", expand.AnimateOptions{Selector: ".x", Count: 1, Property: "top", Steps: 1}, ok},
		{"nil generator", expand.AnimateOptions{Selector: ".x", Count: 1, Property: "top", Steps: 2}, nil},
	}

	for _, tt := range tests {
		if _, err := expand.Animate(names, tt.opts, tt.gen); err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
	}
}

func TestAnimate_GeneratorFailure(t *testing.T) {
	calls := 0
	gen := func() (string, error) {
		calls++
		if calls == 3 {
			return "", fmt.Errorf("boom")
		}
		return "v", nil
	}

	rules, err := expand.Animate(css.NewNameGenerator("x"), expand.AnimateOptions{
		Selector: ".x",
		Count:    2,
		Property: "top",
		Steps:    2,
	}, gen)
	if err == nil {
		t.Fatal("expected error from failing generator")
	}
	if rules != nil {
		t.Errorf("expected no partial output, got %d rules", len(rules))
	}
	if !strings.Contains(err.Error(), "element 2, step 1") {
		t.Errorf("error %q does not locate the failure", err)
	}
}

func TestEach(t *testing.T) {
	calls := 0
	gen := func() (string, error) {
		calls++
		return fmt.Sprintf("%dpx", calls), nil
	}

	rules, err := expand.Each(expand.EachOptions{
		Selector: "li.dot",
		Count:    3,
		Property: "margin-left",
	}, gen)
	if err != nil {
		t.Fatalf("Each() error = %v", err)
	}
	if len(rules) != 3 {
		t.Fatalf("Each() produced %d rules, want 3", len(rules))
	}
	for i, rule := range rules {
		wantSel := fmt.Sprintf("li.dot:nth-child(%d)", i+1)
		if rule.Selector != wantSel {
			t.Errorf("rule %d selector = %q, want %q", i, rule.Selector, wantSel)
		}
		if len(rule.Keyframes) != 0 {
			t.Errorf("rule %d unexpectedly has keyframes", i)
		}
		want := fmt.Sprintf("%dpx", i+1)
		if rule.Declarations[0].Value != want {
			t.Errorf("rule %d value = %q, want %q", i, rule.Declarations[0].Value, want)
		}
	}
}

func TestEach_Validation(t *testing.T) {
	ok := func() (string, error) { return "1", nil }
	if _, err := expand.Each(expand.EachOptions{Selector: ".x", Count: 0, Property: "top"}, ok); err == nil {
		t.Error("expected error for zero count")
	}
	if _, err := expand.Each(expand.EachOptions{Selector: ".x", Count: 1}, ok); err == nil {
		t.Error("expected error for empty property")
	}
	if _, err := expand.Each(expand.EachOptions{Selector: ".x", Count: 1, Property: "top"}, nil); err == nil {
		t.Error("expected error for nil generator")
	}
}
