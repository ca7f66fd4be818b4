package expand

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	pcss "github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"

	"cssroll/css"
)

// at-rules understood by the expander
const (
	atAnimation = "@randomize-animation"
	atEach      = "@randomize-each"
)

// Expander rewrites source CSS, replacing generator-function placeholders
// and randomization at-rules with generated output. Everything else passes
// through structurally.
type Expander struct {
	ctx   *Context
	names *css.NameGenerator
	log   *zap.Logger
}

// NewExpander creates an expander drawing values from ctx and animation
// names from names.
func NewExpander(ctx *Context, names *css.NameGenerator, log *zap.Logger) *Expander {
	if log == nil {
		log = zap.NewNop()
	}
	return &Expander{ctx: ctx, names: names, log: log.Named("expand")}
}

// Expand processes one source stylesheet. Any validation, argument or
// unknown-function error aborts the whole expansion before any output
// exists - the returned stylesheet is complete or absent.
func (e *Expander) Expand(data []byte) (*css.Stylesheet, error) {
	sheet := &css.Stylesheet{}

	input := parse.NewInput(bytes.NewReader(data))
	p := pcss.NewParser(input, false)

	// selector parts accumulated from QualifiedRuleGrammar for grouped
	// selectors
	var pendingSelectors []string

	for {
		gt, _, data := p.Next()

		switch gt {
		case pcss.ErrorGrammar:
			if err := p.Err(); err != nil && !errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("unable to parse source stylesheet: %w", err)
			}
			return sheet, nil

		case pcss.CommentGrammar:
			sheet.AppendRaw(string(data) + "\n")

		case pcss.AtRuleGrammar:
			sheet.AppendRaw(string(data) + tokensString(p.Values()) + ";\n")

		case pcss.BeginAtRuleGrammar:
			switch strings.ToLower(string(data)) {
			case atAnimation:
				rules, err := e.expandAnimationBlock(p)
				if err != nil {
					return nil, err
				}
				for _, r := range rules {
					sheet.Append(r)
				}
			case atEach:
				rules, err := e.expandEachBlock(p)
				if err != nil {
					return nil, err
				}
				for _, r := range rules {
					sheet.Append(r)
				}
			default:
				raw, err := e.passThroughBlock(p, data)
				if err != nil {
					return nil, err
				}
				sheet.AppendRaw(raw)
			}

		case pcss.QualifiedRuleGrammar:
			pendingSelectors = append(pendingSelectors, selectorString(data, p.Values()))

		case pcss.BeginRulesetGrammar:
			selector := selectorString(data, p.Values())
			if len(pendingSelectors) > 0 {
				selector = strings.Join(append(pendingSelectors, selector), ", ")
				pendingSelectors = nil
			}
			rule, err := e.expandRuleset(p, selector)
			if err != nil {
				return nil, err
			}
			sheet.Append(rule)

		case pcss.TokenGrammar:
			sheet.AppendRaw(string(data))
		}
	}
}

// expandRuleset reads declarations until the ruleset ends, expanding
// generator placeholders in their values.
func (e *Expander) expandRuleset(p *pcss.Parser, selector string) (*css.Rule, error) {
	rule := &css.Rule{Selector: selector}

	for {
		gt, _, data := p.Next()

		switch gt {
		case pcss.ErrorGrammar, pcss.EndRulesetGrammar:
			return rule, nil

		case pcss.DeclarationGrammar, pcss.CustomPropertyGrammar:
			value, err := e.expandValueTokens(p.Values())
			if err != nil {
				return nil, fmt.Errorf("selector %q, property %q: %w", selector, string(data), err)
			}
			rule.Declarations = append(rule.Declarations, css.Declaration{
				Property: string(data),
				Value:    value,
			})

		case pcss.CommentGrammar:
			// comments inside rulesets are dropped
		}
	}
}

// passThroughBlock reconstructs an at-rule block we do not interpret
// (@media, @supports, ...). Declaration values inside it are still
// expanded.
func (e *Expander) passThroughBlock(p *pcss.Parser, name []byte) (string, error) {
	var sb strings.Builder
	sb.Write(name)
	if prelude := strings.TrimSpace(tokensString(p.Values())); prelude != "" {
		sb.WriteString(" " + prelude)
	}
	sb.WriteString(" {\n")

	depth := 1
	for depth > 0 {
		gt, _, data := p.Next()

		switch gt {
		case pcss.ErrorGrammar:
			if err := p.Err(); err != nil && !errors.Is(err, io.EOF) {
				return "", fmt.Errorf("unable to parse at-rule block: %w", err)
			}
			depth = 0

		case pcss.BeginAtRuleGrammar:
			depth++
			sb.WriteString(string(data))
			if prelude := strings.TrimSpace(tokensString(p.Values())); prelude != "" {
				sb.WriteString(" " + prelude)
			}
			sb.WriteString(" {\n")

		case pcss.BeginRulesetGrammar:
			depth++
			sb.WriteString(selectorString(data, p.Values()) + " {\n")

		case pcss.EndAtRuleGrammar, pcss.EndRulesetGrammar:
			depth--
			sb.WriteString("}\n")

		case pcss.DeclarationGrammar, pcss.CustomPropertyGrammar:
			value, err := e.expandValueTokens(p.Values())
			if err != nil {
				return "", fmt.Errorf("property %q: %w", string(data), err)
			}
			sb.WriteString("  " + string(data) + ": " + value + ";\n")

		case pcss.AtRuleGrammar:
			sb.WriteString(string(data) + tokensString(p.Values()) + ";\n")

		case pcss.CommentGrammar:
			sb.WriteString(string(data) + "\n")
		}
	}
	return sb.String(), nil
}

// blockParams is the parsed parameter set of a randomization at-rule.
type blockParams struct {
	selector string
	count    int
	property string
	timing   string
	steps    int
	name     string
	genName  string
	genArgs  []string

	haveCount, haveSteps, haveGen bool
}

// readBlockParams parses "param: value;" declarations until the at-rule
// block ends.
func (e *Expander) readBlockParams(p *pcss.Parser, atRule string) (*blockParams, error) {
	params := &blockParams{}

	for {
		gt, _, data := p.Next()

		switch gt {
		case pcss.ErrorGrammar, pcss.EndAtRuleGrammar:
			return params, nil

		case pcss.DeclarationGrammar:
			name := strings.ToLower(string(data))
			tokens := p.Values()

			var err error
			switch name {
			case "selector":
				params.selector = unquote(strings.TrimSpace(tokensString(tokens)))
			case "count":
				params.count, err = parseIntParam(tokens)
				params.haveCount = err == nil
			case "steps":
				params.steps, err = parseIntParam(tokens)
				params.haveSteps = err == nil
			case "property":
				params.property = strings.TrimSpace(tokensString(tokens))
			case "timing":
				params.timing = strings.TrimSpace(tokensString(tokens))
			case "name":
				params.name = unquote(strings.TrimSpace(tokensString(tokens)))
			case "generator":
				params.genName, params.genArgs, err = parseGeneratorCall(tokens)
				params.haveGen = err == nil
			default:
				e.log.Warn("Ignoring unknown parameter", zap.String("atRule", atRule), zap.String("parameter", name))
			}
			if err != nil {
				return nil, fmt.Errorf("%s: parameter %q: %w", atRule, name, err)
			}
		}
	}
}

// expandAnimationBlock handles @randomize-animation.
func (e *Expander) expandAnimationBlock(p *pcss.Parser) ([]*css.Rule, error) {
	params, err := e.readBlockParams(p, atAnimation)
	if err != nil {
		return nil, err
	}

	switch {
	case params.selector == "":
		return nil, fmt.Errorf("%s: selector parameter is required", atAnimation)
	case !params.haveCount:
		return nil, fmt.Errorf("%s: count parameter is required", atAnimation)
	case params.property == "":
		return nil, fmt.Errorf("%s: property parameter is required", atAnimation)
	case !params.haveSteps:
		return nil, fmt.Errorf("%s: steps parameter is required", atAnimation)
	case !params.haveGen:
		return nil, fmt.Errorf("%s: generator parameter is required", atAnimation)
	}

	gen, err := Bind(e.ctx, params.genName, params.genArgs)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", atAnimation, err)
	}

	names := e.names
	if params.name != "" {
		names = css.NewNameGenerator(params.name)
	}

	e.log.Debug("Expanding animation block",
		zap.String("selector", params.selector),
		zap.Int("count", params.count),
		zap.Int("steps", params.steps),
		zap.String("generator", params.genName))

	return Animate(names, AnimateOptions{
		Selector: params.selector,
		Count:    params.count,
		Property: params.property,
		Timing:   params.timing,
		Steps:    params.steps,
	}, gen)
}

// expandEachBlock handles @randomize-each.
func (e *Expander) expandEachBlock(p *pcss.Parser) ([]*css.Rule, error) {
	params, err := e.readBlockParams(p, atEach)
	if err != nil {
		return nil, err
	}

	switch {
	case params.selector == "":
		return nil, fmt.Errorf("%s: selector parameter is required", atEach)
	case !params.haveCount:
		return nil, fmt.Errorf("%s: count parameter is required", atEach)
	case params.property == "":
		return nil, fmt.Errorf("%s: property parameter is required", atEach)
	case !params.haveGen:
		return nil, fmt.Errorf("%s: generator parameter is required", atEach)
	}

	gen, err := Bind(e.ctx, params.genName, params.genArgs)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", atEach, err)
	}

	e.log.Debug("Expanding per-element block",
		zap.String("selector", params.selector),
		zap.Int("count", params.count),
		zap.String("generator", params.genName))

	return Each(EachOptions{
		Selector: params.selector,
		Count:    params.count,
		Property: params.property,
	}, gen)
}

// expandValueTokens rebuilds a declaration value, replacing registered
// generator function calls with generated values. Unregistered functions
// (rgb(), url(), var(), ...) pass through untouched.
func (e *Expander) expandValueTokens(tokens []pcss.Token) (string, error) {
	var sb strings.Builder

	for i := 0; i < len(tokens); i++ {
		t := tokens[i]

		if t.TokenType == pcss.FunctionToken {
			name := strings.ToLower(strings.TrimSuffix(string(t.Data), "("))
			if _, ok := Resolve(name); ok {
				args, next, err := collectCallArgs(tokens, i+1)
				if err != nil {
					return "", fmt.Errorf("%s: %w", name, err)
				}
				gen, err := Bind(e.ctx, name, args)
				if err != nil {
					return "", err
				}
				value, err := gen()
				if err != nil {
					return "", err
				}
				sb.WriteString(value)
				i = next
				continue
			}
		}
		writeToken(&sb, t)
	}
	return strings.TrimSpace(sb.String()), nil
}

// parseGeneratorCall extracts "fn(arg, ...)" from declaration value tokens.
func parseGeneratorCall(tokens []pcss.Token) (string, []string, error) {
	for i, t := range tokens {
		if t.TokenType == pcss.FunctionToken {
			name := strings.ToLower(strings.TrimSuffix(string(t.Data), "("))
			args, _, err := collectCallArgs(tokens, i+1)
			if err != nil {
				return "", nil, err
			}
			return name, args, nil
		}
	}
	// bare identifier means a zero-argument call
	if name := strings.TrimSpace(tokensString(tokens)); name != "" {
		return strings.ToLower(name), nil, nil
	}
	return "", nil, fmt.Errorf("expected a generator function call")
}

// collectCallArgs gathers call arguments from tokens starting right after a
// FunctionToken, until the matching closing parenthesis. Returns the index
// of that parenthesis. Arguments are comma-separated at the top nesting
// level and kept as raw text otherwise.
func collectCallArgs(tokens []pcss.Token, start int) ([]string, int, error) {
	var args []string
	var cur strings.Builder
	depth := 1

	flush := func() {
		if s := strings.TrimSpace(cur.String()); s != "" {
			args = append(args, unquote(s))
		}
		cur.Reset()
	}

	for i := start; i < len(tokens); i++ {
		t := tokens[i]
		switch t.TokenType {
		case pcss.FunctionToken, pcss.LeftParenthesisToken:
			depth++
			cur.Write(t.Data)
		case pcss.RightParenthesisToken:
			depth--
			if depth == 0 {
				flush()
				return args, i, nil
			}
			cur.Write(t.Data)
		case pcss.CommaToken:
			if depth == 1 {
				flush()
			} else {
				cur.Write(t.Data)
			}
		case pcss.WhitespaceToken:
			cur.WriteString(" ")
		default:
			cur.Write(t.Data)
		}
	}
	return nil, 0, fmt.Errorf("unterminated function call")
}

// selectorString rebuilds a selector from grammar data and value tokens.
func selectorString(data []byte, values []pcss.Token) string {
	var sb strings.Builder
	sb.Write(data)
	for _, v := range values {
		writeToken(&sb, v)
	}
	return strings.TrimSpace(sb.String())
}

// tokensString concatenates token data, collapsing whitespace runs.
func tokensString(tokens []pcss.Token) string {
	var sb strings.Builder
	for _, t := range tokens {
		writeToken(&sb, t)
	}
	return sb.String()
}

func writeToken(sb *strings.Builder, t pcss.Token) {
	if t.TokenType == pcss.WhitespaceToken {
		sb.WriteString(" ")
		return
	}
	sb.Write(t.Data)
}

// parseIntParam reads a single integer parameter value.
func parseIntParam(tokens []pcss.Token) (int, error) {
	s := strings.TrimSpace(tokensString(tokens))
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%q is not an integer", s)
	}
	return v, nil
}

// ParseCall parses a textual generator call like "random-color(2, 2, 2)".
// A bare name is a zero-argument call. Used by command line surfaces where
// no CSS tokenization is available.
func ParseCall(s string) (string, []string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil, fmt.Errorf("expected a generator function call")
	}
	open := strings.IndexByte(s, '(')
	if open < 0 {
		return strings.ToLower(s), nil, nil
	}
	if !strings.HasSuffix(s, ")") {
		return "", nil, fmt.Errorf("unterminated function call")
	}
	name := strings.ToLower(strings.TrimSpace(s[:open]))

	var args []string
	var cur strings.Builder
	depth := 0
	flush := func() {
		if a := strings.TrimSpace(cur.String()); a != "" {
			args = append(args, unquote(a))
		}
		cur.Reset()
	}
	for _, r := range s[open+1 : len(s)-1] {
		switch {
		case r == '(':
			depth++
			cur.WriteRune(r)
		case r == ')':
			depth--
			cur.WriteRune(r)
		case r == ',' && depth == 0:
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	if depth != 0 {
		return "", nil, fmt.Errorf("unbalanced parentheses in function call")
	}
	flush()
	return name, args, nil
}

// unquote removes surrounding quotes from a string.
func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return s
	}
	if (s[0] == '"' && s[len(s)-1] == '"') ||
		(s[0] == '\'' && s[len(s)-1] == '\'') {
		return s[1 : len(s)-1]
	}
	return s
}
