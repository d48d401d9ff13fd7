package lister

import (
	"fmt"
	"time"
)

// RuleContext carries the inputs of one filter rule evaluation.
type RuleContext struct {
	Key     string
	Value   any
	Filters map[string]any
	Params  Parameters
	Args    map[string]any
	Now     *time.Time
}

func (ctx RuleContext) withDefaults() RuleContext {
	if ctx.Now == nil {
		now := time.Now()
		ctx.Now = &now
	}
	if ctx.Args == nil {
		ctx.Args = map[string]any{}
	}
	if ctx.Filters == nil {
		ctx.Filters = map[string]any{}
	}
	return ctx
}

// binding is the variable set every engine exposes to rule expressions.
func (ctx RuleContext) binding() map[string]any {
	return map[string]any{
		"key":     ctx.Key,
		"value":   ctx.Value,
		"filters": ctx.Filters,
		"params":  ctx.Params.Map(),
		"args":    ctx.Args,
		"now":     *ctx.Now,
	}
}

// Evaluator compiles and runs filter rule expressions.
type Evaluator interface {
	Evaluate(ctx RuleContext, expr string) (any, error)
	Compile(expr string) (CompiledRule, error)
}

// CompiledRule is a reusable rule program.
type CompiledRule interface {
	Evaluate(ctx RuleContext) (any, error)
}

// WithEvaluator selects the rule engine. The expr engine is used otherwise.
func WithEvaluator(e Evaluator) Option {
	return func(cfg *listerConfig) {
		cfg.evaluator = e
	}
}

// WithRuleArgs exposes args to every rule as the args variable.
func WithRuleArgs(args map[string]any) Option {
	return func(cfg *listerConfig) {
		if len(args) == 0 {
			return
		}
		cfg.ruleArgs = cloneFilters(args)
	}
}

// filterGuards holds the compiled rule of each guarded filter key.
type filterGuards struct {
	rules     map[string]string
	evaluator Evaluator
	args      map[string]any
	compiled  map[string]CompiledRule
}

func newFilterGuards(rules map[string]string, cfg listerConfig) *filterGuards {
	g := &filterGuards{
		rules:    rules,
		args:     cfg.ruleArgs,
		compiled: make(map[string]CompiledRule, len(rules)),
	}
	if len(rules) == 0 {
		return g
	}
	g.evaluator = cfg.evaluator
	if g.evaluator == nil {
		var exprOpts []ExprEvaluatorOption
		if cfg.programCache != nil {
			exprOpts = append(exprOpts, ExprWithProgramCache(cfg.programCache))
		}
		if cfg.functions != nil {
			exprOpts = append(exprOpts, ExprWithFunctionRegistry(cfg.functions))
		}
		g.evaluator = NewExprEvaluator(exprOpts...)
	}
	return g
}

func (g *filterGuards) guarded(key string) bool {
	_, ok := g.rules[key]
	return ok
}

// compileAll compiles every rule up front, reporting the first failure.
func (g *filterGuards) compileAll() error {
	for key := range g.rules {
		if _, err := g.rule(key); err != nil {
			return err
		}
	}
	return nil
}

func (g *filterGuards) rule(key string) (CompiledRule, error) {
	if rule, ok := g.compiled[key]; ok {
		return rule, nil
	}
	if g.evaluator == nil {
		return nil, ErrNoEvaluator
	}
	expr := g.rules[key]
	rule, err := g.evaluator.Compile(expr)
	if err != nil {
		return nil, ruleError("", expr, key, err)
	}
	g.compiled[key] = rule
	return rule, nil
}

// allow reports whether value may be stored under key. Unguarded keys are
// always allowed; a rule must yield boolean true.
func (g *filterGuards) allow(key string, value any, filters map[string]any, params Parameters) (bool, error) {
	if !g.guarded(key) {
		return true, nil
	}
	rule, err := g.rule(key)
	if err != nil {
		return false, err
	}
	result, err := rule.Evaluate(RuleContext{
		Key:     key,
		Value:   value,
		Filters: filters,
		Params:  params,
		Args:    g.args,
	})
	if err != nil {
		return false, ruleError("", g.rules[key], key, err)
	}
	allowed, ok := result.(bool)
	if !ok {
		return false, ruleError("", g.rules[key], key, fmt.Errorf("rule returned %T, want bool", result))
	}
	return allowed, nil
}
