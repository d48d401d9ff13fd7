//go:build js_eval

package lister

import (
	"fmt"

	"github.com/dop251/goja"
)

type jsEvaluator struct {
	cache    ProgramCache
	registry *FunctionRegistry
}

// NewJSEvaluator returns an Evaluator backed by goja. Each evaluation runs
// in a fresh runtime.
func NewJSEvaluator(opts ...JSEvaluatorOption) Evaluator {
	cfg := newJSEvaluatorConfig(opts)
	return &jsEvaluator{cache: cfg.cache, registry: cfg.registry}
}

// JSEvaluatorAvailable reports whether the goja engine was compiled in.
func JSEvaluatorAvailable() bool {
	return true
}

func (e *jsEvaluator) Evaluate(ctx RuleContext, expression string) (any, error) {
	rule, err := e.Compile(expression)
	if err != nil {
		return nil, err
	}
	return rule.Evaluate(ctx)
}

func (e *jsEvaluator) Compile(expression string) (CompiledRule, error) {
	if expression == "" {
		return nil, engineError(engineJS, errEmptyExpression)
	}
	program, err := e.program(expression)
	if err != nil {
		return nil, err
	}
	return &jsRule{evaluator: e, program: program, expression: expression}, nil
}

func (e *jsEvaluator) program(expression string) (*goja.Program, error) {
	if e.cache != nil {
		if cached, ok := e.cache.Get(cacheKey(engineJS, expression)); ok {
			if program, ok := cached.(*goja.Program); ok {
				return program, nil
			}
		}
	}
	source := fmt.Sprintf("(function(){ return (%s); })()", expression)
	program, err := goja.Compile("rule", source, true)
	if err != nil {
		return nil, ruleError(engineJS, expression, "", err)
	}
	if e.cache != nil {
		e.cache.Set(cacheKey(engineJS, expression), program)
	}
	return program, nil
}

type jsRule struct {
	evaluator  *jsEvaluator
	program    *goja.Program
	expression string
}

func (r *jsRule) Evaluate(ctx RuleContext) (any, error) {
	ctx = ctx.withDefaults()
	vm := goja.New()
	for name, value := range ctx.binding() {
		if err := vm.Set(name, value); err != nil {
			return nil, ruleError(engineJS, r.expression, ctx.Key, err)
		}
	}
	if r.evaluator.registry != nil {
		for name, fn := range r.evaluator.registry.bind() {
			if err := vm.Set(name, fn); err != nil {
				return nil, ruleError(engineJS, r.expression, ctx.Key, err)
			}
		}
	}
	value, err := vm.RunProgram(r.program)
	if err != nil {
		return nil, ruleError(engineJS, r.expression, ctx.Key, err)
	}
	return value.Export(), nil
}
