package lister

import (
	"fmt"
	"sync"

	celgo "github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
)

const engineCEL = "cel"

// CELEvaluatorOption configures NewCELEvaluator.
type CELEvaluatorOption func(*celEvaluator)

// CELWithProgramCache shares compiled programs through cache.
func CELWithProgramCache(cache ProgramCache) CELEvaluatorOption {
	return func(e *celEvaluator) {
		e.cache = cache
	}
}

// CELWithFunctionRegistry exposes registry helpers through call(name, ...).
// CEL has no variadic functions so call accepts up to three arguments.
func CELWithFunctionRegistry(registry *FunctionRegistry) CELEvaluatorOption {
	return func(e *celEvaluator) {
		if registry != nil {
			e.registry = registry.Clone()
		}
	}
}

type celEvaluator struct {
	cache    ProgramCache
	registry *FunctionRegistry

	once   sync.Once
	env    *celgo.Env
	envErr error
}

// NewCELEvaluator returns an Evaluator backed by cel-go. Rules see key,
// value, filters, params and args as dynamic values and now as a timestamp.
func NewCELEvaluator(opts ...CELEvaluatorOption) Evaluator {
	e := &celEvaluator{}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

func (e *celEvaluator) Evaluate(ctx RuleContext, expression string) (any, error) {
	rule, err := e.Compile(expression)
	if err != nil {
		return nil, err
	}
	return rule.Evaluate(ctx)
}

func (e *celEvaluator) Compile(expression string) (CompiledRule, error) {
	if expression == "" {
		return nil, engineError(engineCEL, errEmptyExpression)
	}
	program, err := e.program(expression)
	if err != nil {
		return nil, err
	}
	return &celRule{program: program, expression: expression}, nil
}

func (e *celEvaluator) environment() (*celgo.Env, error) {
	e.once.Do(func() {
		opts := []celgo.EnvOption{
			celgo.Variable("key", celgo.StringType),
			celgo.Variable("value", celgo.DynType),
			celgo.Variable("filters", celgo.MapType(celgo.StringType, celgo.DynType)),
			celgo.Variable("params", celgo.MapType(celgo.StringType, celgo.DynType)),
			celgo.Variable("args", celgo.MapType(celgo.StringType, celgo.DynType)),
			celgo.Variable("now", celgo.TimestampType),
		}
		if e.registry != nil {
			opts = append(opts, celgo.Function("call",
				celgo.Overload("call_string",
					[]*celgo.Type{celgo.StringType}, celgo.DynType,
					celgo.UnaryBinding(func(name ref.Val) ref.Val {
						return e.call(name)
					})),
				celgo.Overload("call_string_dyn",
					[]*celgo.Type{celgo.StringType, celgo.DynType}, celgo.DynType,
					celgo.BinaryBinding(func(name, arg ref.Val) ref.Val {
						return e.call(name, arg)
					})),
				celgo.Overload("call_string_dyn_dyn",
					[]*celgo.Type{celgo.StringType, celgo.DynType, celgo.DynType}, celgo.DynType,
					celgo.FunctionBinding(func(values ...ref.Val) ref.Val {
						return e.call(values[0], values[1:]...)
					})),
				celgo.Overload("call_string_dyn_dyn_dyn",
					[]*celgo.Type{celgo.StringType, celgo.DynType, celgo.DynType, celgo.DynType}, celgo.DynType,
					celgo.FunctionBinding(func(values ...ref.Val) ref.Val {
						return e.call(values[0], values[1:]...)
					})),
			))
		}
		e.env, e.envErr = celgo.NewEnv(opts...)
	})
	return e.env, e.envErr
}

func (e *celEvaluator) program(expression string) (celgo.Program, error) {
	if e.cache != nil {
		if cached, ok := e.cache.Get(cacheKey(engineCEL, expression)); ok {
			if program, ok := cached.(celgo.Program); ok {
				return program, nil
			}
		}
	}
	env, err := e.environment()
	if err != nil {
		return nil, engineError(engineCEL, err)
	}
	ast, issues := env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, ruleError(engineCEL, expression, "", issues.Err())
	}
	program, err := env.Program(ast)
	if err != nil {
		return nil, ruleError(engineCEL, expression, "", err)
	}
	if e.cache != nil {
		e.cache.Set(cacheKey(engineCEL, expression), program)
	}
	return program, nil
}

func (e *celEvaluator) call(name ref.Val, values ...ref.Val) ref.Val {
	fn, ok := name.Value().(string)
	if !ok {
		return types.NewErr("call name must be a string")
	}
	args := make([]any, len(values))
	for i, value := range values {
		args[i] = value.Value()
	}
	result, err := e.registry.Call(fn, args...)
	if err != nil {
		return types.NewErr("%s", err.Error())
	}
	if result == nil {
		return types.NullValue
	}
	return types.DefaultTypeAdapter.NativeToValue(result)
}

type celRule struct {
	program    celgo.Program
	expression string
}

func (r *celRule) Evaluate(ctx RuleContext) (any, error) {
	ctx = ctx.withDefaults()
	out, _, err := r.program.Eval(ctx.binding())
	if err != nil {
		return nil, ruleError(engineCEL, r.expression, ctx.Key, err)
	}
	if types.IsError(out) {
		return nil, ruleError(engineCEL, r.expression, ctx.Key, fmt.Errorf("%v", out))
	}
	return out.Value(), nil
}
