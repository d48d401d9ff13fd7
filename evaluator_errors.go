package lister

import (
	"errors"
	"fmt"
	"strings"
)

// EvaluationError reports a filter rule that failed to compile or run.
type EvaluationError struct {
	Engine string
	Expr   string
	Key    string
	Err    error
}

func (e *EvaluationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	var b strings.Builder
	b.WriteString("lister: ")
	if e.Engine != "" {
		b.WriteString(e.Engine + " ")
	}
	b.WriteString("rule")
	if e.Key != "" {
		fmt.Fprintf(&b, " for filter %q", e.Key)
	}
	if e.Expr != "" {
		fmt.Fprintf(&b, " %q", e.Expr)
	}
	if e.Err != nil {
		b.WriteString(": " + e.Err.Error())
	}
	return b.String()
}

func (e *EvaluationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// engineError tags err with the engine that produced it.
func engineError(engine string, err error) error {
	return ruleError(engine, "", "", err)
}

// ruleError annotates err with the rule it came from. An EvaluationError
// already in the chain is completed instead of nested.
func ruleError(engine, expr, key string, err error) error {
	if err == nil {
		return nil
	}
	var existing *EvaluationError
	if !errors.As(err, &existing) {
		return &EvaluationError{Engine: engine, Expr: expr, Key: key, Err: err}
	}
	out := *existing
	if out.Engine == "" {
		out.Engine = engine
	}
	if out.Expr == "" {
		out.Expr = expr
	}
	if out.Key == "" {
		out.Key = key
	}
	return &out
}
