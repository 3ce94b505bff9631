package dashboard

import (
	"fmt"
	"slices"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// VisibilityType selects how a controller decides whether it is shown.
type VisibilityType string

const (
	VisibilityShow        VisibilityType = "show"
	VisibilityHide        VisibilityType = "hide"
	VisibilityConditional VisibilityType = "condition"
)

// ControllerVisibility toggles a controller based on another controller's values.
type ControllerVisibility struct {
	VisibilityType VisibilityType       `json:"visibilityType"`
	Condition      *VisibilityCondition `json:"condition,omitempty"`
}

// VisibilityCondition compares a dependent controller's values against Value.
// Expression, when set, replaces the relation check. It sees `value` and `values`.
type VisibilityCondition struct {
	DependentControllerID string `json:"dependentControllerId"`
	Relation              string `json:"relation"`
	Value                 any    `json:"value"`
	Expression            string `json:"expression,omitempty"`
}

// Clone returns a deep copy of the visibility rule.
func (v ControllerVisibility) Clone() ControllerVisibility {
	if v.Condition != nil {
		cond := *v.Condition
		v.Condition = &cond
	}
	return v
}

const (
	relationEqual    = "="
	relationNotEqual = "!="
)

// VisibilityEvaluator decides controller visibility, compiling each
// condition expression once.
type VisibilityEvaluator struct {
	mu       sync.RWMutex
	programs map[string]*vm.Program
}

// NewVisibilityEvaluator builds an evaluator with an empty program cache.
func NewVisibilityEvaluator() *VisibilityEvaluator {
	return &VisibilityEvaluator{programs: map[string]*vm.Program{}}
}

// Visible reports whether controller should be displayed. lookup returns the
// current values of another controller on the board. Rules that cannot be
// evaluated leave the controller visible.
func (e *VisibilityEvaluator) Visible(controller ControllerContent, lookup func(widgetID string) ([]any, bool)) (bool, error) {
	rule := controller.Config.Visibility
	if rule == nil {
		return true, nil
	}
	switch rule.VisibilityType {
	case VisibilityHide:
		return false, nil
	case VisibilityConditional:
	default:
		return true, nil
	}
	cond := rule.Condition
	if cond == nil || cond.DependentControllerID == "" || lookup == nil {
		return true, nil
	}
	values, ok := lookup(cond.DependentControllerID)
	if !ok {
		return true, nil
	}
	source := cond.Expression
	if source == "" {
		source = relationExpression(cond.Relation)
	}
	program, err := e.program(source)
	if err != nil {
		return true, err
	}
	out, err := expr.Run(program, visibilityEnv(cond.Value, values))
	if err != nil {
		return true, fmt.Errorf("dashboard: evaluate visibility: %w", err)
	}
	visible, _ := out.(bool)
	return visible, nil
}

func relationExpression(relation string) string {
	if relation == relationNotEqual {
		return "!(value in values)"
	}
	return "value in values"
}

func visibilityEnv(value any, values []any) map[string]any {
	if values == nil {
		values = []any{}
	}
	return map[string]any{
		"value":  value,
		"values": slices.Clone(values),
	}
}

func (e *VisibilityEvaluator) program(source string) (*vm.Program, error) {
	e.mu.RLock()
	prog, ok := e.programs[source]
	e.mu.RUnlock()
	if ok {
		return prog, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if prog, ok := e.programs[source]; ok {
		return prog, nil
	}
	prog, err := expr.Compile(source, expr.Env(visibilityEnv(nil, nil)), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("dashboard: compile visibility %q: %w", source, err)
	}
	e.programs[source] = prog
	return prog, nil
}
