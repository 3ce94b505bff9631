package sqltemplate

import (
	"errors"
	"reflect"
	"testing"

	"github.com/goliatone/go-dashboard-controls/components/dashboard"
)

func TestProcessRendersVariables(t *testing.T) {
	p := NewProcessor(Options{})
	model := Model(dashboard.FilterParams{
		Variables: map[string][]any{"region": {"eu", "o'neil"}},
	})
	got := p.Process("SELECT * FROM sales WHERE region IN ({{ region|sql }})", model)
	want := "SELECT * FROM sales WHERE region IN ('eu', 'o''neil')"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestProcessConditionalBlock(t *testing.T) {
	p := NewProcessor(Options{})
	content := "SELECT * FROM sales{% if region %} WHERE region IN ({{ region|sql }}){% endif %}"
	if got := p.Process(content, Model(dashboard.FilterParams{})); got != "SELECT * FROM sales" {
		t.Fatalf("expected block skipped without variable, got %q", got)
	}
	model := Model(dashboard.FilterParams{Variables: map[string][]any{"region": {"us"}}})
	if got := p.Process(content, model); got != "SELECT * FROM sales WHERE region IN ('us')" {
		t.Fatalf("unexpected render %q", got)
	}
}

func TestProcessReturnsContentOnTemplateError(t *testing.T) {
	p := NewProcessor(Options{})
	content := "SELECT * FROM sales {% if %}"
	if got := p.Process(content, nil); got != content {
		t.Fatalf("expected raw content, got %q", got)
	}
	if p.CacheSize() != 0 {
		t.Fatalf("broken templates must not be cached")
	}
}

func TestProcessCachesByContent(t *testing.T) {
	p := NewProcessor(Options{})
	content := "SELECT {{ n|sql }}"
	first := p.Process(content, map[string]any{"n": 1})
	second := p.Process(content, map[string]any{"n": 2})
	if first != "SELECT 1" || second != "SELECT 2" {
		t.Fatalf("unexpected renders %q %q", first, second)
	}
	if p.CacheSize() != 1 {
		t.Fatalf("expected one cached template, got %d", p.CacheSize())
	}
}

func TestProcessSelectGuard(t *testing.T) {
	p := NewProcessor(Options{})
	if _, err := p.ProcessSelect("SELECT region, amount FROM sales", nil); err != nil {
		t.Fatalf("select rejected: %v", err)
	}
	if _, err := p.ProcessSelect("SELECT region FROM a UNION SELECT region FROM b", nil); err != nil {
		t.Fatalf("union rejected: %v", err)
	}
	for _, sql := range []string{"DELETE FROM sales", "SELECT 1; SELECT 2", "UPDATE sales SET amount = 0"} {
		if _, err := p.ProcessSelect(sql, nil); !errors.Is(err, ErrNotSelect) {
			t.Fatalf("%q: expected ErrNotSelect, got %v", sql, err)
		}
	}
	if _, err := p.ProcessSelect("SELEC nothing", nil); err == nil || errors.Is(err, ErrNotSelect) {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestLiteral(t *testing.T) {
	cases := map[string]any{
		"NULL":         nil,
		"'a'":          "a",
		"3":            3,
		"2.5":          2.5,
		"TRUE":         true,
		"'x', 'y'":     []string{"x", "y"},
		"1, 'b', NULL": []any{1, "b", nil},
	}
	for want, in := range cases {
		if got := Literal(in); got != want {
			t.Fatalf("Literal(%v): expected %q, got %q", in, want, got)
		}
	}
}

func TestWrapAppliesConditions(t *testing.T) {
	stmt, err := Wrap("SELECT region, amount FROM sales;", []string{"region"}, []dashboard.FieldCondition{
		{Field: "region", Operator: dashboard.SQLOperatorIn, Values: []any{"eu", "us"}},
		{Field: "amount", Operator: dashboard.SQLOperatorBetween, Values: []any{1, 10}},
		{Field: "channel", Operator: dashboard.SQLOperatorEqual},
	})
	if err != nil {
		t.Fatalf("wrap: %v", err)
	}
	want := "SELECT region FROM (SELECT region, amount FROM sales) AS filtered WHERE region IN (?, ?) AND amount BETWEEN ? AND ?"
	if stmt.SQL != want {
		t.Fatalf("expected %q, got %q", want, stmt.SQL)
	}
	if !reflect.DeepEqual(stmt.Args, []any{"eu", "us", 1, 10}) {
		t.Fatalf("unexpected args %v", stmt.Args)
	}
}

func TestWrapPassThrough(t *testing.T) {
	stmt, err := Wrap("SELECT 1", nil, nil)
	if err != nil || stmt.SQL != "SELECT 1" || len(stmt.Args) != 0 {
		t.Fatalf("unexpected %+v %v", stmt, err)
	}
}

func TestWhereRejectsBadInput(t *testing.T) {
	if _, _, err := Where([]dashboard.FieldCondition{{Field: "a; drop table x", Values: []any{1}}}); err == nil {
		t.Fatalf("expected identifier error")
	}
	if _, _, err := Where([]dashboard.FieldCondition{{Field: "d", Operator: dashboard.SQLOperatorBetween, Values: []any{1}}}); err == nil {
		t.Fatalf("expected arity error")
	}
	if _, _, err := Where([]dashboard.FieldCondition{{Field: "d", Operator: "REGEXP", Values: []any{1}}}); err == nil {
		t.Fatalf("expected operator error")
	}
	clause, args, err := Where([]dashboard.FieldCondition{{Field: "name", Operator: dashboard.SQLOperatorContain, Values: []any{"ann"}}})
	if err != nil || clause != "name LIKE ?" || args[0] != "%ann%" {
		t.Fatalf("unexpected like clause %q %v %v", clause, args, err)
	}
}

func TestBuild(t *testing.T) {
	p := NewProcessor(Options{})
	req := dashboard.ViewRequest{
		ViewID: "sales",
		Filters: dashboard.FilterParams{
			Conditions: []dashboard.FieldCondition{{Field: "amount", Operator: dashboard.SQLOperatorGreaterThan, Values: []any{5}}},
			Variables:  map[string][]any{"region": {"eu"}},
		},
	}
	stmt, err := p.Build("SELECT region, amount FROM sales WHERE region IN ({{ region|sql }})", req)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	want := "SELECT * FROM (SELECT region, amount FROM sales WHERE region IN ('eu')) AS filtered WHERE amount > ?"
	if stmt.SQL != want {
		t.Fatalf("expected %q, got %q", want, stmt.SQL)
	}
	if _, err := p.Build("DROP TABLE sales", dashboard.ViewRequest{ViewID: "sales"}); !errors.Is(err, ErrNotSelect) {
		t.Fatalf("expected ErrNotSelect, got %v", err)
	}
}
