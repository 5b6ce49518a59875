package repr_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openkis/gokis/pkg/repr"
)

// --- Record fixtures ---

type order struct {
	symbol string
	priced bool
	price  any
	tags   []string
}

func (o order) TypeName() string     { return "Order" }
func (o order) FieldNames() []string { return []string{"symbol", "price"} }
func (o order) Field(name string) (any, bool) {
	switch name {
	case "symbol":
		return o.symbol, true
	case "price":
		if !o.priced {
			return nil, false
		}
		return o.price, true
	}
	return nil, false
}

type taggedOrder struct{ order }

func (o taggedOrder) FieldNames() []string { return []string{"symbol", "tags"} }
func (o taggedOrder) Field(name string) (any, bool) {
	if name == "tags" {
		return o.tags, true
	}
	return o.order.Field(name)
}
func (o taggedOrder) FieldLayouts() map[string]repr.Layout {
	return map[string]repr.Layout{"tags": repr.Multiple}
}

func render(t *testing.T, cfg repr.Config, v any) string {
	t.Helper()
	r, err := repr.New(cfg)
	require.NoError(t, err)
	return r.Render(v)
}

func TestSequenceSingleLine(t *testing.T) {
	assert.Equal(t, "[1, 2, 3]", repr.String([]int{1, 2, 3}))
}

func TestTupleBrackets(t *testing.T) {
	assert.Equal(t, "(1, 2)", repr.String([2]int{1, 2}))
}

func TestMappingOverCountBudget(t *testing.T) {
	m := repr.Mapping{
		{Key: "a", Value: 1}, {Key: "b", Value: 2}, {Key: "c", Value: 3},
		{Key: "d", Value: 4}, {Key: "e", Value: 5}, {Key: "f", Value: 6},
		{Key: "g", Value: 7},
	}
	want := "{\n    a: 1,\n    b: 2,\n    c: 3,\n    d: 4,\n    e: 5,\n    f: 6,\n    g: 7\n}"
	assert.Equal(t, want, repr.String(m))
}

func TestMappingWithinBudgets(t *testing.T) {
	m := repr.Mapping{{Key: "a", Value: 1}, {Key: "b", Value: 2}}
	assert.Equal(t, "{a: 1, b: 2}", repr.String(m))
}

func TestRecordUnboundedField(t *testing.T) {
	o := order{symbol: "AAPL"}
	assert.Equal(t, "Order(symbol=AAPL, price=Unbounded)", repr.String(o))
}

func TestRecordAllFieldsBound(t *testing.T) {
	o := order{symbol: "AAPL", priced: true, price: 123}
	assert.Equal(t, "Order(symbol=AAPL, price=123)", repr.String(o))
}

func TestDepthPlaceholderSequence(t *testing.T) {
	var v any = []any{1}
	for i := 0; i < 7; i++ {
		v = []any{v}
	}
	out := repr.String(v)
	assert.Contains(t, out, "[...]")
	assert.NotContains(t, out, "1")
}

func TestDepthPlaceholderRecord(t *testing.T) {
	cfg := repr.DefaultConfig()
	cfg.MaxDepth = 1
	out := render(t, cfg, repr.Mapping{{Key: "o", Value: order{symbol: "AAPL"}}})
	assert.Equal(t, "{o: Order(...)}", out)
}

func TestDepthPlaceholderMapping(t *testing.T) {
	cfg := repr.DefaultConfig()
	cfg.MaxDepth = 0
	assert.Equal(t, "{:...}", render(t, cfg, repr.Mapping{{Key: "a", Value: 1}}))
}

func TestTruncationSingleLine(t *testing.T) {
	cfg := repr.DefaultConfig()
	cfg.TruncateAt = 3
	// Truncation forces multi-line in auto mode; the forced single layout
	// keeps the ellipsis inline.
	cfg.Layout = repr.Single
	assert.Equal(t, "[1, 2, 3, ...]", render(t, cfg, []int{1, 2, 3, 4, 5, 6}))
}

func TestTruncationMultiLine(t *testing.T) {
	cfg := repr.DefaultConfig()
	cfg.TruncateAt = 2
	want := "[\n    1,\n    2\n    ...\n]"
	assert.Equal(t, want, render(t, cfg, []int{1, 2, 3, 4}))
}

func TestTruncationNotAppliedUnderCap(t *testing.T) {
	cfg := repr.DefaultConfig()
	cfg.TruncateAt = 4
	assert.Equal(t, "[1, 2, 3]", render(t, cfg, []int{1, 2, 3}))
}

func TestTruncationForcesMultiple(t *testing.T) {
	cfg := repr.DefaultConfig()
	cfg.TruncateAt = 2
	out := render(t, cfg, []int{1, 2, 3})
	assert.Contains(t, out, "\n")
	assert.Contains(t, out, "...")
}

func TestEmptyContainers(t *testing.T) {
	assert.Equal(t, "[]", repr.String([]int{}))
	assert.Equal(t, "{}", repr.String(repr.Mapping{}))
	assert.Equal(t, "{}", repr.String(map[string]struct{}{}))

	// Forced multi-line layout never splits an empty container.
	cfg := repr.DefaultConfig()
	cfg.Layout = repr.Multiple
	assert.Equal(t, "[]", render(t, cfg, []int{}))
}

func TestCharBudgetForcesMultiple(t *testing.T) {
	cfg := repr.DefaultConfig()
	cfg.SingleLineCharBudget = 10
	out := render(t, cfg, []string{"first-long-element", "second"})
	assert.Equal(t, "[\n    first-long-element,\n    second\n]", out)
}

func TestMultilineChildForcesParentMultiple(t *testing.T) {
	inner := repr.Mapping{
		{Key: "a", Value: 1}, {Key: "b", Value: 2}, {Key: "c", Value: 3},
		{Key: "d", Value: 4}, {Key: "e", Value: 5}, {Key: "f", Value: 6},
	}
	out := repr.String(repr.Mapping{{Key: "inner", Value: inner}})
	want := "{\n    inner: {\n        a: 1,\n        b: 2,\n        c: 3,\n        d: 4,\n        e: 5,\n        f: 6\n    }\n}"
	assert.Equal(t, want, out)
}

func TestSetSingleElement(t *testing.T) {
	assert.Equal(t, "{x}", repr.String(map[string]struct{}{"x": {}}))
}

func TestNativeMapRendersAsMapping(t *testing.T) {
	assert.Equal(t, "{a: 1}", repr.String(map[string]int{"a": 1}))
}

func TestFieldLayoutOverrideFromRecord(t *testing.T) {
	o := taggedOrder{order: order{symbol: "AAPL"}}
	o.tags = []string{"spot"}
	out := repr.String(o)
	// Forced Multiple on the tags field splits the nested sequence; the
	// multi-line child then drives the record itself to multi-line too.
	want := "Order(\n    symbol=AAPL,\n    tags=[\n        spot\n    ]\n)"
	assert.Equal(t, want, out)
	assert.True(t, strings.HasPrefix(out, "Order("))
}

func TestFieldLayoutOverrideFromConfig(t *testing.T) {
	cfg := repr.DefaultConfig()
	cfg.FieldLayouts = map[string]repr.Layout{"price": repr.Multiple}
	o := order{symbol: "AAPL", priced: true, price: []int{1}}
	out := render(t, cfg, o)
	assert.Equal(t, "Order(\n    symbol=AAPL,\n    price=[\n        1\n    ]\n)", out)
}

func TestForcedSingleLayout(t *testing.T) {
	cfg := repr.DefaultConfig()
	cfg.SingleLineCountBudget = 1
	cfg.Layout = repr.Single
	assert.Equal(t, "[1, 2, 3]", render(t, cfg, []int{1, 2, 3}))
}

func TestOpaqueLeaves(t *testing.T) {
	assert.Equal(t, "42", repr.String(42))
	assert.Equal(t, "plain", repr.String("plain"))
	assert.Equal(t, "<nil>", repr.String(nil))
	assert.Equal(t, "Unbounded", repr.String(repr.Unbounded))
}

func TestDeterminism(t *testing.T) {
	m := repr.Mapping{{Key: "a", Value: []int{1, 2}}, {Key: "b", Value: order{symbol: "X"}}}
	assert.Equal(t, repr.String(m), repr.String(m))
}

func TestCyclicStructureTerminates(t *testing.T) {
	s := make([]any, 1)
	s[0] = s
	out := repr.String(s)
	assert.Contains(t, out, "[...]")
}

func TestInvalidBracketsRejected(t *testing.T) {
	cfg := repr.DefaultConfig()
	cfg.MappingBrackets = "{"
	_, err := repr.New(cfg)
	require.Error(t, err)

	cfg = repr.DefaultConfig()
	cfg.SequenceBrackets = ""
	_, err = repr.New(cfg)
	require.Error(t, err)
}

func TestCustomBrackets(t *testing.T) {
	cfg := repr.DefaultConfig()
	cfg.SequenceBrackets = "<<>>"
	assert.Equal(t, "<<1, 2>>", render(t, cfg, []int{1, 2}))
}
