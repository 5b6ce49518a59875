// Package repr renders arbitrary values as human-readable, indented text for
// logging and debugging. Containers and records are rendered bottom-up: each
// child is rendered first, then the parent measures the results and decides
// whether it fits on one line or needs an indented block.
//
// Output is a diagnostic text form, not a serialization format. Leaf values
// fall back to their fmt.Sprint form.
package repr

import (
	"fmt"
	"reflect"
)

// Layout selects how a container or record is laid out.
type Layout int

const (
	// Auto lets the renderer decide based on the rendered children.
	Auto Layout = iota
	// Single forces one-line output.
	Single
	// Multiple forces an indented block.
	Multiple
)

// Record is implemented by types that want to be rendered as
// Name(field=value, ...) instead of their fmt.Sprint form. Field reports
// ok=false when the named field cannot be read; such fields render as the
// Unbounded token instead of failing the render.
type Record interface {
	TypeName() string
	FieldNames() []string
	Field(name string) (any, bool)
}

// FieldLayouter is an optional extension of Record declaring forced layouts
// for individual fields.
type FieldLayouter interface {
	FieldLayouts() map[string]Layout
}

// Pair is one ordered mapping entry.
type Pair struct {
	Key   any
	Value any
}

// Mapping is an order-preserving sequence of key/value pairs. Use it instead
// of a native map when deterministic output matters; native Go maps render in
// iteration order, which is not stable across runs.
type Mapping []Pair

type unboundedType struct{}

func (unboundedType) String() string { return "Unbounded" }

// Unbounded is the token rendered in place of a record field that could not
// be read. It is never quoted or recursed into.
var Unbounded = unboundedType{}

type shape int

const (
	shapeOpaque shape = iota
	shapeMapping
	shapeSequence
	shapeTuple
	shapeSet
	shapeRecord
)

// Renderer renders values with a fixed Config. A Renderer is stateless after
// construction and safe for concurrent use.
type Renderer struct {
	cfg Config
}

// New returns a Renderer for cfg. It fails fast on degenerate configuration
// (a bracket pair of zero or odd length) so that rendering itself never can.
func New(cfg Config) (*Renderer, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Renderer{cfg: cfg}, nil
}

var defaultRenderer = &Renderer{cfg: DefaultConfig()}

// String renders v with the default configuration.
func String(v any) string {
	return defaultRenderer.Render(v)
}

// Render renders v to its diagnostic text form. Rendering is total: it never
// fails on user data, and recursion is bounded by Config.MaxDepth, so cyclic
// structures terminate with depth placeholders.
func (r *Renderer) Render(v any) string {
	return r.render(v, 0, r.cfg.Layout)
}

// render classifies v and dispatches to the shape renderer. At or beyond the
// depth limit it returns the shape's placeholder without touching contents.
func (r *Renderer) render(v any, depth int, layout Layout) string {
	switch classify(v) {
	case shapeMapping:
		if depth >= r.cfg.MaxDepth {
			return r.mappingPlaceholder()
		}
		return r.renderMapping(v, depth, layout)
	case shapeSequence:
		if depth >= r.cfg.MaxDepth {
			return r.sequencePlaceholder(r.cfg.SequenceBrackets)
		}
		return r.renderSequence(v, r.cfg.SequenceBrackets, depth, layout)
	case shapeTuple:
		if depth >= r.cfg.MaxDepth {
			return r.sequencePlaceholder(r.cfg.TupleBrackets)
		}
		return r.renderSequence(v, r.cfg.TupleBrackets, depth, layout)
	case shapeSet:
		if depth >= r.cfg.MaxDepth {
			return r.sequencePlaceholder(r.cfg.SetBrackets)
		}
		return r.renderSet(v, depth, layout)
	case shapeRecord:
		rec := v.(Record)
		if depth >= r.cfg.MaxDepth {
			return rec.TypeName() + "(...)"
		}
		return r.renderRecord(rec, depth, layout)
	default:
		return leaf(v)
	}
}

// classify maps a value onto one of the renderable shapes. The match is
// closed and unambiguous: the first matching shape wins, and no value
// satisfies two shapes at once.
func classify(v any) shape {
	if v == nil {
		return shapeOpaque
	}
	switch v.(type) {
	case Mapping:
		return shapeMapping
	case unboundedType:
		return shapeOpaque
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		// map[K]struct{} is the conventional Go set.
		if rv.Type().Elem() == emptyStructType {
			return shapeSet
		}
		return shapeMapping
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return shapeOpaque // []byte is a leaf
		}
		return shapeSequence
	case reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return shapeOpaque
		}
		return shapeTuple
	}
	if _, ok := v.(Record); ok {
		return shapeRecord
	}
	return shapeOpaque
}

var emptyStructType = reflect.TypeOf(struct{}{})

// leaf renders an opaque value through its intrinsic textual form.
func leaf(v any) string {
	return fmt.Sprint(v)
}
