package repr

import "github.com/pkg/errors"

// Default budgets, matching the package-level String renderer.
const (
	DefaultMaxDepth              = 7
	DefaultIndent                = "    "
	DefaultSingleLineCharBudget  = 120
	DefaultSingleLineCountBudget = 5
)

// Config controls one Renderer. It is copied at construction and never
// mutated by rendering, so a single Config value can back many renderers.
type Config struct {
	// MaxDepth bounds recursion. Values nested at MaxDepth or deeper render
	// as their shape's placeholder. This is the only cycle protection and
	// the only work bound.
	MaxDepth int

	// Indent is the prefix added per nesting level in multi-line layout.
	Indent string

	// SingleLineCharBudget is the maximum summed entry cost for which a
	// container may still render on one line.
	SingleLineCharBudget int

	// SingleLineCountBudget is the maximum entry count for one-line layout.
	SingleLineCountBudget int

	// TruncateAt caps the number of rendered entries per container and
	// appends an ellipsis marker past the cap. Zero disables truncation.
	// Records are never truncated.
	TruncateAt int

	// Layout forces the top-level value's layout. Nested values decide for
	// themselves unless overridden per record field.
	Layout Layout

	// FieldLayouts forces the layout of named record fields, in addition to
	// any FieldLayouter declaration on the record type itself.
	FieldLayouts map[string]Layout

	// Bracket pairs per shape: the first half opens, the second half closes.
	MappingBrackets  string
	SequenceBrackets string
	TupleBrackets    string
	SetBrackets      string
}

// DefaultConfig returns the configuration used by the package-level String.
func DefaultConfig() Config {
	return Config{
		MaxDepth:              DefaultMaxDepth,
		Indent:                DefaultIndent,
		SingleLineCharBudget:  DefaultSingleLineCharBudget,
		SingleLineCountBudget: DefaultSingleLineCountBudget,
		MappingBrackets:       "{}",
		SequenceBrackets:      "[]",
		TupleBrackets:         "()",
		SetBrackets:           "{}",
	}
}

func (c *Config) validate() error {
	if c.MaxDepth < 0 {
		return errors.Errorf("repr: negative max depth %d", c.MaxDepth)
	}
	if c.SingleLineCharBudget < 0 || c.SingleLineCountBudget < 0 {
		return errors.New("repr: negative single-line budget")
	}
	if c.TruncateAt < 0 {
		return errors.Errorf("repr: negative truncation cap %d", c.TruncateAt)
	}
	for _, pair := range []string{
		c.MappingBrackets, c.SequenceBrackets, c.TupleBrackets, c.SetBrackets,
	} {
		if len(pair) == 0 || len(pair)%2 != 0 {
			return errors.Errorf("repr: bracket pair %q must have even, non-zero length", pair)
		}
	}
	return nil
}

// splitBrackets assumes the pair passed validation.
func splitBrackets(pair string) (opener, closer string) {
	return pair[:len(pair)/2], pair[len(pair)/2:]
}
