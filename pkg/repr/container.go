package repr

import (
	"reflect"
	"strings"
)

// entry is one fully rendered container or record member. line is the final
// text for the entry ("value", "key: value" or "field=value"), cost its
// contribution to the single-line budget including separator overhead.
type entry struct {
	line string
	cost int
}

func (e entry) multiline() bool { return strings.Contains(e.line, "\n") }

// decide picks the layout for a set of rendered entries. It is a pure
// function of the entries, their count, their summed cost and embedded line
// breaks; ancestors play no part. forced bypasses the computation.
func (r *Renderer) decide(entries []entry, hasEllipsis bool, forced Layout) Layout {
	if forced != Auto {
		return forced
	}
	if len(entries) > r.cfg.SingleLineCountBudget || hasEllipsis {
		return Multiple
	}
	total := 0
	for _, e := range entries {
		if e.multiline() {
			return Multiple
		}
		total += e.cost
	}
	if total-1 > r.cfg.SingleLineCharBudget {
		return Multiple
	}
	return Single
}

// emit writes entries inside the bracket pair per the chosen layout. An empty
// entry list always collapses to open+close, no matter the layout.
func (r *Renderer) emit(opener, closer string, entries []entry, hasEllipsis bool, layout Layout) string {
	var sb strings.Builder
	if len(entries) == 0 && !hasEllipsis {
		return opener + closer
	}
	if layout == Single {
		sb.WriteString(opener)
		for i, e := range entries {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(e.line)
		}
		if hasEllipsis {
			sb.WriteString(", ...")
		}
		sb.WriteString(closer)
		return sb.String()
	}
	sb.WriteString(opener)
	sb.WriteString("\n")
	for i, e := range entries {
		if i > 0 {
			sb.WriteString(",\n")
		}
		writeIndented(&sb, e.line, r.cfg.Indent)
	}
	sb.WriteString("\n")
	if hasEllipsis {
		sb.WriteString(r.cfg.Indent)
		sb.WriteString("...\n")
	}
	sb.WriteString(closer)
	return sb.String()
}

// writeIndented appends text to sb with one indent unit in front of every
// line. Children arrive already indented internally, so each level adds a
// single prefix layer at its own boundary.
func writeIndented(sb *strings.Builder, text, indent string) {
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(indent)
		sb.WriteString(line)
	}
}

// cap applies TruncateAt to a known length, reporting how many entries to
// keep and whether the ellipsis marker is owed. Truncation is independent of
// the depth limit; the two compose.
func (r *Renderer) cap(n int) (keep int, hasEllipsis bool) {
	if r.cfg.TruncateAt > 0 && n > r.cfg.TruncateAt {
		return r.cfg.TruncateAt, true
	}
	return n, false
}

func (r *Renderer) mappingPlaceholder() string {
	opener, closer := splitBrackets(r.cfg.MappingBrackets)
	return opener + ":..." + closer
}

func (r *Renderer) sequencePlaceholder(brackets string) string {
	opener, closer := splitBrackets(brackets)
	return opener + "..." + closer
}

// renderMapping handles both the order-preserving Mapping type and native Go
// maps. Native maps render in iteration order, which Go does not keep stable;
// callers that need deterministic output pass a Mapping.
func (r *Renderer) renderMapping(v any, depth int, layout Layout) string {
	var pairs []Pair
	if m, ok := v.(Mapping); ok {
		pairs = m
	} else {
		rv := reflect.ValueOf(v)
		pairs = make([]Pair, 0, rv.Len())
		it := rv.MapRange()
		for it.Next() {
			pairs = append(pairs, Pair{Key: it.Key().Interface(), Value: it.Value().Interface()})
		}
	}

	keep, hasEllipsis := r.cap(len(pairs))
	entries := make([]entry, 0, keep)
	for _, p := range pairs[:keep] {
		k := leaf(p.Key)
		val := r.render(p.Value, depth+1, Auto)
		entries = append(entries, entry{
			line: k + ": " + val,
			cost: len(k) + len(val) + 4,
		})
	}

	opener, closer := splitBrackets(r.cfg.MappingBrackets)
	return r.emit(opener, closer, entries, hasEllipsis, r.decide(entries, hasEllipsis, layout))
}

// renderSequence handles slices and arrays; brackets distinguish the two.
func (r *Renderer) renderSequence(v any, brackets string, depth int, layout Layout) string {
	rv := reflect.ValueOf(v)
	keep, hasEllipsis := r.cap(rv.Len())
	entries := make([]entry, 0, keep)
	for i := 0; i < keep; i++ {
		val := r.render(rv.Index(i).Interface(), depth+1, Auto)
		entries = append(entries, entry{line: val, cost: len(val) + 2})
	}

	opener, closer := splitBrackets(brackets)
	return r.emit(opener, closer, entries, hasEllipsis, r.decide(entries, hasEllipsis, layout))
}

// renderSet iterates a map[K]struct{} in host order. The order is a property
// of the source value, not fixed here.
func (r *Renderer) renderSet(v any, depth int, layout Layout) string {
	rv := reflect.ValueOf(v)
	keep, hasEllipsis := r.cap(rv.Len())
	entries := make([]entry, 0, keep)
	it := rv.MapRange()
	for it.Next() {
		if len(entries) >= keep {
			break
		}
		val := r.render(it.Key().Interface(), depth+1, Auto)
		entries = append(entries, entry{line: val, cost: len(val) + 2})
	}

	opener, closer := splitBrackets(r.cfg.SetBrackets)
	return r.emit(opener, closer, entries, hasEllipsis, r.decide(entries, hasEllipsis, layout))
}
