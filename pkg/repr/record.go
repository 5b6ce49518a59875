package repr

// renderRecord renders a capability-opted value as Name(field=value, ...).
// The field list comes from the record itself, in declared order. A field
// whose lookup fails contributes the Unbounded token: it counts toward the
// layout budget like any other entry but is never recursed into.
func (r *Renderer) renderRecord(rec Record, depth int, layout Layout) string {
	var overrides map[string]Layout
	if fl, ok := rec.(FieldLayouter); ok {
		overrides = fl.FieldLayouts()
	}

	names := rec.FieldNames()
	entries := make([]entry, 0, len(names))
	for _, name := range names {
		var val string
		if v, ok := rec.Field(name); ok {
			val = r.render(v, depth+1, r.fieldLayout(name, overrides))
		} else {
			val = Unbounded.String()
		}
		entries = append(entries, entry{
			line: name + "=" + val,
			cost: len(name) + len(val) + 2,
		})
	}

	// Records have no truncation concept; field lists are always complete.
	return r.emit(rec.TypeName()+"(", ")", entries, false, r.decide(entries, false, layout))
}

// fieldLayout resolves a per-field forced layout. The per-call config wins
// over the record type's own declaration. The override only steers the
// field's nested rendering, never the record's own layout decision.
func (r *Renderer) fieldLayout(name string, typeOverrides map[string]Layout) Layout {
	if l, ok := r.cfg.FieldLayouts[name]; ok {
		return l
	}
	if l, ok := typeOverrides[name]; ok {
		return l
	}
	return Auto
}
