package sdrf

// Clone produces a fully independent deep copy of the experiment graph.
// Instance sharing inside the graph is preserved: a datum referenced by two
// applied protocols maps to a single copied datum referenced by both copies.
// Downstream passes that mutate term-source fields must clone first when they
// run concurrently, since xrefs are shared by reference across slots.
func (e *Experiment) Clone() *Experiment {
	c := &cloner{
		data:      make(map[*Datum]*Datum),
		protocols: make(map[*Protocol]*Protocol),
	}
	out := &Experiment{Slots: make([][]*AppliedProtocol, len(e.Slots))}
	for i, slot := range e.Slots {
		out.Slots[i] = make([]*AppliedProtocol, len(slot))
		for j, ap := range slot {
			out.Slots[i][j] = c.appliedProtocol(ap)
		}
	}
	return out
}

type cloner struct {
	data      map[*Datum]*Datum
	protocols map[*Protocol]*Protocol
}

func (c *cloner) appliedProtocol(ap *AppliedProtocol) *AppliedProtocol {
	if ap == nil {
		return nil
	}
	out := &AppliedProtocol{Protocol: c.protocol(ap.Protocol)}
	for _, d := range ap.Inputs {
		out.Inputs = append(out.Inputs, c.datum(d))
	}
	for _, d := range ap.Outputs {
		out.Outputs = append(out.Outputs, c.datum(d))
	}
	return out
}

func (c *cloner) protocol(p *Protocol) *Protocol {
	if p == nil {
		return nil
	}
	if existing, ok := c.protocols[p]; ok {
		return existing
	}
	out := &Protocol{
		Name:       p.Name,
		TermSource: cloneXRef(p.TermSource),
		Attributes: cloneAttributes(p.Attributes),
	}
	c.protocols[p] = out
	return out
}

func (c *cloner) datum(d *Datum) *Datum {
	if d == nil {
		return nil
	}
	if existing, ok := c.data[d]; ok {
		return existing
	}
	out := &Datum{
		Heading:    d.Heading,
		Name:       d.Name,
		Value:      d.Value,
		Type:       cloneCVTerm(d.Type),
		TermSource: cloneXRef(d.TermSource),
		Attributes: cloneAttributes(d.Attributes),
		anonymous:  d.anonymous,
	}
	c.data[d] = out
	return out
}

// Attributes are exclusively owned, so they copy without an identity map.
func cloneAttributes(attrs []*Attribute) []*Attribute {
	if attrs == nil {
		return nil
	}
	out := make([]*Attribute, len(attrs))
	for i, a := range attrs {
		out[i] = &Attribute{
			Heading:    a.Heading,
			Name:       a.Name,
			Value:      a.Value,
			Type:       cloneCVTerm(a.Type),
			TermSource: cloneXRef(a.TermSource),
			Attributes: cloneAttributes(a.Attributes),
		}
	}
	return out
}

func cloneCVTerm(t *CVTerm) *CVTerm {
	if t == nil {
		return nil
	}
	cp := *t
	return &cp
}

func cloneXRef(x *DBXref) *DBXref {
	if x == nil {
		return nil
	}
	cp := *x
	return &cp
}
