package sdrf

// AppliedProtocols returns every applied protocol in pipeline order: slot by
// slot, row order within each slot.
func (e *Experiment) AppliedProtocols() []*AppliedProtocol {
	var out []*AppliedProtocol
	for _, slot := range e.Slots {
		out = append(out, slot...)
	}
	return out
}

// Data returns every distinct datum reachable from the graph in first-seen
// pipeline order. Shared instances appear once.
func (e *Experiment) Data() []*Datum {
	seen := make(map[*Datum]struct{})
	var out []*Datum
	add := func(list []*Datum) {
		for _, d := range list {
			if _, ok := seen[d]; ok {
				continue
			}
			seen[d] = struct{}{}
			out = append(out, d)
		}
	}
	for _, ap := range e.AppliedProtocols() {
		add(ap.Inputs)
		add(ap.Outputs)
	}
	return out
}

// XRefVisit describes one term-source reference encountered during traversal,
// paired with the value of its owner so resolvers can default a missing
// accession from it.
type XRefVisit struct {
	XRef       *DBXref
	OwnerValue string
}

// EachXRef invokes fn for every term-source reference in the graph, in
// pipeline order: protocol xrefs, then datum xrefs, then attribute xrefs,
// recursing through nested attributes. Traversal is read-only; callers may
// mutate only the visited xref's accession.
func (e *Experiment) EachXRef(fn func(XRefVisit) error) error {
	seen := make(map[*Datum]struct{})
	for _, ap := range e.AppliedProtocols() {
		if p := ap.Protocol; p != nil {
			if p.TermSource != nil {
				if err := fn(XRefVisit{XRef: p.TermSource, OwnerValue: p.Name}); err != nil {
					return err
				}
			}
			if err := eachAttributeXRef(p.Attributes, fn); err != nil {
				return err
			}
		}
		for _, list := range [][]*Datum{ap.Inputs, ap.Outputs} {
			for _, d := range list {
				if _, ok := seen[d]; ok {
					continue
				}
				seen[d] = struct{}{}
				if d.TermSource != nil {
					if err := fn(XRefVisit{XRef: d.TermSource, OwnerValue: d.Value}); err != nil {
						return err
					}
				}
				if err := eachAttributeXRef(d.Attributes, fn); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func eachAttributeXRef(attrs []*Attribute, fn func(XRefVisit) error) error {
	for _, a := range attrs {
		if a.TermSource != nil {
			if err := fn(XRefVisit{XRef: a.TermSource, OwnerValue: a.Value}); err != nil {
				return err
			}
		}
		if err := eachAttributeXRef(a.Attributes, fn); err != nil {
			return err
		}
	}
	return nil
}
