package parse

// Segment is the portion of the plan governed by one Protocol REF column: the
// protocol spec itself plus its trailing input, output, and attribute specs up
// to (not including) the next Protocol REF or the end of the header.
type Segment struct {
	Protocol *ColumnSpec
	Columns  []*ColumnSpec
}

// DecodingPlan is the compiled form of the header row. Leading holds input
// specs that precede the first Protocol REF; their decoded data are
// force-attached as inputs of the first segment's applied protocol. The
// segment count is fixed for the whole document.
type DecodingPlan struct {
	Leading  []*ColumnSpec
	Segments []*Segment
}

// CompileHeader consumes the full header row (cells already split, quotes
// stripped) through the column grammar and produces the decoding plan. The
// first unrecognized non-blank heading aborts compilation with a SyntaxError;
// no partial plan is returned.
func CompileHeader(cells []string) (*DecodingPlan, error) {
	plan := &DecodingPlan{}

	// owner is the most recent column able to accept nested attribute or
	// term-source specs; attrOwner additionally tracks the most recent
	// attribute so a Term Source REF can attach to it.
	var owner *ColumnSpec
	var lastAttr *ColumnSpec

	appendSpec := func(spec *ColumnSpec) {
		if len(plan.Segments) == 0 {
			plan.Leading = append(plan.Leading, spec)
			return
		}
		seg := plan.Segments[len(plan.Segments)-1]
		seg.Columns = append(seg.Columns, spec)
	}

	for i := 0; i < len(cells); i++ {
		cell := cells[i]
		spec := classifyCell(cell, i)
		if spec == nil {
			return nil, SyntaxError{Heading: cell, Column: i + 1}
		}
		switch spec.Kind {
		case KindBlank:
			appendSpec(spec)
		case KindProtocolRef:
			plan.Segments = append(plan.Segments, &Segment{Protocol: spec})
			owner = spec
			lastAttr = nil
		case KindTermSourceRef:
			target := owner
			if lastAttr != nil {
				target = lastAttr
			}
			if target == nil || target.TermSource != nil {
				return nil, SyntaxError{Heading: cell, Column: i + 1}
			}
			// An immediately following Term Accession Number column
			// belongs to this spec and costs a second row cell.
			if i+1 < len(cells) && isTermAccession(cells[i+1]) {
				spec.HasAccession = true
				i++
			}
			target.TermSource = spec
		case KindAttribute:
			if owner == nil {
				return nil, SyntaxError{Heading: cell, Column: i + 1}
			}
			owner.Attributes = append(owner.Attributes, spec)
			lastAttr = spec
		default:
			// Input and output data columns.
			appendSpec(spec)
			owner = spec
			lastAttr = nil
		}
	}

	if len(plan.Segments) == 0 {
		return nil, SyntaxError{Heading: "Protocol REF", Missing: true}
	}
	return plan, nil
}
