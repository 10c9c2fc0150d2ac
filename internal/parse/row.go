package parse

import (
	"strings"

	"sdrfcore/pkg/sdrf"
)

// rowCursor is an ordered cursor over one row's cell buffer. Every decoder
// step pops the cells it owns from the front; the cursor is threaded through
// the steps in segment-and-column order.
type rowCursor struct {
	cells []string
	pos   int
}

func (c *rowCursor) next() (string, bool) {
	if c.pos >= len(c.cells) {
		return "", false
	}
	v := c.cells[c.pos]
	c.pos++
	return v, true
}

func (c *rowCursor) rest() []string {
	return c.cells[c.pos:]
}

// DecodeRow executes the plan's decoder steps strictly left to right against
// one row's cells, producing exactly one applied protocol per segment. Data
// decoded from leading pre-protocol columns are force-attached as inputs of
// the first segment's applied protocol regardless of the direction their
// column kind implies. A row that runs out of cells before every segment has
// a protocol fails with a RowShapeError; leftover cells yield a non-fatal
// warning.
func DecodeRow(plan *DecodingPlan, cells []string, line int) ([]*sdrf.AppliedProtocol, *UnconsumedCellsWarning, error) {
	cur := &rowCursor{cells: cells}

	var leading []*sdrf.Datum
	for _, spec := range plan.Leading {
		if spec.Kind == KindBlank {
			cur.next()
			continue
		}
		leading = append(leading, decodeDatum(spec, cur))
	}

	aps := make([]*sdrf.AppliedProtocol, 0, len(plan.Segments))
	for _, seg := range plan.Segments {
		name, ok := cur.next()
		if !ok {
			return nil, nil, RowShapeError{Line: line, Got: len(aps), Want: len(plan.Segments)}
		}
		protocol := &sdrf.Protocol{Name: name}
		if seg.Protocol.TermSource != nil {
			protocol.TermSource = decodeXRef(seg.Protocol.TermSource, cur, name)
		}
		for _, attrSpec := range seg.Protocol.Attributes {
			protocol.Attributes = append(protocol.Attributes, decodeAttribute(attrSpec, cur))
		}
		ap := &sdrf.AppliedProtocol{Protocol: protocol}
		for _, spec := range seg.Columns {
			if spec.Kind == KindBlank {
				cur.next()
				continue
			}
			d := decodeDatum(spec, cur)
			switch spec.direction() {
			case dirInput:
				ap.Inputs = append(ap.Inputs, d)
			case dirOutput:
				ap.Outputs = append(ap.Outputs, d)
			}
		}
		aps = append(aps, ap)
	}

	// Pre-protocol data become inputs of the first stage even when their
	// column kind would normally imply an output (a leading Source Name
	// feeds the first protocol rather than being produced by it).
	for _, d := range leading {
		aps[0].Inputs = append(aps[0].Inputs, d)
	}

	var warn *UnconsumedCellsWarning
	if leftover := cur.rest(); len(leftover) > 0 && !allBlank(leftover) {
		warn = &UnconsumedCellsWarning{Line: line, Cells: append([]string(nil), leftover...)}
	}
	return aps, warn, nil
}

func decodeDatum(spec *ColumnSpec, cur *rowCursor) *sdrf.Datum {
	value, _ := cur.next()
	d := &sdrf.Datum{
		Heading: spec.Heading,
		Name:    spec.Name,
		Value:   value,
		Type:    deriveType(spec),
	}
	if spec.TermSource != nil {
		d.TermSource = decodeXRef(spec.TermSource, cur, value)
	}
	for _, attrSpec := range spec.Attributes {
		d.Attributes = append(d.Attributes, decodeAttribute(attrSpec, cur))
	}
	return d
}

func decodeAttribute(spec *ColumnSpec, cur *rowCursor) *sdrf.Attribute {
	value, _ := cur.next()
	a := &sdrf.Attribute{
		Heading: spec.Heading,
		Name:    spec.Name,
		Value:   value,
		Type:    deriveType(spec),
	}
	if spec.TermSource != nil {
		a.TermSource = decodeXRef(spec.TermSource, cur, value)
	}
	return a
}

// decodeXRef consumes the term-source name cell and, when the compiled spec
// recorded an accompanying accession column, a second cell for the accession.
// Without an explicit accession the owner column's cell value stands in until
// the external resolver fills the real one.
func decodeXRef(spec *ColumnSpec, cur *rowCursor, ownerValue string) *sdrf.DBXref {
	db, _ := cur.next()
	accession := ownerValue
	if spec.HasAccession {
		if explicit, _ := cur.next(); explicit != "" {
			accession = explicit
		}
	}
	if db == "" {
		return nil
	}
	return &sdrf.DBXref{DB: db, Accession: accession}
}

// deriveType splits a "cv:term" paren qualifier on its first colon. Absent a
// usable qualifier, file columns default to xsd:file and biomaterial columns
// to their class term; value columns carry no type.
func deriveType(spec *ColumnSpec) *sdrf.CVTerm {
	if idx := strings.Index(spec.Type, ":"); idx > 0 {
		return &sdrf.CVTerm{CV: spec.Type[:idx], Name: spec.Type[idx+1:]}
	}
	switch spec.Kind {
	case KindParameterFile, KindDataFile, KindArrayDataFile, KindArrayMatrixDataFile:
		return &sdrf.CVTerm{CV: "xsd", Name: "file"}
	case KindBiomaterialName:
		return &sdrf.CVTerm{CV: "modencode", Name: string(spec.Class)}
	default:
		return nil
	}
}

func allBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
