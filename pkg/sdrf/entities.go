// Package sdrf defines the domain model for parsed SDRF (Sample and Data
// Relationship Format) documents: protocols, data, attributes, applied
// protocols, and the reconciled experiment graph, together with the
// structural-equality and deep-copy primitives the parser and its
// collaborators rely on.
package sdrf

import "fmt"

// CVTerm names a term inside a controlled-vocabulary namespace. It is derived
// by splitting a "cv:term" type qualifier on its first colon.
type CVTerm struct {
	CV   string `json:"cv"`
	Name string `json:"name"`
}

// String renders the term in its cv:term wire form.
func (t CVTerm) String() string {
	if t.CV == "" {
		return t.Name
	}
	return t.CV + ":" + t.Name
}

// DBXref references a named vocabulary plus an accession string. The accession
// may be empty until an external term-source resolver fills it in; resolution
// mutates the xref in place so every holder of the reference observes it.
type DBXref struct {
	DB        string `json:"db"`
	Accession string `json:"accession,omitempty"`
}

// Equivalent reports structural equality of two xrefs. Nil xrefs compare
// equal only to nil.
func (x *DBXref) Equivalent(other *DBXref) bool {
	if x == nil || other == nil {
		return x == other
	}
	return x.DB == other.DB && x.Accession == other.Accession
}

// Attribute qualifies a Datum or Protocol with additional typed metadata. It
// carries the same shape as Datum and is owned by exactly one parent; parents
// never share attribute instances.
type Attribute struct {
	Heading    string
	Name       string
	Value      string
	Type       *CVTerm
	TermSource *DBXref
	Attributes []*Attribute
}

// Equivalent reports deep structural equality.
func (a *Attribute) Equivalent(other *Attribute) bool {
	if a == nil || other == nil {
		return a == other
	}
	if a.Heading != other.Heading || a.Name != other.Name || a.Value != other.Value {
		return false
	}
	if !cvTermsEqual(a.Type, other.Type) || !a.TermSource.Equivalent(other.TermSource) {
		return false
	}
	return attributesEquivalent(a.Attributes, other.Attributes)
}

// Datum is a single piece of experimental data flowing between applied
// protocols: a biomaterial, a file, a measured value, or a synthetic
// anonymous placeholder. Datum instances are shared by reference across
// adjacent applied protocols and slots; value-equality is structural and
// distinct from identity.
type Datum struct {
	Heading    string
	Name       string
	Value      string
	Type       *CVTerm
	TermSource *DBXref
	Attributes []*Attribute

	anonymous bool
}

// AnonymousCV is the controlled-vocabulary namespace of synthetic bridging data.
const AnonymousCV = "modencode"

// AnonymousTermName is the type term assigned to synthetic bridging data.
const AnonymousTermName = "anonymous_datum"

// NewAnonymousDatum builds the synthetic placeholder datum inserted by chain
// reconstruction to keep the pipeline graph connected. Sequence numbers are
// session-scoped, starting at zero.
func NewAnonymousDatum(seq int) *Datum {
	return &Datum{
		Heading:   fmt.Sprintf("Anonymous Datum #%d", seq),
		Type:      &CVTerm{CV: AnonymousCV, Name: AnonymousTermName},
		anonymous: true,
	}
}

// Anonymous reports whether the datum was synthesized by chain reconstruction.
func (d *Datum) Anonymous() bool { return d.anonymous }

// Equivalent reports deep structural equality: heading, name, value, type,
// term source, and attributes must all match.
func (d *Datum) Equivalent(other *Datum) bool {
	if d == nil || other == nil {
		return d == other
	}
	if d.Heading != other.Heading || d.Name != other.Name || d.Value != other.Value {
		return false
	}
	if d.anonymous != other.anonymous {
		return false
	}
	if !cvTermsEqual(d.Type, other.Type) || !d.TermSource.Equivalent(other.TermSource) {
		return false
	}
	return attributesEquivalent(d.Attributes, other.Attributes)
}

// Protocol describes one named experimental protocol reference together with
// its qualifying attributes.
type Protocol struct {
	Name       string
	TermSource *DBXref
	Attributes []*Attribute
}

// Equivalent reports deep structural equality.
func (p *Protocol) Equivalent(other *Protocol) bool {
	if p == nil || other == nil {
		return p == other
	}
	if p.Name != other.Name || !p.TermSource.Equivalent(other.TermSource) {
		return false
	}
	return attributesEquivalent(p.Attributes, other.Attributes)
}

// AppliedProtocol is one instantiation of a protocol at a specific pipeline
// stage, with its concrete ordered input and output data.
type AppliedProtocol struct {
	Protocol *Protocol
	Inputs   []*Datum
	Outputs  []*Datum
}

// Equivalent reports deep structural equality of protocol plus the full
// ordered input and output lists.
func (ap *AppliedProtocol) Equivalent(other *AppliedProtocol) bool {
	if ap == nil || other == nil {
		return ap == other
	}
	if !ap.Protocol.Equivalent(other.Protocol) {
		return false
	}
	return dataEquivalent(ap.Inputs, other.Inputs) && dataEquivalent(ap.Outputs, other.Outputs)
}

// Experiment owns the reconciled pipeline graph: one slot per header segment,
// each slot holding the deduplicated, row-ordered applied protocols for that
// pipeline stage.
type Experiment struct {
	Slots [][]*AppliedProtocol
}

func cvTermsEqual(a, b *CVTerm) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func attributesEquivalent(a, b []*Attribute) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equivalent(b[i]) {
			return false
		}
	}
	return true
}

func dataEquivalent(a, b []*Datum) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equivalent(b[i]) {
			return false
		}
	}
	return true
}
