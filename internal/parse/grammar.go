// Package parse implements the SDRF engine: the column grammar that
// classifies header cells, the header compiler that turns the header row into
// an ordered decoding plan, the row decoder that consumes data rows against
// that plan, and the chain reconstructor that stitches the decoded matrix
// into a connected experiment graph.
package parse

import (
	"regexp"
	"strings"
)

// ColumnKind enumerates the recognized column classifications. Together with
// ColumnSpec it reifies the grammar's per-column rules as a sealed tagged
// variant with a uniform consume-cells contract.
type ColumnKind int

const (
	// KindProtocolRef marks a segment boundary.
	KindProtocolRef ColumnKind = iota
	// KindParameterValue is a protocol input value.
	KindParameterValue
	// KindParameterFile is a protocol input file.
	KindParameterFile
	// KindArrayDesignRef is a protocol input referencing an array design.
	KindArrayDesignRef
	// KindHybridizationName is a protocol input naming a hybridization.
	KindHybridizationName
	// KindResultValue is a protocol output value.
	KindResultValue
	// KindArrayDataFile is a protocol output file ((Derived) Array Data File).
	KindArrayDataFile
	// KindDataFile is a generic protocol output file (Result File).
	KindDataFile
	// KindArrayMatrixDataFile is a protocol output matrix file.
	KindArrayMatrixDataFile
	// KindBiomaterialName is a biomaterial output (source/sample/extract/labeled extract).
	KindBiomaterialName
	// KindAttribute qualifies the nearest preceding protocol or datum column.
	KindAttribute
	// KindTermSourceRef attaches a vocabulary reference to the preceding column.
	KindTermSourceRef
	// KindBlank is an empty header cell; it consumes one row cell and
	// produces nothing.
	KindBlank
)

// BiomaterialClass distinguishes the four biomaterial name headings.
type BiomaterialClass string

// Biomaterial classes in pipeline order.
const (
	ClassSource         BiomaterialClass = "source"
	ClassSample         BiomaterialClass = "sample"
	ClassExtract        BiomaterialClass = "extract"
	ClassLabeledExtract BiomaterialClass = "labeled_extract"
)

// ColumnSpec captures everything the compiler learned about one header cell:
// its kind, original heading text, optional bracketed name qualifier,
// optional parenthesized type qualifier, an optional nested term-source spec,
// and zero or more nested attribute specs. Specs are built once per document
// and immutable thereafter.
type ColumnSpec struct {
	Kind    ColumnKind
	Heading string
	Name    string
	Type    string
	Class   BiomaterialClass
	Column  int // 0-based header position, for diagnostics

	// HasAccession records whether a Term Accession Number column
	// immediately follows a Term Source REF column; the decoder then
	// consumes a second cell for the accession.
	HasAccession bool

	TermSource *ColumnSpec
	Attributes []*ColumnSpec
}

type direction int

const (
	dirProtocol direction = iota
	dirInput
	dirOutput
	dirModifier
)

func (s *ColumnSpec) direction() direction {
	switch s.Kind {
	case KindProtocolRef:
		return dirProtocol
	case KindParameterValue, KindParameterFile, KindArrayDesignRef, KindHybridizationName:
		return dirInput
	case KindResultValue, KindArrayDataFile, KindDataFile, KindArrayMatrixDataFile, KindBiomaterialName:
		return dirOutput
	default:
		return dirModifier
	}
}

// Reserved heading patterns. Ordering matters: Attribute is the fallback for
// any heading no reserved pattern matches, so every reserved pattern must be
// tried first. All patterns tolerate case, internal whitespace variation, and
// an optional trailing plural s.
var (
	cellShapeRe = regexp.MustCompile(`^\s*(.*?)\s*(?:\[\s*([^\]]*?)\s*\])?\s*(?:\(\s*([^()]*?)\s*\))?\s*$`)

	protocolRefRe       = regexp.MustCompile(`(?i)^protocol\s+ref$`)
	parameterValueRe    = regexp.MustCompile(`(?i)^parameter\s+values?$`)
	parameterFileRe     = regexp.MustCompile(`(?i)^parameter\s+files?$`)
	arrayDesignRefRe    = regexp.MustCompile(`(?i)^array\s+design\s+ref$`)
	hybridizationRe     = regexp.MustCompile(`(?i)^hybridi[sz]ation\s+names?$`)
	resultValueRe       = regexp.MustCompile(`(?i)^result\s+values?$`)
	arrayDataFileRe     = regexp.MustCompile(`(?i)^(?:derived\s+)?array\s+data\s+files?$`)
	dataFileRe          = regexp.MustCompile(`(?i)^result\s+files?$`)
	arrayMatrixFileRe   = regexp.MustCompile(`(?i)^array\s+matrix\s+data\s+files?$`)
	biomaterialRe       = regexp.MustCompile(`(?i)^(source|sample|extract|labell?ed\s+extract)\s+names?$`)
	termSourceRefRe     = regexp.MustCompile(`(?i)^term\s+source\s+ref$`)
	termAccessionRe     = regexp.MustCompile(`(?i)^term\s+accession(?:\s+numbers?)?$`)
	attributeHeadingRe = regexp.MustCompile(`^[^\[\]()\t]+$`)
	whitespaceRunRe    = regexp.MustCompile(`\s+`)
)

// classifyCell recognizes one header cell, splitting off its bracket and
// paren qualifiers and classifying the base heading. It returns nil when the
// cell matches no recognized pattern, including the Attribute fallback.
func classifyCell(cell string, column int) *ColumnSpec {
	m := cellShapeRe.FindStringSubmatch(cell)
	if m == nil {
		return nil
	}
	base, name, typ := m[1], m[2], m[3]
	normalized := whitespaceRunRe.ReplaceAllString(strings.TrimSpace(base), " ")

	spec := &ColumnSpec{Heading: strings.TrimSpace(base), Name: name, Type: typ, Column: column}
	switch {
	case normalized == "":
		if name == "" && typ == "" {
			spec.Kind = KindBlank
			return spec
		}
		return nil
	case protocolRefRe.MatchString(normalized):
		spec.Kind = KindProtocolRef
	case parameterValueRe.MatchString(normalized):
		spec.Kind = KindParameterValue
	case parameterFileRe.MatchString(normalized):
		spec.Kind = KindParameterFile
	case arrayDesignRefRe.MatchString(normalized):
		spec.Kind = KindArrayDesignRef
	case hybridizationRe.MatchString(normalized):
		spec.Kind = KindHybridizationName
	case resultValueRe.MatchString(normalized):
		spec.Kind = KindResultValue
	case arrayDataFileRe.MatchString(normalized):
		spec.Kind = KindArrayDataFile
	case dataFileRe.MatchString(normalized):
		spec.Kind = KindDataFile
	case arrayMatrixFileRe.MatchString(normalized):
		spec.Kind = KindArrayMatrixDataFile
	case biomaterialRe.MatchString(normalized):
		spec.Kind = KindBiomaterialName
		spec.Class = biomaterialClass(normalized)
	case termSourceRefRe.MatchString(normalized):
		spec.Kind = KindTermSourceRef
	case termAccessionRe.MatchString(normalized):
		// Recognized, but only valid immediately after Term Source REF;
		// the compiler consumes it there. Standalone occurrences are
		// syntax errors, signalled by a dedicated kind-less return.
		return nil
	case attributeHeadingRe.MatchString(normalized):
		spec.Kind = KindAttribute
	default:
		return nil
	}
	return spec
}

// isTermAccession reports whether the raw cell is a Term Accession Number
// heading, which the compiler folds into the preceding Term Source REF spec.
func isTermAccession(cell string) bool {
	normalized := whitespaceRunRe.ReplaceAllString(strings.TrimSpace(cell), " ")
	return termAccessionRe.MatchString(normalized)
}

func biomaterialClass(normalized string) BiomaterialClass {
	lower := strings.ToLower(normalized)
	switch {
	case strings.HasPrefix(lower, "source"):
		return ClassSource
	case strings.HasPrefix(lower, "sample"):
		return ClassSample
	case strings.HasPrefix(lower, "extract"):
		return ClassExtract
	default:
		return ClassLabeledExtract
	}
}
