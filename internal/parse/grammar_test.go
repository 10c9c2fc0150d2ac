package parse

import "testing"

func TestClassifyCellRecognizedHeadings(t *testing.T) {
	cases := []struct {
		cell  string
		kind  ColumnKind
		name  string
		typ   string
		class BiomaterialClass
	}{
		{cell: "Protocol REF", kind: KindProtocolRef},
		{cell: "protocol   ref", kind: KindProtocolRef},
		{cell: "PROTOCOL REF", kind: KindProtocolRef},
		{cell: "Parameter Value", kind: KindParameterValue},
		{cell: "Parameter Values", kind: KindParameterValue},
		{cell: "Parameter Value [temp]", kind: KindParameterValue, name: "temp"},
		{cell: "Parameter Value [temp] (unit:celsius)", kind: KindParameterValue, name: "temp", typ: "unit:celsius"},
		{cell: "Parameter File", kind: KindParameterFile},
		{cell: "Parameter Files", kind: KindParameterFile},
		{cell: "Array Design REF", kind: KindArrayDesignRef},
		{cell: "Hybridization Name", kind: KindHybridizationName},
		{cell: "Hybridisation Names", kind: KindHybridizationName},
		{cell: "Result Value", kind: KindResultValue},
		{cell: "Result Values (mo:measurement)", kind: KindResultValue, typ: "mo:measurement"},
		{cell: "Array Data File", kind: KindArrayDataFile},
		{cell: "Derived Array Data Files", kind: KindArrayDataFile},
		{cell: "Result File", kind: KindDataFile},
		{cell: "Result Files", kind: KindDataFile},
		{cell: "Array Matrix Data File", kind: KindArrayMatrixDataFile},
		{cell: "Source Name", kind: KindBiomaterialName, class: ClassSource},
		{cell: "Sample Names", kind: KindBiomaterialName, class: ClassSample},
		{cell: "Extract Name", kind: KindBiomaterialName, class: ClassExtract},
		{cell: "Labeled Extract Name", kind: KindBiomaterialName, class: ClassLabeledExtract},
		{cell: "Labelled Extract Names", kind: KindBiomaterialName, class: ClassLabeledExtract},
		{cell: "Term Source REF", kind: KindTermSourceRef},
		{cell: "Characteristics", kind: KindAttribute},
		{cell: "Characteristics [age] (MO:age)", kind: KindAttribute, name: "age", typ: "MO:age"},
		{cell: "Anonymous Name", kind: KindAttribute},
		{cell: "", kind: KindBlank},
		{cell: "   ", kind: KindBlank},
	}
	for _, tc := range cases {
		spec := classifyCell(tc.cell, 0)
		if spec == nil {
			t.Fatalf("classifyCell(%q) returned nil", tc.cell)
		}
		if spec.Kind != tc.kind {
			t.Fatalf("classifyCell(%q) kind = %d, want %d", tc.cell, spec.Kind, tc.kind)
		}
		if spec.Name != tc.name {
			t.Fatalf("classifyCell(%q) name = %q, want %q", tc.cell, spec.Name, tc.name)
		}
		if spec.Type != tc.typ {
			t.Fatalf("classifyCell(%q) type = %q, want %q", tc.cell, spec.Type, tc.typ)
		}
		if tc.kind == KindBiomaterialName && spec.Class != tc.class {
			t.Fatalf("classifyCell(%q) class = %q, want %q", tc.cell, spec.Class, tc.class)
		}
	}
}

func TestClassifyCellReservedHeadingsNeverFallBackToAttribute(t *testing.T) {
	// The attribute pattern matches any free text, so the reserved patterns
	// must win for headings they cover.
	reserved := []string{
		"Protocol REF", "Parameter Value", "Array Design REF",
		"Hybridization Name", "Result Value", "Array Data File",
		"Result File", "Array Matrix Data File", "Source Name",
		"Term Source REF",
	}
	for _, cell := range reserved {
		spec := classifyCell(cell, 0)
		if spec == nil {
			t.Fatalf("classifyCell(%q) returned nil", cell)
		}
		if spec.Kind == KindAttribute {
			t.Fatalf("reserved heading %q classified as attribute", cell)
		}
	}
}

func TestClassifyCellRejectsMalformedHeadings(t *testing.T) {
	for _, cell := range []string{"Term Accession Number", "Bad]Heading", "Odd(Heading"} {
		if spec := classifyCell(cell, 0); spec != nil {
			t.Fatalf("classifyCell(%q) = kind %d, want nil", cell, spec.Kind)
		}
	}
}

func TestIsTermAccession(t *testing.T) {
	for _, cell := range []string{"Term Accession Number", "term accession", "Term  Accession  Numbers"} {
		if !isTermAccession(cell) {
			t.Fatalf("isTermAccession(%q) = false", cell)
		}
	}
	if isTermAccession("Term Source REF") {
		t.Fatal("Term Source REF misread as accession heading")
	}
}
