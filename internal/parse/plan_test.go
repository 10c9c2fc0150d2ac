package parse

import (
	"errors"
	"testing"
)

func TestCompileHeaderSegmentCount(t *testing.T) {
	cases := []struct {
		name     string
		cells    []string
		segments int
		leading  int
	}{
		{
			name:     "single segment with leading source",
			cells:    []string{"Source Name", "Protocol REF", "Parameter Value [temp]", "Result Value"},
			segments: 1,
			leading:  1,
		},
		{
			name:     "two bare protocols",
			cells:    []string{"Protocol REF", "Protocol REF"},
			segments: 2,
		},
		{
			name:     "three stage pipeline",
			cells:    []string{"Source Name", "Protocol REF", "Extract Name", "Protocol REF", "Protocol REF", "Array Data File"},
			segments: 3,
			leading:  1,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			plan, err := CompileHeader(tc.cells)
			if err != nil {
				t.Fatalf("CompileHeader: %v", err)
			}
			if got := len(plan.Segments); got != tc.segments {
				t.Fatalf("segments = %d, want %d", got, tc.segments)
			}
			if got := len(plan.Leading); got != tc.leading {
				t.Fatalf("leading = %d, want %d", got, tc.leading)
			}
		})
	}
}

func TestCompileHeaderTrailingColumnsBelongToSegment(t *testing.T) {
	plan, err := CompileHeader([]string{"Protocol REF", "Parameter Value", "Result Value", "Protocol REF", "Array Data File"})
	if err != nil {
		t.Fatalf("CompileHeader: %v", err)
	}
	if got := len(plan.Segments[0].Columns); got != 2 {
		t.Fatalf("segment 0 columns = %d, want 2", got)
	}
	if got := len(plan.Segments[1].Columns); got != 1 {
		t.Fatalf("segment 1 columns = %d, want 1", got)
	}
	if plan.Segments[1].Columns[0].Kind != KindArrayDataFile {
		t.Fatalf("segment 1 column kind = %d", plan.Segments[1].Columns[0].Kind)
	}
}

func TestCompileHeaderTermSourceAttachment(t *testing.T) {
	plan, err := CompileHeader([]string{"Source Name", "Term Source REF", "Protocol REF", "Term Source REF", "Term Accession Number"})
	if err != nil {
		t.Fatalf("CompileHeader: %v", err)
	}
	source := plan.Leading[0]
	if source.TermSource == nil {
		t.Fatal("source column missing nested term-source spec")
	}
	if source.TermSource.HasAccession {
		t.Fatal("source term source should not expect an accession cell")
	}
	protocol := plan.Segments[0].Protocol
	if protocol.TermSource == nil {
		t.Fatal("protocol column missing nested term-source spec")
	}
	if !protocol.TermSource.HasAccession {
		t.Fatal("protocol term source should consume an accession cell")
	}
}

func TestCompileHeaderAttributeAttachment(t *testing.T) {
	plan, err := CompileHeader([]string{
		"Source Name", "Characteristics [sex]", "Term Source REF",
		"Protocol REF", "Protocol Description",
	})
	if err != nil {
		t.Fatalf("CompileHeader: %v", err)
	}
	source := plan.Leading[0]
	if len(source.Attributes) != 1 {
		t.Fatalf("source attributes = %d, want 1", len(source.Attributes))
	}
	attr := source.Attributes[0]
	if attr.Name != "sex" {
		t.Fatalf("attribute name = %q, want sex", attr.Name)
	}
	// The Term Source REF follows the attribute, so it belongs to the
	// attribute, not to the source column.
	if attr.TermSource == nil {
		t.Fatal("attribute missing term-source spec")
	}
	if source.TermSource != nil {
		t.Fatal("term source wrongly attached to the source column")
	}
	if len(plan.Segments[0].Protocol.Attributes) != 1 {
		t.Fatalf("protocol attributes = %d, want 1", len(plan.Segments[0].Protocol.Attributes))
	}
}

func TestCompileHeaderSyntaxErrors(t *testing.T) {
	cases := []struct {
		name    string
		cells   []string
		heading string
		column  int
	}{
		{
			name:    "attribute with no owner",
			cells:   []string{"Weird Column", "Protocol REF"},
			heading: "Weird Column",
			column:  1,
		},
		{
			name:    "standalone accession heading",
			cells:   []string{"Protocol REF", "Term Accession Number"},
			heading: "Term Accession Number",
			column:  2,
		},
		{
			name:    "term source with no owner",
			cells:   []string{"Term Source REF", "Protocol REF"},
			heading: "Term Source REF",
			column:  1,
		},
		{
			name:    "malformed heading",
			cells:   []string{"Protocol REF", "Bad]Heading"},
			heading: "Bad]Heading",
			column:  2,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			plan, err := CompileHeader(tc.cells)
			if plan != nil {
				t.Fatal("partial plan returned on syntax error")
			}
			var synErr SyntaxError
			if !errors.As(err, &synErr) {
				t.Fatalf("error = %v, want SyntaxError", err)
			}
			if synErr.Heading != tc.heading || synErr.Column != tc.column {
				t.Fatalf("SyntaxError = %+v, want heading %q column %d", synErr, tc.heading, tc.column)
			}
		})
	}
}

func TestCompileHeaderRequiresProtocol(t *testing.T) {
	plan, err := CompileHeader([]string{"Source Name", "Sample Name"})
	if plan != nil {
		t.Fatal("plan returned for header without Protocol REF")
	}
	var synErr SyntaxError
	if !errors.As(err, &synErr) || !synErr.Missing {
		t.Fatalf("error = %v, want missing-heading SyntaxError", err)
	}
}
