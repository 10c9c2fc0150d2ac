package parse

import "fmt"

// SyntaxError reports a header cell the column grammar could not place. It is
// fatal: compilation aborts and no decoding plan is produced.
type SyntaxError struct {
	Heading string
	Column  int // 1-based header position
	Missing bool // a required heading is absent rather than malformed
}

func (e SyntaxError) Error() string {
	if e.Missing {
		return fmt.Sprintf("header is missing required %q column", e.Heading)
	}
	return fmt.Sprintf("unrecognized column heading %q at column %d", e.Heading, e.Column)
}

// RowShapeError reports a data row that decoded into fewer applied protocols
// than the plan has segments. It is fatal for the whole document.
type RowShapeError struct {
	Line int // 1-based line number in the document
	Got  int
	Want int
}

func (e RowShapeError) Error() string {
	return fmt.Sprintf("line %d decoded %d applied protocols, plan has %d segments", e.Line, e.Got, e.Want)
}

// UnconsumedCellsWarning records trailing row cells no decoder step consumed.
// The row is still accepted.
type UnconsumedCellsWarning struct {
	Line  int
	Cells []string
}

func (w UnconsumedCellsWarning) String() string {
	return fmt.Sprintf("line %d left %d cells unconsumed", w.Line, len(w.Cells))
}
