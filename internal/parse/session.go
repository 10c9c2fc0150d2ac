package parse

import (
	"fmt"
	"io"
	"strings"

	"sdrfcore/pkg/sdrf"
)

// Logger is the minimal structured logging surface the session emits to.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

type sessionState int

const (
	stateAwaitingHeader sessionState = iota
	stateHeaderCompiled
	stateRowsAccumulating
	stateRowsComplete
	stateChainReconstructed
	stateReduced
	stateFailed
)

// Option configures a parse session.
type Option func(*Session)

// WithLogger routes session diagnostics (including unconsumed-cell warnings)
// to the supplied logger.
func WithLogger(l Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// Session drives one document through the parse state machine. The anonymous
// bridge registry and sequence counter live on the session's reconstructor,
// so documents parsed in separate sessions never interfere. Sessions are
// single-use and not safe for concurrent use.
type Session struct {
	logger   Logger
	state    sessionState
	plan     *DecodingPlan
	matrix   [][]*sdrf.AppliedProtocol
	rows     int
	warnings []UnconsumedCellsWarning
}

// NewSession constructs a fresh parse session.
func NewSession(opts ...Option) *Session {
	s := &Session{logger: noopLogger{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Warnings returns the non-fatal warnings accumulated by the last Parse.
func (s *Session) Warnings() []UnconsumedCellsWarning {
	return s.warnings
}

// Parse reads the document, compiles its header, decodes every data row, and
// reconciles the matrix into the final experiment. The first fatal error
// (unreadable input, unrecognized heading, short row) aborts the parse and
// discards all partial state; there is no partial-document result.
func (s *Session) Parse(r io.Reader) (*sdrf.Experiment, error) {
	if s.state != stateAwaitingHeader {
		return nil, fmt.Errorf("parse session already used")
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, s.fail(fmt.Errorf("read document: %w", err))
	}
	lines := strings.Split(normalizeDocument(data), "\n")

	for lineNo, line := range lines {
		if isSkippable(line) {
			continue
		}
		cells := splitCells(line)
		switch s.state {
		case stateAwaitingHeader:
			plan, err := CompileHeader(cells)
			if err != nil {
				return nil, s.fail(err)
			}
			s.plan = plan
			s.matrix = make([][]*sdrf.AppliedProtocol, len(plan.Segments))
			s.state = stateHeaderCompiled
			s.logger.Debug("header compiled", "segments", len(plan.Segments), "leading_columns", len(plan.Leading))
		default:
			s.state = stateRowsAccumulating
			aps, warn, err := DecodeRow(s.plan, cells, lineNo+1)
			if err != nil {
				return nil, s.fail(err)
			}
			if len(aps) != len(s.plan.Segments) {
				return nil, s.fail(RowShapeError{Line: lineNo + 1, Got: len(aps), Want: len(s.plan.Segments)})
			}
			if warn != nil {
				s.warnings = append(s.warnings, *warn)
				s.logger.Warn("row left cells unconsumed", "line", warn.Line, "cells", len(warn.Cells))
			}
			for i, ap := range aps {
				s.matrix[i] = append(s.matrix[i], ap)
			}
			s.rows++
		}
	}
	if s.state == stateAwaitingHeader {
		return nil, s.fail(SyntaxError{Heading: "Protocol REF", Missing: true})
	}

	s.state = stateRowsComplete
	rec := &reconstructor{}
	rec.connect(s.matrix)
	s.state = stateChainReconstructed
	experiment := reduceMatrix(s.matrix)
	s.state = stateReduced
	s.logger.Debug("parse complete",
		"rows", s.rows,
		"slots", len(experiment.Slots),
		"anonymous_data", rec.anonSeq,
	)
	return experiment, nil
}

// fail transitions to the terminal failed state, discarding partial results.
func (s *Session) fail(err error) error {
	s.state = stateFailed
	s.plan = nil
	s.matrix = nil
	s.logger.Error("parse failed", "error", err)
	return err
}
