// Package core wires the parser, term-source validation, persistence, and
// document archival behind a single service facade.
package core

import (
	"sdrfcore/pkg/sdrf"
)

type (
	// Experiment aliases sdrf.Experiment for service-level operations.
	Experiment = sdrf.Experiment
	// Record aliases sdrf.Record.
	Record = sdrf.Record
	// Store aliases the persistence contract.
	Store = sdrf.Store
)
