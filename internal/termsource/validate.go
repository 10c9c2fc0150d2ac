package termsource

import (
	"context"

	"sdrfcore/pkg/sdrf"
)

// Failure records one term-source reference that did not validate.
type Failure struct {
	Vocabulary string
	Term       string
	Accession  string
	Reason     string
}

// Report summarizes a validation pass over an experiment graph.
type Report struct {
	Checked  int
	Resolved int
	Failures []Failure
}

// Valid reports whether every checked reference resolved.
func (r Report) Valid() bool { return len(r.Failures) == 0 }

// Validator walks a parsed experiment, resolves every term-source reference
// through the resolver, and fills missing accessions in place. Validation
// runs after parsing completes and never alters graph structure; only
// accession fields are written.
type Validator struct {
	resolver Resolver
	catalog  *Catalog
}

// NewValidator builds a validator. A non-nil catalog restricts references to
// declared vocabularies; without one, any vocabulary the resolver knows is
// accepted.
func NewValidator(resolver Resolver, catalog *Catalog) *Validator {
	return &Validator{resolver: resolver, catalog: catalog}
}

// ValidateExperiment traverses every term-source reference in pipeline order.
// Failures accumulate in the report rather than aborting, so one bad
// reference does not hide the rest.
func (v *Validator) ValidateExperiment(ctx context.Context, e *sdrf.Experiment) (Report, error) {
	var report Report
	err := e.EachXRef(func(visit sdrf.XRefVisit) error {
		report.Checked++
		xref := visit.XRef
		if v.catalog != nil {
			if _, ok := v.catalog.Lookup(xref.DB); !ok {
				report.Failures = append(report.Failures, Failure{
					Vocabulary: xref.DB,
					Term:       visit.OwnerValue,
					Reason:     "vocabulary not declared in catalog",
				})
				return nil
			}
		}
		term, accession, err := v.resolver.Resolve(ctx, xref.DB, visit.OwnerValue, xref.Accession)
		if err != nil {
			report.Failures = append(report.Failures, Failure{
				Vocabulary: xref.DB,
				Term:       visit.OwnerValue,
				Accession:  xref.Accession,
				Reason:     err.Error(),
			})
			return nil
		}
		if !v.resolver.IsValidTerm(ctx, xref.DB, term) {
			report.Failures = append(report.Failures, Failure{
				Vocabulary: xref.DB,
				Term:       term,
				Accession:  accession,
				Reason:     "resolver rejected term",
			})
			return nil
		}
		xref.Accession = accession
		report.Resolved++
		return nil
	})
	if err != nil {
		return Report{}, err
	}
	return report, nil
}
