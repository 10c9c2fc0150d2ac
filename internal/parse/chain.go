package parse

import "sdrfcore/pkg/sdrf"

// bridge records one synthesized anonymous datum together with the applied
// protocol it was created for. The registry is session-scoped: a fresh parse
// starts with no bridges and a zero sequence counter.
type bridge struct {
	source *sdrf.AppliedProtocol
	anon   *sdrf.Datum
}

// reconstructor stitches the segment×row matrix of applied protocols into the
// reconciled experiment graph: explicit linking, anonymous bridging, then
// per-slot reduction.
type reconstructor struct {
	anonSeq int
	bridges []*bridge
}

// connect runs explicit linking followed by anonymous bridging over the
// complete matrix (indexed [segment][row]).
func (r *reconstructor) connect(matrix [][]*sdrf.AppliedProtocol) {
	r.link(matrix)
	r.bridgeGaps(matrix)
}

// reduceMatrix wraps the connected matrix as the final experiment, reducing
// each slot independently.
func reduceMatrix(matrix [][]*sdrf.AppliedProtocol) *sdrf.Experiment {
	e := &sdrf.Experiment{Slots: make([][]*sdrf.AppliedProtocol, len(matrix))}
	for i, slot := range matrix {
		e.Slots[i] = reduceSlot(slot)
	}
	return e
}

// link appends, for every adjacent segment pair and row, each output datum of
// the earlier stage to the input list of the later one. Appending the datum
// instance itself (not a copy) keeps later term-source fill-in visible from
// both sides.
func (r *reconstructor) link(matrix [][]*sdrf.AppliedProtocol) {
	for i := 0; i+1 < len(matrix); i++ {
		for j := range matrix[i] {
			cur, next := matrix[i][j], matrix[i+1][j]
			next.Inputs = append(next.Inputs, cur.Outputs...)
		}
	}
}

// bridgeGaps guarantees every non-final applied protocol has at least one
// output. A stage with none gets an anonymous datum wired as its output and
// as the next stage's input; stages that look identical (same protocol, same
// inputs, same other outputs) share one anonymous datum rather than each
// minting a spurious distinct intermediate.
func (r *reconstructor) bridgeGaps(matrix [][]*sdrf.AppliedProtocol) {
	for i := 0; i+1 < len(matrix); i++ {
		for j := range matrix[i] {
			cur := matrix[i][j]
			if len(cur.Outputs) > 0 {
				continue
			}
			anon := r.bridgeFor(cur)
			cur.Outputs = append(cur.Outputs, anon)
			matrix[i+1][j].Inputs = append(matrix[i+1][j].Inputs, anon)
		}
	}
}

func (r *reconstructor) bridgeFor(ap *sdrf.AppliedProtocol) *sdrf.Datum {
	for _, b := range r.bridges {
		if !b.source.Protocol.Equivalent(ap.Protocol) {
			continue
		}
		if !datumSetEquivalent(b.source.Inputs, ap.Inputs, nil) {
			continue
		}
		if !datumSetEquivalent(b.source.Outputs, ap.Outputs, b.anon) {
			continue
		}
		return b.anon
	}
	anon := sdrf.NewAnonymousDatum(r.anonSeq)
	r.anonSeq++
	r.bridges = append(r.bridges, &bridge{source: ap, anon: anon})
	return anon
}

// datumSetEquivalent compares two datum lists as order-independent multisets
// under structural equality, skipping the excluded instance (a bridge's own
// anonymous datum) on the first side.
func datumSetEquivalent(a, b []*sdrf.Datum, exclude *sdrf.Datum) bool {
	filtered := make([]*sdrf.Datum, 0, len(a))
	for _, d := range a {
		if d == exclude {
			continue
		}
		filtered = append(filtered, d)
	}
	if len(filtered) != len(b) {
		return false
	}
	used := make([]bool, len(b))
	for _, d := range filtered {
		matched := false
		for k, other := range b {
			if used[k] || !d.Equivalent(other) {
				continue
			}
			used[k] = true
			matched = true
			break
		}
		if !matched {
			return false
		}
	}
	return true
}

// reduceSlot retains the first applied protocol of each equivalence class,
// preserving row order. Equivalence is deep value equality of protocol plus
// the full ordered input and output lists; later duplicates are discarded,
// not merged.
func reduceSlot(slot []*sdrf.AppliedProtocol) []*sdrf.AppliedProtocol {
	out := make([]*sdrf.AppliedProtocol, 0, len(slot))
	for _, ap := range slot {
		duplicate := false
		for _, kept := range out {
			if kept.Equivalent(ap) {
				duplicate = true
				break
			}
		}
		if !duplicate {
			out = append(out, ap)
		}
	}
	return out
}
