package sdrf

import "fmt"

// DocumentSnapshot is the serializable form of an experiment graph. Shared
// Datum and Protocol instances are flattened into index-addressed arenas so
// that JSON persistence round-trips the reference sharing the reconstructor
// established (linked data, reused anonymous bridges).
type DocumentSnapshot struct {
	Protocols []ProtocolSnapshot         `json:"protocols"`
	Data      []DatumSnapshot            `json:"data"`
	Slots     [][]AppliedProtocolSnapshot `json:"slots"`
}

// ProtocolSnapshot is the arena entry for one protocol instance.
type ProtocolSnapshot struct {
	Name       string              `json:"name"`
	TermSource *DBXref             `json:"term_source,omitempty"`
	Attributes []AttributeSnapshot `json:"attributes,omitempty"`
}

// DatumSnapshot is the arena entry for one datum instance.
type DatumSnapshot struct {
	Heading    string              `json:"heading"`
	Name       string              `json:"name,omitempty"`
	Value      string              `json:"value,omitempty"`
	Type       *CVTerm             `json:"type,omitempty"`
	TermSource *DBXref             `json:"term_source,omitempty"`
	Attributes []AttributeSnapshot `json:"attributes,omitempty"`
	Anonymous  bool                `json:"anonymous,omitempty"`
}

// AttributeSnapshot serializes an attribute inline; attributes are exclusively
// owned and never shared, so they need no arena indirection.
type AttributeSnapshot struct {
	Heading    string              `json:"heading"`
	Name       string              `json:"name,omitempty"`
	Value      string              `json:"value,omitempty"`
	Type       *CVTerm             `json:"type,omitempty"`
	TermSource *DBXref             `json:"term_source,omitempty"`
	Attributes []AttributeSnapshot `json:"attributes,omitempty"`
}

// AppliedProtocolSnapshot references its protocol and data by arena index.
type AppliedProtocolSnapshot struct {
	Protocol int   `json:"protocol"`
	Inputs   []int `json:"inputs"`
	Outputs  []int `json:"outputs"`
}

// Snapshot flattens the experiment into its serializable form.
func (e *Experiment) Snapshot() DocumentSnapshot {
	enc := &snapshotEncoder{
		protocolIndex: make(map[*Protocol]int),
		datumIndex:    make(map[*Datum]int),
	}
	snap := DocumentSnapshot{Slots: make([][]AppliedProtocolSnapshot, len(e.Slots))}
	for i, slot := range e.Slots {
		snap.Slots[i] = make([]AppliedProtocolSnapshot, len(slot))
		for j, ap := range slot {
			snap.Slots[i][j] = AppliedProtocolSnapshot{
				Protocol: enc.protocol(&snap, ap.Protocol),
				Inputs:   enc.data(&snap, ap.Inputs),
				Outputs:  enc.data(&snap, ap.Outputs),
			}
		}
	}
	return snap
}

type snapshotEncoder struct {
	protocolIndex map[*Protocol]int
	datumIndex    map[*Datum]int
}

func (enc *snapshotEncoder) protocol(snap *DocumentSnapshot, p *Protocol) int {
	if idx, ok := enc.protocolIndex[p]; ok {
		return idx
	}
	idx := len(snap.Protocols)
	enc.protocolIndex[p] = idx
	snap.Protocols = append(snap.Protocols, ProtocolSnapshot{
		Name:       p.Name,
		TermSource: p.TermSource,
		Attributes: snapshotAttributes(p.Attributes),
	})
	return idx
}

func (enc *snapshotEncoder) data(snap *DocumentSnapshot, list []*Datum) []int {
	out := make([]int, len(list))
	for i, d := range list {
		idx, ok := enc.datumIndex[d]
		if !ok {
			idx = len(snap.Data)
			enc.datumIndex[d] = idx
			snap.Data = append(snap.Data, DatumSnapshot{
				Heading:    d.Heading,
				Name:       d.Name,
				Value:      d.Value,
				Type:       d.Type,
				TermSource: d.TermSource,
				Attributes: snapshotAttributes(d.Attributes),
				Anonymous:  d.anonymous,
			})
		}
		out[i] = idx
	}
	return out
}

func snapshotAttributes(attrs []*Attribute) []AttributeSnapshot {
	if len(attrs) == 0 {
		return nil
	}
	out := make([]AttributeSnapshot, len(attrs))
	for i, a := range attrs {
		out[i] = AttributeSnapshot{
			Heading:    a.Heading,
			Name:       a.Name,
			Value:      a.Value,
			Type:       a.Type,
			TermSource: a.TermSource,
			Attributes: snapshotAttributes(a.Attributes),
		}
	}
	return out
}

// Experiment rebuilds the graph from its serialized form, restoring instance
// sharing from the arena indices.
func (s DocumentSnapshot) Experiment() (*Experiment, error) {
	protocols := make([]*Protocol, len(s.Protocols))
	for i, ps := range s.Protocols {
		protocols[i] = &Protocol{
			Name:       ps.Name,
			TermSource: cloneXRef(ps.TermSource),
			Attributes: restoreAttributes(ps.Attributes),
		}
	}
	data := make([]*Datum, len(s.Data))
	for i, ds := range s.Data {
		data[i] = &Datum{
			Heading:    ds.Heading,
			Name:       ds.Name,
			Value:      ds.Value,
			Type:       cloneCVTerm(ds.Type),
			TermSource: cloneXRef(ds.TermSource),
			Attributes: restoreAttributes(ds.Attributes),
			anonymous:  ds.Anonymous,
		}
	}
	resolve := func(indices []int) ([]*Datum, error) {
		out := make([]*Datum, len(indices))
		for i, idx := range indices {
			if idx < 0 || idx >= len(data) {
				return nil, fmt.Errorf("datum index %d out of range", idx)
			}
			out[i] = data[idx]
		}
		return out, nil
	}
	e := &Experiment{Slots: make([][]*AppliedProtocol, len(s.Slots))}
	for i, slot := range s.Slots {
		e.Slots[i] = make([]*AppliedProtocol, len(slot))
		for j, aps := range slot {
			if aps.Protocol < 0 || aps.Protocol >= len(protocols) {
				return nil, fmt.Errorf("protocol index %d out of range", aps.Protocol)
			}
			inputs, err := resolve(aps.Inputs)
			if err != nil {
				return nil, err
			}
			outputs, err := resolve(aps.Outputs)
			if err != nil {
				return nil, err
			}
			e.Slots[i][j] = &AppliedProtocol{
				Protocol: protocols[aps.Protocol],
				Inputs:   inputs,
				Outputs:  outputs,
			}
		}
	}
	return e, nil
}

func restoreAttributes(attrs []AttributeSnapshot) []*Attribute {
	if len(attrs) == 0 {
		return nil
	}
	out := make([]*Attribute, len(attrs))
	for i, a := range attrs {
		out[i] = &Attribute{
			Heading:    a.Heading,
			Name:       a.Name,
			Value:      a.Value,
			Type:       cloneCVTerm(a.Type),
			TermSource: cloneXRef(a.TermSource),
			Attributes: restoreAttributes(a.Attributes),
		}
	}
	return out
}
