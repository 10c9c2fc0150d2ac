package sdrf

import (
	"encoding/json"
	"testing"
)

func TestSnapshotRoundTrip(t *testing.T) {
	original := buildLinkedExperiment()
	snap := original.Snapshot()

	data, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("marshal snapshot: %v", err)
	}
	var decoded DocumentSnapshot
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal snapshot: %v", err)
	}
	restored, err := decoded.Experiment()
	if err != nil {
		t.Fatalf("rebuild experiment: %v", err)
	}

	if len(restored.Slots) != len(original.Slots) {
		t.Fatalf("slots = %d, want %d", len(restored.Slots), len(original.Slots))
	}
	for i := range original.Slots {
		for j := range original.Slots[i] {
			if !original.Slots[i][j].Equivalent(restored.Slots[i][j]) {
				t.Fatalf("slot[%d][%d] not equivalent after round trip", i, j)
			}
		}
	}
}

func TestSnapshotRestoresSharing(t *testing.T) {
	snap := buildLinkedExperiment().Snapshot()
	// Three distinct data (S1, shared E1, d.cel); the shared datum must
	// occupy a single arena slot.
	if len(snap.Data) != 3 {
		t.Fatalf("arena size = %d, want 3", len(snap.Data))
	}
	restored, err := snap.Experiment()
	if err != nil {
		t.Fatalf("rebuild experiment: %v", err)
	}
	if restored.Slots[0][0].Outputs[0] != restored.Slots[1][0].Inputs[0] {
		t.Fatal("arena indices did not restore instance sharing")
	}
}

func TestSnapshotPreservesAnonymousData(t *testing.T) {
	anon := NewAnonymousDatum(0)
	e := &Experiment{Slots: [][]*AppliedProtocol{
		{{Protocol: &Protocol{Name: "grow"}, Outputs: []*Datum{anon}}},
		{{Protocol: &Protocol{Name: "extract"}, Inputs: []*Datum{anon}}},
	}}
	restored, err := e.Snapshot().Experiment()
	if err != nil {
		t.Fatalf("rebuild experiment: %v", err)
	}
	got := restored.Slots[0][0].Outputs[0]
	if !got.Anonymous() || got.Heading != "Anonymous Datum #0" {
		t.Fatalf("restored anonymous datum = %+v", got)
	}
	if got != restored.Slots[1][0].Inputs[0] {
		t.Fatal("anonymous bridge no longer shared after round trip")
	}
}

func TestSnapshotRejectsCorruptIndices(t *testing.T) {
	snap := DocumentSnapshot{
		Protocols: []ProtocolSnapshot{{Name: "p"}},
		Slots: [][]AppliedProtocolSnapshot{{
			{Protocol: 0, Inputs: []int{5}},
		}},
	}
	if _, err := snap.Experiment(); err == nil {
		t.Fatal("out-of-range datum index accepted")
	}
	snap = DocumentSnapshot{Slots: [][]AppliedProtocolSnapshot{{{Protocol: 2}}}}
	if _, err := snap.Experiment(); err == nil {
		t.Fatal("out-of-range protocol index accepted")
	}
}
