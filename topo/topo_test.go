package topo

import "testing"

func TestValidateRejectsDuplicateID(t *testing.T) {
	pu, _ := NewProcessingUnitID(1)
	top := &Topology{
		Inputs: []InputTerminalDesc{{TermID: 1, Kind: InputTerminalOtherKind{}}},
		Units:  []UnitDesc{{Kind: ProcessingUnitKind{ProcessingUnitDesc{ID: pu, Source: 1}}}},
	}
	if err := top.Validate(); err == nil {
		t.Fatal("Validate() = nil, want error for terminal id 1 reused as unit id 1")
	}
}

func TestValidateRejectsDanglingSource(t *testing.T) {
	pu, _ := NewProcessingUnitID(2)
	top := &Topology{
		Inputs: []InputTerminalDesc{{TermID: 1, Kind: InputTerminalOtherKind{}}},
		Units:  []UnitDesc{{Kind: ProcessingUnitKind{ProcessingUnitDesc{ID: pu, Source: 9}}}},
	}
	if err := top.Validate(); err == nil {
		t.Fatal("Validate() = nil, want error for source id 9 with no matching terminal or unit")
	}
}

func TestValidateAcceptsWellFormedTopology(t *testing.T) {
	pu, _ := NewProcessingUnitID(2)
	su, _ := NewSelectorUnitID(3)
	top := &Topology{
		Inputs: []InputTerminalDesc{{TermID: 1, Kind: InputTerminalOtherKind{}}},
		Units: []UnitDesc{
			{Kind: ProcessingUnitKind{ProcessingUnitDesc{ID: pu, Source: 1}}},
			{Kind: SelectorUnitKind{SelectorUnitDesc{ID: su, Inputs: []SourceID{2}}}},
		},
		Outputs: []OutputTerminalDesc{{TermID: 4, Source: 3}},
	}
	if err := top.Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}
}
