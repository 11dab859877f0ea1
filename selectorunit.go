package govuc

import (
	"fmt"

	"github.com/daedaluz/govuc/control"
	"github.com/daedaluz/govuc/topo"
)

// Selector Unit control selector (UVC 1.5 §A.9.3): a Selector Unit only
// ever has one standard control.
const suInputSelect uint8 = 0x01

// SelectorUnit is the typed control accessor for a Selector Unit. Get one
// with Device.SelectorUnit.
type SelectorUnit struct {
	dev  *Device
	id   topo.SelectorUnitID
	desc *topo.SelectorUnitDesc
}

// SelectorUnit validates id against the device's topology and returns an
// accessor for it.
func (d *Device) SelectorUnit(id topo.SelectorUnitID) (*SelectorUnit, error) {
	desc, ok := d.info.control.topo.SelectorUnitByID(id)
	if !ok {
		return nil, fmt.Errorf("govuc: %v is not a selector unit in this device's topology", id)
	}
	return &SelectorUnit{dev: d, id: id, desc: desc}, nil
}

// Inputs lists the SourceIDs the selector unit can switch between, in the
// order baSourceID declared them (1-indexed: SelectorValue 1 selects
// Inputs()[0]).
func (s *SelectorUnit) Inputs() []topo.SourceID { return s.desc.Inputs }

// SelectorValue reads which input is currently selected (1-indexed).
func (s *SelectorUnit) SelectorValue() (uint8, error) {
	buf := make([]byte, control.U8.Size)
	_, err := s.dev.ctrlIn(RequestGetCur, suInputSelect, uint8(s.id.UnitID()), buf, ActionReadingControl)
	if err != nil {
		return 0, err
	}
	return control.U8.Decode(buf), nil
}

// SetSelectorValue switches the unit's active input (1-indexed, matching
// Inputs()).
func (s *SelectorUnit) SetSelectorValue(v uint8) error {
	buf := make([]byte, control.U8.Size)
	control.U8.Encode(v, buf)
	return s.dev.ctrlOut(RequestSetCur, suInputSelect, uint8(s.id.UnitID()), buf, ActionWritingControl)
}
