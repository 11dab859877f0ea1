package govuc

import (
	"fmt"

	"github.com/daedaluz/govuc/topo"
)

// ExtensionUnit is the raw control accessor for an Extension Unit. Its
// controls are vendor-defined (only ControlsBitmap's length and set bits
// are known from the descriptor), so unlike CameraTerminal/ProcessingUnit
// there are no typed accessors — just ReadRaw/SetRaw against a selector a
// caller already knows the layout of for this unit's ExtensionCode.
type ExtensionUnit struct {
	dev  *Device
	id   topo.ExtensionUnitID
	desc *topo.ExtensionUnitDesc
}

// ExtensionUnit validates id against the device's topology and returns an
// accessor for it.
func (d *Device) ExtensionUnit(id topo.ExtensionUnitID) (*ExtensionUnit, error) {
	desc, ok := d.info.control.topo.ExtensionUnitByID(id)
	if !ok {
		return nil, fmt.Errorf("govuc: %v is not an extension unit in this device's topology", id)
	}
	return &ExtensionUnit{dev: d, id: id, desc: desc}, nil
}

// ExtensionCode returns the unit's 16-byte GUID, used to identify which
// vendor protocol its controls implement.
func (e *ExtensionUnit) ExtensionCode() [16]byte { return [16]byte(e.desc.ExtensionCode) }

// ReadRaw performs request against selector and returns the bytes the
// device wrote into buf (truncated to however many bytes it actually
// returned, per GET_LEN/short-read semantics).
func (e *ExtensionUnit) ReadRaw(request Request, selector uint8, buf []byte) ([]byte, error) {
	n, err := e.dev.ctrlIn(request, selector, uint8(e.id.UnitID()), buf, ActionReadingControl)
	if err != nil {
		return nil, err
	}
	return buf[:n], nil
}

// SetRaw issues SET_CUR against selector with data as-is.
func (e *ExtensionUnit) SetRaw(selector uint8, data []byte) error {
	return e.dev.ctrlOut(RequestSetCur, selector, uint8(e.id.UnitID()), data, ActionWritingControl)
}
