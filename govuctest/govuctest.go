// Package govuctest is an in-memory fake of govuc's Transport/USBDevice/
// USBHandle surface, for exercising the core control and streaming logic
// without a real camera attached. It models each control as a small
// register file (Cur/Min/Max/Res/Def per selector+entity), the same
// GET_CUR/GET_MIN/.../SET_CUR vocabulary UVC 1.5 §4.2.1 defines, rather than
// wrapping a mocking library — none of the retrieved example repos import
// one, so a hand-rolled fake matches the corpus's own idiom.
package govuctest

import (
	"fmt"
	"time"

	"github.com/daedaluz/govuc"
)

// Device is a fake, unopened USB device: its descriptors are fixed at
// construction time, and Open returns a Handle that reads and writes this
// Device's Registers map directly, so every Handle opened from the same
// Device shares one register file.
type Device struct {
	Bus, Addr int
	Desc      govuc.DeviceDescriptor
	Config    govuc.ConfigurationDescriptor
	Strings   map[uint8]string

	// Registers seeds every Handle opened from this Device. Keys are
	// (selector, entityID) pairs; RegisterValues.Cur is mutated in place
	// by SET_CUR so repeated Opens see the last committed value.
	Registers map[RegisterKey]*RegisterValues

	// BulkData is returned, one BulkIn call's worth at a time, once a
	// stream is started against this device's streaming endpoint.
	BulkData []byte
}

// RegisterKey identifies one control: a class-specific selector scoped to
// the entity (unit or terminal ID) it addresses, or entity 0 for a
// streaming interface's own Probe/Commit controls.
type RegisterKey struct {
	Selector uint8
	EntityID uint8
}

// RegisterValues is one control's full GET vocabulary.
type RegisterValues struct {
	Cur  []byte
	Min  []byte
	Max  []byte
	Res  []byte
	Def  []byte
	Info uint8 // GET_INFO capability byte (bit 0 GET, bit 1 SET)
}

var _ govuc.Transport = (*Transport)(nil)
var _ govuc.USBDevice = (*Device)(nil)
var _ govuc.USBHandle = (*Handle)(nil)

// Transport is a fixed list of fake devices.
type Transport struct {
	Devices []*Device
}

func (t *Transport) EnumerateDevices() ([]govuc.USBDevice, error) {
	out := make([]govuc.USBDevice, len(t.Devices))
	for i, d := range t.Devices {
		out[i] = d
	}
	return out, nil
}

func (d *Device) BusNumber() int     { return d.Bus }
func (d *Device) DeviceAddress() int { return d.Addr }

func (d *Device) DeviceDescriptor() (govuc.DeviceDescriptor, error) { return d.Desc, nil }

func (d *Device) ConfigurationDescriptor() (govuc.ConfigurationDescriptor, error) {
	return d.Config, nil
}

func (d *Device) Open() (govuc.USBHandle, error) {
	return &Handle{dev: d}, nil
}

// Handle is a fake open device. Claimed interfaces and the auto-detach flag
// are recorded but otherwise inert — there is no kernel driver to detach.
type Handle struct {
	dev        *Device
	config     uint8
	claimed    map[uint8]bool
	autoDetach bool
	bulkPos    int
	closed     bool
}

func (h *Handle) SetActiveConfiguration(config uint8) error {
	h.config = config
	return nil
}

func (h *Handle) ClaimInterface(iface uint8) error {
	if h.claimed == nil {
		h.claimed = make(map[uint8]bool)
	}
	h.claimed[iface] = true
	return nil
}

func (h *Handle) AutoDetachKernelDriver(enable bool) error {
	h.autoDetach = enable
	return nil
}

func (h *Handle) ControlIn(reqType govuc.RequestType, request govuc.Request, value, index uint16, buf []byte, timeout time.Duration) (int, error) {
	key := RegisterKey{Selector: uint8(value >> 8), EntityID: uint8(index >> 8)}
	reg := h.dev.Registers[key]
	if reg == nil {
		return 0, fmt.Errorf("govuctest: no register for selector %#x entity %d", key.Selector, key.EntityID)
	}
	var data []byte
	switch request {
	case govuc.RequestGetCur:
		data = reg.Cur
	case govuc.RequestGetMin:
		data = reg.Min
	case govuc.RequestGetMax:
		data = reg.Max
	case govuc.RequestGetRes:
		data = reg.Res
	case govuc.RequestGetDef:
		data = reg.Def
	case govuc.RequestGetLen:
		n := copy(buf, []byte{byte(len(reg.Cur)), byte(len(reg.Cur) >> 8)})
		return n, nil
	case govuc.RequestGetInfo:
		if len(buf) > 0 {
			buf[0] = reg.Info
		}
		return 1, nil
	default:
		return 0, fmt.Errorf("govuctest: unsupported GET request %#x", uint8(request))
	}
	if data == nil {
		return 0, fmt.Errorf("govuctest: register %#x/%d has no value for request %#x", key.Selector, key.EntityID, uint8(request))
	}
	return copy(buf, data), nil
}

func (h *Handle) ControlOut(reqType govuc.RequestType, request govuc.Request, value, index uint16, data []byte, timeout time.Duration) (int, error) {
	if request != govuc.RequestSetCur {
		return 0, fmt.Errorf("govuctest: unsupported SET request %#x", uint8(request))
	}
	key := RegisterKey{Selector: uint8(value >> 8), EntityID: uint8(index >> 8)}
	reg := h.dev.Registers[key]
	if reg == nil {
		reg = &RegisterValues{}
		h.dev.Registers[key] = reg
	}
	reg.Cur = append([]byte(nil), data...)
	return len(data), nil
}

func (h *Handle) BulkIn(endpoint uint8, buf []byte, timeout time.Duration) (int, error) {
	remaining := h.dev.BulkData[h.bulkPos:]
	if len(remaining) == 0 {
		return 0, fmt.Errorf("govuctest: bulk stream exhausted")
	}
	n := copy(buf, remaining)
	h.bulkPos += n
	return n, nil
}

func (h *Handle) GetStringDescriptor(index uint8) (string, error) {
	if index == 0 {
		return "", nil
	}
	return h.dev.Strings[index], nil
}

func (h *Handle) Close() error {
	h.closed = true
	return nil
}
