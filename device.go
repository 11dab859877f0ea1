package govuc

import (
	"fmt"
	"time"

	"github.com/daedaluz/govuc/topo"
)

// DefaultTimeout is the control/bulk transfer timeout Open puts in a new
// Device's Timeout field.
const DefaultTimeout = 1000 * time.Millisecond

// DeviceDesc is an enumerated, unopened UVC device.
type DeviceDesc struct {
	usb    USBDevice
	info   *uvcInfo
	device DeviceDescriptor
}

// BusNumber and DeviceAddress identify the underlying USB device, useful
// for logging or for a caller picking among several enumerated cameras.
func (d *DeviceDesc) BusNumber() int     { return d.usb.BusNumber() }
func (d *DeviceDesc) DeviceAddress() int { return d.usb.DeviceAddress() }

// Topology returns the device's parsed Video Control topology without
// opening it.
func (d *DeviceDesc) Topology() *topo.Topology { return d.info.control.topo }

// ListDevices enumerates every device on the transport and returns the
// subset that identify themselves as UVC devices (IAD-based detection,
// single configuration, an intact VC_HEADER).
func ListDevices(t Transport) ([]DeviceDesc, error) {
	devices, err := t.EnumerateDevices()
	if err != nil {
		return nil, during(err, ActionEnumeratingDevices, KindTransport)
	}
	var out []DeviceDesc
	for _, usbDev := range devices {
		info, err := detectUVC(usbDev)
		if err != nil {
			return nil, err
		}
		if info == nil {
			continue
		}
		devDesc, err := usbDev.DeviceDescriptor()
		if err != nil {
			return nil, during(err, ActionAccessingDeviceDescriptor, KindTransport)
		}
		out = append(out, DeviceDesc{usb: usbDev, info: info, device: devDesc})
	}
	return out, nil
}

// Device is an open UVC device. A Device is not safe for concurrent use:
// callers must serialize every control and bulk transfer themselves, the
// same way the teacher's own Device assumes single-threaded access to its
// usbfs file descriptor.
type Device struct {
	handle USBHandle
	info   *uvcInfo
	device DeviceDescriptor

	// Timeout bounds every control and bulk transfer. Open sets it to
	// DefaultTimeout; each transfer reads it when issued, so a change takes
	// effect from the next transfer on (mirrors the teacher's
	// per-call timeout parameter, just defaulted once instead of passed
	// at every call site).
	Timeout time.Duration

	state streamState
}

// Open claims the device's Video Control and Video Streaming interfaces and
// returns a live Device. It best-effort detaches a kernel driver already
// bound to those interfaces (a webcam is commonly claimed by a V4L2 driver)
// and enforces configuration 1, mirroring the teacher's DetachKernel +
// SetConfiguration sequence in device_std.go/device.go.
func (d *DeviceDesc) Open() (*Device, error) {
	handle, err := d.usb.Open()
	if err != nil {
		return nil, during(err, ActionOpeningDevice, KindTransport)
	}
	if err := handle.SetActiveConfiguration(1); err != nil {
		handle.Close()
		return nil, during(err, ActionOpeningDevice, KindTransport)
	}
	if err := handle.AutoDetachKernelDriver(true); err != nil {
		handle.Close()
		return nil, during(err, ActionOpeningDevice, KindTransport)
	}
	if err := handle.ClaimInterface(d.info.control.interfaceNumber); err != nil {
		handle.Close()
		return nil, during(err, ActionOpeningDevice, KindTransport)
	}
	for _, s := range d.info.streaming {
		if err := handle.ClaimInterface(uint8(s.ID)); err != nil {
			handle.Close()
			return nil, during(err, ActionOpeningDevice, KindTransport)
		}
	}
	return &Device{handle: handle, info: d.info, device: d.device, Timeout: DefaultTimeout, state: streamStateIdle}, nil
}

// Close releases the underlying USB handle. The Device must not be used
// afterwards.
func (d *Device) Close() error {
	return d.handle.Close()
}

// Topology returns the device's parsed Video Control topology.
func (d *Device) Topology() *topo.Topology { return d.info.control.topo }

// StreamingInterfaces returns the device's parsed Video Streaming
// interfaces.
func (d *Device) StreamingInterfaces() []*topo.StreamingInterfaceDesc { return d.info.streaming }

// StreamingInterfaceByID finds a streaming interface by its USB interface
// number.
func (d *Device) StreamingInterfaceByID(id topo.StreamingInterfaceID) (*topo.StreamingInterfaceDesc, bool) {
	for _, s := range d.info.streaming {
		if s.ID == id {
			return s, true
		}
	}
	return nil, false
}

// retryTimeout is the number of times a failed transfer is retried. The
// Transport does not report a timeout as a distinct error, so any failure,
// a timeout included, gets the retry. A single retry masks a documented
// first-transfer hiccup some UVC devices exhibit right after being
// claimed; a second failure is reported.
const retryTimeout = 1

// ctrlIn performs a class-interface control IN transfer against entityID
// (wIndex's high byte) on the control interface (wIndex's low byte),
// retrying once on failure.
func (d *Device) ctrlIn(request Request, selector uint8, entityID uint8, buf []byte, action Action) (int, error) {
	value := uint16(selector) << 8
	index := uint16(entityID)<<8 | uint16(d.info.control.interfaceNumber)
	var lastErr error
	for attempt := 0; attempt <= retryTimeout; attempt++ {
		n, err := d.handle.ControlIn(reqTypeGet, request, value, index, buf, d.Timeout)
		if err == nil {
			return n, nil
		}
		lastErr = err
	}
	return 0, during(lastErr, action, KindTransport)
}

// ctrlOut performs a class-interface control OUT transfer, retrying once on
// failure.
func (d *Device) ctrlOut(request Request, selector uint8, entityID uint8, data []byte, action Action) error {
	value := uint16(selector) << 8
	index := uint16(entityID)<<8 | uint16(d.info.control.interfaceNumber)
	var lastErr error
	for attempt := 0; attempt <= retryTimeout; attempt++ {
		n, err := d.handle.ControlOut(reqTypeSet, request, value, index, data, d.Timeout)
		if err == nil {
			if n != len(data) {
				return during(fmt.Errorf("control write only wrote %d/%d bytes", n, len(data)), action, KindTransport)
			}
			return nil
		}
		lastErr = err
	}
	return during(lastErr, action, KindTransport)
}

// streamCtrlIn/streamCtrlOut address the streaming interface itself
// (entity_id 0) rather than a topology entity, used by Probe/Commit.
func (d *Device) streamCtrlIn(ifaceNumber uint8, request Request, selector uint8, buf []byte, action Action) (int, error) {
	value := uint16(selector) << 8
	index := uint16(ifaceNumber)
	var lastErr error
	for attempt := 0; attempt <= retryTimeout; attempt++ {
		n, err := d.handle.ControlIn(reqTypeGet, request, value, index, buf, d.Timeout)
		if err == nil {
			return n, nil
		}
		lastErr = err
	}
	return 0, during(lastErr, action, KindTransport)
}

func (d *Device) streamCtrlOut(ifaceNumber uint8, request Request, selector uint8, data []byte, action Action) error {
	value := uint16(selector) << 8
	index := uint16(ifaceNumber)
	var lastErr error
	for attempt := 0; attempt <= retryTimeout; attempt++ {
		n, err := d.handle.ControlOut(reqTypeSet, request, value, index, data, d.Timeout)
		if err == nil {
			if n != len(data) {
				return during(fmt.Errorf("control write only wrote %d/%d bytes", n, len(data)), action, KindTransport)
			}
			return nil
		}
		lastErr = err
	}
	return during(lastErr, action, KindTransport)
}

// ReadManufacturerString and ReadProductString read the device's
// iManufacturer/iProduct string descriptors, in the teacher's
// GetStringDescriptor idiom (device_std.go), through the Transport.
func (d *Device) ReadManufacturerString() (string, error) {
	s, err := d.handle.GetStringDescriptor(d.device.ManufacturerIndex)
	if err != nil {
		return "", during(err, ActionReadingDeviceString, KindTransport)
	}
	return s, nil
}

// ReadProductString reads the device's iProduct string descriptor.
func (d *Device) ReadProductString() (string, error) {
	s, err := d.handle.GetStringDescriptor(d.device.ProductIndex)
	if err != nil {
		return "", during(err, ActionReadingDeviceString, KindTransport)
	}
	return s, nil
}
