// Package usbtransport is govuc's Linux usbfs implementation of the
// govuc.Transport/USBDevice/USBHandle surface: device enumeration via sysfs,
// descriptor parsing via the generic reflection-based reader in
// descriptor.go, and control/bulk transfers via usbfs ioctls.
package usbtransport

import (
	"fmt"
	"time"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/daedaluz/govuc"
	"github.com/daedaluz/govuc/usbfs"
)

// New returns the Linux usbfs Transport.
func New() govuc.Transport { return linuxTransport{} }

type linuxTransport struct{}

func (linuxTransport) EnumerateDevices() ([]govuc.USBDevice, error) {
	entries, err := enumerateSysfsDevices()
	if err != nil {
		return nil, err
	}
	out := make([]govuc.USBDevice, 0, len(entries))
	for _, e := range entries {
		out = append(out, &sysfsDevice{name: e.name, busNum: e.busNum, devNum: e.devNum})
	}
	return out, nil
}

// sysfsDevice is one enumerated, unopened device: govuc.USBDevice backed by
// sysfs's raw descriptor dump.
type sysfsDevice struct {
	name           string
	busNum, devNum int
}

func (d *sysfsDevice) BusNumber() int     { return d.busNum }
func (d *sysfsDevice) DeviceAddress() int { return d.devNum }

func (d *sysfsDevice) descriptors() ([]Descriptor, error) {
	raw, err := readRawDescriptors(d.name)
	if err != nil {
		return nil, err
	}
	return walkDescriptors(raw)
}

func (d *sysfsDevice) DeviceDescriptor() (govuc.DeviceDescriptor, error) {
	descs, err := d.descriptors()
	if err != nil {
		return govuc.DeviceDescriptor{}, err
	}
	for _, desc := range descs {
		if dd, ok := desc.(*DeviceDescriptor); ok {
			return toGovucDeviceDescriptor(dd), nil
		}
	}
	return govuc.DeviceDescriptor{}, fmt.Errorf("usbtransport: device %s has no device descriptor", d.name)
}

func (d *sysfsDevice) ConfigurationDescriptor() (govuc.ConfigurationDescriptor, error) {
	descs, err := d.descriptors()
	if err != nil {
		return govuc.ConfigurationDescriptor{}, err
	}
	return buildConfigurationTree(descs)
}

func (d *sysfsDevice) Open() (govuc.USBHandle, error) {
	dev := &Device{BusNumber: d.busNum, DeviceNumber: d.devNum, Name: d.name, fd: -1}
	if err := dev.Open(); err != nil {
		return nil, err
	}
	return &handle{dev: dev}, nil
}

// walkDescriptors splits raw (a sysfs "descriptors" dump: one device
// descriptor immediately followed by an entire configuration descriptor
// tree) into its individual descriptors, each parsed through ParseDescriptor
// so every descriptor — including the variable-length ones — is bounded to
// its own declared bLength and can never read into its neighbor.
func walkDescriptors(raw []byte) ([]Descriptor, error) {
	var out []Descriptor
	pos := 0
	for pos+2 <= len(raw) {
		length := int(raw[pos])
		if length < 2 || pos+length > len(raw) {
			break
		}
		desc, err := ParseDescriptor(raw[pos : pos+length])
		if err != nil {
			return nil, err
		}
		out = append(out, desc)
		pos += length
	}
	return out, nil
}

// buildConfigurationTree reassembles a flat descriptor list into the nested
// shape govuc's detector expects, routing every descriptor that isn't
// itself an Interface/Endpoint descriptor into the "extra" bytes of
// whichever interface (or the configuration, before the first interface)
// immediately precedes it — this is where an Interface Association
// Descriptor and UVC's class-specific VC_*/VS_* descriptors live.
func buildConfigurationTree(descs []Descriptor) (govuc.ConfigurationDescriptor, error) {
	var cfg *ConfigurationDescriptor
	var cfgExtra []byte
	var ifaces []govuc.InterfaceDescriptor
	var curIface *govuc.InterfaceDescriptor
	var curExtra []byte

	flush := func() {
		if curIface != nil {
			curIface.Extra = curExtra
			ifaces = append(ifaces, *curIface)
			curIface = nil
			curExtra = nil
		}
	}

	for _, desc := range descs {
		switch d := desc.(type) {
		case *DeviceDescriptor:
			continue
		case *ConfigurationDescriptor:
			if cfg == nil {
				cfg = d
			}
		case *InterfaceDescriptor:
			flush()
			curIface = &govuc.InterfaceDescriptor{
				Number:   d.BInterfaceNumber,
				Class:    uint8(d.BInterfaceClass),
				SubClass: uint8(d.BInterfaceSubClass),
				Protocol: d.BInterfaceProtocol,
			}
		case *EndpointDescriptor:
			if curIface != nil {
				curIface.Endpoints = append(curIface.Endpoints, govuc.EndpointDescriptor{
					Address:    d.BEndpointAddress,
					Attributes: d.BmAttributes,
				})
			}
		default:
			raw := rawBytesOf(desc)
			if curIface == nil {
				cfgExtra = append(cfgExtra, raw...)
			} else {
				curExtra = append(curExtra, raw...)
			}
		}
	}
	flush()

	if cfg == nil {
		return govuc.ConfigurationDescriptor{}, fmt.Errorf("usbtransport: descriptor tree has no configuration descriptor")
	}
	return govuc.ConfigurationDescriptor{Extra: cfgExtra, Interfaces: ifaces}, nil
}

// rawBytesOf reconstructs a descriptor's wire bytes (length, type, payload)
// from its parsed form, for the class-specific and vendor-specific
// descriptors govuc's detector re-parses itself out of "extra".
func rawBytesOf(desc Descriptor) []byte {
	unk, ok := desc.(*UnknownDescriptor)
	if !ok {
		return nil
	}
	out := make([]byte, 2, 2+len(unk.Data))
	out[0] = unk.Length
	out[1] = byte(unk.DescriptorType)
	return append(out, unk.Data...)
}

func toGovucDeviceDescriptor(d *DeviceDescriptor) govuc.DeviceDescriptor {
	return govuc.DeviceDescriptor{
		DeviceClass:       uint8(d.BDeviceClass),
		DeviceSubClass:    uint8(d.BDeviceSubClass),
		DeviceProtocol:    d.BDeviceProtocol,
		VendorID:          d.IDVendor,
		ProductID:         d.IDProduct,
		NumConfigurations: d.BNumConfigurations,
		ManufacturerIndex: d.IManufacturer,
		ProductIndex:      d.IProduct,
	}
}

// handle is an open device: govuc.USBHandle backed by a usbfs file
// descriptor.
type handle struct {
	dev        *Device
	autoDetach bool
}

func (h *handle) SetActiveConfiguration(config uint8) error {
	return h.dev.SetConfiguration(int(config))
}

func (h *handle) ClaimInterface(iface uint8) error {
	if h.autoDetach {
		if driver, err := h.dev.GetDriver(uint32(iface)); err == nil && driver != "" {
			_ = h.dev.DetachKernel(uint32(iface))
		}
	}
	return usbfs.ClaimInterface(h.dev.fd, int(iface))
}

func (h *handle) AutoDetachKernelDriver(enable bool) error {
	h.autoDetach = enable
	return nil
}

func (h *handle) ControlIn(reqType govuc.RequestType, request govuc.Request, value, index uint16, buf []byte, timeout time.Duration) (int, error) {
	return h.dev.CtrlTimeout(RequestType(uint8(reqType)), uint8(request), value, index, buf, timeoutMillis(timeout))
}

func (h *handle) ControlOut(reqType govuc.RequestType, request govuc.Request, value, index uint16, data []byte, timeout time.Duration) (int, error) {
	return h.dev.CtrlTimeout(RequestType(uint8(reqType)), uint8(request), value, index, data, timeoutMillis(timeout))
}

func (h *handle) BulkIn(endpoint uint8, buf []byte, timeout time.Duration) (int, error) {
	return h.dev.BulkTimeout(endpoint|0x80, buf, timeoutMillis(timeout))
}

// GetStringDescriptor reads string index in English (LANGID 0x0409) and
// decodes it from the UTF-16LE the USB string descriptor format mandates.
func (h *handle) GetStringDescriptor(index uint8) (string, error) {
	if index == 0 {
		return "", nil
	}
	raw, err := h.dev.GetDescriptor(DescriptorTypeString, index, 0x0409)
	if err != nil {
		return "", err
	}
	if len(raw) < 2 {
		return "", nil
	}
	body := raw[2:]
	units := make([]uint16, len(body)/2)
	for i := range units {
		units[i] = uint16(body[2*i]) | uint16(body[2*i+1])<<8
	}
	runes := utf16.Decode(units)
	buf := make([]byte, 0, len(runes)*3)
	for _, r := range runes {
		var enc [utf8.UTFMax]byte
		n := utf8.EncodeRune(enc[:], r)
		buf = append(buf, enc[:n]...)
	}
	return string(buf), nil
}

func (h *handle) Close() error {
	return h.dev.Close()
}

func timeoutMillis(d time.Duration) uint32 {
	ms := d.Milliseconds()
	if ms <= 0 {
		return 1000
	}
	return uint32(ms)
}
