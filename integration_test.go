package govuc_test

import (
	"testing"

	"github.com/daedaluz/govuc"
	"github.com/daedaluz/govuc/govuctest"
	"github.com/daedaluz/govuc/topo"
)

// buildIAD encodes a minimal Interface Association Descriptor: a single
// interface (the control interface) belonging to the UVC function.
func buildIAD() []byte {
	return []byte{8, 11, 0, 1, 0x0E, 0x03, 0x00, 0}
}

// buildVCHeader encodes a VC_HEADER with no streaming interfaces declared
// (bInCollection=0): enough for ParseControlInterface, irrelevant to the
// control round-trip this test exercises.
func buildVCHeader() []byte {
	payload := []byte{
		0x50, 0x01, // bcdUVC 1.50
		0x00, 0x00, // wTotalLength, unused
		0x00, 0x6C, 0xDC, 0x02, // dwClockFrequency, 48MHz
		0x00, // bInCollection
	}
	return append([]byte{byte(3 + len(payload)), 0x24, 0x01}, payload...)
}

// buildInputTerminal encodes a VC_INPUT_TERMINAL (camera) with termID 1, no
// controls declared.
func buildInputTerminal() []byte {
	payload := []byte{
		1,          // bTerminalID
		0x01, 0x02, // wTerminalType = InputTerminalCamera (0x0201)
		0,          // bAssocTerminal
		0,          // iTerminal
		0x00, 0x00, // wObjectiveFocalLengthMin
		0x00, 0x00, // wObjectiveFocalLengthMax
		0x00, 0x00, // wOcularFocalLength
		3, 0x00, 0x00, 0x00, // bControlSize + bmControls
	}
	return append([]byte{byte(3 + len(payload)), 0x24, 0x02}, payload...)
}

// buildProcessingUnit encodes a VC_PROCESSING_UNIT: unit 2, sourced from
// terminal 1, with the Brightness control declared.
func buildProcessingUnit() []byte {
	payload := []byte{
		2,          // bUnitID
		1,          // bSourceID
		0x00, 0x00, // wMaxMultiplier
		3, 0x01, 0x00, 0x00, // bControlSize + bmControls (bit0 = Brightness)
		0, // iProcessing
	}
	return append([]byte{byte(3 + len(payload)), 0x24, 0x05}, payload...)
}

func fakeUVCDevice() *govuctest.Device {
	var controlExtra []byte
	controlExtra = append(controlExtra, buildVCHeader()...)
	controlExtra = append(controlExtra, buildInputTerminal()...)
	controlExtra = append(controlExtra, buildProcessingUnit()...)

	return &govuctest.Device{
		Bus: 1, Addr: 2,
		Desc: govuc.DeviceDescriptor{
			DeviceClass: 0xEF, DeviceSubClass: 0x02, DeviceProtocol: 0x01,
			NumConfigurations: 1,
			ManufacturerIndex: 1, ProductIndex: 2,
		},
		Config: govuc.ConfigurationDescriptor{
			Extra: buildIAD(),
			Interfaces: []govuc.InterfaceDescriptor{
				{Number: 0, Class: 0x0E, SubClass: 1, Extra: controlExtra},
			},
		},
		Strings: map[uint8]string{1: "Acme", 2: "Webcam 9000"},
		Registers: map[govuctest.RegisterKey]*govuctest.RegisterValues{
			{Selector: 0x02, EntityID: 2}: {Cur: []byte{0x2C, 0x01}}, // 300
		},
	}
}

func TestListDevicesDetectsUVCDevice(t *testing.T) {
	transport := &govuctest.Transport{Devices: []*govuctest.Device{fakeUVCDevice()}}
	devices, err := govuc.ListDevices(transport)
	if err != nil {
		t.Fatalf("ListDevices: %v", err)
	}
	if len(devices) != 1 {
		t.Fatalf("got %d devices, want 1", len(devices))
	}
	topology := devices[0].Topology()
	if len(topology.Units) != 1 {
		t.Fatalf("got %d units, want 1", len(topology.Units))
	}
	if _, ok := topology.Units[0].Kind.(topo.ProcessingUnitKind); !ok {
		t.Fatalf("unit kind = %T, want ProcessingUnitKind", topology.Units[0].Kind)
	}
}

func TestListDevicesSkipsNonUVCDevice(t *testing.T) {
	dev := fakeUVCDevice()
	dev.Desc.DeviceClass = 0x00 // no longer identifies as a UVC device
	transport := &govuctest.Transport{Devices: []*govuctest.Device{dev}}
	devices, err := govuc.ListDevices(transport)
	if err != nil {
		t.Fatalf("ListDevices: %v", err)
	}
	if len(devices) != 0 {
		t.Fatalf("got %d devices, want 0", len(devices))
	}
}

func TestBrightnessRoundTrip(t *testing.T) {
	transport := &govuctest.Transport{Devices: []*govuctest.Device{fakeUVCDevice()}}
	devices, err := govuc.ListDevices(transport)
	if err != nil {
		t.Fatalf("ListDevices: %v", err)
	}
	var unitID topo.ProcessingUnitID
	for _, u := range devices[0].Topology().Units {
		if pu, ok := u.Kind.(topo.ProcessingUnitKind); ok {
			unitID = pu.ID
		}
	}

	dev, err := devices[0].Open()
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer dev.Close()

	unit, err := dev.ProcessingUnit(unitID)
	if err != nil {
		t.Fatalf("ProcessingUnit: %v", err)
	}
	got, err := unit.Brightness()
	if err != nil {
		t.Fatalf("Brightness: %v", err)
	}
	if got != 300 {
		t.Fatalf("Brightness = %d, want 300", got)
	}
	if err := unit.SetBrightness(150); err != nil {
		t.Fatalf("SetBrightness: %v", err)
	}
	got, err = unit.Brightness()
	if err != nil {
		t.Fatalf("Brightness after set: %v", err)
	}
	if got != 150 {
		t.Fatalf("Brightness after set = %d, want 150", got)
	}
}

func TestReadManufacturerAndProductStrings(t *testing.T) {
	transport := &govuctest.Transport{Devices: []*govuctest.Device{fakeUVCDevice()}}
	devices, err := govuc.ListDevices(transport)
	if err != nil {
		t.Fatalf("ListDevices: %v", err)
	}
	dev, err := devices[0].Open()
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer dev.Close()

	manufacturer, err := dev.ReadManufacturerString()
	if err != nil {
		t.Fatalf("ReadManufacturerString: %v", err)
	}
	if manufacturer != "Acme" {
		t.Fatalf("manufacturer = %q, want %q", manufacturer, "Acme")
	}
	product, err := dev.ReadProductString()
	if err != nil {
		t.Fatalf("ReadProductString: %v", err)
	}
	if product != "Webcam 9000" {
		t.Fatalf("product = %q, want %q", product, "Webcam 9000")
	}
}
