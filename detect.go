package govuc

import (
	"fmt"
	"log"

	"github.com/daedaluz/govuc/topo"
	"github.com/daedaluz/govuc/topo/parse"
)

// UVC devices identify themselves with an Interface Association Descriptor
// (IAD) and the corresponding miscellaneous device class (UVC 1.5 §3.3).
const (
	iadDeviceClass    = 0xEF
	iadDeviceSubClass = 0x02
	iadDeviceProtocol = 0x01

	uvcIADClass    = 0x0E
	uvcIADSubClass = 0x03
	uvcIADProtocol = 0x00

	uvcInterfaceClass          = 0x0E
	uvcInterfaceSubclassControl   = 1
	uvcInterfaceSubclassStreaming = 2

	descriptorTypeIAD = 11
)

type interfaceAssociationDescriptor struct {
	firstInterface  uint8
	interfaceCount  uint8
	functionClass   uint8
	functionSubClass uint8
	functionProtocol uint8
}

// controlInterfaceInfo is everything detectUVC extracts about the Video
// Control interface: its topology plus the bits device.go needs to open it.
type controlInterfaceInfo struct {
	interfaceNumber   uint8
	controlInterruptEP *uint8
	topo              *topo.Topology
}

type uvcInfo struct {
	control    controlInterfaceInfo
	streaming  []*topo.StreamingInterfaceDesc
}

// detectUVC inspects a USBDevice's descriptors for UVC's IAD signature. It
// returns (nil, nil) for any device that is not a UVC device at all, and an
// error only for a device that claims to be one but has a descriptor tree
// govuc cannot make sense of.
func detectUVC(dev USBDevice) (*uvcInfo, error) {
	devDesc, err := dev.DeviceDescriptor()
	if err != nil {
		return nil, during(err, ActionAccessingDeviceDescriptor, KindTransport)
	}

	if devDesc.DeviceClass != iadDeviceClass || devDesc.DeviceSubClass != iadDeviceSubClass || devDesc.DeviceProtocol != iadDeviceProtocol {
		return nil, nil
	}
	if devDesc.NumConfigurations != 1 {
		log.Printf("govuc: device has %d configurations, only single-configuration devices are supported", devDesc.NumConfigurations)
		return nil, nil
	}

	cfgDesc, err := dev.ConfigurationDescriptor()
	if err != nil {
		return nil, during(err, ActionAccessingDeviceDescriptor, KindTransport)
	}

	iad, ok := findIAD(cfgDesc.Extra)
	if !ok {
		log.Printf("govuc: found no IAD despite device class indicating there is one")
		return nil, nil
	}
	if iad.functionClass != uvcIADClass || iad.functionSubClass != uvcIADSubClass || iad.functionProtocol != uvcIADProtocol {
		return nil, nil
	}

	firstIface := iad.firstInterface
	lastIface := firstIface + iad.interfaceCount - 1

	var control *controlInterfaceInfo
	var streaming []*topo.StreamingInterfaceDesc
	for _, iface := range cfgDesc.Interfaces {
		if iface.Number < firstIface || iface.Number > lastIface {
			continue
		}
		if iface.Class != uvcInterfaceClass {
			return nil, during(fmt.Errorf("interface %d uses unexpected class code 0x%.2X", iface.Number, iface.Class), ActionAccessingDeviceDescriptor, KindDescriptorParse)
		}
		switch iface.SubClass {
		case uvcInterfaceSubclassControl:
			if control != nil {
				return nil, during(fmt.Errorf("device lists more than one control interface"), ActionAccessingDeviceDescriptor, KindDescriptorParse)
			}
			if len(iface.Endpoints) > 1 {
				return nil, during(fmt.Errorf("control interface has %d endpoints, only 1 is allowed", len(iface.Endpoints)), ActionAccessingDeviceDescriptor, KindDescriptorParse)
			}
			var interruptEP *uint8
			if len(iface.Endpoints) == 1 {
				ep := iface.Endpoints[0]
				if ep.TransferType() != TransferTypeInterrupt {
					return nil, during(fmt.Errorf("control interface has a %v endpoint, only interrupt endpoints are allowed", ep.TransferType()), ActionAccessingDeviceDescriptor, KindDescriptorParse)
				}
				addr := ep.Address
				interruptEP = &addr
			}
			t, err := parse.ParseControlInterface(iface.Extra)
			if err != nil {
				return nil, during(err, ActionAccessingDeviceDescriptor, KindDescriptorParse)
			}
			control = &controlInterfaceInfo{interfaceNumber: iface.Number, controlInterruptEP: interruptEP, topo: t}
		case uvcInterfaceSubclassStreaming:
			s, err := parse.ParseStreamingInterface(iface.Extra, topo.StreamingInterfaceID(iface.Number))
			if err != nil {
				return nil, during(err, ActionAccessingDeviceDescriptor, KindDescriptorParse)
			}
			streaming = append(streaming, s)
		default:
			log.Printf("govuc: interface %d uses unexpected subclass code %d, ignoring it", iface.Number, iface.SubClass)
		}
	}

	if control == nil {
		return nil, during(fmt.Errorf("device does not have a UVC control interface"), ActionAccessingDeviceDescriptor, KindDescriptorParse)
	}

	return &uvcInfo{control: *control, streaming: streaming}, nil
}

func findIAD(extra []byte) (interfaceAssociationDescriptor, bool) {
	pos := 0
	for pos+2 <= len(extra) {
		length := int(extra[pos])
		if length < 2 || pos+length > len(extra) {
			break
		}
		descType := extra[pos+1]
		data := extra[pos : pos+length]
		if descType == descriptorTypeIAD && len(data) >= 8 {
			pos += length
			return interfaceAssociationDescriptor{
				firstInterface:   data[2],
				interfaceCount:   data[3],
				functionClass:    data[4],
				functionSubClass: data[5],
				functionProtocol: data[6],
			}, true
		}
		pos += length
	}
	return interfaceAssociationDescriptor{}, false
}

func (t TransferType) String() string {
	switch t {
	case TransferTypeControl:
		return "control"
	case TransferTypeIsochronous:
		return "isochronous"
	case TransferTypeBulk:
		return "bulk"
	case TransferTypeInterrupt:
		return "interrupt"
	default:
		return "unknown"
	}
}
