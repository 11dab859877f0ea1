package topo

import "fmt"

// InputTerminalType is the wTerminalType field of an Input Terminal
// descriptor (USB Terminal Types + UVC 1.5 Input Terminal Types).
type InputTerminalType uint16

const (
	InputTerminalUSBVendorSpecific InputTerminalType = 0x0100
	InputTerminalUSBStreaming      InputTerminalType = 0x0101

	InputTerminalVendorSpecific  InputTerminalType = 0x0200
	InputTerminalCamera          InputTerminalType = 0x0201
	InputTerminalMediaTransport  InputTerminalType = 0x0202

	InputTerminalExtVendorSpecific    InputTerminalType = 0x0400
	InputTerminalExtCompositeConn     InputTerminalType = 0x0401
	InputTerminalExtSVideoConn        InputTerminalType = 0x0402
	InputTerminalExtComponentConn     InputTerminalType = 0x0403
)

var inputTerminalTypeNames = map[InputTerminalType]string{
	InputTerminalUSBVendorSpecific: "USBVendorSpecific",
	InputTerminalUSBStreaming:      "USBStreaming",
	InputTerminalVendorSpecific:    "VendorSpecific",
	InputTerminalCamera:            "Camera",
	InputTerminalMediaTransport:    "MediaTransport",
	InputTerminalExtVendorSpecific: "ExtVendorSpecific",
	InputTerminalExtCompositeConn:  "ExtCompositeConnector",
	InputTerminalExtSVideoConn:     "ExtSVideoConnector",
	InputTerminalExtComponentConn:  "ExtComponentConnector",
}

func (t InputTerminalType) String() string {
	if s, ok := inputTerminalTypeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("Unknown(%.4X)", uint16(t))
}

// OutputTerminalType is the wTerminalType field of an Output Terminal
// descriptor.
type OutputTerminalType uint16

const (
	OutputTerminalUSBVendorSpecific OutputTerminalType = 0x0100
	OutputTerminalUSBStreaming      OutputTerminalType = 0x0101

	OutputTerminalVendorSpecific OutputTerminalType = 0x0300
	OutputTerminalDisplay        OutputTerminalType = 0x0301
	OutputTerminalMediaTransport OutputTerminalType = 0x0302

	OutputTerminalExtVendorSpecific OutputTerminalType = 0x0400
	OutputTerminalExtCompositeConn  OutputTerminalType = 0x0401
	OutputTerminalExtSVideoConn     OutputTerminalType = 0x0402
	OutputTerminalExtComponentConn  OutputTerminalType = 0x0403
)

var outputTerminalTypeNames = map[OutputTerminalType]string{
	OutputTerminalUSBVendorSpecific: "USBVendorSpecific",
	OutputTerminalUSBStreaming:      "USBStreaming",
	OutputTerminalVendorSpecific:    "VendorSpecific",
	OutputTerminalDisplay:           "Display",
	OutputTerminalMediaTransport:    "MediaTransport",
	OutputTerminalExtVendorSpecific: "ExtVendorSpecific",
	OutputTerminalExtCompositeConn:  "ExtCompositeConnector",
	OutputTerminalExtSVideoConn:     "ExtSVideoConnector",
	OutputTerminalExtComponentConn:  "ExtComponentConnector",
}

func (t OutputTerminalType) String() string {
	if s, ok := outputTerminalTypeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("Unknown(%.4X)", uint16(t))
}

// StillCaptureMethod is the bStillCaptureMethod field of a streaming Input
// Header descriptor.
type StillCaptureMethod uint8

const (
	StillCaptureNone StillCaptureMethod = iota
	StillCaptureMethod1
	StillCaptureMethod2
	StillCaptureMethod3
)

func (m StillCaptureMethod) String() string {
	switch m {
	case StillCaptureNone:
		return "None"
	case StillCaptureMethod1:
		return "Method1"
	case StillCaptureMethod2:
		return "Method2"
	case StillCaptureMethod3:
		return "Method3"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(m))
	}
}

// TriggerSupport is the bTriggerSupport field of a streaming Input Header
// descriptor.
type TriggerSupport uint8

const (
	TriggerNotSupported TriggerSupport = iota
	TriggerSupported
)

func (t TriggerSupport) String() string {
	if t == TriggerSupported {
		return "Supported"
	}
	return "NotSupported"
}

// TriggerUsage is the bTriggerUsage field of a streaming Input Header
// descriptor.
type TriggerUsage uint8

const (
	TriggerUsageInitiateStillImageCapture TriggerUsage = iota
	TriggerUsageGeneralPurposeButtonEvent
)

func (u TriggerUsage) String() string {
	switch u {
	case TriggerUsageInitiateStillImageCapture:
		return "InitiateStillImageCapture"
	case TriggerUsageGeneralPurposeButtonEvent:
		return "GeneralPurposeButtonEvent"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(u))
	}
}
