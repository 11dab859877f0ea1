package topo

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Topology is the parsed contents of a device's Video Control interface
// descriptors: its clock header plus every unit and terminal it declares.
//
// A Topology is immutable once parsed and safe to share across goroutines.
type Topology struct {
	Header  ControlHeader
	Units   []UnitDesc
	Inputs  []InputTerminalDesc
	Outputs []OutputTerminalDesc
}

// CameraTerminalByID looks up the Camera Terminal descriptor for id. It
// returns false when id names no input terminal of camera kind in t;
// Device.CameraTerminal reports that as an error.
func (t *Topology) CameraTerminalByID(id CameraID) (*CameraTerminalDesc, bool) {
	for i := range t.Inputs {
		in := &t.Inputs[i]
		if in.TermID != id.term {
			continue
		}
		if cam, ok := in.Kind.(InputTerminalCameraKind); ok {
			return &cam.CameraTerminalDesc, true
		}
	}
	return nil, false
}

// ProcessingUnitByID looks up the Processing Unit descriptor for id.
func (t *Topology) ProcessingUnitByID(id ProcessingUnitID) (*ProcessingUnitDesc, bool) {
	for i := range t.Units {
		if pu, ok := t.Units[i].Kind.(ProcessingUnitKind); ok && pu.ID == id {
			return &pu.ProcessingUnitDesc, true
		}
	}
	return nil, false
}

// SelectorUnitByID looks up the Selector Unit descriptor for id.
func (t *Topology) SelectorUnitByID(id SelectorUnitID) (*SelectorUnitDesc, bool) {
	for i := range t.Units {
		if su, ok := t.Units[i].Kind.(SelectorUnitKind); ok && su.ID == id {
			return &su.SelectorUnitDesc, true
		}
	}
	return nil, false
}

// ExtensionUnitByID looks up the Extension Unit descriptor for id.
func (t *Topology) ExtensionUnitByID(id ExtensionUnitID) (*ExtensionUnitDesc, bool) {
	for i := range t.Units {
		if eu, ok := t.Units[i].Kind.(ExtensionUnitKind); ok && eu.ID == id {
			return &eu.ExtensionUnitDesc, true
		}
	}
	return nil, false
}

// ResolveSource finds whatever entity a SourceID refers to: either a Unit or
// an InputTerminal. Used to walk the topology graph from a unit's source
// back towards a camera or media-transport terminal.
func (t *Topology) ResolveSource(id SourceID) (unit *UnitDesc, input *InputTerminalDesc) {
	for i := range t.Units {
		if t.Units[i].SourceID() == id {
			return &t.Units[i], nil
		}
	}
	for i := range t.Inputs {
		if TermID(id) == t.Inputs[i].TermID {
			return nil, &t.Inputs[i]
		}
	}
	return nil, nil
}

// Validate checks the cross-entity invariants a parsed Topology must hold:
// every terminal and unit identifier is unique across the whole interface,
// and every SourceID a unit or output terminal names resolves to one of
// them. ParseControlInterface calls this before handing back a Topology;
// exported so a caller building a Topology by hand (tests, fakes) can run
// the same check.
func (t *Topology) Validate() error {
	ids := make(map[uint8]string, len(t.Units)+len(t.Inputs)+len(t.Outputs))
	addID := func(raw uint8, what string) error {
		if prev, ok := ids[raw]; ok {
			return fmt.Errorf("id %d used by both %s and %s", raw, prev, what)
		}
		ids[raw] = what
		return nil
	}
	for i := range t.Inputs {
		if err := addID(uint8(t.Inputs[i].TermID), fmt.Sprintf("input terminal %d", t.Inputs[i].TermID)); err != nil {
			return err
		}
	}
	for i := range t.Outputs {
		if err := addID(uint8(t.Outputs[i].TermID), fmt.Sprintf("output terminal %d", t.Outputs[i].TermID)); err != nil {
			return err
		}
	}
	for i := range t.Units {
		raw := uint8(t.Units[i].SourceID())
		if err := addID(raw, fmt.Sprintf("unit %d", raw)); err != nil {
			return err
		}
	}

	resolves := func(id SourceID) bool {
		if _, ok := ids[uint8(id)]; ok {
			return true
		}
		return false
	}
	for i := range t.Units {
		switch k := t.Units[i].Kind.(type) {
		case SelectorUnitKind:
			for _, src := range k.Inputs {
				if !resolves(src) {
					return fmt.Errorf("selector unit %d: source id %d does not resolve to any terminal or unit", k.ID.UnitID(), src)
				}
			}
		case ProcessingUnitKind:
			if !resolves(k.Source) {
				return fmt.Errorf("processing unit %d: source id %d does not resolve to any terminal or unit", k.ID.UnitID(), k.Source)
			}
		case ExtensionUnitKind:
			for _, src := range k.Inputs {
				if !resolves(src) {
					return fmt.Errorf("extension unit %d: source id %d does not resolve to any terminal or unit", k.ID.UnitID(), src)
				}
			}
		}
	}
	for i := range t.Outputs {
		if !resolves(t.Outputs[i].Source) {
			return fmt.Errorf("output terminal %d: source id %d does not resolve to any terminal or unit", t.Outputs[i].TermID, t.Outputs[i].Source)
		}
	}
	return nil
}

// ControlHeader is the Video Control interface's class-specific header
// descriptor (VC_HEADER, UVC 1.5 §3.7.2.1).
type ControlHeader struct {
	UVCVersion           uint16 // bcdUVC, e.g. 0x0150
	ClockFrequencyHz      uint32
	StreamingInterfaces  []uint8 // baInterfaceNr
}

func (h ControlHeader) String() string {
	return fmt.Sprintf("UVC %d.%d, clock %dHz, streaming interfaces %v",
		h.UVCVersion>>8, h.UVCVersion&0xff, h.ClockFrequencyHz, h.StreamingInterfaces)
}

// UnitDesc is a unit declared by the Video Control interface descriptors:
// a Selector, Processing, or Extension Unit.
type UnitDesc struct {
	Kind UnitKind
}

// SourceID returns the unit's own ID, reinterpreted as a SourceID (any unit
// may itself be the source for a downstream unit or output terminal).
func (u UnitDesc) SourceID() SourceID {
	switch k := u.Kind.(type) {
	case SelectorUnitKind:
		return SourceID(k.ID.unit)
	case ProcessingUnitKind:
		return SourceID(k.ID.unit)
	case ExtensionUnitKind:
		return SourceID(k.ID.unit)
	default:
		return 0
	}
}

// UnitKind discriminates the variants of UnitDesc.
type UnitKind interface{ isUnitKind() }

// SelectorUnitKind wraps a SelectorUnitDesc as a UnitKind.
type SelectorUnitKind struct{ SelectorUnitDesc }

func (SelectorUnitKind) isUnitKind() {}

// ProcessingUnitKind wraps a ProcessingUnitDesc as a UnitKind.
type ProcessingUnitKind struct{ ProcessingUnitDesc }

func (ProcessingUnitKind) isUnitKind() {}

// ExtensionUnitKind wraps an ExtensionUnitDesc as a UnitKind.
type ExtensionUnitKind struct{ ExtensionUnitDesc }

func (ExtensionUnitKind) isUnitKind() {}

// SelectorUnitDesc is a Selector Unit descriptor (UVC 1.5 §3.7.2.4).
type SelectorUnitDesc struct {
	ID     SelectorUnitID
	Inputs []SourceID
}

// ProcessingUnitDesc is a Processing Unit descriptor (UVC 1.5 §3.7.2.5).
type ProcessingUnitDesc struct {
	ID             ProcessingUnitID
	Source         SourceID
	MaxMultiplier  uint16
	Controls       ProcessingUnitControls
	String         uint8
	VideoStandards VideoStandards
}

// ExtensionUnitDesc is an Extension Unit descriptor (UVC 1.5 §3.7.2.6). Its
// controls are vendor-defined; govuc exposes only the raw control access
// described by ControlsBitmap, not typed accessors.
type ExtensionUnitDesc struct {
	ID             ExtensionUnitID
	ExtensionCode  uuid.UUID
	NumControls    uint8
	Inputs         []SourceID
	ControlsBitmap []byte
}

// OutputTerminalDesc is an Output Terminal descriptor (UVC 1.5 §3.7.2.2).
type OutputTerminalDesc struct {
	TermID   TermID
	TermType OutputTerminalType
	Assoc    TermID // zero if none
	Source   SourceID
	String   uint8
}

// InputTerminalDesc is an Input Terminal descriptor (UVC 1.5 §3.7.2.1 camera
// variant, or the generic form for anything else).
type InputTerminalDesc struct {
	TermID   TermID
	TermType InputTerminalType
	Assoc    TermID // zero if none
	String   uint8
	Kind     InputTerminalKind
}

// InputTerminalKind discriminates the variants of InputTerminalDesc.
type InputTerminalKind interface{ isInputTerminalKind() }

// InputTerminalCameraKind wraps a CameraTerminalDesc.
type InputTerminalCameraKind struct{ CameraTerminalDesc }

func (InputTerminalCameraKind) isInputTerminalKind() {}

// InputTerminalOtherKind is any input terminal kind govuc does not give
// extra fields to (media transport, vendor-specific, …).
type InputTerminalOtherKind struct{}

func (InputTerminalOtherKind) isInputTerminalKind() {}

// CameraTerminalDesc is the camera-specific tail of an Input Terminal
// descriptor whose wTerminalType is InputTerminalCamera.
type CameraTerminalDesc struct {
	ObjectiveFocalLengthMin uint16
	ObjectiveFocalLengthMax uint16
	OcularFocalLength       uint16
	Controls                CameraControls
}

// StreamingInterfaceDesc is the parsed Video Streaming interface: its
// header plus the formats and frames it declares.
type StreamingInterfaceDesc struct {
	ID      StreamingInterfaceID
	Kind    StreamingInterfaceKind
	Formats []Format
	Frames  []Frame
}

// FrameByIndex finds the frame with the given index. Returns false if the
// streaming interface never declared it.
func (s *StreamingInterfaceDesc) FrameByIndex(index FrameIndex) (*Frame, bool) {
	for i := range s.Frames {
		if s.Frames[i].Index == index {
			return &s.Frames[i], true
		}
	}
	return nil, false
}

// EndpointAddress returns the bulk-IN endpoint address video payload is
// delivered on.
func (s *StreamingInterfaceDesc) EndpointAddress() uint8 {
	switch k := s.Kind.(type) {
	case InputHeaderKind:
		return k.EndpointAddress
	default:
		return 0
	}
}

// StreamingInterfaceKind discriminates Input/Output Header variants. govuc
// only implements capture (Input Header); Output Header devices (UVC
// playback/gadget-side) are out of scope.
type StreamingInterfaceKind interface{ isStreamingInterfaceKind() }

// InputHeaderKind wraps an InputHeader.
type InputHeaderKind struct{ InputHeader }

func (InputHeaderKind) isStreamingInterfaceKind() {}

// InputHeader is a Class-specific VS Interface Input Header descriptor
// (UVC 1.5 §3.9.2.1).
type InputHeader struct {
	TotalLength        uint16
	EndpointAddress    uint8
	Info               InputInterfaceInfo
	TerminalLink       TermID
	StillCaptureMethod StillCaptureMethod
	TriggerSupport     TriggerSupport
	TriggerUsage       TriggerUsage
	FormatControls     []PerFormatControls
}

// Format is one bFormatIndex entry of a streaming interface.
type Format struct {
	Index               FormatIndex
	NumFrameDescriptors uint8
	Kind                FormatKind
}

// FormatKind discriminates Format variants. Only Uncompressed is parsed;
// other (recognized) subtypes are skipped during descriptor parsing and
// never appear here.
type FormatKind interface{ isFormatKind() }

// FormatUncompressedKind wraps a FormatUncompressed.
type FormatUncompressedKind struct{ FormatUncompressed }

func (FormatUncompressedKind) isFormatKind() {}

// FormatUncompressed is a Format Uncompressed descriptor (UVC 1.5
// Uncompressed payload spec §3.1.1).
type FormatUncompressed struct {
	GUID               uuid.UUID
	BitsPerPixel       uint8
	DefaultFrameIndex  FrameIndex
	AspectRatioX       uint8
	AspectRatioY       uint8
	InterlaceFlags     InterlaceFlags
	CopyProtect        uint8
}

// Frame is one bFrameIndex entry belonging to a Format.
type Frame struct {
	Index FrameIndex
	Kind  FrameKind
}

// FrameKind discriminates Frame variants.
type FrameKind interface{ isFrameKind() }

// FrameUncompressedKind wraps a FrameUncompressed.
type FrameUncompressedKind struct{ FrameUncompressed }

func (FrameUncompressedKind) isFrameKind() {}

// FrameUncompressed is a Frame Uncompressed descriptor.
type FrameUncompressed struct {
	Capabilities             UncompressedFrameCapabilities
	Width                    uint16
	Height                   uint16
	MinBitRate               uint32
	MaxBitRate               uint32
	MaxVideoFrameBufferSize  uint32
	DefaultFrameInterval     time.Duration
	FrameIntervals           SupportedFrameIntervals
}

// SupportedFrameIntervals is either a continuous range or a discrete set of
// frame intervals, per dwFrameInterval's encoding in a Frame descriptor.
type SupportedFrameIntervals interface{ isSupportedFrameIntervals() }

// ContinuousFrameIntervals is the continuous encoding (bFrameIntervalType
// == 0).
type ContinuousFrameIntervals struct {
	Min  time.Duration
	Max  time.Duration
	Step time.Duration
}

func (ContinuousFrameIntervals) isSupportedFrameIntervals() {}

// DiscreteFrameIntervals is the discrete encoding (bFrameIntervalType > 0).
type DiscreteFrameIntervals struct {
	Intervals []time.Duration
}

func (DiscreteFrameIntervals) isSupportedFrameIntervals() {}
