// Package topo models the device topology a UVC Video Control interface
// reports: input and output terminals, and the units that connect them.
package topo

// SourceID identifies anything that can be the source of a video signal:
// a Unit or an InputTerminal. Zero is never valid; the zero value of SourceID
// does not identify any entity.
type SourceID uint8

// TermID identifies an InputTerminal or OutputTerminal.
type TermID uint8

// UnitID identifies a Unit (Selector, Processing, or Extension).
type UnitID uint8

func newSourceID(raw uint8) (SourceID, bool) {
	if raw == 0 {
		return 0, false
	}
	return SourceID(raw), true
}

func newTermID(raw uint8) (TermID, bool) {
	if raw == 0 {
		return 0, false
	}
	return TermID(raw), true
}

func newUnitID(raw uint8) (UnitID, bool) {
	if raw == 0 {
		return 0, false
	}
	return UnitID(raw), true
}

// CameraID identifies an InputTerminal whose kind is Camera. NewCameraID
// does not check the kind; Device.CameraTerminal checks it against the
// device's Topology and rejects an id that names no camera terminal.
type CameraID struct{ term TermID }

// TermID returns the underlying terminal identifier.
func (id CameraID) TermID() TermID { return id.term }

// NewCameraID builds a CameraID from a terminal ID already known (by the
// caller) to name a camera terminal. The parser does not build CameraIDs;
// a caller with a Topology in hand builds one after checking
// InputTerminalDesc.Kind itself.
func NewCameraID(term TermID) CameraID { return CameraID{term: term} }

// ProcessingUnitID identifies a Unit whose kind is Processing.
type ProcessingUnitID struct{ unit UnitID }

// UnitID returns the underlying unit identifier.
func (id ProcessingUnitID) UnitID() UnitID { return id.unit }

// NewProcessingUnitID builds a ProcessingUnitID from a raw unit ID. Returns
// false if raw is zero.
func NewProcessingUnitID(raw UnitID) (ProcessingUnitID, bool) {
	if raw == 0 {
		return ProcessingUnitID{}, false
	}
	return ProcessingUnitID{unit: raw}, true
}

// SelectorUnitID identifies a Unit whose kind is Selector.
type SelectorUnitID struct{ unit UnitID }

// UnitID returns the underlying unit identifier.
func (id SelectorUnitID) UnitID() UnitID { return id.unit }

// NewSelectorUnitID builds a SelectorUnitID from a raw unit ID. Returns
// false if raw is zero.
func NewSelectorUnitID(raw UnitID) (SelectorUnitID, bool) {
	if raw == 0 {
		return SelectorUnitID{}, false
	}
	return SelectorUnitID{unit: raw}, true
}

// ExtensionUnitID identifies a Unit whose kind is Extension.
type ExtensionUnitID struct{ unit UnitID }

// UnitID returns the underlying unit identifier.
func (id ExtensionUnitID) UnitID() UnitID { return id.unit }

// NewExtensionUnitID builds an ExtensionUnitID from a raw unit ID. Returns
// false if raw is zero.
func NewExtensionUnitID(raw UnitID) (ExtensionUnitID, bool) {
	if raw == 0 {
		return ExtensionUnitID{}, false
	}
	return ExtensionUnitID{unit: raw}, true
}

// StreamingInterfaceID identifies a Video Streaming interface by its USB
// interface number.
type StreamingInterfaceID uint8

// FormatIndex identifies a Format within a streaming interface's format list.
type FormatIndex uint8

// FrameIndex identifies a Frame within a Format's frame list.
type FrameIndex uint8
