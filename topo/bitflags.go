package topo

// CameraControls is the bControls bitmap of a Camera Terminal descriptor
// (UVC 1.5 §3.7.2.3).
type CameraControls uint32

const (
	CameraControlScanningMode CameraControls = 1 << iota
	CameraControlAutoExposureMode
	CameraControlAutoExposurePriority
	CameraControlExposureTimeAbs
	CameraControlExposureTimeRel
	CameraControlFocusAbs
	CameraControlFocusRel
	CameraControlIrisAbs
	CameraControlIrisRel
	CameraControlZoomAbs
	CameraControlZoomRel
	CameraControlPanTiltAbs
	CameraControlPanTiltRel
	CameraControlRollAbs
	CameraControlRollRel
	_ // reserved
	_ // reserved
	CameraControlFocusAuto
	CameraControlPrivacy
	CameraControlFocusSimple
	CameraControlWindow
	CameraControlRegionOfInterest
)

// Has reports whether every bit in want is set in c.
func (c CameraControls) Has(want CameraControls) bool { return c&want == want }

// ProcessingUnitControls is the bmControls bitmap of a Processing Unit
// descriptor (UVC 1.5 §3.7.2.5).
type ProcessingUnitControls uint32

const (
	ProcessingControlBrightness ProcessingUnitControls = 1 << iota
	ProcessingControlContrast
	ProcessingControlHue
	ProcessingControlSaturation
	ProcessingControlSharpness
	ProcessingControlGamma
	ProcessingControlWhiteBalanceTemperature
	ProcessingControlWhiteBalanceComponent
	ProcessingControlBacklightCompensation
	ProcessingControlGain
	ProcessingControlPowerLineFrequency
	ProcessingControlHueAuto
	ProcessingControlWhiteBalanceTemperatureAuto
	ProcessingControlWhiteBalanceComponentAuto
	ProcessingControlDigitalMultiplier
	ProcessingControlDigitalMultiplierLimit
	ProcessingControlAnalogVideoStandard
	ProcessingControlAnalogVideoLockStatus
	ProcessingControlContrastAuto
)

// Has reports whether every bit in want is set in c.
func (c ProcessingUnitControls) Has(want ProcessingUnitControls) bool { return c&want == want }

// VideoStandards is the bmVideoStandards bitmap of a Processing Unit
// descriptor.
type VideoStandards uint8

const (
	VideoStandardNone VideoStandards = 1 << iota
	VideoStandardNTSC52560
	VideoStandardPAL62550
	VideoStandardSECAM62550
	VideoStandardNTSC62550
	VideoStandardPAL52560
)

// InterlaceFlags is the bmInterlaceFlags field of a Frame Uncompressed
// descriptor.
type InterlaceFlags uint8

const (
	InterlaceFlagInterlaced InterlaceFlags = 1 << iota
	InterlaceFlagSingleFieldPerFrame
	InterlaceFlagField1First
)

// FieldPattern extracts the 2-bit field pattern carried in bits 4-5.
func (f InterlaceFlags) FieldPattern() uint8 { return uint8(f>>4) & 0b11 }

// UncompressedFrameCapabilities is the bmCapabilities field of a Frame
// Uncompressed descriptor.
type UncompressedFrameCapabilities uint8

const (
	FrameCapabilityStillImageSupported UncompressedFrameCapabilities = 1 << iota
	FrameCapabilityFixedFrameRate
)

// PerFormatControls is one bmaControls entry of a streaming Input Header
// descriptor, one per declared format.
type PerFormatControls uint32

const (
	FormatControlKeyFrameRate PerFormatControls = 1 << iota
	FormatControlPFrameRate
	FormatControlCompQuality
	FormatControlCompWindowSize
	FormatControlGenerateKeyFrame
	FormatControlUpdateFrameSegment
)

// InputInterfaceInfo is the bmInfo field of a streaming Input Header
// descriptor.
type InputInterfaceInfo uint8

const (
	InputInterfaceDynamicFormatChangeSupported InputInterfaceInfo = 1 << iota
)
