// Package control implements the typed control-value codecs used by
// govuc's entity accessor packages (camera, processingunit, streaming): a
// fixed-size wire encoding per Go value type, matching UVC 1.5's per-control
// byte layouts.
package control

import (
	"encoding/binary"
	"fmt"
	"log"
	"time"
)

// Codec describes how a control's value type is carried on the wire: its
// fixed size in bytes, and functions to encode/decode it. Using a value
// object instead of a generic interface lets every control be described by
// one package-level variable (see camera/processingunit), while the
// accessor helpers (readCameraControl/setCameraControl,
// readProcessingControl/setProcessingControl) stay generic only in the
// value type — never in the
// control itself, following UVC's own "value interpretation is per-control,
// wire access is uniform" split.
type Codec[T any] struct {
	Size   int
	Encode func(T, []byte)
	Decode func([]byte) T
}

// Bool is the 1-byte boolean encoding used by most UVC *_AUTO and bFeature
// controls: 0 is false, 1 is true. Any other wire value is accepted but
// logged and treated as true — UVC never documents what else a device might
// legally send here, and rejecting a working device over it would be worse
// than a permissive decode.
var Bool = Codec[bool]{
	Size:   1,
	Encode: func(v bool, buf []byte) { buf[0] = b2u8(v) },
	Decode: func(buf []byte) bool {
		switch buf[0] {
		case 0:
			return false
		case 1:
			return true
		default:
			log.Printf("govuc: invalid bool control value %d, treating as true", buf[0])
			return true
		}
	},
}

func b2u8(v bool) uint8 {
	if v {
		return 1
	}
	return 0
}

// U8 is the 1-byte unsigned integer encoding.
var U8 = Codec[uint8]{
	Size:   1,
	Encode: func(v uint8, buf []byte) { buf[0] = v },
	Decode: func(buf []byte) uint8 { return buf[0] },
}

// I8 is the 1-byte signed integer encoding.
var I8 = Codec[int8]{
	Size:   1,
	Encode: func(v int8, buf []byte) { buf[0] = uint8(v) },
	Decode: func(buf []byte) int8 { return int8(buf[0]) },
}

// U16 is the 2-byte little-endian unsigned integer encoding.
var U16 = Codec[uint16]{
	Size:   2,
	Encode: func(v uint16, buf []byte) { binary.LittleEndian.PutUint16(buf, v) },
	Decode: func(buf []byte) uint16 { return binary.LittleEndian.Uint16(buf) },
}

// I16 is the 2-byte little-endian signed integer encoding.
var I16 = Codec[int16]{
	Size:   2,
	Encode: func(v int16, buf []byte) { binary.LittleEndian.PutUint16(buf, uint16(v)) },
	Decode: func(buf []byte) int16 { return int16(binary.LittleEndian.Uint16(buf)) },
}

// U32 is the 4-byte little-endian unsigned integer encoding.
var U32 = Codec[uint32]{
	Size:   4,
	Encode: func(v uint32, buf []byte) { binary.LittleEndian.PutUint32(buf, v) },
	Decode: func(buf []byte) uint32 { return binary.LittleEndian.Uint32(buf) },
}

// PowerLineFrequency is the wire value of the Power Line Frequency control
// (CT_POWER_LINE_FREQUENCY... actually a PU control, UVC 1.5 §4.2.2.12).
type PowerLineFrequency uint8

const (
	PowerLineFrequencyDisabled PowerLineFrequency = 0
	PowerLineFrequency50Hz     PowerLineFrequency = 1
	PowerLineFrequency60Hz     PowerLineFrequency = 2
	PowerLineFrequencyAuto     PowerLineFrequency = 3
)

// PowerLineFreq decodes softly: an out-of-range wire value is logged and
// reported as Disabled rather than failing the read.
var PowerLineFreq = Codec[PowerLineFrequency]{
	Size:   1,
	Encode: func(v PowerLineFrequency, buf []byte) { buf[0] = uint8(v) },
	Decode: func(buf []byte) PowerLineFrequency {
		switch PowerLineFrequency(buf[0]) {
		case PowerLineFrequencyDisabled, PowerLineFrequency50Hz, PowerLineFrequency60Hz, PowerLineFrequencyAuto:
			return PowerLineFrequency(buf[0])
		default:
			log.Printf("govuc: invalid power line frequency value %d", buf[0])
			return PowerLineFrequencyDisabled
		}
	},
}

func (f PowerLineFrequency) String() string {
	switch f {
	case PowerLineFrequencyDisabled:
		return "Disabled"
	case PowerLineFrequency50Hz:
		return "50Hz"
	case PowerLineFrequency60Hz:
		return "60Hz"
	case PowerLineFrequencyAuto:
		return "Auto"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(f))
	}
}

// FocusSimple is the wire value of the Focus, Simple control
// (UVC 1.5 §4.2.2.1.3). Future UVC revisions may add values; unrecognized
// values decode to FullRange with a log, matching the rest of this package.
type FocusSimple uint8

const (
	FocusSimpleFullRange FocusSimple = 0x00
	FocusSimpleMacro     FocusSimple = 0x01
	FocusSimplePeople    FocusSimple = 0x02
	FocusSimpleScene     FocusSimple = 0x03
)

var FocusSimpleCodec = Codec[FocusSimple]{
	Size:   1,
	Encode: func(v FocusSimple, buf []byte) { buf[0] = uint8(v) },
	Decode: func(buf []byte) FocusSimple {
		switch FocusSimple(buf[0]) {
		case FocusSimpleFullRange, FocusSimpleMacro, FocusSimplePeople, FocusSimpleScene:
			return FocusSimple(buf[0])
		default:
			log.Printf("govuc: invalid simple focus value %d", buf[0])
			return FocusSimpleFullRange
		}
	},
}

// WhiteBalanceComponents is the value of the White Balance Component,
// Absolute control: a blue and red gain pair.
type WhiteBalanceComponents struct {
	Blue uint16
	Red  uint16
}

var WhiteBalance = Codec[WhiteBalanceComponents]{
	Size: 4,
	Encode: func(v WhiteBalanceComponents, buf []byte) {
		binary.LittleEndian.PutUint16(buf[0:2], v.Blue)
		binary.LittleEndian.PutUint16(buf[2:4], v.Red)
	},
	Decode: func(buf []byte) WhiteBalanceComponents {
		return WhiteBalanceComponents{
			Blue: binary.LittleEndian.Uint16(buf[0:2]),
			Red:  binary.LittleEndian.Uint16(buf[2:4]),
		}
	},
}

// AutoExposureMode is the bitflag value of the Auto-Exposure Mode control
// (UVC 1.5 §4.2.2.1.2). Exactly one bit is normally set, but the control is
// modeled as a bitmask since GET_DEF/GET_RES report the supported bitmask
// on some devices.
type AutoExposureMode uint8

const (
	AutoExposureManual           AutoExposureMode = 1 << 0
	AutoExposureAuto             AutoExposureMode = 1 << 1
	AutoExposureShutterPriority  AutoExposureMode = 1 << 2
	AutoExposureAperturePriority AutoExposureMode = 1 << 3
)

func (m AutoExposureMode) Has(bit AutoExposureMode) bool { return m&bit == bit }

var AutoExposure = Codec[AutoExposureMode]{
	Size:   1,
	Encode: func(v AutoExposureMode, buf []byte) { buf[0] = uint8(v) },
	Decode: func(buf []byte) AutoExposureMode { return AutoExposureMode(buf[0]) },
}

// ExposureTimeAbs is the value of the Exposure Time, Absolute control, in
// units of 100µs on the wire.
type ExposureTimeAbs uint32

// ExposureTimeFromDuration truncates (toward zero) and clamps dur to the representable
// range (1..=uint32 max, in 100µs units). A zero or negative duration
// clamps to 1 unit (100µs), the smallest the wire format can express.
func ExposureTimeFromDuration(dur time.Duration) ExposureTimeAbs {
	units := dur.Microseconds() / 100
	if units < 1 {
		units = 1
	}
	if units > int64(^uint32(0)) {
		units = int64(^uint32(0))
	}
	return ExposureTimeAbs(units)
}

// AsDuration converts back to a time.Duration.
func (e ExposureTimeAbs) AsDuration() time.Duration {
	return time.Duration(e) * 100 * time.Microsecond
}

var ExposureTime = Codec[ExposureTimeAbs]{
	Size:   4,
	Encode: func(v ExposureTimeAbs, buf []byte) { binary.LittleEndian.PutUint32(buf, uint32(v)) },
	Decode: func(buf []byte) ExposureTimeAbs { return ExposureTimeAbs(binary.LittleEndian.Uint32(buf)) },
}

// FocusRel is the value of the Focus, Relative control: a signed step plus
// an unsigned speed.
type FocusRel struct {
	Step  int8
	Speed uint8
}

var FocusRelCodec = Codec[FocusRel]{
	Size: 2,
	Encode: func(v FocusRel, buf []byte) {
		buf[0] = uint8(v.Step)
		buf[1] = v.Speed
	},
	Decode: func(buf []byte) FocusRel {
		return FocusRel{Step: int8(buf[0]), Speed: buf[1]}
	},
}

// ProbeCommitControls is the 26-byte short form of the UVC Probe/Commit
// negotiation structure (UVC 1.5 §4.3.1.1). The 22 trailing bytes UVC 1.1+
// added (dwClockFrequency onward) are deliberately omitted: at least one
// observed device's firmware (Leap Motion) cannot handle the longer struct
// and silently returns a zeroed dwFrameInterval on GET_CUR when it is used.
type ProbeCommitControls struct {
	Hint                     ProbeHint
	FormatIndex              uint8
	FrameIndex               uint8
	FrameInterval            time.Duration
	KeyFrameRate             uint16
	PFrameRate               uint16
	CompQuality              uint16
	CompWindowSize           uint16
	Delay                    uint16
	MaxVideoFrameSize        uint32
	MaxPayloadTransferSize   uint32
}

// ProbeHint is the bmHint field of ProbeCommitControls: which of the other
// fields the host is requesting the device honor exactly, rather than pick
// a compatible value for.
type ProbeHint uint16

const (
	ProbeHintFixFrameInterval ProbeHint = 1 << iota
	ProbeHintFixKeyFrameRate
	ProbeHintFixPFrameRate
	ProbeHintFixCompQuality
	ProbeHintFixCompWindowSize
)

// ProbeCommitWireSize is the exact byte length of the short Probe/Commit
// struct on the wire.
const ProbeCommitWireSize = 26

var ProbeCommit = Codec[ProbeCommitControls]{
	Size: ProbeCommitWireSize,
	Encode: func(v ProbeCommitControls, buf []byte) {
		binary.LittleEndian.PutUint16(buf[0:2], uint16(v.Hint))
		buf[2] = v.FormatIndex
		buf[3] = v.FrameIndex
		binary.LittleEndian.PutUint32(buf[4:8], uint32(v.FrameInterval/(100*time.Nanosecond)))
		binary.LittleEndian.PutUint16(buf[8:10], v.KeyFrameRate)
		binary.LittleEndian.PutUint16(buf[10:12], v.PFrameRate)
		binary.LittleEndian.PutUint16(buf[12:14], v.CompQuality)
		binary.LittleEndian.PutUint16(buf[14:16], v.CompWindowSize)
		binary.LittleEndian.PutUint16(buf[16:18], v.Delay)
		binary.LittleEndian.PutUint32(buf[18:22], v.MaxVideoFrameSize)
		binary.LittleEndian.PutUint32(buf[22:26], v.MaxPayloadTransferSize)
	},
	Decode: func(buf []byte) ProbeCommitControls {
		return ProbeCommitControls{
			Hint:                   ProbeHint(binary.LittleEndian.Uint16(buf[0:2])),
			FormatIndex:            buf[2],
			FrameIndex:             buf[3],
			FrameInterval:          time.Duration(binary.LittleEndian.Uint32(buf[4:8])) * 100 * time.Nanosecond,
			KeyFrameRate:           binary.LittleEndian.Uint16(buf[8:10]),
			PFrameRate:             binary.LittleEndian.Uint16(buf[10:12]),
			CompQuality:            binary.LittleEndian.Uint16(buf[12:14]),
			CompWindowSize:         binary.LittleEndian.Uint16(buf[14:16]),
			Delay:                  binary.LittleEndian.Uint16(buf[16:18]),
			MaxVideoFrameSize:      binary.LittleEndian.Uint32(buf[18:22]),
			MaxPayloadTransferSize: binary.LittleEndian.Uint32(buf[22:26]),
		}
	},
}

// AnalogVideoStandard is the wire value of the Analog Video Standard
// control (UVC 1.5 §4.2.2.10): which broadcast standard an analog input is
// currently locked to.
type AnalogVideoStandard uint8

const (
	AnalogVideoStandardNone        AnalogVideoStandard = 0
	AnalogVideoStandardNTSC525_60  AnalogVideoStandard = 1
	AnalogVideoStandardPAL625_50   AnalogVideoStandard = 2
	AnalogVideoStandardSECAM625_50 AnalogVideoStandard = 3
	AnalogVideoStandardNTSC625_50  AnalogVideoStandard = 4
	AnalogVideoStandardPAL525_60   AnalogVideoStandard = 5
)

var AnalogVideoStandardCodec = Codec[AnalogVideoStandard]{
	Size:   1,
	Encode: func(v AnalogVideoStandard, buf []byte) { buf[0] = uint8(v) },
	Decode: func(buf []byte) AnalogVideoStandard { return AnalogVideoStandard(buf[0]) },
}

// IrisAbs is the value of the Iris, Absolute control: an f-stop index, not
// an f-number (UVC 1.5 §4.2.2.1.6).
type IrisAbs uint16

// IrisAbsolute is the 2-byte little-endian encoding of IrisAbs.
var IrisAbsolute = Codec[IrisAbs]{
	Size:   2,
	Encode: func(v IrisAbs, buf []byte) { binary.LittleEndian.PutUint16(buf, uint16(v)) },
	Decode: func(buf []byte) IrisAbs { return IrisAbs(binary.LittleEndian.Uint16(buf)) },
}

// IrisRel is the value of the Iris, Relative control: a one-shot
// open/close step, UVC 1.5 §4.2.2.1.7.
type IrisRel int8

// IrisRelative is the 1-byte signed encoding of IrisRel.
var IrisRelative = Codec[IrisRel]{
	Size:   1,
	Encode: func(v IrisRel, buf []byte) { buf[0] = uint8(v) },
	Decode: func(buf []byte) IrisRel { return IrisRel(int8(buf[0])) },
}

// ZoomRel is the value of the Zoom, Relative control: a one-shot
// tele/wide step plus digital-zoom flag and speed, UVC 1.5 §4.2.2.1.9.
type ZoomRel struct {
	Zoom    int8 // negative = wide, positive = tele, 0 = stop
	Digital bool
	Speed   uint8
}

var ZoomRelCodec = Codec[ZoomRel]{
	Size: 3,
	Encode: func(v ZoomRel, buf []byte) {
		buf[0] = uint8(v.Zoom)
		buf[1] = b2u8(v.Digital)
		buf[2] = v.Speed
	},
	Decode: func(buf []byte) ZoomRel {
		return ZoomRel{Zoom: int8(buf[0]), Digital: buf[1] != 0, Speed: buf[2]}
	},
}

// PanTiltRel is the value of the PanTilt, Relative control: one-shot
// step+speed moves on both axes, UVC 1.5 §4.2.2.1.11.
type PanTiltRel struct {
	PanStep   int8
	PanSpeed  uint8
	TiltStep  int8
	TiltSpeed uint8
}

var PanTiltRelCodec = Codec[PanTiltRel]{
	Size: 4,
	Encode: func(v PanTiltRel, buf []byte) {
		buf[0] = uint8(v.PanStep)
		buf[1] = v.PanSpeed
		buf[2] = uint8(v.TiltStep)
		buf[3] = v.TiltSpeed
	},
	Decode: func(buf []byte) PanTiltRel {
		return PanTiltRel{
			PanStep:   int8(buf[0]),
			PanSpeed:  buf[1],
			TiltStep:  int8(buf[2]),
			TiltSpeed: buf[3],
		}
	},
}

// RollAbs is the value of the Roll, Absolute control, in degrees
// (UVC 1.5 §4.2.2.1.12).
type RollAbs int16

var RollAbsoluteCodec = Codec[RollAbs]{
	Size:   2,
	Encode: func(v RollAbs, buf []byte) { binary.LittleEndian.PutUint16(buf, uint16(v)) },
	Decode: func(buf []byte) RollAbs { return RollAbs(int16(binary.LittleEndian.Uint16(buf))) },
}

// RollRel is the value of the Roll, Relative control: a one-shot step plus
// speed, UVC 1.5 §4.2.2.1.13.
type RollRel struct {
	Step  int8
	Speed uint8
}

var RollRelCodec = Codec[RollRel]{
	Size: 2,
	Encode: func(v RollRel, buf []byte) {
		buf[0] = uint8(v.Step)
		buf[1] = v.Speed
	},
	Decode: func(buf []byte) RollRel {
		return RollRel{Step: int8(buf[0]), Speed: buf[1]}
	},
}

// Window is the value of the Window control: a digitally cropped capture
// rectangle plus step granularity, UVC 1.5 §4.2.2.1.14.
type Window struct {
	Top, Left, Bottom, Right uint16
	NumSteps                 uint16
	NumStepsUnits            uint8
}

var WindowCodec = Codec[Window]{
	Size: 11,
	Encode: func(v Window, buf []byte) {
		binary.LittleEndian.PutUint16(buf[0:2], v.Top)
		binary.LittleEndian.PutUint16(buf[2:4], v.Left)
		binary.LittleEndian.PutUint16(buf[4:6], v.Bottom)
		binary.LittleEndian.PutUint16(buf[6:8], v.Right)
		binary.LittleEndian.PutUint16(buf[8:10], v.NumSteps)
		buf[10] = v.NumStepsUnits
	},
	Decode: func(buf []byte) Window {
		return Window{
			Top:           binary.LittleEndian.Uint16(buf[0:2]),
			Left:          binary.LittleEndian.Uint16(buf[2:4]),
			Bottom:        binary.LittleEndian.Uint16(buf[4:6]),
			Right:         binary.LittleEndian.Uint16(buf[6:8]),
			NumSteps:      binary.LittleEndian.Uint16(buf[8:10]),
			NumStepsUnits: buf[10],
		}
	},
}

// RegionOfInterest is the value of the Region of Interest control: the ROI
// rectangle plus which other Camera Terminal controls the device should
// auto-adjust within it, UVC 1.5 §4.2.2.1.15.
type RegionOfInterest struct {
	Top, Left, Bottom, Right uint16
	AutoControls             uint16
}

var RegionOfInterestCodec = Codec[RegionOfInterest]{
	Size: 10,
	Encode: func(v RegionOfInterest, buf []byte) {
		binary.LittleEndian.PutUint16(buf[0:2], v.Top)
		binary.LittleEndian.PutUint16(buf[2:4], v.Left)
		binary.LittleEndian.PutUint16(buf[4:6], v.Bottom)
		binary.LittleEndian.PutUint16(buf[6:8], v.Right)
		binary.LittleEndian.PutUint16(buf[8:10], v.AutoControls)
	},
	Decode: func(buf []byte) RegionOfInterest {
		return RegionOfInterest{
			Top:          binary.LittleEndian.Uint16(buf[0:2]),
			Left:         binary.LittleEndian.Uint16(buf[2:4]),
			Bottom:       binary.LittleEndian.Uint16(buf[4:6]),
			Right:        binary.LittleEndian.Uint16(buf[6:8]),
			AutoControls: binary.LittleEndian.Uint16(buf[8:10]),
		}
	},
}
