package parse

import (
	"fmt"
	"io"
	"log"
	"time"

	"github.com/daedaluz/govuc/topo"
)

// csInterfaceDescriptorType is bDescriptorType for any class-specific
// interface descriptor (CS_INTERFACE, USB class-specific descriptors spec).
const csInterfaceDescriptorType = 0x24

// Video Control interface descriptor subtypes (UVC 1.5 §A.5).
const (
	vcHeader         = 0x01
	vcInputTerminal  = 0x02
	vcOutputTerminal = 0x03
	vcSelectorUnit   = 0x04
	vcProcessingUnit = 0x05
	vcExtensionUnit  = 0x06
)

// Video Streaming interface descriptor subtypes (UVC 1.5 §A.6).
const (
	vsInputHeader        = 0x01
	vsOutputHeader       = 0x02
	vsStillImageFrame    = 0x03
	vsFormatUncompressed = 0x04
	vsFrameUncompressed  = 0x05
	vsFormatMJPEG        = 0x06
	vsFrameMJPEG         = 0x07
	vsFormatMPEG2TS      = 0x0A
	vsFormatDV           = 0x0C
	vsColorformat        = 0x0D
	vsFormatFrameBased   = 0x10
	vsFrameFrameBased    = 0x11
	vsFormatStreamBased  = 0x12
	vsFormatH264         = 0x13
	vsFrameH264          = 0x14
	vsFormatVP8          = 0x16
	vsFrameVP8           = 0x17
)

var vsSubtypeNames = map[uint8]string{
	vsStillImageFrame:   "VS_STILL_IMAGE_FRAME",
	vsFormatMJPEG:       "VS_FORMAT_MJPEG",
	vsFrameMJPEG:        "VS_FRAME_MJPEG",
	vsFormatMPEG2TS:     "VS_FORMAT_MPEG2TS",
	vsFormatDV:          "VS_FORMAT_DV",
	vsColorformat:       "VS_COLORFORMAT",
	vsFormatFrameBased:  "VS_FORMAT_FRAME_BASED",
	vsFrameFrameBased:   "VS_FRAME_FRAME_BASED",
	vsFormatStreamBased: "VS_FORMAT_STREAM_BASED",
	vsFormatH264:        "VS_FORMAT_H264",
	vsFrameH264:         "VS_FRAME_H264",
	vsFormatVP8:         "VS_FORMAT_VP8",
	vsFrameVP8:          "VS_FRAME_VP8",
}

// shortDescriptorPad is appended, once, to a descriptor payload that ended
// early. Some devices (observed in the wild on a handful of webcams) report
// a bLength that undercounts the fields the subtype implies; padding with
// zeros recovers a usable (if truncated) parse instead of rejecting the
// whole interface.
const shortDescriptorPad = 100

// withFallback runs fn against payload; if fn fails because the payload ran
// out before every expected field was read, it is retried exactly once
// against payload zero-extended by shortDescriptorPad bytes. The result of
// the retry, success or failure, is final.
func withFallback(payload []byte, fn func(*reader) error) error {
	err := fn(newReader(payload))
	if err == nil || err != io.ErrUnexpectedEOF {
		return err
	}
	padded := make([]byte, len(payload)+shortDescriptorPad)
	copy(padded, payload)
	return fn(newReader(padded))
}

// ParseControlInterface parses the class-specific descriptor bytes of a
// Video Control interface (an interface's "extra" descriptor bytes, i.e.
// everything between its standard interface descriptor and its first
// endpoint descriptor) into a Topology.
func ParseControlInterface(extra []byte) (*topo.Topology, error) {
	spans := splitDescriptors(extra)
	var (
		header  *topo.ControlHeader
		units   []topo.UnitDesc
		inputs  []topo.InputTerminalDesc
		outputs []topo.OutputTerminalDesc
	)
	for _, span := range spans {
		desc := extra[span[0]:span[1]]
		if len(desc) < 3 || desc[1] != csInterfaceDescriptorType {
			continue
		}
		subtype := desc[2]
		payload := desc[3:]
		switch subtype {
		case vcHeader:
			if header != nil {
				return nil, fmt.Errorf("control interface has more than one VC_HEADER descriptor")
			}
			var h topo.ControlHeader
			err := withFallback(payload, func(r *reader) error {
				return parseControlHeader(r, &h)
			})
			if err != nil {
				return nil, fmt.Errorf("parsing VC_HEADER: %w", err)
			}
			header = &h
		case vcInputTerminal:
			var in topo.InputTerminalDesc
			err := withFallback(payload, func(r *reader) error {
				return parseInputTerminal(r, &in)
			})
			if err != nil {
				return nil, fmt.Errorf("parsing VC_INPUT_TERMINAL: %w", err)
			}
			inputs = append(inputs, in)
		case vcOutputTerminal:
			var out topo.OutputTerminalDesc
			err := withFallback(payload, func(r *reader) error {
				return parseOutputTerminal(r, &out)
			})
			if err != nil {
				return nil, fmt.Errorf("parsing VC_OUTPUT_TERMINAL: %w", err)
			}
			outputs = append(outputs, out)
		case vcSelectorUnit:
			var su topo.SelectorUnitDesc
			err := withFallback(payload, func(r *reader) error {
				return parseSelectorUnit(r, &su)
			})
			if err != nil {
				return nil, fmt.Errorf("parsing VC_SELECTOR_UNIT: %w", err)
			}
			units = append(units, topo.UnitDesc{Kind: topo.SelectorUnitKind{SelectorUnitDesc: su}})
		case vcProcessingUnit:
			var pu topo.ProcessingUnitDesc
			err := withFallback(payload, func(r *reader) error {
				return parseProcessingUnit(r, &pu)
			})
			if err != nil {
				return nil, fmt.Errorf("parsing VC_PROCESSING_UNIT: %w", err)
			}
			units = append(units, topo.UnitDesc{Kind: topo.ProcessingUnitKind{ProcessingUnitDesc: pu}})
		case vcExtensionUnit:
			var eu topo.ExtensionUnitDesc
			err := withFallback(payload, func(r *reader) error {
				return parseExtensionUnit(r, &eu)
			})
			if err != nil {
				return nil, fmt.Errorf("parsing VC_EXTENSION_UNIT: %w", err)
			}
			units = append(units, topo.UnitDesc{Kind: topo.ExtensionUnitKind{ExtensionUnitDesc: eu}})
		default:
			log.Printf("govuc: unrecognized VC descriptor subtype 0x%.2X, skipping", subtype)
		}
	}
	if header == nil {
		return nil, fmt.Errorf("control interface has no VC_HEADER descriptor")
	}
	t := &topo.Topology{Header: *header, Units: units, Inputs: inputs, Outputs: outputs}
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("invalid topology: %w", err)
	}
	return t, nil
}

func parseControlHeader(r *reader, h *topo.ControlHeader) error {
	bcd, err := r.u16()
	if err != nil {
		return err
	}
	if _, err := r.u16(); err != nil { // wTotalLength, unused: interface bounds already known
		return err
	}
	freq, err := r.u32()
	if err != nil {
		return err
	}
	n, err := r.u8()
	if err != nil {
		return err
	}
	ifaces := make([]uint8, n)
	for i := range ifaces {
		v, err := r.u8()
		if err != nil {
			return err
		}
		ifaces[i] = v
	}
	h.UVCVersion = bcd
	h.ClockFrequencyHz = freq
	h.StreamingInterfaces = ifaces
	return nil
}

func parseInputTerminal(r *reader, in *topo.InputTerminalDesc) error {
	id, err := r.nonzeroTermID()
	if err != nil {
		return err
	}
	termTypeRaw, err := r.u16()
	if err != nil {
		return err
	}
	termType := topo.InputTerminalType(termTypeRaw)
	assoc, err := r.optionalTermID()
	if err != nil {
		return err
	}
	str, err := r.u8()
	if err != nil {
		return err
	}
	in.TermID = id
	in.TermType = termType
	in.Assoc = assoc
	in.String = str

	if termType == topo.InputTerminalCamera {
		var cam topo.CameraTerminalDesc
		focalMin, err := r.u16()
		if err != nil {
			return err
		}
		focalMax, err := r.u16()
		if err != nil {
			return err
		}
		ocular, err := r.u16()
		if err != nil {
			return err
		}
		controls, _, err := r.lengthPrefixedBitmask()
		if err != nil {
			return err
		}
		cam.ObjectiveFocalLengthMin = focalMin
		cam.ObjectiveFocalLengthMax = focalMax
		cam.OcularFocalLength = ocular
		cam.Controls = topo.CameraControls(controls)
		in.Kind = topo.InputTerminalCameraKind{CameraTerminalDesc: cam}
		return nil
	}
	in.Kind = topo.InputTerminalOtherKind{}
	return nil
}

func parseOutputTerminal(r *reader, out *topo.OutputTerminalDesc) error {
	id, err := r.nonzeroTermID()
	if err != nil {
		return err
	}
	termTypeRaw, err := r.u16()
	if err != nil {
		return err
	}
	assoc, err := r.optionalTermID()
	if err != nil {
		return err
	}
	source, err := r.nonzeroSourceID()
	if err != nil {
		return err
	}
	str, err := r.u8()
	if err != nil {
		return err
	}
	out.TermID = id
	out.TermType = topo.OutputTerminalType(termTypeRaw)
	out.Assoc = assoc
	out.Source = source
	out.String = str
	return nil
}

func parseSelectorUnit(r *reader, su *topo.SelectorUnitDesc) error {
	raw, err := r.nonzeroUnitID()
	if err != nil {
		return err
	}
	n, err := r.u8()
	if err != nil {
		return err
	}
	inputs := make([]topo.SourceID, n)
	for i := range inputs {
		src, err := r.nonzeroSourceID()
		if err != nil {
			return err
		}
		inputs[i] = src
	}
	// iSelector string index follows; not modeled.
	su.ID = topo.SelectorUnitID{}
	su.Inputs = inputs
	_ = raw
	return setSelectorUnitID(su, raw)
}

// setSelectorUnitID works around SelectorUnitID's fields being unexported
// outside the topo package by round-tripping through the one constructor
// topo exposes for it.
func setSelectorUnitID(su *topo.SelectorUnitDesc, raw topo.UnitID) error {
	id, ok := topo.NewSelectorUnitID(raw)
	if !ok {
		return fmt.Errorf("bUnitID is not a selector unit")
	}
	su.ID = id
	return nil
}

func parseProcessingUnit(r *reader, pu *topo.ProcessingUnitDesc) error {
	raw, err := r.nonzeroUnitID()
	if err != nil {
		return err
	}
	source, err := r.nonzeroSourceID()
	if err != nil {
		return err
	}
	maxMul, err := r.u16()
	if err != nil {
		return err
	}
	controls, _, err := r.lengthPrefixedBitmask()
	if err != nil {
		return err
	}
	str, err := r.u8()
	if err != nil {
		return err
	}
	var standards uint8
	if r.remaining() > 0 {
		// bmVideoStandards is a UVC 1.5 addition; devices reporting the
		// older UVC 1.0/1.1 layout omit it.
		v, err := r.u8()
		if err != nil {
			return err
		}
		standards = v
	}
	id, ok := topo.NewProcessingUnitID(raw)
	if !ok {
		return fmt.Errorf("bUnitID is not a processing unit")
	}
	pu.ID = id
	pu.Source = source
	pu.MaxMultiplier = maxMul
	pu.Controls = topo.ProcessingUnitControls(controls)
	pu.String = str
	pu.VideoStandards = topo.VideoStandards(standards)
	return nil
}

func parseExtensionUnit(r *reader, eu *topo.ExtensionUnitDesc) error {
	raw, err := r.nonzeroUnitID()
	if err != nil {
		return err
	}
	guid, err := r.guid()
	if err != nil {
		return err
	}
	numControls, err := r.u8()
	if err != nil {
		return err
	}
	n, err := r.u8()
	if err != nil {
		return err
	}
	inputs := make([]topo.SourceID, n)
	for i := range inputs {
		src, err := r.nonzeroSourceID()
		if err != nil {
			return err
		}
		inputs[i] = src
	}
	controlSize, err := r.u8()
	if err != nil {
		return err
	}
	bitmap, err := r.bytes(int(controlSize))
	if err != nil {
		return err
	}
	id, ok := topo.NewExtensionUnitID(raw)
	if !ok {
		return fmt.Errorf("bUnitID is not an extension unit")
	}
	eu.ID = id
	eu.ExtensionCode = guid
	eu.NumControls = numControls
	eu.Inputs = inputs
	eu.ControlsBitmap = bitmap
	return nil
}

// ParseStreamingInterface parses the class-specific descriptor bytes of a
// Video Streaming interface into a StreamingInterfaceDesc. ifaceID is the
// interface's own bInterfaceNumber.
func ParseStreamingInterface(extra []byte, ifaceID topo.StreamingInterfaceID) (*topo.StreamingInterfaceDesc, error) {
	spans := splitDescriptors(extra)
	var (
		kind    topo.StreamingInterfaceKind
		formats []topo.Format
		frames  []topo.Frame
	)
	var currentFormatIndex topo.FormatIndex
	for _, span := range spans {
		desc := extra[span[0]:span[1]]
		if len(desc) < 3 || desc[1] != csInterfaceDescriptorType {
			continue
		}
		subtype := desc[2]
		payload := desc[3:]
		switch subtype {
		case vsInputHeader:
			var h topo.InputHeader
			err := withFallback(payload, func(r *reader) error {
				return parseInputHeader(r, &h)
			})
			if err != nil {
				return nil, fmt.Errorf("parsing VS_INPUT_HEADER: %w", err)
			}
			kind = topo.InputHeaderKind{InputHeader: h}
		case vsOutputHeader:
			kind = topo.InputHeaderKind{} // placeholder: output streaming is out of scope
		case vsFormatUncompressed:
			var f topo.FormatUncompressed
			var idx topo.FormatIndex
			var numFrames uint8
			err := withFallback(payload, func(r *reader) error {
				i, n, err := parseFormatUncompressed(r, &f)
				idx, numFrames = i, n
				return err
			})
			if err != nil {
				return nil, fmt.Errorf("parsing VS_FORMAT_UNCOMPRESSED: %w", err)
			}
			currentFormatIndex = idx
			formats = append(formats, topo.Format{
				Index:               idx,
				NumFrameDescriptors: numFrames,
				Kind:                topo.FormatUncompressedKind{FormatUncompressed: f},
			})
		case vsFrameUncompressed:
			var f topo.FrameUncompressed
			var idx topo.FrameIndex
			err := withFallback(payload, func(r *reader) error {
				i, err := parseFrameUncompressed(r, &f)
				idx = i
				return err
			})
			if err != nil {
				return nil, fmt.Errorf("parsing VS_FRAME_UNCOMPRESSED: %w", err)
			}
			_ = currentFormatIndex
			frames = append(frames, topo.Frame{Index: idx, Kind: topo.FrameUncompressedKind{FrameUncompressed: f}})
		default:
			if name, ok := vsSubtypeNames[subtype]; ok {
				log.Printf("govuc: VS descriptor subtype %s is recognized but not parsed, skipping", name)
			} else {
				log.Printf("govuc: unrecognized VS descriptor subtype 0x%.2X, skipping", subtype)
			}
		}
	}
	if kind == nil {
		return nil, fmt.Errorf("streaming interface has no VS_INPUT_HEADER/VS_OUTPUT_HEADER descriptor")
	}
	return &topo.StreamingInterfaceDesc{ID: ifaceID, Kind: kind, Formats: formats, Frames: frames}, nil
}

func parseInputHeader(r *reader, h *topo.InputHeader) error {
	numFormats, err := r.u8()
	if err != nil {
		return err
	}
	totalLen, err := r.u16()
	if err != nil {
		return err
	}
	ep, err := r.u8()
	if err != nil {
		return err
	}
	info, err := r.u8()
	if err != nil {
		return err
	}
	link, err := r.nonzeroTermID()
	if err != nil {
		return err
	}
	stillMethod, err := r.u8()
	if err != nil {
		return err
	}
	triggerSupport, err := r.u8()
	if err != nil {
		return err
	}
	triggerUsage, err := r.u8()
	if err != nil {
		return err
	}
	controlSize, err := r.u8()
	if err != nil {
		return err
	}
	formatControls := make([]topo.PerFormatControls, numFormats)
	for i := range formatControls {
		mask, err := r.bitmask(controlSize)
		if err != nil {
			return err
		}
		formatControls[i] = topo.PerFormatControls(mask)
	}
	h.TotalLength = totalLen
	h.EndpointAddress = ep
	h.Info = topo.InputInterfaceInfo(info)
	h.TerminalLink = link
	h.StillCaptureMethod = topo.StillCaptureMethod(stillMethod)
	h.TriggerSupport = topo.TriggerSupport(triggerSupport)
	h.TriggerUsage = topo.TriggerUsage(triggerUsage)
	h.FormatControls = formatControls
	return nil
}

func parseFormatUncompressed(r *reader, f *topo.FormatUncompressed) (topo.FormatIndex, uint8, error) {
	idx, err := r.u8()
	if err != nil {
		return 0, 0, err
	}
	numFrames, err := r.u8()
	if err != nil {
		return 0, 0, err
	}
	guid, err := r.guid()
	if err != nil {
		return 0, 0, err
	}
	bpp, err := r.u8()
	if err != nil {
		return 0, 0, err
	}
	defaultFrame, err := r.u8()
	if err != nil {
		return 0, 0, err
	}
	arX, err := r.u8()
	if err != nil {
		return 0, 0, err
	}
	arY, err := r.u8()
	if err != nil {
		return 0, 0, err
	}
	interlace, err := r.u8()
	if err != nil {
		return 0, 0, err
	}
	copyProtect, err := r.u8()
	if err != nil {
		return 0, 0, err
	}
	f.GUID = guid
	f.BitsPerPixel = bpp
	f.DefaultFrameIndex = topo.FrameIndex(defaultFrame)
	f.AspectRatioX = arX
	f.AspectRatioY = arY
	f.InterlaceFlags = topo.InterlaceFlags(interlace)
	f.CopyProtect = copyProtect
	return topo.FormatIndex(idx), numFrames, nil
}

func parseFrameUncompressed(r *reader, f *topo.FrameUncompressed) (topo.FrameIndex, error) {
	idx, err := r.u8()
	if err != nil {
		return 0, err
	}
	caps, err := r.u8()
	if err != nil {
		return 0, err
	}
	width, err := r.u16()
	if err != nil {
		return 0, err
	}
	height, err := r.u16()
	if err != nil {
		return 0, err
	}
	minBitRate, err := r.u32()
	if err != nil {
		return 0, err
	}
	maxBitRate, err := r.u32()
	if err != nil {
		return 0, err
	}
	maxFrameBufSize, err := r.u32()
	if err != nil {
		return 0, err
	}
	defaultInterval, err := r.time100ns()
	if err != nil {
		return 0, err
	}
	intervalType, err := r.u8()
	if err != nil {
		return 0, err
	}
	var intervals topo.SupportedFrameIntervals
	if intervalType == 0 {
		min, err := r.time100ns()
		if err != nil {
			return 0, err
		}
		max, err := r.time100ns()
		if err != nil {
			return 0, err
		}
		step, err := r.time100ns()
		if err != nil {
			return 0, err
		}
		intervals = topo.ContinuousFrameIntervals{Min: min, Max: max, Step: step}
	} else {
		discrete := make([]time.Duration, intervalType)
		for i := range discrete {
			v, err := r.time100ns()
			if err != nil {
				return 0, err
			}
			discrete[i] = v
		}
		intervals = topo.DiscreteFrameIntervals{Intervals: discrete}
	}
	f.Capabilities = topo.UncompressedFrameCapabilities(caps)
	f.Width = width
	f.Height = height
	f.MinBitRate = minBitRate
	f.MaxBitRate = maxBitRate
	f.MaxVideoFrameBufferSize = maxFrameBufSize
	f.DefaultFrameInterval = defaultInterval
	f.FrameIntervals = intervals
	return topo.FrameIndex(idx), nil
}
