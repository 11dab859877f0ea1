package govuc

import (
	"fmt"
	"io"

	"github.com/daedaluz/govuc/control"
	"github.com/daedaluz/govuc/topo"
)

// Video Streaming interface control selectors (UVC 1.5 §A.9.7/A.9.8).
const (
	vsProbeControl  uint8 = 0x01
	vsCommitControl uint8 = 0x02
)

// streamState tracks Device's idle -> negotiated -> streaming -> idle
// lifecycle.
type streamState uint8

const (
	streamStateIdle streamState = iota
	streamStateNegotiated
	streamStateStreaming
)

// Stream is a negotiated video stream: an io.Reader bound to a streaming
// interface's bulk-IN endpoint. Obtain one with Device.StartStream or
// Device.StartStreamNoNegotiate.
type Stream struct {
	dev      *Device
	iface    *topo.StreamingInterfaceDesc
	endpoint uint8
	params   control.ProbeCommitControls
}

// Params returns the negotiated (or, for StartStreamNoNegotiate, assumed)
// Probe/Commit parameters governing this stream.
func (s *Stream) Params() control.ProbeCommitControls { return s.params }

// Read reads one bulk-IN transfer's worth of raw payload bytes (a UVC
// payload header followed by however much frame data fit). govuc does not
// reassemble payloads into frames or decode them; that is left to the
// caller, per its own payload-format Non-goal. A failed bulk transfer is
// retried once, as ctrlIn/ctrlOut do (see retryTimeout).
func (s *Stream) Read(buf []byte) (int, error) {
	var n int
	var err error
	for attempt := 0; attempt <= retryTimeout; attempt++ {
		n, err = s.dev.handle.BulkIn(s.endpoint, buf, s.dev.Timeout)
		if err == nil {
			return n, nil
		}
	}
	return n, during(err, ActionStreamRead, KindIO)
}

// Close transitions the Device back to idle. The underlying Device and its
// other interfaces remain open.
func (s *Stream) Close() error {
	s.dev.state = streamStateIdle
	return nil
}

var _ io.Reader = (*Stream)(nil)

// StartStream negotiates stream parameters for (formatIndex, frameIndex) via
// Probe/Commit (UVC 1.5 §4.3.1.1) and returns a Stream reading the
// resulting payload. The six-step handshake is: SET_CUR(Probe) with the
// requested format/frame, GET_CUR(Probe) to read back what the device
// actually committed to, then SET_CUR(Commit) with that same value.
func (d *Device) StartStream(ifaceID topo.StreamingInterfaceID, formatIndex topo.FormatIndex, frameIndex topo.FrameIndex) (*Stream, error) {
	iface, ok := d.StreamingInterfaceByID(ifaceID)
	if !ok {
		return nil, fmt.Errorf("govuc: %v is not a streaming interface on this device", ifaceID)
	}
	frame, ok := iface.FrameByIndex(frameIndex)
	if !ok {
		return nil, fmt.Errorf("govuc: frame index %d not found on streaming interface %v", frameIndex, ifaceID)
	}
	fu, ok := frame.Kind.(topo.FrameUncompressedKind)
	if !ok {
		return nil, fmt.Errorf("govuc: frame %d is not an uncompressed frame descriptor", frameIndex)
	}

	request := control.ProbeCommitControls{
		FormatIndex:   uint8(formatIndex),
		FrameIndex:    uint8(frameIndex),
		FrameInterval: fu.DefaultFrameInterval,
	}

	ifaceNum := uint8(ifaceID)
	buf := make([]byte, control.ProbeCommitWireSize)
	control.ProbeCommit.Encode(request, buf)
	if err := d.streamCtrlOut(ifaceNum, RequestSetCur, vsProbeControl, buf, ActionStreamNegotiation); err != nil {
		return nil, err
	}

	n, err := d.streamCtrlIn(ifaceNum, RequestGetCur, vsProbeControl, buf, ActionStreamNegotiation)
	if err != nil {
		return nil, err
	}
	if n < control.ProbeCommitWireSize {
		return nil, during(fmt.Errorf("GET_CUR(PROBE) returned %d bytes, expected %d", n, control.ProbeCommitWireSize), ActionStreamNegotiation, KindTransport)
	}
	committed := control.ProbeCommit.Decode(buf)

	if err := d.streamCtrlOut(ifaceNum, RequestSetCur, vsCommitControl, buf, ActionStreamNegotiation); err != nil {
		return nil, err
	}

	d.state = streamStateNegotiated
	stream := &Stream{dev: d, iface: iface, endpoint: iface.EndpointAddress(), params: committed}
	d.state = streamStateStreaming
	return stream, nil
}

// StartStreamNoNegotiate skips Probe/Commit entirely and opens a Stream
// against whatever parameters the device is already configured with (for a
// device that rejects renegotiation, or one already configured by another
// process). params is recorded on the returned Stream for reference only;
// it is never sent to the device.
func (d *Device) StartStreamNoNegotiate(ifaceID topo.StreamingInterfaceID, params control.ProbeCommitControls) (*Stream, error) {
	iface, ok := d.StreamingInterfaceByID(ifaceID)
	if !ok {
		return nil, fmt.Errorf("govuc: %v is not a streaming interface on this device", ifaceID)
	}
	d.state = streamStateStreaming
	return &Stream{dev: d, iface: iface, endpoint: iface.EndpointAddress(), params: params}, nil
}
