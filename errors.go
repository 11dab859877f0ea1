package govuc

import "fmt"

// Action names the operation govuc was performing when an Error occurred.
// Unlike the teacher's single undifferentiated USB error (device.go wraps
// every syscall failure the same way), UVC control access has enough
// distinct failure phases that a caller benefits from knowing which one it
// was in — whether a write timed out negotiating a stream versus reading a
// device string.
type Action uint8

const (
	ActionAccessingDeviceDescriptor Action = iota
	ActionEnumeratingDevices
	ActionOpeningDevice
	ActionReadingDeviceString
	ActionReadingControl
	ActionWritingControl
	ActionStreamNegotiation
	ActionStreamRead
)

func (a Action) String() string {
	switch a {
	case ActionAccessingDeviceDescriptor:
		return "accessing device descriptor"
	case ActionEnumeratingDevices:
		return "enumerating USB devices"
	case ActionOpeningDevice:
		return "opening UVC device"
	case ActionReadingDeviceString:
		return "reading device strings"
	case ActionReadingControl:
		return "reading a device control"
	case ActionWritingControl:
		return "writing a device control"
	case ActionStreamNegotiation:
		return "negotiating stream parameters"
	case ActionStreamRead:
		return "reading from the video stream"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(a))
	}
}

// ErrorKind classifies the underlying cause of an Error, independent of
// which Action was in progress: a caller deciding whether to retry or give
// up cares whether a control read timed out on the wire versus a device
// handing back a descriptor govuc cannot parse.
type ErrorKind uint8

const (
	// KindOther is any failure that isn't one of the more specific kinds
	// below (bad arguments, a state-machine violation, …).
	KindOther ErrorKind = iota
	// KindTransport is a USBHandle/Transport call failing outright: open,
	// claim, control transfer, or a control transfer timing out.
	KindTransport
	// KindIO is a short or failed bulk transfer once a stream is already
	// negotiated and running.
	KindIO
	// KindDescriptorParse is malformed or internally inconsistent
	// descriptor bytes: a class-specific descriptor that doesn't parse,
	// or a topology that fails its cross-reference invariants.
	KindDescriptorParse
)

func (k ErrorKind) String() string {
	switch k {
	case KindOther:
		return "other"
	case KindTransport:
		return "transport error"
	case KindIO:
		return "I/O error"
	case KindDescriptorParse:
		return "descriptor parse error"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(k))
	}
}

// Error wraps a lower-level transport or parse error with the Action that
// was in progress and the Kind of failure it was.
type Error struct {
	Action Action
	Kind   ErrorKind
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s while %s: %v", e.Kind, e.Action, e.Err)
}

// Unwrap exposes the underlying error so callers can errors.Is/errors.As
// against it (a context.DeadlineExceeded-shaped sentinel from a Transport,
// for instance).
func (e *Error) Unwrap() error { return e.Err }

// during wraps err, if non-nil, with the given Action and Kind.
func during(err error, action Action, kind ErrorKind) error {
	if err == nil {
		return nil
	}
	return &Error{Action: action, Kind: kind, Err: err}
}
