package govuc

// RequestType is the bmRequestType byte of a USB control transfer: direction,
// type, and recipient bits, exactly as the teacher's RequestType models the
// standard USB request byte.
type RequestType uint8

const (
	requestDirectionIn  RequestType = 0b10000000
	requestDirectionOut RequestType = 0b00000000
	requestTypeClass    RequestType = 0b00100000
	requestRecipientIface RequestType = 0b00000001
)

// bmRequestType for UVC's class-specific, interface-recipient control
// requests (UVC 1.5 §4.2.1).
const (
	reqTypeSet RequestType = requestDirectionOut | requestTypeClass | requestRecipientIface
	reqTypeGet RequestType = requestDirectionIn | requestTypeClass | requestRecipientIface
)

// Request is the bRequest byte of a UVC control transfer (UVC 1.5 §4.2.1,
// Table 4-43).
type Request uint8

const (
	RequestUndefined Request = 0x00
	RequestSetCur    Request = 0x01
	RequestGetCur    Request = 0x81
	RequestGetMin    Request = 0x82
	RequestGetMax    Request = 0x83
	RequestGetRes    Request = 0x84
	RequestGetLen    Request = 0x85
	RequestGetInfo   Request = 0x86
	RequestGetDef    Request = 0x87
)

func (r Request) isGet() bool {
	switch r {
	case RequestGetCur, RequestGetMin, RequestGetMax, RequestGetRes, RequestGetLen, RequestGetInfo, RequestGetDef:
		return true
	default:
		return false
	}
}
