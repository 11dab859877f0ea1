package control

import (
	"testing"
	"time"
)

func TestCodecRoundTrip(t *testing.T) {
	buf := make([]byte, 4)

	if got := decodeEncode(t, Bool, true, buf[:1]); got != true {
		t.Errorf("Bool round-trip = %v, want true", got)
	}
	if got := decodeEncode(t, U8, uint8(0xAB), buf[:1]); got != 0xAB {
		t.Errorf("U8 round-trip = %v, want 0xAB", got)
	}
	if got := decodeEncode(t, I8, int8(-5), buf[:1]); got != -5 {
		t.Errorf("I8 round-trip = %v, want -5", got)
	}
	if got := decodeEncode(t, U16, uint16(0x1234), buf[:2]); got != 0x1234 {
		t.Errorf("U16 round-trip = %v, want 0x1234", got)
	}
	if got := decodeEncode(t, I16, int16(-1000), buf[:2]); got != -1000 {
		t.Errorf("I16 round-trip = %v, want -1000", got)
	}
	if got := decodeEncode(t, U32, uint32(0xDEADBEEF), buf[:4]); got != 0xDEADBEEF {
		t.Errorf("U32 round-trip = %v, want 0xDEADBEEF", got)
	}
}

func decodeEncode[T comparable](t *testing.T, codec Codec[T], value T, buf []byte) T {
	t.Helper()
	codec.Encode(value, buf)
	return codec.Decode(buf)
}

func TestBoolDecodeInvalidValueLogsAndTreatsAsTrue(t *testing.T) {
	if got := Bool.Decode([]byte{0xFF}); got != true {
		t.Errorf("Bool.Decode(0xFF) = %v, want true", got)
	}
}

func TestPowerLineFrequencyDecodeInvalidFallsBackToDisabled(t *testing.T) {
	if got := PowerLineFreq.Decode([]byte{0xFF}); got != PowerLineFrequencyDisabled {
		t.Errorf("PowerLineFreq.Decode(0xFF) = %v, want Disabled", got)
	}
}

func TestProbeCommitWireLayout(t *testing.T) {
	v := ProbeCommitControls{
		Hint:                   ProbeHintFixFrameInterval,
		FormatIndex:            1,
		FrameIndex:             2,
		FrameInterval:          333333 * 100 * time.Nanosecond, // 333333 hundred-ns units
		KeyFrameRate:           0,
		PFrameRate:             0,
		CompQuality:            0,
		CompWindowSize:         0,
		Delay:                  0,
		MaxVideoFrameSize:      0x00030000,
		MaxPayloadTransferSize: 3072,
	}
	buf := make([]byte, ProbeCommitWireSize)
	ProbeCommit.Encode(v, buf)

	if buf[0] != 1 || buf[1] != 0 {
		t.Fatalf("bmHint bytes = %v, want [1 0]", buf[0:2])
	}
	if buf[2] != 1 {
		t.Fatalf("bFormatIndex = %d, want 1", buf[2])
	}
	if buf[3] != 2 {
		t.Fatalf("bFrameIndex = %d, want 2", buf[3])
	}

	got := ProbeCommit.Decode(buf)
	if got != v {
		t.Fatalf("round-trip = %+v, want %+v", got, v)
	}
}

func TestExposureTimeFromDurationClampsBelowOneUnit(t *testing.T) {
	if got := ExposureTimeFromDuration(0); got != 1 {
		t.Errorf("ExposureTimeFromDuration(0) = %d, want 1", got)
	}
}
