package govuc

import (
	"fmt"

	"github.com/daedaluz/govuc/control"
	"github.com/daedaluz/govuc/topo"
)

// Camera Terminal control selectors (UVC 1.5 §A.9.4).
const (
	csScanningMode           uint8 = 0x01
	csAutoExposureMode       uint8 = 0x02
	csAutoExposurePriority   uint8 = 0x03
	csExposureTimeAbsolute   uint8 = 0x04
	csExposureTimeRelative   uint8 = 0x05
	csFocusAbsolute          uint8 = 0x06
	csFocusRelative          uint8 = 0x07
	csIrisAbsolute           uint8 = 0x08
	csIrisRelative           uint8 = 0x09
	csZoomAbsolute           uint8 = 0x0A
	csZoomRelative           uint8 = 0x0B
	csPanTiltAbsolute        uint8 = 0x0C
	csPanTiltRelative        uint8 = 0x0D
	csRollAbsolute           uint8 = 0x0E
	csRollRelative           uint8 = 0x0F
	csFocusAuto              uint8 = 0x10
	csPrivacy                uint8 = 0x11
	csFocusSimple            uint8 = 0x12
	csWindow                 uint8 = 0x13
	csRegionOfInterest       uint8 = 0x14
)

// CameraTerminal is the typed control accessor for a Camera Terminal. Get
// one with Device.CameraTerminal.
type CameraTerminal struct {
	dev  *Device
	id   topo.CameraID
	desc *topo.CameraTerminalDesc
}

// CameraTerminal validates id against the device's topology and returns an
// accessor for it.
func (d *Device) CameraTerminal(id topo.CameraID) (*CameraTerminal, error) {
	desc, ok := d.info.control.topo.CameraTerminalByID(id)
	if !ok {
		return nil, fmt.Errorf("govuc: %v is not a camera terminal in this device's topology", id)
	}
	return &CameraTerminal{dev: d, id: id, desc: desc}, nil
}

// Controls reports which controls the terminal's bmControls bitmap
// declares as supported. A control not set here is still sent to the
// device if accessed (govuc does not pre-validate against it); a device
// that rejects it makes the accessor return an Error of kind KindTransport.
func (c *CameraTerminal) Controls() topo.CameraControls { return c.desc.Controls }

func readCameraControl[T any](c *CameraTerminal, codec control.Codec[T], request Request, selector uint8) (T, error) {
	buf := make([]byte, codec.Size)
	_, err := c.dev.ctrlIn(request, selector, uint8(c.id.TermID()), buf, ActionReadingControl)
	var zero T
	if err != nil {
		return zero, err
	}
	return codec.Decode(buf), nil
}

func setCameraControl[T any](c *CameraTerminal, codec control.Codec[T], selector uint8, value T) error {
	buf := make([]byte, codec.Size)
	codec.Encode(value, buf)
	return c.dev.ctrlOut(RequestSetCur, selector, uint8(c.id.TermID()), buf, ActionWritingControl)
}

// AutoExposureMode reads the CT_AE_MODE control's current value.
func (c *CameraTerminal) AutoExposureMode() (control.AutoExposureMode, error) {
	return readCameraControl(c, control.AutoExposure, RequestGetCur, csAutoExposureMode)
}

// SetAutoExposureMode writes the CT_AE_MODE control.
func (c *CameraTerminal) SetAutoExposureMode(v control.AutoExposureMode) error {
	return setCameraControl(c, control.AutoExposure, csAutoExposureMode, v)
}

// AutoExposurePriority reads the CT_AE_PRIORITY control.
func (c *CameraTerminal) AutoExposurePriority() (bool, error) {
	return readCameraControl(c, control.Bool, RequestGetCur, csAutoExposurePriority)
}

// SetAutoExposurePriority writes the CT_AE_PRIORITY control.
func (c *CameraTerminal) SetAutoExposurePriority(v bool) error {
	return setCameraControl(c, control.Bool, csAutoExposurePriority, v)
}

// ExposureTimeAbsolute reads the CT_EXPOSURE_TIME_ABSOLUTE control.
func (c *CameraTerminal) ExposureTimeAbsolute() (control.ExposureTimeAbs, error) {
	return readCameraControl(c, control.ExposureTime, RequestGetCur, csExposureTimeAbsolute)
}

// SetExposureTimeAbsolute writes the CT_EXPOSURE_TIME_ABSOLUTE control.
func (c *CameraTerminal) SetExposureTimeAbsolute(v control.ExposureTimeAbs) error {
	return setCameraControl(c, control.ExposureTime, csExposureTimeAbsolute, v)
}

// ExposureTimeAbsoluteRange reads GET_MIN/GET_MAX for CT_EXPOSURE_TIME_ABSOLUTE.
func (c *CameraTerminal) ExposureTimeAbsoluteRange() (min, max control.ExposureTimeAbs, err error) {
	min, err = readCameraControl(c, control.ExposureTime, RequestGetMin, csExposureTimeAbsolute)
	if err != nil {
		return
	}
	max, err = readCameraControl(c, control.ExposureTime, RequestGetMax, csExposureTimeAbsolute)
	return
}

// FocusAbsolute reads the CT_FOCUS_ABSOLUTE control.
func (c *CameraTerminal) FocusAbsolute() (uint16, error) {
	return readCameraControl(c, control.U16, RequestGetCur, csFocusAbsolute)
}

// SetFocusAbsolute writes the CT_FOCUS_ABSOLUTE control.
func (c *CameraTerminal) SetFocusAbsolute(v uint16) error {
	return setCameraControl(c, control.U16, csFocusAbsolute, v)
}

// SetFocusRelative writes the CT_FOCUS_RELATIVE control (a one-shot
// step+speed move, not a persistent value).
func (c *CameraTerminal) SetFocusRelative(v control.FocusRel) error {
	return setCameraControl(c, control.FocusRelCodec, csFocusRelative, v)
}

// FocusAuto reads the CT_FOCUS_AUTO control.
func (c *CameraTerminal) FocusAuto() (bool, error) {
	return readCameraControl(c, control.Bool, RequestGetCur, csFocusAuto)
}

// SetFocusAuto writes the CT_FOCUS_AUTO control.
func (c *CameraTerminal) SetFocusAuto(v bool) error {
	return setCameraControl(c, control.Bool, csFocusAuto, v)
}

// ZoomAbsolute reads the CT_ZOOM_ABSOLUTE control.
func (c *CameraTerminal) ZoomAbsolute() (uint16, error) {
	return readCameraControl(c, control.U16, RequestGetCur, csZoomAbsolute)
}

// SetZoomAbsolute writes the CT_ZOOM_ABSOLUTE control.
func (c *CameraTerminal) SetZoomAbsolute(v uint16) error {
	return setCameraControl(c, control.U16, csZoomAbsolute, v)
}

// PanTiltAbsolute reads the CT_PANTILT_ABSOLUTE control: signed pan and
// tilt, each in 1/3600 of a degree.
func (c *CameraTerminal) PanTiltAbsolute() (pan, tilt int32, err error) {
	buf := make([]byte, 8)
	_, err = c.dev.ctrlIn(RequestGetCur, csPanTiltAbsolute, uint8(c.id.TermID()), buf, ActionReadingControl)
	if err != nil {
		return 0, 0, err
	}
	pan = int32(control.U32.Decode(buf[0:4]))
	tilt = int32(control.U32.Decode(buf[4:8]))
	return
}

// SetPanTiltAbsolute writes the CT_PANTILT_ABSOLUTE control.
func (c *CameraTerminal) SetPanTiltAbsolute(pan, tilt int32) error {
	buf := make([]byte, 8)
	control.U32.Encode(uint32(pan), buf[0:4])
	control.U32.Encode(uint32(tilt), buf[4:8])
	return c.dev.ctrlOut(RequestSetCur, csPanTiltAbsolute, uint8(c.id.TermID()), buf, ActionWritingControl)
}

// Privacy reads the CT_PRIVACY control.
func (c *CameraTerminal) Privacy() (bool, error) {
	return readCameraControl(c, control.Bool, RequestGetCur, csPrivacy)
}

// SetPrivacy writes the CT_PRIVACY control.
func (c *CameraTerminal) SetPrivacy(v bool) error {
	return setCameraControl(c, control.Bool, csPrivacy, v)
}

// FocusSimple reads the CT_FOCUS_SIMPLE control.
func (c *CameraTerminal) FocusSimple() (control.FocusSimple, error) {
	return readCameraControl(c, control.FocusSimpleCodec, RequestGetCur, csFocusSimple)
}

// SetFocusSimple writes the CT_FOCUS_SIMPLE control.
func (c *CameraTerminal) SetFocusSimple(v control.FocusSimple) error {
	return setCameraControl(c, control.FocusSimpleCodec, csFocusSimple, v)
}

// ScanningMode reads the CT_SCANNING_MODE control: false is interlaced,
// true is progressive.
func (c *CameraTerminal) ScanningMode() (bool, error) {
	return readCameraControl(c, control.Bool, RequestGetCur, csScanningMode)
}

// SetScanningMode writes the CT_SCANNING_MODE control.
func (c *CameraTerminal) SetScanningMode(v bool) error {
	return setCameraControl(c, control.Bool, csScanningMode, v)
}

// SetExposureTimeRelative writes the CT_EXPOSURE_TIME_RELATIVE control (a
// one-shot step, not a persistent value).
func (c *CameraTerminal) SetExposureTimeRelative(v int8) error {
	return setCameraControl(c, control.I8, csExposureTimeRelative, v)
}

// IrisAbsolute reads the CT_IRIS_ABSOLUTE control.
func (c *CameraTerminal) IrisAbsolute() (control.IrisAbs, error) {
	return readCameraControl(c, control.IrisAbsolute, RequestGetCur, csIrisAbsolute)
}

// SetIrisAbsolute writes the CT_IRIS_ABSOLUTE control.
func (c *CameraTerminal) SetIrisAbsolute(v control.IrisAbs) error {
	return setCameraControl(c, control.IrisAbsolute, csIrisAbsolute, v)
}

// SetIrisRelative writes the CT_IRIS_RELATIVE control (a one-shot step).
func (c *CameraTerminal) SetIrisRelative(v control.IrisRel) error {
	return setCameraControl(c, control.IrisRelative, csIrisRelative, v)
}

// SetZoomRelative writes the CT_ZOOM_RELATIVE control (a one-shot move).
func (c *CameraTerminal) SetZoomRelative(v control.ZoomRel) error {
	return setCameraControl(c, control.ZoomRelCodec, csZoomRelative, v)
}

// SetPanTiltRelative writes the CT_PANTILT_RELATIVE control (a one-shot
// move on both axes).
func (c *CameraTerminal) SetPanTiltRelative(v control.PanTiltRel) error {
	return setCameraControl(c, control.PanTiltRelCodec, csPanTiltRelative, v)
}

// RollAbsolute reads the CT_ROLL_ABSOLUTE control.
func (c *CameraTerminal) RollAbsolute() (control.RollAbs, error) {
	return readCameraControl(c, control.RollAbsoluteCodec, RequestGetCur, csRollAbsolute)
}

// SetRollAbsolute writes the CT_ROLL_ABSOLUTE control.
func (c *CameraTerminal) SetRollAbsolute(v control.RollAbs) error {
	return setCameraControl(c, control.RollAbsoluteCodec, csRollAbsolute, v)
}

// SetRollRelative writes the CT_ROLL_RELATIVE control (a one-shot step).
func (c *CameraTerminal) SetRollRelative(v control.RollRel) error {
	return setCameraControl(c, control.RollRelCodec, csRollRelative, v)
}

// Window reads the CT_WINDOW control.
func (c *CameraTerminal) Window() (control.Window, error) {
	return readCameraControl(c, control.WindowCodec, RequestGetCur, csWindow)
}

// SetWindow writes the CT_WINDOW control.
func (c *CameraTerminal) SetWindow(v control.Window) error {
	return setCameraControl(c, control.WindowCodec, csWindow, v)
}

// RegionOfInterest reads the CT_REGION_OF_INTEREST control.
func (c *CameraTerminal) RegionOfInterest() (control.RegionOfInterest, error) {
	return readCameraControl(c, control.RegionOfInterestCodec, RequestGetCur, csRegionOfInterest)
}

// SetRegionOfInterest writes the CT_REGION_OF_INTEREST control.
func (c *CameraTerminal) SetRegionOfInterest(v control.RegionOfInterest) error {
	return setCameraControl(c, control.RegionOfInterestCodec, csRegionOfInterest, v)
}
