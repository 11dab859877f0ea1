package govuc

import (
	"fmt"

	"github.com/daedaluz/govuc/control"
	"github.com/daedaluz/govuc/topo"
)

// Processing Unit control selectors (UVC 1.5 §A.9.5).
const (
	puBacklightCompensation           uint8 = 0x01
	puBrightness                      uint8 = 0x02
	puContrast                        uint8 = 0x03
	puGain                            uint8 = 0x04
	puPowerLineFrequency              uint8 = 0x05
	puHue                             uint8 = 0x06
	puSaturation                      uint8 = 0x07
	puSharpness                       uint8 = 0x08
	puGamma                           uint8 = 0x09
	puWhiteBalanceTemperature         uint8 = 0x0A
	puWhiteBalanceTemperatureAuto     uint8 = 0x0B
	puWhiteBalanceComponent           uint8 = 0x0C
	puWhiteBalanceComponentAuto       uint8 = 0x0D
	puDigitalMultiplier               uint8 = 0x0E
	puDigitalMultiplierLimit          uint8 = 0x0F
	puHueAuto                         uint8 = 0x10
	puAnalogVideoStandard             uint8 = 0x11
	puAnalogVideoLockStatus           uint8 = 0x12
	puContrastAuto                    uint8 = 0x13
)

// ProcessingUnit is the typed control accessor for a Processing Unit. Get
// one with Device.ProcessingUnit.
type ProcessingUnit struct {
	dev  *Device
	id   topo.ProcessingUnitID
	desc *topo.ProcessingUnitDesc
}

// ProcessingUnit validates id against the device's topology and returns an
// accessor for it.
func (d *Device) ProcessingUnit(id topo.ProcessingUnitID) (*ProcessingUnit, error) {
	desc, ok := d.info.control.topo.ProcessingUnitByID(id)
	if !ok {
		return nil, fmt.Errorf("govuc: %v is not a processing unit in this device's topology", id)
	}
	return &ProcessingUnit{dev: d, id: id, desc: desc}, nil
}

// Controls reports which controls the unit's bmControls bitmap declares as
// supported.
func (p *ProcessingUnit) Controls() topo.ProcessingUnitControls { return p.desc.Controls }

func readProcessingControl[T any](p *ProcessingUnit, codec control.Codec[T], request Request, selector uint8) (T, error) {
	buf := make([]byte, codec.Size)
	_, err := p.dev.ctrlIn(request, selector, uint8(p.id.UnitID()), buf, ActionReadingControl)
	var zero T
	if err != nil {
		return zero, err
	}
	return codec.Decode(buf), nil
}

func setProcessingControl[T any](p *ProcessingUnit, codec control.Codec[T], selector uint8, value T) error {
	buf := make([]byte, codec.Size)
	codec.Encode(value, buf)
	return p.dev.ctrlOut(RequestSetCur, selector, uint8(p.id.UnitID()), buf, ActionWritingControl)
}

// Brightness reads the PU_BRIGHTNESS control.
func (p *ProcessingUnit) Brightness() (int16, error) {
	return readProcessingControl(p, control.I16, RequestGetCur, puBrightness)
}

// SetBrightness writes the PU_BRIGHTNESS control.
func (p *ProcessingUnit) SetBrightness(v int16) error {
	return setProcessingControl(p, control.I16, puBrightness, v)
}

// BrightnessRange reads GET_MIN/GET_MAX/GET_RES for PU_BRIGHTNESS.
func (p *ProcessingUnit) BrightnessRange() (min, max, step int16, err error) {
	min, err = readProcessingControl(p, control.I16, RequestGetMin, puBrightness)
	if err != nil {
		return
	}
	max, err = readProcessingControl(p, control.I16, RequestGetMax, puBrightness)
	if err != nil {
		return
	}
	step, err = readProcessingControl(p, control.I16, RequestGetRes, puBrightness)
	return
}

// Contrast reads the PU_CONTRAST control.
func (p *ProcessingUnit) Contrast() (uint16, error) {
	return readProcessingControl(p, control.U16, RequestGetCur, puContrast)
}

// SetContrast writes the PU_CONTRAST control.
func (p *ProcessingUnit) SetContrast(v uint16) error {
	return setProcessingControl(p, control.U16, puContrast, v)
}

// ContrastAuto reads the PU_CONTRAST_AUTO control.
func (p *ProcessingUnit) ContrastAuto() (bool, error) {
	return readProcessingControl(p, control.Bool, RequestGetCur, puContrastAuto)
}

// SetContrastAuto writes the PU_CONTRAST_AUTO control.
func (p *ProcessingUnit) SetContrastAuto(v bool) error {
	return setProcessingControl(p, control.Bool, puContrastAuto, v)
}

// Hue reads the PU_HUE control.
func (p *ProcessingUnit) Hue() (int16, error) {
	return readProcessingControl(p, control.I16, RequestGetCur, puHue)
}

// SetHue writes the PU_HUE control.
func (p *ProcessingUnit) SetHue(v int16) error {
	return setProcessingControl(p, control.I16, puHue, v)
}

// HueAuto reads the PU_HUE_AUTO control.
func (p *ProcessingUnit) HueAuto() (bool, error) {
	return readProcessingControl(p, control.Bool, RequestGetCur, puHueAuto)
}

// SetHueAuto writes the PU_HUE_AUTO control.
func (p *ProcessingUnit) SetHueAuto(v bool) error {
	return setProcessingControl(p, control.Bool, puHueAuto, v)
}

// Saturation reads the PU_SATURATION control.
func (p *ProcessingUnit) Saturation() (uint16, error) {
	return readProcessingControl(p, control.U16, RequestGetCur, puSaturation)
}

// SetSaturation writes the PU_SATURATION control.
func (p *ProcessingUnit) SetSaturation(v uint16) error {
	return setProcessingControl(p, control.U16, puSaturation, v)
}

// Sharpness reads the PU_SHARPNESS control.
func (p *ProcessingUnit) Sharpness() (uint16, error) {
	return readProcessingControl(p, control.U16, RequestGetCur, puSharpness)
}

// SetSharpness writes the PU_SHARPNESS control.
func (p *ProcessingUnit) SetSharpness(v uint16) error {
	return setProcessingControl(p, control.U16, puSharpness, v)
}

// Gamma reads the PU_GAMMA control.
func (p *ProcessingUnit) Gamma() (uint16, error) {
	return readProcessingControl(p, control.U16, RequestGetCur, puGamma)
}

// SetGamma writes the PU_GAMMA control.
func (p *ProcessingUnit) SetGamma(v uint16) error {
	return setProcessingControl(p, control.U16, puGamma, v)
}

// Gain reads the PU_GAIN control.
func (p *ProcessingUnit) Gain() (uint16, error) {
	return readProcessingControl(p, control.U16, RequestGetCur, puGain)
}

// SetGain writes the PU_GAIN control.
func (p *ProcessingUnit) SetGain(v uint16) error {
	return setProcessingControl(p, control.U16, puGain, v)
}

// BacklightCompensation reads the PU_BACKLIGHT_COMPENSATION control.
func (p *ProcessingUnit) BacklightCompensation() (uint16, error) {
	return readProcessingControl(p, control.U16, RequestGetCur, puBacklightCompensation)
}

// SetBacklightCompensation writes the PU_BACKLIGHT_COMPENSATION control.
func (p *ProcessingUnit) SetBacklightCompensation(v uint16) error {
	return setProcessingControl(p, control.U16, puBacklightCompensation, v)
}

// PowerLineFrequency reads the PU_POWER_LINE_FREQUENCY control.
func (p *ProcessingUnit) PowerLineFrequency() (control.PowerLineFrequency, error) {
	return readProcessingControl(p, control.PowerLineFreq, RequestGetCur, puPowerLineFrequency)
}

// SetPowerLineFrequency writes the PU_POWER_LINE_FREQUENCY control.
func (p *ProcessingUnit) SetPowerLineFrequency(v control.PowerLineFrequency) error {
	return setProcessingControl(p, control.PowerLineFreq, puPowerLineFrequency, v)
}

// WhiteBalanceTemperature reads the PU_WHITE_BALANCE_TEMPERATURE control.
func (p *ProcessingUnit) WhiteBalanceTemperature() (uint16, error) {
	return readProcessingControl(p, control.U16, RequestGetCur, puWhiteBalanceTemperature)
}

// SetWhiteBalanceTemperature writes the PU_WHITE_BALANCE_TEMPERATURE control.
func (p *ProcessingUnit) SetWhiteBalanceTemperature(v uint16) error {
	return setProcessingControl(p, control.U16, puWhiteBalanceTemperature, v)
}

// WhiteBalanceTemperatureAuto reads the PU_WHITE_BALANCE_TEMPERATURE_AUTO control.
func (p *ProcessingUnit) WhiteBalanceTemperatureAuto() (bool, error) {
	return readProcessingControl(p, control.Bool, RequestGetCur, puWhiteBalanceTemperatureAuto)
}

// SetWhiteBalanceTemperatureAuto writes the PU_WHITE_BALANCE_TEMPERATURE_AUTO control.
func (p *ProcessingUnit) SetWhiteBalanceTemperatureAuto(v bool) error {
	return setProcessingControl(p, control.Bool, puWhiteBalanceTemperatureAuto, v)
}

// WhiteBalanceComponent reads the PU_WHITE_BALANCE_COMPONENT control.
func (p *ProcessingUnit) WhiteBalanceComponent() (control.WhiteBalanceComponents, error) {
	return readProcessingControl(p, control.WhiteBalance, RequestGetCur, puWhiteBalanceComponent)
}

// SetWhiteBalanceComponent writes the PU_WHITE_BALANCE_COMPONENT control.
func (p *ProcessingUnit) SetWhiteBalanceComponent(v control.WhiteBalanceComponents) error {
	return setProcessingControl(p, control.WhiteBalance, puWhiteBalanceComponent, v)
}

// WhiteBalanceComponentAuto reads the PU_WHITE_BALANCE_COMPONENT_AUTO control.
func (p *ProcessingUnit) WhiteBalanceComponentAuto() (bool, error) {
	return readProcessingControl(p, control.Bool, RequestGetCur, puWhiteBalanceComponentAuto)
}

// SetWhiteBalanceComponentAuto writes the PU_WHITE_BALANCE_COMPONENT_AUTO control.
func (p *ProcessingUnit) SetWhiteBalanceComponentAuto(v bool) error {
	return setProcessingControl(p, control.Bool, puWhiteBalanceComponentAuto, v)
}

// DigitalMultiplier reads the PU_DIGITAL_MULTIPLIER control.
func (p *ProcessingUnit) DigitalMultiplier() (uint16, error) {
	return readProcessingControl(p, control.U16, RequestGetCur, puDigitalMultiplier)
}

// SetDigitalMultiplier writes the PU_DIGITAL_MULTIPLIER control.
func (p *ProcessingUnit) SetDigitalMultiplier(v uint16) error {
	return setProcessingControl(p, control.U16, puDigitalMultiplier, v)
}

// DigitalMultiplierLimit reads the PU_DIGITAL_MULTIPLIER_LIMIT control.
func (p *ProcessingUnit) DigitalMultiplierLimit() (uint16, error) {
	return readProcessingControl(p, control.U16, RequestGetCur, puDigitalMultiplierLimit)
}

// SetDigitalMultiplierLimit writes the PU_DIGITAL_MULTIPLIER_LIMIT control.
func (p *ProcessingUnit) SetDigitalMultiplierLimit(v uint16) error {
	return setProcessingControl(p, control.U16, puDigitalMultiplierLimit, v)
}

// AnalogVideoStandard reads the PU_ANALOG_VIDEO_STANDARD control.
func (p *ProcessingUnit) AnalogVideoStandard() (control.AnalogVideoStandard, error) {
	return readProcessingControl(p, control.AnalogVideoStandardCodec, RequestGetCur, puAnalogVideoStandard)
}

// AnalogVideoLockStatus reads the PU_ANALOG_LOCK_STATUS control: true means
// the analog input has locked onto its video standard.
func (p *ProcessingUnit) AnalogVideoLockStatus() (bool, error) {
	return readProcessingControl(p, control.Bool, RequestGetCur, puAnalogVideoLockStatus)
}
