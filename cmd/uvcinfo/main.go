// Command uvcinfo enumerates UVC devices on the system, prints their
// topology, and optionally round-trips a Processing Unit control to prove
// the control path works end to end.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"

	"github.com/daedaluz/govuc"
	"github.com/daedaluz/govuc/topo"
	"github.com/daedaluz/govuc/usbtransport"
)

func main() {
	jsonOutput := flag.Bool("json", false, "print topology as JSON instead of plain text")
	touchBrightness := flag.Bool("touch-brightness", false, "open the first device and read/restore its brightness control")
	flag.Parse()

	devices, err := govuc.ListDevices(usbtransport.New())
	if err != nil {
		log.Fatalf("enumerating devices: %v", err)
	}
	if len(devices) == 0 {
		log.Println("no UVC devices found")
		return
	}

	for i := range devices {
		d := &devices[i]
		printDevice(d, *jsonOutput)
		if *touchBrightness && i == 0 {
			if err := roundTripBrightness(d); err != nil {
				log.Printf("brightness round-trip: %v", err)
			}
		}
	}
}

func printDevice(d *govuc.DeviceDesc, asJSON bool) {
	topology := d.Topology()
	if asJSON {
		enc, err := json.MarshalIndent(topology, "", "  ")
		if err != nil {
			log.Printf("marshaling topology: %v", err)
			return
		}
		fmt.Printf("bus %03d dev %03d:\n%s\n", d.BusNumber(), d.DeviceAddress(), enc)
		return
	}
	fmt.Printf("bus %03d dev %03d: %s\n", d.BusNumber(), d.DeviceAddress(), topology.Header)
	for i := range topology.Inputs {
		in := &topology.Inputs[i]
		fmt.Printf("  input terminal %d: %s\n", in.TermID, in.TermType)
	}
	for i := range topology.Units {
		fmt.Printf("  unit: %+v\n", topology.Units[i].Kind)
	}
	for i := range topology.Outputs {
		out := &topology.Outputs[i]
		fmt.Printf("  output terminal %d: %s, source %d\n", out.TermID, out.TermType, out.Source)
	}
}

// roundTripBrightness reads the device's first Processing Unit's brightness
// control, writes the same value back, and reports it — a smoke test for
// the full control-transfer path rather than a real calibration step.
func roundTripBrightness(d *govuc.DeviceDesc) error {
	topology := d.Topology()
	var unitID topo.ProcessingUnitID
	found := false
	for i := range topology.Units {
		if pu, ok := topology.Units[i].Kind.(topo.ProcessingUnitKind); ok {
			unitID = pu.ID
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("device has no Processing Unit")
	}

	dev, err := d.Open()
	if err != nil {
		return err
	}
	defer dev.Close()

	unit, err := dev.ProcessingUnit(unitID)
	if err != nil {
		return err
	}
	before, err := unit.Brightness()
	if err != nil {
		return fmt.Errorf("reading brightness: %w", err)
	}
	if err := unit.SetBrightness(before); err != nil {
		return fmt.Errorf("writing brightness back: %w", err)
	}
	fmt.Printf("  brightness round-trip ok: %d\n", before)
	return nil
}
