package usbtransport

import (
	"fmt"
	"io/ioutil"
	"strconv"
	"strings"
)

const sysfsDeviceDir = "/sys/bus/usb/devices"

func readSysfsAttrInt(devName, attrName string) (int, error) {
	fileName := fmt.Sprintf("%s/%s/%s", sysfsDeviceDir, devName, attrName)
	data, err := ioutil.ReadFile(fileName)
	if err != nil {
		return 0, err
	}
	value, err := strconv.ParseInt(strings.Trim(string(data), "\n"), 10, 64)
	if err != nil {
		return 0, err
	}
	return int(value), nil
}

func getDeviceAddress(devName string) (busNum, devNum int, err error) {
	busNum, err = readSysfsAttrInt(devName, "busnum")
	if err != nil {
		return 0, 0, err
	}
	devNum, err = readSysfsAttrInt(devName, "devnum")
	if err != nil {
		return 0, 0, err
	}
	return busNum, devNum, nil
}

// readRawDescriptors reads the kernel's raw concatenation of a device's
// standard descriptors (device descriptor immediately followed by the
// active configuration descriptor and everything nested under it) from
// sysfs, the same "descriptors" binary attribute the teacher's parseDescriptor
// read, but handed back whole for descriptor.go's reader-based parser
// instead of pre-split here.
func readRawDescriptors(devName string) ([]byte, error) {
	fileName := fmt.Sprintf("%s/%s/descriptors", sysfsDeviceDir, devName)
	return ioutil.ReadFile(fileName)
}

// sysfsEntry is one directory enumerated under sysfsDeviceDir: a USB device
// identified by its sysfs name and bus/device address. Its raw descriptor
// bytes are not stored here; readRawDescriptors reads them on demand.
type sysfsEntry struct {
	name   string
	busNum int
	devNum int
}

func enumerateSysfsDevices() ([]sysfsEntry, error) {
	dirs, err := ioutil.ReadDir(sysfsDeviceDir)
	if err != nil {
		return nil, err
	}
	var res []sysfsEntry
	for _, dir := range dirs {
		name := dir.Name()
		// Bus directories ("usb1") and interface directories ("1-1:1.0")
		// are not devices.
		if strings.HasPrefix(name, "usb") || strings.Contains(name, ":") {
			continue
		}
		busNum, devNum, err := getDeviceAddress(name)
		if err != nil {
			continue
		}
		res = append(res, sysfsEntry{name: name, busNum: busNum, devNum: devNum})
	}
	return res, nil
}
