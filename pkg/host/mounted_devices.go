package host

import (
	"regexp"
	"strings"
)

// Vendor strings found in the device path of a board's mass storage volume.
var windowsVendors = []string{"Ven_MBED", "Ven_SEGGER"}

var (
	// Target IDs sit between '&' or '#' separators and are 10 to 48 chars.
	volumeIDPattern = regexp.MustCompile(`[&#]([0-9A-Za-z]{10,48})[&#]`)
	dosDrivePattern = regexp.MustCompile(`\\([A-Za-z]:)$`)
)

// mountedDevice is one \DosDevices\X: value of SYSTEM\MountedDevices.
type mountedDevice struct {
	TargetID string
	Drive    string
}

// parseMountedDevice extracts the board target ID and drive letter from a
// MountedDevices value. ok is false for values that are not board drives.
func parseMountedDevice(name string, data []byte) (mountedDevice, bool) {
	if !strings.Contains(name, "DosDevices") {
		return mountedDevice{}, false
	}
	drive := dosDrivePattern.FindStringSubmatch(name)
	if drive == nil {
		return mountedDevice{}, false
	}
	text := printable(data)
	upper := strings.ToUpper(text)
	for _, vendor := range windowsVendors {
		if !strings.Contains(upper, strings.ToUpper(vendor)) {
			continue
		}
		m := volumeIDPattern.FindStringSubmatch(text)
		if m == nil {
			return mountedDevice{}, false
		}
		return mountedDevice{TargetID: m[1], Drive: drive[1]}, true
	}
	return mountedDevice{}, false
}

// printable drops the bytes that are not printable ASCII, which turns the
// UTF-16 device paths stored in the registry into plain strings.
func printable(data []byte) string {
	var b strings.Builder
	b.Grow(len(data))
	for _, c := range data {
		if (c >= 0x20 && c < 0x7f) || (c >= '\t' && c <= '\r') {
			b.WriteByte(c)
		}
	}
	return b.String()
}
