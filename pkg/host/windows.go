//go:build windows

package host

import (
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sys/windows/registry"

	"github.com/OpenTraceLab/OpenTraceLS/pkg/device"
)

const (
	mountedDevicesKey = `SYSTEM\MountedDevices`
	usbEnumKey        = `SYSTEM\CurrentControlSet\Enum\USB`
)

// Windows enumerates boards from the registry's mounted volume table and
// finds their COM ports under the USB enumerator.
type Windows struct {
	log zerolog.Logger
}

func newWindows(log zerolog.Logger) (*Windows, error) {
	return &Windows{log: log}, nil
}

// ListCandidates reads SYSTEM\MountedDevices for board volumes.
func (w *Windows) ListCandidates() ([]device.Candidate, error) {
	k, err := registry.OpenKey(registry.LOCAL_MACHINE, mountedDevicesKey, registry.QUERY_VALUE)
	if err != nil {
		return nil, err
	}
	defer k.Close()

	names, err := k.ReadValueNames(0)
	if err != nil {
		return nil, err
	}

	var out []device.Candidate
	seen := map[string]bool{}
	for _, name := range names {
		data, _, err := k.GetBinaryValue(name)
		if err != nil {
			continue
		}
		md, ok := parseMountedDevice(name, data)
		if !ok || seen[md.TargetID] {
			continue
		}
		seen[md.TargetID] = true
		c := device.Candidate{
			USBID:      md.TargetID,
			MountPoint: md.Drive,
			SerialPort: w.comPort(md.TargetID, false, 0),
		}
		w.log.Debug().Str("target_id", c.USBID).Str("mount_point", c.MountPoint).
			Str("serial_port", c.SerialPort).Msg("found board volume")
		out = append(out, c)
	}
	return out, nil
}

// MountPointReady reports whether the drive can be listed.
func (w *Windows) MountPointReady(path string) bool {
	if len(path) == 2 && path[1] == ':' {
		path += `\`
	}
	ready := DirReady(path)
	w.log.Debug().Str("mount_point", path).Bool("ready", ready).Msg("probed mount point")
	return ready
}

// comPort searches Enum\USB\<vid&pid>\<id> for a PortName, following
// ParentIdPrefix links to the composite device's serial function.
func (w *Windows) comPort(id string, isPrefix bool, depth int) string {
	if depth > 4 {
		return ""
	}
	usb, err := registry.OpenKey(registry.LOCAL_MACHINE, usbEnumKey, registry.ENUMERATE_SUB_KEYS)
	if err != nil {
		return ""
	}
	defer usb.Close()

	vids, err := usb.ReadSubKeyNames(0)
	if err != nil {
		return ""
	}
	for _, vid := range vids {
		if port := w.comPortUnder(usbEnumKey+`\`+vid, id, isPrefix, depth); port != "" {
			return port
		}
	}
	return ""
}

func (w *Windows) comPortUnder(vidPath, id string, isPrefix bool, depth int) string {
	vk, err := registry.OpenKey(registry.LOCAL_MACHINE, vidPath, registry.ENUMERATE_SUB_KEYS)
	if err != nil {
		return ""
	}
	defer vk.Close()

	children, err := vk.ReadSubKeyNames(0)
	if err != nil {
		return ""
	}
	for _, child := range children {
		if child != id && !(isPrefix && strings.Contains(child, id)) {
			continue
		}
		devPath := vidPath + `\` + child
		if port := readPortName(devPath); port != "" {
			return port
		}
		if parent := readParentPrefix(devPath); parent != "" {
			if port := w.comPort(parent, true, depth+1); port != "" {
				return port
			}
		}
	}
	return ""
}

func readPortName(devPath string) string {
	k, err := registry.OpenKey(registry.LOCAL_MACHINE, devPath+`\Device Parameters`, registry.QUERY_VALUE)
	if err != nil {
		return ""
	}
	defer k.Close()
	port, _, err := k.GetStringValue("PortName")
	if err != nil {
		return ""
	}
	return port
}

func readParentPrefix(devPath string) string {
	k, err := registry.OpenKey(registry.LOCAL_MACHINE, devPath, registry.QUERY_VALUE)
	if err != nil {
		return ""
	}
	defer k.Close()
	parent, _, err := k.GetStringValue("ParentIdPrefix")
	if err != nil {
		return ""
	}
	return parent
}
