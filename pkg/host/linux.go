package host

import (
	"bufio"
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/disk"

	"github.com/OpenTraceLab/OpenTraceLS/pkg/device"
)

// Default locations consulted by the Linux provider.
const (
	DefaultDiskByID   = "/dev/disk/by-id"
	DefaultSerialByID = "/dev/serial/by-id"
)

// partitionsWithContext is replaced in tests.
var partitionsWithContext = disk.PartitionsWithContext

// Disk id links mention one of these vendor strings.
var linuxDiskStrings = []string{"mbed", "segger"}

// usb-MBED_microcontroller_0240000032044e4500257009997b00386781000097969900-0:0
// Newer udev versions may use a pci- prefix for the same device.
var linkIDPattern = regexp.MustCompile(`^(?:usb|pci)-[0-9a-zA-Z_\-]*_([0-9a-zA-Z]+)-\d+:\d+$`)

// Linux enumerates boards through udev's by-id links and the mount table.
type Linux struct {
	DiskByID   string
	SerialByID string
	// MountsFile is read in /proc/mounts format when set; otherwise the
	// mount table comes from gopsutil.
	MountsFile string
	log        zerolog.Logger
}

// LinuxOption configures a Linux provider.
type LinuxOption func(*Linux)

// WithLinuxLogger attaches a logger.
func WithLinuxLogger(log zerolog.Logger) LinuxOption {
	return func(l *Linux) {
		l.log = log
	}
}

// WithLinuxPaths overrides the directories and mount table consulted.
func WithLinuxPaths(diskByID, serialByID, mountsFile string) LinuxOption {
	return func(l *Linux) {
		l.DiskByID = diskByID
		l.SerialByID = serialByID
		l.MountsFile = mountsFile
	}
}

// NewLinux creates a provider reading the standard locations.
func NewLinux(opts ...LinuxOption) *Linux {
	l := &Linux{
		DiskByID:   DefaultDiskByID,
		SerialByID: DefaultSerialByID,
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// ListCandidates returns one candidate per board disk. A board whose disk is
// not mounted is still returned, with an empty mount point.
func (l *Linux) ListCandidates() ([]device.Candidate, error) {
	disks, err := readLinks(l.DiskByID)
	if err != nil {
		return nil, err
	}
	serials, err := readLinks(l.SerialByID)
	if err != nil {
		return nil, err
	}
	mounts, err := l.mounts()
	if err != nil {
		return nil, err
	}

	var out []device.Candidate
	seen := map[string]bool{}
	for _, disk := range disks {
		if !isBoardDisk(disk.name) {
			continue
		}
		m := linkIDPattern.FindStringSubmatch(disk.name)
		if m == nil {
			continue
		}
		id := m[1]
		if seen[id] {
			continue
		}
		seen[id] = true

		c := device.Candidate{
			USBID:      id,
			MountPoint: mounts[disk.dev],
			SerialPort: serialFor(serials, id),
		}
		l.log.Debug().Str("target_id", id).Str("disk", disk.dev).Str("mount_point", c.MountPoint).
			Str("serial_port", c.SerialPort).Msg("found board disk")
		out = append(out, c)
	}
	return out, nil
}

// MountPointReady reports whether the mount point is an existing directory.
func (l *Linux) MountPointReady(path string) bool {
	return DirReady(path)
}

func isBoardDisk(name string) bool {
	lower := strings.ToLower(name)
	for _, s := range linuxDiskStrings {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}

func serialFor(serials []link, id string) string {
	for _, s := range serials {
		if strings.Contains(s.name, id) && (strings.HasPrefix(s.name, "usb-") || strings.HasPrefix(s.name, "pci-")) {
			return "/dev/" + s.dev
		}
	}
	return ""
}

// link is a by-id symlink and the base name of the node it points to.
type link struct {
	name string
	dev  string
}

// readLinks lists the symlinks of dir. A missing directory means no devices
// of that kind are attached.
func readLinks(dir string) ([]link, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	out := make([]link, 0, len(entries))
	for _, e := range entries {
		target, err := os.Readlink(filepath.Join(dir, e.Name()))
		if err != nil {
			continue
		}
		out = append(out, link{name: e.Name(), dev: filepath.Base(target)})
	}
	return out, nil
}

func (l *Linux) mounts() (map[string]string, error) {
	if l.MountsFile != "" {
		return readMounts(l.MountsFile)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	parts, err := partitionsWithContext(ctx, true)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(parts))
	for _, p := range parts {
		if !strings.HasPrefix(p.Device, "/dev/") {
			continue
		}
		dev := filepath.Base(p.Device)
		if _, ok := out[dev]; !ok {
			out[dev] = p.Mountpoint
		}
	}
	return out, nil
}

// readMounts maps device node base names ("sdb") to their first mount point.
func readMounts(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	out := map[string]string{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 || !strings.HasPrefix(fields[0], "/dev/") {
			continue
		}
		dev := filepath.Base(unescapeMount(fields[0]))
		if _, ok := out[dev]; !ok {
			out[dev] = unescapeMount(fields[1])
		}
	}
	return out, scanner.Err()
}

// unescapeMount decodes the \ooo octal escapes the kernel uses for spaces,
// tabs and backslashes in mount table fields.
func unescapeMount(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+4 <= len(s) {
			if v, err := strconv.ParseUint(s[i+1:i+4], 8, 8); err == nil {
				b.WriteByte(byte(v))
				i += 3
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
