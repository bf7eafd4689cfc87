// Package host enumerates attached boards on the running operating system.
//
// Providers never read board filesystems; they only report which devices
// exist and where their drives and serial ports appear.
package host

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/rs/zerolog"

	"github.com/OpenTraceLab/OpenTraceLS/pkg/device"
)

// ErrUnsupportedHost is returned by Detect when no provider exists for the
// running operating system.
var ErrUnsupportedHost = errors.New("host: unsupported operating system")

// Options configure Detect.
type Options struct {
	// USBScan adds boards seen on the USB bus that no drive was found for.
	USBScan bool
	Logger  zerolog.Logger
}

// Detect selects the provider for the running operating system.
func Detect(opts Options) (device.Provider, error) {
	return detect(runtime.GOOS, opts)
}

func detect(goos string, opts Options) (device.Provider, error) {
	var p device.Provider
	switch goos {
	case "linux":
		p = NewLinux(WithLinuxLogger(opts.Logger))
	case "windows":
		wp, err := newWindows(opts.Logger)
		if err != nil {
			return nil, err
		}
		p = wp
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedHost, goos)
	}
	opts.Logger.Debug().Str("os", goos).Bool("usb_scan", opts.USBScan).Msg("selected host provider")

	if opts.USBScan {
		p = WithUSB(p, ScanProbes, opts.Logger)
	}
	return p, nil
}

// DirReady reports whether path is an existing directory.
func DirReady(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
