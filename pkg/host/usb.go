package host

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/gousb"
	"github.com/rs/zerolog"

	"github.com/OpenTraceLab/OpenTraceLS/pkg/device"
)

// ProbeKind names the interface firmware family of a USB probe.
type ProbeKind string

const (
	ProbeDAPLink ProbeKind = "daplink"
	ProbeJLink   ProbeKind = "jlink"
)

// Probe is a board interface chip seen on the USB bus.
type Probe struct {
	Kind        ProbeKind
	Description string
	VendorID    uint16
	ProductID   uint16
	// Serial is the iSerial string; for DAPLink it is the board's target ID.
	Serial string
	Bus    int
	Addr   int
}

// Label returns a user-friendly description of the probe.
func (p Probe) Label() string {
	if p.Description != "" {
		return p.Description
	}
	return fmt.Sprintf("%s (%04X:%04X)", p.Kind, p.VendorID, p.ProductID)
}

type knownVendor struct {
	VendorID    uint16
	Kind        ProbeKind
	Description string
}

var knownProbeVendors = []knownVendor{
	{VendorID: 0x0d28, Kind: ProbeDAPLink, Description: "Arm DAPLink"},
	{VendorID: 0x1366, Kind: ProbeJLink, Description: "SEGGER J-Link"},
}

func classifyVendor(vid uint16) (knownVendor, bool) {
	for _, known := range knownProbeVendors {
		if vid == known.VendorID {
			return known, true
		}
	}
	return knownVendor{}, false
}

// ProbeScanner lists probes on the USB bus.
type ProbeScanner func(ctx context.Context) ([]Probe, error)

// ScanProbes opens every DAPLink and SEGGER device on the bus to read its
// serial number. Devices the user lacks permission to open are skipped.
func ScanProbes(ctx context.Context) ([]Probe, error) {
	usb := gousb.NewContext()
	defer usb.Close()

	devs, err := usb.OpenDevices(func(desc *gousb.DeviceDesc) bool {
		select {
		case <-ctx.Done():
			return false
		default:
		}
		_, ok := classifyVendor(uint16(desc.Vendor))
		return ok
	})
	defer func() {
		for _, d := range devs {
			d.Close()
		}
	}()
	if err != nil && !errors.Is(err, gousb.ErrorAccess) {
		return nil, fmt.Errorf("host: usb scan: %w", err)
	}

	var probes []Probe
	for _, d := range devs {
		known, _ := classifyVendor(uint16(d.Desc.Vendor))
		p := Probe{
			Kind:        known.Kind,
			Description: known.Description,
			VendorID:    uint16(d.Desc.Vendor),
			ProductID:   uint16(d.Desc.Product),
			Bus:         d.Desc.Bus,
			Addr:        d.Desc.Address,
		}
		if serial, err := d.SerialNumber(); err == nil {
			p.Serial = serial
		}
		if product, err := d.Product(); err == nil && product != "" {
			p.Description = product
		}
		probes = append(probes, p)
	}
	return probes, ctx.Err()
}

// usbProvider adds probes with no disk to a base provider's candidates.
type usbProvider struct {
	base    device.Provider
	scan    ProbeScanner
	timeout time.Duration
	log     zerolog.Logger
}

// WithUSB wraps base so that boards visible on the USB bus but absent from
// base's listing are reported as unmounted candidates.
func WithUSB(base device.Provider, scan ProbeScanner, log zerolog.Logger) device.Provider {
	return &usbProvider{base: base, scan: scan, timeout: 5 * time.Second, log: log}
}

func (u *usbProvider) ListCandidates() ([]device.Candidate, error) {
	out, err := u.base.ListCandidates()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), u.timeout)
	defer cancel()
	probes, err := u.scan(ctx)
	if err != nil {
		u.log.Warn().Err(err).Msg("usb scan failed, using disk listing only")
		return out, nil
	}

	known := make(map[string]bool, len(out))
	for _, c := range out {
		known[c.USBID] = true
	}
	for _, p := range probes {
		if p.Serial == "" || known[p.Serial] {
			continue
		}
		known[p.Serial] = true
		u.log.Debug().Str("target_id", p.Serial).Str("probe", p.Label()).Msg("usb probe without drive")
		out = append(out, device.Candidate{USBID: p.Serial})
	}
	return out, nil
}

func (u *usbProvider) MountPointReady(path string) bool {
	return u.base.MountPointReady(path)
}
