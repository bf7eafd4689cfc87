package host

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/OpenTraceLab/OpenTraceLS/pkg/device"
)

func TestWithUSBAddsUnmountedProbes(t *testing.T) {
	ctrl := gomock.NewController(t)
	base := device.NewMockProvider(ctrl)
	base.EXPECT().ListCandidates().Return([]device.Candidate{
		{USBID: "0240000032044e45", MountPoint: "/media/DAPLINK"},
	}, nil)
	base.EXPECT().MountPointReady("/media/DAPLINK").Return(true)

	scan := func(context.Context) ([]Probe, error) {
		return []Probe{
			{Kind: ProbeDAPLink, Serial: "0240000032044e45"},
			{Kind: ProbeDAPLink, Serial: "1234000011112222"},
			{Kind: ProbeJLink},
			{Kind: ProbeDAPLink, Serial: "1234000011112222"},
		}, nil
	}

	p := WithUSB(base, scan, zerolog.Nop())
	got, err := p.ListCandidates()
	require.NoError(t, err)
	assert.Equal(t, []device.Candidate{
		{USBID: "0240000032044e45", MountPoint: "/media/DAPLINK"},
		{USBID: "1234000011112222"},
	}, got)
	assert.True(t, p.MountPointReady("/media/DAPLINK"))
}

func TestWithUSBScanFailureFallsBack(t *testing.T) {
	ctrl := gomock.NewController(t)
	base := device.NewMockProvider(ctrl)
	base.EXPECT().ListCandidates().Return([]device.Candidate{{USBID: "0240"}}, nil)

	scan := func(context.Context) ([]Probe, error) {
		return nil, errors.New("libusb unavailable")
	}
	got, err := WithUSB(base, scan, zerolog.Nop()).ListCandidates()
	require.NoError(t, err)
	assert.Equal(t, []device.Candidate{{USBID: "0240"}}, got)
}

func TestWithUSBBaseFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	base := device.NewMockProvider(ctrl)
	boom := errors.New("boom")
	base.EXPECT().ListCandidates().Return(nil, boom)

	scan := func(context.Context) ([]Probe, error) {
		t.Fatal("scan must not run when the base provider fails")
		return nil, nil
	}
	_, err := WithUSB(base, scan, zerolog.Nop()).ListCandidates()
	assert.ErrorIs(t, err, boom)
}

func TestProbeLabel(t *testing.T) {
	assert.Equal(t, "DAPLink CMSIS-DAP", Probe{Description: "DAPLink CMSIS-DAP"}.Label())
	assert.Equal(t, "jlink (1366:0101)", Probe{Kind: ProbeJLink, VendorID: 0x1366, ProductID: 0x0101}.Label())
}

func TestClassifyVendor(t *testing.T) {
	k, ok := classifyVendor(0x0d28)
	require.True(t, ok)
	assert.Equal(t, ProbeDAPLink, k.Kind)
	_, ok = classifyVendor(0x2e8a)
	assert.False(t, ok)
}
