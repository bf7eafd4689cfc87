//go:build !windows

package host

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/OpenTraceLab/OpenTraceLS/pkg/device"
)

func newWindows(zerolog.Logger) (device.Provider, error) {
	return nil, fmt.Errorf("%w: windows provider not built for this platform", ErrUnsupportedHost)
}
