// Package config holds the settings shared by the otls commands.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/OpenTraceLab/OpenTraceLS/internal/logger"
	"github.com/OpenTraceLab/OpenTraceLS/pkg/mock"
	"github.com/OpenTraceLab/OpenTraceLS/pkg/retarget"
)

// HomeEnv overrides the directory holding the global mock file.
const HomeEnv = "OTLS_HOME"

// Default file names.
const (
	GlobalMockDir  = ".mbed-ls"
	MockFileName   = ".mbedls-mock"
	DefaultLockTTL = mock.DefaultLockTimeout
)

// Config controls where otls keeps its files and how it enumerates boards.
type Config struct {
	// GlobalMockPath is the per-user mock file; empty disables the global scope.
	GlobalMockPath string
	// LocalMockPath is the per-directory mock file.
	LocalMockPath string
	RetargetPath  string
	// SkipRetarget ignores the retarget file entirely.
	SkipRetarget bool
	// RequireRetarget fails when the retarget file is absent.
	RequireRetarget bool
	LockTimeout     time.Duration
	// USBScan also enumerates probes on the USB bus.
	USBScan bool
	Log     logger.Config
}

// DefaultConfig returns the standard locations. The global mock file lives
// under $OTLS_HOME when set, otherwise under ~/.mbed-ls.
func DefaultConfig() *Config {
	return &Config{
		GlobalMockPath: defaultGlobalMockPath(),
		LocalMockPath:  MockFileName,
		RetargetPath:   retarget.DefaultPath,
		LockTimeout:    DefaultLockTTL,
		Log:            logger.DefaultConfig(),
	}
}

func defaultGlobalMockPath() string {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return filepath.Join(dir, MockFileName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, GlobalMockDir, MockFileName)
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.LockTimeout <= 0 {
		return fmt.Errorf("config: lock timeout must be positive, got %s", c.LockTimeout)
	}
	if c.LocalMockPath == "" {
		return errors.New("config: local mock path is empty")
	}
	if c.SkipRetarget && c.RequireRetarget {
		return errors.New("config: retarget file cannot be both skipped and required")
	}
	if c.RequireRetarget && c.RetargetPath == "" {
		return errors.New("config: retarget file required but no path given")
	}
	return nil
}
