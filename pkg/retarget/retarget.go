// Package retarget loads operator supplied per-device field overrides.
//
// The file is a JSON object keyed by full target ID whose values are objects
// of field → value. It is read once when a Set is loaded and never watched.
package retarget

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/rs/zerolog"
)

// DefaultPath is looked up relative to the working directory.
const DefaultPath = "mbedls.json"

// ErrMissing is returned when the file is required but absent.
var ErrMissing = errors.New("retarget: file not found")

// Fields is one device's overrides. A nil value clears the field.
type Fields map[string]any

// Options control how Load behaves.
type Options struct {
	// Disabled skips the file entirely.
	Disabled bool
	// Required turns a missing file into ErrMissing.
	Required bool
	Logger   zerolog.Logger
}

// Set is an immutable override table.
type Set struct {
	path      string
	loaded    bool
	overrides map[string]Fields
}

// Disabled returns a Set that never loaded anything.
func Disabled() *Set {
	return &Set{}
}

// Load reads path according to opts. A missing file yields an empty, loaded
// Set unless opts.Required is set.
func Load(path string, opts Options) (*Set, error) {
	log := opts.Logger
	if opts.Disabled {
		log.Debug().Str("path", path).Msg("retarget overrides disabled")
		return Disabled(), nil
	}

	s := &Set{path: path, loaded: true, overrides: map[string]Fields{}}
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if opts.Required {
			return nil, fmt.Errorf("%w: %s", ErrMissing, path)
		}
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("retarget: stat %s: %w", path, err)
	case info.IsDir():
		return nil, fmt.Errorf("retarget: %s is a directory", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("retarget: read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &s.overrides); err != nil {
		return nil, fmt.Errorf("retarget: parse %s: %w", path, err)
	}
	if s.overrides == nil {
		s.overrides = map[string]Fields{}
	}
	log.Info().Str("path", path).Int("targets", len(s.overrides)).Msg("found retarget file")
	return s, nil
}

// Loaded reports whether a file lookup happened. A disabled Set is not
// loaded even though it has no entries, unlike an empty file.
func (s *Set) Loaded() bool { return s != nil && s.loaded }

// Path returns the file the Set was loaded from.
func (s *Set) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// Len returns the number of targets with overrides.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.overrides)
}

// Lookup returns a copy of the overrides for targetID.
func (s *Set) Lookup(targetID string) (Fields, bool) {
	if s == nil {
		return nil, false
	}
	fields, ok := s.overrides[targetID]
	if !ok {
		return nil, false
	}
	out := make(Fields, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	return out, true
}

// TargetIDs lists the overridden target IDs in no particular order.
func (s *Set) TargetIDs() []string {
	if s == nil {
		return nil
	}
	ids := make([]string, 0, len(s.overrides))
	for id := range s.overrides {
		ids = append(ids, id)
	}
	return ids
}
