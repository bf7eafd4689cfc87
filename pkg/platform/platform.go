// Package platform maps target ID prefixes to board model names.
package platform

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
)

// PrefixLength is the number of target ID characters that identify a board model.
const PrefixLength = 4

var prefixPattern = regexp.MustCompile(`^[0-9A-Fa-f]{4}$`)

// ErrInvalidIdentifier is returned when a prefix is not four hex characters.
var ErrInvalidIdentifier = errors.New("platform: invalid target ID prefix")

// InvalidIdentifierError carries the rejected prefix.
type InvalidIdentifierError struct {
	Prefix string
}

func (e *InvalidIdentifierError) Error() string {
	return fmt.Sprintf("platform: target ID prefix %q is invalid, must be %d characters of a-f, A-F or 0-9",
		e.Prefix, PrefixLength)
}

func (e *InvalidIdentifierError) Is(target error) bool {
	return target == ErrInvalidIdentifier
}

// ValidPrefix reports whether p is a well-formed target ID prefix.
func ValidPrefix(p string) bool {
	return prefixPattern.MatchString(p)
}

// PrefixOf returns the platform prefix of a full target ID.
func PrefixOf(targetID string) string {
	if len(targetID) < PrefixLength {
		return targetID
	}
	return targetID[:PrefixLength]
}

// Database is the prefix → platform name table. The built-in entries are its
// initial contents; there is no separate read-only layer.
type Database struct {
	mu        sync.RWMutex
	platforms map[string]string
}

// NewDatabase returns a database seeded with the built-in table.
func NewDatabase() *Database {
	platforms := make(map[string]string, len(builtin))
	for prefix, name := range builtin {
		platforms[prefix] = name
	}
	return &Database{platforms: platforms}
}

// Get returns the platform name registered for prefix.
func (d *Database) Get(prefix string) (string, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	name, ok := d.platforms[strings.ToUpper(prefix)]
	return name, ok
}

// Add registers or replaces the platform name for prefix.
func (d *Database) Add(prefix, name string) error {
	if !ValidPrefix(prefix) {
		return &InvalidIdentifierError{Prefix: prefix}
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.platforms[strings.ToUpper(prefix)] = name
	return nil
}

// Remove deletes prefix and returns the name it mapped to. Removing an
// unknown prefix is a no-op.
func (d *Database) Remove(prefix string) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	key := strings.ToUpper(prefix)
	name, ok := d.platforms[key]
	if ok {
		delete(d.platforms, key)
	}
	return name, ok
}

// All returns a copy of the table.
func (d *Database) All() map[string]string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make(map[string]string, len(d.platforms))
	for prefix, name := range d.platforms {
		out[prefix] = name
	}
	return out
}

// Prefix performs a reverse lookup. When several prefixes map to name the
// lowest one wins so the result is stable.
func (d *Database) Prefix(name string) (string, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var found string
	for prefix, n := range d.platforms {
		if n != name {
			continue
		}
		if found == "" || prefix < found {
			found = prefix
		}
	}
	return found, found != ""
}

// Names returns the distinct platform names, sorted.
func (d *Database) Names() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	seen := make(map[string]struct{}, len(d.platforms))
	names := make([]string, 0, len(d.platforms))
	for _, name := range d.platforms {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered prefixes.
func (d *Database) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.platforms)
}
