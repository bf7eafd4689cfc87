// Package warning records per-device problems that the lister worked around.
package warning

import (
	"encoding/json"
	"fmt"
)

// Kind identifies one class of device warning.
type Kind string

const (
	NoHtmID           Kind = "NoHtmId"
	NoHtmFile         Kind = "NoHtmFile"
	NoMountPoint      Kind = "NoMountPoint"
	NoDeviceTxt       Kind = "NoDeviceTxt"
	BadDeviceTxtParse Kind = "BadDeviceTxtParse"
	PlatformNotFound  Kind = "PlatformNotFound"
)

var messages = map[Kind]string{
	NoHtmID:           "Could not find a target id in MBED.HTM",
	NoHtmFile:         "Could not open MBED.HTM",
	NoMountPoint:      "Mount point not found",
	NoDeviceTxt:       "Could not open DETAILS.TXT",
	BadDeviceTxtParse: "Could not parse DETAILS.TXT",
	PlatformNotFound:  "Device not found in platform database",
}

// implies lists, for a warning, the more specific warnings it already
// accounts for.
var implies = map[Kind][]Kind{
	NoMountPoint: {NoHtmID, NoHtmFile, NoDeviceTxt, BadDeviceTxtParse},
	NoHtmFile:    {NoHtmID},
	NoDeviceTxt:  {BadDeviceTxtParse},
}

// Kinds returns every known warning kind.
func Kinds() []Kind {
	return []Kind{NoHtmID, NoHtmFile, NoMountPoint, NoDeviceTxt, BadDeviceTxtParse, PlatformNotFound}
}

// Message returns the human readable description of k.
func (k Kind) Message() string {
	if msg, ok := messages[k]; ok {
		return msg
	}
	return string(k)
}

// Implies reports whether k subsumes other.
func (k Kind) Implies(other Kind) bool {
	for _, sub := range implies[k] {
		if sub == other {
			return true
		}
	}
	return false
}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	_, ok := messages[k]
	return ok
}

// Set is an insertion-ordered collection of warnings.
type Set []Kind

// Add appends k unless it is already present or implied by a warning already
// in the set. It reports whether the set changed.
func (s *Set) Add(k Kind) bool {
	for _, have := range *s {
		if have == k || have.Implies(k) {
			return false
		}
	}
	*s = append(*s, k)
	return true
}

// Has reports whether k is in the set.
func (s Set) Has(k Kind) bool {
	for _, have := range s {
		if have == k {
			return true
		}
	}
	return false
}

// Discard removes k, keeping the order of the remaining warnings.
func (s *Set) Discard(k Kind) {
	out := (*s)[:0]
	for _, have := range *s {
		if have != k {
			out = append(out, have)
		}
	}
	*s = out
}

// Clone returns an independent copy.
func (s Set) Clone() Set {
	if s == nil {
		return nil
	}
	out := make(Set, len(s))
	copy(out, s)
	return out
}

// Messages returns the descriptions of the warnings in order.
func (s Set) Messages() []string {
	out := make([]string, len(s))
	for i, k := range s {
		out[i] = k.Message()
	}
	return out
}

// MarshalJSON encodes the set as a list of kind names, never null.
func (s Set) MarshalJSON() ([]byte, error) {
	names := make([]string, len(s))
	for i, k := range s {
		names[i] = string(k)
	}
	return json.Marshal(names)
}

// UnmarshalJSON decodes a list of kind names through Add.
func (s *Set) UnmarshalJSON(data []byte) error {
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return err
	}
	*s = nil
	for _, name := range names {
		k := Kind(name)
		if !k.Valid() {
			return fmt.Errorf("warning: unknown kind %q", name)
		}
		s.Add(k)
	}
	return nil
}
