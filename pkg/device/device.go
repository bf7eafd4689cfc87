// Package device turns raw host enumeration results into identified board
// records.
package device

import (
	"encoding/json"
	"fmt"

	"github.com/OpenTraceLab/OpenTraceLS/pkg/warning"
)

// Type names the interface firmware convention found on a board's drive.
type Type string

const (
	TypeDAPLink Type = "daplink"
	TypeJLink   Type = "jlink"
	TypeUnknown Type = "unknown"
)

// Candidate is one attached device as reported by a Provider. MountPoint and
// SerialPort are empty when unknown.
type Candidate struct {
	USBID      string
	MountPoint string
	SerialPort string
}

// Provider enumerates attached devices on one kind of host.
//
//go:generate mockgen -destination=mock_provider.go -package=device github.com/OpenTraceLab/OpenTraceLS/pkg/device Provider
type Provider interface {
	// ListCandidates must not touch board filesystems.
	ListCandidates() ([]Candidate, error)
	// MountPointReady reports whether path can be read right now. It never
	// fails; inaccessible or non-directory paths are not ready.
	MountPointReady(path string) bool
}

// Record field names, as used in JSON output and retarget files.
const (
	FieldTargetIDUSB        = "target_id_usb_id"
	FieldTargetID           = "target_id"
	FieldMountPoint         = "mount_point"
	FieldSerialPort         = "serial_port"
	FieldDeviceType         = "device_type"
	FieldPlatformName       = "platform_name"
	FieldPlatformNameUnique = "platform_name_unique"
	FieldURL                = "url"
	FieldWarnings           = "warnings"
)

// Record is a listed device. Empty strings stand for absent values.
type Record struct {
	// TargetIDUSB is the identifier seen by the USB/mount subsystem.
	TargetIDUSB string
	// TargetID is the authoritative identifier; the board's own mbed.htm
	// wins over TargetIDUSB when it can be read.
	TargetID   string
	MountPoint string
	SerialPort string
	DeviceType Type
	// PlatformName is resolved from the first four characters of TargetID.
	PlatformName string
	// PlatformNameUnique disambiguates boards of the same model within one
	// listing, e.g. "K64F[1]". It is meaningless across listings.
	PlatformNameUnique string
	URL                string
	// Extra holds firmware reported key/values such as "daplink_version".
	Extra    map[string]any
	Warnings warning.Set
}

// NewRecord seeds a record from a candidate.
func NewRecord(c Candidate) Record {
	return Record{
		TargetIDUSB: c.USBID,
		TargetID:    c.USBID,
		MountPoint:  c.MountPoint,
		SerialPort:  c.SerialPort,
		DeviceType:  TypeUnknown,
		Extra:       map[string]any{},
	}
}

// Clone returns a deep copy.
func (r Record) Clone() Record {
	out := r
	out.Extra = make(map[string]any, len(r.Extra))
	for k, v := range r.Extra {
		out.Extra[k] = v
	}
	out.Warnings = r.Warnings.Clone()
	return out
}

// SetField overwrites a field by its JSON name. Unknown names land in Extra
// and a nil value clears the field. Warnings cannot be set. TargetID is never
// left empty: clearing it falls back to TargetIDUSB.
func (r *Record) SetField(name string, value any) bool {
	str := ""
	if value != nil {
		if s, ok := value.(string); ok {
			str = s
		} else {
			str = fmt.Sprint(value)
		}
	}

	switch name {
	case FieldTargetIDUSB:
		r.TargetIDUSB = str
	case FieldTargetID:
		if str == "" {
			str = r.TargetIDUSB
		}
		r.TargetID = str
	case FieldMountPoint:
		r.MountPoint = str
	case FieldSerialPort:
		r.SerialPort = str
	case FieldDeviceType:
		r.DeviceType = Type(str)
	case FieldPlatformName:
		r.PlatformName = str
	case FieldPlatformNameUnique:
		r.PlatformNameUnique = str
	case FieldURL:
		r.URL = str
	case FieldWarnings:
		return false
	default:
		if r.Extra == nil {
			r.Extra = map[string]any{}
		}
		if value == nil {
			delete(r.Extra, name)
		} else {
			r.Extra[name] = value
		}
	}
	return true
}

// Field returns a field by its JSON name.
func (r Record) Field(name string) (any, bool) {
	switch name {
	case FieldTargetIDUSB:
		return r.TargetIDUSB, true
	case FieldTargetID:
		return r.TargetID, true
	case FieldMountPoint:
		return r.MountPoint, true
	case FieldSerialPort:
		return r.SerialPort, true
	case FieldDeviceType:
		return string(r.DeviceType), true
	case FieldPlatformName:
		return r.PlatformName, true
	case FieldPlatformNameUnique:
		return r.PlatformNameUnique, true
	case FieldURL:
		return r.URL, r.URL != ""
	case FieldWarnings:
		return r.Warnings, true
	}
	v, ok := r.Extra[name]
	return v, ok
}

// MarshalJSON flattens Extra next to the fixed fields; absent values encode
// as null.
func (r Record) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Extra)+9)
	for k, v := range r.Extra {
		out[k] = v
	}
	out[FieldTargetIDUSB] = nullable(r.TargetIDUSB)
	out[FieldTargetID] = nullable(r.TargetID)
	out[FieldMountPoint] = nullable(r.MountPoint)
	out[FieldSerialPort] = nullable(r.SerialPort)
	out[FieldDeviceType] = nullable(string(r.DeviceType))
	out[FieldPlatformName] = nullable(r.PlatformName)
	out[FieldPlatformNameUnique] = nullable(r.PlatformNameUnique)
	if r.URL != "" {
		out[FieldURL] = r.URL
	}
	if r.Warnings == nil {
		out[FieldWarnings] = warning.Set{}
	} else {
		out[FieldWarnings] = r.Warnings
	}
	return json.Marshal(out)
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
