package device

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/OpenTraceLab/OpenTraceLS/pkg/platform"
	"github.com/OpenTraceLab/OpenTraceLS/pkg/retarget"
	"github.com/OpenTraceLab/OpenTraceLS/pkg/warning"
)

// FSBehavior selects when, if ever, board filesystems are consulted.
type FSBehavior int

const (
	// FSBeforeFilter reads every board's drive, then filters the enriched
	// records.
	FSBeforeFilter FSBehavior = iota
	// FSAfterFilter filters the USB derived records, then reads the drives
	// of the survivors only.
	FSAfterFilter
	// FSNever lists from USB data alone.
	FSNever
)

func (b FSBehavior) String() string {
	switch b {
	case FSBeforeFilter:
		return "before"
	case FSAfterFilter:
		return "after"
	case FSNever:
		return "never"
	default:
		return fmt.Sprintf("FSBehavior(%d)", int(b))
	}
}

// ParseFSBehavior accepts the String forms.
func ParseFSBehavior(s string) (FSBehavior, error) {
	switch strings.ToLower(s) {
	case "before", "":
		return FSBeforeFilter, nil
	case "after":
		return FSAfterFilter, nil
	case "never", "none", "off":
		return FSNever, nil
	}
	return 0, fmt.Errorf("device: unknown filesystem behavior %q (want before, after or never)", s)
}

// Filter decides whether a record is kept. It receives a copy and must not
// depend on mutating it.
type Filter func(Record) bool

// MatchTargetID keeps records whose target ID matches any pattern at its
// start. No patterns keeps everything.
func MatchTargetID(patterns ...*regexp.Regexp) Filter {
	return func(r Record) bool {
		if len(patterns) == 0 {
			return true
		}
		for _, p := range patterns {
			if loc := p.FindStringIndex(r.TargetID); loc != nil && loc[0] == 0 {
				return true
			}
		}
		return false
	}
}

// CompileTargetIDFilter compiles exprs into a MatchTargetID filter; it returns
// nil for no expressions.
func CompileTargetIDFilter(exprs []string) (Filter, error) {
	if len(exprs) == 0 {
		return nil, nil
	}
	patterns := make([]*regexp.Regexp, 0, len(exprs))
	for _, expr := range exprs {
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("device: target ID filter %q: %w", expr, err)
		}
		patterns = append(patterns, re)
	}
	return MatchTargetID(patterns...), nil
}

// ListOptions control a single listing.
type ListOptions struct {
	FS     FSBehavior
	Filter Filter
	// ListUnmounted keeps devices whose drive is missing or unreadable.
	ListUnmounted bool
	// ReadDetails parses DAPLink details.txt into Extra.
	ReadDetails bool
}

// Platforms resolves target ID prefixes; *platform.Database implements it.
type Platforms interface {
	Get(prefix string) (string, bool)
	Names() []string
}

// Lister runs the identification pipeline over a provider's candidates.
type Lister struct {
	platforms Platforms
	provider  Provider
	overrides *retarget.Set
	log       zerolog.Logger
}

// ListerOption configures a Lister.
type ListerOption func(*Lister)

// WithOverrides applies retarget overrides as the last step of every listing.
func WithOverrides(s *retarget.Set) ListerOption {
	return func(l *Lister) {
		l.overrides = s
	}
}

// WithLogger attaches a logger.
func WithLogger(log zerolog.Logger) ListerOption {
	return func(l *Lister) {
		l.log = log
	}
}

// NewLister creates a lister.
func NewLister(platforms Platforms, provider Provider, opts ...ListerOption) *Lister {
	l := &Lister{
		platforms: platforms,
		provider:  provider,
		overrides: retarget.Disabled(),
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// List returns one record per surviving candidate, in provider order. Only a
// provider failure is returned as an error; problems with individual
// boards end up as warnings or exclusion of that board.
func (l *Lister) List(opts ListOptions) ([]Record, error) {
	l.log.Debug().Stringer("fs", opts.FS).Bool("unmounted", opts.ListUnmounted).
		Bool("details", opts.ReadDetails).Msg("listing devices")

	candidates, err := l.provider.ListCandidates()
	if err != nil {
		return nil, fmt.Errorf("device: list candidates: %w", err)
	}

	records := make([]Record, 0, len(candidates))
	counts := map[string]int{}
	for _, c := range candidates {
		rec := NewRecord(c)
		l.resolve(&rec)

		if opts.FS == FSBeforeFilter && !l.reconcile(&rec, opts) {
			continue
		}
		if opts.Filter != nil && !opts.Filter(rec.Clone()) {
			l.log.Debug().Str("target_id", rec.TargetID).Msg("filtered out")
			continue
		}
		if opts.FS == FSAfterFilter && !l.reconcile(&rec, opts) {
			continue
		}

		name := rec.PlatformName
		if name == "" {
			name = string(TypeUnknown)
		}
		rec.PlatformNameUnique = fmt.Sprintf("%s[%d]", name, counts[name])
		counts[name]++

		l.retarget(&rec)
		records = append(records, rec)
	}
	return records, nil
}

// resolve sets PlatformName from the current TargetID.
func (l *Lister) resolve(rec *Record) {
	name, ok := l.platforms.Get(platform.PrefixOf(rec.TargetID))
	if !ok {
		l.log.Debug().Str("target_id", rec.TargetID).Msg("no platform found")
		rec.PlatformName = ""
		rec.Warnings.Add(warning.PlatformNotFound)
		return
	}
	rec.PlatformName = name
	rec.Warnings.Discard(warning.PlatformNotFound)
}

// reconcile enriches rec from its drive. It returns false when the record
// must be dropped.
func (l *Lister) reconcile(rec *Record, opts ListOptions) bool {
	if rec.MountPoint == "" {
		return l.unmounted(rec, opts, "no mount point")
	}
	if !l.provider.MountPointReady(rec.MountPoint) {
		return l.unmounted(rec, opts, "mount point not ready")
	}

	entries, err := os.ReadDir(rec.MountPoint)
	if err != nil {
		// Ejected between the readiness probe and the listing.
		l.log.Debug().Err(err).Str("mount_point", rec.MountPoint).Msg("listing mount point failed")
		return l.unmounted(rec, opts, "mount point vanished")
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	files := indexFiles(names)

	if htm, ok := lookupFile(files, DAPLinkHtmName); ok {
		l.updateDAPLink(rec, htm, files, opts.ReadDetails)
		return true
	}
	for _, marker := range JLinkMarkerNames {
		if page, ok := lookupFile(files, marker); ok {
			l.updateJLink(rec, page)
			return true
		}
	}
	rec.DeviceType = TypeUnknown
	return true
}

func (l *Lister) unmounted(rec *Record, opts ListOptions, reason string) bool {
	if !opts.ListUnmounted {
		l.log.Debug().Str("target_id", rec.TargetID).Str("reason", reason).Msg("removing from results")
		return false
	}
	l.log.Debug().Str("target_id", rec.TargetID).Str("reason", reason).Msg("keeping unmounted device")
	rec.MountPoint = ""
	rec.DeviceType = TypeUnknown
	rec.Warnings.Add(warning.NoMountPoint)
	return true
}

func (l *Lister) updateDAPLink(rec *Record, htm string, files map[string]string, readDetails bool) {
	rec.DeviceType = TypeDAPLink

	info, err := parseHtmFile(filepath.Join(rec.MountPoint, htm))
	switch {
	case err != nil:
		l.log.Debug().Err(err).Str("target_id", rec.TargetID).Msg("could not read mbed.htm")
		rec.Warnings.Add(warning.NoHtmFile)
	default:
		if info.Version != "" {
			rec.Extra[htmVersionField] = info.Version
		}
		if info.Build != "" {
			rec.Extra[htmBuildField] = info.Build
		}
		switch {
		case info.TargetID == "":
			rec.Warnings.Add(warning.NoHtmID)
		case info.TargetID != rec.TargetID:
			l.log.Debug().Str("usb", rec.TargetID).Str("htm", info.TargetID).Msg("target ID differs from mbed.htm")
			rec.TargetID = info.TargetID
			l.resolve(rec)
		}
	}

	if !readDetails {
		return
	}
	details, ok := lookupFile(files, DAPLinkDetailsName)
	if !ok {
		rec.Warnings.Add(warning.NoDeviceTxt)
		return
	}
	res, err := parseDetailsFile(filepath.Join(rec.MountPoint, details))
	if err != nil {
		l.log.Debug().Err(err).Str("target_id", rec.TargetID).Msg("could not open details.txt")
		rec.Warnings.Add(warning.NoDeviceTxt)
		return
	}
	if res.BadLines > 0 {
		rec.Warnings.Add(warning.BadDeviceTxtParse)
	}
	for k, v := range res.Fields {
		rec.Extra[k] = v
	}
}

func (l *Lister) updateJLink(rec *Record, page string) {
	rec.DeviceType = TypeJLink

	url, err := parseRedirectFile(filepath.Join(rec.MountPoint, page))
	if err != nil {
		l.log.Debug().Err(err).Str("target_id", rec.TargetID).Str("file", page).Msg("no J-Link redirect")
		return
	}
	rec.URL = url

	name, ok := matchModel(urlModel(url), l.platforms.Names())
	if !ok {
		l.log.Debug().Str("url", url).Msg("no platform matches J-Link url")
		return
	}
	rec.PlatformName = name
	rec.Warnings.Discard(warning.PlatformNotFound)
}

func (l *Lister) retarget(rec *Record) {
	fields, ok := l.overrides.Lookup(rec.TargetID)
	if !ok {
		return
	}
	l.log.Info().Str("target_id", rec.TargetID).Msg("applying retarget data")
	for name, value := range fields {
		if !rec.SetField(name, value) {
			l.log.Warn().Str("target_id", rec.TargetID).Str("field", name).Msg("retarget field cannot be overridden")
		}
	}
}
