package mock

import (
	"context"
	"sort"

	"github.com/rs/zerolog"

	"github.com/OpenTraceLab/OpenTraceLS/pkg/platform"
)

// Compose merges the mappings of the given stores in order; later stores
// win on shared prefixes, so callers pass the global store before the
// local one. Prefixes are compared case-insensitively and returned
// upper-cased. Nil stores are skipped.
func Compose(ctx context.Context, stores ...*Store) (map[string]string, error) {
	merged := map[string]string{}
	for _, s := range stores {
		if s == nil {
			continue
		}
		platforms, err := s.Platforms(ctx, false)
		if err != nil {
			return nil, err
		}
		for prefix, name := range canonical(platforms) {
			merged[prefix] = name
		}
	}
	return merged, nil
}

// Apply adds every mapping to db. Mappings with malformed prefixes are
// logged and skipped; their prefixes are returned sorted.
func Apply(db *platform.Database, mocks map[string]string, log zerolog.Logger) []string {
	var skipped []string
	for prefix, name := range mocks {
		if err := db.Add(prefix, name); err != nil {
			log.Warn().Err(err).Str("prefix", prefix).Msg("ignoring invalid mocked platform")
			skipped = append(skipped, prefix)
			continue
		}
		log.Debug().Str("prefix", prefix).Str("platform", name).Msg("mocked platform applied")
	}
	sort.Strings(skipped)
	return skipped
}
