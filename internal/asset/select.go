// Package asset picks the downloadable archive of a release that matches a
// platform and build variant.
//
// Selection is an ordered filter over the release's assets:
//
//  1. the content type must be an archive media type
//  2. the filename must carry the OS/architecture token of the target
//  3. the filename must carry the extended-runtime marker exactly when the
//     extended variant is requested
//
// The first asset surviving all three filters wins, so the registry order is
// the tie-break. Selection performs no I/O and is safe for concurrent use.
package asset

import (
	"strings"

	apperrors "github.com/DcZipPL/GodotManager/internal/errors"
	"github.com/DcZipPL/GodotManager/internal/logging"
	"github.com/DcZipPL/GodotManager/internal/platform"
	"github.com/DcZipPL/GodotManager/internal/version"
)

// Selector selects assets and reports ambiguous matches to a Logger.
type Selector struct {
	logger logging.Logger
}

// NewSelector creates a Selector. A nil logger discards warnings.
func NewSelector(logger logging.Logger) *Selector {
	return &Selector{logger: logging.OrNop(logger)}
}

// Select is a convenience wrapper for a Selector without logging.
func Select(assets []version.Asset, target platform.Target, variant version.Variant) (version.Asset, error) {
	return NewSelector(nil).Select(assets, target, variant)
}

// Select returns the asset for target and variant.
//
// A target outside the supported set fails with UnsupportedPlatform before
// the asset list is looked at. No surviving candidate yields NotFound.
func (s *Selector) Select(assets []version.Asset, target platform.Target, variant version.Variant) (version.Asset, error) {
	tokens, err := platformTokens(target)
	if err != nil {
		return version.Asset{}, err
	}

	matches := Candidates(assets, tokens, variant)
	switch len(matches) {
	case 0:
		return version.Asset{}, apperrors.New(apperrors.CodeNotFound,
			"no "+variant.String()+" build for "+target.String(), nil)
	case 1:
		return matches[0], nil
	}

	names := make([]string, len(matches))
	for i, m := range matches {
		names[i] = m.Filename
	}
	s.logger.Warn("multiple assets match, using the first",
		"target", target.String(),
		"variant", variant.String(),
		"matches", names)

	return matches[0], nil
}

// Candidates returns, in registry order, every asset passing the archive,
// platform-token and variant filters.
func Candidates(assets []version.Asset, tokens []string, variant version.Variant) []version.Asset {
	var out []version.Asset
	for _, a := range assets {
		if !IsArchiveType(a.ContentType) {
			continue
		}
		name := strings.ToLower(a.Filename)
		if !containsAny(name, tokens) {
			continue
		}
		if strings.Contains(name, ExtendedMarker) != (variant == version.VariantExtended) {
			continue
		}
		out = append(out, a)
	}
	return out
}

// Supported reports whether builds exist for target at all.
func Supported(target platform.Target) bool {
	_, err := platformTokens(target)
	return err == nil
}

func containsAny(s string, tokens []string) bool {
	for _, t := range tokens {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}
