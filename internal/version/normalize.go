package version

import (
	"strings"

	"github.com/DcZipPL/GodotManager/internal/release"
)

// Normalize converts a raw registry record into a Version. It never fails:
// a missing or blank name falls back to the tag, and raw assets lacking a
// filename or download URL are skipped. Asset order is kept as-is.
func Normalize(raw release.RawRelease) Version {
	v := Version{
		ID:          raw.TagName,
		DisplayName: raw.TagName,
		Prerelease:  raw.Prerelease,
		assets:      make([]Asset, 0, len(raw.Assets)),
	}

	if raw.Name != nil && strings.TrimSpace(*raw.Name) != "" {
		v.DisplayName = *raw.Name
	}

	if raw.PublishedAt != nil {
		published := *raw.PublishedAt
		v.PublishedAt = &published
	}

	for _, a := range raw.Assets {
		if a.Name == "" || a.BrowserDownloadURL == "" {
			continue
		}
		v.assets = append(v.assets, Asset{
			Filename:    a.Name,
			DownloadURL: a.BrowserDownloadURL,
			ContentType: a.ContentType,
		})
	}

	return v
}

// NewVersion builds a Version directly, for callers that do not go through
// the registry (tests, pinned installs).
func NewVersion(id, displayName string, prerelease bool, assets []Asset) Version {
	name := displayName
	if strings.TrimSpace(name) == "" {
		name = id
	}
	own := make([]Asset, 0, len(assets))
	for _, a := range assets {
		if a.Filename == "" || a.DownloadURL == "" {
			continue
		}
		own = append(own, a)
	}
	return Version{ID: id, DisplayName: name, Prerelease: prerelease, assets: own}
}
