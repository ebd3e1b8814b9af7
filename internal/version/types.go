// Package version turns raw registry release records into the canonical
// Version model the rest of the manager works with.
package version

import (
	"fmt"
	"strings"
	"time"
)

// Asset is one downloadable file attached to a release.
type Asset struct {
	Filename    string
	DownloadURL string
	ContentType string
}

// Version is a published release of the upstream project.
type Version struct {
	// ID is the registry tag, the stable identifier of the release.
	ID          string
	DisplayName string
	// PublishedAt is nil when the registry omitted the timestamp.
	PublishedAt *time.Time
	Prerelease  bool

	assets []Asset
}

// Assets returns the release assets in registry order. The returned slice
// is a copy; a Version's assets never change after normalization.
func (v Version) Assets() []Asset {
	out := make([]Asset, len(v.assets))
	copy(out, v.assets)
	return out
}

// String renders the version the way listings show it.
func (v Version) String() string {
	if v.Prerelease {
		return v.DisplayName + " (prerelease)"
	}
	return v.DisplayName
}

// Variant is a build flavor of the same version.
type Variant int

const (
	// VariantStandard is the plain editor build.
	VariantStandard Variant = iota
	// VariantExtended is the build with the embedded .NET runtime ("mono").
	VariantExtended
)

// String returns the variant name used in install paths.
func (v Variant) String() string {
	switch v {
	case VariantStandard:
		return "standard"
	case VariantExtended:
		return "extended"
	default:
		return fmt.Sprintf("variant(%d)", int(v))
	}
}

// ParseVariant accepts "standard" and "extended" (or its upstream alias
// "mono"), case-insensitively. Empty input selects VariantStandard.
func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "standard":
		return VariantStandard, nil
	case "extended", "mono", "dotnet":
		return VariantExtended, nil
	default:
		return VariantStandard, fmt.Errorf("unknown variant %q (expected standard or extended)", s)
	}
}
