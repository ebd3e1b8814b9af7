// Package release talks to the GitHub Releases API and returns the raw
// release records of a repository, newest first, exactly as the registry
// ordered them.
package release

import "time"

// RawRelease is the subset of a registry release record the normalizer reads.
type RawRelease struct {
	// Name is nil when the registry omitted it.
	Name        *string
	TagName     string
	PublishedAt *time.Time
	Prerelease  bool
	Assets      []RawAsset
}

// RawAsset is the subset of a release asset record the normalizer reads.
type RawAsset struct {
	Name               string
	BrowserDownloadURL string
	ContentType        string
}
