package acquire

import (
	"time"

	"github.com/DcZipPL/GodotManager/internal/version"
)

// Format is the container format of a downloaded archive.
type Format int

const (
	// FormatUnknown is returned when the bytes match no supported format.
	FormatUnknown Format = iota
	// FormatZip is a PKZIP archive, the format upstream publishes.
	FormatZip
	// FormatTarGz is a gzip-compressed tarball.
	FormatTarGz
)

// String returns the string representation of the format
func (f Format) String() string {
	switch f {
	case FormatZip:
		return "zip"
	case FormatTarGz:
		return "tar.gz"
	default:
		return "unknown"
	}
}

// Stage is a step of the acquisition pipeline.
type Stage string

const (
	StageDownloading Stage = "downloading"
	StageValidating  Stage = "validating"
	StageExtracting  Stage = "extracting"
)

// Progress is reported to an Observer while an acquisition runs.
type Progress struct {
	Stage Stage
	// BytesRead and BytesTotal are set while downloading. BytesTotal is -1
	// when the server did not announce a length.
	BytesRead  int64
	BytesTotal int64
	// Files counts files written so far while extracting.
	Files int
}

// Observer receives progress updates. It is called from the goroutine
// running the acquisition and must not block.
type Observer func(Progress)

// Result describes a completed acquisition.
type Result struct {
	// Files is the number of regular files written under the target.
	Files    int
	Bytes    int64
	Format   Format
	Duration time.Duration
}

// Request is a single download action. It is built per action, consumed
// once by the pipeline and discarded afterwards.
type Request struct {
	// ID correlates status events of one request.
	ID      string
	Version version.Version
	Variant version.Variant
	Asset   version.Asset
	// TargetDirectory is derived from the version ID and variant, never
	// from archive contents. See TargetDirectory.
	TargetDirectory string
}
