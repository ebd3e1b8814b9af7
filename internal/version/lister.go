package version

import (
	"context"
	"iter"
	"sync/atomic"

	"github.com/DcZipPL/GodotManager/internal/release"
)

// ReleaseSource lists raw releases of a repository.
type ReleaseSource interface {
	ListReleases(ctx context.Context, owner, repo string, pageSize int) ([]release.RawRelease, error)
}

// Lister composes a ReleaseSource with Normalize.
type Lister struct {
	source   ReleaseSource
	pageSize int
}

// NewLister creates a Lister fetching pageSize releases per call.
func NewLister(source ReleaseSource, pageSize int) *Lister {
	return &Lister{source: source, pageSize: release.ClampPageSize(pageSize)}
}

// ListVersions fetches the most recent releases of owner/repo and returns
// them as a lazy sequence of Versions in registry order. Each record is
// normalized only when the consumer reaches it. The sequence can be ranged
// over once; later ranges yield nothing. Errors from the source are
// returned unchanged.
func (l *Lister) ListVersions(ctx context.Context, owner, repo string) (iter.Seq[Version], error) {
	raws, err := l.source.ListReleases(ctx, owner, repo, l.pageSize)
	if err != nil {
		return nil, err
	}

	var consumed atomic.Bool
	return func(yield func(Version) bool) {
		if consumed.Swap(true) {
			return
		}
		for _, raw := range raws {
			if !yield(Normalize(raw)) {
				return
			}
		}
	}, nil
}
