package acquire

import (
	"context"
	"errors"
	"net/http"
	"time"

	apperrors "github.com/DcZipPL/GodotManager/internal/errors"
	"github.com/DcZipPL/GodotManager/internal/logging"
	"github.com/DcZipPL/GodotManager/internal/version"
)

// Pipeline orchestrates download, validation and extraction
type Pipeline struct {
	downloader *Downloader
	extractor  *Extractor
	logger     logging.Logger
	now        func() time.Time
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithHTTPClient replaces the download client. Its redirect policy and
// timeout are used as-is.
func WithHTTPClient(client *http.Client) Option {
	return func(p *Pipeline) {
		if client != nil {
			p.downloader.client = client
		}
	}
}

// WithTimeout bounds each archive download.
func WithTimeout(timeout time.Duration) Option {
	return func(p *Pipeline) {
		if timeout > 0 {
			p.downloader.client.Timeout = timeout
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(p *Pipeline) {
		if ua != "" {
			p.downloader.userAgent = ua
		}
	}
}

// WithMaxArchiveSize caps the bytes buffered for one archive.
func WithMaxArchiveSize(n int64) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.downloader.maxSize = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logging.OrNop(l)
		p.extractor.logger = p.logger
	}
}

// WithNow sets the time source used for lock staleness and durations.
func WithNow(now func() time.Time) Option {
	return func(p *Pipeline) {
		if now != nil {
			p.now = now
		}
	}
}

// NewPipeline creates a new acquisition pipeline
func NewPipeline(opts ...Option) *Pipeline {
	p := &Pipeline{
		downloader: NewDownloader(),
		extractor:  NewExtractor(nil),
		logger:     logging.Nop(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Acquire downloads asset and extracts it into targetDirectory, returning
// the number of files written.
func (p *Pipeline) Acquire(ctx context.Context, asset version.Asset, targetDirectory string) (Result, error) {
	return p.AcquireWithObserver(ctx, asset, targetDirectory, nil)
}

// AcquireWithObserver is Acquire with progress reporting.
//
// The archive is fully downloaded and validated before targetDirectory is
// created, so a bad download leaves nothing on disk. Failures during
// extraction leave already written files in place.
func (p *Pipeline) AcquireWithObserver(ctx context.Context, asset version.Asset, targetDirectory string, observe Observer) (Result, error) {
	start := p.now()
	notify := func(pr Progress) {
		if observe != nil {
			observe(pr)
		}
	}

	if asset.DownloadURL == "" {
		return Result{}, apperrors.New(apperrors.CodeDownload, "asset has no download url", nil)
	}
	if targetDirectory == "" {
		return Result{}, apperrors.New(apperrors.CodeFilesystem, "target directory is not set", nil)
	}

	p.logger.Info("downloading archive", "asset", asset.Filename, "url", asset.DownloadURL)
	notify(Progress{Stage: StageDownloading, BytesTotal: -1})
	data, err := p.downloader.Fetch(ctx, asset.DownloadURL, func(read, total int64) {
		notify(Progress{Stage: StageDownloading, BytesRead: read, BytesTotal: total})
	})
	if err != nil {
		return Result{}, err
	}

	notify(Progress{Stage: StageValidating, BytesRead: int64(len(data)), BytesTotal: int64(len(data))})
	arc, err := openArchive(data)
	if err != nil {
		return Result{}, err
	}
	planned, err := plan(arc.Entries())
	if err != nil {
		return Result{}, err
	}

	lock, err := AcquireLock(targetDirectory, p.now())
	if err != nil {
		if errors.Is(err, ErrLockExists) {
			return Result{}, apperrors.New(apperrors.CodeFilesystem, "install directory is locked", err)
		}
		return Result{}, apperrors.New(apperrors.CodeFilesystem, "lock install directory", err)
	}
	defer func() {
		if err := lock.Release(); err != nil {
			p.logger.Warn("failed to release lock", "path", LockPath(targetDirectory), "error", err)
		}
	}()

	notify(Progress{Stage: StageExtracting})
	files, err := p.extractor.Extract(ctx, arc, planned, targetDirectory, func(n int) {
		notify(Progress{Stage: StageExtracting, Files: n})
	})
	if err != nil {
		p.logger.Error("extraction failed", "target", targetDirectory, "files", files, "error", err)
		return Result{}, err
	}

	result := Result{
		Files:    files,
		Bytes:    int64(len(data)),
		Format:   arc.Format(),
		Duration: p.now().Sub(start),
	}
	p.logger.Info("archive extracted",
		"target", targetDirectory,
		"files", result.Files,
		"format", result.Format.String(),
		"duration", result.Duration)

	return result, nil
}
