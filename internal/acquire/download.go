package acquire

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net"
	"net/http"
	"time"

	apperrors "github.com/DcZipPL/GodotManager/internal/errors"
)

const (
	// DefaultTimeout bounds a whole archive download
	DefaultTimeout = 10 * time.Minute
	// DefaultMaxArchiveSize caps how many bytes are buffered in memory.
	// The effective cap never exceeds what a bytes.Buffer can hold on the
	// running platform, see bufferLimit.
	DefaultMaxArchiveSize int64 = 2 << 30
	// DefaultUserAgent is the User-Agent header sent with requests
	DefaultUserAgent = "GodotManager/1.0"

	maxRedirects = 10
)

// Downloader fetches archives into memory
type Downloader struct {
	client    *http.Client
	userAgent string
	maxSize   int64
}

// NewDownloader creates a new downloader
func NewDownloader() *Downloader {
	return &Downloader{
		client: &http.Client{
			Timeout: DefaultTimeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("too many redirects")
				}
				return nil
			},
		},
		userAgent: DefaultUserAgent,
		maxSize:   DefaultMaxArchiveSize,
	}
}

// Fetch downloads url fully into memory. Nothing touches the filesystem.
// progress, when non-nil, is called as bytes arrive.
func (d *Downloader) Fetch(ctx context.Context, url string, progress func(read, total int64)) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, apperrors.New(apperrors.CodeDownload, "invalid download url", err)
	}
	req.Header.Set("User-Agent", d.userAgent)

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, classifyDownload(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.New(apperrors.CodeDownload,
			fmt.Sprintf("server returned status %d", resp.StatusCode), nil)
	}

	limit := bufferLimit(d.maxSize)
	if resp.ContentLength > limit {
		return nil, tooLarge(limit)
	}

	var buf bytes.Buffer
	if resp.ContentLength > 0 {
		buf.Grow(int(resp.ContentLength))
	}

	body := &progressReader{r: resp.Body, total: resp.ContentLength, report: progress}
	n, err := io.Copy(&buf, io.LimitReader(body, limit+1))
	if err != nil {
		return nil, classifyDownload(ctx, err)
	}
	if n > limit {
		return nil, tooLarge(limit)
	}
	if resp.ContentLength >= 0 && n != resp.ContentLength {
		return nil, apperrors.New(apperrors.CodeDownload,
			fmt.Sprintf("short body: got %d of %d bytes", n, resp.ContentLength), nil)
	}

	return buf.Bytes(), nil
}

// bufferLimit clamps n so that n+1 bytes still fit in an int. On 32-bit
// platforms this lowers the default cap to just under 2 GiB.
func bufferLimit(n int64) int64 {
	ceiling := int64(math.MaxInt) - 1
	if n > ceiling {
		return ceiling
	}
	return n
}

func tooLarge(limit int64) error {
	return apperrors.New(apperrors.CodeDownload,
		fmt.Sprintf("archive exceeds %d bytes", limit), nil)
}

// classifyDownload maps transport failures onto the error taxonomy. A
// cancelled parent context wins over whatever the transport reported.
func classifyDownload(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.Canceled) {
		return apperrors.New(apperrors.CodeCancelled, "download cancelled", err)
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return apperrors.NewTimeout(apperrors.CodeDownload, "download", err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return apperrors.NewTimeout(apperrors.CodeDownload, "download", err)
	}
	return apperrors.New(apperrors.CodeDownload, "download failed", err)
}

// progressReader reports cumulative bytes read to a callback.
type progressReader struct {
	r      io.Reader
	read   int64
	total  int64
	report func(read, total int64)
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.read += int64(n)
		if p.report != nil {
			p.report(p.read, p.total)
		}
	}
	return n, err
}
