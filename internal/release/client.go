package release

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v62/github"

	apperrors "github.com/DcZipPL/GodotManager/internal/errors"
	"github.com/DcZipPL/GodotManager/internal/logging"
)

const (
	// DefaultOwner and DefaultRepo point at the upstream editor builds.
	DefaultOwner = "godotengine"
	DefaultRepo  = "godot-builds"

	// MaxPageSize bounds how many of the most recent releases are listed.
	MaxPageSize = 10

	// DefaultTimeout bounds a single registry request.
	DefaultTimeout = 30 * time.Second

	// DefaultUserAgent is the User-Agent header sent with requests
	DefaultUserAgent = "GodotManager/1.0"
)

// Client lists releases through the GitHub REST API.
type Client struct {
	gh      *github.Client
	timeout time.Duration
	logger  logging.Logger
}

// Option configures a Client.
type Option func(*clientSettings)

type clientSettings struct {
	httpClient *http.Client
	baseURL    string
	token      string
	userAgent  string
	timeout    time.Duration
	logger     logging.Logger
}

// WithHTTPClient sets the HTTP client used for API calls.
func WithHTTPClient(client *http.Client) Option {
	return func(s *clientSettings) {
		if client != nil {
			s.httpClient = client
		}
	}
}

// WithBaseURL points the client at another API root (tests, GitHub Enterprise).
func WithBaseURL(base string) Option {
	return func(s *clientSettings) {
		s.baseURL = base
	}
}

// WithToken authenticates requests, raising the anonymous rate limit.
func WithToken(token string) Option {
	return func(s *clientSettings) {
		s.token = strings.TrimSpace(token)
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(s *clientSettings) {
		if ua != "" {
			s.userAgent = ua
		}
	}
}

// WithTimeout bounds each request.
func WithTimeout(timeout time.Duration) Option {
	return func(s *clientSettings) {
		if timeout > 0 {
			s.timeout = timeout
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(s *clientSettings) {
		s.logger = l
	}
}

// NewClient creates a registry client.
func NewClient(opts ...Option) (*Client, error) {
	s := clientSettings{
		httpClient: &http.Client{},
		userAgent:  DefaultUserAgent,
		timeout:    DefaultTimeout,
	}
	for _, opt := range opts {
		opt(&s)
	}

	gh := github.NewClient(s.httpClient)
	if s.token != "" {
		gh = gh.WithAuthToken(s.token)
	}
	gh.UserAgent = s.userAgent

	if s.baseURL != "" {
		base := s.baseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		u, err := url.Parse(base)
		if err != nil {
			return nil, fmt.Errorf("parse registry base URL: %w", err)
		}
		gh.BaseURL = u
	}

	return &Client{
		gh:      gh,
		timeout: s.timeout,
		logger:  logging.OrNop(s.logger),
	}, nil
}

// ClampPageSize bounds n to [1, MaxPageSize]; non-positive values select
// the full page.
func ClampPageSize(n int) int {
	switch {
	case n < 1:
		return MaxPageSize
	case n > MaxPageSize:
		return MaxPageSize
	default:
		return n
	}
}

// ListReleases fetches one page of the most recent releases of owner/repo.
// The registry's order (newest first) is preserved. Nothing is retried or
// cached.
func (c *Client) ListReleases(ctx context.Context, owner, repo string, pageSize int) ([]RawRelease, error) {
	if owner == "" || repo == "" {
		return nil, apperrors.New(apperrors.CodeRegistry, "repository owner and name are required", nil)
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	perPage := ClampPageSize(pageSize)
	c.logger.Debug("listing releases", "owner", owner, "repo", repo, "per_page", perPage)

	releases, _, err := c.gh.Repositories.ListReleases(reqCtx, owner, repo, &github.ListOptions{PerPage: perPage})
	if err != nil {
		return nil, classify(ctx, err)
	}
	// An empty or null body decodes to a nil slice; "[]" does not.
	if releases == nil {
		return nil, apperrors.New(apperrors.CodeRegistry, "malformed registry response", nil)
	}

	// Some registries ignore per_page.
	if len(releases) > perPage {
		releases = releases[:perPage]
	}

	out := make([]RawRelease, 0, len(releases))
	for _, rel := range releases {
		if rel == nil {
			continue
		}
		out = append(out, fromGitHub(rel))
	}

	c.logger.Debug("listed releases", "owner", owner, "repo", repo, "count", len(out))
	return out, nil
}

// classify maps a go-github failure onto the error taxonomy.
func classify(parent context.Context, err error) error {
	if errors.Is(parent.Err(), context.Canceled) {
		return apperrors.New(apperrors.CodeCancelled, "registry request cancelled", err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.NewTimeout(apperrors.CodeNetwork, "registry request", err)
	}

	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return apperrors.New(apperrors.CodeRegistry, "registry rate limit exceeded", err)
	}
	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return apperrors.New(apperrors.CodeRegistry, "registry rate limit exceeded", err)
	}
	var respErr *github.ErrorResponse
	if errors.As(err, &respErr) {
		status := 0
		if respErr.Response != nil {
			status = respErr.Response.StatusCode
		}
		return apperrors.New(apperrors.CodeRegistry, fmt.Sprintf("registry returned status %d", status), err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return apperrors.NewTimeout(apperrors.CodeNetwork, "registry request", err)
		}
		return apperrors.New(apperrors.CodeNetwork, "registry unreachable", err)
	}

	// Anything else is a body that did not decode as a release list.
	return apperrors.New(apperrors.CodeRegistry, "malformed registry response", err)
}

func fromGitHub(rel *github.RepositoryRelease) RawRelease {
	raw := RawRelease{
		Name:       rel.Name,
		TagName:    rel.GetTagName(),
		Prerelease: rel.GetPrerelease(),
		Assets:     make([]RawAsset, 0, len(rel.Assets)),
	}
	if rel.PublishedAt != nil && !rel.PublishedAt.IsZero() {
		published := rel.PublishedAt.Time
		raw.PublishedAt = &published
	}
	for _, a := range rel.Assets {
		if a == nil {
			continue
		}
		raw.Assets = append(raw.Assets, RawAsset{
			Name:               a.GetName(),
			BrowserDownloadURL: a.GetBrowserDownloadURL(),
			ContentType:        a.GetContentType(),
		})
	}
	return raw
}
