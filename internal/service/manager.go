// Package service is the boundary the presentation layer talks to. It
// composes release listing, asset selection and acquisition behind
// Manager and turns pipeline progress into a stream of Status events.
package service

import (
	"context"
	"iter"
	"net/http"

	"github.com/google/uuid"

	"github.com/DcZipPL/GodotManager/internal/acquire"
	"github.com/DcZipPL/GodotManager/internal/asset"
	"github.com/DcZipPL/GodotManager/internal/config"
	apperrors "github.com/DcZipPL/GodotManager/internal/errors"
	"github.com/DcZipPL/GodotManager/internal/logging"
	"github.com/DcZipPL/GodotManager/internal/platform"
	"github.com/DcZipPL/GodotManager/internal/release"
	"github.com/DcZipPL/GodotManager/internal/version"
)

// VersionLister lists normalized versions of a repository.
type VersionLister interface {
	ListVersions(ctx context.Context, owner, repo string) (iter.Seq[version.Version], error)
}

// AssetSelector picks the archive for a target and variant.
type AssetSelector interface {
	Select(assets []version.Asset, target platform.Target, variant version.Variant) (version.Asset, error)
}

// Acquirer downloads and extracts one asset.
type Acquirer interface {
	AcquireWithObserver(ctx context.Context, a version.Asset, targetDirectory string, observe acquire.Observer) (acquire.Result, error)
}

// Manager is the facade over the release manager core.
type Manager struct {
	lister   VersionLister
	selector AssetSelector
	acquirer Acquirer
	detector platform.Detector
	clock    Clock
	logger   logging.Logger
	newID    func() string

	owner       string
	repo        string
	installRoot string
	variant     version.Variant
}

// Option overrides a collaborator built by NewManager.
type Option func(*managerOptions)

type managerOptions struct {
	lister     VersionLister
	selector   AssetSelector
	acquirer   Acquirer
	detector   platform.Detector
	clock      Clock
	logger     logging.Logger
	httpClient *http.Client
	newID      func() string
}

// WithLister replaces the release lister.
func WithLister(l VersionLister) Option {
	return func(o *managerOptions) { o.lister = l }
}

// WithSelector replaces the asset selector.
func WithSelector(s AssetSelector) Option {
	return func(o *managerOptions) { o.selector = s }
}

// WithAcquirer replaces the download and extraction pipeline.
func WithAcquirer(a Acquirer) Option {
	return func(o *managerOptions) { o.acquirer = a }
}

// WithDetector replaces the host platform detector.
func WithDetector(d platform.Detector) Option {
	return func(o *managerOptions) { o.detector = d }
}

// WithClock sets the clock used to timestamp statuses.
func WithClock(c Clock) Option {
	return func(o *managerOptions) { o.clock = c }
}

// WithLogger sets the logger shared by every built collaborator.
func WithLogger(l logging.Logger) Option {
	return func(o *managerOptions) { o.logger = l }
}

// WithHTTPClient sets the client used for both registry calls and
// downloads.
func WithHTTPClient(c *http.Client) Option {
	return func(o *managerOptions) { o.httpClient = c }
}

// WithIDGenerator replaces the request ID source.
func WithIDGenerator(f func() string) Option {
	return func(o *managerOptions) { o.newID = f }
}

// NewManager wires the core from settings. Collaborators not overridden by
// options are built from the settings.
func NewManager(s *config.Settings, opts ...Option) (*Manager, error) {
	if s == nil {
		return nil, apperrors.New(apperrors.CodeConfiguration, "settings are required", nil)
	}

	o := managerOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	logger := logging.OrNop(o.logger)
	if o.clock == nil {
		o.clock = RealClock{}
	}
	if o.newID == nil {
		o.newID = uuid.NewString
	}
	if o.detector == nil {
		o.detector = platform.NewDetector()
	}
	if o.selector == nil {
		o.selector = asset.NewSelector(logger)
	}

	if o.lister == nil {
		clientOpts := []release.Option{
			release.WithToken(s.Registry.Token),
			release.WithUserAgent(s.Network.UserAgent),
			release.WithTimeout(s.Network.APITimeout),
			release.WithLogger(logger),
			release.WithHTTPClient(o.httpClient),
		}
		if s.Registry.BaseURL != "" {
			clientOpts = append(clientOpts, release.WithBaseURL(s.Registry.BaseURL))
		}
		client, err := release.NewClient(clientOpts...)
		if err != nil {
			return nil, apperrors.New(apperrors.CodeConfiguration, "invalid registry settings", err)
		}
		o.lister = version.NewLister(client, s.Registry.PageSize)
	}

	if o.acquirer == nil {
		pipelineOpts := []acquire.Option{
			acquire.WithTimeout(s.Network.DownloadTimeout),
			acquire.WithUserAgent(s.Network.UserAgent),
			acquire.WithMaxArchiveSize(s.MaxArchiveBytes()),
			acquire.WithLogger(logger),
			acquire.WithNow(o.clock.Now),
		}
		if o.httpClient != nil {
			pipelineOpts = append(pipelineOpts, acquire.WithHTTPClient(o.httpClient))
		}
		o.acquirer = acquire.NewPipeline(pipelineOpts...)
	}

	return &Manager{
		lister:      o.lister,
		selector:    o.selector,
		acquirer:    o.acquirer,
		detector:    o.detector,
		clock:       o.clock,
		logger:      logger,
		newID:       o.newID,
		owner:       s.Registry.Owner,
		repo:        s.Registry.Repo,
		installRoot: s.Install.Root,
		variant:     s.Variant(),
	}, nil
}

// DefaultVariant is the variant configured in settings.
func (m *Manager) DefaultVariant() version.Variant {
	return m.variant
}

// ListVersions returns the most recent releases of the configured
// repository in registry order. See version.Lister.
func (m *Manager) ListVersions(ctx context.Context) (iter.Seq[version.Version], error) {
	return m.lister.ListVersions(ctx, m.owner, m.repo)
}

// FindVersion returns the listed version whose ID is id.
func (m *Manager) FindVersion(ctx context.Context, id string) (version.Version, error) {
	versions, err := m.ListVersions(ctx)
	if err != nil {
		return version.Version{}, err
	}
	for v := range versions {
		if v.ID == id {
			return v, nil
		}
	}
	return version.Version{}, apperrors.New(apperrors.CodeNotFound, "version "+id+" is not among the latest releases", nil)
}

// Target detects the platform installs are made for.
func (m *Manager) Target(ctx context.Context) (platform.Target, error) {
	info, err := m.detector.Detect(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return platform.Target{}, apperrors.New(apperrors.CodeCancelled, "platform detection cancelled", err)
		}
		return platform.Target{}, apperrors.New(apperrors.CodeUnsupportedPlatform, "detect platform", err)
	}
	return info.Target(), nil
}

// SelectAsset picks the archive of v for this machine and variant.
func (m *Manager) SelectAsset(ctx context.Context, v version.Version, variant version.Variant) (version.Asset, error) {
	target, err := m.Target(ctx)
	if err != nil {
		return version.Asset{}, err
	}
	return m.selector.Select(v.Assets(), target, variant)
}

// NewRequest builds the acquisition request for v: it selects the asset,
// derives the target directory and assigns a fresh ID.
func (m *Manager) NewRequest(ctx context.Context, v version.Version, variant version.Variant) (acquire.Request, error) {
	a, err := m.SelectAsset(ctx, v, variant)
	if err != nil {
		return acquire.Request{}, err
	}
	dir, err := acquire.TargetDirectory(m.installRoot, variant, v.ID)
	if err != nil {
		return acquire.Request{}, err
	}
	return acquire.Request{
		ID:              m.newID(),
		Version:         v,
		Variant:         variant,
		Asset:           a,
		TargetDirectory: dir,
	}, nil
}

// Acquire runs req to completion, calling report for every status change.
// report receives StagePending first and exactly one terminal status
// last. It is called on the calling goroutine; a nil report is allowed.
func (m *Manager) Acquire(ctx context.Context, req acquire.Request, report func(Status)) (acquire.Result, error) {
	if report == nil {
		report = func(Status) {}
	}

	report(Status{RequestID: req.ID, Stage: StagePending, Message: msgPending, At: m.clock.Now(), BytesTotal: -1})
	m.logger.Info("acquisition started",
		"request", req.ID,
		"version", req.Version.ID,
		"variant", req.Variant.String(),
		"asset", req.Asset.Filename)

	result, err := m.acquirer.AcquireWithObserver(ctx, req.Asset, req.TargetDirectory, func(p acquire.Progress) {
		report(progressStatus(req.ID, p, m.clock.Now()))
	})

	final := finalStatus(req.ID, result, err, m.clock.Now())
	if err != nil {
		m.logger.Warn("acquisition ended", "request", req.ID, "stage", string(final.Stage), "error", err)
	} else {
		m.logger.Info("acquisition completed", "request", req.ID, "files", result.Files)
	}
	report(final)

	return result, err
}
