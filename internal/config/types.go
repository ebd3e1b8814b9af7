package config

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/DcZipPL/GodotManager/internal/version"
)

// Settings is the effective configuration after all layers are merged.
type Settings struct {
	Registry Registry `mapstructure:"registry"`
	Install  Install  `mapstructure:"install"`
	Network  Network  `mapstructure:"network"`

	// Source is the Lua file that contributed to these settings, if any.
	Source string `mapstructure:"-"`
}

// Registry selects the upstream repository releases are listed from.
type Registry struct {
	Owner    string `mapstructure:"owner"`
	Repo     string `mapstructure:"repo"`
	PageSize int    `mapstructure:"page_size"`
	// Token authenticates API calls. Never written back out.
	Token   string `mapstructure:"token"`
	BaseURL string `mapstructure:"base_url"`
}

// Install controls where and what gets installed.
type Install struct {
	Root    string `mapstructure:"root"`
	Variant string `mapstructure:"variant"`
}

// Network holds transport limits.
type Network struct {
	APITimeout      time.Duration `mapstructure:"api_timeout"`
	DownloadTimeout time.Duration `mapstructure:"download_timeout"`
	UserAgent       string        `mapstructure:"user_agent"`
	MaxArchiveMB    int           `mapstructure:"max_archive_mb"`
}

// Variant parses Install.Variant.
func (s *Settings) Variant() version.Variant {
	v, err := version.ParseVariant(s.Install.Variant)
	if err != nil {
		return version.VariantStandard
	}
	return v
}

// MaxArchiveBytes converts Network.MaxArchiveMB to bytes.
func (s *Settings) MaxArchiveBytes() int64 {
	return int64(s.Network.MaxArchiveMB) << 20
}

var repoCoordinatePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// Validate performs the checks a JSON schema cannot express.
func (s *Settings) Validate() error {
	if !repoCoordinatePattern.MatchString(s.Registry.Owner) {
		return &ValidationError{Field: KeyRegistryOwner, Message: fmt.Sprintf("invalid owner %q", s.Registry.Owner)}
	}
	if !repoCoordinatePattern.MatchString(s.Registry.Repo) {
		return &ValidationError{Field: KeyRegistryRepo, Message: fmt.Sprintf("invalid repository %q", s.Registry.Repo)}
	}

	if s.Registry.BaseURL != "" {
		u, err := url.Parse(s.Registry.BaseURL)
		if err != nil || (u.Scheme != "https" && u.Scheme != "http") || u.Host == "" {
			return &ValidationError{Field: KeyRegistryBaseURL, Message: "must be an absolute http(s) URL"}
		}
	}

	if strings.TrimSpace(s.Install.Root) == "" {
		return &ValidationError{Field: KeyInstallRoot, Message: "cannot be empty"}
	}
	if _, err := version.ParseVariant(s.Install.Variant); err != nil {
		return &ValidationError{Field: KeyInstallVariant, Message: err.Error()}
	}

	if s.Network.APITimeout <= 0 {
		return &ValidationError{Field: KeyNetworkAPITimeout, Message: "must be positive"}
	}
	if s.Network.DownloadTimeout <= 0 {
		return &ValidationError{Field: KeyNetworkDownloadTimeout, Message: "must be positive"}
	}

	return nil
}

// ValidationError represents a config validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return "config validation failed for " + e.Field + ": " + e.Message
	}
	return "config validation failed: " + e.Message
}
