package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/DcZipPL/GodotManager/internal/logging"
	"github.com/DcZipPL/GodotManager/internal/platform"
	"github.com/DcZipPL/GodotManager/internal/version"
)

type loadOptions struct {
	path      string
	overrides map[string]any
	detector  platform.Detector
	logger    logging.Logger
}

// LoadOption configures Load.
type LoadOption func(*loadOptions)

// WithConfigPath reads the Lua config at path instead of the default
// location. A missing explicit file is an error.
func WithConfigPath(path string) LoadOption {
	return func(o *loadOptions) { o.path = path }
}

// WithOverrides applies values above every other layer. Keys are dotted
// setting keys such as KeyInstallVariant.
func WithOverrides(values map[string]any) LoadOption {
	return func(o *loadOptions) { o.overrides = values }
}

// WithDetector exposes the platform table to the Lua config.
func WithDetector(d platform.Detector) LoadOption {
	return func(o *loadOptions) { o.detector = d }
}

// WithLogger sets the logger used for config warnings.
func WithLogger(l logging.Logger) LoadOption {
	return func(o *loadOptions) { o.logger = l }
}

// DefaultDir returns the per-user GodotManager directory. It holds the
// config file and is the default install root.
func DefaultDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate user config directory: %w", err)
	}
	return filepath.Join(base, AppDirName), nil
}

// Load builds the effective Settings. Layers, lowest first: built-in
// defaults, the Lua config file, GODOTMGR_* environment variables, then
// explicit overrides. GITHUB_TOKEN is consulted when no registry token is
// set otherwise.
func Load(ctx context.Context, opts ...LoadOption) (*Settings, error) {
	o := loadOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	logger := logging.OrNop(o.logger)

	v := viper.New()
	setDefaults(v)

	path, explicit := o.path, o.path != ""
	if !explicit {
		if env := os.Getenv(EnvConfigPath); env != "" {
			path, explicit = env, true
		} else if dir, err := DefaultDir(); err == nil {
			path = filepath.Join(dir, ConfigFileName)
		}
	}

	source := ""
	if path != "" {
		values, err := readConfigFile(ctx, path, o.detector, logger)
		switch {
		case err == nil:
			if err := v.MergeConfigMap(values); err != nil {
				return nil, fmt.Errorf("merge config file: %w", err)
			}
			source = path
		case !explicit && errors.Is(err, fs.ErrNotExist):
			logger.Debug("no config file, using defaults", "path", path)
		default:
			return nil, err
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv(KeyRegistryToken, envKey(KeyRegistryToken), EnvGitHubToken); err != nil {
		return nil, fmt.Errorf("bind token environment: %w", err)
	}

	for key, value := range o.overrides {
		v.Set(key, value)
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, &ValidationError{Message: fmt.Sprintf("decode settings: %v", err)}
	}
	s.Source = source

	variant, err := s.normalizeVariant()
	if err != nil {
		return nil, &ValidationError{Field: KeyInstallVariant, Message: err.Error()}
	}
	s.Install.Variant = variant

	if err := ValidateSchema(&s); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	logger.Debug("configuration loaded",
		"source", s.Source,
		"registry", s.Registry.Owner+"/"+s.Registry.Repo,
		"install_root", s.Install.Root,
		"variant", s.Install.Variant,
		"authenticated", s.Registry.Token != "")

	return &s, nil
}

// setDefaults registers every key. Without a user config directory the
// install root stays empty and must come from another layer.
func setDefaults(v *viper.Viper) {
	root, _ := DefaultDir()

	v.SetDefault(KeyRegistryOwner, DefaultOwner)
	v.SetDefault(KeyRegistryRepo, DefaultRepo)
	v.SetDefault(KeyRegistryPageSize, DefaultPageSize)
	v.SetDefault(KeyRegistryToken, "")
	v.SetDefault(KeyRegistryBaseURL, "")

	v.SetDefault(KeyInstallRoot, root)
	v.SetDefault(KeyInstallVariant, DefaultVariant)

	v.SetDefault(KeyNetworkAPITimeout, DefaultAPITimeout)
	v.SetDefault(KeyNetworkDownloadTimeout, DefaultDownloadTimeout)
	v.SetDefault(KeyNetworkUserAgent, DefaultUserAgent)
	v.SetDefault(KeyNetworkMaxArchiveMB, DefaultMaxArchiveMB)
}

// readConfigFile parses the Lua config at path and warns about
// credentials written into it.
func readConfigFile(ctx context.Context, path string, detector platform.Detector, logger logging.Logger) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if len(data) > MaxConfigSize {
		return nil, &ParseError{
			Message: "config file too large",
			Detail:  fmt.Sprintf("%s exceeds %d bytes", path, MaxConfigSize),
		}
	}

	if findings := DetectSensitiveData(string(data)); len(findings) > 0 {
		lines := make([]int, 0, len(findings))
		for _, f := range findings {
			lines = append(lines, f.Line)
		}
		logger.Warn("config file contains credentials", "path", path, "lines", lines)
	}

	values, err := NewParser(detector).ParseString(ctx, string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return values, nil
}

func (s *Settings) normalizeVariant() (string, error) {
	variant, err := version.ParseVariant(s.Install.Variant)
	if err != nil {
		return "", err
	}
	return variant.String(), nil
}
