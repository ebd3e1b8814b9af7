package config

import "time"

// Lua schema field names and globals
const (
	luaGlobalRoot = "godotmgr"

	luaSectionRegistry = "registry"
	luaSectionInstall  = "install"
	luaSectionNetwork  = "network"
)

// Setting keys, dotted as viper addresses them. Environment variables use
// EnvPrefix and underscores: registry.page_size -> GODOTMGR_REGISTRY_PAGE_SIZE.
const (
	KeyRegistryOwner    = "registry.owner"
	KeyRegistryRepo     = "registry.repo"
	KeyRegistryPageSize = "registry.page_size"
	KeyRegistryToken    = "registry.token"
	KeyRegistryBaseURL  = "registry.base_url"

	KeyInstallRoot    = "install.root"
	KeyInstallVariant = "install.variant"

	KeyNetworkAPITimeout      = "network.api_timeout"
	KeyNetworkDownloadTimeout = "network.download_timeout"
	KeyNetworkUserAgent       = "network.user_agent"
	KeyNetworkMaxArchiveMB    = "network.max_archive_mb"
)

const (
	// EnvPrefix prefixes every environment override.
	EnvPrefix = "GODOTMGR"
	// EnvConfigPath names the Lua config file to load.
	EnvConfigPath = "GODOTMGR_CONFIG"
	// EnvGitHubToken is read when no registry token is configured.
	EnvGitHubToken = "GITHUB_TOKEN"

	// AppDirName is the per-user directory holding config and installs.
	AppDirName = "GodotManager"
	// ConfigFileName is the Lua config file inside AppDirName.
	ConfigFileName = "config.lua"
)

// Defaults
const (
	DefaultOwner           = "godotengine"
	DefaultRepo            = "godot-builds"
	DefaultPageSize        = 10
	DefaultVariant         = "standard"
	DefaultAPITimeout      = 30 * time.Second
	DefaultDownloadTimeout = 10 * time.Minute
	DefaultUserAgent       = "GodotManager/1.0"
	DefaultMaxArchiveMB    = 2048

	// MaxConfigSize bounds the Lua source accepted from disk.
	MaxConfigSize = 1 << 20
	// ParseTimeout bounds Lua execution.
	ParseTimeout = 5 * time.Second
)

var sectionOrder = []string{luaSectionRegistry, luaSectionInstall, luaSectionNetwork}

// fieldTypes lists every accepted Lua field per section with its expected
// Lua type. Durations accept a number of seconds or a duration string.
var fieldTypes = map[string]map[string]fieldType{
	luaSectionRegistry: {
		"owner":     fieldString,
		"repo":      fieldString,
		"page_size": fieldInteger,
		"token":     fieldString,
		"base_url":  fieldString,
	},
	luaSectionInstall: {
		"root":    fieldString,
		"variant": fieldString,
	},
	luaSectionNetwork: {
		"api_timeout":      fieldDuration,
		"download_timeout": fieldDuration,
		"user_agent":       fieldString,
		"max_archive_mb":   fieldInteger,
	},
}

type fieldType int

const (
	fieldString fieldType = iota
	fieldInteger
	fieldDuration
)
