// Package config loads GodotManager settings.
//
// # Overview
//
// Settings come from four layers, lowest first:
//   - built-in defaults (the godotengine/godot-builds registry, installs under
//     the user config directory, standard variant)
//   - an optional Lua config file, $GODOTMGR_CONFIG or
//     <UserConfigDir>/GodotManager/config.lua
//   - GODOTMGR_* environment variables (GODOTMGR_INSTALL_VARIANT, ...), with
//     GITHUB_TOKEN as a fallback for the registry token
//   - explicit overrides from the command line
//
// Layering is done with viper. The merged result is decoded into Settings,
// validated against an embedded JSON schema, then checked by
// Settings.Validate for what the schema cannot express.
//
// # Lua Config
//
// The file declares a single godotmgr table:
//
//	godotmgr = {
//	  registry = { owner = "godotengine", repo = "godot-builds", page_size = 10 },
//	  install = {
//	    root = "/opt/godot",
//	    variant = platform.is_windows and "extended" or "standard",
//	  },
//	  network = { api_timeout = 30, download_timeout = "15m" },
//	}
//
// Durations accept a number of seconds or a Go duration string. Unknown
// sections and fields are rejected so typos do not pass silently.
//
// # Security Model
//
// Config code runs in a gopher-lua VM with os, io, debug, code loading and
// raw table access removed. Evaluation is bounded by ParseTimeout and the
// file by MaxConfigSize. The injected platform table is read-only.
//
// A token written into the file is still honored, but Load logs a warning
// (see DetectSensitiveData) and Generator never writes it back.
//
// # Error Types
//
//	type ParseError struct {
//	    Message string // user-facing
//	    Detail  string // raw Lua error
//	}
//
//	type ValidationError struct {
//	    Field   string // dotted setting key
//	    Message string
//	}
package config
