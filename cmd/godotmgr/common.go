package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/DcZipPL/GodotManager/internal/config"
	apperrors "github.com/DcZipPL/GodotManager/internal/errors"
	"github.com/DcZipPL/GodotManager/internal/platform"
	"github.com/DcZipPL/GodotManager/internal/service"
)

// cliFlags are the options shared by every subcommand.
type cliFlags struct {
	debug      bool
	help       bool
	mono       bool
	configPath string
	root       string
	positional []string
}

func parseFlags(args []string) (cliFlags, error) {
	var f cliFlags
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--help" || arg == "-h":
			f.help = true
		case arg == "--debug":
			f.debug = true
		case arg == "--mono" || arg == "--extended":
			f.mono = true
		case arg == "--config" || arg == "--root":
			if i+1 >= len(args) {
				return f, fmt.Errorf("%s requires a value", arg)
			}
			i++
			if arg == "--config" {
				f.configPath = args[i]
			} else {
				f.root = args[i]
			}
		case strings.HasPrefix(arg, "--config="):
			f.configPath = strings.TrimPrefix(arg, "--config=")
		case strings.HasPrefix(arg, "--root="):
			f.root = strings.TrimPrefix(arg, "--root=")
		case strings.HasPrefix(arg, "-") && arg != "-":
			return f, fmt.Errorf("unknown option: %s", arg)
		default:
			f.positional = append(f.positional, arg)
		}
	}
	if os.Getenv("GODOTMGR_DEBUG") != "" {
		f.debug = true
	}
	return f, nil
}

// newLogger writes text logs to w. Without debug only warnings and errors
// are shown so status output stays readable.
func newLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func loadSettings(ctx context.Context, f cliFlags, logger *slog.Logger) (*config.Settings, error) {
	opts := []config.LoadOption{
		config.WithLogger(logger),
		config.WithDetector(platform.NewDetector()),
	}
	if f.configPath != "" {
		opts = append(opts, config.WithConfigPath(f.configPath))
	}
	if f.root != "" {
		opts = append(opts, config.WithOverrides(map[string]any{config.KeyInstallRoot: f.root}))
	}

	s, err := config.Load(ctx, opts...)
	if err != nil {
		return nil, apperrors.New(apperrors.CodeConfiguration, "load configuration", err)
	}
	return s, nil
}

func newManager(ctx context.Context, f cliFlags) (*service.Manager, *config.Settings, error) {
	logger := newLogger(os.Stderr, f.debug)
	s, err := loadSettings(ctx, f, logger)
	if err != nil {
		return nil, nil, err
	}
	m, err := service.NewManager(s, service.WithLogger(logger))
	if err != nil {
		return nil, nil, err
	}
	return m, s, nil
}

// describeError renders err for the "Error:" line.
func describeError(err error) string {
	var parseErr *config.ParseError
	if errors.As(err, &parseErr) {
		return config.FormatError(parseErr, false)
	}
	var validationErr *config.ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.Error()
	}

	if apperrors.IsCode(err, apperrors.CodeConfiguration) {
		return err.Error()
	}

	reason := apperrors.Reason(err)
	if apperrors.Retriable(err) {
		reason += " (try again)"
	}
	return reason
}
