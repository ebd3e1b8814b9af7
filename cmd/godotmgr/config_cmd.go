package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/DcZipPL/GodotManager/internal/config"
)

// runConfig handles `godotmgr config [show|path]`
func runConfig(args []string, out io.Writer) error {
	f, err := parseFlags(args)
	if err != nil {
		return err
	}
	action := "show"
	if len(f.positional) > 0 {
		action = f.positional[0]
	}
	if f.help {
		printConfigHelp(out)
		return nil
	}

	ctx := context.Background()
	s, err := loadSettings(ctx, f, newLogger(os.Stderr, f.debug))
	if err != nil {
		return err
	}

	switch action {
	case "show":
		if s.Source != "" {
			fmt.Fprintln(out, dimStyle.Render("-- loaded from "+s.Source))
		}
		code, err := config.NewGenerator().Generate(s)
		if err != nil {
			return err
		}
		fmt.Fprint(out, code)
		if s.Registry.Token != "" {
			fmt.Fprintln(out, dimStyle.Render("-- a registry token is set"))
		}
		return nil
	case "path":
		if s.Source != "" {
			fmt.Fprintln(out, s.Source)
			return nil
		}
		dir, err := config.DefaultDir()
		if err != nil {
			return err
		}
		fmt.Fprintln(out, dir+string(os.PathSeparator)+config.ConfigFileName+" (not present)")
		return nil
	default:
		printConfigHelp(out)
		return fmt.Errorf("unknown config action: %s", action)
	}
}

func printConfigHelp(out io.Writer) {
	fmt.Fprintln(out, "Usage: godotmgr config [show|path] [--config <file>]")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "  show   Print the effective settings as a Lua config (default)")
	fmt.Fprintln(out, "  path   Print the config file in use")
}
