package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/DcZipPL/GodotManager/internal/acquire"
	"github.com/DcZipPL/GodotManager/internal/version"
)

// runList handles `godotmgr list`
func runList(args []string, out io.Writer) error {
	f, err := parseFlags(args)
	if err != nil {
		return err
	}
	if f.help {
		printListHelp(out)
		return nil
	}

	ctx := context.Background()
	m, s, err := newManager(ctx, f)
	if err != nil {
		return err
	}

	versions, err := m.ListVersions(ctx)
	if err != nil {
		return err
	}

	var all []version.Version
	idWidth := 0
	for v := range versions {
		all = append(all, v)
		idWidth = max(idWidth, len(v.ID))
	}

	fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("Releases of %s/%s", s.Registry.Owner, s.Registry.Repo)))
	if len(all) == 0 {
		fmt.Fprintln(out, dimStyle.Render("No releases published."))
		return nil
	}
	for _, v := range all {
		fmt.Fprintln(out, renderVersionRow(v, installedVariants(s.Install.Root, v.ID), idWidth))
	}
	return nil
}

// installedVariants reports which variants of id already have an install
// directory under root.
func installedVariants(root, id string) []string {
	var out []string
	for _, variant := range []version.Variant{version.VariantStandard, version.VariantExtended} {
		dir, err := acquire.TargetDirectory(root, variant, id)
		if err != nil {
			continue
		}
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			out = append(out, variant.String())
		}
	}
	return out
}

func printListHelp(out io.Writer) {
	fmt.Fprintln(out, "Usage: godotmgr list [--config <file>] [--debug]")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Lists the latest releases of the configured registry, newest first.")
}
