package main

import (
	"context"
	"fmt"
	"io"

	"github.com/DcZipPL/GodotManager/internal/asset"
	"github.com/DcZipPL/GodotManager/internal/platform"
)

// runPlatform handles `godotmgr platform`
func runPlatform(args []string, out io.Writer) error {
	f, err := parseFlags(args)
	if err != nil {
		return err
	}
	if f.help {
		fmt.Fprintln(out, "Usage: godotmgr platform")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Shows the detected OS and architecture and whether builds exist for it.")
		return nil
	}

	info, err := platform.NewDetector().Detect(context.Background())
	if err != nil {
		return err
	}
	renderPlatform(out, info)
	return nil
}

func renderPlatform(out io.Writer, info *platform.Info) {
	target := info.Target()
	fmt.Fprintln(out, titleStyle.Render("Platform"))
	fmt.Fprintf(out, "  target:  %s\n", target)
	if info.ArchRaw != "" {
		fmt.Fprintf(out, "  kernel:  %s\n", info.ArchRaw)
	}
	if d := info.GetDistro(); d != nil {
		fmt.Fprintf(out, "  distro:  %s %s\n", d.ID, d.Version)
	}
	if asset.Supported(target) {
		fmt.Fprintln(out, "  builds:  "+okStyle.Render("available"))
	} else {
		fmt.Fprintln(out, "  builds:  "+errStyle.Render("not supported"))
	}
}
