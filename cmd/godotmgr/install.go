package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/DcZipPL/GodotManager/internal/service"
	"github.com/DcZipPL/GodotManager/internal/version"
)

// runInstall handles `godotmgr install <tag> [--mono]`
func runInstall(args []string, out io.Writer) error {
	f, err := parseFlags(args)
	if err != nil {
		return err
	}
	if f.help {
		printInstallHelp(out)
		return nil
	}
	if len(f.positional) != 1 {
		printInstallHelp(out)
		return fmt.Errorf("install requires exactly one release tag")
	}
	tag := f.positional[0]

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m, _, err := newManager(ctx, f)
	if err != nil {
		return err
	}

	variant := m.DefaultVariant()
	if f.mono {
		variant = version.VariantExtended
	}

	v, err := m.FindVersion(ctx, tag)
	if err != nil {
		return err
	}
	req, err := m.NewRequest(ctx, v, variant)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("Installing %s (%s)", v, variant)))
	fmt.Fprintln(out, dimStyle.Render(req.Asset.Filename+" -> "+req.TargetDirectory))

	_, err = followRequest(ctx, m.Start(ctx, req), out)
	return err
}

// followRequest prints h's status stream until it finishes. Cancelling ctx
// cancels the request.
func followRequest(ctx context.Context, h *service.Handle, out io.Writer) (service.Status, error) {
	printer := newStatusPrinter(out)
	var last service.Status

	events := h.Events()
	for events != nil {
		select {
		case st, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			last = st
			printer.print(st)
		case <-ctx.Done():
			h.Cancel()
			ctx = context.Background()
		}
	}

	_, err := h.Wait()
	return last, err
}

func printInstallHelp(out io.Writer) {
	fmt.Fprintln(out, "Usage: godotmgr install <tag> [--mono] [--root <dir>] [--config <file>]")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Downloads the release archive for this platform and extracts it to")
	fmt.Fprintln(out, "<root>/Instances/<variant>/<tag>.")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Options:")
	fmt.Fprintln(out, "  --mono   Install the .NET (extended) build")
}
