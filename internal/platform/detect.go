package platform

import (
	"context"
	"fmt"
	"runtime"

	"github.com/shirou/gopsutil/v4/host"
)

// RealDetector implements Detector using actual platform detection.
type RealDetector struct {
	goos       func() string
	goarch     func() string
	kernelArch func() (string, error)
	distroInfo func(ctx context.Context) (platform, family, version string, err error)
}

// NewDetector creates a new platform detector.
func NewDetector() Detector {
	return &RealDetector{
		goos:       func() string { return runtime.GOOS },
		goarch:     func() string { return runtime.GOARCH },
		kernelArch: host.KernelArch,
		distroInfo: host.PlatformInformationWithContext,
	}
}

// Detect performs platform detection and returns platform information.
//
// The architecture comes from the host kernel rather than GOARCH: a 32-bit
// build of this tool running on a 64-bit Windows should still install the
// 64-bit editor. If the kernel query fails, GOARCH is used instead.
//
// On Linux, distribution details are filled in when gopsutil can read them;
// a failed lookup leaves them empty. Only context cancellation is an error.
func (d *RealDetector) Detect(ctx context.Context) (*Info, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("platform detection cancelled: %w", err)
	}

	info := &Info{OS: NormalizeOS(d.goos())}

	raw, err := d.kernelArch()
	if err != nil || raw == "" {
		raw = d.goarch()
	}
	info.ArchRaw = raw
	info.Arch = NormalizeArch(raw)

	if info.OS != OSLinux {
		return info, nil
	}

	platform, family, version, err := d.distroInfo(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("platform detection cancelled: %w", ctx.Err())
		}
		return info, nil
	}

	if platform = normalizePlatform(platform); platform != "" {
		info.Platform = platform
		info.Family = normalizePlatform(family)
		info.Version = normalizePlatform(version)
	}

	return info, nil
}

// StaticDetector reports a fixed platform. It backs configuration overrides
// (forcing a target for another machine) and tests.
type StaticDetector struct {
	Info Info
}

// Detect returns a copy of the configured info.
func (s StaticDetector) Detect(ctx context.Context) (*Info, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("platform detection cancelled: %w", err)
	}
	info := s.Info
	return &info, nil
}
