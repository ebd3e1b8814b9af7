// Package platform describes the machine an installation targets.
//
// A Target is derived at runtime and passed explicitly to the asset
// selector, so one binary can be exercised against every OS/architecture
// combination in tests. Detection uses gopsutil for the host kernel
// architecture and Linux distribution details, with graceful fallback to
// the Go runtime values when detection fails.
package platform

import "context"

// OS is the host operating system family.
type OS string

const (
	OSLinux   OS = "linux"
	OSWindows OS = "windows"
	OSMacOS   OS = "macos"
	OSOther   OS = "other"
)

// Arch is the host CPU architecture.
type Arch string

const (
	ArchX86_64 Arch = "x86_64"
	ArchX86    Arch = "x86"
	ArchARM64  Arch = "arm64"
	ArchOther  Arch = "other"
)

// Target is the OS/architecture pair an asset must be built for.
type Target struct {
	OS   OS
	Arch Arch
}

// String returns "os/arch".
func (t Target) String() string {
	return string(t.OS) + "/" + string(t.Arch)
}

// Info contains platform detection information.
type Info struct {
	OS       OS
	Arch     Arch
	ArchRaw  string // architecture as reported by the kernel (e.g. "x86_64", "i686", "aarch64")
	Platform string // distro ID (Linux only, e.g. "ubuntu", "arch")
	Family   string // distro family as reported by gopsutil (Linux only)
	Version  string // distro version (Linux only, e.g. "22.04")
}

// Target returns the OS/architecture pair of the detected host.
func (i *Info) Target() Target {
	return Target{OS: i.OS, Arch: i.Arch}
}

// Distro contains Linux distribution information.
// This is nil on non-Linux platforms.
type Distro struct {
	ID      string
	Family  string
	Version string
}

// GetDistro returns distro information if this is a Linux platform.
// Returns nil for non-Linux platforms or if distro detection failed.
func (i *Info) GetDistro() *Distro {
	if i.OS != OSLinux || i.Platform == "" {
		return nil
	}
	return &Distro{
		ID:      i.Platform,
		Family:  i.Family,
		Version: i.Version,
	}
}

// IsLinux returns true if the platform is Linux.
func (i *Info) IsLinux() bool {
	return i.OS == OSLinux
}

// IsMacOS returns true if the platform is macOS.
func (i *Info) IsMacOS() bool {
	return i.OS == OSMacOS
}

// IsWindows returns true if the platform is Windows.
func (i *Info) IsWindows() bool {
	return i.OS == OSWindows
}

// Is64Bit returns true on x86_64 and arm64 hosts.
func (i *Info) Is64Bit() bool {
	return i.Arch == ArchX86_64 || i.Arch == ArchARM64
}

// Detector is the interface for platform detection.
type Detector interface {
	Detect(ctx context.Context) (*Info, error)
}
