package platform

import "strings"

// archAliases maps GOARCH values and kernel machine names to Arch.
var archAliases = map[string]Arch{
	"amd64":   ArchX86_64,
	"x86_64":  ArchX86_64,
	"x64":     ArchX86_64,
	"386":     ArchX86,
	"i386":    ArchX86,
	"i486":    ArchX86,
	"i586":    ArchX86,
	"i686":    ArchX86,
	"x86":     ArchX86,
	"arm64":   ArchARM64,
	"aarch64": ArchARM64,
	"armv8":   ArchARM64,
}

// NormalizeOS converts a GOOS value to an OS.
func NormalizeOS(goos string) OS {
	switch normalizePlatform(goos) {
	case "linux":
		return OSLinux
	case "windows":
		return OSWindows
	case "darwin", "macos":
		return OSMacOS
	default:
		return OSOther
	}
}

// NormalizeArch converts a GOARCH value or kernel machine name to an Arch.
// Unknown architectures map to ArchOther rather than failing; the asset
// selector reports them as unsupported.
func NormalizeArch(arch string) Arch {
	if a, ok := archAliases[normalizePlatform(arch)]; ok {
		return a
	}
	return ArchOther
}

// normalizePlatform converts platform IDs to lowercase for consistency.
func normalizePlatform(platform string) string {
	return strings.ToLower(strings.TrimSpace(platform))
}
