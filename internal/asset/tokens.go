package asset

import (
	"fmt"
	"mime"
	"strings"

	apperrors "github.com/DcZipPL/GodotManager/internal/errors"
	"github.com/DcZipPL/GodotManager/internal/platform"
)

// ExtendedMarker is the filename token carried by builds with the embedded
// .NET runtime.
const ExtendedMarker = "mono"

// archiveTypes lists the media types an installable archive may be served as.
var archiveTypes = map[string]bool{
	"application/zip":              true,
	"application/x-zip-compressed": true,
	"application/x-zip":            true,
	"application/gzip":             true,
	"application/x-gzip":           true,
	"application/x-gtar":           true,
}

// IsArchiveType reports whether contentType names an archive media type.
// Parameters such as "; charset=binary" are ignored.
func IsArchiveType(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.TrimSpace(contentType)
	}
	return archiveTypes[strings.ToLower(mediaType)]
}

// platformTokens returns the filename tokens identifying builds for target.
// The first token is canonical; the rest are aliases used by upstream
// release names (standard Linux builds are named "linux.x86_64").
func platformTokens(target platform.Target) ([]string, error) {
	switch target.OS {
	case platform.OSLinux:
		return mapLinuxArch(target)
	case platform.OSWindows:
		return mapWindowsArch(target)
	default:
		return nil, unsupported(target)
	}
}

// mapLinuxArch maps Linux architectures to release filename tokens
func mapLinuxArch(target platform.Target) ([]string, error) {
	switch target.Arch {
	case platform.ArchX86_64:
		return []string{"linux_x86_64", "linux.x86_64"}, nil
	case platform.ArchX86:
		return []string{"linux_x86_32", "linux.x86_32"}, nil
	default:
		return nil, unsupported(target)
	}
}

// mapWindowsArch maps Windows architectures to release filename tokens
func mapWindowsArch(target platform.Target) ([]string, error) {
	switch target.Arch {
	case platform.ArchX86_64:
		return []string{"win64"}, nil
	case platform.ArchX86:
		return []string{"win32"}, nil
	default:
		return nil, unsupported(target)
	}
}

func unsupported(target platform.Target) error {
	return apperrors.New(apperrors.CodeUnsupportedPlatform,
		fmt.Sprintf("no builds for platform %s", target), nil)
}
