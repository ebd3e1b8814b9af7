package acquire

import (
	"fmt"
	"path/filepath"
	"regexp"

	apperrors "github.com/DcZipPL/GodotManager/internal/errors"
	"github.com/DcZipPL/GodotManager/internal/version"
)

// InstancesDir is the directory under the install root holding one
// subdirectory per variant.
const InstancesDir = "Instances"

var versionIDPattern = regexp.MustCompile(`^[A-Za-z0-9._+-]+$`)

// TargetDirectory returns <installRoot>/Instances/<variant>/<versionID>.
//
// The version ID comes from the registry and ends up as a path segment, so
// it must be a plain name: separators, "." and ".." are rejected.
func TargetDirectory(installRoot string, variant version.Variant, versionID string) (string, error) {
	if installRoot == "" {
		return "", apperrors.New(apperrors.CodeFilesystem, "install root is not set", nil)
	}
	if versionID == "." || versionID == ".." || !versionIDPattern.MatchString(versionID) {
		return "", apperrors.New(apperrors.CodeFilesystem,
			fmt.Sprintf("version id %q is not a valid directory name", versionID), nil)
	}
	return filepath.Join(installRoot, InstancesDir, variant.String(), versionID), nil
}
