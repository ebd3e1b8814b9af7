package acquire

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	apperrors "github.com/DcZipPL/GodotManager/internal/errors"
	"github.com/DcZipPL/GodotManager/internal/logging"
)

// Extractor writes validated archives to disk
type Extractor struct {
	logger logging.Logger
}

// NewExtractor creates a new extractor
func NewExtractor(logger logging.Logger) *Extractor {
	return &Extractor{logger: logging.OrNop(logger)}
}

// plannedEntry is an archive entry with its destination resolved.
type plannedEntry struct {
	entry
	rel string // slash-separated path below the target, "" to skip
}

// plan resolves every entry to a path below the target directory. It
// rejects the whole archive if any entry would land outside it, before
// anything is written.
func plan(entries []entry) ([]plannedEntry, error) {
	cleaned := make([]string, len(entries))
	for i, e := range entries {
		rel, err := safeRelPath(e.Name)
		if err != nil {
			return nil, err
		}
		cleaned[i] = rel
	}

	root := commonRoot(cleaned, entries)

	out := make([]plannedEntry, len(entries))
	for i, e := range entries {
		rel := cleaned[i]
		if root != "" {
			switch {
			case rel == root:
				rel = ""
			case strings.HasPrefix(rel, root+"/"):
				rel = rel[len(root)+1:]
			}
		}
		out[i] = plannedEntry{entry: e, rel: rel}
	}
	return out, nil
}

// safeRelPath cleans an archive entry name and rejects absolute paths,
// volume names and parent-directory escapes.
func safeRelPath(name string) (string, error) {
	unsafe := func(reason string) error {
		return apperrors.New(apperrors.CodeUnsafeArchiveEntry,
			fmt.Sprintf("unsafe archive entry %q: %s", name, reason), nil)
	}

	if name == "" {
		return "", unsafe("empty name")
	}
	if strings.HasPrefix(name, "/") {
		return "", unsafe("absolute path")
	}
	if hasVolumeName(name) {
		return "", unsafe("volume name")
	}

	cleaned := path.Clean(name)
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", unsafe("escapes the target directory")
	}
	if cleaned == "." {
		return "", nil
	}
	return cleaned, nil
}

func hasVolumeName(name string) bool {
	if filepath.VolumeName(filepath.FromSlash(name)) != "" {
		return true
	}
	// Drive letters are not volume names to filepath on Unix.
	if len(name) >= 2 && name[1] == ':' {
		c := name[0]
		return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
	}
	return false
}

// commonRoot returns the first path segment shared by every entry, or ""
// when some entry is not beneath a single top-level directory. A lone file
// at the top level is never treated as a root. Special entries are
// ignored since Extract never writes them.
func commonRoot(cleaned []string, entries []entry) string {
	root := ""
	for i, rel := range cleaned {
		if rel == "" || entries[i].Kind == kindOther {
			continue
		}
		first, _, nested := strings.Cut(rel, "/")
		if !nested && entries[i].Kind != kindDir {
			return ""
		}
		if root == "" {
			root = first
		} else if first != root {
			return ""
		}
	}
	return root
}

// Extract writes every planned entry below targetDir and returns the number
// of regular files written. Files are written to a temporary sibling and
// renamed into place, so a file is either complete or absent. There is no
// rollback on failure.
func (x *Extractor) Extract(ctx context.Context, a archive, planned []plannedEntry, targetDir string, progress func(files int)) (int, error) {
	if err := os.MkdirAll(targetDir, 0755); err != nil {
		return 0, apperrors.New(apperrors.CodeFilesystem, "create install directory", err)
	}

	files := 0
	err := a.Walk(func(i int, e entry, r io.Reader) error {
		if err := ctx.Err(); err != nil {
			return apperrors.New(apperrors.CodeCancelled, "extraction cancelled", err)
		}

		p := planned[i]
		if p.rel == "" {
			return nil
		}
		dest := filepath.Join(targetDir, filepath.FromSlash(p.rel))
		if !within(targetDir, dest) {
			return apperrors.New(apperrors.CodeUnsafeArchiveEntry,
				fmt.Sprintf("unsafe archive entry %q: escapes the target directory", e.Name), nil)
		}

		switch e.Kind {
		case kindDir:
			if err := os.MkdirAll(dest, 0755); err != nil {
				return apperrors.New(apperrors.CodeFilesystem, "create directory "+p.rel, err)
			}
		case kindFile:
			if err := writeFile(dest, e.Mode, r); err != nil {
				return err
			}
			files++
			if progress != nil {
				progress(files)
			}
		default:
			x.logger.Debug("skipping special archive entry", "name", e.Name, "mode", e.Mode.String())
		}
		return nil
	})
	return files, err
}

// within reports whether dest is targetDir or lies beneath it.
func within(targetDir, dest string) bool {
	rel, err := filepath.Rel(targetDir, dest)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel)
}

// writeFile copies r to dest through a temporary file in the same
// directory. Read errors are reported as a corrupt archive, write errors as
// a filesystem failure.
func writeFile(dest string, mode os.FileMode, r io.Reader) error {
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return apperrors.New(apperrors.CodeFilesystem, "create directory", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(dest)+".tmp-*")
	if err != nil {
		return apperrors.New(apperrors.CodeFilesystem, "create temp file", err)
	}
	tmpPath := tmp.Name()

	cleanupNeeded := true
	defer func() {
		tmp.Close()
		if cleanupNeeded {
			os.Remove(tmpPath)
		}
	}()

	src := &sourceReader{r: r}
	if _, err := io.Copy(tmp, src); err != nil {
		if src.err != nil {
			return corrupt("read "+filepath.Base(dest), src.err)
		}
		return apperrors.New(apperrors.CodeFilesystem, "write "+dest, err)
	}

	perm := os.FileMode(0644)
	if mode.Perm()&0111 != 0 {
		perm = 0755
	}
	if err := tmp.Chmod(perm); err != nil {
		return apperrors.New(apperrors.CodeFilesystem, "set permissions on "+dest, err)
	}

	if err := tmp.Close(); err != nil {
		return apperrors.New(apperrors.CodeFilesystem, "close "+dest, err)
	}

	if err := os.Rename(tmpPath, dest); err != nil {
		return apperrors.New(apperrors.CodeFilesystem, "rename into "+dest, err)
	}

	cleanupNeeded = false
	return nil
}
