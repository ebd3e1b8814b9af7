// Package acquire downloads a release archive and unpacks it into an
// installation directory.
//
// # Safety Model
//
// Archive contents are untrusted. Before anything is written:
//   - the downloaded bytes must parse as a zip or tar.gz archive
//   - every entry name is cleaned and checked; absolute paths, drive or
//     volume names and ".." escapes reject the whole archive
//
// Only then is the target directory created and locked.
//
// # Layout
//
// A single top-level directory shared by every entry is stripped, so an
// archive holding "Godot_v4.2.1-stable_mono_linux_x86_64/..." lands directly
// in the target. Archives with several top-level entries, or a lone file,
// are extracted as-is.
//
// # Usage
//
//	dir, err := acquire.TargetDirectory(root, version.VariantStandard, v.ID)
//	if err != nil {
//	    return err
//	}
//	result, err := acquire.NewPipeline().Acquire(ctx, asset, dir)
//
// # Architecture
//
//   - Pipeline: orchestration and progress reporting
//   - Downloader: HTTP fetch into memory with a size cap
//   - archive: format detection and zip/tar.gz readers
//   - Extractor: path planning and temp-file-and-rename writes
//   - Lock: per-target lock file
package acquire
