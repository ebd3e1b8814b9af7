package acquire

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"errors"
	"io"
	"io/fs"
	"strings"

	apperrors "github.com/DcZipPL/GodotManager/internal/errors"
)

var (
	zipMagic      = []byte("PK\x03\x04")
	zipEmptyMagic = []byte("PK\x05\x06")
	gzipMagic     = []byte{0x1f, 0x8b}
)

// DetectFormat identifies the archive format from its leading bytes. The
// Content-Type the server sent is not trusted.
func DetectFormat(data []byte) Format {
	switch {
	case bytes.HasPrefix(data, zipMagic), bytes.HasPrefix(data, zipEmptyMagic):
		return FormatZip
	case bytes.HasPrefix(data, gzipMagic):
		return FormatTarGz
	default:
		return FormatUnknown
	}
}

// entryKind classifies archive members.
type entryKind int

const (
	kindFile entryKind = iota
	kindDir
	kindOther
)

// entry is one member of an archive, with its name normalized to forward
// slashes.
type entry struct {
	Name string
	Mode fs.FileMode
	Kind entryKind
}

// archive is an opened, validated archive.
type archive interface {
	Format() Format
	Entries() []entry
	// Walk calls fn for every entry in Entries order. For files, r yields
	// the uncompressed contents; it is nil otherwise.
	Walk(fn func(i int, e entry, r io.Reader) error) error
}

// openArchive validates data and returns a reader over its entries. It fails
// with CorruptArchive when data is not a complete archive of a supported
// format.
func openArchive(data []byte) (archive, error) {
	switch DetectFormat(data) {
	case FormatZip:
		return openZip(data)
	case FormatTarGz:
		return openTarGz(data)
	default:
		return nil, corrupt("not a zip or tar.gz archive", nil)
	}
}

func corrupt(msg string, err error) error {
	return apperrors.New(apperrors.CodeCorruptArchive, msg, err)
}

func normalizeName(name string) string {
	return strings.ReplaceAll(name, `\`, "/")
}

type zipArchive struct {
	r       *zip.Reader
	entries []entry
}

func openZip(data []byte) (*zipArchive, error) {
	// Entry names are checked by plan, so ErrInsecurePath is not fatal here.
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil && !(errors.Is(err, zip.ErrInsecurePath) && r != nil) {
		return nil, corrupt("invalid zip archive", err)
	}

	a := &zipArchive{r: r, entries: make([]entry, 0, len(r.File))}
	for _, f := range r.File {
		mode := f.Mode()
		kind := kindFile
		switch {
		case mode.IsDir() || strings.HasSuffix(f.Name, "/"):
			kind = kindDir
		case !mode.IsRegular():
			kind = kindOther
		}
		a.entries = append(a.entries, entry{Name: normalizeName(f.Name), Mode: mode, Kind: kind})
	}
	return a, nil
}

func (a *zipArchive) Format() Format   { return FormatZip }
func (a *zipArchive) Entries() []entry { return a.entries }

func (a *zipArchive) Walk(fn func(int, entry, io.Reader) error) error {
	for i, f := range a.r.File {
		e := a.entries[i]
		if e.Kind != kindFile {
			if err := fn(i, e, nil); err != nil {
				return err
			}
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return corrupt("open "+e.Name, err)
		}
		err = fn(i, e, rc)
		rc.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

// tarGzArchive keeps the compressed bytes and re-reads them on Walk. The
// headers and the gzip checksum are verified once at open time.
type tarGzArchive struct {
	data    []byte
	entries []entry
}

func openTarGz(data []byte) (*tarGzArchive, error) {
	a := &tarGzArchive{data: data}
	err := a.scan(func(hdr *tar.Header, _ io.Reader) error {
		a.entries = append(a.entries, tarEntry(hdr))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

func tarEntry(hdr *tar.Header) entry {
	kind := kindOther
	switch hdr.Typeflag {
	case tar.TypeReg:
		kind = kindFile
	case tar.TypeDir:
		kind = kindDir
	}
	return entry{Name: normalizeName(hdr.Name), Mode: hdr.FileInfo().Mode(), Kind: kind}
}

// scan iterates the tarball, draining every member so a truncated stream
// or bad checksum surfaces as an error.
func (a *tarGzArchive) scan(fn func(hdr *tar.Header, r io.Reader) error) error {
	gz, err := gzip.NewReader(bytes.NewReader(a.data))
	if err != nil {
		return corrupt("invalid gzip stream", err)
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil && !(errors.Is(err, tar.ErrInsecurePath) && hdr != nil) {
			return corrupt("invalid tar stream", err)
		}
		src := &sourceReader{r: tr}
		if err := fn(hdr, src); err != nil {
			return err
		}
		if _, err := io.Copy(io.Discard, src); err != nil {
			return corrupt("read "+hdr.Name, err)
		}
	}

	// Reading to EOF verifies the gzip trailer.
	if _, err := io.Copy(io.Discard, gz); err != nil {
		return corrupt("invalid gzip stream", err)
	}
	return nil
}

func (a *tarGzArchive) Format() Format   { return FormatTarGz }
func (a *tarGzArchive) Entries() []entry { return a.entries }

func (a *tarGzArchive) Walk(fn func(int, entry, io.Reader) error) error {
	i := 0
	return a.scan(func(hdr *tar.Header, r io.Reader) error {
		if i >= len(a.entries) {
			return corrupt("archive changed between reads", nil)
		}
		e := a.entries[i]
		idx := i
		i++
		if e.Kind != kindFile {
			return fn(idx, e, nil)
		}
		return fn(idx, e, r)
	})
}

// sourceReader remembers read errors so a failed copy can be blamed on the
// archive rather than the destination.
type sourceReader struct {
	r   io.Reader
	err error
}

func (s *sourceReader) Read(b []byte) (int, error) {
	n, err := s.r.Read(b)
	if err != nil && !errors.Is(err, io.EOF) {
		s.err = err
	}
	return n, err
}
