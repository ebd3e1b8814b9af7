package acquire

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"io/fs"
	"strings"
	"testing"
)

// testEntry describes an archive member. Names ending in "/" are
// directories.
type testEntry struct {
	Name    string
	Body    string
	Mode    fs.FileMode
	Symlink string
}

func buildZip(t *testing.T, entries ...testEntry) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, e := range entries {
		hdr := &zip.FileHeader{Name: e.Name, Method: zip.Deflate}
		switch {
		case strings.HasSuffix(e.Name, "/"):
			hdr.SetMode(fs.ModeDir | 0755)
		case e.Symlink != "":
			hdr.SetMode(fs.ModeSymlink | 0777)
		case e.Mode != 0:
			hdr.SetMode(e.Mode)
		default:
			hdr.SetMode(0644)
		}

		w, err := zw.CreateHeader(hdr)
		if err != nil {
			t.Fatalf("create zip entry %s: %v", e.Name, err)
		}
		body := e.Body
		if e.Symlink != "" {
			body = e.Symlink
		}
		if _, err := w.Write([]byte(body)); err != nil {
			t.Fatalf("write zip entry %s: %v", e.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func buildTarGz(t *testing.T, entries ...testEntry) []byte {
	t.Helper()

	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gw)
	for _, e := range entries {
		hdr := &tar.Header{Name: e.Name, Mode: 0644, Size: int64(len(e.Body)), Typeflag: tar.TypeReg}
		switch {
		case strings.HasSuffix(e.Name, "/"):
			hdr.Typeflag, hdr.Mode, hdr.Size = tar.TypeDir, 0755, 0
		case e.Symlink != "":
			hdr.Typeflag, hdr.Linkname, hdr.Size = tar.TypeSymlink, e.Symlink, 0
		case e.Mode != 0:
			hdr.Mode = int64(e.Mode.Perm())
		}

		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatalf("write tar header %s: %v", e.Name, err)
		}
		if hdr.Typeflag == tar.TypeReg {
			if _, err := tw.Write([]byte(e.Body)); err != nil {
				t.Fatalf("write tar entry %s: %v", e.Name, err)
			}
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatalf("close tar: %v", err)
	}
	if err := gw.Close(); err != nil {
		t.Fatalf("close gzip: %v", err)
	}
	return buf.Bytes()
}

// rootedEntries is the layout used by round-trip tests.
func rootedEntries() []testEntry {
	return []testEntry{
		{Name: "root/"},
		{Name: "root/a.txt", Body: "alpha"},
		{Name: "root/sub/"},
		{Name: "root/sub/b.txt", Body: "bravo"},
	}
}
