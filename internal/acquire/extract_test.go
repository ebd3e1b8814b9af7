package acquire

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	apperrors "github.com/DcZipPL/GodotManager/internal/errors"
)

func TestSafeRelPath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"plain", "root/a.txt", "root/a.txt", false},
		{"dot_segments", "root/./sub/../a.txt", "root/a.txt", false},
		{"directory", "root/", "root", false},
		{"current_dir", "./", "", false},
		{"parent", "../evil.txt", "", true},
		{"nested_escape", "root/../../evil.txt", "", true},
		{"bare_parent", "..", "", true},
		{"absolute", "/etc/passwd", "", true},
		{"drive_letter", "C:/Windows/evil.dll", "", true},
		{"drive_relative", "c:evil.dll", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := safeRelPath(tt.input)
			if tt.wantErr {
				if !errors.Is(err, apperrors.ErrUnsafeArchiveEntry) {
					t.Errorf("safeRelPath(%q) error = %v, want UnsafeArchiveEntry", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("safeRelPath(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("safeRelPath(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestPlan_CommonRoot(t *testing.T) {
	file := func(name string) entry { return entry{Name: name, Kind: kindFile} }
	dir := func(name string) entry { return entry{Name: name, Kind: kindDir} }
	special := func(name string) entry { return entry{Name: name, Kind: kindOther} }

	tests := []struct {
		name    string
		entries []entry
		want    []string
	}{
		{
			name:    "single_root_stripped",
			entries: []entry{dir("root/"), file("root/a.txt"), dir("root/sub/"), file("root/sub/b.txt")},
			want:    []string{"", "a.txt", "sub", "sub/b.txt"},
		},
		{
			name:    "root_without_dir_entries",
			entries: []entry{file("root/a.txt"), file("root/sub/b.txt")},
			want:    []string{"a.txt", "sub/b.txt"},
		},
		{
			name:    "lone_top_level_file_kept",
			entries: []entry{file("Godot_v4.2.1-stable_linux.x86_64")},
			want:    []string{"Godot_v4.2.1-stable_linux.x86_64"},
		},
		{
			name:    "two_roots_kept",
			entries: []entry{file("a/x"), file("b/y")},
			want:    []string{"a/x", "b/y"},
		},
		{
			name:    "special_entry_beside_root_ignored",
			entries: []entry{file("root/a.txt"), special("latest"), file("root/sub/b.txt")},
			want:    []string{"a.txt", "latest", "sub/b.txt"},
		},
		{
			name:    "file_beside_root_kept",
			entries: []entry{file("root/x"), file("README")},
			want:    []string{"root/x", "README"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			planned, err := plan(tt.entries)
			if err != nil {
				t.Fatalf("plan() error = %v", err)
			}
			for i, p := range planned {
				if p.rel != tt.want[i] {
					t.Errorf("entry %q -> %q, want %q", p.Name, p.rel, tt.want[i])
				}
			}
		})
	}
}

func TestPlan_RejectsBeforeWriting(t *testing.T) {
	entries := []entry{
		{Name: "root/a.txt", Kind: kindFile},
		{Name: "root/../../escape.txt", Kind: kindFile},
	}
	if _, err := plan(entries); !errors.Is(err, apperrors.ErrUnsafeArchiveEntry) {
		t.Errorf("plan() error = %v, want UnsafeArchiveEntry", err)
	}
}

func TestExtract_WritesFilesAndSkipsSymlinks(t *testing.T) {
	data := buildZip(t,
		testEntry{Name: "root/bin/godot", Body: "#!/bin/sh\n", Mode: 0755},
		testEntry{Name: "root/readme.txt", Body: "hi"},
		testEntry{Name: "root/link", Symlink: "readme.txt"},
	)
	arc, err := openArchive(data)
	if err != nil {
		t.Fatalf("openArchive() error = %v", err)
	}
	planned, err := plan(arc.Entries())
	if err != nil {
		t.Fatalf("plan() error = %v", err)
	}

	target := filepath.Join(t.TempDir(), "out")
	var reported []int
	files, err := NewExtractor(nil).Extract(context.Background(), arc, planned, target, func(n int) {
		reported = append(reported, n)
	})
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if files != 2 {
		t.Errorf("files = %d, want 2", files)
	}
	if len(reported) != 2 || reported[1] != 2 {
		t.Errorf("progress = %v, want [1 2]", reported)
	}

	if _, err := os.Lstat(filepath.Join(target, "link")); !os.IsNotExist(err) {
		t.Errorf("symlink entry should be skipped, Lstat error = %v", err)
	}

	if runtime.GOOS != "windows" {
		info, err := os.Stat(filepath.Join(target, "bin", "godot"))
		if err != nil {
			t.Fatalf("stat binary: %v", err)
		}
		if info.Mode().Perm()&0100 == 0 {
			t.Errorf("binary mode = %v, want executable", info.Mode())
		}
		info, err = os.Stat(filepath.Join(target, "readme.txt"))
		if err != nil {
			t.Fatalf("stat readme: %v", err)
		}
		if info.Mode().Perm()&0111 != 0 {
			t.Errorf("readme mode = %v, want non-executable", info.Mode())
		}
	}

	leftovers, _ := filepath.Glob(filepath.Join(target, "*.tmp-*"))
	if len(leftovers) != 0 {
		t.Errorf("temp files left behind: %v", leftovers)
	}
}

func TestExtract_TopLevelSymlinkKeepsRootStripping(t *testing.T) {
	data := buildTarGz(t,
		testEntry{Name: "root/a.txt", Body: "a"},
		testEntry{Name: "current", Symlink: "root"},
		testEntry{Name: "root/sub/b.txt", Body: "b"},
	)
	arc, err := openArchive(data)
	if err != nil {
		t.Fatalf("openArchive() error = %v", err)
	}
	planned, err := plan(arc.Entries())
	if err != nil {
		t.Fatalf("plan() error = %v", err)
	}

	target := t.TempDir()
	files, err := NewExtractor(nil).Extract(context.Background(), arc, planned, target, nil)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if files != 2 {
		t.Errorf("files = %d, want 2", files)
	}
	for _, rel := range []string{"a.txt", filepath.Join("sub", "b.txt")} {
		if _, err := os.Stat(filepath.Join(target, rel)); err != nil {
			t.Errorf("%s not extracted at target root: %v", rel, err)
		}
	}
	if _, err := os.Lstat(filepath.Join(target, "current")); !os.IsNotExist(err) {
		t.Errorf("symlink entry should be skipped, Lstat error = %v", err)
	}
}

func TestExtract_CancelledBetweenEntries(t *testing.T) {
	arc, err := openArchive(buildZip(t, rootedEntries()...))
	if err != nil {
		t.Fatalf("openArchive() error = %v", err)
	}
	planned, err := plan(arc.Entries())
	if err != nil {
		t.Fatalf("plan() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = NewExtractor(nil).Extract(ctx, arc, planned, t.TempDir(), nil)
	if !errors.Is(err, apperrors.ErrCancelled) {
		t.Errorf("Extract() error = %v, want Cancelled", err)
	}
}

func TestExtract_OverwritesExistingFiles(t *testing.T) {
	target := t.TempDir()
	if err := os.WriteFile(filepath.Join(target, "a.txt"), []byte("old"), 0644); err != nil {
		t.Fatal(err)
	}

	arc, err := openArchive(buildTarGz(t, rootedEntries()...))
	if err != nil {
		t.Fatalf("openArchive() error = %v", err)
	}
	planned, err := plan(arc.Entries())
	if err != nil {
		t.Fatalf("plan() error = %v", err)
	}

	if _, err := NewExtractor(nil).Extract(context.Background(), arc, planned, target, nil); err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	got, err := os.ReadFile(filepath.Join(target, "a.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "alpha" {
		t.Errorf("a.txt = %q, want alpha", got)
	}
}
