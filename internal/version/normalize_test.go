package version

import (
	"testing"
	"time"

	"github.com/DcZipPL/GodotManager/internal/release"
)

func strPtr(s string) *string { return &s }

func TestNormalize_DisplayName(t *testing.T) {
	tests := []struct {
		name string
		raw  release.RawRelease
		want string
	}{
		{"missing_name_uses_tag", release.RawRelease{TagName: "4.2.1"}, "4.2.1"},
		{"empty_name_uses_tag", release.RawRelease{Name: strPtr(""), TagName: "4.2.1"}, "4.2.1"},
		{"blank_name_uses_tag", release.RawRelease{Name: strPtr("   "), TagName: "4.2.1-stable"}, "4.2.1-stable"},
		{"name_wins", release.RawRelease{Name: strPtr("Godot 4.2.1"), TagName: "4.2.1"}, "Godot 4.2.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Normalize(tt.raw)
			if v.DisplayName != tt.want {
				t.Errorf("DisplayName = %q, want %q", v.DisplayName, tt.want)
			}
			if v.ID != tt.raw.TagName {
				t.Errorf("ID = %q, want %q", v.ID, tt.raw.TagName)
			}
		})
	}
}

func TestNormalize_DisplayNameNeverEmpty(t *testing.T) {
	names := []*string{nil, strPtr(""), strPtr("\t"), strPtr("x")}
	tags := []string{"1.0", "4.2.1-stable", "v3"}

	for _, name := range names {
		for _, tag := range tags {
			v := Normalize(release.RawRelease{Name: name, TagName: tag})
			if v.DisplayName == "" {
				t.Errorf("Normalize(name=%v, tag=%q) produced empty DisplayName", name, tag)
			}
		}
	}
}

func TestNormalize_AssetsKeepRegistryOrder(t *testing.T) {
	raw := release.RawRelease{
		TagName: "4.2.1",
		Assets: []release.RawAsset{
			{Name: "z.zip", BrowserDownloadURL: "https://e/z", ContentType: "application/zip"},
			{Name: "a.zip", BrowserDownloadURL: "https://e/a", ContentType: "application/zip"},
			{Name: "a.zip", BrowserDownloadURL: "https://e/a", ContentType: "application/zip"},
			{Name: "", BrowserDownloadURL: "https://e/nameless"},
			{Name: "no-url.zip"},
		},
	}

	got := Normalize(raw).Assets()
	want := []string{"z.zip", "a.zip", "a.zip"}
	if len(got) != len(want) {
		t.Fatalf("got %d assets, want %d", len(got), len(want))
	}
	for i, name := range want {
		if got[i].Filename != name {
			t.Errorf("asset[%d] = %q, want %q", i, got[i].Filename, name)
		}
	}
}

func TestNormalize_TimestampAndPrerelease(t *testing.T) {
	published := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	raw := release.RawRelease{TagName: "4.3-beta1", Prerelease: true, PublishedAt: &published}

	v := Normalize(raw)
	if v.PublishedAt == nil || !v.PublishedAt.Equal(published) {
		t.Errorf("PublishedAt = %v, want %v", v.PublishedAt, published)
	}
	if !v.Prerelease {
		t.Error("Prerelease = false, want true")
	}

	// The Version must not alias the raw record's timestamp.
	published = published.Add(time.Hour)
	if v.PublishedAt.Equal(published) {
		t.Error("PublishedAt aliases the raw record")
	}

	if Normalize(release.RawRelease{TagName: "x"}).PublishedAt != nil {
		t.Error("PublishedAt should be nil when the registry omits it")
	}
}

func TestAssetsReturnsCopy(t *testing.T) {
	v := NewVersion("4.2.1", "", false, []Asset{{Filename: "a.zip", DownloadURL: "https://e/a"}})

	assets := v.Assets()
	assets[0].Filename = "mutated"

	if v.Assets()[0].Filename != "a.zip" {
		t.Error("Assets() exposed internal slice")
	}
	if v.DisplayName != "4.2.1" {
		t.Errorf("DisplayName = %q, want tag fallback", v.DisplayName)
	}
}

func TestVersionString(t *testing.T) {
	if got := NewVersion("4.3-beta1", "4.3 beta 1", true, nil).String(); got != "4.3 beta 1 (prerelease)" {
		t.Errorf("String() = %q", got)
	}
	if got := NewVersion("4.2.1", "", false, nil).String(); got != "4.2.1" {
		t.Errorf("String() = %q", got)
	}
}

func TestParseVariant(t *testing.T) {
	tests := []struct {
		input   string
		want    Variant
		wantErr bool
	}{
		{"", VariantStandard, false},
		{"standard", VariantStandard, false},
		{"Extended", VariantExtended, false},
		{"mono", VariantExtended, false},
		{"gdextension", VariantStandard, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseVariant(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseVariant(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseVariant(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
