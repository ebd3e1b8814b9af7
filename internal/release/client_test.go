package release

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	apperrors "github.com/DcZipPL/GodotManager/internal/errors"
)

const sampleReleases = `[
  {
    "name": "",
    "tag_name": "4.2.1-stable",
    "published_at": "2023-12-12T10:00:00Z",
    "prerelease": false,
    "assets": [
      {"name": "Godot_v4.2.1-stable_linux.x86_64.zip", "browser_download_url": "https://example.com/a.zip", "content_type": "application/zip"},
      {"name": "SHA512-SUMS.txt", "browser_download_url": "https://example.com/sums", "content_type": "text/plain"}
    ]
  },
  {
    "name": "4.3 beta 1",
    "tag_name": "4.3-beta1",
    "prerelease": true,
    "assets": []
  }
]`

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(append([]Option{WithBaseURL(server.URL)}, opts...)...)
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return client
}

func TestListReleases(t *testing.T) {
	var gotPath, gotPerPage, gotUA string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotPerPage = r.URL.Query().Get("per_page")
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleReleases))
	})

	releases, err := client.ListReleases(context.Background(), "godotengine", "godot-builds", 10)
	if err != nil {
		t.Fatalf("ListReleases() error = %v", err)
	}

	if gotPath != "/repos/godotengine/godot-builds/releases" {
		t.Errorf("path = %q", gotPath)
	}
	if gotPerPage != "10" {
		t.Errorf("per_page = %q, want 10", gotPerPage)
	}
	if gotUA != DefaultUserAgent {
		t.Errorf("User-Agent = %q, want %q", gotUA, DefaultUserAgent)
	}

	if len(releases) != 2 {
		t.Fatalf("got %d releases, want 2", len(releases))
	}

	first := releases[0]
	if first.TagName != "4.2.1-stable" {
		t.Errorf("TagName = %q", first.TagName)
	}
	if first.Name == nil || *first.Name != "" {
		t.Errorf("Name = %v, want pointer to empty string", first.Name)
	}
	if first.PublishedAt == nil || !first.PublishedAt.Equal(time.Date(2023, 12, 12, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("PublishedAt = %v", first.PublishedAt)
	}
	if len(first.Assets) != 2 || first.Assets[0].ContentType != "application/zip" || first.Assets[1].Name != "SHA512-SUMS.txt" {
		t.Errorf("Assets = %+v", first.Assets)
	}

	second := releases[1]
	if !second.Prerelease || second.PublishedAt != nil {
		t.Errorf("second release = %+v", second)
	}
}

func TestListReleases_ClampsPageSize(t *testing.T) {
	tests := []struct {
		name     string
		pageSize int
		want     string
	}{
		{"too_large", 100, "10"},
		{"zero", 0, "10"},
		{"small", 3, "3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				got = r.URL.Query().Get("per_page")
				_, _ = w.Write([]byte(`[]`))
			})

			if _, err := client.ListReleases(context.Background(), "o", "r", tt.pageSize); err != nil {
				t.Fatalf("ListReleases() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("per_page = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestListReleases_EmptyArray(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	})

	got, err := client.ListReleases(context.Background(), "o", "r", 10)
	if err != nil {
		t.Fatalf("ListReleases() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("len = %d, want 0", len(got))
	}
}

func TestListReleases_SendsToken(t *testing.T) {
	var auth string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`[]`))
	}, WithToken("secret-token"))

	if _, err := client.ListReleases(context.Background(), "o", "r", 1); err != nil {
		t.Fatalf("ListReleases() error = %v", err)
	}
	if auth != "Bearer secret-token" {
		t.Errorf("Authorization = %q", auth)
	}
}

func TestListReleases_Errors(t *testing.T) {
	tests := []struct {
		name     string
		handler  http.HandlerFunc
		wantCode apperrors.Code
	}{
		{
			name: "500_server_error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			wantCode: apperrors.CodeRegistry,
		},
		{
			name: "404_unknown_repo",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
				_, _ = w.Write([]byte(`{"message": "Not Found"}`))
			},
			wantCode: apperrors.CodeRegistry,
		},
		{
			name: "malformed_json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`<html>not json</html>`))
			},
			wantCode: apperrors.CodeRegistry,
		},
		{
			name: "object_instead_of_array",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"tag_name": "4.2"}`))
			},
			wantCode: apperrors.CodeRegistry,
		},
		{
			name: "empty_body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
			},
			wantCode: apperrors.CodeRegistry,
		},
		{
			name: "null_body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`null`))
			},
			wantCode: apperrors.CodeRegistry,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, tt.handler)

			_, err := client.ListReleases(context.Background(), "o", "r", 10)
			if err == nil {
				t.Fatal("expected error but got none")
			}
			if code := apperrors.CodeOf(err); code != tt.wantCode {
				t.Errorf("code = %q, want %q (err: %v)", code, tt.wantCode, err)
			}
		})
	}
}

func TestListReleases_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := server.URL
	server.Close()

	client, err := NewClient(WithBaseURL(base))
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	_, err = client.ListReleases(context.Background(), "o", "r", 10)
	if !errors.Is(err, apperrors.ErrNetwork) {
		t.Fatalf("err = %v, want network error", err)
	}
	if apperrors.IsTimeout(err) {
		t.Error("connection refused should not be reported as timeout")
	}
}

func TestListReleases_Timeout(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}, WithTimeout(50*time.Millisecond))

	_, err := client.ListReleases(context.Background(), "o", "r", 10)
	if !errors.Is(err, apperrors.ErrNetwork) {
		t.Fatalf("err = %v, want network error", err)
	}
	if !apperrors.IsTimeout(err) {
		t.Errorf("err = %v, want timeout", err)
	}
	if got := apperrors.Reason(err); got != "registry request timed out" {
		t.Errorf("Reason() = %q", got)
	}
}

func TestListReleases_Cancelled(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.ListReleases(ctx, "o", "r", 10)
	if !errors.Is(err, apperrors.ErrCancelled) {
		t.Fatalf("err = %v, want cancelled", err)
	}
}

func TestListReleases_RequiresCoordinates(t *testing.T) {
	client, err := NewClient()
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	if _, err := client.ListReleases(context.Background(), "", "repo", 10); !errors.Is(err, apperrors.ErrRegistry) {
		t.Errorf("err = %v, want registry error", err)
	}
}
