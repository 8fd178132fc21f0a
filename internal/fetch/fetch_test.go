// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pdiddy/research-tools/internal/httputil"
	"github.com/pdiddy/research-tools/pkg/types"
)

func TestProxyFetch(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		w.Write([]byte("Title: Example\n\nExtracted page text."))
	}))
	defer srv.Close()

	f := &ProxyFetcher{Client: srv.Client(), Base: srv.URL + "/"}
	text, err := f.Fetch(context.Background(), "https://example.com/a b")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if text != "Title: Example\n\nExtracted page text." {
		t.Errorf("text = %q", text)
	}
	if !strings.HasPrefix(gotPath, "/https:") || !strings.Contains(gotPath, "%2F%2Fexample.com%2Fa%20b") {
		t.Errorf("target should be path-escaped onto the proxy base, got %q", gotPath)
	}
}

func TestProxyFetchToken(t *testing.T) {
	var gotAuth []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = append(gotAuth, r.Header.Get("Authorization"))
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	for _, token := range []string{"", "jina_abc"} {
		f := &ProxyFetcher{Client: srv.Client(), Base: srv.URL, Token: token}
		if _, err := f.Fetch(context.Background(), "https://example.com"); err != nil {
			t.Fatalf("Fetch: %v", err)
		}
	}
	if gotAuth[0] != "" || gotAuth[1] != "Bearer jina_abc" {
		t.Errorf("Authorization headers = %q", gotAuth)
	}
}

func TestProxyFetchNonSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	f := &ProxyFetcher{Client: srv.Client(), Base: srv.URL}
	_, err := f.Fetch(context.Background(), "https://example.com")
	var se *httputil.StatusError
	if !errors.As(err, &se) || se.StatusCode != http.StatusBadGateway {
		t.Errorf("err = %v, want 502 StatusError", err)
	}
}

func TestProxyFetchEmptyURL(t *testing.T) {
	f := &ProxyFetcher{}
	if _, err := f.Fetch(context.Background(), "  "); err == nil {
		t.Error("expected error for empty url")
	}
}

func TestProxyFetchTruncates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(strings.Repeat("é", 100)))
	}))
	defer srv.Close()

	f := &ProxyFetcher{Client: srv.Client(), Base: srv.URL, MaxChars: 11}
	text, err := f.Fetch(context.Background(), "https://example.com")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	// "é" is two bytes; 11 bytes must cut back to 10.
	if text != strings.Repeat("é", 5) {
		t.Errorf("text = %q (%d bytes)", text, len(text))
	}
}

const sampleArticleHTML = `<!DOCTYPE html>
<html><head><title>Remote Work Study</title></head>
<body>
<nav>Home | About</nav>
<article>
<h1>Remote Work Study</h1>
<p>Researchers followed two thousand employees for a full year to measure how remote work changed their productivity, their hours and their wellbeing.</p>
<p>The study found that productivity held steady while commuting time fell sharply, and most participants reported better balance between work and home life.</p>
<p>Managers were more cautious, citing weaker mentoring for junior staff and harder coordination across teams spread over several time zones.</p>
<p>The authors recommend hybrid schedules with two or three shared office days, deliberate onboarding programs, and written decision records so that distributed teams keep the same context as colleagues in the office.</p>
</article>
<footer>Copyright</footer>
</body></html>`

func TestDirectFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(sampleArticleHTML))
	}))
	defer srv.Close()

	f := &DirectFetcher{Client: srv.Client()}
	text, err := f.Fetch(context.Background(), srv.URL+"/study")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if !strings.Contains(text, "productivity held steady") {
		t.Errorf("article text missing:\n%s", text)
	}
	if !strings.HasPrefix(text, "Remote Work Study") {
		t.Errorf("text should start with the title:\n%s", text)
	}
}

func TestDirectFetchErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	f := &DirectFetcher{Client: srv.Client()}
	tests := []struct {
		name   string
		target string
	}{
		{"empty", ""},
		{"unsupported scheme", "ftp://example.com/file"},
		{"not found", srv.URL + "/missing"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.Fetch(context.Background(), tt.target); err == nil {
				t.Errorf("Fetch(%q) should fail", tt.target)
			}
		})
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		mode    types.FetchMode
		want    string
		wantErr bool
	}{
		{"", "proxy", false},
		{types.FetchProxy, "proxy", false},
		{types.FetchDirect, "direct", false},
		{"browser", "", true},
	}
	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			f, err := New(http.DefaultClient, types.FetchConfig{Mode: tt.mode}, "test/0.1")
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			if f.Name() != tt.want {
				t.Errorf("Name() = %q, want %q", f.Name(), tt.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		s    string
		max  int
		want string
	}{
		{"hello", 0, "hello"},
		{"hello", 10, "hello"},
		{"hello", 3, "hel"},
		{"héllo", 2, "h"},
	}
	for _, tt := range tests {
		if got := truncate(tt.s, tt.max); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.s, tt.max, got, tt.want)
		}
	}
}
