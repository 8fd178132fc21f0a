// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch retrieves the readable text of a web page, either through a
// hosted content-extraction proxy or by downloading the page and extracting
// the article locally.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/go-shiori/go-readability"

	"github.com/pdiddy/research-tools/internal/httputil"
	"github.com/pdiddy/research-tools/pkg/types"
)

// Fetcher returns extracted page text for a URL.
type Fetcher interface {
	Name() string
	Fetch(ctx context.Context, target string) (string, error)
}

// New returns the Fetcher selected by cfg.Mode.
func New(client *http.Client, cfg types.FetchConfig, userAgent string) (Fetcher, error) {
	switch cfg.Mode {
	case types.FetchProxy, "":
		return &ProxyFetcher{Client: client, Base: cfg.ProxyBase, Token: cfg.APIKey, UserAgent: userAgent, MaxChars: cfg.MaxChars}, nil
	case types.FetchDirect:
		return &DirectFetcher{Client: client, UserAgent: userAgent, MaxChars: cfg.MaxChars}, nil
	default:
		return nil, fmt.Errorf("unknown fetch mode %q: must be proxy or direct", cfg.Mode)
	}
}

// ProxyFetcher asks a content-extraction proxy for the rendered text of a
// page. The target URL is path-escaped onto the proxy base.
type ProxyFetcher struct {
	Client *http.Client
	Base   string

	// Token is sent as a bearer token when set. Anonymous proxy use is
	// rate limited but works.
	Token string

	UserAgent string
	MaxChars  int
}

// Name returns the fetcher identifier.
func (f *ProxyFetcher) Name() string { return "proxy" }

// Fetch returns the proxy's response body as text.
func (f *ProxyFetcher) Fetch(ctx context.Context, target string) (string, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return "", fmt.Errorf("url is empty")
	}

	base := f.Base
	if base == "" {
		base = types.DefaultProxyBase
	}
	reqURL := strings.TrimRight(base, "/") + "/" + url.PathEscape(target)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	if f.UserAgent != "" {
		req.Header.Set("User-Agent", f.UserAgent)
	}
	if f.Token != "" {
		req.Header.Set("Authorization", "Bearer "+f.Token)
	}

	resp, err := client(f.Client).Do(req)
	if err != nil {
		return "", fmt.Errorf("content proxy request: %w", err)
	}
	defer resp.Body.Close()

	if err := httputil.CheckStatus(resp, "content proxy"); err != nil {
		return "", err
	}

	body, err := io.ReadAll(limitReader(resp.Body, f.MaxChars))
	if err != nil {
		return "", fmt.Errorf("reading content proxy response: %w", err)
	}
	return truncate(string(body), f.MaxChars), nil
}

// DirectFetcher downloads the page itself and extracts the main article
// text with readability.
type DirectFetcher struct {
	Client    *http.Client
	UserAgent string
	MaxChars  int
}

// Name returns the fetcher identifier.
func (f *DirectFetcher) Name() string { return "direct" }

// Fetch downloads target and returns its title and article text.
func (f *DirectFetcher) Fetch(ctx context.Context, target string) (string, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return "", fmt.Errorf("url is empty")
	}
	if !strings.Contains(target, "://") {
		target = "https://" + target
	}
	u, err := url.Parse(target)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("invalid url %q", target)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("unsupported url scheme %q", u.Scheme)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	if f.UserAgent != "" {
		req.Header.Set("User-Agent", f.UserAgent)
	}

	resp, err := client(f.Client).Do(req)
	if err != nil {
		return "", fmt.Errorf("page request: %w", err)
	}
	defer resp.Body.Close()

	if err := httputil.CheckStatus(resp, u.Host); err != nil {
		return "", err
	}

	article, err := readability.FromReader(resp.Body, resp.Request.URL)
	if err != nil {
		return "", fmt.Errorf("extracting article: %w", err)
	}

	text := strings.TrimSpace(article.TextContent)
	if title := strings.TrimSpace(article.Title); title != "" {
		text = title + "\n\n" + text
	}
	return truncate(text, f.MaxChars), nil
}

func client(c *http.Client) *http.Client {
	if c == nil {
		return http.DefaultClient
	}
	return c
}

// limitReader reads a little past max so truncate can cut on a rune
// boundary.
func limitReader(r io.Reader, max int) io.Reader {
	if max <= 0 {
		return r
	}
	return io.LimitReader(r, int64(max)+utf8.UTFMax)
}

// truncate cuts s to at most max bytes without splitting a rune.
// max <= 0 disables truncation.
func truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
