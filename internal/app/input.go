package app

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/Mohagames205/openbestuur/internal/fetch"
	"github.com/Mohagames205/openbestuur/internal/report"
)

// stdinSource names standard input among the inputs.
const stdinSource = "-"

func isRemote(src string) bool {
	s := strings.ToLower(strings.TrimSpace(src))
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// load reads src from stdin, disk or the network.
func (a *App) load(ctx context.Context, src string) (fetch.Document, error) {
	switch {
	case src == stdinSource:
		b, err := io.ReadAll(a.stdin)
		if err != nil {
			return fetch.Document{}, fmt.Errorf("read stdin: %w", err)
		}
		return fetch.Document{URL: src, Body: b}, nil
	case isRemote(src):
		return a.fetcher.Get(ctx, src)
	}
	b, err := os.ReadFile(src)
	if err != nil {
		return fetch.Document{}, err
	}
	return fetch.Document{URL: src, Body: b}, nil
}

// detectKind honours an explicit kind and otherwise decides by extension,
// then content type, then a sniff of the first bytes.
func detectKind(kind string, doc fetch.Document) (report.Kind, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case KindMinutes:
		return report.KindMinutes, nil
	case KindPlenary:
		return report.KindPlenary, nil
	case "", KindAuto:
	default:
		return "", fmt.Errorf("unknown kind %q", kind)
	}
	name := doc.URL
	if i := strings.IndexAny(name, "?#"); i >= 0 && isRemote(name) {
		name = name[:i]
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".html", ".htm", ".xhtml":
		return report.KindPlenary, nil
	case ".txt":
		return report.KindMinutes, nil
	}
	if mt, _, err := mime.ParseMediaType(doc.ContentType); err == nil {
		switch mt {
		case "text/html", "application/xhtml+xml":
			return report.KindPlenary, nil
		case "text/plain":
			return report.KindMinutes, nil
		}
	}
	if looksLikeHTML(doc.Body) {
		return report.KindPlenary, nil
	}
	return report.KindMinutes, nil
}

func looksLikeHTML(b []byte) bool {
	if len(b) > 512 {
		b = b[:512]
	}
	head := bytes.ToLower(bytes.TrimSpace(b))
	for _, marker := range [][]byte{[]byte("<!doctype html"), []byte("<html"), []byte("<body"), []byte("<table")} {
		if bytes.Contains(head, marker) {
			return true
		}
	}
	return false
}

// textEncoding picks the configured encoding, else the charset parameter of
// the served content type.
func textEncoding(configured, contentType string) string {
	if configured != "" {
		return configured
	}
	if _, params, err := mime.ParseMediaType(contentType); err == nil {
		return params["charset"]
	}
	return ""
}
