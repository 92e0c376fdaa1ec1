package app

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/Mohagames205/openbestuur/internal/report"
)

var slugRe = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(s string) string {
	s = slugRe.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), "-")
	s = strings.Trim(s, "-")
	if s == "" {
		s = "input"
	}
	return s
}

// deriveOutputPath returns a stable path under dir for the result of source.
// The name combines the slugified base name with a short hash of the full
// source so inputs sharing a base name do not collide.
func deriveOutputPath(dir, source string, f report.Format) string {
	base := source
	if u, err := url.Parse(source); err == nil && isRemote(source) {
		base = path.Base(u.Path)
		if base == "/" || base == "." {
			base = u.Host
		}
	} else {
		base = filepath.Base(source)
	}
	base = strings.TrimSuffix(base, filepath.Ext(base))
	h := sha256.Sum256([]byte(source))
	short := hex.EncodeToString(h[:])[:12]
	return filepath.Join(dir, slugify(base)+"-"+short+f.Extension())
}
