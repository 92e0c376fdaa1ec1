package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Format selects how a result is rendered.
type Format string

const (
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
	FormatPDF      Format = "pdf"
)

// ParseFormat accepts json, markdown (or md) and pdf. The empty string
// means "decide by file extension".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return "", nil
	case "json":
		return FormatJSON, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "pdf":
		return FormatPDF, nil
	}
	return "", fmt.Errorf("unknown output format %q", s)
}

// FormatFromPath infers the format from the file extension, defaulting to
// JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return FormatMarkdown
	case ".pdf":
		return FormatPDF
	}
	return FormatJSON
}

// Extension returns the conventional file extension for f, dot included.
func (f Format) Extension() string {
	switch f {
	case FormatMarkdown:
		return ".md"
	case FormatPDF:
		return ".pdf"
	}
	return ".json"
}

// Render encodes r in format f.
func Render(r Result, f Format) ([]byte, error) {
	switch f {
	case FormatJSON, "":
		return EncodeJSON(r)
	case FormatMarkdown:
		return []byte(Markdown(r)), nil
	case FormatPDF:
		return PDF(r)
	}
	return nil, fmt.Errorf("unknown output format %q", f)
}

// Write renders r and stores it at path. An empty format is inferred from
// the path.
func Write(r Result, path string, f Format) error {
	if f == "" {
		f = FormatFromPath(path)
	}
	data, err := Render(r, f)
	if err != nil {
		return err
	}
	return WriteFile(path, data)
}

// WriteFile writes data next to path under a temporary name and renames it
// into place, so readers never observe a partial file.
func WriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir output dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("chmod temp: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename output: %w", err)
	}
	return nil
}

// ReadFile loads a JSON envelope from path.
func ReadFile(path string) (Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("read result: %w", err)
	}
	return DecodeJSON(data)
}
