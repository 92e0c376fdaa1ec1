package minutes

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
)

// DecodingReader wraps r so that it yields UTF-8 for the named encoding
// ("utf-8", "windows-1252", "iso-8859-1", ...). An empty name means UTF-8,
// with a leading byte order mark removed.
func DecodingReader(r io.Reader, encoding string) (io.Reader, error) {
	name := strings.TrimSpace(encoding)
	if name == "" || strings.EqualFold(name, "utf-8") || strings.EqualFold(name, "utf8") {
		return unicode.UTF8BOM.NewDecoder().Reader(r), nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", name, err)
	}
	return enc.NewDecoder().Reader(r), nil
}
