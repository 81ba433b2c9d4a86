package planload

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/simplifiedchinese"
)

// Encoding names one candidate text encoding for the plan export.
type Encoding string

const (
	// UTF8 is UTF-8 with an optional leading byte-order mark.
	UTF8 Encoding = "utf-8"
	// GBK is the legacy simplified-Chinese code page the optimizer falls back to.
	GBK Encoding = "gbk"
)

// DefaultEncodings is the fallback chain tried by a Loader with no override.
var DefaultEncodings = []Encoding{UTF8, GBK}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ParseEncodings converts configured names into a chain, rejecting unknown names.
func ParseEncodings(names []string) ([]Encoding, error) {
	if len(names) == 0 {
		return DefaultEncodings, nil
	}
	chain := make([]Encoding, 0, len(names))
	for _, name := range names {
		switch enc := Encoding(name); enc {
		case UTF8, GBK:
			chain = append(chain, enc)
		default:
			return nil, fmt.Errorf("unsupported encoding %q", name)
		}
	}
	return chain, nil
}

// Attempt is the outcome of parsing the raw bytes with one encoding.
// Exactly one of Records or Err is set.
type Attempt struct {
	Encoding Encoding
	Records  [][]string
	Err      error
}

// OK reports whether the attempt produced records.
func (a Attempt) OK() bool { return a.Err == nil }

// String renders the attempt for diagnostics.
func (a Attempt) String() string {
	if a.OK() {
		return fmt.Sprintf("%s: ok (%d records)", a.Encoding, len(a.Records))
	}
	return fmt.Sprintf("%s: %v", a.Encoding, a.Err)
}

// tryEncodings runs the chain in order and stops at the first success.
// The returned slice holds every attempt made, the last one being the success
// if there was one.
func tryEncodings(data []byte, chain []Encoding) []Attempt {
	attempts := make([]Attempt, 0, len(chain))
	for _, enc := range chain {
		a := parseWith(enc, data)
		attempts = append(attempts, a)
		if a.OK() {
			break
		}
	}
	return attempts
}

func parseWith(enc Encoding, data []byte) Attempt {
	text, err := decode(enc, data)
	if err != nil {
		return Attempt{Encoding: enc, Err: err}
	}

	r := csv.NewReader(bytes.NewReader(text))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return Attempt{Encoding: enc, Err: fmt.Errorf("csv: %w", err)}
	}
	if len(records) == 0 {
		return Attempt{Encoding: enc, Err: fmt.Errorf("no header row")}
	}
	return Attempt{Encoding: enc, Records: records}
}

// decode returns data as UTF-8 text, failing when data is not valid in enc.
func decode(enc Encoding, data []byte) ([]byte, error) {
	switch enc {
	case UTF8:
		text := bytes.TrimPrefix(data, utf8BOM)
		if off := invalidUTF8Offset(text); off >= 0 {
			return nil, fmt.Errorf("invalid UTF-8 byte sequence at offset %d", off)
		}
		return text, nil
	case GBK:
		text, err := simplifiedchinese.GBK.NewDecoder().Bytes(data)
		if err != nil {
			return nil, err
		}
		// The decoder substitutes U+FFFD for undecodable input; GBK cannot
		// encode U+FFFD itself, so any occurrence means the bytes were not GBK.
		if i := bytes.IndexRune(text, utf8.RuneError); i >= 0 {
			return nil, fmt.Errorf("undecodable GBK byte sequence near decoded offset %d", i)
		}
		return text, nil
	default:
		return nil, fmt.Errorf("unsupported encoding %q", enc)
	}
}

func invalidUTF8Offset(b []byte) int {
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		i += size
	}
	return -1
}
