package parser

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ReadFile reads an export from disk and returns its lines. See ReadLines.
func ReadFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open export file: %w", err)
	}
	defer file.Close()
	return ReadLines(file)
}

// ReadLines reads a whole export and splits it into lines that keep their
// "\n" terminator; "\r\n" is normalized to "\n". Content that is not valid
// UTF-8 is decoded as Windows-1252, the code page EC-Lab writes on Windows.
// A byte order mark selects UTF-8 or UTF-16 instead.
func ReadLines(r io.Reader) ([]string, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read export: %w", err)
	}
	text, err := decode(raw)
	if err != nil {
		return nil, err
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")

	lines := strings.SplitAfter(text, "\n")
	// SplitAfter leaves an empty element after a final terminator.
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines, nil
}

func decode(raw []byte) (string, error) {
	hasBOM := bytes.HasPrefix(raw, []byte{0xEF, 0xBB, 0xBF}) ||
		bytes.HasPrefix(raw, []byte{0xFF, 0xFE}) ||
		bytes.HasPrefix(raw, []byte{0xFE, 0xFF})
	if !hasBOM && utf8.Valid(raw) {
		return string(raw), nil
	}
	decoder := unicode.BOMOverride(charmap.Windows1252.NewDecoder())
	out, _, err := transform.Bytes(decoder, raw)
	if err != nil {
		return "", fmt.Errorf("failed to decode export: %w", err)
	}
	return string(out), nil
}
