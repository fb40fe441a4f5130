package parser

import (
	"strconv"
	"strings"
)

// SplitFile separates the lines of an export into its header block and its
// data lines. lines must keep their "\n" terminators, as returned by ReadLines.
//
// The first line must be Signature. The line declaring the header length is
// followed by one skipped line and then the descriptor line, which must equal
// descriptor. The header block runs from the descriptor up to, but excluding,
// the last declared header line: that line holds the column names and opens
// the data lines. A trailing blank line is dropped from the data lines.
func SplitFile(lines []string, descriptor string, technique string) (HeaderBlock, []string, error) {
	pos, headerLen, err := locateHeader(lines)
	if err != nil {
		return nil, nil, err
	}

	descIdx := pos + 2
	if descIdx >= len(lines) {
		return nil, nil, &FormatError{Technique: technique, Line: descIdx + 1}
	}
	if normalizeEOL(lines[descIdx]) != descriptor {
		return nil, nil, &FormatError{Technique: technique, Line: descIdx + 1, Got: strings.TrimRight(lines[descIdx], "\r\n")}
	}

	header := HeaderBlock{descriptor}
	// lineNo counts the lines consumed so far, descriptor included.
	lineNo := descIdx + 1
	for lineNo < headerLen-1 && lineNo < len(lines) {
		header = append(header, lines[lineNo])
		lineNo++
	}

	data := make([]string, len(lines)-lineNo)
	copy(data, lines[lineNo:])
	if n := len(data); n > 0 && strings.TrimSpace(data[n-1]) == "" {
		data = data[:n-1]
	}
	return header, data, nil
}

// DescriptorLine returns the technique descriptor line of an export, without
// checking it against any technique.
func DescriptorLine(lines []string) (string, error) {
	pos, _, err := locateHeader(lines)
	if err != nil {
		return "", err
	}
	if pos+2 >= len(lines) {
		return "", &FormatError{Line: pos + 3}
	}
	return normalizeEOL(lines[pos+2]), nil
}

// locateHeader checks the signature and returns the index of the header
// length line together with the declared header length.
func locateHeader(lines []string) (int, int, error) {
	if len(lines) == 0 {
		return 0, 0, &FormatError{Line: 1}
	}
	if normalizeEOL(lines[0]) != Signature {
		return 0, 0, &FormatError{Line: 1, Got: strings.TrimRight(lines[0], "\r\n")}
	}
	for i := 1; i < len(lines); i++ {
		if !strings.Contains(lines[i], HeaderLengthMarker) {
			continue
		}
		raw := lines[i][strings.LastIndex(lines[i], ":")+1:]
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return 0, 0, &ConversionError{Line: i + 1, Token: strings.TrimSpace(raw), Reason: "invalid header length", Err: err}
		}
		return i, n, nil
	}
	return 0, 0, &MissingFieldError{Marker: HeaderLengthMarker}
}

func normalizeEOL(line string) string {
	if strings.HasSuffix(line, "\r\n") {
		return line[:len(line)-2] + "\n"
	}
	return line
}
