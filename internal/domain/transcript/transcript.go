// Package transcript turns a raw chat export into logical message blocks.
//
// A block starts at a header line (date, time, " - ") and absorbs every
// following non-header line. Lines that appear before the first header are
// dropped.
package transcript

import (
	"bufio"
	"errors"
	"io"
	"regexp"
	"strings"
)

const bom = "\uFEFF"

var headerPattern = regexp.MustCompile(`^\d+.*\d+, \d+.* - .*`)

// IsHeader reports whether line opens a new message block.
func IsHeader(line string) bool {
	return headerPattern.MatchString(line)
}

// ReadLines reads the whole stream into lines. A trailing "\r" is stripped
// from every line and a UTF-8 byte order mark from the first one.
func ReadLines(r io.Reader) ([]string, error) {
	br := bufio.NewReader(r)
	var lines []string
	for {
		line, err := br.ReadString('\n')
		if len(line) > 0 || err == nil {
			line = strings.TrimSuffix(line, "\n")
			line = strings.TrimSuffix(line, "\r")
			if len(lines) == 0 {
				line = strings.TrimPrefix(line, bom)
			}
			lines = append(lines, line)
		}
		if errors.Is(err, io.EOF) {
			return lines, nil
		}
		if err != nil {
			return lines, err
		}
	}
}

// Reassemble merges continuation lines into the block of the latest header.
// Continuations are joined with "\n". The result is empty when no header
// line exists.
func Reassemble(lines []string) []string {
	blocks := make([]string, 0, len(lines))
	var cur strings.Builder
	open := false
	for _, line := range lines {
		if IsHeader(line) {
			if open {
				blocks = append(blocks, cur.String())
				cur.Reset()
			}
			cur.WriteString(line)
			open = true
			continue
		}
		if !open {
			continue
		}
		cur.WriteByte('\n')
		cur.WriteString(line)
	}
	if open {
		blocks = append(blocks, cur.String())
	}
	return blocks
}
