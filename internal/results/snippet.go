package results

import (
	"bytes"
	"io"
	"os"
	"strings"
	"unicode"
)

// DefaultSnippetReadLimit bounds how much of a source file is read to build one snippet
const DefaultSnippetReadLimit = 1 << 20

// ReadSnippet returns the zero-indexed line of filePath with trailing whitespace trimmed.
// At most limit bytes are read. Any failure, including a line beyond the limit,
// yields an empty snippet.
func ReadSnippet(filePath string, line int, limit int64) string {
	if line < 0 {
		return ""
	}
	if limit <= 0 {
		limit = DefaultSnippetReadLimit
	}

	file, err := os.Open(filePath)
	if err != nil {
		return ""
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, limit))
	if err != nil {
		return ""
	}

	return lineAt(content, line)
}

func lineAt(content []byte, line int) string {
	for i := 0; i < line; i++ {
		idx := bytes.IndexByte(content, '\n')
		if idx < 0 {
			return ""
		}
		content = content[idx+1:]
	}
	if idx := bytes.IndexByte(content, '\n'); idx >= 0 {
		content = content[:idx]
	}
	return strings.TrimRightFunc(string(content), unicode.IsSpace)
}

// SymbolNameAt returns the identifier that spans column in line, or "" if there is none
func SymbolNameAt(line string, column int) string {
	if column < 0 || column > len(line) {
		return ""
	}

	start, end := column, column
	for start > 0 && isIdentByte(line[start-1]) {
		start--
	}
	for end < len(line) && isIdentByte(line[end]) {
		end++
	}
	return line[start:end]
}

func isIdentByte(b byte) bool {
	return b == '_' || b >= '0' && b <= '9' || b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= 0x80
}
