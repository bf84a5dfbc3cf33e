package results

import (
	"fmt"
	"strconv"
	"strings"
)

// SymbolAnchor encodes the fixed position of a symbol as FILE:LINE:CHAR in display coordinates.
// It is the form positions are printed in and accepted back from users and tools.
type SymbolAnchor string

// NewSymbolAnchor creates a new SymbolAnchor from a file, display line, and display character
func NewSymbolAnchor(file string, displayLine int, displayChar int) SymbolAnchor {
	return SymbolAnchor(fmt.Sprintf("%s:%d:%d", file, displayLine, displayChar))
}

// IsValid checks if the anchor has a valid format
func (a SymbolAnchor) IsValid() bool {
	_, _, _, err := a.Parse()
	return err == nil
}

// String returns the string representation of the anchor
func (a SymbolAnchor) String() string {
	return string(a)
}

// ToSymbolLocation converts the anchor to a SymbolLocation using display coordinates
func (a SymbolAnchor) ToSymbolLocation() (SymbolLocation, error) {
	file, displayLine, displayChar, err := a.Parse()
	if err != nil {
		return SymbolLocation{}, err
	}
	return SymbolLocation{
		File:      file,
		Line:      displayLine,
		Character: displayChar,
	}, nil
}

// ToFilePosition converts the anchor to a file path and a zero-indexed line and column
func (a SymbolAnchor) ToFilePosition() (file string, line int, column int, err error) {
	file, displayLine, displayChar, err := a.Parse()
	if err != nil {
		return "", 0, 0, err
	}
	return file, displayLine - 1, displayChar - 1, nil
}

// Parse parses a SymbolAnchor into a file, display line, and display character.
// The coordinates are taken from the right, so the file may itself contain colons.
func (a SymbolAnchor) Parse() (file string, displayLine int, displayChar int, err error) {
	anchorStr := string(a)

	charSep := strings.LastIndex(anchorStr, ":")
	if charSep < 0 {
		return "", 0, 0, fmt.Errorf("invalid anchor format, expected 'FILE:LINE:CHAR', got: %s", anchorStr)
	}
	lineSep := strings.LastIndex(anchorStr[:charSep], ":")
	if lineSep < 0 {
		return "", 0, 0, fmt.Errorf("invalid anchor format, expected 'FILE:LINE:CHAR', got: %s", anchorStr)
	}

	file = anchorStr[:lineSep]
	if file == "" {
		return "", 0, 0, fmt.Errorf("empty file in anchor: %s", anchorStr)
	}

	lineStr := anchorStr[lineSep+1 : charSep]
	displayLine, err = strconv.Atoi(lineStr)
	if err != nil {
		return "", 0, 0, fmt.Errorf("invalid line number '%s': %v", lineStr, err)
	}

	charStr := anchorStr[charSep+1:]
	displayChar, err = strconv.Atoi(charStr)
	if err != nil {
		return "", 0, 0, fmt.Errorf("invalid character number '%s': %v", charStr, err)
	}

	if displayLine < 1 {
		return "", 0, 0, fmt.Errorf("display line must be positive (starts at 1): %d", displayLine)
	}

	if displayChar < 1 {
		return "", 0, 0, fmt.Errorf("display character must be positive (starts at 1): %d", displayChar)
	}

	return file, displayLine, displayChar, nil
}
