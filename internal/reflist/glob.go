package reflist

import (
	"path"
	"strings"
)

// Match reports whether filePath matches the glob pattern. Matching is case-sensitive.
//
// A single '*' matches any run of characters within one path segment, and '**'
// matches any run including '/'. A pattern without '/' is also tried against the
// base name of filePath when it has a wildcard, so "*.go" selects "cmd/main.go".
// A pattern without a wildcard matches only the identical path.
func Match(pattern, filePath string) bool {
	if matchGlob(pattern, filePath) {
		return true
	}
	if strings.Contains(pattern, "*") && !strings.Contains(pattern, "/") && strings.Contains(filePath, "/") {
		return matchGlob(pattern, path.Base(filePath))
	}
	return false
}

// matchGlob scans pattern and name once, left to right, backtracking to the most
// recent star on a mismatch. A '*' may not be extended across '/'; when it would
// have to be, the scan falls back to the most recent '**' if there is one.
func matchGlob(pattern, name string) bool {
	px, nx := 0, 0

	starPx, starNx := -1, -1
	doublePx, doubleNx := -1, -1

	for px < len(pattern) || nx < len(name) {
		if px < len(pattern) {
			if pattern[px] == '*' {
				if px+1 < len(pattern) && pattern[px+1] == '*' {
					for px < len(pattern) && pattern[px] == '*' {
						px++
					}
					doublePx, doubleNx = px, nx
					starPx, starNx = -1, -1
					continue
				}
				px++
				starPx, starNx = px, nx
				continue
			}
			if nx < len(name) && pattern[px] == name[nx] {
				px++
				nx++
				continue
			}
		}

		if starPx >= 0 && starNx < len(name) && name[starNx] != '/' {
			starNx++
			px, nx = starPx, starNx
			continue
		}
		if doublePx >= 0 && doubleNx < len(name) {
			doubleNx++
			px, nx = doublePx, doubleNx
			starPx, starNx = -1, -1
			continue
		}
		return false
	}

	return true
}
