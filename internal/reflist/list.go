package reflist

import (
	"log/slog"
	"strings"

	"github.com/averycrespi/lspnav/internal/results"
)

// List holds the references found for one symbol and a filtered, cursor-navigable view of them.
// Visible positions index into the filtered view; the filtered view indexes into the full list.
type List struct {
	symbol     string
	references []results.SymbolReference
	filtered   []int
	filter     string
	cursor     int
}

// New creates an empty list for symbol
func New(symbol string) *List {
	return &List{symbol: symbol}
}

// FromReferences creates an unfiltered list holding refs in order
func FromReferences(symbol string, refs []results.SymbolReference) *List {
	l := New(symbol)
	for _, ref := range refs {
		l.AddReference(ref)
	}
	return l
}

// Reset discards every reference and the filter and starts over for symbol
func (l *List) Reset(symbol string) {
	l.symbol = symbol
	l.references = nil
	l.filtered = nil
	l.filter = ""
	l.cursor = 0
}

// AddReference appends ref. With no active filter it is immediately visible;
// with a filter active it becomes visible on the next ApplyFilter or ClearFilter.
func (l *List) AddReference(ref results.SymbolReference) {
	l.references = append(l.references, ref)
	if l.filter == "" {
		l.filtered = append(l.filtered, len(l.references)-1)
	}
}

// ApplyFilter shows only references whose path matches pattern.
// A leading '!' inverts the match. An empty pattern clears the filter.
func (l *List) ApplyFilter(pattern string) {
	if pattern == "" {
		l.ClearFilter()
		return
	}

	glob, invert := strings.CutPrefix(pattern, "!")

	l.filter = pattern
	l.filtered = l.filtered[:0]
	for i, ref := range l.references {
		if Match(glob, ref.Path) != invert {
			l.filtered = append(l.filtered, i)
		}
	}
	l.clampCursor()

	slog.Debug("Applied reference filter", "pattern", pattern, "visible", len(l.filtered), "total", len(l.references))
}

// ClearFilter makes every reference visible again in its original order
func (l *List) ClearFilter() {
	l.filter = ""
	l.filtered = l.filtered[:0]
	for i := range l.references {
		l.filtered = append(l.filtered, i)
	}
	l.clampCursor()
}

func (l *List) clampCursor() {
	switch {
	case len(l.filtered) == 0:
		l.cursor = 0
	case l.cursor >= len(l.filtered):
		l.cursor = len(l.filtered) - 1
	}
}

func (l *List) SymbolName() string { return l.symbol }

// Filter returns the active pattern, or "" when unfiltered
func (l *List) Filter() string { return l.filter }

// Len returns the number of references regardless of the filter
func (l *List) Len() int { return len(l.references) }

func (l *List) VisibleCount() int { return len(l.filtered) }

func (l *List) Cursor() int { return l.cursor }

// Visible returns the reference at position i of the filtered view
func (l *List) Visible(i int) (results.SymbolReference, bool) {
	if i < 0 || i >= len(l.filtered) {
		return results.SymbolReference{}, false
	}
	return l.references[l.filtered[i]], true
}

// Current returns the reference under the cursor
func (l *List) Current() (results.SymbolReference, bool) {
	return l.Visible(l.cursor)
}

func (l *List) MoveUp() {
	if l.cursor > 0 {
		l.cursor--
	}
}

func (l *List) MoveDown() {
	if l.cursor+1 < len(l.filtered) {
		l.cursor++
	}
}
