// Package document holds a page source file as a line-indexed text document
// and provides the matchers the patcher relies on: asset reference
// detection, normalized import lookup, prioritized line insertion and
// first-occurrence splicing.
package document

import "strings"

// Document is a mutable, line-indexed view of a text file. Lines keep a
// trailing carriage return when the file uses CRLF endings, so String
// reproduces the original bytes exactly.
type Document struct {
	lines []string
}

// Parse splits content into lines.
func Parse(content string) *Document {
	return &Document{lines: strings.Split(content, "\n")}
}

// String returns the document text.
func (d *Document) String() string {
	return strings.Join(d.lines, "\n")
}

// plainLines returns a copy of the document lines without line terminators.
func (d *Document) plainLines() []string {
	out := make([]string, len(d.lines))
	for i, line := range d.lines {
		out[i] = strings.TrimSuffix(line, "\r")
	}
	return out
}

// CRLF reports whether the document uses Windows line endings.
func (d *Document) CRLF() bool {
	for _, line := range d.lines {
		if strings.HasSuffix(line, "\r") {
			return true
		}
	}
	return false
}

// HasAssetRef reports whether name occurs in the document other than as the
// tail of a longer file name: src="/images/learn/faq-hero.jpg" and
// ${base}faq-hero.jpg count, xrp-faq-hero.jpg does not. Nothing is required
// of the character that follows name.
func (d *Document) HasAssetRef(name string) bool {
	if name == "" {
		return false
	}
	content := d.String()
	for from := 0; ; {
		i := strings.Index(content[from:], name)
		if i < 0 {
			return false
		}
		at := from + i
		if at == 0 || !isFileNameByte(content[at-1]) {
			return true
		}
		from = at + 1
	}
}

func isFileNameByte(b byte) bool {
	switch {
	case b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z', b >= '0' && b <= '9':
		return true
	default:
		return b == '_' || b == '-'
	}
}

// HasLine reports whether some line equals line once both are trimmed of
// surrounding whitespace and a trailing semicolon.
func (d *Document) HasLine(line string) bool {
	want := normalize(line)
	if want == "" {
		return false
	}
	for _, existing := range d.lines {
		if normalize(existing) == want {
			return true
		}
	}
	return false
}

func normalize(line string) string {
	line = strings.TrimSpace(line)
	line = strings.TrimSuffix(line, ";")
	return strings.TrimSpace(line)
}

// Placement selects on which side of a matched line an insertion lands.
type Placement string

const (
	Before Placement = "before"
	After  Placement = "after"
)

// InsertionPoint matches the first line whose trimmed text starts with Match.
type InsertionPoint struct {
	Match     string
	Placement Placement
}

// Find returns the index of the first line matched by p.
func (d *Document) Find(p InsertionPoint) (int, bool) {
	if strings.TrimSpace(p.Match) == "" {
		return 0, false
	}
	for i, line := range d.lines {
		if strings.HasPrefix(strings.TrimSpace(line), p.Match) {
			return i, true
		}
	}
	return 0, false
}

// InsertLine adds line next to the first matching point, trying points in
// order. It returns the point that matched.
func (d *Document) InsertLine(line string, points []InsertionPoint) (InsertionPoint, bool) {
	for _, p := range points {
		idx, ok := d.Find(p)
		if !ok {
			continue
		}
		text := line
		if strings.HasSuffix(d.lines[idx], "\r") {
			text += "\r"
		}
		at := idx + 1
		if p.Placement == Before {
			at = idx
		}
		d.lines = append(d.lines, "")
		copy(d.lines[at+1:], d.lines[at:])
		d.lines[at] = text
		return p, true
	}
	return InsertionPoint{}, false
}

// Contains reports whether s occurs anywhere in the document.
func (d *Document) Contains(s string) bool {
	return s != "" && strings.Contains(d.String(), s)
}

// SpliceAfter inserts snippet directly after the first occurrence of anchor.
// Later occurrences are left untouched. Newlines in snippet follow the
// document's line ending style.
func (d *Document) SpliceAfter(anchor, snippet string) bool {
	if anchor == "" {
		return false
	}
	content := d.String()
	idx := strings.Index(content, anchor)
	if idx < 0 {
		return false
	}
	if d.CRLF() {
		snippet = strings.ReplaceAll(strings.ReplaceAll(snippet, "\r\n", "\n"), "\n", "\r\n")
	}
	end := idx + len(anchor)
	d.lines = strings.Split(content[:end]+snippet+content[end:], "\n")
	return true
}
