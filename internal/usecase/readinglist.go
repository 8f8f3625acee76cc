package usecase

import "strings"

// ReadingList is the parsed form of reading-list.md: a header block of
// non-checkbox lines plus the ordered checkbox entries, newest first.
type ReadingList struct {
	Header  []string
	Entries []string
}

// DefaultReadingList is used when the file does not exist yet.
const DefaultReadingList = "# Reading List\n\n"

// ParseReadingList splits raw content into header lines and checkbox entries.
func ParseReadingList(raw string) *ReadingList {
	list := &ReadingList{}
	for _, line := range strings.Split(raw, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "- [") {
			list.Entries = append(list.Entries, line)
		} else {
			list.Header = append(list.Header, line)
		}
	}
	return list
}

// Contains reports whether any entry already references the title.
func (l *ReadingList) Contains(title string) bool {
	needle := "[" + title + "]"
	for _, e := range l.Entries {
		if strings.Contains(e, needle) {
			return true
		}
	}
	return false
}

// Prepend inserts an entry line at the front, keeping newest first.
func (l *ReadingList) Prepend(entry string) {
	l.Entries = append([]string{entry}, l.Entries...)
}

// Render reassembles the file: trimmed header, blank line, entries, trailing
// newline.
func (l *ReadingList) Render() string {
	header := strings.TrimSpace(strings.Join(l.Header, "\n"))
	return header + "\n\n" + strings.Join(l.Entries, "\n") + "\n"
}
