package model

import "strings"

// Job represents a single posting found on a listing page.
type Job struct {
	Title      string
	Link       string
	PostedDate string
	Keywords   []string // matched keywords, in declaration order
	SourcePage string   // listing page the job was found on
}

// Matched reports whether the detail scan found at least one keyword.
func (j Job) Matched() bool {
	return len(j.Keywords) > 0
}

// KeywordList returns the matched keywords joined for display.
func (j Job) KeywordList() string {
	return strings.Join(j.Keywords, ", ")
}

// DisplayTitle returns the title, falling back to the link when the
// listing anchor had no text.
func (j Job) DisplayTitle() string {
	if t := strings.TrimSpace(j.Title); t != "" {
		return t
	}
	return j.Link
}
