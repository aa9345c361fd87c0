package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// Lesson files follow lessons/<two-digit-index>-<kebab-case-title>.md.
var lessonNameRe = regexp.MustCompile(`^(\d{2,})-([a-z0-9]+(?:-[a-z0-9]+)*)\.md$`)

// ParseLessonName splits a file name of the form NN-slug.md.
// ok is false when the name does not follow the convention.
func ParseLessonName(name string) (number int, slug string, ok bool) {
	m := lessonNameRe.FindStringSubmatch(name)
	if m == nil {
		return 0, "", false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n <= 0 {
		return 0, "", false
	}
	return n, m[2], true
}

// LessonFileName builds the conventional file name for a lesson.
func LessonFileName(number int, title string) string {
	slug := Slugify(title)
	if slug == "" {
		slug = "untitled"
	}
	return fmt.Sprintf("%02d-%s.md", number, slug)
}

// Slugify produces a safe kebab-case name component.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(s))

	lastDash := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r)
			lastDash = false
		case r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}

	return strings.Trim(b.String(), "-")
}

// HeadingAnchor converts heading text into the GitHub-style anchor most
// markdown renderers generate: lowercase, punctuation stripped, spaces
// replaced with hyphens. Duplicate handling (-1, -2 suffixes) is the
// parser's job since it needs per-document state.
func HeadingAnchor(text string) string {
	text = strings.TrimSpace(strings.ToLower(text))

	var b strings.Builder
	b.Grow(len(text))

	for _, r := range text {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case r == ' ' || r == '-':
			b.WriteByte('-')
		case r == '_':
			b.WriteByte('_')
		}
	}

	return b.String()
}
