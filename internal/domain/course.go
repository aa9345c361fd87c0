package domain

import "strings"

// LinkKind classifies a markdown link by destination.
type LinkKind string

const (
	// LinkExternal points outside the course (http/https).
	LinkExternal LinkKind = "external"
	// LinkRelative points at a file inside the course, optionally with a fragment.
	LinkRelative LinkKind = "relative"
	// LinkAnchor points at a heading in the same file ("#fragment").
	LinkAnchor LinkKind = "anchor"
	// LinkOther covers everything else (mailto:, data:, ...). Checks skip these.
	LinkOther LinkKind = "other"
)

// Link is a markdown link found in a lesson body or the index.
type Link struct {
	Text   string   `json:"text"`
	Target string   `json:"target"`
	Kind   LinkKind `json:"kind"`
	Line   int      `json:"line,omitempty"`
}

// StripFragment drops the #fragment part of a link target.
func StripFragment(target string) string {
	if i := strings.IndexByte(target, '#'); i >= 0 {
		return target[:i]
	}
	return target
}

// Heading is a markdown heading with its GitHub-style anchor.
type Heading struct {
	Level  int    `json:"level"`
	Text   string `json:"text"`
	Anchor string `json:"anchor"`
	Line   int    `json:"line,omitempty"`
}

// LessonRef is one table-of-contents entry: a numbered link into lessons/.
type LessonRef struct {
	// Number is the two-digit index parsed from the link target.
	// Zero when the target does not follow the NN-slug.md convention.
	Number int `json:"number"`

	// Title is the link text as written in the index.
	Title string `json:"title"`

	// Target is the link destination relative to the course root,
	// e.g. "lessons/07-cache-invalidation.md".
	Target string `json:"target"`

	// Line is the 1-based line in the index file (for diagnostics).
	Line int `json:"line,omitempty"`
}

// Block is a thematic grouping of lessons in the table of contents.
type Block struct {
	Number  int         `json:"number"`
	Title   string      `json:"title"`
	Lessons []LessonRef `json:"lessons"`
}

// LessonMeta is optional YAML front matter at the top of a lesson file.
// Authors hand-edit it, so infra decodes it weakly.
type LessonMeta struct {
	Draft   bool     `json:"draft,omitempty" mapstructure:"draft"`
	Tags    []string `json:"tags,omitempty" mapstructure:"tags"`
	Minutes int      `json:"minutes,omitempty" mapstructure:"minutes"`
}

// LessonFile is the parsed metadata of one on-disk lesson document.
// The body itself stays on disk; readers load it when rendering.
type LessonFile struct {
	// Path is relative to the course root (e.g. "lessons/07-cache-invalidation.md").
	Path string `json:"path"`
	Name string `json:"name"`

	// Number and Slug come from the NN-slug.md naming convention.
	// Number is zero when the name does not follow it.
	Number int    `json:"number"`
	Slug   string `json:"slug,omitempty"`

	// Title is the text of the first H1 ("" if the lesson has none).
	Title string `json:"title,omitempty"`

	Headings []Heading `json:"headings,omitempty"`
	Links    []Link    `json:"links,omitempty"`

	// Words counts prose words in the body (front matter excluded).
	Words int `json:"words"`

	// Empty is true when the body has no non-whitespace content.
	Empty bool `json:"empty,omitempty"`

	// Conventional trailing sections (spec: every lesson ends with them).
	HasWhatToReadNext bool `json:"has_what_to_read_next"`
	HasSelfCheck      bool `json:"has_self_check"`

	Meta LessonMeta `json:"meta,omitempty"`
}

// Course is a parsed course workspace: the table of contents plus the
// lesson files actually present under the lessons directory.
type Course struct {
	Title     string `json:"title"`
	Root      string `json:"root"`
	IndexPath string `json:"index_path"`

	Blocks []Block `json:"blocks"`

	// Files holds every markdown file found under lessons/, sorted by
	// number then name, whether or not the index references it.
	Files []LessonFile `json:"files"`
}

// Refs flattens the table of contents into document order.
func (c Course) Refs() []LessonRef {
	var out []LessonRef
	for _, b := range c.Blocks {
		out = append(out, b.Lessons...)
	}
	return out
}

// LessonCount is the number of table-of-contents entries.
func (c Course) LessonCount() int {
	n := 0
	for _, b := range c.Blocks {
		n += len(b.Lessons)
	}
	return n
}

// FileByPath finds an on-disk lesson by its root-relative path.
func (c Course) FileByPath(path string) (LessonFile, bool) {
	for _, f := range c.Files {
		if f.Path == path {
			return f, true
		}
	}
	return LessonFile{}, false
}

// FileByNumber finds an on-disk lesson by its index number.
func (c Course) FileByNumber(n int) (LessonFile, bool) {
	if n <= 0 {
		return LessonFile{}, false
	}
	for _, f := range c.Files {
		if f.Number == n {
			return f, true
		}
	}
	return LessonFile{}, false
}

// BlockOf returns the block a TOC target belongs to, if any.
func (c Course) BlockOf(target string) (Block, bool) {
	for _, b := range c.Blocks {
		for _, l := range b.Lessons {
			if l.Target == target {
				return b, true
			}
		}
	}
	return Block{}, false
}
