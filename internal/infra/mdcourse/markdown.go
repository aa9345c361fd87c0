package mdcourse

import (
	"sort"
	"strings"

	"github.com/avin/lectern/internal/domain"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// md is configured once; Parse builds a fresh context per call, so the
// instance is shared across the concurrent lesson scan.
var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

func parseDoc(src []byte) ast.Node {
	return md.Parser().Parse(text.NewReader(src))
}

// textOf collects the plain text of a node and its descendants.
func textOf(n ast.Node, src []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}

// lineIndex maps byte offsets to 1-based line numbers.
type lineIndex []int

func newLineIndex(src []byte) lineIndex {
	idx := lineIndex{0}
	for i, c := range src {
		if c == '\n' {
			idx = append(idx, i+1)
		}
	}
	return idx
}

func (li lineIndex) lineAt(offset int) int {
	return sort.SearchInts(li, offset+1)
}

// lineOf locates a node in the source: inline nodes via their first text
// segment, block nodes via their first line.
func lineOf(n ast.Node, li lineIndex) int {
	off := -1
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if t, ok := c.(*ast.Text); ok {
			off = t.Segment.Start
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})
	if off < 0 {
		for c := n; c != nil; c = c.Parent() {
			if c.Type() != ast.TypeBlock {
				continue
			}
			if lines := c.Lines(); lines != nil && lines.Len() > 0 {
				off = lines.At(0).Start
				break
			}
		}
	}
	if off < 0 {
		return 0
	}
	return li.lineAt(off)
}

// classifyLink buckets a destination for the check rules.
func classifyLink(target string) domain.LinkKind {
	target = strings.TrimSpace(target)
	switch {
	case target == "":
		return domain.LinkOther
	case strings.HasPrefix(target, "#"):
		return domain.LinkAnchor
	case strings.HasPrefix(target, "http://"), strings.HasPrefix(target, "https://"):
		return domain.LinkExternal
	case strings.Contains(target, "://"), strings.HasPrefix(target, "mailto:"), strings.HasPrefix(target, "data:"):
		return domain.LinkOther
	default:
		return domain.LinkRelative
	}
}

// countWords tallies visible prose, including code block content.
func countWords(n ast.Node, src []byte) int {
	words := 0
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			words += len(strings.Fields(string(t.Segment.Value(src))))
		case *ast.String:
			words += len(strings.Fields(string(t.Value)))
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			if lines := c.Lines(); lines != nil {
				for i := 0; i < lines.Len(); i++ {
					seg := lines.At(i)
					words += len(strings.Fields(string(seg.Value(src))))
				}
			}
		}
		return ast.WalkContinue, nil
	})
	return words
}
