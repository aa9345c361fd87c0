package mdcourse

import (
	"fmt"
	"path"

	"github.com/avin/lectern/internal/domain"
	"github.com/yuin/goldmark/ast"
)

type indexDoc struct {
	title  string
	blocks []domain.Block
}

// parseIndex reads the table of contents: the document's first top-level
// list, one item per block, each with a nested list of lesson links.
func parseIndex(path string, src []byte) (indexDoc, error) {
	doc := parseDoc(src)
	lines := newLineIndex(src)

	var out indexDoc
	var toc *ast.List

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch v := n.(type) {
		case *ast.Heading:
			if v.Level == 1 && out.title == "" {
				out.title = textOf(v, src)
			}
		case *ast.List:
			if toc == nil {
				toc = v
			}
		}
	}

	if toc == nil {
		return indexDoc{}, &domain.OpError{
			Op:   "mdcourse.index",
			Kind: domain.KindInvalidIndex,
			Path: path,
			Err:  fmt.Errorf("%w: no table of contents list", domain.ErrInvalidIndex),
		}
	}

	num := 0
	for item := toc.FirstChild(); item != nil; item = item.NextSibling() {
		num++
		block := domain.Block{Number: num}

		for c := item.FirstChild(); c != nil; c = c.NextSibling() {
			list, ok := c.(*ast.List)
			if !ok {
				if block.Title == "" {
					block.Title = textOf(c, src)
				}
				continue
			}
			for entry := list.FirstChild(); entry != nil; entry = entry.NextSibling() {
				block.Lessons = append(block.Lessons, lessonRef(entry, src, lines))
			}
		}

		out.blocks = append(out.blocks, block)
	}

	return out, nil
}

// lessonRef maps one TOC entry to its link. Entries without a link keep an
// empty Target so the checker can flag them.
func lessonRef(item ast.Node, src []byte, lines lineIndex) domain.LessonRef {
	var link *ast.Link
	_ = ast.Walk(item, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering || link != nil {
			return ast.WalkContinue, nil
		}
		if l, ok := c.(*ast.Link); ok {
			link = l
			return ast.WalkStop, nil
		}
		if _, ok := c.(*ast.List); ok {
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	if link == nil {
		ref := domain.LessonRef{Line: lineOf(item, lines)}
		if fc := item.FirstChild(); fc != nil {
			ref.Title = textOf(fc, src)
		}
		return ref
	}

	ref := domain.LessonRef{
		Title:  textOf(link, src),
		Target: string(link.Destination),
		Line:   lineOf(link, lines),
	}
	ref.Number = targetNumber(ref.Target)
	return ref
}

// targetNumber parses the two-digit index out of a TOC link target.
func targetNumber(target string) int {
	n, _, ok := domain.ParseLessonName(path.Base(domain.StripFragment(target)))
	if !ok {
		return 0
	}
	return n
}
