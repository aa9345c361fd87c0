package mdcourse

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/avin/lectern/internal/domain"
	"github.com/avin/lectern/internal/ports"
	"github.com/yuin/goldmark/ast"
)

var _ ports.CourseWriter = (*Loader)(nil)

func (l *Loader) WriteLesson(root, relPath string, content []byte) error {
	full := filepath.Join(root, filepath.FromSlash(relPath))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return &domain.OpError{
			Op:   "mdcourse.write",
			Kind: domain.KindExecution,
			Path: full,
			Err:  err,
		}
	}

	// O_EXCL: a lesson file is created once and edited by hand after.
	f, err := os.OpenFile(full, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		kind := domain.KindExecution
		if os.IsExist(err) {
			kind = domain.KindConflict
			err = fmt.Errorf("%w: %s", domain.ErrConflict, relPath)
		}
		return &domain.OpError{
			Op:   "mdcourse.write",
			Kind: kind,
			Path: full,
			Err:  err,
		}
	}

	if _, err := f.Write(content); err != nil {
		_ = f.Close()
		return &domain.OpError{
			Op:   "mdcourse.write",
			Kind: domain.KindExecution,
			Path: full,
			Err:  err,
		}
	}
	return f.Close()
}

func (l *Loader) ReplaceTOC(root, indexFile string, blocks []domain.Block) error {
	full := filepath.Join(root, indexFile)
	src, err := os.ReadFile(full)
	if err != nil {
		return &domain.OpError{
			Op:   "mdcourse.toc",
			Kind: domain.KindNotFound,
			Path: full,
			Err:  err,
		}
	}

	rendered := renderTOC(blocks)

	var toc *ast.List
	for n := parseDoc(src).FirstChild(); n != nil; n = n.NextSibling() {
		if v, ok := n.(*ast.List); ok {
			toc = v
			break
		}
	}

	var out bytes.Buffer
	if toc == nil {
		out.Write(src)
		if len(src) > 0 && !bytes.HasSuffix(src, []byte("\n")) {
			out.WriteByte('\n')
		}
		if len(src) > 0 {
			out.WriteByte('\n')
		}
		out.WriteString(rendered)
	} else {
		start, end := nodeSpan(toc, newLineIndex(src), len(src))
		out.Write(src[:start])
		out.WriteString(rendered)
		out.Write(src[end:])
	}

	return writeFileAtomic(full, out.Bytes())
}

// nodeSpan returns the byte range of the full source lines a block node
// covers, so splicing replaces list markers along with their content.
func nodeSpan(n ast.Node, li lineIndex, srcLen int) (int, int) {
	first, last := -1, -1
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if t, ok := c.(*ast.Text); ok {
			if first == -1 || t.Segment.Start < first {
				first = t.Segment.Start
			}
			if t.Segment.Stop > last {
				last = t.Segment.Stop
			}
			return ast.WalkContinue, nil
		}
		if c.Type() != ast.TypeBlock {
			return ast.WalkContinue, nil
		}
		if lines := c.Lines(); lines != nil {
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				if first == -1 || seg.Start < first {
					first = seg.Start
				}
				if seg.Stop > last {
					last = seg.Stop
				}
			}
		}
		return ast.WalkContinue, nil
	})
	if first == -1 {
		return 0, 0
	}

	startLine := li.lineAt(first)
	endLine := li.lineAt(last - 1)

	start := li[startLine-1]
	end := srcLen
	if endLine < len(li) {
		end = li[endLine]
	}
	return start, end
}

// renderTOC serializes blocks as the nested numbered lists the index uses.
func renderTOC(blocks []domain.Block) string {
	var b strings.Builder
	for _, block := range blocks {
		marker := fmt.Sprintf("%d. ", block.Number)
		b.WriteString(marker)
		b.WriteString(fmt.Sprintf("**%s**\n", block.Title))

		indent := strings.Repeat(" ", len(marker))
		n := 0
		for _, ref := range block.Lessons {
			if ref.Number > 0 {
				n = ref.Number
			} else {
				n++
			}
			b.WriteString(fmt.Sprintf("%s%d. [%s](%s)\n", indent, n, ref.Title, ref.Target))
		}
	}
	return b.String()
}

func writeFileAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return &domain.OpError{
			Op:   "mdcourse.toc",
			Kind: domain.KindExecution,
			Path: path,
			Err:  err,
		}
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return &domain.OpError{
			Op:   "mdcourse.toc",
			Kind: domain.KindExecution,
			Path: path,
			Err:  err,
		}
	}
	return nil
}
