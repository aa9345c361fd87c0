package htmlrender

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/avin/lectern/internal/domain"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Renderer converts lesson markdown to HTML fragments.
type Renderer struct {
	md goldmark.Markdown
}

type Option func(*options)

type options struct {
	rewriteMDLinks bool
}

// WithHTMLLinks retargets intra-course .md links at .html pages, for sites
// exported as static files.
func WithHTMLLinks() Option {
	return func(o *options) { o.rewriteMDLinks = true }
}

func NewRenderer(opts ...Option) *Renderer {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	transformers := []util.PrioritizedValue{
		util.Prioritized(anchorIDs{}, 100),
	}
	if o.rewriteMDLinks {
		transformers = append(transformers, util.Prioritized(htmlLinks{}, 200))
	}

	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithASTTransformers(transformers...)),
		// Course content is the author's own; raw HTML passes through.
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)
	return &Renderer{md: md}
}

func (r *Renderer) Render(src []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.md.Convert(src, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// anchorIDs assigns the heading ids the checker validates against, so
// #fragment links keep resolving in rendered pages.
type anchorIDs struct{}

func (anchorIDs) Transform(doc *ast.Document, reader text.Reader, _ parser.Context) {
	src := reader.Source()
	seen := map[string]int{}
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}

		base := domain.HeadingAnchor(string(h.Text(src)))
		id := base
		if cnt, dup := seen[base]; dup {
			id = fmt.Sprintf("%s-%d", base, cnt)
		}
		seen[base]++
		h.SetAttributeString("id", []byte(id))
		return ast.WalkContinue, nil
	})
}

// htmlLinks rewrites relative .md destinations to their exported names.
type htmlLinks struct{}

func (htmlLinks) Transform(doc *ast.Document, _ text.Reader, _ parser.Context) {
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if l, ok := n.(*ast.Link); ok {
			l.Destination = []byte(rewriteTarget(string(l.Destination)))
		}
		return ast.WalkContinue, nil
	})
}

func rewriteTarget(target string) string {
	frag := ""
	if i := strings.IndexByte(target, '#'); i >= 0 {
		target, frag = target[:i], target[i:]
	}
	if target == "" || strings.Contains(target, "://") || strings.HasPrefix(target, "mailto:") {
		return target + frag
	}
	if strings.HasSuffix(target, ".md") {
		target = strings.TrimSuffix(target, ".md") + ".html"
	}
	return target + frag
}
