package htmlrender

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"

	"github.com/avin/lectern/internal/domain"
	"github.com/avin/lectern/internal/infra/mdcourse"
	"github.com/avin/lectern/internal/ports"
	"golang.org/x/sync/errgroup"
)

const buildConcurrency = 8

// Builder exports a course as a static HTML tree: index.html plus one page
// per lesson file, with prev/next navigation following the table of contents.
type Builder struct {
	renderer *Renderer
}

func NewBuilder() *Builder {
	return &Builder{renderer: NewRenderer(WithHTMLLinks())}
}

var _ ports.SiteBuilder = (*Builder)(nil)

func (b *Builder) Build(ctx context.Context, course domain.Course, outDir string) (int, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return 0, &domain.OpError{
			Op:   "htmlrender.mkdir",
			Kind: domain.KindExecution,
			Path: outDir,
			Err:  err,
		}
	}

	nav := buildNav(course)

	if err := b.buildIndex(course, outDir); err != nil {
		return 0, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(buildConcurrency)
	for _, f := range course.Files {
		f := f
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return b.buildLesson(course, f, nav, outDir)
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	return 1 + len(course.Files), nil
}

// IndexPage renders the course index as a full HTML document.
func (b *Builder) IndexPage(course domain.Course) ([]byte, error) {
	src, err := os.ReadFile(filepath.Join(course.Root, filepath.FromSlash(course.IndexPath)))
	if err != nil {
		return nil, &domain.OpError{
			Op:   "htmlrender.index",
			Kind: domain.KindNotFound,
			Path: course.IndexPath,
			Err:  err,
		}
	}

	content, err := b.renderer.Render(mdcourse.StripFrontMatter(src))
	if err != nil {
		return nil, &domain.OpError{
			Op:   "htmlrender.render",
			Kind: domain.KindExecution,
			Path: course.IndexPath,
			Err:  err,
		}
	}

	return renderPage(pageData{
		PageTitle:   course.Title,
		CourseTitle: course.Title,
		HomeHref:    "index.html",
		Content:     template.HTML(content),
	})
}

// LessonPage renders a single lesson as a full HTML document, with prev/next
// links following the table of contents.
func (b *Builder) LessonPage(course domain.Course, f domain.LessonFile) ([]byte, error) {
	return b.lessonPage(course, f, buildNav(course))
}

func (b *Builder) lessonPage(course domain.Course, f domain.LessonFile, nav map[string]pager) ([]byte, error) {
	src, err := os.ReadFile(filepath.Join(course.Root, filepath.FromSlash(f.Path)))
	if err != nil {
		return nil, &domain.OpError{
			Op:   "htmlrender.lesson",
			Kind: domain.KindNotFound,
			Path: f.Path,
			Err:  err,
		}
	}

	content, err := b.renderer.Render(mdcourse.StripFrontMatter(src))
	if err != nil {
		return nil, &domain.OpError{
			Op:   "htmlrender.render",
			Kind: domain.KindExecution,
			Path: f.Path,
			Err:  err,
		}
	}

	title := f.Title
	if title == "" {
		title = f.Name
	}

	page := pageData{
		PageTitle:   fmt.Sprintf("%s | %s", title, course.Title),
		CourseTitle: course.Title,
		HomeHref:    "../index.html",
		Content:     template.HTML(content),
	}
	if p, ok := nav[f.Path]; ok {
		page.Prev = p.prev
		page.Next = p.next
	}
	return renderPage(page)
}

func (b *Builder) buildIndex(course domain.Course, outDir string) error {
	data, err := b.IndexPage(course)
	if err != nil {
		return err
	}
	return writeFile(filepath.Join(outDir, "index.html"), data)
}

func (b *Builder) buildLesson(course domain.Course, f domain.LessonFile, nav map[string]pager, outDir string) error {
	data, err := b.lessonPage(course, f, nav)
	if err != nil {
		return err
	}

	out := filepath.Join(outDir, filepath.FromSlash(htmlName(f.Path)))
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return &domain.OpError{
			Op:   "htmlrender.mkdir",
			Kind: domain.KindExecution,
			Path: filepath.Dir(out),
			Err:  err,
		}
	}
	return writeFile(out, data)
}

type pager struct {
	prev *navLink
	next *navLink
}

type navLink struct {
	Title string
	Href  string
}

// buildNav orders lesson pages the way the table of contents does.
func buildNav(course domain.Course) map[string]pager {
	refs := course.Refs()
	nav := make(map[string]pager, len(refs))

	for i, ref := range refs {
		var p pager
		if i > 0 {
			p.prev = refLink(refs[i-1])
		}
		if i < len(refs)-1 {
			p.next = refLink(refs[i+1])
		}
		nav[domain.StripFragment(ref.Target)] = p
	}
	return nav
}

// refLink builds the sibling href for a lesson page.
func refLink(ref domain.LessonRef) *navLink {
	base := domain.StripFragment(ref.Target)
	if i := strings.LastIndexByte(base, '/'); i >= 0 {
		base = base[i+1:]
	}
	return &navLink{
		Title: ref.Title,
		Href:  strings.TrimSuffix(base, ".md") + ".html",
	}
}

func htmlName(path string) string {
	return strings.TrimSuffix(path, ".md") + ".html"
}

type pageData struct {
	PageTitle   string
	CourseTitle string
	HomeHref    string
	Content     template.HTML
	Prev        *navLink
	Next        *navLink
}

func renderPage(page pageData) ([]byte, error) {
	var buf bytes.Buffer
	if err := layoutTpl.Execute(&buf, page); err != nil {
		return nil, &domain.OpError{
			Op:   "htmlrender.template",
			Kind: domain.KindExecution,
			Err:  err,
		}
	}
	return buf.Bytes(), nil
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return &domain.OpError{
			Op:   "htmlrender.write",
			Kind: domain.KindExecution,
			Path: path,
			Err:  err,
		}
	}
	return nil
}

var layoutTpl = template.Must(template.New("page").Parse(layoutHTML))

const layoutHTML = `<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.PageTitle}}</title>
<style>
body { font-family: system-ui, sans-serif; line-height: 1.6; max-width: 46rem; margin: 0 auto; padding: 0 1rem 4rem; color: #1f2328; }
header { padding: 1rem 0; border-bottom: 1px solid #d8dee4; margin-bottom: 2rem; }
header a { color: inherit; text-decoration: none; font-weight: 600; }
a { color: #0969da; }
pre { background: #f6f8fa; padding: 1rem; overflow-x: auto; border-radius: 6px; }
code { background: #f6f8fa; padding: 0.1rem 0.3rem; border-radius: 4px; font-size: 0.92em; }
pre code { padding: 0; }
blockquote { border-left: 4px solid #d8dee4; margin-left: 0; padding-left: 1rem; color: #57606a; }
table { border-collapse: collapse; }
th, td { border: 1px solid #d8dee4; padding: 0.3rem 0.7rem; }
nav.pager { display: flex; justify-content: space-between; margin-top: 3rem; border-top: 1px solid #d8dee4; padding-top: 1rem; }
nav.pager .next { margin-left: auto; }
</style>
</head>
<body>
<header><a href="{{.HomeHref}}">{{.CourseTitle}}</a></header>
<main>
{{.Content}}
</main>
<nav class="pager">
{{if .Prev}}<a class="prev" href="{{.Prev.Href}}">&larr; {{.Prev.Title}}</a>{{end}}
{{if .Next}}<a class="next" href="{{.Next.Href}}">{{.Next.Title}} &rarr;</a>{{end}}
</nav>
</body>
</html>
`
