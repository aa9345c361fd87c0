package mdcourse

import (
	"bytes"
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/avin/lectern/internal/domain"
	"github.com/mitchellh/mapstructure"
	"github.com/yuin/goldmark/ast"
	"gopkg.in/yaml.v3"
)

var frontMatterRe = regexp.MustCompile(`(?s)\A---\r?\n(.*?)\r?\n---\r?\n`)

// parseLesson extracts the metadata of one lesson document. Markdown always
// parses; malformed content surfaces later as check findings, not errors.
func parseLesson(relPath string, src []byte) domain.LessonFile {
	lf := domain.LessonFile{
		Path: relPath,
		Name: path.Base(relPath),
	}
	lf.Number, lf.Slug, _ = domain.ParseLessonName(lf.Name)

	meta, body, offset := splitFrontMatter(src)
	lf.Meta = decodeMeta(meta)
	lf.Empty = len(bytes.TrimSpace(body)) == 0

	doc := parseDoc(body)
	lines := newLineIndex(body)
	anchors := map[string]int{}

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := n.(type) {
		case *ast.Heading:
			h := domain.Heading{
				Level: v.Level,
				Text:  textOf(v, body),
				Line:  lineOf(v, lines) + offset,
			}
			h.Anchor = uniqueAnchor(anchors, domain.HeadingAnchor(h.Text))
			lf.Headings = append(lf.Headings, h)
			if v.Level == 1 && lf.Title == "" {
				lf.Title = h.Text
			}
		case *ast.Link:
			target := string(v.Destination)
			lf.Links = append(lf.Links, domain.Link{
				Text:   textOf(v, body),
				Target: target,
				Kind:   classifyLink(target),
				Line:   lineOf(v, lines) + offset,
			})
		case *ast.AutoLink:
			target := string(v.URL(body))
			lf.Links = append(lf.Links, domain.Link{
				Text:   string(v.Label(body)),
				Target: target,
				Kind:   classifyLink(target),
				Line:   lineOf(v, lines) + offset,
			})
		case *ast.Image:
			target := string(v.Destination)
			lf.Links = append(lf.Links, domain.Link{
				Text:   textOf(v, body),
				Target: target,
				Kind:   classifyLink(target),
				Line:   lineOf(v, lines) + offset,
			})
		}
		return ast.WalkContinue, nil
	})

	lf.Words = countWords(doc, body)

	for _, h := range lf.Headings {
		if h.Level != 2 && h.Level != 3 {
			continue
		}
		switch {
		case strings.EqualFold(h.Text, "What to read next"):
			lf.HasWhatToReadNext = true
		case strings.EqualFold(h.Text, "Self-check"), strings.EqualFold(h.Text, "Self check"):
			lf.HasSelfCheck = true
		}
	}

	return lf
}

// StripFrontMatter drops the optional leading YAML block. Renderers reuse
// it so front matter never shows up as body text.
func StripFrontMatter(src []byte) []byte {
	_, body, _ := splitFrontMatter(src)
	return body
}

// splitFrontMatter strips an optional leading YAML block and reports how
// many source lines it occupied so diagnostics keep file line numbers.
func splitFrontMatter(src []byte) (map[string]any, []byte, int) {
	m := frontMatterRe.FindSubmatchIndex(src)
	if m == nil {
		return nil, src, 0
	}
	var meta map[string]any
	if err := yaml.Unmarshal(src[m[2]:m[3]], &meta); err != nil || len(meta) == 0 {
		// Not front matter after all; keep the document intact.
		return nil, src, 0
	}
	return meta, src[m[1]:], bytes.Count(src[:m[1]], []byte("\n"))
}

func decodeMeta(raw map[string]any) domain.LessonMeta {
	var meta domain.LessonMeta
	if len(raw) == 0 {
		return meta
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &meta,
	})
	if err != nil {
		return meta
	}
	_ = dec.Decode(raw)
	return meta
}

// uniqueAnchor suffixes repeated heading anchors the way GitHub does.
func uniqueAnchor(seen map[string]int, base string) string {
	n, dup := seen[base]
	seen[base] = n + 1
	if !dup {
		return base
	}
	return fmt.Sprintf("%s-%d", base, n)
}
