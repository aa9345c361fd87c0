package htmlrender

import (
	"strings"
	"testing"
)

func render(t *testing.T, r *Renderer, src string) string {
	t.Helper()
	out, err := r.Render([]byte(src))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return string(out)
}

func TestRender_HeadingAnchors(t *testing.T) {
	out := render(t, NewRenderer(), "# Getting started\n\n## What to read next\n")

	if !strings.Contains(out, `id="getting-started"`) {
		t.Fatalf("expected h1 anchor id, got=%s", out)
	}
	if !strings.Contains(out, `id="what-to-read-next"`) {
		t.Fatalf("expected h2 anchor id, got=%s", out)
	}
}

func TestRender_DuplicateHeadingsGetSuffixedIDs(t *testing.T) {
	out := render(t, NewRenderer(), "## Setup\n\n## Setup\n\n## Setup\n")

	for _, id := range []string{`id="setup"`, `id="setup-1"`, `id="setup-2"`} {
		if !strings.Contains(out, id) {
			t.Fatalf("expected %s in output, got=%s", id, out)
		}
	}
}

func TestRender_KeepsMarkdownLinksByDefault(t *testing.T) {
	out := render(t, NewRenderer(), "[next](02-latency-math.md)\n")

	if !strings.Contains(out, `href="02-latency-math.md"`) {
		t.Fatalf("expected untouched .md link, got=%s", out)
	}
}

func TestRender_WithHTMLLinksRewritesRelativeTargets(t *testing.T) {
	r := NewRenderer(WithHTMLLinks())

	cases := []struct {
		name string
		src  string
		want string
	}{
		{"plain", "[next](02-latency-math.md)", `href="02-latency-math.html"`},
		{"fragment kept", "[sec](02-latency-math.md#the-math)", `href="02-latency-math.html#the-math"`},
		{"anchor untouched", "[here](#setup)", `href="#setup"`},
		{"external untouched", "[post](https://example.com/post.md)", `href="https://example.com/post.md"`},
		{"mailto untouched", "[mail](mailto:author@example.com)", `href="mailto:author@example.com"`},
		{"asset untouched", "[diagram](img/cache.png)", `href="img/cache.png"`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out := render(t, r, tc.src)
			if !strings.Contains(out, tc.want) {
				t.Fatalf("expected %s, got=%s", tc.want, out)
			}
		})
	}
}

func TestRender_GFMTable(t *testing.T) {
	src := "| op | cost |\n| --- | --- |\n| L1 hit | 1ns |\n"
	out := render(t, NewRenderer(), src)

	if !strings.Contains(out, "<table>") {
		t.Fatalf("expected a rendered table, got=%s", out)
	}
}

func TestRender_RawHTMLPassesThrough(t *testing.T) {
	out := render(t, NewRenderer(), "before\n\n<div class=\"note\">keep me</div>\n")

	if !strings.Contains(out, `<div class="note">keep me</div>`) {
		t.Fatalf("expected raw block kept, got=%s", out)
	}
}
