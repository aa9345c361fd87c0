package webpreview

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/avin/lectern/internal/domain"
	"github.com/avin/lectern/internal/infra/mdcourse"
	"github.com/avin/lectern/internal/usecase"
)

func mustWrite(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// writePreviewFixture lays down a small course that passes check cleanly.
func writePreviewFixture(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	mustWrite(t, filepath.Join(root, "README.md"), `# Systems Course

1. **Block 1. Getting started**
   1. [Orientation](lessons/01-orientation.md)
   2. [Latency math](lessons/02-latency-math.md)
`)
	mustWrite(t, filepath.Join(root, "lessons", "01-orientation.md"), `# Orientation

Start here.

## What to read next

- [Latency math](02-latency-math.md)

## Self-check

- Can you navigate the course?
`)
	mustWrite(t, filepath.Join(root, "lessons", "02-latency-math.md"), `# Latency math

## The math

Numbers every engineer should know.

## What to read next

- [Back to the index](../README.md)

## Self-check

- How long is a datacenter round trip?
`)
	return root
}

func newTestServer(t *testing.T, root string) *Server {
	t.Helper()
	loader := mdcourse.NewLoader()
	return New(Deps{
		Root:    root,
		Config:  domain.DefaultConfig(),
		Courses: loader,
		Check:   usecase.NewCheckCourse(loader, loader),
	})
}

func get(t *testing.T, h http.Handler, target string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestServer_ServesIndex(t *testing.T) {
	h := newTestServer(t, writePreviewFixture(t)).Handler()

	for _, target := range []string{"/", "/index.html"} {
		rec := get(t, h, target)
		if rec.Code != http.StatusOK {
			t.Fatalf("GET %s: expected 200, got=%d", target, rec.Code)
		}
		if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
			t.Fatalf("unexpected content type %q", ct)
		}
		body := rec.Body.String()
		if !strings.Contains(body, "<title>Systems Course</title>") {
			t.Fatalf("expected course title in index, got=%s", body)
		}
		if !strings.Contains(body, `href="lessons/01-orientation.html"`) {
			t.Fatalf("expected rewritten lesson link, got=%s", body)
		}
	}
}

func TestServer_ServesLessonPages(t *testing.T) {
	h := newTestServer(t, writePreviewFixture(t)).Handler()

	rec := get(t, h, "/lessons/01-orientation.html")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got=%d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "<title>Orientation | Systems Course</title>") {
		t.Fatalf("expected lesson page title, got=%s", body)
	}
	if !strings.Contains(body, `id="orientation"`) {
		t.Fatalf("expected heading anchor, got=%s", body)
	}
	if !strings.Contains(body, `href="02-latency-math.html"`) {
		t.Fatalf("expected next link, got=%s", body)
	}

	// The markdown name works too, so TOC targets can be pasted as URLs.
	rec = get(t, h, "/lessons/02-latency-math.md")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for .md name, got=%d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `id="the-math"`) {
		t.Fatalf("expected rendered lesson, got=%s", rec.Body.String())
	}
}

func TestServer_UnknownLessonGets404Page(t *testing.T) {
	h := newTestServer(t, writePreviewFixture(t)).Handler()

	rec := get(t, h, "/lessons/99-missing.html")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got=%d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "/lessons/99-missing.html") {
		t.Fatalf("expected the requested path in the 404 page, got=%s", body)
	}
	if !strings.Contains(body, "Back to the index") {
		t.Fatalf("expected a way home, got=%s", body)
	}
}

func TestServer_ReloadsOnEveryRequest(t *testing.T) {
	root := writePreviewFixture(t)
	h := newTestServer(t, root).Handler()

	before := get(t, h, "/lessons/01-orientation.html").Body.String()
	if strings.Contains(before, "Fresh paragraph") {
		t.Fatal("fixture already contains the edit marker")
	}

	mustWrite(t, filepath.Join(root, "lessons", "01-orientation.md"), `# Orientation

Fresh paragraph.
`)

	after := get(t, h, "/lessons/01-orientation.html").Body.String()
	if !strings.Contains(after, "Fresh paragraph") {
		t.Fatalf("expected the edit on refresh, got=%s", after)
	}
}

func TestServer_CourseAPI(t *testing.T) {
	h := newTestServer(t, writePreviewFixture(t)).Handler()

	rec := get(t, h, "/api/course")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got=%d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Fatalf("unexpected content type %q", ct)
	}

	var course domain.Course
	if err := json.Unmarshal(rec.Body.Bytes(), &course); err != nil {
		t.Fatalf("decode course: %v", err)
	}
	if course.Title != "Systems Course" || len(course.Blocks) != 1 || len(course.Files) != 2 {
		t.Fatalf("unexpected course payload: %+v", course)
	}
}

func TestServer_CheckAPI(t *testing.T) {
	h := newTestServer(t, writePreviewFixture(t)).Handler()

	rec := get(t, h, "/api/check")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got=%d", rec.Code)
	}

	var report domain.CheckReport
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if report.Summary.Lessons != 2 || report.Summary.Errors != 0 || report.Summary.Warnings != 0 {
		t.Fatalf("unexpected summary: %+v", report.Summary)
	}
	if report.Failed() {
		t.Fatalf("clean course should not fail: %+v", report)
	}

	var strictReport domain.CheckReport
	rec = get(t, h, "/api/check?strict=true")
	if err := json.Unmarshal(rec.Body.Bytes(), &strictReport); err != nil {
		t.Fatalf("decode strict report: %v", err)
	}
	if !strictReport.Strict {
		t.Fatal("expected the strict flag to pass through")
	}
}

func TestServer_CORSHeaderOnAPI(t *testing.T) {
	h := newTestServer(t, writePreviewFixture(t)).Handler()

	rec := get(t, h, "/api/course", "Origin", "http://localhost:5173")
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("expected permissive CORS, got=%q", got)
	}
}

func TestServer_ServesAssets(t *testing.T) {
	root := writePreviewFixture(t)
	mustWrite(t, filepath.Join(root, "lessons", "img", "dot.png"), "not really a png")
	h := newTestServer(t, root).Handler()

	rec := get(t, h, "/lessons/img/dot.png")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got=%d", rec.Code)
	}
	if rec.Body.String() != "not really a png" {
		t.Fatalf("unexpected asset body: %q", rec.Body.String())
	}
}

func TestServer_RefusesPathTraversal(t *testing.T) {
	root := writePreviewFixture(t)
	mustWrite(t, filepath.Join(filepath.Dir(root), "secret.txt"), "keep out")
	h := newTestServer(t, root).Handler()

	rec := get(t, h, "/../secret.txt")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for traversal, got=%d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "keep out") {
		t.Fatal("traversal escaped the course root")
	}
}

func TestServer_MissingIndexIs404(t *testing.T) {
	h := newTestServer(t, t.TempDir()).Handler()

	if rec := get(t, h, "/"); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 without an index, got=%d", rec.Code)
	}
}
