package webpreview

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/rs/cors"

	"github.com/avin/lectern/internal/domain"
	"github.com/avin/lectern/internal/infra/htmlrender"
	"github.com/avin/lectern/internal/ports"
	"github.com/avin/lectern/internal/usecase"
)

const shutdownGrace = 3 * time.Second

// Deps wires the preview server to the rest of the app.
type Deps struct {
	Root   string
	Config domain.Config

	Courses ports.CourseLoader
	Check   *usecase.CheckCourse

	Logger *slog.Logger
}

// Server serves the rendered course over HTTP for local previewing.
// Every page is rebuilt from disk on request, so edits show on refresh.
type Server struct {
	root    string
	cfg     domain.Config
	courses ports.CourseLoader
	check   *usecase.CheckCourse
	pages   *htmlrender.Builder
	log     *slog.Logger
}

func New(deps Deps) *Server {
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		root:    deps.Root,
		cfg:     deps.Config,
		courses: deps.Courses,
		check:   deps.Check,
		pages:   htmlrender.NewBuilder(),
		log:     log,
	}
}

// Handler builds the route table. The URL space mirrors an exported site
// (index.html, lessons/NN-slug.html) so links work identically in both.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(s.logRequests)

	r.Get("/", s.handleIndex)
	r.Get("/index.html", s.handleIndex)
	r.Get(path.Join("/", s.cfg.Paths.LessonsDir, "{page}"), s.handleLesson)

	r.Get("/api/course", s.handleAPICourse)
	r.Get("/api/check", s.handleAPICheck)

	r.Get("/*", s.handleAsset)

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet},
		AllowedHeaders: []string{"*"},
	})
	return c.Handler(r)
}

// ListenAndServe blocks until the context is cancelled or the listener fails.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	s.log.Info("webpreview.listening", "addr", addr, "root", s.root)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := srv.Shutdown(shutCtx); err != nil {
			return err
		}
		return ctx.Err()
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	course, err := s.loadCourse(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}

	page, err := s.pages.IndexPage(course)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeHTML(w, http.StatusOK, page)
}

func (s *Server) handleLesson(w http.ResponseWriter, r *http.Request) {
	course, err := s.loadCourse(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}

	name := chi.URLParam(r, "page")
	base := strings.TrimSuffix(name, ".html")
	if !strings.HasSuffix(base, ".md") {
		base += ".md"
	}

	target := path.Join(s.cfg.Paths.LessonsDir, base)
	f, ok := course.FileByPath(target)
	if !ok {
		s.notFound(w, r)
		return
	}

	page, err := s.pages.LessonPage(course, f)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeHTML(w, http.StatusOK, page)
}

func (s *Server) handleAPICourse(w http.ResponseWriter, r *http.Request) {
	course, err := s.loadCourse(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	render.JSON(w, r, course)
}

func (s *Server) handleAPICheck(w http.ResponseWriter, r *http.Request) {
	strict, _ := strconv.ParseBool(r.URL.Query().Get("strict"))

	report, err := s.check.Execute(r.Context(), usecase.CheckParams{
		Root:   s.root,
		Config: s.cfg,
		Strict: strict,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	render.JSON(w, r, report)
}

// handleAsset serves images and other files lessons link to, straight from
// the workspace.
func (s *Server) handleAsset(w http.ResponseWriter, r *http.Request) {
	rel := strings.TrimPrefix(path.Clean("/"+r.URL.Path), "/")
	if rel == "" || rel == "." {
		s.notFound(w, r)
		return
	}

	full := filepath.Join(s.root, filepath.FromSlash(rel))
	info, err := os.Stat(full)
	if err != nil || info.IsDir() {
		s.notFound(w, r)
		return
	}
	http.ServeFile(w, r, full)
}

func (s *Server) loadCourse(ctx context.Context) (domain.Course, error) {
	course, err := s.courses.LoadCourse(ctx, s.root)
	if err != nil {
		return domain.Course{}, err
	}
	if t := s.cfg.Course.Title; t != "" {
		course.Title = t
	}
	return course, nil
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	if domain.IsKind(err, domain.KindNotFound) {
		s.notFound(w, r)
		return
	}

	s.log.Error("webpreview.request_failed", "path", r.URL.Path, "error", err)

	var oe *domain.OpError
	if errors.As(err, &oe) {
		http.Error(w, oe.Error(), http.StatusInternalServerError)
		return
	}
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

func (s *Server) notFound(w http.ResponseWriter, r *http.Request) {
	s.log.Debug("webpreview.not_found", "path", r.URL.Path)
	body := fmt.Sprintf(notFoundHTML, html.EscapeString(r.URL.Path))
	writeHTML(w, http.StatusNotFound, []byte(body))
}

func writeHTML(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// logRequests writes one debug line per request to the app log. The preview
// runs next to a terminal the author is working in, so nothing goes to stdout.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Debug("webpreview.request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).String(),
		)
	})
}

const notFoundHTML = `<!doctype html>
<html lang="en">
<head><meta charset="utf-8"><title>Not found</title>
<style>body { font-family: system-ui, sans-serif; max-width: 46rem; margin: 4rem auto; padding: 0 1rem; color: #1f2328; } a { color: #0969da; }</style>
</head>
<body>
<h1>404</h1>
<p><code>%s</code> is not part of this course.</p>
<p><a href="/">Back to the index</a></p>
</body>
</html>
`
