package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/avin/lectern/internal/domain"
	"github.com/avin/lectern/internal/infra/mdcourse"
	"github.com/avin/lectern/internal/infra/reportstore"
	"github.com/avin/lectern/internal/infra/workspacefinder"
	"github.com/avin/lectern/internal/ports"
)

type workspaceCtx struct {
	root string
	cfg  domain.Config

	// courses is the markdown adapter; *mdcourse.Loader backs the
	// loader, file-access, and writer ports at once.
	courses *mdcourse.Loader

	store ports.ReportStore
}

func loadWorkspace(workspaceFlag string) (*workspaceCtx, error) {
	root, err := resolveWorkspaceRoot(workspaceFlag)
	if err != nil {
		return nil, err
	}

	cfg, err := workspacefinder.LoadConfig(root)
	if err != nil {
		return nil, err
	}

	loader := mdcourse.NewLoader(
		mdcourse.WithLessonsDir(cfg.Paths.LessonsDir),
		mdcourse.WithIndexFile(cfg.Paths.IndexFile),
	)

	store := reportstore.NewJSONStore(root, cfg)

	return &workspaceCtx{
		root:    root,
		cfg:     cfg,
		courses: loader,
		store:   store,
	}, nil
}

func resolveWorkspaceRoot(workspaceFlag string) (string, error) {
	w := strings.TrimSpace(workspaceFlag)
	if w != "" {
		abs, err := filepath.Abs(w)
		if err != nil {
			return "", fmt.Errorf("invalid workspace path: %w", err)
		}
		return abs, nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}

	locator := workspacefinder.NewFinder()
	root, err := locator.FindRoot(wd)
	if err != nil {
		return "", fmt.Errorf("course workspace not found from %q (tip: run `lectern init`): %w", wd, err)
	}
	return root, nil
}

// resolveLessonPath turns a lesson argument into a root-relative path.
// Accepted forms: a number ("7", "07"), a file name ("07-foo.md" or
// "07-foo"), or a path relative to the workspace root.
func resolveLessonPath(ctx context.Context, ws *workspaceCtx, arg string) (string, error) {
	in := strings.TrimSpace(arg)
	if in == "" {
		return "", fmt.Errorf("lesson is required (a number, file name, or path)")
	}

	// Path-like arguments resolve relative to the workspace root.
	if looksLikePath(in) {
		p := in
		if filepath.IsAbs(p) {
			rel, err := filepath.Rel(ws.root, p)
			if err != nil || strings.HasPrefix(rel, "..") {
				return "", fmt.Errorf("lesson %q is outside the workspace", in)
			}
			p = rel
		}
		p = filepath.ToSlash(filepath.Clean(p))
		if ws.courses.Exists(ws.root, p) {
			return p, nil
		}
		return "", fmt.Errorf("lesson %q not found", in)
	}

	lessonsDir := ws.cfg.Paths.LessonsDir

	// Bare file name, with or without the extension.
	name := in
	if !hasMarkdownExt(name) {
		name += ".md"
	}
	p := filepath.ToSlash(filepath.Join(lessonsDir, name))
	if ws.courses.Exists(ws.root, p) {
		return p, nil
	}

	// A plain number matches by the NN- prefix.
	if n, err := strconv.Atoi(in); err == nil && n > 0 {
		files, err := ws.courses.ScanLessons(ctx, ws.root)
		if err != nil {
			return "", err
		}
		for _, f := range files {
			if f.Number == n {
				return f.Path, nil
			}
		}
		return "", fmt.Errorf("no lesson numbered %02d under %s/", n, lessonsDir)
	}

	// Last resort: match by slug or title.
	files, err := ws.courses.ScanLessons(ctx, ws.root)
	if err != nil {
		return "", err
	}
	for _, f := range files {
		if strings.EqualFold(f.Slug, in) || strings.EqualFold(f.Title, in) {
			return f.Path, nil
		}
	}

	return "", fmt.Errorf("lesson %q not found in %q", in, filepath.Join(ws.root, lessonsDir))
}

func looksLikePath(s string) bool {
	return strings.Contains(s, "/") || strings.Contains(s, string(filepath.Separator))
}

func hasMarkdownExt(s string) bool {
	ext := strings.ToLower(filepath.Ext(s))
	return ext == ".md" || ext == ".markdown"
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
