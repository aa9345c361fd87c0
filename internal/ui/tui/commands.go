package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/avin/lectern/internal/domain"
	"github.com/avin/lectern/internal/infra/mdcourse"
	"github.com/avin/lectern/internal/infra/progress"
	"github.com/avin/lectern/internal/infra/workspacefinder"
	"github.com/avin/lectern/internal/usecase"
)

const checkTimeout = 2 * time.Minute

func cmdRefreshWorkspace(deps Deps) tea.Cmd {
	return func() tea.Msg {
		wd, err := os.Getwd()
		if err != nil {
			return workspaceRefreshedMsg{cwd: "", found: false, err: fmt.Errorf("getwd: %w", err)}
		}
		if deps.WorkspaceLocator == nil {
			return workspaceRefreshedMsg{cwd: wd, found: false, err: errors.New("WorkspaceLocator is nil")}
		}

		root, findErr := deps.WorkspaceLocator.FindRoot(wd)
		if findErr != nil {
			return workspaceRefreshedMsg{cwd: wd, found: false, err: findErr}
		}

		return workspaceRefreshedMsg{cwd: wd, found: true, root: root, err: nil}
	}
}

func cmdInitWorkspaceHere(deps Deps, root string) tea.Cmd {
	return func() tea.Msg {
		if deps.WorkspaceInitializer == nil {
			return initWorkspaceDoneMsg{root: root, err: errors.New("WorkspaceInitializer is nil")}
		}

		err := deps.WorkspaceInitializer.Init(domain.WorkspaceSpec{Root: root}, true)
		return initWorkspaceDoneMsg{root: root, err: err}
	}
}

func courseLoader(cfg domain.Config) *mdcourse.Loader {
	return mdcourse.NewLoader(
		mdcourse.WithLessonsDir(cfg.Paths.LessonsDir),
		mdcourse.WithIndexFile(cfg.Paths.IndexFile),
	)
}

func cmdLoadCourse(root string) tea.Cmd {
	return func() tea.Msg {
		cfg, err := workspacefinder.LoadConfig(root)
		if err != nil {
			return courseLoadedMsg{root: root, err: err}
		}

		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		course, err := courseLoader(cfg).LoadCourse(ctx, root)
		if err != nil {
			return courseLoadedMsg{root: root, cfg: cfg, err: err}
		}
		if t := cfg.Course.Title; t != "" {
			course.Title = t
		}

		prog, err := progress.NewStore(root).Load()
		if err != nil {
			// A corrupt progress file should not block reading.
			prog = domain.NewProgress()
		}

		return courseLoadedMsg{root: root, cfg: cfg, course: course, progress: prog, err: nil}
	}
}

// cmdOpenLesson renders a lesson for the reading pane and records it as
// the last one opened.
func cmdOpenLesson(root string, cfg domain.Config, file domain.LessonFile, width int) tea.Cmd {
	return func() tea.Msg {
		src, err := courseLoader(cfg).ReadSource(root, file.Path)
		if err != nil {
			return lessonRenderedMsg{file: file, err: err}
		}

		if width < 40 {
			width = 40
		}
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return lessonRenderedMsg{file: file, err: err}
		}

		out, err := r.Render(string(src))
		if err != nil {
			return lessonRenderedMsg{file: file, err: err}
		}

		if file.Number > 0 {
			store := progress.NewStore(root)
			if p, perr := store.Load(); perr == nil {
				p.MarkOpened(file.Number, time.Now())
				_ = store.Save(p)
			}
		}

		return lessonRenderedMsg{file: file, content: out, err: nil}
	}
}

func cmdMarkRead(root string, number int) tea.Cmd {
	return func() tea.Msg {
		store := progress.NewStore(root)
		p, err := store.Load()
		if err != nil {
			p = domain.NewProgress()
		}
		p.MarkRead(number, time.Now())
		if err := store.Save(p); err != nil {
			return progressSavedMsg{progress: p, err: err}
		}
		return progressSavedMsg{progress: p, err: nil}
	}
}

func listenCheck(ch <-chan checkDoneMsg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return checkDoneMsg{err: errors.New("check channel closed")}
		}
		return msg
	}
}

func startCheckAsync(root string, log *slog.Logger, debug bool) (chan checkDoneMsg, tea.Cmd) {
	ch := make(chan checkDoneMsg, 1)

	if log == nil {
		log = slog.Default()
	}

	go func() {
		defer close(ch)

		log.Info("check.start", "workspace", root, "debug", debug)

		cfg, err := workspacefinder.LoadConfig(root)
		if err != nil {
			log.Error("check.load_config.failed", "err", err)
			ch <- checkDoneMsg{err: err}
			return
		}

		loader := courseLoader(cfg)
		uc := usecase.NewCheckCourse(loader, loader)

		ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
		defer cancel()

		report, execErr := uc.Execute(ctx, usecase.CheckParams{Root: root, Config: cfg})
		if execErr != nil {
			log.Error("check.failed", "err", execErr)
			ch <- checkDoneMsg{err: execErr}
			return
		}

		log.Info("check.ok",
			"errors", report.Summary.Errors,
			"warnings", report.Summary.Warnings,
			"lessons", report.Summary.Lessons,
		)
		if debug {
			for _, f := range report.Findings {
				log.Debug("check.finding",
					"rule", string(f.Rule),
					"severity", string(f.Severity),
					"path", f.Path,
					"line", f.Line,
					"message", f.Message,
				)
			}
		}

		ch <- checkDoneMsg{report: report, err: nil}
	}()

	return ch, listenCheck(ch)
}

func cmdComputeStats(root string) tea.Cmd {
	return func() tea.Msg {
		cfg, err := workspacefinder.LoadConfig(root)
		if err != nil {
			return statsDoneMsg{err: err}
		}

		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		stats, err := usecase.NewCourseStats(courseLoader(cfg)).Execute(ctx, root, cfg)
		return statsDoneMsg{stats: stats, err: err}
	}
}
