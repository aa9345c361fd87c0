package tui

import "github.com/avin/lectern/internal/domain"

type workspaceRefreshedMsg struct {
	cwd   string
	found bool
	root  string
	err   error
}

type initWorkspaceDoneMsg struct {
	root string
	err  error
}

type courseLoadedMsg struct {
	root     string
	cfg      domain.Config
	course   domain.Course
	progress domain.Progress
	err      error
}

type lessonRenderedMsg struct {
	file    domain.LessonFile
	content string
	err     error
}

type progressSavedMsg struct {
	progress domain.Progress
	err      error
}

type checkDoneMsg struct {
	report domain.CheckReport
	err    error
}

type statsDoneMsg struct {
	stats domain.CourseStats
	err   error
}
