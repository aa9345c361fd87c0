package tui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/avin/lectern/internal/domain"
)

type screen int

const (
	screenHome screen = iota
	screenLessons
	screenReader
	screenCheck
	screenStats
)

type menuItem struct {
	title string
	desc  string
}

func (m menuItem) Title() string       { return m.title }
func (m menuItem) Description() string { return m.desc }
func (m menuItem) FilterValue() string { return m.title }

type lessonItem struct {
	file domain.LessonFile
	read bool
}

func (l lessonItem) Title() string {
	title := l.file.Title
	if title == "" {
		title = l.file.Name
	}
	if l.file.Number > 0 {
		title = fmt.Sprintf("%02d  %s", l.file.Number, title)
	}
	if l.read {
		title += "  ✓"
	}
	return title
}

func (l lessonItem) Description() string {
	return fmt.Sprintf("%d words, ~%d min", l.file.Words, domain.ReadingMinutes(l.file.Words, 0))
}

func (l lessonItem) FilterValue() string {
	return l.file.Title + " " + l.file.Name
}

type model struct {
	theme Theme
	deps  Deps

	scr     screen
	menu    list.Model
	lessons list.Model
	reader  viewport.Model

	width  int
	height int

	workspaceFound bool
	workspaceRoot  string

	cfg          domain.Config
	course       domain.Course
	courseLoaded bool
	progress     domain.Progress

	current domain.LessonFile

	report    *domain.CheckReport
	stats     *domain.CourseStats
	checkCh   chan checkDoneMsg
	busy      bool
	toast     string
	loadError string
}

func Run(deps Deps) error {
	m := newModel(deps)
	p := tea.NewProgram(wrapSafe(m, deps.Logger), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func newModel(deps Deps) model {
	t := DefaultTheme()

	items := []list.Item{
		menuItem{"Read", "Browse lessons and track progress"},
		menuItem{"Check", "Validate TOC, numbering, and links"},
		menuItem{"Stats", "Word counts and reading time"},
		menuItem{"Init workspace", "Create lectern.yaml and the first lesson here"},
		menuItem{"Quit", "Exit Lectern"},
	}

	menu := list.New(items, list.NewDefaultDelegate(), 0, 0)
	menu.Title = "Lectern"
	menu.SetShowStatusBar(false)
	menu.SetFilteringEnabled(true)
	menu.SetShowHelp(false)

	lessons := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	lessons.Title = "Lessons"
	lessons.SetShowStatusBar(false)
	lessons.SetFilteringEnabled(true)
	lessons.SetShowHelp(false)

	return model{
		theme:   t,
		deps:    deps,
		scr:     screenHome,
		menu:    menu,
		lessons: lessons,
		reader:  viewport.New(0, 0),
	}
}

func (m model) Init() tea.Cmd {
	return cmdRefreshWorkspace(m.deps)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.menu.SetSize(msg.Width-4, msg.Height-10)
		m.lessons.SetSize(msg.Width-4, msg.Height-10)
		m.reader.Width = msg.Width - 6
		m.reader.Height = msg.Height - 8
		return m, nil

	case workspaceRefreshedMsg:
		if msg.err != nil || !msg.found {
			m.workspaceFound = false
			return m, nil
		}
		m.workspaceFound = true
		m.workspaceRoot = msg.root
		return m, cmdLoadCourse(msg.root)

	case initWorkspaceDoneMsg:
		if msg.err != nil {
			m.toast = userMessage(msg.err)
			return m, nil
		}
		m.toast = "Workspace created"
		m.workspaceFound = true
		m.workspaceRoot = msg.root
		return m, cmdLoadCourse(msg.root)

	case courseLoadedMsg:
		if msg.err != nil {
			m.courseLoaded = false
			m.loadError = userMessage(msg.err)
			return m, nil
		}
		m.cfg = msg.cfg
		m.course = msg.course
		m.courseLoaded = true
		m.loadError = ""
		m.progress = msg.progress
		m.lessons.SetItems(lessonItems(msg.course, msg.progress))
		return m, nil

	case lessonRenderedMsg:
		m.busy = false
		if msg.err != nil {
			m.toast = userMessage(msg.err)
			return m, nil
		}
		m.current = msg.file
		m.reader.SetContent(msg.content)
		m.reader.GotoTop()
		m.scr = screenReader
		m.toast = ""
		return m, nil

	case progressSavedMsg:
		if msg.err != nil {
			m.toast = userMessage(msg.err)
			return m, nil
		}
		m.progress = msg.progress
		m.lessons.SetItems(lessonItems(m.course, m.progress))
		m.toast = "Marked as read"
		return m, nil

	case checkDoneMsg:
		m.busy = false
		m.checkCh = nil
		if msg.err != nil {
			m.toast = userMessage(msg.err)
			m.scr = screenHome
			return m, nil
		}
		report := msg.report
		m.report = &report
		m.scr = screenCheck
		return m, nil

	case statsDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.toast = userMessage(msg.err)
			m.scr = screenHome
			return m, nil
		}
		stats := msg.stats
		m.stats = &stats
		m.scr = screenStats
		return m, nil

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}

	return m.updateActive(msg)
}

func (m model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "q":
		if m.scr == screenHome {
			return m, tea.Quit
		}
		if m.scr == screenReader {
			m.scr = screenLessons
			return m, nil
		}
		m.scr = screenHome
		return m, nil

	case "esc", "b":
		switch m.scr {
		case screenReader:
			m.scr = screenLessons
		case screenHome:
		default:
			m.scr = screenHome
		}
		return m, nil

	case "enter":
		switch m.scr {
		case screenHome:
			return m.openMenuItem()
		case screenLessons:
			it, ok := m.lessons.SelectedItem().(lessonItem)
			if !ok || m.busy {
				return m, nil
			}
			m.busy = true
			return m, cmdOpenLesson(m.workspaceRoot, m.cfg, it.file, m.reader.Width-2)
		}

	case "m":
		if m.scr == screenReader && m.current.Number > 0 {
			return m, cmdMarkRead(m.workspaceRoot, m.current.Number)
		}

	case "r":
		if m.scr == screenHome && m.workspaceFound {
			return m, cmdLoadCourse(m.workspaceRoot)
		}
	}

	return m.updateActive(msg)
}

func (m model) openMenuItem() (tea.Model, tea.Cmd) {
	it, ok := m.menu.SelectedItem().(menuItem)
	if !ok {
		return m, nil
	}

	switch it.title {
	case "Quit":
		return m, tea.Quit

	case "Init workspace":
		if m.workspaceFound {
			m.toast = "Workspace already exists"
			return m, nil
		}
		cwd, _ := cwdOrDot()
		return m, cmdInitWorkspaceHere(m.deps, cwd)

	case "Read":
		if !m.courseLoaded {
			m.toast = noCourseToast(m)
			return m, nil
		}
		m.scr = screenLessons
		return m, nil

	case "Check":
		if !m.workspaceFound || m.busy {
			m.toast = noCourseToast(m)
			return m, nil
		}
		m.busy = true
		ch, cmd := startCheckAsync(m.workspaceRoot, m.deps.Logger, m.deps.Debug)
		m.checkCh = ch
		return m, cmd

	case "Stats":
		if !m.workspaceFound || m.busy {
			m.toast = noCourseToast(m)
			return m, nil
		}
		m.busy = true
		return m, cmdComputeStats(m.workspaceRoot)
	}

	return m, nil
}

func (m model) updateActive(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.scr {
	case screenHome:
		m.menu, cmd = m.menu.Update(msg)
	case screenLessons:
		m.lessons, cmd = m.lessons.Update(msg)
	case screenReader:
		m.reader, cmd = m.reader.Update(msg)
	}
	return m, cmd
}

func (m model) View() string {
	wrap := lipgloss.NewStyle().Padding(1, 2)
	header := m.theme.Title.Render("Lectern") + "\n" +
		m.theme.Subtitle.Render("Course workspace toolchain: read, check, and publish markdown lessons") + "\n"

	var banner string
	switch {
	case m.workspaceFound && m.courseLoaded:
		banner = m.theme.Help.Render(fmt.Sprintf("Course: %s (%d/%d read)  •  %s",
			m.course.Title, m.progress.ReadCount(), m.course.LessonCount(), m.workspaceRoot))
	case m.workspaceFound && m.loadError != "":
		banner = m.theme.Warning.Render(m.loadError)
	case m.workspaceFound:
		banner = m.theme.Help.Render("Workspace: " + m.workspaceRoot)
	default:
		banner = m.theme.Card.Render("⚠ No course workspace found.\n\nUse \"Init workspace\" to create one here.")
	}

	toast := ""
	if m.toast != "" {
		toast = "\n" + m.theme.Warning.Render(m.toast)
	}

	switch m.scr {
	case screenHome:
		help := m.theme.Help.Render("↑/↓ navigate • enter open • r reload • q quit")
		body := m.theme.Card.Render(m.menu.View())
		if m.busy {
			help = m.theme.Help.Render("working…")
		}
		return wrap.Render(header + "\n" + banner + toast + "\n\n" + body + "\n" + help)

	case screenLessons:
		help := m.theme.Help.Render("↑/↓ navigate • enter read • / search • esc back")
		return wrap.Render(header + "\n" + banner + toast + "\n\n" + m.theme.Card.Render(m.lessons.View()) + "\n" + help)

	case screenReader:
		title := m.current.Title
		if title == "" {
			title = m.current.Name
		}
		read := ""
		if m.progress.IsRead(m.current.Number) {
			read = m.theme.Read.Render("  ✓ read")
		}
		head := m.theme.Title.Render(title) + read
		help := m.theme.Help.Render("↑/↓ scroll • m mark read • esc back")
		return wrap.Render(head + toast + "\n\n" + m.reader.View() + "\n" + help)

	case screenCheck:
		if m.report == nil {
			return wrap.Render(header + "\n" + banner + "\n\nno report")
		}
		body := renderReport(m.theme, *m.report, m.height-12)
		help := m.theme.Help.Render("esc back • q home")
		return wrap.Render(header + "\n" + banner + toast + "\n\n" + m.theme.Card.Render(body) + "\n" + help)

	case screenStats:
		if m.stats == nil {
			return wrap.Render(header + "\n" + banner + "\n\nno stats")
		}
		body := renderStats(*m.stats)
		help := m.theme.Help.Render("esc back • q home")
		return wrap.Render(header + "\n" + banner + toast + "\n\n" + m.theme.Card.Render(body) + "\n" + help)

	default:
		return wrap.Render(header + "\n" + "unknown state")
	}
}

func lessonItems(course domain.Course, progress domain.Progress) []list.Item {
	items := make([]list.Item, 0, len(course.Files))
	for _, f := range course.Files {
		items = append(items, lessonItem{file: f, read: progress.IsRead(f.Number)})
	}
	return items
}

func noCourseToast(m model) string {
	if !m.workspaceFound {
		return "No workspace found"
	}
	if m.loadError != "" {
		return m.loadError
	}
	return "Course not loaded yet"
}

func cwdOrDot() (string, error) {
	wd, err := os.Getwd()
	if err != nil || strings.TrimSpace(wd) == "" {
		return ".", err
	}
	return wd, nil
}
