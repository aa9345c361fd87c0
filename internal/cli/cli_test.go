package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/avin/lectern/internal/domain"
	"github.com/avin/lectern/internal/infra/mdcourse"
)

// --- looksLikePath ---

func TestLooksLikePath(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"07", false},
		{"07-latency.md", false},
		{"./07-latency.md", true},
		{"lessons/07-latency.md", true},
		{"/abs/path/07-latency.md", true},
	}
	for _, c := range cases {
		if got := looksLikePath(c.input); got != c.want {
			t.Errorf("looksLikePath(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

// --- hasMarkdownExt ---

func TestHasMarkdownExt(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"07-latency.md", true},
		{"07-latency.markdown", true},
		{"07-LATENCY.MD", true},
		{"07-latency.txt", false},
		{"07-latency", false},
		{"", false},
	}
	for _, c := range cases {
		if got := hasMarkdownExt(c.input); got != c.want {
			t.Errorf("hasMarkdownExt(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

// --- fileExists ---

func TestFileExists_True(t *testing.T) {
	tmp := t.TempDir()
	p := filepath.Join(tmp, "exists.txt")
	if err := os.WriteFile(p, []byte("hi"), 0o644); err != nil {
		t.Fatal(err)
	}
	if !fileExists(p) {
		t.Errorf("expected fileExists=true for %s", p)
	}
}

func TestFileExists_False(t *testing.T) {
	tmp := t.TempDir()
	if fileExists(filepath.Join(tmp, "not_there.txt")) {
		t.Error("expected fileExists=false for non-existent file")
	}
}

// --- resolveLessonPath ---

func testWorkspace(t *testing.T) *workspaceCtx {
	t.Helper()

	tmp := t.TempDir()
	lessons := filepath.Join(tmp, "lessons")
	if err := os.MkdirAll(lessons, 0o755); err != nil {
		t.Fatal(err)
	}
	body := "# Latency budgets\n\nText.\n"
	if err := os.WriteFile(filepath.Join(lessons, "07-latency-budgets.md"), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := domain.DefaultConfig()
	return &workspaceCtx{
		root: tmp,
		cfg:  cfg,
		courses: mdcourse.NewLoader(
			mdcourse.WithLessonsDir(cfg.Paths.LessonsDir),
			mdcourse.WithIndexFile(cfg.Paths.IndexFile),
		),
	}
}

func TestResolveLessonPath_ByNumber(t *testing.T) {
	ws := testWorkspace(t)
	got, err := resolveLessonPath(context.Background(), ws, "7")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "lessons/07-latency-budgets.md" {
		t.Errorf("unexpected path %q", got)
	}
}

func TestResolveLessonPath_ByFileName(t *testing.T) {
	ws := testWorkspace(t)
	for _, arg := range []string{"07-latency-budgets.md", "07-latency-budgets"} {
		got, err := resolveLessonPath(context.Background(), ws, arg)
		if err != nil {
			t.Fatalf("resolve(%q): unexpected error: %v", arg, err)
		}
		if got != "lessons/07-latency-budgets.md" {
			t.Errorf("resolve(%q) = %q", arg, got)
		}
	}
}

func TestResolveLessonPath_BySlugAndTitle(t *testing.T) {
	ws := testWorkspace(t)
	for _, arg := range []string{"latency-budgets", "Latency budgets"} {
		got, err := resolveLessonPath(context.Background(), ws, arg)
		if err != nil {
			t.Fatalf("resolve(%q): unexpected error: %v", arg, err)
		}
		if got != "lessons/07-latency-budgets.md" {
			t.Errorf("resolve(%q) = %q", arg, got)
		}
	}
}

func TestResolveLessonPath_ByRelativePath(t *testing.T) {
	ws := testWorkspace(t)
	got, err := resolveLessonPath(context.Background(), ws, "lessons/07-latency-budgets.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "lessons/07-latency-budgets.md" {
		t.Errorf("unexpected path %q", got)
	}
}

func TestResolveLessonPath_NotFound(t *testing.T) {
	ws := testWorkspace(t)
	if _, err := resolveLessonPath(context.Background(), ws, "99"); err == nil {
		t.Fatal("expected error for unknown lesson number")
	}
	if _, err := resolveLessonPath(context.Background(), ws, ""); err == nil {
		t.Fatal("expected error for empty argument")
	}
}

func TestResolveLessonPath_OutsideWorkspace(t *testing.T) {
	ws := testWorkspace(t)
	other := t.TempDir()
	if _, err := resolveLessonPath(context.Background(), ws, filepath.Join(other, "x.md")); err == nil {
		t.Fatal("expected error for path outside the workspace")
	}
}

// --- printReport ---

func sampleReport() domain.CheckReport {
	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	r := domain.CheckReport{
		CourseTitle: "System Design Course",
		Root:        "/tmp/course",
		StartedAt:   now,
		FinishedAt:  now.Add(200 * time.Millisecond),
		Findings: []domain.Finding{
			{Rule: domain.RuleTargetExists, Severity: domain.SeverityError, Path: "README.md", Line: 12, Message: "target lessons/09-missing.md does not exist"},
			{Rule: domain.RuleSections, Severity: domain.SeverityWarning, Path: "lessons/03-caching.md", Message: `missing "Self-check" section`},
		},
		Summary: domain.CheckSummary{Blocks: 10, Lessons: 57, Files: 57},
	}
	r.Summary.Count(r.Findings)
	return r
}

func TestPrintReport_JSON_ValidOutput(t *testing.T) {
	var buf bytes.Buffer
	if err := printReport(&buf, sampleReport(), "json"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var decoded domain.CheckReport
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}
	if decoded.Summary.Errors != 1 || decoded.Summary.Warnings != 1 {
		t.Errorf("unexpected summary: %+v", decoded.Summary)
	}
}

func TestPrintReport_Pretty_ContainsFindings(t *testing.T) {
	var buf bytes.Buffer
	if err := printReport(&buf, sampleReport(), "pretty"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"System Design Course",
		"toc/target-exists",
		"README.md:12",
		"1 error(s), 1 warning(s)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in pretty output, got:\n%s", want, out)
		}
	}
}

func TestPrintReport_NoFindings_SaysOK(t *testing.T) {
	r := sampleReport()
	r.Findings = nil
	r.Summary.Count(nil)

	var buf bytes.Buffer
	if err := printReport(&buf, r, ""); err != nil {
		t.Fatalf("empty format should behave like pretty, got error: %v", err)
	}
	if !strings.Contains(buf.String(), "OK") {
		t.Errorf("expected OK line, got:\n%s", buf.String())
	}
}

func TestPrintReport_UnknownFormat_ReturnsError(t *testing.T) {
	var buf bytes.Buffer
	err := printReport(&buf, domain.CheckReport{}, "xml")
	if err == nil {
		t.Fatal("expected error for unknown format")
	}
	if !strings.Contains(err.Error(), "xml") {
		t.Errorf("expected error to mention format, got: %v", err)
	}
}

// --- printStats ---

func TestPrintStats_Pretty(t *testing.T) {
	stats := domain.CourseStats{
		CourseTitle: "System Design Course",
		Blocks:      2,
		Lessons:     3,
		Words:       4400,
		Minutes:     20,
		PerBlock: []domain.BlockStats{
			{Number: 1, Title: "Foundations", Lessons: 2, Words: 3000, Minutes: 14},
			{Number: 2, Title: "Caching", Lessons: 1, Words: 1400, Minutes: 6},
		},
		Longest:  &domain.LessonStats{Number: 1, Title: "Latency", Words: 2000},
		Shortest: &domain.LessonStats{Number: 3, Title: "TTLs", Words: 1400},
	}

	var buf bytes.Buffer
	if err := printStats(&buf, stats, "pretty", false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Foundations", "4400", "~20m", "Longest"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in stats output, got:\n%s", want, out)
		}
	}
}

func TestPrintStats_UnknownFormat_ReturnsError(t *testing.T) {
	var buf bytes.Buffer
	if err := printStats(&buf, domain.CourseStats{}, "yaml", false); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestFormatMinutes(t *testing.T) {
	cases := []struct {
		in   int
		want string
	}{
		{0, "0m"},
		{45, "45m"},
		{60, "1h00m"},
		{135, "2h15m"},
	}
	for _, c := range cases {
		if got := formatMinutes(c.in); got != c.want {
			t.Errorf("formatMinutes(%d) = %q, want %q", c.in, got, c.want)
		}
	}
}

// --- command structure ---

func TestRootCmd_RegistersSubcommands(t *testing.T) {
	cmd := newRootCmd()
	names := map[string]bool{}
	for _, sub := range cmd.Commands() {
		names[strings.Fields(sub.Use)[0]] = true
	}
	for _, expected := range []string{
		"check", "lessons", "toc", "new", "init", "stats",
		"search", "serve", "export", "reports", "version",
	} {
		if !names[expected] {
			t.Errorf("expected subcommand %q to be registered", expected)
		}
	}
}

func TestCheckCmd_Flags(t *testing.T) {
	cmd := checkCmd()
	if cmd.Use != "check" {
		t.Errorf("expected Use=check, got %q", cmd.Use)
	}
	for _, flag := range []string{"workspace", "strict", "external", "save", "format"} {
		if cmd.Flags().Lookup(flag) == nil {
			t.Errorf("expected --%s flag on check command", flag)
		}
	}
}

func TestLessonsCmd_HasListAndShow(t *testing.T) {
	cmd := lessonsCmd()
	names := map[string]bool{}
	for _, sub := range cmd.Commands() {
		names[strings.Fields(sub.Use)[0]] = true
	}
	if !names["list"] || !names["show"] {
		t.Errorf("expected list and show subcommands, got %v", names)
	}
}

func TestReportsCmd_HasListSubcommand(t *testing.T) {
	cmd := reportsCmd()
	found := false
	for _, sub := range cmd.Commands() {
		if sub.Use == "list" {
			found = true
		}
	}
	if !found {
		t.Error("expected 'list' subcommand under reports")
	}
}

func TestTocCmd_Flags(t *testing.T) {
	cmd := tocCmd()
	for _, flag := range []string{"workspace", "write", "format"} {
		if cmd.Flags().Lookup(flag) == nil {
			t.Errorf("expected --%s flag on toc command", flag)
		}
	}
}

func TestNewCmd_Flags(t *testing.T) {
	cmd := newCmd()
	for _, flag := range []string{"workspace", "block", "no-toc"} {
		if cmd.Flags().Lookup(flag) == nil {
			t.Errorf("expected --%s flag on new command", flag)
		}
	}
}

func TestInitCmd_Flags(t *testing.T) {
	cmd := initCmd()
	for _, flag := range []string{"path", "title", "force"} {
		if cmd.Flags().Lookup(flag) == nil {
			t.Errorf("expected --%s flag on init command", flag)
		}
	}
}

// --- resolveWorkspaceRoot ---

func TestResolveWorkspaceRoot_ExplicitPath(t *testing.T) {
	tmp := t.TempDir()
	got, err := resolveWorkspaceRoot(tmp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != tmp {
		t.Errorf("expected %q, got %q", tmp, got)
	}
}

func TestResolveWorkspaceRoot_RelativePath(t *testing.T) {
	got, err := resolveWorkspaceRoot(".")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !filepath.IsAbs(got) {
		t.Errorf("expected absolute path, got %q", got)
	}
}
