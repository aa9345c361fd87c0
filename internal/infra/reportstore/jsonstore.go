package reportstore

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/avin/lectern/internal/domain"
	"github.com/avin/lectern/internal/ports"
	"github.com/google/uuid"
)

const defaultReportsDir = "reports"

type JSONStore struct {
	rootDir        string
	reportsDirName string
	now            func() time.Time
	newID          func() string
}

type Option func(*JSONStore)

// WithNow is useful for tests.
func WithNow(now func() time.Time) Option {
	return func(s *JSONStore) { s.now = now }
}

// WithIDSource is useful for tests.
func WithIDSource(f func() string) Option {
	return func(s *JSONStore) { s.newID = f }
}

func NewJSONStore(root string, cfg domain.Config, opts ...Option) *JSONStore {
	reportsDir := cfg.Paths.ReportsDir
	if strings.TrimSpace(reportsDir) == "" {
		reportsDir = defaultReportsDir
	}

	s := &JSONStore{
		rootDir:        root,
		reportsDirName: reportsDir,
		now:            time.Now,
		newID:          uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ ports.ReportStore = (*JSONStore)(nil)

func (s *JSONStore) SaveReport(report domain.CheckReport) (string, error) {
	dir := filepath.Join(s.rootDir, s.reportsDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", &domain.OpError{
			Op:   "reportstore.mkdir",
			Kind: domain.KindExecution,
			Path: dir,
			Err:  err,
		}
	}

	ts := report.StartedAt
	if ts.IsZero() {
		ts = s.now()
	}
	ts = ts.UTC()

	toSave := report
	if toSave.StartedAt.IsZero() {
		toSave.StartedAt = ts
	}

	slug := domain.Slugify(report.CourseTitle)
	if slug == "" {
		slug = "course"
	}

	// Timestamp for ordering, uuid fragment against same-second runs.
	filename := fmt.Sprintf("%s_%s_%s.json", ts.Format("20060102T150405Z"), slug, shortID(s.newID()))
	id := strings.TrimSuffix(filename, ".json")
	path := filepath.Join(dir, filename)

	toSave.ID = id

	b, err := json.MarshalIndent(toSave, "", "  ")
	if err != nil {
		return "", &domain.OpError{
			Op:   "reportstore.marshal",
			Kind: domain.KindExecution,
			Path: path,
			Err:  err,
		}
	}

	// Atomic-ish write: tmp then rename.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return "", &domain.OpError{
			Op:   "reportstore.write",
			Kind: domain.KindExecution,
			Path: tmp,
			Err:  err,
		}
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", &domain.OpError{
			Op:   "reportstore.rename",
			Kind: domain.KindExecution,
			Path: path,
			Err:  err,
		}
	}

	_ = s.appendIndex(dir, domain.ReportRef{
		ID:        id,
		File:      filename,
		Course:    report.CourseTitle,
		Errors:    report.Summary.Errors,
		Warnings:  report.Summary.Warnings,
		StartedAt: toSave.StartedAt,
	})

	return id, nil
}

func (s *JSONStore) ListReports() ([]domain.ReportRef, error) {
	indexPath := filepath.Join(s.rootDir, s.reportsDirName, "index.jsonl")
	f, err := os.Open(indexPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &domain.OpError{
			Op:   "reportstore.list",
			Kind: domain.KindExecution,
			Path: indexPath,
			Err:  err,
		}
	}
	defer f.Close()

	var refs []domain.ReportRef
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		var ref domain.ReportRef
		if err := json.Unmarshal([]byte(line), &ref); err != nil {
			// A torn append should not hide the rest of the history.
			continue
		}
		refs = append(refs, ref)
	}
	if err := sc.Err(); err != nil {
		return nil, &domain.OpError{
			Op:   "reportstore.list",
			Kind: domain.KindExecution,
			Path: indexPath,
			Err:  err,
		}
	}

	sort.Slice(refs, func(i, j int) bool { return refs[i].StartedAt.After(refs[j].StartedAt) })
	return refs, nil
}

func (s *JSONStore) appendIndex(dir string, ref domain.ReportRef) error {
	line, err := json.Marshal(ref)
	if err != nil {
		return err
	}

	indexPath := filepath.Join(dir, "index.jsonl")
	f, err := os.OpenFile(indexPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()

	_, _ = f.Write(append(line, '\n'))
	return nil
}

// shortID keeps filenames readable; the timestamp already carries ordering.
func shortID(id string) string {
	id = strings.ReplaceAll(id, "-", "")
	if len(id) > 8 {
		id = id[:8]
	}
	return id
}
