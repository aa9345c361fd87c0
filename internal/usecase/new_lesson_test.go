package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/avin/lectern/internal/domain"
)

func TestNewLesson_CreatesNextNumberAndAppendsTOC(t *testing.T) {
	writer := &fakeWriter{}
	uc := NewNewLesson(fakeCourseLoader{course: cleanCourse()}, writer)

	res, err := uc.Execute(context.Background(), NewLessonParams{
		Root:   "/course",
		Config: domain.DefaultConfig(),
		Title:  "Cache invalidation",
	})
	if err != nil {
		t.Fatalf("new lesson: %v", err)
	}

	if res.Path != "lessons/04-cache-invalidation.md" {
		t.Fatalf("unexpected path: %q", res.Path)
	}
	if res.Ref.Number != 4 || res.Ref.Title != "Cache invalidation" {
		t.Fatalf("unexpected ref: %+v", res.Ref)
	}
	if !res.TOCUpdated {
		t.Fatal("expected the index to be updated")
	}

	content := string(writer.lessons[res.Path])
	if !strings.Contains(content, "# Cache invalidation") {
		t.Fatalf("expected the title in the skeleton:\n%s", content)
	}
	if !strings.Contains(content, "## What to read next") || !strings.Contains(content, "## Self-check") {
		t.Fatalf("expected the conventional sections:\n%s", content)
	}
	if !strings.Contains(content, "draft: true") {
		t.Fatalf("expected a draft marker:\n%s", content)
	}
	if !strings.Contains(content, "(../README.md)") {
		t.Fatalf("expected an index backlink:\n%s", content)
	}

	if writer.tocFile != "README.md" {
		t.Fatalf("unexpected index file: %q", writer.tocFile)
	}
	last := writer.blocks[len(writer.blocks)-1]
	got := last.Lessons[len(last.Lessons)-1]
	if got.Target != res.Path || got.Number != 4 {
		t.Fatalf("expected the entry appended to the last block, got %+v", got)
	}
}

func TestNewLesson_PicksRequestedBlock(t *testing.T) {
	writer := &fakeWriter{}
	uc := NewNewLesson(fakeCourseLoader{course: cleanCourse()}, writer)

	res, err := uc.Execute(context.Background(), NewLessonParams{
		Root:   "/course",
		Config: domain.DefaultConfig(),
		Title:  "Queues",
		Block:  1,
	})
	if err != nil {
		t.Fatalf("new lesson: %v", err)
	}

	first := writer.blocks[0]
	got := first.Lessons[len(first.Lessons)-1]
	if got.Target != res.Path {
		t.Fatalf("expected the entry in block 1, got %+v", writer.blocks)
	}
	if len(writer.blocks[1].Lessons) != 1 {
		t.Fatalf("block 2 should be untouched, got %+v", writer.blocks[1])
	}
}

func TestNewLesson_UnknownBlock(t *testing.T) {
	uc := NewNewLesson(fakeCourseLoader{course: cleanCourse()}, &fakeWriter{})

	_, err := uc.Execute(context.Background(), NewLessonParams{
		Root:   "/course",
		Config: domain.DefaultConfig(),
		Title:  "Queues",
		Block:  9,
	})
	if err == nil {
		t.Fatal("expected an error for an unknown block")
	}
	if !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected not-found kind, got %v", err)
	}
}

func TestNewLesson_SlugCollision(t *testing.T) {
	uc := NewNewLesson(fakeCourseLoader{course: cleanCourse()}, &fakeWriter{})

	_, err := uc.Execute(context.Background(), NewLessonParams{
		Root:   "/course",
		Config: domain.DefaultConfig(),
		Title:  "Latency math",
	})
	if err == nil {
		t.Fatal("expected a collision error")
	}
	if !domain.IsKind(err, domain.KindConflict) {
		t.Fatalf("expected conflict kind, got %v", err)
	}
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict in chain, got %v", err)
	}
}

func TestNewLesson_NoTOC(t *testing.T) {
	writer := &fakeWriter{}
	uc := NewNewLesson(fakeCourseLoader{course: cleanCourse()}, writer)

	res, err := uc.Execute(context.Background(), NewLessonParams{
		Root:   "/course",
		Config: domain.DefaultConfig(),
		Title:  "Queues",
		NoTOC:  true,
	})
	if err != nil {
		t.Fatalf("new lesson: %v", err)
	}
	if res.TOCUpdated {
		t.Fatal("expected the index to stay untouched")
	}
	if writer.tocCalls != 0 {
		t.Fatalf("expected no TOC write, got %d", writer.tocCalls)
	}
	if res.Ref.Target != "lessons/04-queues.md" {
		t.Fatalf("expected a suggested entry, got %+v", res.Ref)
	}
}

func TestNewLesson_EmptyWorkspaceStartsAtOne(t *testing.T) {
	writer := &fakeWriter{}
	scanErr := &domain.OpError{Op: "fake.scan", Kind: domain.KindNotFound, Err: domain.ErrNotFound}
	uc := NewNewLesson(fakeCourseLoader{scanErr: scanErr}, writer)

	res, err := uc.Execute(context.Background(), NewLessonParams{
		Root:   "/course",
		Config: domain.DefaultConfig(),
		Title:  "Orientation",
		NoTOC:  true,
	})
	if err != nil {
		t.Fatalf("new lesson: %v", err)
	}
	if res.Path != "lessons/01-orientation.md" {
		t.Fatalf("expected number 01, got %q", res.Path)
	}
}

func TestNewLesson_EmptyTitle(t *testing.T) {
	uc := NewNewLesson(fakeCourseLoader{course: cleanCourse()}, &fakeWriter{})

	_, err := uc.Execute(context.Background(), NewLessonParams{
		Root:   "/course",
		Config: domain.DefaultConfig(),
		Title:  "  ",
	})
	if err == nil {
		t.Fatal("expected an error for an empty title")
	}
	if !domain.IsKind(err, domain.KindInvalidConfig) {
		t.Fatalf("expected invalid-config kind, got %v", err)
	}
}
