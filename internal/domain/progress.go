package domain

import (
	"strconv"
	"time"
)

// Progress tracks which lessons a reader has finished. It is persisted as
// flat JSON under .lectern/, one file per course workspace.
type Progress struct {
	// LastLesson is the number of the lesson most recently opened.
	LastLesson int `json:"last_lesson,omitempty"`

	// Read maps lesson number -> time first marked read. Keys are strings
	// because the file is hand-inspectable JSON.
	Read map[string]time.Time `json:"read,omitempty"`

	UpdatedAt time.Time `json:"updated_at"`
}

func NewProgress() Progress {
	return Progress{Read: map[string]time.Time{}}
}

// MarkRead records a lesson as read; the first timestamp wins.
func (p *Progress) MarkRead(number int, at time.Time) {
	if number <= 0 {
		return
	}
	if p.Read == nil {
		p.Read = map[string]time.Time{}
	}
	key := strconv.Itoa(number)
	if _, ok := p.Read[key]; !ok {
		p.Read[key] = at
	}
	p.UpdatedAt = at
}

// MarkOpened records the lesson a reader last had open.
func (p *Progress) MarkOpened(number int, at time.Time) {
	if number <= 0 {
		return
	}
	p.LastLesson = number
	p.UpdatedAt = at
}

func (p Progress) IsRead(number int) bool {
	if p.Read == nil {
		return false
	}
	_, ok := p.Read[strconv.Itoa(number)]
	return ok
}

func (p Progress) ReadCount() int {
	return len(p.Read)
}
