package usecase

import (
	"context"

	"github.com/avin/lectern/internal/domain"
	"github.com/avin/lectern/internal/ports"
)

type CourseStats struct {
	courses ports.CourseLoader
}

func NewCourseStats(cl ports.CourseLoader) *CourseStats {
	return &CourseStats{courses: cl}
}

// Execute computes reading-size numbers for the whole course, per block
// and per lesson file. Reading time uses the configured words-per-minute.
func (uc *CourseStats) Execute(ctx context.Context, root string, cfg domain.Config) (domain.CourseStats, error) {
	course, err := uc.courses.LoadCourse(ctx, root)
	if err != nil {
		return domain.CourseStats{}, err
	}
	if t := cfg.Course.Title; t != "" {
		course.Title = t
	}

	wpm := cfg.Reading.WordsPerMinute

	stats := domain.CourseStats{
		CourseTitle: course.Title,
		Blocks:      len(course.Blocks),
		Lessons:     course.LessonCount(),
	}

	for _, f := range course.Files {
		title := f.Title
		if title == "" {
			title = f.Name
		}
		ls := domain.LessonStats{
			Number:   f.Number,
			Title:    title,
			Path:     f.Path,
			Words:    f.Words,
			Headings: len(f.Headings),
			Links:    len(f.Links),
			Minutes:  domain.ReadingMinutes(f.Words, wpm),
		}
		stats.PerLesson = append(stats.PerLesson, ls)

		stats.Words += f.Words
		stats.Headings += len(f.Headings)
		stats.LinksN += len(f.Links)
	}
	stats.Minutes = domain.ReadingMinutes(stats.Words, wpm)

	for _, b := range course.Blocks {
		bs := domain.BlockStats{
			Number:  b.Number,
			Title:   b.Title,
			Lessons: len(b.Lessons),
		}
		for _, ref := range b.Lessons {
			if f, ok := course.FileByPath(domain.StripFragment(ref.Target)); ok {
				bs.Words += f.Words
			}
		}
		bs.Minutes = domain.ReadingMinutes(bs.Words, wpm)
		stats.PerBlock = append(stats.PerBlock, bs)
	}

	for i := range stats.PerLesson {
		ls := stats.PerLesson[i]
		if stats.Longest == nil || ls.Words > stats.Longest.Words {
			longest := ls
			stats.Longest = &longest
		}
		if stats.Shortest == nil || ls.Words < stats.Shortest.Words {
			shortest := ls
			stats.Shortest = &shortest
		}
	}

	return stats, nil
}
