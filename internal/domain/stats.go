package domain

// LessonStats is the reading-size summary of one lesson.
type LessonStats struct {
	Number   int    `json:"number"`
	Title    string `json:"title"`
	Path     string `json:"path"`
	Words    int    `json:"words"`
	Headings int    `json:"headings"`
	Links    int    `json:"links"`
	Minutes  int    `json:"minutes"`
}

// BlockStats aggregates the lessons of one block.
type BlockStats struct {
	Number  int    `json:"number"`
	Title   string `json:"title"`
	Lessons int    `json:"lessons"`
	Words   int    `json:"words"`
	Minutes int    `json:"minutes"`
}

// CourseStats is the full reading-size breakdown of a course.
type CourseStats struct {
	CourseTitle string `json:"course"`

	Blocks   int `json:"blocks"`
	Lessons  int `json:"lessons"`
	Words    int `json:"words"`
	Headings int `json:"headings"`
	LinksN   int `json:"links"`
	Minutes  int `json:"minutes"`

	PerBlock  []BlockStats  `json:"per_block,omitempty"`
	PerLesson []LessonStats `json:"per_lesson,omitempty"`

	Longest  *LessonStats `json:"longest,omitempty"`
	Shortest *LessonStats `json:"shortest,omitempty"`
}

// ReadingMinutes converts a word count to whole minutes, rounding up so a
// 30-word note still costs a minute.
func ReadingMinutes(words, wordsPerMinute int) int {
	if words <= 0 {
		return 0
	}
	if wordsPerMinute <= 0 {
		wordsPerMinute = 220
	}
	return (words + wordsPerMinute - 1) / wordsPerMinute
}
