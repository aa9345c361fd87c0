package domain

import "testing"

func TestParseLessonName(t *testing.T) {
	cases := []struct {
		name   string
		number int
		slug   string
		ok     bool
	}{
		{"01-latency-numbers.md", 1, "latency-numbers", true},
		{"57-wrap-up.md", 57, "wrap-up", true},
		{"07-cache.md", 7, "cache", true},
		{"112-extra-credit.md", 112, "extra-credit", true},
		{"7-cache.md", 0, "", false},
		{"01-Cache.md", 0, "", false},
		{"01_cache.md", 0, "", false},
		{"01-cache.markdown", 0, "", false},
		{"01-.md", 0, "", false},
		{"notes.md", 0, "", false},
		{"", 0, "", false},
	}

	for _, c := range cases {
		n, slug, ok := ParseLessonName(c.name)
		if ok != c.ok {
			t.Errorf("ParseLessonName(%q) ok = %v, want %v", c.name, ok, c.ok)
			continue
		}
		if n != c.number || slug != c.slug {
			t.Errorf("ParseLessonName(%q) = (%d, %q), want (%d, %q)", c.name, n, slug, c.number, c.slug)
		}
	}
}

func TestLessonFileName(t *testing.T) {
	cases := []struct {
		number int
		title  string
		want   string
	}{
		{1, "Latency Numbers", "01-latency-numbers.md"},
		{12, "What is CAP, really?", "12-what-is-cap-really.md"},
		{57, "  Wrap up  ", "57-wrap-up.md"},
		{3, "!!!", "03-untitled.md"},
	}

	for _, c := range cases {
		if got := LessonFileName(c.number, c.title); got != c.want {
			t.Errorf("LessonFileName(%d, %q) = %q, want %q", c.number, c.title, got, c.want)
		}
	}
}

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Cache Invalidation", "cache-invalidation"},
		{"  spaces   everywhere ", "spaces-everywhere"},
		{"Queues & Brokers", "queues-brokers"},
		{"p99 latency", "p99-latency"},
		{"---", ""},
		{"", ""},
	}

	for _, c := range cases {
		if got := Slugify(c.in); got != c.want {
			t.Errorf("Slugify(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestHeadingAnchor(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Self-check", "self-check"},
		{"What to read next", "what-to-read-next"},
		{"CAP: pick two?", "cap-pick-two"},
		{"latency_numbers", "latency_numbers"},
		{"P99 (tail) latency", "p99-tail-latency"},
	}

	for _, c := range cases {
		if got := HeadingAnchor(c.in); got != c.want {
			t.Errorf("HeadingAnchor(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestParseLessonName_RoundTrip(t *testing.T) {
	name := LessonFileName(42, "Consistent Hashing")
	n, slug, ok := ParseLessonName(name)
	if !ok {
		t.Fatalf("expected generated name %q to parse", name)
	}
	if n != 42 || slug != "consistent-hashing" {
		t.Fatalf("round trip = (%d, %q)", n, slug)
	}
}
