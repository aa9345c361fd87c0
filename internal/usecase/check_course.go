package usecase

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/avin/lectern/internal/domain"
	"github.com/avin/lectern/internal/ports"
	"golang.org/x/sync/errgroup"
)

// externalProbeConcurrency caps parallel link probes so a check never
// hammers third-party hosts.
const externalProbeConcurrency = 8

type CheckCourse struct {
	courses ports.CourseLoader
	files   ports.CourseFiles
	prober  ports.LinkProber
}

type CheckOption func(*CheckCourse)

// WithLinkProber enables external link probing when the config asks for it.
func WithLinkProber(p ports.LinkProber) CheckOption {
	return func(uc *CheckCourse) {
		if p != nil {
			uc.prober = p
		}
	}
}

func NewCheckCourse(cl ports.CourseLoader, cf ports.CourseFiles, opts ...CheckOption) *CheckCourse {
	uc := &CheckCourse{
		courses: cl,
		files:   cf,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

type CheckParams struct {
	Root   string
	Config domain.Config

	// Strict marks the report so warnings gate the exit code too.
	Strict bool
}

// Execute loads the course and evaluates every integrity rule. Load
// failures (missing index, unparseable TOC) come back as errors; course
// problems come back as findings inside the report.
func (uc *CheckCourse) Execute(ctx context.Context, p CheckParams) (domain.CheckReport, error) {
	started := time.Now()

	course, err := uc.courses.LoadCourse(ctx, p.Root)
	if err != nil {
		return domain.CheckReport{}, err
	}
	if t := p.Config.Course.Title; t != "" {
		course.Title = t
	}

	var findings []domain.Finding
	findings = append(findings, checkTOC(course)...)
	findings = append(findings, checkLessons(course, p.Config.Check.RequireSections)...)
	findings = append(findings, uc.checkLinks(course)...)

	if p.Config.Check.ExternalLinks && uc.prober != nil {
		ext, err := uc.checkExternal(ctx, course)
		if err != nil {
			return domain.CheckReport{}, err
		}
		findings = append(findings, ext...)
	}

	report := domain.CheckReport{
		CourseTitle: course.Title,
		Root:        p.Root,
		Strict:      p.Strict,
		StartedAt:   started,
		FinishedAt:  time.Now(),
		Findings:    findings,
		Summary: domain.CheckSummary{
			Blocks:  len(course.Blocks),
			Lessons: course.LessonCount(),
			Files:   len(course.Files),
		},
	}
	report.Summary.Count(findings)
	return report, nil
}

func checkTOC(course domain.Course) []domain.Finding {
	var out []domain.Finding

	seen := map[int]int{} // lesson number -> line of first use
	prev := 0
	for _, ref := range course.Refs() {
		if ref.Target == "" {
			msg := "table of contents entry has no link"
			if ref.Title != "" {
				msg = fmt.Sprintf("table of contents entry %q has no link", ref.Title)
			}
			out = append(out, failure(domain.RuleEntryShape, course.IndexPath, ref.Line, msg))
			continue
		}

		tp := domain.StripFragment(ref.Target)
		if _, ok := course.FileByPath(tp); !ok {
			out = append(out, failure(domain.RuleTargetExists, course.IndexPath, ref.Line,
				fmt.Sprintf("target %s does not exist", tp)))
		}

		if ref.Number == 0 {
			continue
		}
		if first, dup := seen[ref.Number]; dup {
			out = append(out, failure(domain.RuleNumberUnique, course.IndexPath, ref.Line,
				fmt.Sprintf("lesson number %02d already used on line %d", ref.Number, first)))
		} else {
			seen[ref.Number] = ref.Line
		}

		if prev > 0 && ref.Number < prev {
			out = append(out, failure(domain.RuleBlockOrder, course.IndexPath, ref.Line,
				fmt.Sprintf("lesson %02d breaks ascending order after %02d", ref.Number, prev)))
		}
		prev = ref.Number
	}

	return append(out, checkContiguous(course.IndexPath, seen)...)
}

// checkContiguous reports gaps in 1..max as ranges so one renumbering
// mistake does not flood the report.
func checkContiguous(indexPath string, seen map[int]int) []domain.Finding {
	maxN := 0
	for n := range seen {
		if n > maxN {
			maxN = n
		}
	}

	var out []domain.Finding
	for n := 1; n <= maxN; n++ {
		if _, ok := seen[n]; ok {
			continue
		}
		from := n
		for n+1 <= maxN {
			if _, ok := seen[n+1]; ok {
				break
			}
			n++
		}
		msg := fmt.Sprintf("missing lesson number %02d", from)
		if n > from {
			msg = fmt.Sprintf("missing lesson numbers %02d-%02d", from, n)
		}
		out = append(out, failure(domain.RuleNumberContiguous, indexPath, 0, msg))
	}
	return out
}

func checkLessons(course domain.Course, requireSections bool) []domain.Finding {
	refByTarget := map[string]domain.LessonRef{}
	for _, ref := range course.Refs() {
		if ref.Target != "" {
			refByTarget[domain.StripFragment(ref.Target)] = ref
		}
	}

	var out []domain.Finding
	for _, f := range course.Files {
		ref, referenced := refByTarget[f.Path]

		if f.Number == 0 {
			out = append(out, warning(domain.RuleNameConvention, f.Path, 0,
				fmt.Sprintf("file name %q does not follow NN-kebab-slug.md", f.Name)))
		}
		if !referenced {
			out = append(out, warning(domain.RuleOrphanFile, f.Path, 0,
				"not referenced by the table of contents"))
		}

		if f.Empty {
			out = append(out, failure(domain.RuleLessonNonEmpty, f.Path, 0, "lesson body is empty"))
			continue
		}
		if len(f.Headings) == 0 {
			out = append(out, failure(domain.RuleLessonHeading, f.Path, 0, "lesson has no headings"))
		}

		if referenced {
			if f.Title != "" && ref.Title != f.Title {
				out = append(out, warning(domain.RuleTitleMismatch, course.IndexPath, ref.Line,
					fmt.Sprintf("link text %q differs from lesson title %q", ref.Title, f.Title)))
			}
			if f.Meta.Draft {
				out = append(out, warning(domain.RuleDraft, course.IndexPath, ref.Line,
					fmt.Sprintf("draft lesson %s is referenced by the table of contents", f.Path)))
			}
		}

		if requireSections {
			if !f.HasWhatToReadNext {
				out = append(out, warning(domain.RuleSections, f.Path, 0,
					`missing "What to read next" section`))
			}
			if !f.HasSelfCheck {
				out = append(out, warning(domain.RuleSections, f.Path, 0,
					`missing "Self-check" section`))
			}
		}
	}
	return out
}

func (uc *CheckCourse) checkLinks(course domain.Course) []domain.Finding {
	anchors := make(map[string]map[string]bool, len(course.Files))
	for _, f := range course.Files {
		set := make(map[string]bool, len(f.Headings))
		for _, h := range f.Headings {
			set[h.Anchor] = true
		}
		anchors[f.Path] = set
	}

	var out []domain.Finding
	for _, f := range course.Files {
		for _, l := range f.Links {
			switch l.Kind {
			case domain.LinkAnchor:
				frag := strings.TrimPrefix(l.Target, "#")
				if frag == "" || anchors[f.Path][frag] {
					continue
				}
				out = append(out, warning(domain.RuleLinkAnchor, f.Path, l.Line,
					fmt.Sprintf("anchor #%s not found in this file", frag)))

			case domain.LinkRelative:
				out = append(out, uc.checkRelativeLink(course, anchors, f, l)...)
			}
		}
	}
	return out
}

func (uc *CheckCourse) checkRelativeLink(course domain.Course, anchors map[string]map[string]bool, f domain.LessonFile, l domain.Link) []domain.Finding {
	target := domain.StripFragment(l.Target)
	frag := strings.TrimPrefix(l.Target[len(target):], "#")

	resolved := path.Clean(path.Join(path.Dir(f.Path), target))
	if resolved == ".." || strings.HasPrefix(resolved, "../") {
		return []domain.Finding{warning(domain.RuleLinkTarget, f.Path, l.Line,
			fmt.Sprintf("target %s points outside the course", l.Target))}
	}

	if set, ok := anchors[resolved]; ok {
		if frag != "" && !set[frag] {
			return []domain.Finding{warning(domain.RuleLinkAnchor, f.Path, l.Line,
				fmt.Sprintf("anchor #%s not found in %s", frag, resolved))}
		}
		return nil
	}

	if uc.files.Exists(course.Root, resolved) {
		// Reachable, but not a parsed lesson (index file, image,
		// attachment): fragments cannot be verified, so they pass.
		return nil
	}

	return []domain.Finding{warning(domain.RuleLinkTarget, f.Path, l.Line,
		fmt.Sprintf("target %s not found", resolved))}
}

func (uc *CheckCourse) checkExternal(ctx context.Context, course domain.Course) ([]domain.Finding, error) {
	type site struct {
		path string
		line int
	}

	var urls []string
	sites := map[string][]site{}
	for _, f := range course.Files {
		for _, l := range f.Links {
			if l.Kind != domain.LinkExternal {
				continue
			}
			if _, ok := sites[l.Target]; !ok {
				urls = append(urls, l.Target)
			}
			sites[l.Target] = append(sites[l.Target], site{path: f.Path, line: l.Line})
		}
	}
	if len(urls) == 0 {
		return nil, nil
	}

	results := make([]domain.ProbeResult, len(urls))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(externalProbeConcurrency)
	for i, u := range urls {
		i, u := i, u
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = uc.prober.Probe(gctx, u)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []domain.Finding
	for i, u := range urls {
		res := results[i]
		if res.OK() {
			continue
		}
		msg := string(res.Kind)
		if res.Message != "" {
			msg = res.Message
		}
		for _, s := range sites[u] {
			out = append(out, warning(domain.RuleLinkExternal, s.path, s.line,
				fmt.Sprintf("%s: %s", u, msg)))
		}
	}
	return out, nil
}

func failure(rule domain.Rule, path string, line int, msg string) domain.Finding {
	return domain.Finding{Rule: rule, Severity: domain.SeverityError, Path: path, Line: line, Message: msg}
}

func warning(rule domain.Rule, path string, line int, msg string) domain.Finding {
	return domain.Finding{Rule: rule, Severity: domain.SeverityWarning, Path: path, Line: line, Message: msg}
}
