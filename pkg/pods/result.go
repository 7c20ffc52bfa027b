package pods

import (
	"strings"
	"time"

	"github.com/matzehuels/podlens/pkg/readme"
)

// Result is everything podlens knows about one pod, repository or document.
type Result struct {
	Name         string                          `json:"name"`
	Version      string                          `json:"version,omitempty"`
	Summary      string                          `json:"summary,omitempty"`
	Homepage     string                          `json:"homepage,omitempty"`
	Repository   string                          `json:"repository,omitempty"` // https://github.com/<owner>/<repo>
	License      string                          `json:"license,omitempty"`
	Platforms    map[string]string               `json:"platforms,omitempty"`
	Stars        int                             `json:"stars,omitempty"`
	Examples     []readme.UsageExample           `json:"examples"`
	Installation readme.InstallationInstructions `json:"installation"`
	Stats        Stats                           `json:"stats"`
	Cached       bool                            `json:"cached"`
	FetchedAt    time.Time                       `json:"fetched_at"`
}

// Stats describe the parse that produced a Result. They always refer to the
// full example list, even after [Result.Limit] or [Result.FilterLanguage].
type Stats struct {
	Examples   int            `json:"examples"`
	ByLanguage map[string]int `json:"by_language,omitempty"`
	HasReadme  bool           `json:"has_readme"`
	ParseTime  time.Duration  `json:"parse_time_ns"`
}

func newStats(examples []readme.UsageExample, hasReadme bool, d time.Duration) Stats {
	s := Stats{Examples: len(examples), HasReadme: hasReadme, ParseTime: d}
	if len(examples) > 0 {
		s.ByLanguage = make(map[string]int)
		for _, ex := range examples {
			s.ByLanguage[ex.Language]++
		}
	}
	return s
}

// clone returns a shallow copy with its own Examples slice, so cached
// results are never mutated by response shaping.
func (r *Result) clone() *Result {
	c := *r
	c.Examples = append(make([]readme.UsageExample, 0, len(r.Examples)), r.Examples...)
	return &c
}

// Limit returns a copy keeping at most n examples. n <= 0 keeps all.
func (r *Result) Limit(n int) *Result {
	c := r.clone()
	if n > 0 && len(c.Examples) > n {
		c.Examples = c.Examples[:n]
	}
	return c
}

// FilterLanguage returns a copy keeping only examples in lang
// (case-insensitive). An empty lang keeps all.
func (r *Result) FilterLanguage(lang string) *Result {
	c := r.clone()
	lang = strings.ToLower(strings.TrimSpace(lang))
	if lang == "" {
		return c
	}
	kept := c.Examples[:0]
	for _, ex := range c.Examples {
		if ex.Language == lang {
			kept = append(kept, ex)
		}
	}
	c.Examples = kept
	return c
}
