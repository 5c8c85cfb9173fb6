package recommend

import "sort"

const (
	// DefaultMax is the number of ranked projects returned when the caller gives none.
	DefaultMax = 5
	// defaultPickCount is fixed and independent of the caller's max.
	defaultPickCount = 4
)

type scoredProject struct {
	project Project
	score   float64
}

// Rank returns up to limit projects with a positive score, best first. Ties keep
// catalog order. A nil result means nothing matched.
func Rank(projects []Project, tokens []string, limit int) []Project {
	if len(tokens) == 0 {
		return nil
	}
	if limit <= 0 {
		limit = DefaultMax
	}

	scored := make([]scoredProject, 0, len(projects))
	for _, p := range projects {
		if s := Score(tokens, p); s > 0 {
			scored = append(scored, scoredProject{project: p, score: s})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	if len(scored) > limit {
		scored = scored[:limit]
	}

	top := make([]Project, 0, len(scored))
	for _, s := range scored {
		top = append(top, s.project)
	}
	if len(top) == 0 {
		return nil
	}
	return top
}

// DefaultPicks favors live demos, then richer stacks, and returns at most four
// projects. The input slice is not modified.
func DefaultPicks(projects []Project) []Project {
	picks := make([]Project, len(projects))
	copy(picks, projects)

	sort.SliceStable(picks, func(i, j int) bool {
		a, b := picks[i], picks[j]
		if a.HasLiveDemo() != b.HasLiveDemo() {
			return a.HasLiveDemo()
		}
		return len(a.Tags) > len(b.Tags)
	})

	if len(picks) > defaultPickCount {
		picks = picks[:defaultPickCount]
	}
	return picks
}
