package content

import (
	"github.com/redbox-games/chancellor/internal/entropy"
)

// recencyWindow bounds the trailing corpus used for the recency penalty.
const recencyWindow = 12

// Recency is the bounded trailing record of recently served content ids.
// More recent uses score a higher penalty, so phrasing rotates.
type Recency struct {
	Used []string `json:"used"`
}

// note records a served id, trimming the window.
func (r *Recency) note(id string) {
	r.Used = append(r.Used, id)
	if len(r.Used) > recencyWindow {
		r.Used = r.Used[len(r.Used)-recencyWindow:]
	}
}

// penalty scores an id against the trailing corpus: each appearance counts,
// weighted toward the most recent slots.
func (r *Recency) penalty(id string) float64 {
	score := 0.0
	for i, u := range r.Used {
		if u == id {
			score += 1 + float64(i)/float64(recencyWindow)
		}
	}
	return score
}

// PickHeadline selects the least-recently-used matching headline, breaking
// ties uniformly from the seeded source. Returns nil when nothing matches.
func (t *Table) PickHeadline(facts map[string]float64, rec *Recency, src *entropy.Source) *Headline {
	var matched []Headline
	for _, h := range t.Headlines {
		if matchAll(h.Conditions, facts) {
			matched = append(matched, h)
		}
	}
	idx := pickLRU(ids(matched, func(h Headline) string { return h.ID }), rec, src)
	if idx < 0 {
		return nil
	}
	h := matched[idx]
	rec.note(h.ID)
	return &h
}

// PickQuote selects a matching quote with the same recency policy.
func (t *Table) PickQuote(facts map[string]float64, rec *Recency, src *entropy.Source) *Quote {
	var matched []Quote
	for _, q := range t.Quotes {
		if matchAll(q.Conditions, facts) {
			matched = append(matched, q)
		}
	}
	idx := pickLRU(ids(matched, func(q Quote) string { return q.ID }), rec, src)
	if idx < 0 {
		return nil
	}
	q := matched[idx]
	rec.note(q.ID)
	return &q
}

func matchAll(conds []Condition, facts map[string]float64) bool {
	for _, c := range conds {
		if !c.matches(facts) {
			return false
		}
	}
	return true
}

func ids[T any](items []T, id func(T) string) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = id(it)
	}
	return out
}

// pickLRU scores every candidate by recency penalty, keeps the minimum-score
// set, and breaks ties uniformly at random from the source. Returns -1 for
// an empty candidate list.
func pickLRU(candidates []string, rec *Recency, src *entropy.Source) int {
	if len(candidates) == 0 {
		return -1
	}

	best := rec.penalty(candidates[0])
	minSet := []int{0}
	for i := 1; i < len(candidates); i++ {
		p := rec.penalty(candidates[i])
		switch {
		case p < best:
			best = p
			minSet = minSet[:0]
			minSet = append(minSet, i)
		case p == best:
			minSet = append(minSet, i)
		}
	}

	return minSet[src.Intn(len(minSet))]
}
