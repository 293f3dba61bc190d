package question

import (
	"math/rand/v2"
	"sync"
)

// Picker draws a uniform index in [0, n). n is always positive when called.
type Picker interface {
	IntN(n int) int
}

type entropyPicker struct{}

func (entropyPicker) IntN(n int) int { return rand.IntN(n) }

// NewPicker returns a picker backed by the runtime's randomly seeded generator.
func NewPicker() Picker {
	return entropyPicker{}
}

type seededPicker struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSeededPicker returns a deterministic picker. Safe for concurrent use.
func NewSeededPicker(seed uint64) Picker {
	return &seededPicker{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (p *seededPicker) IntN(n int) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rng.IntN(n)
}

// PickerFromSeed returns a seeded picker for non-zero seeds and an entropy picker otherwise.
func PickerFromSeed(seed uint64) Picker {
	if seed == 0 {
		return NewPicker()
	}
	return NewSeededPicker(seed)
}

// FilterQuizCandidates keeps the questions that match the category (if any) and
// whose ids are not in filter.Exclude. Input order is preserved.
func FilterQuizCandidates(questions []Question, filter QuizFilter) []Question {
	var excluded map[int64]struct{}
	if len(filter.Exclude) > 0 {
		excluded = make(map[int64]struct{}, len(filter.Exclude))
		for _, id := range filter.Exclude {
			excluded[id] = struct{}{}
		}
	}

	out := make([]Question, 0, len(questions))
	for _, q := range questions {
		if filter.CategoryID != nil && q.Category != *filter.CategoryID {
			continue
		}
		if _, seen := excluded[q.ID]; seen {
			continue
		}
		out = append(out, q)
	}
	return out
}

// SelectQuizQuestion picks one candidate uniformly at random. It reports false when
// there is nothing left to ask, which ends a quiz session normally.
func SelectQuizQuestion(candidates []Question, picker Picker) (Question, bool) {
	if len(candidates) == 0 {
		return Question{}, false
	}
	if picker == nil {
		picker = NewPicker()
	}
	return candidates[picker.IntN(len(candidates))], true
}
