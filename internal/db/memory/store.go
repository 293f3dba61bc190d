// Package memory is a process-local question.Store used for local runs and tests.
package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/gokatarajesh/trivia-api/internal/question"
)

// DefaultCategories mirrors the rows seeded by the SQL migrations.
var DefaultCategories = []question.Category{
	{ID: 1, Type: "Science"},
	{ID: 2, Type: "Art"},
	{ID: 3, Type: "Geography"},
	{ID: 4, Type: "History"},
	{ID: 5, Type: "Entertainment"},
	{ID: 6, Type: "Sports"},
}

// Store keeps categories and questions in maps guarded by a single RWMutex.
type Store struct {
	mu         sync.RWMutex
	categories map[int64]question.Category
	questions  map[int64]question.Question
	nextID     int64
}

var _ question.Store = (*Store)(nil)

// NewStore builds a store holding the given categories and no questions.
func NewStore(categories ...question.Category) *Store {
	s := &Store{
		categories: make(map[int64]question.Category, len(categories)),
		questions:  make(map[int64]question.Question),
		nextID:     1,
	}
	for _, c := range categories {
		s.categories[c.ID] = c
	}
	return s
}

// Seed stores questions with their ids as given. Later inserts get ids above the highest seeded id.
func (s *Store) Seed(questions ...question.Question) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, q := range questions {
		s.questions[q.ID] = q
		if q.ID >= s.nextID {
			s.nextID = q.ID + 1
		}
	}
}

func (s *Store) ListCategories(_ context.Context) ([]question.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]question.Category, 0, len(s.categories))
	for _, c := range s.categories {
		out = append(out, c)
	}
	slices.SortFunc(out, func(a, b question.Category) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

func (s *Store) ListQuestions(_ context.Context) ([]question.Question, error) {
	return s.filter(func(question.Question) bool { return true }), nil
}

func (s *Store) ListQuestionsByCategory(_ context.Context, categoryID int64) ([]question.Question, error) {
	return s.filter(func(q question.Question) bool { return q.Category == categoryID }), nil
}

func (s *Store) SearchQuestions(_ context.Context, term string) ([]question.Question, error) {
	needle := strings.ToLower(term)
	return s.filter(func(q question.Question) bool {
		return strings.Contains(strings.ToLower(q.Text), needle)
	}), nil
}

func (s *Store) ListQuizCandidates(_ context.Context, filter question.QuizFilter) ([]question.Question, error) {
	all := s.filter(func(question.Question) bool { return true })
	return question.FilterQuizCandidates(all, filter), nil
}

func (s *Store) InsertQuestion(_ context.Context, in question.NewQuestion) (question.Question, error) {
	if err := in.Validate(); err != nil {
		return question.Question{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	q := question.Question{
		ID:         s.nextID,
		Text:       in.Text,
		Answer:     in.Answer,
		Difficulty: in.Difficulty,
		Category:   in.Category,
	}
	s.questions[q.ID] = q
	s.nextID++
	return q, nil
}

func (s *Store) DeleteQuestion(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.questions[id]; !ok {
		return question.ErrQuestionNotFound
	}
	delete(s.questions, id)
	return nil
}

// filter returns matching questions ordered by id.
func (s *Store) filter(keep func(question.Question) bool) []question.Question {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]question.Question, 0, len(s.questions))
	for _, q := range s.questions {
		if keep(q) {
			out = append(out, q)
		}
	}
	slices.SortFunc(out, func(a, b question.Question) int { return cmp.Compare(a.ID, b.ID) })
	return out
}
