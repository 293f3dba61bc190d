package question

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// ErrQuestionNotFound is returned by stores when a question id does not exist.
var ErrQuestionNotFound = errors.New("question not found")

// ErrInvalidQuestion is returned when a new question has a field the store cannot hold.
var ErrInvalidQuestion = errors.New("invalid question")

// Store is the persistence collaborator. Every listing is ordered ascending by id.
// DeleteQuestion must be atomic per record and return ErrQuestionNotFound for absent ids.
type Store interface {
	ListCategories(ctx context.Context) ([]Category, error)
	ListQuestions(ctx context.Context) ([]Question, error)
	ListQuestionsByCategory(ctx context.Context, categoryID int64) ([]Question, error)
	SearchQuestions(ctx context.Context, term string) ([]Question, error)
	ListQuizCandidates(ctx context.Context, filter QuizFilter) ([]Question, error)
	InsertQuestion(ctx context.Context, in NewQuestion) (Question, error)
	DeleteQuestion(ctx context.Context, id int64) error
}

// Notifier is told about successful writes (implemented by the Redis publisher).
type Notifier interface {
	Notify(ctx context.Context, change Change) error
}

// SelectionObserver records quiz selection outcomes (implemented by metrics.HTTP).
type SelectionObserver interface {
	ObserveQuizSelection(found bool)
}

type ServiceOptions struct {
	PageSize int
	Picker   Picker
	Notifier Notifier
	Observer SelectionObserver
}

// Service implements listing, pagination, writes and quiz selection over a Store.
type Service struct {
	store    Store
	pageSize int
	picker   Picker
	notifier Notifier
	observer SelectionObserver
	logger   zerolog.Logger
}

func NewService(store Store, opts ServiceOptions, logger zerolog.Logger) *Service {
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	picker := opts.Picker
	if picker == nil {
		picker = NewPicker()
	}
	return &Service{
		store:    store,
		pageSize: pageSize,
		picker:   picker,
		notifier: opts.Notifier,
		observer: opts.Observer,
		logger:   logger.With().Str("component", "question_service").Logger(),
	}
}

// PageSize reports the configured page size.
func (s *Service) PageSize() int {
	return s.pageSize
}

// Categories returns every category ordered by id.
func (s *Service) Categories(ctx context.Context) ([]Category, error) {
	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// Questions returns one page of all questions.
func (s *Service) Questions(ctx context.Context, page int) (Page, error) {
	all, err := s.store.ListQuestions(ctx)
	if err != nil {
		return Page{}, fmt.Errorf("list questions: %w", err)
	}
	return s.page(all, page), nil
}

// SearchQuestions returns one page of questions whose text contains term, ignoring case.
func (s *Service) SearchQuestions(ctx context.Context, term string, page int) (Page, error) {
	matches, err := s.store.SearchQuestions(ctx, term)
	if err != nil {
		return Page{}, fmt.Errorf("search questions: %w", err)
	}
	return s.page(matches, page), nil
}

// QuestionsByCategory returns one page of the questions in a category.
func (s *Service) QuestionsByCategory(ctx context.Context, categoryID int64, page int) (Page, error) {
	matches, err := s.store.ListQuestionsByCategory(ctx, categoryID)
	if err != nil {
		return Page{}, fmt.Errorf("list questions for category %d: %w", categoryID, err)
	}
	return s.page(matches, page), nil
}

// CreateQuestion inserts a question and returns it with the requested page of all questions.
func (s *Service) CreateQuestion(ctx context.Context, in NewQuestion, page int) (Question, Page, error) {
	created, err := s.insert(ctx, in)
	if err != nil {
		return Question{}, Page{}, err
	}

	listing, err := s.Questions(ctx, page)
	if err != nil {
		return Question{}, Page{}, err
	}
	return created, listing, nil
}

// DeleteQuestion removes a question and returns the requested page of the remaining ones.
// Deleting an absent id fails with ErrQuestionNotFound.
func (s *Service) DeleteQuestion(ctx context.Context, id int64, page int) (Page, error) {
	if err := s.store.DeleteQuestion(ctx, id); err != nil {
		return Page{}, fmt.Errorf("delete question %d: %w", id, err)
	}
	s.notify(ctx, Change{Kind: ChangeDeleted, QuestionID: id})

	return s.Questions(ctx, page)
}

// NextQuizQuestion picks a random unseen question. A nil question with a nil error
// means the candidate set is exhausted.
func (s *Service) NextQuizQuestion(ctx context.Context, req QuizRequest) (*Question, error) {
	candidates, err := s.store.ListQuizCandidates(ctx, req.Filter())
	if err != nil {
		return nil, fmt.Errorf("list quiz candidates: %w", err)
	}

	q, ok := SelectQuizQuestion(candidates, s.picker)
	if s.observer != nil {
		s.observer.ObserveQuizSelection(ok)
	}
	if !ok {
		return nil, nil
	}
	return &q, nil
}

func (s *Service) insert(ctx context.Context, in NewQuestion) (Question, error) {
	if err := in.Validate(); err != nil {
		return Question{}, err
	}
	created, err := s.store.InsertQuestion(ctx, in)
	if err != nil {
		return Question{}, fmt.Errorf("insert question: %w", err)
	}
	s.notify(ctx, Change{Kind: ChangeCreated, QuestionID: created.ID, Question: &created})
	return created, nil
}

func (s *Service) page(items []Question, page int) Page {
	return Page{
		Questions: Paginate(items, page, s.pageSize),
		Total:     len(items),
	}
}

func (s *Service) notify(ctx context.Context, change Change) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, change); err != nil {
		s.logger.Warn().Err(err).
			Str("kind", change.Kind).
			Int64("question_id", change.QuestionID).
			Msg("change notification failed")
	}
}
