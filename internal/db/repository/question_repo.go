package repository

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"

	sqlcgen "github.com/gokatarajesh/trivia-api/internal/db/sqlc"
	"github.com/gokatarajesh/trivia-api/internal/question"
)

type questionStore interface {
	ListQuestions(ctx context.Context) ([]sqlcgen.Question, error)
	ListQuestionsByCategory(ctx context.Context, category int64) ([]sqlcgen.Question, error)
	SearchQuestions(ctx context.Context, pattern string) ([]sqlcgen.Question, error)
	ListQuizCandidates(ctx context.Context, arg sqlcgen.ListQuizCandidatesParams) ([]sqlcgen.Question, error)
	InsertQuestion(ctx context.Context, arg sqlcgen.InsertQuestionParams) (sqlcgen.Question, error)
	DeleteQuestion(ctx context.Context, id int64) (int64, error)
}

// QuestionRepository wraps sqlc queries for question bank access.
type QuestionRepository struct {
	store questionStore
}

func NewQuestionRepository(store questionStore) *QuestionRepository {
	return &QuestionRepository{store: store}
}

func (r *QuestionRepository) ListQuestions(ctx context.Context) ([]question.Question, error) {
	return toQuestions(r.store.ListQuestions(ctx))
}

func (r *QuestionRepository) ListQuestionsByCategory(ctx context.Context, categoryID int64) ([]question.Question, error) {
	return toQuestions(r.store.ListQuestionsByCategory(ctx, categoryID))
}

// SearchQuestions matches term literally; LIKE wildcards in the term are escaped.
func (r *QuestionRepository) SearchQuestions(ctx context.Context, term string) ([]question.Question, error) {
	return toQuestions(r.store.SearchQuestions(ctx, escapeLike(term)))
}

func (r *QuestionRepository) ListQuizCandidates(ctx context.Context, filter question.QuizFilter) ([]question.Question, error) {
	params := sqlcgen.ListQuizCandidatesParams{
		// pgx encodes a nil slice as NULL, and id = ANY(NULL) filters every row out.
		Excluded: make([]int64, 0, len(filter.Exclude)),
	}
	params.Excluded = append(params.Excluded, filter.Exclude...)
	if filter.CategoryID != nil {
		params.Category = pgtype.Int8{Int64: *filter.CategoryID, Valid: true}
	}
	return toQuestions(r.store.ListQuizCandidates(ctx, params))
}

func (r *QuestionRepository) InsertQuestion(ctx context.Context, in question.NewQuestion) (question.Question, error) {
	if err := in.Validate(); err != nil {
		return question.Question{}, err
	}
	row, err := r.store.InsertQuestion(ctx, sqlcgen.InsertQuestionParams{
		Question:   in.Text,
		Answer:     in.Answer,
		Difficulty: int32(in.Difficulty),
		Category:   in.Category,
	})
	if err != nil {
		return question.Question{}, err
	}
	return toQuestion(row), nil
}

// DeleteQuestion removes one row. Zero affected rows means the id was absent or already gone.
func (r *QuestionRepository) DeleteQuestion(ctx context.Context, id int64) error {
	affected, err := r.store.DeleteQuestion(ctx, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return question.ErrQuestionNotFound
	}
	return nil
}

func toQuestion(row sqlcgen.Question) question.Question {
	return question.Question{
		ID:         row.ID,
		Text:       row.Question,
		Answer:     row.Answer,
		Difficulty: int(row.Difficulty),
		Category:   row.Category,
	}
}

func toQuestions(rows []sqlcgen.Question, err error) ([]question.Question, error) {
	if err != nil {
		return nil, err
	}
	out := make([]question.Question, 0, len(rows))
	for _, row := range rows {
		out = append(out, toQuestion(row))
	}
	return out, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(term string) string {
	return likeEscaper.Replace(term)
}
