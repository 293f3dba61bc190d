package repository

import (
	"github.com/jackc/pgx/v5/pgxpool"

	sqlcgen "github.com/gokatarajesh/trivia-api/internal/db/sqlc"
	"github.com/gokatarajesh/trivia-api/internal/question"
)

// Store is the Postgres-backed question.Store.
type Store struct {
	*CategoryRepository
	*QuestionRepository
}

var _ question.Store = (*Store)(nil)

// NewStore builds the repositories over a single sqlc Queries value.
func NewStore(queries *sqlcgen.Queries) *Store {
	return &Store{
		CategoryRepository: NewCategoryRepository(queries),
		QuestionRepository: NewQuestionRepository(queries),
	}
}

// NewPoolStore wires sqlc queries to a pgx pool.
func NewPoolStore(pool *pgxpool.Pool) *Store {
	return NewStore(sqlcgen.New(pool))
}
