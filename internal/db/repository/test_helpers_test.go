package repository

import sqlcgen "github.com/gokatarajesh/trivia-api/internal/db/sqlc"

func questionRow(id, category int64) sqlcgen.Question {
	return sqlcgen.Question{
		ID:         id,
		Question:   "Question?",
		Answer:     "Answer",
		Difficulty: 2,
		Category:   category,
	}
}
