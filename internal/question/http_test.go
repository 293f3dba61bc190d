package question_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gokatarajesh/trivia-api/internal/db/memory"
	"github.com/gokatarajesh/trivia-api/internal/question"
)

type listResponse struct {
	Success         bool                `json:"success"`
	Questions       []question.Question `json:"questions"`
	TotalQuestions  int                 `json:"total_questions"`
	CurrentCategory *int64              `json:"current_category"`
	Created         int64               `json:"created"`
	Deleted         int64               `json:"deleted"`
}

type categoriesResponse struct {
	Success         bool                `json:"success"`
	Categories      []question.Category `json:"categories"`
	TotalCategories int                 `json:"total_categories"`
}

type quizResponse struct {
	Success  bool               `json:"success"`
	Question *question.Question `json:"question"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   int    `json:"error"`
	Message string `json:"message"`
}

func newServer(t *testing.T, store question.Store) *httptest.Server {
	t.Helper()
	svc := question.NewService(store, question.ServiceOptions{PageSize: 10, Picker: question.NewSeededPicker(1)}, zerolog.Nop())
	handlers := question.NewHTTPHandlers(svc, zerolog.Nop())

	mux := http.NewServeMux()
	handlers.Register(mux)
	mux.HandleFunc("/", handlers.NotFound)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// scienceStore holds categories Science and Art and 12 science questions, ids 1-12.
func scienceStore() *memory.Store {
	store := memory.NewStore(question.Category{ID: 1, Type: "Science"}, question.Category{ID: 2, Type: "Art"})
	for i := int64(1); i <= 12; i++ {
		store.Seed(question.Question{ID: i, Text: fmt.Sprintf("Science question %d", i), Answer: "A", Difficulty: 1, Category: 1})
	}
	return store
}

func do(t *testing.T, srv *httptest.Server, method, path string, body interface{}) *http.Response {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, srv.URL+path, reader)
	require.NoError(t, err)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func assertError(t *testing.T, resp *http.Response, status int, message string) {
	t.Helper()
	assert.Equal(t, status, resp.StatusCode)
	body := decode[errorResponse](t, resp)
	assert.False(t, body.Success)
	assert.Equal(t, status, body.Error)
	assert.Equal(t, message, body.Message)
}

func ids(qs []question.Question) []int64 {
	out := make([]int64, 0, len(qs))
	for _, q := range qs {
		out = append(out, q.ID)
	}
	return out
}

func TestGetCategories(t *testing.T) {
	srv := newServer(t, scienceStore())

	resp := do(t, srv, http.MethodGet, "/categories", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode[categoriesResponse](t, resp)
	assert.True(t, body.Success)
	assert.Equal(t, 2, body.TotalCategories)
	assert.Equal(t, []question.Category{{ID: 1, Type: "Science"}, {ID: 2, Type: "Art"}}, body.Categories)
}

func TestGetCategoriesEmpty(t *testing.T) {
	srv := newServer(t, memory.NewStore())

	assertError(t, do(t, srv, http.MethodGet, "/categories", nil), http.StatusNotFound, "resource not found")
}

func TestCategoriesMethodNotAllowed(t *testing.T) {
	srv := newServer(t, scienceStore())

	assertError(t, do(t, srv, http.MethodPost, "/categories", nil), http.StatusMethodNotAllowed, "method not allowed")
}

func TestGetQuestionsPages(t *testing.T) {
	srv := newServer(t, scienceStore())

	first := decode[listResponse](t, do(t, srv, http.MethodGet, "/questions", nil))
	assert.True(t, first.Success)
	assert.Len(t, first.Questions, 10)
	assert.Equal(t, int64(1), first.Questions[0].ID)
	assert.Equal(t, 12, first.TotalQuestions)

	resp := do(t, srv, http.MethodGet, "/questions?page=2", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	second := decode[listResponse](t, resp)
	assert.Equal(t, []int64{11, 12}, ids(second.Questions))
	assert.Equal(t, 12, second.TotalQuestions)

	assertError(t, do(t, srv, http.MethodGet, "/questions?page=3", nil), http.StatusNotFound, "resource not found")
}

func TestGetQuestionsBadPage(t *testing.T) {
	srv := newServer(t, scienceStore())

	for _, page := range []string{"abc", "0", "-2", "1.5"} {
		assertError(t, do(t, srv, http.MethodGet, "/questions?page="+page, nil), http.StatusBadRequest, "bad request")
	}
}

func TestCreateQuestion(t *testing.T) {
	store := scienceStore()
	srv := newServer(t, store)

	payload := map[string]interface{}{
		"question":   "What movie earned Tom Hanks his third straight Oscar nomination, in 1996?",
		"answer":     "Apollo 13",
		"difficulty": 1,
		"category":   "2",
	}
	resp := do(t, srv, http.MethodPost, "/questions?page=2", payload)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode[listResponse](t, resp)
	assert.True(t, body.Success)
	assert.Equal(t, int64(13), body.Created)
	assert.Equal(t, 13, body.TotalQuestions)
	assert.Equal(t, []int64{11, 12, 13}, ids(body.Questions))
	assert.Equal(t, int64(2), body.Questions[2].Category)

	art, err := store.ListQuestionsByCategory(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, art, 1)
	assert.Equal(t, "Apollo 13", art[0].Answer)
}

func TestCreateQuestionMissingText(t *testing.T) {
	srv := newServer(t, scienceStore())

	for _, payload := range []interface{}{
		map[string]interface{}{"question": nil, "answer": "Apollo 13", "difficulty": 1, "category": 1},
		map[string]interface{}{"answer": "Apollo 13"},
		"null",
	} {
		assertError(t, do(t, srv, http.MethodPost, "/questions", payload), http.StatusUnprocessableEntity, "unprocessable")
	}
}

func TestCreateQuestionMalformedJSON(t *testing.T) {
	srv := newServer(t, scienceStore())

	assertError(t, do(t, srv, http.MethodPost, "/questions", `{"question":`), http.StatusBadRequest, "bad request")
}

func TestCreateQuestionUnusableValues(t *testing.T) {
	cases := map[string]string{
		"difficulty not a number":    `{"question":"Q?","answer":"A","difficulty":"easy","category":1}`,
		"category not a number":      `{"question":"Q?","answer":"A","difficulty":1,"category":"science"}`,
		"difficulty beyond int32":    `{"question":"Q?","answer":"A","difficulty":4294967299,"category":1}`,
		"category beyond int64":      `{"question":"Q?","answer":"A","difficulty":1,"category":1e300}`,
		"question of the wrong type": `{"question":5}`,
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			store := scienceStore()
			srv := newServer(t, store)

			assertError(t, do(t, srv, http.MethodPost, "/questions", payload), http.StatusUnprocessableEntity, "unprocessable")

			all, err := store.ListQuestions(context.Background())
			require.NoError(t, err)
			assert.Len(t, all, 12)
		})
	}
}

type failingInsertStore struct {
	*memory.Store
}

func (failingInsertStore) InsertQuestion(context.Context, question.NewQuestion) (question.Question, error) {
	return question.Question{}, errors.New("constraint violation")
}

func TestCreateQuestionStoreFailure(t *testing.T) {
	srv := newServer(t, failingInsertStore{scienceStore()})

	resp := do(t, srv, http.MethodPost, "/questions", map[string]interface{}{"question": "Q?"})
	assertError(t, resp, http.StatusUnprocessableEntity, "unprocessable")
}

func TestDeleteQuestionTwice(t *testing.T) {
	store := scienceStore()
	srv := newServer(t, store)

	resp := do(t, srv, http.MethodDelete, "/questions/10", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[listResponse](t, resp)
	assert.True(t, body.Success)
	assert.Equal(t, int64(10), body.Deleted)
	assert.Equal(t, 11, body.TotalQuestions)
	assert.NotContains(t, ids(body.Questions), int64(10))

	assertError(t, do(t, srv, http.MethodDelete, "/questions/10", nil), http.StatusUnprocessableEntity, "unprocessable")
	assertError(t, do(t, srv, http.MethodDelete, "/questions/99999", nil), http.StatusUnprocessableEntity, "unprocessable")
}

func TestDeleteQuestionRoutes(t *testing.T) {
	srv := newServer(t, scienceStore())

	assertError(t, do(t, srv, http.MethodDelete, "/questions/abc", nil), http.StatusNotFound, "resource not found")
	assertError(t, do(t, srv, http.MethodGet, "/questions/1", nil), http.StatusMethodNotAllowed, "method not allowed")
}

func TestSearchQuestions(t *testing.T) {
	store := scienceStore()
	store.Seed(question.Question{ID: 20, Text: "What movie EARNED Tom Hanks an Oscar?", Answer: "Apollo 13", Category: 5})
	srv := newServer(t, store)

	resp := do(t, srv, http.MethodPost, "/questions/search", map[string]string{"search_term": "earned"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[listResponse](t, resp)
	assert.Equal(t, []int64{20}, ids(body.Questions))
	assert.Equal(t, 1, body.TotalQuestions)

	assertError(t, do(t, srv, http.MethodPost, "/questions/search", map[string]string{"search_term": "earnedearnedearned"}),
		http.StatusNotFound, "resource not found")
}

func TestSearchEmptyTermMatchesAll(t *testing.T) {
	srv := newServer(t, scienceStore())

	body := decode[listResponse](t, do(t, srv, http.MethodPost, "/questions/search", map[string]string{"search_term": ""}))
	assert.Equal(t, 12, body.TotalQuestions)

	body = decode[listResponse](t, do(t, srv, http.MethodPost, "/questions/search", nil))
	assert.Equal(t, 12, body.TotalQuestions)
}

func TestSearchMethodNotAllowed(t *testing.T) {
	srv := newServer(t, scienceStore())

	assertError(t, do(t, srv, http.MethodGet, "/questions/search", nil), http.StatusMethodNotAllowed, "method not allowed")
}

func TestCategoryQuestions(t *testing.T) {
	store := scienceStore()
	store.Seed(question.Question{ID: 30, Text: "Painter of the Mona Lisa?", Answer: "Da Vinci", Category: 2})
	srv := newServer(t, store)

	resp := do(t, srv, http.MethodGet, "/categories/2/questions", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[listResponse](t, resp)
	assert.Equal(t, []int64{30}, ids(body.Questions))
	assert.Equal(t, 1, body.TotalQuestions)
	require.NotNil(t, body.CurrentCategory)
	assert.Equal(t, int64(2), *body.CurrentCategory)

	for _, q := range decode[listResponse](t, do(t, srv, http.MethodGet, "/categories/1/questions", nil)).Questions {
		assert.Equal(t, int64(1), q.Category)
	}

	assertError(t, do(t, srv, http.MethodGet, "/categories/9/questions", nil), http.StatusNotFound, "resource not found")
	assertError(t, do(t, srv, http.MethodGet, "/categories/science/questions", nil), http.StatusNotFound, "resource not found")
}

func TestQuizSingleQuestionInCategory(t *testing.T) {
	store := memory.NewStore(memory.DefaultCategories...)
	store.Seed(
		question.Question{ID: 49, Text: "Science?", Category: 1},
		question.Question{ID: 50, Text: "Art?", Category: 2},
	)
	srv := newServer(t, store)

	for i := 0; i < 10; i++ {
		resp := do(t, srv, http.MethodPost, "/quizzes", `{"quiz_category":{"id":"2"},"previous_questions":[]}`)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decode[quizResponse](t, resp)
		assert.True(t, body.Success)
		require.NotNil(t, body.Question)
		assert.Equal(t, int64(50), body.Question.ID)
	}
}

func TestQuizExhaustedReturnsNull(t *testing.T) {
	srv := newServer(t, scienceStore())

	previous := make([]int64, 0, 12)
	for i := int64(1); i <= 12; i++ {
		previous = append(previous, i)
	}
	resp := do(t, srv, http.MethodPost, "/quizzes", map[string]interface{}{
		"quiz_category":      map[string]interface{}{"id": 1, "type": "Science"},
		"previous_questions": previous,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["success"])
	assert.Contains(t, body, "question")
	assert.Nil(t, body["question"])
}

func TestQuizWithoutBodyOrCategoryID(t *testing.T) {
	srv := newServer(t, scienceStore())

	cases := []struct {
		payload interface{}
		minID   int64
	}{
		{payload: nil, minID: 1},
		{payload: `{}`, minID: 1},
		{payload: `{"quiz_category":{"type":"click"},"previous_questions":[1,2,3]}`, minID: 4},
	}
	for _, tc := range cases {
		resp := do(t, srv, http.MethodPost, "/quizzes", tc.payload)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decode[quizResponse](t, resp)
		require.NotNil(t, body.Question)
		assert.GreaterOrEqual(t, body.Question.ID, tc.minID)
		assert.Equal(t, int64(1), body.Question.Category)
	}
}

func TestQuizBadInput(t *testing.T) {
	srv := newServer(t, scienceStore())

	assertError(t, do(t, srv, http.MethodPost, "/quizzes", `{"quiz_category":{"id":"art"}}`), http.StatusBadRequest, "bad request")
	assertError(t, do(t, srv, http.MethodPost, "/quizzes", `[1,2]`), http.StatusBadRequest, "bad request")
	assertError(t, do(t, srv, http.MethodGet, "/quizzes", nil), http.StatusMethodNotAllowed, "method not allowed")
}

func TestUnknownRoute(t *testing.T) {
	srv := newServer(t, scienceStore())

	assertError(t, do(t, srv, http.MethodGet, "/nope", nil), http.StatusNotFound, "resource not found")
}
