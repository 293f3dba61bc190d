package external

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenTDBFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api.php", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("amount"))
		assert.Equal(t, "17", r.URL.Query().Get("category"))
		assert.Equal(t, "easy", r.URL.Query().Get("difficulty"))
		assert.Empty(t, r.URL.Query().Get("type"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"response_code":0,"results":[
			{"category":"Science","type":"multiple","difficulty":"easy","question":"What is H&#039;2O?","correct_answer":"Water","incorrect_answers":["Salt","Iron","Gold"]}
		]}`))
	}))
	defer srv.Close()

	client := NewOpenTDBClient(srv.URL+"/", srv.Client())
	got, err := client.Fetch(context.Background(), OpenTDBQuery{Amount: 2, Category: 17, Difficulty: "easy"})

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Water", got[0].CorrectAnswer)
	assert.Equal(t, []string{"Salt", "Iron", "Gold"}, got[0].IncorrectAnswer)
}

func TestOpenTDBFetchResponseCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"response_code":1,"results":[]}`))
	}))
	defer srv.Close()

	_, err := NewOpenTDBClient(srv.URL, nil).Fetch(context.Background(), OpenTDBQuery{Amount: 50})
	assert.ErrorContains(t, err, "response code 1")

	var codeErr *ResponseCodeError
	require.ErrorAs(t, err, &codeErr)
	assert.Equal(t, 1, codeErr.Code)
}

func TestTriviaAPIFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/questions", r.URL.Path)
		assert.Equal(t, "3", r.URL.Query().Get("limit"))
		assert.Equal(t, "science", r.URL.Query().Get("categories"))
		assert.Equal(t, "key", r.Header.Get("X-API-Key"))
		_, _ = w.Write([]byte(`[{"id":"abc","category":"science","question":"Largest planet?","difficulty":"medium","type":"text_choice","correctAnswer":"Jupiter","incorrectAnswers":["Mars"]}]`))
	}))
	defer srv.Close()

	got, err := NewTriviaAPIClient(srv.URL, "key", nil).Fetch(context.Background(), TriviaAPIQuery{Limit: 3, Category: "science"})

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Jupiter", got[0].Correct)
}

func TestTriviaAPIFetchNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewTriviaAPIClient(srv.URL, "", nil).Fetch(context.Background(), TriviaAPIQuery{Limit: 1})
	assert.ErrorContains(t, err, "non-200: 503")

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, "triviaapi", statusErr.Provider)
	assert.True(t, statusErr.Retryable())
}

func TestStatusErrorRetryable(t *testing.T) {
	cases := map[int]bool{
		http.StatusBadRequest:          false,
		http.StatusNotFound:            false,
		http.StatusTooManyRequests:     true,
		http.StatusInternalServerError: true,
		http.StatusBadGateway:          true,
	}
	for code, want := range cases {
		assert.Equal(t, want, (&StatusError{Provider: "opentdb", Code: code}).Retryable(), code)
	}
}

func TestTriviaAPIOmitsKeyHeaderWhenUnset(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("X-API-Key"))
		assert.Empty(t, r.URL.Query().Get("categories"))
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	got, err := NewTriviaAPIClient(srv.URL, "", nil).Fetch(context.Background(), TriviaAPIQuery{Limit: 5})

	require.NoError(t, err)
	assert.Empty(t, got)
}
