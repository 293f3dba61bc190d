package external

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

const triviaAPIDefaultURL = "https://the-trivia-api.com/api"

// TriviaAPIClient integrates with the-trivia-api.com. The API key is optional.
type TriviaAPIClient struct {
	getter jsonGetter
}

func NewTriviaAPIClient(baseURL, apiKey string, httpClient *http.Client) *TriviaAPIClient {
	getter := newJSONGetter("triviaapi", baseURL, triviaAPIDefaultURL, httpClient)
	if apiKey != "" {
		getter.header.Set("X-API-Key", apiKey)
	}
	return &TriviaAPIClient{getter: getter}
}

type TriviaAPIQuestion struct {
	ID         string   `json:"id"`
	Category   string   `json:"category"`
	Question   string   `json:"question"`
	Difficulty string   `json:"difficulty"`
	Type       string   `json:"type"`
	Correct    string   `json:"correctAnswer"`
	Incorrect  []string `json:"incorrectAnswers"`
}

// TriviaAPIQuery narrows a Trivia API request. Empty strings are omitted.
type TriviaAPIQuery struct {
	Limit      int
	Category   string
	Difficulty string
}

func (q TriviaAPIQuery) values() url.Values {
	values := url.Values{}
	values.Set("limit", strconv.Itoa(q.Limit))
	if q.Category != "" {
		values.Set("categories", q.Category)
	}
	if q.Difficulty != "" {
		values.Set("difficulty", q.Difficulty)
	}
	return values
}

func (c *TriviaAPIClient) Fetch(ctx context.Context, q TriviaAPIQuery) ([]TriviaAPIQuestion, error) {
	var payload []TriviaAPIQuestion
	if err := c.getter.get(ctx, "/questions", q.values().Encode(), &payload); err != nil {
		return nil, err
	}
	return payload, nil
}
