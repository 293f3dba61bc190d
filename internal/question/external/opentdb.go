package external

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

const opentdbDefaultURL = "https://opentdb.com"

// OpenTDBClient fetches questions from the Open Trivia DB (no API key).
type OpenTDBClient struct {
	getter jsonGetter
}

func NewOpenTDBClient(baseURL string, httpClient *http.Client) *OpenTDBClient {
	return &OpenTDBClient{getter: newJSONGetter("opentdb", baseURL, opentdbDefaultURL, httpClient)}
}

// OpenTDBQuestion is one result entry. Text fields are HTML-entity encoded.
type OpenTDBQuestion struct {
	Category        string   `json:"category"`
	Type            string   `json:"type"`
	Difficulty      string   `json:"difficulty"`
	Question        string   `json:"question"`
	CorrectAnswer   string   `json:"correct_answer"`
	IncorrectAnswer []string `json:"incorrect_answers"`
}

type openTDBResponse struct {
	ResponseCode int               `json:"response_code"`
	Results      []OpenTDBQuestion `json:"results"`
}

// OpenTDBQuery narrows an OpenTDB request. Zero values are omitted.
type OpenTDBQuery struct {
	Amount     int
	Category   int
	Difficulty string
	Type       string
}

func (q OpenTDBQuery) values() url.Values {
	values := url.Values{}
	values.Set("amount", strconv.Itoa(q.Amount))
	if q.Category > 0 {
		values.Set("category", strconv.Itoa(q.Category))
	}
	if q.Difficulty != "" {
		values.Set("difficulty", q.Difficulty)
	}
	if q.Type != "" {
		values.Set("type", q.Type)
	}
	return values
}

// ResponseCodeError carries a non-zero OpenTDB response_code.
type ResponseCodeError struct {
	Code int
}

func (e *ResponseCodeError) Error() string {
	return fmt.Sprintf("opentdb response code %d (%s)", e.Code, responseCodeText(e.Code))
}

func responseCodeText(code int) string {
	switch code {
	case 1:
		return "not enough questions for query"
	case 2:
		return "invalid parameter"
	case 3:
		return "session token not found"
	case 4:
		return "session token exhausted"
	case 5:
		return "rate limited"
	default:
		return "unknown"
	}
}

// Fetch returns up to q.Amount questions.
func (c *OpenTDBClient) Fetch(ctx context.Context, q OpenTDBQuery) ([]OpenTDBQuestion, error) {
	var payload openTDBResponse
	if err := c.getter.get(ctx, "/api.php", q.values().Encode(), &payload); err != nil {
		return nil, err
	}
	if payload.ResponseCode != 0 {
		return nil, &ResponseCodeError{Code: payload.ResponseCode}
	}
	return payload.Results, nil
}
