//go:build integration
// +build integration

package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"
)

type questionJSON struct {
	ID         int64  `json:"id"`
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	Difficulty int    `json:"difficulty"`
	Category   int64  `json:"category"`
}

type listResponse struct {
	Success         bool           `json:"success"`
	Questions       []questionJSON `json:"questions"`
	TotalQuestions  int            `json:"total_questions"`
	CurrentCategory *int64         `json:"current_category"`
	Created         int64          `json:"created"`
	Deleted         int64          `json:"deleted"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   int    `json:"error"`
	Message string `json:"message"`
}

func envOrDefault(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func doJSON(t *testing.T, method, url string, payload interface{}) *http.Response {
	t.Helper()

	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatalf("create request failed: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, url, err)
	}
	return resp
}

func decodeInto(t *testing.T, resp *http.Response, dst interface{}) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		t.Fatalf("decode response failed: %v", err)
	}
}

// createQuestion stores a uniquely worded question and returns its id.
func createQuestion(t *testing.T, baseURL string, category int64, marker string) int64 {
	t.Helper()

	payload := map[string]interface{}{
		"question":   fmt.Sprintf("Integration %s question %d?", marker, time.Now().UnixNano()),
		"answer":     "42",
		"difficulty": 2,
		"category":   category,
	}
	resp := doJSON(t, http.MethodPost, fmt.Sprintf("%s/questions", baseURL), payload)
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		t.Fatalf("unexpected create status: %d", resp.StatusCode)
	}

	var out listResponse
	decodeInto(t, resp, &out)
	if !out.Success || out.Created == 0 {
		t.Fatalf("create response missing id: %+v", out)
	}
	return out.Created
}

func deleteQuestion(t *testing.T, baseURL string, id int64) int {
	t.Helper()
	resp := doJSON(t, http.MethodDelete, fmt.Sprintf("%s/questions/%d", baseURL, id), nil)
	resp.Body.Close()
	return resp.StatusCode
}
