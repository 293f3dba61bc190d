package question

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Question is a single trivia item as stored and as delivered to clients.
type Question struct {
	ID         int64  `json:"id"`
	Text       string `json:"question"`
	Answer     string `json:"answer"`
	Difficulty int    `json:"difficulty"`
	Category   int64  `json:"category"`
}

// Category labels a group of questions. Categories are read-only through the API.
type Category struct {
	ID   int64  `json:"id"`
	Type string `json:"type"`
}

// NewQuestion carries the fields of a question that does not have an id yet.
type NewQuestion struct {
	Text       string
	Answer     string
	Difficulty int
	Category   int64
}

// Validate reports fields that the question columns cannot hold.
func (q NewQuestion) Validate() error {
	if q.Difficulty < math.MinInt32 || q.Difficulty > math.MaxInt32 {
		return fmt.Errorf("%w: difficulty %d out of range", ErrInvalidQuestion, q.Difficulty)
	}
	return nil
}

// Page is one window of an ordered result set plus the size of the whole set.
type Page struct {
	Questions []Question
	Total     int
}

// FlexibleInt is an integer that decodes from a JSON number or from numeric text.
// A JSON null leaves Valid false.
type FlexibleInt struct {
	Value int64
	Valid bool
}

// Int wraps v as a set FlexibleInt.
func Int(v int64) FlexibleInt {
	return FlexibleInt{Value: v, Valid: true}
}

func (f *FlexibleInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = FlexibleInt{}
		return nil
	}

	raw := string(data)
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
	}

	if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
		*f = Int(v)
		return nil
	}
	fv, err := strconv.ParseFloat(raw, 64)
	if err != nil || fv != math.Trunc(fv) || math.IsInf(fv, 0) {
		return fmt.Errorf("question: %q is not an integer", raw)
	}
	if fv < -(1<<63) || fv >= 1<<63 {
		return fmt.Errorf("question: %q is out of range", raw)
	}
	*f = Int(int64(fv))
	return nil
}

func (f FlexibleInt) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatInt(f.Value, 10)), nil
}

// QuizCategory is the category selector sent by quiz clients. Type is informational only.
type QuizCategory struct {
	ID   FlexibleInt `json:"id"`
	Type string      `json:"type,omitempty"`
}

// QuizRequest asks for the next quiz question.
type QuizRequest struct {
	QuizCategory      *QuizCategory `json:"quiz_category"`
	PreviousQuestions []FlexibleInt `json:"previous_questions"`
}

// QuizFilter is the store-level candidate criteria for quiz selection.
// A nil CategoryID makes every category eligible.
type QuizFilter struct {
	CategoryID *int64
	Exclude    []int64
}

// Filter converts the request into store criteria. A missing quiz_category, or one
// without an id, means no category restriction.
func (r QuizRequest) Filter() QuizFilter {
	var filter QuizFilter
	if r.QuizCategory != nil && r.QuizCategory.ID.Valid {
		id := r.QuizCategory.ID.Value
		filter.CategoryID = &id
	}
	for _, prev := range r.PreviousQuestions {
		if prev.Valid {
			filter.Exclude = append(filter.Exclude, prev.Value)
		}
	}
	return filter
}

// Change kinds published after successful writes.
const (
	ChangeCreated = "question_created"
	ChangeDeleted = "question_deleted"
)

// Change describes a write to the question bank.
type Change struct {
	Kind       string    `json:"kind"`
	QuestionID int64     `json:"question_id"`
	Question   *Question `json:"question,omitempty"`
}
