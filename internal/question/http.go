package question

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/trivia-api/internal/logging"
	httperrors "github.com/gokatarajesh/trivia-api/pkg/http/errors"
)

// HTTPHandlers exposes the question bank over REST.
type HTTPHandlers struct {
	svc    *Service
	logger zerolog.Logger
}

// NewHTTPHandlers creates HTTP handlers for the question bank endpoints.
func NewHTTPHandlers(svc *Service, logger zerolog.Logger) *HTTPHandlers {
	return &HTTPHandlers{
		svc:    svc,
		logger: logger.With().Str("component", "question_http").Logger(),
	}
}

// Register mounts the question bank routes on mux. Method checks happen in the
// handlers so wrong verbs get the JSON 405 body.
func (h *HTTPHandlers) Register(mux *http.ServeMux) {
	mux.HandleFunc("/categories", h.Categories)
	mux.HandleFunc("/categories/{id}/questions", h.CategoryQuestions)
	mux.HandleFunc("/questions", h.Questions)
	mux.HandleFunc("/questions/search", h.Search)
	mux.HandleFunc("/questions/{id}", h.Delete)
	mux.HandleFunc("/quizzes", h.Quiz)
}

// CreateRequest is the POST /questions payload. Question is a pointer so a missing
// or null value can be told apart from an empty string.
type CreateRequest struct {
	Question   *string     `json:"question"`
	Answer     *string     `json:"answer"`
	Difficulty FlexibleInt `json:"difficulty"`
	Category   FlexibleInt `json:"category"`
}

type searchRequest struct {
	SearchTerm string `json:"search_term"`
}

// Categories handles GET /categories
func (h *HTTPHandlers) Categories(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httperrors.RespondMethodNotAllowed(w)
		return
	}

	categories, err := h.svc.Categories(r.Context())
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	if len(categories) == 0 {
		httperrors.RespondNotFound(w)
		return
	}

	writeJSON(w, map[string]interface{}{
		"success":          true,
		"categories":       categories,
		"total_categories": len(categories),
	})
}

// Questions handles GET /questions (listing) and POST /questions (create).
func (h *HTTPHandlers) Questions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listQuestions(w, r)
	case http.MethodPost:
		h.createQuestion(w, r)
	default:
		httperrors.RespondMethodNotAllowed(w)
	}
}

func (h *HTTPHandlers) listQuestions(w http.ResponseWriter, r *http.Request) {
	page, ok := pageParam(w, r)
	if !ok {
		return
	}

	result, err := h.svc.Questions(r.Context(), page)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	if len(result.Questions) == 0 {
		httperrors.RespondNotFound(w)
		return
	}

	writeJSON(w, map[string]interface{}{
		"success":         true,
		"questions":       result.Questions,
		"total_questions": result.Total,
	})
}

func (h *HTTPHandlers) createQuestion(w http.ResponseWriter, r *http.Request) {
	page, ok := pageParam(w, r)
	if !ok {
		return
	}

	var req CreateRequest
	if err := decodeBody(r, &req); err != nil {
		if malformedJSON(err) {
			httperrors.RespondBadRequest(w)
			return
		}
		h.log(r).Warn().Err(err).Msg("create question rejected")
		httperrors.RespondUnprocessable(w)
		return
	}
	if req.Question == nil {
		httperrors.RespondUnprocessable(w)
		return
	}

	in := NewQuestion{
		Text:       *req.Question,
		Difficulty: int(req.Difficulty.Value),
		Category:   req.Category.Value,
	}
	if req.Answer != nil {
		in.Answer = *req.Answer
	}

	created, listing, err := h.svc.CreateQuestion(r.Context(), in, page)
	if err != nil {
		h.log(r).Warn().Err(err).Msg("create question failed")
		httperrors.RespondUnprocessable(w)
		return
	}

	writeJSON(w, map[string]interface{}{
		"success":         true,
		"created":         created.ID,
		"questions":       listing.Questions,
		"total_questions": listing.Total,
	})
}

// Delete handles DELETE /questions/{id}
func (h *HTTPHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		httperrors.RespondMethodNotAllowed(w)
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	page, ok := pageParam(w, r)
	if !ok {
		return
	}

	listing, err := h.svc.DeleteQuestion(r.Context(), id, page)
	if err != nil {
		logger := h.log(r)
		if errors.Is(err, ErrQuestionNotFound) {
			logger.Info().Int64("question_id", id).Msg("delete of unknown question")
		} else {
			logger.Error().Err(err).Int64("question_id", id).Msg("delete question failed")
		}
		httperrors.RespondUnprocessable(w)
		return
	}

	writeJSON(w, map[string]interface{}{
		"success":         true,
		"deleted":         id,
		"questions":       listing.Questions,
		"total_questions": listing.Total,
	})
}

// Search handles POST /questions/search
func (h *HTTPHandlers) Search(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httperrors.RespondMethodNotAllowed(w)
		return
	}
	page, ok := pageParam(w, r)
	if !ok {
		return
	}

	var req searchRequest
	if err := decodeBody(r, &req); err != nil {
		httperrors.RespondBadRequest(w)
		return
	}

	result, err := h.svc.SearchQuestions(r.Context(), req.SearchTerm, page)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	if len(result.Questions) == 0 {
		httperrors.RespondNotFound(w)
		return
	}

	writeJSON(w, map[string]interface{}{
		"success":         true,
		"questions":       result.Questions,
		"total_questions": result.Total,
	})
}

// CategoryQuestions handles GET /categories/{id}/questions
func (h *HTTPHandlers) CategoryQuestions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httperrors.RespondMethodNotAllowed(w)
		return
	}
	categoryID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	page, ok := pageParam(w, r)
	if !ok {
		return
	}

	result, err := h.svc.QuestionsByCategory(r.Context(), categoryID, page)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	if len(result.Questions) == 0 {
		httperrors.RespondNotFound(w)
		return
	}

	writeJSON(w, map[string]interface{}{
		"success":          true,
		"questions":        result.Questions,
		"total_questions":  result.Total,
		"current_category": categoryID,
	})
}

// Quiz handles POST /quizzes. An exhausted category is a success with a null question.
func (h *HTTPHandlers) Quiz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httperrors.RespondMethodNotAllowed(w)
		return
	}

	var req QuizRequest
	if err := decodeBody(r, &req); err != nil {
		httperrors.RespondBadRequest(w)
		return
	}

	q, err := h.svc.NextQuizQuestion(r.Context(), req)
	if err != nil {
		h.internalError(w, r, err)
		return
	}

	writeJSON(w, map[string]interface{}{
		"success":  true,
		"question": q,
	})
}

// NotFound answers every unrouted path.
func (h *HTTPHandlers) NotFound(w http.ResponseWriter, r *http.Request) {
	httperrors.RespondNotFound(w)
}

func (h *HTTPHandlers) log(r *http.Request) *zerolog.Logger {
	logger := logging.FromContextOr(r.Context(), h.logger)
	return &logger
}

func (h *HTTPHandlers) internalError(w http.ResponseWriter, r *http.Request, err error) {
	h.log(r).Error().Err(err).Str("path", r.URL.Path).Msg("question store failure")
	httperrors.RespondInternalError(w)
}

// pageParam reads ?page, defaulting to 1. Anything that is not a positive integer is a 400.
func pageParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("page")
	if raw == "" {
		return 1, true
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		httperrors.RespondBadRequest(w)
		return 0, false
	}
	return page, true
}

// pathID parses an integer path value. Non-integers do not match the route, so they are 404s.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id < 0 {
		httperrors.RespondNotFound(w)
		return 0, false
	}
	return id, true
}

// decodeBody decodes a JSON body. An empty body leaves dst untouched.
func decodeBody(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// malformedJSON separates syntax errors from well-formed bodies with unusable values.
func malformedJSON(err error) bool {
	var syntaxErr *json.SyntaxError
	return errors.As(err, &syntaxErr) || errors.Is(err, io.ErrUnexpectedEOF)
}

func writeJSON(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}
