package question

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/gokatarajesh/trivia-api/internal/question/external"
)

type opentdbProvider interface {
	Fetch(ctx context.Context, q external.OpenTDBQuery) ([]external.OpenTDBQuestion, error)
}

type triviaProvider interface {
	Fetch(ctx context.Context, q external.TriviaAPIQuery) ([]external.TriviaAPIQuestion, error)
}

// ImportRequest describes a bulk import into one local category.
type ImportRequest struct {
	CategoryID int64
	Amount     int
	Difficulty string // easy, medium or hard; empty for any
	// OpenTDBCategory and TriviaAPICategory narrow the upstream request.
	OpenTDBCategory   int
	TriviaAPICategory string
}

// ImportResult lists what was stored.
type ImportResult struct {
	Imported []Question
	Skipped  int
}

// Importer fills the bank from external trivia APIs: OpenTDB first, then the Trivia API
// for whatever is still missing.
type Importer struct {
	svc     *Service
	opentdb opentdbProvider
	trivia  triviaProvider
}

func NewImporter(svc *Service, opentdb opentdbProvider, trivia triviaProvider) *Importer {
	return &Importer{svc: svc, opentdb: opentdb, trivia: trivia}
}

// Import fetches up to req.Amount questions and inserts them into req.CategoryID.
func (i *Importer) Import(ctx context.Context, req ImportRequest) (ImportResult, error) {
	if req.Amount <= 0 {
		return ImportResult{}, fmt.Errorf("import amount must be positive, got %d", req.Amount)
	}

	pending, err := i.fetch(ctx, req)
	if err != nil {
		return ImportResult{}, err
	}

	var result ImportResult
	for _, in := range pending {
		if strings.TrimSpace(in.Text) == "" || strings.TrimSpace(in.Answer) == "" {
			result.Skipped++
			continue
		}
		created, err := i.svc.insert(ctx, in)
		if err != nil {
			return result, err
		}
		result.Imported = append(result.Imported, created)
	}
	i.svc.logger.Info().
		Int64("category", req.CategoryID).
		Int("imported", len(result.Imported)).
		Int("skipped", result.Skipped).
		Msg("questions imported")
	return result, nil
}

func (i *Importer) fetch(ctx context.Context, req ImportRequest) ([]NewQuestion, error) {
	var (
		combined []NewQuestion
		lastErr  error
	)
	if i.opentdb != nil {
		ot, err := i.opentdb.Fetch(ctx, external.OpenTDBQuery{
			Amount:     req.Amount,
			Category:   req.OpenTDBCategory,
			Difficulty: req.Difficulty,
		})
		if err != nil {
			i.svc.logger.Warn().Err(err).Msg("opentdb fetch failed")
			lastErr = err
		}
		for _, q := range ot {
			combined = append(combined, normalizeOpenTDB(q, req.CategoryID))
		}
	}
	if i.trivia != nil && len(combined) < req.Amount {
		tv, err := i.trivia.Fetch(ctx, external.TriviaAPIQuery{
			Limit:      req.Amount - len(combined),
			Category:   req.TriviaAPICategory,
			Difficulty: req.Difficulty,
		})
		if err != nil {
			i.svc.logger.Warn().Err(err).Msg("triviaapi fetch failed")
			lastErr = err
		}
		for _, q := range tv {
			combined = append(combined, normalizeTriviaAPI(q, req.CategoryID))
		}
	}
	if len(combined) == 0 && lastErr != nil {
		return nil, fmt.Errorf("fetch external questions: %w", lastErr)
	}
	if len(combined) > req.Amount {
		combined = combined[:req.Amount]
	}
	return combined, nil
}

func normalizeOpenTDB(q external.OpenTDBQuestion, category int64) NewQuestion {
	return NewQuestion{
		Text:       html.UnescapeString(q.Question),
		Answer:     html.UnescapeString(q.CorrectAnswer),
		Difficulty: difficultyLevel(q.Difficulty),
		Category:   category,
	}
}

func normalizeTriviaAPI(q external.TriviaAPIQuestion, category int64) NewQuestion {
	return NewQuestion{
		Text:       q.Question,
		Answer:     q.Correct,
		Difficulty: difficultyLevel(q.Difficulty),
		Category:   category,
	}
}

// difficultyLevel maps upstream difficulty names onto the bank's 1-5 scale.
func difficultyLevel(d string) int {
	switch strings.ToLower(d) {
	case "medium":
		return 2
	case "hard":
		return 3
	default:
		return 1
	}
}
