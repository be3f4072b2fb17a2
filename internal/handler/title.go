package handler

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/paragraph-titler/internal/evaluator"
	"github.com/iliyamo/paragraph-titler/internal/model"
	"github.com/iliyamo/paragraph-titler/internal/queue"
	"github.com/iliyamo/paragraph-titler/internal/titler"
)

// Defaults and hard bounds for the output token range, matching the
// original API contract.
const (
	defaultMaxLength = 15
	defaultMinLength = 5
	maxLengthCeil    = 50
	minLengthCeil    = 20
)

// TitleHandler bundles the title generation dependencies: the model
// wrapper, the result store and an optional event publisher.  Publish is
// fire-and-forget; a nil value (as in tests) disables publishing.
type TitleHandler struct {
	Gen     titler.Generator
	Results ResultStore
	Publish func(ctx context.Context, ev queue.TitleGeneratedEvent) error
}

func NewTitleHandler(gen titler.Generator, results ResultStore) *TitleHandler {
	if gen == nil || results == nil {
		panic("nil dependency passed to NewTitleHandler")
	}
	return &TitleHandler{Gen: gen, Results: results}
}

// ----- DTOs -----

type generateReq struct {
	Paragraph  string `json:"paragraph"`
	MaxLength  *int   `json:"max_length"`
	MinLength  *int   `json:"min_length"`
	SaveResult *bool  `json:"save_result"`
}

type generateBatchReq struct {
	Paragraphs  []string `json:"paragraphs"`
	MaxLength   *int     `json:"max_length"`
	MinLength   *int     `json:"min_length"`
	SaveResults *bool    `json:"save_results"`
}

// titleResult mirrors one generation outcome.  ResultID and CreatedAt are
// only present when the result was persisted; Error is only present on a
// failed batch item.
type titleResult struct {
	ResultID         *uint64    `json:"result_id,omitempty"`
	Title            string     `json:"title,omitempty"`
	Paragraph        string     `json:"paragraph"`
	Status           string     `json:"status,omitempty"`
	Confidence       string     `json:"confidence,omitempty"`
	ProcessingTimeMS float64    `json:"processing_time_ms,omitempty"`
	CharacterCount   int        `json:"character_count,omitempty"`
	WordCount        int        `json:"word_count,omitempty"`
	CreatedAt        *time.Time `json:"created_at,omitempty"`
	Error            string     `json:"error,omitempty"`
}

// bounds resolves the optional length fields against defaults and hard
// ceilings.  It reports a validation message when the resolved range is
// unusable.
func bounds(maxLen, minLen *int) (int, int, string) {
	maxL, minL := defaultMaxLength, defaultMinLength
	if maxLen != nil {
		maxL = *maxLen
	}
	if minLen != nil {
		minL = *minLen
	}
	if maxL < 5 || maxL > maxLengthCeil {
		return 0, 0, "max_length must be between 5 and 50"
	}
	if minL < 1 || minL > minLengthCeil {
		return 0, 0, "min_length must be between 1 and 20"
	}
	if minL > maxL {
		return 0, 0, "min_length must not exceed max_length"
	}
	return maxL, minL, ""
}

// generateOne runs the full pipeline for a single paragraph: model call,
// evaluation, optional persistence, optional event publish.
func (h *TitleHandler) generateOne(ctx context.Context, userID uint64, paragraph string, maxL, minL int, save bool) (titleResult, error) {
	start := time.Now()
	title, err := h.Gen.Generate(ctx, paragraph, maxL, minL)
	if err != nil {
		return titleResult{}, err
	}
	elapsed := math.Round(float64(time.Since(start).Microseconds())/10) / 100 // ms, 2 decimals

	status, confidence := evaluator.Evaluate(title, paragraph)
	res := titleResult{
		Title:            title,
		Paragraph:        paragraph,
		Status:           status,
		Confidence:       confidence,
		ProcessingTimeMS: elapsed,
		CharacterCount:   evaluator.CountChars(paragraph),
		WordCount:        evaluator.CountWords(paragraph),
	}

	if save {
		id, err := h.Results.Save(ctx, model.SavedResult{
			UserID:           userID,
			Paragraph:        paragraph,
			Title:            title,
			Status:           status,
			Confidence:       confidence,
			ProcessingTimeMS: elapsed,
			CharacterCount:   res.CharacterCount,
			WordCount:        res.WordCount,
		})
		if err != nil {
			return titleResult{}, err
		}
		now := time.Now().UTC()
		res.ResultID = &id
		res.CreatedAt = &now

		if h.Publish != nil {
			// Best effort: the publisher logs its own failures.
			_ = h.Publish(ctx, queue.TitleGeneratedEvent{
				ResultID:         id,
				UserID:           userID,
				Title:            title,
				Status:           status,
				Confidence:       confidence,
				ProcessingTimeMS: elapsed,
				GeneratedAt:      now.Format(time.RFC3339),
			})
		}
	}
	return res, nil
}

// GenerateTitle handles POST /generate-title: one paragraph in, one
// title with quality labels and metrics out, optionally persisted.
func (h *TitleHandler) GenerateTitle(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, kindAuth, "unauthorized")
	}
	var req generateReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, kindValidation, "invalid body")
	}
	if strings.TrimSpace(req.Paragraph) == "" {
		return fail(c, http.StatusBadRequest, kindValidation, "paragraph cannot be empty")
	}
	maxL, minL, msg := bounds(req.MaxLength, req.MinLength)
	if msg != "" {
		return fail(c, http.StatusBadRequest, kindValidation, msg)
	}
	save := req.SaveResult == nil || *req.SaveResult

	res, err := h.generateOne(c.Request().Context(), uid, req.Paragraph, maxL, minL, save)
	if err != nil {
		return h.generationError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    res,
		"message": "Title generated successfully",
	})
}

// GenerateTitles handles POST /generate-titles.  Paragraphs are processed
// in order and independently: a failure on one item is reported on that
// item and the rest still run.
func (h *TitleHandler) GenerateTitles(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, kindAuth, "unauthorized")
	}
	var req generateBatchReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, kindValidation, "invalid body")
	}
	if len(req.Paragraphs) == 0 {
		return fail(c, http.StatusBadRequest, kindValidation, "paragraphs cannot be empty")
	}
	maxL, minL, msg := bounds(req.MaxLength, req.MinLength)
	if msg != "" {
		return fail(c, http.StatusBadRequest, kindValidation, msg)
	}
	save := req.SaveResults == nil || *req.SaveResults

	totalStart := time.Now()
	results := make([]titleResult, 0, len(req.Paragraphs))
	generated := 0
	for _, paragraph := range req.Paragraphs {
		res, err := h.generateOne(c.Request().Context(), uid, paragraph, maxL, minL, save)
		if err != nil {
			results = append(results, titleResult{Paragraph: paragraph, Error: generationMessage(err)})
			continue
		}
		results = append(results, res)
		generated++
	}
	totalMS := math.Round(float64(time.Since(totalStart).Microseconds())/10) / 100

	return c.JSON(http.StatusOK, echo.Map{
		"success":                  true,
		"data":                     results,
		"total_paragraphs":         len(results),
		"total_processing_time_ms": totalMS,
		"message":                  messageForBatch(generated),
	})
}

func messageForBatch(n int) string {
	if n == 1 {
		return "Successfully generated 1 title"
	}
	return fmt.Sprintf("Successfully generated %d titles", n)
}

// generationError maps pipeline failures onto the error taxonomy.
func (h *TitleHandler) generationError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, titler.ErrEmptyParagraph), errors.Is(err, titler.ErrInvalidRange):
		return fail(c, http.StatusBadRequest, kindValidation, err.Error())
	case errors.Is(err, titler.ErrUpstream):
		return fail(c, http.StatusServiceUnavailable, kindUpstream, "title generation failed")
	default:
		return fail(c, http.StatusInternalServerError, kindPersistence, "save result failed")
	}
}

// generationMessage is the per-item flavor of generationError for batch
// responses.
func generationMessage(err error) string {
	switch {
	case errors.Is(err, titler.ErrEmptyParagraph):
		return "paragraph cannot be empty"
	case errors.Is(err, titler.ErrInvalidRange):
		return "min_length must not exceed max_length"
	case errors.Is(err, titler.ErrUpstream):
		return "title generation failed"
	default:
		return "save result failed"
	}
}
