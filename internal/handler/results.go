package handler

import (
	"database/sql"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// ResultsHandler serves the saved-results endpoints.  Everything here is
// scoped to the authenticated caller; no query can see another user's
// rows.
type ResultsHandler struct {
	Results ResultStore
}

func NewResultsHandler(results ResultStore) *ResultsHandler {
	if results == nil {
		panic("nil store passed to NewResultsHandler")
	}
	return &ResultsHandler{Results: results}
}

// List handles GET /saved-results?limit=&offset=.  Results come back
// newest first.  An offset past the end is an empty page, not an error.
func (h *ResultsHandler) List(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, kindAuth, "unauthorized")
	}

	limit := 50
	if raw := c.QueryParam("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return fail(c, http.StatusBadRequest, kindValidation, "invalid limit")
		}
	}
	if limit > 100 {
		limit = 100
	}
	offset := 0
	if raw := c.QueryParam("offset"); raw != "" {
		offset, err = strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return fail(c, http.StatusBadRequest, kindValidation, "invalid offset")
		}
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	rows, err := h.Results.ListByUser(ctx, uid, limit, offset)
	if err != nil {
		return fail(c, http.StatusInternalServerError, kindPersistence, "query failed")
	}
	total, err := h.Results.CountByUser(ctx, uid)
	if err != nil {
		return fail(c, http.StatusInternalServerError, kindPersistence, "query failed")
	}

	data := make([]titleResult, 0, len(rows))
	for _, rec := range rows {
		r := rec // copy before taking addresses
		data = append(data, titleResult{
			ResultID:         &r.ID,
			Title:            r.Title,
			Paragraph:        r.Paragraph,
			Status:           r.Status,
			Confidence:       r.Confidence,
			ProcessingTimeMS: r.ProcessingTimeMS,
			CharacterCount:   r.CharacterCount,
			WordCount:        r.WordCount,
			CreatedAt:        &r.CreatedAt,
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":       true,
		"data":          data,
		"total_results": total,
		"message":       fmt.Sprintf("Retrieved %d saved results", len(data)),
	})
}

// Delete handles DELETE /saved-results/:id.  A result owned by another
// user answers 404 exactly like a result that never existed.
func (h *ResultsHandler) Delete(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, kindAuth, "unauthorized")
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, kindValidation, "invalid result id")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Results.DeleteByIDAndUser(ctx, id, uid); err != nil {
		if err == sql.ErrNoRows {
			return fail(c, http.StatusNotFound, kindNotFound, "result not found")
		}
		return fail(c, http.StatusInternalServerError, kindPersistence, "delete failed")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Result deleted successfully",
	})
}
