package handler // declare the package name; contains HTTP handlers

import (
    "context"
    "database/sql"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/paragraph-titler/internal/titler"
)

// HealthHandler reports liveness plus whether the two external
// dependencies — the database and the summarization model wrapper — were
// wired at startup.
type HealthHandler struct {
    DB  *sql.DB
    Gen titler.Generator
}

func NewHealthHandler(db *sql.DB, gen titler.Generator) *HealthHandler {
    return &HealthHandler{DB: db, Gen: gen}
}

// Root handles GET /: a cheap liveness probe.
func (h *HealthHandler) Root(c echo.Context) error {
    return c.JSON(http.StatusOK, echo.Map{
        "status":             "running",
        "message":            "Paragraph Titler API is running",
        "model_loaded":       h.Gen != nil,
        "database_connected": h.DB != nil,
    })
}

// Health handles GET /health: the detailed check, including a live
// database ping.
func (h *HealthHandler) Health(c echo.Context) error {
    dbOK := h.DB != nil
    if dbOK {
        ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
        defer cancel()
        dbOK = h.DB.PingContext(ctx) == nil
    }
    modelName := ""
    if h.Gen != nil {
        modelName = h.Gen.Model()
    }
    return c.JSON(http.StatusOK, echo.Map{
        "status":             "healthy",
        "model_loaded":       h.Gen != nil,
        "database_connected": dbOK,
        "model_name":         modelName,
    })
}
