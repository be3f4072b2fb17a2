package handler_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/paragraph-titler/internal/config"
	"github.com/iliyamo/paragraph-titler/internal/handler"
	"github.com/iliyamo/paragraph-titler/internal/router"
)

// newAPI assembles the full route surface the way cmd/server does, with
// in-memory stores, the stub generator, no Redis and no broker.
func newAPI() *echo.Echo {
	cfg := testConfig()
	users := newFakeUserStore()
	results := newFakeResultStore()
	gen := &stubGenerator{}

	e := echo.New()
	router.RegisterRoutes(e, cfg,
		config.RateLimitConfig{Enabled: false},
		nil,
		handler.NewHealthHandler(nil, gen),
		handler.NewAuthHandler(cfg, users),
		handler.NewTitleHandler(gen, results),
		handler.NewResultsHandler(results),
	)
	return e
}

func request(e *echo.Echo, method, path, token, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func registerAndLogin(t *testing.T, e *echo.Echo, username string) string {
	t.Helper()
	rec := request(e, http.MethodPost, "/register", "",
		fmt.Sprintf(`{"username":%q,"email":"%s@example.com","password":"hunter22"}`, username, username))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = request(e, http.MethodPost, "/login", "",
		fmt.Sprintf(`{"username":%q,"password":"hunter22"}`, username))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AccessToken)
	return resp.AccessToken
}

type listResp struct {
	Success bool `json:"success"`
	Data    []struct {
		ResultID uint64 `json:"result_id"`
		Title    string `json:"title"`
	} `json:"data"`
	TotalResults int `json:"total_results"`
}

// TestFullFlow walks the whole lifecycle: register, login, generate with
// persistence, list, delete, list again.
func TestFullFlow(t *testing.T) {
	e := newAPI()
	token := registerAndLogin(t, e, "alice")

	paragraph := strings.TrimSpace(strings.Repeat("word ", 60))
	body, _ := json.Marshal(map[string]any{"paragraph": paragraph, "save_result": true})
	rec := request(e, http.MethodPost, "/generate-title", token, string(body))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var genResp struct {
		Data struct {
			ResultID uint64 `json:"result_id"`
			Title    string `json:"title"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &genResp))
	require.NotZero(t, genResp.Data.ResultID)

	// The list holds exactly the one entry, with the generated title.
	rec = request(e, http.MethodGet, "/saved-results", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list listResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Data, 1)
	assert.Equal(t, 1, list.TotalResults)
	assert.Equal(t, genResp.Data.ResultID, list.Data[0].ResultID)
	assert.Equal(t, genResp.Data.Title, list.Data[0].Title)

	// Delete it and the list is empty again.
	rec = request(e, http.MethodDelete, fmt.Sprintf("/saved-results/%d", genResp.Data.ResultID), token, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = request(e, http.MethodGet, "/saved-results", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	list = listResp{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Empty(t, list.Data)
	assert.Equal(t, 0, list.TotalResults)
}

func TestDeleteOtherUsersResultIsNotFound(t *testing.T) {
	e := newAPI()
	aliceToken := registerAndLogin(t, e, "alice")
	bobToken := registerAndLogin(t, e, "bob")

	rec := request(e, http.MethodPost, "/generate-title", aliceToken,
		`{"paragraph":"a paragraph that alice wants titled"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var genResp struct {
		Data struct {
			ResultID uint64 `json:"result_id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &genResp))

	// Bob cannot delete Alice's result, and cannot tell it exists.
	rec = request(e, http.MethodDelete, fmt.Sprintf("/saved-results/%d", genResp.Data.ResultID), bobToken, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "not_found")

	// Alice still can.
	rec = request(e, http.MethodDelete, fmt.Sprintf("/saved-results/%d", genResp.Data.ResultID), aliceToken, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestListPagination(t *testing.T) {
	e := newAPI()
	token := registerAndLogin(t, e, "alice")

	for i := 0; i < 3; i++ {
		rec := request(e, http.MethodPost, "/generate-title", token,
			fmt.Sprintf(`{"paragraph":"paragraph number %d with enough words"}`, i))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	// Newest first, bounded by limit.
	rec := request(e, http.MethodGet, "/saved-results?limit=2", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list listResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Data, 2)
	assert.Equal(t, 3, list.TotalResults)
	assert.Greater(t, list.Data[0].ResultID, list.Data[1].ResultID)

	// An offset past the end is an empty page, not an error.
	rec = request(e, http.MethodGet, "/saved-results?offset=100", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	list = listResp{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Empty(t, list.Data)
	assert.Equal(t, 3, list.TotalResults)

	// Garbage pagination values are rejected.
	rec = request(e, http.MethodGet, "/saved-results?limit=abc", token, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	e := newAPI()

	for _, route := range []struct{ method, path string }{
		{http.MethodGet, "/me"},
		{http.MethodPost, "/generate-title"},
		{http.MethodPost, "/generate-titles"},
		{http.MethodGet, "/saved-results"},
		{http.MethodDelete, "/saved-results/1"},
	} {
		rec := request(e, route.method, route.path, "", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", route.method, route.path)
	}
}

func TestMeReturnsCaller(t *testing.T) {
	e := newAPI()
	token := registerAndLogin(t, e, "alice")

	rec := request(e, http.MethodGet, "/me", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"username":"alice"`)
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestHealthEndpoints(t *testing.T) {
	e := newAPI()

	rec := request(e, http.MethodGet, "/", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"model_loaded":true`)

	rec = request(e, http.MethodGet, "/health", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"model_name":"stub-model"`)
}
