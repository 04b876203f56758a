package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/go-grammar-checker/config"
	"github.com/gcbaptista/go-grammar-checker/internal/agreement"
	"github.com/gcbaptista/go-grammar-checker/internal/engine"
	"github.com/gcbaptista/go-grammar-checker/internal/verbagreement"
	"github.com/gcbaptista/go-grammar-checker/model"
)

func setupTestEngine(t *testing.T) *engine.Engine {
	t.Helper()
	eng, err := engine.NewFromSettings(config.Default())
	require.NoError(t, err)
	t.Cleanup(eng.Stop)
	return eng
}

func setupTestRouter(t *testing.T) (*gin.Engine, *engine.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	eng := setupTestEngine(t)
	return NewRouter(config.Default().Server, eng, eng.Analytics()), eng
}

func performRequest(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, _ := json.Marshal(b)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) APIError {
	t.Helper()
	var apiErr APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &apiErr))
	return apiErr
}

func TestCheckHandler(t *testing.T) {
	router, _ := setupTestRouter(t)

	tests := []struct {
		name           string
		body           interface{}
		expectedStatus int
		expectedRule   string
		expectedCode   ErrorCode
	}{
		{
			name:           "article noun disagreement",
			body:           CheckRequest{Text: "Der Haus wurde letztes Jahr gebaut."},
			expectedStatus: http.StatusOK,
			expectedRule:   agreement.RuleID,
		},
		{
			name:           "subject verb disagreement",
			body:           CheckRequest{Text: "Die Autos ist schnell.", Rules: []string{verbagreement.SubjectVerbRuleID}},
			expectedStatus: http.StatusOK,
			expectedRule:   verbagreement.SubjectVerbRuleID,
		},
		{
			name:           "correct text",
			body:           CheckRequest{Text: "Die Autos sind schnell."},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "missing text",
			body:           map[string]string{},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   ErrorCodeValidationFailed,
		},
		{
			name:           "malformed json",
			body:           `{"text": `,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   ErrorCodeValidationFailed,
		},
		{
			name:           "malformed rule id",
			body:           CheckRequest{Text: "Der Haus.", Rules: []string{"de-agreement"}},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   ErrorCodeValidationFailed,
		},
		{
			name:           "unknown rule",
			body:           CheckRequest{Text: "Der Haus.", Rules: []string{"DE_UNKNOWN"}},
			expectedStatus: http.StatusNotFound,
			expectedCode:   ErrorCodeRuleNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performRequest(router, http.MethodPost, "/v1/check", tt.body)
			require.Equal(t, tt.expectedStatus, w.Code, w.Body.String())

			if tt.expectedCode != "" {
				assert.Equal(t, tt.expectedCode, decodeError(t, w).Code)
				return
			}

			var result model.CheckResult
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
			assert.NotEmpty(t, result.RequestID)
			ruleIDs := make([]string, 0, len(result.Matches))
			for _, match := range result.Matches {
				ruleIDs = append(ruleIDs, match.RuleID)
			}
			if tt.expectedRule == "" {
				assert.Empty(t, ruleIDs)
			} else {
				assert.Contains(t, ruleIDs, tt.expectedRule)
			}
		})
	}
}

func TestRuleHandlers(t *testing.T) {
	router, _ := setupTestRouter(t)

	t.Run("list", func(t *testing.T) {
		w := performRequest(router, http.MethodGet, "/v1/rules", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp RuleListResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 4, resp.Count)
		for _, rule := range resp.Rules {
			assert.True(t, rule.Enabled, rule.ID)
		}
	})

	t.Run("get", func(t *testing.T) {
		w := performRequest(router, http.MethodGet, "/v1/rules/"+agreement.RuleID, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp RuleResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, agreement.RuleID, resp.Rule.ID)
	})

	t.Run("get unknown", func(t *testing.T) {
		w := performRequest(router, http.MethodGet, "/v1/rules/DE_UNKNOWN", nil)
		require.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, ErrorCodeRuleNotFound, decodeError(t, w).Code)
	})

	t.Run("disable then check", func(t *testing.T) {
		w := performRequest(router, http.MethodPatch, "/v1/rules/"+agreement.RuleID, map[string]bool{"enabled": false})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp RuleResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.Rule.Enabled)

		w = performRequest(router, http.MethodPost, "/v1/check", CheckRequest{Text: "Der Haus wurde letztes Jahr gebaut."})
		require.Equal(t, http.StatusOK, w.Code)
		var result model.CheckResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
		for _, match := range result.Matches {
			assert.NotEqual(t, agreement.RuleID, match.RuleID)
		}
	})

	t.Run("update without enabled", func(t *testing.T) {
		w := performRequest(router, http.MethodPatch, "/v1/rules/"+agreement.RuleID, map[string]string{})
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, ErrorCodeValidationFailed, decodeError(t, w).Code)
	})
}

func TestBatchCheckHandler(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := performRequest(router, http.MethodPost, "/v1/jobs/check", BatchCheckRequest{
		Texts: []string{"Der Haus wurde letztes Jahr gebaut.", "Die Autos sind schnell."},
	})
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())

	var accepted struct {
		JobID string `json:"job_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &accepted))
	require.NotEmpty(t, accepted.JobID)

	var job model.Job
	require.Eventually(t, func() bool {
		w := performRequest(router, http.MethodGet, "/v1/jobs/"+accepted.JobID, nil)
		if w.Code != http.StatusOK {
			return false
		}
		if err := json.Unmarshal(w.Body.Bytes(), &job); err != nil {
			return false
		}
		return job.Status == model.JobStatusCompleted || job.Status == model.JobStatusFailed
	}, 5*time.Second, 10*time.Millisecond)

	assert.Equal(t, model.JobStatusCompleted, job.Status)
	require.Len(t, job.Results, 2)
	assert.NotEmpty(t, job.Results[0].Matches)
	assert.Empty(t, job.Results[1].Matches)

	w = performRequest(router, http.MethodGet, "/v1/jobs?status=completed", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Jobs  []model.Job `json:"jobs"`
		Total int         `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Equal(t, 1, list.Total)

	w = performRequest(router, http.MethodGet, "/v1/jobs/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestBatchCheckHandler_Errors(t *testing.T) {
	router, _ := setupTestRouter(t)

	tests := []struct {
		name           string
		method         string
		path           string
		body           interface{}
		expectedStatus int
		expectedCode   ErrorCode
	}{
		{
			name:           "empty texts",
			method:         http.MethodPost,
			path:           "/v1/jobs/check",
			body:           BatchCheckRequest{Texts: []string{}},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   ErrorCodeValidationFailed,
		},
		{
			name:           "unknown rule",
			method:         http.MethodPost,
			path:           "/v1/jobs/check",
			body:           BatchCheckRequest{Texts: []string{"Der Haus."}, Rules: []string{"DE_UNKNOWN"}},
			expectedStatus: http.StatusNotFound,
			expectedCode:   ErrorCodeRuleNotFound,
		},
		{
			name:           "unknown job",
			method:         http.MethodGet,
			path:           "/v1/jobs/does-not-exist",
			expectedStatus: http.StatusNotFound,
			expectedCode:   ErrorCodeJobNotFound,
		},
		{
			name:           "unknown status filter",
			method:         http.MethodGet,
			path:           "/v1/jobs?status=sleeping",
			expectedStatus: http.StatusBadRequest,
			expectedCode:   ErrorCodeValidationFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performRequest(router, tt.method, tt.path, tt.body)
			require.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
			assert.Equal(t, tt.expectedCode, decodeError(t, w).Code)
		})
	}
}

func TestAnalyticsHandler(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := performRequest(router, http.MethodPost, "/v1/check", CheckRequest{Text: "Der Haus wurde letztes Jahr gebaut."})
	require.Equal(t, http.StatusOK, w.Code)

	w = performRequest(router, http.MethodGet, "/v1/analytics", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var dashboard model.AnalyticsDashboard
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dashboard))
	assert.Equal(t, 1, dashboard.TotalChecks)
}

func TestHealthAndMetrics(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := performRequest(router, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), serviceName)
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))

	w = performRequest(router, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

func TestRequestIDMiddleware_PropagatesHeader(t *testing.T) {
	router, _ := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/rules/DE_UNKNOWN", nil)
	req.Header.Set(requestIDHeader, "req-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "req-123", w.Header().Get(requestIDHeader))
	assert.Equal(t, "req-123", decodeError(t, w).RequestID)
}

func TestCORSMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		origins        []string
		origin         string
		expectedHeader string
	}{
		{name: "allow all by default", origin: "https://a.example", expectedHeader: "*"},
		{name: "listed origin", origins: []string{"https://a.example"}, origin: "https://a.example", expectedHeader: "https://a.example"},
		{name: "unlisted origin", origins: []string{"https://a.example"}, origin: "https://b.example", expectedHeader: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(CORSMiddleware(tt.origins))
			router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Origin", tt.origin)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedHeader, w.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}
