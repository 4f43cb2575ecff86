package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Conceptual-Machines/loopgen-api/internal/config"
	"github.com/Conceptual-Machines/loopgen-api/internal/models"
	"github.com/Conceptual-Machines/loopgen-api/internal/notation"
	"github.com/Conceptual-Machines/loopgen-api/internal/services"
	"github.com/Conceptual-Machines/loopgen-api/internal/styles"
)

// missingEngraver behaves like a host without lilypond
type missingEngraver struct{}

func (missingEngraver) Available() bool { return false }

func (missingEngraver) Engrave(_ context.Context, dir, name, source string) (notation.Result, error) {
	res := notation.Result{Source: filepath.Join(dir, name+".ly")}
	if err := os.WriteFile(res.Source, []byte(source), 0o644); err != nil {
		return res, err
	}
	return res, notation.ErrToolUnavailable
}

func setupTestRouter(t *testing.T) (*gin.Engine, *config.Config) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{Environment: "test", AuthMode: "none", OutputDir: t.TempDir()}
	svc := services.NewLoopService(styles.MustDefault(), missingEngraver{}, nil, nil, services.Options{CoverSize: 64})
	return SetupRouter(cfg, svc, "test", nil, nil), cfg
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	r, _ := setupTestRouter(t)

	w := do(r, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"healthy"`)
	assert.Contains(t, w.Body.String(), `"unavailable"`)
}

func TestMetrics(t *testing.T) {
	r, _ := setupTestRouter(t)

	w := do(r, http.MethodGet, "/api/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "test", body["version"])
	api := body["api"].(map[string]interface{})
	assert.Len(t, api["styles"], 5)
}

func TestStyles(t *testing.T) {
	r, _ := setupTestRouter(t)

	w := do(r, http.MethodGet, "/api/v1/styles", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Styles []models.StyleInfo `json:"styles"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Styles, 5)
	assert.Equal(t, "rock", list.Styles[0].Name)

	w = do(r, http.MethodGet, "/api/v1/styles/jazz", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"progression":"2-minor7, 5-dominant7, 1-major7, 1-major7"`)

	w = do(r, http.MethodGet, "/api/v1/styles/polka", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGenerate(t *testing.T) {
	r, _ := setupTestRouter(t)

	w := do(r, http.MethodPost, "/api/v1/loops/generate",
		`{"style":"reggae","bars":4,"progression":"1-minor, 4-minor","seed":5}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.LoopResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, uint64(5), resp.Seed)
	assert.Equal(t, "A", resp.Key)
	assert.Equal(t, 70, resp.BPM)
	assert.NotEmpty(t, resp.RequestID)
	assert.Equal(t, w.Header().Get("X-Request-ID"), resp.RequestID)
	assert.Contains(t, resp.Score, `\drummode`)

	// the one-drop figures open with a rest, then the A root
	bass := resp.Tracks[models.InstrumentBass]
	require.NotEmpty(t, bass)
	assert.Equal(t, 45, bass[0].MidiNoteNumber)
	assert.Contains(t, []float64{1, 2}, bass[0].StartBeats)
}

func TestGenerate_ProgressionList(t *testing.T) {
	r, _ := setupTestRouter(t)

	w := do(r, http.MethodPost, "/api/v1/loops/generate",
		`{"style":"jazz","progression":[{"degree":2,"quality":"minor7"},{"degree":5,"quality":"dominant7"}],"seed":1}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"progression":"2-minor7, 5-dominant7"`)
}

func TestGenerate_NullProgressionUsesStyleDefault(t *testing.T) {
	r, _ := setupTestRouter(t)

	w := do(r, http.MethodPost, "/api/v1/loops/generate", `{"style":"rock","progression":null,"seed":3}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"progression":"1-minor, 6-major, 7-major, 5-major"`)
}

func TestGenerate_Errors(t *testing.T) {
	r, _ := setupTestRouter(t)

	tests := []struct {
		name string
		body string
		code string
	}{
		{"missing style", `{"bars":4}`, "invalid_body"},
		{"malformed", `{"style":`, "invalid_body"},
		{"unknown style", `{"style":"polka"}`, "unsupported_style"},
		{"bad key", `{"style":"rock","key":"H"}`, "invalid_key"},
		{"bad scale", `{"style":"rock","scale":"lydian"}`, "invalid_scale"},
		{"bad degree", `{"style":"rock","progression":"9-minor"}`, "invalid_progression"},
		{"bad quality", `{"style":"rock","progression":"1-sus4"}`, "invalid_progression"},
		{"too many bars", `{"style":"rock","bars":100}`, "invalid_request"},
		{"bpm too fast", `{"style":"rock","bpm":999}`, "invalid_request"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, http.MethodPost, "/api/v1/loops/generate", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), `"code":"`+tt.code+`"`)
		})
	}
}

func TestExport(t *testing.T) {
	r, cfg := setupTestRouter(t)

	w := do(r, http.MethodPost, "/api/v1/loops/export", `{"style":"rock","bars":4,"seed":3,"cover_title":"Heavy Rock Riffs"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.ExportResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, uint64(3), resp.Seed)
	assert.Equal(t, cfg.OutputDir, filepath.Dir(resp.Folder))
	assert.Contains(t, resp.Files, "rock_full_mix.mid")
	assert.Contains(t, resp.Files, "rock_score.ly")
	assert.Contains(t, resp.Files, "rock_cover_art.png")
	assert.NotContains(t, resp.Files, "rock_score.pdf")
	require.NotEmpty(t, resp.Warnings)
	assert.Contains(t, resp.Warnings[0], "lilypond")

	for _, name := range resp.Files {
		assert.FileExists(t, filepath.Join(resp.Folder, name))
	}
}

func TestAuth_JWTModeRejectsAnonymous(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{AuthMode: "jwt", JWTSecret: "secret", OutputDir: t.TempDir()}
	svc := services.NewLoopService(styles.MustDefault(), missingEngraver{}, nil, nil, services.Options{})
	r := SetupRouter(cfg, svc, "test", nil, nil)

	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/api/v1/styles", "").Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/health", "").Code)
}
