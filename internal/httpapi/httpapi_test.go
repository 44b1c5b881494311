package httpapi

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mailmind/aigate"
	"github.com/mailmind/aigate/internal/credential"
	aierrors "github.com/mailmind/aigate/pkg/errors"
	"github.com/mailmind/aigate/pkg/provider"
)

func noEnv(string) (string, bool) { return "", false }

func newTestRouter(t *testing.T) (*gin.Engine, *credential.Store, *aigate.Resolver) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	store := credential.NewStore(db)
	require.NoError(t, store.AutoMigrate())

	testLogger := slog.New(slog.NewTextHandler(io.Discard, nil))
	resolver := aigate.NewResolver(store,
		aigate.WithEnvLookup(noEnv),
		aigate.WithLogger(testLogger),
	)

	router := gin.New()
	router.Use(Identity("X-User-ID"))
	handler := NewHandler(store, resolver, testLogger)
	handler.RegisterRoutes(router.Group("/api/ai-providers"))

	return router, store, resolver
}

func doJSON(t *testing.T, router *gin.Engine, method, path, userID string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var payload map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	return payload
}

func TestCreateAndList_MasksKey(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/ai-providers", "user-1", map[string]any{
		"provider": provider.OpenRouter,
		"apiKey":   "sk-or-v1-abcdef1234",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	created := decode(t, w)
	assert.Equal(t, true, created["success"])
	data := created["data"].(map[string]any)
	assert.Equal(t, "••••••••1234", data["apiKeyPreview"])
	assert.NotContains(t, w.Body.String(), "sk-or-v1-abcdef1234")

	w = doJSON(t, router, http.MethodGet, "/api/ai-providers", "user-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "sk-or-v1-abcdef1234")

	listed := decode(t, w)
	items := listed["data"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, "openrouter", items[0].(map[string]any)["provider"])
}

func TestCreate_InvalidProvider(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/ai-providers", "user-1", map[string]any{
		"provider": "cohere",
		"apiKey":   "k",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, false, decode(t, w)["success"])
}

func TestCreate_Duplicate(t *testing.T) {
	router, _, _ := newTestRouter(t)

	body := map[string]any{"provider": provider.OpenAI, "apiKey": "k1"}
	w := doJSON(t, router, http.MethodPost, "/api/ai-providers", "user-1", body)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/ai-providers", "user-1", body)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w)["message"], "already configured")
}

func TestSetDefault(t *testing.T) {
	router, store, _ := newTestRouter(t)
	ctx := context.Background()

	a := &credential.Credential{UserID: "user-1", Provider: provider.OpenAI, APIKey: "k1", IsActive: true, IsDefault: true}
	require.NoError(t, store.Create(ctx, a))
	b := &credential.Credential{UserID: "user-1", Provider: provider.Gemini, APIKey: "k2", IsActive: true}
	require.NoError(t, store.Create(ctx, b))

	w := doJSON(t, router, http.MethodPost, "/api/ai-providers/2/default", "user-1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	creds, err := store.List(ctx, "user-1")
	require.NoError(t, err)
	for _, c := range creds {
		assert.Equal(t, c.ID == b.ID, c.IsDefault, "credential %d", c.ID)
	}
}

func TestDelete_NotFound(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodDelete, "/api/ai-providers/99", "user-1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUnauthenticated(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/ai-providers", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestModelsCatalog(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/ai-providers/models/openrouter", "user-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	payload := decode(t, w)
	assert.NotEmpty(t, payload["data"])

	w = doJSON(t, router, http.MethodGet, "/api/ai-providers/models/cohere", "user-1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRequireAI_GuardEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	store := credential.NewStore(db)
	require.NoError(t, store.AutoMigrate())

	testLogger := slog.New(slog.NewTextHandler(io.Discard, nil))
	resolver := aigate.NewResolver(store,
		aigate.WithEnvLookup(noEnv),
		aigate.WithLogger(testLogger),
	)

	router := gin.New()
	router.Use(Identity("X-User-ID"))
	guarded := router.Group("/api/campaigns", RequireAI(resolver, testLogger))
	guarded.POST("/generate", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	// No credential: blocked with the machine-readable envelope.
	w := doJSON(t, router, http.MethodPost, "/api/campaigns/generate", "user-1", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	payload := decode(t, w)
	assert.Equal(t, false, payload["success"])
	assert.Equal(t, "AI provider not configured", payload["message"])
	assert.Equal(t, aierrors.CodeNotConfigured, payload["code"])
	assert.Equal(t, aierrors.DefaultAction, payload["action"])

	// With a credential the request passes through.
	require.NoError(t, store.Create(context.Background(), &credential.Credential{
		UserID: "user-1", Provider: provider.OpenAI, APIKey: "k", IsActive: true,
	}))
	w = doJSON(t, router, http.MethodPost, "/api/campaigns/generate", "user-1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
