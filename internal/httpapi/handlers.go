// Package httpapi exposes the credential-management REST surface and the
// availability guard. Response envelopes are a compatibility contract with
// the frontend: {success, message, data} on success, {success, message,
// code, action, error} on failure.
package httpapi

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mailmind/aigate"
	"github.com/mailmind/aigate/internal/credential"
	"github.com/mailmind/aigate/pkg/provider"
	"github.com/mailmind/aigate/pkg/types"
)

// ContextUserIDKey is the gin context key the upstream auth middleware sets.
const ContextUserIDKey = "userID"

// testTimeout bounds the live connectivity check.
const testTimeout = 20 * time.Second

// Handler serves the /api/ai-providers routes.
type Handler struct {
	store    *credential.Store
	resolver *aigate.Resolver
	logger   *slog.Logger
}

// NewHandler constructs a Handler.
func NewHandler(store *credential.Store, resolver *aigate.Resolver, logger *slog.Logger) *Handler {
	return &Handler{store: store, resolver: resolver, logger: logger}
}

// RegisterRoutes mounts the credential routes on the given group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
	rg.POST("/:id/default", h.SetDefault)
	rg.POST("/test", h.Test)
	rg.GET("/models/:provider", h.Models)
}

// credentialView is the masked read shape: the secret never leaves the
// store; only the preview suffix does.
type credentialView struct {
	ID            uint64                   `json:"id"`
	Provider      string                   `json:"provider"`
	IsDefault     bool                     `json:"isDefault"`
	IsActive      bool                     `json:"isActive"`
	Config        credential.ModelSettings `json:"config"`
	Usage         credential.UsageStats    `json:"usage"`
	APIKeyPreview string                   `json:"apiKeyPreview"`
	CreatedAt     time.Time                `json:"createdAt"`
	UpdatedAt     time.Time                `json:"updatedAt"`
}

func viewOf(c *credential.Credential) credentialView {
	return credentialView{
		ID:            c.ID,
		Provider:      c.Provider,
		IsDefault:     c.IsDefault,
		IsActive:      c.IsActive,
		Config:        c.Config,
		Usage:         c.Usage,
		APIKeyPreview: c.KeyPreview(),
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

// List returns the user's credentials, masked.
func (h *Handler) List(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	creds, err := h.store.List(c.Request.Context(), userID)
	if err != nil {
		h.serverError(c, "Error fetching AI providers", err)
		return
	}

	views := make([]credentialView, 0, len(creds))
	for i := range creds {
		views = append(views, viewOf(&creds[i]))
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": views})
}

type createRequest struct {
	Provider  string                    `json:"provider"`
	APIKey    string                    `json:"apiKey"`
	IsDefault bool                      `json:"isDefault"`
	Config    *credential.ModelSettings `json:"config"`
}

// Create stores a new credential for the user.
func (h *Handler) Create(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var body createRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	if body.Provider == "" || body.APIKey == "" {
		badRequest(c, "Provider and API key are required")
		return
	}

	cred := &credential.Credential{
		UserID:    userID,
		Provider:  body.Provider,
		APIKey:    body.APIKey,
		IsDefault: body.IsDefault,
		IsActive:  true,
	}
	if body.Config != nil {
		cred.Config = *body.Config
	}

	err := h.store.Create(c.Request.Context(), cred)
	switch {
	case errors.Is(err, credential.ErrInvalidProvider):
		badRequest(c, "Invalid provider. Must be one of: openrouter, openai, gemini, grok, anthropic")
		return
	case errors.Is(err, credential.ErrDuplicate):
		badRequest(c, body.Provider+" provider already configured. Use update endpoint to modify.")
		return
	case err != nil:
		h.serverError(c, "Error adding AI provider", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "AI provider added successfully",
		"data":    viewOf(cred),
	})
}

type updateRequest struct {
	APIKey    *string                   `json:"apiKey"`
	IsDefault *bool                     `json:"isDefault"`
	IsActive  *bool                     `json:"isActive"`
	Config    *credential.ModelSettings `json:"config"`
}

// Update applies a partial update: key rotation, flag toggles, config edits.
func (h *Handler) Update(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var body updateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	cred, err := h.store.Update(c.Request.Context(), userID, id, credential.UpdateParams{
		APIKey:    body.APIKey,
		IsDefault: body.IsDefault,
		IsActive:  body.IsActive,
		Config:    body.Config,
	})
	switch {
	case errors.Is(err, credential.ErrNotFound):
		notFound(c, "AI provider not found")
		return
	case err != nil:
		h.serverError(c, "Error updating AI provider", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "AI provider updated successfully",
		"data":    viewOf(cred),
	})
}

// SetDefault atomically makes the credential the user's only default.
func (h *Handler) SetDefault(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	err := h.store.SetDefault(c.Request.Context(), userID, id)
	switch {
	case errors.Is(err, credential.ErrNotFound):
		notFound(c, "AI provider not found")
		return
	case err != nil:
		h.serverError(c, "Error updating AI provider", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Default AI provider updated",
	})
}

// Delete removes the credential.
func (h *Handler) Delete(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	err := h.store.Delete(c.Request.Context(), userID, id)
	switch {
	case errors.Is(err, credential.ErrNotFound):
		notFound(c, "AI provider not found")
		return
	case err != nil:
		h.serverError(c, "Error deleting AI provider", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "AI provider deleted successfully",
	})
}

type testRequest struct {
	Provider string `json:"provider"`
	APIKey   string `json:"apiKey"`
	Model    string `json:"model"`
}

// Test performs a live one-shot completion with the submitted key before it
// is stored. The key flows straight into a throwaway client and is never
// persisted here.
func (h *Handler) Test(c *gin.Context) {
	if _, ok := requireUser(c); !ok {
		return
	}

	var body testRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	if body.Provider == "" || body.APIKey == "" {
		badRequest(c, "Provider and API key are required")
		return
	}
	if !provider.Valid(body.Provider) {
		badRequest(c, "Unsupported provider")
		return
	}

	client, err := aigate.NewClient(aigate.Credential{
		Provider:  body.Provider,
		SecretKey: body.APIKey,
		Config:    aigate.ModelConfig{Model: body.Model},
	}, aigate.WithTimeout(testTimeout), aigate.WithLogger(h.logger))
	if err != nil {
		badRequest(c, "Unsupported provider")
		return
	}

	resp, err := client.ChatCompletion(c.Request.Context(), &types.ChatRequest{
		Messages:  []types.ChatMessage{{Role: types.RoleUser, Content: "Hello"}},
		MaxTokens: 10,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid " + body.Provider + " API key",
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  body.Provider + " API key is valid",
		"response": resp.Content(),
	})
}

// Models returns the static model catalog for a provider.
func (h *Handler) Models(c *gin.Context) {
	name := c.Param("provider")
	models, ok := modelCatalog[name]
	if !ok {
		badRequest(c, "Unsupported provider")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": models})
}

func requireUser(c *gin.Context) (string, bool) {
	userID := c.GetString(ContextUserIDKey)
	if userID == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"message": "Not authenticated",
		})
		return "", false
	}
	return userID, true
}

func pathID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, "Invalid credential id")
		return 0, false
	}
	return id, true
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": message})
}

func notFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, gin.H{"success": false, "message": message})
}

func (h *Handler) serverError(c *gin.Context, message string, err error) {
	h.logger.Error(message, "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"message": message,
		"error":   err.Error(),
	})
}
