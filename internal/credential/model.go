// Package credential persists per-user AI provider credentials and serves as
// the resolver's system of record. Postgres backs production; the SQLite
// dialect exists for tests.
package credential

import (
	"strconv"
	"time"

	"gorm.io/datatypes"

	"github.com/mailmind/aigate"
	"github.com/mailmind/aigate/pkg/provider"
)

// ModelSettings is the per-credential generation configuration. Zero values
// mean "unset" and fall back to provider defaults at resolution time.
type ModelSettings struct {
	Model       string   `gorm:"type:text" json:"model"`
	Temperature *float64 `json:"temperature"`
	MaxTokens   int      `json:"maxTokens"`
	BaseURL     string   `gorm:"type:text" json:"baseURL"`
}

// UsageStats holds observational counters. The resolver never reads them.
type UsageStats struct {
	TotalRequests int64      `json:"totalRequests"`
	TotalTokens   int64      `json:"totalTokens"`
	LastUsed      *time.Time `json:"lastUsed"`
}

// Credential is one stored provider credential.
type Credential struct {
	ID uint64 `gorm:"primaryKey;autoIncrement" json:"id"`

	UserID   string `gorm:"type:varchar(64);not null;uniqueIndex:idx_cred_user_provider,priority:1" json:"userId"`
	Provider string `gorm:"type:varchar(32);not null;uniqueIndex:idx_cred_user_provider,priority:2" json:"provider"`

	// APIKey is the bearer credential. It never serializes; read paths
	// expose KeyPreview() only.
	APIKey string `gorm:"type:text;not null" json:"-"`

	// IsDefault marks the user's preferred credential. At most one per user
	// may be true; the store enforces this transactionally on every write
	// that sets it.
	IsDefault bool `gorm:"not null;default:false;index" json:"isDefault"`

	// IsActive gates selection: inactive credentials are never resolved.
	IsActive bool `gorm:"not null;default:true" json:"isActive"`

	Config ModelSettings `gorm:"embedded;embeddedPrefix:config_" json:"config"`
	Usage  UsageStats    `gorm:"embedded;embeddedPrefix:usage_" json:"usage"`

	// Metadata carries display name, description and the cached model list
	// from the last connectivity test.
	Metadata datatypes.JSON `gorm:"type:jsonb" json:"metadata,omitempty"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}

// TableName sets the table name.
func (Credential) TableName() string { return "ai_provider_credentials" }

// KeyPreview returns the masked form of the secret: a fixed prefix plus the
// last four characters. No read path ever exposes more.
func (c *Credential) KeyPreview() string {
	if c.APIKey == "" {
		return ""
	}
	if len(c.APIKey) <= 4 {
		return "••••••••"
	}
	return "••••••••" + c.APIKey[len(c.APIKey)-4:]
}

// ApplyDefaults fills unset config fields with the provider defaults so the
// stored record is self-describing.
func (c *Credential) ApplyDefaults() {
	if c.Config.Model == "" {
		c.Config.Model = provider.DefaultModel(c.Provider)
	}
	if c.Config.BaseURL == "" {
		c.Config.BaseURL = provider.DefaultBaseURL(c.Provider)
	}
	if c.Config.Temperature == nil {
		t := provider.DefaultTemperature
		c.Config.Temperature = &t
	}
	if c.Config.MaxTokens == 0 {
		c.Config.MaxTokens = provider.DefaultMaxTokens
	}
}

// Resolved converts the durable record into the resolver's narrow view.
func (c *Credential) Resolved() *aigate.Credential {
	return &aigate.Credential{
		ID:        strconv.FormatUint(c.ID, 10),
		Provider:  c.Provider,
		SecretKey: c.APIKey,
		Config: provider.ModelConfig{
			Model:       c.Config.Model,
			Temperature: c.Config.Temperature,
			MaxTokens:   c.Config.MaxTokens,
			BaseURL:     c.Config.BaseURL,
		},
	}
}
