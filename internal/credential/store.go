package credential

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/mailmind/aigate"
	"github.com/mailmind/aigate/pkg/provider"
)

// Sentinel errors for the HTTP layer to translate into status codes.
var (
	ErrNotFound        = errors.New("credential not found")
	ErrDuplicate       = errors.New("provider already configured for user")
	ErrInvalidProvider = errors.New("invalid provider")
)

// Store persists credentials through GORM. It implements
// aigate.CredentialSource and aigate.UsageRecorder.
type Store struct {
	db *gorm.DB
}

// NewStore constructs a Store.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// AutoMigrate creates or updates the credential table.
func (s *Store) AutoMigrate() error {
	return s.db.AutoMigrate(&Credential{})
}

// Create inserts a credential, applying provider defaults to unset config
// fields. Setting the record as default clears every other default of the
// user inside the same transaction, so the one-default invariant holds even
// under concurrent writes.
func (s *Store) Create(ctx context.Context, cred *Credential) error {
	if !provider.Valid(cred.Provider) {
		return fmt.Errorf("%w: %s", ErrInvalidProvider, cred.Provider)
	}
	cred.ApplyDefaults()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&Credential{}).
			Where("user_id = ? AND provider = ?", cred.UserID, cred.Provider).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicate
		}

		if cred.IsDefault {
			if err := clearDefaults(tx, cred.UserID, 0); err != nil {
				return err
			}
		}
		return tx.Create(cred).Error
	})
}

// UpdateParams carries the optional fields of an update. Nil means "leave
// unchanged"; Config merges field-wise.
type UpdateParams struct {
	APIKey    *string
	IsDefault *bool
	IsActive  *bool
	Config    *ModelSettings
}

// Update applies a partial update to the user's credential. The one-default
// invariant is enforced in the same transaction whenever IsDefault flips to
// true.
func (s *Store) Update(ctx context.Context, userID string, id uint64, params UpdateParams) (*Credential, error) {
	var cred Credential

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&cred).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if params.APIKey != nil && *params.APIKey != "" {
			cred.APIKey = *params.APIKey
		}
		if params.IsActive != nil {
			cred.IsActive = *params.IsActive
		}
		if params.Config != nil {
			mergeConfig(&cred.Config, params.Config)
		}
		if params.IsDefault != nil {
			cred.IsDefault = *params.IsDefault
			if cred.IsDefault {
				if err := clearDefaults(tx, userID, cred.ID); err != nil {
					return err
				}
			}
		}

		return tx.Save(&cred).Error
	})
	if err != nil {
		return nil, err
	}
	return &cred, nil
}

// SetDefault atomically makes the given credential the user's only default.
func (s *Store) SetDefault(ctx context.Context, userID string, id uint64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cred Credential
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&cred).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := clearDefaults(tx, userID, id); err != nil {
			return err
		}
		return tx.Model(&cred).UpdateColumn("is_default", true).Error
	})
}

// Delete removes the user's credential.
func (s *Store) Delete(ctx context.Context, userID string, id uint64) error {
	result := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&Credential{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns the user's credentials, defaults first, then newest.
func (s *Store) List(ctx context.Context, userID string) ([]Credential, error) {
	var creds []Credential
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("is_default DESC, created_at DESC").
		Find(&creds).Error
	return creds, err
}

// Get returns the user's credential by id.
func (s *Store) Get(ctx context.Context, userID string, id uint64) (*Credential, error) {
	var cred Credential
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&cred).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &cred, nil
}

// FindActiveByUserAndProvider implements aigate.CredentialSource.
func (s *Store) FindActiveByUserAndProvider(ctx context.Context, userID, providerName string) (*aigate.Credential, error) {
	return s.findOne(ctx, "user_id = ? AND provider = ? AND is_active = ?", userID, providerName, true)
}

// FindActiveDefaultByUser implements aigate.CredentialSource.
func (s *Store) FindActiveDefaultByUser(ctx context.Context, userID string) (*aigate.Credential, error) {
	return s.findOne(ctx, "user_id = ? AND is_default = ? AND is_active = ?", userID, true, true)
}

// FindAnyActiveByUser implements aigate.CredentialSource. Newest first keeps
// the arbitrary pick deterministic.
func (s *Store) FindAnyActiveByUser(ctx context.Context, userID string) (*aigate.Credential, error) {
	return s.findOne(ctx, "user_id = ? AND is_active = ?", userID, true)
}

func (s *Store) findOne(ctx context.Context, query string, args ...any) (*aigate.Credential, error) {
	var cred Credential
	err := s.db.WithContext(ctx).
		Where(query, args...).
		Order("created_at DESC, id DESC").
		First(&cred).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return cred.Resolved(), nil
}

// RecordUsage implements aigate.UsageRecorder: bumps the monotonic counters
// and the last-used timestamp in one statement.
func (s *Store) RecordUsage(ctx context.Context, credentialID string, tokens int) error {
	id, err := strconv.ParseUint(credentialID, 10, 64)
	if err != nil {
		return fmt.Errorf("parse credential id %q: %w", credentialID, err)
	}

	now := time.Now().UTC()
	return s.db.WithContext(ctx).Model(&Credential{}).
		Where("id = ?", id).
		UpdateColumns(map[string]any{
			"usage_total_requests": gorm.Expr("usage_total_requests + ?", 1),
			"usage_total_tokens":   gorm.Expr("usage_total_tokens + ?", tokens),
			"usage_last_used":      now,
		}).Error
}

func clearDefaults(tx *gorm.DB, userID string, exceptID uint64) error {
	return tx.Model(&Credential{}).
		Where("user_id = ? AND id <> ?", userID, exceptID).
		UpdateColumn("is_default", false).Error
}

func mergeConfig(dst *ModelSettings, src *ModelSettings) {
	if src.Model != "" {
		dst.Model = src.Model
	}
	if src.Temperature != nil {
		dst.Temperature = src.Temperature
	}
	if src.MaxTokens > 0 {
		dst.MaxTokens = src.MaxTokens
	}
	if src.BaseURL != "" {
		dst.BaseURL = src.BaseURL
	}
}
