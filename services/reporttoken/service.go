package reporttoken

import (
	"context"
	"time"

	"partnerhub/pkg/errutil"
	"partnerhub/pkg/repository"
	"partnerhub/pkg/security"
	"partnerhub/services/partner"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const tokenBytes = 32

type Service struct {
	db       *gorm.DB
	node     *snowflake.Node
	repo     repository.Repository[ReportToken]
	partners repository.Repository[partner.Partner]
	now      func() time.Time
}

type ServiceParams struct {
	fx.In
	DB   *gorm.DB
	Node *snowflake.Node
}

func NewService(p ServiceParams) *Service {
	return &Service{
		db:       p.DB,
		node:     p.Node,
		repo:     repository.ProvideStore[ReportToken](p.DB),
		partners: repository.ProvideStore[partner.Partner](p.DB),
		now:      time.Now,
	}
}

// scopeQuery matches usable tokens for the exact (partner, project) pair:
// active and not yet expired. A nil project only matches tokens with a null
// project scope. Expired rows are excluded so Generate issues a replacement
// instead of handing out a link the guard would reject.
func (s *Service) scopeQuery(ctx context.Context, partnerID string, projectID *string) *gorm.DB {
	tx := s.db.WithContext(ctx).
		Where("partner_id = ? AND is_active = ?", partnerID, true).
		Where("expires_at IS NULL OR expires_at > ?", s.now())
	if projectID == nil {
		return tx.Where("project_id IS NULL")
	}
	return tx.Where("project_id = ?", *projectID)
}

// FindActive returns the active token for the scope, or nil.
func (s *Service) FindActive(ctx context.Context, partnerID string, projectID *string) (*ReportToken, error) {
	var token ReportToken
	err := s.scopeQuery(ctx, partnerID, projectID).First(&token).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, errutil.Internal("failed to look up report token", err)
	}
	return &token, nil
}

// Generate issues a token for the scope, reusing an existing active one so
// repeated issuance never produces duplicates.
func (s *Service) Generate(ctx context.Context, partnerID string, projectID *string, expiresInDays *int) (*ReportToken, error) {
	existing, err := s.FindActive(ctx, partnerID, projectID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	return s.create(ctx, partnerID, projectID, expiresInDays)
}

// Regenerate deactivates every active token in the scope, then creates a fresh
// one. This is the only path guaranteed to return a new token value.
func (s *Service) Regenerate(ctx context.Context, partnerID string, projectID *string, expiresInDays *int) (*ReportToken, error) {
	if err := s.scopeQuery(ctx, partnerID, projectID).
		Model(&ReportToken{}).
		Update("is_active", false).Error; err != nil {
		zap.L().Error("failed to deactivate report tokens", zap.String("partner_id", partnerID), zap.Error(err))
		return nil, errutil.Internal("failed to regenerate report token", err)
	}

	return s.create(ctx, partnerID, projectID, expiresInDays)
}

func (s *Service) create(ctx context.Context, partnerID string, projectID *string, expiresInDays *int) (*ReportToken, error) {
	p, err := s.partners.FindOne(ctx, &partner.Partner{ID: partnerID})
	if err != nil {
		return nil, errutil.Internal("failed to get partner", err)
	}
	if p == nil {
		return nil, errutil.NotFound("partner not found", nil)
	}

	token := &ReportToken{
		ID:             s.node.Generate().String(),
		OrganizationID: p.OrganizationID,
		Token:          security.GenerateToken(tokenBytes),
		PartnerID:      partnerID,
		ProjectID:      projectID,
		IsActive:       true,
	}
	if expiresInDays != nil {
		expires := s.now().AddDate(0, 0, *expiresInDays)
		token.ExpiresAt = &expires
	}

	if err := s.repo.Create(ctx, token); err != nil {
		zap.L().Error("failed to create report token", zap.String("partner_id", partnerID), zap.Error(err))
		return nil, errutil.Internal("failed to create report token", err)
	}

	zap.L().Info("issued report token",
		zap.String("partner_id", partnerID),
		zap.String("token_id", token.ID),
		zap.Bool("project_scoped", projectID != nil),
	)

	return token, nil
}

// Deactivate disables every active token in the scope.
func (s *Service) Deactivate(ctx context.Context, partnerID string, projectID *string) error {
	if err := s.scopeQuery(ctx, partnerID, projectID).
		Model(&ReportToken{}).
		Update("is_active", false).Error; err != nil {
		return errutil.Internal("failed to deactivate report tokens", err)
	}
	return nil
}

// Authenticate resolves a raw token value to its token row and partner. All
// failure modes surface as a uniform authentication error; the distinct reason
// (missing, unknown, deactivated, expired) is only visible in logs.
func (s *Service) Authenticate(ctx context.Context, raw string) (*ReportToken, *partner.Partner, error) {
	if raw == "" {
		zap.L().Warn("report token missing from request")
		return nil, nil, errutil.Unauthorized("invalid or expired link", nil)
	}

	token, err := s.repo.FindOne(ctx, &ReportToken{Token: raw})
	if err != nil {
		return nil, nil, errutil.Internal("failed to look up report token", err)
	}
	if token == nil {
		zap.L().Warn("report token not found")
		return nil, nil, errutil.Unauthorized("invalid or expired link", nil)
	}

	now := s.now()
	if !token.Valid(now) {
		if token.Expired(now) {
			zap.L().Warn("report token expired", zap.String("token_id", token.ID))
		} else {
			zap.L().Warn("report token deactivated", zap.String("token_id", token.ID))
		}
		return nil, nil, errutil.Unauthorized("invalid or expired link", nil)
	}

	p, err := s.partners.FindOne(ctx, &partner.Partner{ID: token.PartnerID})
	if err != nil {
		return nil, nil, errutil.Internal("failed to get partner", err)
	}
	if p == nil {
		zap.L().Warn("report token references missing partner", zap.String("token_id", token.ID))
		return nil, nil, errutil.Unauthorized("invalid or expired link", nil)
	}

	return token, p, nil
}

// Touch stamps last_used_at. Called from a goroutine after successful
// authentication; failure only logs.
func (s *Service) Touch(tokenID string) {
	now := s.now()
	if err := s.db.Model(&ReportToken{}).
		Where("id = ?", tokenID).
		Update("last_used_at", now).Error; err != nil {
		zap.L().Warn("failed to stamp token last_used_at", zap.String("token_id", tokenID), zap.Error(err))
	}
}
