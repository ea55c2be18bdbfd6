package partner

import (
	"context"

	"partnerhub/pkg/errutil"
	"partnerhub/pkg/repository"
	"partnerhub/services/organization"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Service struct {
	db   *gorm.DB
	node *snowflake.Node
	repo repository.Repository[Partner]
}

type ServiceParams struct {
	fx.In
	DB   *gorm.DB
	Node *snowflake.Node
}

func NewService(p ServiceParams) *Service {
	return &Service{
		db:   p.DB,
		node: p.Node,
		repo: repository.ProvideStore[Partner](p.DB),
	}
}

type CreatePartnerRequest struct {
	OrganizationID string   `json:"organizationId" binding:"required"`
	Name           string   `json:"name" binding:"required"`
	Email          string   `json:"email" binding:"required,email"`
	Company        string   `json:"company"`
	Skills         []string `json:"skills"`
}

func (s *Service) Create(ctx context.Context, req CreatePartnerRequest) (*Partner, error) {
	exist, err := s.repo.FindOne(ctx, &Partner{
		OrganizationID: req.OrganizationID,
		Email:          req.Email,
	})
	if err != nil {
		zap.L().Error("failed query get partner by email", zap.Error(err))
		return nil, errutil.Internal("failed to check existing partner", err)
	}

	if exist != nil {
		zap.L().Warn("partner email already registered",
			zap.String("organization_id", req.OrganizationID),
			zap.String("email", req.Email),
		)
		return nil, errutil.Conflict("partner email already registered", nil)
	}

	p := &Partner{
		ID:             s.node.Generate().String(),
		OrganizationID: req.OrganizationID,
		Name:           req.Name,
		Email:          req.Email,
		Company:        req.Company,
		Skills:         datatypes.NewJSONSlice(req.Skills),
		Status:         Active,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		zap.L().Error("failed to create partner", zap.Error(err))
		return nil, errutil.Internal("failed to create partner", err)
	}

	return p, nil
}

func (s *Service) Get(ctx context.Context, scope organization.Scope, id string) (*Partner, error) {
	q := &Partner{ID: id}
	if scope.OrganizationID != nil {
		q.OrganizationID = *scope.OrganizationID
	}

	p, err := s.repo.FindOne(ctx, q)
	if err != nil {
		zap.L().Error("failed query get partner by id", zap.Error(err))
		return nil, errutil.Internal("failed to get partner", err)
	}

	if p == nil {
		return nil, errutil.NotFound("partner not found", nil)
	}

	return p, nil
}

// List returns partners in the given scope, optionally filtered to those whose
// skills overlap the requested set. A nil scope organization is the explicit
// unscoped admin view.
func (s *Service) List(ctx context.Context, scope organization.Scope, skills []string) ([]*Partner, error) {
	tx := scope.Apply(s.db.WithContext(ctx)).Order("created_at DESC")

	var partners []*Partner
	if err := tx.Find(&partners).Error; err != nil {
		zap.L().Error("failed to list partners", zap.Error(err))
		return nil, errutil.Internal("failed to list partners", err)
	}

	if len(skills) == 0 {
		return partners, nil
	}

	// Skills live in a JSON column, so the overlap filter runs in memory to
	// stay portable across postgres and the sqlite test driver.
	out := make([]*Partner, 0, len(partners))
	for _, p := range partners {
		if p.HasAnySkill(skills) {
			out = append(out, p)
		}
	}
	return out, nil
}

// FindLinkedByEmail resolves the single partner matching an account email
// across organizations. This is the deliberate relaxed default for linking a
// partner to a signed-in user without an invitation; callers must treat a
// multi-match as no link.
func (s *Service) FindLinkedByEmail(ctx context.Context, email string) (*Partner, error) {
	var partners []*Partner
	if err := s.db.WithContext(ctx).Where("email = ?", email).Limit(2).Find(&partners).Error; err != nil {
		zap.L().Error("failed query partners by email", zap.Error(err))
		return nil, errutil.Internal("failed to look up partner by email", err)
	}

	if len(partners) != 1 {
		return nil, nil
	}

	p := partners[0]
	if !p.Linked {
		if err := s.repo.Update(ctx, p.ID, map[string]any{"linked": true}); err != nil {
			zap.L().Warn("failed to mark partner linked", zap.String("partner_id", p.ID), zap.Error(err))
		} else {
			p.Linked = true
		}
	}

	return p, nil
}

type UpdatePartnerRequest struct {
	Name    *string   `json:"name"`
	Company *string   `json:"company"`
	Skills  *[]string `json:"skills"`
	Status  *string   `json:"status"`
}

func (s *Service) Update(ctx context.Context, scope organization.Scope, id string, req UpdatePartnerRequest) (*Partner, error) {
	p, err := s.Get(ctx, scope, id)
	if err != nil {
		return nil, err
	}

	values := map[string]any{}
	if req.Name != nil {
		values["name"] = *req.Name
	}
	if req.Company != nil {
		values["company"] = *req.Company
	}
	if req.Skills != nil {
		values["skills"] = datatypes.NewJSONSlice(*req.Skills)
	}
	if req.Status != nil {
		values["status"] = Status(*req.Status)
	}

	if len(values) == 0 {
		return p, nil
	}

	if err := s.repo.Update(ctx, p.ID, values); err != nil {
		zap.L().Error("failed to update partner", zap.String("partner_id", p.ID), zap.Error(err))
		return nil, errutil.Internal("failed to update partner", err)
	}

	return s.Get(ctx, scope, id)
}

func (s *Service) Delete(ctx context.Context, scope organization.Scope, id string) error {
	p, err := s.Get(ctx, scope, id)
	if err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Delete(&Partner{}, "id = ?", p.ID).Error; err != nil {
		zap.L().Error("failed to delete partner", zap.String("partner_id", p.ID), zap.Error(err))
		return errutil.Internal("failed to delete partner", err)
	}

	return nil
}
