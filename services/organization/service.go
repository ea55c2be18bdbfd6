package organization

import (
	"context"

	"partnerhub/pkg/errutil"
	"partnerhub/pkg/repository"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db   *gorm.DB
	node *snowflake.Node
	repo repository.Repository[Organization]
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
		repo: repository.ProvideStore[Organization](p.DB),
	}
}

type CreateOrganizationRequest struct {
	Name string `json:"name" binding:"required"`
	Slug string `json:"slug"`
}

func (s *Service) Create(ctx context.Context, req CreateOrganizationRequest) (*Organization, error) {
	slugName := req.Slug
	if slugName == "" {
		slugName = slug.Make(req.Name)
	}

	exist, err := s.repo.FindOne(ctx, &Organization{Slug: slugName})
	if err != nil {
		zap.L().Error("failed query get organization by slug", zap.Error(err))
		return nil, errutil.Internal("failed to check existing organization", err)
	}

	if exist != nil {
		zap.L().Warn("organization already exists", zap.String("slug", slugName))
		return nil, errutil.Conflict("organization already exists", nil)
	}

	org := &Organization{
		ID:     s.node.Generate().String(),
		Name:   req.Name,
		Slug:   slugName,
		Status: Active,
	}

	if err := s.repo.Create(ctx, org); err != nil {
		zap.L().Error("failed to create organization", zap.Error(err))
		return nil, errutil.Internal("failed to create organization", err)
	}

	return org, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Organization, error) {
	org, err := s.repo.FindOne(ctx, &Organization{ID: id})
	if err != nil {
		zap.L().Error("failed query get organization by id", zap.Error(err))
		return nil, errutil.Internal("failed to get organization", err)
	}

	if org == nil {
		return nil, errutil.NotFound("organization not found", nil)
	}

	return org, nil
}

func (s *Service) List(ctx context.Context) ([]*Organization, error) {
	orgs, err := s.repo.Find(ctx, &Organization{})
	if err != nil {
		zap.L().Error("failed to list organizations", zap.Error(err))
		return nil, errutil.Internal("failed to list organizations", err)
	}
	return orgs, nil
}
