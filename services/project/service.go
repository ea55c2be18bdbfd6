package project

import (
	"context"

	"partnerhub/pkg/db/option"
	"partnerhub/pkg/errutil"
	"partnerhub/pkg/repository"
	"partnerhub/services/organization"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db    *gorm.DB
	node  *snowflake.Node
	repo  repository.Repository[Project]
	tasks repository.Repository[Task]
}

type ServiceParams struct {
	fx.In
	DB   *gorm.DB
	Node *snowflake.Node
}

func NewService(p ServiceParams) *Service {
	return &Service{
		db:    p.DB,
		node:  p.Node,
		repo:  repository.ProvideStore[Project](p.DB),
		tasks: repository.ProvideStore[Task](p.DB),
	}
}

type CreateProjectRequest struct {
	OrganizationID string  `json:"organizationId" binding:"required"`
	PartnerID      *string `json:"partnerId"`
	Name           string  `json:"name" binding:"required"`
	Description    string  `json:"description"`
}

func (s *Service) Create(ctx context.Context, req CreateProjectRequest) (*Project, error) {
	p := &Project{
		ID:             s.node.Generate().String(),
		OrganizationID: req.OrganizationID,
		PartnerID:      req.PartnerID,
		Name:           req.Name,
		Slug:           slug.Make(req.Name),
		Description:    req.Description,
		Status:         Planning,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		zap.L().Error("failed to create project", zap.Error(err))
		return nil, errutil.Internal("failed to create project", err)
	}

	return p, nil
}

func (s *Service) Get(ctx context.Context, scope organization.Scope, id string) (*Project, error) {
	q := &Project{ID: id}
	if scope.OrganizationID != nil {
		q.OrganizationID = *scope.OrganizationID
	}

	p, err := s.repo.FindOne(ctx, q)
	if err != nil {
		zap.L().Error("failed query get project by id", zap.Error(err))
		return nil, errutil.Internal("failed to get project", err)
	}

	if p == nil {
		return nil, errutil.NotFound("project not found", nil)
	}

	return p, nil
}

func (s *Service) List(ctx context.Context, scope organization.Scope) ([]*Project, error) {
	tx := scope.Apply(s.db.WithContext(ctx)).Order("created_at DESC")

	var projects []*Project
	if err := tx.Find(&projects).Error; err != nil {
		zap.L().Error("failed to list projects", zap.Error(err))
		return nil, errutil.Internal("failed to list projects", err)
	}
	return projects, nil
}

// ListByPartner returns the projects a partner is eligible to report on. A nil
// projectID scope means all of the partner's projects.
func (s *Service) ListByPartner(ctx context.Context, partnerID string, projectID *string) ([]*Project, error) {
	tx := s.db.WithContext(ctx).Where("partner_id = ?", partnerID)
	if projectID != nil {
		tx = tx.Where("id = ?", *projectID)
	}

	var projects []*Project
	if err := tx.Order("created_at DESC").Find(&projects).Error; err != nil {
		return nil, errutil.Internal("failed to list partner projects", err)
	}
	return projects, nil
}

type UpdateProjectRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	PartnerID   *string `json:"partnerId"`
	Status      *string `json:"status"`
}

func (s *Service) Update(ctx context.Context, scope organization.Scope, id string, req UpdateProjectRequest) (*Project, error) {
	p, err := s.Get(ctx, scope, id)
	if err != nil {
		return nil, err
	}

	values := map[string]any{}
	if req.Name != nil {
		values["name"] = *req.Name
		values["slug"] = slug.Make(*req.Name)
	}
	if req.Description != nil {
		values["description"] = *req.Description
	}
	if req.PartnerID != nil {
		values["partner_id"] = *req.PartnerID
	}
	if req.Status != nil {
		values["status"] = Status(*req.Status)
	}

	if len(values) == 0 {
		return p, nil
	}

	if err := s.repo.Update(ctx, p.ID, values); err != nil {
		zap.L().Error("failed to update project", zap.String("project_id", p.ID), zap.Error(err))
		return nil, errutil.Internal("failed to update project", err)
	}

	return s.Get(ctx, scope, id)
}

type CreateTaskRequest struct {
	Title   string  `json:"title" binding:"required"`
	DueDate *string `json:"dueDate"`
}

func (s *Service) CreateTask(ctx context.Context, scope organization.Scope, projectID string, req CreateTaskRequest) (*Task, error) {
	p, err := s.Get(ctx, scope, projectID)
	if err != nil {
		return nil, err
	}

	t := &Task{
		ID:             s.node.Generate().String(),
		OrganizationID: p.OrganizationID,
		ProjectID:      p.ID,
		Title:          req.Title,
		Status:         TaskTodo,
	}
	if req.DueDate != nil {
		due, err := parseDate(*req.DueDate)
		if err != nil {
			return nil, errutil.BadRequest("invalid due date", err)
		}
		t.DueDate = &due
	}

	if err := s.tasks.Create(ctx, t); err != nil {
		zap.L().Error("failed to create task", zap.Error(err))
		return nil, errutil.Internal("failed to create task", err)
	}

	return t, nil
}

func (s *Service) ListTasks(ctx context.Context, scope organization.Scope, projectID string) ([]*Task, error) {
	if _, err := s.Get(ctx, scope, projectID); err != nil {
		return nil, err
	}

	tasks, err := s.tasks.Find(ctx, &Task{ProjectID: projectID}, option.OrderBy("created_at ASC"))
	if err != nil {
		zap.L().Error("failed to list tasks", zap.String("project_id", projectID), zap.Error(err))
		return nil, errutil.Internal("failed to list tasks", err)
	}
	return tasks, nil
}

func (s *Service) UpdateTaskStatus(ctx context.Context, scope organization.Scope, taskID string, status TaskStatus) (*Task, error) {
	if !status.Valid() {
		return nil, errutil.BadRequest("invalid task status", nil)
	}

	q := &Task{ID: taskID}
	if scope.OrganizationID != nil {
		q.OrganizationID = *scope.OrganizationID
	}

	t, err := s.tasks.FindOne(ctx, q)
	if err != nil {
		return nil, errutil.Internal("failed to get task", err)
	}
	if t == nil {
		return nil, errutil.NotFound("task not found", nil)
	}

	if err := s.tasks.Update(ctx, t.ID, map[string]any{"status": status}); err != nil {
		return nil, errutil.Internal("failed to update task", err)
	}
	t.Status = status
	return t, nil
}

// StatsByPartner aggregates task counts across all of the partner's projects.
func (s *Service) StatsByPartner(ctx context.Context, partnerID string) (*TaskStats, error) {
	projects, err := s.ListByPartner(ctx, partnerID, nil)
	if err != nil {
		return nil, err
	}

	stats := &TaskStats{}
	if len(projects) == 0 {
		return stats, nil
	}

	ids := make([]string, 0, len(projects))
	for _, p := range projects {
		ids = append(ids, p.ID)
	}

	rows := []struct {
		Status TaskStatus
		Count  int64
	}{}
	if err := s.db.WithContext(ctx).
		Model(&Task{}).
		Select("status, COUNT(*) AS count").
		Where("project_id IN ?", ids).
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, errutil.Internal("failed to aggregate task stats", err)
	}

	for _, row := range rows {
		stats.Total += row.Count
		switch row.Status {
		case TaskTodo:
			stats.Todo = row.Count
		case TaskInProgress:
			stats.InProgress = row.Count
		case TaskDone:
			stats.Done = row.Count
		}
	}

	return stats, nil
}
