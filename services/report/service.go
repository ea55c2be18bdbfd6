package report

import (
	"context"
	"encoding/json"
	"time"

	"partnerhub/pkg/db/option"
	"partnerhub/pkg/db/pagination"
	"partnerhub/pkg/errutil"
	"partnerhub/pkg/repository"
	"partnerhub/services/organization"
	"partnerhub/services/partner"
	"partnerhub/services/project"
	"partnerhub/services/reminder"
	"partnerhub/services/reporttoken"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const historyLimit = 20

type Service struct {
	db       *gorm.DB
	node     *snowflake.Node
	repo     repository.Repository[Report]
	projects *project.Service
	now      func() time.Time
}

type ServiceParams struct {
	fx.In
	DB       *gorm.DB
	Node     *snowflake.Node
	Projects *project.Service
}

func NewService(p ServiceParams) *Service {
	return &Service{
		db:       p.DB,
		node:     p.Node,
		repo:     repository.ProvideStore[Report](p.DB),
		projects: p.Projects,
		now:      time.Now,
	}
}

type SubmitReportRequest struct {
	ProjectID             *string        `json:"projectId"`
	TaskID                *string        `json:"taskId"`
	ReportType            string         `json:"reportType" binding:"required"`
	ProgressStatus        string         `json:"progressStatus"`
	Content               string         `json:"content"`
	WeeklyAccomplishments string         `json:"weeklyAccomplishments"`
	NextWeekPlan          string         `json:"nextWeekPlan"`
	Metadata              map[string]any `json:"metadata"`
}

// Submit records a report on behalf of the token's partner and reconciles it
// against outstanding report requests. The project falls back to the token's
// scope when the body names none.
func (s *Service) Submit(ctx context.Context, p *partner.Partner, tokenProjectID *string, req SubmitReportRequest) (*Report, error) {
	reportType := Type(req.ReportType)
	if !reportType.Valid() {
		return nil, errutil.BadRequest("invalid report type", nil)
	}

	projectID := req.ProjectID
	if projectID == nil {
		projectID = tokenProjectID
	}

	now := s.now()
	r := &Report{
		ID:                    s.node.Generate().String(),
		OrganizationID:        p.OrganizationID,
		PartnerID:             p.ID,
		ProjectID:             projectID,
		TaskID:                req.TaskID,
		ReportType:            reportType,
		ProgressStatus:        req.ProgressStatus,
		Content:               req.Content,
		WeeklyAccomplishments: req.WeeklyAccomplishments,
		NextWeekPlan:          req.NextWeekPlan,
		SubmittedAt:           now,
	}
	if req.Metadata != nil {
		meta, err := json.Marshal(req.Metadata)
		if err != nil {
			return nil, errutil.BadRequest("invalid metadata", err)
		}
		r.Metadata = datatypes.JSON(meta)
	}

	if err := s.repo.Create(ctx, r); err != nil {
		zap.L().Error("failed to create report", zap.String("partner_id", p.ID), zap.Error(err))
		return nil, errutil.Internal("failed to create report", err)
	}

	s.reconcile(ctx, r)

	zap.L().Info("report submitted",
		zap.String("report_id", r.ID),
		zap.String("partner_id", p.ID),
		zap.Bool("project_scoped", projectID != nil),
	)

	return r, nil
}

// reconcile fulfills the partner's outstanding report requests: the most
// recent pending request and the most recent overdue one each flip to
// submitted, so a single report clears at most one request per bucket.
// Failure only logs; the report itself is already persisted.
func (s *Service) reconcile(ctx context.Context, r *Report) {
	for _, status := range []reminder.RequestStatus{reminder.StatusPending, reminder.StatusOverdue} {
		request, err := s.findLatestRequest(ctx, r, status)
		if err != nil {
			zap.L().Error("failed to reconcile report request",
				zap.String("report_id", r.ID),
				zap.String("status", string(status)),
				zap.Error(err),
			)
			continue
		}
		if request == nil {
			continue
		}

		err = s.db.WithContext(ctx).
			Model(&reminder.ReportRequest{}).
			Where("id = ?", request.ID).
			Updates(map[string]any{
				"status":    reminder.StatusSubmitted,
				"report_id": r.ID,
			}).Error
		if err != nil {
			zap.L().Error("failed to mark report request submitted",
				zap.String("report_id", r.ID),
				zap.String("request_id", request.ID),
				zap.Error(err),
			)
			continue
		}

		zap.L().Info("report request fulfilled",
			zap.String("report_id", r.ID),
			zap.String("request_id", request.ID),
			zap.String("previous_status", string(status)),
		)
	}
}

// findLatestRequest picks the partner's most recent request in the given
// status. Requests are matched per partner, not per project: any submission
// counts as the partner reporting in, regardless of which project it names.
func (s *Service) findLatestRequest(ctx context.Context, r *Report, status reminder.RequestStatus) (*reminder.ReportRequest, error) {
	var request reminder.ReportRequest
	err := s.db.WithContext(ctx).
		Where("partner_id = ? AND status = ?", r.PartnerID, status).
		Order("requested_at DESC").
		First(&request).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &request, nil
}

// History returns the partner's recent reports, newest first.
func (s *Service) History(ctx context.Context, partnerID string, projectID *string) ([]*Report, error) {
	tx := s.db.WithContext(ctx).Where("partner_id = ?", partnerID)
	if projectID != nil {
		tx = tx.Where("project_id = ?", *projectID)
	}

	var reports []*Report
	if err := tx.Order("submitted_at DESC").Limit(historyLimit).Find(&reports).Error; err != nil {
		zap.L().Error("failed to list report history", zap.String("partner_id", partnerID), zap.Error(err))
		return nil, errutil.Internal("failed to list report history", err)
	}
	return reports, nil
}

type Session struct {
	Partner  *partner.Partner         `json:"partner"`
	Projects []*project.Project       `json:"projects"`
	Token    *reporttoken.ReportToken `json:"token"`
}

// BuildSession describes what a token link grants: who the partner is, which
// projects they may report on, and the token's own metadata.
func (s *Service) BuildSession(ctx context.Context, p *partner.Partner, token *reporttoken.ReportToken) (*Session, error) {
	projects, err := s.projects.ListByPartner(ctx, p.ID, token.ProjectID)
	if err != nil {
		return nil, err
	}

	return &Session{
		Partner:  p,
		Projects: projects,
		Token:    token,
	}, nil
}

type Dashboard struct {
	Partner       *partner.Partner   `json:"partner"`
	Projects      []*project.Project `json:"projects"`
	TaskStats     *project.TaskStats `json:"taskStats"`
	RecentReports []*Report          `json:"recentReports"`
}

// BuildDashboard assembles the partner-facing landing view behind a token
// link: eligible projects, aggregate task stats, and the latest reports.
func (s *Service) BuildDashboard(ctx context.Context, p *partner.Partner, tokenProjectID *string) (*Dashboard, error) {
	projects, err := s.projects.ListByPartner(ctx, p.ID, tokenProjectID)
	if err != nil {
		return nil, err
	}

	stats, err := s.projects.StatsByPartner(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	var recent []*Report
	if err := s.db.WithContext(ctx).
		Where("partner_id = ?", p.ID).
		Order("submitted_at DESC").
		Limit(5).
		Find(&recent).Error; err != nil {
		return nil, errutil.Internal("failed to list recent reports", err)
	}

	return &Dashboard{
		Partner:       p,
		Projects:      projects,
		TaskStats:     stats,
		RecentReports: recent,
	}, nil
}

type ListFilter struct {
	PartnerID *string
	ProjectID *string
}

type ListResult struct {
	Reports  []*Report            `json:"reports"`
	PageInfo *pagination.PageInfo `json:"pageInfo"`
}

// List is the admin view over all submitted reports in scope, cursor-paginated
// newest first.
func (s *Service) List(ctx context.Context, scope organization.Scope, filter ListFilter, page pagination.Pagination) (*ListResult, error) {
	limit := page.Limit
	if limit <= 0 {
		limit = 10
	}

	query := &Report{}
	if scope.OrganizationID != nil {
		query.OrganizationID = *scope.OrganizationID
	}
	if filter.PartnerID != nil {
		query.PartnerID = *filter.PartnerID
	}
	if filter.ProjectID != nil {
		query.ProjectID = filter.ProjectID
	}

	opts := []option.QueryOption{
		option.OrderBy("submitted_at DESC, id DESC"),
		option.Limit(limit + 1),
	}
	if page.Cursor != "" {
		cursor, err := pagination.DecodeCursor(page.Cursor)
		if err != nil {
			return nil, errutil.BadRequest("invalid cursor", err)
		}
		before, err := time.Parse(time.RFC3339Nano, cursor.CreatedAt)
		if err != nil {
			return nil, errutil.BadRequest("invalid cursor", err)
		}
		opts = append(opts, option.Where("submitted_at < ?", before))
	}

	reports, err := s.repo.Find(ctx, query, opts...)
	if err != nil {
		zap.L().Error("failed to list reports", zap.Error(err))
		return nil, errutil.Internal("failed to list reports", err)
	}

	pageInfo := pagination.BuildCursorPageInfo(reports, int32(limit), func(r *Report) string {
		cursor, _ := pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: r.SubmittedAt.Format(time.RFC3339Nano),
			ID:        r.ID,
		})
		return cursor
	})
	if len(reports) > limit {
		reports = reports[:limit]
	}

	return &ListResult{Reports: reports, PageInfo: pageInfo}, nil
}

func (s *Service) Get(ctx context.Context, scope organization.Scope, id string) (*Report, error) {
	q := &Report{ID: id}
	if scope.OrganizationID != nil {
		q.OrganizationID = *scope.OrganizationID
	}

	r, err := s.repo.FindOne(ctx, q)
	if err != nil {
		return nil, errutil.Internal("failed to get report", err)
	}
	if r == nil {
		return nil, errutil.NotFound("report not found", nil)
	}
	return r, nil
}
