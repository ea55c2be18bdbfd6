package reminder

import (
	"context"
	"fmt"
	"time"

	"partnerhub/pkg/config"
	"partnerhub/pkg/errutil"
	"partnerhub/pkg/mailer"
	"partnerhub/pkg/repository"
	"partnerhub/services/organization"
	"partnerhub/services/partner"
	"partnerhub/services/reporttoken"

	"github.com/bwmarrin/snowflake"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db        *gorm.DB
	node      *snowflake.Node
	schedules repository.Repository[ReportSchedule]
	requests  repository.Repository[ReportRequest]
	partners  repository.Repository[partner.Partner]
	tokens    *reporttoken.Service
	mail      mailer.Sender
	redis     *redis.Client
	cfg       *config.Config
	ladder    []EscalationStep
	now       func() time.Time
}

type ServiceParams struct {
	fx.In
	DB     *gorm.DB
	Node   *snowflake.Node
	Tokens *reporttoken.Service
	Mail   mailer.Sender
	Redis  *redis.Client `optional:"true"`
	Config *config.Config
}

func NewService(p ServiceParams) *Service {
	return &Service{
		db:        p.DB,
		node:      p.Node,
		schedules: repository.ProvideStore[ReportSchedule](p.DB),
		requests:  repository.ProvideStore[ReportRequest](p.DB),
		partners:  repository.ProvideStore[partner.Partner](p.DB),
		tokens:    p.Tokens,
		mail:      p.Mail,
		redis:     p.Redis,
		cfg:       p.Config,
		ladder:    DefaultEscalationLadder(),
		now:       time.Now,
	}
}

type CreateScheduleRequest struct {
	OrganizationID string  `json:"organizationId" binding:"required"`
	PartnerID      *string `json:"partnerId"`
	ProjectID      *string `json:"projectId"`
	Name           string  `json:"name" binding:"required"`
	Frequency      string  `json:"frequency" binding:"required"`
	DayOfWeek      *int    `json:"dayOfWeek"`
	DayOfMonth     *int    `json:"dayOfMonth"`
	TimeOfDay      string  `json:"timeOfDay"`
	DeadlineDays   int     `json:"deadlineDays"`
}

func (s *Service) CreateSchedule(ctx context.Context, req CreateScheduleRequest) (*ReportSchedule, error) {
	freq := Frequency(req.Frequency)
	if !freq.Valid() {
		return nil, errutil.BadRequest("invalid frequency", nil)
	}
	if req.DeadlineDays <= 0 {
		req.DeadlineDays = 3
	}
	if req.TimeOfDay == "" {
		req.TimeOfDay = defaultTimeOfDay
	}

	schedule := &ReportSchedule{
		ID:             s.node.Generate().String(),
		OrganizationID: req.OrganizationID,
		PartnerID:      req.PartnerID,
		ProjectID:      req.ProjectID,
		Name:           req.Name,
		Frequency:      freq,
		DayOfWeek:      req.DayOfWeek,
		DayOfMonth:     req.DayOfMonth,
		TimeOfDay:      req.TimeOfDay,
		DeadlineDays:   req.DeadlineDays,
		IsActive:       true,
	}

	next := NextSendAt(schedule, s.now())
	schedule.NextSendAt = &next

	if err := s.schedules.Create(ctx, schedule); err != nil {
		zap.L().Error("failed to create report schedule", zap.Error(err))
		return nil, errutil.Internal("failed to create report schedule", err)
	}

	return schedule, nil
}

func (s *Service) GetSchedule(ctx context.Context, scope organization.Scope, id string) (*ReportSchedule, error) {
	q := &ReportSchedule{ID: id}
	if scope.OrganizationID != nil {
		q.OrganizationID = *scope.OrganizationID
	}

	schedule, err := s.schedules.FindOne(ctx, q)
	if err != nil {
		return nil, errutil.Internal("failed to get report schedule", err)
	}
	if schedule == nil {
		return nil, errutil.NotFound("report schedule not found", nil)
	}
	return schedule, nil
}

func (s *Service) ListSchedules(ctx context.Context, scope organization.Scope) ([]*ReportSchedule, error) {
	tx := scope.Apply(s.db.WithContext(ctx)).Order("created_at DESC")

	var schedules []*ReportSchedule
	if err := tx.Find(&schedules).Error; err != nil {
		zap.L().Error("failed to list report schedules", zap.Error(err))
		return nil, errutil.Internal("failed to list report schedules", err)
	}
	return schedules, nil
}

type UpdateScheduleRequest struct {
	Name         *string `json:"name"`
	Frequency    *string `json:"frequency"`
	DayOfWeek    *int    `json:"dayOfWeek"`
	DayOfMonth   *int    `json:"dayOfMonth"`
	TimeOfDay    *string `json:"timeOfDay"`
	DeadlineDays *int    `json:"deadlineDays"`
	IsActive     *bool   `json:"isActive"`
}

// UpdateSchedule applies partial changes. Any change to the cadence fields
// recomputes next_send_at from now, so a paused-then-resumed schedule never
// fires on a stale timestamp.
func (s *Service) UpdateSchedule(ctx context.Context, scope organization.Scope, id string, req UpdateScheduleRequest) (*ReportSchedule, error) {
	schedule, err := s.GetSchedule(ctx, scope, id)
	if err != nil {
		return nil, err
	}

	values := map[string]any{}
	cadenceChanged := false
	if req.Name != nil {
		values["name"] = *req.Name
	}
	if req.Frequency != nil {
		freq := Frequency(*req.Frequency)
		if !freq.Valid() {
			return nil, errutil.BadRequest("invalid frequency", nil)
		}
		values["frequency"] = freq
		schedule.Frequency = freq
		cadenceChanged = true
	}
	if req.DayOfWeek != nil {
		values["day_of_week"] = *req.DayOfWeek
		schedule.DayOfWeek = req.DayOfWeek
		cadenceChanged = true
	}
	if req.DayOfMonth != nil {
		values["day_of_month"] = *req.DayOfMonth
		schedule.DayOfMonth = req.DayOfMonth
		cadenceChanged = true
	}
	if req.TimeOfDay != nil {
		values["time_of_day"] = *req.TimeOfDay
		schedule.TimeOfDay = *req.TimeOfDay
		cadenceChanged = true
	}
	if req.DeadlineDays != nil {
		values["deadline_days"] = *req.DeadlineDays
	}
	if req.IsActive != nil {
		values["is_active"] = *req.IsActive
	}

	if cadenceChanged {
		next := NextSendAt(schedule, s.now())
		values["next_send_at"] = next
	}

	if len(values) == 0 {
		return schedule, nil
	}

	if err := s.schedules.Update(ctx, schedule.ID, values); err != nil {
		zap.L().Error("failed to update report schedule", zap.String("schedule_id", schedule.ID), zap.Error(err))
		return nil, errutil.Internal("failed to update report schedule", err)
	}

	return s.GetSchedule(ctx, scope, id)
}

// DeleteSchedule soft-disables the schedule. Rows stay behind so historical
// report requests keep a valid schedule reference.
func (s *Service) DeleteSchedule(ctx context.Context, scope organization.Scope, id string) error {
	schedule, err := s.GetSchedule(ctx, scope, id)
	if err != nil {
		return err
	}

	if err := s.schedules.Update(ctx, schedule.ID, map[string]any{"is_active": false}); err != nil {
		zap.L().Error("failed to deactivate report schedule", zap.String("schedule_id", schedule.ID), zap.Error(err))
		return errutil.Internal("failed to deactivate report schedule", err)
	}
	return nil
}

// ProcessScheduledRequests fires every active schedule whose next_send_at has
// passed: creates the pending report request, ensures the partner has a live
// submission token, emails the submission link, then advances the schedule.
// One bad schedule never blocks the rest of the batch.
func (s *Service) ProcessScheduledRequests(ctx context.Context) (int, error) {
	span := trace.SpanFromContext(ctx)
	now := s.now()

	var due []*ReportSchedule
	err := s.db.WithContext(ctx).
		Where("is_active = ? AND next_send_at IS NOT NULL AND next_send_at < ?", true, now).
		Find(&due).Error
	if err != nil {
		zap.L().Error("failed to query due report schedules", zap.Error(err))
		return 0, errutil.Internal("failed to query due report schedules", err)
	}

	created := 0
	for _, schedule := range due {
		if err := s.fireSchedule(ctx, schedule, now); err != nil {
			zap.L().Error("failed to process report schedule",
				zap.String("schedule_id", schedule.ID),
				zap.Error(err),
			)
			continue
		}
		created++
	}

	span.SetAttributes(
		attribute.Int("reminder.schedules_due", len(due)),
		attribute.Int("reminder.requests_created", created),
	)
	zap.L().Info("processed scheduled report requests",
		zap.Int("due", len(due)),
		zap.Int("created", created),
	)

	return created, nil
}

func (s *Service) fireSchedule(ctx context.Context, schedule *ReportSchedule, now time.Time) error {
	if schedule.PartnerID == nil {
		zap.L().Warn("report schedule has no partner, skipping", zap.String("schedule_id", schedule.ID))
		return s.advanceSchedule(ctx, schedule, now)
	}

	p, err := s.partners.FindOne(ctx, &partner.Partner{ID: *schedule.PartnerID})
	if err != nil {
		return fmt.Errorf("failed to get partner: %w", err)
	}
	if p == nil {
		zap.L().Warn("report schedule references missing partner, skipping",
			zap.String("schedule_id", schedule.ID),
			zap.String("partner_id", *schedule.PartnerID),
		)
		return s.advanceSchedule(ctx, schedule, now)
	}

	request := &ReportRequest{
		ID:             s.node.Generate().String(),
		OrganizationID: schedule.OrganizationID,
		ScheduleID:     &schedule.ID,
		PartnerID:      p.ID,
		ProjectID:      schedule.ProjectID,
		RequestedAt:    now,
		DeadlineAt:     now.AddDate(0, 0, schedule.DeadlineDays),
		Status:         StatusPending,
	}
	if err := s.requests.Create(ctx, request); err != nil {
		return fmt.Errorf("failed to create report request: %w", err)
	}

	token, err := s.tokens.Generate(ctx, p.ID, schedule.ProjectID, nil)
	if err != nil {
		zap.L().Error("failed to ensure report token",
			zap.String("schedule_id", schedule.ID),
			zap.String("partner_id", p.ID),
			zap.Error(err),
		)
	} else if err := s.sendRequestEmail(ctx, schedule, request, p, token); err != nil {
		zap.L().Error("failed to send report request email",
			zap.String("request_id", request.ID),
			zap.String("partner_id", p.ID),
			zap.Error(err),
		)
	}

	return s.advanceSchedule(ctx, schedule, now)
}

func (s *Service) advanceSchedule(ctx context.Context, schedule *ReportSchedule, now time.Time) error {
	next := NextSendAt(schedule, now)
	err := s.schedules.Update(ctx, schedule.ID, map[string]any{
		"last_sent_at": now,
		"next_send_at": next,
	})
	if err != nil {
		return fmt.Errorf("failed to advance report schedule: %w", err)
	}
	return nil
}

func (s *Service) sendRequestEmail(ctx context.Context, schedule *ReportSchedule, request *ReportRequest, p *partner.Partner, token *reporttoken.ReportToken) error {
	link := fmt.Sprintf("%s/report/%s", s.cfg.PublicBaseURL, token.Token)
	deadline := request.DeadlineAt.Format("2006-01-02 15:04")

	subject := fmt.Sprintf("【リマインダー】%s", schedule.Name)
	text := fmt.Sprintf(
		"%s 様\n\n%s の報告をお願いいたします。\n提出期限: %s\n\n以下のリンクからご提出ください。\n%s\n",
		p.Name, schedule.Name, deadline, link,
	)
	html := fmt.Sprintf(
		"<p>%s 様</p><p>%s の報告をお願いいたします。</p><p>提出期限: %s</p><p><a href=%q>報告を提出する</a></p>",
		p.Name, schedule.Name, deadline, link,
	)

	return s.mail.Send(ctx, p.Email, subject, text, html)
}

type CreateManualRequest struct {
	OrganizationID string     `json:"organizationId" binding:"required"`
	PartnerID      string     `json:"partnerId" binding:"required"`
	ProjectID      *string    `json:"projectId"`
	DeadlineAt     *time.Time `json:"deadlineAt"`
}

// CreateManualRequest opens a one-off report request outside any schedule.
func (s *Service) CreateManualRequest(ctx context.Context, req CreateManualRequest) (*ReportRequest, error) {
	p, err := s.partners.FindOne(ctx, &partner.Partner{ID: req.PartnerID})
	if err != nil {
		return nil, errutil.Internal("failed to get partner", err)
	}
	if p == nil {
		return nil, errutil.NotFound("partner not found", nil)
	}

	now := s.now()
	deadline := now.AddDate(0, 0, 3)
	if req.DeadlineAt != nil {
		deadline = *req.DeadlineAt
	}

	request := &ReportRequest{
		ID:             s.node.Generate().String(),
		OrganizationID: req.OrganizationID,
		PartnerID:      p.ID,
		ProjectID:      req.ProjectID,
		RequestedAt:    now,
		DeadlineAt:     deadline,
		Status:         StatusPending,
	}
	if err := s.requests.Create(ctx, request); err != nil {
		zap.L().Error("failed to create report request", zap.Error(err))
		return nil, errutil.Internal("failed to create report request", err)
	}

	return request, nil
}

type ListRequestsFilter struct {
	PartnerID *string
	Status    *RequestStatus
}

func (s *Service) ListRequests(ctx context.Context, scope organization.Scope, filter ListRequestsFilter) ([]*ReportRequest, error) {
	tx := scope.Apply(s.db.WithContext(ctx)).Order("requested_at DESC")
	if filter.PartnerID != nil {
		tx = tx.Where("partner_id = ?", *filter.PartnerID)
	}
	if filter.Status != nil {
		tx = tx.Where("status = ?", *filter.Status)
	}

	var requests []*ReportRequest
	if err := tx.Find(&requests).Error; err != nil {
		zap.L().Error("failed to list report requests", zap.Error(err))
		return nil, errutil.Internal("failed to list report requests", err)
	}
	return requests, nil
}
