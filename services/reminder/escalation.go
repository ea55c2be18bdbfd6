package reminder

import (
	"context"
	"fmt"
	"sync/atomic"

	"partnerhub/pkg/errutil"
	"partnerhub/services/partner"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const escalationConcurrency = 4

// urgencyMarker picks the subject prefix: requests a week or more past their
// deadline are flagged urgent.
func urgencyMarker(daysOverdue int) string {
	if daysOverdue >= 7 {
		return "【至急】"
	}
	return "【リマインダー】"
}

// ProcessReminders walks every unfulfilled request past its deadline and moves
// it up the escalation ladder. A request is notified at most once per rung:
// if its stored level already covers the target level, it is left alone until
// the next threshold passes. Both pending and overdue rows are scanned because
// the first reminder flips status to overdue.
func (s *Service) ProcessReminders(ctx context.Context) (int, error) {
	span := trace.SpanFromContext(ctx)
	now := s.now()

	var due []*ReportRequest
	err := s.db.WithContext(ctx).
		Where("status IN ? AND deadline_at < ?", []RequestStatus{StatusPending, StatusOverdue}, now).
		Find(&due).Error
	if err != nil {
		zap.L().Error("failed to query overdue report requests", zap.Error(err))
		return 0, errutil.Internal("failed to query overdue report requests", err)
	}

	var escalated atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(escalationConcurrency)

	for _, request := range due {
		request := request
		g.Go(func() error {
			ok, err := s.escalateRequest(gctx, request)
			if err != nil {
				zap.L().Error("failed to escalate report request",
					zap.String("request_id", request.ID),
					zap.Error(err),
				)
				return nil // one bad request never aborts the batch
			}
			if ok {
				escalated.Add(1)
			}
			return nil
		})
	}

	_ = g.Wait()

	span.SetAttributes(
		attribute.Int("reminder.requests_overdue", len(due)),
		attribute.Int64("reminder.requests_escalated", escalated.Load()),
	)
	zap.L().Info("processed overdue report requests",
		zap.Int("due", len(due)),
		zap.Int64("escalated", escalated.Load()),
	)

	return int(escalated.Load()), nil
}

func (s *Service) escalateRequest(ctx context.Context, request *ReportRequest) (bool, error) {
	now := s.now()
	daysOverdue := int(now.Sub(request.DeadlineAt).Hours() / 24)

	target, action := TargetLevel(s.ladder, daysOverdue)
	if target <= request.EscalationLevel {
		return false, nil
	}

	p, err := s.partners.FindOne(ctx, &partner.Partner{ID: request.PartnerID})
	if err != nil {
		return false, fmt.Errorf("failed to get partner: %w", err)
	}

	if p != nil {
		if err := s.sendEscalationEmail(ctx, request, p, daysOverdue, action); err != nil {
			// Delivery failure must not stall the ladder; the level still
			// advances so the same rung is not retried forever.
			zap.L().Error("failed to send escalation email",
				zap.String("request_id", request.ID),
				zap.String("partner_id", request.PartnerID),
				zap.String("action", action),
				zap.Error(err),
			)
		}
	} else {
		zap.L().Warn("overdue report request references missing partner",
			zap.String("request_id", request.ID),
			zap.String("partner_id", request.PartnerID),
		)
	}

	err = s.requests.Update(ctx, request.ID, map[string]any{
		"status":           StatusOverdue,
		"escalation_level": target,
		"reminder_count":   request.ReminderCount + 1,
		"last_reminder_at": now,
	})
	if err != nil {
		return false, fmt.Errorf("failed to update report request: %w", err)
	}

	zap.L().Info("escalated report request",
		zap.String("request_id", request.ID),
		zap.Int("days_overdue", daysOverdue),
		zap.Int("level", target),
		zap.String("action", action),
	)

	return true, nil
}

func (s *Service) sendEscalationEmail(ctx context.Context, request *ReportRequest, p *partner.Partner, daysOverdue int, action string) error {
	token, err := s.tokens.FindActive(ctx, p.ID, request.ProjectID)
	if err != nil {
		return err
	}

	link := s.cfg.PublicBaseURL
	if token != nil {
		link = fmt.Sprintf("%s/report/%s", s.cfg.PublicBaseURL, token.Token)
	}
	deadline := request.DeadlineAt.Format("2006-01-02 15:04")

	subject := fmt.Sprintf("%s報告が未提出です（期限超過 %d日）", urgencyMarker(daysOverdue), daysOverdue)
	text := fmt.Sprintf(
		"%s 様\n\n%s 期限の報告がまだ提出されていません。\n至急ご提出をお願いいたします。\n\n%s\n",
		p.Name, deadline, link,
	)
	html := fmt.Sprintf(
		"<p>%s 様</p><p>%s 期限の報告がまだ提出されていません。至急ご提出をお願いいたします。</p><p><a href=%q>報告を提出する</a></p>",
		p.Name, deadline, link,
	)

	return s.mail.Send(ctx, p.Email, subject, text, html)
}
