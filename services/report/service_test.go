package report

import (
	"context"
	"testing"
	"time"

	"partnerhub/pkg/db/pagination"
	"partnerhub/services/organization"
	"partnerhub/services/partner"
	"partnerhub/services/project"
	"partnerhub/services/reminder"
	"partnerhub/services/testutil"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	db := testutil.NewTestDB(t,
		&Report{},
		&partner.Partner{},
		&project.Project{},
		&project.Task{},
		&reminder.ReportRequest{},
	)

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	projects := project.NewService(project.ServiceParams{DB: db, Node: node})
	svc := NewService(ServiceParams{DB: db, Node: node, Projects: projects})

	return svc, db
}

func seedPartner(t *testing.T, db *gorm.DB) *partner.Partner {
	t.Helper()
	p := &partner.Partner{
		ID:             "p-1",
		OrganizationID: "org-1",
		Name:           "Suzuki",
		Email:          "suzuki@example.com",
		Status:         partner.Active,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func seedRequest(t *testing.T, db *gorm.DB, id string, status reminder.RequestStatus, requestedAt time.Time) {
	t.Helper()
	require.NoError(t, db.Create(&reminder.ReportRequest{
		ID:             id,
		OrganizationID: "org-1",
		PartnerID:      "p-1",
		RequestedAt:    requestedAt,
		DeadlineAt:     requestedAt.AddDate(0, 0, 3),
		Status:         status,
	}).Error)
}

func TestSubmitReconcilesLatestRequests(t *testing.T) {
	svc, db := newTestService(t)
	p := seedPartner(t, db)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	seedRequest(t, db, "req-old-pending", reminder.StatusPending, base)
	seedRequest(t, db, "req-new-pending", reminder.StatusPending, base.AddDate(0, 0, 7))
	seedRequest(t, db, "req-overdue", reminder.StatusOverdue, base.AddDate(0, 0, 3))

	r, err := svc.Submit(ctx, p, nil, SubmitReportRequest{
		ReportType: "weekly",
		Content:    "progress going well",
	})
	require.NoError(t, err)
	require.NotEmpty(t, r.ID)

	// The most recent pending request and the overdue one are fulfilled.
	var fulfilled reminder.ReportRequest
	require.NoError(t, db.First(&fulfilled, "id = ?", "req-new-pending").Error)
	require.Equal(t, reminder.StatusSubmitted, fulfilled.Status)
	require.NotNil(t, fulfilled.ReportID)
	require.Equal(t, r.ID, *fulfilled.ReportID)

	var overdue reminder.ReportRequest
	require.NoError(t, db.First(&overdue, "id = ?", "req-overdue").Error)
	require.Equal(t, reminder.StatusSubmitted, overdue.Status)

	// The older pending request stays open.
	var untouched reminder.ReportRequest
	require.NoError(t, db.First(&untouched, "id = ?", "req-old-pending").Error)
	require.Equal(t, reminder.StatusPending, untouched.Status)
	require.Nil(t, untouched.ReportID)
}

func TestSubmitReconcilesAcrossProjects(t *testing.T) {
	svc, db := newTestService(t)
	p := seedPartner(t, db)

	// The outstanding request names one project, the report another. The
	// submission still counts: requests reconcile per partner, not per project.
	otherProject := "proj-other"
	require.NoError(t, db.Create(&reminder.ReportRequest{
		ID:             "req-other-project",
		OrganizationID: "org-1",
		PartnerID:      p.ID,
		ProjectID:      &otherProject,
		RequestedAt:    time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		DeadlineAt:     time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC),
		Status:         reminder.StatusPending,
	}).Error)

	mine := "proj-mine"
	r, err := svc.Submit(context.Background(), p, nil, SubmitReportRequest{
		ProjectID:  &mine,
		ReportType: "weekly",
		Content:    "done for the week",
	})
	require.NoError(t, err)

	var fulfilled reminder.ReportRequest
	require.NoError(t, db.First(&fulfilled, "id = ?", "req-other-project").Error)
	require.Equal(t, reminder.StatusSubmitted, fulfilled.Status)
	require.NotNil(t, fulfilled.ReportID)
	require.Equal(t, r.ID, *fulfilled.ReportID)
}

func TestSubmitWithoutOutstandingRequests(t *testing.T) {
	svc, db := newTestService(t)
	p := seedPartner(t, db)

	r, err := svc.Submit(context.Background(), p, nil, SubmitReportRequest{
		ReportType: "ad_hoc",
		Content:    "unsolicited update",
	})
	require.NoError(t, err)

	var stored Report
	require.NoError(t, db.First(&stored, "id = ?", r.ID).Error)
	require.Equal(t, TypeAdHoc, stored.ReportType)
	require.Equal(t, p.ID, stored.PartnerID)
}

func TestSubmitRejectsUnknownType(t *testing.T) {
	svc, db := newTestService(t)
	p := seedPartner(t, db)

	_, err := svc.Submit(context.Background(), p, nil, SubmitReportRequest{
		ReportType: "quarterly",
	})
	require.Error(t, err)

	var count int64
	require.NoError(t, db.Model(&Report{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestSubmitInheritsTokenProjectScope(t *testing.T) {
	svc, db := newTestService(t)
	p := seedPartner(t, db)
	projectID := "proj-1"

	r, err := svc.Submit(context.Background(), p, &projectID, SubmitReportRequest{
		ReportType: "weekly",
		Content:    "scoped report",
	})
	require.NoError(t, err)
	require.NotNil(t, r.ProjectID)
	require.Equal(t, projectID, *r.ProjectID)
}

func TestHistoryCapsAtTwenty(t *testing.T) {
	svc, db := newTestService(t)
	p := seedPartner(t, db)

	base := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 25; i++ {
		require.NoError(t, db.Create(&Report{
			ID:             svcID(t, svc),
			OrganizationID: p.OrganizationID,
			PartnerID:      p.ID,
			ReportType:     TypeWeekly,
			SubmittedAt:    base.AddDate(0, 0, i),
		}).Error)
	}

	reports, err := svc.History(context.Background(), p.ID, nil)
	require.NoError(t, err)
	require.Len(t, reports, 20)

	// Newest first.
	require.True(t, reports[0].SubmittedAt.After(reports[1].SubmittedAt))
}

func svcID(t *testing.T, svc *Service) string {
	t.Helper()
	return svc.node.Generate().String()
}

func TestListPaginatesWithCursor(t *testing.T) {
	svc, db := newTestService(t)
	p := seedPartner(t, db)

	base := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 15; i++ {
		require.NoError(t, db.Create(&Report{
			ID:             svcID(t, svc),
			OrganizationID: p.OrganizationID,
			PartnerID:      p.ID,
			ReportType:     TypeWeekly,
			SubmittedAt:    base.AddDate(0, 0, i),
		}).Error)
	}

	scope := organization.Scope{}

	first, err := svc.List(context.Background(), scope, ListFilter{}, pagination.Pagination{Limit: 10})
	require.NoError(t, err)
	require.Len(t, first.Reports, 10)
	require.True(t, first.PageInfo.HasMore)
	require.NotEmpty(t, first.PageInfo.NextCursor)

	second, err := svc.List(context.Background(), scope, ListFilter{}, pagination.Pagination{
		Limit:  10,
		Cursor: first.PageInfo.NextCursor,
	})
	require.NoError(t, err)
	require.Len(t, second.Reports, 5)
	require.False(t, second.PageInfo.HasMore)

	// No overlap between pages.
	seen := map[string]bool{}
	for _, r := range first.Reports {
		seen[r.ID] = true
	}
	for _, r := range second.Reports {
		require.False(t, seen[r.ID])
	}
}

func TestBuildDashboard(t *testing.T) {
	svc, db := newTestService(t)
	p := seedPartner(t, db)

	require.NoError(t, db.Create(&project.Project{
		ID:             "proj-1",
		OrganizationID: p.OrganizationID,
		PartnerID:      &p.ID,
		Name:           "Migration",
		Status:         project.Active,
	}).Error)
	require.NoError(t, db.Create(&project.Task{
		ID:             "task-1",
		OrganizationID: p.OrganizationID,
		ProjectID:      "proj-1",
		Title:          "write migration plan",
		Status:         project.TaskDone,
	}).Error)

	for i := 0; i < 7; i++ {
		require.NoError(t, db.Create(&Report{
			ID:             svcID(t, svc),
			OrganizationID: p.OrganizationID,
			PartnerID:      p.ID,
			ReportType:     TypeWeekly,
			SubmittedAt:    time.Date(2026, 3, 1+i, 9, 0, 0, 0, time.UTC),
		}).Error)
	}

	dashboard, err := svc.BuildDashboard(context.Background(), p, nil)
	require.NoError(t, err)
	require.Len(t, dashboard.Projects, 1)
	require.EqualValues(t, 1, dashboard.TaskStats.Total)
	require.EqualValues(t, 1, dashboard.TaskStats.Done)
	require.Len(t, dashboard.RecentReports, 5)
}
