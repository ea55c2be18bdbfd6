package project

import (
	"context"
	"testing"

	"partnerhub/services/organization"
	"partnerhub/services/testutil"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

func newTestService(t *testing.T) *Service {
	t.Helper()

	db := testutil.NewTestDB(t, &Project{}, &Task{})

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return NewService(ServiceParams{DB: db, Node: node})
}

func TestCreateSlugsName(t *testing.T) {
	svc := newTestService(t)

	p, err := svc.Create(context.Background(), CreateProjectRequest{
		OrganizationID: "org-1",
		Name:           "Data Platform Migration",
	})
	require.NoError(t, err)
	require.Equal(t, "data-platform-migration", p.Slug)
	require.Equal(t, Planning, p.Status)
}

func TestTaskLifecycleAndStats(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	scope := organization.Scope{}

	partnerID := "p-1"
	p, err := svc.Create(ctx, CreateProjectRequest{
		OrganizationID: "org-1",
		PartnerID:      &partnerID,
		Name:           "API Rewrite",
	})
	require.NoError(t, err)

	first, err := svc.CreateTask(ctx, scope, p.ID, CreateTaskRequest{Title: "design endpoints"})
	require.NoError(t, err)
	require.Equal(t, TaskTodo, first.Status)

	_, err = svc.CreateTask(ctx, scope, p.ID, CreateTaskRequest{Title: "implement handlers"})
	require.NoError(t, err)

	_, err = svc.UpdateTaskStatus(ctx, scope, first.ID, TaskDone)
	require.NoError(t, err)

	tasks, err := svc.ListTasks(ctx, scope, p.ID)
	require.NoError(t, err)
	require.Len(t, tasks, 2)

	stats, err := svc.StatsByPartner(ctx, partnerID)
	require.NoError(t, err)
	require.EqualValues(t, 2, stats.Total)
	require.EqualValues(t, 1, stats.Done)
	require.EqualValues(t, 1, stats.Todo)
}

func TestCreateTaskRejectsBadDueDate(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, CreateProjectRequest{
		OrganizationID: "org-1",
		Name:           "Due dates",
	})
	require.NoError(t, err)

	bad := "03/15/2026"
	_, err = svc.CreateTask(ctx, organization.Scope{}, p.ID, CreateTaskRequest{Title: "x", DueDate: &bad})
	require.Error(t, err)

	good := "2026-03-15"
	task, err := svc.CreateTask(ctx, organization.Scope{}, p.ID, CreateTaskRequest{Title: "y", DueDate: &good})
	require.NoError(t, err)
	require.NotNil(t, task.DueDate)
}

func TestListByPartnerScopesToProject(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	partnerID := "p-1"
	a, err := svc.Create(ctx, CreateProjectRequest{
		OrganizationID: "org-1", PartnerID: &partnerID, Name: "A",
	})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateProjectRequest{
		OrganizationID: "org-1", PartnerID: &partnerID, Name: "B",
	})
	require.NoError(t, err)

	all, err := svc.ListByPartner(ctx, partnerID, nil)
	require.NoError(t, err)
	require.Len(t, all, 2)

	only, err := svc.ListByPartner(ctx, partnerID, &a.ID)
	require.NoError(t, err)
	require.Len(t, only, 1)
	require.Equal(t, a.ID, only[0].ID)
}
