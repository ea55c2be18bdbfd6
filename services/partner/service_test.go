package partner

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

	db := testutil.NewTestDB(t, &Partner{})

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return NewService(ServiceParams{DB: db, Node: node})
}

func TestCreateRejectsDuplicateEmail(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreatePartnerRequest{
		OrganizationID: "org-1",
		Name:           "Yamada",
		Email:          "yamada@example.com",
	})
	require.NoError(t, err)

	_, err = svc.Create(ctx, CreatePartnerRequest{
		OrganizationID: "org-1",
		Name:           "Yamada Again",
		Email:          "yamada@example.com",
	})
	require.Error(t, err)

	// The same email in another organization is a different partner.
	_, err = svc.Create(ctx, CreatePartnerRequest{
		OrganizationID: "org-2",
		Name:           "Yamada",
		Email:          "yamada@example.com",
	})
	require.NoError(t, err)
}

func TestListFiltersBySkillOverlap(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreatePartnerRequest{
		OrganizationID: "org-1", Name: "Go Dev", Email: "go@example.com",
		Skills: []string{"go", "postgres"},
	})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreatePartnerRequest{
		OrganizationID: "org-1", Name: "Designer", Email: "design@example.com",
		Skills: []string{"figma"},
	})
	require.NoError(t, err)

	orgID := "org-1"
	scope := organization.Scope{OrganizationID: &orgID}

	all, err := svc.List(ctx, scope, nil)
	require.NoError(t, err)
	require.Len(t, all, 2)

	matched, err := svc.List(ctx, scope, []string{"go", "rust"})
	require.NoError(t, err)
	require.Len(t, matched, 1)
	require.Equal(t, "Go Dev", matched[0].Name)

	none, err := svc.List(ctx, scope, []string{"rust"})
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestScopeIsolation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreatePartnerRequest{
		OrganizationID: "org-1", Name: "Scoped", Email: "scoped@example.com",
	})
	require.NoError(t, err)

	other := "org-2"
	_, err = svc.Get(ctx, organization.Scope{OrganizationID: &other}, created.ID)
	require.Error(t, err)

	// The unscoped admin view still sees it.
	got, err := svc.Get(ctx, organization.Scope{}, created.ID)
	require.NoError(t, err)
	require.Equal(t, created.ID, got.ID)
}

func TestFindLinkedByEmail(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreatePartnerRequest{
		OrganizationID: "org-1", Name: "Linkable", Email: "link@example.com",
	})
	require.NoError(t, err)
	require.False(t, created.Linked)

	linked, err := svc.FindLinkedByEmail(ctx, "link@example.com")
	require.NoError(t, err)
	require.NotNil(t, linked)
	require.True(t, linked.Linked)

	// An ambiguous email never links.
	_, err = svc.Create(ctx, CreatePartnerRequest{
		OrganizationID: "org-2", Name: "Twin", Email: "link@example.com",
	})
	require.NoError(t, err)

	ambiguous, err := svc.FindLinkedByEmail(ctx, "link@example.com")
	require.NoError(t, err)
	require.Nil(t, ambiguous)

	missing, err := svc.FindLinkedByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	require.Nil(t, missing)
}
