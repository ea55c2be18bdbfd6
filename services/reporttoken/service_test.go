package reporttoken

import (
	"context"
	"testing"
	"time"

	"partnerhub/services/partner"
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

	db := testutil.NewTestDB(t, &ReportToken{}, &partner.Partner{})

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return NewService(ServiceParams{DB: db, Node: node}), db
}

func seedPartner(t *testing.T, db *gorm.DB) *partner.Partner {
	t.Helper()
	p := &partner.Partner{
		ID:             "p-1",
		OrganizationID: "org-1",
		Name:           "Tanaka",
		Email:          "tanaka@example.com",
		Status:         partner.Active,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func TestGenerateIdempotent(t *testing.T) {
	svc, db := newTestService(t)
	p := seedPartner(t, db)
	ctx := context.Background()

	first, err := svc.Generate(ctx, p.ID, nil, nil)
	require.NoError(t, err)
	require.True(t, first.IsActive)
	require.Len(t, first.Token, 64) // 32 bytes hex encoded
	require.Equal(t, p.OrganizationID, first.OrganizationID)

	second, err := svc.Generate(ctx, p.ID, nil, nil)
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
	require.Equal(t, first.Token, second.Token)

	var count int64
	require.NoError(t, db.Model(&ReportToken{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestGenerateScopesAreIndependent(t *testing.T) {
	svc, db := newTestService(t)
	p := seedPartner(t, db)
	ctx := context.Background()
	projectID := "proj-1"

	unscoped, err := svc.Generate(ctx, p.ID, nil, nil)
	require.NoError(t, err)

	scoped, err := svc.Generate(ctx, p.ID, &projectID, nil)
	require.NoError(t, err)
	require.NotEqual(t, unscoped.ID, scoped.ID)

	// A nil project scope only ever resolves the null-scoped token.
	again, err := svc.Generate(ctx, p.ID, nil, nil)
	require.NoError(t, err)
	require.Equal(t, unscoped.ID, again.ID)
}

func TestGenerateReplacesExpiredToken(t *testing.T) {
	svc, db := newTestService(t)
	p := seedPartner(t, db)
	ctx := context.Background()

	fixed := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	days := 7
	first, err := svc.Generate(ctx, p.ID, nil, &days)
	require.NoError(t, err)

	// Past expiry the stale token is not reused even though it is still
	// marked active; Generate issues a fresh one that authenticates.
	svc.now = func() time.Time { return fixed.AddDate(0, 0, 8) }

	found, err := svc.FindActive(ctx, p.ID, nil)
	require.NoError(t, err)
	require.Nil(t, found)

	second, err := svc.Generate(ctx, p.ID, nil, &days)
	require.NoError(t, err)
	require.NotEqual(t, first.ID, second.ID)
	require.NotEqual(t, first.Token, second.Token)

	_, _, err = svc.Authenticate(ctx, second.Token)
	require.NoError(t, err)
}

func TestRegenerateRotatesToken(t *testing.T) {
	svc, db := newTestService(t)
	p := seedPartner(t, db)
	ctx := context.Background()

	first, err := svc.Generate(ctx, p.ID, nil, nil)
	require.NoError(t, err)

	fresh, err := svc.Regenerate(ctx, p.ID, nil, nil)
	require.NoError(t, err)
	require.NotEqual(t, first.Token, fresh.Token)

	var old ReportToken
	require.NoError(t, db.First(&old, "id = ?", first.ID).Error)
	require.False(t, old.IsActive)

	_, _, err = svc.Authenticate(ctx, first.Token)
	require.Error(t, err)

	_, authed, err := svc.Authenticate(ctx, fresh.Token)
	require.NoError(t, err)
	require.Equal(t, p.ID, authed.ID)
}

func TestTokenValidityBoundaries(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	after := now.Add(time.Second)
	token := &ReportToken{IsActive: true, ExpiresAt: &after}
	require.True(t, token.Valid(now))

	before := now.Add(-time.Second)
	token = &ReportToken{IsActive: true, ExpiresAt: &before}
	require.False(t, token.Valid(now))
	require.True(t, token.Expired(now))

	// Exactly at the boundary counts as expired.
	token = &ReportToken{IsActive: true, ExpiresAt: &now}
	require.False(t, token.Valid(now))

	// No expiry means the token lives until deactivated.
	token = &ReportToken{IsActive: true}
	require.True(t, token.Valid(now))

	token = &ReportToken{IsActive: false}
	require.False(t, token.Valid(now))
}

func TestAuthenticateExpired(t *testing.T) {
	svc, db := newTestService(t)
	p := seedPartner(t, db)
	ctx := context.Background()

	fixed := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	days := 7
	token, err := svc.Generate(ctx, p.ID, nil, &days)
	require.NoError(t, err)
	require.NotNil(t, token.ExpiresAt)

	_, _, err = svc.Authenticate(ctx, token.Token)
	require.NoError(t, err)

	svc.now = func() time.Time { return fixed.AddDate(0, 0, 8) }
	_, _, err = svc.Authenticate(ctx, token.Token)
	require.Error(t, err)
}

func TestAuthenticateUnknownToken(t *testing.T) {
	svc, _ := newTestService(t)

	_, _, err := svc.Authenticate(context.Background(), "no-such-token")
	require.Error(t, err)

	_, _, err = svc.Authenticate(context.Background(), "")
	require.Error(t, err)
}

func TestGenerateMissingPartner(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Generate(context.Background(), "nope", nil, nil)
	require.Error(t, err)
}
