package reporttoken

import "time"

// ReportToken is an opaque bearer credential that lets an unauthenticated
// partner reach the public report endpoints, optionally restricted to a single
// project.
type ReportToken struct {
	ID             string     `gorm:"column:id;primaryKey" json:"id"`
	CreatedAt      time.Time  `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt      time.Time  `gorm:"column:updated_at" json:"updatedAt"`
	OrganizationID string     `gorm:"column:organization_id;index" json:"organizationId"`
	Token          string     `gorm:"column:token;uniqueIndex" json:"token"`
	PartnerID      string     `gorm:"column:partner_id;index" json:"partnerId"`
	ProjectID      *string    `gorm:"column:project_id" json:"projectId"`
	ExpiresAt      *time.Time `gorm:"column:expires_at" json:"expiresAt"`
	IsActive       bool       `gorm:"column:is_active" json:"isActive"`
	LastUsedAt     *time.Time `gorm:"column:last_used_at" json:"lastUsedAt"`
}

func (ReportToken) TableName() string {
	return "report_tokens"
}

// Valid reports whether the token grants access at the given instant.
func (t *ReportToken) Valid(now time.Time) bool {
	if !t.IsActive {
		return false
	}
	if t.ExpiresAt != nil && !now.Before(*t.ExpiresAt) {
		return false
	}
	return true
}

// Expired is only meaningful for active tokens; it distinguishes the expiry
// reason from explicit deactivation in logs.
func (t *ReportToken) Expired(now time.Time) bool {
	return t.ExpiresAt != nil && !now.Before(*t.ExpiresAt)
}
