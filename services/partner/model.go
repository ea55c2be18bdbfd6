package partner

import (
	"time"

	"gorm.io/datatypes"
)

type Status string

const (
	Active   Status = "active"
	Inactive Status = "inactive"
)

func (s Status) String() string {
	switch s {
	case Active, Inactive:
		return string(s)
	default:
		return ""
	}
}

// Partner is an external collaborator who receives work and submits progress
// reports through token-authenticated public links.
type Partner struct {
	ID             string                      `gorm:"column:id;primaryKey" json:"id"`
	CreatedAt      time.Time                   `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt      time.Time                   `gorm:"column:updated_at" json:"updatedAt"`
	OrganizationID string                      `gorm:"column:organization_id;index" json:"organizationId"`
	Name           string                      `gorm:"column:name" json:"name"`
	Email          string                      `gorm:"column:email;index" json:"email"`
	Company        string                      `gorm:"column:company" json:"company"`
	Skills         datatypes.JSONSlice[string] `gorm:"column:skills" json:"skills"`
	Status         Status                      `gorm:"column:status" json:"status"`
	// Linked marks a partner auto-associated with a user account by email
	// match, without an explicit invitation.
	Linked bool `gorm:"column:linked" json:"linked"`
}

func (Partner) TableName() string {
	return "partners"
}

// HasAnySkill reports whether the partner's skills overlap the given set.
func (p *Partner) HasAnySkill(skills []string) bool {
	if len(skills) == 0 {
		return true
	}
	have := make(map[string]struct{}, len(p.Skills))
	for _, s := range p.Skills {
		have[s] = struct{}{}
	}
	for _, s := range skills {
		if _, ok := have[s]; ok {
			return true
		}
	}
	return false
}
