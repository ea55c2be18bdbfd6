package organization

import "time"

type Status string

const (
	Active    Status = "active"
	Suspended Status = "suspended"
	Archived  Status = "archived"
)

func (s Status) String() string {
	switch s {
	case Active, Suspended, Archived:
		return string(s)
	default:
		return ""
	}
}

type Organization struct {
	ID        string    `gorm:"column:id;primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updatedAt"`
	Name      string    `gorm:"column:name" json:"name"`
	Slug      string    `gorm:"column:slug" json:"slug"`
	Status    Status    `gorm:"column:status" json:"status"`
}

func (Organization) TableName() string {
	return "organizations"
}
