package project

import "time"

type Status string

const (
	Planning Status = "planning"
	Active   Status = "active"
	OnHold   Status = "on_hold"
	Done     Status = "done"
)

type Project struct {
	ID             string    `gorm:"column:id;primaryKey" json:"id"`
	CreatedAt      time.Time `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt      time.Time `gorm:"column:updated_at" json:"updatedAt"`
	OrganizationID string    `gorm:"column:organization_id;index" json:"organizationId"`
	PartnerID      *string   `gorm:"column:partner_id;index" json:"partnerId"`
	Name           string    `gorm:"column:name" json:"name"`
	Slug           string    `gorm:"column:slug" json:"slug"`
	Description    string    `gorm:"column:description" json:"description"`
	Status         Status    `gorm:"column:status" json:"status"`
}

func (Project) TableName() string {
	return "projects"
}

type TaskStatus string

const (
	TaskTodo       TaskStatus = "todo"
	TaskInProgress TaskStatus = "in_progress"
	TaskDone       TaskStatus = "done"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskTodo, TaskInProgress, TaskDone:
		return true
	default:
		return false
	}
}

type Task struct {
	ID             string     `gorm:"column:id;primaryKey" json:"id"`
	CreatedAt      time.Time  `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt      time.Time  `gorm:"column:updated_at" json:"updatedAt"`
	OrganizationID string     `gorm:"column:organization_id;index" json:"organizationId"`
	ProjectID      string     `gorm:"column:project_id;index" json:"projectId"`
	Title          string     `gorm:"column:title" json:"title"`
	Status         TaskStatus `gorm:"column:status" json:"status"`
	DueDate        *time.Time `gorm:"column:due_date" json:"dueDate"`
}

func (Task) TableName() string {
	return "project_tasks"
}

// TaskStats aggregates task counts for dashboard views.
type TaskStats struct {
	Total      int64 `json:"total"`
	Todo       int64 `json:"todo"`
	InProgress int64 `json:"inProgress"`
	Done       int64 `json:"done"`
}
