package report

import (
	"time"

	"gorm.io/datatypes"
)

type Type string

const (
	TypeWeekly    Type = "weekly"
	TypeMilestone Type = "milestone"
	TypeAdHoc     Type = "ad_hoc"
)

func (t Type) Valid() bool {
	switch t {
	case TypeWeekly, TypeMilestone, TypeAdHoc:
		return true
	default:
		return false
	}
}

// Report is a progress report submitted through a token link. Submission never
// requires a prior request; reconciliation attaches the report to one after
// the fact when a matching request exists.
type Report struct {
	ID                    string         `gorm:"column:id;primaryKey" json:"id"`
	CreatedAt             time.Time      `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt             time.Time      `gorm:"column:updated_at" json:"updatedAt"`
	OrganizationID        string         `gorm:"column:organization_id;index" json:"organizationId"`
	PartnerID             string         `gorm:"column:partner_id;index" json:"partnerId"`
	ProjectID             *string        `gorm:"column:project_id;index" json:"projectId"`
	TaskID                *string        `gorm:"column:task_id" json:"taskId"`
	ReportType            Type           `gorm:"column:report_type" json:"reportType"`
	ProgressStatus        string         `gorm:"column:progress_status" json:"progressStatus"`
	Content               string         `gorm:"column:content" json:"content"`
	WeeklyAccomplishments string         `gorm:"column:weekly_accomplishments" json:"weeklyAccomplishments"`
	NextWeekPlan          string         `gorm:"column:next_week_plan" json:"nextWeekPlan"`
	Metadata              datatypes.JSON `gorm:"column:metadata" json:"metadata"`
	SubmittedAt           time.Time      `gorm:"column:submitted_at;index" json:"submittedAt"`
}

func (Report) TableName() string {
	return "reports"
}
