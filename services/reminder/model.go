package reminder

import "time"

type Frequency string

const (
	Daily    Frequency = "daily"
	Weekly   Frequency = "weekly"
	Biweekly Frequency = "biweekly"
	Monthly  Frequency = "monthly"
)

func (f Frequency) Valid() bool {
	switch f {
	case Daily, Weekly, Biweekly, Monthly:
		return true
	default:
		return false
	}
}

// ReportSchedule is a recurring rule describing when a partner should be asked
// for a progress report. The scheduling engine advances next_send_at each time
// it fires; schedules are soft-disabled via is_active, never auto-deleted.
type ReportSchedule struct {
	ID             string     `gorm:"column:id;primaryKey" json:"id"`
	CreatedAt      time.Time  `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt      time.Time  `gorm:"column:updated_at" json:"updatedAt"`
	OrganizationID string     `gorm:"column:organization_id;index" json:"organizationId"`
	PartnerID      *string    `gorm:"column:partner_id;index" json:"partnerId"`
	ProjectID      *string    `gorm:"column:project_id" json:"projectId"`
	Name           string     `gorm:"column:name" json:"name"`
	Frequency      Frequency  `gorm:"column:frequency" json:"frequency"`
	DayOfWeek      *int       `gorm:"column:day_of_week" json:"dayOfWeek"`
	DayOfMonth     *int       `gorm:"column:day_of_month" json:"dayOfMonth"`
	TimeOfDay      string     `gorm:"column:time_of_day" json:"timeOfDay"`
	DeadlineDays   int        `gorm:"column:deadline_days" json:"deadlineDays"`
	IsActive       bool       `gorm:"column:is_active" json:"isActive"`
	LastSentAt     *time.Time `gorm:"column:last_sent_at" json:"lastSentAt"`
	NextSendAt     *time.Time `gorm:"column:next_send_at" json:"nextSendAt"`
}

func (ReportSchedule) TableName() string {
	return "report_schedules"
}

type RequestStatus string

const (
	StatusPending   RequestStatus = "pending"
	StatusSubmitted RequestStatus = "submitted"
	StatusOverdue   RequestStatus = "overdue"
	StatusCancelled RequestStatus = "cancelled"
)

// ReportRequest is one expected report instance, tracked to fulfillment or
// escalation. Status only moves pending → {submitted, overdue, cancelled} and
// overdue → submitted; escalation_level never decreases while unfulfilled.
type ReportRequest struct {
	ID              string        `gorm:"column:id;primaryKey" json:"id"`
	CreatedAt       time.Time     `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt       time.Time     `gorm:"column:updated_at" json:"updatedAt"`
	OrganizationID  string        `gorm:"column:organization_id;index" json:"organizationId"`
	ScheduleID      *string       `gorm:"column:schedule_id;index" json:"scheduleId"`
	PartnerID       string        `gorm:"column:partner_id;index" json:"partnerId"`
	ProjectID       *string       `gorm:"column:project_id" json:"projectId"`
	RequestedAt     time.Time     `gorm:"column:requested_at" json:"requestedAt"`
	DeadlineAt      time.Time     `gorm:"column:deadline_at;index" json:"deadlineAt"`
	Status          RequestStatus `gorm:"column:status;index" json:"status"`
	ReportID        *string       `gorm:"column:report_id" json:"reportId"`
	ReminderCount   int           `gorm:"column:reminder_count" json:"reminderCount"`
	LastReminderAt  *time.Time    `gorm:"column:last_reminder_at" json:"lastReminderAt"`
	EscalationLevel int           `gorm:"column:escalation_level" json:"escalationLevel"`
}

func (ReportRequest) TableName() string {
	return "report_requests"
}

// EscalationStep is one rung of the severity ladder: once a request has been
// overdue for at least ThresholdDays, it belongs at Level.
type EscalationStep struct {
	ThresholdDays int
	Level         int
	Action        string
}

// DefaultEscalationLadder returns the production ladder, ordered by threshold.
// The engine takes the ladder at construction so tests can swap it.
func DefaultEscalationLadder() []EscalationStep {
	return []EscalationStep{
		{ThresholdDays: 1, Level: 1, Action: "first_reminder"},
		{ThresholdDays: 3, Level: 2, Action: "second_reminder"},
		{ThresholdDays: 7, Level: 3, Action: "escalation_manager"},
		{ThresholdDays: 14, Level: 4, Action: "escalation_admin"},
	}
}

// TargetLevel returns the highest ladder rung whose threshold daysOverdue
// meets, with its action label. Zero means no rung reached yet.
func TargetLevel(ladder []EscalationStep, daysOverdue int) (int, string) {
	level := 0
	action := ""
	for _, step := range ladder {
		if daysOverdue >= step.ThresholdDays {
			level = step.Level
			action = step.Action
		}
	}
	return level, action
}
