package attachment

import "time"

// Attachment is a stored file linked to a report. The object lives in the
// configured bucket under ObjectKey; the row is only written after the object
// upload succeeds.
type Attachment struct {
	ID             string    `gorm:"column:id;primaryKey" json:"id"`
	CreatedAt      time.Time `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt      time.Time `gorm:"column:updated_at" json:"updatedAt"`
	OrganizationID string    `gorm:"column:organization_id;index" json:"organizationId"`
	ReportID       string    `gorm:"column:report_id;index" json:"reportId"`
	FileName       string    `gorm:"column:file_name" json:"fileName"`
	ContentType    string    `gorm:"column:content_type" json:"contentType"`
	SizeBytes      int64     `gorm:"column:size_bytes" json:"sizeBytes"`
	ObjectKey      string    `gorm:"column:object_key" json:"objectKey"`
}

func (Attachment) TableName() string {
	return "attachments"
}
