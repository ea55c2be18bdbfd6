package migrate

import (
	"partnerhub/services/attachment"
	"partnerhub/services/organization"
	"partnerhub/services/partner"
	"partnerhub/services/project"
	"partnerhub/services/reminder"
	"partnerhub/services/report"
	"partnerhub/services/reporttoken"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("migrate", fx.Invoke(Run))

// Run applies the schema for every service model. AutoMigrate is additive
// only, so it is safe to run on every boot.
func Run(db *gorm.DB) error {
	err := db.AutoMigrate(
		&organization.Organization{},
		&partner.Partner{},
		&project.Project{},
		&project.Task{},
		&report.Report{},
		&attachment.Attachment{},
		&reminder.ReportSchedule{},
		&reminder.ReportRequest{},
		&reporttoken.ReportToken{},
	)
	if err != nil {
		zap.L().Error("failed to migrate database schema", zap.Error(err))
		return err
	}

	zap.L().Info("database schema up to date")
	return nil
}
