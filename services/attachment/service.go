package attachment

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"time"

	"partnerhub/pkg/config"
	"partnerhub/pkg/errutil"
	"partnerhub/pkg/repository"
	"partnerhub/services/organization"
	"partnerhub/services/report"

	"github.com/bwmarrin/snowflake"
	"github.com/minio/minio-go/v7"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db      *gorm.DB
	node    *snowflake.Node
	repo    repository.Repository[Attachment]
	reports *report.Service
	store   *minio.Client
	bucket  string
}

type ServiceParams struct {
	fx.In
	DB      *gorm.DB
	Node    *snowflake.Node
	Reports *report.Service
	Store   *minio.Client `optional:"true"`
	Config  *config.Config
}

func NewService(p ServiceParams) *Service {
	return &Service{
		db:      p.DB,
		node:    p.Node,
		repo:    repository.ProvideStore[Attachment](p.DB),
		reports: p.Reports,
		store:   p.Store,
		bucket:  p.Config.Minio.BucketName,
	}
}

// Upload validates then stores a file for a report. The object upload happens
// first: if it fails nothing is persisted, so a row always points at a real
// object.
func (s *Service) Upload(ctx context.Context, scope organization.Scope, reportID, fileName, declaredType string, size int64, data []byte) (*Attachment, error) {
	r, err := s.reports.Get(ctx, scope, reportID)
	if err != nil {
		return nil, err
	}

	contentType, err := Validate(fileName, declaredType, size, data)
	if err != nil {
		return nil, err
	}

	id := s.node.Generate().String()
	objectKey := fmt.Sprintf("reports/%s/%s%s", r.ID, id, filepath.Ext(fileName))

	if s.store == nil {
		return nil, errutil.Internal("object storage not configured", nil)
	}

	_, err = s.store.PutObject(ctx, s.bucket, objectKey, bytes.NewReader(data), size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		zap.L().Error("failed to upload attachment object",
			zap.String("report_id", r.ID),
			zap.String("object_key", objectKey),
			zap.Error(err),
		)
		return nil, errutil.Internal("failed to store attachment", err)
	}

	a := &Attachment{
		ID:             id,
		OrganizationID: r.OrganizationID,
		ReportID:       r.ID,
		FileName:       fileName,
		ContentType:    contentType,
		SizeBytes:      size,
		ObjectKey:      objectKey,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		zap.L().Error("failed to create attachment row", zap.String("object_key", objectKey), zap.Error(err))
		return nil, errutil.Internal("failed to create attachment", err)
	}

	return a, nil
}

func (s *Service) ListByReport(ctx context.Context, scope organization.Scope, reportID string) ([]*Attachment, error) {
	if _, err := s.reports.Get(ctx, scope, reportID); err != nil {
		return nil, err
	}

	attachments, err := s.repo.Find(ctx, &Attachment{ReportID: reportID})
	if err != nil {
		return nil, errutil.Internal("failed to list attachments", err)
	}
	return attachments, nil
}

// Delete removes the row and best-effort removes the object. A failed object
// removal only logs; an orphaned object is preferable to a dangling row.
func (s *Service) Delete(ctx context.Context, scope organization.Scope, id string) error {
	q := &Attachment{ID: id}
	if scope.OrganizationID != nil {
		q.OrganizationID = *scope.OrganizationID
	}

	a, err := s.repo.FindOne(ctx, q)
	if err != nil {
		return errutil.Internal("failed to get attachment", err)
	}
	if a == nil {
		return errutil.NotFound("attachment not found", nil)
	}

	if err := s.db.WithContext(ctx).Delete(&Attachment{}, "id = ?", a.ID).Error; err != nil {
		zap.L().Error("failed to delete attachment row", zap.String("attachment_id", a.ID), zap.Error(err))
		return errutil.Internal("failed to delete attachment", err)
	}

	if s.store != nil {
		removeCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.store.RemoveObject(removeCtx, s.bucket, a.ObjectKey, minio.RemoveObjectOptions{}); err != nil {
			zap.L().Warn("failed to remove attachment object",
				zap.String("attachment_id", a.ID),
				zap.String("object_key", a.ObjectKey),
				zap.Error(err),
			)
		}
	}

	return nil
}
