package repository

import (
	"context"

	"github.com/diillson/sms-kpi-dashboard-go/internal/domain/entity"
	"github.com/diillson/sms-kpi-dashboard-go/internal/shared/types"
)

// PublishRepository uploads exported files to remote storage.
type PublishRepository interface {
	Publish(ctx context.Context, target types.PublishTarget, files []string) ([]entity.PublishedObject, error)
}
