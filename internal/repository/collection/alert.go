package collection

import (
	"context"
	"time"

	"github.com/cmlabs-hris/attendance-go/internal/domain/alert"
	"github.com/cmlabs-hris/attendance-go/internal/pkg/storage"
)

type alertRepositoryImpl struct {
	alerts jsonCollection[alert.Alert]
}

func NewAlertRepository(store storage.BlobStorage) alert.Repository {
	return &alertRepositoryImpl{alerts: newJSONCollection[alert.Alert](store, AlertsKey)}
}

// Create implements alert.Repository.
func (r *alertRepositoryImpl) Create(ctx context.Context, a alert.Alert) error {
	return r.alerts.update(ctx, func(alerts []alert.Alert, _ bool) ([]alert.Alert, error) {
		return append(alerts, a), nil
	})
}

// CreateAbsences implements alert.Repository.
func (r *alertRepositoryImpl) CreateAbsences(ctx context.Context, candidates []alert.Alert, date string, loc *time.Location) ([]alert.Alert, error) {
	var created []alert.Alert
	err := r.alerts.update(ctx, func(alerts []alert.Alert, _ bool) ([]alert.Alert, error) {
		created = created[:0]
		for _, c := range candidates {
			if alert.HasAbsenceOn(alerts, c.UserID, date, loc) {
				continue
			}
			alerts = append(alerts, c)
			created = append(created, c)
		}
		return alerts, nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// List implements alert.Repository.
func (r *alertRepositoryImpl) List(ctx context.Context) ([]alert.Alert, error) {
	alerts, _, err := r.alerts.load(ctx)
	return alerts, err
}

// MarkRead implements alert.Repository.
func (r *alertRepositoryImpl) MarkRead(ctx context.Context, id string) error {
	return r.alerts.update(ctx, func(alerts []alert.Alert, _ bool) ([]alert.Alert, error) {
		for i := range alerts {
			if alerts[i].ID == id {
				alerts[i].Read = true
				break
			}
		}
		return alerts, nil
	})
}

// MarkAllRead implements alert.Repository.
func (r *alertRepositoryImpl) MarkAllRead(ctx context.Context, userID string) (int, error) {
	marked := 0
	err := r.alerts.update(ctx, func(alerts []alert.Alert, _ bool) ([]alert.Alert, error) {
		marked = 0
		for i := range alerts {
			if alerts[i].Read || (userID != "" && alerts[i].UserID != userID) {
				continue
			}
			alerts[i].Read = true
			marked++
		}
		return alerts, nil
	})
	if err != nil {
		return 0, err
	}
	return marked, nil
}

// Clear implements alert.Repository.
func (r *alertRepositoryImpl) Clear(ctx context.Context) error {
	return r.alerts.drop(ctx)
}
