package storage

import (
	"context"
	"errors"

	"github.com/tidalpow/backend-go/internal/models"
)

// ErrNotFound is returned by Load when no report has been written yet.
var ErrNotFound = errors.New("report not found")

// Store persists the latest report. Each Save fully replaces the previous
// report.
type Store interface {
	Save(ctx context.Context, report *models.Report) error
	Load(ctx context.Context) (*models.Report, error)
}
