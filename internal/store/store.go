// Package store persists completed analyses so runs can be listed and
// re-inspected without re-reading the source documents.
package store

import (
	"context"
	"time"

	"github.com/sells-group/underwrite-cli/internal/model"
)

// Run is one analyzed document with its persisted result.
type Run struct {
	ID        string          `json:"id"`
	Filename  string          `json:"filename"`
	Kinds     []string        `json:"kinds"`
	RiskScore int             `json:"risk_score"`
	Valid     bool            `json:"valid"`
	Analysis  *model.Analysis `json:"analysis,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// RunFilter narrows ListRuns output.
type RunFilter struct {
	Filename string
	Kind     string
	Limit    int
	Offset   int
}

// Store is the persistence contract for analysis runs.
type Store interface {
	Migrate(ctx context.Context) error
	SaveRun(ctx context.Context, filename string, analysis *model.Analysis) (*Run, error)
	GetRun(ctx context.Context, runID string) (*Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]Run, error)
	Close() error
}
