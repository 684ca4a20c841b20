package health

import (
	"context"
	"time"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

const pingTimeout = 2 * time.Second

// Storage backends reported by Status.
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// Report is the /healthz payload.
type Report struct {
	OK       bool   `json:"ok"`
	Storage  string `json:"storage"`
	Database string `json:"database,omitempty"`
}

// Service encapsulates health-related checks.
type Service struct {
	db Pinger
}

// NewService constructs a health service. A nil db means the process runs on
// in-memory repositories.
func NewService(db Pinger) *Service {
	return &Service{db: db}
}

// Status pings the database, if any.
func (s *Service) Status(ctx context.Context) Report {
	if s == nil || s.db == nil {
		return Report{OK: true, Storage: StorageMemory}
	}
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := s.db.PingContext(pingCtx); err != nil {
		return Report{OK: false, Storage: StoragePostgres, Database: "down"}
	}
	return Report{OK: true, Storage: StoragePostgres, Database: "up"}
}
