package service

import (
	"context"
	"time"
)

// Health statuses reported per check.
const (
	StatusReady    = "ready"
	StatusOptional = "optional (fallback)"
	StatusMissing  = "missing"
	StatusDown     = "unreachable"
)

// Credential reports whether a vendor client has what it needs to call out.
type Credential interface {
	Configured() bool
}

// ModelDescriber is implemented by vendor clients that can name the models
// they call.
type ModelDescriber interface {
	GetModelInfo() map[string]interface{}
}

// Pinger checks a backing store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Check is one entry of the health report.
type Check struct {
	Configured bool                   `json:"configured"`
	Status     string                 `json:"status"`
	Model      map[string]interface{} `json:"model,omitempty"`
}

// HealthReport is the body of GET /api/health.
type HealthReport struct {
	Status    string           `json:"status"`
	Timestamp time.Time        `json:"timestamp"`
	Checks    map[string]Check `json:"checks"`
}

// Ready reports whether every critical check passed.
func (r HealthReport) Ready() bool { return r.Status == "ok" }

type HealthService struct {
	required map[string]Credential
	optional map[string]Credential
	db       Pinger
	now      func() time.Time
}

// NewHealthService takes the credentials the service cannot run without and
// the ones that only back a fallback.
func NewHealthService(required, optional map[string]Credential, db Pinger) *HealthService {
	return &HealthService{required: required, optional: optional, db: db, now: time.Now}
}

func (s *HealthService) Check(ctx context.Context) HealthReport {
	report := HealthReport{Status: "ok", Timestamp: s.now().UTC(), Checks: map[string]Check{}}

	for name, c := range s.required {
		check := credentialCheck(c, StatusMissing)
		if !check.Configured {
			report.Status = "error"
		}
		report.Checks[name] = check
	}
	for name, c := range s.optional {
		report.Checks[name] = credentialCheck(c, StatusOptional)
	}

	db := Check{Configured: s.db != nil, Status: StatusMissing}
	if s.db != nil {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := s.db.Ping(pingCtx); err != nil {
			db.Status = StatusDown
		} else {
			db.Status = StatusReady
		}
	}
	if db.Status != StatusReady {
		report.Status = "error"
	}
	report.Checks["database"] = db
	return report
}

func credentialCheck(c Credential, unset string) Check {
	check := Check{Configured: c != nil && c.Configured(), Status: StatusReady}
	if !check.Configured {
		check.Status = unset
	}
	if d, ok := c.(ModelDescriber); ok {
		check.Model = d.GetModelInfo()
	}
	return check
}
