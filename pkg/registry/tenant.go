package registry

import (
	"maps"
	"time"
)

// Status represents the lifecycle state of a tenant.
type Status string

const (
	StatusProvisioning Status = "provisioning"
	StatusActive       Status = "active"
	StatusSuspended    Status = "suspended"
	StatusDeactivated  Status = "deactivated"
	StatusDeleted      Status = "deleted"
)

// Valid reports whether s is a known lifecycle status.
func (s Status) Valid() bool {
	switch s {
	case StatusProvisioning, StatusActive, StatusSuspended, StatusDeactivated, StatusDeleted:
		return true
	}
	return false
}

// Settings holds per-tenant feature flags and numeric limits.
type Settings map[string]any

// Bool returns the boolean setting for key, or false when absent or not a bool.
func (s Settings) Bool(key string) bool {
	v, _ := s[key].(bool)
	return v
}

// Int returns the numeric setting for key, or def when absent.
// JSON decoding yields float64 for numbers, so both forms are accepted.
func (s Settings) Int(key string, def int64) int64 {
	switch v := s[key].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	}
	return def
}

// String returns the string setting for key, or def when absent.
func (s Settings) String(key, def string) string {
	if v, ok := s[key].(string); ok {
		return v
	}
	return def
}

// Tenant represents a tenant with the metadata needed for request-scoped
// validity checks and routing decisions.
type Tenant struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Status       Status     `json:"status"`
	PlanTier     string     `json:"plan_tier"`
	Settings     Settings   `json:"settings,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	LastActiveAt time.Time  `json:"last_active_at"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty"`
}

// IsActive reports whether the tenant may serve requests.
func (t *Tenant) IsActive() bool {
	return t != nil && t.Status == StatusActive
}

// clone returns a deep enough copy so that callers can never mutate
// registry-owned state through a returned tenant.
func (t *Tenant) clone() *Tenant {
	if t == nil {
		return nil
	}
	cp := *t
	if t.Settings != nil {
		cp.Settings = maps.Clone(t.Settings)
	}
	if t.DeletedAt != nil {
		deletedAt := *t.DeletedAt
		cp.DeletedAt = &deletedAt
	}
	return &cp
}
