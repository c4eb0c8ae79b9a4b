package registry_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/tenantcore/pkg/registry"
)

func TestStatusValid(t *testing.T) {
	t.Parallel()

	for _, s := range []registry.Status{
		registry.StatusProvisioning, registry.StatusActive, registry.StatusSuspended,
		registry.StatusDeactivated, registry.StatusDeleted,
	} {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, registry.Status("frozen").Valid())
	assert.False(t, registry.Status("").Valid())
}

func TestSettings(t *testing.T) {
	t.Parallel()

	s := registry.Settings{
		"sso_enabled":  true,
		"max_seats":    float64(25), // JSON numbers decode as float64
		"max_projects": 10,
		"region":       "eu-west-1",
	}

	assert.True(t, s.Bool("sso_enabled"))
	assert.False(t, s.Bool("missing"))
	assert.False(t, s.Bool("region"))

	assert.Equal(t, int64(25), s.Int("max_seats", 0))
	assert.Equal(t, int64(10), s.Int("max_projects", 0))
	assert.Equal(t, int64(5), s.Int("missing", 5))

	assert.Equal(t, "eu-west-1", s.String("region", ""))
	assert.Equal(t, "us-east-1", s.String("missing", "us-east-1"))
}

func TestTenantIsActive(t *testing.T) {
	t.Parallel()

	assert.True(t, (&registry.Tenant{Status: registry.StatusActive}).IsActive())
	assert.False(t, (&registry.Tenant{Status: registry.StatusSuspended}).IsActive())

	var nilTenant *registry.Tenant
	assert.False(t, nilTenant.IsActive())
}
