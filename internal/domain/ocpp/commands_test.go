package ocpp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKnownAction(t *testing.T) {
	assert.True(t, KnownAction("Reset"))
	assert.True(t, KnownAction("RemoteStartTransaction"))
	assert.True(t, KnownAction("ClearChargingProfile"))
	assert.False(t, KnownAction("reset"))
	assert.False(t, KnownAction("SelfDestruct"))
	assert.False(t, KnownAction(""))
}

func TestCatalogNamesAreUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, a := range Catalog {
		assert.False(t, seen[a.Name], "duplicate action %s", a.Name)
		seen[a.Name] = true
		assert.NotEmpty(t, a.Description, "action %s needs a description", a.Name)
	}
}
