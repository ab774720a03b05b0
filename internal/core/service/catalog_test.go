package service

import (
	"errors"
	"testing"

	"lares2mqtt/internal/core/domain"
	"lares2mqtt/pkg/lareslink"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCatalog(t *testing.T) {
	require := require.New(t)

	client, err := lareslink.CreateSimulatedSessionClient()
	require.NoError(err)

	catalog := BuildCatalog(client, testLogger)

	require.Equal(8, catalog.Size())
	assert.Len(t, catalog.ByCategory(domain.CategoryDomus), 2)
	assert.Len(t, catalog.ByCategory(domain.CategoryPowerLines), 1)
	assert.Len(t, catalog.ByCategory(domain.CategoryPartitions), 2)
	assert.Len(t, catalog.ByCategory(domain.CategoryZones), 2)
	assert.Len(t, catalog.ByCategory(domain.CategorySystem), 1)

	// entities are created with their first reduction already applied
	meter := catalog.ByCategory(domain.CategoryPowerLines)[0]
	require.True(meter.State().IsNumber())
	assert.EqualValues(t, 1250.5, *meter.State().Number)
}

func TestCatalogIdentity(t *testing.T) {
	require := require.New(t)

	client, err := lareslink.CreateSimulatedSessionClient()
	require.NoError(err)

	catalog := BuildCatalog(client, testLogger)

	probe := catalog.ByCategory(domain.CategoryDomus)[0]
	assert.Equal(t, "domus_1", probe.UniqueId())
	assert.Equal(t, "Living room probe", probe.Name())

	// same raw ID in a different category yields a different unique id
	meter := catalog.ByCategory(domain.CategoryPowerLines)[0]
	assert.Equal(t, "powerlines_1", meter.UniqueId())

	// records without a display field get a generated name
	system := catalog.ByCategory(domain.CategorySystem)[0]
	assert.Equal(t, "Sensor System 1", system.Name())
}

func TestCatalogCategoriesOrder(t *testing.T) {
	require := require.New(t)

	client, err := lareslink.CreateSimulatedSessionClient()
	require.NoError(err)

	catalog := BuildCatalog(client, testLogger)

	assert.Equal(t, []domain.Category{
		domain.CategoryDomus,
		domain.CategoryPowerLines,
		domain.CategoryPartitions,
		domain.CategoryZones,
		domain.CategorySystem,
	}, catalog.Categories())
}

func TestApplySnapshotUpdatesState(t *testing.T) {
	require := require.New(t)

	e := NewEntity(domain.CategoryDomus, lareslink.Record{
		"ID": "1", "NM": "Probe", "T": "+20.0", "STA": "ok",
	}, testLogger)

	found := e.ApplySnapshot([]lareslink.Record{
		{"ID": "7", "T": "+99.9", "STA": "ok"},
		{"ID": "1", "T": "+20.5", "H": "50", "STA": "ok"},
	})

	require.True(found)
	require.True(e.State().IsNumber())
	assert.EqualValues(t, 20.5, *e.State().Number)
	assert.EqualValues(t, 50.0, e.Attributes()["humidity"])
}

func TestApplySnapshotMissKeepsState(t *testing.T) {
	require := require.New(t)

	e := NewEntity(domain.CategoryDomus, lareslink.Record{
		"ID": "1", "NM": "Probe", "T": "+20.0", "STA": "ok",
	}, testLogger)

	found := e.ApplySnapshot([]lareslink.Record{
		{"ID": "7", "T": "+99.9", "STA": "ok"},
	})

	// an entity missing from a snapshot keeps its previous state
	require.False(found)
	require.True(e.State().IsNumber())
	assert.EqualValues(t, 20.0, *e.State().Number)
	assert.Equal(t, "Probe", e.Name())
}

// failingSessionClient fails one category fetch and delegates the rest.
type failingSessionClient struct {
	delegate lareslink.SessionClient
	failArg  string
	failDom  bool
}

func (c failingSessionClient) GetDom() ([]lareslink.Record, error) {
	if c.failDom {
		return nil, errors.New("read timeout")
	}
	return c.delegate.GetDom()
}

func (c failingSessionClient) GetSensor(category string) ([]lareslink.Record, error) {
	if category == c.failArg {
		return nil, errors.New("read timeout")
	}
	return c.delegate.GetSensor(category)
}

func (c failingSessionClient) GetSystem() ([]lareslink.Record, error) {
	return c.delegate.GetSystem()
}

func TestBuildCatalogCategoryFailureIsIsolated(t *testing.T) {
	require := require.New(t)

	delegate, err := lareslink.CreateSimulatedSessionClient()
	require.NoError(err)

	catalog := BuildCatalog(failingSessionClient{
		delegate: delegate,
		failArg:  "POWER_LINES",
	}, testLogger)

	// the failed category contributes no entities, the others are intact
	require.Equal(7, catalog.Size())
	assert.Empty(t, catalog.ByCategory(domain.CategoryPowerLines))
	assert.Len(t, catalog.ByCategory(domain.CategoryDomus), 2)
	assert.Len(t, catalog.ByCategory(domain.CategorySystem), 1)
}

func TestRefreshEntityFetchErrorPropagates(t *testing.T) {
	require := require.New(t)

	delegate, err := lareslink.CreateSimulatedSessionClient()
	require.NoError(err)

	e := NewEntity(domain.CategoryDomus, lareslink.Record{
		"ID": "1", "NM": "Probe", "T": "+20.0", "STA": "ok",
	}, testLogger)

	err = RefreshEntity(failingSessionClient{delegate: delegate, failDom: true}, e)
	require.Error(err)

	// state survives a failed refresh
	require.True(e.State().IsNumber())
	assert.EqualValues(t, 20.0, *e.State().Number)
}

func TestRefreshEntityAppliesSnapshot(t *testing.T) {
	require := require.New(t)

	client, err := lareslink.CreateSimulatedSessionClient()
	require.NoError(err)

	e := NewEntity(domain.CategoryDomus, lareslink.Record{
		"ID": "1", "NM": "Probe", "T": "+10.0", "STA": "ok",
	}, testLogger)

	require.NoError(RefreshEntity(client, e))
	require.True(e.State().IsNumber())
	assert.EqualValues(t, 21.5, *e.State().Number)
}
