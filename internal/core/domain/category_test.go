package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategoryFetchArg(t *testing.T) {

	assert := assert.New(t)

	assert.Equal("POWER_LINES", CategoryPowerLines.FetchArg(), "powerlines fetch arg")
	assert.Equal("PARTITIONS", CategoryPartitions.FetchArg(), "partitions fetch arg")
	assert.Equal("ZONES", CategoryZones.FetchArg(), "zones fetch arg")
	assert.Equal("OUTPUTS", Category("outputs").FetchArg(), "unknown category uppercased")
}

func TestCategoryTitle(t *testing.T) {

	assert := assert.New(t)

	assert.Equal("Domus", CategoryDomus.Title(), "domus title")
	assert.Equal("System", CategorySystem.Title(), "system title")
}
