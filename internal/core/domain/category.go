package domain

import "strings"

// Category is one of the controller device groupings. It selects both the
// snapshot fetch call and the state reducer that applies to a record, and is
// fixed for the lifetime of an entity.
type Category string

const (
	CategoryDomus      Category = "domus"
	CategoryPowerLines Category = "powerlines"
	CategoryPartitions Category = "partitions"
	CategoryZones      Category = "zones"
	CategorySystem     Category = "system"
)

// Categories is the fixed fetch order used to build the catalog. The order
// only affects log output, not correctness.
var Categories = []Category{
	CategoryDomus,
	CategoryPowerLines,
	CategoryPartitions,
	CategoryZones,
	CategorySystem,
}

// FetchArg maps a category to the token expected by the generic sensor
// fetch. Named categories use the controller vocabulary; anything else is
// passed uppercased.
func (c Category) FetchArg() string {
	switch c {
	case CategoryPowerLines:
		return "POWER_LINES"
	case CategoryPartitions:
		return "PARTITIONS"
	case CategoryZones:
		return "ZONES"
	default:
		return strings.ToUpper(string(c))
	}
}

// Title renders the category for generated display names ("Sensor Domus 3").
func (c Category) Title() string {
	s := string(c)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
