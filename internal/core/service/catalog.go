package service

import (
	"fmt"

	"lares2mqtt/internal/core/domain"
	"lares2mqtt/pkg/lareslink"

	"go.uber.org/zap"
)

// Entity is the long-lived sensor derived from one raw record. Identity
// fields are immutable after construction; state and attributes are replaced
// wholesale by ApplySnapshot. Entities are not safe for concurrent mutation;
// the poller actor is their only writer.
type Entity struct {
	category domain.Category
	id       string
	name     string

	state      State
	attributes map[string]any

	logger *zap.Logger
}

// NewEntity builds an entity from its first observed record. The initial
// reduction happens here, not on the first refresh.
func NewEntity(category domain.Category, rec lareslink.Record, logger *zap.Logger) *Entity {
	e := &Entity{
		category: category,
		id:       rec.ID(),
		name:     displayName(category, rec),
		logger:   logger,
	}
	red := Reduce(category, rec, logger)
	e.state = red.State
	e.attributes = red.Attributes
	return e
}

func (e *Entity) Category() domain.Category {
	return e.category
}

func (e *Entity) Id() string {
	return e.id
}

// UniqueId is the stable external identity key: "<category>_<ID>".
func (e *Entity) UniqueId() string {
	return fmt.Sprintf("%s_%s", e.category, e.id)
}

func (e *Entity) Name() string {
	return e.name
}

func (e *Entity) State() State {
	return e.state
}

func (e *Entity) Attributes() map[string]any {
	return e.attributes
}

func (e *Entity) Descriptor() domain.SensorDescriptor {
	return domain.SensorDescriptor{
		Category: e.category,
		Id:       e.id,
		UniqueId: e.UniqueId(),
		Name:     e.name,
	}
}

// ApplySnapshot scans a freshly fetched category snapshot for this entity's
// record and, when found, re-reduces it and replaces state and attributes in
// one step. A missing record is a silent no-op: the previous state is kept,
// not marked unavailable.
func (e *Entity) ApplySnapshot(records []lareslink.Record) bool {
	for _, rec := range records {
		if rec.ID() == e.id {
			red := Reduce(e.category, rec, e.logger)
			e.state = red.State
			e.attributes = red.Attributes
			return true
		}
	}
	return false
}

func displayName(category domain.Category, rec lareslink.Record) string {
	if name := rec.FirstNonEmpty("NM", "LBL", "DES"); name != "" {
		return name
	}
	return fmt.Sprintf("Sensor %s %s", category.Title(), rec.ID())
}

// Catalog is the fixed set of entities established at startup. Later
// snapshots never add or remove entities.
type Catalog struct {
	entities []*Entity
}

func NewCatalog() *Catalog {
	return &Catalog{}
}

// AddCategory instantiates one entity per record of a category snapshot.
func (c *Catalog) AddCategory(category domain.Category, records []lareslink.Record, logger *zap.Logger) {
	for _, rec := range records {
		c.entities = append(c.entities, NewEntity(category, rec, logger))
	}
}

func (c *Catalog) Entities() []*Entity {
	return c.entities
}

func (c *Catalog) Size() int {
	return len(c.entities)
}

// ByCategory returns the entities of one category in catalog order.
func (c *Catalog) ByCategory(category domain.Category) []*Entity {
	var out []*Entity
	for _, e := range c.entities {
		if e.category == category {
			out = append(out, e)
		}
	}
	return out
}

// Categories returns the distinct categories present, in catalog order.
func (c *Catalog) Categories() []domain.Category {
	var out []domain.Category
	seen := map[domain.Category]bool{}
	for _, e := range c.entities {
		if !seen[e.category] {
			seen[e.category] = true
			out = append(out, e.category)
		}
	}
	return out
}

func (c *Catalog) Descriptors() []domain.SensorDescriptor {
	out := make([]domain.SensorDescriptor, 0, len(c.entities))
	for _, e := range c.entities {
		out = append(out, e.Descriptor())
	}
	return out
}

// FetchCategory runs the snapshot fetch that matches a category: domus and
// system have dedicated calls, everything else goes through the generic
// sensor fetch with the category token.
func FetchCategory(client lareslink.SessionClient, category domain.Category) ([]lareslink.Record, error) {
	switch category {
	case domain.CategoryDomus:
		return client.GetDom()
	case domain.CategorySystem:
		return client.GetSystem()
	default:
		return client.GetSensor(category.FetchArg())
	}
}

// BuildCatalog fetches the five category snapshots sequentially and builds
// the catalog. A failed category fetch is logged and contributes no
// entities; it never aborts the remaining categories.
func BuildCatalog(client lareslink.SessionClient, logger *zap.Logger) *Catalog {
	catalog := NewCatalog()
	for _, category := range domain.Categories {
		records, err := FetchCategory(client, category)
		if err != nil {
			logger.Error("could not fetch category snapshot, skipping",
				zap.String("category", string(category)), zap.Error(err))
			continue
		}
		logger.Debug("received category snapshot",
			zap.String("category", string(category)), zap.Int("records", len(records)))
		catalog.AddCategory(category, records, logger)
	}
	return catalog
}

// RefreshEntity re-fetches the entity's category snapshot and re-applies the
// reducer. The fetch error propagates so the caller can fail this entity's
// refresh alone; a lookup miss does not.
func RefreshEntity(client lareslink.SessionClient, e *Entity) error {
	records, err := FetchCategory(client, e.Category())
	if err != nil {
		return err
	}
	e.ApplySnapshot(records)
	return nil
}
