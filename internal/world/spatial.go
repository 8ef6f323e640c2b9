package world

import "math"

// cellKey addresses one bucket of the spatial hash grid.
type cellKey struct {
	cx, cy int32
}

// SpatialGrid buckets entity positions into fixed-size cells so radius
// queries touch only nearby cells instead of every entity.
type SpatialGrid struct {
	cellSize float64
	cells    map[cellKey][]EntityID
	entities map[EntityID]gridEntry
}

type gridEntry struct {
	pos  Vec2
	kind EntityKind
}

// NewSpatialGrid creates a grid with the given cell size. Cell size
// should roughly match the common query radius.
func NewSpatialGrid(cellSize float64) *SpatialGrid {
	if cellSize <= 0 {
		cellSize = 10
	}
	return &SpatialGrid{
		cellSize: cellSize,
		cells:    make(map[cellKey][]EntityID),
		entities: make(map[EntityID]gridEntry),
	}
}

func (g *SpatialGrid) key(p Vec2) cellKey {
	return cellKey{
		cx: int32(math.Floor(p.X / g.cellSize)),
		cy: int32(math.Floor(p.Y / g.cellSize)),
	}
}

// Insert registers or moves an entity.
func (g *SpatialGrid) Insert(id EntityID, pos Vec2, kind EntityKind) {
	if old, ok := g.entities[id]; ok {
		oldKey := g.key(old.pos)
		newKey := g.key(pos)
		if oldKey == newKey {
			g.entities[id] = gridEntry{pos: pos, kind: kind}
			return
		}
		g.removeFromCell(oldKey, id)
	}
	k := g.key(pos)
	g.cells[k] = append(g.cells[k], id)
	g.entities[id] = gridEntry{pos: pos, kind: kind}
}

// Remove deletes an entity from the grid. Removing an unknown ID is a
// no-op.
func (g *SpatialGrid) Remove(id EntityID) {
	e, ok := g.entities[id]
	if !ok {
		return
	}
	g.removeFromCell(g.key(e.pos), id)
	delete(g.entities, id)
}

func (g *SpatialGrid) removeFromCell(k cellKey, id EntityID) {
	bucket := g.cells[k]
	for i, other := range bucket {
		if other == id {
			bucket[i] = bucket[len(bucket)-1]
			g.cells[k] = bucket[:len(bucket)-1]
			break
		}
	}
	if len(g.cells[k]) == 0 {
		delete(g.cells, k)
	}
}

// Hit is one result of a radius query.
type Hit struct {
	ID       EntityID
	Pos      Vec2
	Kind     EntityKind
	Distance float64
}

// QueryRadius returns all entities within radius of pos, with exact
// distances. Order is unspecified.
func (g *SpatialGrid) QueryRadius(pos Vec2, radius float64) []Hit {
	if radius <= 0 {
		return nil
	}
	minX := int32(math.Floor((pos.X - radius) / g.cellSize))
	maxX := int32(math.Floor((pos.X + radius) / g.cellSize))
	minY := int32(math.Floor((pos.Y - radius) / g.cellSize))
	maxY := int32(math.Floor((pos.Y + radius) / g.cellSize))

	var hits []Hit
	for cx := minX; cx <= maxX; cx++ {
		for cy := minY; cy <= maxY; cy++ {
			for _, id := range g.cells[cellKey{cx, cy}] {
				e := g.entities[id]
				d := pos.DistanceTo(e.pos)
				if d <= radius {
					hits = append(hits, Hit{ID: id, Pos: e.pos, Kind: e.kind, Distance: d})
				}
			}
		}
	}
	return hits
}

// Len returns the number of registered entities.
func (g *SpatialGrid) Len() int {
	return len(g.entities)
}
