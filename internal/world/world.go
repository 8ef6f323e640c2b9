package world

// World owns the mutable spatial state: resources, threats, and the
// grid tracking everything with a position (agents included — the
// engine keeps their grid entries current). All mutation happens on
// the tick goroutine; decision passes read only through a Snapshot.
type World struct {
	Grid      *SpatialGrid
	Resources map[EntityID]*Resource
	Threats   map[EntityID]*Threat

	nextID EntityID
}

// New creates an empty world with the given grid cell size.
func New(cellSize float64) *World {
	return &World{
		Grid:      NewSpatialGrid(cellSize),
		Resources: make(map[EntityID]*Resource),
		Threats:   make(map[EntityID]*Threat),
		nextID:    1,
	}
}

// NextID allocates a fresh entity ID. Agent IDs are allocated here too
// so grid IDs never collide across kinds.
func (w *World) NextID() EntityID {
	id := w.nextID
	w.nextID++
	return id
}

// AddResource registers a resource and indexes it in the grid.
func (w *World) AddResource(kind ResourceKind, pos Vec2, amount float64) *Resource {
	r := &Resource{ID: w.NextID(), Kind: kind, Pos: pos, Amount: amount}
	w.Resources[r.ID] = r
	w.Grid.Insert(r.ID, pos, KindResource)
	return r
}

// RemoveResource drops a resource from the world and the grid.
func (w *World) RemoveResource(id EntityID) {
	delete(w.Resources, id)
	w.Grid.Remove(id)
}

// AddThreat registers a threat and indexes it in the grid.
func (w *World) AddThreat(pos Vec2, level float64, vel Vec2) *Threat {
	t := &Threat{ID: w.NextID(), Pos: pos, Level: level, Vel: vel}
	w.Threats[t.ID] = t
	w.Grid.Insert(t.ID, pos, KindThreat)
	return t
}

// MoveThreat updates a threat's position in the world and grid.
func (w *World) MoveThreat(id EntityID, pos Vec2) {
	t, ok := w.Threats[id]
	if !ok {
		return
	}
	t.Pos = pos
	w.Grid.Insert(id, pos, KindThreat)
}

// Snapshot is the frozen view of the world that every DecisionContext
// in one scheduling pass is built from. It is never mutated after
// construction, so parallel readers need no locking.
type Snapshot struct {
	grid      *SpatialGrid
	resources map[EntityID]Resource
	threats   map[EntityID]Threat
}

// Snapshot copies the queryable state. Taken once at the start of a
// scheduling pass; tick N's contexts therefore see tick N−1's fully
// applied world.
func (w *World) Snapshot() *Snapshot {
	s := &Snapshot{
		grid:      w.cloneGrid(),
		resources: make(map[EntityID]Resource, len(w.Resources)),
		threats:   make(map[EntityID]Threat, len(w.Threats)),
	}
	for id, r := range w.Resources {
		s.resources[id] = *r
	}
	for id, t := range w.Threats {
		s.threats[id] = *t
	}
	return s
}

func (w *World) cloneGrid() *SpatialGrid {
	g := NewSpatialGrid(w.Grid.cellSize)
	for id, e := range w.Grid.entities {
		g.Insert(id, e.pos, e.kind)
	}
	return g
}

// QueryRadius is the perception boundary: entities within radius of
// pos, with distances and kinds.
func (s *Snapshot) QueryRadius(pos Vec2, radius float64) []Hit {
	return s.grid.QueryRadius(pos, radius)
}

// Resource returns a resource by ID as of the snapshot, if present.
func (s *Snapshot) Resource(id EntityID) (Resource, bool) {
	r, ok := s.resources[id]
	return r, ok
}

// Threat returns a threat by ID as of the snapshot, if present.
func (s *Snapshot) Threat(id EntityID) (Threat, bool) {
	t, ok := s.threats[id]
	return t, ok
}
