// Package goal defines the closed goal catalog the decision engine
// selects from. Goals are immutable tags; their priorities and
// interrupt flags live in a Catalog built once at startup.
package goal

// Goal is a behavioral objective drawn from the fixed catalog.
type Goal uint8

const (
	GoalIdle      Goal = iota // Wander — the always-eligible fallback
	GoalEat                   // Seek and consume food
	GoalDrink                 // Seek and consume water
	GoalRest                  // Recover energy in place
	GoalSocialize             // Interact with a nearby friendly agent
	GoalFlee                  // Escape a threat — interrupt-flagged
)

// NumGoals is the size of the closed catalog.
const NumGoals = 6

// Name returns a stable human-readable name for logging and telemetry.
func (g Goal) Name() string {
	switch g {
	case GoalIdle:
		return "idle"
	case GoalEat:
		return "eat"
	case GoalDrink:
		return "drink"
	case GoalRest:
		return "rest"
	case GoalSocialize:
		return "socialize"
	case GoalFlee:
		return "flee"
	default:
		return "unknown"
	}
}

// Spec carries the static, catalog-declared attributes of one goal.
type Spec struct {
	Goal      Goal `json:"goal"`
	Priority  int  `json:"priority"`  // Static weight; score × (1 + priority/100)
	Interrupt bool `json:"interrupt"` // Bypasses hysteresis when eligible
}

// Catalog is the immutable goal registry. Declaration order is the
// deterministic tie-break of last resort during selection.
type Catalog struct {
	specs  []Spec
	byGoal [NumGoals]int // 1-based index into specs; 0 means absent
}

// NewCatalog builds a catalog from specs in declaration order.
// Duplicate or out-of-range goals are skipped.
func NewCatalog(specs []Spec) *Catalog {
	c := &Catalog{}
	for _, s := range specs {
		if int(s.Goal) >= NumGoals || c.byGoal[s.Goal] != 0 {
			continue
		}
		c.specs = append(c.specs, s)
		c.byGoal[s.Goal] = len(c.specs)
	}
	return c
}

// DefaultCatalog returns the standard catalog. Idle comes first so it
// wins declaration-order ties only against nothing; Flee carries the
// interrupt flag.
func DefaultCatalog() *Catalog {
	return NewCatalog([]Spec{
		{Goal: GoalIdle, Priority: 10},
		{Goal: GoalEat, Priority: 80},
		{Goal: GoalDrink, Priority: 85},
		{Goal: GoalRest, Priority: 60},
		{Goal: GoalSocialize, Priority: 40},
		{Goal: GoalFlee, Priority: 100, Interrupt: true},
	})
}

// Specs returns the catalog entries in declaration order.
func (c *Catalog) Specs() []Spec {
	return c.specs
}

// Contains reports whether the goal is registered in this catalog.
func (c *Catalog) Contains(g Goal) bool {
	return int(g) < NumGoals && c.byGoal[g] != 0
}

// Priority returns the static priority weight, or 0 for an
// unregistered goal.
func (c *Catalog) Priority(g Goal) int {
	if !c.Contains(g) {
		return 0
	}
	return c.specs[c.byGoal[g]-1].Priority
}

// Interrupt reports whether the goal bypasses hysteresis.
func (c *Catalog) Interrupt(g Goal) bool {
	return c.Contains(g) && c.specs[c.byGoal[g]-1].Interrupt
}

// Order returns the declaration index of a goal, or NumGoals when the
// goal is not registered. Lower wins ties.
func (c *Catalog) Order(g Goal) int {
	for i, s := range c.specs {
		if s.Goal == g {
			return i
		}
	}
	return NumGoals
}

// WithPriorities returns a copy of the catalog with priorities
// overridden per goal. Unknown names in the table are ignored so a
// stale config never breaks startup.
func (c *Catalog) WithPriorities(table map[string]int) *Catalog {
	specs := make([]Spec, len(c.specs))
	copy(specs, c.specs)
	for i := range specs {
		if p, ok := table[specs[i].Goal.Name()]; ok {
			specs[i].Priority = p
		}
	}
	return NewCatalog(specs)
}
