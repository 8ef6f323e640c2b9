package decision

import (
	"github.com/talgya/agentmind/internal/goal"
	"github.com/talgya/agentmind/internal/world"
)

// KnownResource is a remembered resource location with the simulated
// time it was last confirmed. Populated by direct perception and by
// the social information-sharing collaborator.
type KnownResource struct {
	Pos      world.Vec2 `json:"pos"`
	LastSeen float64    `json:"last_seen"`
}

// Influence is a temporary, time-bounded scoring modifier emitted by
// the social/conversation collaborator.
type Influence struct {
	Goal       goal.Goal `json:"goal"`
	Multiplier float64   `json:"multiplier"`
	Until      float64   `json:"until"`
}

type utilityEntry struct {
	score float64
	at    float64
	set   bool
}

// Cache is the per-agent decision memo. Agent-owned: only the owning
// agent's decision pass and the social collaborator write to it, so
// no locking is needed under the engine's snapshot discipline.
type Cache struct {
	utilities  [goal.NumGoals]utilityEntry
	resources  map[world.ResourceKind][]KnownResource
	influences []Influence
	blacklist  [goal.NumGoals]float64 // Goal ineligible until this time
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{resources: make(map[world.ResourceKind][]KnownResource)}
}

// Utility returns the memoized base utility for a goal if it was
// computed within the validity window. A goal no longer in the catalog
// is a miss, covering hot catalog reconfiguration.
func (c *Cache) Utility(cat *goal.Catalog, g goal.Goal, now, validity float64) (float64, bool) {
	if int(g) >= goal.NumGoals || !cat.Contains(g) {
		return 0, false
	}
	e := c.utilities[g]
	if !e.set || now-e.at >= validity {
		return 0, false
	}
	return e.score, true
}

// StoreUtility memoizes a freshly computed base utility.
func (c *Cache) StoreUtility(g goal.Goal, score, now float64) {
	if int(g) >= goal.NumGoals {
		return
	}
	c.utilities[g] = utilityEntry{score: score, at: now, set: true}
}

// resourceMergeRadius collapses reports of the same physical resource.
const resourceMergeRadius = 2.0

// ReportResource records a resource sighting. A report near an
// existing entry refreshes it instead of duplicating.
func (c *Cache) ReportResource(kind world.ResourceKind, pos world.Vec2, seen float64) {
	entries := c.resources[kind]
	for i, e := range entries {
		if e.Pos.DistanceTo(pos) <= resourceMergeRadius {
			if seen > e.LastSeen {
				entries[i].LastSeen = seen
				entries[i].Pos = pos
			}
			return
		}
	}
	c.resources[kind] = append(entries, KnownResource{Pos: pos, LastSeen: seen})
}

// KnownResource returns the freshest remembered location of a kind
// within the staleness horizon, pruning expired entries lazily.
func (c *Cache) KnownResource(kind world.ResourceKind, now, horizon float64) (KnownResource, bool) {
	entries := c.resources[kind]
	kept := entries[:0]
	best := KnownResource{}
	found := false
	for _, e := range entries {
		if now-e.LastSeen > horizon {
			continue
		}
		kept = append(kept, e)
		if !found || e.LastSeen > best.LastSeen {
			best = e
			found = true
		}
	}
	c.resources[kind] = kept
	return best, found
}

// ForgetResource drops any remembered entry near pos, used when a
// planned-for resource turns out to be gone.
func (c *Cache) ForgetResource(kind world.ResourceKind, pos world.Vec2) {
	entries := c.resources[kind]
	kept := entries[:0]
	for _, e := range entries {
		if e.Pos.DistanceTo(pos) <= resourceMergeRadius {
			continue
		}
		kept = append(kept, e)
	}
	c.resources[kind] = kept
}

// AddInfluence installs a time-bounded scoring modifier.
func (c *Cache) AddInfluence(g goal.Goal, multiplier, duration, now float64) {
	c.influences = append(c.influences, Influence{
		Goal: g, Multiplier: multiplier, Until: now + duration,
	})
}

// InfluenceModifier returns the product of all active influence
// multipliers for a goal, pruning expired entries lazily.
func (c *Cache) InfluenceModifier(g goal.Goal, now float64) float64 {
	mod := 1.0
	kept := c.influences[:0]
	for _, in := range c.influences {
		if now >= in.Until {
			continue
		}
		kept = append(kept, in)
		if in.Goal == g {
			mod *= in.Multiplier
		}
	}
	c.influences = kept
	return mod
}

// BlacklistGoal makes a goal ineligible until the given time. Used
// after repeated plan failures so an agent stops looping on an
// unreachable goal.
func (c *Cache) BlacklistGoal(g goal.Goal, until float64) {
	if int(g) >= goal.NumGoals {
		return
	}
	if until > c.blacklist[g] {
		c.blacklist[g] = until
	}
}

// Blacklisted reports whether a goal is currently suppressed.
func (c *Cache) Blacklisted(g goal.Goal, now float64) bool {
	return int(g) < goal.NumGoals && now < c.blacklist[g]
}
