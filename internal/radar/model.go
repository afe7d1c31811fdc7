// Package radar selects a single attack coordinate from a scan of sensed
// entities and an ordered list of targeting protocols.
//
// Protocols are applied by class in a fixed precedence order: exclusion,
// ranging, ally-aware ranking, then priority override. Each class reads the
// working set left by the previous one and returns a new view; scan entries
// are never mutated.
package radar

import "math"

// MaxAttackRange is the furthest distance from the origin at which a target
// can be engaged.
const MaxAttackRange = 100.0

// Coordinate is a position relative to the sensing origin.
type Coordinate struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Origin is the coordinate returned when no protocol selects a target.
var Origin = Coordinate{}

// Distance returns the Euclidean distance of p from the origin.
func Distance(p Coordinate) float64 {
	return math.Sqrt(p.X*p.X + p.Y*p.Y)
}

// EnemyType classifies a sensed enemy.
type EnemyType string

const (
	// Soldier is an infantry contact.
	Soldier EnemyType = "soldier"
	// Mech is an armored contact.
	Mech EnemyType = "mech"
)

// Valid reports whether t is a recognised enemy type.
func (t EnemyType) Valid() bool {
	switch t {
	case Soldier, Mech:
		return true
	}
	return false
}

// EnemyObservation describes the enemies sensed at a scan position.
// Count is informational and takes no part in targeting.
type EnemyObservation struct {
	Type  EnemyType
	Count int
}

// ScanEntry is one sensed entity.
//
// Invariant: Allies == nil means no allied reading was reported; a non-nil
// zero is a reading.
type ScanEntry struct {
	Position Coordinate
	Enemy    EnemyObservation
	Allies   *int
}

// HasAllies reports whether an allied reading exists for the entry.
func (e ScanEntry) HasAllies() bool {
	return e.Allies != nil
}

// IsMech reports whether the entry is an armored contact.
func (e ScanEntry) IsMech() bool {
	return e.Enemy.Type == Mech
}

// Scan is the ordered set of entries as received.
type Scan []ScanEntry
