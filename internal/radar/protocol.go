package radar

import (
	"fmt"
	"strings"
)

// Protocol is a named targeting behavior modifier.
type Protocol string

const (
	AvoidMech       Protocol = "avoid-mech"
	ClosestEnemies  Protocol = "closest-enemies"
	FurthestEnemies Protocol = "furthest-enemies"
	AssistAllies    Protocol = "assist-allies"
	AvoidCrossfire  Protocol = "avoid-crossfire"
	PrioritizeMech  Protocol = "prioritize-mech"
)

// Protocols lists the closed protocol set.
var Protocols = []Protocol{
	AvoidMech,
	ClosestEnemies,
	FurthestEnemies,
	AssistAllies,
	AvoidCrossfire,
	PrioritizeMech,
}

// Valid reports whether p belongs to the closed protocol set.
func (p Protocol) Valid() bool {
	switch p {
	case AvoidMech, ClosestEnemies, FurthestEnemies, AssistAllies, AvoidCrossfire, PrioritizeMech:
		return true
	}
	return false
}

// ParseProtocol converts a wire identifier into a Protocol.
//
// Postcondition: Returns a valid Protocol or an error wrapping ErrInvalidProtocol.
func ParseProtocol(s string) (Protocol, error) {
	p := Protocol(s)
	if !p.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidProtocol, s)
	}
	return p, nil
}

// ParseProtocols converts wire identifiers into Protocols, preserving order.
//
// Postcondition: Returns every identifier converted, or an error wrapping
// ErrInvalidProtocol that names all unknown identifiers.
func ParseProtocols(ids []string) ([]Protocol, error) {
	out := make([]Protocol, 0, len(ids))
	var bad []string
	for _, id := range ids {
		p, err := ParseProtocol(id)
		if err != nil {
			bad = append(bad, fmt.Sprintf("%q", id))
			continue
		}
		out = append(out, p)
	}
	if len(bad) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidProtocol, strings.Join(bad, ", "))
	}
	return out, nil
}

// plan records which protocol, if any, drives each class.
type plan struct {
	exclude  Protocol
	ranging  Protocol
	allied   Protocol
	priority Protocol
}

// planFor groups protocols by class. Within a class the first protocol in
// request order wins; duplicates are inert.
func planFor(protocols []Protocol) (plan, error) {
	var pl plan
	for _, p := range protocols {
		switch p {
		case AvoidMech:
			pl.exclude = p
		case ClosestEnemies, FurthestEnemies:
			if pl.ranging == "" {
				pl.ranging = p
			}
		case AssistAllies, AvoidCrossfire:
			if pl.allied == "" {
				pl.allied = p
			}
		case PrioritizeMech:
			pl.priority = p
		default:
			return plan{}, fmt.Errorf("%w: %q", ErrInvalidProtocol, string(p))
		}
	}
	return pl, nil
}
