package model

import "github.com/secmon-lab/overlap/pkg/domain/types"

// PairKey is an unordered pair of distinct employees stored smaller ID first.
// The zero value is the sentinel "no pair".
type PairKey struct {
	a types.EmployeeID
	b types.EmployeeID
}

// NewPairKey canonicalizes two employee IDs. ok is false for a self pair.
func NewPairKey(x, y types.EmployeeID) (PairKey, bool) {
	switch {
	case x == y:
		return PairKey{}, false
	case x < y:
		return PairKey{a: x, b: y}, true
	default:
		return PairKey{a: y, b: x}, true
	}
}

// A returns the smaller employee ID
func (k PairKey) A() types.EmployeeID { return k.a }

// B returns the larger employee ID
func (k PairKey) B() types.EmployeeID { return k.b }

// Less orders keys by A, then B
func (k PairKey) Less(other PairKey) bool {
	if k.a != other.a {
		return k.a < other.a
	}
	return k.b < other.b
}
