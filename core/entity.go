package core

// Entity is a stable handle into the world arena
// Zero is never issued and marks "no entity"
type Entity uint64

// NoEntity is the zero handle
const NoEntity Entity = 0

// PairKey identifies an unordered pair of entities
// Lo is always the smaller handle so (a, b) and (b, a) map to the same key
type PairKey struct {
	Lo, Hi Entity
}

// NewPairKey builds the canonical key for a and b
func NewPairKey(a, b Entity) PairKey {
	if a > b {
		a, b = b, a
	}
	return PairKey{Lo: a, Hi: b}
}

// Contains reports whether e is one of the pair
func (k PairKey) Contains(e Entity) bool {
	return k.Lo == e || k.Hi == e
}

// Other returns the partner of e, NoEntity if e is not part of the pair
func (k PairKey) Other(e Entity) Entity {
	switch e {
	case k.Lo:
		return k.Hi
	case k.Hi:
		return k.Lo
	}
	return NoEntity
}
