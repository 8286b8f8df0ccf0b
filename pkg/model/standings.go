package model

import "github.com/samber/lo"

type Standing[V any] struct {
	RiderID int
	Value   V
}

// Standings is an ordered list of rider values. Position i of RiderIDs
// corresponds to position i of Values.
type Standings[V any] []Standing[V]

func (s Standings[V]) RiderIDs() []int {
	return lo.Map(s, func(item Standing[V], _ int) int { return item.RiderID })
}

func (s Standings[V]) Values() []V {
	return lo.Map(s, func(item Standing[V], _ int) V { return item.Value })
}

func (s Standings[V]) Lookup(riderID int) (V, bool) {
	item, ok := lo.Find(s, func(item Standing[V]) bool { return item.RiderID == riderID })
	return item.Value, ok
}
