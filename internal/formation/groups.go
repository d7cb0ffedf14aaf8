package formation

import "sort"

// group is an ascending triple of plane ids; its index is the group id
type group [3]uint16

func (g group) less(o group) bool {
	if g[0] != o[0] {
		return g[0] < o[0]
	}
	if g[1] != o[1] {
		return g[1] < o[1]
	}
	return g[2] < o[2]
}

// enumerateGroups lists every non-overlapping triple in lexicographic order
func enumerateGroups(planes []plane) []group {
	groups := make([]group, 0, 1<<20)
	for i := range planes {
		for j := i + 1; j < len(planes); j++ {
			if planes[i].mask.overlaps(planes[j].mask) {
				continue
			}
			pair := planes[i].mask.union(planes[j].mask)
			for k := j + 1; k < len(planes); k++ {
				if pair.overlaps(planes[k].mask) {
					continue
				}
				groups = append(groups, group{
					uint16(planes[i].id), uint16(planes[j].id), uint16(planes[k].id),
				})
			}
		}
	}
	return groups
}

// search finds the group id of an ascending triple
func search(groups []group, want group) (int, bool) {
	i := sort.Search(len(groups), func(i int) bool {
		return !groups[i].less(want)
	})
	if i < len(groups) && groups[i] == want {
		return i, true
	}
	return 0, false
}
