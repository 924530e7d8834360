package simulate

import (
	"sort"

	"github.com/rotisserie/eris"

	"github.com/sells-group/tailer-cli/internal/model"
)

// Partition splits users user_0..user_{users-1} into groups disjoint tailer
// groups of perGroup members and a normal pool holding the rest. Group i is
// sampled without replacement from the users not already placed in groups
// 0..i-1. The normal pool keeps universe order.
func Partition(st *Stream, users, groups, perGroup int) (*model.Population, error) {
	if users < 0 || groups < 0 || perGroup < 0 {
		return nil, eris.Errorf("simulate: partition sizes must be >= 0 (users=%d groups=%d per_group=%d)",
			users, groups, perGroup)
	}
	if users < groups*perGroup {
		return nil, eris.Wrapf(ErrInsufficientPopulation, "%d users cannot hold %d groups of %d",
			users, groups, perGroup)
	}

	pool := make([]int, users)
	for i := range pool {
		pool[i] = i
	}

	pop := &model.Population{Groups: make([]model.TailerGroup, groups)}
	for g := 0; g < groups; g++ {
		// Partial Fisher-Yates: the first perGroup slots become the sample.
		for i := 0; i < perGroup; i++ {
			j := i + st.IntN(len(pool)-i)
			pool[i], pool[j] = pool[j], pool[i]
		}

		members := make([]string, perGroup)
		for i, u := range pool[:perGroup] {
			members[i] = model.UserID(u)
		}
		pop.Groups[g] = model.TailerGroup{Index: g, Members: members}
		pool = pool[perGroup:]
	}

	sort.Ints(pool)
	pop.Normal = make([]string, len(pool))
	for i, u := range pool {
		pop.Normal[i] = model.UserID(u)
	}

	return pop, nil
}
