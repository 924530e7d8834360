package model

// TailerGroup is a fixed set of users that copy one sharp for the whole run.
// SharpID is empty until the synthesizer assigns the group.
type TailerGroup struct {
	Index   int      `json:"index"`
	Members []string `json:"members"`
	SharpID string   `json:"sharp_id,omitempty"`
}

// Population is the partition of the user universe into tailer groups and
// normal users. Every user is in exactly one group or in Normal.
type Population struct {
	Groups []TailerGroup `json:"groups"`
	Normal []string      `json:"normal"`
}

// Size returns the number of users across groups and the normal pool.
func (p *Population) Size() int {
	n := len(p.Normal)
	for _, g := range p.Groups {
		n += len(g.Members)
	}
	return n
}

// Tailers returns the number of users placed in tailer groups.
func (p *Population) Tailers() int {
	return p.Size() - len(p.Normal)
}

// GroupOf returns the group a user belongs to, or nil for normal users and
// unknown IDs.
func (p *Population) GroupOf(userID string) *TailerGroup {
	for i := range p.Groups {
		for _, m := range p.Groups[i].Members {
			if m == userID {
				return &p.Groups[i]
			}
		}
	}
	return nil
}
