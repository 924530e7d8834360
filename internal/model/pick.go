// Package model defines the records shared by the simulator, the detection
// engine and the exporters.
package model

import (
	"fmt"
	"time"
)

// Pick is a single prop posted by a sharp.
type Pick struct {
	PropID   string    `json:"prop_id"`
	SharpID  string    `json:"sharp_id"`
	PostTime time.Time `json:"post_time"`
}

// PropID returns the identifier of the i-th simulated prop (0-based).
func PropID(i int) string { return fmt.Sprintf("prop_%d", i) }

// SharpID returns the identifier of the n-th sharp (1-based).
func SharpID(n int) string { return fmt.Sprintf("sharp_%d", n) }

// UserID returns the identifier of the i-th user in the universe (0-based).
func UserID(i int) string { return fmt.Sprintf("user_%d", i) }

// DistinctSharps returns the sharps referenced by picks in first-appearance
// order.
func DistinctSharps(picks []Pick) []string {
	seen := make(map[string]bool, len(picks))
	var out []string
	for _, p := range picks {
		if seen[p.SharpID] {
			continue
		}
		seen[p.SharpID] = true
		out = append(out, p.SharpID)
	}
	return out
}
