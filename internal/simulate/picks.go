package simulate

import (
	"time"

	"github.com/sells-group/tailer-cli/internal/model"
)

// GeneratePicks produces n picks spaced by interval starting at start. Each
// pick's sharp is drawn uniformly, with replacement, from sharp_1..sharp_S.
func GeneratePicks(st *Stream, n, sharps int, start time.Time, interval time.Duration) []model.Pick {
	if n <= 0 || sharps <= 0 {
		return []model.Pick{}
	}

	picks := make([]model.Pick, n)
	for i := range picks {
		picks[i] = model.Pick{
			PropID:   model.PropID(i),
			SharpID:  model.SharpID(1 + st.IntN(sharps)),
			PostTime: start.Add(time.Duration(i) * interval),
		}
	}
	return picks
}
