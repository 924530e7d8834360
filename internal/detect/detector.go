package detect

import (
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/tailer-cli/internal/config"
	"github.com/sells-group/tailer-cli/internal/model"
)

// Stats counts how the input bets were classified by the join and window.
type Stats struct {
	Picks       int `json:"picks"`
	Bets        int `json:"bets"`
	Unmatched   int `json:"unmatched"`     // prop_id with no pick
	OutOfWindow int `json:"out_of_window"` // lag < 0 or lag > threshold
	Candidates  int `json:"candidates"`
	Users       int `json:"users"` // users with at least one candidate
}

// Result is the output of a detection pass.
type Result struct {
	Flagged []model.FlaggedUser  `json:"flagged"`
	Scores  []model.FlaggedUser  `json:"scores"`
	Sharps  []model.SharpSummary `json:"sharps"`
	Stats   Stats                `json:"stats"`
}

// Detector scores users by how consistently their bets land inside the lag
// window after the referenced pick. It is stateless and safe for
// concurrent use.
type Detector struct {
	cfg    config.DetectConfig
	window time.Duration
}

// New creates a Detector with the given thresholds.
func New(cfg config.DetectConfig) *Detector {
	return &Detector{cfg: cfg, window: lagWindow(cfg)}
}

// candidate is a bet that survived the join and the lag window.
type candidate struct {
	userID  string
	propID  string
	sharpID string
}

type userAgg struct {
	count int
	props map[string]struct{}
}

type sharpAgg struct {
	bets  int
	users map[string]struct{}
}

// Detect runs the join, window, aggregation and flagging over picks and bets.
// Bet.SharpFollowed is never read.
func (d *Detector) Detect(picks []model.Pick, bets []model.Bet) *Result {
	cands, stats := d.candidates(picks, bets)

	users := make(map[string]*userAgg)
	sharps := make(map[string]*sharpAgg)
	for _, c := range cands {
		u, ok := users[c.userID]
		if !ok {
			u = &userAgg{props: make(map[string]struct{})}
			users[c.userID] = u
		}
		u.count++
		u.props[c.propID] = struct{}{}

		s, ok := sharps[c.sharpID]
		if !ok {
			s = &sharpAgg{users: make(map[string]struct{})}
			sharps[c.sharpID] = s
		}
		s.bets++
		s.users[c.userID] = struct{}{}
	}

	scores := make([]model.FlaggedUser, 0, len(users))
	for id, u := range users {
		shared := len(u.props)
		scores = append(scores, model.FlaggedUser{
			UserID:          id,
			TailCount:       u.count,
			TotalSharedBets: shared,
			TailScore:       float64(u.count) / (float64(shared) + d.cfg.Epsilon),
		})
	}
	slices.SortFunc(scores, compareScores)

	flagged := make([]model.FlaggedUser, 0)
	for _, s := range scores {
		if d.flag(s) {
			flagged = append(flagged, s)
		}
	}

	summary := make([]model.SharpSummary, 0, len(sharps))
	for id, s := range sharps {
		summary = append(summary, model.SharpSummary{
			SharpID:         id,
			TailersDetected: len(s.users),
			TotalTailBets:   s.bets,
		})
	}
	slices.SortFunc(summary, compareSharps)

	stats.Users = len(scores)

	zap.L().Debug("detect: pass complete",
		zap.Int("bets", stats.Bets),
		zap.Int("unmatched", stats.Unmatched),
		zap.Int("out_of_window", stats.OutOfWindow),
		zap.Int("candidates", stats.Candidates),
		zap.Int("users", stats.Users),
		zap.Int("flagged", len(flagged)),
	)

	return &Result{Flagged: flagged, Scores: scores, Sharps: summary, Stats: stats}
}

// candidates joins every bet to its pick by prop_id and keeps those with
// 0 <= lag <= window. On duplicate prop_ids the first pick wins.
func (d *Detector) candidates(picks []model.Pick, bets []model.Bet) ([]candidate, Stats) {
	stats := Stats{Picks: len(picks), Bets: len(bets)}

	index := make(map[string]model.Pick, len(picks))
	for _, p := range picks {
		if _, dup := index[p.PropID]; !dup {
			index[p.PropID] = p
		}
	}

	var cands []candidate
	for _, b := range bets {
		pick, ok := index[b.PropID]
		if !ok {
			stats.Unmatched++
			continue
		}
		lag := b.Timestamp.Sub(pick.PostTime)
		if lag < 0 || lag > d.window {
			stats.OutOfWindow++
			continue
		}
		cands = append(cands, candidate{userID: b.UserID, propID: b.PropID, sharpID: pick.SharpID})
	}
	stats.Candidates = len(cands)

	return cands, stats
}

// flag applies the inclusive min_count and tail_score thresholds.
func (d *Detector) flag(s model.FlaggedUser) bool {
	return s.TailCount >= d.cfg.MinCount && s.TailScore >= d.cfg.TailScoreThreshold
}

// compareScores orders by tail_score descending, then user_id ascending.
func compareScores(a, b model.FlaggedUser) int {
	switch {
	case a.TailScore > b.TailScore:
		return -1
	case a.TailScore < b.TailScore:
		return 1
	}
	return strings.Compare(a.UserID, b.UserID)
}

// compareSharps orders by tailers_detected descending, then total_tail_bets
// descending, then sharp_id ascending.
func compareSharps(a, b model.SharpSummary) int {
	if a.TailersDetected != b.TailersDetected {
		return b.TailersDetected - a.TailersDetected
	}
	if a.TotalTailBets != b.TotalTailBets {
		return b.TotalTailBets - a.TotalTailBets
	}
	return strings.Compare(a.SharpID, b.SharpID)
}
