package model

// FlaggedUser is the per-user aggregate over in-window bets.
type FlaggedUser struct {
	UserID          string  `json:"user_id"`
	TailCount       int     `json:"tail_count"`
	TotalSharedBets int     `json:"total_shared_bets"`
	TailScore       float64 `json:"tail_score"`
}

// SharpSummary is the per-sharp aggregate over in-window bets.
type SharpSummary struct {
	SharpID         string `json:"sharp_id"`
	TailersDetected int    `json:"tailers_detected"`
	TotalTailBets   int    `json:"total_tail_bets"`
}
