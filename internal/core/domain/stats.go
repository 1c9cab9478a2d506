package domain

// DailyStat aggregates one calendar day's reminder outcomes. It is
// derived fresh from the event history and never persisted.
type DailyStat struct {
	Date       string `json:"date"`
	Total      int    `json:"total"`
	Drank      int    `json:"drank"`
	Skipped    int    `json:"skipped"`
	Completion int    `json:"completion"` // rounded percentage, 0 when Total == 0
}

type StreakResult struct {
	CurrentStreak int `json:"current_streak"`
	BestStreak    int `json:"best_streak"`
}

// HydrationSummary is the stats payload surfaced to the dashboard.
type HydrationSummary struct {
	Days    []DailyStat  `json:"days"`
	Streaks StreakResult `json:"streaks"`
}
