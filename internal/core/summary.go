package core

import "sort"

// MonthStatus says whether a month's spend stayed within its budget.
type MonthStatus string

const (
	StatusOnTrack    MonthStatus = "on_track"
	StatusOverBudget MonthStatus = "over_budget"
)

// MonthSummary is one row of the per-month overview.
type MonthSummary struct {
	Month      Month       `json:"month"`
	TotalSpent Money       `json:"total_spent"`
	Budget     Money       `json:"budget"`
	Status     MonthStatus `json:"status"`
}

// Summarize produces one row per stored month, most recent first. The
// "YYYY-MM" key sorts lexicographically in calendar order.
func Summarize(data UserData) []MonthSummary {
	months := make([]Month, 0, len(data.Months))
	for m := range data.Months {
		months = append(months, m)
	}
	sort.Slice(months, func(i, j int) bool { return months[i] > months[j] })

	rows := make([]MonthSummary, 0, len(months))
	for _, m := range months {
		l := data.Months[m]
		spent := l.TotalSpent()
		status := StatusOnTrack
		if spent.Cents > l.Budget.Cents {
			status = StatusOverBudget
		}
		rows = append(rows, MonthSummary{
			Month:      m,
			TotalSpent: spent,
			Budget:     l.Budget,
			Status:     status,
		})
	}
	return rows
}
