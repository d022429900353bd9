package history

import (
	"sort"
	"time"

	"github.com/2beens/kinnikutoken/internal/workout"
)

// Record is a single accepted workout entry of an announced reward transfer.
type Record struct {
	ID        int64        `json:"id"`
	Address   string       `json:"address"`
	Type      workout.Type `json:"type"`
	Reps      int          `json:"reps"`
	TxHash    string       `json:"txHash"`
	CreatedAt time.Time    `json:"createdAt"`
}

// Stat is the cumulative reps of one workout type.
type Stat struct {
	Type        workout.Type `json:"type"`
	DisplayName string       `json:"displayName"`
	Reps        int          `json:"reps"`
}

// BuildStats orders totals by the workout table, unknown types last in key order.
func BuildStats(totals map[workout.Type]int) []Stat {
	stats := make([]Stat, 0, len(totals))
	seen := make(map[workout.Type]bool, len(totals))

	for _, tc := range workout.Types() {
		reps, ok := totals[tc.Type]
		if !ok {
			continue
		}
		seen[tc.Type] = true
		stats = append(stats, Stat{Type: tc.Type, DisplayName: tc.DisplayName, Reps: reps})
	}

	var unknown []workout.Type
	for t := range totals {
		if !seen[t] {
			unknown = append(unknown, t)
		}
	}
	sort.Slice(unknown, func(i, j int) bool { return unknown[i] < unknown[j] })
	for _, t := range unknown {
		stats = append(stats, Stat{Type: t, DisplayName: workout.DisplayName(t), Reps: totals[t]})
	}

	return stats
}
