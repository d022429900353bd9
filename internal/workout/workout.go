package workout

import (
	"fmt"
	"math"
	"strings"
)

// Type is the key of a workout kind, as sent by clients (e.g. "squats").
type Type string

const (
	TypeGeneral        Type = "general"
	TypeCrunches       Type = "crunches"
	TypePushups        Type = "pushups"
	TypeSquats         Type = "squats"
	TypeBackExtensions Type = "back_extensions"
)

func (t Type) String() string {
	return string(t)
}

// TypeConfig holds the reward parameters of a single workout kind.
type TypeConfig struct {
	Type            Type    `json:"type"`
	DisplayName     string  `json:"displayName"`
	TokenMultiplier float64 `json:"tokenMultiplier"`
	CaloriesPerRep  float64 `json:"caloriesPerRep"`
}

// table order is the order clients get the types listed in
var typeConfigs = []TypeConfig{
	{Type: TypeGeneral, DisplayName: "筋トレ全般", TokenMultiplier: 1.0, CaloriesPerRep: 0.5},
	{Type: TypeCrunches, DisplayName: "腹筋", TokenMultiplier: 1.0, CaloriesPerRep: 0.3},
	{Type: TypePushups, DisplayName: "腕立て伏せ", TokenMultiplier: 1.2, CaloriesPerRep: 0.6},
	{Type: TypeSquats, DisplayName: "スクワット", TokenMultiplier: 1.5, CaloriesPerRep: 0.8},
	{Type: TypeBackExtensions, DisplayName: "背筋", TokenMultiplier: 1.1, CaloriesPerRep: 0.4},
}

var typeConfigsByKey = func() map[Type]TypeConfig {
	m := make(map[Type]TypeConfig, len(typeConfigs))
	for _, tc := range typeConfigs {
		m[tc.Type] = tc
	}
	return m
}()

// Lookup returns the config of the given workout type.
func Lookup(t Type) (TypeConfig, bool) {
	tc, ok := typeConfigsByKey[t]
	return tc, ok
}

// Types returns a copy of the workout table, in display order.
func Types() []TypeConfig {
	out := make([]TypeConfig, len(typeConfigs))
	copy(out, typeConfigs)
	return out
}

// DisplayName returns the human-readable name of a workout type, or the raw key for unknown ones.
func DisplayName(t Type) string {
	if tc, ok := Lookup(t); ok {
		return tc.DisplayName
	}
	return string(t)
}

type Entry struct {
	Type Type `json:"type"`
	Reps int  `json:"reps"`
}

// TokenAmount is floor(reps * multiplier); zero for entries that do not count.
func (e Entry) TokenAmount() uint64 {
	tc, ok := Lookup(e.Type)
	if !ok || e.Reps <= 0 {
		return 0
	}
	return uint64(math.Floor(float64(e.Reps) * tc.TokenMultiplier))
}

func (e Entry) Calories() float64 {
	tc, ok := Lookup(e.Type)
	if !ok || e.Reps <= 0 {
		return 0
	}
	return float64(e.Reps) * tc.CaloriesPerRep
}

// Counts reports whether the entry contributes to the reward.
func (e Entry) Counts() bool {
	_, ok := Lookup(e.Type)
	return ok && e.Reps > 0
}

// Computation is the derived reward of a single submission.
type Computation struct {
	TokenAmount uint64
	Calories    float64
	// Accepted holds the entries that contributed, in submission order.
	Accepted []Entry
	Skipped  int
}

// Compute sums the token amount and calories of all valid entries.
// Entries with an unknown type or non-positive reps are skipped, they never abort the batch.
func Compute(entries []Entry) Computation {
	var c Computation
	for _, e := range entries {
		if !e.Counts() {
			c.Skipped++
			continue
		}
		c.TokenAmount += e.TokenAmount()
		c.Calories += e.Calories()
		c.Accepted = append(c.Accepted, e)
	}
	return c
}

// Summary renders the accepted entries as "スクワット50回、腕立て伏せ20回".
func (c Computation) Summary() string {
	parts := make([]string, 0, len(c.Accepted))
	for _, e := range c.Accepted {
		parts = append(parts, fmt.Sprintf("%s%d回", DisplayName(e.Type), e.Reps))
	}
	return strings.Join(parts, "、")
}

// TotalReps is the sum of reps over accepted entries.
func (c Computation) TotalReps() int {
	total := 0
	for _, e := range c.Accepted {
		total += e.Reps
	}
	return total
}
