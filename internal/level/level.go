package level

import (
	"fmt"
	"math"
)

const (
	// PlusLevelStep is the amount of tokens above the top threshold needed for each "+N" tier.
	PlusLevelStep uint64 = 25000
	// MaxBackgroundIndex is the last background the front-end ships.
	MaxBackgroundIndex = 9
)

type Level struct {
	Threshold uint64 `json:"threshold"`
	Name      string `json:"name"`
}

// Table is an ascending list of thresholds paired 1:1 with level names.
type Table struct {
	levels []Level
}

var Default = MustNewTable([]Level{
	{0, "ビギナー"},
	{1000, "ルーキー"},
	{2500, "マッスル見習い"},
	{5000, "中級マッスル"},
	{10000, "ベテラントレーニー"},
	{15000, "プロビルダー"},
	{25000, "筋肉の賢者"},
	{37500, "鋼の肉体"},
	{50000, "神の領域"},
	{75000, "レジェンド"},
	{100000, "マッスルマスター"},
})

func NewTable(levels []Level) (*Table, error) {
	if len(levels) == 0 {
		return nil, fmt.Errorf("level table empty")
	}
	if levels[0].Threshold != 0 {
		return nil, fmt.Errorf("first level threshold must be 0, got %d", levels[0].Threshold)
	}
	for i := 1; i < len(levels); i++ {
		if levels[i].Threshold <= levels[i-1].Threshold {
			return nil, fmt.Errorf("level thresholds not ascending at index %d", i)
		}
	}
	t := &Table{levels: make([]Level, len(levels))}
	copy(t.levels, levels)
	return t, nil
}

func MustNewTable(levels []Level) *Table {
	t, err := NewTable(levels)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Table) Levels() []Level {
	out := make([]Level, len(t.levels))
	copy(out, t.levels)
	return out
}

func (t *Table) TopThreshold() uint64 {
	return t.levels[len(t.levels)-1].Threshold
}

// Index returns the highest index whose threshold is <= balance.
func (t *Table) Index(balance uint64) int {
	idx := 0
	for i, l := range t.levels {
		if balance < l.Threshold {
			break
		}
		idx = i
	}
	return idx
}

// View is the presentational state derived from a balance, recomputed on every query.
type View struct {
	Index           int     `json:"index"`
	Name            string  `json:"name"`
	DisplayName     string  `json:"displayName"`
	PlusLevel       uint64  `json:"plusLevel"`
	Progress        float64 `json:"progress"`
	BackgroundIndex int     `json:"backgroundIndex"`
	Background      string  `json:"background"`
	Badge           string  `json:"badge"`
}

func (t *Table) View(balance uint64) View {
	idx := t.Index(balance)
	top := t.TopThreshold()

	v := View{
		Index:       idx,
		Name:        t.levels[idx].Name,
		DisplayName: t.levels[idx].Name,
		Progress:    t.progress(balance),
	}

	if idx == len(t.levels)-1 {
		v.PlusLevel = (balance - top) / PlusLevelStep
		if v.PlusLevel > 0 {
			v.DisplayName = fmt.Sprintf("%s +%d", v.Name, v.PlusLevel)
		}
	}

	v.BackgroundIndex = min(idx, MaxBackgroundIndex)
	v.Background = fmt.Sprintf("background-%d", v.BackgroundIndex)
	v.Badge = fmt.Sprintf("level%d_badge.svg", idx)

	return v
}

// ZeroView is shown when the holder has no token or the lookup failed.
func (t *Table) ZeroView() View {
	return t.View(0)
}

func (t *Table) progress(balance uint64) float64 {
	top := t.TopThreshold()
	if top == 0 {
		return 100
	}
	return math.Min(float64(balance)/float64(top)*100, 100)
}
