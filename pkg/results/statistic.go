package results

import (
	"strings"
)

// Statistic is a per probeset value shown in result tables.
type Statistic int

// Statistics of a matest result, plus the fold change computed from a fit.
const (
	FObserved Statistic = iota
	PTabulated
	PPermutation
	PMaximum
	AdjustedPTabulated
	AdjustedPPermutation
	AdjustedPMaximum
	FoldChange
)

// Statistics lists every statistic in display order.
var Statistics = []Statistic{
	FObserved,
	PTabulated,
	PPermutation,
	PMaximum,
	AdjustedPTabulated,
	AdjustedPPermutation,
	AdjustedPMaximum,
	FoldChange,
}

var statisticInfo = map[Statistic]struct {
	name      string
	component string
}{
	FObserved:            {"f-observed", "Fobs"},
	PTabulated:           {"p-tabulated", "Ptab"},
	PPermutation:         {"p-permutation", "Pvalperm"},
	PMaximum:             {"p-maximum", "Pvalmax"},
	AdjustedPTabulated:   {"adjusted-p-tabulated", "adjPtab"},
	AdjustedPPermutation: {"adjusted-p-permutation", "adjPvalperm"},
	AdjustedPMaximum:     {"adjusted-p-maximum", "adjPvalmax"},
	FoldChange:           {"fold-change", ""},
}

func (s Statistic) String() string {
	if info, ok := statisticInfo[s]; ok {
		return info.name
	}
	return "unknown"
}

// Component returns the name of the matest component holding the statistic.
// Fold change is not stored in matest objects and has none.
func (s Statistic) Component() string {
	return statisticInfo[s].component
}

// Descending reports whether larger values are more significant. F observed
// and fold change are; all P values are the other way round.
func (s Statistic) Descending() bool {
	return s == FObserved || s == FoldChange
}

// ParseStatistic accepts a statistic name or its R component name, ignoring case.
func ParseStatistic(name string) (Statistic, bool) {
	name = strings.TrimSpace(name)
	for _, s := range Statistics {
		info := statisticInfo[s]
		if strings.EqualFold(name, info.name) || (info.component != "" && strings.EqualFold(name, info.component)) {
			return s, true
		}
	}
	return 0, false
}
