package store

import "sort"

// TopYearsLimit caps the length of NameStats.TopYears.
const TopYearsLimit = 10

// YearTotal is the sum of counts across genders for one year.
type YearTotal struct {
	Year  int `json:"year"`
	Total int `json:"total"`
}

// NameStats summarizes the history of a single name.
type NameStats struct {
	FirstYear       int         `json:"firstYear"`
	MostPopularYear int         `json:"mostPopularYear"`
	TopYears        []int       `json:"topYears"`
	TotalCount      int         `json:"totalCount"`
	Years           []YearTotal `json:"years"`
}

// ComputeStats derives statistics from per-year totals. It returns nil when
// totals is empty. Ties on total are broken by the lower year.
func ComputeStats(totals []YearTotal) *NameStats {
	if len(totals) == 0 {
		return nil
	}

	byYear := make([]YearTotal, len(totals))
	copy(byYear, totals)
	sort.Slice(byYear, func(i, j int) bool {
		return byYear[i].Year < byYear[j].Year
	})

	ranked := make([]YearTotal, len(byYear))
	copy(ranked, byYear)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Total > ranked[j].Total
	})

	n := min(len(ranked), TopYearsLimit)
	top := make([]int, 0, n)
	for _, yt := range ranked[:n] {
		top = append(top, yt.Year)
	}

	var sum int
	for _, yt := range byYear {
		sum += yt.Total
	}

	return &NameStats{
		FirstYear:       byYear[0].Year,
		MostPopularYear: ranked[0].Year,
		TopYears:        top,
		TotalCount:      sum,
		Years:           byYear,
	}
}
