package model

// CategoryCount is the number of patients in one dipping category.
type CategoryCount struct {
	Category DippingCategory `json:"category"`
	Count    int             `json:"count"`
}

// StageCount is the number of patients in one hypertension stage.
type StageCount struct {
	Stage HypertensionStage `json:"stage"`
	Count int               `json:"count"`
}

// Distribution summarises one metric across the patients that have a value
// for it. N is the denominator; statistics are nil when N is 0.
type Distribution struct {
	Metric string   `json:"metric"`
	N      int      `json:"n"`
	Mean   *float64 `json:"mean"`
	Median *float64 `json:"median"`
	Min    *float64 `json:"min"`
	Max    *float64 `json:"max"`
}

// CohortSummary aggregates every patient result of one run.
type CohortSummary struct {
	// Patients counts every patient id seen, analysed or not.
	Patients       int                `json:"patients"`
	Analyzed       int                `json:"analyzed"`
	SkippedRows    int                `json:"skipped_rows"`
	CategoryCounts []CategoryCount    `json:"category_counts"`
	StageCounts    []StageCount       `json:"stage_counts"`
	Distributions  []Distribution     `json:"distributions"`
	Excluded       []PatientExclusion `json:"excluded"`
	NotProcessed   []string           `json:"not_processed,omitempty"`
	Partial        bool               `json:"partial"`
}

// Distribution returns the named distribution if present.
func (s CohortSummary) Distribution(metric string) (Distribution, bool) {
	for _, d := range s.Distributions {
		if d.Metric == metric {
			return d, true
		}
	}
	return Distribution{}, false
}

// CategoryCount returns the count for c.
func (s CohortSummary) CategoryCount(c DippingCategory) int {
	for _, cc := range s.CategoryCounts {
		if cc.Category == c {
			return cc.Count
		}
	}
	return 0
}
