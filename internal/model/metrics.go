package model

// Period is a time-of-day classification applied per reading.
type Period string

const (
	PeriodDay     Period = "day"
	PeriodNight   Period = "night"
	PeriodMorning Period = "morning"
	PeriodFull    Period = "full_24h"
)

// AllPeriods lists periods in report order.
var AllPeriods = []Period{PeriodDay, PeriodNight, PeriodMorning, PeriodFull}

// Measure is the reading component a statistic was computed on.
type Measure string

const (
	MeasureSystolic  Measure = "systolic"
	MeasureDiastolic Measure = "diastolic"
	MeasureHeartRate Measure = "heart_rate"
)

// AllMeasures lists measures in report order.
var AllMeasures = []Measure{MeasureSystolic, MeasureDiastolic, MeasureHeartRate}

// PeriodStatistics describes one measure over one period. Nullable fields are
// nil when the sample is too small for the statistic to be defined.
type PeriodStatistics struct {
	Period  Period   `json:"period"`
	Measure Measure  `json:"measure"`
	Count   int      `json:"count"`
	Mean    float64  `json:"mean"`
	Min     float64  `json:"min"`
	Max     float64  `json:"max"`
	SD      *float64 `json:"sd"`
	CV      *float64 `json:"cv"`
	ARV     *float64 `json:"arv"`
}

// DippingCategory classifies nocturnal dipping.
type DippingCategory string

const (
	NormalDipper  DippingCategory = "normal_dipper"
	NonDipper     DippingCategory = "non_dipper"
	ExtremeDipper DippingCategory = "extreme_dipper"
	ReverseDipper DippingCategory = "reverse_dipper"
	Undetermined  DippingCategory = "undetermined"
)

// AllDippingCategories lists categories in summary order.
var AllDippingCategories = []DippingCategory{NormalDipper, NonDipper, ExtremeDipper, ReverseDipper, Undetermined}

// HypertensionStage is the AHA/ACC 2017 class of the 24h mean pressure.
type HypertensionStage string

const (
	StageNormal   HypertensionStage = "normal"
	StageElevated HypertensionStage = "elevated"
	Stage1        HypertensionStage = "stage_1"
	Stage2        HypertensionStage = "stage_2"
	StageCrisis   HypertensionStage = "crisis"
	StageUnknown  HypertensionStage = "unknown"
)

// AllStages lists stages in summary order.
var AllStages = []HypertensionStage{StageNormal, StageElevated, Stage1, Stage2, StageCrisis, StageUnknown}

// DayToDayVariability describes the spread of per-day mean pressures for
// recordings spanning several calendar days.
type DayToDayVariability struct {
	Days           int      `json:"days"`
	SystolicSD     *float64 `json:"systolic_sd"`
	SystolicCV     *float64 `json:"systolic_cv"`
	SystolicARV    *float64 `json:"systolic_arv"`
	SystolicRange  float64  `json:"systolic_range"`
	DiastolicSD    *float64 `json:"diastolic_sd"`
	DiastolicCV    *float64 `json:"diastolic_cv"`
	DiastolicARV   *float64 `json:"diastolic_arv"`
	DiastolicRange float64  `json:"diastolic_range"`
}

// PatientMetrics is the full derived result for one patient.
type PatientMetrics struct {
	PatientID    string             `json:"patient_id"`
	ReadingCount int                `json:"reading_count"`
	Days         int                `json:"days"`
	Periods      []PeriodStatistics `json:"periods"`

	WeightedSDSystolic  *float64 `json:"weighted_sd_systolic"`
	WeightedSDDiastolic *float64 `json:"weighted_sd_diastolic"`

	DippingPercent          *float64        `json:"dipping_percent"`
	DippingPercentDiastolic *float64        `json:"dipping_percent_diastolic"`
	DippingCategory         DippingCategory `json:"dipping_category"`
	MorningSurge            *float64        `json:"morning_surge"`

	PulsePressureMean *float64             `json:"pulse_pressure_mean"`
	Stage             HypertensionStage    `json:"stage"`
	DayToDay          *DayToDayVariability `json:"day_to_day,omitempty"`

	Exclusions []PatientExclusion `json:"exclusions,omitempty"`
}

// Stats returns the statistics for measure over period, if that period had readings.
func (m PatientMetrics) Stats(measure Measure, period Period) (PeriodStatistics, bool) {
	for _, s := range m.Periods {
		if s.Measure == measure && s.Period == period {
			return s, true
		}
	}
	return PeriodStatistics{}, false
}

// Float returns a pointer to v. Used to build nullable metric values.
func Float(v float64) *float64 { return &v }
