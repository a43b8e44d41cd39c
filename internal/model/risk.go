package model

type Severity string

const (
	SeverityOK      Severity = "OK"
	SeverityWarning Severity = "WARNING"
)

// RiskAssessment is the aggregate event-safety status of one snapshot.
type RiskAssessment struct {
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// Band is a display classification of a single metric.
type Band string

const (
	BandNormal   Band = "normal"
	BandCold     Band = "cold"
	BandHot      Band = "hot"
	BandDry      Band = "dry"
	BandElevated Band = "elevated"
	BandSevere   Band = "severe"
)

type MetricBands struct {
	Temperature   Band `json:"temperature"`
	Wind          Band `json:"wind"`
	Precipitation Band `json:"precipitation"`
	Humidity      Band `json:"humidity"`
}
