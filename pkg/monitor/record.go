package monitor

import "time"

// Status is the coarse reachability state of one endpoint.
type Status string

const (
	StatusChecking Status = "checking"
	StatusOnline   Status = "online"
	StatusOffline  Status = "offline"
	StatusError    Status = "error"
)

// HealthRecord is the per-endpoint status snapshot. Exactly one record
// exists per registered URL. ResponseTimeMs is present only while the
// endpoint is online; ErrorMessage only while it is not.
type HealthRecord struct {
	URL            string     `json:"url"`
	Status         Status     `json:"status"`
	ResponseTimeMs *float64   `json:"response_time_ms,omitempty"`
	LastChecked    time.Time  `json:"last_checked"`
	ErrorMessage   string     `json:"error_message,omitempty"`
}

// Summary counts records per status. Online+Offline+Checking+Error == Total.
type Summary struct {
	Online   int `json:"online"`
	Offline  int `json:"offline"`
	Checking int `json:"checking"`
	Error    int `json:"error"`
	Total    int `json:"total"`
}

// Quality is a coarse qualitative rating of overall endpoint health.
type Quality string

const (
	QualityUnknown   Quality = "unknown"
	QualityExcellent Quality = "excellent"
	QualityGood      Quality = "good"
	QualityFair      Quality = "fair"
	QualityPoor      Quality = "poor"
)

// Rating thresholds. Excellent requires the online share and mean response
// time bounds to hold exactly at the boundary (>= and <).
const (
	excellentOnlinePercent = 95.0
	excellentMeanMs        = 2000.0
	goodOnlinePercent      = 80.0
	goodMeanMs             = 5000.0
	fairOnlinePercent      = 50.0
)

func rate(onlinePercent, meanResponseMs float64) Quality {
	switch {
	case onlinePercent >= excellentOnlinePercent && meanResponseMs < excellentMeanMs:
		return QualityExcellent
	case onlinePercent >= goodOnlinePercent && meanResponseMs < goodMeanMs:
		return QualityGood
	case onlinePercent >= fairOnlinePercent:
		return QualityFair
	default:
		return QualityPoor
	}
}
