package models

// Side tells which end of the replication raised the alert.
type Side string

const (
	Source Side = "S"
	Target Side = "T"
)

// Category values; a lower value is more severe. CategoryWarning is the
// escalation sentinel and is always logged.
const (
	CategoryFatal       = 1
	CategoryError       = 2
	CategoryInformation = 3
	CategoryStatus      = 4
	CategoryOperational = 5
	CategoryWarning     = 6

	CategoryEscalated = CategoryWarning
)

// TargetZoneOffset shifts target-side zone ids into the second half of zoneLabels.
const TargetZoneOffset = 4

// Index 0 of both tables is reserved. Duplicate zone labels are intentional:
// source zones use 1..3 and target zones reuse 5..7.
var (
	categoryLabels = [...]string{"", "Fatal", "Error", "Information", "Status", "Operational", "Warning"}
	zoneLabels     = [...]string{
		"", "Scrape/Refresh", "Communication", "Environment", "Journal", "Communication", "Apply", "Environment",
	}
)

type Event struct {
	OtherInfo      map[string]string `json:"otherInfo,omitempty"`
	SourceOrTarget Side              `json:"sourceOrTarget"`
	Name           string            `json:"name"`
	EventText      string            `json:"eventText"`
	ZoneID         int               `json:"zoneId"`
	CategoryID     int               `json:"categoryId"`
	EventID        int               `json:"eventId"`
}

// AdjustedZoneID is the zone table index for this event.
func (e *Event) AdjustedZoneID() int {
	if e.SourceOrTarget == Target {
		return e.ZoneID + TargetZoneOffset
	}

	return e.ZoneID
}

// CategoryLabel returns false when category is outside 1..6.
func CategoryLabel(category int) (string, bool) {
	if category <= 0 || category >= len(categoryLabels) {
		return "", false
	}

	return categoryLabels[category], true
}

// ZoneLabel returns false when the adjusted zone index is outside 1..7.
func ZoneLabel(adjustedZoneID int) (string, bool) {
	if adjustedZoneID <= 0 || adjustedZoneID >= len(zoneLabels) {
		return "", false
	}

	return zoneLabels[adjustedZoneID], true
}

func CategoryCount() int {
	return len(categoryLabels)
}
