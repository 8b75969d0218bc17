package services

import "squadpoll_server/models"

// atRiskBuffer is the tolerated shortfall before a poll drops from
// AT_RISK to NOT_READY: available+maybe within two of the requirement.
const atRiskBuffer = 2

// PollSummary is the four-bucket response tally plus the readiness verdict
type PollSummary struct {
	Available       int    `json:"available"`
	NotAvailable    int    `json:"notAvailable"`
	Maybe           int    `json:"maybe"`
	NoResponse      int    `json:"noResponse"`
	TotalPlayers    int    `json:"totalPlayers"`
	RequiredPlayers int    `json:"requiredPlayers"`
	Readiness       string `json:"readiness"`
}

// ComputeReadiness derives the summary from the current response set, the
// team's active roster size and the event's required headcount. Pure and
// re-derivable at any time; never cached. NoResponse clamps at zero in
// case the roster shrank after responses were recorded.
func ComputeReadiness(responses []models.PollResponse, activeCount, requiredCount int) PollSummary {
	summary := PollSummary{
		TotalPlayers:    activeCount,
		RequiredPlayers: requiredCount,
	}

	for _, r := range responses {
		switch r.Response {
		case models.ResponseAvailable:
			summary.Available++
		case models.ResponseNotAvailable:
			summary.NotAvailable++
		case models.ResponseMaybe:
			summary.Maybe++
		}
	}

	summary.NoResponse = activeCount - len(responses)
	if summary.NoResponse < 0 {
		summary.NoResponse = 0
	}

	switch {
	case summary.Available >= requiredCount:
		summary.Readiness = models.ReadinessReady
	case summary.Available+summary.Maybe >= requiredCount-atRiskBuffer:
		summary.Readiness = models.ReadinessAtRisk
	default:
		summary.Readiness = models.ReadinessNotReady
	}

	return summary
}
