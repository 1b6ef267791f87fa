package dto

import portssvc "github.com/nestfolio/nestfolio_backend/internal/core/ports/services"

// RefreshResponse reports the outcome of a price refresh run. A non-empty
// Errors list with Updated > 0 is a partial success; Updated == 0 with
// errors is a full failure for that instrument type.
type RefreshResponse struct {
	Updated int                `json:"updated"`
	Errors  []string           `json:"errors"`
	Prices  map[string]float64 `json:"prices"`
}

// ToRefreshResponse converts a service RefreshResult to its DTO.
func ToRefreshResponse(result portssvc.RefreshResult) RefreshResponse {
	return RefreshResponse{
		Updated: result.Updated,
		Errors:  result.Errors,
		Prices:  result.Prices,
	}
}
