package dto

import "github.com/nestfolio/nestfolio_backend/internal/core/domain"

// ConvertRequest defines the data needed to convert an amount.
type ConvertRequest struct {
	Amount float64 `json:"amount" binding:"required"`
	From   string  `json:"from" binding:"required,len=3"`
	To     string  `json:"to" binding:"required,len=3"`
}

// ConversionResponse is the result of a conversion, including which tier of
// the resolution chain produced the rate.
type ConversionResponse struct {
	ConvertedAmount float64 `json:"convertedAmount"`
	Rate            float64 `json:"rate"`
	InverseRate     float64 `json:"inverseRate"`
	Source          string  `json:"source"`
	Formatted       string  `json:"formatted,omitempty"`
}

// ToConversionResponse converts a domain.ConversionResult to its DTO.
func ToConversionResponse(result *domain.ConversionResult, formatted string) ConversionResponse {
	return ConversionResponse{
		ConvertedAmount: result.ConvertedAmount,
		Rate:            result.Rate,
		InverseRate:     result.InverseRate,
		Source:          string(result.Source),
		Formatted:       formatted,
	}
}

// BatchRatesRequest asks for rates from one base to many targets.
type BatchRatesRequest struct {
	From    string   `json:"from" binding:"required,len=3"`
	Targets []string `json:"targets" binding:"required,min=1,dive,len=3"`
}

// RateResponse is a single pair rate.
type RateResponse struct {
	From string  `json:"from"`
	To   string  `json:"to"`
	Rate float64 `json:"rate"`
}
