package domain

// ValuationSource identifies how a valuation row was produced.
type ValuationSource string

const (
	ValuationSourceManual     ValuationSource = "manual"
	ValuationSourceAPI        ValuationSource = "api"
	ValuationSourceImport     ValuationSource = "import"
	ValuationSourceCalculated ValuationSource = "calculated"
)

// ValuationHistory is one append-only row of an account's computed value.
// One row is written per account per refresh cycle; rows are never updated
// or deleted by this subsystem. Date is a calendar day, YYYY-MM-DD.
type ValuationHistory struct {
	ValuationID     string          `json:"valuationID"`
	AccountID       string          `json:"accountID"`
	Date            string          `json:"date"`
	Value           float64         `json:"value"`
	CurrencyCode    string          `json:"currencyCode"`
	Source          ValuationSource `json:"source"`
	UnderlyingPrice *float64        `json:"underlyingPrice,omitempty"`
	Quantity        *float64        `json:"quantity,omitempty"`
}
