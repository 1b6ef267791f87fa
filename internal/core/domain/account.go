package domain

import "time"

// AccountType identifies what kind of asset an account tracks.
type AccountType string

const (
	AccountTypeBank       AccountType = "BANK"
	AccountTypeStock      AccountType = "STOCK"
	AccountTypeCrypto     AccountType = "CRYPTO"
	AccountTypeRealEstate AccountType = "REAL_ESTATE"
	AccountTypeDebt       AccountType = "DEBT"
	AccountTypeRetirement AccountType = "RETIREMENT"
	AccountTypeBusiness   AccountType = "BUSINESS"
	AccountTypePersonal   AccountType = "PERSONAL"
)

// Account is the slice of the externally owned accounts entity this core
// reads and writes. Only CurrentBalance and UpdatedAt are ever mutated here.
type Account struct {
	AccountID      string      `json:"accountID"`
	HouseholdID    string      `json:"householdID"`
	Name           string      `json:"name"`
	AccountType    AccountType `json:"accountType"`
	CurrencyCode   string      `json:"currencyCode"`
	CurrentBalance float64     `json:"currentBalance"`
	IsActive       bool        `json:"isActive"`
	UpdatedAt      time.Time   `json:"updatedAt"`
}

// StockHolding is the stock detail row for a STOCK account.
type StockHolding struct {
	AccountID    string  `json:"accountID"`
	TickerSymbol string  `json:"tickerSymbol"`
	Quantity     float64 `json:"quantity"`
	CachedPrice  float64 `json:"cachedPrice"`
}

// CryptoHolding is the crypto detail row for a CRYPTO account.
type CryptoHolding struct {
	AccountID   string  `json:"accountID"`
	CoinID      string  `json:"coinID"`
	Symbol      string  `json:"symbol"`
	Quantity    float64 `json:"quantity"`
	CachedPrice float64 `json:"cachedPrice"`
}

// MarketSettings is the household-scoped data-source settings record.
// This core only stamps LastSyncAt and reads the metals API key.
type MarketSettings struct {
	HouseholdID  string     `json:"householdID"`
	MetalsAPIKey string     `json:"-"`
	LastSyncAt   *time.Time `json:"lastSyncAt"`
}
