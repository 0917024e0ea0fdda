package model

import "time"

// ExchangeRate is the last known fiat rate and the time of the last fetch attempt.
type ExchangeRate struct {
	Rate          float64
	LastFetchedAt time.Time
}
