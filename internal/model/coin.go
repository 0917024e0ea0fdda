// Package model defines domain models shared by the chart and rate services.
package model

type Coin string
type Network string

var (
	BTC  Coin = "BTC"
	BTCZ Coin = "BTCZ"
	LTC  Coin = "LTC"
)

var (
	Testnet Network = "testnet"
	Mainnet Network = "mainnet"
	Regtest Network = "regtest"
)
