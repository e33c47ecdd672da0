package services

import (
	"github.com/shopspring/decimal"

	"foodtracker/internal/logger"
)

func init() {
	logger.Init("test")
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
