package util

import (
	"fmt"
	"math/big"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

const lamportsPerSolExpo = -9

func LamportsToSolString(lamports *big.Int) string {
	if lamports == nil {
		lamports = new(big.Int)
	}
	sol := decimal.NewFromBigInt(lamports, lamportsPerSolExpo)
	f, _ := sol.Float64()
	return fmt.Sprintf("%v SOL", humanize.CommafWithDigits(f, 9))
}

func LamportsString(lamports *big.Int) string {
	if lamports == nil {
		lamports = new(big.Int)
	}
	return fmt.Sprintf("%v lamports", humanize.BigComma(lamports))
}
