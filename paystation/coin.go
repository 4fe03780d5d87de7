package paystation

import (
	"fmt"

	"github.com/temoto/paystation/currency"
)

// Coin is accepted denomination, value in cents.
type Coin = currency.Nominal

const (
	Nickel  Coin = 5
	Dime    Coin = 10
	Quarter Coin = 25
)

// Coins lists accepted denominations in ascending order.
var Coins = [...]Coin{Nickel, Dime, Quarter}

func CoinName(c Coin) string {
	switch c {
	case Nickel:
		return "nickel"
	case Dime:
		return "dime"
	case Quarter:
		return "quarter"
	default:
		return fmt.Sprintf("invalid(%d)", c)
	}
}

func newCoinGroup() *currency.NominalGroup {
	return currency.NewNominalGroup(Coins[:]...)
}
