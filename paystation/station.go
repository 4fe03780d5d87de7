// Package paystation accounts coin payments of a parking pay station.
// Overview:
// - AddPayment: accept coin, purchased time grows by 2 minutes per 5 cents
// - ReadDisplay: purchased time so far
// - Buy: issue receipt, station keeps the money
// - Cancel: return inserted coins
// Buy and Cancel end the session, next one starts from zero.
package paystation

import (
	"sync"
	"time"

	"github.com/temoto/paystation/currency"
	"github.com/temoto/paystation/log2"
)

const (
	minutesPerStep = 2
	centsPerStep   = 5
)

type State uint8

const (
	StateIdle State = iota
	StateAccumulating
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAccumulating:
		return "accumulating"
	default:
		return "invalid"
	}
}

// PurchasedMinutes converts money into parking time.
func PurchasedMinutes(a currency.Amount) int {
	return int(a/centsPerStep) * minutesPerStep
}

// PayStation is safe for concurrent use, each operation is one critical section.
type PayStation struct {
	Log *log2.Log

	lk       sync.Mutex
	inserted currency.Amount
	credit   *currency.NominalGroup // coins of current session
	cashbox  *currency.NominalGroup // coins kept from completed purchases
	now      func() time.Time
}

func New(log *log2.Log) *PayStation {
	return &PayStation{
		Log:     log,
		credit:  newCoinGroup(),
		cashbox: newCoinGroup(),
		now:     time.Now,
	}
}

func (self *PayStation) AddPayment(coinValue int) error {
	const tag = "paystation.add-payment"

	coin := Coin(coinValue)
	self.lk.Lock()
	defer self.lk.Unlock()
	// int(coin) != coinValue catches values truncated by conversion
	if int(coin) != coinValue || self.credit.Add(coin, 1) != nil {
		self.Log.Debugf("%s rejected value=%d", tag, coinValue)
		return newInvalidCoinError(coinValue)
	}
	self.inserted += currency.Amount(coin)
	self.Log.Debugf("%s coin=%s inserted=%s minutes=%d",
		tag, CoinName(coin), self.inserted.Format100I(), PurchasedMinutes(self.inserted))
	return nil
}

// ReadDisplay returns purchased minutes, 0 when idle.
func (self *PayStation) ReadDisplay() int {
	self.lk.Lock()
	defer self.lk.Unlock()
	return PurchasedMinutes(self.inserted)
}

func (self *PayStation) Inserted() currency.Amount {
	self.lk.Lock()
	defer self.lk.Unlock()
	return self.inserted
}

// Reading returns inserted money and purchased minutes taken together.
func (self *PayStation) Reading() (currency.Amount, int) {
	self.lk.Lock()
	defer self.lk.Unlock()
	return self.inserted, PurchasedMinutes(self.inserted)
}

func (self *PayStation) State() State {
	self.lk.Lock()
	defer self.lk.Unlock()
	if self.inserted == 0 {
		return StateIdle
	}
	return StateAccumulating
}

// Buy issues receipt for current session and keeps the money.
// Buy in idle state returns zero receipt.
func (self *PayStation) Buy() Receipt {
	const tag = "paystation.buy"

	self.lk.Lock()
	defer self.lk.Unlock()
	r := Receipt{
		minutes: PurchasedMinutes(self.inserted),
		amount:  self.inserted,
		issued:  self.now(),
	}
	self.cashbox.AddFrom(self.credit)
	self.locked_resetSession()
	self.Log.Debugf("%s %s cashbox=%s", tag, r.String(), self.cashbox.String())
	return r
}

// Cancel returns snapshot of coins inserted in current session, money is not kept.
// Result contains every accepted denomination, zero counts included.
func (self *PayStation) Cancel() *currency.NominalGroup {
	const tag = "paystation.cancel"

	self.lk.Lock()
	defer self.lk.Unlock()
	coins := self.credit.Copy()
	self.locked_resetSession()
	self.Log.Debugf("%s return=%s", tag, coins.String())
	return coins
}

// Empty returns total collected by Buy since last Empty and clears cashbox.
// Current session is not affected.
func (self *PayStation) Empty() currency.Amount {
	const tag = "paystation.empty"

	self.lk.Lock()
	defer self.lk.Unlock()
	total := self.cashbox.Total()
	self.cashbox.Clear()
	self.Log.Debugf("%s collected=%s", tag, total.Format100I())
	return total
}

// Session returns snapshot of coins inserted in current session without ending it.
func (self *PayStation) Session() *currency.NominalGroup {
	self.lk.Lock()
	defer self.lk.Unlock()
	return self.credit.Copy()
}

// Cashbox returns snapshot of collected coins.
func (self *PayStation) Cashbox() *currency.NominalGroup {
	self.lk.Lock()
	defer self.lk.Unlock()
	return self.cashbox.Copy()
}

// Single exit path of a session, shared by Buy and Cancel.
func (self *PayStation) locked_resetSession() {
	self.inserted = 0
	self.credit.Clear()
}
