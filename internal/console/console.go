// Package console maps typed commands onto pay station operations.
package console

import (
	"context"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/c-bata/go-prompt"
	"github.com/juju/errors"
	"github.com/skip2/go-qrcode"
	"github.com/temoto/paystation/currency"
	"github.com/temoto/paystation/helpers/cli"
	"github.com/temoto/paystation/internal/state"
	"github.com/temoto/paystation/paystation"
	tele_api "github.com/temoto/paystation/tele"
)

const usage = `syntax: commands separated by whitespace
- N        insert coin of N cents, accepted: 5 10 25
- display  show purchased parking time
- buy      issue receipt
- cancel   return inserted coins
- empty    collect money from cashbox
- help     show this text
`

var errUnknownCommand = errors.New("unknown command")

type Console struct {
	g *state.Global
	w io.Writer
}

func New(ctx context.Context, w io.Writer) *Console {
	return &Console{
		g: state.GetGlobal(ctx),
		w: w,
	}
}

func (self *Console) Run() error {
	self.g.Tele.State(tele_api.State_Nominal)
	return cli.MainLoop("paystation", self.g.Config.Console.PromptPrefix, self.Exec, self.Complete)
}

// Exec runs every word of the line, errors are printed and do not stop the rest.
func (self *Console) Exec(line string) {
	for _, word := range strings.Fields(line) {
		if err := self.Do(word); err != nil {
			self.g.Log.Debugf("console word=%s err=%v", word, err)
			self.printf("error: %v\n", err)
		}
	}
}

func (self *Console) Do(word string) error {
	now := time.Now().UnixNano()
	self.g.Tele.StatModify(func(s *tele_api.Stat) { s.Activity = now })

	if value, err := strconv.Atoi(word); err == nil {
		return self.insert(value)
	}
	switch word {
	case "display":
		self.printf("display=%dm\n", self.g.Station.ReadDisplay())
	case "buy":
		return self.buy()
	case "cancel":
		self.cancel()
	case "empty":
		self.printf("collected=%s\n", self.g.Station.Empty().Format100I())
	case "help", "?":
		self.printf(usage)
	default:
		return errors.Annotatef(errUnknownCommand, "'%s', try help", word)
	}
	return nil
}

func (self *Console) Complete(d prompt.Document) []prompt.Suggest {
	suggests := []prompt.Suggest{
		{Text: "display", Description: "show purchased parking time"},
		{Text: "buy", Description: "issue receipt"},
		{Text: "cancel", Description: "return inserted coins"},
		{Text: "empty", Description: "collect money from cashbox"},
		{Text: "help"},
	}
	for _, c := range paystation.Coins {
		suggests = append(suggests, prompt.Suggest{
			Text:        strconv.Itoa(int(c)),
			Description: "insert " + paystation.CoinName(c),
		})
	}
	return cli.Suggest(suggests, d)
}

func (self *Console) insert(value int) error {
	if err := self.g.Station.AddPayment(value); err != nil {
		if value >= 0 && uint64(value) <= math.MaxUint32 {
			self.g.Tele.StatModify(func(s *tele_api.Stat) { s.CoinRejected[uint32(value)]++ })
		}
		return err
	}
	self.g.Tele.State(tele_api.State_Session)
	inserted, minutes := self.g.Station.Reading()
	self.printf("inserted=%s display=%dm\n", inserted.Format100I(), minutes)
	return nil
}

func (self *Console) buy() error {
	r := self.g.Station.Buy()
	self.printf("%s\n", r.String())
	if r.Amount() != 0 {
		self.g.Tele.StatModify(func(s *tele_api.Stat) { s.Purchases++ })
		self.g.Tele.Transaction(&tele_api.Telemetry_Transaction{
			Kind:    tele_api.Telemetry_Purchase,
			Minutes: uint32(r.Minutes()),
			Amount:  uint32(r.Amount()),
			Issued:  r.Issued().UnixNano(),
		})
	}
	self.g.Tele.State(tele_api.State_Nominal)

	if !self.g.Config.Console.QR || r.Amount() == 0 {
		return nil
	}
	s, err := ReceiptQR(r)
	if err != nil {
		return errors.Annotate(err, "receipt QR")
	}
	self.printf("%s", s)
	return nil
}

func (self *Console) cancel() {
	coins := self.g.Station.Cancel()
	parts := make([]string, 0, len(paystation.Coins)+1)
	_ = coins.Iter(func(n currency.Nominal, count uint) error {
		parts = append(parts, fmt.Sprintf("%s:%d", paystation.CoinName(n), count))
		return nil
	})
	parts = append(parts, "total="+coins.Total().Format100I())
	self.printf("returned %s\n", strings.Join(parts, " "))
	if coins.Total() != 0 {
		self.g.Tele.StatModify(func(s *tele_api.Stat) { s.Cancels++ })
		self.g.Tele.Transaction(&tele_api.Telemetry_Transaction{
			Kind:   tele_api.Telemetry_Cancel,
			Amount: uint32(coins.Total()),
			Coins:  coins.ToMap(),
			Issued: time.Now().UnixNano(),
		})
	}
	self.g.Tele.State(tele_api.State_Nominal)
}

func (self *Console) printf(format string, args ...interface{}) {
	fmt.Fprintf(self.w, format, args...)
}

// ReceiptText is QR payload, parking inspector app parses it.
func ReceiptText(r paystation.Receipt) string {
	return fmt.Sprintf("t=%s&m=%d&s=%s",
		r.Issued().UTC().Format("20060102T150405"), r.Minutes(), r.Amount().Format100I())
}

// ReceiptQR renders receipt as QR code drawn with block characters.
func ReceiptQR(r paystation.Receipt) (string, error) {
	qr, err := qrcode.New(ReceiptText(r), qrcode.Medium)
	if err != nil {
		return "", err
	}
	return qr.ToString(false), nil
}
