package console

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/c-bata/go-prompt"
	"github.com/skip2/go-qrcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/temoto/paystation/internal/state"
	"github.com/temoto/paystation/log2"
	"github.com/temoto/paystation/paystation"
	tele_api "github.com/temoto/paystation/tele"
)

type teleRecorder struct {
	tele_api.Noop
	mu     sync.Mutex
	stat   tele_api.Stat
	states []tele_api.State
	txs    []*tele_api.Telemetry_Transaction
}

func newTeleRecorder() *teleRecorder {
	r := &teleRecorder{}
	r.stat.Locked_Reset()
	return r
}

func (self *teleRecorder) State(s tele_api.State) {
	self.mu.Lock()
	self.states = append(self.states, s)
	self.mu.Unlock()
}
func (self *teleRecorder) StatModify(fun func(*tele_api.Stat)) {
	self.stat.Lock()
	fun(&self.stat)
	self.stat.Unlock()
}
func (self *teleRecorder) Transaction(tx *tele_api.Telemetry_Transaction) {
	self.mu.Lock()
	self.txs = append(self.txs, tx)
	self.mu.Unlock()
}

func setup(t testing.TB, config string) (*Console, *bytes.Buffer, *teleRecorder) {
	ctx, g := state.NewTestContext(t, config)
	rec := newTeleRecorder()
	g.Tele = rec
	buf := bytes.NewBuffer(nil)
	return New(ctx, buf), buf, rec
}

func TestExec(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		input  string
		expect string
		check  func(testing.TB, *Console, *teleRecorder)
	}{
		{"buy", "25 25 5 display buy display",
			"inserted=0.25 display=10m\ninserted=0.5 display=20m\ninserted=0.55 display=22m\ndisplay=22m\nreceipt time=22m paid=0.55\ndisplay=0m\n",
			func(t testing.TB, c *Console, rec *teleRecorder) {
				require.Len(t, rec.txs, 1)
				assert.Equal(t, tele_api.Telemetry_Purchase, rec.txs[0].Kind)
				assert.Equal(t, uint32(22), rec.txs[0].Minutes)
				assert.Equal(t, uint32(55), rec.txs[0].Amount)
				assert.Equal(t, uint32(1), rec.stat.Purchases)
				assert.InDelta(t, time.Now().Unix(), rec.stat.Activity/1e9, 10, "activity is wall clock")
				assert.Equal(t, tele_api.State_Nominal, rec.states[len(rec.states)-1])
			}},
		{"cancel", "10 10 cancel",
			"inserted=0.1 display=4m\ninserted=0.2 display=8m\nreturned nickel:0 dime:2 quarter:0 total=0.2\n",
			func(t testing.TB, c *Console, rec *teleRecorder) {
				require.Len(t, rec.txs, 1)
				assert.Equal(t, tele_api.Telemetry_Cancel, rec.txs[0].Kind)
				assert.Equal(t, map[uint32]uint32{5: 0, 10: 2, 25: 0}, rec.txs[0].Coins)
				assert.InDelta(t, time.Now().Unix(), rec.txs[0].Issued/1e9, 10)
				assert.Equal(t, uint32(1), rec.stat.Cancels)
			}},
		{"cancel-idle", "cancel",
			"returned nickel:0 dime:0 quarter:0 total=0\n",
			func(t testing.TB, c *Console, rec *teleRecorder) {
				assert.Len(t, rec.txs, 0)
			}},
		{"invalid-coin", "10 1 -5 display",
			"inserted=0.1 display=4m\nerror: invalid coin value=1\nerror: invalid coin value=-5\ndisplay=4m\n",
			func(t testing.TB, c *Console, rec *teleRecorder) {
				assert.Equal(t, map[uint32]uint32{1: 1}, rec.stat.CoinRejected)
			}},
		{"empty", "25 buy 10 cancel 5 buy empty empty",
			"",
			func(t testing.TB, c *Console, rec *teleRecorder) {
				assert.Len(t, rec.txs, 3)
			}},
		{"unknown", "coffee", "error: 'coffee', try help: unknown command\n", nil},
		{"help", "help", usage, nil},
	}
	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()
			con, buf, rec := setup(t, "")
			con.Exec(c.input)
			if c.expect != "" {
				assert.Equal(t, c.expect, buf.String())
			}
			if c.check != nil {
				c.check(t, con, rec)
			}
		})
	}
}

func TestEmptyOutput(t *testing.T) {
	t.Parallel()

	con, buf, _ := setup(t, "")
	con.Exec("25 buy 10 cancel 5 buy")
	buf.Reset()
	con.Exec("empty empty")
	assert.Equal(t, "collected=0.3\ncollected=0\n", buf.String())
}

func TestBuyQR(t *testing.T) {
	t.Parallel()

	con, buf, _ := setup(t, `console { qr = true }`)
	con.Exec("buy")
	assert.Equal(t, "receipt time=0m paid=0\n", buf.String(), "zero receipt has no QR")

	buf.Reset()
	con.Exec("25 buy")
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "inserted=0.25 display=10m\nreceipt time=10m paid=0.25\n"))
	assert.Contains(t, out, "█")
}

func TestReceiptQR(t *testing.T) {
	t.Parallel()

	ps := paystation.New(log2.NewTest(t, log2.LDebug))
	require.NoError(t, ps.AddPayment(25))
	require.NoError(t, ps.AddPayment(10))
	r := ps.Buy()
	text := ReceiptText(r)
	assert.True(t, strings.HasSuffix(text, "&m=14&s=0.35"), text)
	assert.InDelta(t, time.Now().Unix(), r.Issued().Unix(), 10)

	s, err := ReceiptQR(r)
	require.NoError(t, err)
	qr, err := qrcode.New(text, qrcode.Medium)
	require.NoError(t, err)
	assert.Equal(t, qr.ToString(false), s)
}

func TestComplete(t *testing.T) {
	t.Parallel()

	con, _, _ := setup(t, "")
	buf := prompt.NewBuffer()
	buf.InsertText("disp", false, true)
	result := con.Complete(*buf.Document())
	require.Len(t, result, 1)
	assert.Equal(t, "display", result[0].Text)
}
