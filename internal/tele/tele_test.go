package tele_test

import (
	"context"
	"encoding/hex"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/golang/protobuf/proto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/temoto/paystation/helpers"
	"github.com/temoto/paystation/internal/state"
	"github.com/temoto/paystation/internal/tele"
	"github.com/temoto/paystation/log2"
	tele_api "github.com/temoto/paystation/tele"
	tele_config "github.com/temoto/paystation/tele/config"
	"github.com/temoto/spq"
)

type response struct {
	suffix  string
	payload []byte
}

type transportMock struct {
	onCommand tele.CommandCallback
	ctx       context.Context
	will      []byte
	state     chan []byte
	telemetry chan []byte
	response  chan response
	// delivered from Init, like broker redelivering persistent session commands on connect
	eager []byte
}

func newTransportMock() *transportMock {
	return &transportMock{
		state:     make(chan []byte, 32),
		telemetry: make(chan []byte, 32),
		response:  make(chan response, 32),
	}
}

func (self *transportMock) Init(ctx context.Context, log *log2.Log, teleConfig tele_config.Config, onCommand tele.CommandCallback, willPayload []byte) error {
	self.ctx = ctx
	self.onCommand = onCommand
	self.will = willPayload
	if self.eager != nil {
		onCommand(ctx, self.eager)
	}
	return nil
}
func (self *transportMock) Close() {}
func (self *transportMock) SendState(payload []byte) bool {
	self.state <- payload
	return true
}
func (self *transportMock) SendTelemetry(payload []byte) bool {
	self.telemetry <- payload
	return true
}
func (self *transportMock) SendCommandResponse(topicSuffix string, payload []byte) bool {
	self.response <- response{topicSuffix, payload}
	return true
}

func (self *transportMock) command(t testing.TB, cmd *tele_api.Command) {
	b, err := proto.Marshal(cmd)
	require.NoError(t, err)
	assert.True(t, self.onCommand(self.ctx, b))
}

func recvTelemetry(t testing.TB, ch <-chan []byte) *tele_api.Telemetry {
	select {
	case b := <-ch:
		var tm tele_api.Telemetry
		require.NoError(t, proto.Unmarshal(b, &tm))
		return &tm
	case <-time.After(5 * time.Second):
		t.Fatal("telemetry timeout")
		return nil
	}
}

func recvResponse(t testing.TB, ch <-chan response) (string, *tele_api.Response) {
	select {
	case x := <-ch:
		var r tele_api.Response
		require.NoError(t, proto.Unmarshal(x.payload, &r))
		return x.suffix, &r
	case <-time.After(5 * time.Second):
		t.Fatal("response timeout")
		return "", nil
	}
}

type tenv struct {
	ctx     context.Context
	g       *state.Global
	mock    *transportMock
	tele    tele_api.Teler
	vmid    int32
	version string
}

func testSetup(t testing.TB, enabled bool) *tenv {
	return testSetupMock(t, enabled, newTransportMock())
}

func testSetupMock(t testing.TB, enabled bool, mock *transportMock) *tenv {
	rnd := helpers.RandUnix()
	env := &tenv{
		mock:    mock,
		vmid:    rnd.Int31n(100000) + 1,
		version: fmt.Sprintf("v%d", rnd.Uint32()),
	}
	env.ctx, env.g = state.NewTestContext(t, "")
	env.tele = tele.NewWithTransporter(env.mock)
	env.g.Tele = env.tele
	cfg := env.g.Config.Tele
	cfg.Enabled = enabled
	cfg.LogDebug = true
	cfg.PersistPath = spq.OnlyForTesting
	cfg.VmId = int(env.vmid)
	cfg.BuildVersion = env.version
	require.NoError(t, env.tele.Init(env.ctx, env.g.Log.Clone(log2.LDebug), cfg))
	return env
}

func TestApi(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		check func(testing.TB, *tenv)
	}{
		{"will", func(t testing.TB, env *tenv) {
			assert.Equal(t, []byte{byte(tele_api.State_Disconnected)}, env.mock.will)
		}},
		{"error", func(t testing.TB, env *tenv) {
			e := fmt.Errorf("ohi")
			env.tele.Error(e)
			tm := recvTelemetry(t, env.mock.telemetry)
			require.NotNil(t, tm.Error)
			assert.Equal(t, env.vmid, tm.VmId)
			assert.InDelta(t, time.Now().Unix(), tm.Time/1e9, 10)
			assert.Equal(t, e.Error(), tm.Error.Message)
			assert.Equal(t, env.version, tm.BuildVersion)
		}},
		{"state", func(t testing.TB, env *tenv) {
			assert.Equal(t, "01", hex.EncodeToString(<-env.mock.state))
			env.tele.State(tele_api.State_Nominal)
			env.tele.State(tele_api.State_Nominal)
			env.tele.State(tele_api.State_Session)
			assert.Equal(t, "02", hex.EncodeToString(<-env.mock.state))
			assert.Equal(t, "03", hex.EncodeToString(<-env.mock.state))
			assert.Len(t, env.mock.state, 0)
		}},
		{"transaction-stat", func(t testing.TB, env *tenv) {
			env.tele.StatModify(func(s *tele_api.Stat) {
				s.Purchases++
				s.CoinRejected[3]++
			})
			env.tele.Transaction(&tele_api.Telemetry_Transaction{
				Kind:    tele_api.Telemetry_Purchase,
				Minutes: 22,
				Amount:  55,
				Coins:   map[uint32]uint32{5: 1, 25: 2},
			})
			tm := recvTelemetry(t, env.mock.telemetry)
			require.NotNil(t, tm.Transaction)
			assert.Equal(t, tele_api.Telemetry_Purchase, tm.Transaction.Kind)
			assert.Equal(t, uint32(22), tm.Transaction.Minutes)
			assert.Equal(t, uint32(2), tm.Transaction.Coins[25])
			require.NotNil(t, tm.Stat)
			assert.Equal(t, uint32(1), tm.Stat.Purchases)
			assert.Equal(t, uint32(1), tm.Stat.CoinRejected[3])

			// stat is reset after each push
			env.tele.Error(fmt.Errorf("next"))
			tm = recvTelemetry(t, env.mock.telemetry)
			assert.Equal(t, uint32(0), tm.GetStat().Purchases)
		}},
		{"report-service", func(t testing.TB, env *tenv) {
			require.NoError(t, env.g.Station.AddPayment(25))
			require.NoError(t, env.g.Station.AddPayment(5))
			env.g.Station.Buy()
			require.NoError(t, env.g.Station.AddPayment(10))

			require.NoError(t, env.tele.Report(env.ctx, true))
			tm := recvTelemetry(t, env.mock.telemetry)
			assert.Nil(t, tm.Error)
			assert.True(t, tm.AtService)
			require.NotNil(t, tm.Cashbox)
			assert.Equal(t, uint32(30), tm.Cashbox.Total)
			assert.Equal(t, uint32(1), tm.Cashbox.Coins[25])
			require.NotNil(t, tm.Session)
			assert.Equal(t, uint32(10), tm.Session.Total)
			// report does not end session
			assert.Equal(t, 4, env.g.Station.ReadDisplay())
		}},
	}
	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()
			env := testSetup(t, true)
			defer env.tele.Close()
			c.check(t, env)
		})
	}
}

func TestCommand(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		cmd    tele_api.Command
		before func(testing.TB, *tenv)
		check  func(testing.TB, *tenv, *tele_api.Command)
	}{
		{name: "report",
			cmd: tele_api.Command{Id: rand.Uint32(), ReplyTopic: "t", Report: &tele_api.Command_ArgReport{}},
			before: func(t testing.TB, env *tenv) {
				require.NoError(t, env.g.Station.AddPayment(25))
			},
			check: func(t testing.TB, env *tenv, cmd *tele_api.Command) {
				tm := recvTelemetry(t, env.mock.telemetry)
				assert.False(t, tm.AtService)
				assert.Equal(t, uint32(25), tm.GetSession().GetTotal())
				suffix, r := recvResponse(t, env.mock.response)
				assert.Equal(t, "t", suffix)
				assert.Equal(t, cmd.Id, r.CommandId)
				assert.Equal(t, "", r.Error)
				assert.Equal(t, "", r.INTERNALTopic)
			}},
		{name: "cancel",
			cmd: tele_api.Command{Id: rand.Uint32(), ReplyTopic: "cr", Cancel: &tele_api.Command_ArgCancel{}},
			before: func(t testing.TB, env *tenv) {
				require.NoError(t, env.g.Station.AddPayment(10))
				require.NoError(t, env.g.Station.AddPayment(10))
			},
			check: func(t testing.TB, env *tenv, cmd *tele_api.Command) {
				tm := recvTelemetry(t, env.mock.telemetry)
				require.NotNil(t, tm.Transaction)
				assert.Equal(t, tele_api.Telemetry_Cancel, tm.Transaction.Kind)
				assert.Equal(t, uint32(20), tm.Transaction.Amount)
				assert.Equal(t, uint32(2), tm.Transaction.Coins[10])
				assert.Equal(t, uint32(1), tm.GetStat().GetCancels())
				suffix, r := recvResponse(t, env.mock.response)
				assert.Equal(t, "cr", suffix)
				assert.Equal(t, cmd.Id, r.CommandId)
				assert.Equal(t, 0, env.g.Station.ReadDisplay())
			}},
		{name: "unknown",
			cmd: tele_api.Command{Id: rand.Uint32(), ReplyTopic: "t"},
			check: func(t testing.TB, env *tenv, cmd *tele_api.Command) {
				_, r := recvResponse(t, env.mock.response)
				assert.Equal(t, cmd.Id, r.CommandId)
				assert.Contains(t, r.Error, "unknown command")
			}},
	}
	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()
			env := testSetup(t, true)
			defer env.tele.Close()
			if c.before != nil {
				c.before(t, env)
			}
			env.mock.command(t, &c.cmd)
			c.check(t, env, &c.cmd)
		})
	}
}

func TestCommandOnConnect(t *testing.T) {
	t.Parallel()

	cmd := &tele_api.Command{Id: rand.Uint32(), ReplyTopic: "t", Report: &tele_api.Command_ArgReport{}}
	b, err := proto.Marshal(cmd)
	require.NoError(t, err)
	mock := newTransportMock()
	mock.eager = b

	var env *tenv
	require.NotPanics(t, func() { env = testSetupMock(t, true, mock) })
	defer env.tele.Close()
	tm := recvTelemetry(t, env.mock.telemetry)
	assert.Equal(t, env.vmid, tm.VmId)
	assert.False(t, tm.AtService)
	_, r := recvResponse(t, env.mock.response)
	assert.Equal(t, cmd.Id, r.CommandId)
	assert.Equal(t, "", r.Error)
}

func TestDisabled(t *testing.T) {
	t.Parallel()

	env := testSetup(t, false)
	defer env.tele.Close()
	env.tele.State(tele_api.State_Nominal)
	env.tele.Error(fmt.Errorf("ignored"))
	env.tele.Transaction(&tele_api.Telemetry_Transaction{Kind: tele_api.Telemetry_Purchase})
	assert.NoError(t, env.tele.Report(env.ctx, false))
	assert.Nil(t, env.mock.onCommand, "transport must not start when disabled")
	assert.Len(t, env.mock.state, 0)
	assert.Len(t, env.mock.telemetry, 0)
}
