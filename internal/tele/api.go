package tele

import (
	"context"

	"github.com/juju/errors"
	"github.com/temoto/paystation/currency"
	"github.com/temoto/paystation/internal/state"
	tele_api "github.com/temoto/paystation/tele"
)

const logMsgDisabled = "tele disabled"

func (self *tele) CommandReplyErr(c *tele_api.Command, e error) {
	if !self.config.Enabled {
		self.log.Infof(logMsgDisabled)
		return
	}
	r := tele_api.Response{}
	if e != nil {
		r.Error = e.Error()
	}
	if err := self.qpushCommandResponse(c, &r); err != nil {
		self.log.Errorf("CRITICAL command=%s response=%s err=%v", c.String(), r.String(), err)
	}
}

func (self *tele) Error(e error) {
	if !self.config.Enabled {
		self.log.Debugf(logMsgDisabled)
		return
	}

	self.log.Debugf("tele.Error: " + errors.ErrorStack(e))
	tm := &tele_api.Telemetry{
		Error: &tele_api.Telemetry_Error{Message: e.Error()},
	}
	if err := self.qpushTelemetry(tm); err != nil {
		self.log.Infof("CRITICAL qpushTelemetry telemetry_error=%s err=%v", tm.Error.String(), err)
	}
}

func (self *tele) Report(ctx context.Context, serviceTag bool) error {
	if !self.config.Enabled {
		self.log.Infof(logMsgDisabled)
		return nil
	}

	g := state.GetGlobal(ctx)
	tm := &tele_api.Telemetry{
		Cashbox:   teleMoney(g.Station.Cashbox()),
		Session:   teleMoney(g.Station.Session()),
		AtService: serviceTag,
	}
	err := self.qpushTelemetry(tm)
	if err != nil {
		self.log.Errorf("CRITICAL qpushTelemetry tm=%s err=%v", tm.String(), err)
	}
	return err
}

func (self *tele) State(s tele_api.State) {
	if !self.config.Enabled {
		return
	}
	self.stateLk.Lock()
	defer self.stateLk.Unlock()
	if self.currentState != s {
		self.currentState = s
		self.transport.SendState([]byte{byte(s)})
	}
}

func (self *tele) StatModify(fun func(s *tele_api.Stat)) {
	if !self.config.Enabled {
		return
	}

	self.stat.Lock()
	fun(&self.stat)
	self.stat.Unlock()
}

func (self *tele) Transaction(tx *tele_api.Telemetry_Transaction) {
	if !self.config.Enabled {
		self.log.Infof(logMsgDisabled)
		return
	}
	err := self.qpushTelemetry(&tele_api.Telemetry{Transaction: tx})
	if err != nil {
		self.log.Errorf("CRITICAL transaction=%s err=%v", tx.String(), err)
	}
}

func teleMoney(ng *currency.NominalGroup) *tele_api.Telemetry_Money {
	return &tele_api.Telemetry_Money{
		Total: uint32(ng.Total()),
		Coins: ng.ToMap(),
	}
}
