package tele

import (
	"context"
	"fmt"
	"time"

	"github.com/golang/protobuf/proto"
	"github.com/juju/errors"
	"github.com/temoto/paystation/internal/state"
	tele_api "github.com/temoto/paystation/tele"
)

func (self *tele) onCommandMessage(ctx context.Context, payload []byte) bool {
	cmd := new(tele_api.Command)
	err := proto.Unmarshal(payload, cmd)
	if err != nil {
		self.log.Errorf("tele command parse raw=%x err=%v", payload, err)
		return true
	}
	self.log.Debugf("tele command raw=%x task=%s", payload, cmd.String())

	err = self.dispatchCommand(ctx, cmd)
	if cmd.ReplyTopic != "" {
		self.CommandReplyErr(cmd, err)
	} else if err != nil {
		self.log.Errorf("tele command=%s err=%v", cmd.String(), err)
	}
	return true
}

func (self *tele) dispatchCommand(ctx context.Context, cmd *tele_api.Command) error {
	switch {
	case cmd.Report != nil:
		return self.cmdReport(ctx, cmd)

	case cmd.Cancel != nil:
		return self.cmdCancel(ctx, cmd)

	default:
		return fmt.Errorf("unknown command=%s", cmd.String())
	}
}

func (self *tele) cmdReport(ctx context.Context, cmd *tele_api.Command) error {
	return errors.Annotate(self.Report(ctx, false), "cmdReport")
}

// Remote cancel returns inserted coins, same as customer pressing cancel.
func (self *tele) cmdCancel(ctx context.Context, cmd *tele_api.Command) error {
	g := state.GetGlobal(ctx)
	coins := g.Station.Cancel()
	self.StatModify(func(s *tele_api.Stat) { s.Cancels++ })
	self.Transaction(&tele_api.Telemetry_Transaction{
		Kind:   tele_api.Telemetry_Cancel,
		Amount: uint32(coins.Total()),
		Coins:  coins.ToMap(),
		Issued: time.Now().UnixNano(),
	})
	g.Log.Infof("tele remote cancel command=%d returned=%s", cmd.Id, coins.String())
	return nil
}
