package console

import (
	"context"
	"os"

	"github.com/coreos/go-systemd/daemon"
	"github.com/juju/errors"
	"github.com/temoto/paystation/cmd/paystation/subcmd"
	"github.com/temoto/paystation/internal/console"
	"github.com/temoto/paystation/internal/state"
)

var Mod = subcmd.Mod{Name: "console", Usage: "accept coins typed on stdin (default)", Main: Main}

func Main(ctx context.Context, config *state.Config) error {
	g := state.GetGlobal(ctx)
	if err := g.Init(ctx, config); err != nil {
		return errors.Annotate(err, "init")
	}
	g.Log.Debugf("console init complete station=%s", config.Station.Name)
	subcmd.SdNotify(daemon.SdNotifyReady)

	return console.New(ctx, os.Stdout).Run()
}
