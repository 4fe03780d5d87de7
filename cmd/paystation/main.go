package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/coreos/go-systemd/daemon"
	"github.com/juju/errors"
	"github.com/mattn/go-isatty"
	cmd_console "github.com/temoto/paystation/cmd/paystation/console"
	"github.com/temoto/paystation/cmd/paystation/subcmd"
	cmd_tele "github.com/temoto/paystation/cmd/paystation/tele"
	"github.com/temoto/paystation/internal/state"
	"github.com/temoto/paystation/internal/tele"
	"github.com/temoto/paystation/log2"
	"golang.org/x/sync/errgroup"
)

var BuildVersion string = "unknown" // set by ldflags -X

var log = log2.NewStderr(log2.LDebug)

var modules = []subcmd.Mod{
	cmd_console.Mod,
	cmd_tele.Mod,
	{Name: "version", Usage: "print build version", Main: versionMain},
}

func main() {
	cmdline := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	flagConfig := cmdline.String("config", "paystation.hcl", "")
	cmdline.Usage = func() {
		fmt.Fprintf(cmdline.Output(), "Usage: %s [option...] [command]\n\nOptions:\n", os.Args[0])
		cmdline.PrintDefaults()
		fmt.Fprintf(cmdline.Output(), "\nCommands:\n%s", subcmd.Usage(modules))
	}
	_ = cmdline.Parse(os.Args[1:])

	command := cmdline.Arg(0)
	if command == "" {
		command = cmd_console.Mod.Name
	}
	mod, err := subcmd.Parse(command, modules)
	if err != nil {
		cmdline.Usage()
		log.Fatal(err)
	}
	if mod.Name == "version" {
		_ = mod.Main(context.Background(), nil)
		return
	}

	if subcmd.SdNotify("start") {
		// under systemd, assume journal logging, remove timestamp
		log.SetFlags(log2.LServiceFlags)
	} else if isatty.IsTerminal(os.Stderr.Fd()) {
		log.SetFlags(log2.LInteractiveFlags)
	}
	log.SetLevel(log2.LInfo)

	config := state.MustReadConfig(log, state.NewOsFullReader(), *flagConfig)
	ctx, g := state.NewContext(log, tele.New())
	g.BuildVersion = BuildVersion

	if err := run(ctx, g, mod, config); err != nil {
		g.Log.Fatal(errors.ErrorStack(err))
	}
}

func run(ctx context.Context, g *state.Global, mod *subcmd.Mod, config *state.Config) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer signal.Stop(sigCh)

	grp, gctx := errgroup.WithContext(ctx)
	grp.Go(func() error {
		err := mod.Main(ctx, config)
		g.Stop()
		return errors.Annotatef(err, "command=%s", mod.Name)
	})
	grp.Go(func() error {
		select {
		case s := <-sigCh:
			g.Log.Infof("signal=%v stopping", s)
			g.Stop()
			return context.Canceled
		case <-g.Alive.StopChan():
			return nil
		}
	})
	waitCh := make(chan error, 1)
	go func() { waitCh <- grp.Wait() }()

	// console may block on stdin forever, do not wait for it after signal
	var err error
	select {
	case err = <-waitCh:
	case <-gctx.Done():
		err = context.Cause(gctx)
	}
	subcmd.SdNotify(daemon.SdNotifyStopping)
	g.Tele.Close()

	if err == nil || errors.Cause(err) == context.Canceled {
		return nil
	}
	return err
}

func versionMain(ctx context.Context, config *state.Config) error {
	fmt.Printf("paystation %s\n", BuildVersion)
	return nil
}
