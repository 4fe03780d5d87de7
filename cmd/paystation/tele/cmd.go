package tele

import (
	"context"
	"encoding/hex"
	"strings"

	"github.com/c-bata/go-prompt"
	"github.com/golang/protobuf/proto"
	"github.com/juju/errors"
	"github.com/temoto/paystation/cmd/paystation/subcmd"
	"github.com/temoto/paystation/helpers/cli"
	"github.com/temoto/paystation/internal/state"
	tele_api "github.com/temoto/paystation/tele"
)

const modName = "tele-decode"

var Mod = subcmd.Mod{Name: modName, Usage: "print hex encoded telemetry messages as text", Main: Main}

func Main(ctx context.Context, config *state.Config) error {
	g := state.GetGlobal(ctx)
	synthConfig := &state.Config{}
	synthConfig.LogDebug = config.LogDebug
	g.MustInit(ctx, synthConfig)

	return cli.MainLoop(modName, "", newExecutor(ctx), newCompleter())
}

func newCompleter() cli.Completer {
	suggests := []prompt.Suggest{
		{Text: "telemetry", Description: "<hex> decode Telemetry (default)"},
		{Text: "command", Description: "<hex> decode Command"},
		{Text: "response", Description: "<hex> decode Response"},
		{Text: "state", Description: "<hex> decode State byte"},
	}
	return func(d prompt.Document) []prompt.Suggest {
		return cli.Suggest(suggests, d)
	}
}

func newExecutor(ctx context.Context) cli.Executor {
	g := state.GetGlobal(ctx)
	return func(line string) {
		s, err := Decode(line)
		if err != nil {
			g.Log.Error(err)
			return
		}
		g.Log.Info(s)
	}
}

// Decode accepts "[kind] hex", kind defaults to telemetry.
func Decode(line string) (string, error) {
	kind, hexString := "telemetry", line
	if fields := strings.Fields(line); len(fields) == 2 {
		kind, hexString = fields[0], fields[1]
	}
	// mosquitto_sub wrongly strips leading zero in hex format
	if len(hexString)%2 == 1 {
		hexString = "0" + hexString
	}
	b, err := hex.DecodeString(hexString)
	if err != nil {
		return "", errors.Annotate(err, "hex decode")
	}

	var pb proto.Message
	switch kind {
	case "telemetry", "t":
		pb = &tele_api.Telemetry{}
	case "command", "c":
		pb = &tele_api.Command{}
	case "response", "r":
		pb = &tele_api.Response{}
	case "state", "s":
		if len(b) != 1 {
			return "", errors.Errorf("state length=%d expected=1", len(b))
		}
		return tele_api.State(b[0]).String(), nil
	default:
		return "", errors.Errorf("unknown kind=%s", kind)
	}
	if err := proto.Unmarshal(b, pb); err != nil {
		return "", errors.Annotatef(err, "proto unmarshal kind=%s", kind)
	}
	return proto.MarshalTextString(pb), nil
}
