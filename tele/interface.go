package tele

import (
	"context"

	"github.com/temoto/paystation/log2"
	tele_config "github.com/temoto/paystation/tele/config"
)

// Teler interface Telemetry client, pay station side.
type Teler interface {
	Init(context.Context, *log2.Log, tele_config.Config) error
	Close()
	State(State)
	Error(error)
	StatModify(func(*Stat))
	Report(ctx context.Context, serviceTag bool) error
	Transaction(*Telemetry_Transaction)
}
