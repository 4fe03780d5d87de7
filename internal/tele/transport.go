package tele

import (
	"context"
	"fmt"

	"github.com/temoto/paystation/log2"
	tele_config "github.com/temoto/paystation/tele/config"
)

func TopicPrefix(vmid int32) string                  { return fmt.Sprintf("ps%d", vmid) }
func TopicCommand(vmid int32) string                 { return TopicPrefix(vmid) + "/r/c" }
func TopicResponse(vmid int32, suffix string) string { return TopicPrefix(vmid) + "/" + suffix }
func TopicState(vmid int32) string                   { return TopicPrefix(vmid) + "/w/1s" }
func TopicTelemetry(vmid int32) string               { return TopicPrefix(vmid) + "/w/1t" }

// Tele transport contract:
// - Init fails only with invalid config, ignores network errors
// - Send* return true when message is accepted for delivery, false means retry later
// - application may start without network available
type Transporter interface {
	Init(ctx context.Context, log *log2.Log, teleConfig tele_config.Config, onCommand CommandCallback, willPayload []byte) error
	Close()
	SendState(payload []byte) bool
	SendTelemetry(payload []byte) bool
	SendCommandResponse(topicSuffix string, payload []byte) bool
}

type CommandCallback func(context.Context, []byte) bool
