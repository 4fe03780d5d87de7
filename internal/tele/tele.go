// Package tele is pay station telemetry client: MQTT transport with persistent outgoing queue.
package tele

import (
	"context"
	"sync"
	"time"

	"github.com/golang/protobuf/proto"
	"github.com/juju/errors"
	"github.com/temoto/paystation/helpers"
	"github.com/temoto/paystation/log2"
	tele_api "github.com/temoto/paystation/tele"
	tele_config "github.com/temoto/paystation/tele/config"
	"github.com/temoto/spq"
)

const DefaultNetworkTimeout = 30 * time.Second

// Tele contract:
// - Init() fails only with invalid config, network issues ignored
// - Transaction/Error/Report public API calls block at most for disk write
//   network may be slow or absent, messages will be delivered in background
// - Telemetry/Response messages delivered at least once
// - State messages may be lost
type tele struct { //nolint:maligned
	config    tele_config.Config
	log       *log2.Log
	transport Transporter
	q         *spq.Queue
	stopCh    chan struct{}
	vmId      int32
	stat      tele_api.Stat
	retry     helpers.Backoff

	stateLk      sync.Mutex
	currentState tele_api.State
}

func New() tele_api.Teler {
	return &tele{}
}

func NewWithTransporter(trans Transporter) tele_api.Teler {
	return &tele{transport: trans}
}

func (self *tele) Init(ctx context.Context, log *log2.Log, teleConfig tele_config.Config) error {
	self.config = teleConfig
	self.log = log
	if self.config.LogDebug {
		self.log.SetLevel(log2.LDebug)
	}
	self.stopCh = make(chan struct{})
	self.vmId = int32(self.config.VmId)
	self.stat.Lock()
	self.stat.Locked_Reset()
	self.stat.Unlock()
	self.retry = helpers.Backoff{Min: 100 * time.Millisecond, Max: 30 * time.Second, K: 2}

	if !self.config.Enabled {
		return nil
	}
	if self.config.PersistPath == "" {
		panic("code error must set tele config.PersistPath")
	}

	// queue must be open before transport, broker may redeliver commands right on connect
	var err error
	self.q, err = spq.Open(self.config.PersistPath)
	if err != nil {
		return errors.Annotate(err, "tele queue")
	}

	// test code sets .transport
	if self.transport == nil { // production path
		self.transport = &transportMqtt{}
	}
	willPayload := []byte{byte(tele_api.State_Disconnected)}
	if err = self.transport.Init(ctx, log, teleConfig, self.onCommandMessage, willPayload); err != nil {
		_ = self.q.Close()
		self.q = nil
		return errors.Annotate(err, "tele transport")
	}

	go self.qworker()
	self.State(tele_api.State_Boot)
	return nil
}

func (self *tele) Close() {
	if !self.config.Enabled {
		return
	}
	close(self.stopCh)
	if self.q != nil {
		if err := self.q.Close(); err != nil {
			self.log.Errorf("tele queue close err=%v", err)
		}
	}
	self.transport.Close()
}

// denote value type in persistent queue bytes form
const (
	qCommandResponse byte = 1
	qTelemetry       byte = 2
)

func (self *tele) qworker() {
	for {
		box, err := self.q.Peek()
		switch err {
		case nil:
			b := box.Bytes()
			del, err := self.qhandle(b)
			if err != nil {
				self.log.Errorf("tele qhandle b=%x err=%v", b, err)
			}
			if del {
				if err = self.q.Delete(box); err != nil {
					self.log.Errorf("tele qhandle Delete b=%x err=%v", b, err)
				}
			} else if err = self.q.DeletePush(box); err != nil {
				self.log.Errorf("tele qhandle DeletePush b=%x err=%v", b, err)
			}
			// undelivered message goes to queue tail, wait before next attempt
			select {
			case <-self.stopCh:
			case <-time.After(self.retry.DelayAfter(del)):
			}

		case spq.ErrClosed:
			select {
			case <-self.stopCh: // success path
			default:
				self.log.Errorf("CRITICAL tele spq closed unexpectedly")
			}
			return

		default:
			self.log.Errorf("CRITICAL tele spq err=%v", err)
			select {
			case <-self.stopCh:
				return
			case <-time.After(self.retry.DelayAfter(false)):
			}
		}
	}
}

// Returns true when message is done: delivered or useless to retry.
func (self *tele) qhandle(b []byte) (bool, error) {
	if len(b) == 0 {
		return true, errors.Errorf("tele spq peek=empty")
	}

	switch b[0] {
	case qCommandResponse:
		var r tele_api.Response
		if err := proto.Unmarshal(b[1:], &r); err != nil {
			return true, err
		}
		return self.qsendResponse(&r), nil

	case qTelemetry:
		var tm tele_api.Telemetry
		if err := proto.Unmarshal(b[1:], &tm); err != nil {
			return true, err
		}
		return self.qsendTelemetry(&tm), nil

	default:
		return true, errors.Errorf("unknown kind=%d", b[0])
	}
}

func (self *tele) qpushCommandResponse(c *tele_api.Command, r *tele_api.Response) error {
	r.CommandId = c.Id
	r.INTERNALTopic = c.ReplyTopic
	return self.qpushTagProto(qCommandResponse, r)
}

func (self *tele) qpushTelemetry(tm *tele_api.Telemetry) error {
	if tm.VmId == 0 {
		tm.VmId = self.vmId
	}
	if tm.Time == 0 {
		tm.Time = time.Now().UnixNano()
	}
	tm.BuildVersion = self.config.BuildVersion
	self.stat.Lock()
	defer self.stat.Unlock()
	tm.Stat = &self.stat.Telemetry_Stat
	err := self.qpushTagProto(qTelemetry, tm)
	tm.Stat = nil
	self.stat.Locked_Reset()
	return err
}

func (self *tele) qpushTagProto(tag byte, pb proto.Message) error {
	buf := proto.NewBuffer(make([]byte, 0, 1024))
	if err := buf.EncodeVarint(uint64(tag)); err != nil {
		return err
	}
	if err := buf.Marshal(pb); err != nil {
		return err
	}
	return self.q.Push(buf.Bytes())
}

func (self *tele) qsendResponse(r *tele_api.Response) bool {
	// do not serialize INTERNAL_topic field
	wireResponse := *r
	wireResponse.INTERNALTopic = ""
	payload, err := proto.Marshal(&wireResponse)
	if err != nil {
		self.log.Errorf("CRITICAL response Marshal r=%#v err=%v", r, err)
		return true // retry will not help
	}
	return self.transport.SendCommandResponse(r.INTERNALTopic, payload)
}

func (self *tele) qsendTelemetry(tm *tele_api.Telemetry) bool {
	payload, err := proto.Marshal(tm)
	if err != nil {
		self.log.Errorf("CRITICAL telemetry Marshal tm=%#v err=%v", tm, err)
		return true // retry will not help
	}
	return self.transport.SendTelemetry(payload)
}
