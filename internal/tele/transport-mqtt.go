package tele

import (
	"context"
	"net/url"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/juju/errors"
	"github.com/temoto/paystation/helpers"
	"github.com/temoto/paystation/log2"
	tele_config "github.com/temoto/paystation/tele/config"
)

const (
	defaultKeepalive   = 60 * time.Second
	defaultPingTimeout = 30 * time.Second
)

type transportMqtt struct {
	log       *log2.Log
	onCommand func([]byte) bool
	m         mqtt.Client
	timeout   time.Duration
	stopCh    chan struct{}

	topicPrefix    string
	topicState     string
	topicTelemetry string
	topicCommand   string
}

func (self *transportMqtt) Init(ctx context.Context, log *log2.Log, teleConfig tele_config.Config, onCommand CommandCallback, willPayload []byte) error {
	self.log = log
	mqttLog := log.Clone(log2.LInfo)
	if teleConfig.MqttLogDebug {
		mqttLog.SetLevel(log2.LDebug)
		mqtt.DEBUG = mqttLog
	}
	mqtt.ERROR = mqttLog
	mqtt.CRITICAL = mqttLog
	mqtt.WARN = mqttLog

	if _, err := url.ParseRequestURI(teleConfig.MqttBroker); err != nil {
		return errors.Annotatef(err, "tele config mqtt_broker=%s", teleConfig.MqttBroker)
	}

	vmid := int32(teleConfig.VmId)
	clientId := TopicPrefix(vmid) // coincidence
	self.topicPrefix = TopicPrefix(vmid)
	self.topicState = TopicState(vmid)
	self.topicTelemetry = TopicTelemetry(vmid)
	self.topicCommand = TopicCommand(vmid)
	self.timeout = helpers.IntSecondDefault(teleConfig.NetworkTimeoutSec, DefaultNetworkTimeout)
	self.onCommand = func(payload []byte) bool {
		return onCommand(ctx, payload)
	}

	opt := mqtt.NewClientOptions().
		AddBroker(teleConfig.MqttBroker).
		SetClientID(clientId).
		SetUsername(clientId).
		SetPassword(teleConfig.MqttPassword).
		SetBinaryWill(self.topicState, willPayload, 1, true).
		SetCleanSession(false).
		SetKeepAlive(helpers.IntSecondDefault(teleConfig.KeepaliveSec, defaultKeepalive)).
		SetPingTimeout(helpers.IntSecondDefault(teleConfig.PingTimeoutSec, defaultPingTimeout)).
		SetConnectTimeout(self.timeout).
		SetAutoReconnect(true).
		SetDefaultPublishHandler(self.messageHandler).
		SetOnConnectHandler(self.onConnectHandler).
		SetConnectionLostHandler(self.connectLostHandler)
	self.m = mqtt.NewClient(opt)

	self.stopCh = make(chan struct{})
	// network may be absent at boot, connect in background
	go self.connectLoop(teleConfig.MqttBroker)
	return nil
}

// paho auto reconnect only works after first successful connect
func (self *transportMqtt) connectLoop(broker string) {
	backoff := helpers.Backoff{Min: time.Second, Max: 2 * time.Minute, K: 2}
	for {
		token := self.m.Connect()
		token.Wait()
		err := token.Error()
		if err == nil {
			return
		}
		self.log.Errorf("tele mqtt connect broker=%s err=%v", broker, err)
		select {
		case <-self.stopCh:
			return
		case <-time.After(backoff.DelayAfter(false)):
		}
	}
}

func (self *transportMqtt) Close() {
	if self.m == nil {
		return
	}
	close(self.stopCh)
	if self.m.IsConnected() {
		token := self.m.Unsubscribe(self.topicCommand)
		if token.WaitTimeout(self.timeout) && token.Error() != nil {
			self.log.Errorf("tele mqtt unsubscribe err=%v", token.Error())
		}
	}
	self.m.Disconnect(uint(self.timeout / time.Millisecond))
}

func (self *transportMqtt) SendState(payload []byte) bool {
	self.log.Debugf("tele mqtt state payload=%x", payload)
	// retained, so monitor sees last state after reconnect
	return self.publish(self.topicState, true, payload)
}

func (self *transportMqtt) SendTelemetry(payload []byte) bool {
	return self.publish(self.topicTelemetry, false, payload)
}

func (self *transportMqtt) SendCommandResponse(topicSuffix string, payload []byte) bool {
	topic := self.topicPrefix + "/" + topicSuffix
	self.log.Debugf("tele mqtt command response topic=%s", topic)
	return self.publish(topic, false, payload)
}

func (self *transportMqtt) publish(topic string, retained bool, payload []byte) bool {
	if !self.m.IsConnected() {
		return false
	}
	token := self.m.Publish(topic, 1, retained, payload)
	if !token.WaitTimeout(self.timeout) {
		self.log.Errorf("tele mqtt publish topic=%s timeout", topic)
		return false
	}
	if err := token.Error(); err != nil {
		self.log.Errorf("tele mqtt publish topic=%s err=%v", topic, err)
		return false
	}
	return true
}

func (self *transportMqtt) messageHandler(c mqtt.Client, msg mqtt.Message) {
	payload := msg.Payload()
	self.log.Debugf("tele mqtt message topic=%s payload=%x", msg.Topic(), payload)
	self.onCommand(payload)
}

func (self *transportMqtt) connectLostHandler(c mqtt.Client, err error) {
	self.log.Infof("tele mqtt connection lost err=%v", err)
}

func (self *transportMqtt) onConnectHandler(c mqtt.Client) {
	self.log.Infof("tele mqtt connected")
	if token := c.Subscribe(self.topicCommand, 1, nil); token.Wait() && token.Error() != nil {
		self.log.Errorf("tele mqtt subscribe topic=%s err=%v", self.topicCommand, token.Error())
	}
}
