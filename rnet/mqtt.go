package rnet

import (
	"fmt"
	"log"
	"time"

	"github.com/cenkalti/backoff/v4"
	mqtt "github.com/eclipse/paho.mqtt.golang"

	"gitlab.com/lologarithm/rangewatch/station"
)

// MQTTConfig is the settings needed to publish snapshots to a broker.
type MQTTConfig struct {
	Broker   string // tcp://host:1883
	Topic    string
	ClientID string
	User     string
	Password string
}

// MQTTPublisher publishes snapshots to a topic with QoS 0.
type MQTTPublisher struct {
	client mqtt.Client
	topic  string
}

// NewMQTTPublisher connects to the broker, retrying with exponential backoff.
func NewMQTTPublisher(cfg MQTTConfig) (*MQTTPublisher, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	opts.SetUsername(cfg.User)
	opts.SetPassword(cfg.Password)
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 10 * time.Second

	var client mqtt.Client
	err := backoff.Retry(func() error {
		client = mqtt.NewClient(opts)
		if token := client.Connect(); token.Wait() && token.Error() != nil {
			log.Printf("[Error] Failed to connect to MQTT broker: %v", token.Error())
			return token.Error()
		}
		return nil
	}, backoff.WithMaxRetries(bo, 4))
	if err != nil {
		return nil, fmt.Errorf("could not connect to %s: %w", cfg.Broker, err)
	}
	log.Printf("Connected to MQTT broker at %s", cfg.Broker)
	return &MQTTPublisher{client: client, topic: cfg.Topic}, nil
}

func (p *MQTTPublisher) Broadcast(s station.Snapshot) error {
	msg, err := encode(s)
	if err != nil {
		return err
	}
	token := p.client.Publish(p.topic, 0, false, msg)
	token.Wait()
	return token.Error()
}

func (p *MQTTPublisher) Close() error {
	if p.client.IsConnected() {
		p.client.Disconnect(250)
	}
	return nil
}
