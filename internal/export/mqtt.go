// Package export republishes decoded GPS events to external consumers.
package export

import (
	"encoding/json"
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"gpstaild/internal/config"
	"gpstaild/internal/gps"
	"gpstaild/pkg/log"
)

// Publisher forwards fixes and satellite views to an MQTT broker. Its
// methods match the session callback slots, so it plugs straight into
// gps.Callbacks.
type Publisher struct {
	client mqtt.Client
	prefix string
}

// NewPublisher connects to the configured broker. The connection is
// synchronous; a broker that is down fails construction.
func NewPublisher(cfg config.MQTTConfig) (*Publisher, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect: %w", token.Error())
	}

	log.Info("mqtt exporter connected", zap.String("broker", cfg.Broker))

	return &Publisher{client: client, prefix: cfg.TopicPrefix}, nil
}

// OnFix publishes the fix as retained JSON so late subscribers see the last
// known position.
func (p *Publisher) OnFix(f gps.Fix) {
	payload, err := fixPayload(f)
	if err != nil {
		log.Error("fix payload marshal failed", zap.Error(err))
		return
	}
	p.publish(p.prefix+"/fix", payload)
}

func (p *Publisher) OnSatellites(v gps.SatelliteView) {
	payload, err := satellitePayload(v)
	if err != nil {
		log.Error("satellite payload marshal failed", zap.Error(err))
		return
	}
	p.publish(p.prefix+"/satellites", payload)
}

func (p *Publisher) publish(topic string, payload []byte) {
	token := p.client.Publish(topic, 0, true, payload)
	token.Wait()
	if token.Error() != nil {
		log.Error("mqtt publish failed", zap.String("topic", topic), zap.Error(token.Error()))
	}
}

// Close disconnects from the broker, allowing in-flight work to finish.
func (p *Publisher) Close() {
	p.client.Disconnect(250)
}

type fixMessage struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
	Altitude  float64 `json:"alt"`
	Speed     float64 `json:"speed_mps"`
	Course    float64 `json:"course_deg"`
	Accuracy  float64 `json:"hdop"`
	Timestamp int64   `json:"ts"`
}

type satelliteEntry struct {
	ID        int     `json:"id"`
	SNR       int     `json:"snr"`
	Elevation float64 `json:"elevation"`
	Azimuth   float64 `json:"azimuth"`
}

type satelliteMessage struct {
	Count      int              `json:"count"`
	Satellites []satelliteEntry `json:"satellites"`
}

func fixPayload(f gps.Fix) ([]byte, error) {
	return json.Marshal(fixMessage{
		Latitude:  f.Latitude,
		Longitude: f.Longitude,
		Altitude:  f.Altitude,
		Speed:     f.Speed,
		Course:    f.Course,
		Accuracy:  f.Accuracy,
		Timestamp: f.Timestamp,
	})
}

func satellitePayload(v gps.SatelliteView) ([]byte, error) {
	msg := satelliteMessage{Count: v.Count}
	for _, sat := range v.Satellites {
		msg.Satellites = append(msg.Satellites, satelliteEntry{
			ID:        sat.ID,
			SNR:       sat.SNR,
			Elevation: sat.Elevation,
			Azimuth:   sat.Azimuth,
		})
	}
	return json.Marshal(msg)
}
