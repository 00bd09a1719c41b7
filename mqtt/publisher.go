package mqtt

import (
	"encoding/json"
	"fmt"
	"log/slog"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/nhaugen/kraftpris-go/types"
)

type pricePayload struct {
	Date     string  `json:"date"`
	NetPrice float64 `json:"net_price"`
	Vat      float64 `json:"vat"`
	Nettleie float64 `json:"nettleie"`
}

// Publisher pushes the composed day-ahead series to an MQTT topic so
// home automation systems can plan against tomorrow's prices without
// polling the HTTP API. The message is retained, late subscribers get
// the latest series immediately.
type Publisher struct {
	mqttClient mqtt.Client
	logger     *slog.Logger
	topic      string
}

func New(broker string, port int16, username, password, topic string) *Publisher {
	logger := slog.Default().With("module", "mqtt")
	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s:%d", broker, port))
	opts.SetClientID("kraftpris")
	opts.SetUsername(username)
	opts.SetPassword(password)
	opts.SetAutoReconnect(true)
	opts.OnConnect = func(client mqtt.Client) {
		logger.Info("MQTT connected")
	}
	opts.OnConnectionLost = func(client mqtt.Client, err error) {
		logger.Warn("MQTT connection lost", slog.Any("error", err))
	}

	mqtt.CRITICAL = newMqttLogger(logger, slog.LevelError)
	mqtt.ERROR = newMqttLogger(logger, slog.LevelError)
	mqtt.WARN = newMqttLogger(logger, slog.LevelWarn)

	return &Publisher{
		mqttClient: mqtt.NewClient(opts),
		logger:     logger,
		topic:      topic,
	}
}

func (p *Publisher) Connect() error {
	p.logger.Debug("connecting MQTT client")
	if token := p.mqttClient.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	return nil
}

func (p *Publisher) Disconnect() {
	p.mqttClient.Disconnect(250)
}

// PublishDayAhead serializes the series and publishes it retained.
func (p *Publisher) PublishDayAhead(components []types.PriceComponents) {
	payload := make([]pricePayload, len(components))
	for i, pc := range components {
		payload[i] = pricePayload{
			Date:     pc.When.IsoString(),
			NetPrice: pc.NetPrice,
			Vat:      pc.Vat,
			Nettleie: pc.NetworkFee,
		}
	}

	data, err := json.Marshal(payload)
	if err != nil {
		p.logger.Error("failed to marshal day-ahead payload", slog.Any("error", err))
		return
	}

	token := p.mqttClient.Publish(p.topic, 0, true, data)
	token.Wait()
	if err := token.Error(); err != nil {
		p.logger.Error("failed to publish day-ahead prices", slog.Any("error", err))
		return
	}

	p.logger.Info("day-ahead prices published", slog.String("topic", p.topic), slog.Int("noOfHours", len(payload)))
}
