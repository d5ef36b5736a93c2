package kafka

import (
	"encoding/json"
	"fmt"
	"time"

	"quoting-system/internal/config"
	"quoting-system/internal/logger"
	"quoting-system/internal/models"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
)

// Producer публикует доменные события в Kafka
type Producer struct {
	producer sarama.SyncProducer
	log      *logger.Logger
	topics   *config.Topics
}

// NewProducer создает синхронный продюсер Kafka
func NewProducer(cfg *config.KafkaConfig, log *logger.Logger) (*Producer, error) {
	saramaCfg := sarama.NewConfig()
	saramaCfg.Producer.RequiredAcks = sarama.WaitForAll
	saramaCfg.Producer.Retry.Max = 3
	saramaCfg.Producer.Return.Successes = true

	producer, err := sarama.NewSyncProducer(cfg.Brokers, saramaCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	log.Info("Successfully connected to Kafka producer")

	return &Producer{
		producer: producer,
		log:      log,
		topics:   &cfg.Topics,
	}, nil
}

// Close закрывает продюсер
func (p *Producer) Close() error {
	if p == nil || p.producer == nil {
		return nil
	}
	return p.producer.Close()
}

// PublishQuoteCreated публикует событие о созданной котировке
func (p *Producer) PublishQuoteCreated(quote *models.Quote) error {
	data, err := json.Marshal(models.QuoteCreatedData{
		QuoteID:    quote.ID,
		Warehouse:  quote.Warehouse,
		ZoneName:   quote.ZoneName,
		Locality:   quote.Locality,
		FinalCost:  quote.FinalCost,
		DistanceKm: quote.DistanceKm,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal quote created data: %w", err)
	}

	event := models.Event{
		ID:        uuid.New(),
		Type:      models.EventTypeQuoteCreated,
		Timestamp: time.Now(),
		Data:      data,
	}

	return p.publishEvent(p.topics.Quotes, event)
}

// publishEvent сериализует событие и отправляет его в топик
func (p *Producer) publishEvent(topic string, event models.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(event.ID.String()),
		Value: sarama.ByteEncoder(data),
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("failed to send message to topic %s: %w", topic, err)
	}

	p.log.WithFields(map[string]interface{}{
		"topic":     topic,
		"partition": partition,
		"offset":    offset,
		"event_id":  event.ID,
		"type":      event.Type,
	}).Debug("Event published to Kafka")

	return nil
}
