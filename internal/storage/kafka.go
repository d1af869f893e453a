package storage

import (
	"fmt"

	"github.com/IBM/sarama"

	"github.com/starford/scrivener/internal/checksum"
)

// Kafka publishes every save as one message on a topic.
// The message key is the target name so renderings of one document share a partition.
type Kafka struct {
	producer sarama.SyncProducer
	topic    string
	name     string
}

// NewKafka creates a Kafka backend on an existing producer.
func NewKafka(producer sarama.SyncProducer, topic string) *Kafka {
	return &Kafka{producer: producer, topic: topic, name: DefaultName}
}

// DialKafka connects a sync producer to brokers.
func DialKafka(brokers []string, topic string) (*Kafka, error) {
	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true
	cfg.Producer.RequiredAcks = sarama.WaitForLocal
	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("storage: kafka producer: %w", err)
	}
	return NewKafka(producer, topic), nil
}

// Scope returns a view publishing under key name.
func (k *Kafka) Scope(name string) Storage {
	return &Kafka{producer: k.producer, topic: k.topic, name: name}
}

// Save publishes data and waits for the broker acknowledgement.
func (k *Kafka) Save(data string) error {
	msg := &sarama.ProducerMessage{
		Topic: k.topic,
		Key:   sarama.StringEncoder(k.name),
		Value: sarama.StringEncoder(data),
		Headers: []sarama.RecordHeader{
			{Key: []byte("checksum"), Value: []byte(checksum.String(data))},
		},
	}
	if _, _, err := k.producer.SendMessage(msg); err != nil {
		return fmt.Errorf("storage: kafka publish %s: %w", k.name, err)
	}
	return nil
}

// Close closes the producer. Scoped views share it.
func (k *Kafka) Close() error {
	return k.producer.Close()
}
