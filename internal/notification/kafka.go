package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/segmentio/kafka-go"

	"github.com/sharath018/temple-directory-backend/internal/place"
)

// Producer pushes moderation decisions onto the kafka topic. It satisfies
// place.Notifier.
type Producer struct {
	writer *kafka.Writer
}

func NewProducer(brokers []string, topic string) *Producer {
	return &Producer{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

func (p *Producer) PublishDecision(ctx context.Context, ev place.ModerationEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(ev.Slug),
		Value: payload,
	})
}

func (p *Producer) Close() error {
	return p.writer.Close()
}

// Consumer reads the decision stream and materializes in-app notifications
// for the submitting user.
type Consumer struct {
	reader *kafka.Reader
	repo   Repository
}

func NewConsumer(brokers []string, topic, groupID string, repo Repository) *Consumer {
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers: brokers,
			Topic:   topic,
			GroupID: groupID,
		}),
		repo: repo,
	}
}

// Run blocks until ctx is cancelled. Malformed messages are logged and
// skipped; the stream keeps moving.
func (c *Consumer) Run(ctx context.Context) {
	log.Println("📨 Notification consumer started")
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, io.EOF) {
				log.Println("📨 Notification consumer stopped")
				return
			}
			log.Printf("⚠️ Kafka read failed: %v", err)
			continue
		}

		var ev place.ModerationEvent
		if err := json.Unmarshal(msg.Value, &ev); err != nil {
			log.Printf("⚠️ Skipping malformed moderation event: %v", err)
			continue
		}

		if err := c.repo.Create(ctx, fromEvent(ev)); err != nil {
			log.Printf("⚠️ Failed to persist notification for place %d: %v", ev.PlaceID, err)
		}
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}

func fromEvent(ev place.ModerationEvent) *Notification {
	n := &Notification{
		UserID:  ev.CreatorID,
		PlaceID: ev.PlaceID,
	}
	if ev.Decision == place.StatusApproved {
		n.Type = "place_approved"
		n.Title = "Your submission was approved"
		n.Message = fmt.Sprintf("%q is now live in the directory.", ev.PlaceName)
	} else {
		n.Type = "place_rejected"
		n.Title = "Your submission was rejected"
		n.Message = fmt.Sprintf("%q was rejected. Reason: %s", ev.PlaceName, ev.Reason)
	}
	return n
}
