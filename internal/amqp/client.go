// Package amqp is the message-queue boundary of the tracker: the chat
// transport drops raw blocks on the ingest queue and picks up acks and
// rendered reports from the outbound queue.
package amqp

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"uchet/internal/core"
)

type Client struct {
	conn         *amqp091.Connection
	channel      *amqp091.Channel
	exchangeName string
	ingestQueue  string
	reportQueue  string
}

func NewClient(url, exchangeName, ingestQueue, reportQueue string) (*Client, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	client := &Client{
		conn:         conn,
		channel:      channel,
		exchangeName: exchangeName,
		ingestQueue:  ingestQueue,
		reportQueue:  reportQueue,
	}

	if err := client.setup(); err != nil {
		client.Close()
		return nil, fmt.Errorf("setup exchange and queues: %w", err)
	}
	return client, nil
}

func (c *Client) setup() error {
	err := c.channel.ExchangeDeclare(
		c.exchangeName, // name
		"direct",       // type
		true,           // durable
		false,          // auto-deleted
		false,          // internal
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	for _, queue := range []string{c.ingestQueue, c.reportQueue} {
		if _, err := c.channel.QueueDeclare(queue, true, false, false, false, nil); err != nil {
			return fmt.Errorf("declare queue %s: %w", queue, err)
		}
		// Routing key equals the queue name on a direct exchange.
		if err := c.channel.QueueBind(queue, queue, c.exchangeName, false, nil); err != nil {
			return fmt.Errorf("bind queue %s: %w", queue, err)
		}
	}
	return nil
}

func (c *Client) publish(ctx context.Context, queue string, body []byte) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return c.channel.PublishWithContext(
		ctx,
		c.exchangeName,
		queue, // routing key
		false, // mandatory
		false, // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
}

// PublishAck confirms a stored block on the report queue.
func (c *Client) PublishAck(ctx context.Context, date core.Date, records int) error {
	body, err := NewAckMessage(date, records).ToJSON()
	if err != nil {
		return fmt.Errorf("marshal ack: %w", err)
	}
	if err := c.publish(ctx, c.reportQueue, body); err != nil {
		return fmt.Errorf("publish ack: %w", err)
	}
	slog.InfoContext(ctx, "Published ingest ack",
		"date", date.ISO(),
		"records", records,
		"queue", c.reportQueue)
	return nil
}

// DeliverReport publishes a rendered monthly report. The method
// signature matches the scheduler's delivery port.
func (c *Client) DeliverReport(ctx context.Context, report core.MonthReport, text string) error {
	body, err := NewReportMessage(report, text).ToJSON()
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := c.publish(ctx, c.reportQueue, body); err != nil {
		return fmt.Errorf("publish report: %w", err)
	}
	slog.InfoContext(ctx, "Published monthly report",
		"year", report.Year,
		"month", report.Month,
		"queue", c.reportQueue)
	return nil
}

// ConsumeIncoming delivers raw message blocks to handler until ctx is
// done. Malformed payloads are rejected without requeue; handler errors
// requeue the delivery so store outages do not lose blocks.
func (c *Client) ConsumeIncoming(ctx context.Context, handler func(*IncomingMessage) error) error {
	msgs, err := c.channel.Consume(
		c.ingestQueue, // queue
		"",            // consumer
		false,         // auto-ack off, we ack manually
		false,         // exclusive
		false,         // no-local
		false,         // no-wait
		nil,           // args
	)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	slog.InfoContext(ctx, "Started consuming message blocks", "queue", c.ingestQueue)

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Stopping message consumption", "reason", ctx.Err())
			return ctx.Err()
		case delivery, ok := <-msgs:
			if !ok {
				return fmt.Errorf("message channel closed")
			}

			msg, err := IncomingMessageFromJSON(delivery.Body)
			if err != nil {
				slog.ErrorContext(ctx, "Failed to unmarshal incoming message", "error", err)
				delivery.Nack(false, false)
				continue
			}

			if err := handler(msg); err != nil {
				slog.ErrorContext(ctx, "Failed to handle incoming message", "error", err)
				delivery.Nack(false, true)
				continue
			}
			delivery.Ack(false)
		}
	}
}

func (c *Client) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
