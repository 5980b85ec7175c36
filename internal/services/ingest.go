// Package services orchestrates the parser, the store and report
// delivery.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"uchet/internal/core"
	"uchet/internal/log"
	"uchet/internal/parse"
)

// RecordStore is the write side of the store the ingest path needs.
type RecordStore interface {
	InsertRecords(ctx context.Context, records []core.TransactionRecord) error
}

// Acker reports a stored block back to the transport. Optional.
type Acker interface {
	PublishAck(ctx context.Context, date core.Date, records int) error
}

// IngestService parses incoming message blocks and persists the
// resulting records atomically.
type IngestService struct {
	parser *parse.Parser
	store  RecordStore
	acker  Acker
	logger *log.Logger
}

func NewIngestService(parser *parse.Parser, store RecordStore, acker Acker, logger *log.Logger) *IngestService {
	return &IngestService{
		parser: parser,
		store:  store,
		acker:  acker,
		logger: logger.WithComponent(log.ComponentIngest),
	}
}

// HandleMessage processes one raw block. A block without a valid date
// header is rejected silently (already logged by the parser) and yields
// zero records and no error; re-sending the same block is idempotent in
// outcome. Store failures propagate so the transport can redeliver.
func (s *IngestService) HandleMessage(ctx context.Context, text string, receivedAt time.Time) (core.Date, int, error) {
	if receivedAt.IsZero() {
		receivedAt = time.Now()
	}
	date, records, err := s.parser.ParseBlock(text, receivedAt)
	if err != nil {
		if errors.Is(err, parse.ErrNoDateHeader) {
			return core.Date{}, 0, nil
		}
		return core.Date{}, 0, fmt.Errorf("parse block: %w", err)
	}
	if len(records) == 0 {
		return date, 0, nil
	}

	if err := s.store.InsertRecords(ctx, records); err != nil {
		return core.Date{}, 0, fmt.Errorf("store records: %w", err)
	}
	s.logger.InfoContext(ctx, "Stored message block",
		log.FieldDate, date.ISO(),
		log.FieldRecords, len(records))

	if s.acker != nil {
		if err := s.acker.PublishAck(ctx, date, len(records)); err != nil {
			// The records are already committed; losing the ack is not
			// worth a redelivery that would duplicate them.
			s.logger.WarnContext(ctx, "Failed to publish ack",
				log.FieldDate, date.ISO(),
				log.FieldError, err)
		}
	}
	return date, len(records), nil
}
