package amqp

import (
	"encoding/json"
	"time"

	"uchet/internal/core"
)

// IncomingMessage is one raw message block forwarded by the chat
// transport. ReceivedAt stamps the reference date for headers that
// omit the year.
type IncomingMessage struct {
	Text       string    `json:"text"`
	ReceivedAt time.Time `json:"received_at"`
}

// AckMessage confirms how many records a block produced.
type AckMessage struct {
	Type      string    `json:"type"` // always "ack"
	Date      string    `json:"date"` // block date, YYYY-MM-DD
	Records   int       `json:"records"`
	Timestamp time.Time `json:"timestamp"`
}

// ReportMessage carries a delivered monthly report: the structured
// aggregate plus its rendered text.
type ReportMessage struct {
	Type      string           `json:"type"` // always "report"
	Report    core.MonthReport `json:"report"`
	Text      string           `json:"text"`
	Timestamp time.Time        `json:"timestamp"`
}

func NewAckMessage(date core.Date, records int) *AckMessage {
	return &AckMessage{
		Type:      "ack",
		Date:      date.ISO(),
		Records:   records,
		Timestamp: time.Now(),
	}
}

func NewReportMessage(report core.MonthReport, text string) *ReportMessage {
	return &ReportMessage{
		Type:      "report",
		Report:    report,
		Text:      text,
		Timestamp: time.Now(),
	}
}

func (m *IncomingMessage) ToJSON() ([]byte, error) { return json.Marshal(m) }
func (m *AckMessage) ToJSON() ([]byte, error)      { return json.Marshal(m) }
func (m *ReportMessage) ToJSON() ([]byte, error)   { return json.Marshal(m) }

func IncomingMessageFromJSON(data []byte) (*IncomingMessage, error) {
	var msg IncomingMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
