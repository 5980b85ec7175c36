package amqp

import (
	"strings"
	"testing"
	"time"

	"uchet/internal/core"
)

func TestIncomingMessageRoundTrip(t *testing.T) {
	msg := &IncomingMessage{
		Text:       "7 апреля\n-250р хлеб [еда]",
		ReceivedAt: time.Date(2025, 4, 7, 10, 30, 0, 0, time.UTC),
	}
	data, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	got, err := IncomingMessageFromJSON(data)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	if got.Text != msg.Text || !got.ReceivedAt.Equal(msg.ReceivedAt) {
		t.Fatalf("round trip: %+v", got)
	}
}

func TestIncomingMessageFromJSONInvalid(t *testing.T) {
	if _, err := IncomingMessageFromJSON([]byte("not json")); err == nil {
		t.Fatal("expected error")
	}
}

func TestNewAckMessage(t *testing.T) {
	ack := NewAckMessage(core.NewDate(2025, 4, 7), 3)
	if ack.Type != "ack" || ack.Date != "2025-04-07" || ack.Records != 3 {
		t.Fatalf("ack = %+v", ack)
	}
	if ack.Timestamp.IsZero() {
		t.Fatal("timestamp not set")
	}
}

func TestReportMessageJSON(t *testing.T) {
	rep := core.MonthReport{
		Year:        2025,
		Month:       4,
		IncomeMinor: 5000000,
		ByCategory:  []core.CategoryAmount{{Name: "еда", AmountMinor: 55000}},
	}
	msg := NewReportMessage(rep, "Отчёт за апрель 2025")
	data, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	s := string(data)
	for _, want := range []string{`"type":"report"`, `"income_minor":5000000`, `"еда"`} {
		if !strings.Contains(s, want) {
			t.Errorf("payload missing %s:\n%s", want, s)
		}
	}
}
