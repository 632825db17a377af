package amqp

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"planner/internal/core"
)

func TestNewEventRecordedMessage(t *testing.T) {
	e := core.Event{Date: "2025-02-03", Description: "Concert", Expense: "45.00"}
	a := NewEventRecordedMessage(e)
	b := NewEventRecordedMessage(e)

	if a.ID == "" || a.ID == b.ID {
		t.Fatalf("expected unique ids, got %q and %q", a.ID, b.ID)
	}
	if a.Date != e.Date || a.Description != e.Description || a.Expense != e.Expense {
		t.Fatalf("unexpected message: %+v", a)
	}
	if time.Since(a.Timestamp) > time.Second {
		t.Fatalf("timestamp should be recent: %v", a.Timestamp)
	}
}

func TestEventRecordedMessageJSON(t *testing.T) {
	msg := &EventRecordedMessage{
		ID:          "3f1c",
		Date:        "2025-02-03",
		Description: "Concert, front row",
		Expense:     "45.00",
		Timestamp:   time.Date(2025, 2, 3, 20, 0, 0, 0, time.UTC),
	}
	body, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}
	var fields map[string]string
	if err := json.Unmarshal(body, &fields); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := map[string]string{
		"id":          "3f1c",
		"date":        "2025-02-03",
		"description": "Concert, front row",
		"expense":     "45.00",
		"timestamp":   "2025-02-03T20:00:00Z",
	}
	if len(fields) != len(want) {
		t.Fatalf("unexpected fields: %v", fields)
	}
	for k, v := range want {
		if fields[k] != v {
			t.Fatalf("field %s = %q, want %q", k, fields[k], v)
		}
	}
}

func TestPublishWithoutChannel(t *testing.T) {
	c := &Client{exchangeName: "x", queueName: "q"}
	if err := c.PublishEventRecorded(context.Background(), core.Event{}); err == nil {
		t.Fatal("expected error without an open channel")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := c.PublishEventRecorded(ctx, core.Event{}); err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close on empty client: %v", err)
	}
}
