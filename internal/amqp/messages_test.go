package amqp

import (
	"testing"

	"outlay/internal/core"
)

func TestNewUpsertMessage(t *testing.T) {
	e := core.Expense{ID: "a", Amount: 12.5, Category: "Food", Date: "2024-01-05"}
	msg := NewUpsertMessage(e)

	if msg.Kind != KindUpsert || msg.ID != "a" {
		t.Errorf("message = %+v, want upsert for a", msg)
	}
	if msg.Expense == nil || *msg.Expense != e {
		t.Errorf("message record = %+v, want the full record", msg.Expense)
	}
	if msg.Timestamp.IsZero() {
		t.Error("message has no timestamp")
	}
}

func TestNewDeleteMessage(t *testing.T) {
	msg := NewDeleteMessage("a")

	if msg.Kind != KindDelete || msg.ID != "a" {
		t.Errorf("message = %+v, want delete for a", msg)
	}
	if msg.Expense != nil {
		t.Errorf("delete message carries a record: %+v", msg.Expense)
	}
}

func TestMirrorMessageRoundtrip(t *testing.T) {
	e := core.Expense{ID: "a", Amount: 12.5, Category: "Food", Date: "2024-01-05", Description: "lunch"}
	body, err := NewUpsertMessage(e).ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error: %v", err)
	}

	got, err := MirrorMessageFromJSON(body)
	if err != nil {
		t.Fatalf("MirrorMessageFromJSON() error: %v", err)
	}
	if got.Kind != KindUpsert || got.ID != "a" {
		t.Errorf("decoded = %+v, want upsert for a", got)
	}
	if got.Expense == nil || *got.Expense != e {
		t.Errorf("decoded record = %+v, want %+v", got.Expense, e)
	}

	// Delete messages omit the record on the wire entirely.
	body, _ = NewDeleteMessage("a").ToJSON()
	got, err = MirrorMessageFromJSON(body)
	if err != nil {
		t.Fatalf("MirrorMessageFromJSON() error: %v", err)
	}
	if got.Expense != nil {
		t.Errorf("decoded delete carries a record: %+v", got.Expense)
	}
}

func TestMirrorMessageFromJSON_Invalid(t *testing.T) {
	if _, err := MirrorMessageFromJSON([]byte("{broken")); err == nil {
		t.Error("malformed payload should fail to decode")
	}
}
