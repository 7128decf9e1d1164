package messaging

import (
	"testing"
)

func TestEnvelopeRoundTrip(t *testing.T) {
	env := NewEnvelope(TypeOrderStatusChanged, "orderdesk-1", OrderStatusChanged{
		OrderID:   7,
		UUID:      "abc-123",
		OldStatus: "REQUESTED",
		NewStatus: "VENDOR_ACCEPTED",
		Actor:     "vendor:9",
	})
	if env.MsgID == "" {
		t.Error("MsgID should be assigned")
	}

	data, err := env.Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	decoded, err := DecodeEnvelope(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.MsgType != TypeOrderStatusChanged {
		t.Errorf("MsgType = %q", decoded.MsgType)
	}
	if decoded.SourceID != "orderdesk-1" {
		t.Errorf("SourceID = %q", decoded.SourceID)
	}

	p, ok := decoded.Payload.(OrderStatusChanged)
	if !ok {
		t.Fatalf("payload type = %T, want OrderStatusChanged", decoded.Payload)
	}
	if p.OrderID != 7 || p.NewStatus != "VENDOR_ACCEPTED" {
		t.Errorf("payload = %+v", p)
	}
}

func TestDecodeCancelledPayload(t *testing.T) {
	env := NewEnvelope(TypeOrderCancelled, "orderdesk-1", OrderCancelled{
		OrderID: 7, UUID: "abc-123", Reason: "fraud", CancelledBy: "admin-1", Forced: true,
	})
	data, _ := env.Encode()

	decoded, err := DecodeEnvelope(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	p := decoded.Payload.(OrderCancelled)
	if !p.Forced {
		t.Error("Forced flag lost in round trip")
	}
	if p.CancelledBy != "admin-1" {
		t.Errorf("CancelledBy = %q", p.CancelledBy)
	}
}

func TestDecodeUnknownType(t *testing.T) {
	if _, err := DecodeEnvelope([]byte(`{"msg_type":"order.exploded","payload":{}}`)); err == nil {
		t.Error("expected error for unknown msg_type")
	}
}

func TestDecodeMalformed(t *testing.T) {
	if _, err := DecodeEnvelope([]byte(`not json`)); err == nil {
		t.Error("expected error for malformed input")
	}
}
