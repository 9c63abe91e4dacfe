package ws

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParseDetectionFrame(t *testing.T) {
	raw := []byte(`{"v":1,"registration_number":"KA01AB1234","vehicle_type":"Truck","fastag_id":"FT-991"}`)

	frame, err := ParseDetectionFrame(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if frame.RegistrationNumber != "KA01AB1234" {
		t.Errorf("registration_number = %q, want KA01AB1234", frame.RegistrationNumber)
	}
	if frame.VehicleType != "Truck" {
		t.Errorf("vehicle_type = %q, want Truck", frame.VehicleType)
	}
	if frame.FastagID != "FT-991" {
		t.Errorf("fastag_id = %q, want FT-991", frame.FastagID)
	}
}

func TestParseDetectionFrameRejectsBadInput(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want error
	}{
		{"not json", `plate KA01AB1234`, ErrMalformedFrame},
		{"missing version", `{"registration_number":"KA01AB1234","vehicle_type":"Truck"}`, ErrUnsupportedFrame},
		{"future version", `{"v":2,"registration_number":"KA01AB1234","vehicle_type":"Truck"}`, ErrUnsupportedFrame},
		{"missing plate", `{"v":1,"vehicle_type":"Truck"}`, ErrMalformedFrame},
		{"missing vehicle type", `{"v":1,"registration_number":"KA01AB1234"}`, ErrMalformedFrame},
	}
	for _, tc := range cases {
		if _, err := ParseDetectionFrame([]byte(tc.raw)); !errors.Is(err, tc.want) {
			t.Errorf("%s: err = %v, want %v", tc.name, err, tc.want)
		}
	}
}

func TestPublishDetectionBroadcastsEvent(t *testing.T) {
	hub := NewHub()
	raw := []byte(`{"v":1,"registration_number":"KA01AB1234","vehicle_type":"Truck"}`)

	if err := hub.PublishDetection(raw); err != nil {
		t.Fatalf("publish: %v", err)
	}

	select {
	case msg := <-hub.Broadcast:
		var event DetectionEvent
		if err := json.Unmarshal(msg, &event); err != nil {
			t.Fatalf("unmarshal broadcast: %v", err)
		}
		if event.Type != "vehicle_detected" {
			t.Errorf("event type = %q, want vehicle_detected", event.Type)
		}
		if event.Frame.RegistrationNumber != "KA01AB1234" {
			t.Errorf("frame plate = %q, want KA01AB1234", event.Frame.RegistrationNumber)
		}
		if event.ReceivedAt.IsZero() {
			t.Error("received_at should be stamped")
		}
	default:
		t.Fatal("nothing broadcast for a valid frame")
	}
}

func TestPublishDetectionDropsBadFrame(t *testing.T) {
	hub := NewHub()

	if err := hub.PublishDetection([]byte(`{"v":1}`)); !errors.Is(err, ErrMalformedFrame) {
		t.Fatalf("err = %v, want ErrMalformedFrame", err)
	}

	select {
	case msg := <-hub.Broadcast:
		t.Fatalf("bad frame was broadcast: %s", msg)
	default:
	}
}
