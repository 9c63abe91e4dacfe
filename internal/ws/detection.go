package ws

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// DetectionFrameVersion is the only frame schema currently accepted.
const DetectionFrameVersion = 1

// DetectionFrame is one plate detection emitted by the gate camera device.
// The feed is advisory input for pre-filling a registration attempt; it is
// never authoritative state and never mutates an entity.
type DetectionFrame struct {
	Version            int    `json:"v"`
	RegistrationNumber string `json:"registration_number"`
	VehicleType        string `json:"vehicle_type"`
	FastagID           string `json:"fastag_id,omitempty"`
	Image              string `json:"image,omitempty"` // base64-encoded bitmap
}

// DetectionEvent is the frame as rebroadcast to dashboard clients.
type DetectionEvent struct {
	Type       string         `json:"type"`
	Frame      DetectionFrame `json:"frame"`
	ReceivedAt time.Time      `json:"received_at"`
}

var (
	ErrMalformedFrame   = errors.New("malformed detection frame")
	ErrUnsupportedFrame = errors.New("unsupported detection frame version")
)

// ParseDetectionFrame decodes and validates one raw device message.
// Required fields are enforced rather than best-effort checked: a frame
// without a plate or vehicle type is rejected, not partially consumed.
func ParseDetectionFrame(raw []byte) (*DetectionFrame, error) {
	var frame DetectionFrame
	if err := json.Unmarshal(raw, &frame); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
	}

	if frame.Version != DetectionFrameVersion {
		return nil, fmt.Errorf("%w: v=%d", ErrUnsupportedFrame, frame.Version)
	}
	if frame.RegistrationNumber == "" {
		return nil, fmt.Errorf("%w: missing registration_number", ErrMalformedFrame)
	}
	if frame.VehicleType == "" {
		return nil, fmt.Errorf("%w: missing vehicle_type", ErrMalformedFrame)
	}

	return &frame, nil
}

// PublishDetection validates a raw device frame and, if well-formed,
// rebroadcasts it to all dashboard clients. The returned error describes
// why a bad frame was dropped so the feed handler can report it back on
// the device connection.
func (h *Hub) PublishDetection(raw []byte) error {
	frame, err := ParseDetectionFrame(raw)
	if err != nil {
		return err
	}

	event := DetectionEvent{
		Type:       "vehicle_detected",
		Frame:      *frame,
		ReceivedAt: time.Now(),
	}
	msg, err := json.Marshal(event)
	if err != nil {
		return err
	}

	h.Broadcast <- msg
	return nil
}
