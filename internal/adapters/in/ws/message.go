package ws

import (
	"encoding/json"
	"time"

	"loadboard/internal/core/domain/model/load"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
)

// SnapshotEvent names the first message a subscriber receives.
const SnapshotEvent = "snapshot"

// Message is pushed to tracking subscribers. Point is a GeoJSON Point of the
// latest driver position, absent until the driver reported one.
type Message struct {
	Event         string          `json:"event"`
	Reference     string          `json:"reference"`
	Status        string          `json:"status"`
	PaymentStatus string          `json:"payment_status"`
	Lat           *float64        `json:"lat,omitempty"`
	Lng           *float64        `json:"lng,omitempty"`
	Point         json.RawMessage `json:"point,omitempty"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

// NewSnapshot describes the current state of a load before any event arrives.
func NewSnapshot(reference, status, paymentStatus string, lat, lng *float64) (Message, error) {
	msg := Message{
		Event:         SnapshotEvent,
		Reference:     reference,
		Status:        status,
		PaymentStatus: paymentStatus,
		OccurredAt:    time.Now().UTC(),
	}
	if lat != nil && lng != nil {
		if err := msg.setPosition(*lat, *lng); err != nil {
			return Message{}, err
		}
	}
	return msg, nil
}

func messageFromEvent(event load.Event) (Message, error) {
	msg := Message{
		Event:         string(event.Name),
		Reference:     event.Reference(),
		Status:        event.Status.String(),
		PaymentStatus: event.PaymentStatus.String(),
		OccurredAt:    event.OccurredAt,
	}
	if event.Position != nil {
		if err := msg.setPosition(event.Position.Lat(), event.Position.Lng()); err != nil {
			return Message{}, err
		}
	}
	return msg, nil
}

func (m *Message) setPosition(lat, lng float64) error {
	// GeoJSON orders coordinates as longitude, latitude.
	point := geom.NewPointFlat(geom.XY, []float64{lng, lat})
	raw, err := geojson.Marshal(point)
	if err != nil {
		return err
	}

	m.Lat = &lat
	m.Lng = &lng
	m.Point = raw
	return nil
}
