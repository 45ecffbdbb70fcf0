package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/pubsub/v2"
	"github.com/rs/zerolog"

	"github.com/fleetdispatch/fleetdispatch/internal/routing"
	"github.com/fleetdispatch/fleetdispatch/internal/trip"
)

// TripUpdater is the slice of the trip service the worker drives.
type TripUpdater interface {
	Start(ctx context.Context, id string) (*trip.Trip, error)
	Finish(ctx context.Context, id string) (*trip.Trip, error)
	UpdatePosition(ctx context.Context, id string, pos routing.Coordinate) (*trip.Trip, error)
}

// PubSubHandler handles driver event messages for the worker.
type PubSubHandler struct {
	client           *pubsub.Client
	subscriber       *pubsub.Subscriber
	subscriptionName string
	trips            TripUpdater
	logger           zerolog.Logger
}

// PubSubConfig holds configuration for the Pub/Sub handler.
type PubSubConfig struct {
	ProjectID        string
	SubscriptionName string
	Trips            TripUpdater
	Logger           zerolog.Logger
}

// NewPubSubHandler creates a new Pub/Sub handler.
func NewPubSubHandler(ctx context.Context, cfg PubSubConfig) (*PubSubHandler, error) {
	client, err := pubsub.NewClient(ctx, cfg.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("creating pubsub client: %w", err)
	}

	subscriber := client.Subscriber(cfg.SubscriptionName)

	// Configure receive settings.
	subscriber.ReceiveSettings.MaxOutstandingMessages = 10
	subscriber.ReceiveSettings.MaxExtension = 10 * time.Minute

	return &PubSubHandler{
		client:           client,
		subscriber:       subscriber,
		subscriptionName: cfg.SubscriptionName,
		trips:            cfg.Trips,
		logger:           cfg.Logger,
	}, nil
}

// Start begins processing Pub/Sub messages.
func (h *PubSubHandler) Start(ctx context.Context) error {
	h.logger.Info().
		Str("subscription", h.subscriptionName).
		Msg("starting pubsub handler")

	return h.subscriber.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		h.handleMessage(ctx, msg)
	})
}

// Close closes the Pub/Sub client.
func (h *PubSubHandler) Close() error {
	return h.client.Close()
}

func (h *PubSubHandler) handleMessage(ctx context.Context, msg *pubsub.Message) {
	startTime := time.Now()

	logger := h.logger.With().
		Str("message_id", msg.ID).
		Str("publish_time", msg.PublishTime.Format(time.RFC3339)).
		Logger()

	logger.Debug().Msg("received pubsub message")

	var event DriverEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		logger.Error().Err(err).Msg("failed to parse message")
		msg.Nack()
		return
	}

	if err := h.Dispatch(ctx, event); err != nil {
		if !retryable(err) {
			// Redelivery cannot succeed; drop the message.
			logger.Warn().
				Err(err).
				Str("event_type", event.EventType).
				Str("trip_id", event.TripID).
				Msg("dropping undeliverable event")
			msg.Ack()
			return
		}

		logger.Error().Err(err).Msg("event failed")
		msg.Nack()
		return
	}

	logger.Info().
		Str("event_type", event.EventType).
		Str("trip_id", event.TripID).
		Dur("duration", time.Since(startTime)).
		Msg("event applied")

	msg.Ack()
}

// Dispatch applies a single driver event to the trip collection.
func (h *PubSubHandler) Dispatch(ctx context.Context, event DriverEvent) error {
	if event.TripID == "" {
		return fmt.Errorf("event missing trip id: %w", trip.ErrTripNotFound)
	}

	switch event.EventType {
	case EventTripStarted:
		_, err := h.trips.Start(ctx, event.TripID)
		return err
	case EventTripFinished:
		_, err := h.trips.Finish(ctx, event.TripID)
		return err
	case EventPositionUpdate:
		if event.Lat == nil || event.Lon == nil {
			return fmt.Errorf("position event without coordinates: %w", trip.ErrInvalidTransition)
		}
		_, err := h.trips.UpdatePosition(ctx, event.TripID, routing.Coordinate{Lat: *event.Lat, Lon: *event.Lon})
		return err
	default:
		return fmt.Errorf("unknown event type %q: %w", event.EventType, errUnknownEvent)
	}
}

var errUnknownEvent = errors.New("unknown event type")

// retryable reports whether redelivering the message could succeed. A
// rejected transition means the event already took effect or arrived out of
// order, a missing trip means it was deleted, and unknown events never
// become known.
func retryable(err error) bool {
	switch {
	case errors.Is(err, trip.ErrInvalidTransition),
		errors.Is(err, trip.ErrTripNotFound),
		errors.Is(err, errUnknownEvent):
		return false
	}
	return true
}
