package trip

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/fleetdispatch/fleetdispatch/internal/routing"
)

// Validation patterns for wall-clock fields.
var (
	timeHHMMRegex = regexp.MustCompile(`^([01]?\d|2[0-3]):[0-5]\d$`)
	dateISORegex  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// CreateInput is the confirmed planning state from which a trip is created.
type CreateInput struct {
	Client      string
	RequestedBy *string
	DriverID    string
	DriverName  string

	ServiceType   ServiceType
	ScheduledDate string
	ScheduledTime string

	// Stops is the full ordered stop sequence from the itinerary builder.
	Stops []routing.GeoPoint

	// Solution is the route solution displayed at confirmation time. It is
	// frozen into the trip verbatim.
	Solution routing.Solution
}

// Service owns trip creation, lifecycle transitions, and deletion. Every
// successful mutation publishes a fresh collection snapshot on the feed.
type Service struct {
	repo   Repository
	feed   *Feed
	logger zerolog.Logger
	now    func() time.Time
}

// NewService creates a new trip service.
func NewService(repo Repository, feed *Feed, logger zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		feed:   feed,
		logger: logger.With().Str("component", "trip_service").Logger(),
		now:    time.Now,
	}
}

// Create validates the confirmation input and persists a new trip in the
// assigned state. On validation failure it returns a ValidationError and
// persists nothing.
func (s *Service) Create(ctx context.Context, input *CreateInput) (*Trip, error) {
	if fieldErrors := s.validateCreateInput(input); len(fieldErrors) > 0 {
		return nil, &ValidationError{Fields: fieldErrors}
	}

	now := s.now()
	finalDate := now.Format(DateLayout)
	if input.ServiceType == ServiceScheduled {
		finalDate = input.ScheduledDate
	}

	t := &Trip{
		ID:            "trp_" + uuid.New().String()[:22],
		Client:        input.Client,
		RequestedBy:   input.RequestedBy,
		DriverID:      input.DriverID,
		DriverName:    input.DriverName,
		ServiceType:   input.ServiceType,
		ScheduledDate: input.ScheduledDate,
		ScheduledTime: input.ScheduledTime,
		Status:        StatusAssigned,
		Stops:         stopAddresses(input.Stops),
		TechnicalData: input.Solution,
		FinalDate:     finalDate,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("trip_id", t.ID).
		Str("client", t.Client).
		Str("driver_id", t.DriverID).
		Str("service_type", string(t.ServiceType)).
		Msg("trip created")

	s.publish(ctx)

	cpy := *t
	return &cpy, nil
}

// Get retrieves a trip by ID.
func (s *Service) Get(ctx context.Context, id string) (*Trip, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns all trips, newest first.
func (s *Service) List(ctx context.Context) ([]*Trip, error) {
	return s.repo.List(ctx)
}

// Start records the driver starting the trip. Allowed only from the
// assigned state; the actual start time is the current wall clock at minute
// precision.
func (s *Service) Start(ctx context.Context, id string) (*Trip, error) {
	return s.transition(ctx, id, func(t *Trip) error {
		if t.Status.IsTerminal() || t.Status == StatusInProgress {
			return ErrInvalidTransition
		}

		t.StartTimeActual = s.now().Format(ClockLayout)
		t.Status = DeriveStatus(t.StartTimeActual, t.EndTimeActual, t.Status)
		return nil
	})
}

// Finish records the driver completing the trip. Allowed only from the
// in-progress state: a trip that was never started cannot be finished.
func (s *Service) Finish(ctx context.Context, id string) (*Trip, error) {
	return s.transition(ctx, id, func(t *Trip) error {
		if t.Status != StatusInProgress {
			return ErrInvalidTransition
		}

		t.EndTimeActual = s.now().Format(ClockLayout)
		t.Status = DeriveStatus(t.StartTimeActual, t.EndTimeActual, t.Status)
		return nil
	})
}

// Cancel marks the trip cancelled. There is no operator flow that issues
// this; it exists for external systems. Allowed from any non-terminal state.
func (s *Service) Cancel(ctx context.Context, id string) (*Trip, error) {
	return s.transition(ctx, id, func(t *Trip) error {
		if t.Status.IsTerminal() {
			return ErrInvalidTransition
		}

		t.Status = StatusCancelled
		return nil
	})
}

// EditTimes applies an operator override of the recorded times, bypassing
// the normal start and finish triggers. The status is re-derived from the
// merged times, so clearing a field also rolls the status back. Cancelled
// trips cannot be edited.
func (s *Service) EditTimes(ctx context.Context, id string, patch TimePatch) (*Trip, error) {
	if fieldErrors := validateTimePatch(patch); len(fieldErrors) > 0 {
		return nil, &ValidationError{Fields: fieldErrors}
	}

	return s.transition(ctx, id, func(t *Trip) error {
		if t.Status == StatusCancelled {
			return ErrInvalidTransition
		}

		t.StartTimeActual, t.EndTimeActual = patch.apply(t.StartTimeActual, t.EndTimeActual)
		t.Status = DeriveStatus(t.StartTimeActual, t.EndTimeActual, t.Status)
		return nil
	})
}

// UpdatePosition stores an externally supplied live coordinate on the trip.
// The coordinate is passed through untouched.
func (s *Service) UpdatePosition(ctx context.Context, id string, pos routing.Coordinate) (*Trip, error) {
	return s.transition(ctx, id, func(t *Trip) error {
		t.LastPosition = &routing.Coordinate{Lat: pos.Lat, Lon: pos.Lon}
		return nil
	})
}

// Delete removes a trip. Deletion is always an explicit operator action.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Str("trip_id", id).Msg("trip deleted")
	s.publish(ctx)
	return nil
}

// Feed returns the snapshot feed carrying collection updates.
func (s *Service) Feed() *Feed {
	return s.feed
}

// transition loads the trip, applies the mutation, and persists the whole
// record, publishing a fresh snapshot on success.
func (s *Service) transition(ctx context.Context, id string, mutate func(*Trip) error) (*Trip, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	prev := t.Status
	if err := mutate(t); err != nil {
		if errors.Is(err, ErrInvalidTransition) {
			s.logger.Warn().
				Str("trip_id", id).
				Str("status", string(prev)).
				Msg("rejected trip status transition")
		}
		return nil, err
	}

	t.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, t); err != nil {
		return nil, err
	}

	if t.Status != prev {
		s.logger.Info().
			Str("trip_id", id).
			Str("from", string(prev)).
			Str("to", string(t.Status)).
			Msg("trip status changed")
	}

	s.publish(ctx)

	cpy := *t
	return &cpy, nil
}

// publish pushes the current full collection to feed subscribers. A listing
// failure here only delays the next snapshot, it does not fail the mutation
// that triggered it.
func (s *Service) publish(ctx context.Context) {
	if s.feed == nil {
		return
	}

	trips, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to load trips for feed snapshot")
		return
	}

	s.feed.Publish(trips)
}

// validateCreateInput checks the confirmation rules: client, driver, and a
// resolved destination are mandatory, and scheduled trips additionally need
// a date and time.
func (s *Service) validateCreateInput(input *CreateInput) []FieldError {
	var errs []FieldError

	if input.Client == "" {
		errs = append(errs, FieldError{Field: "client", Message: "is required"})
	}

	if input.DriverID == "" || input.DriverName == "" {
		errs = append(errs, FieldError{Field: "driver", Message: "is required"})
	}

	if !input.ServiceType.Valid() {
		errs = append(errs, FieldError{Field: "serviceType", Message: "must be IMMEDIATE or SCHEDULED"})
	}

	if len(input.Stops) == 0 || !input.Stops[len(input.Stops)-1].Resolved() {
		errs = append(errs, FieldError{Field: "destination", Message: "must be a resolved location"})
	}

	if input.ServiceType == ServiceScheduled {
		if input.ScheduledDate == "" {
			errs = append(errs, FieldError{Field: "scheduledDate", Message: "is required"})
		} else if !dateISORegex.MatchString(input.ScheduledDate) {
			errs = append(errs, FieldError{Field: "scheduledDate", Message: "must be in YYYY-MM-DD format"})
		}

		if input.ScheduledTime == "" {
			errs = append(errs, FieldError{Field: "scheduledTime", Message: "is required"})
		} else if !timeHHMMRegex.MatchString(input.ScheduledTime) {
			errs = append(errs, FieldError{Field: "scheduledTime", Message: "must be in HH:mm format"})
		}
	}

	return errs
}

// validateTimePatch checks the format of manually edited times. Empty
// strings are allowed and clear the field.
func validateTimePatch(patch TimePatch) []FieldError {
	var errs []FieldError

	if patch.Start != nil && *patch.Start != "" && !timeHHMMRegex.MatchString(*patch.Start) {
		errs = append(errs, FieldError{Field: "startTimeActual", Message: "must be in HH:mm format"})
	}
	if patch.End != nil && *patch.End != "" && !timeHHMMRegex.MatchString(*patch.End) {
		errs = append(errs, FieldError{Field: "endTimeActual", Message: "must be in HH:mm format"})
	}

	return errs
}

// stopAddresses extracts the display addresses of the stop sequence.
func stopAddresses(stops []routing.GeoPoint) []string {
	addrs := make([]string, 0, len(stops))
	for _, p := range stops {
		if p.Address != "" {
			addrs = append(addrs, p.Address)
		}
	}
	return addrs
}
