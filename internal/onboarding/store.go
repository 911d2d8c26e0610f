package onboarding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/i474232898/event-weather-advisor/internal/store"
)

// StorageKey is the blob key the onboarding state is kept under.
const StorageKey = "weather_app_onboarding_v2"

// ErrInvalid wraps validation failures of onboarding payloads.
var ErrInvalid = errors.New("invalid onboarding data")

// Store persists OnboardingData as one JSON blob. Writes are serialized.
type Store struct {
	mu       sync.Mutex
	blobs    store.BlobStore
	validate *validator.Validate
	log      zerolog.Logger
}

var validate = newValidator()

// newValidator adds the "clock" tag ("7:00 AM") to a validator.
func newValidator() *validator.Validate {
	v := validator.New()
	err := v.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		_, err := time.Parse("3:04 PM", fl.Field().String())
		return err == nil
	})
	if err != nil {
		panic(fmt.Sprintf("register clock validation: %v", err))
	}
	return v
}

func NewStore(blobs store.BlobStore, log zerolog.Logger) *Store {
	return &Store{blobs: blobs, validate: validate, log: log}
}

// Load returns the stored state merged over Defaults. A missing or corrupt
// blob yields the defaults.
func (s *Store) Load(ctx context.Context) (OnboardingData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

func (s *Store) load(ctx context.Context) (OnboardingData, error) {
	data := Defaults()
	raw, err := s.blobs.Get(ctx, StorageKey)
	if errors.Is(err, store.ErrNotFound) {
		return data, nil
	}
	if err != nil {
		return data, fmt.Errorf("load onboarding data: %w", err)
	}

	// Unmarshal over the defaults so keys missing from older blobs keep
	// their default values.
	if err := json.Unmarshal(raw, &data); err != nil {
		s.log.Warn().Err(err).Msg("discarding unreadable onboarding data")
		return Defaults(), nil
	}
	return data, nil
}

// Save validates and stores data.
func (s *Store) Save(ctx context.Context, data OnboardingData) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx, data)
}

func (s *Store) save(ctx context.Context, data OnboardingData) error {
	data.WeatherFeatures = data.WeatherFeatures.withEssentials()
	if err := s.validate.Struct(data); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode onboarding data: %w", err)
	}
	if err := s.blobs.Put(ctx, StorageKey, raw); err != nil {
		return fmt.Errorf("save onboarding data: %w", err)
	}
	return nil
}

func (s *Store) update(ctx context.Context, fn func(*OnboardingData) error) (OnboardingData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load(ctx)
	if err != nil {
		return OnboardingData{}, err
	}
	if err := fn(&data); err != nil {
		return OnboardingData{}, err
	}
	if err := s.save(ctx, data); err != nil {
		return OnboardingData{}, err
	}
	data.WeatherFeatures = data.WeatherFeatures.withEssentials()
	return data, nil
}

func (s *Store) SetHomeLocation(ctx context.Context, home HomeLocation) (OnboardingData, error) {
	if err := s.validate.Struct(home); err != nil {
		return OnboardingData{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return s.update(ctx, func(d *OnboardingData) error {
		d.HomeLocation = &home
		d.Permissions.Location = "granted"
		return nil
	})
}

// SetFeatures replaces the feature toggles. Essential features stay on.
func (s *Store) SetFeatures(ctx context.Context, features WeatherFeatures) (OnboardingData, error) {
	return s.update(ctx, func(d *OnboardingData) error {
		d.WeatherFeatures = features.withEssentials()
		return nil
	})
}

func (s *Store) SetNotifications(ctx context.Context, prefs NotificationPreferences) (OnboardingData, error) {
	return s.update(ctx, func(d *OnboardingData) error {
		d.NotificationPreferences = prefs
		d.Permissions.Notifications = prefs.MorningBriefingEnabled || prefs.EventRemindersEnabled
		return nil
	})
}

func (s *Store) SetCalendarToken(ctx context.Context, token string) (OnboardingData, error) {
	return s.update(ctx, func(d *OnboardingData) error {
		d.CalendarToken = token
		d.Permissions.Calendar = token != ""
		return nil
	})
}

func (s *Store) Advance(ctx context.Context) (OnboardingData, error) {
	return s.update(ctx, func(d *OnboardingData) error {
		d.CurrentStep = d.CurrentStep.Next()
		return nil
	})
}

func (s *Store) Back(ctx context.Context) (OnboardingData, error) {
	return s.update(ctx, func(d *OnboardingData) error {
		d.CurrentStep = d.CurrentStep.Prev()
		return nil
	})
}

func (s *Store) Complete(ctx context.Context) (OnboardingData, error) {
	return s.update(ctx, func(d *OnboardingData) error {
		d.Completed = true
		d.CurrentStep = StepCompletion
		return nil
	})
}

// Reset discards the stored state.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.blobs.Delete(ctx, StorageKey); err != nil && !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("reset onboarding data: %w", err)
	}
	return nil
}

// Preferences returns the toggles and home coordinates used by one
// enrichment run.
func (s *Store) Preferences(ctx context.Context) (Snapshot, error) {
	data, err := s.Load(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	snap := Snapshot{Preferences: data.WeatherFeatures.withEssentials().Preferences()}
	if data.HomeLocation != nil {
		coords := data.HomeLocation.Coordinates
		snap.Home = &coords
	}
	return snap, nil
}
