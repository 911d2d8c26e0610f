package onboarding

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/event-weather-advisor/internal/store"
	"github.com/i474232898/event-weather-advisor/internal/weather"
)

func newTestStore(t *testing.T) (*Store, store.BlobStore) {
	t.Helper()
	blobs := store.NewMemoryBlobStore()
	return NewStore(blobs, zerolog.Nop()), blobs
}

func TestLoadDefaults(t *testing.T) {
	s, _ := newTestStore(t)

	data, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Defaults(), data)
	assert.True(t, data.WeatherFeatures.WindSpeed)
	assert.False(t, data.WeatherFeatures.FeelsLike)
}

func TestLoadMergesOverDefaults(t *testing.T) {
	s, blobs := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, blobs.Put(ctx, StorageKey, []byte(`{"completed":true,"weatherFeatures":{"humidity":true}}`)))

	data, err := s.Load(ctx)
	require.NoError(t, err)
	assert.True(t, data.Completed)
	assert.True(t, data.WeatherFeatures.Humidity)
	assert.True(t, data.WeatherFeatures.UVIndex)
	assert.Equal(t, "7:00 AM", data.NotificationPreferences.MorningBriefingTime)
}

func TestLoadCorruptBlobFallsBack(t *testing.T) {
	s, blobs := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, blobs.Put(ctx, StorageKey, []byte(`{not json`)))

	data, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, Defaults(), data)
}

func TestSetFeaturesKeepsEssentials(t *testing.T) {
	s, _ := newTestStore(t)

	data, err := s.SetFeatures(context.Background(), WeatherFeatures{AirQuality: true})
	require.NoError(t, err)
	assert.True(t, data.WeatherFeatures.Precipitation)
	assert.True(t, data.WeatherFeatures.Temperature)
	assert.True(t, data.WeatherFeatures.AirQuality)
	assert.False(t, data.WeatherFeatures.WindSpeed)

	snap, err := s.Preferences(context.Background())
	require.NoError(t, err)
	assert.True(t, snap.Preferences.Precipitation)
	assert.True(t, snap.Preferences.AirQuality)
	assert.False(t, snap.Preferences.WindSpeed)
	assert.Nil(t, snap.Home)
}

func TestSetHomeLocation(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	_, err := s.SetHomeLocation(ctx, HomeLocation{
		Address:     "123 Main Street",
		City:        "San Francisco",
		State:       "CA",
		Coordinates: weather.Coordinates{Latitude: 37.7749, Longitude: -122.4194},
	})
	require.NoError(t, err)

	snap, err := s.Preferences(ctx)
	require.NoError(t, err)
	require.NotNil(t, snap.Home)
	assert.Equal(t, 37.7749, snap.Home.Latitude)

	_, err = s.SetHomeLocation(ctx, HomeLocation{Address: "Nowhere", Coordinates: weather.Coordinates{Latitude: 95}})
	assert.ErrorIs(t, err, ErrInvalid)
	_, err = s.SetHomeLocation(ctx, HomeLocation{})
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestSetNotificationsValidatesClock(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	data, err := s.SetNotifications(ctx, NotificationPreferences{
		MorningBriefingEnabled: true,
		MorningBriefingTime:    "6:30 AM",
		EventReminderTime:      "30 min before heading out",
	})
	require.NoError(t, err)
	assert.Equal(t, "6:30 AM", data.NotificationPreferences.MorningBriefingTime)
	assert.True(t, data.Permissions.Notifications)

	_, err = s.SetNotifications(ctx, NotificationPreferences{
		MorningBriefingTime: "25:00",
		EventReminderTime:   "soon",
	})
	assert.ErrorIs(t, err, ErrInvalid)

	stored, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "6:30 AM", stored.NotificationPreferences.MorningBriefingTime)
}

func TestStepNavigation(t *testing.T) {
	assert.Equal(t, StepAddress, StepWelcome.Next())
	assert.Equal(t, StepCalendar, StepAddress.Next())
	assert.Equal(t, StepCompletion, StepCompletion.Next())
	assert.Equal(t, StepWelcome, StepWelcome.Prev())

	s, _ := newTestStore(t)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := s.Advance(ctx)
		require.NoError(t, err)
	}
	data, err := s.Back(ctx)
	require.NoError(t, err)
	assert.Equal(t, StepCalendar, data.CurrentStep)

	data, err = s.Complete(ctx)
	require.NoError(t, err)
	assert.True(t, data.Completed)
	assert.Equal(t, StepCompletion, data.CurrentStep)
}

func TestCalendarTokenAndReset(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	data, err := s.SetCalendarToken(ctx, "tok")
	require.NoError(t, err)
	assert.True(t, data.Permissions.Calendar)

	require.NoError(t, s.Reset(ctx))
	data, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, data.CalendarToken)
}

func TestStoreOverSQLite(t *testing.T) {
	blobs, err := store.OpenSQLite(":memory:")
	require.NoError(t, err)
	defer blobs.Close()

	s := NewStore(blobs, zerolog.Nop())
	ctx := context.Background()
	_, err = s.SetFeatures(ctx, WeatherFeatures{Visibility: true})
	require.NoError(t, err)

	data, err := NewStore(blobs, zerolog.Nop()).Load(ctx)
	require.NoError(t, err)
	assert.True(t, data.WeatherFeatures.Visibility)
}

func TestClockValidation(t *testing.T) {
	var v interface{}
	require.NotPanics(t, func() { v = newValidator() })
	require.NotNil(t, v)

	assert.NoError(t, validate.Var("7:00 AM", "clock"))
	assert.NoError(t, validate.Var("12:45 PM", "clock"))
	assert.Error(t, validate.Var("25:00", "clock"))
	assert.Error(t, validate.Var("", "clock"))
}
