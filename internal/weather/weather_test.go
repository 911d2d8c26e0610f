package weather

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWindChill(t *testing.T) {
	tests := []struct {
		name string
		temp float64
		wind float64
		want float64
	}{
		{"warm passthrough", 55, 30, 55},
		{"calm passthrough", 20, 2, 20},
		{"boundary 50 applies", 50, 10, 46},
		{"cold and windy", 20, 30, 1},
		{"nws table 0F 15mph", 0, 15, -19},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WindChill(tt.temp, tt.wind))
		})
	}
}

func TestWindChillMonotonicInWind(t *testing.T) {
	for _, temp := range []float64{-30, -10, 0, 15, 32, 45, 50} {
		prev := WindChill(temp, 3)
		assert.LessOrEqual(t, prev, temp)
		for v := 4.0; v <= 80; v++ {
			cur := WindChill(temp, v)
			assert.LessOrEqualf(t, cur, prev, "temp=%v wind=%v", temp, v)
			prev = cur
		}
	}
}

func TestHeatIndex(t *testing.T) {
	assert.Equal(t, 79.0, HeatIndex(79, 90))
	assert.Equal(t, 95.0, HeatIndex(95, 39))
	assert.Equal(t, 113.0, HeatIndex(90, 80))
	assert.Equal(t, 91.0, HeatIndex(86, 60))
}

func TestClassify(t *testing.T) {
	tests := map[string]Condition{
		"Clear":            ConditionClear,
		"Mostly Sunny":     ConditionClear,
		"Partly Cloudy":    ConditionPartlyCloudy,
		"partially sunny":  ConditionClear,
		"Rainy":            ConditionRain,
		"Rain Showers":     ConditionRain,
		"light drizzle":    ConditionRain,
		"Snow Showers":     ConditionRain,
		"Snowy":            ConditionSnow,
		"Sleet":            ConditionSnow,
		"Overcast":         ConditionCloudy,
		"Foggy":            ConditionCloudy,
		"Cloudy":           ConditionCloudy,
		"Thunderstorm":     ConditionOther,
		"":                 ConditionOther,
		"PARTLY CLOUDY":    ConditionPartlyCloudy,
		"clear then rainy": ConditionClear,
	}
	for in, want := range tests {
		assert.Equalf(t, want, Classify(in), "Classify(%q)", in)
		assert.Equal(t, Classify(in), Classify(in))
	}
}

func TestClosestPoint(t *testing.T) {
	base := time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC)
	series := []HourlyPoint{
		{Time: base, Snapshot: Snapshot{Temperature: 30}},
		{Time: base.Add(time.Hour), Snapshot: Snapshot{Temperature: 31}},
		{Time: base.Add(2 * time.Hour), Snapshot: Snapshot{Temperature: 32}},
	}

	assert.Nil(t, ClosestPoint(nil, base))
	assert.Equal(t, 31.0, ClosestPoint(series, base.Add(70*time.Minute)).Temperature)
	assert.Equal(t, 30.0, ClosestPoint(series, base.Add(30*time.Minute)).Temperature, "ties go to the earlier point")
	assert.Equal(t, 32.0, ClosestPoint(series, base.Add(10*time.Hour)).Temperature)
}

func TestCoordinatesKey(t *testing.T) {
	assert.Equal(t, "40.71,-74.01", Coordinates{Latitude: 40.7128, Longitude: -74.0060}.Key())
}

type fakeForecaster struct {
	snapshotCalls int
	seriesCalls   int
	snapshot      *Snapshot
	series        []HourlyPoint
	err           error
}

func (f *fakeForecaster) SnapshotAt(context.Context, Coordinates, time.Time) (*Snapshot, error) {
	f.snapshotCalls++
	return f.snapshot, f.err
}

func (f *fakeForecaster) HourlySeries(context.Context, Coordinates, time.Time, time.Time) ([]HourlyPoint, error) {
	f.seriesCalls++
	return f.series, f.err
}

type mapStore map[string]CacheEntry

func (m mapStore) Save(loc string, e CacheEntry) { m[loc+"|"+e.Key] = e }
func (m mapStore) Get(loc, key string) (CacheEntry, error) {
	if e, ok := m[loc+"|"+key]; ok {
		return e, nil
	}
	return CacheEntry{}, errors.New("miss")
}

func TestServiceCachesSuccessfulResponses(t *testing.T) {
	at := time.Date(2026, 1, 10, 8, 20, 0, 0, time.UTC)
	fc := &fakeForecaster{
		snapshot: &Snapshot{Temperature: 41, Condition: "Clear"},
		series:   []HourlyPoint{{Time: at, Snapshot: Snapshot{Temperature: 41}}},
	}
	svc := NewService(mapStore{}, fc, zerolog.Nop())
	coords := Coordinates{Latitude: 40.7, Longitude: -74}
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		snap, err := svc.SnapshotAt(ctx, coords, at.Add(time.Duration(i)*time.Minute))
		require.NoError(t, err)
		assert.Equal(t, 41.0, snap.Temperature)

		series, err := svc.HourlySeries(ctx, coords, at, at.Add(time.Hour))
		require.NoError(t, err)
		assert.Len(t, series, 1)
	}
	assert.Equal(t, 1, fc.snapshotCalls)
	assert.Equal(t, 1, fc.seriesCalls)
}

func TestServiceDoesNotCacheMisses(t *testing.T) {
	fc := &fakeForecaster{err: errors.New("upstream down")}
	svc := NewService(mapStore{}, fc, zerolog.Nop())
	coords := Coordinates{Latitude: 1, Longitude: 2}

	_, err := svc.SnapshotAt(context.Background(), coords, time.Now())
	require.Error(t, err)
	_, err = svc.SnapshotAt(context.Background(), coords, time.Now())
	require.Error(t, err)
	assert.Equal(t, 2, fc.snapshotCalls)

	fc.err = nil
	series, err := svc.HourlySeries(context.Background(), coords, time.Now(), time.Now())
	require.NoError(t, err)
	assert.Empty(t, series)
	_, _ = svc.HourlySeries(context.Background(), coords, time.Now(), time.Now())
	assert.Equal(t, 2, fc.seriesCalls)
}

func TestServiceTrimsCachedSeriesToWindow(t *testing.T) {
	base := time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC)
	fc := &fakeForecaster{series: []HourlyPoint{
		{Time: base, Snapshot: Snapshot{Temperature: 40}},
		{Time: base.Add(time.Hour), Snapshot: Snapshot{Temperature: 42}},
		{Time: base.Add(2 * time.Hour), Snapshot: Snapshot{Temperature: 44}},
	}}
	svc := NewService(mapStore{}, fc, zerolog.Nop())
	coords := Coordinates{Latitude: 40.7, Longitude: -74}
	ctx := context.Background()

	series, err := svc.HourlySeries(ctx, coords, base, base.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Len(t, series, 3)

	// Same hour-granular cache key, later start.
	series, err = svc.HourlySeries(ctx, coords, base.Add(30*time.Minute), base.Add(2*time.Hour))
	require.NoError(t, err)
	require.Len(t, series, 2)
	assert.True(t, series[0].Time.Equal(base.Add(time.Hour)))
	assert.Equal(t, 1, fc.seriesCalls)
}

func TestServiceSnapshotKeyRoundsUp(t *testing.T) {
	fc := &fakeForecaster{snapshot: &Snapshot{Temperature: 41}}
	svc := NewService(mapStore{}, fc, zerolog.Nop())
	coords := Coordinates{Latitude: 40.7, Longitude: -74}
	base := time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC)

	for _, at := range []time.Time{base, base.Add(30 * time.Minute), base.Add(time.Hour)} {
		_, err := svc.SnapshotAt(context.Background(), coords, at)
		require.NoError(t, err)
	}
	// 08:00 is its own hour; 08:30 and 09:00 both resolve to 09:00.
	assert.Equal(t, 2, fc.snapshotCalls)
}

func TestChainFallsBackToNextForecaster(t *testing.T) {
	coords := Coordinates{Latitude: 40.7, Longitude: -74}
	at := time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC)
	down := &fakeForecaster{err: errors.New("upstream down")}
	empty := &fakeForecaster{}
	good := &fakeForecaster{
		snapshot: &Snapshot{Temperature: 50},
		series:   []HourlyPoint{{Time: at, Snapshot: Snapshot{Temperature: 50}}},
	}

	chain := NewChain(zerolog.Nop(),
		NamedForecaster{Name: "down", Forecaster: down},
		NamedForecaster{Name: "empty", Forecaster: empty},
		NamedForecaster{Name: "good", Forecaster: good},
	)

	snap, err := chain.SnapshotAt(context.Background(), coords, at)
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, 50.0, snap.Temperature)

	series, err := chain.HourlySeries(context.Background(), coords, at, at.Add(time.Hour))
	require.NoError(t, err)
	assert.Len(t, series, 1)
	assert.Equal(t, 1, down.seriesCalls)
	assert.Equal(t, 1, empty.seriesCalls)
}

func TestChainReportsFailureOnlyWithoutData(t *testing.T) {
	coords := Coordinates{Latitude: 1, Longitude: 2}
	down := &fakeForecaster{err: errors.New("upstream down")}

	snap, err := NewChain(zerolog.Nop(),
		NamedForecaster{Name: "empty", Forecaster: &fakeForecaster{}},
		NamedForecaster{Name: "down", Forecaster: down},
	).SnapshotAt(context.Background(), coords, time.Now())
	assert.Error(t, err)
	assert.Nil(t, snap)

	// Unknown weather everywhere is not an error.
	series, err := NewChain(zerolog.Nop(), NamedForecaster{Name: "empty", Forecaster: &fakeForecaster{}}).
		HourlySeries(context.Background(), coords, time.Now(), time.Now())
	assert.NoError(t, err)
	assert.Empty(t, series)
}
