package httpapi

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/i474232898/event-weather-advisor/internal/calendar"
	"github.com/i474232898/event-weather-advisor/internal/enrich"
	"github.com/i474232898/event-weather-advisor/internal/onboarding"
	"github.com/i474232898/event-weather-advisor/internal/suggest"
	"github.com/i474232898/event-weather-advisor/internal/weather"
)

var validate = validator.New()

// Preferences is the onboarding store surface used by the API.
type Preferences interface {
	Load(ctx context.Context) (onboarding.OnboardingData, error)
	Preferences(ctx context.Context) (onboarding.Snapshot, error)
	SetFeatures(ctx context.Context, f onboarding.WeatherFeatures) (onboarding.OnboardingData, error)
	SetNotifications(ctx context.Context, n onboarding.NotificationPreferences) (onboarding.OnboardingData, error)
	SetHomeLocation(ctx context.Context, h onboarding.HomeLocation) (onboarding.OnboardingData, error)
}

// Handlers holds the dependencies of the API routes.
type Handlers struct {
	Runner      *enrich.Runner
	Preferences Preferences
	Log         zerolog.Logger
	Now         func() time.Time
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, h *Handlers) {
	if h.Now == nil {
		h.Now = time.Now
	}
	v1 := app.Group("/api/v1")

	v1.Get("/events", func(c *fiber.Ctx) error {
		res, ok := h.Runner.Latest()
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "no enriched events yet")
		}
		return c.JSON(res)
	})

	v1.Post("/events/enrich", h.enrichEvents)
	v1.Post("/suggestions", h.suggestions)

	prefs := v1.Group("/preferences")
	prefs.Get("", h.getPreferences)
	prefs.Put("/features", func(c *fiber.Ctx) error {
		var req onboarding.WeatherFeatures
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		return h.respondPreferences(c, func(ctx context.Context) (onboarding.OnboardingData, error) {
			return h.Preferences.SetFeatures(ctx, req)
		})
	})
	prefs.Put("/notifications", func(c *fiber.Ctx) error {
		var req onboarding.NotificationPreferences
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		return h.respondPreferences(c, func(ctx context.Context) (onboarding.OnboardingData, error) {
			return h.Preferences.SetNotifications(ctx, req)
		})
	})
	prefs.Put("/home", func(c *fiber.Ctx) error {
		var req onboarding.HomeLocation
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		return h.respondPreferences(c, func(ctx context.Context) (onboarding.OnboardingData, error) {
			return h.Preferences.SetHomeLocation(ctx, req)
		})
	})
}

// enrichRequest is the body of POST /events/enrich.
type enrichRequest struct {
	Events []calendar.Event `json:"events" validate:"dive"`
}

func (h *Handlers) enrichEvents(c *fiber.Ctx) error {
	var req enrichRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	res, err := h.Runner.Run(c.UserContext(), calendar.Normalize(req.Events))
	if errors.Is(err, enrich.ErrSuperseded) {
		return fiber.NewError(fiber.StatusConflict, "superseded by a newer request")
	}
	if err != nil {
		h.Log.Error().Err(err).Msg("enrichment failed")
		return fiber.NewError(fiber.StatusInternalServerError, "failed to enrich events")
	}
	return c.JSON(res)
}

// suggestionRequest is the body of POST /suggestions. Without an hourly
// series the reduced rule set is used.
type suggestionRequest struct {
	Weather     weather.Snapshot      `json:"weather"`
	Hourly      []weather.HourlyPoint `json:"hourly" validate:"dive"`
	Start       *time.Time            `json:"start"`
	End         *time.Time            `json:"end"`
	Title       string                `json:"title"`
	Preferences *suggest.Preferences  `json:"preferences"`
}

type suggestionResponse struct {
	suggest.Suggestion
	Reason string `json:"reason,omitempty"`
}

func (h *Handlers) suggestions(c *fiber.Ctx) error {
	var req suggestionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	prefs := suggest.AllEnabled()
	if req.Preferences != nil {
		prefs = *req.Preferences
	} else if h.Preferences != nil {
		snap, err := h.Preferences.Preferences(c.UserContext())
		if err != nil {
			h.Log.Warn().Err(err).Msg("preferences unavailable, enabling all")
		} else {
			prefs = snap.Preferences
		}
	}

	var out []suggest.Suggestion
	if len(req.Hourly) > 0 && req.Start != nil {
		end := req.Start.Add(time.Hour)
		if req.End != nil {
			end = *req.End
		}
		out = suggest.Generate(suggest.Input{
			Weather: req.Weather,
			Hourly:  req.Hourly,
			Start:   *req.Start,
			End:     end,
			Title:   req.Title,
			Prefs:   prefs,
			Now:     h.Now(),
		})
	} else {
		out = suggest.GenerateBasic(req.Weather, prefs)
	}

	resp := make([]suggestionResponse, 0, len(out))
	for _, s := range out {
		resp = append(resp, suggestionResponse{Suggestion: s, Reason: suggest.Reason(s, req.Weather)})
	}
	return c.JSON(fiber.Map{"suggestions": resp})
}

func (h *Handlers) getPreferences(c *fiber.Ctx) error {
	data, err := h.Preferences.Load(c.UserContext())
	if err != nil {
		h.Log.Error().Err(err).Msg("load preferences")
		return fiber.NewError(fiber.StatusInternalServerError, "failed to load preferences")
	}
	data.CalendarToken = ""
	return c.JSON(data)
}

func (h *Handlers) respondPreferences(c *fiber.Ctx, fn func(ctx context.Context) (onboarding.OnboardingData, error)) error {
	data, err := fn(c.UserContext())
	if errors.Is(err, onboarding.ErrInvalid) {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err != nil {
		h.Log.Error().Err(err).Msg("save preferences")
		return fiber.NewError(fiber.StatusInternalServerError, "failed to save preferences")
	}
	data.CalendarToken = ""
	return c.JSON(data)
}
