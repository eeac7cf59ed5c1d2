package httpapi

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-monitor/internal/weather"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, session *weather.Session) {
	v1 := app.Group("/api/v1")

	v1.Get("/dashboard", func(c *fiber.Ctx) error {
		return c.JSON(displayDashboard(session.Views(), session.Settings()))
	})

	w := v1.Group("/weather")

	w.Get("/latest", func(c *fiber.Ctx) error {
		unit := session.Settings().Unit
		return c.JSON(displaySamples(session.Views().Latest, unit))
	})

	w.Get("/summaries", func(c *fiber.Ctx) error {
		unit := session.Settings().Unit
		return c.JSON(displaySummaries(session.Views().Summaries, unit))
	})

	w.Get("/trends", func(c *fiber.Ctx) error {
		unit := session.Settings().Unit
		return c.JSON(displayTrends(session.Views().Trends, unit))
	})

	w.Get("/forecasts", func(c *fiber.Ctx) error {
		unit := session.Settings().Unit
		return c.JSON(displayForecasts(session.Views().Forecasts, unit))
	})

	w.Get("/alert", func(c *fiber.Ctx) error {
		alert := session.Views().Alert
		return c.JSON(fiber.Map{
			"active":  alert.Active(),
			"count":   alert.Count,
			"message": alert.Message,
		})
	})

	w.Post("/ingest", func(c *fiber.Ctx) error {
		raw, skipped, err := weather.DecodeRawSamples(c.Body())
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "request body must be a JSON array of observations")
		}

		res := session.Ingest(raw)
		res.Skipped += skipped
		return c.JSON(res)
	})

	w.Post("/refresh", func(c *fiber.Ctx) error {
		err := session.RefreshAll(c.UserContext())
		switch {
		case errors.Is(err, weather.ErrRefreshInProgress):
			return fiber.NewError(fiber.StatusConflict, err.Error())
		case errors.Is(err, weather.ErrSourceUnavailable):
			return fiber.NewError(fiber.StatusBadGateway, "weather source unavailable")
		case err != nil:
			return fiber.NewError(fiber.StatusInternalServerError, "failed to refresh weather data")
		}
		return c.JSON(displayDashboard(session.Views(), session.Settings()))
	})

	w.Post("/simulate", func(c *fiber.Ctx) error {
		var req simulateRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		res, err := session.Simulate(*req.Days)
		if err != nil {
			if errors.Is(err, weather.ErrAlreadySimulated) {
				return fiber.NewError(fiber.StatusConflict, err.Error())
			}
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return c.JSON(res)
	})

	v1.Get("/settings", func(c *fiber.Ctx) error {
		return c.JSON(session.Settings())
	})

	s := v1.Group("/settings")

	s.Put("/threshold", func(c *fiber.Ctx) error {
		var req thresholdRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := session.SetThreshold(*req.Threshold); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return c.JSON(session.Settings())
	})

	s.Put("/unit", func(c *fiber.Ctx) error {
		var req unitRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := session.SetUnit(c.UserContext(), weather.Unit(req.Unit)); err != nil {
			if errors.Is(err, weather.ErrInvalidUnit) {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to save unit preference")
		}
		return c.JSON(session.Settings())
	})
}

// simulateRequest is the body of POST /weather/simulate.
type simulateRequest struct {
	Days *int `json:"days" validate:"required,gte=0,lte=365"`
}

// thresholdRequest is the body of PUT /settings/threshold.
type thresholdRequest struct {
	Threshold *float64 `json:"threshold" validate:"required"`
}

// unitRequest is the body of PUT /settings/unit.
type unitRequest struct {
	Unit string `json:"unit" validate:"required,oneof=C K"`
}
