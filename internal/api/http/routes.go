package httpapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/patrick-anyanwu/SunProtection/internal/chart"
	"github.com/patrick-anyanwu/SunProtection/internal/location"
	"github.com/patrick-anyanwu/SunProtection/internal/places"
	"github.com/patrick-anyanwu/SunProtection/internal/report"
	"github.com/patrick-anyanwu/SunProtection/internal/weather"
)

var validate = validator.New()

const (
	msgInvalidInput   = "Invalid input."
	msgTooManyRequest = "Too many requests. Please try again later."
	msgStatsDown      = "Statistics are temporarily unavailable."
)

// UVService answers UV lookups.
type UVService interface {
	Lookup(ctx context.Context, q weather.Query) (weather.EnvironmentalReading, error)
}

// Suggester answers address autocomplete queries.
type Suggester interface {
	Suggest(ctx context.Context, query string) []places.Suggestion
}

// ReportBuilder produces the UV impact report.
type ReportBuilder interface {
	Build(ctx context.Context) (report.Report, error)
}

// Services groups the handlers' dependencies.
type Services struct {
	UV      UVService
	Places  Suggester
	Reports ReportBuilder
}

// Limits are per-client request budgets per minute.
type Limits struct {
	UVPerMinute      int
	SuggestPerMinute int
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, svc Services, limits Limits) {
	v1 := app.Group("/api/v1")

	v1.Get("/uv-index", perMinute(limits.UVPerMinute), func(c *fiber.Ctx) error {
		var q uvQuery
		q.bind(c)
		if err := validate.Struct(q); err != nil {
			return err
		}

		reading, err := svc.UV.Lookup(c.UserContext(), q.toQuery())
		if err != nil {
			return err
		}
		return c.JSON(reading)
	})

	v1.Get("/address-suggestions", perMinute(limits.SuggestPerMinute), func(c *fiber.Ctx) error {
		q := suggestQuery{Query: utils.CopyString(c.Query("query"))}
		suggestions := []places.Suggestion{}
		if validate.Struct(q) == nil {
			suggestions = svc.Places.Suggest(c.UserContext(), q.Query)
		}
		return c.JSON(fiber.Map{"suggestions": suggestions})
	})

	v1.Get("/uv-impact", func(c *fiber.Ctx) error {
		rep, err := buildReport(c, svc.Reports)
		if err != nil {
			return err
		}
		return c.JSON(rep)
	})

	v1.Get("/uv-impact/trend.png", func(c *fiber.Ctx) error {
		rep, err := buildReport(c, svc.Reports)
		if err != nil {
			return err
		}
		return sendImage(c, rep.Trend)
	})

	v1.Get("/uv-impact/gender.png", func(c *fiber.Ctx) error {
		rep, err := buildReport(c, svc.Reports)
		if err != nil {
			return err
		}
		return sendImage(c, rep.Gender)
	})
}

// RegisterOps adds the health and metrics endpoints.
func RegisterOps(app *fiber.App, service string, metrics http.Handler) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": service,
		})
	})
	if metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(metrics))
	}
}

// NewErrorHandler builds the centralized error response. Invalid coordinates
// and failed validation map to 400 with a fixed message.
func NewErrorHandler(logger *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Internal server error."

		var (
			fe       *fiber.Error
			inputErr *location.InvalidInputError
			valErrs  validator.ValidationErrors
		)
		switch {
		case errors.As(err, &inputErr), errors.As(err, &valErrs):
			code = fiber.StatusBadRequest
			message = msgInvalidInput
		case errors.As(err, &fe):
			code = fe.Code
			message = fe.Message
		}

		if code >= fiber.StatusInternalServerError && logger != nil {
			logger.Error("request failed",
				"method", c.Method(),
				"path", c.Path(),
				"error", err,
			)
		}
		return c.Status(code).JSON(fiber.Map{
			"error":   true,
			"message": message,
		})
	}
}

func perMinute(max int) fiber.Handler {
	if max <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return fiber.NewError(fiber.StatusTooManyRequests, msgTooManyRequest)
		},
	})
}

func buildReport(c *fiber.Ctx, b ReportBuilder) (report.Report, error) {
	rep, err := b.Build(c.UserContext())
	if err != nil {
		return report.Report{}, fmt.Errorf("%w: %v", fiber.NewError(fiber.StatusServiceUnavailable, msgStatsDown), err)
	}
	return rep, nil
}

func sendImage(c *fiber.Ctx, img chart.Image) error {
	if img.NoData {
		return c.SendStatus(fiber.StatusNoContent)
	}
	c.Set(fiber.HeaderContentType, img.ContentType)
	c.Set(fiber.HeaderCacheControl, "no-cache")
	return c.Send(img.Data)
}

// uvQuery holds query parameters for the UV lookup.
type uvQuery struct {
	// Coordinate grammar is checked by location.ParseCoordinates.
	Lat      string `validate:"max=64"`
	Lon      string `validate:"max=64"`
	Name     string `validate:"max=200"`
	Location string `validate:"max=200"`
}

func (q *uvQuery) bind(c *fiber.Ctx) {
	// Query values alias the request buffer.
	q.Lat = utils.CopyString(c.Query("lat"))
	q.Lon = utils.CopyString(c.Query("lon"))
	q.Name = utils.CopyString(c.Query("name"))
	q.Location = utils.CopyString(c.Query("location"))
}

func (q uvQuery) toQuery() weather.Query {
	return weather.Query{
		Lat:      q.Lat,
		Lon:      q.Lon,
		Name:     q.Name,
		Location: q.Location,
	}
}

type suggestQuery struct {
	Query string `validate:"max=200"`
}
