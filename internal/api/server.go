package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"skillbox/internal/api/validator"
	"skillbox/internal/config"
	"skillbox/internal/entitlement"
	"skillbox/internal/services"

	console "skillbox/internal/utils/logger"
)

type Server struct {
	echo     *echo.Echo
	config   *config.Config
	db       *gorm.DB
	services *Services
}

// Services bundles everything the routes need.
type Services struct {
	Ledger     *services.Ledger
	Catalog    *services.Catalog
	Downloads  *services.Downloads
	Identity   *services.Identity
	Terms      *services.Terms
	Executions *services.Executions
	Analytics  *services.Analytics
}

var log = console.New("API-Server")

// NewServer @title Skilling in a Box API
// @version 1.0
// @description Partner training content portal: catalog, entitlements, downloads.
// @host localhost:8080
// @BasePath /api/v1
func NewServer(cfg *config.Config, db *gorm.DB, minter services.ReferenceMinter, rdb *redis.Client) (*Server, error) {
	mode, err := entitlement.ParseMode(cfg.Entitlement.Mode)
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.Validator = validator.NewValidator()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPut, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, echo.HeaderContentLength},
	}))
	e.Use(middleware.RequestID())
	e.Use(middleware.Secure())
	e.Use(middleware.TimeoutWithConfig(middleware.TimeoutConfig{
		Timeout: 30 * time.Second,
	}))
	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level: 5,
	}))
	e.Use(middleware.BodyLimit("100M"))
	e.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(rate.Limit(20))))

	e.HTTPErrorHandler = customHTTPErrorHandler

	ledger := services.NewLedger(db)
	ttl := time.Duration(cfg.Entitlement.DownloadTTLMin) * time.Minute

	s := &Server{
		echo:   e,
		config: cfg,
		db:     db,
		services: &Services{
			Ledger:     ledger,
			Catalog:    services.NewCatalog(db),
			Downloads:  services.NewDownloads(db, ledger, minter, mode, ttl),
			Identity:   services.NewIdentity(db),
			Terms:      services.NewTerms(db),
			Executions: services.NewExecutions(db, ledger, mode),
			Analytics:  services.NewAnalytics(db),
		},
	}

	s.registerRoutes(rdb)
	return s, nil
}

func (s *Server) Start() error {
	return s.echo.Start(fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port))
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Health check endpoint
func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"version": "1.0.0",
		"time":    time.Now().Format(time.RFC3339),
	})
}

// customHTTPErrorHandler maps the service error taxonomy onto status codes
// in one place so handlers just return errors.
func customHTTPErrorHandler(err error, c echo.Context) {
	var (
		code    = http.StatusInternalServerError
		message interface{}
		extra   map[string]interface{}
	)

	var httpErr *echo.HTTPError
	var validationErrs validator.ValidationErrors
	var entErr *services.EntitlementError

	switch {
	case errors.As(err, &httpErr):
		code = httpErr.Code
		message = httpErr.Message
	case errors.As(err, &validationErrs):
		code = http.StatusBadRequest
		message = formatValidationErrors(validationErrs)
	case errors.As(err, &entErr):
		// 403 plus the decision so the frontend can distinguish "pending
		// approval" from "request access".
		code = http.StatusForbidden
		message = entErr.Error()
		extra = map[string]interface{}{"entitlement": string(entErr.Decision)}
	case errors.Is(err, services.ErrValidation):
		code = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, services.ErrNotFound):
		code = http.StatusNotFound
		message = err.Error()
	case errors.Is(err, services.ErrForbidden):
		code = http.StatusForbidden
		message = err.Error()
	case errors.Is(err, services.ErrDuplicatePending),
		errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, services.ErrConflict):
		code = http.StatusConflict
		message = err.Error()
	case errors.Is(err, services.ErrUpstream):
		code = http.StatusBadGateway
		message = err.Error()
	default:
		message = http.StatusText(code)
	}

	if !c.Response().Committed {
		body := map[string]interface{}{
			"error": message,
			"code":  code,
			"time":  time.Now().Format(time.RFC3339),
		}
		for k, v := range extra {
			body[k] = v
		}

		var respErr error
		if c.Request().Method == http.MethodHead {
			respErr = c.NoContent(code)
		} else {
			respErr = c.JSON(code, body)
		}
		if respErr != nil {
			c.Echo().Logger.Error(respErr)
		}
	}
}

// formatValidationErrors formats validation errors into a map
func formatValidationErrors(errs validator.ValidationErrors) map[string]string {
	errMap := make(map[string]string)
	for _, err := range errs {
		field := err.Field()
		tag := err.Tag()
		param := err.Param()

		switch tag {
		case "required":
			errMap[field] = fmt.Sprintf("%s is required", field)
		case "email":
			errMap[field] = fmt.Sprintf("%s must be a valid email", field)
		case "min":
			errMap[field] = fmt.Sprintf("%s must be at least %s", field, param)
		case "max":
			errMap[field] = fmt.Sprintf("%s must be at most %s", field, param)
		case "uuid":
			errMap[field] = fmt.Sprintf("%s must be a valid UUID", field)
		case "oneof":
			errMap[field] = fmt.Sprintf("%s must be one of [%s]", field, param)
		case "user_role":
			errMap[field] = fmt.Sprintf("%s must be one of: partner, content_admin, ms_stakeholder, admin", field)
		case "request_status":
			errMap[field] = fmt.Sprintf("%s must be one of: pending, approved, rejected", field)
		case "decision_status":
			errMap[field] = fmt.Sprintf("%s must be approved or rejected", field)
		default:
			errMap[field] = fmt.Sprintf("%s failed validation: %s", field, tag)
		}
	}
	return errMap
}
