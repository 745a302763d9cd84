package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/openshelf/openshelf/internal/errs"
	md "github.com/openshelf/openshelf/pkg/middleware"
	"github.com/openshelf/openshelf/pkg/validate"
)

type Handler struct {
	catalogSvc     CatalogService
	reservationSvc ReservationService
	authSvc        AuthService
	adminSvc       AdminService
	enqueuer       Enqueuer
	log            *zap.Logger
}

func New(catalog CatalogService, reservation ReservationService, authSvc AuthService, admin AdminService, enqueuer Enqueuer, log *zap.Logger) *Handler {
	return &Handler{
		catalogSvc:     catalog,
		reservationSvc: reservation,
		authSvc:        authSvc,
		adminSvc:       admin,
		enqueuer:       enqueuer,
		log:            log,
	}
}

func (h *Handler) NewRouter(jwtKey []byte) *echo.Echo {
	e := echo.New()
	const (
		baseRPS = 10
		apiRPS  = 100
	)
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
		AllowCredentials: true,
	}))

	base := e.Group("", md.NewRateLimiter(baseRPS))
	base.GET("/manage/health", h.Health)

	e.Validator = validate.NewCustomValidator()
	api := e.Group("/api/v1",
		middleware.RequestLoggerWithConfig(md.RequestLoggerConfig()),
		middleware.RequestID(),
		md.NewRateLimiter(apiRPS),
	)

	api.POST("/auth/register", h.Register)
	api.POST("/auth/login", h.Login)

	api.GET("/books", h.ListBooks)
	api.GET("/books/:id", h.GetBook)

	authed := api.Group("", md.JwtAuthentication(jwtKey))
	authed.POST("/reservations", h.CreateReservation)
	authed.GET("/reservations", h.GetReservations)
	authed.GET("/profile", h.GetProfile)
	authed.PUT("/profile", h.UpdateProfile)

	admin := authed.Group("", md.RequireAdmin)
	admin.POST("/books", h.CreateBook)
	admin.PUT("/books/:id", h.UpdateBook)
	admin.DELETE("/books/:id", h.DeleteBook)
	admin.PATCH("/books/:id/availability", h.AdjustAvailability)
	admin.PUT("/reservations/:id/status", h.SetReservationStatus)
	admin.GET("/admin/reservations", h.ListAllReservations)
	admin.GET("/admin/stats", h.Stats)
	admin.GET("/admin/users", h.ListUsers)

	return e
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

// httpError maps the domain error taxonomy onto status codes; the body is
// always {"message": ...}.
func httpError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, errs.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, errs.ErrInvalidInput):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, errs.ErrUnavailable),
		errors.Is(err, errs.ErrDuplicateReservation),
		errors.Is(err, errs.ErrInvalidTransition),
		errors.Is(err, errs.ErrInvariantViolation):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, errs.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, errs.ErrInvalidCredentials):
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
