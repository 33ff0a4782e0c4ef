// Package http exposes driver sessions over REST and a websocket. Every
// route under /api/v1 acts as the driver named by the JWT subject.
package http

import (
	"context"
	"log/slog"
	"net/http"

	_ "freight/docs"
	"freight/internal/core/application/session"
	"freight/internal/core/application/usecases/commands"
	"freight/internal/core/application/usecases/queries"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/ports"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
)

type (
	Sessions interface {
		Get(driverID kernel.UUID) (*session.Session, error)
		Hold(driverID kernel.UUID) (*session.Session, func(), error)
	}

	CargoCreator interface {
		Handle(ctx context.Context, cmd commands.CreateCargoCommand) error
	}

	DriverRegistrar interface {
		Handle(ctx context.Context, cmd commands.RegisterDriverCommand) error
	}

	HistoryReader interface {
		Handle(ctx context.Context, query queries.GetDeliveryHistoryQuery) ([]queries.CargoReadModel, error)
	}
)

// Server holds the use cases behind the HTTP routes.
type Server struct {
	sessions       Sessions
	createCargo    CargoCreator
	registerDriver DriverRegistrar
	history        HistoryReader
	feed           ports.ChangeFeed

	validate *validator.Validate
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

func NewServer(
	sessions Sessions,
	createCargo CargoCreator,
	registerDriver DriverRegistrar,
	history HistoryReader,
	feed ports.ChangeFeed,
	logger *slog.Logger,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		sessions:       sessions,
		createCargo:    createCargo,
		registerDriver: registerDriver,
		history:        history,
		feed:           feed,
		validate:       validator.New(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		logger: logger.With("component", "http"),
	}
}

// Register mounts the routes on e. The API description is served under
// /swagger without a token.
func (s *Server) Register(e *echo.Echo, jwtSecret []byte) {
	e.GET("/health", s.Health)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api/v1", JWTMiddleware(jwtSecret), driverIdentity)

	api.POST("/drivers/me", s.RegisterDriver)
	api.GET("/drivers/me", s.GetProfile)
	api.PUT("/drivers/me/status", s.ChangeStatus)

	api.POST("/cargos", s.CreateCargo)
	api.GET("/cargos/visible", s.GetVisibleCargos)
	api.POST("/cargos/:id/accept", s.AcceptCargo)
	api.POST("/cargos/:id/reject", s.RejectCargo)

	api.GET("/deliveries/active", s.GetActiveDelivery)
	api.GET("/deliveries/history", s.GetDeliveryHistory)
	api.POST("/deliveries/start", s.StartDelivery)
	api.POST("/deliveries/complete", s.CompleteDelivery)

	api.GET("/ws", s.Stream)
}

func (s *Server) Health(c echo.Context) error {
	return c.String(http.StatusOK, "Healthy")
}

func (s *Server) session(c echo.Context) (*session.Session, error) {
	return s.sessions.Get(currentDriver(c))
}

// bind decodes and validates the request body into req.
func (s *Server) bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := s.validate.Struct(req); err != nil {
		return badRequest(c, "Validation failed: "+err.Error())
	}
	return nil
}

func cargoIDParam(c echo.Context) (kernel.UUID, error) {
	return kernel.UUIDFromString(c.Param("id"))
}
