package cmd

import (
	"log/slog"
	"time"

	freighthttp "freight/internal/adapters/in/http"
	"freight/internal/adapters/out/postgres"
	"freight/internal/core/application/session"
	"freight/internal/core/application/usecases/commands"
	"freight/internal/core/application/usecases/queries"
	"freight/internal/core/domain/services"
	"freight/internal/core/ports"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	policy     services.CapacityPolicy
	logger     *slog.Logger
}

// NewCompositionRoot wires the use cases. Committed changes are announced
// through publisher.
func NewCompositionRoot(
	cfg Config,
	gormDB *gorm.DB,
	publisher ports.ChangePublisher,
	logger *slog.Logger,
) (CompositionRoot, error) {
	policy, err := cfg.CapacityPolicy()
	if err != nil {
		return CompositionRoot{}, err
	}
	return CompositionRoot{
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB, publisher, logger),
		policy:     policy,
		logger:     logger,
	}, nil
}

func (c *CompositionRoot) CreateCreateCargoCommandHandler() commands.CreateCargoCommandHandler {
	var f commands.CargoUoWFactory = FuncCargoUoWFactory(func() commands.CargoUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateCargoCommandHandler(f)
}

func (c *CompositionRoot) CreateRegisterDriverCommandHandler() commands.RegisterDriverCommandHandler {
	var f commands.DriverUoWFactory = FuncDriverUoWFactory(func() commands.DriverUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRegisterDriverCommandHandler(f)
}

func (c *CompositionRoot) CreateChangeDriverStatusCommandHandler() commands.ChangeDriverStatusCommandHandler {
	var f commands.DriverUoWFactory = FuncDriverUoWFactory(func() commands.DriverUoW {
		return c.uowFactory.Create()
	})
	return commands.NewChangeDriverStatusCommandHandler(f)
}

func (c *CompositionRoot) CreateAcceptCargoCommandHandler() commands.AcceptCargoCommandHandler {
	return commands.NewAcceptCargoCommandHandler(c.lifecycleUoWFactory(), c.policy)
}

func (c *CompositionRoot) CreateStartDeliveryCommandHandler() commands.StartDeliveryCommandHandler {
	return commands.NewStartDeliveryCommandHandler(c.lifecycleUoWFactory())
}

func (c *CompositionRoot) CreateCompleteDeliveryCommandHandler() commands.CompleteDeliveryCommandHandler {
	return commands.NewCompleteDeliveryCommandHandler(c.lifecycleUoWFactory(), time.Now)
}

func (c *CompositionRoot) CreateGetDriverProfileQueryHandler() queries.GetDriverProfileQueryHandler {
	return queries.NewGetDriverProfileQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetActiveDeliveryQueryHandler() queries.GetActiveDeliveryQueryHandler {
	return queries.NewGetActiveDeliveryQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetVisibleCargosQueryHandler() queries.GetVisibleCargosQueryHandler {
	return queries.NewGetVisibleCargosQueryHandler(c.gormDB, c.policy)
}

func (c *CompositionRoot) CreateGetDeliveryHistoryQueryHandler() queries.GetDeliveryHistoryQueryHandler {
	return queries.NewGetDeliveryHistoryQueryHandler(c.gormDB)
}

// CreateSessionRegistry builds the per-driver session registry on top of the
// query and command handlers.
func (c *CompositionRoot) CreateSessionRegistry() *session.Registry {
	reader := session.QueryReader{
		Profile: c.CreateGetDriverProfileQueryHandler(),
		Active:  c.CreateGetActiveDeliveryQueryHandler(),
		Visible: c.CreateGetVisibleCargosQueryHandler(),
	}
	dispatcher := session.CommandDispatcher{
		Accept:   c.CreateAcceptCargoCommandHandler(),
		Start:    c.CreateStartDeliveryCommandHandler(),
		Complete: c.CreateCompleteDeliveryCommandHandler(),
		Status:   c.CreateChangeDriverStatusCommandHandler(),
	}
	return session.NewRegistry(reader, dispatcher, c.logger)
}

// CreateHTTPServer builds the HTTP adapter. Websocket sessions follow feed.
func (c *CompositionRoot) CreateHTTPServer(sessions *session.Registry, feed ports.ChangeFeed) *freighthttp.Server {
	return freighthttp.NewServer(
		sessions,
		c.CreateCreateCargoCommandHandler(),
		c.CreateRegisterDriverCommandHandler(),
		c.CreateGetDeliveryHistoryQueryHandler(),
		feed,
		c.logger,
	)
}

func (c *CompositionRoot) lifecycleUoWFactory() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

type FuncCargoUoWFactory func() commands.CargoUoW

func (f FuncCargoUoWFactory) Create() commands.CargoUoW {
	return f()
}

type FuncDriverUoWFactory func() commands.DriverUoW

func (f FuncDriverUoWFactory) Create() commands.DriverUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
