package postgres_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	postgres_adapter "freight/internal/adapters/out/postgres"
	"freight/internal/core/application/usecases/commands"
	"freight/internal/core/domain/model/cargo"
	"freight/internal/core/domain/model/driver"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/services"
	"freight/internal/core/ports"
	"freight/internal/pkg/errs"
	"freight/internal/pkg/testdb"

	"github.com/stretchr/testify/suite"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []ports.ChangeEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, events ...ports.ChangeEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return p.err
}

func (p *recordingPublisher) published() []ports.ChangeEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]ports.ChangeEvent(nil), p.events...)
}

type uowFactory func() commands.UoW

func (f uowFactory) Create() commands.UoW { return f() }

type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	db        *testdb.Database
	publisher *recordingPublisher
	factory   *postgres_adapter.GormUnitOfWorkFactory
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	db, err := testdb.Start(context.Background())
	suite.Require().NoError(err)
	suite.db = db
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Truncate())
	suite.publisher = &recordingPublisher{}
	suite.factory = postgres_adapter.NewGormUnitOfWorkFactory(suite.db.Gorm, suite.publisher, nil)
}

func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.db != nil {
		suite.Require().NoError(suite.db.Close(context.Background()))
	}
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCommit_PersistsAndPublishesEachAggregateOnce() {
	ctx := context.Background()
	d := suite.newDriver(5)
	c := suite.newCargo(5)

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.DriverRepository().Add(ctx, d))
	suite.Require().NoError(uow.CargoRepository().Add(ctx, c))
	ok, err := uow.CargoRepository().Claim(ctx, c.ID(), d.ID())
	suite.Require().NoError(err)
	suite.Require().True(ok)
	suite.Require().NoError(uow.Commit(ctx))

	suite.ElementsMatch([]ports.ChangeEvent{
		{Kind: ports.DriverChanged, EntityID: d.ID()},
		{Kind: ports.PoolChanged, EntityID: c.ID()},
	}, suite.publisher.published())

	stored, err := suite.factory.Create().CargoRepository().Get(ctx, c.ID())
	suite.Require().NoError(err)
	suite.Equal(cargo.Assigned, stored.Status())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestRollback_DiscardsChangesAndPublishesNothing() {
	ctx := context.Background()
	d := suite.newDriver(5)

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.DriverRepository().Add(ctx, d))
	suite.Require().NoError(uow.Rollback(ctx))

	_, err := suite.factory.Create().DriverRepository().Get(ctx, d.ID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
	suite.Empty(suite.publisher.published())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestRollbackAfterCommit_IsNoOp() {
	ctx := context.Background()

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.DriverRepository().Add(ctx, suite.newDriver(5)))
	suite.Require().NoError(uow.Commit(ctx))

	suite.Require().NoError(uow.Rollback(ctx))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCommitWithoutBegin_Fails() {
	suite.Require().Error(suite.factory.Create().Commit(context.Background()))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCommit_PublishFailureDoesNotFailCommit() {
	ctx := context.Background()
	suite.publisher.err = errors.New("broker down")
	d := suite.newDriver(5)

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.DriverRepository().Add(ctx, d))
	suite.Require().NoError(uow.Commit(ctx))

	_, err := suite.factory.Create().DriverRepository().Get(ctx, d.ID())
	suite.Require().NoError(err)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestAcceptCargo_ConcurrentDriversExactlyOneWins() {
	const drivers = 10
	ctx := context.Background()
	c := suite.newCargo(3)
	suite.addCargo(c)

	policy, err := services.NewCapacityPolicy(0, 5)
	suite.Require().NoError(err)
	handler := commands.NewAcceptCargoCommandHandler(uowFactory(func() commands.UoW {
		return suite.factory.Create()
	}), policy)

	ids := make([]kernel.UUID, drivers)
	for i := range ids {
		d := suite.newDriver(5)
		suite.addDriver(d)
		ids[i] = d.ID()
	}

	var (
		wg        sync.WaitGroup
		winners   atomic.Int32
		conflicts atomic.Int32
		start     = make(chan struct{})
	)
	for _, id := range ids {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cmd, err := commands.NewAcceptCargoCommand(id, c.ID())
			if err != nil {
				suite.T().Errorf("command: %v", err)
				return
			}
			<-start
			switch err := handler.Handle(ctx, cmd); {
			case err == nil:
				winners.Add(1)
			case errors.Is(err, errs.ErrConflict):
				conflicts.Add(1)
			default:
				suite.T().Errorf("unexpected error: %v", err)
			}
		}()
	}
	close(start)
	wg.Wait()

	suite.Equal(int32(1), winners.Load())
	suite.Equal(int32(drivers-1), conflicts.Load())

	stored, err := suite.factory.Create().CargoRepository().Get(ctx, c.ID())
	suite.Require().NoError(err)
	suite.Equal(cargo.Assigned, stored.Status())

	busy := 0
	for _, id := range ids {
		d, err := suite.factory.Create().DriverRepository().Get(ctx, id)
		suite.Require().NoError(err)
		if d.Status() == driver.Busy {
			busy++
			suite.True(stored.IsAssignedTo(id))
			suite.Equal(c.ID(), *d.ActiveDelivery())
		}
	}
	suite.Equal(1, busy)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestDeliveryLifecycle_ThroughHandlers() {
	ctx := context.Background()
	d := suite.newDriver(5)
	suite.addDriver(d)
	c := suite.newCargo(5)
	suite.addCargo(c)

	f := uowFactory(func() commands.UoW { return suite.factory.Create() })
	accept := commands.NewAcceptCargoCommandHandler(f, services.DefaultCapacityPolicy())
	start := commands.NewStartDeliveryCommandHandler(f)
	complete := commands.NewCompleteDeliveryCommandHandler(f, nil)

	acceptCmd, err := commands.NewAcceptCargoCommand(d.ID(), c.ID())
	suite.Require().NoError(err)
	suite.Require().NoError(accept.Handle(ctx, acceptCmd))

	startCmd, err := commands.NewStartDeliveryCommand(d.ID())
	suite.Require().NoError(err)
	suite.Require().NoError(start.Handle(ctx, startCmd))

	key := c.ID()
	completeCmd, err := commands.NewCompleteDeliveryCommand(d.ID(), &key)
	suite.Require().NoError(err)
	suite.Require().NoError(complete.Handle(ctx, completeCmd))
	// retried with the same key after success
	suite.Require().NoError(complete.Handle(ctx, completeCmd))

	got, err := suite.factory.Create().DriverRepository().Get(ctx, d.ID())
	suite.Require().NoError(err)
	suite.Equal(driver.Available, got.Status())
	suite.Nil(got.ActiveDelivery())
	suite.Equal(driver.Totals{Deliveries: 1, Earnings: 180000}, got.Totals())

	stored, err := suite.factory.Create().CargoRepository().Get(ctx, c.ID())
	suite.Require().NoError(err)
	suite.Equal(cargo.Completed, stored.Status())
	suite.NotNil(stored.DeliveredAt())
}

func (suite *UnitOfWorkIntegrationTestSuite) newDriver(capacity kernel.Weight) *driver.Driver {
	d, err := driver.NewDriver(kernel.NewUUID(), driver.Profile{
		Name:          "Kim",
		Phone:         "010-1234-5678",
		VehicleType:   "cargo truck",
		VehicleNumber: "12가3456",
	}, capacity)
	suite.Require().NoError(err)
	return d
}

func (suite *UnitOfWorkIntegrationTestSuite) newCargo(weight kernel.Weight) *cargo.Cargo {
	c, err := cargo.NewCargo(kernel.NewUUID(), cargo.Details{
		Number:      "CG001",
		Type:        "general",
		Weight:      weight,
		Origin:      "Seoul Gangnam-gu",
		Destination: "Busan Haeundae-gu",
		Urgency:     cargo.Urgent,
		Fare:        180000,
		PickupAt:    time.Now().Add(time.Hour),
	})
	suite.Require().NoError(err)
	return c
}

func (suite *UnitOfWorkIntegrationTestSuite) addDriver(d *driver.Driver) {
	ctx := context.Background()
	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.DriverRepository().Add(ctx, d))
	suite.Require().NoError(uow.Commit(ctx))
}

func (suite *UnitOfWorkIntegrationTestSuite) addCargo(c *cargo.Cargo) {
	ctx := context.Background()
	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.CargoRepository().Add(ctx, c))
	suite.Require().NoError(uow.Commit(ctx))
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
