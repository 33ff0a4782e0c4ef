package driverrepo_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"freight/internal/adapters/out/postgres/cargorepo"
	"freight/internal/adapters/out/postgres/driverrepo"
	"freight/internal/core/domain/model/cargo"
	"freight/internal/core/domain/model/driver"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"
	"freight/internal/pkg/testdb"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate any) {
	m.Called(id, aggregate)
}

type DriverRepositoryIntegrationTestSuite struct {
	suite.Suite
	db         *testdb.Database
	repository *driverrepo.GormDriverRepository
	tracker    *MockAggregateTracker
}

func (suite *DriverRepositoryIntegrationTestSuite) SetupSuite() {
	db, err := testdb.Start(context.Background())
	suite.Require().NoError(err)
	suite.db = db
}

func (suite *DriverRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Truncate())

	suite.tracker = new(MockAggregateTracker)
	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything).Maybe()
	suite.repository = driverrepo.NewGormDriverRepository(suite.db.Gorm, suite.tracker)
}

func (suite *DriverRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.db != nil {
		suite.Require().NoError(suite.db.Close(context.Background()))
	}
}

func (suite *DriverRepositoryIntegrationTestSuite) TestAdd_ThenGet_RoundTrips() {
	ctx := context.Background()
	d := suite.newDriver()

	suite.Require().NoError(suite.repository.Add(ctx, d))

	got, err := suite.repository.Get(ctx, d.ID())
	suite.Require().NoError(err)
	suite.Equal(d.ID(), got.ID())
	suite.Equal(d.Profile(), got.Profile())
	suite.Equal(kernel.Weight(5), got.Capacity())
	suite.Equal(driver.Available, got.Status())
	suite.Equal(driver.Totals{}, got.Totals())
	suite.tracker.AssertCalled(suite.T(), "TrackAggregate", d.ID(), d)
}

func (suite *DriverRepositoryIntegrationTestSuite) TestAdd_TwiceReturnsConflict() {
	ctx := context.Background()
	d := suite.newDriver()
	suite.Require().NoError(suite.repository.Add(ctx, d))

	suite.Require().ErrorIs(suite.repository.Add(ctx, d), errs.ErrConflict)
}

func (suite *DriverRepositoryIntegrationTestSuite) TestGetForUpdate_Missing_ReturnsNotFound() {
	_, err := suite.repository.GetForUpdate(context.Background(), kernel.NewUUID())

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *DriverRepositoryIntegrationTestSuite) TestUpdate_WritesStatusButNeverTotals() {
	ctx := context.Background()
	d := suite.newDriver()
	suite.Require().NoError(suite.repository.Add(ctx, d))
	suite.Require().NoError(suite.db.Gorm.Exec(
		"UPDATE drivers SET total_deliveries = 3, total_earnings = 540000 WHERE id = ?", d.ID().Bytes()).Error)

	suite.Require().NoError(d.ChangeStatus(driver.Offline))
	suite.Require().NoError(suite.repository.Update(ctx, d))

	got, err := suite.repository.Get(ctx, d.ID())
	suite.Require().NoError(err)
	suite.Equal(driver.Offline, got.Status())
	suite.Equal(driver.Totals{Deliveries: 3, Earnings: 540000}, got.Totals())
}

func (suite *DriverRepositoryIntegrationTestSuite) TestUpdate_Missing_ReturnsNotFound() {
	err := suite.repository.Update(context.Background(), suite.newDriver())

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *DriverRepositoryIntegrationTestSuite) TestRecordDelivery_CountsEachCargoOnce() {
	ctx := context.Background()
	d := suite.newDriver()
	suite.Require().NoError(suite.repository.Add(ctx, d))
	c := suite.addClaimedCargo(d.ID(), 180000)

	applied, err := suite.repository.RecordDelivery(ctx, d.ID(), c.ID(), c.Fare())
	suite.Require().NoError(err)
	suite.True(applied)

	applied, err = suite.repository.RecordDelivery(ctx, d.ID(), c.ID(), c.Fare())
	suite.Require().NoError(err)
	suite.False(applied)

	got, err := suite.repository.Get(ctx, d.ID())
	suite.Require().NoError(err)
	suite.Equal(driver.Totals{Deliveries: 1, Earnings: 180000}, got.Totals())
}

func (suite *DriverRepositoryIntegrationTestSuite) TestRecordDelivery_ConcurrentDuplicatesCountOnce() {
	const attempts = 8
	ctx := context.Background()
	d := suite.newDriver()
	suite.Require().NoError(suite.repository.Add(ctx, d))
	c := suite.addClaimedCargo(d.ID(), 50000)

	var wg sync.WaitGroup
	for range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := suite.db.Gorm.Transaction(func(tx *gorm.DB) error {
				repo := driverrepo.NewGormDriverRepository(tx, suite.tracker)
				_, err := repo.RecordDelivery(ctx, d.ID(), c.ID(), c.Fare())
				return err
			})
			if err != nil {
				suite.T().Errorf("record delivery: %v", err)
			}
		}()
	}
	wg.Wait()

	got, err := suite.repository.Get(ctx, d.ID())
	suite.Require().NoError(err)
	suite.Equal(driver.Totals{Deliveries: 1, Earnings: 50000}, got.Totals())
}

func (suite *DriverRepositoryIntegrationTestSuite) TestGetForUpdate_SerializesTransactions() {
	ctx := context.Background()
	d := suite.newDriver()
	suite.Require().NoError(suite.repository.Add(ctx, d))

	locked := make(chan struct{})
	release := make(chan struct{})
	done := make(chan time.Time, 1)

	go func() {
		_ = suite.db.Gorm.Transaction(func(tx *gorm.DB) error {
			repo := driverrepo.NewGormDriverRepository(tx, suite.tracker)
			if _, err := repo.GetForUpdate(ctx, d.ID()); err != nil {
				return err
			}
			close(locked)
			<-release
			return nil
		})
	}()

	<-locked
	go func() {
		_ = suite.db.Gorm.Transaction(func(tx *gorm.DB) error {
			repo := driverrepo.NewGormDriverRepository(tx, suite.tracker)
			_, err := repo.GetForUpdate(ctx, d.ID())
			done <- time.Now()
			return err
		})
	}()

	time.Sleep(200 * time.Millisecond)
	released := time.Now()
	close(release)

	select {
	case acquired := <-done:
		suite.False(acquired.Before(released), "second lock acquired while the first was held")
	case <-time.After(10 * time.Second):
		suite.Fail("second transaction never acquired the lock")
	}
}

func (suite *DriverRepositoryIntegrationTestSuite) newDriver() *driver.Driver {
	d, err := driver.NewDriver(kernel.NewUUID(), driver.Profile{
		Name:          "Choi",
		Phone:         "010-9999-8888",
		VehicleType:   "5t wing body",
		VehicleNumber: "78라1234",
	}, 5)
	suite.Require().NoError(err)
	return d
}

func (suite *DriverRepositoryIntegrationTestSuite) addClaimedCargo(driverID kernel.UUID, fare int64) *cargo.Cargo {
	ctx := context.Background()
	c, err := cargo.NewCargo(kernel.NewUUID(), cargo.Details{
		Number:      "CG100",
		Weight:      5,
		Origin:      "Gwangju",
		Destination: "Daejeon",
		Urgency:     cargo.Normal,
		Fare:        kernel.Money(fare),
		PickupAt:    time.Now(),
	})
	suite.Require().NoError(err)

	repo := cargorepo.NewGormCargoRepository(suite.db.Gorm, suite.tracker)
	suite.Require().NoError(repo.Add(ctx, c))
	ok, err := repo.Claim(ctx, c.ID(), driverID)
	suite.Require().NoError(err)
	suite.Require().True(ok)
	return c
}

func TestDriverRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(DriverRepositoryIntegrationTestSuite))
}
