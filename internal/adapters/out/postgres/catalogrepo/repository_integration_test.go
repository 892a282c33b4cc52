package catalogrepo_test

import (
	"context"
	"testing"
	"time"

	"orderhub/internal/adapters/out/postgres/catalogrepo"
	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/pkg/errs"
	"orderhub/internal/pkg/pgtest"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type CatalogIntegrationTestSuite struct {
	suite.Suite
	pg      *pgtest.Database
	catalog *catalogrepo.GormCatalog
}

func (suite *CatalogIntegrationTestSuite) SetupSuite() {
	pg, err := pgtest.Start(context.Background(), &catalogrepo.StoreDTO{}, &catalogrepo.ProductDTO{})
	suite.Require().NoError(err)
	suite.pg = pg
}

func (suite *CatalogIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.pg.DB.Exec("TRUNCATE TABLE products, stores").Error)
	suite.catalog = catalogrepo.NewGormCatalog(suite.pg.DB)
}

func (suite *CatalogIntegrationTestSuite) TearDownSuite() {
	suite.Require().NoError(suite.pg.Terminate(context.Background()))
}

func (suite *CatalogIntegrationTestSuite) TestGetStore_Existing_MapsFields() {
	dto := catalogrepo.StoreDTO{
		ID:                       uuid.New(),
		OwnerID:                  uuid.New(),
		Name:                     "Baghdad Grill",
		AreaID:                   uuid.New(),
		DeliveryFee:              decimal.NewFromInt(5000),
		EstimatedDeliveryMinutes: 35,
		LocationLat:              lo.ToPtr(33.3152),
		LocationLon:              lo.ToPtr(44.3661),
		Active:                   true,
	}
	suite.Require().NoError(suite.pg.DB.Create(&dto).Error)

	store, err := suite.catalog.GetStore(context.Background(), kernel.MustUUID(dto.ID.String()))
	suite.Require().NoError(err)
	suite.Equal("Baghdad Grill", store.Name)
	suite.Equal(dto.OwnerID, store.OwnerID.Raw())
	suite.Equal(dto.AreaID, store.AreaID.Raw())
	suite.Equal("5000.00", store.DeliveryFee.String())
	suite.Equal(35*time.Minute, store.EstimatedDeliveryTime)
	suite.Require().NotNil(store.Location)
	suite.InDelta(44.3661, store.Location.Longitude(), 1e-9)
	suite.True(store.Active)
}

func (suite *CatalogIntegrationTestSuite) TestGetStore_Missing_ReturnsNotFound() {
	_, err := suite.catalog.GetStore(context.Background(), kernel.NewUUID())

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *CatalogIntegrationTestSuite) TestGetProducts_UnknownIDsOmitted() {
	storeID := uuid.New()
	products := []catalogrepo.ProductDTO{
		{ID: uuid.New(), StoreID: storeID, Name: "Tea", Price: decimal.NewFromInt(1000), Available: true},
		{ID: uuid.New(), StoreID: storeID, Name: "Kebab", Price: decimal.RequireFromString("7500.50"), Available: false},
	}
	suite.Require().NoError(suite.pg.DB.Create(&products).Error)

	tea := kernel.MustUUID(products[0].ID.String())
	kebab := kernel.MustUUID(products[1].ID.String())
	unknown := kernel.NewUUID()

	got, err := suite.catalog.GetProducts(context.Background(), []kernel.UUID{tea, kebab, unknown})
	suite.Require().NoError(err)
	suite.Require().Len(got, 2)
	suite.Equal("Tea", got[tea].Name)
	suite.True(got[tea].Available)
	suite.Equal("7500.50", got[kebab].Price.String())
	suite.False(got[kebab].Available)
	suite.NotContains(got, unknown)
}

func (suite *CatalogIntegrationTestSuite) TestGetProducts_NoIDs_ReturnsEmptyMap() {
	got, err := suite.catalog.GetProducts(context.Background(), nil)

	suite.Require().NoError(err)
	suite.Empty(got)
}

func TestCatalogIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(CatalogIntegrationTestSuite))
}
