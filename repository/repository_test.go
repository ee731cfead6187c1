package repository_test

import (
	"errors"
	"testing"
	"time"

	"github.com/amirphl/pastane-b2b/models"
	"github.com/amirphl/pastane-b2b/repository"
	testingutil "github.com/amirphl/pastane-b2b/testing"
	"github.com/amirphl/pastane-b2b/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withDB(t *testing.T, fn func(*testingutil.TestDB) error) {
	t.Helper()
	err := testingutil.TestWithDB(fn)
	if errors.Is(err, testingutil.ErrTestDBUnavailable) {
		t.Skipf("skipping: %v", err)
	}
	require.NoError(t, err)
}

func TestFirmRepository(t *testing.T) {
	withDB(t, func(testDB *testingutil.TestDB) error {
		repo := repository.NewFirmRepository(testDB.DB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		profile, err := fixtures.CreateTestProfile("Gold", "-5")
		require.NoError(t, err)
		firm, err := fixtures.CreateTestFirm(models.ChannelSubDealer, &profile.ID)
		require.NoError(t, err)

		t.Run("ByIDWithProfile", func(t *testing.T) {
			got, err := repo.ByIDWithProfile(ctx, firm.ID)
			require.NoError(t, err)
			require.NotNil(t, got)
			require.NotNil(t, got.Profile)
			assert.Equal(t, "Gold", got.Profile.Name)
			assert.True(t, got.Profile.GeneralDiscountPercent.Equal(decimal.NewFromInt(-5)))
		})

		t.Run("ByIDNotFound", func(t *testing.T) {
			got, err := repo.ByIDWithProfile(ctx, 999999)
			assert.NoError(t, err)
			assert.Nil(t, got)
		})

		t.Run("AssignProfile", func(t *testing.T) {
			require.NoError(t, repo.AssignProfile(ctx, firm.ID, nil))
			got, err := repo.ByIDWithProfile(ctx, firm.ID)
			require.NoError(t, err)
			assert.Nil(t, got.ProfileID)
			assert.Nil(t, got.Profile)
		})

		t.Run("ByUUID", func(t *testing.T) {
			got, err := repo.ByUUID(ctx, firm.UUID)
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, firm.ID, got.ID)
			assert.Equal(t, models.ChannelSubDealer, got.Type)
		})

		return nil
	})
}

func TestProductRepository(t *testing.T) {
	withDB(t, func(testDB *testingutil.TestDB) error {
		repo := repository.NewProductRepository(testDB.DB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		category, err := fixtures.CreateTestCategory("Pastalar")
		require.NoError(t, err)
		active, err := fixtures.CreateTestProduct(category.ID, "Yaş Pasta", utils.ToPtr("120.00"), nil)
		require.NoError(t, err)
		inactive, err := fixtures.CreateTestProduct(category.ID, "Kurabiye", utils.ToPtr("40.00"), utils.ToPtr("35.00"))
		require.NoError(t, err)
		require.NoError(t, testDB.DB.Model(inactive).Update("aktif", false).Error)

		t.Run("ListPricePerChannel", func(t *testing.T) {
			got, err := repo.ByID(ctx, active.ID)
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.True(t, got.ListPrice(models.ChannelCustomer).Valid)
			assert.True(t, got.ListPrice(models.ChannelCustomer).Decimal.Equal(decimal.NewFromInt(120)))
			assert.False(t, got.ListPrice(models.ChannelSubDealer).Valid)
			assert.Equal(t, "Yaş Pasta", got.Name[utils.LocaleTurkish])
		})

		t.Run("ListActive", func(t *testing.T) {
			products, err := repo.ListActive(ctx)
			require.NoError(t, err)
			require.Len(t, products, 1)
			assert.Equal(t, active.ID, products[0].ID)
		})

		t.Run("ByIDs", func(t *testing.T) {
			products, err := repo.ByIDs(ctx, []uint{active.ID, inactive.ID, 999999})
			require.NoError(t, err)
			assert.Len(t, products, 2)
			assert.Contains(t, products, active.ID)
		})

		return nil
	})
}

func TestPricingRuleRepository(t *testing.T) {
	withDB(t, func(testDB *testingutil.TestDB) error {
		repo := repository.NewPricingRuleRepository(testDB.DB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		firm, err := fixtures.CreateTestFirm(models.ChannelCustomer, nil)
		require.NoError(t, err)
		other, err := fixtures.CreateTestFirm(models.ChannelCustomer, nil)
		require.NoError(t, err)

		_, err = fixtures.CreateTestRule(models.ChannelCustomer, "5", 1, nil)
		require.NoError(t, err)
		_, err = fixtures.CreateTestRule(models.ChannelCustomer, "-10", 3, &firm.ID)
		require.NoError(t, err)
		_, err = fixtures.CreateTestRule(models.ChannelCustomer, "-20", 9, &other.ID)
		require.NoError(t, err)
		_, err = fixtures.CreateTestRule(models.ChannelSubDealer, "7", 5, nil)
		require.NoError(t, err)

		t.Run("ListCandidates", func(t *testing.T) {
			rules, err := repo.ListCandidates(ctx, models.ChannelCustomer, firm.ID)
			require.NoError(t, err)
			require.Len(t, rules, 2)
			for _, r := range rules {
				assert.Equal(t, models.ChannelCustomer, r.Channel)
				if r.FirmID != nil {
					assert.Equal(t, firm.ID, *r.FirmID)
				}
			}
		})

		t.Run("ScopeConstraint", func(t *testing.T) {
			bad := &models.PricingRule{
				UUID:       uuid.New(),
				Name:       "broken",
				Scope:      models.RuleScopeProduct,
				Channel:    models.ChannelCustomer,
				Percentage: decimal.NewFromInt(1),
			}
			assert.Error(t, repo.Save(ctx, bad))
		})

		return nil
	})
}

func TestPriceOverrideRepository(t *testing.T) {
	withDB(t, func(testDB *testingutil.TestDB) error {
		repo := repository.NewPriceOverrideRepository(testDB.DB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		category, err := fixtures.CreateTestCategory("Börekler")
		require.NoError(t, err)
		product, err := fixtures.CreateTestProduct(category.ID, "Su Böreği", utils.ToPtr("80.00"), utils.ToPtr("70.00"))
		require.NoError(t, err)
		firm, err := fixtures.CreateTestFirm(models.ChannelSubDealer, nil)
		require.NoError(t, err)

		start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
		older, err := fixtures.CreateTestOverride(product.ID, firm.ID, models.ChannelSubDealer, "60.00", &start, &end)
		require.NoError(t, err)
		newer, err := fixtures.CreateTestOverride(product.ID, firm.ID, models.ChannelSubDealer, "55.00", nil, nil)
		require.NoError(t, err)
		_, err = fixtures.CreateTestOverride(product.ID, firm.ID, models.ChannelCustomer, "50.00", nil, nil)
		require.NoError(t, err)

		t.Run("ListCandidatesNewestFirst", func(t *testing.T) {
			rows, err := repo.ListCandidates(ctx, product.ID, firm.ID, models.ChannelSubDealer)
			require.NoError(t, err)
			require.Len(t, rows, 2)
			assert.Equal(t, newer.ID, rows[0].ID)
			assert.Equal(t, older.ID, rows[1].ID)
		})

		t.Run("ByUUID", func(t *testing.T) {
			got, err := repo.ByUUID(ctx, older.UUID)
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.True(t, got.NetPrice.Equal(decimal.RequireFromString("60")))
			require.NotNil(t, got.StartDate)
			assert.Equal(t, "2024-01-01", got.StartDate.Format(time.DateOnly))
		})

		return nil
	})
}

func TestOrderRepository(t *testing.T) {
	withDB(t, func(testDB *testingutil.TestDB) error {
		repo := repository.NewOrderRepository(testDB.DB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		category, err := fixtures.CreateTestCategory("Ekmekler")
		require.NoError(t, err)
		product, err := fixtures.CreateTestProduct(category.ID, "Simit", utils.ToPtr("10.00"), nil)
		require.NoError(t, err)
		firm, err := fixtures.CreateTestFirm(models.ChannelCustomer, nil)
		require.NoError(t, err)

		order := &models.Order{
			UUID:       uuid.New(),
			FirmID:     firm.ID,
			Channel:    models.ChannelCustomer,
			OrderDate:  time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			Status:     models.OrderStatusPending,
			NetTotal:   decimal.RequireFromString("18.90"),
			VATRate:    decimal.NewFromInt(7),
			VATTotal:   decimal.RequireFromString("1.32"),
			GrossTotal: decimal.RequireFromString("20.22"),
			Lines: []models.OrderLine{{
				ProductID:   product.ID,
				Quantity:    2,
				UnitPrice:   decimal.RequireFromString("9.45"),
				LineTotal:   decimal.RequireFromString("18.90"),
				PriceSource: models.PriceSourceComputed,
			}},
		}
		require.NoError(t, repo.Save(ctx, order))
		require.NotZero(t, order.ID)

		t.Run("ByUUIDLoadsLines", func(t *testing.T) {
			got, err := repo.ByUUID(ctx, order.UUID)
			require.NoError(t, err)
			require.NotNil(t, got)
			require.Len(t, got.Lines, 1)
			assert.True(t, got.Lines[0].UnitPrice.Equal(decimal.RequireFromString("9.45")))
			assert.True(t, got.GrossTotal.Equal(decimal.RequireFromString("20.22")))
		})

		t.Run("UpdateStatusKeepsTotals", func(t *testing.T) {
			require.NoError(t, repo.UpdateStatus(ctx, order.ID, models.OrderStatusProcessing, utils.UTCNow()))
			got, err := repo.ByUUID(ctx, order.UUID)
			require.NoError(t, err)
			assert.Equal(t, models.OrderStatusProcessing, got.Status)
			assert.True(t, got.NetTotal.Equal(decimal.RequireFromString("18.90")))
		})

		t.Run("LinePricesImmutable", func(t *testing.T) {
			err := testDB.DB.Exec("UPDATE siparis_detay SET o_anki_satis_fiyati = 1 WHERE siparis_id = ?", order.ID).Error
			assert.Error(t, err)
		})

		t.Run("QuoteIDIsUnique", func(t *testing.T) {
			quoted := func() *models.Order {
				return &models.Order{
					UUID:       uuid.New(),
					FirmID:     firm.ID,
					Channel:    models.ChannelCustomer,
					OrderDate:  time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
					Status:     models.OrderStatusPending,
					NetTotal:   decimal.RequireFromString("9.45"),
					VATRate:    decimal.NewFromInt(7),
					VATTotal:   decimal.RequireFromString("0.66"),
					GrossTotal: decimal.RequireFromString("10.11"),
					QuoteID:    utils.ToPtr("3f2a9c1d0b7e4a56"),
				}
			}
			require.NoError(t, repo.Save(ctx, quoted()))

			used, err := repo.Exists(ctx, models.OrderFilter{QuoteID: utils.ToPtr("3f2a9c1d0b7e4a56")})
			require.NoError(t, err)
			assert.True(t, used)

			assert.Error(t, repo.Save(ctx, quoted()))
		})

		t.Run("UnknownUUID", func(t *testing.T) {
			got, err := repo.ByUUID(ctx, uuid.New())
			assert.NoError(t, err)
			assert.Nil(t, got)
		})

		return nil
	})
}
