package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/estatefolio/investor-dashboard/internal/api/request"
	"github.com/estatefolio/investor-dashboard/internal/apperrors"
	"github.com/estatefolio/investor-dashboard/internal/model"
	"github.com/estatefolio/investor-dashboard/internal/testutil"
)

func TestInvestorService(t *testing.T) {
	ctx := context.Background()

	t.Run("creates investors at the starter level", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestInvestorService(t, db)

		investor, err := svc.CreateInvestor(ctx, request.CreateInvestorRequest{
			Name:  " Alice ",
			Email: "Alice@Example.com",
		})
		require.NoError(t, err)

		assert.Equal(t, "Alice", investor.Name)
		assert.Equal(t, "alice@example.com", investor.Email)
		assert.Equal(t, model.LevelStarter, investor.Level)

		stored, err := svc.GetInvestor(ctx, investor.ID)
		require.NoError(t, err)
		assert.Equal(t, investor.Email, stored.Email)
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestInvestorService(t, db)
		existing := testutil.NewInvestor().Build(t, db)

		_, err := svc.CreateInvestor(ctx, request.CreateInvestorRequest{Name: "Copy", Email: existing.Email})
		assert.ErrorIs(t, err, apperrors.ErrDuplicateEntry)
	})

	t.Run("lists investors", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestInvestorService(t, db)
		testutil.NewInvestor().Build(t, db)
		testutil.NewInvestor().Build(t, db)

		investors, err := svc.GetInvestors(ctx)
		require.NoError(t, err)
		assert.Len(t, investors, 2)
	})

	t.Run("returns not found for unknown investor", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestInvestorService(t, db)

		_, err := svc.GetInvestor(ctx, testutil.MakeID())
		assert.ErrorIs(t, err, apperrors.ErrInvestorNotFound)
	})
}

func TestLocationService(t *testing.T) {
	ctx := context.Background()

	t.Run("creates and lists locations", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestLocationService(t, db)

		created, err := svc.CreateLocation(ctx, request.CreateLocationRequest{City: " Dubai ", Country: "United Arab Emirates"})
		require.NoError(t, err)
		assert.Equal(t, "Dubai", created.City)

		locations, err := svc.GetLocations(ctx)
		require.NoError(t, err)
		require.Len(t, locations, 1)
		assert.Equal(t, *created, locations[0])
	})

	t.Run("rejects duplicate city and country", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestLocationService(t, db)
		testutil.NewLocation().WithCity("Rome").InCountry("Italy").Build(t, db)

		_, err := svc.CreateLocation(ctx, request.CreateLocationRequest{City: "Rome", Country: "Italy"})
		assert.ErrorIs(t, err, apperrors.ErrDuplicateEntry)
	})
}
