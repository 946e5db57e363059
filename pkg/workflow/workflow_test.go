package workflow

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/JohnnyBoy2234/swiftrent-sub001/pkg/database"
	"github.com/JohnnyBoy2234/swiftrent-sub001/pkg/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fixture struct {
	store    *database.MemoryStore
	landlord *models.User
	tenant   *models.User
	property *models.Property
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := database.NewMemoryStore()

	landlord := &models.User{Email: "landlord@example.com", Name: "Lena", Role: models.RoleLandlord}
	require.NoError(t, store.CreateUser(landlord))

	tenant := &models.User{Email: "tenant@example.com", Name: "Tom", Role: models.RoleTenant}
	require.NoError(t, store.CreateUser(tenant))

	property := &models.Property{
		LandlordID:  landlord.ID,
		Title:       "Two-bed flat",
		Address:     "12 Harbour Lane",
		MonthlyRent: 145000,
	}
	require.NoError(t, store.CreateProperty(property))

	return &fixture{store: store, landlord: landlord, tenant: tenant, property: property}
}

func (f *fixture) newTenant(t *testing.T, email string) *models.User {
	t.Helper()
	u := &models.User{Email: email, Role: models.RoleTenant}
	require.NoError(t, f.store.CreateUser(u))
	return u
}

func (f *fixture) newSlot(t *testing.T, start time.Time) *models.ViewingSlot {
	t.Helper()
	slot := &models.ViewingSlot{
		PropertyID: f.property.ID,
		LandlordID: f.landlord.ID,
		StartTime:  start,
		EndTime:    start.Add(30 * time.Minute),
		Status:     models.SlotAvailable,
	}
	require.NoError(t, f.store.CreateSlot(slot))
	return slot
}
