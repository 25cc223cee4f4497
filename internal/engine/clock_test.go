package engine

import (
	"testing"
	"time"

	"github.com/piwi3910/CargoStow/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulateDays_InvalidCount(t *testing.T) {
	e := testEngine(t)

	_, err := e.SimulateDays(0, nil)
	assert.ErrorIs(t, err, ErrInvalidDayCount)

	_, err = e.SimulateDays(-3, nil)
	assert.ErrorIs(t, err, ErrInvalidDayCount)
}

func TestSimulateDays_AdvancesDateAndExpires(t *testing.T) {
	// Current date 2025-04-18; expiry 2025-04-20. Two days land exactly on
	// the expiry date, which counts as expired.
	e := testEngine(t)
	item := addItem(t, e, "rations", 1, 1, 1, 50)
	exp := time.Date(2025, 4, 20, 0, 0, 0, 0, time.UTC)
	item.ExpiryDate = &exp

	result, err := e.SimulateDays(2, nil)

	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 4, 20, 0, 0, 0, 0, time.UTC), result.NewDate)
	assert.Equal(t, result.NewDate, e.Registry().CurrentDate())
	require.Len(t, result.ExpiredItems, 1)
	assert.Equal(t, "rations", result.ExpiredItems[0].ItemID)
	assert.True(t, item.HasWasteReason(model.WasteExpired))
}

func TestSimulateDays_ReportsOnlyNewlyFlagged(t *testing.T) {
	e := testEngine(t)
	item := addItem(t, e, "rations", 1, 1, 1, 50)
	exp := testDate().AddDate(0, 0, 1)
	item.ExpiryDate = &exp

	first, err := e.SimulateDays(1, nil)
	require.NoError(t, err)
	require.Len(t, first.ExpiredItems, 1)

	second, err := e.SimulateDays(1, nil)
	require.NoError(t, err)
	assert.Empty(t, second.ExpiredItems, "already-flagged items are not re-reported")
}

func TestSimulateDays_DailyUsageDecrement(t *testing.T) {
	e := testEngine(t)
	item := addItem(t, e, "filter", 1, 1, 1, 50)
	limit := 3
	item.UsageLimit = &limit

	result, err := e.SimulateDays(2, []string{"filter"})

	require.NoError(t, err)
	assert.Equal(t, 1, *item.UsageLimit)
	assert.Empty(t, result.DepletedItems)

	result, err = e.SimulateDays(1, []string{"filter"})
	require.NoError(t, err)
	assert.Equal(t, 0, *item.UsageLimit)
	require.Len(t, result.DepletedItems, 1)
	assert.Equal(t, "filter", result.DepletedItems[0].ItemID)
	assert.True(t, item.HasWasteReason(model.WasteUsageDepleted))
}

func TestSimulateDays_UsageFloorsAtZero(t *testing.T) {
	e := testEngine(t)
	item := addItem(t, e, "filter", 1, 1, 1, 50)
	limit := 1
	item.UsageLimit = &limit

	result, err := e.SimulateDays(5, []string{"filter"})

	require.NoError(t, err)
	assert.Equal(t, 0, *item.UsageLimit)
	require.Len(t, result.DepletedItems, 1, "depletion is reported once")
}

func TestSimulateDays_WasteItemsDoNotConsumeUses(t *testing.T) {
	// An expired item listed in the daily-usage set is inert: it keeps its
	// remaining uses and is never re-reported as newly depleted.
	e := testEngine(t)
	item := addItem(t, e, "stale", 1, 1, 1, 50)
	limit := 3
	item.UsageLimit = &limit
	item.MarkWaste(model.WasteExpired)

	result, err := e.SimulateDays(1, []string{"stale"})

	require.NoError(t, err)
	assert.Equal(t, 3, *item.UsageLimit, "waste item must not consume uses")
	assert.Empty(t, result.DepletedItems)
}

func TestSimulateDays_NeverTouchesGeometry(t *testing.T) {
	e := testEngine(t)
	cont := addContainer(t, e, "contA", "Zone A", 10, 10, 10)
	item := addItem(t, e, "rations", 2, 2, 2, 50)
	exp := testDate().AddDate(0, 0, 1)
	item.ExpiryDate = &exp
	place(t, e, cont, item, model.Dimensions{Width: 2, Depth: 2, Height: 2}, model.Position{})

	_, err := e.SimulateDays(3, nil)

	require.NoError(t, err)
	require.NotNil(t, item.Placement)
	assert.Equal(t, 8.0, cont.OccupiedVolume)
}

func TestDaysUntil_RoundsPartialDaysUp(t *testing.T) {
	e := testEngine(t)

	assert.Equal(t, 0, e.DaysUntil(testDate()))
	assert.Equal(t, 0, e.DaysUntil(testDate().AddDate(0, 0, -1)))
	assert.Equal(t, 2, e.DaysUntil(testDate().AddDate(0, 0, 2)))
	assert.Equal(t, 2, e.DaysUntil(testDate().Add(25*time.Hour)))
}
