package engine

import (
	"testing"
	"time"

	"github.com/piwi3910/CargoStow/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func expired(t *testing.T, e *Engine, id string, mass float64, daysAgo int) *model.Item {
	t.Helper()
	item, err := e.Registry().AddItem(model.NewItem(id, "Item "+id, 1, 1, 1, mass, 50))
	require.NoError(t, err)
	exp := testDate().AddDate(0, 0, -daysAgo)
	item.ExpiryDate = &exp
	return item
}

func TestIdentifyWaste_FlagsExpiredAndDepleted(t *testing.T) {
	e := testEngine(t)
	expired(t, e, "old", 2, 1)

	zero := 0
	depleted := addItem(t, e, "used-up", 1, 1, 1, 50)
	depleted.UsageLimit = &zero

	addItem(t, e, "fresh", 1, 1, 1, 50)

	report := e.IdentifyWaste()

	require.Len(t, report.WasteItems, 2)
	assert.Equal(t, "old", report.WasteItems[0].ItemID)
	assert.Equal(t, []model.WasteReason{model.WasteExpired}, report.WasteItems[0].Reasons)
	assert.Equal(t, "used-up", report.WasteItems[1].ItemID)
	assert.Equal(t, []model.WasteReason{model.WasteUsageDepleted}, report.WasteItems[1].Reasons)
	assert.Equal(t, 3.0, report.TotalMass)
}

func TestIdentifyWaste_BothReasons(t *testing.T) {
	e := testEngine(t)
	item := expired(t, e, "double", 1, 5)
	zero := 0
	item.UsageLimit = &zero

	report := e.IdentifyWaste()

	require.Len(t, report.WasteItems, 1)
	assert.ElementsMatch(t,
		[]model.WasteReason{model.WasteExpired, model.WasteUsageDepleted},
		report.WasteItems[0].Reasons)
}

func TestIdentifyWaste_Idempotent(t *testing.T) {
	e := testEngine(t)
	expired(t, e, "old", 2, 1)

	first := e.IdentifyWaste()
	second := e.IdentifyWaste()

	assert.Equal(t, first, second)
	assert.Len(t, second.WasteItems[0].Reasons, 1)
}

func TestIdentifyWaste_DoesNotTouchPlacement(t *testing.T) {
	e := testEngine(t)
	cont := addContainer(t, e, "contA", "Zone A", 10, 10, 10)
	item := expired(t, e, "old", 2, 1)
	place(t, e, cont, item, model.Dimensions{Width: 1, Depth: 1, Height: 1}, model.Position{})

	report := e.IdentifyWaste()

	require.Len(t, report.WasteItems, 1)
	assert.Equal(t, "contA", report.WasteItems[0].ContainerID)
	assert.NotNil(t, item.Placement, "waste flag does not free space")
	assert.Equal(t, 1.0, cont.OccupiedVolume)
}

func TestPlanReturn_GreedySkipsOverweightAndContinues(t *testing.T) {
	// Staleness order is heavy, bulky, light (oldest expiry first). The bulky
	// item blows the budget and is skipped; the light item after it still fits.
	e := testEngine(t)
	addContainer(t, e, "undock", "Airlock", 50, 50, 50)
	expired(t, e, "heavy", 5, 30)
	expired(t, e, "bulky", 9, 25)
	expired(t, e, "light", 3, 20)

	plan, err := e.PlanReturn("undock", 8)

	require.NoError(t, err)
	require.Len(t, plan.ReturnItems, 2)
	assert.Equal(t, "heavy", plan.ReturnItems[0].ItemID)
	assert.Equal(t, "light", plan.ReturnItems[1].ItemID)
	assert.Equal(t, 8.0, plan.TotalMass)

	require.Len(t, plan.RemainingWaste, 1)
	assert.Equal(t, "bulky", plan.RemainingWaste[0].ItemID)

	// Loose waste is placed straight into the undocking container.
	require.Len(t, plan.Steps, 2)
	assert.Equal(t, model.StepPlace, plan.Steps[0].Action)
	assert.Equal(t, "heavy", plan.Steps[0].ItemID)
	assert.Equal(t, "undock", plan.Steps[0].ToContainer)
}

func TestPlanReturn_StepsMoveStowedWaste(t *testing.T) {
	e := testEngine(t)
	cont := addContainer(t, e, "contA", "Zone A", 10, 10, 10)
	addContainer(t, e, "undock", "Airlock", 50, 50, 50)

	stowed := expired(t, e, "stowed", 2, 1)
	place(t, e, cont, stowed, model.Dimensions{Width: 1, Depth: 1, Height: 1}, model.Position{})

	plan, err := e.PlanReturn("undock", 10)

	require.NoError(t, err)
	require.Len(t, plan.Steps, 1)
	assert.Equal(t, model.StepMove, plan.Steps[0].Action)
	assert.Equal(t, "stowed", plan.Steps[0].ItemID)
	assert.Equal(t, "contA", plan.Steps[0].FromContainer)
	assert.Equal(t, "undock", plan.Steps[0].ToContainer)
	assert.Equal(t, 1, plan.Steps[0].Step)
}

func TestPlanReturn_ExpiredBeforeDepleted(t *testing.T) {
	e := testEngine(t)
	addContainer(t, e, "undock", "Airlock", 50, 50, 50)

	zero := 0
	depleted := addItem(t, e, "a-depleted", 1, 1, 1, 50)
	depleted.Mass = 1
	depleted.UsageLimit = &zero
	expired(t, e, "z-expired", 1, 1)

	plan, err := e.PlanReturn("undock", 100)

	require.NoError(t, err)
	require.Len(t, plan.ReturnItems, 2)
	assert.Equal(t, "z-expired", plan.ReturnItems[0].ItemID, "expired outranks depleted despite id order")
	assert.Equal(t, "a-depleted", plan.ReturnItems[1].ItemID)
}

func TestPlanReturn_Errors(t *testing.T) {
	e := testEngine(t)
	addContainer(t, e, "undock", "Airlock", 50, 50, 50)

	_, err := e.PlanReturn("ghost", 10)
	assert.ErrorIs(t, err, ErrInvalidContainer)

	_, err = e.PlanReturn("undock", 0)
	assert.ErrorIs(t, err, ErrInvalidWeight)

	_, err = e.PlanReturn("undock", -5)
	assert.ErrorIs(t, err, ErrInvalidWeight)
}

func TestCompleteUndocking_RemovesWasteAndAggregatesFailures(t *testing.T) {
	e := testEngine(t)
	cont := addContainer(t, e, "contA", "Zone A", 10, 10, 10)
	addContainer(t, e, "undock", "Airlock", 50, 50, 50)

	waste := expired(t, e, "waste", 2, 1)
	place(t, e, cont, waste, model.Dimensions{Width: 1, Depth: 1, Height: 1}, model.Position{})
	e.IdentifyWaste()

	addItem(t, e, "keeper", 1, 1, 1, 50)

	result, err := e.CompleteUndocking("undock", []string{"waste", "keeper", "ghost"})

	require.NoError(t, err)
	assert.Equal(t, 1, result.RemovedCount)
	require.Len(t, result.Failures, 2)
	assert.Equal(t, "keeper", result.Failures[0].ItemID)
	assert.Equal(t, ErrItemNotWaste.Error(), result.Failures[0].Reason)
	assert.Equal(t, "ghost", result.Failures[1].ItemID)
	assert.Equal(t, ErrItemNotFound.Error(), result.Failures[1].Reason)

	assert.Nil(t, e.Registry().Item("waste"), "confirmed waste leaves the registry")
	assert.NotNil(t, e.Registry().Item("keeper"))
	assert.Equal(t, 0.0, cont.OccupiedVolume, "departure frees container volume")
	assert.Empty(t, cont.Items)
}

func TestCompleteUndocking_UnknownContainer(t *testing.T) {
	e := testEngine(t)
	_, err := e.CompleteUndocking("ghost", nil)
	assert.ErrorIs(t, err, ErrInvalidContainer)
}

func TestWasteOrdering_OldestExpiryFirst(t *testing.T) {
	e := testEngine(t)
	addContainer(t, e, "undock", "Airlock", 50, 50, 50)

	dates := map[string]time.Time{
		"b": testDate().AddDate(0, 0, -10),
		"a": testDate().AddDate(0, 0, -1),
		"c": testDate().AddDate(0, 0, -30),
	}
	for id, d := range dates {
		item := addItem(t, e, id, 1, 1, 1, 50)
		item.Mass = 1
		exp := d
		item.ExpiryDate = &exp
	}

	plan, err := e.PlanReturn("undock", 100)

	require.NoError(t, err)
	require.Len(t, plan.ReturnItems, 3)
	assert.Equal(t, "c", plan.ReturnItems[0].ItemID)
	assert.Equal(t, "b", plan.ReturnItems[1].ItemID)
	assert.Equal(t, "a", plan.ReturnItems[2].ItemID)
}
