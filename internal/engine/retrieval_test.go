package engine

import (
	"testing"

	"github.com/piwi3910/CargoStow/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanRetrieval_DirectAccess(t *testing.T) {
	e := testEngine(t)
	cont := addContainer(t, e, "contA", "Zone A", 10, 20, 10)
	front := addItem(t, e, "front", 10, 10, 10, 80)
	deep := addItem(t, e, "deep", 10, 10, 10, 20)
	place(t, e, cont, front, model.Dimensions{Width: 10, Depth: 10, Height: 10}, model.Position{})
	place(t, e, cont, deep, model.Dimensions{Width: 10, Depth: 10, Height: 10}, model.Position{Y: 10})

	plan, err := e.PlanRetrieval("front")

	require.NoError(t, err)
	assert.Empty(t, plan.Steps, "unobstructed item needs no unblocking")
	assert.Equal(t, 0, plan.BlockersCount)
}

func TestPlanRetrieval_BlockedItem(t *testing.T) {
	e := testEngine(t)
	cont := addContainer(t, e, "contA", "Zone A", 10, 30, 10)
	near := addItem(t, e, "near", 10, 10, 10, 80)
	mid := addItem(t, e, "mid", 10, 10, 10, 50)
	target := addItem(t, e, "target", 10, 10, 10, 20)
	place(t, e, cont, near, model.Dimensions{Width: 10, Depth: 10, Height: 10}, model.Position{})
	place(t, e, cont, mid, model.Dimensions{Width: 10, Depth: 10, Height: 10}, model.Position{Y: 10})
	place(t, e, cont, target, model.Dimensions{Width: 10, Depth: 10, Height: 10}, model.Position{Y: 20})

	plan, err := e.PlanRetrieval("target")

	require.NoError(t, err)
	assert.Equal(t, 2, plan.BlockersCount)
	require.Len(t, plan.Steps, 5)

	// Blockers come out nearest-first.
	assert.Equal(t, model.StepRemove, plan.Steps[0].Action)
	assert.Equal(t, "near", plan.Steps[0].ItemID)
	assert.Equal(t, model.StepRemove, plan.Steps[1].Action)
	assert.Equal(t, "mid", plan.Steps[1].ItemID)

	assert.Equal(t, model.StepRetrieve, plan.Steps[2].Action)
	assert.Equal(t, "target", plan.Steps[2].ItemID)

	// Blockers go back deepest-first, to their original boxes.
	assert.Equal(t, model.StepRestore, plan.Steps[3].Action)
	assert.Equal(t, "mid", plan.Steps[3].ItemID)
	require.NotNil(t, plan.Steps[3].Position)
	assert.Equal(t, model.Position{Y: 10}, *plan.Steps[3].Position)
	assert.Equal(t, model.StepRestore, plan.Steps[4].Action)
	assert.Equal(t, "near", plan.Steps[4].ItemID)

	// Steps are numbered 1..n.
	for i, step := range plan.Steps {
		assert.Equal(t, i+1, step.Step)
	}
}

func TestPlanRetrieval_SideBySideDoesNotBlock(t *testing.T) {
	e := testEngine(t)
	cont := addContainer(t, e, "contA", "Zone A", 20, 20, 10)
	aside := addItem(t, e, "aside", 10, 10, 10, 50)
	target := addItem(t, e, "target", 10, 10, 10, 50)
	place(t, e, cont, aside, model.Dimensions{Width: 10, Depth: 10, Height: 10}, model.Position{})
	place(t, e, cont, target, model.Dimensions{Width: 10, Depth: 10, Height: 10}, model.Position{X: 10, Y: 10})

	plan, err := e.PlanRetrieval("target")

	require.NoError(t, err)
	assert.Equal(t, 0, plan.BlockersCount, "different column does not block")
}

func TestPlanRetrieval_Errors(t *testing.T) {
	e := testEngine(t)
	addItem(t, e, "loose", 1, 1, 1, 50)

	_, err := e.PlanRetrieval("ghost")
	assert.ErrorIs(t, err, ErrItemNotFound)

	_, err = e.PlanRetrieval("loose")
	assert.ErrorIs(t, err, ErrItemNotPlaced)
}

func TestRetrieveItem_ConsumesUsageAndUnplaces(t *testing.T) {
	e := testEngine(t)
	cont := addContainer(t, e, "contA", "Zone A", 10, 10, 10)
	item := addItem(t, e, "i1", 5, 5, 5, 50)
	limit := 2
	item.UsageLimit = &limit
	place(t, e, cont, item, model.Dimensions{Width: 5, Depth: 5, Height: 5}, model.Position{})

	got, err := e.RetrieveItem("i1")

	require.NoError(t, err)
	assert.Nil(t, got.Placement)
	assert.Equal(t, 0.0, cont.OccupiedVolume)
	assert.Equal(t, 1, *got.UsageLimit)
	assert.False(t, got.IsWaste)
}

func TestRetrieveItem_LastUseFlagsDepleted(t *testing.T) {
	e := testEngine(t)
	cont := addContainer(t, e, "contA", "Zone A", 10, 10, 10)
	item := addItem(t, e, "i1", 5, 5, 5, 50)
	limit := 1
	item.UsageLimit = &limit
	place(t, e, cont, item, model.Dimensions{Width: 5, Depth: 5, Height: 5}, model.Position{})

	got, err := e.RetrieveItem("i1")

	require.NoError(t, err)
	assert.Equal(t, 0, *got.UsageLimit)
	assert.True(t, got.IsWaste)
	assert.True(t, got.HasWasteReason(model.WasteUsageDepleted))
}

func TestSearchItems_SortedByRetrievalEffort(t *testing.T) {
	e := testEngine(t)
	cont := addContainer(t, e, "contA", "Zone A", 10, 30, 10)
	easy := addItem(t, e, "easy", 10, 10, 10, 50)
	hard := addItem(t, e, "hard", 10, 10, 10, 50)
	place(t, e, cont, easy, model.Dimensions{Width: 10, Depth: 10, Height: 10}, model.Position{})
	place(t, e, cont, hard, model.Dimensions{Width: 10, Depth: 10, Height: 10}, model.Position{Y: 10})

	locations := e.SearchItems("", "item")

	require.Len(t, locations, 2)
	assert.Equal(t, "easy", locations[0].ItemID)
	assert.Equal(t, 0, locations[0].RetrievalSteps)
	assert.Equal(t, "hard", locations[1].ItemID)
	assert.Equal(t, 1, locations[1].RetrievalSteps)
	assert.Equal(t, []string{"easy"}, locations[1].BlockedBy)
}

func TestSearchItems_ByExactID(t *testing.T) {
	e := testEngine(t)
	cont := addContainer(t, e, "contA", "Zone A", 20, 20, 10)
	a := addItem(t, e, "alpha", 5, 5, 5, 50)
	b := addItem(t, e, "beta", 5, 5, 5, 50)
	place(t, e, cont, a, model.Dimensions{Width: 5, Depth: 5, Height: 5}, model.Position{})
	place(t, e, cont, b, model.Dimensions{Width: 5, Depth: 5, Height: 5}, model.Position{X: 5})

	locations := e.SearchItems("beta", "")

	require.Len(t, locations, 1)
	assert.Equal(t, "beta", locations[0].ItemID)
	assert.Equal(t, "Zone A", locations[0].Zone)
}
