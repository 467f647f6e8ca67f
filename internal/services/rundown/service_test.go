package rundown

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bbernstein/onair-go/internal/database/models"
	"github.com/bbernstein/onair-go/internal/services/pubsub"
	"github.com/bbernstein/onair-go/internal/services/testutil"
)

func newTestService(t *testing.T) (*Service, *testutil.TestDB, *pubsub.PubSub) {
	t.Helper()
	tdb, cleanup := testutil.SetupTestDB(t)
	t.Cleanup(cleanup)
	ps := pubsub.New()
	return NewService(tdb.RundownRepo, tdb.ProgramRepo, tdb.AssetRepo, ps, zerolog.Nop()), tdb, ps
}

func TestService_CreateUsesProgramStartTime(t *testing.T) {
	svc, tdb, _ := newTestService(t)
	program := tdb.CreateProgram(t, "Evening News", "19:00:00")

	r, err := svc.Create(context.Background(), program.ID, "2024-03-01", "Evening News")

	require.NoError(t, err)
	assert.Equal(t, "19:00:00", r.StartTime)
	assert.Equal(t, models.RundownStatusDraft, r.Status)
	assert.Equal(t, "00:00:00", r.EstimatedTotalDuration)
}

func TestService_CreateUnknownProgram(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.Create(context.Background(), "nope", "2024-03-01", "x")
	assert.ErrorIs(t, err, ErrProgramNotFound)
}

func TestService_ItemLifecyclePersists(t *testing.T) {
	svc, tdb, _ := newTestService(t)
	ctx := context.Background()
	program := tdb.CreateProgram(t, "Morning", "06:00:00")
	r := tdb.CreateRundown(t, program)

	_, err := svc.AddItem(ctx, r.ID, models.ItemTypeStory, "LEAD")
	require.NoError(t, err)
	updated, err := svc.AddItem(ctx, r.ID, models.ItemTypeVT, "PKG")
	require.NoError(t, err)
	require.Len(t, updated.Items, 2)

	stored, err := tdb.RundownRepo.FindByID(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, "00:01:30", stored.EstimatedTotalDuration)

	vtID := stored.Items[1].ID
	_, err = svc.UpdateItem(ctx, r.ID, vtID, ItemPatch{EstimatedDuration: strPtr("00:02:00")})
	require.NoError(t, err)

	_, err = svc.RemoveItem(ctx, r.ID, stored.Items[0].ID)
	require.NoError(t, err)

	stored, err = tdb.RundownRepo.FindByID(ctx, r.ID)
	require.NoError(t, err)
	require.Len(t, stored.Items, 1)
	assert.Equal(t, "00:02:00", stored.EstimatedTotalDuration)
}

func TestService_LinkAsset(t *testing.T) {
	svc, tdb, _ := newTestService(t)
	ctx := context.Background()
	program := tdb.CreateProgram(t, "Morning", "06:00:00")
	vt := NewItem(models.ItemTypeVT, "PKG")
	r := tdb.CreateRundown(t, program, vt)
	asset := tdb.CreateAsset(t, "harbour", "00:01:10")

	updated, err := svc.LinkAsset(ctx, r.ID, vt.ID, asset.ID)
	require.NoError(t, err)
	assert.Equal(t, "harbour", *updated.Items[0].LinkedAssetName)
	assert.Equal(t, "00:01:10", updated.EstimatedTotalDuration)

	_, err = svc.LinkAsset(ctx, r.ID, vt.ID, "missing")
	assert.ErrorIs(t, err, ErrAssetNotFound)
}

func TestService_UpdateHeader(t *testing.T) {
	svc, tdb, _ := newTestService(t)
	ctx := context.Background()
	r := tdb.CreateRundown(t, tdb.CreateProgram(t, "Late", "22:00:00"))

	status := models.RundownStatusReady
	updated, err := svc.Update(ctx, r.ID, RundownPatch{StartTime: strPtr("22:30:00"), Status: &status})
	require.NoError(t, err)
	assert.Equal(t, "22:30:00", updated.StartTime)
	assert.Equal(t, models.RundownStatusReady, updated.Status)

	_, err = svc.Update(ctx, r.ID, RundownPatch{StartTime: strPtr("late")})
	assert.ErrorIs(t, err, ErrInvalidStartTime)
}

func TestService_Timeline(t *testing.T) {
	svc, tdb, _ := newTestService(t)
	r := tdb.CreateRundown(t, tdb.CreateProgram(t, "Evening", "19:00:00"),
		item("a", "00:01:30", models.ItemStatusDone),
		item("b", "00:02:45", models.ItemStatusReady),
	)

	tl, err := svc.Timeline(context.Background(), r.ID)
	require.NoError(t, err)
	assert.Equal(t, "19:04:15", tl.EndTime)
	assert.Equal(t, "00:04:15", tl.Remaining)

	_, err = svc.Timeline(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrRundownNotFound)
}

func TestService_PublishesUpdates(t *testing.T) {
	svc, tdb, ps := newTestService(t)
	r := tdb.CreateRundown(t, tdb.CreateProgram(t, "Evening", "19:00:00"))
	sub := ps.Subscribe(pubsub.TopicRundownUpdated, r.ID, 1)
	defer ps.Unsubscribe(sub)

	_, err := svc.AddItem(context.Background(), r.ID, models.ItemTypeLive, "LIVE")
	require.NoError(t, err)

	select {
	case msg := <-sub.Channel:
		published, ok := msg.(*models.Rundown)
		require.True(t, ok)
		assert.Len(t, published.Items, 1)
	case <-time.After(time.Second):
		t.Fatal("expected rundown update")
	}
}

func TestService_LogsThroughInjectedLogger(t *testing.T) {
	tdb, cleanup := testutil.SetupTestDB(t)
	t.Cleanup(cleanup)
	var buf bytes.Buffer
	svc := NewService(tdb.RundownRepo, tdb.ProgramRepo, tdb.AssetRepo, nil, zerolog.New(&buf).Level(zerolog.DebugLevel))
	rd := tdb.CreateRundown(t, tdb.CreateProgram(t, "Evening News", "19:00:00"))

	_, err := svc.AddItem(context.Background(), rd.ID, models.ItemTypeStory, "FIRE")
	require.NoError(t, err)

	assert.Contains(t, buf.String(), `"component":"rundown"`)
	assert.Contains(t, buf.String(), `"rundown":"`+rd.ID+`"`)
	assert.Contains(t, buf.String(), "rundown updated")
}
