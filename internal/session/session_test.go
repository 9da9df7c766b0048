package session

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wayfarer/internal/planner"
	"wayfarer/internal/research"
	"wayfarer/internal/trip"
)

type stubRunner struct {
	result *planner.Result
	err    error
	calls  int
}

func (r *stubRunner) Run(_ context.Context, _ *trip.Profile) (*planner.Result, error) {
	r.calls++
	return r.result, r.err
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "sessions.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testItems() []trip.ScheduleItem {
	return []trip.ScheduleItem{
		{ID: 1, ActivityType: trip.ActivityTerminal, Time: trip.ItemTime{Start: "2026-05-01 10:00"}, Title: "Arrive", UserFixed: true},
		{ID: 2, ActivityType: trip.ActivityEvent, Time: trip.ItemTime{Start: "2026-05-01 11:00", End: "2026-05-01 13:00"}, Title: "Walk around"},
	}
}

func TestStoreRoundTrip(t *testing.T) {
	s := newTestStore(t)

	rec := &Record{
		ID:    "abc",
		Stage: StageEnd,
		Items: testItems(),
		Findings: []research.Finding{
			{Query: "Best restaurants in Kyoto", Result: "Nishiki Market stalls", Summary: "digest"},
		},
	}
	require.NoError(t, s.Save(rec))

	loaded, err := s.Load("abc")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, StageEnd, loaded.Stage)
	assert.Equal(t, rec.Items, loaded.Items)
	assert.Equal(t, rec.Findings, loaded.Findings)
	assert.False(t, loaded.UpdatedAt.IsZero())
}

func TestStoreLoadMissing(t *testing.T) {
	s := newTestStore(t)

	loaded, err := s.Load("nope")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestStoreSaveOverwrites(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Save(&Record{ID: "abc", Stage: StageFirstGeneration, Items: nil}))
	require.NoError(t, s.Save(&Record{ID: "abc", Stage: StageEnd, Items: testItems()}))

	loaded, err := s.Load("abc")
	require.NoError(t, err)
	assert.Equal(t, StageEnd, loaded.Stage)
	assert.Len(t, loaded.Items, 2)

	records, err := s.List()
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestStoreDelete(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Save(&Record{ID: "abc", Stage: StageEnd}))
	require.NoError(t, s.Delete("abc"))

	loaded, err := s.Load("abc")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestHandleFirstGeneration(t *testing.T) {
	s := newTestStore(t)
	runner := &stubRunner{result: &planner.Result{Items: testItems(), FreeHours: 14}}
	m := NewManager(s, runner)

	rec, err := m.Handle(context.Background(), Request{
		Stage:   StageFirstGeneration,
		Profile: &trip.Profile{Location: "Kyoto"},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, StageEnd, rec.Stage)
	assert.Len(t, rec.Items, 2)
	assert.Equal(t, 1, runner.calls)

	// The session is persisted under its generated id.
	loaded, err := s.Load(rec.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, rec.Items, loaded.Items)
}

func TestHandleFirstGenerationSavesDivergedSchedule(t *testing.T) {
	s := newTestStore(t)
	runner := &stubRunner{
		result: &planner.Result{Items: testItems()},
		err:    planner.ErrValidationDiverged,
	}
	m := NewManager(s, runner)

	rec, err := m.Handle(context.Background(), Request{
		SessionID: "abc",
		Stage:     StageFirstGeneration,
		Profile:   &trip.Profile{Location: "Kyoto"},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, planner.ErrValidationDiverged))
	assert.Nil(t, rec)

	// The best-so-far schedule is persisted for inspection, but the
	// session does not advance to the end stage.
	loaded, loadErr := s.Load("abc")
	require.NoError(t, loadErr)
	require.NotNil(t, loaded)
	assert.Len(t, loaded.Items, 2)
	assert.Equal(t, StageFirstGeneration, loaded.Stage)
}

func TestHandleFirstGenerationRequiresProfile(t *testing.T) {
	m := NewManager(newTestStore(t), &stubRunner{})

	_, err := m.Handle(context.Background(), Request{Stage: StageFirstGeneration})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "trip profile is required")
}

func TestHandleModifyFailsFast(t *testing.T) {
	runner := &stubRunner{}
	m := NewManager(newTestStore(t), runner)

	_, err := m.Handle(context.Background(), Request{SessionID: "abc", Stage: StageModify})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedStage))
	assert.Equal(t, 0, runner.calls)
}

func TestHandleEndIsReadOnly(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Save(&Record{ID: "abc", Stage: StageEnd, Items: testItems()}))
	runner := &stubRunner{}
	m := NewManager(s, runner)

	rec, err := m.Handle(context.Background(), Request{SessionID: "abc", Stage: StageEnd})
	require.NoError(t, err)
	assert.Len(t, rec.Items, 2)
	assert.Equal(t, 0, runner.calls)
}

func TestHandleReset(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Save(&Record{ID: "abc", Stage: StageEnd, Items: testItems()}))
	m := NewManager(s, &stubRunner{})

	rec, err := m.Handle(context.Background(), Request{SessionID: "abc", Stage: StageEnd, Reset: true})
	require.NoError(t, err)
	assert.Empty(t, rec.Items)

	loaded, err := s.Load("abc")
	require.NoError(t, err)
	assert.Empty(t, loaded.Items)
}

func TestHandleUnknownStage(t *testing.T) {
	m := NewManager(newTestStore(t), &stubRunner{})

	_, err := m.Handle(context.Background(), Request{SessionID: "abc", Stage: "whatever"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown stage")
}
