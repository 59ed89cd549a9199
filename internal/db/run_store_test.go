package db

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/terrain.segment/internal/surface"
)

func sampleResult() *surface.Result {
	return &surface.Result{
		Histogram: surface.Histogram{40, 3, 12},
		Params:    surface.DefaultPipelineParams(),
		Stats: surface.PipelineStats{
			InputPoints:           60,
			ErrorPointsRemoved:    5,
			Components:            3,
			BorderPoints:          17,
			DominantID:            0,
			HasDominant:           true,
			DominantPointsRemoved: 40,
			MinorPointsRemoved:    3,
			ThinoutPointsRemoved:  8,
			OutputPoints:          4,
			Duration:              1500 * time.Microsecond,
		},
	}
}

func TestNewRun_Dispositions(t *testing.T) {
	run, rows := NewRun("scan.dat", sampleResult())
	assert.Equal(t, "scan.dat", run.Source)
	require.Len(t, rows, 3)
	assert.Equal(t, surface.DispositionDominant, rows[0].Disposition)
	assert.Equal(t, surface.DispositionMinor, rows[1].Disposition)
	assert.Equal(t, surface.DispositionKept, rows[2].Disposition)
	assert.Equal(t, 12, rows[2].Points)
}

func TestRunStore_InsertGet(t *testing.T) {
	store := NewRunStore(openTestDB(t))

	run, rows := NewRun("scan.dat", sampleResult())
	require.NoError(t, store.Insert(run, rows))
	_, err := uuid.Parse(run.RunID)
	require.NoError(t, err, "run id should be a uuid")
	assert.False(t, run.CreatedAt.IsZero())

	got, err := store.Get(run.RunID)
	require.NoError(t, err)
	assert.Equal(t, run.RunID, got.RunID)
	assert.Equal(t, run.Source, got.Source)
	assert.Equal(t, run.Params, got.Params)
	assert.Equal(t, run.Stats, got.Stats)
	assert.Equal(t, run.CreatedAt.UnixNano(), got.CreatedAt.UnixNano())

	comps, err := store.Components(run.RunID)
	require.NoError(t, err)
	require.Len(t, comps, 3)
	for i, c := range comps {
		assert.Equal(t, run.RunID, c.RunID)
		assert.Equal(t, uint32(i), c.ComponentID)
		assert.Equal(t, rows[i].Disposition, c.Disposition)
	}
}

func TestRunStore_NoDominant(t *testing.T) {
	store := NewRunStore(openTestDB(t))

	res := sampleResult()
	res.Stats.HasDominant = false
	res.Stats.DominantID = 0
	res.Params.RemoveDominant = false
	run, rows := NewRun("flat.dat", res)
	require.NoError(t, store.Insert(run, rows))

	got, err := store.Get(run.RunID)
	require.NoError(t, err)
	assert.False(t, got.Stats.HasDominant)
	assert.False(t, got.Params.RemoveDominant)
}

func TestRunStore_NotFound(t *testing.T) {
	store := NewRunStore(openTestDB(t))

	_, err := store.Get("nope")
	assert.True(t, errors.Is(err, ErrRunNotFound))

	err = store.Delete("nope")
	assert.True(t, errors.Is(err, ErrRunNotFound))
}

func TestRunStore_ListOrderAndLimit(t *testing.T) {
	store := NewRunStore(openTestDB(t))

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, src := range []string{"a.dat", "b.dat", "c.dat"} {
		run, rows := NewRun(src, sampleResult())
		run.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, store.Insert(run, rows))
	}

	all, err := store.List(0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "c.dat", all[0].Source)
	assert.Equal(t, "a.dat", all[2].Source)

	two, err := store.List(2)
	require.NoError(t, err)
	assert.Len(t, two, 2)
}

func TestRunStore_DeleteCascades(t *testing.T) {
	db := openTestDB(t)
	store := NewRunStore(db)

	run, rows := NewRun("scan.dat", sampleResult())
	require.NoError(t, store.Insert(run, rows))
	require.NoError(t, store.Delete(run.RunID))

	comps, err := store.Components(run.RunID)
	require.NoError(t, err)
	assert.Empty(t, comps)

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM segment_components`).Scan(&n))
	assert.Zero(t, n)
}

func TestRunStore_DuplicateID(t *testing.T) {
	store := NewRunStore(openTestDB(t))

	run, rows := NewRun("scan.dat", sampleResult())
	run.RunID = "fixed"
	require.NoError(t, store.Insert(run, rows))

	again, rows2 := NewRun("scan.dat", sampleResult())
	again.RunID = "fixed"
	assert.Error(t, store.Insert(again, rows2))
}
