package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExerciseGetter struct {
	exercises map[int]Exercise
	calls     int
	err       error
}

func (f *fakeExerciseGetter) GetExercise(_ context.Context, id int) (*Exercise, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	exercise, ok := f.exercises[id]
	if !ok {
		return nil, ErrExerciseNotFound
	}
	return &exercise, nil
}

func TestCachedExercises_GetExercise(t *testing.T) {
	inner := &fakeExerciseGetter{
		exercises: map[int]Exercise{
			1: {
				ID:             1,
				Name:           "Barbell Squat",
				Level:          "intermediate",
				Category:       "strength",
				PrimaryMuscles: []string{"quadriceps"},
			},
		},
	}
	cached := NewCachedExercises(inner, 1024*1024)

	ctx := context.Background()

	exercise, err := cached.GetExercise(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, exercise)
	assert.Equal(t, "Barbell Squat", exercise.Name)
	assert.Equal(t, 1, inner.calls)

	// second read comes from the cache
	exercise, err = cached.GetExercise(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, exercise)
	assert.Equal(t, "Barbell Squat", exercise.Name)
	assert.Equal(t, []string{"quadriceps"}, exercise.PrimaryMuscles)
	assert.Equal(t, 1, inner.calls)
}

func TestCachedExercises_GetExercise_NotFound(t *testing.T) {
	inner := &fakeExerciseGetter{exercises: map[int]Exercise{}}
	cached := NewCachedExercises(inner, 1024*1024)

	exercise, err := cached.GetExercise(context.Background(), 500)
	assert.ErrorIs(t, err, ErrExerciseNotFound)
	assert.Nil(t, exercise)

	// misses are not cached
	_, err = cached.GetExercise(context.Background(), 500)
	assert.ErrorIs(t, err, ErrExerciseNotFound)
	assert.Equal(t, 2, inner.calls)
}
