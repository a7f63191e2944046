package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/healthnav/healthnav/pkg/domain/interfaces"
	"github.com/healthnav/healthnav/pkg/domain/model"
	"github.com/m-mizutani/gt"
)

func strPtr(s string) *string { return &s }

func runProfileRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Watch yields empty profile for missing document", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		w, err := repo.Profile().Watch(ctx, model.NewIdentity())
		gt.NoError(t, err).Required()
		defer w.Stop()

		profile, err := nextWithin(t, w.Next, 10*time.Second)
		gt.NoError(t, err).Required()
		gt.Value(t, profile).NotNil()
		gt.Bool(t, profile.IsEmpty()).True()
	})

	t.Run("Merge preserves fields that are not in the patch", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		identity := model.NewIdentity()

		gt.NoError(t, repo.Profile().Merge(ctx, identity, &model.ProfilePatch{
			Goals: strPtr("lose weight"),
		})).Required()
		gt.NoError(t, repo.Profile().Merge(ctx, identity, &model.ProfilePatch{
			DietaryRestrictions: strPtr("vegan"),
		})).Required()

		w, err := repo.Profile().Watch(ctx, identity)
		gt.NoError(t, err).Required()
		defer w.Stop()

		profile, err := nextWithin(t, w.Next, 10*time.Second)
		gt.NoError(t, err).Required()
		gt.Value(t, profile.Goals).Equal("lose weight")
		gt.Value(t, profile.DietaryRestrictions).Equal("vegan")
		gt.Value(t, profile.MedicalConditions).Equal("")
	})

	t.Run("Merge with empty patch does not create the document", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		identity := model.NewIdentity()

		gt.NoError(t, repo.Profile().Merge(ctx, identity, &model.ProfilePatch{}))

		w, err := repo.Profile().Watch(ctx, identity)
		gt.NoError(t, err).Required()
		defer w.Stop()

		profile, err := nextWithin(t, w.Next, 10*time.Second)
		gt.NoError(t, err).Required()
		gt.Bool(t, profile.IsEmpty()).True()
	})

	t.Run("Watch delivers subsequent changes", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		identity := model.NewIdentity()

		w, err := repo.Profile().Watch(ctx, identity)
		gt.NoError(t, err).Required()
		defer w.Stop()

		first, err := nextWithin(t, w.Next, 10*time.Second)
		gt.NoError(t, err).Required()
		gt.Bool(t, first.IsEmpty()).True()

		gt.NoError(t, repo.Profile().Merge(ctx, identity, &model.ProfilePatch{
			ExercisePreferences: strPtr("swimming"),
		})).Required()

		second, err := nextWithin(t, w.Next, 10*time.Second)
		gt.NoError(t, err).Required()
		gt.Value(t, second.ExercisePreferences).Equal("swimming")
	})

	t.Run("Profiles are isolated per identity", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		alice := model.NewIdentity()
		bob := model.NewIdentity()

		gt.NoError(t, repo.Profile().Merge(ctx, alice, &model.ProfilePatch{
			Goals: strPtr("sleep more"),
		})).Required()

		w, err := repo.Profile().Watch(ctx, bob)
		gt.NoError(t, err).Required()
		defer w.Stop()

		profile, err := nextWithin(t, w.Next, 10*time.Second)
		gt.NoError(t, err).Required()
		gt.Bool(t, profile.IsEmpty()).True()
	})

	t.Run("Next after Stop reports watch stopped", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		w, err := repo.Profile().Watch(ctx, model.NewIdentity())
		gt.NoError(t, err).Required()

		_, err = nextWithin(t, w.Next, 10*time.Second)
		gt.NoError(t, err).Required()

		w.Stop()
		w.Stop()

		_, err = nextWithin(t, w.Next, 10*time.Second)
		gt.Bool(t, errors.Is(err, model.ErrWatchStopped)).True()
	})

	t.Run("Invalid identity is rejected", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Profile().Watch(ctx, "")
		gt.Error(t, err)
		gt.Error(t, repo.Profile().Merge(ctx, "a/b", &model.ProfilePatch{Goals: strPtr("x")}))
	})
}

func TestMemoryProfileRepository(t *testing.T) {
	runProfileRepositoryTest(t, newMemoryRepository)
}

func TestFirestoreProfileRepository(t *testing.T) {
	runProfileRepositoryTest(t, newFirestoreRepository)
}
