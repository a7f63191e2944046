package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/healthnav/healthnav/pkg/domain/interfaces"
	"github.com/healthnav/healthnav/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

type profileDocument struct {
	Goals                  string `firestore:"goals"`
	DietaryRestrictions    string `firestore:"dietaryRestrictions"`
	ExercisePreferences    string `firestore:"exercisePreferences"`
	GeneticPredispositions string `firestore:"geneticPredispositions"`
	MedicalConditions      string `firestore:"medicalConditions"`
}

func profileToModel(doc *profileDocument) *model.Profile {
	return &model.Profile{
		Goals:                  doc.Goals,
		DietaryRestrictions:    doc.DietaryRestrictions,
		ExercisePreferences:    doc.ExercisePreferences,
		GeneticPredispositions: doc.GeneticPredispositions,
		MedicalConditions:      doc.MedicalConditions,
	}
}

type profileRepository struct {
	paths paths
}

func newProfileRepository(client *firestore.Client) *profileRepository {
	return &profileRepository{paths: newPaths(client)}
}

func (r *profileRepository) Watch(ctx context.Context, identity model.Identity) (interfaces.ProfileWatcher, error) {
	if err := identity.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid identity for profile watch")
	}

	return &profileWatcher{
		ctx:      ctx,
		identity: identity,
		iter:     r.paths.profile(identity).Snapshots(ctx),
	}, nil
}

func (r *profileRepository) Merge(ctx context.Context, identity model.Identity, patch *model.ProfilePatch) error {
	if err := identity.Validate(); err != nil {
		return goerr.Wrap(err, "invalid identity for profile merge")
	}

	fields := patch.Fields()
	if len(fields) == 0 {
		return nil
	}

	data := make(map[string]any, len(fields))
	for k, v := range fields {
		data[k] = v
	}

	if _, err := r.paths.profile(identity).Set(ctx, data, firestore.MergeAll); err != nil {
		return goerr.Wrap(err, "failed to merge profile", goerr.V("identity", identity))
	}
	return nil
}

type profileWatcher struct {
	ctx      context.Context
	identity model.Identity
	iter     *firestore.DocumentSnapshotIterator
}

func (w *profileWatcher) Next() (*model.Profile, error) {
	snap, err := w.iter.Next()
	if err != nil {
		return nil, watchError(w.ctx, err, "profile watch ended")
	}
	if !snap.Exists() {
		return &model.Profile{}, nil
	}

	var doc profileDocument
	if err := snap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to decode profile", goerr.V("identity", w.identity))
	}
	return profileToModel(&doc), nil
}

func (w *profileWatcher) Stop() {
	w.iter.Stop()
}
