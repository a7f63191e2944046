package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/healthnav/healthnav/pkg/domain/interfaces"
	"github.com/healthnav/healthnav/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

// healthLogDocument stores the calendar date as the instant of its UTC midnight
type healthLogDocument struct {
	Date            *time.Time `firestore:"date"`
	HeartRate       *int64     `firestore:"heartRate,omitempty"`
	SleepHours      *float64   `firestore:"sleepHours,omitempty"`
	ActivityMinutes *int64     `firestore:"activityMinutes,omitempty"`
	Mood            string     `firestore:"mood,omitempty"`
	Symptoms        string     `firestore:"symptoms,omitempty"`
	Timestamp       time.Time  `firestore:"timestamp"`
}

func healthLogToDocument(log *model.HealthLog) *healthLogDocument {
	doc := &healthLogDocument{
		SleepHours: log.SleepHours,
		Mood:       log.Mood,
		Symptoms:   log.Symptoms,
		Timestamp:  log.Timestamp,
	}
	if log.Date != nil {
		instant := model.DateToInstant(*log.Date)
		doc.Date = &instant
	}
	if log.HeartRate != nil {
		v := int64(*log.HeartRate)
		doc.HeartRate = &v
	}
	if log.ActivityMinutes != nil {
		v := int64(*log.ActivityMinutes)
		doc.ActivityMinutes = &v
	}
	return doc
}

func healthLogToModel(id string, doc *healthLogDocument) *model.HealthLog {
	log := &model.HealthLog{
		ID:         model.HealthLogID(id),
		SleepHours: doc.SleepHours,
		Mood:       doc.Mood,
		Symptoms:   doc.Symptoms,
		Timestamp:  doc.Timestamp,
	}
	if doc.Date != nil {
		d := model.InstantToDate(*doc.Date)
		log.Date = &d
	}
	if doc.HeartRate != nil {
		v := int(*doc.HeartRate)
		log.HeartRate = &v
	}
	if doc.ActivityMinutes != nil {
		v := int(*doc.ActivityMinutes)
		log.ActivityMinutes = &v
	}
	return log
}

func decodeHealthLogs(snaps []*firestore.DocumentSnapshot) ([]*model.HealthLog, error) {
	logs := make([]*model.HealthLog, 0, len(snaps))
	for _, snap := range snaps {
		var doc healthLogDocument
		if err := snap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to decode health log", goerr.V("id", snap.Ref.ID))
		}
		logs = append(logs, healthLogToModel(snap.Ref.ID, &doc))
	}
	return logs, nil
}

type healthLogRepository struct {
	paths paths
}

func newHealthLogRepository(client *firestore.Client) *healthLogRepository {
	return &healthLogRepository{paths: newPaths(client)}
}

func (r *healthLogRepository) Watch(ctx context.Context, identity model.Identity) (interfaces.HealthLogWatcher, error) {
	if err := identity.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid identity for health log watch")
	}

	return &healthLogWatcher{
		ctx:  ctx,
		iter: r.paths.healthLogs(identity).Snapshots(ctx),
	}, nil
}

func (r *healthLogRepository) Append(ctx context.Context, identity model.Identity, log *model.HealthLog) (*model.HealthLog, error) {
	if err := identity.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid identity for health log append")
	}
	if err := log.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid health log")
	}

	id := log.ID
	if id == "" {
		id = model.NewHealthLogID()
	}
	doc := healthLogToDocument(log)
	if doc.Timestamp.IsZero() {
		doc.Timestamp = time.Now().UTC()
	}

	if _, err := r.paths.healthLogs(identity).Doc(string(id)).Create(ctx, doc); err != nil {
		return nil, goerr.Wrap(err, "failed to append health log",
			goerr.V("identity", identity),
			goerr.V("id", id))
	}

	return healthLogToModel(string(id), doc), nil
}

func (r *healthLogRepository) ListRecent(ctx context.Context, identity model.Identity, limit int) ([]*model.HealthLog, error) {
	if err := identity.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid identity for health log list")
	}

	q := r.paths.healthLogs(identity).
		OrderBy("date", firestore.Desc).
		OrderBy(firestore.DocumentID, firestore.Desc)
	if limit >= 0 {
		q = q.Limit(limit)
	}

	snaps, err := q.Documents(ctx).GetAll()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list health logs", goerr.V("identity", identity))
	}
	return decodeHealthLogs(snaps)
}

type healthLogWatcher struct {
	ctx  context.Context
	iter *firestore.QuerySnapshotIterator
}

func (w *healthLogWatcher) Next() ([]*model.HealthLog, error) {
	qs, err := w.iter.Next()
	if err != nil {
		return nil, watchError(w.ctx, err, "health log watch ended")
	}

	snaps, err := qs.Documents.GetAll()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read health log snapshot")
	}
	return decodeHealthLogs(snaps)
}

func (w *healthLogWatcher) Stop() {
	w.iter.Stop()
}
