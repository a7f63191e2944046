package repository_test

import (
	"context"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/healthnav/healthnav/pkg/domain/interfaces"
	"github.com/healthnav/healthnav/pkg/domain/model"
	"github.com/m-mizutani/gt"
)

func intPtr(v int) *int { return &v }

func datePtr(y int, m time.Month, d int) *civil.Date {
	return &civil.Date{Year: y, Month: m, Day: d}
}

func runHealthLogRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Append assigns ID and round-trips the entry", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		identity := model.NewIdentity()

		created, err := repo.HealthLog().Append(ctx, identity, &model.HealthLog{
			Date:      datePtr(2024, time.March, 1),
			HeartRate: intPtr(72),
			Mood:      "good",
		})
		gt.NoError(t, err).Required()
		gt.Value(t, created.ID).NotEqual(model.HealthLogID(""))
		gt.Bool(t, created.Timestamp.IsZero()).False()

		w, err := repo.HealthLog().Watch(ctx, identity)
		gt.NoError(t, err).Required()
		defer w.Stop()

		logs, err := nextWithin(t, w.Next, 10*time.Second)
		gt.NoError(t, err).Required()
		gt.Array(t, logs).Length(1).Required()

		got := logs[0]
		gt.Value(t, got.ID).Equal(created.ID)
		gt.Value(t, *got.Date).Equal(civil.Date{Year: 2024, Month: time.March, Day: 1})
		gt.Value(t, *got.HeartRate).Equal(72)
		gt.Value(t, got.SleepHours).Nil()
		gt.Value(t, got.ActivityMinutes).Nil()
		gt.Value(t, got.Mood).Equal("good")
		gt.Value(t, got.Symptoms).Equal("")
	})

	t.Run("Append rejects entry without date", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.HealthLog().Append(ctx, model.NewIdentity(), &model.HealthLog{
			HeartRate: intPtr(60),
		})
		gt.Error(t, err)
	})

	t.Run("Watch yields empty snapshot for new identity", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		w, err := repo.HealthLog().Watch(ctx, model.NewIdentity())
		gt.NoError(t, err).Required()
		defer w.Stop()

		logs, err := nextWithin(t, w.Next, 10*time.Second)
		gt.NoError(t, err).Required()
		gt.Array(t, logs).Length(0)
	})

	t.Run("Watch delivers appended entries", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		identity := model.NewIdentity()

		w, err := repo.HealthLog().Watch(ctx, identity)
		gt.NoError(t, err).Required()
		defer w.Stop()

		logs, err := nextWithin(t, w.Next, 10*time.Second)
		gt.NoError(t, err).Required()
		gt.Array(t, logs).Length(0)

		_, err = repo.HealthLog().Append(ctx, identity, &model.HealthLog{
			Date:     datePtr(2024, time.March, 2),
			Symptoms: "headache",
		})
		gt.NoError(t, err).Required()

		logs, err = nextWithin(t, w.Next, 10*time.Second)
		gt.NoError(t, err).Required()
		gt.Array(t, logs).Length(1)
		gt.Value(t, logs[0].Symptoms).Equal("headache")
	})

	t.Run("ListRecent returns newest dated entries first", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		identity := model.NewIdentity()

		for _, day := range []int{3, 1, 5, 2, 4} {
			_, err := repo.HealthLog().Append(ctx, identity, &model.HealthLog{
				Date: datePtr(2024, time.April, day),
			})
			gt.NoError(t, err).Required()
		}

		logs, err := repo.HealthLog().ListRecent(ctx, identity, 3)
		gt.NoError(t, err).Required()
		gt.Array(t, logs).Length(3).Required()
		gt.Value(t, logs[0].Date.Day).Equal(5)
		gt.Value(t, logs[1].Date.Day).Equal(4)
		gt.Value(t, logs[2].Date.Day).Equal(3)
	})
}

func TestMemoryHealthLogRepository(t *testing.T) {
	runHealthLogRepositoryTest(t, newMemoryRepository)
}

func TestFirestoreHealthLogRepository(t *testing.T) {
	runHealthLogRepositoryTest(t, newFirestoreRepository)
}
