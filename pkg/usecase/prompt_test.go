package usecase_test

import (
	"testing"
	"time"

	"github.com/healthnav/healthnav/pkg/domain/model"
	"github.com/healthnav/healthnav/pkg/usecase"
	"github.com/m-mizutani/gt"
)

func TestBuildRecommendationPrompt(t *testing.T) {
	t.Run("blank fields are rendered as placeholders", func(t *testing.T) {
		prompt, err := usecase.BuildRecommendationPrompt(&model.Profile{}, []*model.HealthLog{
			{Date: datePtr(2024, time.March, 1)},
		}, 7)
		gt.NoError(t, err).Required()

		gt.String(t, prompt).Contains("Goals: Not specified")
		gt.String(t, prompt).Contains("Dietary Restrictions: None")
		gt.String(t, prompt).Contains("Genetic Predispositions (simulated): None known")
		gt.String(t, prompt).Contains("Heart Rate: N/A bpm")
		gt.String(t, prompt).Contains("Sleep Hours: N/A hours")
		gt.String(t, prompt).Contains("Mood: N/A")
		gt.String(t, prompt).Contains("Symptoms: None")
		gt.String(t, prompt).Contains(`"healthAlerts"`)
		gt.String(t, prompt).Contains(model.NoHealthAlerts)
	})

	t.Run("values are rendered verbatim", func(t *testing.T) {
		sleep := 7.5
		prompt, err := usecase.BuildRecommendationPrompt(&model.Profile{
			Goals:             "lose weight",
			MedicalConditions: "hypertension",
		}, []*model.HealthLog{{
			Date:       datePtr(2024, time.March, 1),
			HeartRate:  intPtr(80),
			SleepHours: &sleep,
			Mood:       "tired",
		}}, 7)
		gt.NoError(t, err).Required()

		gt.String(t, prompt).Contains("Goals: lose weight")
		gt.String(t, prompt).Contains("Medical Conditions (simulated): hypertension")
		gt.String(t, prompt).Contains("Date: 2024-03-01")
		gt.String(t, prompt).Contains("Heart Rate: 80 bpm")
		gt.String(t, prompt).Contains("Sleep Hours: 7.5 hours")
		gt.String(t, prompt).Contains("Mood: tired")
	})

	t.Run("no logs", func(t *testing.T) {
		prompt, err := usecase.BuildRecommendationPrompt(&model.Profile{Goals: "x"}, nil, 7)
		gt.NoError(t, err).Required()
		gt.String(t, prompt).Contains("No health logs recorded.")
	})
}
