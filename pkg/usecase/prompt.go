package usecase

import (
	"bytes"
	_ "embed"
	"strconv"
	"strings"
	"text/template"

	"github.com/healthnav/healthnav/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

//go:embed prompt/recommendation.md
var recommendationPromptTmpl string

var recommendationPrompt = template.Must(template.New("recommendation").Parse(recommendationPromptTmpl))

// DefaultRecentLogLimit is the number of most recent logs embedded in a prompt
const DefaultRecentLogLimit = 7

const (
	placeholderNotSpecified = "Not specified"
	placeholderNone         = "None"
	placeholderNoneKnown    = "None known"
	placeholderNA           = "N/A"
)

type promptProfile struct {
	Goals                  string
	DietaryRestrictions    string
	ExercisePreferences    string
	GeneticPredispositions string
	MedicalConditions      string
}

type promptLog struct {
	Date            string
	HeartRate       string
	SleepHours      string
	ActivityMinutes string
	Mood            string
	Symptoms        string
}

type recommendationPromptData struct {
	Profile  promptProfile
	Logs     []promptLog
	Limit    int
	NoAlerts string
	Fields   []string
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func intOrNA(v *int) string {
	if v == nil {
		return placeholderNA
	}
	return strconv.Itoa(*v)
}

func floatOrNA(v *float64) string {
	if v == nil {
		return placeholderNA
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// buildRecommendationPrompt renders the instruction block. logs must already
// be in display order; only the first limit entries are embedded.
func buildRecommendationPrompt(profile *model.Profile, logs []*model.HealthLog, limit int) (string, error) {
	if profile == nil {
		profile = &model.Profile{}
	}

	data := recommendationPromptData{
		Profile: promptProfile{
			Goals:                  orDefault(profile.Goals, placeholderNotSpecified),
			DietaryRestrictions:    orDefault(profile.DietaryRestrictions, placeholderNone),
			ExercisePreferences:    orDefault(profile.ExercisePreferences, placeholderNone),
			GeneticPredispositions: orDefault(profile.GeneticPredispositions, placeholderNoneKnown),
			MedicalConditions:      orDefault(profile.MedicalConditions, placeholderNone),
		},
		Limit:    limit,
		NoAlerts: model.NoHealthAlerts,
		Fields:   model.RecommendationFields(),
	}

	for _, log := range model.RecentHealthLogs(logs, limit) {
		date := placeholderNA
		if log.Date != nil {
			date = log.Date.String()
		}
		data.Logs = append(data.Logs, promptLog{
			Date:            date,
			HeartRate:       intOrNA(log.HeartRate),
			SleepHours:      floatOrNA(log.SleepHours),
			ActivityMinutes: intOrNA(log.ActivityMinutes),
			Mood:            orDefault(log.Mood, placeholderNA),
			Symptoms:        orDefault(log.Symptoms, placeholderNone),
		})
	}

	var buf bytes.Buffer
	if err := recommendationPrompt.Execute(&buf, data); err != nil {
		return "", goerr.Wrap(err, "failed to render recommendation prompt")
	}
	return buf.String(), nil
}
