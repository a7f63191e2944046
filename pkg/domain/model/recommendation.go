package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"

	"github.com/m-mizutani/goerr/v2"
)

// NoHealthAlerts is the reserved alert text meaning the model found nothing
// worth raising. It is different from a nil alert, which means no result yet.
const NoHealthAlerts = "None identified."

// Recommendation output field names, in the order the model must return them
const (
	FieldDietaryRecommendations     = "dietaryRecommendations"
	FieldExerciseRecommendations    = "exerciseRecommendations"
	FieldStressManagementTechniques = "stressManagementTechniques"
	FieldHealthAlerts               = "healthAlerts"
)

// RecommendationFields lists the output fields in their fixed order
func RecommendationFields() []string {
	return []string{
		FieldDietaryRecommendations,
		FieldExerciseRecommendations,
		FieldStressManagementTechniques,
		FieldHealthAlerts,
	}
}

// RecommendationResult is one model answer. It is never persisted.
type RecommendationResult struct {
	DietaryRecommendations     string `json:"dietaryRecommendations"`
	ExerciseRecommendations    string `json:"exerciseRecommendations"`
	StressManagementTechniques string `json:"stressManagementTechniques"`
	HealthAlerts               string `json:"healthAlerts"`
}

// HasAlerts reports whether the alerts field carries an actual alert
func (x *RecommendationResult) HasAlerts() bool {
	return x.HealthAlerts != "" && x.HealthAlerts != NoHealthAlerts
}

// Advice returns the three advice fields without the alerts
func (x *RecommendationResult) Advice() *Advice {
	return &Advice{
		DietaryRecommendations:     x.DietaryRecommendations,
		ExerciseRecommendations:    x.ExerciseRecommendations,
		StressManagementTechniques: x.StressManagementTechniques,
	}
}

// Advice is the part of a result rendered as recommendations, kept apart
// from the alerts panel.
type Advice struct {
	DietaryRecommendations     string `json:"dietaryRecommendations"`
	ExerciseRecommendations    string `json:"exerciseRecommendations"`
	StressManagementTechniques string `json:"stressManagementTechniques"`
}

// FallbackRecommendation is shown in place of a result when generation failed.
// detail ends up in the alerts field.
func FallbackRecommendation(detail string) *RecommendationResult {
	return &RecommendationResult{
		DietaryRecommendations:     "Error generating recommendations. Please try again later.",
		ExerciseRecommendations:    "Exercise recommendations are unavailable right now.",
		StressManagementTechniques: "Stress management techniques are unavailable right now.",
		HealthAlerts:               "Error checking for alerts: " + detail,
	}
}

// ErrMalformedRecommendation is returned when model output does not match the
// declared four-field shape
var ErrMalformedRecommendation = errors.New("malformed recommendation document")

// ParseRecommendation decodes model output strictly: a single JSON object with
// exactly the four declared string fields. Missing, null, non-string and
// unknown fields are all rejected.
func ParseRecommendation(raw string) (*RecommendationResult, error) {
	var doc struct {
		DietaryRecommendations     *string `json:"dietaryRecommendations"`
		ExerciseRecommendations    *string `json:"exerciseRecommendations"`
		StressManagementTechniques *string `json:"stressManagementTechniques"`
		HealthAlerts               *string `json:"healthAlerts"`
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, goerr.Wrap(errors.Join(ErrMalformedRecommendation, err), "failed to decode recommendation document")
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, goerr.Wrap(ErrMalformedRecommendation, "trailing data after recommendation document")
	}

	fields := []struct {
		name  string
		value *string
	}{
		{FieldDietaryRecommendations, doc.DietaryRecommendations},
		{FieldExerciseRecommendations, doc.ExerciseRecommendations},
		{FieldStressManagementTechniques, doc.StressManagementTechniques},
		{FieldHealthAlerts, doc.HealthAlerts},
	}
	for _, f := range fields {
		if f.value == nil {
			return nil, goerr.Wrap(ErrMalformedRecommendation, "required field is missing", goerr.V("field", f.name))
		}
	}

	return &RecommendationResult{
		DietaryRecommendations:     *doc.DietaryRecommendations,
		ExerciseRecommendations:    *doc.ExerciseRecommendations,
		StressManagementTechniques: *doc.StressManagementTechniques,
		HealthAlerts:               *doc.HealthAlerts,
	}, nil
}

// RecommendationState is what a client observes for one identity: the last
// advice and alerts, whether a request is in flight, and the last user-facing
// error. Advice and HealthAlerts stay nil until a request completes.
type RecommendationState struct {
	Advice       *Advice `json:"recommendations"`
	HealthAlerts *string `json:"healthAlerts"`
	Loading      bool    `json:"loading"`
	Error        string  `json:"error,omitempty"`
	Sequence     uint64  `json:"sequence"`
}
