package model

import "strings"

// Profile field names as stored in the document store
const (
	ProfileFieldGoals                  = "goals"
	ProfileFieldDietaryRestrictions    = "dietaryRestrictions"
	ProfileFieldExercisePreferences    = "exercisePreferences"
	ProfileFieldGeneticPredispositions = "geneticPredispositions"
	ProfileFieldMedicalConditions      = "medicalConditions"
)

// Profile is the single per-identity profile document. A missing document is
// equivalent to a Profile with every field empty.
type Profile struct {
	Goals                  string `json:"goals"`
	DietaryRestrictions    string `json:"dietaryRestrictions"`
	ExercisePreferences    string `json:"exercisePreferences"`
	GeneticPredispositions string `json:"geneticPredispositions"` // simulated / self-reported
	MedicalConditions      string `json:"medicalConditions"`      // simulated / self-reported
}

// IsEmpty reports whether every field is blank
func (p *Profile) IsEmpty() bool {
	if p == nil {
		return true
	}
	for _, v := range []string{
		p.Goals,
		p.DietaryRestrictions,
		p.ExercisePreferences,
		p.GeneticPredispositions,
		p.MedicalConditions,
	} {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// ProfilePatch is a partial profile for merge-writes. Nil fields are left
// untouched in the store; non-nil fields (including empty strings) overwrite.
type ProfilePatch struct {
	Goals                  *string `json:"goals,omitempty"`
	DietaryRestrictions    *string `json:"dietaryRestrictions,omitempty"`
	ExercisePreferences    *string `json:"exercisePreferences,omitempty"`
	GeneticPredispositions *string `json:"geneticPredispositions,omitempty"`
	MedicalConditions      *string `json:"medicalConditions,omitempty"`
}

// Fields returns the present fields keyed by their stored name
func (p *ProfilePatch) Fields() map[string]string {
	fields := make(map[string]string)
	if p == nil {
		return fields
	}

	set := func(name string, v *string) {
		if v != nil {
			fields[name] = *v
		}
	}
	set(ProfileFieldGoals, p.Goals)
	set(ProfileFieldDietaryRestrictions, p.DietaryRestrictions)
	set(ProfileFieldExercisePreferences, p.ExercisePreferences)
	set(ProfileFieldGeneticPredispositions, p.GeneticPredispositions)
	set(ProfileFieldMedicalConditions, p.MedicalConditions)

	return fields
}

// IsEmpty reports whether the patch carries no field at all
func (p *ProfilePatch) IsEmpty() bool {
	return len(p.Fields()) == 0
}

// ProfileFromFields builds a Profile from stored field values. Unknown keys are ignored.
func ProfileFromFields(fields map[string]string) *Profile {
	return &Profile{
		Goals:                  fields[ProfileFieldGoals],
		DietaryRestrictions:    fields[ProfileFieldDietaryRestrictions],
		ExercisePreferences:    fields[ProfileFieldExercisePreferences],
		GeneticPredispositions: fields[ProfileFieldGeneticPredispositions],
		MedicalConditions:      fields[ProfileFieldMedicalConditions],
	}
}
