package cli_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/m-mizutani/gt"

	"github.com/healthnav/healthnav/pkg/cli"
	"github.com/healthnav/healthnav/pkg/domain/model"
	"github.com/healthnav/healthnav/pkg/usecase"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "healthnav.toml")
	gt.NoError(t, os.WriteFile(path, []byte(content), 0o600)).Required()
	return path
}

func TestRun_ValidateCommand(t *testing.T) {
	ctx := context.Background()

	t.Run("valid config", func(t *testing.T) {
		path := writeConfig(t, `
app_id = "health-navigator-app-v1"
recent_log_limit = 7
`)
		err := cli.Run(ctx, []string{"healthnav", "validate", "--config", path}, "test")
		gt.NoError(t, err)
	})

	t.Run("invalid config", func(t *testing.T) {
		path := writeConfig(t, `recent_log_limit = -1`)
		err := cli.Run(ctx, []string{"healthnav", "validate", "--config", path}, "test")
		gt.Error(t, err)
	})

	t.Run("short session secret", func(t *testing.T) {
		path := writeConfig(t, ``)
		err := cli.Run(ctx, []string{"healthnav", "validate", "--config", path, "--session-secret", "short"}, "test")
		gt.Error(t, err)
	})

	t.Run("config is required", func(t *testing.T) {
		err := cli.Run(ctx, []string{"healthnav", "validate"}, "test")
		gt.Error(t, err)
	})
}

func TestRun_RecommendCommand_InsufficientData(t *testing.T) {
	err := cli.Run(context.Background(), []string{
		"healthnav", "recommend",
		"--identity", "someone",
		"--repository-backend", "memory",
		"--proxy-url", "http://127.0.0.1:1/generateHealthRecommendations",
		"--session-secret", strings.Repeat("s", 32),
	}, "test")
	gt.Bool(t, errors.Is(err, usecase.ErrInsufficientData)).True()
}

func TestRun_RecommendCommand_RejectsReservedIdentity(t *testing.T) {
	for _, identity := range []string{"..", "__users__"} {
		err := cli.Run(context.Background(), []string{
			"healthnav", "recommend",
			"--identity", identity,
			"--repository-backend", "memory",
			"--proxy-url", "http://127.0.0.1:1/generateHealthRecommendations",
			"--session-secret", strings.Repeat("s", 32),
		}, "test")
		gt.Error(t, err)
		gt.Bool(t, errors.Is(err, usecase.ErrInsufficientData)).False()
		gt.String(t, err.Error()).Contains("invalid identity")
	}
}

func TestPrintRecommendation(t *testing.T) {
	color.NoColor = true

	t.Run("alerts come first", func(t *testing.T) {
		var buf bytes.Buffer
		cli.PrintRecommendation(&buf, &model.RecommendationResult{
			DietaryRecommendations:     "Eat greens",
			ExerciseRecommendations:    "Walk",
			StressManagementTechniques: "Breathe",
			HealthAlerts:               "See a doctor about your heart rate",
		})

		out := buf.String()
		gt.String(t, out).Contains("Eat greens")
		gt.Bool(t, strings.Index(out, "Health Alerts") < strings.Index(out, "Dietary Recommendations")).True()
	})

	t.Run("no alerts", func(t *testing.T) {
		var buf bytes.Buffer
		cli.PrintRecommendation(&buf, &model.RecommendationResult{
			DietaryRecommendations: "Eat greens",
			HealthAlerts:           model.NoHealthAlerts,
		})

		out := buf.String()
		gt.Bool(t, strings.Contains(out, "Health Alerts")).False()
		gt.String(t, out).Contains("No health alerts.")
	})
}

func TestGetIndexConfig(t *testing.T) {
	cfg := cli.GetIndexConfig()
	gt.Array(t, cfg.Collections).Length(1).Required()
	gt.Value(t, cfg.Collections[0].Name).Equal("healthLogs")

	// Firestore rejects composite indexes covering a single field
	for _, col := range cfg.Collections {
		for _, idx := range col.Indexes {
			fields := 0
			for _, f := range idx.Fields {
				if f.Path != "__name__" {
					fields++
				}
			}
			gt.Number(t, fields).GreaterOrEqual(2)
		}
	}
}
