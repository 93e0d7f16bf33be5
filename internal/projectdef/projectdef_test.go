package projectdef

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ymmah/quality-report/core/domain"
	"github.com/ymmah/quality-report/internal/contract"
	"github.com/ymmah/quality-report/internal/source"
	"github.com/ymmah/quality-report/schema"
)

func loadTestProject(t *testing.T) *domain.Project {
	t.Helper()
	def, err := Load(filepath.Join("testdata", "project.yaml"))
	require.NoError(t, err)
	project, err := Build(def, source.NewOpener())
	require.NoError(t, err)
	return project
}

func TestLoad(t *testing.T) {
	def, err := Load(filepath.Join("testdata", "project.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "Acme", def.Organization)
	assert.Equal(t, "Quality Report", def.Name)
	assert.Equal(t, IDList{"11111"}, def.MetricSourceIDs["bugs"])
	require.Len(t, def.Sources, 4)
	assert.Equal(t, []string{"BugTracker", "SecurityBugTracker"}, def.Sources[0].Kinds)
	require.Len(t, def.Products, 1)
	assert.Equal(t, IDList{
		"https://ci.example.org/app/jacoco.xml",
		"https://ci.example.org/app-int/jacoco.xml",
	}, def.Products[0].MetricSourceIDs["art"])
	assert.Equal(t, "2024-01-01", def.Products[0].MetricOptions["UnittestCoverage"].DebtTarget.StartDate)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestParse_SchemaViolations(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"empty", ""},
		{"no name", "organization: Acme\n"},
		{"unknown field", "name: P\ncolour: red\n"},
		{"unknown source type", "name: P\nsources:\n  - key: x\n    type: svn\n"},
		{"unknown source kind", "name: P\nsources:\n  - key: x\n    type: jira\n    kinds: [Wiki]\n"},
		{"bad short name", "name: P\nproducts:\n  - name: App\n    short_name: app\n"},
		{"ids as mapping", "name: P\nmetric_source_ids:\n  x:\n    a: b\n"},
		{"debt without value", "name: P\nmetric_options:\n  OpenBugs:\n    debt_target:\n      explanation: none\n"},
		{"not yaml", "name: [unclosed\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidDefinition)
		})
	}
}

func TestBuild(t *testing.T) {
	t.Setenv("QR_TEST_JIRA_PASSWORD", "s3cret")
	project := loadTestProject(t)

	t.Run("project", func(t *testing.T) {
		assert.Equal(t, "Acme", project.Organization())
		assert.Equal(t, "Quality Report", project.Name())
		assert.Equal(t, "PD", project.ShortName())
		assert.Equal(t, []string{"OpenBugs"}, project.MetricKinds())

		target, ok := project.Target("OpenBugs")
		assert.True(t, ok)
		assert.InDelta(t, 20.0, target, 1e-9)
		assert.Equal(t, "Bugs are triaged weekly.", project.MetricOptions("OpenBugs").Comment)
	})

	t.Run("sources bound per kind", func(t *testing.T) {
		bugs, ok := project.MetricSource(schema.BugTrackerSource)
		require.True(t, ok)
		security, ok := project.MetricSource(schema.SecurityBugTrackerSource)
		require.True(t, ok)
		assert.Same(t, bugs, security)
		assert.Equal(t, []string{"11111"}, project.MetricSourceID(bugs))

		_, ok = project.MetricSource(schema.ZAPScanReportSource)
		assert.False(t, ok)

		design, ok := project.MetricSource(schema.TestDesignSource)
		require.True(t, ok)
		td, ok := design.(contract.TestDesign)
		require.True(t, ok)
		assert.Equal(t, 8, td.ReviewedUserStories(context.Background()))
	})

	t.Run("sections", func(t *testing.T) {
		subjects := project.Subjects()
		require.Len(t, subjects, 5)

		app, ok := project.GetProduct("App")
		require.True(t, ok)
		assert.Equal(t, "AP", app.ShortName())

		art, _ := project.MetricSource(schema.JaCoCoSource)
		assert.Len(t, app.MetricSourceID(art), 2)

		assert.Equal(t, "Test plan", project.Documents()[0].Name())
		assert.Equal(t, "https://staging.example.org", project.Environments()[0].URL())
		assert.Equal(t, "CT", project.Teams()[0].ShortName())
	})

	t.Run("debt targets", func(t *testing.T) {
		app, _ := project.GetProduct("App")
		fixed := app.TechnicalDebtTarget("JavaDuplication")
		require.NotNil(t, fixed)
		assert.InDelta(t, 6.0, fixed.TargetValue(time.Now()), 1e-9)

		dynamic := app.TechnicalDebtTarget("UnittestCoverage")
		require.NotNil(t, dynamic)
		assert.InDelta(t, 60.0, dynamic.TargetValue(time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)), 1e-9)
		assert.InDelta(t, 98.0, dynamic.TargetValue(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)), 1e-9)

		assert.Nil(t, app.TechnicalDebtTarget("ARTCoverage"))
	})
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"duplicate source key", `
name: P
sources:
  - {key: a, type: junit}
  - {key: a, type: zap}
`},
		{"kind bound twice", `
name: P
sources:
  - {key: a, type: junit, kinds: [SystemTestReport]}
  - {key: b, type: junit, kinds: [SystemTestReport]}
`},
		{"ids for undefined source", `
name: P
metric_source_ids:
  ghost: "1"
`},
		{"jira without url", `
name: P
sources:
  - {key: a, type: jira}
`},
		{"reserved short name", `
name: P
products:
  - {name: App, short_name: MM}
`},
		{"duplicate short name", `
name: P
products:
  - {name: App, short_name: AP}
teams:
  - {name: Team, short_name: AP}
`},
		{"bad debt date", `
name: P
metric_options:
  OpenBugs:
    debt_target: {start_value: 1, start_date: soon, end_value: 0, end_date: 2024-01-01}
`},
		{"debt end before start", `
name: P
metric_options:
  OpenBugs:
    debt_target: {start_value: 1, start_date: 2024-06-01, end_value: 0, end_date: 2024-01-01}
`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def, err := Parse([]byte(tt.yaml))
			require.NoError(t, err)
			_, err = Build(def, nil)
			require.Error(t, err)
		})
	}
}

func TestIDList_Scalar(t *testing.T) {
	path := filepath.Join(t.TempDir(), "p.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: P\nsources:\n  - {key: z, type: zap}\nmetric_source_ids:\n  z: https://ci/zap.html\n"), 0o600))
	def, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, IDList{"https://ci/zap.html"}, def.MetricSourceIDs["z"])
}
