package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/ymmah/quality-report/internal/contract"
	"github.com/ymmah/quality-report/schema"
)

type stubSource struct{ key string }

func (s stubSource) Key() string                             { return s.key }
func (s stubSource) Name() string                            { return s.key }
func (s stubSource) NeedsID() bool                           { return true }
func (s stubSource) URL() string                             { return "" }
func (s stubSource) MetricSourceURLs(ids ...string) []string { return ids }

func ptr(v float64) *float64 { return &v }

func TestMeasurableObject(t *testing.T) {
	convey.Convey("Given a product with metric options and source ids", t, func() {
		jira := stubSource{key: "jira"}
		sonar := stubSource{key: "sonar"}
		debt := NewTechnicalDebtTarget(75, "Legacy code.")
		product := NewProduct("Product A",
			WithShortName("PA"),
			WithURL("https://product.example.org"),
			WithMetricSourceIDs("jira", "101", "102"),
			WithMetricSourceOptions("sonar", map[string]string{"branch": "main"}),
			WithMetricOptions("OpenBugs", contract.MetricOptions{
				Target:     ptr(10),
				LowTarget:  ptr(20),
				DebtTarget: debt,
				Comment:    "Known issue.",
			}),
			WithMetricKinds("OpenBugs", "JavaDuplication"),
		)

		convey.Convey("Then identity is kept", func() {
			convey.So(product.Name(), convey.ShouldEqual, "Product A")
			convey.So(product.ShortName(), convey.ShouldEqual, "PA")
			convey.So(product.URL(), convey.ShouldEqual, "https://product.example.org")
		})

		convey.Convey("Then overrides are returned per kind", func() {
			target, ok := product.Target("OpenBugs")
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(target, convey.ShouldEqual, 10)
			low, ok := product.LowTarget("OpenBugs")
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(low, convey.ShouldEqual, 20)
			convey.So(product.TechnicalDebtTarget("OpenBugs"), convey.ShouldResemble, debt)
			convey.So(product.MetricOptions("OpenBugs").Comment, convey.ShouldEqual, "Known issue.")
		})

		convey.Convey("Then unknown kinds have no overrides", func() {
			_, ok := product.Target("JavaDuplication")
			convey.So(ok, convey.ShouldBeFalse)
			_, ok = product.LowTarget("JavaDuplication")
			convey.So(ok, convey.ShouldBeFalse)
			convey.So(product.TechnicalDebtTarget("JavaDuplication"), convey.ShouldBeNil)
		})

		convey.Convey("Then source ids are looked up by source key", func() {
			convey.So(product.MetricSourceID(jira), convey.ShouldResemble, []string{"101", "102"})
			convey.So(product.MetricSourceID(sonar), convey.ShouldBeEmpty)
			convey.So(product.MetricSourceID(nil), convey.ShouldBeNil)
			convey.So(product.MetricSourceIDFromAny([]contract.MetricSource{sonar, jira}), convey.ShouldResemble, []string{"101", "102"})
			convey.So(product.MetricSourceIDFromAny([]contract.MetricSource{sonar}), convey.ShouldBeNil)
			convey.So(product.MetricSourceOptions(sonar), convey.ShouldResemble, map[string]string{"branch": "main"})
		})

		convey.Convey("Then metric kinds are matched case-insensitively", func() {
			convey.So(product.MetricKinds(), convey.ShouldResemble, []string{"OpenBugs", "JavaDuplication"})
			convey.So(product.HasMetricKind("openbugs"), convey.ShouldBeTrue)
			convey.So(product.HasMetricKind("OpenFindings"), convey.ShouldBeFalse)
		})

		convey.Convey("Then metric options are found whatever the kind's case", func() {
			target, ok := product.Target("openbugs")
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(target, convey.ShouldEqual, 10)
			convey.So(product.TechnicalDebtTarget("OPENBUGS"), convey.ShouldResemble, debt)
			convey.So(product.MetricOptionKinds(), convey.ShouldResemble, []string{"openbugs"})
		})
	})

	convey.Convey("Given metric options keyed by a lower-case kind", t, func() {
		team := NewTeam("Team", WithMetricOptions(" openbugs ", contract.MetricOptions{LowTarget: ptr(8)}))
		low, ok := team.LowTarget("OpenBugs")
		convey.So(ok, convey.ShouldBeTrue)
		convey.So(low, convey.ShouldEqual, 8)
		convey.So(team.MetricOptions("OpenBugs").LowTarget, convey.ShouldNotBeNil)
	})

	convey.Convey("Given an unnamed team", t, func() {
		team := NewTeam("")
		convey.So(team.Name(), convey.ShouldEqual, "<no name>")
	})
}

func TestProject(t *testing.T) {
	convey.Convey("Given a new project", t, func() {
		project := NewProject("", "Quality")

		convey.So(project.Organization(), convey.ShouldEqual, "Unnamed organization")
		convey.So(project.ShortName(), convey.ShouldEqual, "PD")

		convey.Convey("When binding one source instance to two kinds", func() {
			jira := stubSource{key: "jira"}
			project.SetMetricSource(schema.BugTrackerSource, jira)
			project.SetMetricSource(schema.SecurityBugTrackerSource, jira)

			convey.Convey("Then both kinds resolve to it", func() {
				src, ok := project.MetricSource(schema.BugTrackerSource)
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(src, convey.ShouldEqual, jira)
				src, ok = project.MetricSource(schema.SecurityBugTrackerSource)
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(src, convey.ShouldEqual, jira)
				convey.So(project.MetricSourceKinds(), convey.ShouldResemble,
					[]schema.SourceKind{schema.BugTrackerSource, schema.SecurityBugTrackerSource})
			})

			convey.Convey("Then unbound kinds are missing", func() {
				_, ok := project.MetricSource(schema.SonarSource)
				convey.So(ok, convey.ShouldBeFalse)
			})
		})

		convey.Convey("When adding products and teams", func() {
			convey.So(project.AddProduct(NewProduct("Product A", WithShortName("PA"))), convey.ShouldBeNil)
			convey.So(project.AddTeam(NewTeam("Team T", WithShortName("TT"))), convey.ShouldBeNil)
			project.AddDocument(NewDocument("Plan"))
			project.AddEnvironment(NewEnvironment("Production"))

			convey.Convey("Then they are listed in report order", func() {
				subjects := project.Subjects()
				convey.So(len(subjects), convey.ShouldEqual, 5)
				convey.So(subjects[0].Name(), convey.ShouldEqual, "Quality")
				convey.So(subjects[1].Name(), convey.ShouldEqual, "Product A")
				convey.So(subjects[2].Name(), convey.ShouldEqual, "Team T")
				convey.So(subjects[3].Name(), convey.ShouldEqual, "Plan")
				convey.So(subjects[4].Name(), convey.ShouldEqual, "Production")
			})

			convey.Convey("Then products can be found by name", func() {
				product, ok := project.GetProduct("Product A")
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(product.ShortName(), convey.ShouldEqual, "PA")
				_, ok = project.GetProduct("Product B")
				convey.So(ok, convey.ShouldBeFalse)
			})

			convey.Convey("Then a duplicate short name is refused", func() {
				err := project.AddTeam(NewTeam("Team U", WithShortName("PA")))
				convey.So(errors.Is(err, ErrDuplicateSection), convey.ShouldBeTrue)
				convey.So(len(project.Teams()), convey.ShouldEqual, 1)
			})
		})

		convey.Convey("When adding a product with a reserved short name", func() {
			for _, reserved := range []string{"MM", "PC", "PD"} {
				err := project.AddProduct(NewProduct("Reserved", WithShortName(reserved)))
				convey.So(errors.Is(err, ErrDuplicateSection), convey.ShouldBeTrue)
			}
			convey.So(project.Products(), convey.ShouldBeEmpty)
		})
	})
}

func TestTechnicalDebtTarget(t *testing.T) {
	convey.Convey("Given a fixed debt target", t, func() {
		debt := NewTechnicalDebtTarget(100, "Migration pending.")

		convey.So(debt.TargetValue(time.Now()), convey.ShouldEqual, 100)
		convey.So(debt.Explanation(time.Now(), "open bugs"), convey.ShouldEqual,
			"The currently accepted technical debt is 100 open bugs. Migration pending.")
		convey.So(debt.Explanation(time.Now(), "%"), convey.ShouldEqual,
			"The currently accepted technical debt is 100%. Migration pending.")
		convey.So(NewTechnicalDebtTarget(5, "").Explanation(time.Now(), ""), convey.ShouldEqual,
			"The currently accepted technical debt is 5.")
	})

	convey.Convey("Given a dynamic debt target", t, func() {
		start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(2024, 1, 11, 0, 0, 0, 0, time.UTC)
		debt, err := NewDynamicTechnicalDebtTarget(100, start, 0, end, "Paying off.")
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("Then the value is clamped outside the period", func() {
			convey.So(debt.TargetValue(start.AddDate(0, 0, -5)), convey.ShouldEqual, 100)
			convey.So(debt.TargetValue(start), convey.ShouldEqual, 100)
			convey.So(debt.TargetValue(end), convey.ShouldEqual, 0)
			convey.So(debt.TargetValue(end.AddDate(1, 0, 0)), convey.ShouldEqual, 0)
		})

		convey.Convey("Then the value is interpolated inside the period", func() {
			convey.So(debt.TargetValue(start.AddDate(0, 0, 5)), convey.ShouldAlmostEqual, 50, 0.0001)
			convey.So(debt.TargetValue(start.AddDate(0, 0, 2)), convey.ShouldAlmostEqual, 80, 0.0001)
		})

		convey.Convey("Then the explanation uses the value at the given time", func() {
			convey.So(debt.Explanation(start.AddDate(0, 0, 5), "violations"), convey.ShouldEqual,
				"The currently accepted technical debt is 50 violations. Paying off.")
			convey.So(debt.Explanation(end, "violations"), convey.ShouldEqual,
				"The currently accepted technical debt is 0 violations. Paying off.")
		})

		convey.Convey("Then an inverted period is refused", func() {
			_, err := NewDynamicTechnicalDebtTarget(1, end, 0, start, "")
			convey.So(err, convey.ShouldNotBeNil)
		})
	})
}
