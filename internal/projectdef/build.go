package projectdef

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ymmah/quality-report/core/domain"
	"github.com/ymmah/quality-report/internal/contract"
	"github.com/ymmah/quality-report/internal/source"
	"github.com/ymmah/quality-report/schema"
)

var dateLayouts = []string{"2006-01-02", time.RFC3339}

// Build turns a definition into a project with its sources bound. HTTP
// sources share opener.
func Build(def *Definition, opener *source.Opener) (*domain.Project, error) {
	sourceKeys := make(map[string]bool, len(def.Sources))
	for _, s := range def.Sources {
		sourceKeys[s.Key] = true
	}

	opts, err := measurableOptions(def.Measurable, sourceKeys)
	if err != nil {
		return nil, fmt.Errorf("project %s: %w", def.Name, err)
	}
	project := domain.NewProject(def.Organization, def.Name, opts...)

	if err := bindSources(project, def.Sources, opener); err != nil {
		return nil, err
	}

	for _, m := range def.Products {
		opts, err := measurableOptions(m, sourceKeys)
		if err != nil {
			return nil, fmt.Errorf("product %s: %w", m.Name, err)
		}
		if err := project.AddProduct(domain.NewProduct(m.Name, opts...)); err != nil {
			return nil, fmt.Errorf("product %s: %w", m.Name, err)
		}
	}
	for _, m := range def.Teams {
		opts, err := measurableOptions(m, sourceKeys)
		if err != nil {
			return nil, fmt.Errorf("team %s: %w", m.Name, err)
		}
		if err := project.AddTeam(domain.NewTeam(m.Name, opts...)); err != nil {
			return nil, fmt.Errorf("team %s: %w", m.Name, err)
		}
	}
	for _, m := range def.Documents {
		opts, err := measurableOptions(m, sourceKeys)
		if err != nil {
			return nil, fmt.Errorf("document %s: %w", m.Name, err)
		}
		project.AddDocument(domain.NewDocument(m.Name, opts...))
	}
	for _, m := range def.Environments {
		opts, err := measurableOptions(m, sourceKeys)
		if err != nil {
			return nil, fmt.Errorf("environment %s: %w", m.Name, err)
		}
		project.AddEnvironment(domain.NewEnvironment(m.Name, opts...))
	}
	return project, nil
}

func bindSources(project *domain.Project, sources []Source, opener *source.Opener) error {
	seen := make(map[string]bool, len(sources))
	bound := make(map[schema.SourceKind]string)
	for _, s := range sources {
		if seen[s.Key] {
			return fmt.Errorf("%w: duplicate source key %q", ErrInvalidDefinition, s.Key)
		}
		seen[s.Key] = true

		src, err := source.Build(source.Spec{
			Key:      s.Key,
			Type:     s.Type,
			Name:     s.Name,
			URL:      s.URL,
			APIURL:   s.APIURL,
			Username: s.Username,
			Password: os.ExpandEnv(s.Password),
			Token:    os.ExpandEnv(s.Token),
			Values:   s.Values,
		}, opener)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidDefinition, err)
		}
		for _, k := range s.Kinds {
			kind := schema.SourceKind(k)
			if _, ok := schema.ValidSourceKinds[kind]; !ok {
				return fmt.Errorf("%w: source %q: unknown source kind %q", ErrInvalidDefinition, s.Key, k)
			}
			if prev, ok := bound[kind]; ok {
				return fmt.Errorf("%w: source kind %s bound to both %q and %q", ErrInvalidDefinition, k, prev, s.Key)
			}
			bound[kind] = s.Key
			project.SetMetricSource(kind, src)
		}
	}
	return nil
}

func measurableOptions(m Measurable, sourceKeys map[string]bool) ([]domain.Option, error) {
	opts := []domain.Option{
		domain.WithShortName(m.ShortName),
		domain.WithURL(m.URL),
		domain.WithMetricKinds(m.Metrics...),
	}
	for key, ids := range m.MetricSourceIDs {
		if !sourceKeys[key] {
			return nil, fmt.Errorf("%w: metric source ids for undefined source %q", ErrInvalidDefinition, key)
		}
		opts = append(opts, domain.WithMetricSourceIDs(key, ids...))
	}
	for key, options := range m.MetricSourceOptions {
		if !sourceKeys[key] {
			return nil, fmt.Errorf("%w: metric source options for undefined source %q", ErrInvalidDefinition, key)
		}
		opts = append(opts, domain.WithMetricSourceOptions(key, options))
	}
	for kind, o := range m.MetricOptions {
		options := contract.MetricOptions{
			Target:    o.Target,
			LowTarget: o.LowTarget,
			Comment:   strings.TrimSpace(o.Comment),
		}
		if o.DebtTarget != nil {
			debt, err := debtTarget(*o.DebtTarget)
			if err != nil {
				return nil, fmt.Errorf("metric %s: %w", kind, err)
			}
			options.DebtTarget = debt
		}
		opts = append(opts, domain.WithMetricOptions(kind, options))
	}
	return opts, nil
}

func debtTarget(d DebtTarget) (contract.DebtTarget, error) {
	if d.Value != nil {
		return domain.NewTechnicalDebtTarget(*d.Value, d.Explanation), nil
	}
	if d.StartValue == nil || d.EndValue == nil {
		return nil, fmt.Errorf("%w: debt target needs a value or start and end values", ErrInvalidDefinition)
	}
	start, err := parseDate(d.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := parseDate(d.EndDate)
	if err != nil {
		return nil, err
	}
	target, err := domain.NewDynamicTechnicalDebtTarget(*d.StartValue, start, *d.EndValue, end, d.Explanation)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDefinition, err)
	}
	return target, nil
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: invalid date %q", ErrInvalidDefinition, s)
}
