package domain

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/ymmah/quality-report/internal/contract"
	"github.com/ymmah/quality-report/internal/logger"
	"github.com/ymmah/quality-report/schema"
)

// ErrDuplicateSection is returned when a short section name is already in use.
var ErrDuplicateSection = errors.New("section abbreviation is not unique")

const defaultOrganization = "Unnamed organization"

// reservedSections are abbreviations used by the report itself.
var reservedSections = []string{"MM", "PC", "PD"}

// Project is the root of the domain model. It owns the metric sources, the
// history and all other subjects, and is measurable itself.
type Project struct {
	MeasurableObject

	organization string

	mu           sync.RWMutex
	sources      map[schema.SourceKind]contract.MetricSource
	history      contract.History
	products     []*Product
	teams        []*Team
	documents    []*Document
	environments []*Environment
	sections     map[string]bool
}

// NewProject creates a project. An empty organization becomes "Unnamed organization".
func NewProject(organization, name string, opts ...Option) *Project {
	if organization == "" {
		organization = defaultOrganization
	}
	p := &Project{
		MeasurableObject: newMeasurable(name, opts...),
		organization:     organization,
		sources:          make(map[schema.SourceKind]contract.MetricSource),
		sections:         make(map[string]bool),
	}
	for _, s := range reservedSections {
		p.sections[s] = true
	}
	return p
}

// Organization returns the organization name.
func (p *Project) Organization() string { return p.organization }

// SetMetricSource binds a source instance to a source kind. One instance may
// serve several kinds.
func (p *Project) SetMetricSource(kind schema.SourceKind, source contract.MetricSource) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sources[kind] = source
}

// MetricSource implements contract.Project.
func (p *Project) MetricSource(kind schema.SourceKind) (contract.MetricSource, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	src, ok := p.sources[kind]
	return src, ok
}

// MetricSourceKinds returns the configured source kinds, sorted.
func (p *Project) MetricSourceKinds() []schema.SourceKind {
	p.mu.RLock()
	defer p.mu.RUnlock()
	kinds := make([]schema.SourceKind, 0, len(p.sources))
	for k := range p.sources {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)
	return kinds
}

// SetHistory sets the history store consulted by metrics.
func (p *Project) SetHistory(h contract.History) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.history = h
}

// History implements contract.Project.
func (p *Project) History() contract.History {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.history
}

// AddProduct adds a product, claiming its short name.
func (p *Project) AddProduct(product *Product) error {
	if err := p.claimSection(product.ShortName()); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.products = append(p.products, product)
	return nil
}

// Products returns the products of the project.
func (p *Project) Products() []*Product {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return slices.Clone(p.products)
}

// GetProduct finds a product by name.
func (p *Project) GetProduct(name string) (*Product, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, product := range p.products {
		if product.Name() == name {
			return product, true
		}
	}
	return nil, false
}

// AddTeam adds a team, claiming its short name.
func (p *Project) AddTeam(team *Team) error {
	if err := p.claimSection(team.ShortName()); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.teams = append(p.teams, team)
	return nil
}

// Teams returns the teams of the project.
func (p *Project) Teams() []*Team {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return slices.Clone(p.teams)
}

// AddDocument adds a document.
func (p *Project) AddDocument(document *Document) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.documents = append(p.documents, document)
}

// Documents returns the documents of the project.
func (p *Project) Documents() []*Document {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return slices.Clone(p.documents)
}

// AddEnvironment adds an environment.
func (p *Project) AddEnvironment(environment *Environment) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.environments = append(p.environments, environment)
}

// Environments returns the environments of the project.
func (p *Project) Environments() []*Environment {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return slices.Clone(p.environments)
}

// Subjects returns every measurable subject in report order: the project,
// then products, teams, documents and environments.
func (p *Project) Subjects() []Measurable {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := []Measurable{p}
	for _, s := range p.products {
		out = append(out, s)
	}
	for _, s := range p.teams {
		out = append(out, s)
	}
	for _, s := range p.documents {
		out = append(out, s)
	}
	for _, s := range p.environments {
		out = append(out, s)
	}
	return out
}

// ShortName returns the project's section prefix, "PD" unless configured.
func (p *Project) ShortName() string {
	if p.shortName == "" {
		return "PD"
	}
	return p.shortName
}

func (p *Project) claimSection(name string) error {
	if name == "" {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.sections[name] {
		logger.Named("domain").Error(context.Background(), "section abbreviation must be unique",
			logger.String("section", name))
		return fmt.Errorf("%w: %s", ErrDuplicateSection, name)
	}
	p.sections[name] = true
	return nil
}
