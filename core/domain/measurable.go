package domain

import (
	"maps"
	"slices"
	"strings"

	"github.com/ymmah/quality-report/internal/contract"
)

// MeasurableObject carries the per-subject configuration metrics consult:
// source ids, source options and per-kind metric options.
type MeasurableObject struct {
	DomainObject

	metricSourceIDs     map[string][]string
	metricSourceOptions map[string]map[string]string
	metricOptions       map[string]contract.MetricOptions
	metricKinds         []string
}

// Option configures a MeasurableObject.
type Option func(*MeasurableObject)

// WithShortName sets the short name used as metric id prefix.
func WithShortName(short string) Option {
	return func(o *MeasurableObject) { o.shortName = short }
}

// WithURL sets the object's URL.
func WithURL(url string) Option {
	return func(o *MeasurableObject) { o.url = url }
}

// WithMetricSourceIDs binds ids to the source instance with the given key.
func WithMetricSourceIDs(sourceKey string, ids ...string) Option {
	return func(o *MeasurableObject) {
		o.metricSourceIDs[sourceKey] = append(o.metricSourceIDs[sourceKey], ids...)
	}
}

// WithMetricSourceOptions sets free-form options for the source instance with the given key.
func WithMetricSourceOptions(sourceKey string, options map[string]string) Option {
	return func(o *MeasurableObject) { o.metricSourceOptions[sourceKey] = options }
}

// WithMetricOptions sets target overrides, debt and comment for a metric kind.
// Kinds match case-insensitively.
func WithMetricOptions(kind string, options contract.MetricOptions) Option {
	return func(o *MeasurableObject) { o.metricOptions[kindKey(kind)] = options }
}

func kindKey(kind string) string { return strings.ToLower(strings.TrimSpace(kind)) }

// WithMetricKinds lists the metric kinds evaluated for the object.
func WithMetricKinds(kinds ...string) Option {
	return func(o *MeasurableObject) { o.metricKinds = append(o.metricKinds, kinds...) }
}

func newMeasurable(name string, opts ...Option) MeasurableObject {
	o := MeasurableObject{
		DomainObject:        DomainObject{name: name},
		metricSourceIDs:     make(map[string][]string),
		metricSourceOptions: make(map[string]map[string]string),
		metricOptions:       make(map[string]contract.MetricOptions),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Target implements contract.Subject.
func (o *MeasurableObject) Target(kind string) (float64, bool) {
	if t := o.metricOptions[kindKey(kind)].Target; t != nil {
		return *t, true
	}
	return 0, false
}

// LowTarget implements contract.Subject.
func (o *MeasurableObject) LowTarget(kind string) (float64, bool) {
	if t := o.metricOptions[kindKey(kind)].LowTarget; t != nil {
		return *t, true
	}
	return 0, false
}

// TechnicalDebtTarget implements contract.Subject.
func (o *MeasurableObject) TechnicalDebtTarget(kind string) contract.DebtTarget {
	return o.metricOptions[kindKey(kind)].DebtTarget
}

// MetricSourceID implements contract.Subject.
func (o *MeasurableObject) MetricSourceID(source contract.MetricSource) []string {
	if source == nil {
		return nil
	}
	return slices.Clone(o.metricSourceIDs[source.Key()])
}

// MetricSourceIDFromAny returns the ids for the first listed source the object has ids for.
func (o *MeasurableObject) MetricSourceIDFromAny(sources []contract.MetricSource) []string {
	for _, src := range sources {
		if src == nil {
			continue
		}
		if ids, ok := o.metricSourceIDs[src.Key()]; ok {
			return slices.Clone(ids)
		}
	}
	return nil
}

// MetricSourceOptions returns the options configured for the source, or nil.
func (o *MeasurableObject) MetricSourceOptions(source contract.MetricSource) map[string]string {
	if source == nil {
		return nil
	}
	return o.metricSourceOptions[source.Key()]
}

// MetricOptions implements contract.Subject.
func (o *MeasurableObject) MetricOptions(kind string) contract.MetricOptions {
	return o.metricOptions[kindKey(kind)]
}

// MetricOptionKinds returns the lower-cased kinds that have metric options, sorted.
func (o *MeasurableObject) MetricOptionKinds() []string {
	return slices.Sorted(maps.Keys(o.metricOptions))
}

// MetricKinds returns the kinds of metric evaluated for the object.
func (o *MeasurableObject) MetricKinds() []string { return slices.Clone(o.metricKinds) }

// HasMetricKind reports whether kind is evaluated for the object.
func (o *MeasurableObject) HasMetricKind(kind string) bool {
	return slices.ContainsFunc(o.metricKinds, func(k string) bool { return strings.EqualFold(k, kind) })
}

// Measurable is a subject with a section prefix and a list of metric kinds.
type Measurable interface {
	contract.Subject
	ShortName() string
	MetricKinds() []string
	MetricOptionKinds() []string
}

// Product is software under development or maintenance.
type Product struct{ MeasurableObject }

// NewProduct creates a product.
func NewProduct(name string, opts ...Option) *Product {
	return &Product{newMeasurable(name, opts...)}
}

// Team is a group of people working on the project.
type Team struct{ MeasurableObject }

// NewTeam creates a team.
func NewTeam(name string, opts ...Option) *Team {
	return &Team{newMeasurable(name, opts...)}
}

// Document is a project document such as a plan or architecture description.
type Document struct{ MeasurableObject }

// NewDocument creates a document.
func NewDocument(name string, opts ...Option) *Document {
	return &Document{newMeasurable(name, opts...)}
}

// Environment is a deployment environment.
type Environment struct{ MeasurableObject }

// NewEnvironment creates an environment.
func NewEnvironment(name string, opts ...Option) *Environment {
	return &Environment{newMeasurable(name, opts...)}
}
