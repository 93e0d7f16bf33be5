// Package projectdef loads project definitions: YAML documents naming the
// metric sources, the subjects and the metric kinds to evaluate for each.
package projectdef

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// IDList holds metric source ids written either as a single string or a list.
type IDList []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *IDList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*l = IDList{node.Value}
		return nil
	case yaml.SequenceNode:
		var ids []string
		if err := node.Decode(&ids); err != nil {
			return err
		}
		*l = ids
		return nil
	default:
		return fmt.Errorf("line %d: metric source ids must be a string or a list of strings", node.Line)
	}
}

// DebtTarget is either a fixed target (Value) or a dynamic one moving from
// StartValue at StartDate to EndValue at EndDate.
type DebtTarget struct {
	Value       *float64 `yaml:"value"`
	StartValue  *float64 `yaml:"start_value"`
	StartDate   string   `yaml:"start_date"`
	EndValue    *float64 `yaml:"end_value"`
	EndDate     string   `yaml:"end_date"`
	Explanation string   `yaml:"explanation"`
}

// MetricOptions overrides the defaults of one metric kind for one subject.
type MetricOptions struct {
	Target     *float64    `yaml:"target"`
	LowTarget  *float64    `yaml:"low_target"`
	Comment    string      `yaml:"comment"`
	DebtTarget *DebtTarget `yaml:"debt_target"`
}

// Measurable is the common shape of the project and every section in it.
type Measurable struct {
	Name                string                       `yaml:"name"`
	ShortName           string                       `yaml:"short_name"`
	URL                 string                       `yaml:"url"`
	Metrics             []string                     `yaml:"metrics"`
	MetricSourceIDs     map[string]IDList            `yaml:"metric_source_ids"`
	MetricSourceOptions map[string]map[string]string `yaml:"metric_source_options"`
	MetricOptions       map[string]MetricOptions     `yaml:"metric_options"`
}

// Source configures one metric source instance and the source kinds it serves.
type Source struct {
	Key      string             `yaml:"key"`
	Type     string             `yaml:"type"`
	Name     string             `yaml:"name"`
	URL      string             `yaml:"url"`
	APIURL   string             `yaml:"api_url"`
	Username string             `yaml:"username"`
	Password string             `yaml:"password"`
	Token    string             `yaml:"token"`
	Values   map[string]float64 `yaml:"values"`
	Kinds    []string           `yaml:"kinds"`
}

// Definition is a parsed project definition.
type Definition struct {
	Organization string `yaml:"organization"`
	Measurable   `yaml:",inline"`
	Sources      []Source     `yaml:"sources"`
	Products     []Measurable `yaml:"products"`
	Teams        []Measurable `yaml:"teams"`
	Documents    []Measurable `yaml:"documents"`
	Environments []Measurable `yaml:"environments"`
}
