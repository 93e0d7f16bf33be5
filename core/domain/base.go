// Package domain holds the subjects that metrics measure: the project and its
// products, teams, documents and environments.
package domain

const defaultName = "<no name>"

// DomainObject is the identity shared by all subjects.
type DomainObject struct {
	name      string
	shortName string
	url       string
}

// Name returns the name, or "<no name>".
func (o *DomainObject) Name() string {
	if o.name == "" {
		return defaultName
	}
	return o.name
}

// ShortName returns the prefix used for metric display ids.
func (o *DomainObject) ShortName() string { return o.shortName }

// URL returns the object's home page, if any.
func (o *DomainObject) URL() string { return o.url }
