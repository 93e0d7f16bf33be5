package source

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/ymmah/quality-report/internal/contract"
)

// Source types accepted by Build.
const (
	TypeJira   = "jira"
	TypeGitHub = "github"
	TypeSonar  = "sonar"
	TypeJunit  = "junit"
	TypeJaCoCo = "jacoco"
	TypeZAP    = "zap"
	TypeManual = "manual"
)

// ErrUnknownType is returned by Build for unsupported source types.
var ErrUnknownType = errors.New("unknown metric source type")

// Spec describes one configured metric source instance.
type Spec struct {
	Key      string
	Type     string
	Name     string
	URL      string
	APIURL   string
	Username string
	Password string
	Token    string
	Values   map[string]float64
}

// Types lists the supported source types.
func Types() []string {
	return []string{TypeJira, TypeGitHub, TypeSonar, TypeJunit, TypeJaCoCo, TypeZAP, TypeManual}
}

// Build creates the source described by spec. Sources without credentials
// share the given opener; sources with basic auth get their own.
func Build(spec Spec, opener *Opener) (contract.MetricSource, error) {
	if opener == nil || spec.Username != "" {
		opener = NewOpener(WithBasicAuth(spec.Username, spec.Password))
	}
	switch strings.ToLower(spec.Type) {
	case TypeJira:
		if spec.URL == "" {
			return nil, fmt.Errorf("source %q: jira needs a url", spec.Key)
		}
		return NewJiraFilter(spec.Key, spec.Name, spec.URL, opener), nil
	case TypeGitHub:
		return NewGitHubIssues(spec.Key, spec.Name, spec.URL, spec.APIURL, spec.Token, http.DefaultClient)
	case TypeSonar:
		if spec.URL == "" {
			return nil, fmt.Errorf("source %q: sonar needs a url", spec.Key)
		}
		return NewSonar(spec.Key, spec.Name, spec.URL, opener), nil
	case TypeJunit:
		return NewJunitTestReport(spec.Key, spec.Name, opener), nil
	case TypeJaCoCo:
		return NewJaCoCo(spec.Key, spec.Name, opener), nil
	case TypeZAP:
		return NewZAPScanReport(spec.Key, spec.Name, opener), nil
	case TypeManual:
		return NewManual(spec.Key, spec.Name, spec.URL, spec.Values), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, spec.Type)
	}
}
