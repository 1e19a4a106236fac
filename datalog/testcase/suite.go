// Package testcase loads rewriting test cases and preference sets from
// YAML files or from the XML layout used by earlier MiniCon tools.
package testcase

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/wbrown/janus-minicon/datalog/parser"
	"github.com/wbrown/janus-minicon/datalog/query"
)

// ErrCaseNotFound is returned by Suite.Find for an unknown id
var ErrCaseNotFound = errors.New("test case not found")

// Suite is a collection of test cases
type Suite struct {
	Cases []Case `yaml:"cases"`
}

// Case is one query with the views it should be rewritten over
type Case struct {
	// ID identifies the case within its suite
	ID string `yaml:"id"`

	Description string `yaml:"description,omitempty"`

	// Query is a Datalog rule, e.g. Q(x) :- e1(x,y), y > 3
	Query string `yaml:"query"`

	// Views are Datalog rules; their names are replaced by V1, V2, ...
	// when the case is parsed with AutoName.
	Views []string `yaml:"views"`

	// Expected lists the rewritings in output order, if known
	Expected []string `yaml:"expected,omitempty"`

	// Preferences ranks the (auto-named) views for the ranked strategy
	Preferences map[string]float64 `yaml:"preferences,omitempty"`
}

// CaseViewOptions is how the views of a case are prepared by default:
// auto-named V1, V2, ... with primed variables.
func CaseViewOptions() parser.ViewOptions {
	return parser.ViewOptions{Marker: parser.DefaultMarker, AutoName: true}
}

// Parse parses the query and views of the case and prepares the views
// with opts.
func (c *Case) Parse(opts parser.ViewOptions) (*query.Query, []*query.Query, error) {
	q, err := parser.ParseQuery(c.Query)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "case %s: query", c.ID)
	}
	views, err := parser.ParseViews(c.Views)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "case %s", c.ID)
	}
	return q, parser.PrepareViews(views, opts), nil
}

// Find returns the case with the given id
func (s *Suite) Find(id string) (*Case, error) {
	for i := range s.Cases {
		if s.Cases[i].ID == id {
			return &s.Cases[i], nil
		}
	}
	return nil, errors.Wrapf(ErrCaseNotFound, "id %s", id)
}

// IDs returns the case ids in file order
func (s *Suite) IDs() []string {
	ids := make([]string, len(s.Cases))
	for i, c := range s.Cases {
		ids[i] = c.ID
	}
	return ids
}

// LoadFile reads a suite, choosing the format by file extension:
// .xml for the XML layout, YAML otherwise.
func LoadFile(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read test case file")
	}

	var suite *Suite
	if isXML(path) {
		suite, err = decodeXMLSuite(data)
	} else {
		suite, err = decodeYAMLSuite(data)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}

	if err := validateSuite(suite); err != nil {
		return nil, errors.Wrapf(err, "invalid suite %s", path)
	}
	return suite, nil
}

func isXML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".xml")
}

func decodeYAMLSuite(data []byte) (*Suite, error) {
	var suite Suite
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&suite); err != nil {
		return nil, errors.Wrap(err, "failed to parse YAML")
	}
	return &suite, nil
}

// validateSuite checks required fields and duplicate ids
func validateSuite(s *Suite) error {
	if len(s.Cases) == 0 {
		return errors.New("cases list is required and must be non-empty")
	}
	seen := make(map[string]bool, len(s.Cases))
	for i, c := range s.Cases {
		if c.ID == "" {
			return errors.Newf("cases[%d]: id is required", i)
		}
		if seen[c.ID] {
			return errors.Newf("cases[%d]: duplicate id %s", i, c.ID)
		}
		seen[c.ID] = true
		if strings.TrimSpace(c.Query) == "" {
			return errors.Newf("cases[%d]: query is required", i)
		}
		if len(c.Views) == 0 {
			return errors.Newf("cases[%d]: views list is required and must be non-empty", i)
		}
	}
	return nil
}
