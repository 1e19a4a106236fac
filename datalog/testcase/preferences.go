package testcase

import (
	"bytes"
	"os"
	"sort"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/wbrown/janus-minicon/datalog/preference"
)

// yamlPreferences is the YAML preference file:
//
//	sets:
//	  "1": {V1: 0.5, V2: 0.9}
type yamlPreferences struct {
	Sets map[string]map[string]float64 `yaml:"sets"`
}

// LoadPreferences reads every preference set of a file, sorted by id.
// The format is chosen by extension like LoadFile.
func LoadPreferences(path string) ([]*preference.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read preference file")
	}

	var sets map[string]map[string]float64
	if isXML(path) {
		sets, err = decodeXMLPreferences(data)
	} else {
		var doc yamlPreferences
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		err = decoder.Decode(&doc)
		if err != nil {
			err = errors.Wrap(err, "failed to parse YAML")
		}
		sets = doc.Sets
	}
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	if len(sets) == 0 {
		return nil, errors.Newf("%s: no preference sets", path)
	}

	ids := make([]string, 0, len(sets))
	for id := range sets {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	tables := make([]*preference.Table, len(ids))
	for i, id := range ids {
		if id == "" {
			return nil, errors.Newf("%s: preference set without id", path)
		}
		tables[i] = preference.FromMap(id, sets[id])
	}
	return tables, nil
}

// ImportPreferences loads a preference file into store and returns the
// imported set ids.
func ImportPreferences(store preference.Store, path string) ([]string, error) {
	tables, err := LoadPreferences(path)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(tables))
	for i, t := range tables {
		if err := store.PutTable(t); err != nil {
			return nil, errors.Wrapf(err, "set %s", t.ID)
		}
		ids[i] = t.ID
	}
	return ids, nil
}
