package testcase

import (
	"encoding/xml"
	"strings"

	"github.com/cockroachdb/errors"
)

// xmlSuite is the <testcases> document:
//
//	<testcases>
//	  <testcase>
//	    <id>1</id>
//	    <query>q(x) :- e(x,y)</query>
//	    <view>v(a) :- e(a,b)</view>
//	  </testcase>
//	</testcases>
type xmlSuite struct {
	XMLName xml.Name      `xml:"testcases"`
	Cases   []xmlTestCase `xml:"testcase"`
}

type xmlTestCase struct {
	ID    string   `xml:"id"`
	Query string   `xml:"query"`
	Views []string `xml:"view"`
}

func decodeXMLSuite(data []byte) (*Suite, error) {
	var doc xmlSuite
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "failed to parse XML")
	}

	suite := &Suite{Cases: make([]Case, len(doc.Cases))}
	for i, tc := range doc.Cases {
		c := Case{
			ID:    strings.TrimSpace(tc.ID),
			Query: strings.TrimSpace(tc.Query),
		}
		for _, v := range tc.Views {
			c.Views = append(c.Views, strings.TrimSpace(v))
		}
		suite.Cases[i] = c
	}
	return suite, nil
}

// xmlPreferences is the <preferences> document:
//
//	<preferences>
//	  <preference id="1">
//	    <view name="V1" rank="0.5"/>
//	  </preference>
//	</preferences>
type xmlPreferences struct {
	XMLName     xml.Name        `xml:"preferences"`
	Preferences []xmlPreference `xml:"preference"`
}

type xmlPreference struct {
	ID    string        `xml:"id,attr"`
	Views []xmlViewRank `xml:"view"`
}

type xmlViewRank struct {
	Name string  `xml:"name,attr"`
	Rank float64 `xml:"rank,attr"`
}

func decodeXMLPreferences(data []byte) (map[string]map[string]float64, error) {
	var doc xmlPreferences
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "failed to parse XML")
	}

	sets := make(map[string]map[string]float64, len(doc.Preferences))
	for _, p := range doc.Preferences {
		id := strings.TrimSpace(p.ID)
		if _, ok := sets[id]; !ok {
			sets[id] = make(map[string]float64, len(p.Views))
		}
		for _, v := range p.Views {
			sets[id][v.Name] = v.Rank
		}
	}
	return sets, nil
}
