// Package sparql is a minimal client for SPARQL endpoints speaking the
// SPARQL 1.1 Protocol with JSON results. It only assembles requests and
// decodes responses; it implements no protocol features beyond that.
package sparql

import (
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/pkg/errors"
)

// Response is a SPARQL 1.1 JSON query results document.
type Response struct {
	Head    Head    `json:"head"`
	Results Results `json:"results"`
}

type Head struct {
	Vars []string `json:"vars"`
}

type Results struct {
	Bindings []Binding `json:"bindings"`
}

// Binding maps a result variable to its bound term. Variables without a
// binding in a solution are absent from the map.
type Binding map[string]Term

// Term is one RDF term in a result binding.
type Term struct {
	Type     string `json:"type"` // "uri", "literal" or "bnode"
	Value    string `json:"value"`
	Datatype string `json:"datatype,omitempty"`
	Lang     string `json:"xml:lang,omitempty"`
}

func parseResponse(bs []byte) (*Response, error) {
	var resp Response
	if err := json.Unmarshal(bs, &resp); err != nil {
		return nil, errors.Wrap(err, "failed to decode SPARQL JSON results")
	}
	return &resp, nil
}

var placeholderRe = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Substitute replaces ${name} placeholders in a query template with the
// given values. It returns an error if the template references a name that
// has no value; extra values are ignored. Bare $name and ?name variables are
// left untouched, so SPARQL variable syntax is safe in templates.
func Substitute(tmpl string, vars map[string]string) (string, error) {
	var missing []string
	out := placeholderRe.ReplaceAllStringFunc(tmpl, func(m string) string {
		name := placeholderRe.FindStringSubmatch(m)[1]
		v, ok := vars[name]
		if !ok {
			missing = append(missing, name)
			return m
		}
		return v
	})
	if len(missing) > 0 {
		return "", fmt.Errorf("query template references undefined placeholders %v", missing)
	}
	return out, nil
}
