// Package docs generates static HTML documentation for the supported
// datasources: what each one annotates, the output columns it produces and
// the query templates it sends.
package docs

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"sort"

	"github.com/yuin/goldmark"
)

// Column documents one output column of a datasource.
type Column struct {
	Name        string
	Kind        string // "string" or "number"
	Description string
}

// Datasource describes one annotator for documentation purposes.
type Datasource struct {
	Name           string
	Description    string // markdown
	InputNamespace string
	Endpoint       string
	Columns        []Column
	// Queries maps template file names to their query text, for
	// SPARQL-based datasources.
	Queries map[string]string
}

// Generator builds the documentation pages.
type Generator struct {
	sources []Datasource
}

func NewGenerator(sources []Datasource) *Generator {
	return &Generator{sources: sources}
}

// Generate writes index.html plus one page per datasource into outputDir.
func (g *Generator) Generate(outputDir string) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", outputDir, err)
	}

	if err := g.generateIndex(outputDir); err != nil {
		return err
	}
	for _, ds := range g.sources {
		if err := g.generatePage(outputDir, ds); err != nil {
			return err
		}
	}
	return nil
}

func (g *Generator) generateIndex(dir string) error {
	f, err := os.Create(filepath.Join(dir, "index.html"))
	if err != nil {
		return fmt.Errorf("failed to create index.html in %s: %w", dir, err)
	}
	defer f.Close()

	data := struct {
		Title   string
		Sources []Datasource
	}{
		Title:   "Datasources",
		Sources: g.sources,
	}
	if err := indexTemplate.Execute(f, data); err != nil {
		return fmt.Errorf("failed to execute index template: %w", err)
	}
	return nil
}

func (g *Generator) generatePage(dir string, ds Datasource) error {
	body, err := markdown(ds.Description)
	if err != nil {
		return fmt.Errorf("failed to render description of %s: %w", ds.Name, err)
	}

	var queryNames []string
	for name := range ds.Queries {
		queryNames = append(queryNames, name)
	}
	sort.Strings(queryNames)

	f, err := os.Create(filepath.Join(dir, PageName(ds.Name)))
	if err != nil {
		return fmt.Errorf("failed to create page for %s: %w", ds.Name, err)
	}
	defer f.Close()

	data := struct {
		Datasource
		Body       template.HTML
		QueryNames []string
	}{
		Datasource: ds,
		Body:       body,
		QueryNames: queryNames,
	}
	if err := pageTemplate.Execute(f, data); err != nil {
		return fmt.Errorf("failed to execute page template for %s: %w", ds.Name, err)
	}
	return nil
}

// PageName returns the file name of a datasource's documentation page.
func PageName(datasource string) string {
	return datasource + ".html"
}

func markdown(input string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(input), &buf); err != nil {
		return "", fmt.Errorf("failed to process markdown: %v", err)
	}
	return template.HTML(buf.String()), nil
}

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body>
<h1>{{.Title}}</h1>
<ul>
{{- range .Sources}}
  <li><a href="{{.Name}}.html">{{.Name}}</a> &mdash; queried with {{.InputNamespace}} identifiers</li>
{{- end}}
</ul>
</body>
</html>
`))

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>{{.Name}}</title></head>
<body>
<h1>{{.Name}}</h1>
{{.Body}}
<h2>Details</h2>
<table>
  <tr><td>Endpoint</td><td><a href="{{.Endpoint}}">{{.Endpoint}}</a></td></tr>
  <tr><td>Input namespace</td><td>{{.InputNamespace}}</td></tr>
</table>
<h2>Output columns</h2>
<table>
  <tr><th>Column</th><th>Type</th><th>Description</th></tr>
{{- range .Columns}}
  <tr><td>{{.Name}}</td><td>{{.Kind}}</td><td>{{.Description}}</td></tr>
{{- end}}
</table>
{{- if .QueryNames}}
<h2>Query templates</h2>
{{- $queries := .Queries}}
{{- range .QueryNames}}
<h3>{{.}}</h3>
<pre><code>{{index $queries .}}</code></pre>
{{- end}}
{{- end}}
<p><a href="index.html">All datasources</a></p>
</body>
</html>
`))
