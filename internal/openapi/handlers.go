package openapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"

	"tasksApi/internal/logger"

	"gopkg.in/yaml.v3"
)

const referenceHTML = `<!doctype html>
<html>
  <head>
    <title>{{.Title}}</title>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
  </head>
  <body>
    <script id="api-reference" data-url="{{.DocURL}}" data-configuration='{"theme":"kepler","layout":"classic"}'></script>
    <script src="https://cdn.jsdelivr.net/npm/@scalar/api-reference"></script>
  </body>
</html>
`

// Docs отдаёт один и тот же документ в JSON и YAML и страницу справки
type Docs struct {
	jsonDoc   []byte
	yamlDoc   []byte
	reference []byte
}

func NewDocs(info Info, docURL string) (*Docs, error) {
	doc := Document(info)

	jsonDoc, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("сериализация openapi json: %w", err)
	}

	yamlDoc, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("сериализация openapi yaml: %w", err)
	}

	page, err := renderReference(docURL)
	if err != nil {
		return nil, err
	}

	return &Docs{jsonDoc: jsonDoc, yamlDoc: yamlDoc, reference: page}, nil
}

func renderReference(docURL string) ([]byte, error) {
	tmpl, err := template.New("reference").Parse(referenceHTML)
	if err != nil {
		return nil, fmt.Errorf("шаблон справки: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, map[string]string{"Title": Title, "DocURL": docURL}); err != nil {
		return nil, fmt.Errorf("рендер справки: %w", err)
	}
	return buf.Bytes(), nil
}

func (d *Docs) JSON(w http.ResponseWriter, r *http.Request) {
	write(w, "application/json", d.jsonDoc)
}

func (d *Docs) YAML(w http.ResponseWriter, r *http.Request) {
	write(w, "application/yaml", d.yamlDoc)
}

func (d *Docs) Reference(w http.ResponseWriter, r *http.Request) {
	write(w, "text/html; charset=utf-8", d.reference)
}

func write(w http.ResponseWriter, contentType string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		logger.Error("HTTP: Ошибка записи документации", err)
	}
}
