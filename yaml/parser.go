package yaml

import (
	"bytes"
	"fmt"
	"io"
	"os"

	goyaml "github.com/goccy/go-yaml"

	"github.com/agentstation/palette"
)

// Parser handles parsing YAML catalog definitions.
type Parser struct {
	strict bool
}

// NewParser creates a new YAML parser. Unknown fields are rejected.
func NewParser() *Parser {
	return &Parser{strict: true}
}

// Lenient returns a parser that ignores unknown fields.
func (p *Parser) Lenient() *Parser {
	return &Parser{strict: false}
}

// Parse reads and parses a catalog definition from a reader.
func (p *Parser) Parse(r io.Reader) (*CatalogDefinition, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}

	var opts []goyaml.DecodeOption
	if p.strict {
		opts = append(opts, goyaml.DisallowUnknownField())
	}

	var def CatalogDefinition
	if err := goyaml.UnmarshalWithOptions(data, &def, opts...); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return &def, nil
}

// ParseFile reads and parses a catalog definition from a file.
func (p *Parser) ParseFile(filename string) (*CatalogDefinition, error) {
	// #nosec G304 - catalog paths come from the operator's configuration
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	return p.Parse(file)
}

// ParseString parses a catalog definition from a string.
func (p *Parser) ParseString(s string) (*CatalogDefinition, error) {
	return p.Parse(bytes.NewReader([]byte(s)))
}

// Marshal converts a catalog definition to YAML format.
func (p *Parser) Marshal(cd *CatalogDefinition) ([]byte, error) {
	data, err := goyaml.Marshal(cd)
	if err != nil {
		return nil, fmt.Errorf("encode catalog: %w", err)
	}
	return data, nil
}

// MarshalToFile writes a catalog definition to a YAML file.
func (p *Parser) MarshalToFile(cd *CatalogDefinition, filename string) error {
	data, err := p.Marshal(cd)
	if err != nil {
		return err
	}

	return os.WriteFile(filename, data, 0o600)
}

// MarshalTemplates encodes templates as a catalog document.
func (p *Parser) MarshalTemplates(templates []palette.NodeTemplate) ([]byte, error) {
	cd := &CatalogDefinition{Version: CatalogVersion}
	for _, t := range templates {
		cd.Templates = append(cd.Templates, FromTemplate(t))
	}
	return p.Marshal(cd)
}

// CatalogVersion is the catalog format version written by MarshalTemplates.
const CatalogVersion = "1"

// Example shows what a YAML catalog definition looks like.
func Example() string {
	return `version: "1"
description: HTTP integration nodes

templates:
  - id: http_fetch
    label: HTTP Fetch
    description: Fetch a resource over HTTP.
    inputs: 0
    outputs: 1
    default_label: Fetch
    params:
      - label: URL
        type: text
        value: "http://localhost:8080"
      - label: Method
        type: select
        value: GET
        options: [GET, POST, PUT]
      - label: Timeout (ms)
        type: number
        value: 5000
      - label: Follow Redirects
        type: boolean
        value: true

  - id: http_respond
    label: HTTP Respond
    description: Write the incoming data as an HTTP response.
    inputs: 1
    outputs: 0
    default_text_input: ""
    params:
      - label: Status
        type: number
        value: 200
`
}
