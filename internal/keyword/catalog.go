// Package keyword detects brand, connector and topic keywords in post text.
package keyword

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Connector is a named data-source integration and its documentation page.
type Connector struct {
	Name   string `yaml:"name"`
	DocURL string `yaml:"doc_url"`
}

// Catalog is an ordered list of connectors. Earlier entries win when a
// post mentions more than one.
type Catalog []Connector

// DefaultCatalog returns the built-in connector catalog.
func DefaultCatalog() Catalog {
	return Catalog{
		{Name: "salesforce", DocURL: "https://fivetran.com/docs/connectors/applications/salesforce"},
		{Name: "netsuite", DocURL: "https://fivetran.com/docs/connectors/applications/netsuite-suiteanalytics"},
		{Name: "zuora", DocURL: "https://fivetran.com/docs/connectors/applications/zuora"},
		{Name: "outreach", DocURL: "https://fivetran.com/docs/connectors/applications/outreach"},
		{Name: "postgres", DocURL: "https://fivetran.com/docs/connectors/databases/postgresql"},
		{Name: "mysql", DocURL: "https://fivetran.com/docs/connectors/databases/mysql"},
		{Name: "google sheet", DocURL: "https://fivetran.com/docs/connectors/files/google-sheets"},
		{Name: "hubspot", DocURL: "https://fivetran.com/docs/connectors/applications/hubspot"},
		{Name: "stripe", DocURL: "https://fivetran.com/docs/connectors/applications/stripe"},
		{Name: "shopify", DocURL: "https://fivetran.com/docs/connectors/applications/shopify"},
	}
}

// catalogFile is the on-disk layout of a catalog.
type catalogFile struct {
	Connectors []Connector `yaml:"connectors"`
}

// LoadCatalog reads an ordered catalog from a YAML file:
//
//	connectors:
//	  - name: postgres
//	    doc_url: https://fivetran.com/docs/connectors/databases/postgresql
func LoadCatalog(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes and validates catalog YAML.
func ParseCatalog(data []byte) (Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	cat := Catalog(f.Connectors)
	if err := cat.Validate(); err != nil {
		return nil, err
	}
	return cat, nil
}

// Validate rejects empty catalogs, blank fields and duplicate names.
func (c Catalog) Validate() error {
	if len(c) == 0 {
		return fmt.Errorf("catalog has no connectors")
	}

	seen := make(map[string]bool, len(c))
	for i, conn := range c {
		name := strings.ToLower(strings.TrimSpace(conn.Name))
		if name == "" {
			return fmt.Errorf("catalog entry %d: name is required", i)
		}
		if conn.DocURL == "" {
			return fmt.Errorf("catalog entry %q: doc_url is required", conn.Name)
		}
		if seen[name] {
			return fmt.Errorf("catalog entry %q: duplicate name", conn.Name)
		}
		seen[name] = true
	}
	return nil
}

// DocURL returns the documentation URL for name.
func (c Catalog) DocURL(name string) (string, bool) {
	for _, conn := range c {
		if strings.EqualFold(conn.Name, name) {
			return conn.DocURL, true
		}
	}
	return "", false
}
