// Package catalog reads the package catalog that maps published packages to
// the repositories they are developed in.
package catalog

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/naka-gawa/gh-activity/internal/domain"
)

// Package is one catalog entry.
type Package struct {
	Name string `yaml:"name" validate:"required"`
	Repo string `yaml:"repo" validate:"required"`
}

// Catalog is a list of packages.
type Catalog struct {
	Packages []Package `yaml:"packages" validate:"dive"`
}

// Load reads and validates the catalog at path.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML catalog.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, domain.NewError(domain.KindValidation, "parse catalog", err)
	}
	if err := validator.New().Struct(&c); err != nil {
		return nil, domain.NewError(domain.KindValidation, "validate catalog", err)
	}
	for _, p := range c.Packages {
		if _, err := domain.ParseRepoID(p.Repo); err != nil {
			return nil, fmt.Errorf("package %s: %w", p.Name, err)
		}
	}
	return &c, nil
}

// Repos returns the repositories of all packages, each once, in catalog order.
func (c *Catalog) Repos() []string {
	seen := make(map[string]struct{}, len(c.Packages))
	repos := make([]string, 0, len(c.Packages))
	for _, p := range c.Packages {
		if _, ok := seen[p.Repo]; ok {
			continue
		}
		seen[p.Repo] = struct{}{}
		repos = append(repos, p.Repo)
	}
	return repos
}
