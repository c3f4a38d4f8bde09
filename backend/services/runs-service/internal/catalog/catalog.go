package catalog

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Style is passed through to the browser untouched (colors, fill, ...).
type Style map[string]any

// Series binds one sensor value column to the column holding its sample time.
type Series struct {
	ValueColumn string `yaml:"valueColumn" json:"value_column"`
	TimeColumn  string `yaml:"timeColumn" json:"time_column"`
	Label       string `yaml:"label" json:"label"`
	Style       Style  `yaml:"style,omitempty" json:"style,omitempty"`
}

// Group is a set of series drawn on one canvas with a shared time origin.
type Group struct {
	CanvasID   string   `yaml:"canvasId" json:"canvas_id"`
	YAxisLabel string   `yaml:"yAxisLabel" json:"y_axis_label"`
	Series     []Series `yaml:"series" json:"series"`
}

// Aggregate sums several value columns against a single clock column.
type Aggregate struct {
	CanvasID     string   `yaml:"canvasId" json:"canvas_id"`
	Label        string   `yaml:"label" json:"label"`
	YAxisLabel   string   `yaml:"yAxisLabel" json:"y_axis_label"`
	ValueColumns []string `yaml:"valueColumns" json:"value_columns"`
	TimeColumn   string   `yaml:"timeColumn" json:"time_column"`
	Style        Style    `yaml:"style,omitempty" json:"style,omitempty"`
}

// Catalog is the declarative chart layout of a run.
type Catalog struct {
	Groups []Group    `yaml:"groups" json:"groups"`
	Thrust *Aggregate `yaml:"thrust,omitempty" json:"thrust,omitempty"`
}

// Load reads a catalog from a YAML file. An empty path returns Default().
func Load(path string) (*Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML catalog.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("catalog: decode yaml: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks canvas ids are unique and every series names its columns.
func (c *Catalog) Validate() error {
	if len(c.Groups) == 0 && c.Thrust == nil {
		return errors.New("catalog: no chart groups defined")
	}

	seen := make(map[string]struct{}, len(c.Groups)+1)
	claim := func(id string) error {
		if strings.TrimSpace(id) == "" {
			return errors.New("catalog: canvas id is required")
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("catalog: duplicate canvas id %q", id)
		}
		seen[id] = struct{}{}
		return nil
	}

	for _, g := range c.Groups {
		if err := claim(g.CanvasID); err != nil {
			return err
		}
		if len(g.Series) == 0 {
			return fmt.Errorf("catalog: group %q has no series", g.CanvasID)
		}
		for i, s := range g.Series {
			if s.ValueColumn == "" || s.TimeColumn == "" {
				return fmt.Errorf("catalog: group %q series %d needs value and time columns", g.CanvasID, i)
			}
		}
	}

	if t := c.Thrust; t != nil {
		if err := claim(t.CanvasID); err != nil {
			return err
		}
		if len(t.ValueColumns) == 0 || t.TimeColumn == "" {
			return fmt.Errorf("catalog: aggregate %q needs value columns and a time column", t.CanvasID)
		}
	}
	return nil
}

// TimeColumns returns every clock column the catalog reads, in declaration order.
// Rows carrying the "not reporting" sentinel in any of them are dropped run-wide.
func (c *Catalog) TimeColumns() []string {
	seen := make(map[string]struct{})
	var cols []string
	add := func(col string) {
		if _, ok := seen[col]; ok {
			return
		}
		seen[col] = struct{}{}
		cols = append(cols, col)
	}
	for _, g := range c.Groups {
		for _, s := range g.Series {
			add(s.TimeColumn)
		}
	}
	if c.Thrust != nil {
		add(c.Thrust.TimeColumn)
	}
	return cols
}
