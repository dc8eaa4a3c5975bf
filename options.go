package redline

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Options holds configuration for a patch session.
type Options struct {
	// Matcher tuning.
	KeywordLimit   int `yaml:"keyword_limit"`
	MinKeywordLen  int `yaml:"min_keyword_len"`
	NeighborRadius int `yaml:"neighbor_radius"`

	// Annotate controls whether applied operations leave audit notes.
	Annotate bool `yaml:"annotate"`

	// AnnotationColor is the hex RGB of audit note text.
	AnnotationColor string `yaml:"annotation_color"`

	// ReviewThreshold is the minimum confidence an LLM mapping review needs
	// to override the algorithmic column mapping.
	ReviewThreshold float64 `yaml:"review_threshold"`
}

// defaultOptions returns the default session options.
func defaultOptions() *Options {
	return &Options{
		KeywordLimit:    5,
		MinKeywordLen:   3,
		NeighborRadius:  2,
		Annotate:        true,
		AnnotationColor: "808080",
		ReviewThreshold: 0.8,
	}
}

// clone creates a copy of the options.
func (o *Options) clone() *Options {
	cp := *o
	return &cp
}

// LoadOptions reads options from a YAML file, filling unset fields with
// defaults.
func LoadOptions(path string) (*Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading options: %w", err)
	}
	opts := defaultOptions()
	if err := yaml.Unmarshal(data, opts); err != nil {
		return nil, fmt.Errorf("parsing options: %w", err)
	}
	return opts, nil
}
