// Package driver wires the parser, typecheck, and MIR-lowering stages
// into the top-level Parse/Typecheck entry points described in §6,
// threading a single RunConfig through both.
package driver

import (
	"gopkg.in/yaml.v3"

	"github.com/sigil-lang/sigil/internal/parser"
)

// Extension is one entry of RunConfig.extensions: "lex" carries an
// identifier profile/locale id, "target" carries the profile used to
// evaluate `@cfg(target = "...")` attributes.
type Extension struct {
	ProfileID string            `yaml:"profile_id"`
	LocaleID  string            `yaml:"locale_id"`
	Detected  map[string]string `yaml:"detected"`
	Extra     map[string]string `yaml:"extra"`
}

// RunConfig is the §6 external input governing one Parse/Typecheck run.
type RunConfig struct {
	Packrat           bool                 `yaml:"packrat"`
	Trace             bool                 `yaml:"trace"`
	MergeWarnings     bool                 `yaml:"merge_warnings"`
	AllowTopLevelExpr bool                 `yaml:"allow_top_level_expr"`
	Filename          string               `yaml:"filename"`
	Extensions        map[string]Extension `yaml:"extensions"`
}

// DecodeRunConfig parses a YAML document into a RunConfig.
func DecodeRunConfig(doc []byte) (RunConfig, error) {
	var cfg RunConfig
	if err := yaml.Unmarshal(doc, &cfg); err != nil {
		return RunConfig{}, err
	}
	return cfg, nil
}

// Encode renders cfg back to its YAML wire form.
func (c RunConfig) Encode() ([]byte, error) { return yaml.Marshal(c) }

// LexProfile returns the "lex" extension's identifier profile
// (Unicode/AsciiCompat), or "" if unset.
func (c RunConfig) LexProfile() string { return c.Extensions["lex"].ProfileID }

// TargetProfile returns the "target" extension's profile_id, used to
// evaluate `@cfg(target = "...")` attributes.
func (c RunConfig) TargetProfile() string { return c.Extensions["target"].ProfileID }

// parserOptions translates the recognized RunConfig fields into the
// functional options internal/parser.New expects.
func (c RunConfig) parserOptions() []parser.Option {
	var opts []parser.Option
	if c.Filename != "" {
		opts = append(opts, parser.WithFilename(c.Filename))
	}
	if c.Packrat {
		opts = append(opts, parser.WithPackrat())
	}
	if c.Trace {
		opts = append(opts, parser.WithTrace())
	}
	if c.MergeWarnings {
		opts = append(opts, parser.WithMergedWarnings())
	}
	if c.AllowTopLevelExpr {
		opts = append(opts, parser.WithTopLevelExprs())
	}
	return opts
}
