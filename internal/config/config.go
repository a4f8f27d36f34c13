// Package config implements CGB's tunables (spec.md §6): the recursion
// limit and the named debug/compat flags, loaded from a YAML file the
// same way the teacher loads funxy.yaml.
//
// Grounded on funvibe-funxy/internal/ext/config.go's `Config` struct +
// `yaml:"..."` tags + `yaml.Unmarshal`/`LoadConfig(path)` shape.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is CGB's tunable surface.
type Config struct {
	// RecursionLimit bounds the checker's recursive descent (spec.md
	// §4.10); exceeding it reports CodeTooComplex and halts deeper
	// traversal of the offending subtree.
	RecursionLimit int `yaml:"recursion_limit,omitempty"`

	// DebugLuauLogSolverToJson dumps the emitted constraint list as JSON
	// after CGB finishes a module, for offline solver debugging.
	DebugLuauLogSolverToJson bool `yaml:"debug_log_solver_to_json,omitempty"`

	// DebugLuauMagicTypes names the compiler-magic type names switch
	// (e.g. a root class type) some builtins rely on. It is parsed and
	// carried here; no code in this module reads it.
	DebugLuauMagicTypes bool `yaml:"debug_magic_types,omitempty"`

	// LuauNegatedClassTypes names the switch letting a declared class's
	// `parent` default to the root class type when no explicit superclass
	// is given. It is parsed and carried here; no code in this module
	// reads it.
	LuauNegatedClassTypes bool `yaml:"negated_class_types,omitempty"`

	// SupportTypeAliasGoToDeclaration names the switch for keeping each
	// type alias's definition scope for downstream tooling. It is parsed
	// and carried here; no code in this module reads it (the builder keeps
	// alias definition scopes internally whether or not it is set).
	SupportTypeAliasGoToDeclaration bool `yaml:"support_type_alias_go_to_declaration,omitempty"`

	// LegacyBooleanGuardDiscriminatesThread resolves an Open Question in
	// spec.md §9: whether a `type(x) == "boolean"` guard should
	// (legacy, true) discriminate x to `thread` or (corrected, false,
	// the default) discriminate to the boolean primitive type.
	LegacyBooleanGuardDiscriminatesThread bool `yaml:"legacy_boolean_guard_discriminates_thread,omitempty"`
}

// DefaultRecursionLimit mirrors the depth budget real Luau applies to
// its constraint generator before giving up on a pathological subtree.
const DefaultRecursionLimit = 200

// Default returns a Config with every flag at its spec-mandated default.
func Default() *Config {
	return &Config{RecursionLimit: DefaultRecursionLimit}
}

// Load reads and parses a YAML config file, filling in defaults for any
// field the file omits.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse parses YAML config content from bytes. path is used only for
// error messages.
func Parse(data []byte, path string) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if cfg.RecursionLimit <= 0 {
		cfg.RecursionLimit = DefaultRecursionLimit
	}
	return cfg, nil
}
