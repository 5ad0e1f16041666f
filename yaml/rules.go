// Package yaml reads and writes extraction rules as YAML files.
package yaml

import (
	"errors"
	"io"
	"os"

	"github.com/fwojciec/tramit"
	"gopkg.in/yaml.v3"
)

// LoadRules decodes rules from r. Keys missing from the document keep their
// default values, so a file only needs to list what it changes. Unknown keys
// are rejected.
func LoadRules(r io.Reader) (*tramit.Rules, error) {
	rules := tramit.DefaultRules()

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&rules); err != nil && !errors.Is(err, io.EOF) {
		return nil, tramit.WrapErrorf(err, tramit.EINVALID, "parse rules: %v", err)
	}

	if err := rules.Validate(); err != nil {
		return nil, err
	}
	return &rules, nil
}

// LoadRulesFile reads rules from the file at path.
func LoadRulesFile(path string) (*tramit.Rules, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, tramit.Errorf(tramit.ENOTFOUND, "rules file %s not found", path)
		}
		return nil, err
	}
	defer f.Close()

	return LoadRules(f)
}

// WriteRules encodes rules to w.
func WriteRules(w io.Writer, rules tramit.Rules) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(rules); err != nil {
		return err
	}
	return enc.Close()
}
