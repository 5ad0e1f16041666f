package main

import "github.com/fwojciec/tramit/yaml"

// Run executes the rules command.
func (c *RulesCmd) Run(deps *Dependencies) error {
	return yaml.WriteRules(deps.Stdout, deps.Rules)
}
