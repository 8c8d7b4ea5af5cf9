package main

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/dekarrin/lrk/grammar"
)

// ruleConfig is one [[rules]] table entry in a grammar TOML file: a
// left-hand non-terminal and an ordered right-hand symbol list. Grounded
// on tunaq's internal/tqw package, which unmarshals a TOML world manifest
// with toml.Unmarshal into a similarly flat intermediate struct before
// building the real in-memory model.
type ruleConfig struct {
	Left  string   `toml:"left"`
	Right []string `toml:"right"`
}

// grammarConfig is the on-disk shape of a demonstration grammar file: the
// lookahead bound and an ordered list of rules. The first rule's Left is
// the grammar's root symbol.
type grammarConfig struct {
	K     int          `toml:"k"`
	Rules []ruleConfig `toml:"rules"`
}

// loadGrammarConfig reads and parses a grammar TOML file from path.
func loadGrammarConfig(path string) (grammarConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return grammarConfig{}, fmt.Errorf("read grammar file %s: %w", path, err)
	}

	var cfg grammarConfig
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return grammarConfig{}, fmt.Errorf("parse grammar file %s: %w", path, err)
	}
	if len(cfg.Rules) == 0 {
		return grammarConfig{}, fmt.Errorf("grammar file %s defines no rules", path)
	}
	return cfg, nil
}

// listAction is the demonstration semantic action attached to every
// rule built from a grammarConfig: it returns the popped values as a
// single []any, letting the REPL print a derivation's frontier without
// the config file needing to express any real semantics.
func listAction(_ any, popped []any) (any, error) {
	out := make([]any, len(popped))
	copy(out, popped)
	return out, nil
}

// toGrammar builds a grammar.Grammar from cfg, attaching listAction to
// every rule.
func (cfg grammarConfig) toGrammar() (grammar.Grammar, error) {
	rules := make([]grammar.Rule, len(cfg.Rules))
	for i, rc := range cfg.Rules {
		right := make([]grammar.Symbol, len(rc.Right))
		for j, s := range rc.Right {
			right[j] = grammar.Symbol(s)
		}
		rules[i] = grammar.Rule{
			Left:   grammar.Symbol(rc.Left),
			Right:  right,
			Action: listAction,
		}
	}
	return grammar.New(rules)
}
