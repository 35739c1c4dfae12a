package policy

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/provenantdev/provenant/pkg/api"
)

// YAML documents as they appear on disk. The loader converts them into the
// domain types, parsing condition strings into the closed expression form.

type rulesDoc struct {
	Rules []ruleDoc `yaml:"rules"`
}

type statesDoc struct {
	States          []stateDoc `yaml:"states"`
	TransitionRules []ruleDoc  `yaml:"transition_rules"`
}

type ruleDoc struct {
	ID           string `yaml:"id"`
	Name         string `yaml:"name"`
	Type         string `yaml:"type"`
	Check        string `yaml:"check"`
	Severity     string `yaml:"severity"`
	EvidenceType string `yaml:"evidence_type"`
	Condition    string `yaml:"condition"`
}

type stateDoc struct {
	ID          string          `yaml:"id"`
	Transitions []transitionDoc `yaml:"transitions"`
}

type transitionDoc struct {
	To       string   `yaml:"to"`
	Requires []string `yaml:"requires"`
}

// Load constructs an Engine from optional rule and state definition files.
// Either path may be empty or point at a missing file; the engine then
// simply has zero rules or zero states defined.
func Load(rulesPath, statesPath string, cfg Config) (*Engine, error) {
	rules, err := LoadRulesFile(rulesPath)
	if err != nil {
		return nil, err
	}
	states, transitionRules, err := LoadStatesFile(statesPath)
	if err != nil {
		return nil, err
	}

	cfg.Rules = rules
	cfg.States = states
	cfg.TransitionRules = transitionRules
	return New(cfg), nil
}

// LoadRulesFile reads a rules document. A missing file yields zero rules.
func LoadRulesFile(path string) ([]api.PolicyRule, error) {
	data, ok, err := readOptional(path)
	if err != nil || !ok {
		return nil, err
	}

	var doc rulesDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse rules file %s: %w", path, err)
	}
	return convertRules(doc.Rules, path)
}

// LoadStatesFile reads a states document. A missing file yields zero
// states and zero transition rules.
func LoadStatesFile(path string) ([]api.StateDef, []api.PolicyRule, error) {
	data, ok, err := readOptional(path)
	if err != nil || !ok {
		return nil, nil, err
	}

	var doc statesDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, nil, fmt.Errorf("parse states file %s: %w", path, err)
	}

	states := make([]api.StateDef, 0, len(doc.States))
	for _, s := range doc.States {
		st := api.StateDef{ID: s.ID}
		for _, t := range s.Transitions {
			st.Transitions = append(st.Transitions, api.StateTransition{
				To:       t.To,
				Requires: t.Requires,
			})
		}
		states = append(states, st)
	}

	rules, err := convertRules(doc.TransitionRules, path)
	if err != nil {
		return nil, nil, err
	}
	return states, rules, nil
}

func convertRules(docs []ruleDoc, path string) ([]api.PolicyRule, error) {
	rules := make([]api.PolicyRule, 0, len(docs))
	for _, d := range docs {
		if d.ID == "" && d.Name == "" {
			return nil, fmt.Errorf("%s: rule without id or name", path)
		}
		r := api.PolicyRule{
			ID:           d.ID,
			Name:         d.Name,
			Type:         api.RuleType(d.Type),
			Check:        d.Check,
			Severity:     api.Severity(d.Severity),
			EvidenceType: d.EvidenceType,
		}
		if d.Condition != "" {
			cond, err := api.ParseCondition(d.Condition)
			if err != nil {
				return nil, fmt.Errorf("%s: rule %s: %w", path, d.ID, err)
			}
			r.Condition = cond
		}
		rules = append(rules, r)
	}
	return rules, nil
}

// readOptional reads a definition file that is allowed to be absent.
func readOptional(path string) ([]byte, bool, error) {
	if path == "" {
		return nil, false, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read policy file %s: %w", path, err)
	}
	return data, true, nil
}
