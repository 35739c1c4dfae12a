package api

import (
	"fmt"
	"strings"
)

// Condition is a closed predicate over a single evidence event. The set of
// variants is fixed (Eq, And, Or, In); richer expression languages are a
// collaborator concern and live outside this module.
type Condition interface {
	// Eval reports whether the event satisfies the condition.
	Eval(ev Event) bool

	condition()
}

// Eq matches events whose field renders (via fmt.Sprint) to exactly Value.
// A missing field never matches.
type Eq struct {
	Key   string
	Value string
}

func (Eq) condition() {}

func (c Eq) Eval(ev Event) bool {
	v, ok := ev.Field(c.Key)
	if !ok {
		return false
	}
	return fmt.Sprint(v) == c.Value
}

// And matches events satisfying every sub-condition.
type And struct {
	Conds []Condition
}

// AllOf builds an And over the given conditions.
func AllOf(conds ...Condition) Condition {
	return And{Conds: conds}
}

func (And) condition() {}

func (c And) Eval(ev Event) bool {
	for _, sub := range c.Conds {
		if !sub.Eval(ev) {
			return false
		}
	}
	return true
}

// Or matches events satisfying at least one sub-condition. An empty Or
// matches nothing.
type Or struct {
	Conds []Condition
}

// AnyOf builds an Or over the given conditions.
func AnyOf(conds ...Condition) Condition {
	return Or{Conds: conds}
}

func (Or) condition() {}

func (c Or) Eval(ev Event) bool {
	for _, sub := range c.Conds {
		if sub.Eval(ev) {
			return true
		}
	}
	return false
}

// In matches events whose field renders to one of Values.
type In struct {
	Key    string
	Values []string
}

func (In) condition() {}

func (c In) Eval(ev Event) bool {
	v, ok := ev.Field(c.Key)
	if !ok {
		return false
	}
	s := fmt.Sprint(v)
	for _, want := range c.Values {
		if s == want {
			return true
		}
	}
	return false
}

// ParseCondition parses the textual condition form used in rule files.
// The only supported syntax is string equality, "key == value".
func ParseCondition(s string) (Condition, error) {
	key, value, found := strings.Cut(s, "==")
	if !found {
		return nil, fmt.Errorf("unsupported condition syntax: %q", s)
	}
	key = strings.TrimSpace(key)
	value = strings.TrimSpace(value)
	if key == "" {
		return nil, fmt.Errorf("condition has empty key: %q", s)
	}
	return Eq{Key: key, Value: value}, nil
}
