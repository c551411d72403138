// Package content serves the read-only headline and quote tables the
// presentation layer feeds from. The core supplies only numeric game-state
// facts; the tables are condition-indexed prose loaded from YAML and never
// generated here.
package content

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Condition is a numeric threshold on one game-state fact. Nil bounds are
// open-ended.
type Condition struct {
	Field string   `yaml:"field" json:"field"`
	Min   *float64 `yaml:"min,omitempty" json:"min,omitempty"`
	Max   *float64 `yaml:"max,omitempty" json:"max,omitempty"`
}

// matches reports whether the fact set satisfies the condition. A missing
// fact fails the condition rather than erroring.
func (c Condition) matches(facts map[string]float64) bool {
	v, ok := facts[c.Field]
	if !ok {
		return false
	}
	if c.Min != nil && v < *c.Min {
		return false
	}
	if c.Max != nil && v > *c.Max {
		return false
	}
	return true
}

// Headline is one candidate front-page entry.
type Headline struct {
	ID         string      `yaml:"id" json:"id"`
	Conditions []Condition `yaml:"conditions" json:"conditions"`
	Headline   string      `yaml:"headline" json:"headline"`
	Subheading string      `yaml:"subheading" json:"subheading"`
}

// Quote is one candidate attributed quote.
type Quote struct {
	ID         string      `yaml:"id" json:"id"`
	Conditions []Condition `yaml:"conditions" json:"conditions"`
	Quote      string      `yaml:"quote" json:"quote"`
	Speaker    string      `yaml:"speaker" json:"speaker"`
}

// Table holds the full content catalogue.
type Table struct {
	Headlines []Headline `yaml:"headlines"`
	Quotes    []Quote    `yaml:"quotes"`
}

// Load reads a content table from a YAML file.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read content table: %w", err)
	}
	var t Table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse content table: %w", err)
	}
	return &t, nil
}

// Default returns the built-in catalogue used when no table file is
// configured, small but enough to keep CLI runs readable.
func Default() *Table {
	min := func(v float64) *float64 { return &v }
	max := func(v float64) *float64 { return &v }
	return &Table{
		Headlines: []Headline{
			{ID: "boom", Conditions: []Condition{{Field: "growth", Min: min(2.5)}},
				Headline: "Economy Roars Ahead", Subheading: "Growth beats every forecast in sight"},
			{ID: "squeeze", Conditions: []Condition{{Field: "inflation", Min: min(4)}},
				Headline: "Cost of Living Bites", Subheading: "Prices outpace pay for a third month"},
			{ID: "dole", Conditions: []Condition{{Field: "unemployment", Min: min(7)}},
				Headline: "Jobless Queue Lengthens", Subheading: "Ministers under pressure over labour market"},
			{ID: "breach", Conditions: []Condition{{Field: "headroom", Max: max(0)}},
				Headline: "Fiscal Rule Broken", Subheading: "Chancellor blows through the framework"},
			{ID: "steady", Conditions: []Condition{{Field: "approval", Min: min(38)}},
				Headline: "Quiet Month in the Treasury", Subheading: "Markets shrug at the latest figures"},
			{ID: "slump", Conditions: []Condition{{Field: "approval", Max: max(30)}},
				Headline: "Government Approval Craters", Subheading: "Poll numbers reach new depths"},
		},
		Quotes: []Quote{
			{ID: "markets-calm", Conditions: []Condition{{Field: "headroom", Min: min(0)}},
				Quote: "The framework is holding, for now.", Speaker: "City economist"},
			{ID: "markets-nervous", Conditions: []Condition{{Field: "headroom", Max: max(0)}},
				Quote: "Gilt investors do not like what they are seeing.", Speaker: "Bond desk strategist"},
			{ID: "backbench-grim", Conditions: []Condition{{Field: "mood", Max: max(45)}},
				Quote: "Colleagues are asking how long this can go on.", Speaker: "Senior backbencher"},
			{ID: "backbench-fine", Conditions: []Condition{{Field: "mood", Min: min(55)}},
				Quote: "The parliamentary party is in decent heart.", Speaker: "Party whip"},
		},
	}
}
