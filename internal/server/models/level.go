package models

// Level rule discriminators as they appear in catalog files and the levels table.
const (
	LevelTypeLogin = "login"
)

// LevelDefinition is the stored form of a level rule: one entry of levels.json
// / levels.yaml or one row of the levels table. The levels package compiles it
// into a typed rule.
//
// Answer is a pointer because an empty answer is still an answer check; only
// an absent one means "no answer required".
type LevelDefinition struct {
	ID     string  `json:"-" yaml:"-"`
	Answer *string `json:"answer,omitempty" yaml:"answer,omitempty"`
	Type   string  `json:"type,omitempty" yaml:"type,omitempty"`
	User   string  `json:"user,omitempty" yaml:"user,omitempty"`
	Pass   string  `json:"pass,omitempty" yaml:"pass,omitempty"`
	Next   string  `json:"next" yaml:"next"`
}
