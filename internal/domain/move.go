package domain

import (
	"fmt"
	"strings"
)

// MoveData is one row of frame data embedded in a card. It has no identity
// beyond its position in the owning sequence.
type MoveData struct {
	Move            string   `json:"move"                        bson:"move"`
	Description     string   `json:"description,omitempty"       bson:"description,omitempty"`
	HitLevel        string   `json:"hit_level,omitempty"         bson:"hit_level,omitempty"`
	Damage          []string `json:"damage,omitempty"            bson:"damage,omitempty"`
	StartUpFrame    string   `json:"start_up_frame,omitempty"    bson:"start_up_frame,omitempty"`
	BlockFrame      string   `json:"block_frame,omitempty"       bson:"block_frame,omitempty"`
	HitFrame        string   `json:"hit_frame,omitempty"         bson:"hit_frame,omitempty"`
	CounterHitFrame string   `json:"counter_hit_frame,omitempty" bson:"counter_hit_frame,omitempty"`
	Notes           string   `json:"notes,omitempty"             bson:"notes,omitempty"`
}

// ComboDifficulty grades how hard a combo route is to execute.
type ComboDifficulty string

// Valid combo difficulties.
const (
	ComboEasy         ComboDifficulty = "Easy"
	ComboIntermediate ComboDifficulty = "Intermediate"
	ComboDifficult    ComboDifficulty = "Difficult"
)

// ComboType classifies the situation a combo is performed in.
type ComboType string

// Valid combo types.
const (
	ComboNormal      ComboType = "Normal"
	ComboCounterHit  ComboType = "Counter Hit"
	ComboHeatDash    ComboType = "Heat Dash"
	ComboWallEnder   ComboType = "Wall Ender"
	ComboWallTornado ComboType = "Wall Tornado"
)

// ComboData is one combo route embedded in a card.
type ComboData struct {
	ComboStarters []string        `json:"combo_starters,omitempty" bson:"combo_starters,omitempty"`
	ComboRoute    string          `json:"combo_route"              bson:"combo_route"`
	Difficulty    ComboDifficulty `json:"difficulty,omitempty"     bson:"difficulty,omitempty"`
	Type          ComboType       `json:"type,omitempty"           bson:"type,omitempty"`
	Notes         string          `json:"notes,omitempty"          bson:"notes,omitempty"`
}

// IsValid reports whether d is a known difficulty. The empty value is allowed.
func (d ComboDifficulty) IsValid() bool {
	switch d {
	case "", ComboEasy, ComboIntermediate, ComboDifficult:
		return true
	}
	return false
}

// IsValid reports whether t is a known combo type. The empty value is allowed.
func (t ComboType) IsValid() bool {
	switch t {
	case "", ComboNormal, ComboCounterHit, ComboHeatDash, ComboWallEnder, ComboWallTornado:
		return true
	}
	return false
}

// validateMoves checks every row of a move-data sequence. field names the
// sequence in the returned ValidationError.
func validateMoves(field string, moves []MoveData) error {
	for i, m := range moves {
		if strings.TrimSpace(m.Move) == "" {
			return NewValidationError(fmt.Sprintf("%s[%d].move", field, i), "cannot be empty", nil)
		}
	}
	return nil
}

func validateCombos(combos []ComboData) error {
	for i, c := range combos {
		if strings.TrimSpace(c.ComboRoute) == "" {
			return NewValidationError(fmt.Sprintf("combo_data[%d].combo_route", i), "cannot be empty", nil)
		}
		if !c.Difficulty.IsValid() {
			return NewValidationError(fmt.Sprintf("combo_data[%d].difficulty", i), "is not a known difficulty", nil)
		}
		if !c.Type.IsValid() {
			return NewValidationError(fmt.Sprintf("combo_data[%d].type", i), "is not a known combo type", nil)
		}
	}
	return nil
}

func cloneMoves(in []MoveData) []MoveData {
	if in == nil {
		return nil
	}
	out := make([]MoveData, len(in))
	for i, m := range in {
		out[i] = m
		if m.Damage != nil {
			out[i].Damage = append([]string(nil), m.Damage...)
		}
	}
	return out
}

func cloneCombos(in []ComboData) []ComboData {
	if in == nil {
		return nil
	}
	out := make([]ComboData, len(in))
	for i, c := range in {
		out[i] = c
		if c.ComboStarters != nil {
			out[i].ComboStarters = append([]string(nil), c.ComboStarters...)
		}
	}
	return out
}
