// Package roster knows the playable Tekken 8 cast and offers fuzzy name
// suggestions for character search.
package roster

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

// characters is the cast, base roster and released DLC, in alphabetical
// order.
var characters = []string{
	"Alisa",
	"Anna",
	"Armor King",
	"Asuka",
	"Azucena",
	"Bryan",
	"Claudio",
	"Clive",
	"Devil Jin",
	"Dragunov",
	"Eddy",
	"Fahkumram",
	"Feng",
	"Heihachi",
	"Hwoarang",
	"Jack-8",
	"Jin",
	"Jun",
	"Kazuya",
	"King",
	"Kuma",
	"Lars",
	"Law",
	"Lee",
	"Leo",
	"Leroy",
	"Lidia",
	"Lili",
	"Nina",
	"Panda",
	"Paul",
	"Raven",
	"Reina",
	"Shaheen",
	"Steve",
	"Victor",
	"Xiaoyu",
	"Yoshimitsu",
	"Zafina",
}

var byLower = func() map[string]string {
	m := make(map[string]string, len(characters))
	for _, c := range characters {
		m[strings.ToLower(c)] = c
	}
	return m
}()

// names adapts a lower-cased copy of the roster to fuzzy.Source.
type names []string

func (n names) String(i int) string { return n[i] }
func (n names) Len() int            { return len(n) }

var lowered = func() names {
	out := make(names, len(characters))
	for i, c := range characters {
		out[i] = strings.ToLower(c)
	}
	return out
}()

// Characters returns the full roster in alphabetical order.
func Characters() []string {
	return append([]string{}, characters...)
}

// Canonical returns the roster spelling of name, matched case-insensitively.
func Canonical(name string) (string, bool) {
	c, ok := byLower[strings.ToLower(strings.TrimSpace(name))]
	return c, ok
}

// Suggest ranks roster names against query, best match first. An empty
// query returns the whole roster alphabetically. limit <= 0 means no limit.
func Suggest(query string, limit int) []string {
	query = strings.ToLower(strings.TrimSpace(query))

	var out []string
	if query == "" {
		out = Characters()
	} else {
		// FindFrom returns matches sorted by descending score.
		matches := fuzzy.FindFrom(query, lowered)
		out = make([]string, 0, len(matches))
		for _, m := range matches {
			out = append(out, characters[m.Index])
		}
	}

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
