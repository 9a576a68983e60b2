package user

import (
	"fmt"
	"math/rand/v2"

	"gitlab.com/zephyrtronium/pick"
)

// Sheet is a chatter's metagame character sheet. It is regenerated wholesale
// by rerolls and never updated in place.
type Sheet struct {
	Species string `json:"species"`
	Str     int    `json:"str"`
	Dex     int    `json:"dex"`
	Con     int    `json:"con"`
	Int     int    `json:"int"`
	Wis     int    `json:"wis"`
	Cha     int    `json:"cha"`
	MaxHP   int    `json:"max_hp"`
	HP      int    `json:"hp"`
	MaxMP   int    `json:"max_mp"`
	MP      int    `json:"mp"`
	XP      int    `json:"xp"`
}

// mods is the per-species ability adjustment in the order
// str, dex, con, int, wis, cha.
var mods = map[string][6]int{
	"human":      {0, 0, 0, 0, 0, 0},
	"elf":        {-1, 2, 0, 1, 0, 1},
	"dwarf":      {1, -1, 2, 0, 1, -1},
	"kobold":     {-1, 1, 0, 0, 0, 2},
	"frog":       {0, 2, 0, -1, 0, 1},
	"orc":        {2, 0, 1, -1, 0, -1},
	"gnome":      {0, 1, 0, 2, -1, 0},
	"troll":      {2, -1, 2, 0, 0, -2},
	"goblin":     {0, 2, 0, 1, -1, 0},
	"dragonborn": {2, 0, 1, 0, 1, -1},
	"tiefling":   {0, 1, 0, 2, 0, -1},
	"halfling":   {0, 2, 0, 1, 0, 0},
	"centaur":    {2, 0, 1, 0, 1, -1},
	"merfolk":    {0, 2, 0, 1, -1, 0},
	"fairy":      {-1, 2, 0, 2, 0, 0},
	"giant":      {3, -1, 2, 0, 0, -2},
	"minotaur":   {2, 0, 2, -1, 0, -1},
	"vampire":    {0, 2, 0, 1, 0, 1},
	"werewolf":   {2, 0, 1, 0, 1, -1},
	"undead":     {0, 0, 2, 0, 0, 1},
	"angel":      {0, 2, 0, 2, 0, 0},
	"demon":      {2, 0, 1, -1, 0, 1},
	"sphinx":     {2, 0, 1, 1, 0, -1},
	"ogre":       {3, -1, 2, 0, 0, -2},
	"djinn":      {0, 2, 0, 2, 0, 0},
	"elemental":  {0, 0, 2, 0, 0, 1},
	"lizardfolk": {1, 0, 2, 0, 1, -1},
	"kenku":      {0, 2, 0, 1, 0, 0},
	"tabaxi":     {0, 2, 0, 1, 0, 0},
}

var species = func() *pick.Dist[string] {
	w := make(map[string]int, len(mods))
	for s := range mods {
		w[s] = 1
	}
	return pick.New(pick.FromMap(w))
}()

// RollSheet generates a fresh sheet: a random species and six abilities
// rolled in [8, 18] plus the species adjustment, with health and mana
// derived from constitution and intelligence.
func RollSheet() Sheet {
	sp := species.Pick(rand.Uint32())
	m := mods[sp]
	ability := func(i int) int { return 8 + rand.IntN(11) + m[i] }
	s := Sheet{
		Species: sp,
		Str:     ability(0),
		Dex:     ability(1),
		Con:     ability(2),
		Int:     ability(3),
		Wis:     ability(4),
		Cha:     ability(5),
	}
	s.MaxHP = 10 + s.Con
	s.HP = s.MaxHP
	s.MaxMP = 10 + s.Int
	s.MP = s.MaxMP
	return s
}

// Pretty formats the sheet for a single chat line.
func (s Sheet) Pretty() string {
	return fmt.Sprintf("Species:%s Health:%d/%d Mana:%d/%d Experience:%d STR:%d DEX:%d CON:%d INT:%d WIS:%d CHA:%d",
		s.Species, s.HP, s.MaxHP, s.MP, s.MaxMP, s.XP, s.Str, s.Dex, s.Con, s.Int, s.Wis, s.Cha)
}
