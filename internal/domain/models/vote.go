package models

import (
	"strings"
	"time"
)

type VoteChoice string

const (
	ChoiceWant VoteChoice = "want"
	ChoicePass VoteChoice = "pass"
)

// Vote представляет решение одного участника по одной фотографии в списке
type Vote struct {
	Choice  VoteChoice `json:"choice"`
	Comment string     `json:"comment,omitempty"`
	VotedAt time.Time  `json:"voted_at"`
}

// NewVote stamps a vote with the current UTC time. Choice is free-form on the
// write side; only ChoiceWant carries aggregation semantics.
func NewVote(choice VoteChoice, comment string) Vote {
	return Vote{
		Choice:  choice,
		Comment: comment,
		VotedAt: time.Now().UTC(),
	}
}

// ListVotes is one list's vote map, keyed by item id. A later vote for the
// same item overwrites the earlier one.
type ListVotes map[string]Vote

// Document объединяет всё состояние приложения в один JSON-документ
type Document struct {
	Items       map[string]Item      `json:"items"`
	Lists       map[string]ListVotes `json:"lists"`
	Collections map[string]struct{}  `json:"collections"`
}

// NewDocument returns the empty default document shape.
func NewDocument() *Document {
	return &Document{
		Items:       make(map[string]Item),
		Lists:       make(map[string]ListVotes),
		Collections: make(map[string]struct{}),
	}
}

// Normalize defaults any top-level mapping that is missing after load, so
// documents written by older builds keep working.
func (d *Document) Normalize() {
	if d.Items == nil {
		d.Items = make(map[string]Item)
	}
	if d.Lists == nil {
		d.Lists = make(map[string]ListVotes)
	}
	if d.Collections == nil {
		d.Collections = make(map[string]struct{})
	}
	for name, votes := range d.Lists {
		if votes == nil {
			d.Lists[name] = make(ListVotes)
		}
	}
}

// PickedItem объединяет фотографию с голосом за неё в списке
type PickedItem struct {
	ID           string     `json:"id"`
	Caption      string     `json:"caption"`
	Collection   string     `json:"collection"`
	Thumb        string     `json:"thumb,omitempty"`
	Choice       VoteChoice `json:"choice"`
	Comment      string     `json:"comment,omitempty"`
	VotedAt      time.Time  `json:"voted_at"`
	AlsoWantedIn []string   `json:"also_wanted_in"`
}

// ListView is the aggregated read model: collection name to the ordered
// picked items of that bucket.
type ListView map[string][]PickedItem

// TrimName canonicalizes list and collection names before they are used as
// document keys.
func TrimName(name string) string {
	return strings.TrimSpace(name)
}
