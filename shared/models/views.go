package models

import (
	"encoding/json"
	"strings"
)

// ClassificationNode is a classification enriched with whether anything is
// stored below it.
type ClassificationNode struct {
	Classification
	HasSubcategories bool `json:"hasSubcategories"`
}

// MarshalJSON adds real_dewey_no, the key the level screens select on.
func (n ClassificationNode) MarshalJSON() ([]byte, error) {
	type node ClassificationNode
	return json.Marshal(struct {
		node
		RealDeweyNo string `json:"real_dewey_no"`
	}{node: node(n), RealDeweyNo: n.Code})
}

// AuxTableEntryView is the API projection of an auxiliary table entry.
type AuxTableEntryView struct {
	ID          int64  `json:"id"`
	TableNo     string `json:"tablo_no"`
	G1          string `json:"g1,omitempty"`
	G2          string `json:"g2,omitempty"`
	G3          string `json:"g3,omitempty"`
	G4          string `json:"g4,omitempty"`
	G5          string `json:"g5,omitempty"`
	G6          string `json:"g6,omitempty"`
	G7          string `json:"g7,omitempty"`
	Notation    string `json:"notation"`
	Title       string `json:"konu_adi"`
	Description string `json:"aciklama,omitempty"`
}

// Notation joins the non-empty leading segments with dots.
func (e AuxTableEntry) Notation() string {
	parts := make([]string, 0, len(e.Segments))
	for _, s := range e.Segments {
		if s == "" {
			break
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, ".")
}

func (e AuxTableEntry) View() AuxTableEntryView {
	s := e.Segments
	return AuxTableEntryView{
		ID:          e.ID,
		TableNo:     e.TableNo,
		G1:          s[0],
		G2:          s[1],
		G3:          s[2],
		G4:          s[3],
		G5:          s[4],
		G6:          s[5],
		G7:          s[6],
		Notation:    e.Notation(),
		Title:       e.Title,
		Description: e.Description,
	}
}
