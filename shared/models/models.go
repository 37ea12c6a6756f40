package models

import "time"

// Classification is one row of the flat classification table. JSON names
// follow the catalog client's wire format.
type Classification struct {
	ID          int64  `json:"id"`
	Code        string `json:"dewey_no" validate:"required"`
	Title       string `json:"konu_adi" validate:"required"`
	Description string `json:"aciklama,omitempty"`
	Note1       string `json:"note1,omitempty"`
	Note2       string `json:"note2,omitempty"`
}

// AuxTable is one of the auxiliary (T1-T6) tables.
type AuxTable struct {
	ID          int64  `json:"id"`
	TableNo     string `json:"tablo_no" validate:"required"`
	Title       string `json:"konu_adi" validate:"required"`
	Description string `json:"aciklama,omitempty"`
}

// AuxTableEntry is a notation inside an auxiliary table. The notation is
// stored as up to seven segments and displayed joined with dots.
type AuxTableEntry struct {
	ID          int64     `json:"id"`
	TableNo     string    `json:"tablo_no" validate:"required"`
	Segments    [7]string `json:"segments"`
	Title       string    `json:"konu_adi" validate:"required"`
	Description string    `json:"aciklama,omitempty"`
}

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdTimestamp"`
}
