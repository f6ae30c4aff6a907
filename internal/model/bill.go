package model

import (
	"database/sql"
	"time"
)

// Bill represents the current state of one bill within one session.
// BillID is a surrogate key derived from the session and print number;
// (BillNumber, SessionID) is the natural key.
type Bill struct {
	BillID         int
	BillNumber     string
	Title          string
	Description    string
	Status         int
	StatusDesc     string
	StatusDate     sql.NullTime
	Committee      sql.NullString
	LastAction     sql.NullString
	LastActionDate sql.NullTime
	SessionID      int
	URL            string
	StateLink      string
	UpdatedAt      time.Time
}

// Sponsor links a person to a bill. Position 1 is the primary sponsor,
// 2..N are co-sponsors in list order, multi-sponsors follow.
type Sponsor struct {
	BillID   int
	PeopleID int
	Position int
}

// HistoryEntry is one legislative action on a bill.
type HistoryEntry struct {
	BillID   int
	Date     sql.NullTime
	Sequence int
	Action   string
	Chamber  string
}

// RollCall is one recorded vote event on a bill with aggregate tallies.
type RollCall struct {
	RollCallID int
	BillID     int
	Date       sql.NullTime
	Chamber    string
	Desc       string
	Yea        int
	Nay        int
	Absent     int
	NV         int
	Total      int
}

// Vote is one member's vote on one roll call; unique on
// (PeopleID, RollCallID).
type Vote struct {
	RollCallID int
	PeopleID   int
	VoteCode   int
	VoteDesc   string
}
