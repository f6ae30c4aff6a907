package openleg

import "github.com/goccy/go-json"

// envelope is the wire envelope every API response uses. Success can be
// false on an HTTP 200; Message then carries the API's error text.
type envelope struct {
	Success      bool            `json:"success"`
	Message      string          `json:"message"`
	ResponseType string          `json:"responseType"`
	Total        int             `json:"total"`
	OffsetStart  int             `json:"offsetStart"`
	OffsetEnd    int             `json:"offsetEnd"`
	Limit        int             `json:"limit"`
	Result       json.RawMessage `json:"result"`
}

// Bill is the subset of the upstream bill payload this pipeline reads.
// Optional sections are pointers so a missing field is an explicit absent
// value rather than a zero struct.
type Bill struct {
	BasePrintNo string        `json:"basePrintNo"`
	Session     int           `json:"session"`
	PrintNo     string        `json:"printNo"`
	Title       string        `json:"title"`
	Summary     string        `json:"summary"`
	Status      *Status       `json:"status"`
	Sponsor     *Sponsorship  `json:"sponsor"`
	Actions     *ActionList   `json:"actions"`
	Amendments  *AmendmentMap `json:"amendments"`
	Votes       *VoteList     `json:"votes"`
}

// Status is the upstream bill status block.
type Status struct {
	StatusType    string `json:"statusType"`
	StatusDesc    string `json:"statusDesc"`
	ActionDate    string `json:"actionDate"`
	CommitteeName string `json:"committeeName"`
}

// Sponsorship carries the primary sponsor.
type Sponsorship struct {
	Member *Member `json:"member"`
	Budget bool    `json:"budget"`
	Rules  bool    `json:"rules"`
}

// Member is an upstream member reference. MemberID belongs to the upstream
// source system and is not assumed to align with the local people table.
type Member struct {
	MemberID     int    `json:"memberId"`
	FullName     string `json:"fullName"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	ShortName    string `json:"shortName"`
	DistrictCode int    `json:"districtCode"`
	Chamber      string `json:"chamber"`
}

// ActionList wraps the upstream action items.
type ActionList struct {
	Items []Action `json:"items"`
	Size  int      `json:"size"`
}

// Action is one legislative action line.
type Action struct {
	Date       string `json:"date"`
	Chamber    string `json:"chamber"`
	Text       string `json:"text"`
	SequenceNo int    `json:"sequenceNo"`
}

// AmendmentMap holds amendments keyed by version letter ("" for the base
// version, then "A", "B", ...).
type AmendmentMap struct {
	Items map[string]Amendment `json:"items"`
	Size  int                  `json:"size"`
}

// Amendment is one amendment version of a bill.
type Amendment struct {
	Version       string      `json:"version"`
	Actions       *ActionList `json:"actions"`
	CoSponsors    *MemberList `json:"coSponsors"`
	MultiSponsors *MemberList `json:"multiSponsors"`
}

// MemberList wraps upstream member items.
type MemberList struct {
	Items []Member `json:"items"`
	Size  int      `json:"size"`
}

// VoteList wraps the upstream vote events.
type VoteList struct {
	Items []VoteEvent `json:"items"`
	Size  int         `json:"size"`
}

// VoteEvent is one recorded vote on a bill.
type VoteEvent struct {
	VoteType    string         `json:"voteType"`
	VoteDate    string         `json:"voteDate"`
	Committee   *CommitteeRef  `json:"committee"`
	MemberVotes *MemberVoteMap `json:"memberVotes"`
}

// CommitteeRef identifies the committee a committee vote was taken in.
type CommitteeRef struct {
	Chamber string `json:"chamber"`
	Name    string `json:"name"`
}

// MemberVoteMap groups members by upstream vote-type key
// (AYE, AYEWR, NAY, ABSENT, ABD, EXC, NV, ...).
type MemberVoteMap struct {
	Items map[string]MemberList `json:"items"`
}

// UpdateToken is one entry from the bill-updates-by-window endpoint.
type UpdateToken struct {
	ID             UpdateID `json:"id"`
	ContentType    string   `json:"contentType"`
	SourceDateTime string   `json:"sourceDateTime"`
}

// UpdateID identifies the bill an update applies to.
type UpdateID struct {
	BasePrintNo string `json:"basePrintNo"`
	Session     int    `json:"session"`
	Version     string `json:"version"`
}

// listResult is the result payload of paginated list endpoints.
type listResult struct {
	Items []Bill `json:"items"`
	Size  int    `json:"size"`
}

// updateResult is the result payload of the updates endpoint.
type updateResult struct {
	Items []UpdateToken `json:"items"`
	Size  int           `json:"size"`
}
