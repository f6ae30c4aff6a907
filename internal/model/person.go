package model

// Person is a legislator. The sync pipeline only ever reads this table;
// person records are managed elsewhere.
type Person struct {
	PeopleID  int
	Name      string
	FirstName string
	LastName  string
	// District is SD-### for Senate seats and HD-### for Assembly seats,
	// zero-padded to three digits.
	District string
}
