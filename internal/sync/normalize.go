// Package sync implements the bill synchronization and identity
// reconciliation engine: print-number normalization, person matching,
// per-bill upsert orchestration and the sync strategies driving it.
package sync

import (
	"regexp"
	"strconv"
	"strings"
)

// printNoPattern matches a chamber prefix letter, a digit run, and an
// optional trailing amendment letter (S256, A1000B).
var printNoPattern = regexp.MustCompile(`^([A-Z])(\d+)([A-Z]?)$`)

var digitRun = regexp.MustCompile(`\d+`)

// assemblyOffset keeps Senate and Assembly bill ids disjoint within a
// session without a database sequence.
const assemblyOffset = 500000

// NormalizePrintNo canonicalizes an external bill identifier: upper-cased,
// leading zeros stripped from the digit run (floored at "0"), amendment
// suffix preserved. Input that does not match the print-number pattern is
// returned upper-cased unchanged; this never fails.
//
//	S00256  -> S256
//	a0100b  -> A100B
func NormalizePrintNo(raw string) string {
	s := strings.ToUpper(strings.TrimSpace(raw))

	m := printNoPattern.FindStringSubmatch(s)
	if m == nil {
		return s
	}

	num := strings.TrimLeft(m[2], "0")
	if num == "" {
		num = "0"
	}

	return m[1] + num + m[3]
}

// DeriveBillID computes the surrogate bill id used when no row exists yet
// for (printNo, session): session*1_000_000 + chamber offset + numeric part.
// Pure and deterministic for a given input.
func DeriveBillID(session int, printNo string) int {
	n := NormalizePrintNo(printNo)

	offset := 0
	if strings.HasPrefix(n, "A") {
		offset = assemblyOffset
	}

	num, _ := strconv.Atoi(digitRun.FindString(n))

	return session*1_000_000 + offset + num
}

// deriveRollCallID derives a roll-call id from the vote event's position in
// the upstream list. Not stable if upstream reorders its vote list, but the
// whole vote set for a bill is replaced as a unit on every sync, so a
// reorder rewrites ids and rows together.
func deriveRollCallID(billID, index int) int {
	return billID*100 + index
}

// chamberFromPrintNo infers the display chamber from the prefix letter.
func chamberFromPrintNo(printNo string) string {
	n := NormalizePrintNo(printNo)
	switch {
	case strings.HasPrefix(n, "S"):
		return "Senate"
	case strings.HasPrefix(n, "A"):
		return "Assembly"
	}
	return ""
}

// mapChamber converts the upstream chamber enum to its display string.
// Unrecognized values pass through as-is.
func mapChamber(chamber string) string {
	switch strings.ToUpper(chamber) {
	case "SENATE":
		return "Senate"
	case "ASSEMBLY":
		return "Assembly"
	}
	return chamber
}
