package sync

import "strings"

// statusMapping pairs the internal numeric status code with its display
// description.
type statusMapping struct {
	Code int
	Desc string
}

// statusTable maps each upstream statusType to its internal code. Anything
// not listed maps to 0 with the raw label as description.
var statusTable = map[string]statusMapping{
	"INTRODUCED":       {1, "Introduced"},
	"IN_SENATE_COMM":   {2, "In Committee"},
	"IN_ASSEMBLY_COMM": {2, "In Committee"},
	"SENATE_FLOOR":     {3, "On Floor Calendar"},
	"ASSEMBLY_FLOOR":   {3, "On Floor Calendar"},
	"PASSED_SENATE":    {4, "Passed Senate"},
	"PASSED_ASSEMBLY":  {4, "Passed Assembly"},
	"DELIVERED_TO_GOV": {5, "Delivered to Governor"},
	"SIGNED_BY_GOV":    {6, "Signed by Governor"},
	"ADOPTED":          {6, "Adopted"},
	"POCKET_APPROVAL":  {6, "Pocket Approval"},
	"VETOED":           {7, "Vetoed"},
	"STRICKEN":         {8, "Stricken"},
	"LOST":             {8, "Lost"},
	"SUBSTITUTED":      {9, "Substituted"},
}

// MapStatus resolves an upstream statusType to (code, description).
// Unrecognized values return code 0 and the raw label; this never fails.
func MapStatus(statusType string) (int, string) {
	if m, ok := statusTable[strings.ToUpper(strings.TrimSpace(statusType))]; ok {
		return m.Code, m.Desc
	}
	return 0, statusType
}
