// Package data embeds the bundled NYC alternate side parking suspension calendar.
package data

import (
	"bytes"
	_ "embed"

	"aspcal/services/holidays"
)

// DefaultPath is the name reported for the embedded data set.
const DefaultPath = "embedded:holidays.json"

//go:embed holidays.json
var holidaysJSON []byte

// Raw returns a copy of the embedded holiday file.
func Raw() []byte {
	return bytes.Clone(holidaysJSON)
}

// Default parses the embedded holiday file.
func Default() (*holidays.Store, error) {
	return holidays.Parse(bytes.NewReader(holidaysJSON), holidays.FormatJSON)
}
