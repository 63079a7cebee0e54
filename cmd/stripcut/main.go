// StripCut generates and ranks 1D cutting patterns for sheet metal parts.
//
// Build:
//
//	go build -o stripcut ./cmd/stripcut
package main

import "github.com/piwi3910/StripCut/cmd/stripcut/commands"

func main() {
	commands.Execute()
}
