package shell

import "strings"

// Recognized operator tokens. Each must stand alone as a whole token;
// minish has no adjacency rules beyond that.
const (
	opRedirectIn  = "<"
	opRedirectOut = ">"
	opPipe        = "|"
)

// Tokenize splits one command line into whitespace-delimited tokens.
// There is no quoting or escaping, so embedded whitespace can never be
// preserved inside a token. Empty and blank lines yield an empty sequence.
func Tokenize(line string) []string {
	return strings.Fields(line)
}
