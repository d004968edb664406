package shell

import "fmt"

// SyntaxError reports a malformed redirection. The command that produced it
// is abandoned before any process is spawned or file created.
type SyntaxError struct {
	Token string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error near unexpected token `%s'", e.Token)
}

// ExtractRedirect scans args for the first occurrence of op ("<" or ">") and
// splices the operator and its following target token out of the sequence.
// It returns the shortened sequence, the target path, and whether the
// operator was found.
//
// An operator is valid only when a following token exists and that token does
// not itself begin with '<' or '>'; otherwise a SyntaxError is returned and
// args is left unmodified. Only the first occurrence is honored: a later
// operator of the same type survives as a literal argument, since the
// sequence is never re-scanned.
func ExtractRedirect(args []string, op string) ([]string, string, bool, error) {
	for i, arg := range args {
		if arg != op {
			continue
		}
		if i+1 >= len(args) {
			return args, "", false, &SyntaxError{Token: "newline"}
		}
		next := args[i+1]
		if len(next) > 0 && (next[0] == '<' || next[0] == '>') {
			return args, "", false, &SyntaxError{Token: next}
		}
		return append(args[:i], args[i+2:]...), next, true, nil
	}
	return args, "", false, nil
}
