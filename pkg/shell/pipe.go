package shell

// SplitPipe splits args around the first "|" token into the left and right
// commands. Both halves are views into the original sequence. Only a single
// pipe stage is supported: a second "|" stays in the right half and reaches
// that program as a literal argument.
func SplitPipe(args []string) (left, right []string, found bool) {
	for i, arg := range args {
		if arg == opPipe {
			return args[:i], args[i+1:], true
		}
	}
	return nil, nil, false
}
