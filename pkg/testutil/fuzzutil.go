package testutil

const MaxFuzzBytes = 2048

// ClampBytes truncates fuzz input to a manageable size.
func ClampBytes(data []byte, max int) []byte {
	if len(data) > max {
		return data[:max]
	}
	return data
}

// ClampString truncates fuzz input to a manageable size.
func ClampString(data string, max int) string {
	if len(data) > max {
		return data[:max]
	}
	return data
}
