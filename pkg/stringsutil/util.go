package stringsutil

// RemoveEmptyStrings drops empty entries, preserving order.
func RemoveEmptyStrings(values []string) []string {
	var out []string
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
