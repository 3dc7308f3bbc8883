package fields

// ValidName reports whether s is a valid field name: letters, digits and
// underscores, not starting with a digit.
func ValidName(s string) bool {
	return s != "" && ScanIdent(s, 0) == len(s)
}

// ScanIdent returns the end of the identifier starting at i, or i when
// there is none. Identifiers are ASCII.
func ScanIdent(s string, i int) int {
	if i >= len(s) || !isIdentStart(s[i]) {
		return i
	}
	j := i + 1
	for j < len(s) && isIdentPart(s[j]) {
		j++
	}
	return j
}

// ScanPath scans an attribute path such as `debug` or `emit::serde`.
// Returns i when there is no path at i.
func ScanPath(s string, i int) int {
	end := ScanIdent(s, i)
	if end == i {
		return i
	}
	for end+2 < len(s) && s[end] == ':' && s[end+1] == ':' {
		next := ScanIdent(s, end+2)
		if next == end+2 {
			break
		}
		end = next
	}
	return end
}

func isIdentStart(c byte) bool {
	return c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || ('0' <= c && c <= '9')
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
