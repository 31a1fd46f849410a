package email

import "strings"

// LocalPart returns the part of an address before the first '@', or the
// whole input when there is no '@'.
func LocalPart(address string) string {
	if at := strings.IndexByte(address, '@'); at >= 0 {
		return address[:at]
	}
	return address
}

// DisplayName picks the name shown in greetings: an explicit display name
// wins, then the email local part, then "User".
func DisplayName(displayName, address string) string {
	if name := strings.TrimSpace(displayName); name != "" {
		return name
	}
	if local := strings.TrimSpace(LocalPart(address)); local != "" {
		return local
	}
	return "User"
}
