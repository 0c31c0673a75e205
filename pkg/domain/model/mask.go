package model

// MaskCredential redacts a token or cookie for logs and user-visible
// messages. Short values (8 characters or fewer, including empty) become
// "***"; longer values keep the first and last four characters.
func MaskCredential(s string) string {
	if len(s) <= 8 {
		return "***"
	}
	return s[:4] + "***" + s[len(s)-4:]
}
