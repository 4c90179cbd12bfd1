package reporting

// MaskMinLength is the shortest identifier that gets masked. Shorter
// identifiers, including the empty one, are printed unchanged.
const MaskMinLength = 2

const maskPrefix = "***.***.***-"

// MaskIdentifier hides a CPF-style identifier except for its last two
// characters, e.g. "123.456.789-09" becomes "***.***.***-09".
func MaskIdentifier(id string) string {
	r := []rune(id)
	if len(r) < MaskMinLength {
		return id
	}
	return maskPrefix + string(r[len(r)-2:])
}
