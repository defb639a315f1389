package certificate

import (
	"encoding/base32"
	"strings"

	"github.com/google/uuid"
)

var crockford = base32.NewEncoding("0123456789ABCDEFGHJKMNPQRSTVWXYZ").WithPadding(base32.NoPadding)

// GenerateCode returns a validation code made of 16 Crockford base32 characters
// grouped by four (XXXX-XXXX-XXXX-XXXX). It encodes 80 random bits taken from
// a version 4 UUID, skipping the version and variant bytes.
func GenerateCode() (string, error) {
	u, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	raw := make([]byte, 0, 10)
	raw = append(raw, u[0:6]...)
	raw = append(raw, u[10:14]...)
	s := crockford.EncodeToString(raw)
	return s[0:4] + "-" + s[4:8] + "-" + s[8:12] + "-" + s[12:16], nil
}

// NormalizeCode upper-cases a user supplied code and trims it.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
