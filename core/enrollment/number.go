package enrollment

import (
	"encoding/base32"

	"github.com/google/uuid"
)

// crockford is Crockford's base32 alphabet: no I, L, O or U.
var crockford = base32.NewEncoding("0123456789ABCDEFGHJKMNPQRSTVWXYZ").WithPadding(base32.NoPadding)

// GenerateNumber returns a human readable enrollment number like ENR-7Q2M-KX0D.
// The 40 bits of entropy come from the random part of a version 4 UUID.
func GenerateNumber() (string, error) {
	u, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	s := crockford.EncodeToString(u[:5])
	return "ENR-" + s[:4] + "-" + s[4:], nil
}
