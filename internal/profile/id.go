package profile

import (
	"encoding/base64"

	"golang.org/x/crypto/blake2b"
)

// idDigestSize keeps IDs short and URL-embeddable while leaving collisions
// vanishingly unlikely at this corpus's scale.
const idDigestSize = 9

func hashID(s string) string {
	h, err := blake2b.New(idDigestSize, nil)
	if err != nil {
		// Only reachable with an invalid digest size.
		panic(err)
	}
	h.Write([]byte(s))
	return base64.URLEncoding.EncodeToString(h.Sum(nil))
}

// GenID derives the idol's stable identifier. It binds only to the fields
// that semantically identify the person, so re-crawls and unrelated edits
// keep the ID stable.
func (i *Idol) GenID() string {
	return hashID(i.RealNameOriginal + i.BirthDate)
}

// GenID derives the group's stable identifier from its original name.
func (g *Group) GenID() string {
	return hashID(g.NameOriginal)
}
