package database

import (
	"encoding/hex"

	"golang.org/x/crypto/sha3"

	"github.com/nao1215/slashannots/internal/model"
)

// saltSize is the number of random bytes mixed into every author digest.
const saltSize = 32

// pseudonymPrefix marks an author key that replaced a name.
const pseudonymPrefix = "sha3:"

// Pseudonymize returns a copy of report in which every author name, in the
// stats and in the policy filter, is replaced by a digest of salt and name.
// Within one report the same name maps to the same key. The salt is not
// stored, so keys cannot be matched against guessed names or across runs.
// Authorless annotations keep the model.NoAuthor key.
func Pseudonymize(report *model.RedactionReport, salt []byte) *model.RedactionReport {
	key := func(author string) string {
		if author == model.NoAuthor {
			return author
		}
		h := sha3.New256()
		h.Write(salt)
		h.Write([]byte(author))
		return pseudonymPrefix + hex.EncodeToString(h.Sum(nil)[:8])
	}

	c := *report
	if report.Stats != nil {
		c.Stats = report.Stats.MapAuthors(key)
	}
	if len(report.Policy.IncludedAuthors) > 0 {
		c.Policy.IncludedAuthors = make([]string, len(report.Policy.IncludedAuthors))
		for i, a := range report.Policy.IncludedAuthors {
			c.Policy.IncludedAuthors[i] = key(a)
		}
	}
	return &c
}
