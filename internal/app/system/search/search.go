// internal/app/system/search/search.go
package search

import (
	"regexp"
	"strings"

	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FoldPrefix returns a filter matching documents whose folded field starts
// with the folded query. Field should be one of the *_ci columns the stores
// maintain alongside display values, so the match is case and diacritic
// insensitive and can use the field's index (anchored prefix regex).
// An empty or whitespace query returns nil: no constraint.
func FoldPrefix(field, q string) bson.M {
	folded := text.Fold(strings.TrimSpace(q))
	if folded == "" {
		return nil
	}
	return bson.M{field: primitive.Regex{Pattern: "^" + regexp.QuoteMeta(folded)}}
}

// IsEmailQuery reports whether the search term looks like an email, in
// which case lists pivot from the name_ci prefix to an exact-prefix match
// on the email field.
func IsEmailQuery(q string) bool {
	return strings.Contains(q, "@")
}

// EmailPrefix returns a filter matching emails that start with the query,
// lowercased. Stores persist emails lowercased at write time.
func EmailPrefix(q string) bson.M {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return nil
	}
	return bson.M{"email": primitive.Regex{Pattern: "^" + regexp.QuoteMeta(q)}}
}
