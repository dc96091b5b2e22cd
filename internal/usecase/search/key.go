package search

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/moovio/moviedex/internal/domain/search/query"
)

// cacheKey derives a stable key from every parameter that changes the
// response. Absent filters serialize as empty segments so "no filter" and
// "empty filter" collide deliberately.
func cacheKey(q *query.Query) string {
	var b strings.Builder
	b.WriteString(strings.ToLower(q.Text()))
	b.WriteByte('|')
	fmt.Fprintf(&b, "%d|%d|", q.Page(), q.Limit())
	b.WriteString(strings.ToLower(q.Genre()))
	b.WriteByte('|')
	if y := q.Year(); y != nil {
		fmt.Fprintf(&b, "%d", *y)
	}
	b.WriteByte('|')
	if r := q.MinRating(); r != nil {
		fmt.Fprintf(&b, "%g", *r)
	}
	b.WriteByte('|')
	b.WriteString(q.SortBy())

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:16])
}
