// Package reference derives sequential sale references in the C19-NNNN format.
//
// Next is pure: it only knows how to parse and increment. Persistent allocation
// must serialize around it; the trade repository locks the counter row inside
// the creation transaction so two concurrent sales can never mint the same
// reference.
package reference

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Prefix is the fixed sale-reference prefix.
const Prefix = "C19-"

var refPattern = regexp.MustCompile(`^C19-(\d{4,})$`)

// Next returns the reference following last. An empty or unparseable last
// starts the sequence at the first reference.
func Next(last string) string {
	m := refPattern.FindStringSubmatch(strings.TrimSpace(last))
	if m == nil {
		return Prefix + "0001"
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return Prefix + "0001"
	}
	return fmt.Sprintf("%s%04d", Prefix, n+1)
}
