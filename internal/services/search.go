package services

import "regexp"

// SearchPattern escapes every regex metacharacter in term so it matches
// literally when compiled by MongoDB's PCRE engine or by regexp.
func SearchPattern(term string) string {
	return regexp.QuoteMeta(term)
}
