package plan

import "strings"

// Stop words to filter out when extracting search terms from a topic
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "be": true, "is": true, "are": true,
	"was": true, "to": true, "of": true, "and": true, "in": true, "that": true,
	"have": true, "it": true, "for": true, "not": true, "on": true, "with": true,
	"as": true, "you": true, "do": true, "at": true, "this": true, "but": true,
	"by": true, "from": true,
}

// maxTerms caps how many meaningful terms a topic contributes to queries.
const maxTerms = 5

// extractTerms splits a topic into words, lowercases, trims punctuation,
// removes stop words and duplicates, and keeps at most maxTerms terms.
// When at least two terms remain, the bigram of the first two is appended so
// connectors can prefer phrase matches.
func extractTerms(topic string) []string {
	words := strings.Fields(topic)
	terms := make([]string, 0, len(words))
	seen := make(map[string]bool, len(words))

	for _, word := range words {
		// Lowercase and trim punctuation
		cleaned := strings.ToLower(strings.Trim(word, ".,!?;:'\"-()[]{}"))

		// Skip stop words, duplicates, and empty strings
		if cleaned == "" || stopWords[cleaned] || seen[cleaned] {
			continue
		}
		seen[cleaned] = true
		terms = append(terms, cleaned)
		if len(terms) == maxTerms {
			break
		}
	}

	if len(terms) >= 2 {
		terms = append(terms, terms[0]+" "+terms[1])
	}

	return terms
}
