package mapping

import "strings"

// fuzzyPass scores every unclaimed header against every unmapped field
// using string similarity plus a synonym-aware keyword bonus, and accepts
// the best header per field when the combined score clears the threshold.
func (m *Mapper) fuzzyPass(s *run) {
	for _, entry := range fieldCatalog {
		field := entry.Field
		if s.settled(field) {
			continue
		}
		name := strings.ToLower(string(field))
		tokens := expandSynonyms(strings.Fields(name))

		best, bestScore := "", 0.0
		for _, info := range s.infos {
			if s.claimed(info.Original) || info.Cleaned == "" {
				continue
			}

			similarity := levenshteinRatio(name, info.Cleaned)
			if tri := trigramJaccard(name, info.Cleaned); tri > similarity {
				similarity = tri
			}

			bonus := 0.0
			headerTokens := strings.Fields(info.Cleaned)
			for _, tok := range tokens {
				switch {
				case containsToken(headerTokens, tok):
					bonus += 0.15
				case strings.Contains(info.Cleaned, tok):
					bonus += 0.10
				}
			}

			score := similarity + bonus
			if score > 1.0 {
				score = 1.0
			}
			if score > bestScore {
				best, bestScore = info.Original, score
			}
		}

		if best != "" && bestScore >= m.threshold {
			s.result[field] = Candidate{Header: best, Confidence: bestScore, Pass: PassFuzzy}
		}
	}
}

func expandSynonyms(tokens []string) []string {
	seen := make(map[string]bool, len(tokens))
	out := make([]string, 0, len(tokens)*2)
	add := func(t string) {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	for _, t := range tokens {
		add(t)
		for _, syn := range synonyms[t] {
			add(syn)
		}
	}
	return out
}

func containsToken(tokens []string, want string) bool {
	for _, t := range tokens {
		if t == want {
			return true
		}
	}
	return false
}

// levenshteinRatio is a whole-string similarity in [0,1]: one minus the
// edit distance normalized by the longer string.
func levenshteinRatio(a, b string) float64 {
	if a == b {
		return 1.0
	}
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 || len(rb) == 0 {
		return 0
	}

	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		cur[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			cur[j] = min3(cur[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}

	longest := len(ra)
	if len(rb) > longest {
		longest = len(rb)
	}
	return 1.0 - float64(prev[len(rb)])/float64(longest)
}

// trigramJaccard is the Jaccard similarity of the two strings' character
// trigram sets.
func trigramJaccard(a, b string) float64 {
	ta, tb := trigrams(a), trigrams(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}
	inter := 0
	for t := range ta {
		if tb[t] {
			inter++
		}
	}
	union := len(ta) + len(tb) - inter
	return float64(inter) / float64(union)
}

func trigrams(s string) map[string]bool {
	runes := []rune(s)
	out := make(map[string]bool)
	for i := 0; i+3 <= len(runes); i++ {
		out[string(runes[i:i+3])] = true
	}
	return out
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
