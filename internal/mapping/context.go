package mapping

import "strings"

// contextPass exploits positional affinities between fields: once one
// member of a related pair is mapped, nearby columns are inspected for the
// other member's vocabulary. Confidence starts at 0.6 and grows 0.1 per
// extra keyword hit, capped at 0.85, so a single weak keyword never clears
// the acceptance threshold on its own.
func (m *Mapper) contextPass(s *run) {
	for _, rel := range fieldRelations {
		if s.settled(rel.Related) {
			continue
		}

		anchorIdx := -1
		for _, anchor := range rel.Anchor {
			if cand, ok := s.result[anchor]; ok {
				anchorIdx = headerIndex(s.infos, cand.Header)
				break
			}
		}
		if anchorIdx < 0 {
			continue
		}

		best, bestScore := "", 0.0
		for _, info := range s.infos {
			if s.claimed(info.Original) {
				continue
			}
			dist := info.Index - anchorIdx
			if dist < 0 {
				dist = -dist
			}
			if dist == 0 || dist > rel.Window {
				continue
			}
			if containsAny(info.Cleaned, rel.Exclude) {
				continue
			}
			hits := keywordHits(info.Cleaned, rel.Keywords)
			if hits == 0 {
				continue
			}
			score := 0.6 + 0.1*float64(hits-1)
			if score > 0.85 {
				score = 0.85
			}
			if score > bestScore {
				best, bestScore = info.Original, score
			}
		}

		if best != "" && bestScore >= m.threshold {
			s.result[rel.Related] = Candidate{Header: best, Confidence: bestScore, Pass: PassContext}
		}
	}
}

func headerIndex(infos []headerInfo, original string) int {
	for _, info := range infos {
		if info.Original == original {
			return info.Index
		}
	}
	return -1
}

func containsAny(text string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(text, t) {
			return true
		}
	}
	return false
}

// keywordHits counts whole-token keyword occurrences in a cleaned header.
func keywordHits(cleaned string, keywords []string) int {
	tokens := strings.Fields(cleaned)
	hits := 0
	for _, kw := range keywords {
		for _, tok := range tokens {
			if tok == kw {
				hits++
				break
			}
		}
	}
	return hits
}
