package mapping

import (
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/catalogiq/catalog-service/internal/price"
	"github.com/catalogiq/catalog-service/internal/schema"
)

const (
	// ConfidenceThreshold is the minimum score a candidate needs to enter
	// the final mapping.
	ConfidenceThreshold = 0.7

	// LockThreshold settles a mapping: fields at or above it are never
	// revisited by later, lower-precision passes.
	LockThreshold = 0.85
)

// Pass identifies which pass produced a mapping candidate.
type Pass string

const (
	PassPattern    Pass = "pattern"
	PassCurrency   Pass = "currency"
	PassContent    Pass = "content"
	PassContext    Pass = "context"
	PassFuzzy      Pass = "fuzzy"
	PassClassifier Pass = "classifier"
)

// Candidate is an accepted (source header, confidence) pair for a target
// field. Confidence is always >= ConfidenceThreshold.
type Candidate struct {
	Header     string  `json:"header"`
	Confidence float64 `json:"confidence"`
	Pass       Pass    `json:"pass"`
}

// Result is the one-to-one target-field to source-header association
// produced by a mapping run. A header appears as the value of at most one
// field.
type Result map[schema.Field]Candidate

// Headers flattens the result into a plain field-to-header map.
func (r Result) Headers() map[schema.Field]string {
	out := make(map[schema.Field]string, len(r))
	for field, cand := range r {
		out[field] = cand.Header
	}
	return out
}

// UnmappedRequired lists required fields the run could not resolve.
func (r Result) UnmappedRequired() []schema.Field {
	var missing []schema.Field
	for _, f := range schema.RequiredFields {
		if _, ok := r[f]; !ok {
			missing = append(missing, f)
		}
	}
	return missing
}

// Mapper maps source column headers onto the target schema.
type Mapper struct {
	classifier Classifier
	threshold  float64
	lock       float64
}

// Options configures a Mapper. Zero values fall back to the package
// defaults; a nil Classifier disables the fallback pass.
type Options struct {
	Classifier          Classifier
	ConfidenceThreshold float64
	LockThreshold       float64
}

// New creates a Mapper. Passing the zero Options yields a mapper with the
// embedded fallback classifier and default thresholds.
func New(opts Options) *Mapper {
	m := &Mapper{
		classifier: opts.Classifier,
		threshold:  opts.ConfidenceThreshold,
		lock:       opts.LockThreshold,
	}
	if m.threshold == 0 {
		m.threshold = ConfidenceThreshold
	}
	if m.lock == 0 {
		m.lock = LockThreshold
	}
	if m.classifier == nil {
		m.classifier = defaultClassifier()
	}
	return m
}

// run carries the per-invocation state shared between passes.
type run struct {
	infos   []headerInfo
	samples [][]string // row-major, parallel to infos by column
	result  Result
}

// claimed reports whether a source header is already consumed.
func (s *run) claimed(header string) bool {
	for _, cand := range s.result {
		if cand.Header == header {
			return true
		}
	}
	return false
}

// settled reports whether a field should be skipped by later passes.
func (s *run) settled(field schema.Field) bool {
	_, ok := s.result[field]
	return ok
}

// MapColumns maps the given headers to target fields, using sampleRows
// (ordered raw rows parallel to headers) for content-based detection when
// provided. An empty headers slice yields an empty result; data-quality
// conditions never produce an error.
func (m *Mapper) MapColumns(headers []string, sampleRows [][]string) Result {
	s := &run{
		infos:   buildHeaderInfo(headers),
		samples: sampleRows,
		result:  make(Result),
	}
	if len(headers) == 0 {
		return s.result
	}

	m.patternPass(s)
	m.currencyPass(s)
	if len(sampleRows) > 0 {
		m.contentPass(s)
	}
	m.contextPass(s)
	m.fuzzyPass(s)
	if m.classifier != nil {
		m.classifierPass(s)
	}

	log.Debug().
		Int("headers", len(headers)).
		Int("mapped", len(s.result)).
		Msg("Column mapping complete")
	return s.result
}

// patternPass resolves fields by their ordered regex lists. Patterns are
// tried in the field's priority order, not header order: the first pattern
// with a full-string match on any unclaimed header wins at 1.0, then the
// first with a multi-word partial match at 0.8. Ties within a tier go to
// the earliest header.
func (m *Mapper) patternPass(s *run) {
	for _, entry := range fieldCatalog {
		if s.settled(entry.Field) {
			continue
		}
		if cand, ok := m.matchPatterns(s, entry.Patterns); ok {
			s.result[entry.Field] = cand
		}
	}
}

func (m *Mapper) matchPatterns(s *run, patterns []fieldPattern) (Candidate, bool) {
	for _, p := range patterns {
		for _, info := range s.infos {
			if s.claimed(info.Original) {
				continue
			}
			if p.full.MatchString(info.Cleaned) {
				return Candidate{Header: info.Original, Confidence: 1.0, Pass: PassPattern}, true
			}
		}
		for _, info := range s.infos {
			if s.claimed(info.Original) {
				continue
			}
			match := p.partial.FindString(info.Cleaned)
			// Single-token indicators are too weak to claim a compound
			// header; those are left to the later passes.
			if match != "" && strings.Contains(match, " ") && 0.8 >= m.threshold {
				return Candidate{Header: info.Original, Confidence: 0.8, Pass: PassPattern}, true
			}
		}
	}
	return Candidate{}, false
}

// currencyPass collects currency-agnostic retail-price headers and routes
// each to its currency-specific MSRP field when the original header text
// carries a currency indicator, or to the generic MSRP bucket otherwise.
func (m *Mapper) currencyPass(s *run) {
	for _, info := range s.infos {
		if s.claimed(info.Original) {
			continue
		}
		generic := false
		for _, re := range genericMSRPPatterns {
			if re.MatchString(info.Cleaned) {
				generic = true
				break
			}
		}
		if !generic {
			continue
		}

		if code, ok := price.DetectCurrency(info.Original); ok {
			field, _ := schema.MSRPFor(code)
			if !s.settled(field) {
				s.result[field] = Candidate{Header: info.Original, Confidence: 0.9, Pass: PassCurrency}
			}
			continue
		}
		if !s.settled(schema.FieldMSRP) {
			s.result[schema.FieldMSRP] = Candidate{Header: info.Original, Confidence: 0.8, Pass: PassCurrency}
		}
	}
}
