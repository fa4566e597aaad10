package mapping

import (
	_ "embed"
	"encoding/json"
	"math"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/catalogiq/catalog-service/internal/schema"
)

// Classifier is the statistical fallback strategy: given a cleaned header
// it predicts a target-field label with a probability. Implementations are
// trained offline; the mapper only consumes predictions.
type Classifier interface {
	Classify(text string) (label string, confidence float64)
}

// classifierPass runs last. It hands every still-unclaimed header to the
// fallback classifier and accepts predictions that clear the acceptance
// threshold for fields nothing else resolved. Explicitly lower-precision
// than the regex passes; it exists to catch vocabulary the pattern catalog
// never anticipated.
func (m *Mapper) classifierPass(s *run) {
	for _, info := range s.infos {
		if s.claimed(info.Original) || info.Cleaned == "" {
			continue
		}
		label, confidence := m.classifier.Classify(info.Cleaned)
		if confidence < m.threshold {
			continue
		}
		field := schema.Field(label)
		if s.settled(field) {
			continue
		}
		s.result[field] = Candidate{Header: info.Original, Confidence: confidence, Pass: PassClassifier}
		log.Debug().
			Str("header", info.Original).
			Str("field", label).
			Float64("confidence", confidence).
			Msg("Fallback classifier mapped header")
	}
}

// bayesModel is the on-disk shape of the fallback model: per-class token
// counts fitted offline over a corpus of header/field examples.
type bayesModel struct {
	Version string       `json:"version"`
	Classes []bayesClass `json:"classes"`
}

type bayesClass struct {
	Label     string         `json:"label"`
	Documents int            `json:"documents"`
	Tokens    map[string]int `json:"tokens"`
}

// bayesClassifier is a multinomial naive Bayes text classifier with
// Laplace smoothing.
type bayesClassifier struct {
	model      bayesModel
	totalDocs  int
	vocabulary int
	totals     map[string]int
}

//go:embed model.json
var embeddedModel []byte

var (
	defaultOnce sync.Once
	defaultInst *bayesClassifier
)

// defaultClassifier loads the embedded model. The model is parsed once per
// process; the classifier itself is read-only and safe for concurrent use.
func defaultClassifier() Classifier {
	defaultOnce.Do(func() {
		c, err := NewBayesClassifier(embeddedModel)
		if err != nil {
			log.Error().Err(err).Msg("Failed to load embedded fallback model")
			return
		}
		defaultInst = c
	})
	if defaultInst == nil {
		return nil
	}
	return defaultInst
}

// NewBayesClassifier builds a classifier from serialized model data.
func NewBayesClassifier(data []byte) (*bayesClassifier, error) {
	var model bayesModel
	if err := json.Unmarshal(data, &model); err != nil {
		return nil, err
	}

	c := &bayesClassifier{
		model:  model,
		totals: make(map[string]int, len(model.Classes)),
	}
	vocab := make(map[string]bool)
	for _, class := range model.Classes {
		c.totalDocs += class.Documents
		total := 0
		for token, count := range class.Tokens {
			total += count
			vocab[token] = true
		}
		c.totals[class.Label] = total
	}
	c.vocabulary = len(vocab)
	return c, nil
}

// ModelVersion reports the version string of the loaded model data.
func (c *bayesClassifier) ModelVersion() string {
	return c.model.Version
}

// Classify predicts the most likely target field for a cleaned header and
// the posterior probability of that prediction.
func (c *bayesClassifier) Classify(text string) (string, float64) {
	tokens := strings.Fields(strings.ToLower(text))
	if len(tokens) == 0 || c.totalDocs == 0 {
		return "", 0
	}

	scores := make([]float64, len(c.model.Classes))
	for i, class := range c.model.Classes {
		score := math.Log(float64(class.Documents) / float64(c.totalDocs))
		denom := float64(c.totals[class.Label] + c.vocabulary)
		for _, tok := range tokens {
			score += math.Log(float64(class.Tokens[tok]+1) / denom)
		}
		scores[i] = score
	}

	// Softmax over log scores for a calibrated-looking posterior.
	maxScore := scores[0]
	for _, s := range scores {
		if s > maxScore {
			maxScore = s
		}
	}
	sum := 0.0
	best, bestProb := "", 0.0
	probs := make([]float64, len(scores))
	for i, s := range scores {
		probs[i] = math.Exp(s - maxScore)
		sum += probs[i]
	}
	for i, p := range probs {
		p /= sum
		if p > bestProb {
			best, bestProb = c.model.Classes[i].Label, p
		}
	}
	return best, bestProb
}
