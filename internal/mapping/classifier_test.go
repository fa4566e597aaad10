package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewBayesClassifier tests model loading and rejection of bad data
func TestNewBayesClassifier(t *testing.T) {
	t.Run("embedded model loads", func(t *testing.T) {
		c, err := NewBayesClassifier(embeddedModel)
		require.NoError(t, err)
		assert.NotEmpty(t, c.ModelVersion())
	})

	t.Run("invalid json rejected", func(t *testing.T) {
		_, err := NewBayesClassifier([]byte("{not json"))
		assert.Error(t, err)
	})
}

// TestBayesClassify tests predictions on header vocabulary outside the
// pattern catalog
func TestBayesClassify(t *testing.T) {
	c, err := NewBayesClassifier(embeddedModel)
	require.NoError(t, err)

	tests := []struct {
		name      string
		input     string
		label     string
		confident bool
	}{
		{
			name:      "dealer cost vocabulary",
			input:     "cost to dealer",
			label:     "Buy Cost",
			confident: true,
		},
		{
			name:      "ambiguous header stays below threshold",
			input:     "product code",
			label:     "SKU",
			confident: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			label, confidence := c.Classify(tt.input)
			assert.Equal(t, tt.label, label)
			if tt.confident {
				assert.GreaterOrEqual(t, confidence, ConfidenceThreshold)
			} else {
				assert.Less(t, confidence, ConfidenceThreshold)
			}
		})
	}
}

// TestBayesClassifyEmpty tests the degenerate inputs
func TestBayesClassifyEmpty(t *testing.T) {
	c, err := NewBayesClassifier(embeddedModel)
	require.NoError(t, err)

	label, confidence := c.Classify("")
	assert.Empty(t, label)
	assert.Zero(t, confidence)
}
