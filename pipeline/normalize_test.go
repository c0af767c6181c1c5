package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize_ReHyphenStripped(t *testing.T) {
	assert.Equal(t, "recleared to land", Normalize("re-cleared to land."))
}

func TestNormalize_DigitHyphenFuses(t *testing.T) {
	assert.Equal(t, "climb and maintain 5000", Normalize("climb and maintain 5-000"))
}

func TestNormalize_LetterHyphenBecomesSpace(t *testing.T) {
	assert.Equal(t, "south west", Normalize("south-west"))
}

func TestNormalize_ContractionsExpand(t *testing.T) {
	assert.Equal(t, "it is cleared", Normalize("it's cleared"))
	assert.Equal(t, "i would like", Normalize("I'd like"))
}

func TestNormalize_DropsTrailingPunctuation(t *testing.T) {
	assert.Equal(t, "cleared to land", Normalize("cleared to land.,?!"))
}

func TestNormalize_CollapsesStandaloneA(t *testing.T) {
	assert.Equal(t, "climb to flight level", Normalize("climb to a flight level"))
}
