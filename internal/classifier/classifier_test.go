package classifier

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsImageBased_ShortText(t *testing.T) {
	text := "only a few words of extracted text here now"
	assert.True(t, IsImageBased(text), "a near-empty text layer should take the vision path")
}

func TestIsImageBased_EmptyText(t *testing.T) {
	assert.True(t, IsImageBased(""))
	assert.True(t, IsImageBased("   \n\t  "))
}

func TestIsImageBased_LongText(t *testing.T) {
	text := strings.Repeat("word ", 200)
	assert.False(t, IsImageBased(text), "a rich text layer should take the text path")
}

func TestIsImageBased_Threshold(t *testing.T) {
	assert.True(t, IsImageBased(strings.Repeat("w ", 49)), "49 words is below the threshold")
	assert.False(t, IsImageBased(strings.Repeat("w ", 50)), "50 words meets the threshold")
}

func TestWordCount(t *testing.T) {
	assert.Equal(t, 0, WordCount(""))
	assert.Equal(t, 3, WordCount("  one\ttwo\nthree  "))
}
