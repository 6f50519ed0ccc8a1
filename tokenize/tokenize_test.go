package tokenize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenizeKebabSnakeCamel(t *testing.T) {
	assert.ElementsMatch(t, []string{"foo", "bar"}, Tokenize("foo-bar"))
	assert.ElementsMatch(t, []string{"read", "message"}, Tokenize("readMessage"))
	assert.ElementsMatch(t, []string{"foo", "bar"}, Tokenize("foo_bar"))
}

func TestTokenizeDropsShortAndStopwords(t *testing.T) {
	tokens := Tokenize("the cat and a dog with json payload")
	assert.ElementsMatch(t, []string{"cat", "dog", "payload"}, tokens)
}

func TestTokenizeDeterministic(t *testing.T) {
	text := "The readMessage function parses json-payload data for http requests"
	assert.Equal(t, Tokenize(text), Tokenize(text))
}

func TestTokenizeLowercases(t *testing.T) {
	assert.ElementsMatch(t, []string{"glicko", "rating"}, Tokenize("GLICKO Rating"))
}

func TestIsStopword(t *testing.T) {
	assert.True(t, IsStopword("the"))
	assert.False(t, IsStopword("glicko"))
}
