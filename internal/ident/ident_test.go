package ident

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	t.Run("invalid word count", func(t *testing.T) {
		id, err := New(0)

		assert.Error(t, err)
		assert.Empty(t, id)
	})

	t.Run("single word", func(t *testing.T) {
		id, err := New(1)

		assert.NoError(t, err)
		assert.Regexp(t, regexp.MustCompile(`^[a-z]{3}$`), id)
	})

	t.Run("default words", func(t *testing.T) {
		id, err := New(DefaultWords)

		assert.NoError(t, err)
		assert.Len(t, strings.Split(id, Separator), DefaultWords)
		assert.Regexp(t, regexp.MustCompile(`^[a-z]{3}(-[a-z]{3}){6}$`), id)
	})

	t.Run("identifiers differ", func(t *testing.T) {
		seen := make(map[string]bool)

		for i := 0; i < 100; i++ {
			id, err := New(DefaultWords)

			assert.NoError(t, err)
			assert.False(t, seen[id], "generated duplicate identifier %q", id)
			seen[id] = true
		}
	})
}
