package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestShortURL_Expired(t *testing.T) {
	now := time.Now().UTC()

	t.Run("no expiry never expires", func(t *testing.T) {
		url := ShortURL{}

		assert.False(t, url.Expired(now))
	})

	t.Run("future expiry is live", func(t *testing.T) {
		exp := now.Add(time.Hour)
		url := ShortURL{ExpiresAt: &exp}

		assert.False(t, url.Expired(now))
	})

	t.Run("past expiry is expired", func(t *testing.T) {
		exp := now.Add(-time.Hour)
		url := ShortURL{ExpiresAt: &exp}

		assert.True(t, url.Expired(now))
	})
}
