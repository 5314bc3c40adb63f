package keyword

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatcher_DetectTopic(t *testing.T) {
	m := New(Config{})

	tests := []struct {
		text     string
		expected Topic
	}{
		{"service is failing due to expensive retries", TopicFailure},
		{"the PRICING page is confusing", TopicPricing},
		{"way too Expensive for us", TopicPricing},
		{"this is costly", TopicPricing},
		{"what does it cost", TopicPricing},
		{"costlyish but fine", TopicPricing},
		{"Sync FAILING again", TopicFailure},
		{"love it", TopicNone},
		{"", TopicNone},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.expected, m.DetectTopic(tt.text))
		})
	}
}

func TestMatcher_DetectConnector(t *testing.T) {
	m := New(Config{})

	t.Run("case insensitive", func(t *testing.T) {
		c, ok := m.DetectConnector("How to analyze my Google Sheet data?")
		require.True(t, ok)
		assert.Equal(t, "google sheet", c.Name)
	})

	t.Run("first catalog entry wins", func(t *testing.T) {
		// postgres appears first in the text but salesforce is earlier in the catalog.
		c, ok := m.DetectConnector("moving postgres data into salesforce")
		require.True(t, ok)
		assert.Equal(t, "salesforce", c.Name)
	})

	t.Run("no match", func(t *testing.T) {
		_, ok := m.DetectConnector("looking for a data pipeline")
		assert.False(t, ok)
	})

	t.Run("empty text", func(t *testing.T) {
		_, ok := m.DetectConnector("")
		assert.False(t, ok)
	})

	t.Run("custom catalog order", func(t *testing.T) {
		m := New(Config{Catalog: Catalog{
			{Name: "postgres", DocURL: "https://docs/pg"},
			{Name: "salesforce", DocURL: "https://docs/sf"},
		}})
		c, ok := m.DetectConnector("moving postgres data into salesforce")
		require.True(t, ok)
		assert.Equal(t, "postgres", c.Name)
		assert.Equal(t, "https://docs/pg", c.DocURL)
	})
}

func TestMatcher_MentionsBrand(t *testing.T) {
	m := New(Config{})
	assert.True(t, m.MentionsBrand("Loving FiveTran so far"))
	assert.True(t, m.MentionsBrand("@fivetran help"))
	assert.False(t, m.MentionsBrand("five tran"))
}

func TestMatcher_WordBoundaryMode(t *testing.T) {
	m := New(Config{Mode: ModeWordBoundary})

	assert.Equal(t, TopicNone, m.DetectTopic("costlyish but fine"))
	assert.Equal(t, TopicPricing, m.DetectTopic("it is costly."))
	assert.Equal(t, TopicPricing, m.DetectTopic("cost"))
	assert.True(t, m.MentionsBrand("Fivetran's sync"))
	assert.False(t, m.MentionsBrand("notfivetran"))

	_, ok := m.DetectConnector("mypostgresql box")
	assert.False(t, ok)
	c, ok := m.DetectConnector("my postgres box")
	require.True(t, ok)
	assert.Equal(t, "postgres", c.Name)

	// Keywords outside the precompiled set still work.
	assert.True(t, m.Contains("ping the Team", "team"))
}

func TestParseMode(t *testing.T) {
	mode, err := ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeSubstring, mode)

	mode, err = ParseMode("WORD")
	require.NoError(t, err)
	assert.Equal(t, ModeWordBoundary, mode)

	_, err = ParseMode("fuzzy")
	assert.Error(t, err)
}

func TestTopic_String(t *testing.T) {
	assert.Equal(t, "failure", TopicFailure.String())
	assert.Equal(t, "pricing", TopicPricing.String())
	assert.Equal(t, "none", TopicNone.String())
}
