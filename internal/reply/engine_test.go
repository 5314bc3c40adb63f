package reply

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdulachik/mentionbot/internal/keyword"
	"github.com/abdulachik/mentionbot/internal/sentiment"
	"github.com/abdulachik/mentionbot/internal/shortlink"
)

// recordingShortener returns a deterministic short link and records each call.
type recordingShortener struct {
	calls []string
	err   error
}

func (r *recordingShortener) Shorten(ctx context.Context, longURL string) (string, error) {
	r.calls = append(r.calls, longURL)
	if r.err != nil {
		return "", r.err
	}
	return fmt.Sprintf("https://bit.ly/%d", len(r.calls)), nil
}

func newTestEngine(s shortlink.Shortener) *Engine {
	return New(Config{
		Matcher:   keyword.New(keyword.Config{}),
		Shortener: s,
	})
}

func TestEngine_ConnectorFailing(t *testing.T) {
	s := &recordingShortener{}
	e := newTestEngine(s)

	d, err := e.Explain(context.Background(),
		"Fivetran's postgres connector keeps failing, very frustrating", sentiment.Negative)
	require.NoError(t, err)

	assert.Equal(t, BranchConnectorFailing, d.Branch)
	assert.True(t, strings.HasPrefix(d.Text, "Sorry for the inconvenience you faced with our postgres connector"))
	assert.True(t, strings.HasSuffix(d.Text, fmt.Sprintf(supportContactTemplate, DefaultSupportEmail)))
	assert.Empty(t, s.calls, "complaint replies never shorten links")
}

func TestEngine_ConnectorFailingAnyCase(t *testing.T) {
	for _, label := range []sentiment.Label{sentiment.Negative, sentiment.Neutral} {
		t.Run(label.String(), func(t *testing.T) {
			s := &recordingShortener{}
			e := newTestEngine(s)

			out, err := e.Decide(context.Background(), "FiveTran SALESFORCE sync is failing", label)
			require.NoError(t, err)
			assert.Contains(t, out, "with our salesforce connector, ")
			assert.Empty(t, s.calls)
		})
	}
}

func TestEngine_ConnectorFailingWithoutConnector(t *testing.T) {
	e := newTestEngine(&recordingShortener{})

	out, err := e.Decide(context.Background(), "fivetran sync failing again", sentiment.Negative)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Sorry for the inconvenience you faced with our connector, "))
}

func TestEngine_PricingApology(t *testing.T) {
	s := &recordingShortener{}
	e := newTestEngine(s)

	d, err := e.Explain(context.Background(), "fivetran is way too expensive", sentiment.Negative)
	require.NoError(t, err)
	assert.Equal(t, BranchPricingApology, d.Branch)
	assert.Equal(t, pricingApologyTemplate+fmt.Sprintf(supportContactTemplate, DefaultSupportEmail), d.Text)
	assert.Empty(t, s.calls)
}

func TestEngine_FailureBeatsPricing(t *testing.T) {
	e := newTestEngine(&recordingShortener{})

	d, err := e.Explain(context.Background(), "fivetran is failing and expensive", sentiment.Neutral)
	require.NoError(t, err)
	assert.Equal(t, BranchConnectorFailing, d.Branch)
}

func TestEngine_SupportOnly(t *testing.T) {
	e := New(Config{SupportEmail: "help@example.com"})

	d, err := e.Explain(context.Background(), "anyone using fivetran?", sentiment.Neutral)
	require.NoError(t, err)
	assert.Equal(t, BranchSupport, d.Branch)
	assert.Equal(t, "Please reach out to our customer support at help@example.com for a resolution.", d.Text)
}

func TestEngine_Positive(t *testing.T) {
	s := &recordingShortener{}
	e := newTestEngine(s)

	d, err := e.Explain(context.Background(), "fivetran postgres sync is great", sentiment.Positive)
	require.NoError(t, err)

	assert.Equal(t, BranchPositive, d.Branch)
	assert.Equal(t, positiveAckTemplate+"https://bit.ly/1"+requestConnectorsTemplate+"https://bit.ly/2", d.Text)
	links := DefaultLinks()
	assert.Equal(t, []string{links.ComingSoon, links.RequestConnector}, s.calls)
}

func TestEngine_BrandOutranksConnector(t *testing.T) {
	for _, label := range sentiment.Labels {
		t.Run(label.String(), func(t *testing.T) {
			e := newTestEngine(&recordingShortener{})
			d, err := e.Explain(context.Background(), "fivetran vs stitch for google sheet data", label)
			require.NoError(t, err)
			assert.NotEqual(t, BranchConnectorPitch, d.Branch)
			assert.NotContains(t, d.Text, "check out our google sheet connector")
		})
	}
}

func TestEngine_ConnectorPitch(t *testing.T) {
	s := &recordingShortener{}
	e := newTestEngine(s)

	d, err := e.Explain(context.Background(), "How to analyze my google sheet data?", sentiment.Neutral)
	require.NoError(t, err)

	assert.Equal(t, BranchConnectorPitch, d.Branch)
	assert.Contains(t, d.Text, "check out our google sheet connector https://bit.ly/1")
	require.Len(t, s.calls, 1)
	docURL, _ := keyword.DefaultCatalog().DocURL("google sheet")
	assert.Equal(t, docURL, s.calls[0])
}

func TestEngine_ConnectorPitchBeatsPricing(t *testing.T) {
	s := &recordingShortener{}
	e := newTestEngine(s)

	d, err := e.Explain(context.Background(), "is the hubspot sync expensive?", sentiment.Negative)
	require.NoError(t, err)
	assert.Equal(t, BranchConnectorPitch, d.Branch)
	assert.NotContains(t, d.Text, "pricing")
	assert.Len(t, s.calls, 1)
}

func TestEngine_PricingPitch(t *testing.T) {
	s := &recordingShortener{}
	e := newTestEngine(s)

	d, err := e.Explain(context.Background(), "ETL tools cost too much", sentiment.Negative)
	require.NoError(t, err)
	assert.Equal(t, BranchPricingPitch, d.Branch)
	assert.Equal(t, pitchTemplate+pricingPitchTemplate+"https://bit.ly/1", d.Text)
	assert.Equal(t, []string{DefaultLinks().Pricing}, s.calls)
}

func TestEngine_GenericPitch(t *testing.T) {
	texts := []string{"", "looking for data pipeline", "anyone know a good warehouse?"}

	for _, text := range texts {
		t.Run(text, func(t *testing.T) {
			s := &recordingShortener{}
			e := newTestEngine(s)

			d, err := e.Explain(context.Background(), text, sentiment.Positive)
			require.NoError(t, err)
			assert.Equal(t, BranchGenericPitch, d.Branch)
			assert.Equal(t, pitchTemplate+genericPitchTemplate+"https://bit.ly/1", d.Text)
			assert.Equal(t, []string{DefaultLinks().Product}, s.calls)
		})
	}
}

func TestEngine_Deterministic(t *testing.T) {
	text := "Fivetran is great"

	first, err := newTestEngine(&recordingShortener{}).Decide(context.Background(), text, sentiment.Positive)
	require.NoError(t, err)
	second, err := newTestEngine(&recordingShortener{}).Decide(context.Background(), text, sentiment.Positive)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestEngine_ShortLinkFailure(t *testing.T) {
	t.Run("typed failure", func(t *testing.T) {
		s := &recordingShortener{err: fmt.Errorf("%w: timeout", shortlink.ErrShortLink)}
		e := newTestEngine(s)

		_, err := e.Decide(context.Background(), "need an etl tool", sentiment.Neutral)
		require.Error(t, err)
		assert.ErrorIs(t, err, shortlink.ErrShortLink)
		assert.Contains(t, err.Error(), string(BranchGenericPitch))
	})

	t.Run("untyped failure is wrapped", func(t *testing.T) {
		s := &recordingShortener{err: errors.New("dial tcp: refused")}
		e := newTestEngine(s)

		_, err := e.Decide(context.Background(), "fivetran rocks", sentiment.Positive)
		assert.ErrorIs(t, err, shortlink.ErrShortLink)
		assert.Len(t, s.calls, 1, "rendering stops at the first failure")
	})

	t.Run("fallback keeps replies flowing", func(t *testing.T) {
		s := shortlink.WithFallback(&recordingShortener{err: errors.New("down")}, "")
		e := newTestEngine(s)

		out, err := e.Decide(context.Background(), "need an etl tool", sentiment.Neutral)
		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(out, shortlink.DefaultPlaceholder))
	})
}

func TestEngine_UnknownLabel(t *testing.T) {
	e := newTestEngine(&recordingShortener{})
	_, err := e.Decide(context.Background(), "fivetran", sentiment.Label("mixed"))
	assert.Error(t, err)
}

func TestEngine_WordBoundaryMatcher(t *testing.T) {
	s := &recordingShortener{}
	e := New(Config{
		Matcher:   keyword.New(keyword.Config{Mode: keyword.ModeWordBoundary}),
		Shortener: s,
	})

	d, err := e.Explain(context.Background(), "a costlyish hobby", sentiment.Neutral)
	require.NoError(t, err)
	assert.Equal(t, BranchGenericPitch, d.Branch)
}

func TestEngine_CustomLinks(t *testing.T) {
	s := &recordingShortener{}
	e := New(Config{
		Shortener: s,
		Links:     Links{Product: "https://example.com/product"},
	})

	_, err := e.Decide(context.Background(), "need an etl tool", sentiment.Neutral)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://example.com/product"}, s.calls)
	assert.Equal(t, DefaultLinks().Pricing, e.links.Pricing)
}
