package service

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func narrativeFeedXML(base string) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
<title>Memecoin Wire</title>
<item><title>Dog coins rally as doge leads the market</title><link>%s/a/1</link><description>Dog season is back.</description></item>
<item><title>Shiba whales keep accumulating</title><link>%s/a/2</link><description>Another dog run on solana.</description></item>
<item><title>Why doge never really dies</title><link>%s/a/3</link><description>The oldest dog narrative.</description></item>
<item><title>AI agents now trade while you sleep</title><link>%s/a/4</link><description>Neural strategies on-chain.</description></item>
</channel>
</rss>`, base, base, base, base)
}

func newNarrativeTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	var srv *httptest.Server
	mux.HandleFunc("/feed.xml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprint(w, narrativeFeedXML(srv.URL))
	})
	mux.HandleFunc("/a/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, `<html><head><title>article</title></head><body><div><p>`+
			`Market recap with enough words for the extractor to keep.`+
			`</p></div></body></html>`)
	})

	srv = httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newNarrativeService(t *testing.T, feeds []string, maxArticles int) NarrativeService {
	t.Helper()
	cfg := testConfig()
	cfg.Narrative.Feeds = feeds
	cfg.Narrative.MaxArticles = maxArticles
	return NewNarrativeService(cfg, testLogger(t))
}

func TestRefresh_BuildsHeatFromFeeds(t *testing.T) {
	srv := newNarrativeTestServer(t)
	svc := newNarrativeService(t, []string{srv.URL + "/feed.xml"}, 10)

	svc.Refresh(context.Background())

	// Three articles mention the dog narrative, which clears the minimum.
	heat, narrative := svc.Heat("WOOF", "Woof Master")
	assert.Equal(t, 3.0, heat)
	assert.Equal(t, "dog", narrative)

	// One AI mention stays below the minimum.
	heat, narrative = svc.Heat("AIX", "Neural Trader")
	assert.Zero(t, heat)
	assert.Empty(t, narrative)

	// Tokens matching nothing stay cold.
	heat, _ = svc.Heat("ZZZ", "Plain Coin")
	assert.Zero(t, heat)
}

func TestRefresh_HonorsArticleCap(t *testing.T) {
	srv := newNarrativeTestServer(t)
	svc := newNarrativeService(t, []string{srv.URL + "/feed.xml"}, 2)

	svc.Refresh(context.Background())

	// Only the first two articles were read, so dog never reaches three
	// mentions.
	heat, _ := svc.Heat("WOOF", "Woof Master")
	assert.Zero(t, heat)
}

func TestRefresh_SurvivesDeadFeed(t *testing.T) {
	srv := newNarrativeTestServer(t)
	feeds := []string{srv.URL + "/missing.xml", srv.URL + "/feed.xml"}
	svc := newNarrativeService(t, feeds, 10)

	svc.Refresh(context.Background())

	heat, narrative := svc.Heat("WOOF", "Woof Master")
	assert.Equal(t, 3.0, heat)
	assert.Equal(t, "dog", narrative)
}

func TestHeat_PicksHottestMatchingNarrative(t *testing.T) {
	s := &narrativeService{heat: map[string]float64{"dog": 4, "moon": 9}}

	heat, narrative := s.Heat("DOGMOON", "Doge Moonshot")

	assert.Equal(t, 9.0, heat)
	assert.Equal(t, "moon", narrative)
}

func TestHeat_MatchesKeywordsAsSubstrings(t *testing.T) {
	s := &narrativeService{heat: map[string]float64{"frog": 5}}

	// Token names mash words together, so "pepe" inside the name counts.
	heat, narrative := s.Heat("KINGPEPE", "King Pepe Classic")

	assert.Equal(t, 5.0, heat)
	assert.Equal(t, "frog", narrative)
}

func TestCountNarratives_WholeWordsOnly(t *testing.T) {
	counts := make(map[string]int)

	countNarratives("The chairman sat on a chair near the staircase", counts)
	assert.Zero(t, counts["ai"])

	countNarratives("New AI agents trade memecoins", counts)
	assert.Equal(t, 1, counts["ai"])
}

func TestCountNarratives_CountsEachNarrativeOncePerArticle(t *testing.T) {
	counts := make(map[string]int)

	countNarratives("pepe pepe kek pepe", counts)
	require.Equal(t, 1, counts["frog"])

	countNarratives("another pepe piece", counts)
	assert.Equal(t, 2, counts["frog"])
}

func TestCountNarratives_KeepsDigitKeywords(t *testing.T) {
	counts := make(map[string]int)

	countNarratives("analysts say this is going 100x by friday", counts)
	assert.Equal(t, 1, counts["moon"])
}
