package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"github.com/mauidude/go-readability"
	"github.com/mmcdole/gofeed"

	"golang-token-sentry/internal/sentry/config"
	"golang-token-sentry/pkg/logger"
	"golang-token-sentry/pkg/utils"
)

// narrativeKeywords maps each tracked narrative to the words that signal
// it, in token names and in article text alike.
var narrativeKeywords = map[string][]string{
	"cat":       {"cat", "kitty", "meow", "feline"},
	"dog":       {"dog", "doge", "shiba", "woof"},
	"ai":        {"ai", "gpt", "bot", "neural"},
	"frog":      {"frog", "pepe", "kek"},
	"political": {"trump", "biden", "maga"},
	"food":      {"burger", "pizza", "taco"},
	"meme":      {"chad", "wojak", "based"},
	"anime":     {"anime", "waifu", "chan"},
	"tech":      {"elon", "rocket", "mars"},
	"moon":      {"moon", "rocket", "100x"},
}

// minNarrativeMentions is how many articles must mention a narrative in
// one refresh before it counts as hot.
const minNarrativeMentions = 3

const defaultMaxArticles = 40

// NarrativeService keeps a heat score per crypto narrative from the
// configured news feeds.
type NarrativeService interface {
	// Refresh re-reads the feeds and rebuilds the heat map.
	Refresh(ctx context.Context)
	// Heat implements adjuster.HeatSource.
	Heat(symbol, name string) (float64, string)
}

type narrativeService struct {
	cfg    *config.Config
	log    *logger.Logger
	client *http.Client

	mu          sync.RWMutex
	heat        map[string]float64
	refreshedAt time.Time
}

// NewNarrativeService creates a new NarrativeService. The heat map is
// empty until the first Refresh.
func NewNarrativeService(cfg *config.Config, log *logger.Logger) NarrativeService {
	return &narrativeService{
		cfg:    cfg,
		log:    log,
		client: &http.Client{Timeout: 30 * time.Second},
		heat:   make(map[string]float64),
	}
}

func (s *narrativeService) Refresh(ctx context.Context) {
	maxArticles := s.cfg.Narrative.MaxArticles
	if maxArticles <= 0 {
		maxArticles = defaultMaxArticles
	}

	counts := make(map[string]int)
	articles := 0

	for _, feedURL := range s.cfg.Narrative.Feeds {
		if !utils.ShouldContinue(ctx, s.log) {
			return
		}

		fp := gofeed.NewParser()
		feed, err := fp.ParseURLWithContext(feedURL, ctx)
		if err != nil {
			s.log.WarnContext(ctx, "failed to parse narrative feed",
				logger.StringField("url", feedURL),
				logger.ErrorField(err))
			continue
		}

		for _, item := range feed.Items {
			if articles >= maxArticles {
				break
			}
			articles++

			text := item.Title + " " + item.Description
			if body, err := s.fetchArticleText(ctx, item.Link); err == nil {
				text += " " + body
			}
			countNarratives(text, counts)
		}
	}

	heat := make(map[string]float64, len(counts))
	for narrative, count := range counts {
		heat[narrative] = float64(count)
	}

	s.mu.Lock()
	s.heat = heat
	s.refreshedAt = time.Now()
	s.mu.Unlock()

	s.log.InfoContext(ctx, "narrative heat refreshed",
		logger.IntField("articles", articles),
		logger.IntField("narratives", len(heat)))
}

// Heat reports the hottest narrative the token's symbol or name matches.
// Token names mash words together, so keywords match as substrings here.
func (s *narrativeService) Heat(symbol, name string) (float64, string) {
	text := strings.ToLower(symbol + " " + name)

	s.mu.RLock()
	defer s.mu.RUnlock()

	var bestHeat float64
	var bestNarrative string

	for narrative, keywords := range narrativeKeywords {
		h := s.heat[narrative]
		if h < minNarrativeMentions || h <= bestHeat {
			continue
		}
		for _, keyword := range keywords {
			if strings.Contains(text, keyword) {
				bestHeat = h
				bestNarrative = narrative
				break
			}
		}
	}

	return bestHeat, bestNarrative
}

func (s *narrativeService) fetchArticleText(ctx context.Context, url string) (string, error) {
	if url == "" {
		return "", fmt.Errorf("article has no link")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch article: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch article, status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read article body: %w", err)
	}

	doc, err := readability.NewDocument(string(body))
	if err != nil {
		return "", fmt.Errorf("failed to parse article: %w", err)
	}

	docHTML, err := goquery.NewDocumentFromReader(bytes.NewReader([]byte(doc.Content())))
	if err != nil {
		return "", fmt.Errorf("failed to parse article content: %w", err)
	}

	return strings.Join(strings.Fields(docHTML.Text()), " "), nil
}

// countNarratives bumps each narrative mentioned in the article text.
// Articles are prose, so keywords match whole words only.
func countNarratives(text string, counts map[string]int) {
	words := make(map[string]bool)
	for _, word := range strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		words[word] = true
	}

	for narrative, keywords := range narrativeKeywords {
		for _, keyword := range keywords {
			if words[keyword] {
				counts[narrative]++
				break
			}
		}
	}
}
