package search

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	maxSnippetRunes = 600
	maxParagraphs   = 4
)

// PageFetcher pulls a short text excerpt from a result page so nuggets can
// cite more than the search snippet. Failures are soft: the caller falls back
// to the snippet.
type PageFetcher struct {
	Client *http.Client
}

func NewPageFetcher() *PageFetcher {
	return &PageFetcher{Client: &http.Client{Timeout: 10 * time.Second}}
}

// Excerpt returns up to maxSnippetRunes of body-paragraph text from url.
func (f *PageFetcher) Excerpt(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "blogflow/1.0 (+research)")

	resp, err := f.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", err
	}

	var parts []string
	doc.Find("article p, main p, p").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := strings.TrimSpace(s.Text())
		if len(text) < 80 {
			// Skip nav fragments and captions.
			return true
		}
		parts = append(parts, text)
		return len(parts) < maxParagraphs
	})

	excerpt := strings.Join(parts, "\n")
	runes := []rune(excerpt)
	if len(runes) > maxSnippetRunes {
		excerpt = string(runes[:maxSnippetRunes])
	}
	if excerpt == "" {
		return "", fmt.Errorf("fetch %s: no usable paragraphs", url)
	}
	return excerpt, nil
}
