package eurlex

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"horse.fit/lexwatch/internal/globaltime"
)

const (
	searchPath       = "/search.html"
	defaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	minTitleLen      = 11
	minExcerptLen    = 101
)

// Client queries the EUR-Lex advanced search and parses result listings
// into raw records. Pages are fetched strictly in sequence with a fixed
// politeness delay between requests.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     zerolog.Logger
}

func NewClient(baseURL string, requestTimeout, pageDelay time.Duration, logger zerolog.Logger) *Client {
	if requestTimeout <= 0 {
		requestTimeout = 30 * time.Second
	}
	limiter := rate.NewLimiter(rate.Inf, 1)
	if pageDelay > 0 {
		limiter = rate.NewLimiter(rate.Every(pageDelay), 1)
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: requestTimeout},
		limiter:    limiter,
		logger:     logger,
	}
}

// Search fetches up to maxPages of trade-regulation results for the date
// window. An empty page ends pagination normally. A failed page stops
// pagination and is reported as a *PageError next to the records that were
// already collected, so the caller can keep the partial batch.
func (c *Client) Search(ctx context.Context, from, to time.Time, maxPages int) ([]RawRecord, error) {
	if maxPages < 1 {
		maxPages = 1
	}

	records := make([]RawRecord, 0, maxPages*10)
	for page := 1; page <= maxPages; page++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return records, err
		}

		pageRecords, err := c.fetchPage(ctx, from, page)
		if err != nil {
			if ctx.Err() != nil {
				return records, ctx.Err()
			}
			return records, &PageError{Page: page, Err: err}
		}
		if len(pageRecords) == 0 {
			c.logger.Debug().Int("page", page).Msg("no more results")
			break
		}

		records = append(records, pageRecords...)
		c.logger.Debug().Int("page", page).Int("records", len(pageRecords)).Msg("fetched search page")
	}

	return records, nil
}

// Probe checks that the EUR-Lex search endpoint is reachable.
func (c *Client) Probe(ctx context.Context) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+searchPath+"?"+c.searchParams(globaltime.Today(), 1).Encode(), nil)
	if err != nil {
		return fmt.Errorf("build probe request: %w", err)
	}
	req.Header.Set("User-Agent", defaultUserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("probe eurlex: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("probe eurlex: unexpected status %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) fetchPage(ctx context.Context, from time.Time, page int) ([]RawRecord, error) {
	params := c.searchParams(from, page)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+searchPath+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", defaultUserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse result page: %w", err)
	}

	return c.parseResults(doc), nil
}

// searchParams reproduces the advanced-search query the source accepts:
// all collections, title-scope text search anchored on Morocco, filtered
// to the window's Official Journal year.
func (c *Client) searchParams(from time.Time, page int) url.Values {
	year := from.Year()
	if year < 2024 {
		year = globaltime.Today().Year()
	}

	params := url.Values{}
	params.Set("SUBDOM_INIT", "ALL_ALL")
	params.Set("DTS_SUBDOM", "ALL_ALL")
	params.Set("DTS_DOM", "ALL")
	params.Set("textScope0", "ti")
	params.Set("lang", "en")
	params.Set("type", "advanced")
	params.Set("andText0", "Morocco")
	params.Set("whOJ", fmt.Sprintf("YEAR_OJ_OLD=%d", year))
	params.Set("whOJAba", fmt.Sprintf("YEAR_OJ_ABA=%d", year))
	params.Set("qid", strconv.FormatInt(globaltime.Now().UnixMilli(), 10))
	if page > 1 {
		params.Set("page", strconv.Itoa(page))
	}
	return params
}

func (c *Client) parseResults(doc *goquery.Document) []RawRecord {
	items := doc.Find("div.SearchResult, li.SearchResult")
	if items.Length() == 0 {
		items = c.fallbackResultItems(doc)
	}

	records := make([]RawRecord, 0, items.Length())
	items.Each(func(_ int, item *goquery.Selection) {
		if record, ok := c.parseResultItem(item); ok {
			records = append(records, record)
		}
	})
	return records
}

// fallbackResultItems recovers result containers from document links when
// the page does not carry the SearchResult markup.
func (c *Client) fallbackResultItems(doc *goquery.Document) *goquery.Selection {
	seen := make(map[string]struct{})
	result := doc.Find("__none__")
	doc.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		if !isDocumentHref(a.AttrOr("href", "")) {
			return true
		}
		container := a.Closest("div, li, article")
		if container.Length() == 0 {
			return true
		}
		key := goquery.NodeName(container) + "|" + strings.TrimSpace(container.Text())
		if _, dup := seen[key]; dup {
			return true
		}
		seen[key] = struct{}{}
		result = result.AddSelection(container)
		return len(seen) < 20
	})
	return result
}

func (c *Client) parseResultItem(item *goquery.Selection) (RawRecord, bool) {
	titleLink := item.Find("a").FilterFunction(func(_ int, a *goquery.Selection) bool {
		return isDocumentHref(a.AttrOr("href", ""))
	}).First()

	titleNode := titleLink
	if titleNode.Length() == 0 {
		titleNode = item.Find("h1, h2, h3, h4").First()
	}
	if titleNode.Length() == 0 {
		titleNode = item.Find("a").First()
	}

	title := strings.TrimSpace(titleNode.Text())
	if len(title) < minTitleLen {
		return RawRecord{}, false
	}

	record := RawRecord{
		Title:     title,
		Author:    "European Union",
		ScrapedAt: globaltime.UTC().Format(time.RFC3339),
	}

	if href := titleLink.AttrOr("href", ""); href != "" {
		record.URL = c.resolveHref(href)
	}

	itemText := strings.TrimSpace(item.Text())
	record.DocumentNumber = ExtractCELEX(itemText)
	record.PublicationDate = ExtractPublicationDate(itemText)
	record.Form = ClassifyForm(title)
	if len(itemText) >= minExcerptLen {
		record.TextExcerpt = Excerpt(itemText)
	}

	if record.DocumentNumber == "" && record.URL == "" {
		return RawRecord{}, false
	}
	return record, true
}

func (c *Client) resolveHref(href string) string {
	switch {
	case strings.HasPrefix(href, "/"):
		return c.baseURL + href
	case strings.HasPrefix(href, "http"):
		return href
	default:
		return ""
	}
}

func isDocumentHref(href string) bool {
	lower := strings.ToLower(href)
	return strings.Contains(lower, "celex") || strings.Contains(lower, "eli")
}
