// Package rates resolves the annual interest rate for a quote, either
// passing through a caller-supplied rate or fetching the current published
// Freddie Mac PMMS average and adding a margin. Fetch failure is never
// fatal: any network, status, or parse problem falls back to a static
// per-loan-type rate.
package rates

import (
	"context"
	"encoding/xml"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	errx "github.com/loanx-agent/server/internal/core/error"
	"github.com/loanx-agent/server/internal/quote"
	logx "github.com/loanx-agent/server/pkg/logger"
	"golang.org/x/net/html"
)

// PMMS table cells label each series with a non-breaking hyphen.
const (
	thirtyYearMarker  = "30‑Yr"
	fifteenYearMarker = "15‑Yr"
)

// Config holds rate-source settings, bound from the environment.
type Config struct {
	URL            string  `split_words:"true" default:"https://www.freddiemac.com/pmms/pmms_archives"`
	TimeoutSeconds int     `split_words:"true" default:"10"`
	Margin         float64 `split_words:"true" default:"0.5"`
}

// fallbackRates are the static per-loan-type rates substituted when the
// published source is unreachable or unparsable.
var fallbackRates = map[quote.LoanType]float64{
	quote.Conventional: 7.5,
	quote.FHA:          7.5,
	quote.VA:           7.5,
	quote.Jumbo:        7.5,
	quote.USDA:         7.5,
}

const defaultFallbackRate = 7.5

// publishedRates holds the two most recent published par rates.
type publishedRates struct {
	thirtyYear     float64
	fifteenYear    float64
	hasThirtyYear  bool
	hasFifteenYear bool
}

// Provider fetches published market rates over HTTP. One attempt per
// calculation, bounded by the configured timeout; no retries.
type Provider struct {
	cfg    Config
	client *http.Client
}

// New builds a Provider with a timeout-bounded HTTP client.
func New(cfg Config) *Provider {
	return &Provider{
		cfg: cfg,
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
	}
}

var _ quote.RateSource = (*Provider)(nil)

// Resolve implements quote.RateSource. Explicit rates pass through
// unchanged. Otherwise the published rate for the nearest standard term is
// fetched and the margin added; terms under 20 years map to the 15-year
// series, everything else to the 30-year series.
func (p *Provider) Resolve(ctx context.Context, explicit *float64, loanType quote.LoanType, termYears int) float64 {
	if explicit != nil {
		return *explicit
	}

	published, err := p.fetchPublishedRates(ctx)
	if err != nil {
		logx.Warn().Err(err).Str("loan_type", string(loanType)).Msg("rate fetch failed; using fallback rate")
		return p.fallbackRate(loanType)
	}

	var base float64
	var ok bool
	if termYears < 20 {
		base, ok = published.fifteenYear, published.hasFifteenYear
	} else {
		base, ok = published.thirtyYear, published.hasThirtyYear
	}
	if !ok {
		logx.Warn().Int("term_years", termYears).Msg("published rate missing for term; using fallback rate")
		return p.fallbackRate(loanType)
	}

	return base + p.cfg.Margin
}

func (p *Provider) fallbackRate(loanType quote.LoanType) float64 {
	if r, ok := fallbackRates[loanType]; ok {
		return r
	}
	return defaultFallbackRate
}

// fetchPublishedRates retrieves and parses the PMMS page. The feed is
// served either as XML with rate elements or as an HTML archive table;
// both shapes are handled, and every failure mode is reported identically.
func (p *Provider) fetchPublishedRates(ctx context.Context) (publishedRates, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.cfg.URL, nil)
	if err != nil {
		return publishedRates{}, errx.New(err, errx.KindExternalFetch, "building rate request")
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return publishedRates{}, errx.New(err, errx.KindExternalFetch, "fetching published rates")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return publishedRates{}, errx.Newf(errx.KindExternalFetch, "rate source returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return publishedRates{}, errx.New(err, errx.KindExternalFetch, "reading rate response")
	}

	if looksLikeXML(body) {
		return parseXMLRates(body)
	}
	return parseHTMLRates(body)
}

func looksLikeXML(body []byte) bool {
	trimmed := strings.TrimSpace(string(body))
	return strings.HasPrefix(trimmed, "<?xml") || strings.HasPrefix(trimmed, "<rates")
}

// parseXMLRates extracts the most recent rate element from the structured
// feed. The feed carries no term split, so the single figure serves both
// series.
func parseXMLRates(body []byte) (publishedRates, error) {
	decoder := xml.NewDecoder(strings.NewReader(string(body)))
	inRate := false
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return publishedRates{}, errx.New(err, errx.KindExternalFetch, "parsing rate XML")
		}
		switch t := tok.(type) {
		case xml.StartElement:
			inRate = t.Name.Local == "rate"
		case xml.CharData:
			if !inRate {
				continue
			}
			rate, err := strconv.ParseFloat(strings.TrimSpace(string(t)), 64)
			if err != nil {
				return publishedRates{}, errx.New(err, errx.KindExternalFetch, "parsing rate value")
			}
			return publishedRates{
				thirtyYear:     rate,
				fifteenYear:    rate,
				hasThirtyYear:  true,
				hasFifteenYear: true,
			}, nil
		case xml.EndElement:
			inRate = false
		}
	}
	return publishedRates{}, errx.Newf(errx.KindExternalFetch, "no rate element in XML feed")
}

// parseHTMLRates scrapes the archive table: the first percent-suffixed
// token in a cell labelled with a term marker wins, and scanning stops
// once both series are found.
func parseHTMLRates(body []byte) (publishedRates, error) {
	doc, err := html.Parse(strings.NewReader(string(body)))
	if err != nil {
		return publishedRates{}, errx.New(err, errx.KindExternalFetch, "parsing rate HTML")
	}

	var published publishedRates
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if published.hasThirtyYear && published.hasFifteenYear {
			return
		}
		if n.Type == html.ElementNode && n.Data == "td" && hasClass(n, "large-text-center") {
			text := strings.TrimSpace(nodeText(n))
			if strings.Contains(text, thirtyYearMarker) && !published.hasThirtyYear {
				if rate, ok := firstPercentToken(text); ok {
					published.thirtyYear = rate
					published.hasThirtyYear = true
				}
			}
			if strings.Contains(text, fifteenYearMarker) && !published.hasFifteenYear {
				if rate, ok := firstPercentToken(text); ok {
					published.fifteenYear = rate
					published.hasFifteenYear = true
				}
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)

	if !published.hasThirtyYear && !published.hasFifteenYear {
		return publishedRates{}, errx.Newf(errx.KindExternalFetch, "no published rates found in HTML")
	}
	return published, nil
}

func hasClass(n *html.Node, class string) bool {
	for _, attr := range n.Attr {
		if attr.Key == "class" {
			for _, c := range strings.Fields(attr.Val) {
				if c == class {
					return true
				}
			}
		}
	}
	return false
}

func nodeText(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		b.WriteString(nodeText(child))
	}
	return b.String()
}

// firstPercentToken returns the numeric value of the first whitespace
// separated token ending in '%'.
func firstPercentToken(text string) (float64, bool) {
	for _, part := range strings.Fields(text) {
		if !strings.HasSuffix(part, "%") {
			continue
		}
		rate, err := strconv.ParseFloat(strings.TrimSuffix(part, "%"), 64)
		if err != nil {
			continue
		}
		return rate, true
	}
	return 0, false
}

// Static returns a RateSource that never fetches: explicit rates pass
// through and everything else resolves to the static fallback. Useful for
// offline operation and tests.
func Static() quote.RateSource {
	return staticSource{}
}

type staticSource struct{}

func (staticSource) Resolve(_ context.Context, explicit *float64, loanType quote.LoanType, _ int) float64 {
	if explicit != nil {
		return *explicit
	}
	if r, ok := fallbackRates[loanType]; ok {
		return r
	}
	return defaultFallbackRate
}
