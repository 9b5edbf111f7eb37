package rates

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/loanx-agent/server/internal/quote"
)

func archiveHTML(thirtyYear, fifteenYear string) string {
	return fmt.Sprintf(`<html><body><table>
		<tr>
			<td class="large-text-center">%s FRM %s</td>
			<td class="large-text-center">%s FRM %s</td>
		</tr>
		<tr>
			<td class="large-text-center">%s FRM 9.99%%</td>
		</tr>
	</table></body></html>`,
		thirtyYearMarker, thirtyYear, fifteenYearMarker, fifteenYear, thirtyYearMarker)
}

func testProvider(url string) *Provider {
	return New(Config{URL: url, TimeoutSeconds: 2, Margin: 0.5})
}

func TestResolveScrapesArchiveTable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, archiveHTML("6.35%", "5.51%"))
	}))
	defer srv.Close()

	p := testProvider(srv.URL)
	ctx := context.Background()

	// First matching cell wins; the later 9.99% row is never read.
	require.InDelta(t, 6.85, p.Resolve(ctx, nil, quote.Conventional, 30), 1e-9)
	require.InDelta(t, 6.01, p.Resolve(ctx, nil, quote.Conventional, 15), 1e-9)

	// Terms under 20 years map to the 15-year series.
	require.InDelta(t, 6.01, p.Resolve(ctx, nil, quote.Conventional, 10), 1e-9)
	require.InDelta(t, 6.85, p.Resolve(ctx, nil, quote.Conventional, 20), 1e-9)
}

func TestResolveParsesXMLFeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<?xml version="1.0" encoding="UTF-8"?>
<rates>
	<rate>6.25</rate>
	<rate>6.75</rate>
</rates>`)
	}))
	defer srv.Close()

	p := testProvider(srv.URL)

	// The single XML figure serves both terms.
	require.InDelta(t, 6.75, p.Resolve(context.Background(), nil, quote.Conventional, 30), 1e-9)
	require.InDelta(t, 6.75, p.Resolve(context.Background(), nil, quote.Conventional, 15), 1e-9)
}

func TestResolveExplicitRateSkipsFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Error("explicit rate must not trigger a fetch")
	}))
	defer srv.Close()

	p := testProvider(srv.URL)
	explicit := 6.125
	require.Equal(t, 6.125, p.Resolve(context.Background(), &explicit, quote.Conventional, 30))
}

func TestResolveFallsBackOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := testProvider(srv.URL)
	require.Equal(t, 7.5, p.Resolve(context.Background(), nil, quote.Conventional, 30))
}

func TestResolveFallsBackOnUnparsableBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "<html><body><p>maintenance window</p></body></html>")
	}))
	defer srv.Close()

	p := testProvider(srv.URL)
	for _, lt := range []quote.LoanType{quote.Conventional, quote.FHA, quote.VA, quote.Jumbo, quote.USDA} {
		require.Equal(t, 7.5, p.Resolve(context.Background(), nil, lt, 30), string(lt))
	}
}

func TestResolveFallsBackOnUnreachableSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	srv.Close()

	p := testProvider(srv.URL)
	require.Equal(t, 7.5, p.Resolve(context.Background(), nil, quote.FHA, 30))
}

func TestResolvePartialArchiveUsesAvailableSeries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintf(w, `<html><body><table><tr>
			<td class="large-text-center">%s FRM 6.35%%</td>
		</tr></table></body></html>`, thirtyYearMarker)
	}))
	defer srv.Close()

	p := testProvider(srv.URL)
	require.InDelta(t, 6.85, p.Resolve(context.Background(), nil, quote.Conventional, 30), 1e-9)

	// The missing 15-year series falls back.
	require.Equal(t, 7.5, p.Resolve(context.Background(), nil, quote.Conventional, 15))
}

func TestStaticSource(t *testing.T) {
	src := Static()
	explicit := 6.0
	require.Equal(t, 6.0, src.Resolve(context.Background(), &explicit, quote.Conventional, 30))
	require.Equal(t, 7.5, src.Resolve(context.Background(), nil, quote.VA, 30))
}

func TestFirstPercentToken(t *testing.T) {
	rate, ok := firstPercentToken("30-Yr FRM 6.35% 0.7 Fees")
	require.True(t, ok)
	require.Equal(t, 6.35, rate)

	_, ok = firstPercentToken("no rates here")
	require.False(t, ok)
}
