package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"syscall"
	"time"

	"enterprise-brain/backend/internal/constants"
	"enterprise-brain/backend/pkg/logger"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// ExtractHTML pulls readable text out of an HTML page: the title followed by
// headings, paragraphs and list items. Every block ends with a '.' so that
// SplitSentences keeps blocks apart.
func ExtractHTML(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", fmt.Errorf("failed to parse html: %w", err)
	}

	doc.Find("script, style, noscript, nav, footer").Remove()

	var blocks []string
	add := func(s string) {
		s = strings.Join(strings.Fields(s), " ")
		if s == "" {
			return
		}
		if !strings.HasSuffix(s, ".") {
			s += "."
		}
		blocks = append(blocks, s)
	}

	add(doc.Find("title").First().Text())
	doc.Find("h1, h2, h3, p, li").Each(func(_ int, sel *goquery.Selection) {
		add(sel.Text())
	})

	return strings.Join(blocks, " "), nil
}

// ErrBlockedAddress is returned when a page resolves to a loopback, private,
// link-local or otherwise internal address
var ErrBlockedAddress = errors.New("address not allowed for ingestion")

// ErrUnsupportedScheme is returned for anything other than http and https
var ErrUnsupportedScheme = errors.New("only http and https urls can be ingested")

// Fetcher downloads pages for ingestion
type Fetcher struct {
	client *http.Client
	logger *zap.Logger
}

// FetcherOption tunes a Fetcher
type FetcherOption func(*fetcherConfig)

type fetcherConfig struct {
	allowPrivate bool
}

// AllowPrivateNetworks lets the fetcher reach loopback and private addresses
func AllowPrivateNetworks() FetcherOption {
	return func(c *fetcherConfig) { c.allowPrivate = true }
}

// NewFetcher creates a fetcher with the given request timeout. By default it
// refuses to connect to internal addresses; the check runs on the resolved IP
// at dial time, so redirects and DNS answers are covered too.
func NewFetcher(timeout time.Duration, opts ...FetcherOption) *Fetcher {
	var cfg fetcherConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	dialer := &net.Dialer{Timeout: timeout, KeepAlive: 30 * time.Second}
	if !cfg.allowPrivate {
		dialer.Control = rejectInternal
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = dialer.DialContext
	if !cfg.allowPrivate {
		// a proxy would be dialled instead of the target and bypass the check
		transport.Proxy = nil
	}

	return &Fetcher{
		client: &http.Client{Timeout: timeout, Transport: transport},
		logger: logger.Get(),
	}
}

func rejectInternal(_, address string, _ syscall.RawConn) error {
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return err
	}
	ip := net.ParseIP(host)
	if ip == nil || isInternalIP(ip) {
		return fmt.Errorf("%w: %s", ErrBlockedAddress, host)
	}
	return nil
}

func isInternalIP(ip net.IP) bool {
	return ip.IsLoopback() ||
		ip.IsPrivate() ||
		ip.IsUnspecified() ||
		ip.IsLinkLocalUnicast() ||
		ip.IsLinkLocalMulticast() ||
		ip.IsInterfaceLocalMulticast() ||
		ip.IsMulticast()
}

// Fetch downloads rawURL and returns its extracted text
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", "enterprise-brain-ingest/1.0")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d from %s", resp.StatusCode, rawURL)
	}

	text, err := ExtractHTML(io.LimitReader(resp.Body, constants.MaxIngestBytes))
	if err != nil {
		return "", err
	}

	f.logger.Debug("Page fetched for ingestion",
		zap.String("url", rawURL),
		zap.Int("chars", len(text)),
	)
	return text, nil
}
