// Package staticfeed reads and writes the pre-generated JSON archive: an
// index file plus one file per digest.
package staticfeed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/felipepimentel/ai-news-digest/models"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	IndexFile  = "index.json"
	DigestsDir = "digests"

	maxFeedBytes = 32 << 20
	fetchWorkers = 8
)

var defaultHTTPClient = &http.Client{Timeout: 10 * time.Second}

// Client reads the feed from an http(s) base URL or a local directory.
// Successful reads are cached for the lifetime of the client; failures are
// not, so a later call retries.
type Client struct {
	base       string
	httpClient *http.Client

	mu      sync.Mutex
	index   []models.IndexEntry
	digests map[string]*models.FeedDigest
}

func NewClient(base string) *Client {
	return &Client{
		base:       strings.TrimRight(base, "/"),
		httpClient: defaultHTTPClient,
		digests:    make(map[string]*models.FeedDigest),
	}
}

// WithHTTPClient swaps the client used for remote feeds.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// Index returns the digest summaries, newest first as written.
func (c *Client) Index(ctx context.Context) ([]models.IndexEntry, error) {
	c.mu.Lock()
	if c.index != nil {
		index := c.index
		c.mu.Unlock()
		return index, nil
	}
	c.mu.Unlock()

	data, err := c.read(ctx, IndexFile)
	if err != nil {
		return []models.IndexEntry{}, fmt.Errorf("reading index: %w", err)
	}
	var index []models.IndexEntry
	if err := json.Unmarshal(data, &index); err != nil {
		return []models.IndexEntry{}, fmt.Errorf("parsing index: %w", err)
	}
	if index == nil {
		index = []models.IndexEntry{}
	}

	c.mu.Lock()
	c.index = index
	c.mu.Unlock()
	return index, nil
}

// Digest returns one full digest, or nil if it cannot be read.
func (c *Client) Digest(ctx context.Context, id string) (*models.FeedDigest, error) {
	if id == "" || strings.ContainsAny(id, `/\`) || strings.Contains(id, "..") {
		return nil, fmt.Errorf("invalid digest id %q", id)
	}

	c.mu.Lock()
	if d, ok := c.digests[id]; ok {
		c.mu.Unlock()
		return d, nil
	}
	c.mu.Unlock()

	data, err := c.read(ctx, DigestsDir+"/"+id+".json")
	if err != nil {
		return nil, fmt.Errorf("reading digest %s: %w", id, err)
	}
	var d models.FeedDigest
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parsing digest %s: %w", id, err)
	}

	c.mu.Lock()
	c.digests[id] = &d
	c.mu.Unlock()
	return &d, nil
}

// AllDigests loads every digest listed in the index. Digests that fail to
// load are skipped; order follows the index.
func (c *Client) AllDigests(ctx context.Context) ([]models.FeedDigest, error) {
	index, err := c.Index(ctx)
	if err != nil {
		return nil, err
	}

	loaded := make([]*models.FeedDigest, len(index))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchWorkers)
	for i, entry := range index {
		i, entry := i, entry
		g.Go(func() error {
			d, err := c.Digest(gctx, entry.ID)
			if err != nil {
				logrus.WithError(err).WithField("digest", entry.ID).Warn("staticfeed: skipping digest")
				return nil
			}
			loaded[i] = d
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	digests := make([]models.FeedDigest, 0, len(loaded))
	for _, d := range loaded {
		if d != nil {
			digests = append(digests, *d)
		}
	}
	return digests, nil
}

func (c *Client) remote() bool {
	return strings.HasPrefix(c.base, "http://") || strings.HasPrefix(c.base, "https://")
}

func (c *Client) read(ctx context.Context, name string) ([]byte, error) {
	if !c.remote() {
		return os.ReadFile(filepath.Join(c.base, filepath.FromSlash(name)))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/"+name, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedBytes))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s", extractFeedError(body, resp.StatusCode))
	}
	return body, nil
}

func extractFeedError(body []byte, statusCode int) string {
	var errResp map[string]interface{}
	if err := json.Unmarshal(body, &errResp); err == nil {
		if msg, ok := errResp["error"].(string); ok && msg != "" {
			return msg
		}
		if msg, ok := errResp["message"].(string); ok && msg != "" {
			return msg
		}
	}
	trimmed := strings.TrimSpace(string(body))
	if trimmed != "" && len(trimmed) < 200 {
		return fmt.Sprintf("feed returned status %d: %s", statusCode, trimmed)
	}
	return fmt.Sprintf("feed returned status %d", statusCode)
}
