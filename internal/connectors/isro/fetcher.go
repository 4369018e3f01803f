package isro

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/custodia-labs/vedika/internal/core/domain"
	"github.com/custodia-labs/vedika/internal/logger"
)

const (
	// DefaultBaseURL is the public ISRO API.
	DefaultBaseURL = "https://isro.vercel.app"

	// DefaultTimeout bounds each download.
	DefaultTimeout = 30 * time.Second

	maxBodySize = 32 << 20
)

// DefaultEndpoints are the API collections mirrored into the corpus.
func DefaultEndpoints() []string {
	return []string{
		string(domain.CategorySpacecrafts),
		string(domain.CategoryLaunchers),
		string(domain.CategoryCustomerSatellites),
		string(domain.CategoryCentres),
	}
}

// ErrRateLimited is returned for a 429 response.
var ErrRateLimited = errors.New("rate limited by ISRO API")

// Config holds fetcher settings. Zero values take the defaults.
type Config struct {
	BaseURL           string
	Dir               string
	Endpoints         []string
	RequestsPerSecond float64
	Timeout           time.Duration
	HTTPClient        *http.Client
}

// Result describes one endpoint download.
type Result struct {
	Name    string
	Path    string
	Records int
	Bytes   int
	Err     error
}

// OK reports whether the download succeeded.
func (r Result) OK() bool { return r.Err == nil }

// Fetcher downloads API collections into a corpus directory.
type Fetcher struct {
	baseURL   string
	dir       string
	endpoints []string
	client    *http.Client
	limiter   *RateLimiter
}

// NewFetcher creates a fetcher. The target directory is required.
func NewFetcher(cfg Config) (*Fetcher, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("%w: corpus directory is required", domain.ErrInvalidInput)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if len(cfg.Endpoints) == 0 {
		cfg.Endpoints = DefaultEndpoints()
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	for _, name := range cfg.Endpoints {
		if name == "" || strings.ContainsAny(name, `/\.`) {
			return nil, fmt.Errorf("%w: endpoint name %q", domain.ErrInvalidInput, name)
		}
	}

	return &Fetcher{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		dir:       cfg.Dir,
		endpoints: cfg.Endpoints,
		client:    client,
		limiter:   NewRateLimiter(cfg.RequestsPerSecond),
	}, nil
}

// FetchAll downloads every endpoint in order. A failing endpoint is
// reported in its Result and does not stop the others. The returned error
// is non-nil only when the directory cannot be created or ctx ends.
func (f *Fetcher) FetchAll(ctx context.Context) ([]Result, error) {
	if err := os.MkdirAll(f.dir, 0755); err != nil {
		return nil, fmt.Errorf("create corpus directory: %w", err)
	}

	results := make([]Result, 0, len(f.endpoints))
	for _, name := range f.endpoints {
		if err := f.limiter.Wait(ctx); err != nil {
			return results, err
		}

		res := f.Fetch(ctx, name)
		if res.OK() {
			logger.Info("Saved %s (%d records)", filepath.Base(res.Path), res.Records)
		} else {
			logger.Warn("Download %s failed: %v", name, res.Err)
		}
		results = append(results, res)

		if err := ctx.Err(); err != nil {
			return results, err
		}
	}
	return results, nil
}

// Fetch downloads a single endpoint without pacing.
func (f *Fetcher) Fetch(ctx context.Context, name string) Result {
	res := Result{Name: name, Path: filepath.Join(f.dir, name+".json")}

	body, err := f.get(ctx, f.baseURL+"/api/"+name)
	if err != nil {
		res.Err = err
		return res
	}

	var parsed any
	if err := json.Unmarshal(body, &parsed); err != nil {
		res.Err = fmt.Errorf("%w: %s: %v", domain.ErrMalformedSourceBatch, name, err)
		return res
	}
	if list, ok := parsed.([]any); ok {
		res.Records = len(list)
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, body, "", "  "); err != nil {
		res.Err = fmt.Errorf("format %s: %w", name, err)
		return res
	}
	pretty.WriteByte('\n')

	if err := writeFileAtomic(res.Path, pretty.Bytes()); err != nil {
		res.Err = err
		return res
	}
	res.Bytes = pretty.Len()
	return res
}

func (f *Fetcher) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		f.limiter.RecordRateLimited(resp)
		return nil, fmt.Errorf("%w: %s", ErrRateLimited, url)
	}
	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("GET %s: status %d: %s", url, resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", url, err)
	}
	return body, nil
}

// writeFileAtomic writes through a hidden temp file so a watcher on the
// directory only sees the final rename.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
