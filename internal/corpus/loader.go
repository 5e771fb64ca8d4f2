package corpus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/halvard/nertune/internal/domain"
	"github.com/halvard/nertune/internal/retry"
)

const (
	// DefaultServerURL is the hosted dataset rows endpoint.
	DefaultServerURL = "https://datasets-server.huggingface.co"

	// pageSize is the number of rows requested per page; the rows API caps
	// page length at 100.
	pageSize = 100
)

// LoaderOptions configures a Loader.
type LoaderOptions struct {
	// ServerURL overrides the dataset server base URL.
	ServerURL string

	// Config is the dataset configuration name; defaults to the dataset name.
	Config string

	// CacheDir enables the disk cache layer when non-empty.
	CacheDir string

	// CacheTTL bounds how long cached splits are reused.
	CacheTTL time.Duration

	// MaxRows caps how many rows are fetched per split; 0 means all.
	MaxRows int

	// RequestsPerSecond throttles calls to the dataset server.
	RequestsPerSecond float64
}

// Loader fetches labeled splits from a hosted dataset server, with a layered
// cache and rate limiting in front of the HTTP calls.
type Loader struct {
	dataset    string
	config     string
	serverURL  string
	maxRows    int
	httpClient *http.Client
	limiter    *rate.Limiter
	cache      *splitCache
	retryCfg   retry.BackoffConfig
	logger     *slog.Logger
}

// NewLoader creates a loader for the named public dataset.
func NewLoader(dataset string, opts LoaderOptions) *Loader {
	serverURL := opts.ServerURL
	if serverURL == "" {
		serverURL = DefaultServerURL
	}
	config := opts.Config
	if config == "" {
		config = dataset
	}
	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	rps := opts.RequestsPerSecond
	if rps <= 0 {
		rps = 4
	}

	return &Loader{
		dataset:    dataset,
		config:     config,
		serverURL:  serverURL,
		maxRows:    opts.MaxRows,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		cache:      newSplitCache(opts.CacheDir, ttl),
		retryCfg:   retry.DefaultConfig(),
		logger:     slog.Default().With("component", "corpus"),
	}
}

// rowsResponse is the shape of the dataset server's rows endpoint.
type rowsResponse struct {
	Rows []struct {
		RowIdx int    `json:"row_idx"`
		Row    Record `json:"row"`
	} `json:"rows"`
	NumRowsTotal int `json:"num_rows_total"`
}

// Load fetches the named splits and assembles an immutable dataset. A failure
// on any split fails the whole load and releases any partially cached state
// for that split.
func (l *Loader) Load(ctx context.Context, splits ...string) (*Dataset, error) {
	if len(splits) == 0 {
		splits = []string{SplitTrain, SplitValidation, SplitTest}
	}

	ds := &Dataset{Name: l.dataset, Splits: make(map[string]*Split, len(splits))}
	for _, name := range splits {
		split, err := l.LoadSplit(ctx, name)
		if err != nil {
			return nil, err
		}
		ds.Splits[name] = split
	}
	return ds, nil
}

// LoadSplit fetches a single split, serving from cache when possible.
func (l *Loader) LoadSplit(ctx context.Context, name string) (*Split, error) {
	key := cacheKey(l.dataset, l.config, name)
	if split, ok := l.cache.get(key); ok {
		l.logger.Debug("split served from cache", "split", name, "records", split.Len())
		return split, nil
	}

	split, err := l.fetchSplit(ctx, name)
	if err != nil {
		// A failed load must not leave stale or partial cache entries.
		l.cache.delete(key)
		return nil, err
	}

	if err := l.cache.set(key, split); err != nil {
		l.logger.Warn("failed to cache split", "split", name, "error", err)
	}
	l.logger.Info("split loaded", "dataset", l.dataset, "split", name, "records", split.Len())
	return split, nil
}

func (l *Loader) fetchSplit(ctx context.Context, name string) (*Split, error) {
	split := &Split{Name: name}
	offset := 0
	total := -1

	for total < 0 || offset < total {
		length := pageSize
		if l.maxRows > 0 && offset+length > l.maxRows {
			length = l.maxRows - offset
		}
		if length <= 0 {
			break
		}

		page, err := l.fetchPage(ctx, name, offset, length)
		if err != nil {
			return nil, err
		}
		if total < 0 {
			total = page.NumRowsTotal
			if l.maxRows > 0 && l.maxRows < total {
				total = l.maxRows
			}
		}
		if len(page.Rows) == 0 {
			break
		}

		for _, row := range page.Rows {
			rec := row.Row
			if err := rec.Validate(); err != nil {
				return nil, domain.NewDomainError(domain.ErrDataUnavailable,
					fmt.Sprintf("row %d of split %q", row.RowIdx, name))
			}
			split.Records = append(split.Records, rec)
		}
		offset += len(page.Rows)
	}

	return split, nil
}

func (l *Loader) fetchPage(ctx context.Context, name string, offset, length int) (*rowsResponse, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("dataset", l.dataset)
	q.Set("config", l.config)
	q.Set("split", name)
	q.Set("offset", fmt.Sprintf("%d", offset))
	q.Set("length", fmt.Sprintf("%d", length))
	endpoint := l.serverURL + "/rows?" + q.Encode()

	var page rowsResponse
	err := retry.WithBackoff(ctx, l.retryCfg, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/json")

		resp, err := l.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			if retryErr := retry.StatusError(resp.StatusCode); retryErr != nil {
				return retryErr
			}
			return domain.NewDomainError(domain.ErrDataUnavailable,
				fmt.Sprintf("dataset server returned %d for %s/%s", resp.StatusCode, l.dataset, name))
		}

		body, err := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
		if err != nil {
			return err
		}
		if err := json.Unmarshal(body, &page); err != nil {
			return domain.NewDomainError(domain.ErrDataUnavailable,
				fmt.Sprintf("unparseable rows response for %s/%s", l.dataset, name))
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, domain.ErrDataUnavailable) && !errors.Is(err, context.Canceled) {
			err = domain.NewDomainError(domain.ErrDataUnavailable, err.Error())
		}
		return nil, err
	}
	return &page, nil
}
