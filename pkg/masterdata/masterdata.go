// Package masterdata loads the two externally owned master files: the
// dragon head calendar-range table and the zodiac→theme mapping. Both
// may live on disk or behind an HTTP endpoint.
package masterdata

import (
	"fmt"
	"io"
	stdlog "log"
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/tidwall/gjson"

	"github.com/kokorolabs/soulscope/pkg/zodiac"
)

// Reload policies for Store.
const (
	ReloadOnce   = "once"
	ReloadAlways = "always"
)

// Config names the two master-data sources. Each source is either a
// local file path or an http(s) URL.
type Config struct {
	Ranges  string
	Mapping string
	Reload  string
}

// LoadError reports a master-data source that could not be loaded:
// missing file, failed fetch, or malformed JSON. The Source field is
// operator-facing and must not be echoed to untrusted callers.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("master data unavailable: %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Load reads and parses both master files.
func Load(cfg Config) (zodiac.Tables, error) {
	ranges, err := readSource(cfg.Ranges)
	if err != nil {
		return zodiac.Tables{}, err
	}
	mapping, err := readSource(cfg.Mapping)
	if err != nil {
		return zodiac.Tables{}, err
	}

	rangesJSON := gjson.ParseBytes(ranges)
	if !gjson.ValidBytes(ranges) || !rangesJSON.IsArray() {
		return zodiac.Tables{}, &LoadError{Source: cfg.Ranges, Err: fmt.Errorf("expected a JSON array of range records")}
	}
	mappingJSON := gjson.ParseBytes(mapping)
	if !gjson.ValidBytes(mapping) || !mappingJSON.IsObject() {
		return zodiac.Tables{}, &LoadError{Source: cfg.Mapping, Err: fmt.Errorf("expected a JSON object keyed by zodiac")}
	}

	return zodiac.Tables{Ranges: rangesJSON, Mapping: mappingJSON}, nil
}

func readSource(source string) ([]byte, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return fetch(source)
	}
	body, err := os.ReadFile(source)
	if err != nil {
		return nil, &LoadError{Source: source, Err: err}
	}
	return body, nil
}

func fetch(url string) ([]byte, error) {
	retryClient := retryablehttp.NewClient()
	retryClient.Logger = stdlog.New(io.Discard, "", 0)
	retryClient.RetryMax = 5

	resp, err := retryClient.Get(url)
	if err != nil {
		return nil, &LoadError{Source: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &LoadError{Source: url, Err: fmt.Errorf("unexpected HTTP status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &LoadError{Source: url, Err: err}
	}
	return body, nil
}

// Store hands out master-data tables under an explicit reload policy.
// With ReloadOnce the tables are read a single time and shared
// read-only across all requests; with ReloadAlways every call re-reads
// the sources so operators can swap the files under a running process.
type Store struct {
	cfg    Config
	once   sync.Once
	tables zodiac.Tables
	err    error
}

func NewStore(cfg Config) *Store {
	if cfg.Reload == "" {
		cfg.Reload = ReloadOnce
	}
	return &Store{cfg: cfg}
}

// Tables returns the current master-data tables per the reload policy.
func (s *Store) Tables() (zodiac.Tables, error) {
	if s.cfg.Reload == ReloadAlways {
		return Load(s.cfg)
	}
	s.once.Do(func() {
		s.tables, s.err = Load(s.cfg)
	})
	return s.tables, s.err
}
