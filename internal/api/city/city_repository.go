package city

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"

	"github.com/FACorreiaa/go-city-counter/app/observability/metrics"
	"github.com/FACorreiaa/go-city-counter/config"
)

var _ CityRepository = (*HTTPCityRepository)(nil)

// CityRepository supplies the raw upstream city names in upstream order.
// Implementations never fail: an unavailable upstream yields an empty list.
type CityRepository interface {
	FetchCityNames(ctx context.Context) []string
}

const maxUpstreamBody = 10 * 1024 * 1024 // 10 MB

// Fetch outcomes, used as the "outcome" metric attribute.
const (
	outcomeOK        = "ok"
	outcomeStatus    = "status"
	outcomeTransport = "transport"
	outcomeRead      = "read"
	outcomeParse     = "parse"
)

var namePattern = regexp.MustCompile(`"name":"([^"]+)"`)

var lineBreaks = strings.NewReplacer("\r\n", "", "\n", "", "\r", "")

// ExtractNamesByPattern returns every value of a literal "name":"..." pair in
// body, in order of appearance and regardless of nesting. The body is not
// validated as JSON. Line breaks are removed before scanning. Escape
// sequences inside a value are decoded; a value that does not decode as a
// JSON string is kept as raw text.
func ExtractNamesByPattern(body []byte) []string {
	text := lineBreaks.Replace(string(body))
	matches := namePattern.FindAllStringSubmatch(text, -1)
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, decodeJSONFragment(m[1]))
	}
	return names
}

func decodeJSONFragment(raw string) string {
	if !strings.Contains(raw, `\`) {
		return raw
	}
	var decoded string
	if err := json.Unmarshal([]byte(`"`+raw+`"`), &decoded); err != nil {
		return raw
	}
	return decoded
}

// ExtractNamesByPath parses body as JSON and returns the non-empty string
// values found at the gjson path.
func ExtractNamesByPath(body []byte, path string) ([]string, error) {
	if !gjson.ValidBytes(body) {
		return nil, errors.New("upstream body is not valid JSON")
	}

	result := gjson.GetBytes(body, path)
	names := []string{}
	collect := func(v gjson.Result) {
		if v.Type == gjson.String && v.Str != "" {
			names = append(names, v.Str)
		}
	}
	if result.IsArray() {
		result.ForEach(func(_, v gjson.Result) bool {
			collect(v)
			return true
		})
	} else {
		collect(result)
	}
	return names, nil
}

// UpstreamStatusError reports a non-2xx answer from the upstream.
type UpstreamStatusError struct {
	StatusCode int
}

func (e *UpstreamStatusError) Error() string {
	return fmt.Sprintf("API request failed with code: %d", e.StatusCode)
}

type HTTPCityRepository struct {
	logger   *slog.Logger
	client   *http.Client
	url      string
	extract  func(body []byte) ([]string, error)
	namePath string
}

// NewHTTPCityRepository builds the upstream client from configuration. The API
// key, when present, is added to the URL query under APIKeyParam.
func NewHTTPCityRepository(cfg config.UpstreamConfig, logger *slog.Logger) (*HTTPCityRepository, error) {
	u, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid upstream url: %w", err)
	}
	if cfg.APIKey != "" {
		q := u.Query()
		q.Set(cfg.APIKeyParam, cfg.APIKey)
		u.RawQuery = q.Encode()
	}

	r := &HTTPCityRepository{
		logger:   logger.With(slog.String("component", "CityRepository")),
		client:   &http.Client{Timeout: cfg.Timeout},
		url:      u.String(),
		namePath: cfg.NamePath,
	}
	switch cfg.Extraction {
	case config.ExtractionStructural:
		r.extract = func(body []byte) ([]string, error) {
			return ExtractNamesByPath(body, r.namePath)
		}
	case config.ExtractionPattern, "":
		r.extract = func(body []byte) ([]string, error) {
			return ExtractNamesByPattern(body), nil
		}
	default:
		return nil, fmt.Errorf("unknown extraction mode %q", cfg.Extraction)
	}
	return r, nil
}

// FetchCityNames calls the upstream once. Any failure is logged and mapped to
// an empty list.
func (r *HTTPCityRepository) FetchCityNames(ctx context.Context) []string {
	ctx, span := otel.Tracer("CityRepository").Start(ctx, "FetchCityNames")
	defer span.End()

	start := time.Now()
	names, outcome, err := r.fetch(ctx)

	attrs := metric.WithAttributes(attribute.String("outcome", outcome))
	m := metrics.Get()
	m.UpstreamFetchTotal.Add(ctx, 1, attrs)
	m.UpstreamFetchDurationSeconds.Record(ctx, time.Since(start).Seconds(), attrs)

	if err != nil {
		r.logger.ErrorContext(ctx, "Error fetching data from upstream",
			slog.String("outcome", outcome),
			slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Upstream fetch failed")
		return []string{}
	}

	r.logger.DebugContext(ctx, "Fetched upstream cities", slog.Int("count", len(names)))
	span.SetAttributes(attribute.Int("cities.fetched", len(names)))
	span.SetStatus(codes.Ok, "Upstream cities fetched")
	return names
}

func (r *HTTPCityRepository) fetch(ctx context.Context) ([]string, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.url, nil)
	if err != nil {
		return nil, outcomeTransport, fmt.Errorf("failed to build upstream request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, outcomeTransport, fmt.Errorf("upstream request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, outcomeStatus, &UpstreamStatusError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxUpstreamBody))
	if err != nil {
		return nil, outcomeRead, fmt.Errorf("failed to read upstream body: %w", err)
	}

	names, err := r.extract(body)
	if err != nil {
		return nil, outcomeParse, err
	}
	return names, outcomeOK, nil
}
