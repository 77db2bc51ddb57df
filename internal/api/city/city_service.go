package city

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"

	"github.com/FACorreiaa/go-city-counter/app/observability/metrics"
	"github.com/FACorreiaa/go-city-counter/internal/types"
)

var _ Service = (*ServiceImpl)(nil)

// Service answers letter queries against the upstream city list.
type Service interface {
	CountCities(ctx context.Context, letter string) types.CityCountResponse
}

type ServiceImpl struct {
	logger     *slog.Logger
	repository CityRepository
}

func NewCityService(repository CityRepository, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:     logger,
		repository: repository,
	}
}

// CountCities trims letter and picks the filter from what is left: nothing
// matches without calling the upstream, a single character is a
// case-insensitive prefix filter with sorted output, and anything longer is a
// case-insensitive exact match in upstream order.
func (s *ServiceImpl) CountCities(ctx context.Context, letter string) types.CityCountResponse {
	ctx, span := otel.Tracer("CityService").Start(ctx, "CountCities")
	defer span.End()

	filter, mode := ParseFilter(letter)
	span.SetAttributes(
		attribute.String("filter.mode", string(mode)),
		attribute.String("filter.value", filter),
	)

	var cities []string
	switch mode {
	case types.FilterModePrefix:
		cities = FilterByPrefix(s.repository.FetchCityNames(ctx), filter)
	case types.FilterModeExact:
		cities = FilterByExactName(s.repository.FetchCityNames(ctx), filter)
	}

	resp := types.NewCityCountResponse(cities)

	m := metrics.Get()
	m.CityCountRequestsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("mode", string(mode))))
	m.CityCountResultSize.Record(ctx, int64(resp.Count))

	s.logger.DebugContext(ctx, "Counted cities",
		slog.String("mode", string(mode)),
		slog.String("filter", filter),
		slog.Int("count", resp.Count))
	span.SetAttributes(attribute.Int("cities.count", resp.Count))
	span.SetStatus(codes.Ok, "Cities counted")
	return resp
}

// ParseFilter trims raw and reports how it should be applied.
func ParseFilter(raw string) (string, types.FilterMode) {
	filter := strings.TrimSpace(raw)
	switch utf8.RuneCountInString(filter) {
	case 0:
		return "", types.FilterModeEmpty
	case 1:
		return filter, types.FilterModePrefix
	default:
		return filter, types.FilterModeExact
	}
}

// NormalizeCityName upper-cases the first character and lower-cases the rest.
func NormalizeCityName(name string) string {
	first, size := utf8.DecodeRuneInString(name)
	if size == 0 {
		return name
	}
	return string(unicode.ToUpper(first)) + strings.ToLower(name[size:])
}

// FilterByPrefix keeps the names whose first character equals letter
// ignoring case, normalized and sorted ascending.
func FilterByPrefix(names []string, letter string) []string {
	matches := []string{}
	for _, name := range names {
		first, size := utf8.DecodeRuneInString(name)
		if size == 0 {
			continue
		}
		if strings.EqualFold(string(first), letter) {
			matches = append(matches, NormalizeCityName(name))
		}
	}
	slices.Sort(matches)
	return matches
}

// FilterByExactName keeps the names equal to name ignoring case, normalized,
// in their original order.
func FilterByExactName(names []string, name string) []string {
	target := NormalizeCityName(name)
	matches := []string{}
	for _, candidate := range names {
		if strings.EqualFold(candidate, target) {
			matches = append(matches, NormalizeCityName(candidate))
		}
	}
	return matches
}
