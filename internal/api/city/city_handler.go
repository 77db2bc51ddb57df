package city

import (
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/FACorreiaa/go-city-counter/internal/api"
)

type Handler struct {
	logger  *slog.Logger
	service Service
}

func NewCityHandler(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		logger:  logger,
		service: service,
	}
}

// CountCities godoc
// @Summary      Count cities by letter or name
// @Description  A single character returns every upstream city starting with it, sorted. A longer value returns the cities matching it exactly. Both comparisons ignore case. An empty value returns no cities without calling the upstream.
// @Tags         Cities
// @Produce      json
// @Param        letter query string false "Starting letter or full city name"
// @Success      200 {object} types.CityCountResponse "Matching cities"
// @Router       /cities/count [get]
func (h *Handler) CountCities(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("CityHandler").Start(r.Context(), "CountCities")
	defer span.End()

	letter := r.URL.Query().Get("letter")
	l := h.logger.With(slog.String("method", "CountCities"), slog.String("letter", letter))

	resp := h.service.CountCities(ctx, letter)

	api.WriteJSONResponse(w, r.WithContext(ctx), http.StatusOK, resp)

	l.InfoContext(ctx, "Successfully returned cities", slog.Int("count", resp.Count))
	span.SetAttributes(attribute.Int("cities.count", resp.Count))
	span.SetStatus(codes.Ok, "Cities returned successfully")
}

// Preflight godoc
// @Summary      CORS preflight for the city count route
// @Tags         Cities
// @Success      204 "No Content"
// @Router       /cities/count [options]
func (h *Handler) Preflight(w http.ResponseWriter, r *http.Request) {
	api.WriteJSONResponse(w, r, http.StatusNoContent, nil)
}
