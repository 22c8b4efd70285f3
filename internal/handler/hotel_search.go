package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-reservation/internal/repository"
)

// PublicHandler serves the unauthenticated browse endpoints.
type PublicHandler struct {
	Hotels *repository.HotelRepo
}

func NewPublicHandler(hotels *repository.HotelRepo) *PublicHandler {
	if hotels == nil {
		panic("nil repository passed to NewPublicHandler")
	}
	return &PublicHandler{Hotels: hotels}
}

// SearchHotels handles GET /v1/hotels?lat=&lon=[&radius=].  It returns every
// hotel within straight-line distance of the given coordinate, radius
// boundary included.  The default radius is 30 units.  Responses are cached
// by the Redis middleware keyed on the query string.
func (h *PublicHandler) SearchHotels(c echo.Context) error {
	lat, err := strconv.ParseFloat(c.QueryParam("lat"), 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "lat must be a number"})
	}
	lon, err := strconv.ParseFloat(c.QueryParam("lon"), 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "lon must be a number"})
	}
	radius := repository.DefaultSearchRadius
	if raw := c.QueryParam("radius"); raw != "" {
		radius, err = strconv.ParseFloat(raw, 64)
		if err != nil || radius < 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "radius must be a non-negative number"})
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	hotels, err := h.Hotels.ListWithinDistance(ctx, lat, lon, radius)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"hotels": hotels,
		"count":  len(hotels),
	})
}
