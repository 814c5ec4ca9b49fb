// This file defines handlers for the public browsing API.  These
// routes let unauthenticated visitors discover approved restaurants.
// Moderation state, owner IDs and capacity numbers are filtered from
// responses.

package handler

import (
    "database/sql"
    "errors"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/ematija/restaurant-reservation/internal/model"
    "github.com/ematija/restaurant-reservation/internal/repository"
)

// PublicHandler serves unauthenticated browsing of approved listings.
type PublicHandler struct {
    Restaurants *repository.RestaurantRepo
}

// PublicRestaurant is the sanitized view of a restaurant exposed to
// visitors.  Capacity and moderation fields stay internal.
type PublicRestaurant struct {
    ID           uint64             `json:"id"`
    Name         string             `json:"name"`
    Description  string             `json:"description"`
    Address      string             `json:"address"`
    Phone        string             `json:"phone"`
    OpeningHours model.OpeningHours `json:"opening_hours"`
}

func publicView(rt *model.Restaurant) PublicRestaurant {
    return PublicRestaurant{
        ID:           rt.ID,
        Name:         rt.Name,
        Description:  rt.Description,
        Address:      rt.Address,
        Phone:        rt.Phone,
        OpeningHours: rt.OpeningHours,
    }
}

// GetRestaurants handles GET /api/restaurants.  Only approved
// listings are returned; responses are cached by the Redis middleware.
func (h *PublicHandler) GetRestaurants(c echo.Context) error {
    items, err := h.Restaurants.ListApproved(c.Request().Context())
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "database error"})
    }
    out := make([]PublicRestaurant, 0, len(items))
    for i := range items {
        out = append(out, publicView(&items[i]))
    }
    return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// GetRestaurant handles GET /api/restaurants/:id.  Pending and
// suspended listings answer 404, indistinguishable from absence.
func (h *PublicHandler) GetRestaurant(c echo.Context) error {
    id, ok := paramID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid restaurant id"})
    }
    rt, err := h.Restaurants.GetByID(c.Request().Context(), id)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusNotFound, echo.Map{"message": "restaurant not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "database error"})
    }
    if rt.Status != model.RestaurantApproved {
        return c.JSON(http.StatusNotFound, echo.Map{"message": "restaurant not found"})
    }
    return c.JSON(http.StatusOK, publicView(rt))
}
