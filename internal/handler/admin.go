package handler

import (
    "database/sql"
    "errors"
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/ematija/restaurant-reservation/internal/model"
    "github.com/ematija/restaurant-reservation/internal/repository"
)

// AdminHandler exposes the moderation surface.  Admin accounts are
// provisioned manually; RequireRole("ADMIN") guards these routes.
type AdminHandler struct {
    Restaurants *repository.RestaurantRepo
}

// UpdateRestaurantStatus handles PATCH /api/admin/restaurants/:id/status.
// Approving a listing makes it visible to the public browse and
// bookable through the public form; suspending hides it again without
// touching existing bookings.
func (h *AdminHandler) UpdateRestaurantStatus(c echo.Context) error {
    id, ok := paramID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid restaurant id"})
    }
    var req struct {
        Status string `json:"status"`
    }
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request body"})
    }
    status := strings.ToUpper(strings.TrimSpace(req.Status))
    switch status {
    case model.RestaurantPending, model.RestaurantApproved, model.RestaurantSuspended:
    default:
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid status"})
    }

    if err := h.Restaurants.UpdateStatus(c.Request().Context(), id, status); err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusNotFound, echo.Map{"message": "restaurant not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to update status"})
    }
    return c.JSON(http.StatusOK, echo.Map{"id": id, "status": status})
}
