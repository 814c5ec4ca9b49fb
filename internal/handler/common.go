package handler // handler defines http handlers

import (
    "database/sql"
    "errors"
    "net/http"
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/ematija/restaurant-reservation/internal/repository"
)

// getUserID extracts the user_id stored by the JWT middleware and
// converts it to uint64.  JWT numeric claims decode as float64, so a
// few representations are accepted.
func getUserID(c echo.Context) (uint64, error) {
    v := c.Get("user_id")
    switch t := v.(type) {
    case uint64:
        return t, nil
    case int:
        return uint64(t), nil
    case int64:
        return uint64(t), nil
    case float64:
        return uint64(t), nil
    case string:
        if n, err := strconv.ParseUint(t, 10, 64); err == nil {
            return n, nil
        }
    }
    return 0, errors.New("invalid user_id in context")
}

// paramID parses a numeric path parameter.  Zero is treated as
// invalid because all primary keys start at one.
func paramID(c echo.Context, name string) (uint64, bool) {
    id, err := strconv.ParseUint(c.Param(name), 10, 64)
    if err != nil || id == 0 {
        return 0, false
    }
    return id, true
}

// ownsRestaurant checks that the restaurant exists and belongs to the
// authenticated user.  The boolean reports whether the caller may
// proceed; when it is false the accompanying error is the already
// written 401/403/404/500 response.
func ownsRestaurant(c echo.Context, restaurants *repository.RestaurantRepo, restaurantID uint64) (bool, error) {
    userID, err := getUserID(c)
    if err != nil {
        return false, c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
    }
    switch err := restaurants.EnsureOwner(c.Request().Context(), restaurantID, userID); {
    case err == nil:
        return true, nil
    case errors.Is(err, sql.ErrNoRows):
        return false, c.JSON(http.StatusNotFound, echo.Map{"message": "restaurant not found"})
    case errors.Is(err, repository.ErrForbidden):
        return false, c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
    default:
        return false, c.JSON(http.StatusInternalServerError, echo.Map{"message": "database error"})
    }
}
