package handler

import (
    "database/sql"
    "errors"
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/ematija/restaurant-reservation/internal/booking"
    "github.com/ematija/restaurant-reservation/internal/model"
    "github.com/ematija/restaurant-reservation/internal/repository"
)

// RestaurantHandler bundles repositories for restaurateurs to manage
// their listings, calendar exceptions and floor plan.
type RestaurantHandler struct {
    Restaurants *repository.RestaurantRepo
    ClosedDates *repository.ClosedDateRepo
    Tables      *repository.TableRepo
}

// NewRestaurantHandler constructs a RestaurantHandler and panics if
// any dependency is nil.
func NewRestaurantHandler(r *repository.RestaurantRepo, cd *repository.ClosedDateRepo, t *repository.TableRepo) *RestaurantHandler {
    if r == nil || cd == nil || t == nil {
        panic("nil repository passed to NewRestaurantHandler")
    }
    return &RestaurantHandler{Restaurants: r, ClosedDates: cd, Tables: t}
}

type restaurantReq struct {
    Name           string             `json:"name"`
    Description    string             `json:"description"`
    Email          string             `json:"email"`
    Phone          string             `json:"phone"`
    Address        string             `json:"address"`
    Capacity       uint32             `json:"capacity"`
    OnlineCapacity *uint32            `json:"online_capacity"`
    OpeningHours   model.OpeningHours `json:"opening_hours"`
}

// Create handles POST /api/restaurants.  New listings start PENDING
// and stay invisible to the public until an admin approves them.
func (h *RestaurantHandler) Create(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
    }
    var req restaurantReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request body"})
    }
    req.Name = strings.TrimSpace(req.Name)
    if req.Name == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "name is required"})
    }
    if req.Capacity == 0 {
        req.Capacity = model.DefaultCapacity
    }
    if req.OnlineCapacity != nil && *req.OnlineCapacity > req.Capacity {
        *req.OnlineCapacity = req.Capacity
    }

    rt := &model.Restaurant{
        OwnerID:        userID,
        Name:           req.Name,
        Description:    req.Description,
        Email:          strings.TrimSpace(req.Email),
        Phone:          strings.TrimSpace(req.Phone),
        Address:        req.Address,
        Capacity:       req.Capacity,
        OnlineCapacity: req.OnlineCapacity,
        OpeningHours:   req.OpeningHours,
        Status:         model.RestaurantPending,
    }
    if err := h.Restaurants.Create(c.Request().Context(), rt); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to create restaurant"})
    }
    return c.JSON(http.StatusCreated, rt)
}

// ListMine handles GET /api/restaurants/mine.
func (h *RestaurantHandler) ListMine(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
    }
    items, err := h.Restaurants.ListByOwner(c.Request().Context(), userID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Update handles PUT /api/restaurants/:id.  When the room capacity is
// lowered below the online ceiling, the ceiling is clamped down with
// it so the invariant onlineCapacity <= capacity always holds.
func (h *RestaurantHandler) Update(c echo.Context) error {
    id, ok := paramID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid restaurant id"})
    }
    if ok, err := ownsRestaurant(c, h.Restaurants, id); !ok {
        return err
    }
    var req restaurantReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request body"})
    }
    req.Name = strings.TrimSpace(req.Name)
    if req.Name == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "name is required"})
    }
    if req.Capacity == 0 {
        req.Capacity = model.DefaultCapacity
    }

    ctx := c.Request().Context()
    rt, err := h.Restaurants.GetByID(ctx, id)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "database error"})
    }
    rt.Name = req.Name
    rt.Description = req.Description
    rt.Email = strings.TrimSpace(req.Email)
    rt.Phone = strings.TrimSpace(req.Phone)
    rt.Address = req.Address
    rt.Capacity = req.Capacity
    rt.OnlineCapacity = req.OnlineCapacity
    rt.OpeningHours = req.OpeningHours
    if rt.OnlineCapacity != nil && *rt.OnlineCapacity > rt.Capacity {
        clamped := rt.Capacity
        rt.OnlineCapacity = &clamped
    }

    if err := h.Restaurants.Update(ctx, rt); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to update restaurant"})
    }
    return c.JSON(http.StatusOK, rt)
}

// Delete handles DELETE /api/restaurants/:id.  Bookings, closed dates
// and floor plan rows go with it via foreign keys.
func (h *RestaurantHandler) Delete(c echo.Context) error {
    id, ok := paramID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid restaurant id"})
    }
    if ok, err := ownsRestaurant(c, h.Restaurants, id); !ok {
        return err
    }
    if err := h.Restaurants.Delete(c.Request().Context(), id); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to delete restaurant"})
    }
    return c.NoContent(http.StatusNoContent)
}

// ----- closed dates -----

// ListClosedDates handles GET /api/restaurants/:id/closed-dates.
func (h *RestaurantHandler) ListClosedDates(c echo.Context) error {
    id, ok := paramID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid restaurant id"})
    }
    if ok, err := ownsRestaurant(c, h.Restaurants, id); !ok {
        return err
    }
    items, err := h.ClosedDates.List(c.Request().Context(), id)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// AddClosedDate handles POST /api/restaurants/:id/closed-dates.
func (h *RestaurantHandler) AddClosedDate(c echo.Context) error {
    id, ok := paramID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid restaurant id"})
    }
    if ok, err := ownsRestaurant(c, h.Restaurants, id); !ok {
        return err
    }
    var req struct {
        Date   string  `json:"date"`
        Reason *string `json:"reason"`
    }
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request body"})
    }
    if _, err := booking.ParseDate(req.Date); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
    }
    cd := &model.ClosedDate{RestaurantID: id, Date: req.Date, Reason: req.Reason}
    if err := h.ClosedDates.Add(c.Request().Context(), cd); err != nil {
        if errors.Is(err, repository.ErrConflict) {
            return c.JSON(http.StatusConflict, echo.Map{"message": "date is already closed"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to add closed date"})
    }
    return c.JSON(http.StatusCreated, cd)
}

// RemoveClosedDate handles DELETE /api/restaurants/:id/closed-dates/:dateId.
func (h *RestaurantHandler) RemoveClosedDate(c echo.Context) error {
    id, ok := paramID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid restaurant id"})
    }
    dateID, ok := paramID(c, "dateId")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid closed date id"})
    }
    if ok, err := ownsRestaurant(c, h.Restaurants, id); !ok {
        return err
    }
    if err := h.ClosedDates.Remove(c.Request().Context(), id, dateID); err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusNotFound, echo.Map{"message": "closed date not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to remove closed date"})
    }
    return c.NoContent(http.StatusNoContent)
}

// ----- floor plan -----

// ListZones handles GET /api/restaurants/:id/zones.
func (h *RestaurantHandler) ListZones(c echo.Context) error {
    id, ok := paramID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid restaurant id"})
    }
    if ok, err := ownsRestaurant(c, h.Restaurants, id); !ok {
        return err
    }
    items, err := h.Tables.ListZones(c.Request().Context(), id)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// CreateZone handles POST /api/restaurants/:id/zones.
func (h *RestaurantHandler) CreateZone(c echo.Context) error {
    id, ok := paramID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid restaurant id"})
    }
    if ok, err := ownsRestaurant(c, h.Restaurants, id); !ok {
        return err
    }
    var req struct {
        Name string `json:"name"`
    }
    if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Name) == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "name is required"})
    }
    z := &model.Zone{RestaurantID: id, Name: strings.TrimSpace(req.Name)}
    if err := h.Tables.CreateZone(c.Request().Context(), z); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to create zone"})
    }
    return c.JSON(http.StatusCreated, z)
}

// DeleteZone handles DELETE /api/restaurants/:id/zones/:zoneId.
// Tables in the zone are kept and detached by the foreign key.
func (h *RestaurantHandler) DeleteZone(c echo.Context) error {
    id, ok := paramID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid restaurant id"})
    }
    zoneID, ok := paramID(c, "zoneId")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid zone id"})
    }
    if ok, err := ownsRestaurant(c, h.Restaurants, id); !ok {
        return err
    }
    if err := h.Tables.DeleteZone(c.Request().Context(), id, zoneID); err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusNotFound, echo.Map{"message": "zone not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to delete zone"})
    }
    return c.NoContent(http.StatusNoContent)
}

// ListTables handles GET /api/restaurants/:id/tables.
func (h *RestaurantHandler) ListTables(c echo.Context) error {
    id, ok := paramID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid restaurant id"})
    }
    if ok, err := ownsRestaurant(c, h.Restaurants, id); !ok {
        return err
    }
    items, err := h.Tables.ListTables(c.Request().Context(), id)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// CreateTable handles POST /api/restaurants/:id/tables.
func (h *RestaurantHandler) CreateTable(c echo.Context) error {
    id, ok := paramID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid restaurant id"})
    }
    if ok, err := ownsRestaurant(c, h.Restaurants, id); !ok {
        return err
    }
    var req struct {
        Name   string  `json:"name"`
        Seats  uint32  `json:"seats"`
        ZoneID *uint64 `json:"zone_id"`
    }
    if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Name) == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "name is required"})
    }
    if req.Seats == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "seats must be at least 1"})
    }
    if req.ZoneID != nil {
        ok, err := h.Tables.ZoneExists(c.Request().Context(), id, *req.ZoneID)
        if err != nil {
            return c.JSON(http.StatusInternalServerError, echo.Map{"message": "database error"})
        }
        if !ok {
            return c.JSON(http.StatusBadRequest, echo.Map{"message": "zone does not belong to this restaurant"})
        }
    }
    t := &model.DiningTable{RestaurantID: id, ZoneID: req.ZoneID, Name: strings.TrimSpace(req.Name), Seats: req.Seats}
    if err := h.Tables.CreateTable(c.Request().Context(), t); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to create table"})
    }
    return c.JSON(http.StatusCreated, t)
}

// DeleteTable handles DELETE /api/restaurants/:id/tables/:tableId.
func (h *RestaurantHandler) DeleteTable(c echo.Context) error {
    id, ok := paramID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid restaurant id"})
    }
    tableID, ok := paramID(c, "tableId")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid table id"})
    }
    if ok, err := ownsRestaurant(c, h.Restaurants, id); !ok {
        return err
    }
    if err := h.Tables.DeleteTable(c.Request().Context(), id, tableID); err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusNotFound, echo.Map{"message": "table not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to delete table"})
    }
    return c.NoContent(http.StatusNoContent)
}
