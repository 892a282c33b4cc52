package http

import (
	"net/http"

	"orderhub/internal/core/application/usecases/commands"
	"orderhub/internal/core/application/usecases/queries"
	"orderhub/internal/core/domain/model/driver"
	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/samber/lo"
)

type CreateDriverRequest struct {
	UserID   string `json:"user_id"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Vehicle  string `json:"vehicle"`
	AreaID   string `json:"area_id"`
	Capacity int    `json:"capacity,omitempty"`
}

type AvailabilityRequest struct {
	Available bool `json:"available"`
}

type ActiveRequest struct {
	Active bool `json:"active"`
}

type RatingRequest struct {
	Score float64 `json:"score"`
}

type LocationRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type LocationResponse struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type DriverResponse struct {
	ID              string            `json:"id"`
	Name            string            `json:"name"`
	Phone           string            `json:"phone"`
	Vehicle         string            `json:"vehicle"`
	Status          string            `json:"status"`
	Rating          float64           `json:"rating"`
	TotalDeliveries int               `json:"total_deliveries"`
	Capacity        int               `json:"capacity"`
	ActiveOrders    int               `json:"active_orders"`
	Location        *LocationResponse `json:"location,omitempty"`
}

// CreateDriver handles POST /api/v1/drivers.
func (s *Server) CreateDriver(c echo.Context) error {
	var req CreateDriverRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	userID, err := kernel.UUIDFromString(req.UserID)
	if err != nil {
		return errs.NewValueIsInvalidErrorWithCause("user_id", err)
	}
	areaID, err := kernel.UUIDFromString(req.AreaID)
	if err != nil {
		return errs.NewValueIsInvalidErrorWithCause("area_id", err)
	}

	cmd, err := commands.NewCreateDriverCommand(userID, req.Name, req.Phone,
		driver.VehicleType(req.Vehicle), areaID, req.Capacity)
	if err != nil {
		return err
	}

	driverID, err := s.h.CreateDriver.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, CreatedResponse{ID: driverID.String()})
}

// SetDriverAvailability handles PUT /api/v1/drivers/:id/availability.
func (s *Server) SetDriverAvailability(c echo.Context) error {
	driverID, err := pathID(c)
	if err != nil {
		return err
	}

	var req AvailabilityRequest
	if err = c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	cmd, err := commands.NewSetDriverAvailabilityCommand(driverID, req.Available)
	if err != nil {
		return err
	}

	d, err := s.h.SetDriverAvailability.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, driverResponse(d))
}

// SetDriverActive handles PUT /api/v1/drivers/:id/active.
func (s *Server) SetDriverActive(c echo.Context) error {
	driverID, err := pathID(c)
	if err != nil {
		return err
	}

	var req ActiveRequest
	if err = c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	cmd, err := commands.NewSetDriverActiveCommand(driverID, req.Active)
	if err != nil {
		return err
	}

	d, err := s.h.SetDriverActive.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, driverResponse(d))
}

// RateDriver handles POST /api/v1/drivers/:id/ratings.
func (s *Server) RateDriver(c echo.Context) error {
	driverID, err := pathID(c)
	if err != nil {
		return err
	}

	var req RatingRequest
	if err = c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	cmd, err := commands.NewRateDriverCommand(driverID, req.Score)
	if err != nil {
		return err
	}

	d, err := s.h.RateDriver.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, driverResponse(d))
}

// UpdateDriverLocation handles PUT /api/v1/drivers/:id/location.
func (s *Server) UpdateDriverLocation(c echo.Context) error {
	driverID, err := pathID(c)
	if err != nil {
		return err
	}

	var req LocationRequest
	if err = c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	loc, err := kernel.NewLocation(req.Latitude, req.Longitude)
	if err != nil {
		return err
	}

	cmd, err := commands.NewUpdateDriverLocationCommand(driverID, loc)
	if err != nil {
		return err
	}

	if err = s.h.UpdateDriverLocation.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

// ListDriversInArea handles GET /api/v1/areas/:id/drivers.
func (s *Server) ListDriversInArea(c echo.Context) error {
	areaID, err := pathID(c)
	if err != nil {
		return err
	}

	query, err := queries.NewListDriversInAreaQuery(areaID)
	if err != nil {
		return err
	}

	drivers, err := s.h.ListDriversInArea.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}

	response := make([]DriverResponse, len(drivers))
	for i, d := range drivers {
		response[i] = DriverResponse{
			ID:              d.ID.String(),
			Name:            d.Name,
			Phone:           d.Phone,
			Vehicle:         d.Vehicle,
			Status:          d.Status,
			Rating:          d.Rating,
			TotalDeliveries: d.TotalDeliveries,
			Capacity:        d.Capacity,
			ActiveOrders:    d.ActiveOrders,
			Location:        locationResponse(d.Location),
		}
	}

	return c.JSON(http.StatusOK, response)
}

func driverResponse(d *driver.Driver) DriverResponse {
	return DriverResponse{
		ID:              d.ID().String(),
		Name:            d.Name(),
		Phone:           d.Phone(),
		Vehicle:         string(d.Vehicle()),
		Status:          d.Status().String(),
		Rating:          d.Rating(),
		TotalDeliveries: d.TotalDeliveries(),
		Capacity:        d.Capacity(),
		ActiveOrders:    len(d.ActiveOrders()),
		Location:        locationResponse(d.Location()),
	}
}

func locationResponse(loc *kernel.Location) *LocationResponse {
	if loc == nil {
		return nil
	}
	return lo.ToPtr(LocationResponse{Latitude: loc.Latitude(), Longitude: loc.Longitude()})
}
