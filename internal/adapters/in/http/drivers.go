package http

import (
	"net/http"

	"freight/internal/core/application/usecases/commands"
	"freight/internal/core/domain/model/driver"
	"freight/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
)

// RegisterDriver handles POST /api/v1/drivers/me.
//
//	@Summary	Register the driver profile
//	@Tags		drivers
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		body	body		RegisterDriverRequest	true	"Driver profile"
//	@Success	201	{object}	SnapshotResponse
//	@Failure	400	{object}	ErrorResponse
//	@Failure	409	{object}	ErrorResponse
//	@Failure	500	{object}	ErrorResponse
//	@Router		/drivers/me [post]
func (s *Server) RegisterDriver(c echo.Context) error {
	var req RegisterDriverRequest
	if err := s.bind(c, &req); err != nil {
		return err
	}

	cmd, err := commands.NewRegisterDriverCommand(currentDriver(c), driver.Profile{
		Name:          req.Name,
		Phone:         req.Phone,
		VehicleType:   req.VehicleType,
		VehicleNumber: req.VehicleNumber,
	}, kernel.Weight(req.CapacityTons))
	if err != nil {
		return s.fail(c, err)
	}

	if err = s.registerDriver.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}

	return s.respondRefreshed(c, http.StatusCreated)
}

// GetProfile handles GET /api/v1/drivers/me.
//
//	@Summary	Driver profile with totals
//	@Tags		drivers
//	@Security	BearerAuth
//	@Produce	json
//	@Success	200	{object}	DriverResponse
//	@Failure	404	{object}	ErrorResponse
//	@Failure	500	{object}	ErrorResponse
//	@Router		/drivers/me [get]
func (s *Server) GetProfile(c echo.Context) error {
	sess, err := s.session(c)
	if err != nil {
		return s.fail(c, err)
	}
	snap, err := sess.Refresh(c.Request().Context())
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, toDriverResponse(snap.Driver))
}

// ChangeStatus handles PUT /api/v1/drivers/me/status.
//
//	@Summary	Change the driver status
//	@Tags		drivers
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		body	body		ChangeStatusRequest	true	"New status"
//	@Success	200	{object}	SnapshotResponse
//	@Failure	400	{object}	ErrorResponse
//	@Failure	404	{object}	ErrorResponse
//	@Failure	409	{object}	ErrorResponse
//	@Failure	500	{object}	ErrorResponse
//	@Router		/drivers/me/status [put]
func (s *Server) ChangeStatus(c echo.Context) error {
	var req ChangeStatusRequest
	if err := s.bind(c, &req); err != nil {
		return err
	}

	status, err := driver.ParseStatus(req.Status)
	if err != nil {
		return s.fail(c, err)
	}

	sess, err := s.session(c)
	if err != nil {
		return s.fail(c, err)
	}
	snap, err := sess.SetStatus(c.Request().Context(), status)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, toSnapshotResponse(snap))
}

func (s *Server) respondRefreshed(c echo.Context, code int) error {
	sess, err := s.session(c)
	if err != nil {
		return s.fail(c, err)
	}
	snap, err := sess.Refresh(c.Request().Context())
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(code, toSnapshotResponse(snap))
}
