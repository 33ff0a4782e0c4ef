package http

import (
	"net/http"
	"strconv"

	"freight/internal/core/application/usecases/queries"
	"freight/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
)

// GetActiveDelivery handles GET /api/v1/deliveries/active. No content means
// the driver holds no load.
//
//	@Summary	Current delivery of the driver
//	@Tags		deliveries
//	@Security	BearerAuth
//	@Produce	json
//	@Success	200	{object}	CargoResponse
//	@Success	204
//	@Failure	404	{object}	ErrorResponse
//	@Failure	500	{object}	ErrorResponse
//	@Router		/deliveries/active [get]
func (s *Server) GetActiveDelivery(c echo.Context) error {
	sess, err := s.session(c)
	if err != nil {
		return s.fail(c, err)
	}
	snap, err := sess.Refresh(c.Request().Context())
	if err != nil {
		return s.fail(c, err)
	}
	if snap.Active == nil {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusOK, toCargoResponse(*snap.Active))
}

// GetDeliveryHistory handles GET /api/v1/deliveries/history?limit=N.
//
//	@Summary	Completed loads, newest first
//	@Tags		deliveries
//	@Security	BearerAuth
//	@Produce	json
//	@Param		limit	query		int	false	"At most this many, 20 by default, 100 at most"
//	@Success	200	{array}	CargoResponse
//	@Failure	400	{object}	ErrorResponse
//	@Failure	500	{object}	ErrorResponse
//	@Router		/deliveries/history [get]
func (s *Server) GetDeliveryHistory(c echo.Context) error {
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		l, err := strconv.Atoi(raw)
		if err != nil {
			return badRequest(c, "Invalid limit")
		}
		limit = l
	}

	query, err := queries.NewGetDeliveryHistoryQuery(currentDriver(c), limit)
	if err != nil {
		return s.fail(c, err)
	}

	history, err := s.history.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, toCargoResponses(history))
}

// StartDelivery handles POST /api/v1/deliveries/start.
//
//	@Summary	Start the accepted delivery
//	@Tags		deliveries
//	@Security	BearerAuth
//	@Produce	json
//	@Success	200	{object}	SnapshotResponse
//	@Failure	404	{object}	ErrorResponse
//	@Failure	409	{object}	ErrorResponse
//	@Failure	500	{object}	ErrorResponse
//	@Router		/deliveries/start [post]
func (s *Server) StartDelivery(c echo.Context) error {
	sess, err := s.session(c)
	if err != nil {
		return s.fail(c, err)
	}
	snap, err := sess.Start(c.Request().Context())
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, toSnapshotResponse(snap))
}

// CompleteDelivery handles POST /api/v1/deliveries/complete. The body is
// optional.
//
//	@Summary	Complete the active delivery
//	@Tags		deliveries
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		body	body		CompleteDeliveryRequest	false	"Optional delivery key"
//	@Success	200	{object}	SnapshotResponse
//	@Failure	400	{object}	ErrorResponse
//	@Failure	404	{object}	ErrorResponse
//	@Failure	409	{object}	ErrorResponse
//	@Failure	500	{object}	ErrorResponse
//	@Router		/deliveries/complete [post]
func (s *Server) CompleteDelivery(c echo.Context) error {
	var req CompleteDeliveryRequest
	if c.Request().ContentLength > 0 {
		if err := s.bind(c, &req); err != nil {
			return err
		}
	}

	var key *kernel.UUID
	if req.CargoID != "" {
		id, err := kernel.UUIDFromString(req.CargoID)
		if err != nil {
			return badRequest(c, "Invalid cargo id")
		}
		key = &id
	}

	sess, err := s.session(c)
	if err != nil {
		return s.fail(c, err)
	}
	snap, err := sess.Complete(c.Request().Context(), key)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, toSnapshotResponse(snap))
}
