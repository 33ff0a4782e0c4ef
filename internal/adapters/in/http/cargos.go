package http

import (
	"net/http"

	"freight/internal/core/application/usecases/commands"
	"freight/internal/core/domain/model/cargo"
	"freight/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
)

// CreateCargo handles POST /api/v1/cargos. An explicit id makes ingestion
// idempotent: a replay answers 409 instead of creating a duplicate.
//
//	@Summary	Ingest a new load
//	@Tags		cargos
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		body	body		CreateCargoRequest	true	"Load details"
//	@Success	201	{object}	CreatedResponse
//	@Failure	400	{object}	ErrorResponse
//	@Failure	409	{object}	ErrorResponse
//	@Failure	500	{object}	ErrorResponse
//	@Router		/cargos [post]
func (s *Server) CreateCargo(c echo.Context) error {
	var req CreateCargoRequest
	if err := s.bind(c, &req); err != nil {
		return err
	}

	cargoID := kernel.NewUUID()
	if req.ID != "" {
		id, err := kernel.UUIDFromString(req.ID)
		if err != nil {
			return badRequest(c, "Invalid cargo id")
		}
		cargoID = id
	}

	urgency, err := cargo.ParseUrgency(req.Urgency)
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewCreateCargoCommand(cargoID, cargo.Details{
		Number:      req.Number,
		Type:        req.Type,
		Weight:      kernel.Weight(req.WeightTons),
		Origin:      req.Origin,
		Destination: req.Destination,
		Urgency:     urgency,
		Fare:        kernel.Money(req.Fare),
		PickupAt:    req.PickupAt,
	})
	if err != nil {
		return s.fail(c, err)
	}

	if err = s.createCargo.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusCreated, CreatedResponse{ID: cargoID.String()})
}

// GetVisibleCargos handles GET /api/v1/cargos/visible.
//
//	@Summary	List loads visible to the driver
//	@Tags		cargos
//	@Security	BearerAuth
//	@Produce	json
//	@Success	200	{array}	CargoResponse
//	@Failure	404	{object}	ErrorResponse
//	@Failure	500	{object}	ErrorResponse
//	@Router		/cargos/visible [get]
func (s *Server) GetVisibleCargos(c echo.Context) error {
	sess, err := s.session(c)
	if err != nil {
		return s.fail(c, err)
	}
	snap, err := sess.Refresh(c.Request().Context())
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, toCargoResponses(snap.Visible))
}

// AcceptCargo handles POST /api/v1/cargos/:id/accept.
//
//	@Summary	Accept a visible load
//	@Tags		cargos
//	@Security	BearerAuth
//	@Produce	json
//	@Param		id	path		string	true	"Cargo id"
//	@Success	200	{object}	SnapshotResponse
//	@Failure	400	{object}	ErrorResponse
//	@Failure	404	{object}	ErrorResponse
//	@Failure	409	{object}	ErrorResponse
//	@Failure	422	{object}	ErrorResponse
//	@Failure	500	{object}	ErrorResponse
//	@Router		/cargos/{id}/accept [post]
func (s *Server) AcceptCargo(c echo.Context) error {
	cargoID, err := cargoIDParam(c)
	if err != nil {
		return badRequest(c, "Invalid cargo id")
	}

	sess, err := s.session(c)
	if err != nil {
		return s.fail(c, err)
	}
	snap, err := sess.Accept(c.Request().Context(), cargoID)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, toSnapshotResponse(snap))
}

// RejectCargo handles POST /api/v1/cargos/:id/reject. The load only
// disappears from this driver's list.
//
//	@Summary	Hide a load from this driver
//	@Tags		cargos
//	@Security	BearerAuth
//	@Produce	json
//	@Param		id	path		string	true	"Cargo id"
//	@Success	200	{object}	SnapshotResponse
//	@Failure	400	{object}	ErrorResponse
//	@Failure	404	{object}	ErrorResponse
//	@Failure	409	{object}	ErrorResponse
//	@Failure	500	{object}	ErrorResponse
//	@Router		/cargos/{id}/reject [post]
func (s *Server) RejectCargo(c echo.Context) error {
	cargoID, err := cargoIDParam(c)
	if err != nil {
		return badRequest(c, "Invalid cargo id")
	}

	sess, err := s.session(c)
	if err != nil {
		return s.fail(c, err)
	}
	if sess.Snapshot().RefreshedAt.IsZero() {
		if _, err = sess.Refresh(c.Request().Context()); err != nil {
			return s.fail(c, err)
		}
	}

	snap, err := sess.Reject(cargoID)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, toSnapshotResponse(snap))
}
