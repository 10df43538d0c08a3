// Package http is the Role Gateway: it authenticates callers, turns requests
// into commands and queries carrying the caller's identity, and maps errors
// to status codes.
package http

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"loadboard/internal/adapters/in/ws"
	"loadboard/internal/core/application/usecases/commands"
	"loadboard/internal/core/application/usecases/queries"
	"loadboard/internal/core/domain/model/kernel"
	"loadboard/internal/core/domain/model/load"
	"loadboard/internal/core/domain/model/user"
	"loadboard/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

type (
	registerUserHandler interface {
		Handle(ctx context.Context, cmd commands.RegisterUserCommand) (kernel.ID, error)
	}
	authenticateUserHandler interface {
		Handle(ctx context.Context, query queries.AuthenticateUserQuery) (queries.AuthenticatedUser, error)
	}
	postLoadHandler interface {
		Handle(ctx context.Context, cmd commands.PostLoadCommand) (commands.PostLoadResult, error)
	}
	listAvailableLoadsHandler interface {
		Handle(ctx context.Context, query queries.ListAvailableLoadsQuery) (queries.AvailableLoadsResponse, error)
	}
	requestLoadHandler interface {
		Handle(ctx context.Context, cmd commands.RequestLoadCommand) (kernel.ID, error)
	}
	listIncomingRequestsHandler interface {
		Handle(ctx context.Context, query queries.ListIncomingRequestsQuery) ([]queries.IncomingRequest, error)
	}
	confirmRequestHandler interface {
		Handle(ctx context.Context, cmd commands.ConfirmRequestCommand) error
	}
	driverJobsHandler interface {
		Handle(ctx context.Context, query queries.GetDriverJobsQuery) (queries.DriverJobsResponse, error)
	}
	historyHandler interface {
		HandleDriver(ctx context.Context, query queries.GetDriverHistoryQuery) ([]queries.HistoryEntry, error)
		HandleSender(ctx context.Context, query queries.GetSenderHistoryQuery) ([]queries.HistoryEntry, error)
	}
	updateLocationHandler interface {
		Handle(ctx context.Context, cmd commands.UpdateLocationCommand) (load.Status, error)
	}
	markDeliveredHandler interface {
		Handle(ctx context.Context, cmd commands.MarkDeliveredCommand) error
	}
	trackShipmentHandler interface {
		Handle(ctx context.Context, query queries.TrackShipmentQuery) (queries.Shipment, error)
	}
	ownerOverviewHandler interface {
		Handle(ctx context.Context, query queries.GetOwnerOverviewQuery) (queries.OwnerOverviewResponse, error)
	}
	markAsPaidHandler interface {
		Handle(ctx context.Context, cmd commands.MarkAsPaidCommand) error
	}
	trackingStream interface {
		Serve(w http.ResponseWriter, r *http.Request, loadID kernel.ID, snapshot ws.Message) error
	}
)

// Handlers groups the use cases the gateway dispatches to.
type Handlers struct {
	RegisterUser         registerUserHandler
	AuthenticateUser     authenticateUserHandler
	PostLoad             postLoadHandler
	ListAvailableLoads   listAvailableLoadsHandler
	RequestLoad          requestLoadHandler
	ListIncomingRequests listIncomingRequestsHandler
	ConfirmRequest       confirmRequestHandler
	DriverJobs           driverJobsHandler
	History              historyHandler
	UpdateLocation       updateLocationHandler
	MarkDelivered        markDeliveredHandler
	TrackShipment        trackShipmentHandler
	OwnerOverview        ownerOverviewHandler
	MarkAsPaid           markAsPaidHandler
	Stream               trackingStream
}

// Server implements ServerInterface.
type Server struct {
	h      Handlers
	tokens *TokenIssuer
}

func NewServer(h Handlers, tokens *TokenIssuer) *Server {
	return &Server{h: h, tokens: tokens}
}

// Register mounts every route of the gateway on e.
func (s *Server) Register(e *echo.Echo) {
	RegisterHandlers(e, s, s.tokens.Middleware(), s.tokens.StreamMiddleware())
}

func (s *Server) RegisterUser(c echo.Context) error {
	var req RegisterUserRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	role, err := user.RoleFromString(strings.ToLower(strings.TrimSpace(req.Role)))
	if err != nil {
		return err
	}

	var managedBy *kernel.ID
	if req.ManagedBy != nil {
		id := kernel.ID(*req.ManagedBy)
		managedBy = &id
	}

	cmd, err := commands.NewRegisterUserCommand(req.Username, req.Password, role, managedBy)
	if err != nil {
		return err
	}

	id, err := s.h.RegisterUser.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, RegisterUserResponse{
		ID:       id.Int64(),
		Username: strings.TrimSpace(req.Username),
		Role:     role.String(),
	})
}

func (s *Server) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	query, err := queries.NewAuthenticateUserQuery(req.Username, req.Password)
	if err != nil {
		return err
	}

	authenticated, err := s.h.AuthenticateUser.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}

	token, expiresAt, err := s.tokens.Issue(authenticated.Identity)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
		UserID:      authenticated.Identity.UserID().Int64(),
		Username:    authenticated.Username,
		Role:        authenticated.Identity.Role().String(),
	})
}

func (s *Server) PostLoad(c echo.Context) error {
	var req PostLoadRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	weight, err := parseWeight(req.Weight.String())
	if err != nil {
		return err
	}

	cmd, err := commands.NewPostLoadCommand(identityFrom(c),
		req.Origin, req.Destination, req.LoadType, weight, req.ExpectedDate)
	if err != nil {
		return err
	}

	result, err := s.h.PostLoad.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, PostLoadResponse{
		Message:        "Load posted!",
		RefNumber:      result.Reference,
		EstimatedPrice: result.EstimatedPrice,
	})
}

func parseWeight(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, errs.NewValueIsRequiredError("weight")
	}
	weight, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, commands.ErrWeightIsInvalid
	}
	return weight, nil
}

func (s *Server) ListAvailableLoads(c echo.Context, params ListAvailableLoadsParams) error {
	var date string
	if params.Date != nil {
		date = *params.Date
	}

	query, err := queries.NewListAvailableLoadsQuery(identityFrom(c), date)
	if err != nil {
		return err
	}

	result, err := s.h.ListAvailableLoads.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, AvailableLoadsResponse{
		ExactMatches: toAvailableLoads(result.ExactMatches),
		OtherLoads:   toAvailableLoads(result.Others),
	})
}

func (s *Server) RequestLoad(c echo.Context) error {
	var req RequestLoadRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if req.LoadID == 0 {
		return errs.NewValueIsRequiredError("load_id")
	}

	cmd, err := commands.NewRequestLoadCommand(identityFrom(c), kernel.ID(req.LoadID))
	if err != nil {
		return err
	}

	requestID, err := s.h.RequestLoad.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, RequestLoadResponse{
		Success:   true,
		Message:   "Request submitted",
		RequestID: requestID.Int64(),
	})
}

func (s *Server) ListIncomingRequests(c echo.Context) error {
	query, err := queries.NewListIncomingRequestsQuery(identityFrom(c))
	if err != nil {
		return err
	}

	result, err := s.h.ListIncomingRequests.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toIncomingRequests(result))
}

func (s *Server) ConfirmRequest(c echo.Context) error {
	var req ConfirmRequestRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if req.RequestID == 0 {
		return errs.NewValueIsRequiredError("request_id")
	}

	cmd, err := commands.NewConfirmRequestCommand(identityFrom(c), kernel.ID(req.RequestID))
	if err != nil {
		return err
	}

	if err = s.h.ConfirmRequest.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, SuccessResponse{Success: true, Message: "Request confirmed"})
}

func (s *Server) GetDriverJobs(c echo.Context) error {
	query, err := queries.NewGetDriverJobsQuery(identityFrom(c))
	if err != nil {
		return err
	}

	result, err := s.h.DriverJobs.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toDriverJobs(result))
}

func (s *Server) GetDriverHistory(c echo.Context) error {
	query, err := queries.NewGetDriverHistoryQuery(identityFrom(c))
	if err != nil {
		return err
	}

	result, err := s.h.History.HandleDriver(c.Request().Context(), query)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toHistory(result))
}

func (s *Server) GetSenderHistory(c echo.Context) error {
	query, err := queries.NewGetSenderHistoryQuery(identityFrom(c))
	if err != nil {
		return err
	}

	result, err := s.h.History.HandleSender(c.Request().Context(), query)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toHistory(result))
}

func (s *Server) UpdateLocation(c echo.Context) error {
	var req UpdateLocationRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if req.Lat == nil || req.Lng == nil {
		return errs.NewValueIsRequiredError("lat/lng")
	}

	ref, err := kernel.ParseReference(req.Reference)
	if err != nil {
		return err
	}
	position, err := kernel.NewPosition(*req.Lat, *req.Lng)
	if err != nil {
		return err
	}

	cmd, err := commands.NewUpdateLocationCommand(identityFrom(c), ref, position)
	if err != nil {
		return err
	}

	status, err := s.h.UpdateLocation.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, UpdateLocationResponse{
		Success: true,
		Message: "Location updated",
		Status:  status.String(),
	})
}

func (s *Server) MarkDelivered(c echo.Context) error {
	ref, err := bindReference(c)
	if err != nil {
		return err
	}

	cmd, err := commands.NewMarkDeliveredCommand(identityFrom(c), ref)
	if err != nil {
		return err
	}

	if err = s.h.MarkDelivered.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, SuccessResponse{Success: true, Message: "Load " + ref.String() + " delivered"})
}

func (s *Server) TrackShipment(c echo.Context, params TrackShipmentParams) error {
	shipment, err := s.track(c, params.Ref)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toShipment(shipment))
}

// StreamShipment checks tracking permission exactly like TrackShipment, then
// hands the connection over to the tracking hub.
func (s *Server) StreamShipment(c echo.Context, reference string) error {
	shipment, err := s.track(c, reference)
	if err != nil {
		return err
	}

	snapshot, err := ws.NewSnapshot(shipment.Reference, shipment.Status, shipment.PaymentStatus,
		shipment.DriverLat, shipment.DriverLng)
	if err != nil {
		return err
	}

	return s.h.Stream.Serve(c.Response(), c.Request(), shipment.LoadID, snapshot)
}

func (s *Server) track(c echo.Context, rawRef string) (queries.Shipment, error) {
	ref, err := kernel.ParseReference(rawRef)
	if err != nil {
		return queries.Shipment{}, err
	}

	query, err := queries.NewTrackShipmentQuery(identityFrom(c), ref)
	if err != nil {
		return queries.Shipment{}, err
	}

	return s.h.TrackShipment.Handle(c.Request().Context(), query)
}

func (s *Server) GetOwnerOverview(c echo.Context) error {
	query, err := queries.NewGetOwnerOverviewQuery(identityFrom(c))
	if err != nil {
		return err
	}

	result, err := s.h.OwnerOverview.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, OwnerOverviewResponse{
		ActiveLoads:    toShipments(result.ActiveLoads),
		CompletedLoads: toShipments(result.CompletedLoads),
	})
}

func (s *Server) MarkAsPaid(c echo.Context) error {
	ref, err := bindReference(c)
	if err != nil {
		return err
	}

	cmd, err := commands.NewMarkAsPaidCommand(identityFrom(c), ref)
	if err != nil {
		return err
	}

	if err = s.h.MarkAsPaid.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Message: "Load " + ref.String() + " marked as paid.",
	})
}

func bindReference(c echo.Context) (kernel.Reference, error) {
	var req ReferenceRequest
	if err := c.Bind(&req); err != nil {
		return kernel.Reference{}, err
	}
	return kernel.ParseReference(req.value())
}
