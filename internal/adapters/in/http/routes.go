package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
)

// ServerInterface lists every operation of the gateway as described by
// openapi.yaml.
type ServerInterface interface {
	// (POST /api/v1/auth/register)
	RegisterUser(ctx echo.Context) error
	// (POST /api/v1/auth/login)
	Login(ctx echo.Context) error
	// (POST /api/v1/loads)
	PostLoad(ctx echo.Context) error
	// (GET /api/v1/loads/available)
	ListAvailableLoads(ctx echo.Context, params ListAvailableLoadsParams) error
	// (POST /api/v1/loads/requests)
	RequestLoad(ctx echo.Context) error
	// (GET /api/v1/loads/requests/incoming)
	ListIncomingRequests(ctx echo.Context) error
	// (POST /api/v1/loads/requests/confirm)
	ConfirmRequest(ctx echo.Context) error
	// (GET /api/v1/driver/jobs)
	GetDriverJobs(ctx echo.Context) error
	// (GET /api/v1/driver/history)
	GetDriverHistory(ctx echo.Context) error
	// (GET /api/v1/sender/history)
	GetSenderHistory(ctx echo.Context) error
	// (POST /api/v1/loads/location)
	UpdateLocation(ctx echo.Context) error
	// (POST /api/v1/loads/delivered)
	MarkDelivered(ctx echo.Context) error
	// (GET /api/v1/loads/track)
	TrackShipment(ctx echo.Context, params TrackShipmentParams) error
	// (GET /api/v1/loads/{reference}/stream)
	StreamShipment(ctx echo.Context, reference string) error
	// (GET /api/v1/owner/overview)
	GetOwnerOverview(ctx echo.Context) error
	// (POST /api/v1/payments/mark-paid)
	MarkAsPaid(ctx echo.Context) error
}

type ListAvailableLoadsParams struct {
	// Date puts loads expected on that day into exact_matches.
	Date *string `form:"date,omitempty" json:"date,omitempty"`
}

type TrackShipmentParams struct {
	Ref string `form:"ref" json:"ref"`
}

// ServerInterfaceWrapper converts echo contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

func (w *ServerInterfaceWrapper) ListAvailableLoads(ctx echo.Context) error {
	var params ListAvailableLoadsParams

	err := runtime.BindQueryParameter("form", true, false, "date", ctx.QueryParams(), &params.Date)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid format for parameter date: "+err.Error())
	}

	return w.Handler.ListAvailableLoads(ctx, params)
}

func (w *ServerInterfaceWrapper) TrackShipment(ctx echo.Context) error {
	var params TrackShipmentParams

	err := runtime.BindQueryParameter("form", true, true, "ref", ctx.QueryParams(), &params.Ref)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid format for parameter ref: "+err.Error())
	}

	return w.Handler.TrackShipment(ctx, params)
}

func (w *ServerInterfaceWrapper) StreamShipment(ctx echo.Context) error {
	var reference string

	err := runtime.BindStyledParameterWithOptions("simple", "reference", ctx.Param("reference"), &reference,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid format for parameter reference: "+err.Error())
	}

	return w.Handler.StreamShipment(ctx, reference)
}

// EchoRouter is satisfied by *echo.Echo and *echo.Group.
type EchoRouter interface {
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// RegisterHandlers mounts the public auth routes on router and every other
// route behind the auth middleware. The stream route uses streamAuth instead.
func RegisterHandlers(router EchoRouter, si ServerInterface, auth, streamAuth echo.MiddlewareFunc) {
	wrapper := ServerInterfaceWrapper{Handler: si}

	router.POST("/api/v1/auth/register", si.RegisterUser)
	router.POST("/api/v1/auth/login", si.Login)

	router.POST("/api/v1/loads", si.PostLoad, auth)
	router.GET("/api/v1/loads/available", wrapper.ListAvailableLoads, auth)
	router.POST("/api/v1/loads/requests", si.RequestLoad, auth)
	router.GET("/api/v1/loads/requests/incoming", si.ListIncomingRequests, auth)
	router.POST("/api/v1/loads/requests/confirm", si.ConfirmRequest, auth)
	router.GET("/api/v1/driver/jobs", si.GetDriverJobs, auth)
	router.GET("/api/v1/driver/history", si.GetDriverHistory, auth)
	router.GET("/api/v1/sender/history", si.GetSenderHistory, auth)
	router.POST("/api/v1/loads/location", si.UpdateLocation, auth)
	router.POST("/api/v1/loads/delivered", si.MarkDelivered, auth)
	router.GET("/api/v1/loads/track", wrapper.TrackShipment, auth)
	router.GET("/api/v1/loads/:reference/stream", wrapper.StreamShipment, streamAuth)
	router.GET("/api/v1/owner/overview", si.GetOwnerOverview, auth)
	router.POST("/api/v1/payments/mark-paid", si.MarkAsPaid, auth)
}
