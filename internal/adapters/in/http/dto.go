package http

import (
	"encoding/json"
	"strings"
	"time"

	"loadboard/internal/core/application/usecases/queries"
)

type RegisterUserRequest struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	Role      string `json:"role"`
	ManagedBy *int64 `json:"managed_by,omitempty"`
}

type RegisterUserResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
	UserID      int64     `json:"user_id"`
	Username    string    `json:"username"`
	Role        string    `json:"role"`
}

// PostLoadRequest accepts weight as a JSON number or a numeric string.
type PostLoadRequest struct {
	Origin       string      `json:"origin"`
	Destination  string      `json:"destination"`
	LoadType     string      `json:"load_type"`
	Weight       json.Number `json:"weight"`
	ExpectedDate string      `json:"expected_date"`
}

type PostLoadResponse struct {
	Message        string   `json:"message"`
	RefNumber      string   `json:"ref_number"`
	EstimatedPrice *float64 `json:"estimated_price"`
}

type RequestLoadRequest struct {
	LoadID int64 `json:"load_id"`
}

type RequestLoadResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	RequestID int64  `json:"request_id"`
}

type ConfirmRequestRequest struct {
	RequestID int64 `json:"request_id"`
}

type UpdateLocationRequest struct {
	Reference string   `json:"reference"`
	Lat       *float64 `json:"lat"`
	Lng       *float64 `json:"lng"`
}

type UpdateLocationResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// ReferenceRequest also accepts the legacy ref_number key.
type ReferenceRequest struct {
	Reference string `json:"reference"`
	RefNumber string `json:"ref_number"`
}

func (r ReferenceRequest) value() string {
	if strings.TrimSpace(r.Reference) != "" {
		return r.Reference
	}
	return r.RefNumber
}

type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type AvailableLoad struct {
	ID           int64    `json:"id"`
	RefNumber    string   `json:"ref_number"`
	Origin       string   `json:"origin"`
	Destination  string   `json:"destination"`
	LoadType     string   `json:"load_type"`
	Weight       float64  `json:"weight"`
	ExpectedDate string   `json:"expected_date"`
	Price        *float64 `json:"price"`
	Documents    []string `json:"documents"`
}

type AvailableLoadsResponse struct {
	ExactMatches []AvailableLoad `json:"exact_matches"`
	OtherLoads   []AvailableLoad `json:"other_loads"`
}

func toAvailableLoads(items []queries.AvailableLoad) []AvailableLoad {
	out := make([]AvailableLoad, len(items))
	for i, l := range items {
		out[i] = AvailableLoad{
			ID:           l.ID.Int64(),
			RefNumber:    l.Reference,
			Origin:       l.Origin,
			Destination:  l.Destination,
			LoadType:     l.LoadType,
			Weight:       l.Weight,
			ExpectedDate: l.ExpectedDate,
			Price:        l.Price,
			Documents:    l.RequiredDocuments,
		}
	}
	return out
}

type IncomingRequest struct {
	RequestID       int64    `json:"request_id"`
	LoadID          int64    `json:"load_id"`
	RefNumber       string   `json:"ref_number"`
	LoadOrigin      string   `json:"load_origin"`
	LoadDestination string   `json:"load_destination"`
	DriverID        int64    `json:"driver_id"`
	DriverName      string   `json:"driver_name"`
	Price           *float64 `json:"price"`
	Documents       []string `json:"documents"`
}

func toIncomingRequests(items []queries.IncomingRequest) []IncomingRequest {
	out := make([]IncomingRequest, len(items))
	for i, r := range items {
		out[i] = IncomingRequest{
			RequestID:       r.RequestID.Int64(),
			LoadID:          r.LoadID.Int64(),
			RefNumber:       r.Reference,
			LoadOrigin:      r.Origin,
			LoadDestination: r.Destination,
			DriverID:        r.DriverID.Int64(),
			DriverName:      r.DriverName,
			Price:           r.Price,
			Documents:       r.RequiredDocuments,
		}
	}
	return out
}

type ConfirmedJob struct {
	LoadID        int64    `json:"load_id"`
	RefNumber     string   `json:"ref_number"`
	Origin        string   `json:"origin"`
	Destination   string   `json:"destination"`
	LoadType      string   `json:"load_type"`
	Weight        float64  `json:"weight"`
	ExpectedDate  string   `json:"expected_date"`
	Status        string   `json:"status"`
	Price         *float64 `json:"price"`
	PaymentStatus string   `json:"payment_status"`
	SenderName    string   `json:"sender_name"`
	Documents     []string `json:"documents"`
}

type PendingBid struct {
	RequestID    int64    `json:"request_id"`
	LoadID       int64    `json:"load_id"`
	RefNumber    string   `json:"ref_number"`
	Origin       string   `json:"origin"`
	Destination  string   `json:"destination"`
	ExpectedDate string   `json:"expected_date"`
	Price        *float64 `json:"price"`
}

type DriverJobsResponse struct {
	ConfirmedJobs   []ConfirmedJob `json:"confirmed_jobs"`
	PendingRequests []PendingBid   `json:"pending_requests"`
}

func toDriverJobs(r queries.DriverJobsResponse) DriverJobsResponse {
	resp := DriverJobsResponse{
		ConfirmedJobs:   make([]ConfirmedJob, len(r.ConfirmedJobs)),
		PendingRequests: make([]PendingBid, len(r.PendingRequests)),
	}
	for i, j := range r.ConfirmedJobs {
		resp.ConfirmedJobs[i] = ConfirmedJob{
			LoadID:        j.LoadID.Int64(),
			RefNumber:     j.Reference,
			Origin:        j.Origin,
			Destination:   j.Destination,
			LoadType:      j.LoadType,
			Weight:        j.Weight,
			ExpectedDate:  j.ExpectedDate,
			Status:        j.Status,
			Price:         j.Price,
			PaymentStatus: j.PaymentStatus,
			SenderName:    j.SenderName,
			Documents:     j.RequiredDocuments,
		}
	}
	for i, b := range r.PendingRequests {
		resp.PendingRequests[i] = PendingBid{
			RequestID:    b.RequestID.Int64(),
			LoadID:       b.LoadID.Int64(),
			RefNumber:    b.Reference,
			Origin:       b.Origin,
			Destination:  b.Destination,
			ExpectedDate: b.ExpectedDate,
			Price:        b.Price,
		}
	}
	return resp
}

type HistoryEntry struct {
	LoadID          int64    `json:"load_id"`
	RefNumber       string   `json:"ref_number"`
	Origin          string   `json:"origin"`
	Destination     string   `json:"destination"`
	LoadType        string   `json:"load_type"`
	Weight          float64  `json:"weight"`
	ExpectedDate    string   `json:"expected_date"`
	Status          string   `json:"status"`
	Price           *float64 `json:"price"`
	PaymentStatus   string   `json:"payment_status"`
	CounterpartName string   `json:"counterpart_name"`
	Documents       []string `json:"documents"`
}

func toHistory(items []queries.HistoryEntry) []HistoryEntry {
	out := make([]HistoryEntry, len(items))
	for i, h := range items {
		out[i] = HistoryEntry{
			LoadID:          h.LoadID.Int64(),
			RefNumber:       h.Reference,
			Origin:          h.Origin,
			Destination:     h.Destination,
			LoadType:        h.LoadType,
			Weight:          h.Weight,
			ExpectedDate:    h.ExpectedDate,
			Status:          h.Status,
			Price:           h.Price,
			PaymentStatus:   h.PaymentStatus,
			CounterpartName: h.CounterpartName,
			Documents:       h.RequiredDocuments,
		}
	}
	return out
}

type Shipment struct {
	ID            string   `json:"id"`
	Origin        string   `json:"origin"`
	Destination   string   `json:"destination"`
	Status        string   `json:"status"`
	ExpectedDate  string   `json:"expected_date"`
	DriverName    string   `json:"driver_name"`
	SenderName    string   `json:"sender_name"`
	DriverLat     *float64 `json:"driver_lat"`
	DriverLng     *float64 `json:"driver_lng"`
	Price         *float64 `json:"price"`
	PaymentStatus string   `json:"payment_status"`
	Documents     []string `json:"documents"`
}

func toShipment(s queries.Shipment) Shipment {
	return Shipment{
		ID:            s.Reference,
		Origin:        s.Origin,
		Destination:   s.Destination,
		Status:        s.Status,
		ExpectedDate:  s.ExpectedDate,
		DriverName:    s.DriverName,
		SenderName:    s.SenderName,
		DriverLat:     s.DriverLat,
		DriverLng:     s.DriverLng,
		Price:         s.Price,
		PaymentStatus: s.PaymentStatus,
		Documents:     s.RequiredDocuments,
	}
}

func toShipments(items []queries.Shipment) []Shipment {
	out := make([]Shipment, len(items))
	for i, s := range items {
		out[i] = toShipment(s)
	}
	return out
}

type OwnerOverviewResponse struct {
	ActiveLoads    []Shipment `json:"active_loads"`
	CompletedLoads []Shipment `json:"completed_loads"`
}
