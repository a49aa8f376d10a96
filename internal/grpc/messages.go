package grpcserver

import (
	"zapp/internal/feed"
	"zapp/models"
)

type Empty struct{}

type CartLine struct {
	ID       int64        `json:"id"`
	Title    string       `json:"title"`
	Price    models.Money `json:"price"`
	Quantity int          `json:"quantity"`
}

type PlaceOrderRequest struct {
	RestaurantID   string     `json:"restaurantId"`
	RestaurantName string     `json:"restaurantName"`
	Location       string     `json:"location"`
	Items          []CartLine `json:"items"`
}

type OrderRequest struct {
	OrderID string `json:"orderId"`
}

type OrderResponse struct {
	Order *models.Order `json:"order"`
}

type OrdersResponse struct {
	Orders []models.Order `json:"orders"`
}

type PrepareClaimRequest struct {
	OrderIDs []string `json:"orderIds"`
}

type CandidateView struct {
	Order      models.Order       `json:"order"`
	Status     models.OrderStatus `json:"status"`
	PlacerName string             `json:"placerName"`
	Claimable  bool               `json:"claimable"`
	Error      string             `json:"error,omitempty"`
}

type PrepareClaimResponse struct {
	Candidates []CandidateView `json:"candidates"`
	Limit      int             `json:"limit"`
}

type ClaimOrdersRequest struct {
	OrderIDs []string `json:"orderIds"`
	Phone    string   `json:"phone"`
	RegNo    string   `json:"regNo"`
}

type ClaimResultView struct {
	OrderID       string                `json:"orderId"`
	Order         *models.Order         `json:"order,omitempty"`
	AcceptedOrder *models.AcceptedOrder `json:"acceptedOrder,omitempty"`
	Error         string                `json:"error,omitempty"`
	Code          string                `json:"code,omitempty"`
}

type ClaimOrdersResponse struct {
	Results []ClaimResultView `json:"results"`
	Claimed []string          `json:"claimed"`
}

type ArchiveResponse struct {
	Archived []string          `json:"archived"`
	Failed   map[string]string `json:"failed,omitempty"`
}

type NotificationsResponse struct {
	Notifications []models.Notification `json:"notifications"`
}

type MarkNotificationReadRequest struct {
	NotificationID string `json:"notificationId"`
}

type ProfileRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	RegNo string `json:"regNo"`
}

type ProfileResponse struct {
	User *models.User `json:"user"`
}

type WatchOrdersRequest struct {
	// IncludeAvailable also streams orders that are open for claiming.
	IncludeAvailable bool `json:"includeAvailable"`
}

// WatchEvent is one streamed order snapshot.
type WatchEvent = feed.Event
