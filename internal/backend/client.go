// README: HTTP client for the delivery backend (order queries, status updates, staff endpoints).
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrUnauthorized = errors.New("backend rejected credentials")
	ErrNotFound     = errors.New("backend resource not found")
)

// RawOrder is the wire shape of an order record as the backend returns
// it. The numeric StatusID is authoritative; the mapper resolves it to a
// semantic stage.
type RawOrder struct {
	ID            int64            `json:"order_id"`
	OrderNumber   string           `json:"order_number"`
	StatusID      int              `json:"status_id"`
	CustomerName  string           `json:"customer_name"`
	CustomerPhone string           `json:"customer_phone"`
	PickupAddress string           `json:"pickup_address"`
	PickupLat     float64          `json:"pickup_lat"`
	PickupLng     float64          `json:"pickup_lng"`
	DropAddress   string           `json:"drop_address"`
	DropLat       float64          `json:"drop_lat"`
	DropLng       float64          `json:"drop_lng"`
	Items         []RawItem        `json:"items"`
	Subtotal      decimal.Decimal  `json:"subtotal"`
	DeliveryFee   *decimal.Decimal `json:"delivery_fee,omitempty"`
	Total         decimal.Decimal  `json:"total"`
	PaymentMethod string           `json:"payment_method"`
	OrderDate     string           `json:"order_date"`
	OrderTime     string           `json:"order_time"`
	Instructions  string           `json:"special_instructions,omitempty"`
}

type RawItem struct {
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// StaffProfile identifies the signed-in delivery staff member.
type StaffProfile struct {
	ID    int64  `json:"staff_id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// UpdateStatusRequest is the status-update endpoint payload. The backend
// expects the staff identity and contact alongside the new status.
type UpdateStatusRequest struct {
	OrderID    int64  `json:"order_id"`
	StatusID   int    `json:"status_id"`
	StaffID    int64  `json:"staff_id"`
	StaffPhone string `json:"staff_phone"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates an HTTP client for the delivery backend. The request
// timeout is the only network-level protection; there is no retry.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type ordersResponse struct {
	Orders []RawOrder `json:"orders"`
}

// AvailableOrders fetches the pool of orders open for any courier.
func (c *Client) AvailableOrders(ctx context.Context) ([]RawOrder, error) {
	return c.fetchOrders(ctx, "/api/staff/orders/available", nil)
}

// AssignedOrders fetches the orders assigned to this staff member.
func (c *Client) AssignedOrders(ctx context.Context, staffID int64) ([]RawOrder, error) {
	q := url.Values{}
	q.Set("staff_id", fmt.Sprintf("%d", staffID))
	return c.fetchOrders(ctx, "/api/staff/orders/assigned", q)
}

func (c *Client) fetchOrders(ctx context.Context, path string, query url.Values) ([]RawOrder, error) {
	u, err := c.endpoint(path)
	if err != nil {
		return nil, err
	}
	if query != nil {
		u.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected backend status: %d", resp.StatusCode)
	}
	var payload ordersResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode orders response: %w", err)
	}
	return payload.Orders, nil
}

// UpdateOrderStatus posts a status change. No response body is expected
// beyond the HTTP status.
func (c *Client) UpdateOrderStatus(ctx context.Context, upd UpdateStatusRequest) error {
	resp, err := c.postJSON(ctx, "/api/staff/orders/status", upd)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent:
		return nil
	case http.StatusNotFound:
		return ErrNotFound
	default:
		return fmt.Errorf("status update failed: backend status %d", resp.StatusCode)
	}
}

type availabilityRequest struct {
	StaffID int64 `json:"staff_id"`
	Online  bool  `json:"online"`
}

// SetAvailability mirrors the staff online/offline toggle to the backend.
func (c *Client) SetAvailability(ctx context.Context, staffID int64, online bool) error {
	resp, err := c.postJSON(ctx, "/api/staff/availability", availabilityRequest{StaffID: staffID, Online: online})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("availability update failed: backend status %d", resp.StatusCode)
	}
	return nil
}

type walletResponse struct {
	Balance decimal.Decimal `json:"balance"`
}

// WalletBalance fetches the staff member's current wallet balance.
func (c *Client) WalletBalance(ctx context.Context, staffID int64) (decimal.Decimal, error) {
	u, err := c.endpoint("/api/staff/wallet")
	if err != nil {
		return decimal.Zero, err
	}
	q := url.Values{}
	q.Set("staff_id", fmt.Sprintf("%d", staffID))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("build request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return decimal.Zero, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("unexpected backend status: %d", resp.StatusCode)
	}
	var payload walletResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return decimal.Zero, fmt.Errorf("decode wallet response: %w", err)
	}
	return payload.Balance, nil
}

type otpRequest struct {
	Phone string `json:"phone"`
	OTP   string `json:"otp,omitempty"`
}

// RequestOTP asks the backend to send a one-time code to the phone.
func (c *Client) RequestOTP(ctx context.Context, phone string) error {
	resp, err := c.postJSON(ctx, "/api/staff/login/otp", otpRequest{Phone: phone})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("otp request failed: backend status %d", resp.StatusCode)
	}
	return nil
}

// VerifyOTP exchanges phone+code for the staff profile.
func (c *Client) VerifyOTP(ctx context.Context, phone, otp string) (StaffProfile, error) {
	resp, err := c.postJSON(ctx, "/api/staff/login/verify", otpRequest{Phone: phone, OTP: otp})
	if err != nil {
		return StaffProfile{}, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var profile StaffProfile
		if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
			return StaffProfile{}, fmt.Errorf("decode staff profile: %w", err)
		}
		return profile, nil
	case http.StatusUnauthorized, http.StatusForbidden:
		return StaffProfile{}, ErrUnauthorized
	default:
		return StaffProfile{}, fmt.Errorf("otp verify failed: backend status %d", resp.StatusCode)
	}
}

func (c *Client) postJSON(ctx context.Context, path string, body any) (*http.Response, error) {
	u, err := c.endpoint(path)
	if err != nil {
		return nil, err
	}
	buf, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(buf))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.httpClient.Do(req)
}

func (c *Client) endpoint(path string) (*url.URL, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid backend base url: %w", err)
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + path
	return u, nil
}
