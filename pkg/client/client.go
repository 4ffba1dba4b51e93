package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/matiasvera/rifero/pkg/domain"
)

// TokenSource returns the bearer token to attach to an outgoing
// request, or "" for an anonymous call. It is consulted on every
// request, so a fresh login is picked up immediately.
type TokenSource func() string

// Client is the marketplace API client. One instance is shared by all
// screens.
type Client struct {
	baseURL    string
	tokens     TokenSource
	httpClient *http.Client
}

// New creates a new API client against baseURL.
func New(baseURL string, tokens TokenSource) *Client {
	if tokens == nil {
		tokens = func() string { return "" }
	}
	return &Client{
		baseURL: baseURL,
		tokens:  tokens,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// --- Auth ---

// Login exchanges credentials for a token pair and the user's profile.
func (c *Client) Login(ctx context.Context, creds domain.Credentials) (*domain.TokenPair, error) {
	var pair domain.TokenPair
	if err := c.post(ctx, "/auth/login/", creds, &pair); err != nil {
		return nil, fmt.Errorf("client.Login: %w", err)
	}
	return &pair, nil
}

// Register creates an account. Success returns no tokens — the caller
// signs in afterwards.
func (c *Client) Register(ctx context.Context, reg domain.Registration) error {
	if err := c.post(ctx, "/auth/register/", reg, nil); err != nil {
		return fmt.Errorf("client.Register: %w", err)
	}
	return nil
}

// Refresh exchanges a refresh token for a new token pair.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	var pair domain.TokenPair
	if err := c.post(ctx, "/auth/refresh/", map[string]string{"refresh": refreshToken}, &pair); err != nil {
		return nil, fmt.Errorf("client.Refresh: %w", err)
	}
	return &pair, nil
}

// Me returns the authenticated user's profile.
func (c *Client) Me(ctx context.Context) (*domain.User, error) {
	var u domain.User
	if err := c.get(ctx, "/auth/me/", &u); err != nil {
		return nil, fmt.Errorf("client.Me: %w", err)
	}
	return &u, nil
}

// UpdateProfileRequest is the editable slice of a user's own profile.
type UpdateProfileRequest struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number,omitempty"`
	Address     string `json:"address,omitempty"`
	CityID      int64  `json:"city,omitempty"`
	GenderID    int64  `json:"gender,omitempty"`
}

// UpdateMe updates the authenticated user's profile.
func (c *Client) UpdateMe(ctx context.Context, req UpdateProfileRequest) (*domain.User, error) {
	var u domain.User
	if err := c.doRequest(ctx, http.MethodPut, "/auth/update_me/", req, &u); err != nil {
		return nil, fmt.Errorf("client.UpdateMe: %w", err)
	}
	return &u, nil
}

// ChangePassword changes the authenticated user's password.
func (c *Client) ChangePassword(ctx context.Context, current, next string) error {
	body := map[string]string{"current_password": current, "new_password": next}
	if err := c.post(ctx, "/auth/change-password/", body, nil); err != nil {
		return fmt.Errorf("client.ChangePassword: %w", err)
	}
	return nil
}

// ListUsers returns the public user directory, optionally filtered by
// a free-text query.
func (c *Client) ListUsers(ctx context.Context, query string) ([]domain.User, error) {
	path := "/auth/list/"
	if query != "" {
		params := url.Values{}
		params.Set("q", query)
		path += "?" + params.Encode()
	}
	var users []domain.User
	if err := c.get(ctx, path, &users); err != nil {
		return nil, fmt.Errorf("client.ListUsers: %w", err)
	}
	return users, nil
}

// --- Raffles ---

// ListRaffles returns the public listing of active raffles.
func (c *Client) ListRaffles(ctx context.Context) ([]domain.Raffle, error) {
	var raffles []domain.Raffle
	if err := c.get(ctx, "/raffle/list/", &raffles); err != nil {
		return nil, fmt.Errorf("client.ListRaffles: %w", err)
	}
	return raffles, nil
}

// GetRaffle fetches a single raffle by ID.
func (c *Client) GetRaffle(ctx context.Context, id int64) (*domain.Raffle, error) {
	var r domain.Raffle
	if err := c.get(ctx, "/raffle/"+strconv.FormatInt(id, 10)+"/", &r); err != nil {
		return nil, fmt.Errorf("client.GetRaffle: %w", err)
	}
	return &r, nil
}

// RaffleRequest is the payload for creating or updating a raffle.
type RaffleRequest struct {
	Name               string    `json:"raffle_name"`
	Description        string    `json:"raffle_description,omitempty"`
	DrawDate           time.Time `json:"raffle_draw_date"`
	MinimumNumbersSold int       `json:"raffle_minimum_numbers_sold"`
	NumberAmount       int       `json:"raffle_number_amount"`
	NumberPrice        float64   `json:"raffle_number_price"`
	PrizeAmount        float64   `json:"raffle_prize_amount"`
	PrizeTypeID        int64     `json:"raffle_prize_type"`
}

// RaffleCreated is the acknowledgement returned by the create
// endpoint. It carries the new raffle's ID, not the full raffle.
type RaffleCreated struct {
	Message string `json:"message"`
	ID      int64  `json:"raffle_id"`
	Name    string `json:"raffle_name"`
	State   string `json:"raffle_state"`
}

// CreateRaffle creates a raffle owned by the authenticated user.
func (c *Client) CreateRaffle(ctx context.Context, req RaffleRequest) (*RaffleCreated, error) {
	var created RaffleCreated
	if err := c.post(ctx, "/raffle/create/", req, &created); err != nil {
		return nil, fmt.Errorf("client.CreateRaffle: %w", err)
	}
	return &created, nil
}

// UpdateRaffle updates a raffle the authenticated user owns.
func (c *Client) UpdateRaffle(ctx context.Context, id int64, req RaffleRequest) (*domain.Raffle, error) {
	var r domain.Raffle
	path := "/raffle/" + strconv.FormatInt(id, 10) + "/update/"
	if err := c.doRequest(ctx, http.MethodPut, path, req, &r); err != nil {
		return nil, fmt.Errorf("client.UpdateRaffle: %w", err)
	}
	return &r, nil
}

// DeleteRaffle soft-deletes a raffle; the backend refunds sold numbers.
func (c *Client) DeleteRaffle(ctx context.Context, id int64) error {
	path := "/raffle/" + strconv.FormatInt(id, 10) + "/delete/"
	if err := c.doRequest(ctx, http.MethodPatch, path, nil, nil); err != nil {
		return fmt.Errorf("client.DeleteRaffle: %w", err)
	}
	return nil
}

// DrawRaffle runs the draw and returns the raffle with its winner set.
func (c *Client) DrawRaffle(ctx context.Context, id int64) (*domain.Raffle, error) {
	var r domain.Raffle
	path := "/raffle/" + strconv.FormatInt(id, 10) + "/draw/"
	if err := c.doRequest(ctx, http.MethodPatch, path, nil, &r); err != nil {
		return nil, fmt.Errorf("client.DrawRaffle: %w", err)
	}
	return &r, nil
}

// AvailableNumbers returns the unsold numbers of a raffle.
func (c *Client) AvailableNumbers(ctx context.Context, id int64) ([]int, error) {
	var numbers []int
	path := "/raffle/" + strconv.FormatInt(id, 10) + "/available/"
	if err := c.get(ctx, path, &numbers); err != nil {
		return nil, fmt.Errorf("client.AvailableNumbers: %w", err)
	}
	return numbers, nil
}

// UserRaffles returns the raffles created by a user (public view).
// includeInactive also returns finished and cancelled raffles.
func (c *Client) UserRaffles(ctx context.Context, userID int64, includeInactive bool) ([]domain.Raffle, error) {
	path := "/raffle/user/" + strconv.FormatInt(userID, 10) + "/"
	if includeInactive {
		path += "?include_inactive=true"
	}
	var raffles []domain.Raffle
	if err := c.get(ctx, path, &raffles); err != nil {
		return nil, fmt.Errorf("client.UserRaffles: %w", err)
	}
	return raffles, nil
}

// --- Tickets ---

// PurchaseRequest buys one number in a raffle, debited from the given
// payment method. The purchase endpoint sells exactly one ticket per
// request; callers buy several numbers with one call each.
type PurchaseRequest struct {
	RaffleID        int64 `json:"raffle_id"`
	PaymentMethodID int64 `json:"payment_method_id"`
	Number          int   `json:"number"`
}

// PurchaseReceipt is the confirmation returned for a bought number.
type PurchaseReceipt struct {
	Message       string    `json:"message"`
	TicketID      int64     `json:"ticket_id"`
	TicketNumber  int       `json:"ticket_number"`
	RaffleName    string    `json:"raffle_name"`
	AmountPaid    string    `json:"amount_paid"`
	PaymentMethod string    `json:"payment_method"`
	PurchaseDate  time.Time `json:"purchase_date"`
}

// PurchaseTicket buys a single number. Each call carries a
// client-generated idempotency key so a retried request cannot charge
// twice.
func (c *Client) PurchaseTicket(ctx context.Context, req PurchaseRequest) (*PurchaseReceipt, error) {
	var receipt PurchaseReceipt
	hdr := http.Header{}
	hdr.Set("Idempotency-Key", uuid.NewString())
	if err := c.doRequestHeaders(ctx, http.MethodPost, "/tickets/purchase/", hdr, req, &receipt); err != nil {
		return nil, fmt.Errorf("client.PurchaseTicket: %w", err)
	}
	return &receipt, nil
}

// MyTickets returns the authenticated user's purchased numbers.
func (c *Client) MyTickets(ctx context.Context) ([]domain.Ticket, error) {
	var tickets []domain.Ticket
	if err := c.get(ctx, "/tickets/my-tickets/", &tickets); err != nil {
		return nil, fmt.Errorf("client.MyTickets: %w", err)
	}
	return tickets, nil
}

// RefundTicket refunds one ticket back to its payment method.
func (c *Client) RefundTicket(ctx context.Context, id int64) error {
	path := "/tickets/" + strconv.FormatInt(id, 10) + "/refund/"
	if err := c.doRequest(ctx, http.MethodPatch, path, nil, nil); err != nil {
		return fmt.Errorf("client.RefundTicket: %w", err)
	}
	return nil
}

// RaffleTickets returns the sold tickets of one raffle.
func (c *Client) RaffleTickets(ctx context.Context, raffleID int64) ([]domain.Ticket, error) {
	var tickets []domain.Ticket
	path := "/tickets/raffle/" + strconv.FormatInt(raffleID, 10) + "/"
	if err := c.get(ctx, path, &tickets); err != nil {
		return nil, fmt.Errorf("client.RaffleTickets: %w", err)
	}
	return tickets, nil
}

// TicketStats returns the authenticated user's purchase summary.
func (c *Client) TicketStats(ctx context.Context) (*domain.TicketStats, error) {
	var stats domain.TicketStats
	if err := c.get(ctx, "/tickets/stats/", &stats); err != nil {
		return nil, fmt.Errorf("client.TicketStats: %w", err)
	}
	return &stats, nil
}

// PaymentMethods returns a user's funding sources.
func (c *Client) PaymentMethods(ctx context.Context, userID int64) ([]domain.PaymentMethod, error) {
	var methods []domain.PaymentMethod
	path := "/user-info/payment-methods/" + strconv.FormatInt(userID, 10) + "/"
	if err := c.get(ctx, path, &methods); err != nil {
		return nil, fmt.Errorf("client.PaymentMethods: %w", err)
	}
	return methods, nil
}

// --- Ratings ---

// ListRatings returns the ratings received by a user.
func (c *Client) ListRatings(ctx context.Context, targetUserID int64) ([]domain.Rating, error) {
	params := url.Values{}
	params.Set("target_user", strconv.FormatInt(targetUserID, 10))
	var ratings []domain.Rating
	if err := c.get(ctx, "/interactions/?"+params.Encode(), &ratings); err != nil {
		return nil, fmt.Errorf("client.ListRatings: %w", err)
	}
	return ratings, nil
}

// RateUser creates the caller's rating of another user.
func (c *Client) RateUser(ctx context.Context, targetUserID int64, score float64, comment string) (*domain.Rating, error) {
	body := map[string]any{
		"interaction_target_user": targetUserID,
		"interaction_rating":      score,
		"interaction_comment":     comment,
	}
	var r domain.Rating
	if err := c.post(ctx, "/interactions/", body, &r); err != nil {
		return nil, fmt.Errorf("client.RateUser: %w", err)
	}
	return &r, nil
}

// UpdateRating changes an existing rating the caller owns.
func (c *Client) UpdateRating(ctx context.Context, id int64, score float64, comment string) error {
	body := map[string]any{
		"interaction_rating":  score,
		"interaction_comment": comment,
	}
	path := "/interactions/" + strconv.FormatInt(id, 10) + "/"
	if err := c.doRequest(ctx, http.MethodPatch, path, body, nil); err != nil {
		return fmt.Errorf("client.UpdateRating: %w", err)
	}
	return nil
}

// DeleteRating removes a rating the caller owns.
func (c *Client) DeleteRating(ctx context.Context, id int64) error {
	path := "/interactions/" + strconv.FormatInt(id, 10) + "/"
	if err := c.doRequest(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return fmt.Errorf("client.DeleteRating: %w", err)
	}
	return nil
}

// --- Plumbing ---

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.doRequest(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	return c.doRequest(ctx, http.MethodPost, path, body, out)
}

func (c *Client) doRequest(ctx context.Context, method, path string, body any, out any) error {
	return c.doRequestHeaders(ctx, method, path, nil, body, out)
}

func (c *Client) doRequestHeaders(ctx context.Context, method, path string, hdr http.Header, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	for key, values := range hdr {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.tokens(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	if resp.StatusCode >= 400 {
		respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB max error body
		if readErr != nil {
			return &APIError{StatusCode: resp.StatusCode, Body: fmt.Sprintf("failed to read body: %v", readErr)}
		}
		return parseAPIError(resp.StatusCode, respBody)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
