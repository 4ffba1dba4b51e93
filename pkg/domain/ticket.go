package domain

import "time"

// Ticket is one purchased number in a raffle.
type Ticket struct {
	ID              int64     `json:"id"`
	RaffleID        int64     `json:"raffle"`
	RaffleName      string    `json:"raffle_name,omitempty"`
	Number          int       `json:"number"`
	IsWinner        bool      `json:"is_winner"`
	PaymentMethodID int64     `json:"payment_method"`
	Refunded        bool      `json:"refunded,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// PaymentMethod is a funding source owned by a user. Balance checks
// happen server-side on purchase; the client only shows the balance.
type PaymentMethod struct {
	ID       int64   `json:"id"`
	UserID   int64   `json:"user"`
	TypeID   int64   `json:"payment_method_type"`
	TypeName string  `json:"payment_method_type_name,omitempty"`
	Balance  float64 `json:"balance"`
}

// TicketStats is the per-user summary from /tickets/stats/.
type TicketStats struct {
	TotalTickets  int     `json:"total_tickets"`
	ActiveTickets int     `json:"active_tickets"`
	WonTickets    int     `json:"won_tickets"`
	TotalSpent    float64 `json:"total_spent"`
}
