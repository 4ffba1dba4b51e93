package domain

import "time"

// Raffle is a numbered-ticket raffle. Field names mirror the backend's
// raffle model; money amounts are plain decimals.
type Raffle struct {
	ID                 int64     `json:"id"`
	Name               string    `json:"raffle_name"`
	Description        string    `json:"raffle_description,omitempty"`
	StartDate          time.Time `json:"raffle_start_date"`
	DrawDate           time.Time `json:"raffle_draw_date"`
	MinimumNumbersSold int       `json:"raffle_minimum_numbers_sold"`
	NumberAmount       int       `json:"raffle_number_amount"`
	NumberPrice        float64   `json:"raffle_number_price"`
	PrizeAmount        float64   `json:"raffle_prize_amount"`
	PrizeTypeID        int64     `json:"raffle_prize_type"`
	PrizeTypeName      string    `json:"raffle_prize_type_name,omitempty"`
	StateID            int64     `json:"raffle_state"`
	StateCode          string    `json:"raffle_state_code,omitempty"`
	CreatedByID        int64     `json:"raffle_created_by"`
	CreatedByName      string    `json:"raffle_created_by_name,omitempty"`
	WinnerID           *int64    `json:"raffle_winner,omitempty"`
	WinnerTicketID     *int64    `json:"raffle_winner_ticket,omitempty"`
	ImageURL           string    `json:"raffle_image,omitempty"`
	SoldCount          int       `json:"sold_count"`
	CreatedAt          time.Time `json:"raffle_created_at"`
}

// Raffle state codes from the state-raffle catalog.
const (
	RaffleStateActive    = "ACT"
	RaffleStateFinished  = "FIN"
	RaffleStateCancelled = "CAN"
)

// OpenForSales reports whether numbers can still be bought: the draw
// date is in the future, no winner has been picked, and the raffle has
// not been cancelled.
func (r Raffle) OpenForSales(now time.Time) bool {
	if r.WinnerID != nil {
		return false
	}
	if r.StateCode == RaffleStateCancelled || r.StateCode == RaffleStateFinished {
		return false
	}
	return r.DrawDate.After(now)
}

// Drawn reports whether a winning ticket has been picked.
func (r Raffle) Drawn() bool {
	return r.WinnerID != nil
}

// DrawReady reports whether enough numbers were sold to run the draw.
func (r Raffle) DrawReady() bool {
	return r.SoldCount >= r.MinimumNumbersSold
}

// SalesProgress is sold count over the draw minimum, clamped to 0..1.
func (r Raffle) SalesProgress() float64 {
	if r.MinimumNumbersSold <= 0 {
		return 1
	}
	p := float64(r.SoldCount) / float64(r.MinimumNumbersSold)
	if p > 1 {
		return 1
	}
	return p
}
