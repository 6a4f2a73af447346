package dto

import (
	"strconv"

	"github.com/jsamuelsen/wisdom-pocket/internal/domain"
)

// LoginRequest is the body of POST /v1/auth/login.
type LoginRequest struct {
	DeviceID string `json:"device_id" validate:"required,notblank,max=256"`
}

// TokenResponse carries an issued bearer token.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// NewTokenResponse wraps token in a bearer token response.
func NewTokenResponse(token string) TokenResponse {
	return TokenResponse{AccessToken: token, TokenType: "bearer"}
}

// RandomQuoteQuery is the query string of GET /v1/quotes/random.
type RandomQuoteQuery struct {
	Premium string `form:"premium" validate:"omitempty,boolean"`
}

// PremiumAllowed reports whether premium quotes were requested. Missing means false.
func (q RandomQuoteQuery) PremiumAllowed() bool {
	allowed, err := strconv.ParseBool(q.Premium)

	return err == nil && allowed
}

// QuoteResponse is the JSON form of a quote.
type QuoteResponse struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Author    string `json:"author"`
	Category  string `json:"category"`
	IsPremium bool   `json:"is_premium"`
}

// FromQuote converts a domain quote.
func FromQuote(q domain.Quote) QuoteResponse {
	return QuoteResponse{
		ID:        q.ID,
		Text:      q.Text,
		Author:    q.Author,
		Category:  q.Category,
		IsPremium: q.IsPremium,
	}
}

// FromQuotes converts quotes, returning an empty (never nil) slice.
func FromQuotes(quotes []domain.Quote) []QuoteResponse {
	out := make([]QuoteResponse, 0, len(quotes))
	for _, q := range quotes {
		out = append(out, FromQuote(q))
	}

	return out
}

// OKResponse acknowledges a write.
type OKResponse struct {
	OK bool `json:"ok"`
}

// DeletedResponse acknowledges an account deletion.
type DeletedResponse struct {
	Deleted bool `json:"deleted"`
}

// SubscriptionResponse reports subscription state. Plan is null when inactive.
type SubscriptionResponse struct {
	Active bool    `json:"active"`
	Plan   *string `json:"plan"`
}

// FromSubscription converts a domain subscription.
func FromSubscription(s domain.Subscription) SubscriptionResponse {
	resp := SubscriptionResponse{Active: s.Active}
	if s.Active && s.Plan != "" {
		plan := s.Plan
		resp.Plan = &plan
	}

	return resp
}

// PurchaseResponse is returned by a successful mock purchase.
type PurchaseResponse struct {
	Active bool `json:"active"`
}
