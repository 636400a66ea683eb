package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"marketplace-service/domain"
)

// Gateway is the payment collaborator seen by the booking service: a black
// box that either charges the card or declines.
type Gateway interface {
	Charge(ctx context.Context, charge ChargeRequest) error
}

type ChargeRequest struct {
	BookingRef string  `json:"booking_ref"`
	GuestID    string  `json:"guest_id"`
	Amount     float64 `json:"amount"`
	Currency   string  `json:"currency"`
}

type chargeResponse struct {
	Status string `json:"status"`
}

// Client calls the external payment gateway over HTTP, wrapped in a circuit
// breaker so a struggling gateway fails fast instead of holding accept
// requests open.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	logger         *logrus.Logger
	CircuitBreaker *gobreaker.CircuitBreaker
}

func NewClient(baseURL string, logger *logrus.Logger) *Client {
	circuitBreaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name: "PaymentGateway",
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.WithFields(logrus.Fields{"path": "payments/client"}).
				Warnf("Circuit Breaker %s state changed from %s to %s", name, from, to)
		},
	})

	return &Client{
		baseURL:        baseURL,
		httpClient:     &http.Client{Timeout: 10 * time.Second},
		logger:         logger,
		CircuitBreaker: circuitBreaker,
	}
}

func (c *Client) Charge(ctx context.Context, charge ChargeRequest) error {
	_, err := c.CircuitBreaker.Execute(func() (interface{}, error) {
		body, err := json.Marshal(charge)
		if err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/payments/charge", bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusPaymentRequired {
			return nil, domain.ErrPaymentDeclined
		}
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("payment gateway returned status %d", resp.StatusCode)
		}

		var result chargeResponse
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			return nil, err
		}
		if result.Status != "success" {
			return nil, domain.ErrPaymentDeclined
		}
		return nil, nil
	})

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) {
			c.logger.WithFields(logrus.Fields{"path": "payments/client"}).
				Error("Circuit is open. Payment gateway is not available.")
		}
		return err
	}
	return nil
}
