package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// PaymentClient talks to the external payment-intent API. The API consumes an
// amount in integer minor currency units plus a currency code and returns a
// client-side confirmation secret; settlement is confirmed client-side and
// only recorded here, never re-verified.
type PaymentClient struct {
	baseURL    string
	secretKey  string
	httpClient *http.Client
}

type PaymentIntent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

func NewPaymentClient(baseURL, secretKey string, timeout time.Duration) *PaymentClient {
	return &PaymentClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		secretKey:  secretKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *PaymentClient) CreateIntent(ctx context.Context, amount int64, currency string) (PaymentIntent, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(amount, 10))
	form.Set("currency", currency)
	form.Set("payment_method_types[]", "card")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/payment_intents", strings.NewReader(form.Encode()))
	if err != nil {
		return PaymentIntent{}, err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return PaymentIntent{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr apiError
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error.Message != "" {
			return PaymentIntent{}, fmt.Errorf("payment api: %s", apiErr.Error.Message)
		}
		return PaymentIntent{}, fmt.Errorf("payment api: status %d", resp.StatusCode)
	}

	var intent PaymentIntent
	if err := json.NewDecoder(resp.Body).Decode(&intent); err != nil {
		return PaymentIntent{}, err
	}
	if intent.ClientSecret == "" {
		return PaymentIntent{}, fmt.Errorf("payment api: missing client secret")
	}
	return intent, nil
}
