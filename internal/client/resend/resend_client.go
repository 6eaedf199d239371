package resend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/troopops/task-tracker/internal/client"
)

// ResendClient delivers email through the Resend transactional API.
type ResendClient struct {
	baseUrl    string
	apiKey     string
	from       string
	httpClient *http.Client
}

func NewResendClient(apiKey, from string) *ResendClient {
	return &ResendClient{
		baseUrl:    "https://api.resend.com",
		apiKey:     apiKey,
		from:       from,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *ResendClient) Send(ctx context.Context, email client.Email) (client.Result, error) {
	reqBody := sendEmailRequest{
		From:    c.from,
		To:      email.To,
		Subject: email.Subject,
		HTML:    email.HTML,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return client.Result{}, fmt.Errorf("marshal request (resend): %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseUrl+"/emails", bytes.NewBuffer(jsonBody))
	if err != nil {
		return client.Result{}, fmt.Errorf("build request (resend): %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return client.Result{}, fmt.Errorf("send email (resend): %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errorBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return client.Result{}, fmt.Errorf("read error body (resend): %w", err)
		}

		var resendErr errorResponse
		if err := json.Unmarshal(errorBody, &resendErr); err != nil {
			return client.Result{}, fmt.Errorf("error status (resend): %d", resp.StatusCode)
		}
		if resendErr.Message != "" {
			return client.Result{}, fmt.Errorf("Resend error: %s", resendErr.Message)
		}
		return client.Result{}, fmt.Errorf("API error status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return client.Result{}, fmt.Errorf("read response body (resend): %w", err)
	}

	var sendResp sendEmailResponse
	if err := json.Unmarshal(body, &sendResp); err != nil {
		return client.Result{}, fmt.Errorf("parse response (resend): %w", err)
	}

	return client.Result{Delivered: true}, nil
}
