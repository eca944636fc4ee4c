package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	domain "github.com/placementhq/identity-import/internal/domain/identity"
)

// LogNotifier stands in for the institutional mail service when no webhook
// is configured. It never logs the credential itself.
type LogNotifier struct{}

func (LogNotifier) NotifyNewIdentity(ctx context.Context, ident domain.Identity, credential string) error {
	log.Printf("welcome notification for %s (%s) queued for delivery", ident.Identifier, ident.Email)
	return nil
}

type welcomePayload struct {
	IdentityID string `json:"identity_id"`
	Identifier string `json:"identifier"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	Credential string `json:"credential"`
}

// WebhookNotifier posts welcome notifications to the mail service endpoint.
type WebhookNotifier struct {
	url    string
	client *http.Client
}

func NewWebhookNotifier(url string, client *http.Client) *WebhookNotifier {
	if client == nil {
		client = http.DefaultClient
	}
	return &WebhookNotifier{url: url, client: client}
}

func (n *WebhookNotifier) NotifyNewIdentity(ctx context.Context, ident domain.Identity, credential string) error {
	body, err := json.Marshal(welcomePayload{
		IdentityID: ident.ID,
		Identifier: ident.Identifier,
		FirstName:  ident.FirstName,
		LastName:   ident.LastName,
		Email:      ident.Email,
		Role:       string(ident.Role),
		Credential: credential,
	})
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build notification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("deliver notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("notification endpoint returned %d", resp.StatusCode)
	}
	return nil
}
