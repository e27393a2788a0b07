package turnstile

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
)

const siteverifyURL = "https://challenges.cloudflare.com/turnstile/v0/siteverify"

type (
	// Verifier checks a client-supplied challenge token before a write
	// operation is accepted.
	Verifier interface {
		Verify(ctx context.Context, token, remoteIP string) bool
	}

	verifier struct {
		secretKey string
		client    *http.Client
	}

	siteverifyResponse struct {
		Success    bool     `json:"success"`
		ErrorCodes []string `json:"error-codes"`
		Hostname   string   `json:"hostname"`
	}
)

func NewVerifier(secretKey string) Verifier {
	return &verifier{
		secretKey: secretKey,
		client:    &http.Client{Timeout: 5 * time.Second},
	}
}

// Verify calls the Cloudflare siteverify endpoint. An unconfigured secret
// disables verification entirely; once a secret is set, a missing token or
// an unreachable verifier rejects the request.
func (v *verifier) Verify(ctx context.Context, token, remoteIP string) bool {
	if v.secretKey == "" {
		return true
	}
	if token == "" {
		return false
	}

	form := url.Values{}
	form.Set("secret", v.secretKey)
	form.Set("response", token)
	if remoteIP != "" {
		form.Set("remoteip", remoteIP)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, siteverifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return false
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.client.Do(req)
	if err != nil {
		log.Warn().Err(err).Msg("turnstile siteverify request failed")
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Warn().Int("status", resp.StatusCode).Msg("turnstile siteverify returned non-200")
		return false
	}

	body, _ := io.ReadAll(resp.Body)
	var res siteverifyResponse
	if err := json.Unmarshal(body, &res); err != nil {
		log.Warn().Err(err).Msg("failed to decode turnstile siteverify response")
		return false
	}
	if !res.Success {
		log.Warn().Strs("error_codes", res.ErrorCodes).Str("ip", remoteIP).Msg("turnstile rejected token")
	}
	return res.Success
}
