// internal/form/actions.go
//
// Adept – Forms subsystem: post-submit actions.
//
// Context
//   A YAML FormDef may list actions to run after a valid submission.
//   ExecuteActions dispatches to runLog or runWebhook in declaration order.
//   Password fields are never passed to an action.
//
//   •  log      – writes one info line with the submitted fields.
//   •  webhook  – POSTs the fields as JSON to `url`.  Params `method`,
//                 `timeout` (Go duration), `header.<Name>`, and `secret` are
//                 optional.  Every delivery carries X-Webhook-ID; with a
//                 secret it is signed as
//                 hex(HMAC_SHA256(secret, "<unix>.<body>")) in
//                 X-Webhook-Signature, the time in X-Webhook-Timestamp.
//
// Style
//   Two-space sentence spacing, Oxford comma, concise inline notes.
//
//------------------------------------------------------------------------------

package form

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yanizio/adept-forms/internal/logger"
)

// ActionDef declares one post-submit action.
type ActionDef struct {
	Type   string         `yaml:"type"`   // log or webhook.
	Params map[string]any `yaml:"params"` // Type-specific settings.
}

// DefaultWebhookTimeout bounds a webhook call without a `timeout` param.
const DefaultWebhookTimeout = 5 * time.Second

// WebhookClient sends webhook requests.  Tests swap it.
var WebhookClient = &http.Client{}

// ExecuteActions performs all YAML-declared actions.  Errors are logged but
// not returned, keeping user flow uninterrupted.
func ExecuteActions(ctx context.Context, fd *FormDef, payload FormPayload[string]) {
	if len(fd.Actions) == 0 {
		return
	}
	data := fd.public(payload)

	for _, ac := range fd.Actions {
		var err error
		switch ac.Type {
		case "log":
			runLog(ctx, fd, data)
		case "webhook":
			err = runWebhook(ctx, fd, ac.Params, data)
		default:
			err = fmt.Errorf("unsupported action")
		}
		if err != nil {
			logger.FromContext(ctx).Errorw(
				"form action failed",
				"form", fd.ID, "action", ac.Type, "error", err.Error(),
			)
		}
	}
}

// public drops password fields from payload.
func (fd *FormDef) public(payload FormPayload[string]) map[string]string {
	out := make(map[string]string, len(payload))
	for _, f := range fd.Fields {
		if f.Kind == KindPassword {
			continue
		}
		if v, ok := payload[f.Name]; ok {
			out[f.Name] = v
		}
	}
	return out
}

// -----------------------------------------------------------------------------
// Log action
// -----------------------------------------------------------------------------

func runLog(ctx context.Context, fd *FormDef, data map[string]string) {
	kv := make([]any, 0, 2+2*len(data))
	kv = append(kv, "form", fd.ID)
	for _, f := range fd.Fields {
		if v, ok := data[f.Name]; ok {
			kv = append(kv, "field."+f.Name, v)
		}
	}
	logger.FromContext(ctx).Infow("form submission", kv...)
}

// -----------------------------------------------------------------------------
// Webhook action
// -----------------------------------------------------------------------------

func runWebhook(ctx context.Context, fd *FormDef, p map[string]any, data map[string]string) error {
	url, ok := p["url"].(string)
	if !ok || url == "" {
		return fmt.Errorf("webhook action requires 'url'")
	}
	method, _ := p["method"].(string)
	if method == "" {
		method = http.MethodPost
	}
	timeout := DefaultWebhookTimeout
	if s, ok := p["timeout"].(string); ok {
		d, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("webhook timeout: %w", err)
		}
		timeout = d
	}

	payload, err := json.Marshal(map[string]any{"form": fd.ID, "fields": data})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Webhook-ID", uuid.NewString())
	if secret, _ := p["secret"].(string); secret != "" {
		ts := time.Now().Unix()
		req.Header.Set("X-Webhook-Timestamp", strconv.FormatInt(ts, 10))
		req.Header.Set("X-Webhook-Signature", SignWebhook(secret, ts, payload))
	}
	for k, v := range p {
		if strings.HasPrefix(k, "header.") {
			req.Header.Set(strings.TrimPrefix(k, "header."), fmt.Sprint(v))
		}
	}

	resp, err := WebhookClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook %s: status %d", url, resp.StatusCode)
	}
	return nil
}

// SignWebhook returns the X-Webhook-Signature value for body sent at ts.
func SignWebhook(secret string, ts int64, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(strconv.FormatInt(ts, 10) + "."))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// validateAction checks the static parts of an action.
func validateAction(ac ActionDef) error {
	switch ac.Type {
	case "log":
		return nil
	case "webhook":
		if u, _ := ac.Params["url"].(string); u == "" {
			return fmt.Errorf("webhook action requires 'url'")
		}
		if s, ok := ac.Params["timeout"].(string); ok {
			if _, err := time.ParseDuration(s); err != nil {
				return fmt.Errorf("webhook timeout: %w", err)
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown action type %q", ac.Type)
	}
}
