package xmlrpc

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"
)

// DefaultTimeout bounds a single outbound call. Spec §4.4 requires "a few
// seconds" so one unreachable subscriber can't tie up a notifier worker
// indefinitely.
const DefaultTimeout = 5 * time.Second

// Call issues a single XML-RPC request against endpoint and returns the
// response value. It is used by the notifier to push publisherUpdate and
// paramUpdate to a subscriber's caller-API, and nowhere else — the master
// facade never calls out.
func Call(ctx context.Context, client *http.Client, endpoint, method string, params []Value) (Value, error) {
	body, err := EncodeCall(method, params)
	if err != nil {
		return Value{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return Value{}, fmt.Errorf("xmlrpc: build request to %s: %w", endpoint, err)
	}
	req.Header.Set("Content-Type", "text/xml")

	resp, err := client.Do(req)
	if err != nil {
		return Value{}, fmt.Errorf("xmlrpc: call %s at %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Value{}, fmt.Errorf("xmlrpc: call %s at %s: status %s", method, endpoint, resp.Status)
	}

	return DecodeResponse(resp.Body)
}
