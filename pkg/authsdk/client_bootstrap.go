package authsdk

import (
	"context"
	"net/http"
)

// Bootstrap provisions the first administrator on an empty system.
// Fails once any user exists or when the token does not match the
// server's configured bootstrap token.
func (c *SDKClient) Bootstrap(ctx context.Context, req BootstrapRequest) (*BootstrapResponse, error) {
	resp, err := c.doJSON(ctx, http.MethodPost, "/v1/bootstrap", req)
	if err != nil {
		return nil, err
	}

	var out BootstrapResponse
	if err := decodeJSON(resp, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}
