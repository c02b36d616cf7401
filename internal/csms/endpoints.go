package csms

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// Login exchanges credentials for a bearer token. No token is sent on this
// call.
func (c *Client) Login(ctx context.Context, req LoginRequest) (LoginResponse, error) {
	var out LoginResponse
	if err := c.PostJSON(ctx, "", "/auth/login/", req, &out); err != nil {
		return LoginResponse{}, err
	}
	return out, nil
}

// Signup registers a new account.
func (c *Client) Signup(ctx context.Context, req SignupRequest) (Detail, error) {
	var out Detail
	if err := c.PostJSON(ctx, "", "/auth/signup/", req, &out); err != nil {
		return Detail{}, err
	}
	return out, nil
}

// PasswordReset asks the backend to mail a reset link.
func (c *Client) PasswordReset(ctx context.Context, email string) (Detail, error) {
	var out Detail
	body := map[string]string{"email": email}
	if err := c.PostJSON(ctx, "", "/auth/password/reset/", body, &out); err != nil {
		return Detail{}, err
	}
	return out, nil
}

// PasswordResetConfirm sets a new password using the emailed uid/token pair.
func (c *Client) PasswordResetConfirm(ctx context.Context, uid, token, newPassword string) (Detail, error) {
	var out Detail
	body := map[string]string{
		"uid":          uid,
		"token":        token,
		"new_password": newPassword,
	}
	if err := c.PostJSON(ctx, "", "/auth/password/reset/confirm/", body, &out); err != nil {
		return Detail{}, err
	}
	return out, nil
}

// Me returns the authenticated operator's profile.
func (c *Client) Me(ctx context.Context, token string) (Profile, error) {
	var out Profile
	if err := c.FetchJSON(ctx, token, "/me/", &out); err != nil {
		return Profile{}, err
	}
	return out, nil
}

// ChargePoints lists the tenant's charge points.
func (c *Client) ChargePoints(ctx context.Context, token string) ([]ChargePoint, error) {
	var out []ChargePoint
	if err := c.FetchJSON(ctx, token, "/charge-points/", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ChargePoint fetches one charge point by pk.
func (c *Client) ChargePoint(ctx context.Context, token string, pk int) (ChargePoint, error) {
	var out ChargePoint
	if err := c.FetchJSON(ctx, token, fmt.Sprintf("/charge-points/%d/", pk), &out); err != nil {
		return ChargePoint{}, err
	}
	return out, nil
}

// PatchChargePoint applies a partial pricing/location update.
func (c *Client) PatchChargePoint(ctx context.Context, token string, pk int, patch ChargePointPatch) (ChargePoint, error) {
	var out ChargePoint
	if err := c.PatchJSON(ctx, token, fmt.Sprintf("/charge-points/%d/", pk), patch, &out); err != nil {
		return ChargePoint{}, err
	}
	return out, nil
}

// SendCommand dispatches an OCPP action to a charge point.
func (c *Client) SendCommand(ctx context.Context, token string, pk int, req CommandRequest) (CommandResult, error) {
	var out CommandResult
	if err := c.PostJSON(ctx, token, fmt.Sprintf("/charge-points/%d/command/", pk), req, &out); err != nil {
		return CommandResult{}, err
	}
	return out, nil
}

// UserPrices lists the per-user overrides on a charge point.
func (c *Client) UserPrices(ctx context.Context, token string, pk int) ([]UserPrice, error) {
	var out []UserPrice
	if err := c.FetchJSON(ctx, token, fmt.Sprintf("/charge-points/%d/user-prices/", pk), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AddUserPrice creates a per-user override.
func (c *Client) AddUserPrice(ctx context.Context, token string, pk int, payload UserPricePayload) (UserPrice, error) {
	var out UserPrice
	if err := c.PostJSON(ctx, token, fmt.Sprintf("/charge-points/%d/user-prices/", pk), payload, &out); err != nil {
		return UserPrice{}, err
	}
	return out, nil
}

// PatchUserPrice updates a per-user override.
func (c *Client) PatchUserPrice(ctx context.Context, token string, pk, priceID int, payload UserPricePayload) (UserPrice, error) {
	var out UserPrice
	if err := c.PatchJSON(ctx, token, fmt.Sprintf("/charge-points/%d/user-prices/%d/", pk, priceID), payload, &out); err != nil {
		return UserPrice{}, err
	}
	return out, nil
}

// DeleteUserPrice removes a per-user override.
func (c *Client) DeleteUserPrice(ctx context.Context, token string, pk, priceID int) error {
	return c.Delete(ctx, token, fmt.Sprintf("/charge-points/%d/user-prices/%d/", pk, priceID))
}

// RecentSessions returns up to limit sessions, newest first.
func (c *Client) RecentSessions(ctx context.Context, token string, limit int) ([]ChargeSession, error) {
	page, err := c.SessionsOffset(ctx, token, limit, 0)
	if err != nil {
		return nil, err
	}
	return page.Results, nil
}

// SessionsOffset fetches the limit/offset pagination variant.
func (c *Client) SessionsOffset(ctx context.Context, token string, limit, offset int) (SessionPage, error) {
	q := url.Values{}
	q.Set("limit", fmt.Sprint(limit))
	if offset > 0 {
		q.Set("offset", fmt.Sprint(offset))
	}
	return c.sessions(ctx, token, q)
}

// SessionsPage fetches the page/page_size pagination variant.
func (c *Client) SessionsPage(ctx context.Context, token string, page, pageSize int) (SessionPage, error) {
	q := url.Values{}
	q.Set("page", fmt.Sprint(page))
	q.Set("page_size", fmt.Sprint(pageSize))
	return c.sessions(ctx, token, q)
}

// sessions decodes either the paginated envelope or a plain list, the two
// shapes the backend serves depending on query style.
func (c *Client) sessions(ctx context.Context, token string, q url.Values) (SessionPage, error) {
	var raw struct {
		Count   *int            `json:"count"`
		Results []ChargeSession `json:"results"`
	}
	path := "/sessions/?" + q.Encode()

	var list []ChargeSession
	if err := c.FetchJSON(ctx, token, path, &raw); err != nil {
		// Plain-list deployments fail the envelope decode; retry as a list.
		if listErr := c.FetchJSON(ctx, token, path, &list); listErr != nil {
			return SessionPage{}, err
		}
		return SessionPage{Count: -1, Results: list}, nil
	}
	if raw.Count == nil {
		return SessionPage{Count: -1, Results: raw.Results}, nil
	}
	return SessionPage{Count: *raw.Count, Results: raw.Results}, nil
}

// Revenue returns lifetime and month-to-date revenue.
func (c *Client) Revenue(ctx context.Context, token string) (Revenue, error) {
	var out Revenue
	if err := c.FetchJSON(ctx, token, "/sessions/revenue/", &out); err != nil {
		return Revenue{}, err
	}
	return out, nil
}

// Stats returns the fleet status totals.
func (c *Client) Stats(ctx context.Context, token string) (Stats, error) {
	var out Stats
	if err := c.FetchJSON(ctx, token, "/admin/charge-points/stats/", &out); err != nil {
		return Stats{}, err
	}
	return out, nil
}

// Report generates a PDF or XLSX revenue report and returns the binary.
func (c *Client) Report(ctx context.Context, token string, req ReportRequest) (Blob, error) {
	return c.FetchBlob(ctx, token, http.MethodPost, "/reports/", req)
}

// PublicChargePoints lists publicly browsable charge points, no auth.
func (c *Client) PublicChargePoints(ctx context.Context) ([]ChargePoint, error) {
	var out []ChargePoint
	if err := c.FetchJSON(ctx, "", "/public/charge-points/", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// PublicChargePoint fetches one public charge point by id.
func (c *Client) PublicChargePoint(ctx context.Context, id int) (ChargePoint, error) {
	var out ChargePoint
	if err := c.FetchJSON(ctx, "", fmt.Sprintf("/public/charge-points/%d/", id), &out); err != nil {
		return ChargePoint{}, err
	}
	return out, nil
}

// PublicChargePointByCode resolves a station by its printed code.
func (c *Client) PublicChargePointByCode(ctx context.Context, code string) (ChargePoint, error) {
	var out ChargePoint
	path := "/public/charge-points/by-code/" + url.PathEscape(code) + "/"
	if err := c.FetchJSON(ctx, "", path, &out); err != nil {
		return ChargePoint{}, err
	}
	return out, nil
}

// Checkout opens a payment session for a public charge point.
func (c *Client) Checkout(ctx context.Context, token string, id int, req CheckoutRequest) (CheckoutResponse, error) {
	var out CheckoutResponse
	if err := c.PostJSON(ctx, token, fmt.Sprintf("/public/charge-points/%d/checkout/", id), req, &out); err != nil {
		return CheckoutResponse{}, err
	}
	return out, nil
}

// StartAfterCheckout begins charging once the payment session completed.
func (c *Client) StartAfterCheckout(ctx context.Context, token string, id int, sessionID string) (Detail, error) {
	var out Detail
	req := StartAfterCheckoutRequest{SessionID: sessionID}
	if err := c.PostJSON(ctx, token, fmt.Sprintf("/public/charge-points/%d/start-after-checkout/", id), req, &out); err != nil {
		return Detail{}, err
	}
	return out, nil
}

// Stop ends the active charging session on a public charge point.
func (c *Client) Stop(ctx context.Context, token string, id int) (Detail, error) {
	var out Detail
	if err := c.PostJSON(ctx, token, fmt.Sprintf("/public/charge-points/%d/stop/", id), nil, &out); err != nil {
		return Detail{}, err
	}
	return out, nil
}
