package csms

import (
	"time"

	domainauth "github.com/voltfleet/cpconsole/internal/domain/auth"
)

// LoginRequest is the credential payload for /auth/login/.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the bearer token and role the backend issues on a
// successful login. Some deployments return the token under "access".
type LoginResponse struct {
	Token  string          `json:"token"`
	Access string          `json:"access"`
	Role   domainauth.Role `json:"role"`
	User   *Profile        `json:"user"`
}

// BearerToken returns whichever token field the backend populated.
func (r LoginResponse) BearerToken() string {
	if r.Token != "" {
		return r.Token
	}
	return r.Access
}

// SignupRequest mirrors the backend signup payload. Role must be "user" or
// "super_admin".
type SignupRequest struct {
	Username  string          `json:"username"`
	Email     string          `json:"email"`
	FullName  string          `json:"full_name"`
	Phone     string          `json:"phone"`
	Password  string          `json:"password"`
	Password2 string          `json:"password2"`
	Role      domainauth.Role `json:"role"`
}

// Profile is the authenticated operator as reported by /me/.
type Profile struct {
	ID       int             `json:"id"`
	Username string          `json:"username"`
	Email    string          `json:"email"`
	FullName string          `json:"full_name"`
	Phone    string          `json:"phone"`
	Role     domainauth.Role `json:"role"`
	TenantWS string          `json:"tenant_ws"`
}

// ChargePoint is a charging station. PK and ID are interchangeable
// identifiers depending on the endpoint variant.
type ChargePoint struct {
	PK           int      `json:"pk"`
	ID           int      `json:"id"`
	Code         string   `json:"code"`
	Name         string   `json:"name"`
	Location     string   `json:"location"`
	Status       string   `json:"status"`
	Lat          *float64 `json:"lat"`
	Lng          *float64 `json:"lng"`
	PricePerKWh  *float64 `json:"price_per_kwh"`
	PricePerHour *float64 `json:"price_per_hour"`
	Connected    bool     `json:"connected"`
	LastSeen     string   `json:"last_heartbeat"`
}

// Key returns the identifier to address this charge point with, preferring
// pk over id the way the backend's detail routes do.
func (cp ChargePoint) Key() int {
	if cp.PK != 0 {
		return cp.PK
	}
	return cp.ID
}

// ChargePointPatch is a partial update for pricing or location. Nil fields
// are omitted from the request body.
type ChargePointPatch struct {
	PricePerKWh  *float64 `json:"price_per_kwh,omitempty"`
	PricePerHour *float64 `json:"price_per_hour,omitempty"`
	Location     *string  `json:"location,omitempty"`
	Lat          *float64 `json:"lat,omitempty"`
	Lng          *float64 `json:"lng,omitempty"`
}

// UserPrice is a per-user price override on a charge point.
type UserPrice struct {
	ID           int      `json:"id"`
	Email        string   `json:"email"`
	PricePerKWh  *float64 `json:"price_per_kwh"`
	PricePerHour *float64 `json:"price_per_hour"`
}

// UserPricePayload creates or patches a per-user price override.
type UserPricePayload struct {
	Email        string   `json:"email,omitempty"`
	PricePerKWh  *float64 `json:"price_per_kwh"`
	PricePerHour *float64 `json:"price_per_hour"`
}

// ChargeSession is one charging transaction.
type ChargeSession struct {
	ID          int      `json:"id"`
	ChargePoint int      `json:"charge_point"`
	User        string   `json:"user"`
	StartedAt   string   `json:"started_at"`
	StoppedAt   string   `json:"stopped_at"`
	EnergyKWh   float64  `json:"energy_kwh"`
	Cost        *float64 `json:"cost"`
	Status      string   `json:"status"`
}

// SessionPage is the paginated sessions envelope. Count is null-equivalent
// (-1) when the backend returned a plain list.
type SessionPage struct {
	Count   int             `json:"count"`
	Results []ChargeSession `json:"results"`
}

// Revenue is the aggregate from /sessions/revenue/.
type Revenue struct {
	Lifetime   float64 `json:"lifetime"`
	Month      float64 `json:"month"`
	MonthLabel string  `json:"month_label"`
}

// StatusTotals buckets charge points by OCPP status.
type StatusTotals struct {
	Available   int `json:"available"`
	Charging    int `json:"charging"`
	Occupied    int `json:"occupied"`
	Unavailable int `json:"unavailable"`
	Preparing   int `json:"preparing"`
	Other       int `json:"other"`
}

// Stats is the fleet summary from /admin/charge-points/stats/.
type Stats struct {
	Totals StatusTotals `json:"totals"`
}

// CommandRequest dispatches an OCPP action to a charge point.
type CommandRequest struct {
	Action string         `json:"action"`
	Params map[string]any `json:"params"`
}

// CommandResult is the backend's acknowledgement of a dispatched command.
type CommandResult struct {
	Detail string `json:"detail"`
	Status string `json:"status"`
}

// Message returns the human-readable outcome of a command dispatch.
func (r CommandResult) Message() string {
	if r.Detail != "" {
		return r.Detail
	}
	return "queued"
}

// ReportRequest builds a revenue report over a set of charge points.
type ReportRequest struct {
	CPIDs   []int   `json:"cp_ids"`
	Start   string  `json:"start"`
	End     string  `json:"end"`
	TaxRate float64 `json:"tax_rate"`
	Format  string  `json:"format"`
}

// CheckoutRequest starts a payment flow for a public charging session.
type CheckoutRequest struct {
	AmountCents int    `json:"amount_cents"`
	Currency    string `json:"currency"`
}

// CheckoutResponse carries the payment provider redirect URL.
type CheckoutResponse struct {
	URL       string `json:"url"`
	SessionID string `json:"session_id"`
}

// StartAfterCheckoutRequest begins charging once payment completed.
type StartAfterCheckoutRequest struct {
	SessionID string `json:"session_id"`
}

// Detail is a generic `{"detail": "..."}` acknowledgement body.
type Detail struct {
	Detail string `json:"detail"`
}

// Blob is a binary download such as a generated report.
type Blob struct {
	Data        []byte
	ContentType string
	Filename    string
}

// DashboardData is the parallel aggregate the admin dashboard renders from.
type DashboardData struct {
	ChargePoints []ChargePoint
	Sessions     []ChargeSession
	Stats        Stats
	Revenue      Revenue
	FetchedAt    time.Time
}
