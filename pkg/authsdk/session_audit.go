package authsdk

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// AuditQuery filters an audit log listing. Zero values are ignored.
type AuditQuery struct {
	ActorUserID string
	Action      string
	EntityType  string
	From        time.Time
	To          time.Time
	Limit       int
	Offset      int
}

func (q AuditQuery) encode() string {
	v := url.Values{}
	if q.ActorUserID != "" {
		v.Set("actor", q.ActorUserID)
	}
	if q.Action != "" {
		v.Set("action", q.Action)
	}
	if q.EntityType != "" {
		v.Set("entity_type", q.EntityType)
	}
	if !q.From.IsZero() {
		v.Set("from", q.From.UTC().Format(time.RFC3339))
	}
	if !q.To.IsZero() {
		v.Set("to", q.To.UTC().Format(time.RFC3339))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Offset > 0 {
		v.Set("offset", strconv.Itoa(q.Offset))
	}
	if len(v) == 0 {
		return ""
	}
	return "?" + v.Encode()
}

// AuditLogs queries the audit log. Requires the admin or
// compliance_officer role.
func (s *Session) AuditLogs(ctx context.Context, q AuditQuery) (*AuditLogsResponse, error) {
	resp, err := s.doAuthJSON(ctx, http.MethodGet, "/v1/audit/logs"+q.encode(), nil)
	if err != nil {
		return nil, err
	}

	var out AuditLogsResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyAuditChain asks the server to re-verify the whole hash chain.
// Requires the admin or compliance_officer role.
func (s *Session) VerifyAuditChain(ctx context.Context) (*AuditVerifyResponse, error) {
	resp, err := s.doAuthJSON(ctx, http.MethodGet, "/v1/audit/verify", nil)
	if err != nil {
		return nil, err
	}

	var out AuditVerifyResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}
