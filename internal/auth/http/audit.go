package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/luminahealth/medlock/internal/auth/domain"
	"github.com/luminahealth/medlock/internal/auth/service"
	"github.com/luminahealth/medlock/pkg/authsdk"
	"github.com/luminahealth/medlock/pkg/httpx"
	"github.com/luminahealth/medlock/pkg/slogx"
)

// AuditHandler serves the audit log to compliance reviewers. Routes are
// gated to the admin and compliance_officer roles by the router.
type AuditHandler struct {
	AuditService *service.AuditService
}

// HandleLogs handles GET /v1/audit/logs
//
//	@Summary		Query the audit log
//	@Description	Returns audit entries newest first, filtered by actor, action, entity type, and time window. Timestamps are RFC 3339.
//	@Tags			Audit
//	@Security		BearerAuth
//	@Produce		json
//	@Param			actor		query		string	false	"Filter by acting user id"
//	@Param			action		query		string	false	"Filter by action (e.g. login_failed)"
//	@Param			entity_type	query		string	false	"Filter by entity type (e.g. user, session)"
//	@Param			from		query		string	false	"Only entries at or after this time (RFC 3339)"
//	@Param			to			query		string	false	"Only entries before this time (RFC 3339)"
//	@Param			limit		query		int		false	"Page size (default 50, max 500)"
//	@Param			offset		query		int		false	"Page offset"
//	@Success		200			{object}	authsdk.AuditLogsResponse	"Matching entries"
//	@Failure		400			{object}	authsdk.ErrorResponse		"Malformed filter"
//	@Failure		401			{object}	authsdk.ErrorResponse		"Invalid or missing session token"
//	@Failure		403			{object}	authsdk.ErrorResponse		"Role does not permit audit access"
//	@Failure		500			{object}	authsdk.ErrorResponse		"Internal server error"
//	@Router			/v1/audit/logs [get].
func (h *AuditHandler) HandleLogs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	filter, err := auditFilterFromQuery(r)
	if err != nil {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	page, err := h.AuditService.Query(ctx, filter)
	if err != nil {
		log.Error("failed to query audit log", "err", err)
		authsdk.ErrServerError.WriteError(w)
		return
	}

	out := make([]authsdk.AuditEntry, 0, len(page.Entries))
	for _, e := range page.Entries {
		out = append(out, auditEntry(e))
	}
	httpx.WriteJSON(w, http.StatusOK, authsdk.AuditLogsResponse{
		Entries: out,
		Total:   page.Total,
		Limit:   page.Limit,
		Offset:  page.Offset,
	})
}

// HandleVerify handles GET /v1/audit/verify
//
//	@Summary		Verify the audit hash chain
//	@Description	Walks the entire audit log recomputing every entry hash and its linkage to the previous entry. Reports the first broken entry when the chain does not verify.
//	@Tags			Audit
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	authsdk.AuditVerifyResponse	"Verification report"
//	@Failure		401	{object}	authsdk.ErrorResponse		"Invalid or missing session token"
//	@Failure		403	{object}	authsdk.ErrorResponse		"Role does not permit audit access"
//	@Failure		500	{object}	authsdk.ErrorResponse		"Internal server error"
//	@Router			/v1/audit/verify [get].
func (h *AuditHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	result, err := h.AuditService.VerifyChain(ctx, 0, 0)
	if err != nil {
		log.Error("failed to verify audit chain", "err", err)
		authsdk.ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.AuditVerifyResponse{
		Valid:         result.Valid,
		Checked:       int64(result.Checked),
		FirstBrokenID: result.FirstBrokenID,
	})
}

func auditFilterFromQuery(r *http.Request) (domain.AuditFilter, error) {
	q := r.URL.Query()
	f := domain.AuditFilter{
		ActorUserID: q.Get("actor"),
		Action:      q.Get("action"),
		EntityType:  q.Get("entity_type"),
	}

	if v := q.Get("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return domain.AuditFilter{}, err
		}
		f.From = t
	}
	if v := q.Get("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return domain.AuditFilter{}, err
		}
		f.To = t
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return domain.AuditFilter{}, err
		}
		f.Limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return domain.AuditFilter{}, err
		}
		f.Offset = n
	}

	return f, nil
}

func auditEntry(e domain.AuditEntry) authsdk.AuditEntry {
	var actor string
	if e.ActorUserID != nil {
		actor = *e.ActorUserID
	}
	return authsdk.AuditEntry{
		ID:          e.ID,
		Timestamp:   e.Timestamp,
		ActorUserID: actor,
		Action:      e.Action,
		EntityType:  e.EntityType,
		EntityID:    e.EntityID,
		Details:     e.Details,
		IP:          e.IP,
		PrevHash:    e.PrevHash,
		EntryHash:   e.EntryHash,
	}
}
