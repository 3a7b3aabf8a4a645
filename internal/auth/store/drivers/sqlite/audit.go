package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/luminahealth/medlock/internal/auth/domain"
	"github.com/luminahealth/medlock/internal/auth/store"
)

type auditLogRepo struct {
	ext sqlx.ExtContext
}

var _ store.AuditLog = (*auditLogRepo)(nil)

type auditRow struct {
	ID          int64          `db:"id"`
	Timestamp   time.Time      `db:"ts"`
	ActorUserID sql.NullString `db:"actor_user_id"`
	Action      string         `db:"action"`
	EntityType  string         `db:"entity_type"`
	EntityID    string         `db:"entity_id"`
	Details     string         `db:"details"`
	IP          string         `db:"ip"`
	PrevHash    string         `db:"prev_hash"`
	EntryHash   string         `db:"entry_hash"`
}

func (r auditRow) toDomain() domain.AuditEntry {
	return domain.AuditEntry{
		ID:          r.ID,
		Timestamp:   r.Timestamp.UTC(),
		ActorUserID: mapNullStringPtr(r.ActorUserID),
		Action:      r.Action,
		EntityType:  r.EntityType,
		EntityID:    r.EntityID,
		Details:     json.RawMessage(r.Details),
		IP:          r.IP,
		PrevHash:    r.PrevHash,
		EntryHash:   r.EntryHash,
	}
}

const auditColumns = `id, ts, actor_user_id, action, entity_type, entity_id,
	details, ip, prev_hash, entry_hash`

// AppendAuditEntry inserts a finished entry (hashes already computed)
// and returns the id the database assigned.
func (r *auditLogRepo) AppendAuditEntry(ctx context.Context, e domain.AuditEntry) (int64, error) {
	details := string(e.Details)
	if details == "" {
		details = "{}"
	}
	res, err := r.ext.ExecContext(ctx, `
		INSERT INTO audit_log (ts, actor_user_id, action, entity_type, entity_id, details, ip, prev_hash, entry_hash)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Timestamp.UTC(), mapOptionalString(e.ActorUserID), e.Action,
		e.EntityType, e.EntityID, details, e.IP, e.PrevHash, e.EntryHash,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// GetLastAuditEntry returns the chain tail. store.ErrNotFound means the
// log is still empty and the next entry links to the genesis hash.
func (r *auditLogRepo) GetLastAuditEntry(ctx context.Context) (domain.AuditEntry, error) {
	var row auditRow
	err := sqlx.GetContext(ctx, r.ext, &row,
		`SELECT `+auditColumns+` FROM audit_log ORDER BY id DESC LIMIT 1`)
	if err != nil {
		return domain.AuditEntry{}, mapNotFound(err)
	}
	return row.toDomain(), nil
}

// GetAuditEntry fetches one entry by id.
func (r *auditLogRepo) GetAuditEntry(ctx context.Context, id int64) (domain.AuditEntry, error) {
	var row auditRow
	err := sqlx.GetContext(ctx, r.ext, &row,
		`SELECT `+auditColumns+` FROM audit_log WHERE id = ?`, id)
	if err != nil {
		return domain.AuditEntry{}, mapNotFound(err)
	}
	return row.toDomain(), nil
}

// GetAuditEntryBefore fetches the nearest entry below the given id. Rolled
// back inserts can leave id gaps, so this is a range scan rather than id-1.
func (r *auditLogRepo) GetAuditEntryBefore(ctx context.Context, id int64) (domain.AuditEntry, error) {
	var row auditRow
	err := sqlx.GetContext(ctx, r.ext, &row,
		`SELECT `+auditColumns+` FROM audit_log WHERE id < ? ORDER BY id DESC LIMIT 1`, id)
	if err != nil {
		return domain.AuditEntry{}, mapNotFound(err)
	}
	return row.toDomain(), nil
}

// ListAuditRange returns entries with fromID <= id <= toID in id order.
// Chain verification walks the log in slices through this.
func (r *auditLogRepo) ListAuditRange(ctx context.Context, fromID, toID int64) ([]domain.AuditEntry, error) {
	var rows []auditRow
	err := sqlx.SelectContext(ctx, r.ext, &rows, `
		SELECT `+auditColumns+`
		FROM audit_log
		WHERE id >= ? AND id <= ?
		ORDER BY id ASC`,
		fromID, toID,
	)
	if err != nil {
		return nil, err
	}
	return mapAuditRows(rows), nil
}

// ListAuditEntries returns entries matching the filter, newest first.
func (r *auditLogRepo) ListAuditEntries(ctx context.Context, f domain.AuditFilter) ([]domain.AuditEntry, error) {
	where, args := buildAuditFilter(f)
	query := `SELECT ` + auditColumns + ` FROM audit_log` + where + ` ORDER BY id DESC LIMIT ? OFFSET ?`
	args = append(args, f.Limit, f.Offset)

	var rows []auditRow
	if err := sqlx.SelectContext(ctx, r.ext, &rows, query, args...); err != nil {
		return nil, err
	}
	return mapAuditRows(rows), nil
}

// CountAuditEntries returns how many entries match the filter.
func (r *auditLogRepo) CountAuditEntries(ctx context.Context, f domain.AuditFilter) (int, error) {
	where, args := buildAuditFilter(f)
	var count int
	err := sqlx.GetContext(ctx, r.ext, &count,
		`SELECT COUNT(*) FROM audit_log`+where, args...)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func buildAuditFilter(f domain.AuditFilter) (string, []any) {
	var conds []string
	var args []any
	if f.ActorUserID != "" {
		conds = append(conds, `actor_user_id = ?`)
		args = append(args, f.ActorUserID)
	}
	if f.Action != "" {
		conds = append(conds, `action = ?`)
		args = append(args, f.Action)
	}
	if f.EntityType != "" {
		conds = append(conds, `entity_type = ?`)
		args = append(args, f.EntityType)
	}
	if !f.From.IsZero() {
		conds = append(conds, `ts >= ?`)
		args = append(args, f.From.UTC())
	}
	if !f.To.IsZero() {
		conds = append(conds, `ts <= ?`)
		args = append(args, f.To.UTC())
	}
	if len(conds) == 0 {
		return "", nil
	}
	return ` WHERE ` + strings.Join(conds, ` AND `), args
}

func mapAuditRows(rows []auditRow) []domain.AuditEntry {
	entries := make([]domain.AuditEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, row.toDomain())
	}
	return entries
}
