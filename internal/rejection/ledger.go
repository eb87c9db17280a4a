// README: Persisted single-slot record of locally declined orders with 3-day expiry.
package rejection

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"courierd/internal/kv"
)

const (
	recordKey  = "courier:rejected_orders"
	dateLayout = "2006-01-02"
	// Rejections hide an order for a rolling window of this many
	// calendar days, compared by local calendar day, not elapsed hours.
	expiryDays = 3
)

// record is the persisted blob. All ids share one rejection date; a new
// day replaces the record instead of merging into it.
type record struct {
	Date     string  `json:"date"`
	OrderIDs []int64 `json:"order_ids"`
}

// Ledger filters the order views. Persistence is best-effort in both
// directions: an unreadable record means "no rejections known" and a
// failed write is logged and forgotten. It never blocks order flow.
type Ledger struct {
	store kv.KV
	log   *slog.Logger
	now   func() time.Time
}

func NewLedger(store kv.KV, log *slog.Logger) *Ledger {
	if log == nil {
		log = slog.Default()
	}
	return &Ledger{store: store, log: log, now: time.Now}
}

// Reject adds the order to today's record. A record from an earlier day
// is replaced wholesale; same-day rejections deduplicate.
func (l *Ledger) Reject(ctx context.Context, orderID int64) {
	today := l.today()
	rec := l.load(ctx)
	if rec == nil || rec.Date != today {
		rec = &record{Date: today}
	}
	for _, id := range rec.OrderIDs {
		if id == orderID {
			return
		}
	}
	rec.OrderIDs = append(rec.OrderIDs, orderID)

	buf, err := json.Marshal(rec)
	if err != nil {
		l.log.Error("encoding rejection record failed", "error", err)
		return
	}
	if err := l.store.Set(ctx, recordKey, buf); err != nil {
		l.log.Error("persisting rejection record failed", "error", err)
	}
}

// ListActive returns the ids of the live record, lazily expiring it
// first. An expired record is cleared from storage on this read.
func (l *Ledger) ListActive(ctx context.Context) []int64 {
	rec := l.load(ctx)
	if rec == nil {
		return nil
	}
	if l.expired(rec) {
		if err := l.store.Del(ctx, recordKey); err != nil {
			l.log.Error("clearing expired rejection record failed", "error", err)
		}
		return nil
	}
	return rec.OrderIDs
}

// IsRejected reports whether the order is in the live record.
func (l *Ledger) IsRejected(ctx context.Context, orderID int64) bool {
	for _, id := range l.ListActive(ctx) {
		if id == orderID {
			return true
		}
	}
	return false
}

func (l *Ledger) load(ctx context.Context) *record {
	buf, err := l.store.Get(ctx, recordKey)
	if err != nil {
		l.log.Error("reading rejection record failed, treating as empty", "error", err)
		return nil
	}
	if buf == nil {
		return nil
	}
	var rec record
	if err := json.Unmarshal(buf, &rec); err != nil {
		l.log.Error("corrupt rejection record, treating as empty", "error", err)
		return nil
	}
	return &rec
}

func (l *Ledger) expired(rec *record) bool {
	recDay, err := time.ParseInLocation(dateLayout, rec.Date, time.Local)
	if err != nil {
		return true
	}
	now := l.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	// AddDate counts calendar days, so a DST change inside the window
	// does not shift the expiry day.
	return today.After(recDay.AddDate(0, 0, expiryDays))
}

func (l *Ledger) today() string {
	return l.now().Format(dateLayout)
}
