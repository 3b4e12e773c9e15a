package settlement

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/triptally/trip_tally_app/internal/core/domain"
)

// ChangeKind distinguishes planned settlement row mutations.
type ChangeKind string

const (
	ChangeCreate ChangeKind = "CREATE"
	ChangeUpdate ChangeKind = "UPDATE"
)

// Change is one planned mutation of a settlement row.
type Change struct {
	Kind       ChangeKind
	Settlement domain.Settlement
}

// PlanReconciliation merges freshly computed required transfers into the
// stored settlement rows for a trip and returns the row mutations needed
// to bring storage in line. existing maps each direction to its most
// recent stored row. Rows are never deleted: a direction that is no
// longer required keeps its row, a pending one is closed out at zero.
// Calling the planner twice against an unchanged ledger yields no changes.
//
// Merge rules per direction (union of required and existing):
//   - pending row:    amount becomes the required transfer. Required zero
//     completes the row and stamps settledAt.
//   - completed row:  new required balance reopens it as pending with the
//     required amount added on top of the already settled amount, clearing
//     settledAt. Required zero leaves it untouched.
//   - any other row:  amount becomes the required transfer.
//   - no row:         a pending row is created when required is positive.
func PlanReconciliation(
	tripID string,
	required map[domain.SettlementDirection]decimal.Decimal,
	existing map[domain.SettlementDirection]domain.Settlement,
	now time.Time,
	actorID string,
) []Change {
	directions := make([]domain.SettlementDirection, 0, len(required)+len(existing))
	seen := make(map[domain.SettlementDirection]struct{}, len(required)+len(existing))
	for dir := range required {
		directions = append(directions, dir)
		seen[dir] = struct{}{}
	}
	for dir := range existing {
		if _, ok := seen[dir]; !ok {
			directions = append(directions, dir)
		}
	}
	// Deterministic order; row updates are applied in this sequence.
	sort.Slice(directions, func(i, j int) bool {
		if directions[i].DebtorID != directions[j].DebtorID {
			return directions[i].DebtorID < directions[j].DebtorID
		}
		return directions[i].CreditorID < directions[j].CreditorID
	})

	var changes []Change
	for _, dir := range directions {
		req := required[dir] // zero value when direction no longer required
		row, ok := existing[dir]
		if !ok {
			if req.IsPositive() {
				changes = append(changes, Change{
					Kind: ChangeCreate,
					Settlement: domain.Settlement{
						SettlementID: uuid.NewString(),
						TripID:       tripID,
						DebtorID:     dir.DebtorID,
						CreditorID:   dir.CreditorID,
						Amount:       req,
						Status:       domain.SettlementPending,
						AuditFields: domain.AuditFields{
							CreatedAt:     now,
							CreatedBy:     actorID,
							LastUpdatedAt: now,
							LastUpdatedBy: actorID,
						},
					},
				})
			}
			continue
		}

		updated := row
		switch row.Status {
		case domain.SettlementPending:
			updated.Amount = req
			if req.IsPositive() {
				updated.Status = domain.SettlementPending
				updated.SettledAt = nil
			} else {
				updated.Status = domain.SettlementCompleted
				settledAt := now
				updated.SettledAt = &settledAt
			}
		case domain.SettlementCompleted:
			if !req.IsPositive() {
				continue
			}
			updated.Amount = row.Amount.Add(req)
			updated.Status = domain.SettlementPending
			updated.SettledAt = nil
		default:
			updated.Amount = req
		}

		if settlementUnchanged(row, updated) {
			continue
		}
		updated.LastUpdatedAt = now
		updated.LastUpdatedBy = actorID
		changes = append(changes, Change{Kind: ChangeUpdate, Settlement: updated})
	}
	return changes
}

func settlementUnchanged(a, b domain.Settlement) bool {
	if !a.Amount.Equal(b.Amount) || a.Status != b.Status {
		return false
	}
	if (a.SettledAt == nil) != (b.SettledAt == nil) {
		return false
	}
	return a.SettledAt == nil || a.SettledAt.Equal(*b.SettledAt)
}
