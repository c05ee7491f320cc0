package housing

import (
	"testing"

	"github.com/opentibia/worldcore/internal/ids"
)

func TestAssignOwnerResetsAccessAndRentClock(t *testing.T) {
	h := NewHouse(1, "thais", "Lakeside Cottage", 1000)
	h.AssignOwner(42, 500, 10000)
	if h.AccessLevelOf(42) != AccessOwner {
		t.Fatal("expected new owner to have AccessOwner")
	}
	if h.RentDueAt != 10500 {
		t.Fatalf("expected rent due at 10500, got %d", h.RentDueAt)
	}
}

func TestGrantAndRevokeAccess(t *testing.T) {
	h := NewHouse(1, "thais", "Lakeside Cottage", 1000)
	h.AssignOwner(42, 0, 1000)
	h.Grant(7, AccessGuest)
	if !h.CanEnter(7) {
		t.Fatal("expected guest to be able to enter")
	}
	h.Revoke(7)
	if h.CanEnter(7) {
		t.Fatal("expected revoked player to lose entry")
	}
}

func TestGrantCannotDowngradeOwner(t *testing.T) {
	h := NewHouse(1, "thais", "Lakeside Cottage", 1000)
	h.AssignOwner(42, 0, 1000)
	h.Grant(42, AccessGuest)
	if h.AccessLevelOf(42) != AccessOwner {
		t.Fatal("expected owner's access level to stay AccessOwner regardless of Grant")
	}
}

func TestCheckRentNotYetDueIsNoop(t *testing.T) {
	h := NewHouse(1, "thais", "Lakeside Cottage", 1000)
	h.AssignOwner(42, 0, 1000)
	res := h.CheckRent(500, 1000, func(ids.PlayerId, int64) bool { return true })
	if res.Due {
		t.Fatalf("expected rent not yet due, got %+v", res)
	}
}

func TestCheckRentPaidRollsClockForward(t *testing.T) {
	h := NewHouse(1, "thais", "Lakeside Cottage", 1000)
	h.AssignOwner(42, 0, 1000)
	res := h.CheckRent(1000, 1000, func(owner ids.PlayerId, amount int64) bool {
		if amount != 1000 {
			t.Fatalf("expected rent amount 1000, got %d", amount)
		}
		return true
	})
	if !res.Due || !res.Paid || res.Evicted {
		t.Fatalf("expected rent paid without eviction, got %+v", res)
	}
	if h.RentDueAt != 2000 {
		t.Fatalf("expected rent clock rolled forward to 2000, got %d", h.RentDueAt)
	}
}

func TestCheckRentUnpaidEvictsOwner(t *testing.T) {
	h := NewHouse(1, "thais", "Lakeside Cottage", 1000)
	h.AssignOwner(42, 0, 1000)
	res := h.CheckRent(1000, 1000, func(ids.PlayerId, int64) bool { return false })
	if !res.Evicted {
		t.Fatal("expected eviction on failed rent payment")
	}
	if h.Owner != 0 {
		t.Fatalf("expected house to revert to unowned, got owner %d", h.Owner)
	}
	if h.CanEnter(42) {
		t.Fatal("expected evicted former owner to lose access")
	}
}
