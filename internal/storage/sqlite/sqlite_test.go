package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/republica/internal/models"
	"github.com/mmynk/republica/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err, "failed to create store")
	t.Cleanup(func() { store.Close() })
	return store
}

func createUser(t *testing.T, store *SQLiteStore, username string) *models.User {
	t.Helper()
	user := models.NewUser(username, username+"@example.com", "", "hash")
	require.NoError(t, store.CreateUser(context.Background(), user))
	return user
}

func createHousehold(t *testing.T, store *SQLiteStore, name string, admin *models.User) *models.Household {
	t.Helper()
	household := &models.Household{Name: name, AdminID: admin.ID}
	require.NoError(t, store.CreateHousehold(context.Background(), household))
	return household
}

func date(s string) time.Time {
	t, _ := time.Parse(models.DateLayout, s)
	return t
}

func TestUsers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("CreateUser generates ID and defaults", func(t *testing.T) {
		user := &models.User{Username: "alice", Email: "alice@example.com", PasswordHash: "x"}
		require.NoError(t, store.CreateUser(ctx, user))

		assert.NotEmpty(t, user.ID)
		assert.NotZero(t, user.CreatedAt)
		assert.Equal(t, models.StatusAwaitingApproval, user.AssociationStatus)

		got, err := store.GetUserByUsername(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
		assert.False(t, got.HasHousehold())
	})

	t.Run("duplicate username is a conflict", func(t *testing.T) {
		err := store.CreateUser(ctx, &models.User{Username: "alice", Email: "other@example.com", PasswordHash: "x"})
		assert.ErrorIs(t, err, storage.ErrConflict)
	})

	t.Run("GetUserByID returns ErrNotFound", func(t *testing.T) {
		_, err := store.GetUserByID(ctx, "nonexistent-id")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("GetUsersByIDs omits missing users", func(t *testing.T) {
		bob := createUser(t, store, "bob")
		users, err := store.GetUsersByIDs(ctx, []string{bob.ID, "missing"})
		require.NoError(t, err)
		assert.Len(t, users, 1)
		assert.Equal(t, "bob", users[bob.ID].Username)
	})
}

func TestHouseholdMembership(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	admin := createUser(t, store, "gustavo")
	household := createHousehold(t, store, "Casa A", admin)

	t.Run("CreateHousehold approves the admin", func(t *testing.T) {
		got, err := store.GetUserByID(ctx, admin.ID)
		require.NoError(t, err)
		assert.Equal(t, household.ID, got.HouseholdID)
		assert.Equal(t, models.StatusApproved, got.AssociationStatus)

		h, err := store.GetHousehold(ctx, household.ID)
		require.NoError(t, err)
		assert.Equal(t, admin.ID, h.AdminID)
	})

	t.Run("admin cannot create a second household", func(t *testing.T) {
		err := store.CreateHousehold(ctx, &models.Household{Name: "Casa B", AdminID: admin.ID})
		assert.ErrorIs(t, err, storage.ErrAlreadyMember)
	})

	t.Run("member of another household cannot create one", func(t *testing.T) {
		member := createUser(t, store, "member")
		require.NoError(t, store.JoinHousehold(ctx, member.ID, household.ID))

		err := store.CreateHousehold(ctx, &models.Household{Name: "Casa C", AdminID: member.ID})
		assert.ErrorIs(t, err, storage.ErrAlreadyMember)

		found, err := store.ListHouseholds(ctx, "Casa C", 10, 0)
		require.NoError(t, err)
		assert.Empty(t, found, "household insert must roll back")
	})

	t.Run("duplicate name is a conflict", func(t *testing.T) {
		other := createUser(t, store, "other")
		err := store.CreateHousehold(ctx, &models.Household{Name: "Casa A", AdminID: other.ID})
		assert.ErrorIs(t, err, storage.ErrConflict)
	})

	t.Run("join then approve", func(t *testing.T) {
		x := createUser(t, store, "xavier")
		require.NoError(t, store.JoinHousehold(ctx, x.ID, household.ID))

		pending, err := store.ListHouseholdMembers(ctx, household.ID, models.StatusAwaitingApproval)
		require.NoError(t, err)
		assert.Contains(t, usernames(pending), "xavier")

		require.NoError(t, store.TransitionMembership(ctx, x.ID, household.ID,
			models.StatusAwaitingApproval, models.StatusApproved, false))

		err = store.TransitionMembership(ctx, x.ID, household.ID,
			models.StatusAwaitingApproval, models.StatusApproved, false)
		assert.ErrorIs(t, err, storage.ErrConflict, "second approval must not pass the guard")

		assert.ErrorIs(t, store.JoinHousehold(ctx, x.ID, household.ID), storage.ErrAlreadyMember)
	})

	t.Run("reject clears the household", func(t *testing.T) {
		y := createUser(t, store, "yara")
		require.NoError(t, store.JoinHousehold(ctx, y.ID, household.ID))
		require.NoError(t, store.TransitionMembership(ctx, y.ID, household.ID,
			models.StatusAwaitingApproval, models.StatusNotApproved, true))

		got, err := store.GetUserByID(ctx, y.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusNotApproved, got.AssociationStatus)
		assert.False(t, got.HasHousehold())
	})

	t.Run("join unknown household", func(t *testing.T) {
		z := createUser(t, store, "zed")
		assert.ErrorIs(t, store.JoinHousehold(ctx, z.ID, "missing"), storage.ErrNotFound)
	})
}

func TestListHouseholds(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"Galo Doido", "Casa Verde", "Republica do Galo", "100%"} {
		createHousehold(t, store, name, createUser(t, store, "admin-"+name))
	}

	all, err := store.ListHouseholds(ctx, "", 10, 0)
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "100%", all[0].Name, "ordered by name")

	galo, err := store.ListHouseholds(ctx, "galo", 10, 0)
	require.NoError(t, err)
	assert.Len(t, galo, 2, "search is case-insensitive")

	pct, err := store.ListHouseholds(ctx, "%", 10, 0)
	require.NoError(t, err)
	assert.Len(t, pct, 1, "wildcards in the query are literal")

	page, err := store.ListHouseholds(ctx, "", 2, 2)
	require.NoError(t, err)
	assert.Len(t, page, 2)

	t.Run("case folding covers accented letters", func(t *testing.T) {
		createHousehold(t, store, "República Ébano", createUser(t, store, "admin-ebano"))

		found, err := store.ListHouseholds(ctx, "REPÚBLICA ÉB", 10, 0)
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "República Ébano", found[0].Name)
	})
}

func TestBillsAndShares(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	admin := createUser(t, store, "gustavo")
	household := createHousehold(t, store, "Casa A", admin)
	alex := createUser(t, store, "alex")
	require.NoError(t, store.JoinHousehold(ctx, alex.ID, household.ID))

	newBill := func(name, due string) (*models.Bill, []*models.BillShare) {
		bill := &models.Bill{
			HouseholdID:   household.ID,
			Name:          name,
			Total:         decimal.RequireFromString("100.00"),
			DueDate:       date(due),
			ResponsibleID: admin.ID,
		}
		shares := []*models.BillShare{
			{UserID: admin.ID, Amount: decimal.RequireFromString("50.00")},
			{UserID: alex.ID, Amount: decimal.RequireFromString("50.00")},
		}
		require.NoError(t, store.CreateBill(ctx, bill, shares))
		return bill, shares
	}

	t.Run("CreateBill persists bill and shares", func(t *testing.T) {
		bill, shares := newBill("Luz", "2026-11-10")
		assert.NotEmpty(t, bill.ID)
		assert.Equal(t, models.BillTypeVariable, bill.Type)
		assert.Equal(t, models.BillUnpaid, bill.Status)

		got, err := store.GetBill(ctx, bill.ID)
		require.NoError(t, err)
		assert.True(t, got.Total.Equal(decimal.RequireFromString("100")))
		assert.Equal(t, "2026-11-10", got.DueDate.Format(models.DateLayout))

		for _, share := range shares {
			assert.Equal(t, bill.ID, share.BillID)
			stored, err := store.GetShare(ctx, share.ID)
			require.NoError(t, err)
			assert.Equal(t, "50.00", stored.Amount.StringFixed(2))
			assert.Equal(t, models.PaymentUnpaid, stored.PaymentStatus)
		}
	})

	t.Run("a user cannot hold two shares of one bill", func(t *testing.T) {
		bill := &models.Bill{
			HouseholdID:   household.ID,
			Name:          "Agua",
			Total:         decimal.RequireFromString("10.00"),
			DueDate:       date("2026-11-01"),
			ResponsibleID: admin.ID,
		}
		err := store.CreateBill(ctx, bill, []*models.BillShare{
			{UserID: alex.ID, Amount: decimal.RequireFromString("5.00")},
			{UserID: alex.ID, Amount: decimal.RequireFromString("5.00")},
		})
		assert.ErrorIs(t, err, storage.ErrConflict)

		_, err = store.GetBill(ctx, bill.ID)
		assert.ErrorIs(t, err, storage.ErrNotFound, "bill insert must roll back")
	})

	t.Run("TransitionShare is guarded and refreshes bill status", func(t *testing.T) {
		bill, shares := newBill("Internet", "2026-11-05")

		require.NoError(t, store.TransitionShare(ctx, shares[1].ID, models.PaymentUnpaid, models.PaymentPendingConfirmation))
		err := store.TransitionShare(ctx, shares[1].ID, models.PaymentUnpaid, models.PaymentPendingConfirmation)
		assert.ErrorIs(t, err, storage.ErrConflict)

		got, err := store.GetBill(ctx, bill.ID)
		require.NoError(t, err)
		assert.Equal(t, models.BillUnpaid, got.Status)

		require.NoError(t, store.TransitionShare(ctx, shares[0].ID, models.PaymentUnpaid, models.PaymentPaid))
		got, err = store.GetBill(ctx, bill.ID)
		require.NoError(t, err)
		assert.Equal(t, models.BillPartiallyPaid, got.Status)

		require.NoError(t, store.TransitionShare(ctx, shares[1].ID, models.PaymentPendingConfirmation, models.PaymentPaid))
		got, err = store.GetBill(ctx, bill.ID)
		require.NoError(t, err)
		assert.Equal(t, models.BillPaid, got.Status)

		assert.ErrorIs(t, store.TransitionShare(ctx, "missing", models.PaymentUnpaid, models.PaymentPaid), storage.ErrNotFound)
	})

	t.Run("ListSharesByUser orders pending, unpaid, paid then due date", func(t *testing.T) {
		s := newTestStore(t)
		g := createUser(t, s, "g")
		h := createHousehold(t, s, "H", g)
		u := createUser(t, s, "u")
		require.NoError(t, s.JoinHousehold(ctx, u.ID, h.ID))

		mk := func(name, due string) *models.BillShare {
			share := &models.BillShare{UserID: u.ID, Amount: decimal.RequireFromString("1.00")}
			require.NoError(t, s.CreateBill(ctx, &models.Bill{
				HouseholdID: h.ID, Name: name, Total: decimal.RequireFromString("1.00"),
				DueDate: date(due), ResponsibleID: g.ID,
			}, []*models.BillShare{share}))
			return share
		}
		paid := mk("paid", "2026-01-01")
		lateUnpaid := mk("late-unpaid", "2026-03-01")
		earlyUnpaid := mk("early-unpaid", "2026-02-01")
		pending := mk("pending", "2026-12-01")
		require.NoError(t, s.TransitionShare(ctx, paid.ID, models.PaymentUnpaid, models.PaymentPaid))
		require.NoError(t, s.TransitionShare(ctx, pending.ID, models.PaymentUnpaid, models.PaymentPendingConfirmation))

		details, err := s.ListSharesByUser(ctx, u.ID)
		require.NoError(t, err)
		var got []string
		for _, d := range details {
			got = append(got, d.Share.ID)
		}
		assert.Equal(t, []string{pending.ID, earlyUnpaid.ID, lateUnpaid.ID, paid.ID}, got)

		awaiting, err := s.ListPendingSharesByResponsible(ctx, g.ID)
		require.NoError(t, err)
		require.Len(t, awaiting, 1)
		assert.Equal(t, pending.ID, awaiting[0].Share.ID)
		assert.Equal(t, "u", awaiting[0].Username)
		assert.Equal(t, "pending", awaiting[0].Bill.Name)
	})

	t.Run("DeleteBill cascades shares", func(t *testing.T) {
		bill, shares := newBill("Gas", "2026-11-20")
		require.NoError(t, store.DeleteBill(ctx, bill.ID))

		_, err := store.GetShare(ctx, shares[0].ID)
		assert.ErrorIs(t, err, storage.ErrNotFound)
		assert.ErrorIs(t, store.DeleteBill(ctx, bill.ID), storage.ErrNotFound)
	})
}

func TestDeleteUser(t *testing.T) {
	ctx := context.Background()

	t.Run("responsible user is protected", func(t *testing.T) {
		store := newTestStore(t)
		admin := createUser(t, store, "gustavo")
		household := createHousehold(t, store, "Casa A", admin)
		require.NoError(t, store.CreateBill(ctx, &models.Bill{
			HouseholdID: household.ID, Name: "Luz", Total: decimal.RequireFromString("10.00"),
			DueDate: date("2026-11-10"), ResponsibleID: admin.ID,
		}, nil))

		assert.ErrorIs(t, store.DeleteUser(ctx, admin.ID), storage.ErrProtected)
		_, err := store.GetUserByID(ctx, admin.ID)
		assert.NoError(t, err)
	})

	t.Run("deleting the admin deletes the household and unlinks members", func(t *testing.T) {
		store := newTestStore(t)
		admin := createUser(t, store, "gustavo")
		household := createHousehold(t, store, "Casa A", admin)
		member := createUser(t, store, "alex")
		require.NoError(t, store.JoinHousehold(ctx, member.ID, household.ID))
		require.NoError(t, store.TransitionMembership(ctx, member.ID, household.ID,
			models.StatusAwaitingApproval, models.StatusApproved, false))

		require.NoError(t, store.DeleteUser(ctx, admin.ID))

		_, err := store.GetHousehold(ctx, household.ID)
		assert.ErrorIs(t, err, storage.ErrNotFound)

		got, err := store.GetUserByID(ctx, member.ID)
		require.NoError(t, err)
		assert.False(t, got.HasHousehold())
		assert.Equal(t, models.StatusAwaitingApproval, got.AssociationStatus)
	})

	t.Run("deleting a participant removes their shares", func(t *testing.T) {
		store := newTestStore(t)
		admin := createUser(t, store, "gustavo")
		household := createHousehold(t, store, "Casa A", admin)
		member := createUser(t, store, "alex")
		require.NoError(t, store.JoinHousehold(ctx, member.ID, household.ID))
		own := &models.BillShare{UserID: admin.ID, Amount: decimal.RequireFromString("45.00")}
		share := &models.BillShare{UserID: member.ID, Amount: decimal.RequireFromString("45.00")}
		bill := &models.Bill{
			HouseholdID: household.ID, Name: "Luz", Total: decimal.RequireFromString("90.00"),
			DueDate: date("2026-11-10"), ResponsibleID: admin.ID,
		}
		require.NoError(t, store.CreateBill(ctx, bill, []*models.BillShare{own, share}))
		require.NoError(t, store.TransitionShare(ctx, own.ID, models.PaymentUnpaid, models.PaymentPaid))

		got, err := store.GetBill(ctx, bill.ID)
		require.NoError(t, err)
		require.Equal(t, models.BillPartiallyPaid, got.Status)

		require.NoError(t, store.DeleteUser(ctx, member.ID))
		_, err = store.GetShare(ctx, share.ID)
		assert.ErrorIs(t, err, storage.ErrNotFound)

		got, err = store.GetBill(ctx, bill.ID)
		require.NoError(t, err)
		assert.Equal(t, models.BillPaid, got.Status, "status follows the remaining shares")
	})

	t.Run("unknown user", func(t *testing.T) {
		store := newTestStore(t)
		assert.ErrorIs(t, store.DeleteUser(ctx, "missing"), storage.ErrNotFound)
	})
}

func usernames(users []*models.User) []string {
	names := make([]string, len(users))
	for i, u := range users {
		names[i] = u.Username
	}
	return names
}
