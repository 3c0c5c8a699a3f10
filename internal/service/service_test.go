package service

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/republica/internal/auth"
	"github.com/mmynk/republica/internal/ledger"
	"github.com/mmynk/republica/internal/middleware"
	"github.com/mmynk/republica/internal/storage/sqlite"
	"github.com/mmynk/republica/pkg/api"
)

type testServer struct {
	url string
}

// setupTestServer serves all three services behind the auth interceptor, the
// way the server binary wires them.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)

	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	authenticator := auth.NewPasswordAuthenticator(store).WithCost(bcrypt.MinCost)
	svc := ledger.New(store)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	interceptors := connect.WithInterceptors(
		middleware.RequireAuth(jwtManager, api.PublicProcedures...),
		middleware.LoggingInterceptor(),
	)

	mux := http.NewServeMux()
	mux.Handle(api.NewAuthServiceHandler(NewAuthService(authenticator, jwtManager, svc, store, logger), interceptors))
	mux.Handle(api.NewHouseholdServiceHandler(NewHouseholdService(svc), interceptors))
	mux.Handle(api.NewBillServiceHandler(NewBillService(svc), interceptors))

	server := httptest.NewServer(mux)
	t.Cleanup(func() {
		server.Close()
		store.Close()
	})
	return &testServer{url: server.URL}
}

// resident is a signed-in user with clients that send their token.
type resident struct {
	id         string
	auth       api.AuthServiceClient
	households api.HouseholdServiceClient
	bills      api.BillServiceClient
}

func bearer(token string) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			req.Header().Set("Authorization", "Bearer "+token)
			return next(ctx, req)
		}
	}
}

func (s *testServer) register(t *testing.T, username string) *resident {
	t.Helper()
	resp, err := api.NewAuthServiceClient(http.DefaultClient, s.url).Register(context.Background(),
		connect.NewRequest(&api.RegisterRequest{Username: username, Password: "correct horse"}))
	require.NoError(t, err)

	opt := connect.WithInterceptors(bearer(resp.Msg.Token))
	return &resident{
		id:         resp.Msg.User.ID,
		auth:       api.NewAuthServiceClient(http.DefaultClient, s.url, opt),
		households: api.NewHouseholdServiceClient(http.DefaultClient, s.url, opt),
		bills:      api.NewBillServiceClient(http.DefaultClient, s.url, opt),
	}
}

// household creates a household for admin and approves the members into it.
func (s *testServer) household(t *testing.T, name string, admin *resident, members ...*resident) string {
	t.Helper()
	ctx := context.Background()
	created, err := admin.households.CreateHousehold(ctx, connect.NewRequest(&api.CreateHouseholdRequest{Name: name}))
	require.NoError(t, err)
	id := created.Msg.Household.ID
	for _, m := range members {
		_, err := m.households.RequestJoin(ctx, connect.NewRequest(&api.RequestJoinRequest{HouseholdID: id}))
		require.NoError(t, err)
		_, err = admin.households.ApproveMember(ctx, connect.NewRequest(&api.ApproveMemberRequest{UserID: m.id}))
		require.NoError(t, err)
	}
	return id
}

func assertCode(t *testing.T, err error, code connect.Code, level string) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, code, connect.CodeOf(err))
	if level != "" {
		assert.Equal(t, level, api.NoticeLevelOf(err))
	}
}

func TestAuthService(t *testing.T) {
	ctx := context.Background()
	s := setupTestServer(t)
	public := api.NewAuthServiceClient(http.DefaultClient, s.url)

	reg, err := public.Register(ctx, connect.NewRequest(&api.RegisterRequest{
		Username: "gustavo",
		Email:    "gustavo@example.com",
		Nickname: "Gus",
		Password: "correct horse",
	}))
	require.NoError(t, err)
	assert.NotEmpty(t, reg.Msg.Token)
	assert.Equal(t, "AWAITING_APPROVAL", reg.Msg.User.AssociationStatus)
	assert.Equal(t, "/dashboard", reg.Msg.Redirect)

	t.Run("duplicate username", func(t *testing.T) {
		_, err := public.Register(ctx, connect.NewRequest(&api.RegisterRequest{Username: "gustavo", Password: "correct horse"}))
		assertCode(t, err, connect.CodeAlreadyExists, "error")
	})

	t.Run("weak password", func(t *testing.T) {
		_, err := public.Register(ctx, connect.NewRequest(&api.RegisterRequest{Username: "alex", Password: "short"}))
		assertCode(t, err, connect.CodeInvalidArgument, "error")
	})

	t.Run("login", func(t *testing.T) {
		resp, err := public.Login(ctx, connect.NewRequest(&api.LoginRequest{Username: "gustavo", Password: "correct horse"}))
		require.NoError(t, err)
		assert.Equal(t, reg.Msg.User.ID, resp.Msg.User.ID)
		assert.Greater(t, resp.Msg.ExpiresAt, time.Now().Unix())

		_, err = public.Login(ctx, connect.NewRequest(&api.LoginRequest{Username: "gustavo", Password: "wrong password"}))
		assertCode(t, err, connect.CodeUnauthenticated, "")
	})

	t.Run("protected procedures need a token", func(t *testing.T) {
		_, err := public.GetCurrentUser(ctx, connect.NewRequest(&api.GetCurrentUserRequest{}))
		assertCode(t, err, connect.CodeUnauthenticated, "")

		bad := api.NewAuthServiceClient(http.DefaultClient, s.url, connect.WithInterceptors(bearer("garbage")))
		_, err = bad.GetCurrentUser(ctx, connect.NewRequest(&api.GetCurrentUserRequest{}))
		assertCode(t, err, connect.CodeUnauthenticated, "")
	})

	t.Run("current user", func(t *testing.T) {
		client := api.NewAuthServiceClient(http.DefaultClient, s.url, connect.WithInterceptors(bearer(reg.Msg.Token)))
		resp, err := client.GetCurrentUser(ctx, connect.NewRequest(&api.GetCurrentUserRequest{}))
		require.NoError(t, err)
		assert.Equal(t, "gustavo", resp.Msg.User.Username)
		assert.Equal(t, "Gus", resp.Msg.User.Nickname)
		assert.Nil(t, resp.Msg.Household)
	})
}

func TestHouseholdService(t *testing.T) {
	ctx := context.Background()
	s := setupTestServer(t)
	gustavo := s.register(t, "gustavo")
	xavier := s.register(t, "xavier")

	created, err := gustavo.households.CreateHousehold(ctx, connect.NewRequest(&api.CreateHouseholdRequest{Name: "Casa A"}))
	require.NoError(t, err)
	assert.Equal(t, "success", created.Msg.Notice.Level)
	assert.Equal(t, gustavo.id, created.Msg.Household.AdminID)
	householdID := created.Msg.Household.ID

	list, err := xavier.households.ListHouseholds(ctx, connect.NewRequest(&api.ListHouseholdsRequest{Query: "casa"}))
	require.NoError(t, err)
	require.Len(t, list.Msg.Households, 1)
	assert.Equal(t, 1, list.Msg.Page)
	assert.False(t, list.Msg.HasNext)

	_, err = gustavo.households.ListHouseholds(ctx, connect.NewRequest(&api.ListHouseholdsRequest{}))
	assertCode(t, err, connect.CodeAlreadyExists, "error")

	joined, err := xavier.households.RequestJoin(ctx, connect.NewRequest(&api.RequestJoinRequest{HouseholdID: householdID}))
	require.NoError(t, err)
	assert.Equal(t, "/dashboard", joined.Msg.Redirect)

	dash, err := gustavo.bills.GetDashboard(ctx, connect.NewRequest(&api.GetDashboardRequest{}))
	require.NoError(t, err)
	require.Len(t, dash.Msg.JoinRequests, 1)
	assert.Equal(t, xavier.id, dash.Msg.JoinRequests[0].ID)

	_, err = xavier.households.ApproveMember(ctx, connect.NewRequest(&api.ApproveMemberRequest{UserID: xavier.id}))
	assertCode(t, err, connect.CodePermissionDenied, "error")

	_, err = gustavo.households.ApproveMember(ctx, connect.NewRequest(&api.ApproveMemberRequest{UserID: xavier.id}))
	require.NoError(t, err)

	_, err = gustavo.households.ApproveMember(ctx, connect.NewRequest(&api.ApproveMemberRequest{UserID: xavier.id}))
	assertCode(t, err, connect.CodeFailedPrecondition, "warning")

	eligible, err := xavier.households.ListEligibleParticipants(ctx, connect.NewRequest(&api.ListEligibleParticipantsRequest{}))
	require.NoError(t, err)
	require.Len(t, eligible.Msg.Users, 2)
	assert.Equal(t, "gustavo", eligible.Msg.Users[0].Username)

	removed, err := gustavo.households.RemoveMember(ctx, connect.NewRequest(&api.RemoveMemberRequest{UserID: xavier.id}))
	require.NoError(t, err)
	assert.Equal(t, "success", removed.Msg.Notice.Level)

	me, err := xavier.auth.GetCurrentUser(ctx, connect.NewRequest(&api.GetCurrentUserRequest{}))
	require.NoError(t, err)
	assert.Empty(t, me.Msg.User.HouseholdID)
	assert.Equal(t, "NOT_APPROVED", me.Msg.User.AssociationStatus)

	_, err = gustavo.households.RejectMember(ctx, connect.NewRequest(&api.RejectMemberRequest{}))
	assertCode(t, err, connect.CodeInvalidArgument, "error")
}

func TestBillService(t *testing.T) {
	ctx := context.Background()
	s := setupTestServer(t)
	gustavo := s.register(t, "gustavo")
	alex := s.register(t, "alex")
	bia := s.register(t, "bia")
	s.household(t, "Casa A", gustavo, alex, bia)

	created, err := gustavo.bills.CreateBill(ctx, connect.NewRequest(&api.CreateBillRequest{
		Name:           "Aluguel",
		Total:          "120.00",
		DueDate:        "2026-11-10",
		Type:           "FIXED",
		ParticipantIDs: []string{gustavo.id, alex.id, bia.id},
	}))
	require.NoError(t, err)
	assert.Equal(t, "120.00", created.Msg.Bill.Total)
	assert.Equal(t, "2026-11-10", created.Msg.Bill.DueDate)
	assert.Equal(t, "UNPAID", created.Msg.Bill.Status)
	require.Len(t, created.Msg.Shares, 3)
	for _, share := range created.Msg.Shares {
		assert.Equal(t, "40.00", share.Amount)
	}

	t.Run("malformed input", func(t *testing.T) {
		_, err := gustavo.bills.CreateBill(ctx, connect.NewRequest(&api.CreateBillRequest{
			Name: "Luz", Total: "lots", DueDate: "2026-11-10",
		}))
		assertCode(t, err, connect.CodeInvalidArgument, "error")

		_, err = gustavo.bills.CreateBill(ctx, connect.NewRequest(&api.CreateBillRequest{
			Name: "Luz", Total: "10.00", DueDate: "10/11/2026",
		}))
		assertCode(t, err, connect.CodeInvalidArgument, "error")
	})

	var alexShare *api.Share
	for _, share := range created.Msg.Shares {
		if share.UserID == alex.id {
			alexShare = share
		}
	}
	require.NotNil(t, alexShare)

	_, err = bia.bills.MarkPaid(ctx, connect.NewRequest(&api.MarkPaidRequest{ShareID: alexShare.ID}))
	assertCode(t, err, connect.CodePermissionDenied, "error")

	_, err = alex.bills.MarkPaid(ctx, connect.NewRequest(&api.MarkPaidRequest{ShareID: alexShare.ID}))
	require.NoError(t, err)

	dash, err := gustavo.bills.GetDashboard(ctx, connect.NewRequest(&api.GetDashboardRequest{}))
	require.NoError(t, err)
	require.Len(t, dash.Msg.PendingConfirmations, 1)
	pending := dash.Msg.PendingConfirmations[0]
	assert.Equal(t, alexShare.ID, pending.ID)
	assert.Equal(t, "alex", pending.Username)
	assert.Equal(t, "Aluguel", pending.Bill.Name)

	_, err = alex.bills.ConfirmPayment(ctx, connect.NewRequest(&api.ConfirmPaymentRequest{ShareID: alexShare.ID}))
	assertCode(t, err, connect.CodePermissionDenied, "error")

	confirmed, err := gustavo.bills.ConfirmPayment(ctx, connect.NewRequest(&api.ConfirmPaymentRequest{ShareID: alexShare.ID}))
	require.NoError(t, err)
	assert.Equal(t, "success", confirmed.Msg.Notice.Level)

	_, err = gustavo.bills.RejectPayment(ctx, connect.NewRequest(&api.RejectPaymentRequest{ShareID: alexShare.ID}))
	assertCode(t, err, connect.CodeFailedPrecondition, "warning")

	mine, err := alex.bills.GetDashboard(ctx, connect.NewRequest(&api.GetDashboardRequest{}))
	require.NoError(t, err)
	require.Len(t, mine.Msg.Shares, 1)
	assert.Equal(t, "PAID", mine.Msg.Shares[0].PaymentStatus)
	assert.Equal(t, "PARTIALLY_PAID", mine.Msg.Shares[0].Bill.Status)

	t.Run("delete", func(t *testing.T) {
		_, err := alex.bills.DeleteBill(ctx, connect.NewRequest(&api.DeleteBillRequest{BillID: created.Msg.Bill.ID}))
		assertCode(t, err, connect.CodePermissionDenied, "error")

		_, err = gustavo.bills.DeleteBill(ctx, connect.NewRequest(&api.DeleteBillRequest{BillID: created.Msg.Bill.ID}))
		require.NoError(t, err)

		_, err = gustavo.bills.DeleteBill(ctx, connect.NewRequest(&api.DeleteBillRequest{BillID: created.Msg.Bill.ID}))
		assertCode(t, err, connect.CodeNotFound, "error")
	})
}

func TestDeleteAccount(t *testing.T) {
	ctx := context.Background()
	s := setupTestServer(t)
	gustavo := s.register(t, "gustavo")
	alex := s.register(t, "alex")
	s.household(t, "Casa A", gustavo, alex)

	_, err := gustavo.bills.CreateBill(ctx, connect.NewRequest(&api.CreateBillRequest{
		Name: "Internet", Total: "99.90", DueDate: "2026-11-05",
		ParticipantIDs: []string{alex.id},
	}))
	require.NoError(t, err)

	_, err = gustavo.auth.DeleteAccount(ctx, connect.NewRequest(&api.DeleteAccountRequest{}))
	assertCode(t, err, connect.CodeFailedPrecondition, "error")

	resp, err := alex.auth.DeleteAccount(ctx, connect.NewRequest(&api.DeleteAccountRequest{}))
	require.NoError(t, err)
	assert.Equal(t, "/login", resp.Msg.Redirect)

	_, err = alex.auth.GetCurrentUser(ctx, connect.NewRequest(&api.GetCurrentUserRequest{}))
	assertCode(t, err, connect.CodeUnauthenticated, "")
}
