package service

import (
	"context"
	"log/slog"
	"time"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/mmynk/republica/internal/ledger"
	"github.com/mmynk/republica/internal/models"
	"github.com/mmynk/republica/pkg/api"
)

// BillService implements the Connect BillService.
type BillService struct {
	ledger *ledger.Service
}

// NewBillService creates a BillService backed by the ledger.
func NewBillService(svc *ledger.Service) *BillService {
	return &BillService{ledger: svc}
}

// CreateBill records a bill and splits it across the chosen participants.
func (s *BillService) CreateBill(ctx context.Context, req *connect.Request[api.CreateBillRequest]) (*connect.Response[api.CreateBillResponse], error) {
	actorID, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("CreateBill request received",
		"user_id", actorID,
		"name", req.Msg.Name,
		"total", req.Msg.Total,
		"participants_count", len(req.Msg.ParticipantIDs),
	)

	total, err := decimal.NewFromString(req.Msg.Total)
	if err != nil {
		return nil, invalidArgument("Bill total must be a number such as 120.00.")
	}
	dueDate, err := time.Parse(models.DateLayout, req.Msg.DueDate)
	if err != nil {
		return nil, invalidArgument("Due date must be formatted as YYYY-MM-DD.")
	}

	bill, shares, notice, err := s.ledger.CreateBill(ctx, actorID, ledger.BillInput{
		Name:           req.Msg.Name,
		Total:          total,
		DueDate:        dueDate,
		Type:           models.BillType(req.Msg.Type),
		ParticipantIDs: req.Msg.ParticipantIDs,
	})
	if err != nil {
		return nil, toConnectError(err)
	}

	resp := &api.CreateBillResponse{
		Bill:     toBill(bill),
		Shares:   make([]*api.Share, len(shares)),
		Notice:   toNotice(notice),
		Redirect: dashboardPath,
	}
	for i, share := range shares {
		resp.Shares[i] = toShare(share)
	}
	return connect.NewResponse(resp), nil
}

// DeleteBill removes a bill and its shares.
func (s *BillService) DeleteBill(ctx context.Context, req *connect.Request[api.DeleteBillRequest]) (*connect.Response[api.NoticeResponse], error) {
	return s.apply(ctx, "DeleteBill", "bill_id", req.Msg.BillID, s.ledger.DeleteBill)
}

// MarkPaid records the caller's payment of their share.
func (s *BillService) MarkPaid(ctx context.Context, req *connect.Request[api.MarkPaidRequest]) (*connect.Response[api.NoticeResponse], error) {
	return s.apply(ctx, "MarkPaid", "share_id", req.Msg.ShareID, s.ledger.MarkPaid)
}

// ConfirmPayment accepts a payment claim on a bill the caller is responsible for.
func (s *BillService) ConfirmPayment(ctx context.Context, req *connect.Request[api.ConfirmPaymentRequest]) (*connect.Response[api.NoticeResponse], error) {
	return s.apply(ctx, "ConfirmPayment", "share_id", req.Msg.ShareID, s.ledger.ConfirmPayment)
}

// RejectPayment sends a payment claim back to unpaid.
func (s *BillService) RejectPayment(ctx context.Context, req *connect.Request[api.RejectPaymentRequest]) (*connect.Response[api.NoticeResponse], error) {
	return s.apply(ctx, "RejectPayment", "share_id", req.Msg.ShareID, s.ledger.RejectPayment)
}

func (s *BillService) apply(ctx context.Context, op, key, id string, fn func(ctx context.Context, actorID, id string) (ledger.Notice, error)) (*connect.Response[api.NoticeResponse], error) {
	actorID, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	if id == "" {
		return nil, invalidArgument("An identifier is required.")
	}
	slog.Info(op+" request received", "user_id", actorID, key, id)

	notice, err := fn(ctx, actorID, id)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(noticeResponse(notice)), nil
}

// GetDashboard returns the caller's shares and pending work.
func (s *BillService) GetDashboard(ctx context.Context, req *connect.Request[api.GetDashboardRequest]) (*connect.Response[api.GetDashboardResponse], error) {
	actorID, err := actor(ctx)
	if err != nil {
		return nil, err
	}

	dash, err := s.ledger.Dashboard(ctx, actorID)
	if err != nil {
		return nil, toConnectError(err)
	}

	resp := &api.GetDashboardResponse{
		User:         toUser(dash.User),
		Household:    toHousehold(dash.Household),
		Shares:       make([]*api.Share, len(dash.Shares)),
		JoinRequests: toUsers(dash.JoinRequests),
	}
	for i, entry := range dash.Shares {
		resp.Shares[i] = toShareDetail(entry.ShareDetail)
		resp.Shares[i].Overdue = entry.Overdue
	}
	for _, detail := range dash.PendingConfirmations {
		resp.PendingConfirmations = append(resp.PendingConfirmations, toShareDetail(detail))
	}

	slog.Info("GetDashboard successful", "user_id", actorID, "shares_count", len(resp.Shares))
	return connect.NewResponse(resp), nil
}
