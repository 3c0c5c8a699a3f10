package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/republica/internal/ledger"
	"github.com/mmynk/republica/pkg/api"
)

// HouseholdService implements the Connect HouseholdService.
type HouseholdService struct {
	ledger *ledger.Service
}

// NewHouseholdService creates a HouseholdService backed by the ledger.
func NewHouseholdService(svc *ledger.Service) *HouseholdService {
	return &HouseholdService{ledger: svc}
}

// CreateHousehold creates a household administered by the caller.
func (s *HouseholdService) CreateHousehold(ctx context.Context, req *connect.Request[api.CreateHouseholdRequest]) (*connect.Response[api.CreateHouseholdResponse], error) {
	actorID, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("CreateHousehold request received", "user_id", actorID, "name", req.Msg.Name)

	household, notice, err := s.ledger.CreateHousehold(ctx, actorID, req.Msg.Name)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.CreateHouseholdResponse{
		Household: toHousehold(household),
		Notice:    toNotice(notice),
		Redirect:  dashboardPath,
	}), nil
}

// ListHouseholds searches households by name for a caller without one.
func (s *HouseholdService) ListHouseholds(ctx context.Context, req *connect.Request[api.ListHouseholdsRequest]) (*connect.Response[api.ListHouseholdsResponse], error) {
	actorID, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	page := max(req.Msg.Page, 1)
	slog.Info("ListHouseholds request received", "user_id", actorID, "query", req.Msg.Query, "page", page)

	households, err := s.ledger.ListHouseholds(ctx, actorID, req.Msg.Query, page)
	if err != nil {
		return nil, toConnectError(err)
	}

	resp := &api.ListHouseholdsResponse{
		Households: make([]*api.Household, len(households)),
		Page:       page,
		HasNext:    len(households) == ledger.PageSize,
	}
	for i, h := range households {
		resp.Households[i] = toHousehold(h)
	}
	return connect.NewResponse(resp), nil
}

// RequestJoin asks to join a household.
func (s *HouseholdService) RequestJoin(ctx context.Context, req *connect.Request[api.RequestJoinRequest]) (*connect.Response[api.NoticeResponse], error) {
	actorID, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("RequestJoin request received", "user_id", actorID, "household_id", req.Msg.HouseholdID)

	notice, err := s.ledger.RequestJoin(ctx, actorID, req.Msg.HouseholdID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(noticeResponse(notice)), nil
}

// ApproveMember accepts a pending join request.
func (s *HouseholdService) ApproveMember(ctx context.Context, req *connect.Request[api.ApproveMemberRequest]) (*connect.Response[api.NoticeResponse], error) {
	return s.moderate(ctx, "ApproveMember", req.Msg.UserID, s.ledger.ApproveMember)
}

// RejectMember declines a pending join request.
func (s *HouseholdService) RejectMember(ctx context.Context, req *connect.Request[api.RejectMemberRequest]) (*connect.Response[api.NoticeResponse], error) {
	return s.moderate(ctx, "RejectMember", req.Msg.UserID, s.ledger.RejectMember)
}

// RemoveMember removes an approved member.
func (s *HouseholdService) RemoveMember(ctx context.Context, req *connect.Request[api.RemoveMemberRequest]) (*connect.Response[api.NoticeResponse], error) {
	return s.moderate(ctx, "RemoveMember", req.Msg.UserID, s.ledger.RemoveMember)
}

func (s *HouseholdService) moderate(ctx context.Context, op, userID string, apply func(ctx context.Context, actorID, userID string) (ledger.Notice, error)) (*connect.Response[api.NoticeResponse], error) {
	actorID, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	if userID == "" {
		return nil, invalidArgument("A user is required.")
	}
	slog.Info(op+" request received", "user_id", actorID, "target_id", userID)

	notice, err := apply(ctx, actorID, userID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(noticeResponse(notice)), nil
}

// ListEligibleParticipants lists who can share the caller's next bill.
func (s *HouseholdService) ListEligibleParticipants(ctx context.Context, req *connect.Request[api.ListEligibleParticipantsRequest]) (*connect.Response[api.ListEligibleParticipantsResponse], error) {
	actorID, err := actor(ctx)
	if err != nil {
		return nil, err
	}

	users, err := s.ledger.EligibleParticipants(ctx, actorID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.ListEligibleParticipantsResponse{Users: toUsers(users)}), nil
}
