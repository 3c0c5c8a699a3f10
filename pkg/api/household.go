package api

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

// HouseholdServiceName is the fully-qualified name of the HouseholdService service.
const HouseholdServiceName = "republica.v1.HouseholdService"

const (
	HouseholdServiceCreateHouseholdProcedure          = "/republica.v1.HouseholdService/CreateHousehold"
	HouseholdServiceListHouseholdsProcedure           = "/republica.v1.HouseholdService/ListHouseholds"
	HouseholdServiceRequestJoinProcedure              = "/republica.v1.HouseholdService/RequestJoin"
	HouseholdServiceApproveMemberProcedure            = "/republica.v1.HouseholdService/ApproveMember"
	HouseholdServiceRejectMemberProcedure             = "/republica.v1.HouseholdService/RejectMember"
	HouseholdServiceRemoveMemberProcedure             = "/republica.v1.HouseholdService/RemoveMember"
	HouseholdServiceListEligibleParticipantsProcedure = "/republica.v1.HouseholdService/ListEligibleParticipants"
)

// HouseholdServiceHandler is implemented by the server side of HouseholdService.
type HouseholdServiceHandler interface {
	CreateHousehold(context.Context, *connect.Request[CreateHouseholdRequest]) (*connect.Response[CreateHouseholdResponse], error)
	ListHouseholds(context.Context, *connect.Request[ListHouseholdsRequest]) (*connect.Response[ListHouseholdsResponse], error)
	RequestJoin(context.Context, *connect.Request[RequestJoinRequest]) (*connect.Response[NoticeResponse], error)
	ApproveMember(context.Context, *connect.Request[ApproveMemberRequest]) (*connect.Response[NoticeResponse], error)
	RejectMember(context.Context, *connect.Request[RejectMemberRequest]) (*connect.Response[NoticeResponse], error)
	RemoveMember(context.Context, *connect.Request[RemoveMemberRequest]) (*connect.Response[NoticeResponse], error)
	ListEligibleParticipants(context.Context, *connect.Request[ListEligibleParticipantsRequest]) (*connect.Response[ListEligibleParticipantsResponse], error)
}

// NewHouseholdServiceHandler builds an HTTP handler from the service implementation.
func NewHouseholdServiceHandler(svc HouseholdServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return route("/"+HouseholdServiceName+"/", map[string]http.Handler{
		HouseholdServiceCreateHouseholdProcedure:          connect.NewUnaryHandler(HouseholdServiceCreateHouseholdProcedure, svc.CreateHousehold, opts...),
		HouseholdServiceListHouseholdsProcedure:           connect.NewUnaryHandler(HouseholdServiceListHouseholdsProcedure, svc.ListHouseholds, opts...),
		HouseholdServiceRequestJoinProcedure:              connect.NewUnaryHandler(HouseholdServiceRequestJoinProcedure, svc.RequestJoin, opts...),
		HouseholdServiceApproveMemberProcedure:            connect.NewUnaryHandler(HouseholdServiceApproveMemberProcedure, svc.ApproveMember, opts...),
		HouseholdServiceRejectMemberProcedure:             connect.NewUnaryHandler(HouseholdServiceRejectMemberProcedure, svc.RejectMember, opts...),
		HouseholdServiceRemoveMemberProcedure:             connect.NewUnaryHandler(HouseholdServiceRemoveMemberProcedure, svc.RemoveMember, opts...),
		HouseholdServiceListEligibleParticipantsProcedure: connect.NewUnaryHandler(HouseholdServiceListEligibleParticipantsProcedure, svc.ListEligibleParticipants, opts...),
	})
}

// HouseholdServiceClient is a client for the republica.v1.HouseholdService service.
type HouseholdServiceClient interface {
	CreateHousehold(context.Context, *connect.Request[CreateHouseholdRequest]) (*connect.Response[CreateHouseholdResponse], error)
	ListHouseholds(context.Context, *connect.Request[ListHouseholdsRequest]) (*connect.Response[ListHouseholdsResponse], error)
	RequestJoin(context.Context, *connect.Request[RequestJoinRequest]) (*connect.Response[NoticeResponse], error)
	ApproveMember(context.Context, *connect.Request[ApproveMemberRequest]) (*connect.Response[NoticeResponse], error)
	RejectMember(context.Context, *connect.Request[RejectMemberRequest]) (*connect.Response[NoticeResponse], error)
	RemoveMember(context.Context, *connect.Request[RemoveMemberRequest]) (*connect.Response[NoticeResponse], error)
	ListEligibleParticipants(context.Context, *connect.Request[ListEligibleParticipantsRequest]) (*connect.Response[ListEligibleParticipantsResponse], error)
}

// NewHouseholdServiceClient constructs a client for HouseholdService.
func NewHouseholdServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) HouseholdServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &householdServiceClient{
		createHousehold:          connect.NewClient[CreateHouseholdRequest, CreateHouseholdResponse](httpClient, baseURL+HouseholdServiceCreateHouseholdProcedure, opts...),
		listHouseholds:           connect.NewClient[ListHouseholdsRequest, ListHouseholdsResponse](httpClient, baseURL+HouseholdServiceListHouseholdsProcedure, opts...),
		requestJoin:              connect.NewClient[RequestJoinRequest, NoticeResponse](httpClient, baseURL+HouseholdServiceRequestJoinProcedure, opts...),
		approveMember:            connect.NewClient[ApproveMemberRequest, NoticeResponse](httpClient, baseURL+HouseholdServiceApproveMemberProcedure, opts...),
		rejectMember:             connect.NewClient[RejectMemberRequest, NoticeResponse](httpClient, baseURL+HouseholdServiceRejectMemberProcedure, opts...),
		removeMember:             connect.NewClient[RemoveMemberRequest, NoticeResponse](httpClient, baseURL+HouseholdServiceRemoveMemberProcedure, opts...),
		listEligibleParticipants: connect.NewClient[ListEligibleParticipantsRequest, ListEligibleParticipantsResponse](httpClient, baseURL+HouseholdServiceListEligibleParticipantsProcedure, opts...),
	}
}

type householdServiceClient struct {
	createHousehold          *connect.Client[CreateHouseholdRequest, CreateHouseholdResponse]
	listHouseholds           *connect.Client[ListHouseholdsRequest, ListHouseholdsResponse]
	requestJoin              *connect.Client[RequestJoinRequest, NoticeResponse]
	approveMember            *connect.Client[ApproveMemberRequest, NoticeResponse]
	rejectMember             *connect.Client[RejectMemberRequest, NoticeResponse]
	removeMember             *connect.Client[RemoveMemberRequest, NoticeResponse]
	listEligibleParticipants *connect.Client[ListEligibleParticipantsRequest, ListEligibleParticipantsResponse]
}

func (c *householdServiceClient) CreateHousehold(ctx context.Context, req *connect.Request[CreateHouseholdRequest]) (*connect.Response[CreateHouseholdResponse], error) {
	return c.createHousehold.CallUnary(ctx, req)
}

func (c *householdServiceClient) ListHouseholds(ctx context.Context, req *connect.Request[ListHouseholdsRequest]) (*connect.Response[ListHouseholdsResponse], error) {
	return c.listHouseholds.CallUnary(ctx, req)
}

func (c *householdServiceClient) RequestJoin(ctx context.Context, req *connect.Request[RequestJoinRequest]) (*connect.Response[NoticeResponse], error) {
	return c.requestJoin.CallUnary(ctx, req)
}

func (c *householdServiceClient) ApproveMember(ctx context.Context, req *connect.Request[ApproveMemberRequest]) (*connect.Response[NoticeResponse], error) {
	return c.approveMember.CallUnary(ctx, req)
}

func (c *householdServiceClient) RejectMember(ctx context.Context, req *connect.Request[RejectMemberRequest]) (*connect.Response[NoticeResponse], error) {
	return c.rejectMember.CallUnary(ctx, req)
}

func (c *householdServiceClient) RemoveMember(ctx context.Context, req *connect.Request[RemoveMemberRequest]) (*connect.Response[NoticeResponse], error) {
	return c.removeMember.CallUnary(ctx, req)
}

func (c *householdServiceClient) ListEligibleParticipants(ctx context.Context, req *connect.Request[ListEligibleParticipantsRequest]) (*connect.Response[ListEligibleParticipantsResponse], error) {
	return c.listEligibleParticipants.CallUnary(ctx, req)
}
