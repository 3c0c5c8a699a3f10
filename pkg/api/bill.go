package api

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

// BillServiceName is the fully-qualified name of the BillService service.
const BillServiceName = "republica.v1.BillService"

const (
	BillServiceCreateBillProcedure     = "/republica.v1.BillService/CreateBill"
	BillServiceDeleteBillProcedure     = "/republica.v1.BillService/DeleteBill"
	BillServiceMarkPaidProcedure       = "/republica.v1.BillService/MarkPaid"
	BillServiceConfirmPaymentProcedure = "/republica.v1.BillService/ConfirmPayment"
	BillServiceRejectPaymentProcedure  = "/republica.v1.BillService/RejectPayment"
	BillServiceGetDashboardProcedure   = "/republica.v1.BillService/GetDashboard"
)

// BillServiceHandler is implemented by the server side of BillService.
type BillServiceHandler interface {
	CreateBill(context.Context, *connect.Request[CreateBillRequest]) (*connect.Response[CreateBillResponse], error)
	DeleteBill(context.Context, *connect.Request[DeleteBillRequest]) (*connect.Response[NoticeResponse], error)
	MarkPaid(context.Context, *connect.Request[MarkPaidRequest]) (*connect.Response[NoticeResponse], error)
	ConfirmPayment(context.Context, *connect.Request[ConfirmPaymentRequest]) (*connect.Response[NoticeResponse], error)
	RejectPayment(context.Context, *connect.Request[RejectPaymentRequest]) (*connect.Response[NoticeResponse], error)
	GetDashboard(context.Context, *connect.Request[GetDashboardRequest]) (*connect.Response[GetDashboardResponse], error)
}

// NewBillServiceHandler builds an HTTP handler from the service implementation.
func NewBillServiceHandler(svc BillServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return route("/"+BillServiceName+"/", map[string]http.Handler{
		BillServiceCreateBillProcedure:     connect.NewUnaryHandler(BillServiceCreateBillProcedure, svc.CreateBill, opts...),
		BillServiceDeleteBillProcedure:     connect.NewUnaryHandler(BillServiceDeleteBillProcedure, svc.DeleteBill, opts...),
		BillServiceMarkPaidProcedure:       connect.NewUnaryHandler(BillServiceMarkPaidProcedure, svc.MarkPaid, opts...),
		BillServiceConfirmPaymentProcedure: connect.NewUnaryHandler(BillServiceConfirmPaymentProcedure, svc.ConfirmPayment, opts...),
		BillServiceRejectPaymentProcedure:  connect.NewUnaryHandler(BillServiceRejectPaymentProcedure, svc.RejectPayment, opts...),
		BillServiceGetDashboardProcedure:   connect.NewUnaryHandler(BillServiceGetDashboardProcedure, svc.GetDashboard, opts...),
	})
}

// BillServiceClient is a client for the republica.v1.BillService service.
type BillServiceClient interface {
	CreateBill(context.Context, *connect.Request[CreateBillRequest]) (*connect.Response[CreateBillResponse], error)
	DeleteBill(context.Context, *connect.Request[DeleteBillRequest]) (*connect.Response[NoticeResponse], error)
	MarkPaid(context.Context, *connect.Request[MarkPaidRequest]) (*connect.Response[NoticeResponse], error)
	ConfirmPayment(context.Context, *connect.Request[ConfirmPaymentRequest]) (*connect.Response[NoticeResponse], error)
	RejectPayment(context.Context, *connect.Request[RejectPaymentRequest]) (*connect.Response[NoticeResponse], error)
	GetDashboard(context.Context, *connect.Request[GetDashboardRequest]) (*connect.Response[GetDashboardResponse], error)
}

// NewBillServiceClient constructs a client for BillService.
func NewBillServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) BillServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &billServiceClient{
		createBill:     connect.NewClient[CreateBillRequest, CreateBillResponse](httpClient, baseURL+BillServiceCreateBillProcedure, opts...),
		deleteBill:     connect.NewClient[DeleteBillRequest, NoticeResponse](httpClient, baseURL+BillServiceDeleteBillProcedure, opts...),
		markPaid:       connect.NewClient[MarkPaidRequest, NoticeResponse](httpClient, baseURL+BillServiceMarkPaidProcedure, opts...),
		confirmPayment: connect.NewClient[ConfirmPaymentRequest, NoticeResponse](httpClient, baseURL+BillServiceConfirmPaymentProcedure, opts...),
		rejectPayment:  connect.NewClient[RejectPaymentRequest, NoticeResponse](httpClient, baseURL+BillServiceRejectPaymentProcedure, opts...),
		getDashboard:   connect.NewClient[GetDashboardRequest, GetDashboardResponse](httpClient, baseURL+BillServiceGetDashboardProcedure, opts...),
	}
}

type billServiceClient struct {
	createBill     *connect.Client[CreateBillRequest, CreateBillResponse]
	deleteBill     *connect.Client[DeleteBillRequest, NoticeResponse]
	markPaid       *connect.Client[MarkPaidRequest, NoticeResponse]
	confirmPayment *connect.Client[ConfirmPaymentRequest, NoticeResponse]
	rejectPayment  *connect.Client[RejectPaymentRequest, NoticeResponse]
	getDashboard   *connect.Client[GetDashboardRequest, GetDashboardResponse]
}

func (c *billServiceClient) CreateBill(ctx context.Context, req *connect.Request[CreateBillRequest]) (*connect.Response[CreateBillResponse], error) {
	return c.createBill.CallUnary(ctx, req)
}

func (c *billServiceClient) DeleteBill(ctx context.Context, req *connect.Request[DeleteBillRequest]) (*connect.Response[NoticeResponse], error) {
	return c.deleteBill.CallUnary(ctx, req)
}

func (c *billServiceClient) MarkPaid(ctx context.Context, req *connect.Request[MarkPaidRequest]) (*connect.Response[NoticeResponse], error) {
	return c.markPaid.CallUnary(ctx, req)
}

func (c *billServiceClient) ConfirmPayment(ctx context.Context, req *connect.Request[ConfirmPaymentRequest]) (*connect.Response[NoticeResponse], error) {
	return c.confirmPayment.CallUnary(ctx, req)
}

func (c *billServiceClient) RejectPayment(ctx context.Context, req *connect.Request[RejectPaymentRequest]) (*connect.Response[NoticeResponse], error) {
	return c.rejectPayment.CallUnary(ctx, req)
}

func (c *billServiceClient) GetDashboard(ctx context.Context, req *connect.Request[GetDashboardRequest]) (*connect.Response[GetDashboardResponse], error) {
	return c.getDashboard.CallUnary(ctx, req)
}
