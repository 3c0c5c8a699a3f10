package api

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

// AuthServiceName is the fully-qualified name of the AuthService service.
const AuthServiceName = "republica.v1.AuthService"

const (
	AuthServiceRegisterProcedure       = "/republica.v1.AuthService/Register"
	AuthServiceLoginProcedure          = "/republica.v1.AuthService/Login"
	AuthServiceGetCurrentUserProcedure = "/republica.v1.AuthService/GetCurrentUser"
	AuthServiceDeleteAccountProcedure  = "/republica.v1.AuthService/DeleteAccount"
)

// PublicProcedures may be called without a session token.
var PublicProcedures = []string{
	AuthServiceRegisterProcedure,
	AuthServiceLoginProcedure,
}

// AuthServiceHandler is implemented by the server side of AuthService.
type AuthServiceHandler interface {
	Register(context.Context, *connect.Request[RegisterRequest]) (*connect.Response[RegisterResponse], error)
	Login(context.Context, *connect.Request[LoginRequest]) (*connect.Response[LoginResponse], error)
	GetCurrentUser(context.Context, *connect.Request[GetCurrentUserRequest]) (*connect.Response[GetCurrentUserResponse], error)
	DeleteAccount(context.Context, *connect.Request[DeleteAccountRequest]) (*connect.Response[NoticeResponse], error)
}

// NewAuthServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewAuthServiceHandler(svc AuthServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return route("/"+AuthServiceName+"/", map[string]http.Handler{
		AuthServiceRegisterProcedure:       connect.NewUnaryHandler(AuthServiceRegisterProcedure, svc.Register, opts...),
		AuthServiceLoginProcedure:          connect.NewUnaryHandler(AuthServiceLoginProcedure, svc.Login, opts...),
		AuthServiceGetCurrentUserProcedure: connect.NewUnaryHandler(AuthServiceGetCurrentUserProcedure, svc.GetCurrentUser, opts...),
		AuthServiceDeleteAccountProcedure:  connect.NewUnaryHandler(AuthServiceDeleteAccountProcedure, svc.DeleteAccount, opts...),
	})
}

// AuthServiceClient is a client for the republica.v1.AuthService service.
type AuthServiceClient interface {
	Register(context.Context, *connect.Request[RegisterRequest]) (*connect.Response[RegisterResponse], error)
	Login(context.Context, *connect.Request[LoginRequest]) (*connect.Response[LoginResponse], error)
	GetCurrentUser(context.Context, *connect.Request[GetCurrentUserRequest]) (*connect.Response[GetCurrentUserResponse], error)
	DeleteAccount(context.Context, *connect.Request[DeleteAccountRequest]) (*connect.Response[NoticeResponse], error)
}

// NewAuthServiceClient constructs a client for AuthService. baseURL is the
// server's scheme and host, e.g. http://localhost:8080.
func NewAuthServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) AuthServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &authServiceClient{
		register:       connect.NewClient[RegisterRequest, RegisterResponse](httpClient, baseURL+AuthServiceRegisterProcedure, opts...),
		login:          connect.NewClient[LoginRequest, LoginResponse](httpClient, baseURL+AuthServiceLoginProcedure, opts...),
		getCurrentUser: connect.NewClient[GetCurrentUserRequest, GetCurrentUserResponse](httpClient, baseURL+AuthServiceGetCurrentUserProcedure, opts...),
		deleteAccount:  connect.NewClient[DeleteAccountRequest, NoticeResponse](httpClient, baseURL+AuthServiceDeleteAccountProcedure, opts...),
	}
}

type authServiceClient struct {
	register       *connect.Client[RegisterRequest, RegisterResponse]
	login          *connect.Client[LoginRequest, LoginResponse]
	getCurrentUser *connect.Client[GetCurrentUserRequest, GetCurrentUserResponse]
	deleteAccount  *connect.Client[DeleteAccountRequest, NoticeResponse]
}

func (c *authServiceClient) Register(ctx context.Context, req *connect.Request[RegisterRequest]) (*connect.Response[RegisterResponse], error) {
	return c.register.CallUnary(ctx, req)
}

func (c *authServiceClient) Login(ctx context.Context, req *connect.Request[LoginRequest]) (*connect.Response[LoginResponse], error) {
	return c.login.CallUnary(ctx, req)
}

func (c *authServiceClient) GetCurrentUser(ctx context.Context, req *connect.Request[GetCurrentUserRequest]) (*connect.Response[GetCurrentUserResponse], error) {
	return c.getCurrentUser.CallUnary(ctx, req)
}

func (c *authServiceClient) DeleteAccount(ctx context.Context, req *connect.Request[DeleteAccountRequest]) (*connect.Response[NoticeResponse], error) {
	return c.deleteAccount.CallUnary(ctx, req)
}
