// Package apiconnect wires the oremus.v1 services to Connect handlers and
// clients.
package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/oremus/pkg/api"
)

const (
	AuthServiceName   = "oremus.v1.AuthService"
	GroupServiceName  = "oremus.v1.GroupService"
	PrayerServiceName = "oremus.v1.PrayerService"
)

const (
	AuthServiceSignInProcedure = "/oremus.v1.AuthService/SignIn"
	AuthServiceDemoProcedure   = "/oremus.v1.AuthService/Demo"

	GroupServiceListGroupsProcedure  = "/oremus.v1.GroupService/ListGroups"
	GroupServiceGetGroupProcedure    = "/oremus.v1.GroupService/GetGroup"
	GroupServiceCreateGroupProcedure = "/oremus.v1.GroupService/CreateGroup"

	PrayerServiceListPrayerRequestsProcedure  = "/oremus.v1.PrayerService/ListPrayerRequests"
	PrayerServiceGetPrayerRequestProcedure    = "/oremus.v1.PrayerService/GetPrayerRequest"
	PrayerServiceCreatePrayerRequestProcedure = "/oremus.v1.PrayerService/CreatePrayerRequest"
	PrayerServiceTogglePrayedTodayProcedure   = "/oremus.v1.PrayerService/TogglePrayedToday"
	PrayerServiceUpdateReminderProcedure      = "/oremus.v1.PrayerService/UpdateReminder"
)

// AuthServiceHandler exchanges identity-provider tokens for API tokens.
type AuthServiceHandler interface {
	SignIn(context.Context, *connect.Request[api.SignInRequest]) (*connect.Response[api.SignInResponse], error)
	Demo(context.Context, *connect.Request[api.DemoRequest]) (*connect.Response[api.DemoResponse], error)
}

type GroupServiceHandler interface {
	ListGroups(context.Context, *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error)
	GetGroup(context.Context, *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error)
	CreateGroup(context.Context, *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error)
}

type PrayerServiceHandler interface {
	ListPrayerRequests(context.Context, *connect.Request[api.ListPrayerRequestsRequest]) (*connect.Response[api.ListPrayerRequestsResponse], error)
	GetPrayerRequest(context.Context, *connect.Request[api.GetPrayerRequestRequest]) (*connect.Response[api.GetPrayerRequestResponse], error)
	CreatePrayerRequest(context.Context, *connect.Request[api.CreatePrayerRequestRequest]) (*connect.Response[api.CreatePrayerRequestResponse], error)
	TogglePrayedToday(context.Context, *connect.Request[api.TogglePrayedTodayRequest]) (*connect.Response[api.TogglePrayedTodayResponse], error)
	UpdateReminder(context.Context, *connect.Request[api.UpdateReminderRequest]) (*connect.Response[api.UpdateReminderResponse], error)
}

// NewAuthServiceHandler returns the mount path and handler for svc.
func NewAuthServiceHandler(svc AuthServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return "/" + AuthServiceName + "/", route(map[string]http.Handler{
		AuthServiceSignInProcedure: connect.NewUnaryHandler(AuthServiceSignInProcedure, svc.SignIn, opts...),
		AuthServiceDemoProcedure:   connect.NewUnaryHandler(AuthServiceDemoProcedure, svc.Demo, opts...),
	})
}

// NewGroupServiceHandler returns the mount path and handler for svc.
func NewGroupServiceHandler(svc GroupServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return "/" + GroupServiceName + "/", route(map[string]http.Handler{
		GroupServiceListGroupsProcedure:  connect.NewUnaryHandler(GroupServiceListGroupsProcedure, svc.ListGroups, opts...),
		GroupServiceGetGroupProcedure:    connect.NewUnaryHandler(GroupServiceGetGroupProcedure, svc.GetGroup, opts...),
		GroupServiceCreateGroupProcedure: connect.NewUnaryHandler(GroupServiceCreateGroupProcedure, svc.CreateGroup, opts...),
	})
}

// NewPrayerServiceHandler returns the mount path and handler for svc.
func NewPrayerServiceHandler(svc PrayerServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return "/" + PrayerServiceName + "/", route(map[string]http.Handler{
		PrayerServiceListPrayerRequestsProcedure:  connect.NewUnaryHandler(PrayerServiceListPrayerRequestsProcedure, svc.ListPrayerRequests, opts...),
		PrayerServiceGetPrayerRequestProcedure:    connect.NewUnaryHandler(PrayerServiceGetPrayerRequestProcedure, svc.GetPrayerRequest, opts...),
		PrayerServiceCreatePrayerRequestProcedure: connect.NewUnaryHandler(PrayerServiceCreatePrayerRequestProcedure, svc.CreatePrayerRequest, opts...),
		PrayerServiceTogglePrayedTodayProcedure:   connect.NewUnaryHandler(PrayerServiceTogglePrayedTodayProcedure, svc.TogglePrayedToday, opts...),
		PrayerServiceUpdateReminderProcedure:      connect.NewUnaryHandler(PrayerServiceUpdateReminderProcedure, svc.UpdateReminder, opts...),
	})
}

func handlerOptions(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{api.WithCodec()}, opts...)
}

func route(procedures map[string]http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, ok := procedures[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		h.ServeHTTP(w, r)
	})
}

type AuthServiceClient interface {
	SignIn(context.Context, *connect.Request[api.SignInRequest]) (*connect.Response[api.SignInResponse], error)
	Demo(context.Context, *connect.Request[api.DemoRequest]) (*connect.Response[api.DemoResponse], error)
}

type GroupServiceClient interface {
	ListGroups(context.Context, *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error)
	GetGroup(context.Context, *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error)
	CreateGroup(context.Context, *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error)
}

type PrayerServiceClient interface {
	ListPrayerRequests(context.Context, *connect.Request[api.ListPrayerRequestsRequest]) (*connect.Response[api.ListPrayerRequestsResponse], error)
	GetPrayerRequest(context.Context, *connect.Request[api.GetPrayerRequestRequest]) (*connect.Response[api.GetPrayerRequestResponse], error)
	CreatePrayerRequest(context.Context, *connect.Request[api.CreatePrayerRequestRequest]) (*connect.Response[api.CreatePrayerRequestResponse], error)
	TogglePrayedToday(context.Context, *connect.Request[api.TogglePrayedTodayRequest]) (*connect.Response[api.TogglePrayedTodayResponse], error)
	UpdateReminder(context.Context, *connect.Request[api.UpdateReminderRequest]) (*connect.Response[api.UpdateReminderResponse], error)
}

func clientOptions(opts []connect.ClientOption) []connect.ClientOption {
	return append([]connect.ClientOption{api.WithCodec()}, opts...)
}

// NewAuthServiceClient returns a client for the AuthService at baseURL.
func NewAuthServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) AuthServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &authServiceClient{
		signIn: connect.NewClient[api.SignInRequest, api.SignInResponse](httpClient, baseURL+AuthServiceSignInProcedure, opts...),
		demo:   connect.NewClient[api.DemoRequest, api.DemoResponse](httpClient, baseURL+AuthServiceDemoProcedure, opts...),
	}
}

type authServiceClient struct {
	signIn *connect.Client[api.SignInRequest, api.SignInResponse]
	demo   *connect.Client[api.DemoRequest, api.DemoResponse]
}

func (c *authServiceClient) SignIn(ctx context.Context, req *connect.Request[api.SignInRequest]) (*connect.Response[api.SignInResponse], error) {
	return c.signIn.CallUnary(ctx, req)
}

func (c *authServiceClient) Demo(ctx context.Context, req *connect.Request[api.DemoRequest]) (*connect.Response[api.DemoResponse], error) {
	return c.demo.CallUnary(ctx, req)
}

// NewGroupServiceClient returns a client for the GroupService at baseURL.
func NewGroupServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) GroupServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &groupServiceClient{
		listGroups:  connect.NewClient[api.ListGroupsRequest, api.ListGroupsResponse](httpClient, baseURL+GroupServiceListGroupsProcedure, opts...),
		getGroup:    connect.NewClient[api.GetGroupRequest, api.GetGroupResponse](httpClient, baseURL+GroupServiceGetGroupProcedure, opts...),
		createGroup: connect.NewClient[api.CreateGroupRequest, api.CreateGroupResponse](httpClient, baseURL+GroupServiceCreateGroupProcedure, opts...),
	}
}

type groupServiceClient struct {
	listGroups  *connect.Client[api.ListGroupsRequest, api.ListGroupsResponse]
	getGroup    *connect.Client[api.GetGroupRequest, api.GetGroupResponse]
	createGroup *connect.Client[api.CreateGroupRequest, api.CreateGroupResponse]
}

func (c *groupServiceClient) ListGroups(ctx context.Context, req *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error) {
	return c.listGroups.CallUnary(ctx, req)
}

func (c *groupServiceClient) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	return c.getGroup.CallUnary(ctx, req)
}

func (c *groupServiceClient) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	return c.createGroup.CallUnary(ctx, req)
}

// NewPrayerServiceClient returns a client for the PrayerService at baseURL.
func NewPrayerServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) PrayerServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &prayerServiceClient{
		listPrayerRequests:  connect.NewClient[api.ListPrayerRequestsRequest, api.ListPrayerRequestsResponse](httpClient, baseURL+PrayerServiceListPrayerRequestsProcedure, opts...),
		getPrayerRequest:    connect.NewClient[api.GetPrayerRequestRequest, api.GetPrayerRequestResponse](httpClient, baseURL+PrayerServiceGetPrayerRequestProcedure, opts...),
		createPrayerRequest: connect.NewClient[api.CreatePrayerRequestRequest, api.CreatePrayerRequestResponse](httpClient, baseURL+PrayerServiceCreatePrayerRequestProcedure, opts...),
		togglePrayedToday:   connect.NewClient[api.TogglePrayedTodayRequest, api.TogglePrayedTodayResponse](httpClient, baseURL+PrayerServiceTogglePrayedTodayProcedure, opts...),
		updateReminder:      connect.NewClient[api.UpdateReminderRequest, api.UpdateReminderResponse](httpClient, baseURL+PrayerServiceUpdateReminderProcedure, opts...),
	}
}

type prayerServiceClient struct {
	listPrayerRequests  *connect.Client[api.ListPrayerRequestsRequest, api.ListPrayerRequestsResponse]
	getPrayerRequest    *connect.Client[api.GetPrayerRequestRequest, api.GetPrayerRequestResponse]
	createPrayerRequest *connect.Client[api.CreatePrayerRequestRequest, api.CreatePrayerRequestResponse]
	togglePrayedToday   *connect.Client[api.TogglePrayedTodayRequest, api.TogglePrayedTodayResponse]
	updateReminder      *connect.Client[api.UpdateReminderRequest, api.UpdateReminderResponse]
}

func (c *prayerServiceClient) ListPrayerRequests(ctx context.Context, req *connect.Request[api.ListPrayerRequestsRequest]) (*connect.Response[api.ListPrayerRequestsResponse], error) {
	return c.listPrayerRequests.CallUnary(ctx, req)
}

func (c *prayerServiceClient) GetPrayerRequest(ctx context.Context, req *connect.Request[api.GetPrayerRequestRequest]) (*connect.Response[api.GetPrayerRequestResponse], error) {
	return c.getPrayerRequest.CallUnary(ctx, req)
}

func (c *prayerServiceClient) CreatePrayerRequest(ctx context.Context, req *connect.Request[api.CreatePrayerRequestRequest]) (*connect.Response[api.CreatePrayerRequestResponse], error) {
	return c.createPrayerRequest.CallUnary(ctx, req)
}

func (c *prayerServiceClient) TogglePrayedToday(ctx context.Context, req *connect.Request[api.TogglePrayedTodayRequest]) (*connect.Response[api.TogglePrayedTodayResponse], error) {
	return c.togglePrayedToday.CallUnary(ctx, req)
}

func (c *prayerServiceClient) UpdateReminder(ctx context.Context, req *connect.Request[api.UpdateReminderRequest]) (*connect.Response[api.UpdateReminderResponse], error) {
	return c.updateReminder.CallUnary(ctx, req)
}
