package connect

import (
	"context"
	"strings"

	"connectrpc.com/connect"

	"github.com/osa030/phasebox/internal/app/notification"
)

// HomeServiceClient is a client for the HomeService.
type HomeServiceClient struct {
	token string

	getStatus   *connect.Client[Empty, StatusResponse]
	listItems   *connect.Client[Empty, ListItemsResponse]
	addItem     *connect.Client[AddItemRequest, AddItemResponse]
	removeItem  *connect.Client[RemoveItemRequest, RemoveItemResponse]
	pressRemove *connect.Client[ItemRequest, RemoveItemResponse]
	togglePlay  *connect.Client[Empty, StatusResponse]
	fastForward *connect.Client[Empty, StatusResponse]
	rewind      *connect.Client[Empty, StatusResponse]
	playItem    *connect.Client[ItemRequest, Empty]
	subscribe   *connect.Client[Empty, notification.Notification]
}

// NewHomeServiceClient constructs a client for the HomeService at baseURL.
// A non-empty token is sent as the control token on every call.
func NewHomeServiceClient(httpClient connect.HTTPClient, baseURL, token string, opts ...connect.ClientOption) *HomeServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{WithJSON()}, opts...)
	return &HomeServiceClient{
		token:       token,
		getStatus:   connect.NewClient[Empty, StatusResponse](httpClient, baseURL+GetStatusProcedure, opts...),
		listItems:   connect.NewClient[Empty, ListItemsResponse](httpClient, baseURL+ListItemsProcedure, opts...),
		addItem:     connect.NewClient[AddItemRequest, AddItemResponse](httpClient, baseURL+AddItemProcedure, opts...),
		removeItem:  connect.NewClient[RemoveItemRequest, RemoveItemResponse](httpClient, baseURL+RemoveItemProcedure, opts...),
		pressRemove: connect.NewClient[ItemRequest, RemoveItemResponse](httpClient, baseURL+PressRemoveProcedure, opts...),
		togglePlay:  connect.NewClient[Empty, StatusResponse](httpClient, baseURL+TogglePlayProcedure, opts...),
		fastForward: connect.NewClient[Empty, StatusResponse](httpClient, baseURL+FastForwardProcedure, opts...),
		rewind:      connect.NewClient[Empty, StatusResponse](httpClient, baseURL+RewindProcedure, opts...),
		playItem:    connect.NewClient[ItemRequest, Empty](httpClient, baseURL+PlayItemProcedure, opts...),
		subscribe:   connect.NewClient[Empty, notification.Notification](httpClient, baseURL+SubscribeProcedure, opts...),
	}
}

func newRequest[T any](msg *T, token string) *connect.Request[T] {
	req := connect.NewRequest(msg)
	if token != "" {
		req.Header().Set(ControlTokenHeader, token)
	}
	return req
}

// GetStatus calls HomeService.GetStatus.
func (c *HomeServiceClient) GetStatus(ctx context.Context) (*StatusResponse, error) {
	resp, err := c.getStatus.CallUnary(ctx, newRequest(&Empty{}, c.token))
	if err != nil {
		return nil, err
	}
	return resp.Msg, nil
}

// ListItems calls HomeService.ListItems.
func (c *HomeServiceClient) ListItems(ctx context.Context) (*ListItemsResponse, error) {
	resp, err := c.listItems.CallUnary(ctx, newRequest(&Empty{}, c.token))
	if err != nil {
		return nil, err
	}
	return resp.Msg, nil
}

// AddItem calls HomeService.AddItem.
func (c *HomeServiceClient) AddItem(ctx context.Context, msg *AddItemRequest) (*AddItemResponse, error) {
	resp, err := c.addItem.CallUnary(ctx, newRequest(msg, c.token))
	if err != nil {
		return nil, err
	}
	return resp.Msg, nil
}

// RemoveItem calls HomeService.RemoveItem.
func (c *HomeServiceClient) RemoveItem(ctx context.Context, msg *RemoveItemRequest) (*RemoveItemResponse, error) {
	resp, err := c.removeItem.CallUnary(ctx, newRequest(msg, c.token))
	if err != nil {
		return nil, err
	}
	return resp.Msg, nil
}

// PressRemove calls HomeService.PressRemove.
func (c *HomeServiceClient) PressRemove(ctx context.Context, id string) (*RemoveItemResponse, error) {
	resp, err := c.pressRemove.CallUnary(ctx, newRequest(&ItemRequest{ID: id}, c.token))
	if err != nil {
		return nil, err
	}
	return resp.Msg, nil
}

// TogglePlay calls HomeService.TogglePlay.
func (c *HomeServiceClient) TogglePlay(ctx context.Context) (*StatusResponse, error) {
	resp, err := c.togglePlay.CallUnary(ctx, newRequest(&Empty{}, c.token))
	if err != nil {
		return nil, err
	}
	return resp.Msg, nil
}

// FastForward calls HomeService.FastForward.
func (c *HomeServiceClient) FastForward(ctx context.Context) (*StatusResponse, error) {
	resp, err := c.fastForward.CallUnary(ctx, newRequest(&Empty{}, c.token))
	if err != nil {
		return nil, err
	}
	return resp.Msg, nil
}

// Rewind calls HomeService.Rewind.
func (c *HomeServiceClient) Rewind(ctx context.Context) (*StatusResponse, error) {
	resp, err := c.rewind.CallUnary(ctx, newRequest(&Empty{}, c.token))
	if err != nil {
		return nil, err
	}
	return resp.Msg, nil
}

// PlayItem calls HomeService.PlayItem.
func (c *HomeServiceClient) PlayItem(ctx context.Context, id string) error {
	_, err := c.playItem.CallUnary(ctx, newRequest(&ItemRequest{ID: id}, c.token))
	return err
}

// Subscribe calls HomeService.Subscribe.
func (c *HomeServiceClient) Subscribe(ctx context.Context) (*connect.ServerStreamForClient[notification.Notification], error) {
	return c.subscribe.CallServerStream(ctx, newRequest(&Empty{}, c.token))
}
