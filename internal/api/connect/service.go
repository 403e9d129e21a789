package connect

import (
	"context"
	"net/http"
	"sync"

	"connectrpc.com/connect"
	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"

	"github.com/osa030/phasebox/internal/app/home"
	"github.com/osa030/phasebox/internal/app/notification"
	"github.com/osa030/phasebox/internal/app/playback"
	"github.com/osa030/phasebox/internal/domain/phase"
)

// HomeService implements the HomeService RPC.
type HomeService struct {
	ctrl     *home.Controller
	notif    *notification.Manager
	validate *validator.Validate

	done     chan struct{}
	doneOnce sync.Once
}

// NewHomeService creates a new HomeService.
func NewHomeService(ctrl *home.Controller, notif *notification.Manager) *HomeService {
	return &HomeService{
		ctrl:     ctrl,
		notif:    notif,
		validate: validator.New(),
		done:     make(chan struct{}),
	}
}

// Shutdown ends every open Subscribe stream.
func (s *HomeService) Shutdown() {
	s.doneOnce.Do(func() { close(s.done) })
}

// NewHomeServiceHandler builds an HTTP handler serving every HomeService procedure.
// It returns the path to mount the handler on.
func NewHomeServiceHandler(svc *HomeService, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{WithJSON()}, opts...)

	mux := http.NewServeMux()
	mux.Handle(GetStatusProcedure, connect.NewUnaryHandler(GetStatusProcedure, svc.GetStatus, opts...))
	mux.Handle(ListItemsProcedure, connect.NewUnaryHandler(ListItemsProcedure, svc.ListItems, opts...))
	mux.Handle(AddItemProcedure, connect.NewUnaryHandler(AddItemProcedure, svc.AddItem, opts...))
	mux.Handle(RemoveItemProcedure, connect.NewUnaryHandler(RemoveItemProcedure, svc.RemoveItem, opts...))
	mux.Handle(PressRemoveProcedure, connect.NewUnaryHandler(PressRemoveProcedure, svc.PressRemove, opts...))
	mux.Handle(TogglePlayProcedure, connect.NewUnaryHandler(TogglePlayProcedure, svc.TogglePlay, opts...))
	mux.Handle(FastForwardProcedure, connect.NewUnaryHandler(FastForwardProcedure, svc.FastForward, opts...))
	mux.Handle(RewindProcedure, connect.NewUnaryHandler(RewindProcedure, svc.Rewind, opts...))
	mux.Handle(PlayItemProcedure, connect.NewUnaryHandler(PlayItemProcedure, svc.PlayItem, opts...))
	mux.Handle(SubscribeProcedure, connect.NewServerStreamHandler(SubscribeProcedure, svc.Subscribe, opts...))

	return "/" + HomeServiceName + "/", mux
}

// GetStatus returns the transport state.
func (s *HomeService) GetStatus(
	ctx context.Context,
	req *connect.Request[Empty],
) (*connect.Response[StatusResponse], error) {
	return connect.NewResponse(toStatusResponse(s.ctrl.Status())), nil
}

// ListItems returns the rendered playlist.
func (s *HomeService) ListItems(
	ctx context.Context,
	req *connect.Request[Empty],
) (*connect.Response[ListItemsResponse], error) {
	rows := s.ctrl.Rows(ctx)
	items := make([]ItemInfo, len(rows))
	for i, r := range rows {
		items[i] = toItemInfo(r)
	}
	return connect.NewResponse(&ListItemsResponse{Items: items}), nil
}

// AddItem appends an item to the playlist.
func (s *HomeService) AddItem(
	ctx context.Context,
	req *connect.Request[AddItemRequest],
) (*connect.Response[AddItemResponse], error) {
	if err := s.validate.Struct(req.Msg); err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	item := s.ctrl.Add(phase.New(req.Msg.Name, req.Msg.ThumbnailPath, req.Msg.AudioPath))
	return connect.NewResponse(&AddItemResponse{ID: item.ID}), nil
}

// RemoveItem removes an item by ID, or by index when no ID is given.
// An out-of-range index is not an error; it reports removed=false.
func (s *HomeService) RemoveItem(
	ctx context.Context,
	req *connect.Request[RemoveItemRequest],
) (*connect.Response[RemoveItemResponse], error) {
	switch {
	case req.Msg.ID != "":
		if err := s.ctrl.Remove(req.Msg.ID); err != nil {
			return nil, toConnectError(err)
		}
		return connect.NewResponse(&RemoveItemResponse{Removed: true}), nil
	case req.Msg.Index != nil:
		removed := s.ctrl.RemoveAt(*req.Msg.Index)
		return connect.NewResponse(&RemoveItemResponse{Removed: removed}), nil
	default:
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("id or index is required"))
	}
}

// PressRemove handles the row remove button.
func (s *HomeService) PressRemove(
	ctx context.Context,
	req *connect.Request[ItemRequest],
) (*connect.Response[RemoveItemResponse], error) {
	if err := s.validate.Struct(req.Msg); err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	removed, err := s.ctrl.PressRemove(req.Msg.ID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&RemoveItemResponse{Removed: removed}), nil
}

// TogglePlay flips play/pause.
func (s *HomeService) TogglePlay(
	ctx context.Context,
	req *connect.Request[Empty],
) (*connect.Response[StatusResponse], error) {
	return connect.NewResponse(toStatusResponse(s.ctrl.TogglePlay())), nil
}

// FastForward seeks forward one step.
func (s *HomeService) FastForward(
	ctx context.Context,
	req *connect.Request[Empty],
) (*connect.Response[StatusResponse], error) {
	return connect.NewResponse(toStatusResponse(s.ctrl.FastForward())), nil
}

// Rewind seeks back one step.
func (s *HomeService) Rewind(
	ctx context.Context,
	req *connect.Request[Empty],
) (*connect.Response[StatusResponse], error) {
	return connect.NewResponse(toStatusResponse(s.ctrl.Rewind())), nil
}

// PlayItem hands an item's audio to the player.
func (s *HomeService) PlayItem(
	ctx context.Context,
	req *connect.Request[ItemRequest],
) (*connect.Response[Empty], error) {
	if err := s.validate.Struct(req.Msg); err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	if err := s.ctrl.PlayItem(ctx, req.Msg.ID); err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&Empty{}), nil
}

// Subscribe streams controller notifications, starting with the current state.
func (s *HomeService) Subscribe(
	ctx context.Context,
	req *connect.Request[Empty],
	stream *connect.ServerStream[notification.Notification],
) error {
	adapter := &notificationStreamAdapter{stream: stream}

	subscriptionID, err := adapter.open(s.notif, s.ctrl)
	if err != nil {
		adapter.close()
		s.notif.Unsubscribe(subscriptionID)
		return err
	}

	// Wait for client disconnect or shutdown
	select {
	case <-ctx.Done():
	case <-s.done:
	}

	// No Send may touch the stream once the handler returns
	adapter.close()
	s.notif.Unsubscribe(subscriptionID)
	return nil
}

// errStreamClosed is returned by sends on a finished subscription.
var errStreamClosed = errors.New("notification stream closed")

type notificationSender interface {
	Send(*notification.Notification) error
}

// notificationStreamAdapter adapts connect.ServerStream to notification.Stream.
// Sends are serialized because a timed-out send may still be running.
type notificationStreamAdapter struct {
	mu      sync.Mutex
	stream  notificationSender
	closed  bool
	initial uint64 // sequence number of the initial state
}

// open registers the adapter and sends the initial state before any broadcast
// can reach the stream. Broadcasts stamped before the initial state are already
// reflected in it and are dropped.
func (a *notificationStreamAdapter) open(notif *notification.Manager, ctrl *home.Controller) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	id := notif.Subscribe(a)
	seq := notif.NextSequenceNo()
	initial := notification.FromStatus(ctrl.Status())
	initial.SequenceNo = seq
	a.initial = seq
	return id, a.stream.Send(initial)
}

func (a *notificationStreamAdapter) Send(n *notification.Notification) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return errStreamClosed
	}
	if n.SequenceNo < a.initial {
		return nil
	}
	return a.stream.Send(n)
}

func (a *notificationStreamAdapter) close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closed = true
}

func toConnectError(err error) error {
	switch {
	case errors.Is(err, home.ErrItemNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, playback.ErrEmptyAudioPath):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	}
	return connect.NewError(connect.CodeInternal, err)
}
