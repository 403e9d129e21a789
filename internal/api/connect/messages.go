package connect

import (
	"github.com/osa030/phasebox/internal/app/home"
)

// Service and procedure names.
const (
	HomeServiceName = "phasebox.v1.HomeService"

	GetStatusProcedure   = "/" + HomeServiceName + "/GetStatus"
	ListItemsProcedure   = "/" + HomeServiceName + "/ListItems"
	AddItemProcedure     = "/" + HomeServiceName + "/AddItem"
	RemoveItemProcedure  = "/" + HomeServiceName + "/RemoveItem"
	PressRemoveProcedure = "/" + HomeServiceName + "/PressRemove"
	TogglePlayProcedure  = "/" + HomeServiceName + "/TogglePlay"
	FastForwardProcedure = "/" + HomeServiceName + "/FastForward"
	RewindProcedure      = "/" + HomeServiceName + "/Rewind"
	PlayItemProcedure    = "/" + HomeServiceName + "/PlayItem"
	SubscribeProcedure   = "/" + HomeServiceName + "/Subscribe"
)

// Empty is the message for procedures without parameters or results.
type Empty struct{}

// StatusResponse carries the transport state and playlist length.
type StatusResponse struct {
	Mode              string `json:"mode"`
	PositionMs        int64  `json:"position_ms"`
	DurationMs        int64  `json:"duration_ms"`
	Elapsed           string `json:"elapsed"`
	Total             string `json:"total"`
	SeekMode          string `json:"seek_mode"`
	Length            int    `json:"length"`
	RemoveButtonWired bool   `json:"remove_button_wired"`
}

// ItemInfo is one rendered playlist row.
type ItemInfo struct {
	Index     int    `json:"index"`
	ID        string `json:"id"`
	Name      string `json:"name"`
	Thumbnail string `json:"thumbnail"`
	AudioPath string `json:"audio_path"`
	FellBack  bool   `json:"fell_back"`
}

// ListItemsResponse lists the playlist in order.
type ListItemsResponse struct {
	Items []ItemInfo `json:"items"`
}

// AddItemRequest appends an item.
type AddItemRequest struct {
	Name          string `json:"name" validate:"required"`
	ThumbnailPath string `json:"thumbnail_path"`
	AudioPath     string `json:"audio_path" validate:"required"`
}

// AddItemResponse returns the stored item.
type AddItemResponse struct {
	ID string `json:"id"`
}

// RemoveItemRequest removes by ID, or by index when ID is empty.
type RemoveItemRequest struct {
	ID    string `json:"id,omitempty"`
	Index *int   `json:"index,omitempty"`
}

// RemoveItemResponse reports whether an item was removed.
type RemoveItemResponse struct {
	Removed bool `json:"removed"`
}

// ItemRequest addresses a single item by ID.
type ItemRequest struct {
	ID string `json:"id" validate:"required"`
}

func toStatusResponse(s home.Status) *StatusResponse {
	return &StatusResponse{
		Mode:              s.Transport.Mode.String(),
		PositionMs:        s.Transport.Position.Milliseconds(),
		DurationMs:        s.Transport.Duration.Milliseconds(),
		Elapsed:           s.Transport.Elapsed,
		Total:             s.Transport.Total,
		SeekMode:          string(s.SeekMode),
		Length:            s.Length,
		RemoveButtonWired: s.RemoveButtonWired,
	}
}

func toItemInfo(r home.Row) ItemInfo {
	return ItemInfo{
		Index:     r.Index,
		ID:        r.ID,
		Name:      r.Name,
		Thumbnail: r.Thumbnail,
		AudioPath: r.AudioPath,
		FellBack:  r.FellBack,
	}
}
