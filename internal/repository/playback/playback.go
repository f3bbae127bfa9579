// Package playback defines the durable playback store: the last playback
// state written per room, keyed by room id. It backs the request/response
// API only; the realtime relay never reads or writes it, so the stored row
// and what peers currently believe may drift between updates.
package playback

import "errors"

var ErrNotFound = errors.New("playback state not found")

type State struct {
	VideoURL     string  `json:"video_url" redis:"video_url"`
	IsPlaying    bool    `json:"is_playing" redis:"is_playing"`
	PlaybackTime float64 `json:"playback_time" redis:"playback_time"`
	ClientTs     int64   `json:"client_ts" redis:"client_ts"`
	UpdatedBy    string  `json:"updated_by" redis:"updated_by"`
	UpdatedAt    int64   `json:"updated_at" redis:"updated_at"`
}

type UpsertParams struct {
	RoomId       string
	VideoURL     string
	IsPlaying    bool
	PlaybackTime float64
	ClientTs     int64
	UpdatedBy    string
}
