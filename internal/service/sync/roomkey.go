package sync

import (
	"encoding/json"
	"strconv"
)

// normalizeRoomKey folds the room key shapes clients send (json string
// or number) into one canonical string, so "7" and 7 address the same
// room.
func normalizeRoomKey(v any) (string, bool) {
	switch key := v.(type) {
	case string:
		if key == "" {
			return "", false
		}
		return key, true
	case float64:
		return strconv.FormatFloat(key, 'f', -1, 64), true
	case json.Number:
		return key.String(), true
	case int:
		return strconv.Itoa(key), true
	case int64:
		return strconv.FormatInt(key, 10), true
	default:
		return "", false
	}
}
