package session

import (
	"encoding/json"
	"log/slog"
)

const flashKey = "_flashes"

const (
	FlashSuccess = "success"
	FlashError   = "danger"
	FlashInfo    = "info"
	FlashWarning = "warning"
)

// Flash 是只顯示一次的提示訊息
type Flash struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

// AddFlash 在 session 中加入一則提示訊息，需要呼叫 Save 才會寫回儲存層
func AddFlash(s ISession, category, message string) {
	flashes := append(readFlashes(s), Flash{Category: category, Message: message})
	data, err := json.Marshal(flashes)
	if err != nil {
		return
	}
	s.Set(flashKey, string(data))
}

// PopFlashes 取出並移除 session 中所有提示訊息
func PopFlashes(s ISession) []Flash {
	flashes := readFlashes(s)
	s.Delete(flashKey)
	return flashes
}

func readFlashes(s ISession) []Flash {
	const op = "session.readFlashes"
	raw := s.Get(flashKey)
	if raw == "" {
		return nil
	}
	var flashes []Flash
	if err := json.Unmarshal([]byte(raw), &flashes); err != nil {
		slog.Warn("Drop malformed flashes", slog.String("op", op), slog.Any("error", err))
		return nil
	}
	return flashes
}
