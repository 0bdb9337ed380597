package models

// User — локальный пользователь шлюза. Шлюз однопользовательский:
// учётная запись описана в конфигурации, идентификатор детерминированно
// выводится из имени.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// NodeConfig — конфигурация подключённой ноды.
type NodeConfig struct {
	PeerID  string `json:"peerID"`
	Testnet bool   `json:"testnet"`
}

// Profile — публичный профиль участника сделки, полученный от ноды.
type Profile struct {
	PeerID    string `json:"peerID"`
	Handle    string `json:"handle,omitempty"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatarUrl,omitempty"`
	Moderator bool   `json:"moderator,omitempty"`
}
