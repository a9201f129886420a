package domain

import "time"

// Acciones registradas en el log de actividad.
const (
	ActionLogin             = "login"
	ActionLogout            = "logout"
	ActionViewProfile       = "view_profile"
	ActionUpdateProfile     = "update_profile"
	ActionDeleteAccount     = "delete_account"
	ActionViewLibrary       = "view_library"
	ActionAddToLibrary      = "add_to_library"
	ActionRemoveFromLibrary = "remove_from_library"
	ActionClearLibrary      = "clear_library"
)

// ActivityEntry es una entrada de auditoria.
type ActivityEntry struct {
	ID        string         `json:"id" bson:"id"`
	Action    string         `json:"action" bson:"action"`
	Details   map[string]any `json:"details,omitempty" bson:"details,omitempty"`
	Timestamp time.Time      `json:"timestamp" bson:"timestamp"`
	IP        string         `json:"ip,omitempty" bson:"ip,omitempty"`
	UserAgent string         `json:"userAgent,omitempty" bson:"userAgent,omitempty"`
}

// ClientInfo describe el origen de una solicitud.
type ClientInfo struct {
	IP        string
	UserAgent string
}

// NewActivityEntry crea una entrada con id ordenable por tiempo.
func NewActivityEntry(action string, details map[string]any, client ClientInfo, at time.Time) ActivityEntry {
	return ActivityEntry{
		ID:        NewItemID(at),
		Action:    action,
		Details:   details,
		Timestamp: at.UTC(),
		IP:        client.IP,
		UserAgent: client.UserAgent,
	}
}
