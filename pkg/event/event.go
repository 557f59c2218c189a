// Package event defines the wire vocabulary and frame codec for the bridge
// WebSocket protocol. Frames are UTF-8 JSON text messages.
package event

// Type is the top-level discriminator of a frame's purpose. The enumeration
// is closed on the write path; unknown inbound values are preserved as-is so
// newer servers keep working against older clients.
type Type string

// Request events.
const (
	TypeApplicationUpdate    Type = "APPLICATION_UPDATE"
	TypeExitApplication      Type = "EXIT_APPLICATION"
	TypeGetData              Type = "GET_DATA"
	TypeGetDirectories       Type = "GET_DIRECTORIES"
	TypeGetFile              Type = "GET_FILE"
	TypeGetFiles             Type = "GET_FILES"
	TypeGetSettings          Type = "GET_SETTINGS"
	TypeKeyboardKeypress     Type = "KEYBOARD_KEYPRESS"
	TypeKeyboardText         Type = "KEYBOARD_TEXT"
	TypeMediaControl         Type = "MEDIA_CONTROL"
	TypeNotification         Type = "NOTIFICATION"
	TypeOpen                 Type = "OPEN"
	TypePowerHibernate       Type = "POWER_HIBERNATE"
	TypePowerLock            Type = "POWER_LOCK"
	TypePowerLogout          Type = "POWER_LOGOUT"
	TypePowerRestart         Type = "POWER_RESTART"
	TypePowerShutdown        Type = "POWER_SHUTDOWN"
	TypePowerSleep           Type = "POWER_SLEEP"
	TypeRegisterDataListener Type = "REGISTER_DATA_LISTENER"
	TypeUpdateSettings       Type = "UPDATE_SETTINGS"
)

// Response events.
const (
	TypeApplicationUpdating    Type = "APPLICATION_UPDATING"
	TypeDataGet                Type = "DATA_GET"
	TypeDataListenerRegistered Type = "DATA_LISTENER_REGISTERED"
	TypeDataUpdate             Type = "DATA_UPDATE"
	TypeDirectories            Type = "DIRECTORIES"
	TypeError                  Type = "ERROR"
	TypeFile                   Type = "FILE"
	TypeFiles                  Type = "FILES"
	TypeKeyboardKeyPressed     Type = "KEYBOARD_KEY_PRESSED"
	TypeKeyboardTextSent       Type = "KEYBOARD_TEXT_SENT"
	TypeNotificationSent       Type = "NOTIFICATION_SENT"
	TypeOpened                 Type = "OPENED"
	TypePowerHibernating       Type = "POWER_HIBERNATING"
	TypePowerLocking           Type = "POWER_LOCKING"
	TypePowerLoggingOut        Type = "POWER_LOGGINGOUT"
	TypePowerRestarting        Type = "POWER_RESTARTING"
	TypePowerShuttingDown      Type = "POWER_SHUTTINGDOWN"
	TypePowerSleeping          Type = "POWER_SLEEPING"
	TypeSettingsResult         Type = "SETTINGS_RESULT"
	TypeSettingsUpdated        Type = "SETTINGS_UPDATED"
)

// TypeNone is synthesized locally for fire-and-forget operations that have no
// wire response.
const TypeNone Type = "N/A"

// SubType is the secondary discriminator on ERROR frames.
type SubType string

const (
	SubTypeBadDirectory              SubType = "BAD_DIRECTORY"
	SubTypeBadFile                   SubType = "BAD_FILE"
	SubTypeBadJSON                   SubType = "BAD_JSON"
	SubTypeBadPath                   SubType = "BAD_PATH"
	SubTypeBadRequest                SubType = "BAD_REQUEST"
	SubTypeBadToken                  SubType = "BAD_TOKEN"
	SubTypeInvalidAction             SubType = "INVALID_ACTION"
	SubTypeListenerAlreadyRegistered SubType = "LISTENER_ALREADY_REGISTERED"
	SubTypeListenerNotRegistered     SubType = "LISTENER_NOT_REGISTERED"
	SubTypeMissingAction             SubType = "MISSING_ACTION"
	SubTypeMissingBase               SubType = "MISSING_BASE"
	SubTypeMissingKey                SubType = "MISSING_KEY"
	SubTypeMissingModules            SubType = "MISSING_MODULES"
	SubTypeMissingPath               SubType = "MISSING_PATH"
	SubTypeMissingPathURL            SubType = "MISSING_PATH_URL"
	SubTypeMissingSetting            SubType = "MISSING_SETTING"
	SubTypeMissingText               SubType = "MISSING_TEXT"
	SubTypeMissingTitle              SubType = "MISSING_TITLE"
	SubTypeMissingToken              SubType = "MISSING_TOKEN"
	SubTypeMissingValue              SubType = "MISSING_VALUE"
	SubTypeTimeout                   SubType = "TIMEOUT"
	SubTypeUnknownEvent              SubType = "UNKNOWN_EVENT"
)

// SubTypeBadAPIKey is a legacy alias of BAD_TOKEN. Accepted on the read path,
// never emitted.
const SubTypeBadAPIKey SubType = "BAD_API_KEY"

// IsAuthFailure reports whether a subtype indicates an authentication error.
func (s SubType) IsAuthFailure() bool {
	return s == SubTypeBadToken || s == SubTypeBadAPIKey
}

// Key names the well-known fields of request and response payloads.
type Key string

const (
	KeyBase    Key = "base"
	KeyData    Key = "data"
	KeyEvent   Key = "event"
	KeyID      Key = "id"
	KeyKey     Key = "key"
	KeyMessage Key = "message"
	KeyModule  Key = "module"
	KeyModules Key = "modules"
	KeyPath    Key = "path"
	KeySubtype Key = "subtype"
	KeyText    Key = "text"
	KeyTitle   Key = "title"
	KeyToken   Key = "token"
	KeyType    Key = "type"
	KeyURL     Key = "url"
	KeyVersion Key = "version"
)
