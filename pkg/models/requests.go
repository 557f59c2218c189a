package models

// GetData is the GET_DATA request payload.
type GetData struct {
	Modules []string `json:"modules"`
}

// RegisterDataListener is the REGISTER_DATA_LISTENER request payload. An
// empty module list subscribes to everything.
type RegisterDataListener struct {
	Modules []string `json:"modules"`
}

// KeyboardKey is the KEYBOARD_KEYPRESS request payload.
type KeyboardKey struct {
	Key string `json:"key"`
}

// KeyboardText is the KEYBOARD_TEXT request payload.
type KeyboardText struct {
	Text string `json:"text"`
}

// OpenPath is the OPEN request payload for filesystem paths.
type OpenPath struct {
	Path string `json:"path"`
}

// OpenURL is the OPEN request payload for URLs.
type OpenURL struct {
	URL string `json:"url"`
}

// Update is the APPLICATION_UPDATE request payload.
type Update struct {
	Version *string `json:"version,omitempty"`
}
