package models

import "encoding/json"

// MediaDirectory is one configured media root.
type MediaDirectory struct {
	Key         string  `json:"key"`
	Name        string  `json:"name,omitempty"`
	Path        string  `json:"path"`
	Description *string `json:"description,omitempty"`
}

// MediaFile describes one file below a media root. Servers send either
// snake_case or camelCase keys depending on version; both are accepted.
type MediaFile struct {
	Name        string  `json:"name"`
	Path        string  `json:"path"`
	Size        int64   `json:"size"`
	IsDirectory bool    `json:"is_directory"`
	ModTime     float64 `json:"mod_time"`
	Permissions string  `json:"permissions"`
	ContentType *string `json:"content_type,omitempty"`
	Extension   *string `json:"extension,omitempty"`
}

// mediaFileKeyAliases maps camelCase wire keys onto the canonical snake_case
// names. Unknown keys are dropped.
var mediaFileKeyAliases = map[string]string{
	"isDirectory": "is_directory",
	"modTime":     "mod_time",
	"contentType": "content_type",
}

// UnmarshalJSON accepts both snake_case and camelCase key spellings.
func (f *MediaFile) UnmarshalJSON(raw []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return err
	}
	for alias, canonical := range mediaFileKeyAliases {
		if value, ok := fields[alias]; ok {
			if _, exists := fields[canonical]; !exists {
				fields[canonical] = value
			}
			delete(fields, alias)
		}
	}
	normalized, err := json.Marshal(fields)
	if err != nil {
		return err
	}

	type plain MediaFile
	var decoded plain
	if err := json.Unmarshal(normalized, &decoded); err != nil {
		return err
	}
	*f = MediaFile(decoded)
	return nil
}

// MediaFiles wraps a file listing with the path it was taken from.
type MediaFiles struct {
	Files []MediaFile `json:"files"`
	Path  string      `json:"path"`
}

// MediaControl is the MEDIA_CONTROL request payload.
type MediaControl struct {
	Action string   `json:"action"`
	Value  *float64 `json:"value,omitempty"`
}

// Media control actions.
const (
	MediaActionPlay        = "play"
	MediaActionPause       = "pause"
	MediaActionStop        = "stop"
	MediaActionPrevious    = "previous"
	MediaActionNext        = "next"
	MediaActionSeek        = "seek"
	MediaActionRewind      = "rewind"
	MediaActionFastForward = "fastforward"
	MediaActionShuffle     = "shuffle"
	MediaActionRepeat      = "repeat"
	MediaActionMute        = "mute"
	MediaActionVolumeDown  = "volumedown"
	MediaActionVolumeUp    = "volumeup"
)

// MediaGetFiles is the GET_FILES request payload.
type MediaGetFiles struct {
	Base string `json:"base"`
	Path string `json:"path,omitempty"`
}

// MediaGetFile is the GET_FILE request payload.
type MediaGetFile struct {
	Base string `json:"base"`
	Path string `json:"path"`
}
