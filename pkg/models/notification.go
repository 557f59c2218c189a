package models

import "strings"

// NotificationAction is one actionable button on a notification.
type NotificationAction struct {
	Command string         `json:"command"`
	Label   string         `json:"label"`
	Data    map[string]any `json:"data,omitempty"`
}

// NotificationAudio configures a sound played with a notification.
type NotificationAudio struct {
	Source string   `json:"source"`
	Volume *float64 `json:"volume,omitempty"`
}

// Notification is the NOTIFICATION request payload.
type Notification struct {
	Title      string               `json:"title"`
	Message    *string              `json:"message,omitempty"`
	Icon       *string              `json:"icon,omitempty"`
	Image      *string              `json:"image,omitempty"`
	Actions    []NotificationAction `json:"actions,omitempty"`
	Timeout    *float64             `json:"timeout,omitempty"`
	Audio      *NotificationAudio   `json:"audio,omitempty"`
	Duration   *int                 `json:"duration,omitempty"`
	ActionURL  *string              `json:"action_url,omitempty"`
	ActionPath *string              `json:"action_path,omitempty"`
	Sound      *string              `json:"sound,omitempty"`
}

// ToPayload converts a notification into the wire payload, deriving the
// duration, actionUrl, actionPath and sound fields the way newer servers
// expect them when the caller did not set them explicitly.
func (n Notification) ToPayload() map[string]any {
	payload := map[string]any{
		"title": n.Title,
	}

	if n.Message != nil {
		payload["message"] = *n.Message
	}
	if n.Icon != nil {
		payload["icon"] = *n.Icon
	}
	if n.Image != nil {
		payload["image"] = *n.Image
	}
	if n.Actions != nil {
		actions := make([]map[string]any, 0, len(n.Actions))
		for _, action := range n.Actions {
			entry := map[string]any{
				"command": action.Command,
				"label":   action.Label,
			}
			if action.Data != nil {
				entry["data"] = action.Data
			}
			actions = append(actions, entry)
		}
		payload["actions"] = actions
	}
	if n.Timeout != nil {
		payload["timeout"] = *n.Timeout
	}
	if n.Audio != nil {
		audio := map[string]any{"source": n.Audio.Source}
		if n.Audio.Volume != nil {
			audio["volume"] = *n.Audio.Volume
		}
		payload["audio"] = audio
	}

	duration := n.Duration
	if duration == nil && n.Timeout != nil {
		d := int(*n.Timeout)
		duration = &d
	}
	if duration != nil {
		payload["duration"] = *duration
	}

	actionURL := n.ActionURL
	actionPath := n.ActionPath
	if actionURL == nil || actionPath == nil {
		for _, action := range n.Actions {
			command := strings.ToUpper(action.Command)
			if actionURL == nil && command == "OPEN_URL" {
				if url, ok := action.Data["url"].(string); ok {
					actionURL = &url
				}
			}
			if actionPath == nil && command == "OPEN_PATH" {
				if path, ok := action.Data["path"].(string); ok {
					actionPath = &path
				}
			}
		}
	}
	if actionURL != nil {
		payload["actionUrl"] = *actionURL
	}
	if actionPath != nil {
		payload["actionPath"] = *actionPath
	}

	sound := n.Sound
	if sound == nil && n.Audio != nil {
		sound = &n.Audio.Source
	}
	if sound != nil {
		payload["sound"] = *sound
	}

	return payload
}
