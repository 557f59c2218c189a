package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Response is the generic decoded form used for event types without a
// dedicated model.
type Response struct {
	ID      string  `json:"id"`
	Type    string  `json:"type"`
	SubType *string `json:"subtype"`
	Module  *string `json:"module"`
	Message *string `json:"message"`
	Data    any     `json:"data"`
}

// ModelResponse is the registry key of the generic response decoder.
const ModelResponse = "response"

// Decoder converts a raw JSON payload into a typed value. Scalar decoders
// map array payloads element-wise to a slice; list decoders always return a
// slice.
type Decoder func(raw json.RawMessage) (any, error)

func objectDecoder[T any]() Decoder {
	return func(raw json.RawMessage) (any, error) {
		if isJSONArray(raw) {
			var list []T
			if err := json.Unmarshal(raw, &list); err != nil {
				return nil, err
			}
			return list, nil
		}
		value := new(T)
		if err := json.Unmarshal(raw, value); err != nil {
			return nil, err
		}
		return value, nil
	}
}

func listDecoder[T any]() Decoder {
	return func(raw json.RawMessage) (any, error) {
		var list []T
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, err
		}
		return list, nil
	}
}

// registry is the process-wide immutable module-name to decoder table.
var registry = map[string]Decoder{
	ModuleBattery:       objectDecoder[Battery](),
	ModuleCPU:           objectDecoder[CPU](),
	ModuleDisks:         objectDecoder[Disks](),
	ModuleDisplays:      listDecoder[Display](),
	ModuleGPUs:          listDecoder[GPU](),
	ModuleMedia:         objectDecoder[Media](),
	ModuleMemory:        objectDecoder[Memory](),
	ModuleNetworks:      objectDecoder[Networks](),
	ModuleProcesses:     listDecoder[Process](),
	ModuleSensors:       objectDecoder[Sensors](),
	ModuleSystem:        objectDecoder[System](),
	"media_directories": listDecoder[MediaDirectory](),
	"media_file":        objectDecoder[MediaFile](),
	"media_files":       objectDecoder[MediaFiles](),
	"notification":      objectDecoder[Notification](),
	"keyboard_key":      objectDecoder[KeyboardKey](),
	"keyboard_text":     objectDecoder[KeyboardText](),
	"open_path":         objectDecoder[OpenPath](),
	"open_url":          objectDecoder[OpenURL](),
	ModelResponse:       objectDecoder[Response](),
}

// Lookup returns the decoder registered for module.
func Lookup(module string) (Decoder, bool) {
	decoder, ok := registry[strings.ToLower(module)]
	return decoder, ok
}

// Decode applies the registered decoder for module to raw.
func Decode(module string, raw json.RawMessage) (any, error) {
	decoder, ok := Lookup(module)
	if !ok {
		return nil, fmt.Errorf("no decoder registered for module %q", module)
	}
	value, err := decoder(raw)
	if err != nil {
		return nil, fmt.Errorf("decode module %q: %w", module, err)
	}
	return value, nil
}

// DecodeGeneric decodes raw with the generic response decoder.
func DecodeGeneric(raw json.RawMessage) (any, error) {
	return Decode(ModelResponse, raw)
}

func isJSONArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == '['
}
