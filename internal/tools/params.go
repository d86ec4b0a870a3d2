package tools

import (
	"fmt"
	"math"
	"strings"

	"github.com/brandon/mcp-mailbox/pkg/types"
)

// defaultFolder is applied at this boundary; the core always receives an
// explicit folder name.
const defaultFolder = "INBOX"

func stringParam(params map[string]interface{}, key string) string {
	if value, ok := params[key].(string); ok {
		return strings.TrimSpace(value)
	}
	return ""
}

func validationError(reason string) error {
	return &types.ValidationError{Reason: reason}
}

func requireString(params map[string]interface{}, key string) (string, error) {
	value := stringParam(params, key)
	if value == "" {
		return "", &types.ValidationError{Reason: key + " is required"}
	}
	return value, nil
}

func boolParam(params map[string]interface{}, key string) (value, present bool) {
	v, ok := params[key].(bool)
	return v, ok
}

func folderParam(params map[string]interface{}) string {
	if folder := stringParam(params, "folder"); folder != "" {
		return folder
	}
	return defaultFolder
}

// stringListParam accepts either a JSON array of strings or a single
// comma-separated string.
func stringListParam(params map[string]interface{}, key string) []string {
	var values []string
	switch v := params[key].(type) {
	case []interface{}:
		for _, item := range v {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				values = append(values, strings.TrimSpace(s))
			}
		}
	case string:
		for _, s := range strings.Split(v, ",") {
			if strings.TrimSpace(s) != "" {
				values = append(values, strings.TrimSpace(s))
			}
		}
	}
	return values
}

func intParam(params map[string]interface{}, key string) int {
	if v, ok := params[key].(float64); ok {
		return int(v)
	}
	return 0
}

// uidParam reads an optional uid. An absent key is 0; a present value must
// be an integer in (0, 2^32-1] so a uint32 conversion can never target a
// different message than the caller named.
func uidParam(params map[string]interface{}, key string) (uint32, error) {
	v, ok := params[key].(float64)
	if !ok {
		return 0, nil
	}
	return toUid(v, key)
}

func uidListParam(params map[string]interface{}, key string) ([]uint32, error) {
	items, ok := params[key].([]interface{})
	if !ok {
		return nil, nil
	}
	var uids []uint32
	for _, item := range items {
		v, ok := item.(float64)
		if !ok {
			return nil, &types.ValidationError{Reason: key + " must contain only integers"}
		}
		uid, err := toUid(v, key)
		if err != nil {
			return nil, err
		}
		uids = append(uids, uid)
	}
	return uids, nil
}

func toUid(v float64, key string) (uint32, error) {
	if v <= 0 || v > math.MaxUint32 || v != math.Trunc(v) {
		return 0, &types.ValidationError{Reason: fmt.Sprintf("%s must be an integer between 1 and %d", key, uint32(math.MaxUint32))}
	}
	return uint32(v), nil
}
