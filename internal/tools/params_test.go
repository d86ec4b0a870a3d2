package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/brandon/mcp-mailbox/pkg/types"
)

func TestRequireString(t *testing.T) {
	value, err := requireString(map[string]interface{}{"name": " x "}, "name")
	assert.NoError(t, err)
	assert.Equal(t, "x", value)

	_, err = requireString(map[string]interface{}{}, "name")
	var validation *types.ValidationError
	assert.ErrorAs(t, err, &validation)

	_, err = requireString(map[string]interface{}{"name": "   "}, "name")
	assert.ErrorAs(t, err, &validation)
}

func TestBoolParam_TriState(t *testing.T) {
	value, present := boolParam(map[string]interface{}{"seen": true}, "seen")
	assert.True(t, value)
	assert.True(t, present)

	value, present = boolParam(map[string]interface{}{"seen": false}, "seen")
	assert.False(t, value)
	assert.True(t, present)

	_, present = boolParam(map[string]interface{}{}, "seen")
	assert.False(t, present)
}

func TestFolderParam_DefaultsToInbox(t *testing.T) {
	assert.Equal(t, "INBOX", folderParam(map[string]interface{}{}))
	assert.Equal(t, "INBOX", folderParam(map[string]interface{}{"folder": "  "}))
	assert.Equal(t, "Archive", folderParam(map[string]interface{}{"folder": "Archive"}))
}

func TestStringListParam_ArrayAndCommaForms(t *testing.T) {
	fromArray := stringListParam(map[string]interface{}{
		"to": []interface{}{"a@example.com", " b@example.com ", ""},
	}, "to")
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, fromArray)

	fromString := stringListParam(map[string]interface{}{
		"to": "a@example.com, b@example.com,,",
	}, "to")
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, fromString)

	assert.Nil(t, stringListParam(map[string]interface{}{}, "to"))
}

func TestUidParams_JSONNumbers(t *testing.T) {
	// JSON numbers arrive as float64.
	uid, err := uidParam(map[string]interface{}{"uid": float64(42)}, "uid")
	assert.NoError(t, err)
	assert.Equal(t, uint32(42), uid)

	uid, err = uidParam(map[string]interface{}{}, "uid")
	assert.NoError(t, err)
	assert.Equal(t, uint32(0), uid)

	uids, err := uidListParam(map[string]interface{}{
		"uids": []interface{}{float64(1), float64(2)},
	}, "uids")
	assert.NoError(t, err)
	assert.Equal(t, []uint32{1, 2}, uids)
}

func TestUidParams_RejectOutOfRangeValues(t *testing.T) {
	var validation *types.ValidationError

	// 2^32+1 would silently wrap to uid 1 under a bare uint32 conversion.
	_, err := uidParam(map[string]interface{}{"uid": float64(4294967297)}, "uid")
	assert.ErrorAs(t, err, &validation)

	_, err = uidParam(map[string]interface{}{"uid": float64(0)}, "uid")
	assert.ErrorAs(t, err, &validation)

	_, err = uidParam(map[string]interface{}{"uid": float64(-3)}, "uid")
	assert.ErrorAs(t, err, &validation)

	_, err = uidParam(map[string]interface{}{"uid": float64(1.5)}, "uid")
	assert.ErrorAs(t, err, &validation)

	_, err = uidListParam(map[string]interface{}{
		"uids": []interface{}{float64(1), float64(4294967297)},
	}, "uids")
	assert.ErrorAs(t, err, &validation)

	_, err = uidListParam(map[string]interface{}{
		"uids": []interface{}{float64(1), "junk"},
	}, "uids")
	assert.ErrorAs(t, err, &validation)

	uid, err := uidParam(map[string]interface{}{"uid": float64(4294967295)}, "uid")
	assert.NoError(t, err)
	assert.Equal(t, uint32(4294967295), uid)
}

func TestIntParam(t *testing.T) {
	assert.Equal(t, 993, intParam(map[string]interface{}{"port": float64(993)}, "port"))
	assert.Equal(t, 0, intParam(map[string]interface{}{}, "port"))
}
