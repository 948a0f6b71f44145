package errors

import (
	"encoding/json"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToJSON(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		assert.Nil(t, ToJSON(nil))
	})

	t.Run("vfs error", func(t *testing.T) {
		err := WithContext(PathError(CodeNoSuchFile, "stat", "/x", "no such file"), "scheme", "mem")
		resp := ToJSON(err)

		require.NotNil(t, resp)
		assert.Equal(t, "NO_SUCH_FILE", resp.Code)
		assert.Equal(t, "stat", resp.Op)
		assert.Equal(t, "/x", resp.Path)
		assert.Equal(t, "no such file", resp.Message)
		assert.Equal(t, "PERMANENT", resp.Classification)
		assert.Equal(t, "mem", resp.Context["scheme"])
	})

	t.Run("standard error", func(t *testing.T) {
		resp := ToJSON(stderrors.New("plain"))

		assert.Equal(t, "UNKNOWN", resp.Code)
		assert.Equal(t, "plain", resp.Message)
	})
}

func TestMarshalJSON(t *testing.T) {
	err := PathError(CodeIOFailure, "readfile", "/a", "read failed")

	data, mErr := json.Marshal(err)
	require.NoError(t, mErr)
	assert.JSONEq(t,
		`{"code":"IO_FAILURE","op":"readfile","path":"/a","message":"read failed","classification":"RETRYABLE"}`,
		string(data))
}
