package iojson

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteWith_IndentsJSON(t *testing.T) {
	var out, errOut bytes.Buffer

	require.NoError(t, WriteWith(&out, &errOut, map[string]int{"a": 1}))
	assert.Equal(t, "{\n  \"a\": 1\n}\n", out.String())
	assert.Empty(t, errOut.String())
}

func TestWriteWith_MarshalFailureGoesToErrWriter(t *testing.T) {
	var out, errOut bytes.Buffer

	require.NoError(t, WriteWith(&out, &errOut, map[string]any{"ch": make(chan int)}))
	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), "json_error")
}

func TestMarshalError(t *testing.T) {
	var got Error
	require.NoError(t, json.Unmarshal([]byte(MarshalError("boom", map[string]any{"slot": "version"})), &got))
	assert.Equal(t, "boom", got.Message)
	assert.Equal(t, "version", got.Data["slot"])
}

func TestMarshalError_OmitsEmptyData(t *testing.T) {
	assert.JSONEq(t, `{"message":"boom"}`, MarshalError("boom", nil))
}

func TestMarshalError_UnmarshalableData(t *testing.T) {
	s := MarshalError("boom", map[string]any{"ch": make(chan int)})

	var got Error
	require.NoError(t, json.Unmarshal([]byte(s), &got))
	assert.Equal(t, "boom", got.Message)
	assert.Contains(t, got.Data, "json_error")
}

func TestWriteError(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteError(&buf, "version info unavailable", map[string]any{"slot": "version"}))

	var got Error
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "version info unavailable", got.Message)
	assert.Equal(t, "version", got.Data["slot"])
}

func TestJSONError_Escapes(t *testing.T) {
	s := jsonError(`bad "msg"`, errors.New(`bad "err"`))
	assert.True(t, json.Valid([]byte(s)))
}

type sample struct {
	Name string `json:"name"`
}

func TestFileReader_ReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"name":"acme"}`), 0o644))

	fr := &FileReader[sample]{fileFlagValue: path}
	require.True(t, fr.Provided())

	got, err := fr.Read()
	require.NoError(t, err)
	assert.Equal(t, "acme", got.Name)
}

func TestFileReader_NotProvided(t *testing.T) {
	fr := &FileReader[sample]{}
	assert.False(t, fr.Provided())

	_, err := fr.Read()
	require.Error(t, err)
}

func TestFileReader_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.json")
	require.NoError(t, os.WriteFile(path, []byte(`{`), 0o644))

	fr := &FileReader[sample]{fileFlagValue: path}
	_, err := fr.Read()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode JSON")
}

func TestFileReader_Flag(t *testing.T) {
	fr := &FileReader[sample]{}
	f := fr.Flag()
	assert.Equal(t, "file", f.Name)
	assert.Equal(t, []string{"f"}, f.Aliases)
}
