package jsonrpc

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func raws(values ...string) []json.RawMessage {
	out := make([]json.RawMessage, 0, len(values))
	for _, v := range values {
		out = append(out, json.RawMessage(v))
	}
	return out
}

func TestBindArgs(t *testing.T) {
	schema := []string{"a", "b"}

	tests := []struct {
		name   string
		names  []string
		params Params
		want   []json.RawMessage
		reason ArgsReason
	}{
		{"PositionalMatch", schema, PositionalParams(raws("1", "2")...), raws("1", "2"), 0},
		{"PositionalTooFew", schema, PositionalParams(raws("1")...), nil, WrongArgumentCount},
		{"PositionalTooMany", schema, PositionalParams(raws("1", "2", "3")...), nil, WrongArgumentCount},
		{"NamedInSchemaOrder", schema, NamedParams(map[string]json.RawMessage{"b": json.RawMessage("2"), "a": json.RawMessage("1")}), raws("1", "2"), 0},
		{"NamedMissing", schema, NamedParams(map[string]json.RawMessage{"a": json.RawMessage("1")}), nil, MissingNamedParameter},
		{"NamedExtra", schema, NamedParams(map[string]json.RawMessage{"a": json.RawMessage("1"), "b": json.RawMessage("2"), "c": json.RawMessage("3")}), nil, ExtraNamedParameter},
		{"AbsentWithEmptySchema", nil, NoParams(), []json.RawMessage{}, 0},
		{"AbsentWithSchema", schema, NoParams(), nil, WrongArgumentCount},
		{"EmptyListWithEmptySchema", nil, PositionalParams(), []json.RawMessage{}, 0},
		{"EmptyMapWithEmptySchema", nil, NamedParams(nil), []json.RawMessage{}, 0},
		{"MapWithEmptySchema", nil, NamedParams(map[string]json.RawMessage{"x": json.RawMessage("1")}), nil, ExtraNamedParameter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BindArgs(tt.names, tt.params)
			if tt.reason == 0 {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
				assert.Len(t, got, len(tt.names))
				return
			}
			var argsErr *ArgsError
			require.True(t, errors.As(err, &argsErr), "got %v", err)
			assert.Equal(t, tt.reason, argsErr.Reason)
			assert.Nil(t, got)
		})
	}
}

func TestBindArgsWrongCountFields(t *testing.T) {
	_, err := BindArgs([]string{"a", "b"}, NoParams())
	var argsErr *ArgsError
	require.ErrorAs(t, err, &argsErr)
	assert.Equal(t, 2, argsErr.Expected)
	assert.Equal(t, 0, argsErr.Actual)
	assert.Equal(t, "WrongArgumentCount: expected 2, actual 0", argsErr.Error())
}

func TestBindArgsMissingNamesFirstAbsent(t *testing.T) {
	_, err := BindArgs([]string{"a", "b", "c"}, NamedParams(map[string]json.RawMessage{"a": json.RawMessage("1")}))
	var argsErr *ArgsError
	require.ErrorAs(t, err, &argsErr)
	assert.Equal(t, MissingNamedParameter, argsErr.Reason)
	assert.Equal(t, "b", argsErr.Name)
}

func TestBindArgsReportsExactlyOneExtra(t *testing.T) {
	params := NamedParams(map[string]json.RawMessage{
		"a":    json.RawMessage("1"),
		"b":    json.RawMessage("2"),
		"zz":   json.RawMessage("3"),
		"yy":   json.RawMessage("4"),
		"xxxx": json.RawMessage("5"),
	})

	var first string
	for i := 0; i < 20; i++ {
		_, err := BindArgs([]string{"a", "b"}, params)
		var argsErr *ArgsError
		require.ErrorAs(t, err, &argsErr)
		require.Equal(t, ExtraNamedParameter, argsErr.Reason)
		assert.Contains(t, []string{"zz", "yy", "xxxx"}, argsErr.Name)
		if i == 0 {
			first = argsErr.Name
		}
		assert.Equal(t, first, argsErr.Name, "extra parameter choice must be deterministic")
	}
}

func TestArgsErrorRPCError(t *testing.T) {
	tests := []struct {
		name     string
		err      *ArgsError
		message  string
		wantData string
	}{
		{
			"WrongArgumentCount",
			&ArgsError{Reason: WrongArgumentCount, Expected: 2, Actual: 3},
			"WrongArgumentCount: expected 2, actual 3",
			`{"actual":3,"expected":2,"reason":"WrongArgumentCount"}`,
		},
		{
			"MissingNamedParameter",
			&ArgsError{Reason: MissingNamedParameter, Name: "b"},
			"MissingNamedParameter: b",
			`{"name":"b","reason":"MissingNamedParameter"}`,
		},
		{
			"ExtraNamedParameter",
			&ArgsError{Reason: ExtraNamedParameter, Name: "c"},
			"ExtraNamedParameter: c",
			`{"name":"c","reason":"ExtraNamedParameter"}`,
		},
		{
			"InvalidArgumentStructure",
			NewInvalidArgumentError("a", 0, errors.New("bad")),
			"InvalidArgumentStructure: a at position 0",
			`{"index":0,"name":"a","reason":"InvalidArgumentStructure"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rpcErr := tt.err.RPCError()
			assert.Equal(t, CodeInvalidParams, rpcErr.Code)
			assert.Equal(t, tt.message, rpcErr.Message)

			data, err := json.Marshal(rpcErr.Data)
			require.NoError(t, err)
			assert.JSONEq(t, tt.wantData, string(data))
		})
	}
}

func TestAsError(t *testing.T) {
	custom := &JSONRPCError{Code: -1000, Message: "custom"}

	assert.Nil(t, AsError(nil))
	assert.Same(t, custom, AsError(custom))
	assert.Same(t, custom, AsError(errors.Join(errors.New("context"), custom)))

	argsErr := AsError(&ArgsError{Reason: MissingNamedParameter, Name: "a"})
	assert.Equal(t, CodeInvalidParams, argsErr.Code)

	plain := AsError(errors.New("boom"))
	assert.Equal(t, CodeInternalError, plain.Code)
	assert.Equal(t, "boom", plain.Message)
}

func TestErrorConstructors(t *testing.T) {
	tests := []struct {
		name     string
		err      *JSONRPCError
		wantCode int
	}{
		{"ParseError", NewParseError("parse failed"), CodeParseError},
		{"InvalidRequest", NewInvalidRequestError("invalid"), CodeInvalidRequest},
		{"MethodNotFound", NewMethodNotFoundError("not found"), CodeMethodNotFound},
		{"InvalidParams", NewInvalidParamsError("bad params"), CodeInvalidParams},
		{"InternalError", NewInternalError("internal"), CodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantCode, tt.err.Code)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}
