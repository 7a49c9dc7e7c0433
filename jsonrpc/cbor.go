package jsonrpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/fxamacker/cbor/v2"
)

var cborDecMode = func() cbor.DecMode {
	dm, err := cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]interface{}(nil)),
		IntDec:         cbor.IntDecConvertSigned,
	}.DecMode()
	if err != nil {
		panic(err)
	}
	return dm
}()

var cborEncMode = func() cbor.EncMode {
	em, err := cbor.EncOptions{Sort: cbor.SortCanonical}.EncMode()
	if err != nil {
		panic(err)
	}
	return em
}()

// HandleRawCBOR is HandleRaw for CBOR-encoded requests and responses. The request is
// decoded to its JSON data model, dispatched, and the response re-encoded as CBOR.
// Input that is not CBOR, or has non-string map keys, is answered with an invalid request
// failure with a null id.
func (s *Server) HandleRawCBOR(ctx context.Context, data []byte) ([]byte, bool) {
	text, err := cborToJSON(data)
	if err != nil {
		s.log.Debug().Err(err).Msg("jsonrpc: unreadable CBOR request")
		text = nil
	}

	resp := s.HandleRequest(ctx, ParseRequest(text))
	if resp == nil {
		return nil, false
	}

	out, err := jsonToCBOR([]byte(RenderResponse(resp)))
	if err != nil {
		s.log.Error().Err(err).Msg("jsonrpc: response could not be rendered as CBOR")
		out, _ = cborEncMode.Marshal(renderFallback)
	}
	return out, true
}

func cborToJSON(data []byte) ([]byte, error) {
	var v interface{}
	if err := cborDecMode.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return json.Marshal(v)
}

func jsonToCBOR(text []byte) ([]byte, error) {
	dec := json.NewDecoder(bytes.NewReader(text))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	v, err := fromJSONNumbers(v)
	if err != nil {
		return nil, err
	}
	return cborEncMode.Marshal(v)
}

// fromJSONNumbers replaces json.Number values with int64 or float64 so they encode as
// CBOR numbers rather than strings.
func fromJSONNumbers(v interface{}) (interface{}, error) {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i, nil
		}
		f, err := t.Float64()
		if err != nil {
			return nil, fmt.Errorf("jsonrpc: number %s out of range: %w", t, err)
		}
		return f, nil
	case []interface{}:
		for i := range t {
			e, err := fromJSONNumbers(t[i])
			if err != nil {
				return nil, err
			}
			t[i] = e
		}
	case map[string]interface{}:
		for k, e := range t {
			e, err := fromJSONNumbers(e)
			if err != nil {
				return nil, err
			}
			t[k] = e
		}
	}
	return v, nil
}
