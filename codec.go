package lister

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Encode serializes value as JSON and returns the standard base64 form of the
// UTF-8 text. HTML characters are not escaped so tokens match the browser's
// btoa(JSON.stringify(value)) for the same document.
func Encode(value any) (string, error) {
	raw, err := marshalJSON(value)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrEncode, err)
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

// EncodeJSON compacts an existing JSON document and encodes it, keeping the
// key order of the input.
func EncodeJSON(document []byte) (string, error) {
	var compact bytes.Buffer
	if err := json.Compact(&compact, document); err != nil {
		return "", fmt.Errorf("%w: %w", ErrEncode, err)
	}
	return base64.StdEncoding.EncodeToString(compact.Bytes()), nil
}

// Decode reverses Encode into target. Padded and unpadded tokens are accepted.
func Decode(token string, target any) error {
	raw, err := DecodeJSON(token)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return nil
}

// DecodeJSON returns the JSON text carried by token.
func DecodeJSON(token string) ([]byte, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, fmt.Errorf("%w: empty token", ErrDecode)
	}
	raw, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		var rawErr error
		raw, rawErr = base64.RawStdEncoding.DecodeString(token)
		if rawErr != nil {
			return nil, fmt.Errorf("%w: %w", ErrDecode, err)
		}
	}
	if !utf8.Valid(raw) {
		return nil, fmt.Errorf("%w: token is not valid UTF-8", ErrDecode)
	}
	if !json.Valid(raw) {
		return nil, fmt.Errorf("%w: token does not carry JSON", ErrDecode)
	}
	return raw, nil
}

// EncodeParameters returns the hash of p.
func EncodeParameters(p Parameters) (string, error) {
	if p.Filters == nil {
		p.Filters = map[string]any{}
	}
	return Encode(p)
}

func marshalJSON(value any) ([]byte, error) {
	var buffer bytes.Buffer
	encoder := json.NewEncoder(&buffer)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(value); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buffer.Bytes(), []byte("\n")), nil
}
