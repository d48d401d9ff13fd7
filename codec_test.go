package lister

import (
	"errors"
	"reflect"
	"testing"
)

func TestEncodeParameters(t *testing.T) {
	cases := []struct {
		name   string
		params Parameters
		want   string
	}{
		{
			name:   "defaults",
			params: Parameters{Page: 1, Limit: 25, Sort: "_id", Order: OrderAsc},
			want:   defaultHash,
		},
		{
			name: "html characters are kept",
			params: Parameters{
				Page:    2,
				Limit:   50,
				Sort:    "name",
				Order:   OrderDesc,
				Search:  "a&b",
				Filters: map[string]any{"status": []any{"open"}},
			},
			want: "eyJwYWdlIjoyLCJsaW1pdCI6NTAsInNvcnQiOiJuYW1lIiwib3JkZXIiOiJkZXNjIiwic2VhcmNoIjoiYSZiIiwiZmlsdGVycyI6eyJzdGF0dXMiOlsib3BlbiJdfX0=",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := EncodeParameters(tc.params)
			if err != nil {
				t.Fatalf("encode: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestEncodeUnicode(t *testing.T) {
	got, err := Encode(map[string]any{"name": "Zoë <b>"})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if got != "eyJuYW1lIjoiWm/DqyA8Yj4ifQ==" {
		t.Fatalf("unexpected token %s", got)
	}

	var decoded map[string]string
	if err := Decode(got, &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded["name"] != "Zoë <b>" {
		t.Fatalf("round trip lost text: %q", decoded["name"])
	}
}

func TestEncodeJSONKeepsKeyOrder(t *testing.T) {
	got, err := EncodeJSON([]byte(`{ "b": 1, "a": [1, 2] }`))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if got != "eyJiIjoxLCJhIjpbMSwyXX0=" {
		t.Fatalf("unexpected token %s", got)
	}
	if _, err := EncodeJSON([]byte(`{`)); !errors.Is(err, ErrEncode) {
		t.Fatalf("expected ErrEncode, got %v", err)
	}
	if _, err := Encode(map[string]any{"fn": func() {}}); !errors.Is(err, ErrEncode) {
		t.Fatalf("expected ErrEncode for unsupported value, got %v", err)
	}
}

func TestDecodeJSON(t *testing.T) {
	cases := []struct {
		name    string
		token   string
		want    string
		wantErr bool
	}{
		{name: "padded", token: "eyJhIjoxfQ==", want: `{"a":1}`},
		{name: "unpadded", token: "eyJhIjoxfQ", want: `{"a":1}`},
		{name: "surrounding space", token: "  eyJhIjoxfQ==\n", want: `{"a":1}`},
		{name: "empty", token: "", wantErr: true},
		{name: "not base64", token: "%%%", wantErr: true},
		{name: "not json", token: "aGVsbG8=", wantErr: true},
		{name: "not utf8", token: "/w==", wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := DecodeJSON(tc.token)
			if tc.wantErr {
				if !errors.Is(err, ErrDecode) {
					t.Fatalf("expected ErrDecode, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if string(got) != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestDecodeIntoParameters(t *testing.T) {
	var params Parameters
	if err := Decode(defaultHash, &params); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := Parameters{Page: 1, Limit: 25, Sort: "_id", Order: OrderAsc, Filters: map[string]any{}}
	if !reflect.DeepEqual(params, want) {
		t.Fatalf("expected %+v, got %+v", want, params)
	}

	if err := Decode("eyJhIjoxfQ==", &[]int{}); !errors.Is(err, ErrDecode) {
		t.Fatalf("expected ErrDecode for mismatched target, got %v", err)
	}
}
