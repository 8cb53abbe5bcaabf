package server

import (
	"encoding/json"
	"testing"

	stderrors "errors"

	"github.com/backtrail-dev/backtrail/internal/errors"
	"github.com/backtrail-dev/backtrail/pkg/history"
)

func TestDecodeClientMessage(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr bool
	}{
		{"hello", `{"type":"hello","location":{"pathname":"/"}}`, false},
		{"update", `{"type":"update","seq":3,"action":"PUSH","location":{"pathname":"/a","key":"c2"}}`, false},
		{"unknown type", `{"type":"nope","location":{"pathname":"/"}}`, true},
		{"missing location", `{"type":"update","seq":1}`, true},
		{"not json", `{{{`, true},
		{"empty", ``, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := DecodeClientMessage([]byte(tt.data))
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				var ne *errors.NavError
				if !stderrors.As(err, &ne) {
					t.Fatalf("error type = %T, want *errors.NavError", err)
				}
				if ne.Code != errors.CodeProtocolFrame {
					t.Errorf("code = %s, want %s", ne.Code, errors.CodeProtocolFrame)
				}
				return
			}
			if msg.Location == nil {
				t.Error("decoded message lost its location")
			}
		})
	}
}

func TestWireLocationRoundTrip(t *testing.T) {
	loc := history.Location{
		Pathname: "/users/42",
		Search:   "?tab=posts",
		Hash:     "#top",
		Key:      "c7",
		State:    map[string]any{"page": float64(3)},
	}

	data, err := json.Marshal(FromLocation(loc))
	if err != nil {
		t.Fatal(err)
	}
	var wire WireLocation
	if err := json.Unmarshal(data, &wire); err != nil {
		t.Fatal(err)
	}

	got := wire.Location()
	if got.Pathname != loc.Pathname || got.Search != loc.Search ||
		got.Hash != loc.Hash || got.Key != loc.Key {
		t.Errorf("round trip = %+v, want %+v", got, loc)
	}
	if got.StateValue("page") != float64(3) {
		t.Errorf("StateValue(page) = %v, want 3", got.StateValue("page"))
	}
}

func TestParseAction(t *testing.T) {
	tests := []struct {
		in   string
		want history.Action
	}{
		{"PUSH", history.ActionPush},
		{"REPLACE", history.ActionReplace},
		{"POP", history.ActionPop},
		{"", history.ActionPop},
		{"garbage", history.ActionPop},
	}

	for _, tt := range tests {
		if got := parseAction(tt.in); got != tt.want {
			t.Errorf("parseAction(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
