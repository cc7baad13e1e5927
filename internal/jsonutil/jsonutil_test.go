package jsonutil

import (
	"strings"
	"testing"
)

func TestUnmarshalWithContext(t *testing.T) {
	var w struct {
		ID string `json:"id"`
	}
	if err := UnmarshalWithContext([]byte(`{"id":"tv-1"}`), &w, "window"); err != nil || w.ID != "tv-1" {
		t.Errorf("UnmarshalWithContext valid: id=%q err=%v", w.ID, err)
	}

	err := UnmarshalWithContext([]byte(`{"id":`), &w, "window")
	if err == nil || !strings.HasPrefix(err.Error(), "window: ") {
		t.Errorf("UnmarshalWithContext invalid: expected context prefix, got %v", err)
	}
}

func TestGetString(t *testing.T) {
	extra := map[string]any{"url": "http://clips/1", "height": 8.0, "follow": true, "room": nil}

	for key, want := range map[string]string{
		"url":     "http://clips/1",
		"height":  "",
		"follow":  "",
		"room":    "",
		"missing": "",
	} {
		if got := GetString(extra, key); got != want {
			t.Errorf("GetString(%q) = %q, want %q", key, got, want)
		}
	}
	if got := GetString(nil, "url"); got != "" {
		t.Errorf("GetString(nil map) = %q", got)
	}
}

func TestGetStringOr(t *testing.T) {
	extra := map[string]any{"room": "lab", "muted": false}

	if got := GetStringOr(extra, "room", "none"); got != "lab" {
		t.Errorf("GetStringOr(room) = %q", got)
	}
	if got := GetStringOr(extra, "muted", "none"); got != "none" {
		t.Errorf("GetStringOr(muted) = %q, want default", got)
	}
	if got := GetStringOr(extra, "missing", "none"); got != "none" {
		t.Errorf("GetStringOr(missing) = %q, want default", got)
	}
}

func TestToString(t *testing.T) {
	tests := []struct {
		name string
		v    any
		want string
	}{
		{"string", "hello", "hello"},
		{"float64 whole", 42.0, "42"},
		{"float64 decimal", 3.14, "3.14"},
		{"bool true", true, "true"},
		{"bool false", false, "false"},
		{"nil", nil, ""},
		{"int", 123, "123"},
		{"raw json", []byte(`{"a":1}`), `{"a":1}`},
		{"map", map[string]any{"step": 2.0}, "map[step:2]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToString(tt.v); got != tt.want {
				t.Errorf("ToString() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecode(t *testing.T) {
	type target struct {
		Type string `json:"type"`
		N    int    `json:"n"`
	}
	tests := []struct {
		name    string
		payload any
		want    target
		wantErr bool
	}{
		{"map", map[string]any{"type": "tv", "n": 2.0}, target{"tv", 2}, false},
		{"struct", target{"console", 1}, target{"console", 1}, false},
		{"bytes", []byte(`{"type":"video"}`), target{Type: "video"}, false},
		{"string", `{"n":5}`, target{N: 5}, false},
		{"nil", nil, target{}, true},
		{"wrong shape", []byte(`[1,2]`), target{}, true},
		{"unmarshalable", make(chan int), target{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got target
			err := Decode(tt.payload, &got, "decode")
			if (err != nil) != tt.wantErr {
				t.Fatalf("Decode() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("Decode() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestGetBool(t *testing.T) {
	m := map[string]any{"on": true, "off": false, "text": "true"}
	if !GetBool(m, "on", false) {
		t.Error("GetBool(on) = false")
	}
	if GetBool(m, "off", true) {
		t.Error("GetBool(off) = true")
	}
	if !GetBool(m, "text", true) || GetBool(m, "missing", false) {
		t.Error("GetBool should fall back to the default for non-bool values")
	}
}

func TestGetInt(t *testing.T) {
	m := map[string]any{"f": 12.0, "i": 7, "s": "3"}
	tests := []struct {
		key  string
		want int
	}{
		{"f", 12},
		{"i", 7},
		{"s", -1},
		{"missing", -1},
	}
	for _, tt := range tests {
		if got := GetInt(m, tt.key, -1); got != tt.want {
			t.Errorf("GetInt(%q) = %d, want %d", tt.key, got, tt.want)
		}
	}
}
