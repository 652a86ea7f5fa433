package main

import (
	"encoding/json"
	"math"
	"testing"
)

func TestNormalizeUserID(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{`"12345"`, "12345"},
		{`12345`, "12345"},
		{`"  77  "`, "77"},
		{`null`, ""},
		{``, ""},
		{`{"nested":true}`, ""},
	}
	for _, tc := range cases {
		var raw json.RawMessage
		if tc.raw != "" {
			raw = json.RawMessage(tc.raw)
		}
		if got := normalizeUserID(raw); got != tc.want {
			t.Fatalf("normalizeUserID(%s) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestCoerceUploadClampsAndFilters(t *testing.T) {
	body := clickerUpload{
		UserID:   json.RawMessage(`42`),
		Username: " tester ",
		Score:    -100,
		Level:    3.9,
		Currency: 250.7,
		Upgrades: []uploadUpgrade{
			{Name: "chrono_core", Level: 2.6},
			{Name: "unknown_device", Level: 4},
			{Name: "drone_fleet", Level: 0},
		},
		ActiveSkin: "void_crown",
		OwnedSkins: []string{"nebula_flare", "ghost_skin"},
	}
	u := coerceUpload(body)

	if u.UserID != "42" || u.Username != "tester" {
		t.Fatalf("identity = %q/%q", u.UserID, u.Username)
	}
	if u.Score != 0 {
		t.Fatalf("negative score not clamped: %d", u.Score)
	}
	if u.Level != 3 || u.Currency != 250 {
		t.Fatalf("fractional counters = level %d currency %d", u.Level, u.Currency)
	}
	if len(u.Upgrades) != 1 || u.Upgrades["chrono_core"] != 2 {
		t.Fatalf("upgrades = %v", u.Upgrades)
	}
	if u.ActiveSkin != "stardust_emblem" {
		t.Fatalf("unowned active skin not reset: %q", u.ActiveSkin)
	}
	want := []string{"nebula_flare", "stardust_emblem"}
	if len(u.OwnedSkins) != len(want) {
		t.Fatalf("owned skins = %v, want %v", u.OwnedSkins, want)
	}
	for i := range want {
		if u.OwnedSkins[i] != want[i] {
			t.Fatalf("owned skins = %v, want %v", u.OwnedSkins, want)
		}
	}
}

func TestCoerceUploadKeepsOwnedActiveSkin(t *testing.T) {
	body := clickerUpload{
		UserID:     json.RawMessage(`"42"`),
		ActiveSkin: "nebula_flare",
		OwnedSkins: []string{"nebula_flare"},
	}
	u := coerceUpload(body)
	if u.ActiveSkin != "nebula_flare" {
		t.Fatalf("active skin = %q", u.ActiveSkin)
	}
}

func TestCoerceCountOverflow(t *testing.T) {
	cases := []struct {
		in   float64
		want int64
	}{
		{0, 0},
		{123.9, 123},
		{-1, 0},
		{math.NaN(), 0},
		{math.Inf(1), 0},
		{math.Inf(-1), 0},
		{1e19, math.MaxInt64},
		{math.MaxFloat64, math.MaxInt64},
	}
	for _, tc := range cases {
		if got := coerceCount(tc.in); got != tc.want {
			t.Fatalf("coerceCount(%g) = %d, want %d", tc.in, got, tc.want)
		}
	}
	u := coerceUpload(clickerUpload{UserID: json.RawMessage(`"42"`), Score: 1e19})
	if u.Score != math.MaxInt64 {
		t.Fatalf("score = %d, want clamp to MaxInt64, never negative", u.Score)
	}
}

func TestFormatUpgradesSorted(t *testing.T) {
	out := formatUpgrades(map[string]int{"b": 2, "a": 1, "c": 3})
	if len(out) != 3 || out[0].Name != "a" || out[1].Name != "b" || out[2].Name != "c" {
		t.Fatalf("upgrades not sorted: %v", out)
	}
}

func TestParseLimit(t *testing.T) {
	cases := []struct {
		raw  string
		want int
	}{
		{"", 20},
		{"5", 5},
		{"50", 50},
		{"51", 50},
		{"0", 20},
		{"-3", 20},
		{"abc", 20},
	}
	for _, tc := range cases {
		if got := parseLimit(tc.raw, leaderboardDefaultLimit, leaderboardMaxLimit); got != tc.want {
			t.Fatalf("parseLimit(%q) = %d, want %d", tc.raw, got, tc.want)
		}
	}
}

func TestIsValidUserID(t *testing.T) {
	valid := []string{"12345", "user_42", "abc-DEF-123"}
	for _, id := range valid {
		if !isValidUserID(id) {
			t.Fatalf("%q rejected", id)
		}
	}
	invalid := []string{"", "has space", "semi;colon", "path/../traversal", string(make([]byte, 65))}
	for _, id := range invalid {
		if isValidUserID(id) {
			t.Fatalf("%q accepted", id)
		}
	}
}
