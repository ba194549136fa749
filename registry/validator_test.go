package registry

import "testing"

func TestValidateMetadata(t *testing.T) {
	valid := []map[string]any{
		nil,
		{},
		{"courseid": "7"},
		{"courseid": float64(7)},
		{"courseid": 7},
		{"team": "alpha", "priority": 2, "active": true},
	}
	for _, meta := range valid {
		if err := ValidateMetadata(meta); err != nil {
			t.Errorf("ValidateMetadata(%v) = %v, want nil", meta, err)
		}
	}

	invalid := []map[string]any{
		{"courseid": "7b"},
		{"courseid": ""},
		{"courseid": true},
		{"nested": map[string]any{"x": 1}},
		{"list": []any{1, 2}},
	}
	for _, meta := range invalid {
		if err := ValidateMetadata(meta); err == nil {
			t.Errorf("ValidateMetadata(%v) = nil, want error", meta)
		}
	}
}

func TestCanonicalizeMetadata(t *testing.T) {
	got := CanonicalizeMetadata(map[string]any{
		"courseid": float64(7),
		"team":     "alpha",
		"active":   true,
		"weight":   1.5,
	})
	want := map[string]string{
		"courseid": "7",
		"team":     "alpha",
		"active":   "true",
		"weight":   "1.5",
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s = %q, want %q", k, got[k], v)
		}
	}

	if CanonicalizeMetadata(nil) != nil {
		t.Error("nil metadata should stay nil")
	}
	if CanonicalizeMetadata(map[string]any{}) != nil {
		t.Error("empty metadata should collapse to nil")
	}
}
