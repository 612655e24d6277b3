package coerce

import "testing"

func TestToFloat(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
		want  float64
		ok    bool
	}{
		{"float64", 1.5, 1.5, true},
		{"float32", float32(2), 2, true},
		{"int", 3, 3, true},
		{"int64", int64(4), 4, true},
		{"string", "1.5", 0, false},
		{"bool", true, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ToFloat(tt.input)
			if ok != tt.ok || got != tt.want {
				t.Errorf("ToFloat(%v) = (%v, %v), want (%v, %v)", tt.input, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestToInt(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
		want  int
		ok    bool
	}{
		{"int", 5, 5, true},
		{"int64", int64(6), 6, true},
		{"integral float", 7.0, 7, true},
		{"fractional float", 7.5, 0, false},
		{"string", "7", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ToInt(tt.input)
			if ok != tt.ok || got != tt.want {
				t.Errorf("ToInt(%v) = (%v, %v), want (%v, %v)", tt.input, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestToBool(t *testing.T) {
	if b, ok := ToBool(true); !ok || !b {
		t.Errorf("ToBool(true) = (%v, %v), want (true, true)", b, ok)
	}
	if _, ok := ToBool(1); ok {
		t.Error("ToBool(1) accepted a non-boolean")
	}
	if _, ok := ToBool("true"); ok {
		t.Error("ToBool(\"true\") accepted a non-boolean")
	}
}
