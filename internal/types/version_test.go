package types

import "testing"

func TestPackedVersionString(t *testing.T) {
	tests := []struct {
		version PackedVersion
		want    string
	}{
		{NewPackedVersion(1, 2, 3), "1.2.3"},
		{NewPackedVersion(1, 2, 0), "1.2"},
		{NewPackedVersion(1, 0, 0), "1"},
		{NewPackedVersion(0, 0, 0), "0"},
		{NewPackedVersion(1200, 3, 0), "1200.3"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.version.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParsePackedVersion(t *testing.T) {
	tests := []struct {
		input   string
		want    PackedVersion
		wantErr bool
	}{
		{"1.2.3", NewPackedVersion(1, 2, 3), false},
		{"1.2", NewPackedVersion(1, 2, 0), false},
		{"1", NewPackedVersion(1, 0, 0), false},
		{"65535.255.255", NewPackedVersion(65535, 255, 255), false},
		{"", 0, true},
		{"1.2.3.4", 0, true},
		{"a.b", 0, true},
		{"70000", 0, true},
		{"1.300", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParsePackedVersion(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParsePackedVersion(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("ParsePackedVersion(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestPackedVersionComponents(t *testing.T) {
	v := NewPackedVersion(1034, 7, 9)
	if v.Major() != 1034 || v.Minor() != 7 || v.Patch() != 9 {
		t.Errorf("components = %d.%d.%d, want 1034.7.9", v.Major(), v.Minor(), v.Patch())
	}
}
