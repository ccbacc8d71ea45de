package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/aurdex/internal/core/domain"
)

func TestParseVersion(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    domain.Version
		wantErr bool
	}{
		{
			name:  "Plain Version",
			input: "1.2.3",
			want:  domain.Version{Epoch: 0, Upstream: "1.2.3", Release: 1},
		},
		{
			name:  "Version With Release",
			input: "5.2.015-1",
			want:  domain.Version{Epoch: 0, Upstream: "5.2.015", Release: 1, HasRelease: true},
		},
		{
			name:  "Epoch Version Release",
			input: "2:1.0-3",
			want:  domain.Version{Epoch: 2, Upstream: "1.0", Release: 3, HasRelease: true},
		},
		{
			name:  "Tilde Prerelease",
			input: "1.0~beta-1",
			want:  domain.Version{Epoch: 0, Upstream: "1.0~beta", Release: 1, HasRelease: true},
		},
		{
			name:  "Hyphen In Upstream Keeps Last As Release",
			input: "2024-04-01-2",
			want:  domain.Version{Epoch: 0, Upstream: "2024-04-01", Release: 2, HasRelease: true},
		},
		{
			name:    "Empty",
			input:   "",
			wantErr: true,
		},
		{
			name:    "Non Numeric Epoch",
			input:   "x:1.0",
			wantErr: true,
		},
		{
			name:    "Epoch Only",
			input:   "1:",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := domain.ParseVersion(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompareVersions_Ordering(t *testing.T) {
	// Each pair asserts a < b; symmetry and equality are checked below.
	pairs := []struct{ a, b string }{
		{"1.0", "1.1"},
		{"1.0", "1.0.1"},
		{"1.9", "1.10"},
		{"1.0a", "1.0"},
		{"1.0alpha", "1.0b"},
		{"1.0~beta-1", "1.0-1"},
		{"1.0~rc1", "1.0~rc2"},
		{"1.0-1", "1:0.1-1"},
		{"1.0-1", "1.0-2"},
		{"0:2.0", "1:1.0"},
		{"1.0", "1.0.0"},
		{"20060102", "20060103"},
		{"1.0.a", "1.0.1"},
		{"2.99", "3.0~alpha"},
		{"3.0~alpha", "3.0"},
	}

	for _, p := range pairs {
		t.Run(p.a+" < "+p.b, func(t *testing.T) {
			assert.Equal(t, -1, domain.CompareVersions(p.a, p.b))
			assert.Equal(t, 1, domain.CompareVersions(p.b, p.a))
		})
	}
}

func TestCompareVersions_Equality(t *testing.T) {
	equal := []struct{ a, b string }{
		{"1.0", "1.0"},
		{"1.0-1", "1.0-1"},
		{"0:1.0", "1.0"},
		{"1.0", "1_0"},
		{"01.0", "1.0"},
		// Release is only compared when both sides carry one.
		{"1.0", "1.0-5"},
	}

	for _, p := range equal {
		t.Run(p.a+" == "+p.b, func(t *testing.T) {
			assert.Equal(t, 0, domain.CompareVersions(p.a, p.b))
			assert.Equal(t, 0, domain.CompareVersions(p.b, p.a))
		})
	}
}

func TestCompareVersions_MalformedFailsClosed(t *testing.T) {
	assert.Equal(t, -1, domain.CompareVersions("", "1.0"))
	assert.Equal(t, 1, domain.CompareVersions("1.0", ""))
	assert.Equal(t, -1, domain.CompareVersions("x:broken", "0.0.1"))
	assert.Equal(t, 0, domain.CompareVersions("", "x:broken"))
}

func TestCompareVersions_Transitivity(t *testing.T) {
	// A curated ascending chain; every pair must agree with the chain order.
	chain := []string{
		"", "1.0~alpha", "1.0~beta-1", "1.0a", "1.0", "1.0.1", "1.1", "2.0-1", "2.0-2", "10.0", "1:0.1-1", "2:0.0.1",
	}

	for i := range chain {
		for j := range chain {
			got := domain.CompareVersions(chain[i], chain[j])
			switch {
			case i < j:
				assert.Equal(t, -1, got, "%q should sort before %q", chain[i], chain[j])
			case i > j:
				assert.Equal(t, 1, got, "%q should sort after %q", chain[i], chain[j])
			default:
				assert.Equal(t, 0, got)
			}
		}
	}
}
