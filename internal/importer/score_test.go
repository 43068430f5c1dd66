package importer

import "testing"

func intPtr(v int) *int { return &v }

func TestResolveScore(t *testing.T) {
	cfg := &ScoringConfig{OptionScores: map[string]int{"a": 3, "b": -2, "zero": 0}}

	tests := []struct {
		name string
		opt  BundleOption
		cfg  *ScoringConfig
		want int
	}{
		{
			name: "explicit override wins over config",
			opt:  BundleOption{Key: "a", Score: intPtr(10)},
			cfg:  cfg,
			want: 10,
		},
		{
			name: "explicit zero still wins",
			opt:  BundleOption{Key: "a", Score: intPtr(0)},
			cfg:  cfg,
			want: 0,
		},
		{
			name: "negative override",
			opt:  BundleOption{Key: "a", Score: intPtr(-5)},
			cfg:  nil,
			want: -5,
		},
		{
			name: "config lookup by key",
			opt:  BundleOption{Key: "b"},
			cfg:  cfg,
			want: -2,
		},
		{
			name: "config maps key to zero",
			opt:  BundleOption{Key: "zero"},
			cfg:  cfg,
			want: 0,
		},
		{
			name: "key missing from config",
			opt:  BundleOption{Key: "missing"},
			cfg:  cfg,
			want: 0,
		},
		{
			name: "nil config",
			opt:  BundleOption{Key: "a"},
			cfg:  nil,
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveScore(tt.opt, tt.cfg); got != tt.want {
				t.Fatalf("ResolveScore() = %d, want %d", got, tt.want)
			}
		})
	}
}
