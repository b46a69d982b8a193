package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// Load
// ---------------------------------------------------------------------------

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("MIRO_ACCESS_TOKEN", "tok-123")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "tok-123", cfg.Miro.AccessToken)
	assert.Equal(t, "https://api.miro.com/v2", cfg.Miro.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Miro.HTTPTimeout)
	assert.Equal(t, 50, cfg.Miro.PageLimit)
	assert.Equal(t, float64(4), cfg.Miro.RateLimit)
	assert.Equal(t, 8, cfg.Miro.RateBurst)
	assert.Equal(t, "backups", cfg.Backup.Dir)
	assert.Equal(t, "board_list.csv", cfg.Backup.BoardList)
	assert.Empty(t, cfg.S3.Bucket)
}

func TestLoad_TokenWhitespaceTrimmed(t *testing.T) {
	t.Setenv("MIRO_ACCESS_TOKEN", "  tok-123 \n")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "tok-123", cfg.Miro.AccessToken)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("MIRO_ACCESS_TOKEN", "tok")
	t.Setenv("MIRO_BASE_URL", "http://localhost:9999/v2")
	t.Setenv("MIRO_HTTP_TIMEOUT", "5s")
	t.Setenv("MIRO_PAGE_LIMIT", "10")
	t.Setenv("MIRO_RATE_LIMIT", "1.5")
	t.Setenv("MIRO_BACKUP_DIR", "/tmp/archives")
	t.Setenv("MIRO_S3_BUCKET", "board-archives")
	t.Setenv("MIRO_S3_PATH_STYLE", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9999/v2", cfg.Miro.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Miro.HTTPTimeout)
	assert.Equal(t, 10, cfg.Miro.PageLimit)
	assert.Equal(t, 1.5, cfg.Miro.RateLimit)
	assert.Equal(t, "/tmp/archives", cfg.Backup.Dir)
	assert.Equal(t, "board-archives", cfg.S3.Bucket)
	assert.True(t, cfg.S3.UsePathStyle)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantMsg string
	}{
		{
			name:    "missing token",
			env:     map[string]string{"MIRO_ACCESS_TOKEN": ""},
			wantMsg: "MIRO_ACCESS_TOKEN is required",
		},
		{
			name:    "page limit above api cap",
			env:     map[string]string{"MIRO_ACCESS_TOKEN": "tok", "MIRO_PAGE_LIMIT": "100"},
			wantMsg: "MIRO_PAGE_LIMIT",
		},
		{
			name:    "page limit zero",
			env:     map[string]string{"MIRO_ACCESS_TOKEN": "tok", "MIRO_PAGE_LIMIT": "0"},
			wantMsg: "MIRO_PAGE_LIMIT",
		},
		{
			name:    "non-numeric rate limit",
			env:     map[string]string{"MIRO_ACCESS_TOKEN": "tok", "MIRO_RATE_LIMIT": "fast"},
			wantMsg: "MIRO_RATE_LIMIT",
		},
		{
			name:    "negative timeout",
			env:     map[string]string{"MIRO_ACCESS_TOKEN": "tok", "MIRO_HTTP_TIMEOUT": "-1s"},
			wantMsg: "MIRO_HTTP_TIMEOUT",
		},
		{
			name:    "bad bool",
			env:     map[string]string{"MIRO_ACCESS_TOKEN": "tok", "MIRO_S3_PATH_STYLE": "yep"},
			wantMsg: "MIRO_S3_PATH_STYLE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

// ---------------------------------------------------------------------------
// Helper functions
// ---------------------------------------------------------------------------

func TestGetEnvFloat(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		setVal   *string
		fallback float64
		want     float64
		wantErr  bool
	}{
		{name: "returns fallback when unset", key: "MIRO_TEST_FLOAT_UNSET", setVal: nil, fallback: 4, want: 4},
		{name: "parses float", key: "MIRO_TEST_FLOAT_VALID", setVal: strPtr("2.5"), fallback: 0, want: 2.5},
		{name: "parses integer form", key: "MIRO_TEST_FLOAT_INT", setVal: strPtr("3"), fallback: 0, want: 3},
		{name: "errors on non-numeric", key: "MIRO_TEST_FLOAT_NAN", setVal: strPtr("abc"), fallback: 0, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.setVal != nil {
				t.Setenv(tc.key, *tc.setVal)
			}

			got, err := getEnvFloat(tc.key, tc.fallback)
			if tc.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.key)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestGetEnvDuration(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		setVal   *string
		fallback time.Duration
		want     time.Duration
		wantErr  bool
	}{
		{name: "returns fallback when unset", key: "MIRO_TEST_DUR_UNSET", setVal: nil, fallback: 30 * time.Second, want: 30 * time.Second},
		{name: "parses duration", key: "MIRO_TEST_DUR_VALID", setVal: strPtr("90s"), fallback: 0, want: 90 * time.Second},
		{name: "errors on bare number", key: "MIRO_TEST_DUR_BARE", setVal: strPtr("30"), fallback: 0, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.setVal != nil {
				t.Setenv(tc.key, *tc.setVal)
			}

			got, err := getEnvDuration(tc.key, tc.fallback)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func strPtr(s string) *string { return &s }
