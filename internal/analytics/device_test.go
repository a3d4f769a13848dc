package analytics

import (
	"strings"
	"testing"

	"github.com/discoverdiani/discovery-platform/internal/model"
)

func TestClassifyDevice(t *testing.T) {
	tests := []struct {
		name string
		ua   string
		want model.DeviceInfo
	}{
		{
			name: "desktop chrome on windows",
			ua:   "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36",
			want: model.DeviceInfo{Type: "desktop", Browser: "Chrome", OS: "Windows"},
		},
		{
			name: "mobile safari on iphone",
			ua:   "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 Version/17.0 Mobile/15E148 Safari/604.1",
			want: model.DeviceInfo{Type: "mobile", Browser: "Safari", OS: "iOS"},
		},
		{
			name: "firefox on linux",
			ua:   "Mozilla/5.0 (X11; Linux x86_64; rv:121.0) Gecko/20100101 Firefox/121.0",
			want: model.DeviceInfo{Type: "desktop", Browser: "Firefox", OS: "Linux"},
		},
		{
			name: "chrome on android",
			ua:   "Mozilla/5.0 (Linux; Android 14) AppleWebKit/537.36 Chrome/120.0 Mobile Safari/537.36",
			want: model.DeviceInfo{Type: "mobile", Browser: "Chrome", OS: "Android"},
		},
		{
			name: "empty user agent degrades to fallback buckets",
			ua:   "",
			want: model.DeviceInfo{Type: "desktop", Browser: "Other", OS: "Other"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyDevice(tt.ua); got != tt.want {
				t.Errorf("ClassifyDevice(%q) = %+v, want %+v", tt.ua, got, tt.want)
			}
		})
	}
}

func TestNewUserID(t *testing.T) {
	id := NewUserID(1717243200000)

	if !strings.HasPrefix(id, "user_1717243200000_") {
		t.Errorf("user ID %q missing timestamp prefix", id)
	}
	suffix := strings.TrimPrefix(id, "user_1717243200000_")
	if len(suffix) != 9 {
		t.Errorf("user ID suffix length = %d, want 9", len(suffix))
	}

	if NewUserID(1717243200000) == id {
		t.Error("consecutive user IDs should differ")
	}
}
