package analytics

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/discoverdiani/discovery-platform/internal/model"
)

const otherBucket = "Other"

// ClassifyDevice derives a coarse device classification from a User-Agent
// string. Unknown or empty input degrades to the fixed fallback buckets
// rather than failing.
func ClassifyDevice(userAgent string) model.DeviceInfo {
	return model.DeviceInfo{
		Type:    deviceType(userAgent),
		Browser: browserName(userAgent),
		OS:      osName(userAgent),
	}
}

func deviceType(ua string) string {
	if strings.Contains(strings.ToLower(ua), "mobile") {
		return "mobile"
	}
	return "desktop"
}

func browserName(ua string) string {
	switch {
	case strings.Contains(ua, "Edge"):
		return "Edge"
	case strings.Contains(ua, "Chrome"):
		return "Chrome"
	case strings.Contains(ua, "Firefox"):
		return "Firefox"
	case strings.Contains(ua, "Safari"):
		return "Safari"
	default:
		return otherBucket
	}
}

func osName(ua string) string {
	// iPhone agents advertise "like Mac OS X", Android agents advertise
	// "Linux"; check the mobile platforms first.
	switch {
	case strings.Contains(ua, "iPhone"), strings.Contains(ua, "iOS"):
		return "iOS"
	case strings.Contains(ua, "Android"):
		return "Android"
	case strings.Contains(ua, "Windows"):
		return "Windows"
	case strings.Contains(ua, "Mac"):
		return "MacOS"
	case strings.Contains(ua, "Linux"):
		return "Linux"
	default:
		return otherBucket
	}
}

const idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// NewUserID generates a synthetic user identifier. It is a pseudo-identity
// persisted client-side (cookie), stable per device, not an authenticated
// identity.
func NewUserID(nowMillis int64) string {
	suffix := make([]byte, 9)
	for i := range suffix {
		suffix[i] = idAlphabet[rand.Intn(len(idAlphabet))]
	}
	return fmt.Sprintf("user_%d_%s", nowMillis, suffix)
}
