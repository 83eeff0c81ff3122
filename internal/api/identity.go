package api

import (
	"context"
	"fmt"
	"net/http"
	"runtime"

	"github.com/agripath/agripath/internal/storage"
)

// Build-time variables injected via -ldflags -X. They name the build in the
// User-Agent header and in `agripath --version`.
//
//nolint:gochecknoglobals // these are set at build time
var (
	BuildVersion = "dev"
	BuildCommit  = "none"
	BuildDate    = "unknown"
)

// Feed request headers identifying the device.
const (
	headerDevice   = "X-Device-Uuid"
	headerReferral = "X-Referral-Code"
)

// Identity is what the feed learns about the device: its id, which keys
// impression counts, and its referral code, which credits the referrer's
// wallet. An Anonymous identity sends neither.
type Identity struct {
	DeviceUUID   string
	ReferralCode string
	Anonymous    bool
}

// ProfileIdentity is the identity of a local profile.
func ProfileIdentity(d storage.Data, anonymous bool) Identity {
	return Identity{DeviceUUID: d.DeviceUUID, ReferralCode: d.ReferralCode, Anonymous: anonymous}
}

// apply sets the identity headers on h.
func (id Identity) apply(h http.Header) {
	if id.Anonymous {
		return
	}
	if id.DeviceUUID != "" {
		h.Set(headerDevice, id.DeviceUUID)
	}
	if id.ReferralCode != "" {
		h.Set(headerReferral, id.ReferralCode)
	}
}

type identityKey struct{}

// WithIdentity overrides the client's default identity for requests made
// with the returned context.
func WithIdentity(parent context.Context, id Identity) context.Context {
	return context.WithValue(parent, identityKey{}, id)
}

// identityFor picks the identity of ctx, falling back to def.
func identityFor(ctx context.Context, def Identity) Identity {
	if id, ok := ctx.Value(identityKey{}).(Identity); ok {
		return id
	}
	return def
}

func defaultUserAgent() string {
	return fmt.Sprintf("agripath/%s (%s; %s)", BuildVersion, runtime.GOOS, runtime.GOARCH)
}
