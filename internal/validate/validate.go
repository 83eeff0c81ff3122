package validate

// This package adds struct and field validation as a thin wrapper around the go-playground/validator package.
//
// e.g. internal/storage/storage.go
//   type Data struct {
// 		 ...
//       DeviceUUID   string `json:"device_uuid" validate:"required,uuid4"`
//       ReferralCode string `json:"referral_code" validate:"required,referral_code"`
//   }
//
// Custom tags registered here:
//   referral_code  eight upper-case letters or digits
//   image_ref      an http(s) URL or a relative/absolute file path

import (
	"net/url"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

//nolint:gochecknoglobals // Shared validator singleton.
var (
	validatorOnce sync.Once
	validatorInst *validator.Validate

	referralPattern = regexp.MustCompile(`^[A-Z0-9]{8}$`)
)

// get returns a process-wide singleton of the validator.
func get() *validator.Validate {
	validatorOnce.Do(func() {
		validatorInst = validator.New(validator.WithRequiredStructEnabled())
		_ = validatorInst.RegisterValidation("referral_code", func(fl validator.FieldLevel) bool {
			return IsReferralCode(fl.Field().String())
		})
		_ = validatorInst.RegisterValidation("image_ref", func(fl validator.FieldLevel) bool {
			return IsImageRef(fl.Field().String())
		})
	})
	return validatorInst
}

// Struct validates a struct using the shared validator instance.
func Struct(v any) error {
	return get().Struct(v)
}

// Var validates a single variable against the provided tag constraints.
func Var(field any, tag string) error {
	return get().Var(field, tag)
}

// IsReferralCode reports whether s looks like a referral code.
func IsReferralCode(s string) bool {
	return referralPattern.MatchString(s)
}

// IsImageRef accepts http(s) URLs and plain file paths.
func IsImageRef(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	if !strings.Contains(s, "://") {
		return !strings.ContainsAny(s, "\x00\n")
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
