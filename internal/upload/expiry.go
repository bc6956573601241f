package upload

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"filedrop/internal/model"
)

// ExpiryNever is the sentinel expiry option for permanent storage.
const ExpiryNever = "never"

// MinExpiry is the shortest expiry any role may request.
const MinExpiry = 5 * time.Minute

// ComputeExpiry converts an expiry option into an absolute expiry timestamp,
// or nil for permanent storage. Permanent storage and expiries beyond the
// role ceiling are admin-only.
func ComputeExpiry(role model.Role, option string, now time.Time) (*time.Time, error) {
	if option == ExpiryNever {
		if !role.CanStorePermanently() {
			return nil, ErrPermanentNotAllowed
		}
		return nil, nil
	}

	hours, err := strconv.ParseFloat(option, 64)
	if err != nil || math.IsNaN(hours) || math.IsInf(hours, 0) || hours <= 0 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidExpiry, option)
	}

	d := time.Duration(hours * float64(time.Hour))
	if d < MinExpiry {
		return nil, fmt.Errorf("%w: minimum is %s", ErrExpiryTooShort, MinExpiry)
	}
	if max := role.MaxExpiry(); max > 0 && d > max {
		return nil, fmt.Errorf("%w: maximum is %dh", ErrExpiryTooLong, model.MaxExpiryHours)
	}

	at := now.Add(d)
	return &at, nil
}
