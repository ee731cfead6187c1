package utils

import (
	"time"
)

// Pricing constants
const (
	// MoneyScale is the number of decimal places every persisted amount is rounded to
	MoneyScale = 2

	// DefaultVATRatePercent is the reduced German VAT rate applied to bakery goods
	DefaultVATRatePercent = "7"

	// DefaultOrderLockTTL bounds how long a firm's order submission lock is held
	DefaultOrderLockTTL = 30 * time.Second

	// DefaultQuoteTTL is how long a signed price quote may be turned into an order
	DefaultQuoteTTL = 30 * time.Minute

	// OrderLockKeyPrefix is prepended (after the cache prefix) to order submission locks
	OrderLockKeyPrefix = "order-lock:"
)

// Locale constants
const (
	LocaleGerman  = "de"
	LocaleTurkish = "tr"
	LocaleEnglish = "en"
)

// DefaultFallbackLocales is the order in which localized names are tried after the requested locale
var DefaultFallbackLocales = []string{LocaleGerman, LocaleTurkish}
