package settings

// DB config keys and defaults for site settings.
const (
	// SiteNameKey is the DB config key for the public site name.
	SiteNameKey = "SITE_NAME"
	// DefaultSiteName is the fallback public site name.
	DefaultSiteName = "Cardly"
	// SupportPhoneKey is the DB config key for the support contact number.
	SupportPhoneKey = "SUPPORT_PHONE"
	// SupportEmailKey is the DB config key for the support contact email.
	SupportEmailKey = "SUPPORT_EMAIL"
	// RefreshIntervalSecondsKey controls the settings snapshot refresh interval.
	RefreshIntervalSecondsKey = "SETTINGS_REFRESH_INTERVAL_SECONDS"
	// DefaultRefreshIntervalSeconds is the fallback refresh interval.
	DefaultRefreshIntervalSeconds = 300
)
