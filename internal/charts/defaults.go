package charts

import "time"

const (
	secondsPerDay int64 = 86_400

	defaultCacheSize    = 5
	defaultCacheTTL     = 150 * time.Second
	defaultLookupWorker = 8
	defaultBuildTimeout = 2 * time.Minute

	soloBucket  = "Others solo miners"
	dateLayout  = "2006-01-02"
	coinDecimal = 8
)
