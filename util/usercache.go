package util

import (
	"os"
	"strconv"
	"time"

	cache "github.com/patrickmn/go-cache"
	"gorm.io/gorm"
)

const defaultUsernameCacheTTL = 10 * time.Minute

// userCache maps userID -> username for log enrichment.
var userCache *cache.Cache

// InitUsernameCache initializes the cache with the given entry lifetime.
// If ttl <= 0, a default of 10 minutes is used.
func InitUsernameCache(ttl time.Duration) {
	if ttl <= 0 {
		ttl = defaultUsernameCacheTTL
	}
	userCache = cache.New(ttl, 2*ttl)
}

func userCacheKey(userID uint) string {
	return strconv.FormatUint(uint64(userID), 10)
}

// UsernameCacheGet returns the username and true if present in cache.
func UsernameCacheGet(userID uint) (string, bool) {
	if userCache == nil {
		return "", false
	}
	if v, ok := userCache.Get(userCacheKey(userID)); ok {
		if name, ok := v.(string); ok {
			return name, true
		}
	}
	return "", false
}

// UsernameCacheSet stores the username for a userID.
func UsernameCacheSet(userID uint, username string) {
	if userCache == nil {
		return
	}
	userCache.Set(userCacheKey(userID), username, cache.DefaultExpiration)
}

// GetUsername returns the username for userID using cache, falling back to DB.
// If found in DB, caches the result.
func GetUsername(db *gorm.DB, userID uint) string {
	if userID == 0 {
		return ""
	}
	if name, ok := UsernameCacheGet(userID); ok {
		return name
	}
	if db == nil {
		return ""
	}
	var u struct{ Username string }
	if err := db.Table("users").Select("username").Where("id = ?", userID).Take(&u).Error; err == nil {
		if u.Username != "" {
			UsernameCacheSet(userID, u.Username)
		}
		return u.Username
	}
	return ""
}

// InitUsernameCacheFromEnv initializes the cache using USERNAME_CACHE_TTL (a Go duration).
func InitUsernameCacheFromEnv() {
	ttl, err := time.ParseDuration(os.Getenv("USERNAME_CACHE_TTL"))
	if err != nil {
		ttl = 0
	}
	InitUsernameCache(ttl)
}
