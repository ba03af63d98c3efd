package utils

import (
	"net/http"
	"strconv"

	"agrimarket/globals"
	"agrimarket/middleware"

	"github.com/google/uuid"
)

func GetUUID() string {
	return uuid.New().String()
}

func GetUserIDFromRequest(r *http.Request) string {
	requestingUserID, ok := r.Context().Value(globals.UserIDKey).(string)
	if !ok || requestingUserID == "" {
		return ""
	}
	return requestingUserID
}

func GetRolesFromRequest(r *http.Request) []string {
	roles, ok := r.Context().Value(globals.RoleKey).([]string)
	if !ok {
		return nil
	}
	return roles
}

func HasRole(r *http.Request, role string) bool {
	for _, have := range GetRolesFromRequest(r) {
		if have == role {
			return true
		}
	}
	return false
}

func GetUsernameFromRequest(r *http.Request) string {
	claims, err := middleware.ValidateJWT(r.Header.Get("Authorization"))
	if err != nil {
		return ""
	}
	return claims.Username
}

// ParsePagination reads ?limit= and ?offset= with sane bounds.
func ParsePagination(r *http.Request, defaultLimit int64) (limit, offset int64) {
	limit = defaultLimit
	if l, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && l > 0 && int64(l) <= 100 {
		limit = int64(l)
	}
	if o, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && o >= 0 {
		offset = int64(o)
	}
	return limit, offset
}

func Contains(slice []string, value string) bool {
	for _, v := range slice {
		if v == value {
			return true
		}
	}
	return false
}
