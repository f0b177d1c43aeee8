package middleware

import (
	"crypto/sha256"
	"crypto/subtle"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/fernet/fernet-go"
	"go.uber.org/zap"

	"github.com/estatefolio/investor-dashboard/internal/api/response"
	"github.com/estatefolio/investor-dashboard/internal/logging"
)

// APIKeyEnv names the environment variable holding the admin API key.
const APIKeyEnv = "INTERNAL_API_KEY"

// DefaultTimeTokenTTL is how long a time token stays valid.
const DefaultTimeTokenTTL = 5 * time.Minute

// APIKeyMiddleware protects admin routes with DefaultTimeTokenTTL.
func APIKeyMiddleware(next http.Handler) http.Handler {
	return RequireAPIKey(DefaultTimeTokenTTL)(next)
}

// RequireAPIKey returns middleware that admits a request only when it carries
// the admin key in X-API-Key and a fernet token minted from that key in
// X-Time-Token that is younger than ttl.
//
// The key is read from INTERNAL_API_KEY on every request; when it is unset
// all requests are refused with 500.
func RequireAPIKey(ttl time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			apiKey := os.Getenv(APIKeyEnv)
			if apiKey == "" {
				logging.ErrorCtx(r.Context(), nil, zap.String("reason", APIKeyEnv+" not set"))
				response.RespondError(w, http.StatusInternalServerError, "Server error", "Authentication not loaded")
				return
			}

			provided := r.Header.Get("X-API-Key")
			if provided == "" {
				response.RespondError(w, http.StatusUnauthorized, "Unauthorized", "Missing API key")
				return
			}
			if subtle.ConstantTimeCompare([]byte(provided), []byte(apiKey)) != 1 {
				logging.WarnCtx(r.Context(), "rejected admin request", zap.String("reason", "invalid api key"))
				response.RespondError(w, http.StatusUnauthorized, "Unauthorized", "Invalid API key")
				return
			}

			token := r.Header.Get("X-Time-Token")
			if token == "" {
				response.RespondError(w, http.StatusUnauthorized, "Unauthorized", "Missing Time token")
				return
			}
			if fernet.VerifyAndDecrypt([]byte(token), ttl, []*fernet.Key{deriveKey(apiKey)}) == nil {
				logging.WarnCtx(r.Context(), "rejected admin request", zap.String("reason", "invalid time token"))
				response.RespondError(w, http.StatusUnauthorized, "Unauthorized", "Time token is invalid or expired")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// GenerateTimeToken mints a time token for apiKey. The token embeds its
// creation time, which RequireAPIKey checks against the ttl.
func GenerateTimeToken(apiKey string) string {
	payload := []byte(strconv.FormatInt(time.Now().Unix(), 10))
	token, err := fernet.EncryptAndSign(payload, deriveKey(apiKey))
	if err != nil {
		logging.Default().Error("failed to mint time token", zap.Error(err))
		return ""
	}
	return string(token)
}

// deriveKey turns an API key of any length into a fernet key.
func deriveKey(apiKey string) *fernet.Key {
	sum := sha256.Sum256([]byte(apiKey))
	k := fernet.Key(sum)
	return &k
}
