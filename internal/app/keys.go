package app

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/spigell/hirematch/internal/api"
	"github.com/spigell/hirematch/internal/query"
)

const (
	RecommendationsStaleTime = 5 * time.Minute
	SearchStaleTime          = 2 * time.Minute
	listStaleTime            = 30 * time.Second
	statsRetries             = 2
)

var (
	keyEmployerJobs       = query.Key{"employer", "jobs"}
	keyCandidates         = query.Key{"employer", "candidates"}
	keyMatching           = query.Key{"matching"}
	keyEmployeeMatches    = query.Key{"matching", "employee-matches"}
	keyMatchingStats      = query.Key{"matching", "stats"}
	keyResumes            = query.Key{"employee", "resumes"}
	keyVoiceAnalyses      = query.Key{"employee", "voice-analyses"}
	keyEmployeeApplicants = query.Key{"employee", "applications"}
)

const anonymousScope = "anonymous"

// scope names the cache namespace of one token. The backend may be shared
// between accounts, so every key the App uses starts with it. The token
// itself is never written into a key.
func scope(token string) string {
	token = strings.TrimSpace(token)
	token = strings.TrimSpace(strings.TrimPrefix(token, "Bearer "))
	if token == "" {
		return anonymousScope
	}
	sum := sha256.Sum256([]byte(token))
	return "u-" + hex.EncodeToString(sum[:8])
}

// keys scopes ks to the token currently in use.
func (a *App) keys(ks ...query.Key) []query.Key {
	root := query.Key{scope(a.tokens.Token())}
	out := make([]query.Key, 0, len(ks))
	for _, k := range ks {
		out = append(out, root.Append(k...))
	}
	return out
}

func (a *App) key(k query.Key) query.Key {
	return a.keys(k)[0]
}

func jobKey(id api.ID) query.Key {
	return keyEmployerJobs.Append(id.String())
}

func jobApplicationsKey(id api.ID) query.Key {
	return jobKey(id).Append("applications")
}

// statsRetry never retries a 403: the role cannot see stats, and asking
// again will not change that.
var statsRetry = query.RetryPolicy{
	Retries:     statsRetries,
	ShouldRetry: func(err error) bool { return !api.IsForbidden(err) },
}
