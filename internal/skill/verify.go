package skill

import (
	"fmt"
	"time"

	"voxbridge/internal/models"
)

// TimestampTolerance is how far a request timestamp may drift from server
// time before the request is rejected as a replay.
const TimestampTolerance = 150 * time.Second

// Verifier rejects envelopes that are not addressed to the configured
// skill or carry a stale timestamp. An empty skill ID disables the
// addressing check for local development.
type Verifier struct {
	SkillID   string
	Tolerance time.Duration
}

func NewVerifier(skillID string) *Verifier {
	return &Verifier{SkillID: skillID, Tolerance: TimestampTolerance}
}

func (v *Verifier) Verify(env *models.RequestEnvelope, now time.Time) error {
	if env == nil || env.Request == nil {
		return fmt.Errorf("missing request block")
	}
	if v.SkillID != "" && env.ApplicationID() != v.SkillID {
		return fmt.Errorf("request addressed to application %q", env.ApplicationID())
	}
	if ts := env.Request.Timestamp; ts != "" {
		parsed, err := time.Parse(time.RFC3339, ts)
		if err != nil {
			return fmt.Errorf("unparseable request timestamp %q: %w", ts, err)
		}
		if drift := now.Sub(parsed); drift > v.Tolerance || drift < -v.Tolerance {
			return fmt.Errorf("request timestamp %s outside tolerance", ts)
		}
	}
	return nil
}
