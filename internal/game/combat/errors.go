package combat

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for the ability-use preconditions. Their messages are the
// user-facing API strings; the HTTP layer maps each to a status code.
var (
	ErrUnknownUniverse   = errors.New("unknown universe")
	ErrCasterNotFound    = errors.New("caster not found")
	ErrCasterUnconscious = errors.New("cannot use abilities while unconscious")
	ErrWrongMode         = errors.New("abilities cannot be used in your current mode")
	ErrAbilityNotFound   = errors.New("ability not found")
	ErrAbilityNotKnown   = errors.New("you do not have this ability")
	ErrTargetNotFound    = errors.New("target not found")
	ErrTargetUnconscious = errors.New("target is unconscious")
	ErrNoEffects         = errors.New("no effects defined for this ability")
)

// CooldownError reports an ability still cooling down.
type CooldownError struct {
	// Remaining is the time until the ability can be used again.
	Remaining time.Duration
}

// Error formats the remaining time as "Xm Ys", seconds rounded up, so a
// 0.1s remainder still reads as 1s rather than "0m 0s".
func (e *CooldownError) Error() string {
	secs := int64((e.Remaining + time.Second - 1) / time.Second)
	if secs < 1 {
		secs = 1
	}
	return fmt.Sprintf("ability is cooling down: %dm %ds remaining", secs/60, secs%60)
}

// ControlledError reports that an active control effect blocks the caster.
type ControlledError struct {
	// Label is the display label of the blocking condition, e.g. "Stunned".
	Label string
}

func (e *ControlledError) Error() string {
	return fmt.Sprintf("you cannot act while %s", e.Label)
}
