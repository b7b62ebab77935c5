package executor

import (
	"math/rand"
	"time"
)

type random interface {
	// Duration returns, as a Duration, a non-negative pseudo-random number in [0,max).
	Duration(max time.Duration) time.Duration
}

type mathRandom struct {
	rand.Rand
}

func newRandom() *mathRandom {
	return &mathRandom{*rand.New(rand.NewSource(time.Now().Unix()))}
}

func (r mathRandom) Duration(max time.Duration) time.Duration {
	if max <= 0 {
		return 0
	}
	return time.Duration(r.Intn(int(max)))
}
