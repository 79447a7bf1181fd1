package admin

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReplayTargets(t *testing.T) {
	starts := map[int32]int64{0: 0, 1: 7, 2: 3}
	ends := map[int32]int64{0: 5, 1: 7, 2: 9, 3: 0}

	assert.Equal(t, map[int32]int64{0: 5, 1: 0, 2: 9, 3: 0}, replayTargets(starts, ends))
}
