package idgen_test

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/KirkDiggler/skywar-api/internal/pkg/idgen"
	"github.com/KirkDiggler/skywar-api/internal/pkg/random"
)

func TestSequential(t *testing.T) {
	g := idgen.NewSequential("room")
	assert.Equal(t, "room_1", g.Generate())
	assert.Equal(t, "room_2", g.Generate())
	assert.Equal(t, "1", idgen.NewSequential("").Generate())
}

func TestUUID(t *testing.T) {
	id := idgen.NewUUID("room").Generate()
	assert.Regexp(t, regexp.MustCompile(`^room_[0-9a-f-]{36}$`), id)
	assert.NotEqual(t, id, idgen.NewUUID("room").Generate())
}

func TestCode(t *testing.T) {
	g := idgen.NewCode(random.NewSequence(4, 0, 9, 2, 13, 7), 6)
	assert.Equal(t, "409237", g.Generate())

	assert.Regexp(t, regexp.MustCompile(`^[0-9]{6}$`), idgen.NewCode(random.New(nil), 6).Generate())
}
