package seed

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

type stubChecker struct {
	exists bool
	err    error
	calls  int
}

func (s *stubChecker) SuperuserExists(context.Context) (bool, error) {
	s.calls++
	return s.exists, s.err
}

// A nil database is never touched on these paths.
func TestEnsureSuperuserSkips(t *testing.T) {
	ctx := context.Background()

	existing := &stubChecker{exists: true}
	assert.NoError(t, EnsureSuperuser(ctx, nil, existing, SuperuserParams{Username: "admin", Password: "secret123"}, zerolog.Nop()))
	assert.Equal(t, 1, existing.calls)

	unconfigured := &stubChecker{}
	assert.NoError(t, EnsureSuperuser(ctx, nil, unconfigured, SuperuserParams{Username: "admin"}, zerolog.Nop()))
}

func TestEnsureSuperuserCheckError(t *testing.T) {
	err := EnsureSuperuser(context.Background(), nil, &stubChecker{err: errors.New("db down")}, SuperuserParams{}, zerolog.Nop())
	assert.ErrorContains(t, err, "db down")
}
