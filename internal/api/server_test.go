package api

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestServerWait(t *testing.T) {
	t.Run("listener closed", func(t *testing.T) {
		errChan := make(chan error)
		close(errChan)
		s := &Server{httpServer: &http.Server{}}
		assert.NoError(t, s.wait(context.Background(), errChan))
	})

	t.Run("listener failed", func(t *testing.T) {
		errChan := make(chan error, 1)
		errChan <- errors.New("address in use")
		s := &Server{httpServer: &http.Server{}}
		err := s.wait(context.Background(), errChan)
		assert.ErrorContains(t, err, "address in use")
	})

	t.Run("context canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		s := &Server{httpServer: &http.Server{}}
		assert.NoError(t, s.wait(ctx, make(chan error)))
	})
}
