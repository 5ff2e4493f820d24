package service

import (
	"context"
	"fmt"

	"github.com/sefazor/integrations-backend/internal/apperror"
)

// Prober runs one bounded read against the backing store.
type Prober interface {
	ProbeOne(ctx context.Context) error
}

type ConnectivityService struct {
	prober Prober
}

// NewConnectivityService accepts a nil prober when no database is configured.
func NewConnectivityService(prober Prober) *ConnectivityService {
	return &ConnectivityService{
		prober: prober,
	}
}

// Check makes exactly one probe attempt. A panicking store is reported like
// any other failure.
func (s *ConnectivityService) Check(ctx context.Context) (err error) {
	const op = "supabase.probe"

	if s.prober == nil {
		return apperror.Configuration(op, "SUPABASE_DB_URL is not configured")
	}

	defer func() {
		if r := recover(); r != nil {
			err = apperror.Internal(op, fmt.Errorf("%v", r))
		}
	}()

	if err := s.prober.ProbeOne(ctx); err != nil {
		return apperror.Upstream(op, err)
	}

	return nil
}
