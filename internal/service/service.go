// ABOUTME: The three pin operations (add, delete, list) composing remote client and local mirror
// ABOUTME: Remote failures fail the operation; local persist failures degrade to warnings

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rebble/pinsync/internal/creds"
	"github.com/rebble/pinsync/internal/pin"
	"github.com/rebble/pinsync/internal/pinstore"
	"github.com/rebble/pinsync/internal/timeline"
)

// TimelineAPI is what the service needs from the remote client.
type TimelineAPI interface {
	PutPin(ctx context.Context, token string, p pin.Pin) error
	DeletePin(ctx context.Context, token, id string) error
}

// Result is the outcome of one pin operation. Warnings carry degraded
// conditions (a failed local write) on an otherwise-successful operation.
type Result struct {
	Removed  bool      // delete: whether the pin existed locally
	Pins     []pin.Pin // list: pins in the requested range
	Warnings []string
}

// Service implements the three external pin operations. The remote timeline
// service is authoritative: a remote failure fails the operation, while the
// local mirror is best-effort and only ever contributes warnings.
type Service struct {
	api    TimelineAPI
	coord  *pinstore.Coordinator
	creds  creds.Resolver
	logger *slog.Logger
}

// New creates the pin service.
func New(api TimelineAPI, coord *pinstore.Coordinator, resolver creds.Resolver, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		api:    api,
		coord:  coord,
		creds:  resolver,
		logger: logger.With("component", "service"),
	}
}

// AddPin creates or replaces a pin on the remote timeline and mirrors it
// locally. The caller-supplied fields pass through opaquely; only id and the
// event time are extracted for indexing.
func (s *Service) AddPin(ctx context.Context, tokenOverride string, fields map[string]any) (*Result, error) {
	token, err := s.creds.Token(tokenOverride)
	if err != nil {
		return nil, err
	}

	p := pin.FromCaller(fields)
	if p.ID == "" {
		return nil, fmt.Errorf("pin id is required")
	}

	if err := s.api.PutPin(ctx, token, p); err != nil {
		return nil, fmt.Errorf("creating pin %q: %w", p.ID, err)
	}

	res := &Result{}
	if err := s.coord.AddPin(token, p); err != nil {
		// The remote create succeeded; a local write failure must not undo that.
		res.Warnings = append(res.Warnings, fmt.Sprintf("pin created but local mirror not updated: %v", err))
	}
	return res, nil
}

// DeletePin removes a pin from the remote timeline and the local mirror. A
// pin the remote service no longer knows about is not an error — the local
// entry is cleaned up either way.
func (s *Service) DeletePin(ctx context.Context, tokenOverride, id string) (*Result, error) {
	token, err := s.creds.Token(tokenOverride)
	if err != nil {
		return nil, err
	}
	if id == "" {
		return nil, fmt.Errorf("pin id is required")
	}

	if err := s.api.DeletePin(ctx, token, id); err != nil && !errors.Is(err, timeline.ErrPinNotFound) {
		return nil, fmt.Errorf("deleting pin %q: %w", id, err)
	}

	res := &Result{}
	removed, err := s.coord.DeletePin(token, id)
	res.Removed = removed
	if err != nil {
		res.Warnings = append(res.Warnings, fmt.Sprintf("pin deleted but local mirror not updated: %v", err))
	}
	return res, nil
}

// ListPins returns the locally mirrored pins for the resolved token whose
// event time falls within the optional bounds. Never touches the network.
func (s *Service) ListPins(ctx context.Context, tokenOverride string, from, to *time.Time) (*Result, error) {
	token, err := s.creds.Token(tokenOverride)
	if err != nil {
		return nil, err
	}
	return &Result{Pins: s.coord.ListPins(token, from, to)}, nil
}
