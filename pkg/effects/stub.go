package effects

import (
	"context"
	"fmt"

	"github.com/vic/alienvm/pkg/symbol"
)

// Scripted is a test double that replies to Send from a fixed
// request->response map and records every Display call, so the
// evaluator can be exercised end to end without a live server — the
// "test stub that records and replies from a scripted map" §4.5 calls
// for.
type Scripted struct {
	Replies   map[string]string
	Displayed []*symbol.Picture
	sends     []string
}

// NewScripted builds a stub with the given canned replies.
func NewScripted(replies map[string]string) *Scripted {
	return &Scripted{Replies: replies}
}

func (s *Scripted) Send(_ context.Context, bits string) (string, error) {
	s.sends = append(s.sends, bits)
	reply, ok := s.Replies[bits]
	if !ok {
		return "", &SendError{Kind: Protocol, Err: fmt.Errorf("no scripted reply for %q", bits)}
	}
	return reply, nil
}

func (s *Scripted) Display(pic *symbol.Picture) {
	s.Displayed = append(s.Displayed, pic)
}

// Sends returns every bit string Send was called with, in call order.
func (s *Scripted) Sends() []string {
	out := make([]string, len(s.sends))
	copy(out, s.sends)
	return out
}
