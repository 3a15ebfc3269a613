// Package effects hides the alien language's two external interactions
// — send and display — behind a two-operation contract, per §4.5. The
// evaluator depends only on this interface, never on net/http or an
// image sink directly, so it can be driven by a scripted stub in tests.
package effects

import (
	"context"
	"fmt"

	"github.com/vic/alienvm/pkg/symbol"
)

// SendKind enumerates the SendError taxonomy of §7.
type SendKind string

const (
	Network   SendKind = "network"
	Status    SendKind = "status"
	Protocol  SendKind = "protocol"
	Cancelled SendKind = "cancelled"
)

// SendError is returned by Send. It is never wrapped into an EvalError
// — §7 treats it as a sibling of the taxonomy, propagated as-is.
type SendError struct {
	Kind SendKind
	Err  error
}

func (e *SendError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("send error: %s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("send error: %s", e.Kind)
}

func (e *SendError) Unwrap() error { return e.Err }

// Effects is the evaluator's only window onto the outside world.
type Effects interface {
	// Send delivers a modulated request (a '0'/'1' bit string) and
	// blocks until a modulated response is available, or ctx is
	// cancelled. The evaluator never retries a failed Send — that is
	// the caller's responsibility.
	Send(ctx context.Context, bits string) (string, error)

	// Display consumes a rendered picture. It has no result: failures
	// are the implementation's concern to log, not the evaluator's to
	// surface.
	Display(pic *symbol.Picture)
}
