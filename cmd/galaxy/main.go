// Command galaxy is the thin CLI collaborator described in spec §6: it
// reads a program, wires it to a live HTTP/PNG effects boundary, and
// runs its entry point through the interact protocol against a remote
// server. It is the new counterpart to the teacher's cmd/godnet, which
// drove its reduction engine from a file or stdin with no network side.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/golang/glog"

	"github.com/vic/alienvm/pkg/effects"
	"github.com/vic/alienvm/pkg/eval"
	"github.com/vic/alienvm/pkg/parser"
	"github.com/vic/alienvm/pkg/symbol"
)

// Exit codes per §6: 0 normal termination, 1 transport error, 2
// unexpected HTTP status.
const (
	exitOK        = 0
	exitTransport = 1
	exitStatus    = 2
)

func main() {
	os.Exit(run())
}

func run() int {
	if len(os.Args) != 3 {
		fmt.Fprintf(os.Stderr, "usage: %s server_url player_key\n", os.Args[0])
		return exitTransport
	}
	serverURL, playerKey := os.Args[1], os.Args[2]

	source, err := io.ReadAll(os.Stdin)
	if err != nil {
		glog.Fatalf("galaxy: read program: %v", err)
	}

	env, err := parser.ParseProgram(string(source))
	if err != nil {
		glog.Fatalf("galaxy: %v", err)
	}

	entry, ok := env.Lookup("galaxy")
	if !ok {
		entry, ok = env.Lookup("main")
	}
	if !ok {
		glog.Fatalf("galaxy: program defines neither 'galaxy' nor 'main'")
	}

	imageDir := os.Getenv("ALIENVM_IMAGE_DIR")
	if imageDir == "" {
		imageDir = "."
	}
	fx, err := effects.NewLive(serverURL, playerKey, imageDir)
	if err != nil {
		glog.Fatalf("galaxy: %v", err)
	}

	ev := eval.New(env, fx, 0)
	ctx := context.Background()

	state := symbol.NilValue
	vector := symbol.List(symbol.NewLit(0), symbol.NewLit(0))
	request := symbol.Apply(symbol.Apply(symbol.Apply(symbol.InteractValue, entry), state), vector)
	_, err = ev.Force(ctx, request)
	if err != nil {
		return classify(err)
	}
	return exitOK
}

func classify(err error) int {
	var sendErr *effects.SendError
	if asSendError(err, &sendErr) {
		switch sendErr.Kind {
		case effects.Status:
			glog.Errorf("galaxy: %v", err)
			return exitStatus
		default:
			glog.Errorf("galaxy: %v", err)
			return exitTransport
		}
	}
	glog.Errorf("galaxy: %v", err)
	return exitTransport
}

func asSendError(err error, target **effects.SendError) bool {
	for err != nil {
		if se, ok := err.(*effects.SendError); ok {
			*target = se
			return true
		}
		unwrapper, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = unwrapper.Unwrap()
	}
	return false
}
