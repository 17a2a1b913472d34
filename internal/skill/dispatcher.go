// Package skill routes voice requests the way the platform SDKs do: a
// chain of handlers, each with a predicate, where the first match wins
// and a catch-all apology covers everything else.
package skill

import (
	"context"
	"fmt"
	"log"

	"voxbridge/internal/models"
)

// Handler responds to one kind of voice request.
type Handler interface {
	CanHandle(env *models.RequestEnvelope) bool
	Handle(ctx context.Context, env *models.RequestEnvelope) (*models.ResponseEnvelope, error)
}

type Dispatcher struct {
	handlers []Handler
}

func NewDispatcher(handlers ...Handler) *Dispatcher {
	return &Dispatcher{handlers: handlers}
}

// Dispatch picks the first handler whose predicate matches. The speaker
// always gets a spoken reply: unmatched requests, handler errors, and
// handler panics all turn into the apology.
func (d *Dispatcher) Dispatch(ctx context.Context, env *models.RequestEnvelope) (resp *models.ResponseEnvelope) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from handler panic on %s: %v", describe(env), r)
			resp = ApologyResponse()
		}
	}()

	for _, h := range d.handlers {
		if !h.CanHandle(env) {
			continue
		}
		out, err := h.Handle(ctx, env)
		if err != nil {
			log.Printf("Handler failed for %s: %v", describe(env), err)
			return ApologyResponse()
		}
		return out
	}

	log.Printf("No handler matched %s", describe(env))
	return ApologyResponse()
}

func describe(env *models.RequestEnvelope) string {
	if env == nil || env.Request == nil {
		return "empty envelope"
	}
	if name := env.IntentName(); name != "" {
		return fmt.Sprintf("%s/%s", env.Request.Type, name)
	}
	return env.Request.Type
}
