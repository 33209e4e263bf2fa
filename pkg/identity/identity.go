package identity

import "context"

// Resolver resuelve el id del usuario responsable de una operación.
// Devuelve ("", false) cuando no hay usuario; el motor decide si eso es un
// error según la opción allow_no_user.
type Resolver interface {
	Resolve(ctx context.Context) (actorID string, ok bool)
}

type ctxKey struct{}

// WithActor devuelve un contexto con el id del actor adjunto. El caller
// resuelve la identidad antes de invocar el motor y la propaga explícitamente.
func WithActor(ctx context.Context, actorID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, actorID)
}

// ContextResolver lee el actor adjuntado al contexto con WithActor.
type ContextResolver struct{}

// Resolve implementa Resolver.
func (ContextResolver) Resolve(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ctxKey{}).(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// Anonymous nunca resuelve un actor; útil cuando los cambios anónimos están permitidos.
type Anonymous struct{}

// Resolve implementa Resolver.
func (Anonymous) Resolve(context.Context) (string, bool) { return "", false }
