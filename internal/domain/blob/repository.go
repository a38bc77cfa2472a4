package blob

import (
	"context"
	"io"
)

// Store exposes the remote object storage operations the sync and backup
// flows need. Exists answers false only for a canonical not-found response;
// any other failure (auth, network, throttling) must surface as an error so
// callers can tell "absent" from "could not check". Implementations must be
// safe for concurrent calls.
type Store interface {
	Exists(ctx context.Context, key string) (bool, error)
	Put(ctx context.Context, key string, body io.Reader, contentType string) error
}
